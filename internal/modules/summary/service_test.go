package summary

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/moodtrack/core/internal/models"
	"github.com/moodtrack/core/internal/modules/ai"
	"github.com/moodtrack/core/internal/modules/analysis"
	"go.uber.org/zap"
)

type stubEntryStore struct {
	rows []models.MoodEntryModel
}

func (s *stubEntryStore) Create(context.Context, *models.MoodEntryModel) error { return nil }

func (s *stubEntryStore) FetchWindow(_ context.Context, userID string, start, end time.Time) ([]models.MoodEntryModel, error) {
	var out []models.MoodEntryModel
	for _, r := range s.rows {
		if r.UserID == userID && !r.Date.Before(start) && r.Date.Before(end) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *stubEntryStore) FetchAll(_ context.Context, userID string) ([]models.MoodEntryModel, error) {
	return s.rows, nil
}

func (s *stubEntryStore) UserIDs(context.Context) ([]string, error) { return nil, nil }

type stubAnalysisStore struct{}

func (stubAnalysisStore) FetchWindow(context.Context, string, time.Time, time.Time) ([]models.MoodAnalysisModel, error) {
	return nil, nil
}
func (stubAnalysisStore) FetchAll(context.Context, string) ([]models.MoodAnalysisModel, error) {
	return nil, nil
}
func (stubAnalysisStore) Insert(context.Context, []models.MoodAnalysisModel) error { return nil }
func (stubAnalysisStore) Delete(context.Context, string, []string) error           { return nil }

type stubGenerator struct {
	prompts []string
}

func (g *stubGenerator) Generate(_ context.Context, prompt string, _ ai.GenerateOptions) (string, error) {
	g.prompts = append(g.prompts, prompt)
	return "You had a quiet day.", nil
}

type memObjectStore struct {
	objects map[string][]byte
}

func newMemObjectStore() *memObjectStore {
	return &memObjectStore{objects: map[string][]byte{}}
}

func (m *memObjectStore) Upload(_ context.Context, key string, body []byte) error {
	m.objects[key] = body
	return nil
}

func (m *memObjectStore) Download(_ context.Context, key string) ([]byte, error) {
	body, ok := m.objects[key]
	if !ok {
		return nil, ErrObjectNotFound
	}
	return body, nil
}

var testNow = time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC) // Tuesday

func TestObjectKey(t *testing.T) {
	t.Parallel()

	got := ObjectKey("u1", analysis.PeriodDaily, "2026-08-31")
	if got != "u1/dailysummary_u1_2026-08-31.txt" {
		t.Fatalf("key = %q", got)
	}
	got = ObjectKey("u1", analysis.PeriodWeekly, "2026-08-24")
	if got != "u1/weeklysummary_u1_2026-08-24.txt" {
		t.Fatalf("key = %q", got)
	}
}

func TestRunEmptyWindowStillSummarizes(t *testing.T) {
	t.Parallel()

	gen := &stubGenerator{}
	store := newMemObjectStore()
	svc := NewService(&stubEntryStore{}, stubAnalysisStore{}, gen, store, time.UTC, zap.NewNop())

	text, err := svc.Run(context.Background(), "u1", analysis.PeriodDaily, testNow)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if text == "" {
		t.Fatalf("expected summary text")
	}
	if len(gen.prompts) != 1 {
		t.Fatalf("generation calls = %d, want 1", len(gen.prompts))
	}
	if c := strings.Count(gen.prompts[0], sentinelNoRecords); c < 2 {
		t.Fatalf("prompt should carry the sentinel for both empty inputs, found %d", c)
	}
	if _, ok := store.objects["u1/dailysummary_u1_2026-08-31.txt"]; !ok {
		t.Fatalf("summary not uploaded under the window key, got %v", keys(store))
	}
}

func TestRunEmbedsEntries(t *testing.T) {
	t.Parallel()

	entries := &stubEntryStore{rows: []models.MoodEntryModel{{
		Base:        models.Base{ID: "me-1"},
		Date:        time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC),
		Mood:        3,
		Description: "rough morning meeting",
		UserID:      "u1",
	}}}
	gen := &stubGenerator{}
	svc := NewService(entries, stubAnalysisStore{}, gen, newMemObjectStore(), time.UTC, zap.NewNop())

	if _, err := svc.Run(context.Background(), "u1", analysis.PeriodDaily, testNow); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(gen.prompts[0], "rough morning meeting") {
		t.Fatalf("prompt missing entry text")
	}
}

func TestRunRejectsAllPeriod(t *testing.T) {
	t.Parallel()

	svc := NewService(&stubEntryStore{}, stubAnalysisStore{}, &stubGenerator{}, newMemObjectStore(), time.UTC, zap.NewNop())
	if _, err := svc.Run(context.Background(), "u1", analysis.PeriodAll, testNow); err == nil {
		t.Fatalf("expected error for unbounded period")
	}
}

func TestFetchMissingObject(t *testing.T) {
	t.Parallel()

	svc := NewService(&stubEntryStore{}, stubAnalysisStore{}, &stubGenerator{}, newMemObjectStore(), time.UTC, zap.NewNop())
	if _, err := svc.Fetch(context.Background(), "u1", analysis.PeriodDaily, testNow); err != ErrObjectNotFound {
		t.Fatalf("err = %v, want ErrObjectNotFound", err)
	}
}

func keys(m *memObjectStore) []string {
	var out []string
	for k := range m.objects {
		out = append(out, k)
	}
	return out
}
