package analysis

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/moodtrack/core/internal/models"
	"github.com/moodtrack/core/internal/modules/ai"
	"go.uber.org/zap"
)

type fakeGenerator struct {
	mu      sync.Mutex
	prompts []string
	opts    []ai.GenerateOptions
	reply   func(call int, prompt string) (string, error)
}

func (g *fakeGenerator) Generate(_ context.Context, prompt string, opts ai.GenerateOptions) (string, error) {
	g.mu.Lock()
	call := len(g.prompts)
	g.prompts = append(g.prompts, prompt)
	g.opts = append(g.opts, opts)
	g.mu.Unlock()

	if g.reply != nil {
		return g.reply(call, prompt)
	}
	return "nothing notable", nil
}

func (g *fakeGenerator) calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.prompts)
}

type fakeEntryStore struct {
	rows []models.MoodEntryModel
}

func (s *fakeEntryStore) Create(_ context.Context, entry *models.MoodEntryModel) error {
	s.rows = append(s.rows, *entry)
	return nil
}

func (s *fakeEntryStore) FetchWindow(_ context.Context, userID string, start, end time.Time) ([]models.MoodEntryModel, error) {
	var out []models.MoodEntryModel
	for _, r := range s.rows {
		if r.UserID == userID && !r.Date.Before(start) && r.Date.Before(end) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *fakeEntryStore) FetchAll(_ context.Context, userID string) ([]models.MoodEntryModel, error) {
	var out []models.MoodEntryModel
	for _, r := range s.rows {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *fakeEntryStore) UserIDs(_ context.Context) ([]string, error) {
	seen := map[string]bool{}
	var out []string
	for _, r := range s.rows {
		if !seen[r.UserID] {
			seen[r.UserID] = true
			out = append(out, r.UserID)
		}
	}
	return out, nil
}

type fakeAnalysisStore struct {
	rows    []models.MoodAnalysisModel
	nextID  int
	inserts int
	deletes [][]string
}

func (s *fakeAnalysisStore) FetchWindow(_ context.Context, userID string, start, end time.Time) ([]models.MoodAnalysisModel, error) {
	var out []models.MoodAnalysisModel
	for _, r := range s.rows {
		if r.UserID == userID && !r.Date.Before(start) && r.Date.Before(end) {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (s *fakeAnalysisStore) FetchAll(_ context.Context, userID string) ([]models.MoodAnalysisModel, error) {
	var out []models.MoodAnalysisModel
	for _, r := range s.rows {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (s *fakeAnalysisStore) Insert(_ context.Context, rows []models.MoodAnalysisModel) error {
	s.inserts++
	for _, r := range rows {
		if r.ID == "" {
			s.nextID++
			r.ID = fmt.Sprintf("ma-%d", s.nextID)
		}
		s.rows = append(s.rows, r)
	}
	return nil
}

func (s *fakeAnalysisStore) Delete(_ context.Context, userID string, ids []string) error {
	s.deletes = append(s.deletes, ids)
	drop := map[string]bool{}
	for _, id := range ids {
		drop[id] = true
	}
	kept := s.rows[:0]
	for _, r := range s.rows {
		if r.UserID == userID && drop[r.ID] {
			continue
		}
		kept = append(kept, r)
	}
	s.rows = kept
	return nil
}

func newTestService(entries *fakeEntryStore, records *fakeAnalysisStore, gen *fakeGenerator, retention int) *Service {
	return NewService(entries, records, gen, time.UTC, retention, zap.NewNop())
}

func seedEntries(store *fakeEntryStore, userID string, dates ...time.Time) {
	for i, d := range dates {
		store.rows = append(store.rows, models.MoodEntryModel{
			Base:        models.Base{ID: fmt.Sprintf("me-%d", i+1)},
			Date:        d,
			Mood:        5 + float64(i%3),
			Description: fmt.Sprintf("entry %d", i+1),
			UserID:      userID,
		})
	}
}
