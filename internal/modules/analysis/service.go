package analysis

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/moodtrack/core/internal/models"
	"github.com/moodtrack/core/internal/modules/ai"
	"go.uber.org/zap"
)

// Service runs the mood-analysis pipeline and owns the retention invariant
// over the analysis table. All mutation paths for a user run under that
// user's lock, so the pipeline and the weekly sweep never interleave.
type Service struct {
	entries   EntryStore
	records   AnalysisStore
	generator ai.Generator
	loc       *time.Location
	retention int
	logger    *zap.Logger

	userLocks sync.Map // userID -> *sync.Mutex
}

func NewService(entries EntryStore, records AnalysisStore, generator ai.Generator, loc *time.Location, retention int, logger *zap.Logger) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		entries:   entries,
		records:   records,
		generator: generator,
		loc:       loc,
		retention: retention,
		logger:    logger.Named("Analysis"),
	}
}

func (s *Service) lockUser(userID string) func() {
	mu, _ := s.userLocks.LoadOrStore(userID, &sync.Mutex{})
	m := mu.(*sync.Mutex)
	m.Lock()
	return m.Unlock
}

// Records returns a user's analysis rows for the given period window.
func (s *Service) Records(ctx context.Context, userID string, period Period, now time.Time) ([]models.MoodAnalysisModel, error) {
	start, end, bounded := period.Window(now, s.loc)
	if !bounded {
		return s.records.FetchAll(ctx, userID)
	}
	return s.records.FetchWindow(ctx, userID, start, end)
}

// UserIDs lists every user with at least one mood entry.
func (s *Service) UserIDs(ctx context.Context) ([]string, error) {
	return s.entries.UserIDs(ctx)
}

// Trim enforces the retention cap: when a user's analysis rows exceed the
// cap, the oldest-by-date rows are deleted until exactly cap remain. At or
// under the cap it is a no-op, so repeated invocation is safe.
func (s *Service) Trim(ctx context.Context, userID string) error {
	rows, err := s.records.FetchAll(ctx, userID)
	if err != nil {
		return err
	}
	excess := len(rows) - s.retention
	if excess <= 0 {
		return nil
	}

	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Date.Before(rows[j].Date) })
	ids := make([]string, 0, excess)
	for _, r := range rows[:excess] {
		ids = append(ids, r.ID)
	}
	if err := s.records.Delete(ctx, userID, ids); err != nil {
		return err
	}
	s.logger.Info("trimmed analysis rows",
		zap.String("userId", userID),
		zap.Int("deleted", excess),
		zap.Int("kept", s.retention))
	return nil
}

// insertPayload persists a parsed payload as analysis rows. Records missing
// a required field are skipped with a log line rather than failing the
// batch. Returns the rows actually inserted.
func (s *Service) insertPayload(ctx context.Context, userID string, payload *ParsedPayload, fallback time.Time) ([]models.MoodAnalysisModel, error) {
	date := payload.Date
	if date.IsZero() {
		date = fallback
	}

	var rows []models.MoodAnalysisModel
	for _, category := range models.AllAnalysisCategories {
		for _, rec := range payload.Categories[category] {
			if !rec.Valid() {
				s.logger.Warn("skipping incomplete analysis record",
					zap.String("userId", userID),
					zap.String("category", string(category)),
					zap.String("subCategory", rec.SubCategory))
				continue
			}
			rows = append(rows, models.MoodAnalysisModel{
				Date:        date,
				Category:    category,
				SubCategory: rec.SubCategory,
				Impact:      rec.Impact,
				Description: rec.Description,
				UserID:      userID,
			})
		}
	}
	if len(rows) == 0 {
		return nil, nil
	}
	if err := s.records.Insert(ctx, rows); err != nil {
		return nil, err
	}
	return rows, nil
}
