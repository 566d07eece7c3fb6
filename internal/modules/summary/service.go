package summary

import (
	"context"
	"fmt"
	"time"

	"github.com/moodtrack/core/internal/modules/ai"
	"github.com/moodtrack/core/internal/modules/analysis"
	"go.uber.org/zap"
)

const sentinelNoRecords = "no records"

// Summaries read like reflections, so sampling matches the exploratory
// extraction stage rather than the convergent consolidation ones.
const (
	summaryTemperature = 0.4
	summaryPresence    = 0.2
	summaryTopP        = 1.0
)

// Service produces narrative period summaries and stores them as text
// objects. Unlike the analysis pipeline, an empty entry window still yields
// a summary call; the model is told the window was quiet.
type Service struct {
	entries   analysis.EntryStore
	records   analysis.AnalysisStore
	generator ai.Generator
	store     ObjectStore
	loc       *time.Location
	logger    *zap.Logger
}

func NewService(entries analysis.EntryStore, records analysis.AnalysisStore, generator ai.Generator, store ObjectStore, loc *time.Location, logger *zap.Logger) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		entries:   entries,
		records:   records,
		generator: generator,
		store:     store,
		loc:       loc,
		logger:    logger.Named("Summary"),
	}
}

// ObjectKey names the summary object for one user and window.
func ObjectKey(userID string, period analysis.Period, windowDate string) string {
	return fmt.Sprintf("%s/%ssummary_%s_%s.txt", userID, period, userID, windowDate)
}

// Run generates the narrative summary for the period's window and uploads
// it, returning the text.
func (s *Service) Run(ctx context.Context, userID string, period analysis.Period, now time.Time) (string, error) {
	if period != analysis.PeriodDaily && period != analysis.PeriodWeekly {
		return "", fmt.Errorf("unsupported summary period %q", period)
	}

	start, end, _ := period.Window(now, s.loc)
	entries, err := s.entries.FetchWindow(ctx, userID, start, end)
	if err != nil {
		return "", fmt.Errorf("fetch entries: %w", err)
	}
	records, err := s.records.FetchWindow(ctx, userID, start, end)
	if err != nil {
		return "", fmt.Errorf("fetch analysis history: %w", err)
	}

	entriesCSV := sentinelNoRecords
	if len(entries) > 0 {
		entriesCSV = analysis.EntriesCSV(entries)
	}
	historyCSV := sentinelNoRecords
	if len(records) > 0 {
		historyCSV = analysis.RecordsCSV(records)
	}

	text, err := s.generator.Generate(ctx, buildSummaryPrompt(period == analysis.PeriodDaily, entriesCSV, historyCSV), ai.GenerateOptions{
		Temperature:     summaryTemperature,
		TopP:            summaryTopP,
		PresencePenalty: summaryPresence,
	})
	if err != nil {
		return "", fmt.Errorf("summary generation: %w", err)
	}

	key := ObjectKey(userID, period, period.WindowDate(now, s.loc))
	if err := s.store.Upload(ctx, key, []byte(text)); err != nil {
		return "", err
	}
	s.logger.Info("summary stored",
		zap.String("userId", userID),
		zap.String("period", string(period)),
		zap.String("key", key))
	return text, nil
}

// Fetch downloads the stored summary for the period's current window.
func (s *Service) Fetch(ctx context.Context, userID string, period analysis.Period, now time.Time) ([]byte, error) {
	if period != analysis.PeriodDaily && period != analysis.PeriodWeekly {
		return nil, fmt.Errorf("unsupported summary period %q", period)
	}
	return s.store.Download(ctx, ObjectKey(userID, period, period.WindowDate(now, s.loc)))
}
