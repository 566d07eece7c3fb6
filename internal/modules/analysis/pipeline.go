package analysis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/moodtrack/core/internal/models"
	"github.com/moodtrack/core/internal/modules/ai"
	"go.uber.org/zap"
)

// RunPipeline executes the full analysis chain for one user and window:
// repeated extraction over the entry window, consolidation of the runs,
// refinement against the user's historical records, then parse, insert and
// trim. An empty window returns ErrEmptyWindow before any generation call.
// A generation failure aborts the run with nothing persisted.
func (s *Service) RunPipeline(ctx context.Context, userID string, period Period, now time.Time) error {
	unlock := s.lockUser(userID)
	defer unlock()

	entries, err := s.windowEntries(ctx, userID, period, now)
	if err != nil {
		return fmt.Errorf("fetch entries: %w", err)
	}
	if len(entries) == 0 {
		s.logger.Info("no entries in window, skipping analysis",
			zap.String("userId", userID),
			zap.String("period", string(period)))
		return ErrEmptyWindow
	}

	entriesCSV := EntriesCSV(entries)
	runs := extractionRuns(len(entries))

	var runsBuilder strings.Builder
	for i := 0; i < runs; i++ {
		reply, err := s.generator.Generate(ctx, buildExtractionPrompt(entriesCSV), ai.GenerateOptions{
			Temperature:     extractionTemperature,
			TopP:            defaultTopP,
			PresencePenalty: extractionPresence,
		})
		if err != nil {
			return fmt.Errorf("extraction run %d/%d: %w", i+1, runs, err)
		}
		fmt.Fprintf(&runsBuilder, "--- analysis %d ---\n%s\n", i+1, reply)
	}

	consolidated, err := s.generator.Generate(ctx, buildConsolidationPrompt(runsBuilder.String()), ai.GenerateOptions{
		Temperature: consolidationTemperature,
		TopP:        defaultTopP,
	})
	if err != nil {
		return fmt.Errorf("consolidation: %w", err)
	}

	history, err := s.records.FetchAll(ctx, userID)
	if err != nil {
		return fmt.Errorf("fetch history: %w", err)
	}

	refined, err := s.generator.Generate(ctx, buildRefinementPrompt(consolidated, recordsOrSentinel(history)), ai.GenerateOptions{
		Temperature: refinementTemperature,
		TopP:        defaultTopP,
	})
	if err != nil {
		return fmt.Errorf("refinement: %w", err)
	}

	result := ExtractPayload(refined)
	if !result.OK {
		s.logger.Warn("refinement reply carried no parseable payload",
			zap.String("userId", userID),
			zap.String("period", string(period)))
		return nil
	}

	rows, err := s.insertPayload(ctx, userID, result.Payload, s.windowFallbackDate(period, now))
	if err != nil {
		return fmt.Errorf("insert analysis: %w", err)
	}
	s.logger.Info("analysis run complete",
		zap.String("userId", userID),
		zap.String("period", string(period)),
		zap.Int("extractionRuns", runs),
		zap.Int("inserted", len(rows)))

	return s.Trim(ctx, userID)
}

func (s *Service) windowEntries(ctx context.Context, userID string, period Period, now time.Time) ([]models.MoodEntryModel, error) {
	start, end, bounded := period.Window(now, s.loc)
	if !bounded {
		return s.entries.FetchAll(ctx, userID)
	}
	return s.entries.FetchWindow(ctx, userID, start, end)
}

// windowFallbackDate dates inserted rows when the model reply omits a date:
// the last covered day for bounded windows, today otherwise.
func (s *Service) windowFallbackDate(period Period, now time.Time) time.Time {
	_, end, bounded := period.Window(now, s.loc)
	if !bounded {
		local := now.In(s.loc)
		return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, s.loc)
	}
	return end.AddDate(0, 0, -1)
}
