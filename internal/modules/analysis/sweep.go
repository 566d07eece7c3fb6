package analysis

import (
	"context"
	"fmt"
	"time"

	"github.com/moodtrack/core/internal/models"
	"github.com/moodtrack/core/internal/modules/ai"
	"go.uber.org/zap"
)

// WeeklySweep compresses the prior week's analysis rows into a consolidated
// record set: one generation call per category (empty categories send the
// "no records found" sentinel), one cross-category consolidation call, then
// parse, insert the replacement rows, delete the originals, and trim.
//
// Ordering is deliberate. The replacement rows are parsed and inserted
// before the originals are deleted, so a failure at any point leaves the
// originals intact. The worst outcome is temporary duplication, which the
// next sweep collapses.
func (s *Service) WeeklySweep(ctx context.Context, userID string, now time.Time) error {
	unlock := s.lockUser(userID)
	defer unlock()

	start, end, _ := PeriodWeekly.Window(now, s.loc)
	originals, err := s.records.FetchWindow(ctx, userID, start, end)
	if err != nil {
		return fmt.Errorf("fetch week records: %w", err)
	}
	if len(originals) == 0 {
		s.logger.Info("no analysis rows in week, skipping sweep",
			zap.String("userId", userID))
		return nil
	}

	byCategory := make(map[models.AnalysisCategory][]models.MoodAnalysisModel, len(models.AllAnalysisCategories))
	for _, row := range originals {
		byCategory[row.Category] = append(byCategory[row.Category], row)
	}

	summaries := make(map[models.AnalysisCategory]string, len(models.AllAnalysisCategories))
	for _, category := range models.AllAnalysisCategories {
		input := sentinelNoRecordsFound
		if rows := byCategory[category]; len(rows) > 0 {
			input = RecordsCSV(rows)
		}
		summary, err := s.generator.Generate(ctx, buildSweepCategoryPrompt(category, input), ai.GenerateOptions{
			Temperature: consolidationTemperature,
			TopP:        defaultTopP,
		})
		if err != nil {
			return fmt.Errorf("sweep category %s: %w", category, err)
		}
		summaries[category] = summary
	}

	reply, err := s.generator.Generate(ctx, buildSweepConsolidatePrompt(
		summaries[models.CategoryRecurringTriggers],
		summaries[models.CategoryMoodImpact],
		summaries[models.CategorySignificantEvents],
	), ai.GenerateOptions{
		Temperature: consolidationTemperature,
		TopP:        defaultTopP,
	})
	if err != nil {
		return fmt.Errorf("sweep consolidation: %w", err)
	}

	result := ExtractPayload(reply)
	if !result.OK {
		s.logger.Warn("sweep reply carried no parseable payload, keeping originals",
			zap.String("userId", userID),
			zap.Int("originals", len(originals)))
		return nil
	}

	inserted, err := s.insertPayload(ctx, userID, result.Payload, end.AddDate(0, 0, -1))
	if err != nil {
		return fmt.Errorf("insert sweep records: %w", err)
	}
	// A reply that decoded but yielded no valid records must not wipe the
	// week's history.
	if len(inserted) == 0 {
		s.logger.Warn("sweep produced no valid replacement records, keeping originals",
			zap.String("userId", userID),
			zap.Int("originals", len(originals)))
		return nil
	}

	ids := make([]string, 0, len(originals))
	for _, row := range originals {
		ids = append(ids, row.ID)
	}
	if err := s.records.Delete(ctx, userID, ids); err != nil {
		return fmt.Errorf("delete swept records: %w", err)
	}
	s.logger.Info("weekly sweep complete",
		zap.String("userId", userID),
		zap.Int("replaced", len(originals)),
		zap.Int("inserted", len(inserted)))

	return s.Trim(ctx, userID)
}
