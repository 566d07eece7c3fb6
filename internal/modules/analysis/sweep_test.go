package analysis

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/moodtrack/core/internal/models"
)

const sweepReply = "Consolidated.\n\n" +
	"```json\n" +
	`{"date": "2026-08-30", "recurring_triggers": [` +
	`{"sub_category": "deadlines", "impact": "negative", "description": "recurred all week"}],` +
	`"significant_events": [{"sub_category": "trip", "impact": "positive", "description": "weekend away"}]}` +
	"\n```"

func seedWeekRecords(store *fakeAnalysisStore, userID string, category models.AnalysisCategory, n int, day time.Time) {
	for i := 0; i < n; i++ {
		store.rows = append(store.rows, models.MoodAnalysisModel{
			Base:        models.Base{ID: fmt.Sprintf("%s-%d", category, i)},
			Date:        day.Add(time.Duration(i) * time.Hour),
			Category:    category,
			SubCategory: "x",
			Impact:      "y",
			Description: "z",
			UserID:      userID,
		})
	}
}

func TestSweepEmptyWeekIsNoop(t *testing.T) {
	t.Parallel()

	records := &fakeAnalysisStore{}
	gen := &fakeGenerator{}
	svc := newTestService(&fakeEntryStore{}, records, gen, 100)

	if err := svc.WeeklySweep(context.Background(), "u1", testNow); err != nil {
		t.Fatalf("WeeklySweep: %v", err)
	}
	if gen.calls() != 0 {
		t.Fatalf("generation calls = %d, want 0", gen.calls())
	}
	if records.inserts != 0 || len(records.deletes) != 0 {
		t.Fatalf("store mutated on empty week: inserts=%d deletes=%v", records.inserts, records.deletes)
	}
}

func TestSweepCallCountAndSentinel(t *testing.T) {
	t.Parallel()

	records := &fakeAnalysisStore{}
	inWeek := time.Date(2026, 8, 26, 10, 0, 0, 0, time.UTC)
	seedWeekRecords(records, "u1", models.CategoryRecurringTriggers, 4, inWeek)
	seedWeekRecords(records, "u1", models.CategorySignificantEvents, 2, inWeek)

	gen := &fakeGenerator{reply: func(call int, prompt string) (string, error) {
		if strings.Contains(prompt, "RECURRING_TRIGGERS\n") && strings.Contains(prompt, "SIGNIFICANT_EVENTS") {
			return sweepReply, nil
		}
		return "category summary", nil
	}}
	svc := newTestService(&fakeEntryStore{}, records, gen, 100)

	if err := svc.WeeklySweep(context.Background(), "u1", testNow); err != nil {
		t.Fatalf("WeeklySweep: %v", err)
	}

	// Three per-category calls plus one consolidation call.
	if gen.calls() != 4 {
		t.Fatalf("generation calls = %d, want 4", gen.calls())
	}
	// The templates mention the sentinel in their instructions, so assert
	// against the RECORDS section substitution itself.
	sentinelSection := "<<<RECORDS\n" + sentinelNoRecordsFound + "\nRECORDS"
	if !strings.Contains(gen.prompts[1], sentinelSection) {
		t.Fatalf("empty category prompt should embed the sentinel as its input:\n%s", gen.prompts[1])
	}
	if strings.Contains(gen.prompts[0], sentinelSection) {
		t.Fatalf("populated category prompt must not substitute the sentinel")
	}
	if !strings.Contains(gen.prompts[0], "id,date,category,sub_category,impact,description") {
		t.Fatalf("populated category prompt should embed the week's rows as csv:\n%s", gen.prompts[0])
	}
	if !strings.Contains(gen.prompts[0], "recurring_triggers-0,") {
		t.Fatalf("populated category prompt missing the seeded rows:\n%s", gen.prompts[0])
	}

	// Originals replaced by the consolidated rows.
	if len(records.deletes) != 1 || len(records.deletes[0]) != 6 {
		t.Fatalf("deletes = %v, want one batch of the 6 originals", records.deletes)
	}
	if len(records.rows) != 2 {
		t.Fatalf("remaining rows = %d, want 2 consolidated", len(records.rows))
	}
}

func TestSweepAllInvalidReplacementKeepsOriginals(t *testing.T) {
	t.Parallel()

	records := &fakeAnalysisStore{}
	seedWeekRecords(records, "u1", models.CategoryRecurringTriggers, 5, time.Date(2026, 8, 25, 9, 0, 0, 0, time.UTC))

	// Decodes fine, but every record fails field validation.
	reply := "```json\n" +
		`{"recurring_triggers": [{"impact": "x", "description": "missing sub_category"}]}` +
		"\n```"
	gen := &fakeGenerator{reply: func(call int, prompt string) (string, error) {
		if strings.Contains(prompt, "RECURRING_TRIGGERS\n") && strings.Contains(prompt, "SIGNIFICANT_EVENTS") {
			return reply, nil
		}
		return "category summary", nil
	}}
	svc := newTestService(&fakeEntryStore{}, records, gen, 100)

	if err := svc.WeeklySweep(context.Background(), "u1", testNow); err != nil {
		t.Fatalf("WeeklySweep: %v", err)
	}
	if len(records.deletes) != 0 {
		t.Fatalf("originals must survive a replacement batch with no valid records")
	}
	if len(records.rows) != 5 {
		t.Fatalf("rows = %d, want 5 untouched", len(records.rows))
	}
}

func TestSweepUnparseableReplyKeepsOriginals(t *testing.T) {
	t.Parallel()

	records := &fakeAnalysisStore{}
	seedWeekRecords(records, "u1", models.CategoryRecurringTriggers, 3, time.Date(2026, 8, 25, 9, 0, 0, 0, time.UTC))

	gen := &fakeGenerator{} // prose only, consolidation reply has no fenced block
	svc := newTestService(&fakeEntryStore{}, records, gen, 100)

	if err := svc.WeeklySweep(context.Background(), "u1", testNow); err != nil {
		t.Fatalf("WeeklySweep: %v", err)
	}
	if len(records.deletes) != 0 {
		t.Fatalf("originals must survive an unparseable consolidation reply")
	}
	if len(records.rows) != 3 {
		t.Fatalf("rows = %d, want 3 untouched", len(records.rows))
	}
}
