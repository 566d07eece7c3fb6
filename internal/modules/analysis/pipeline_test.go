package analysis

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

var testNow = time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)

func yesterdayAt(hour int) time.Time {
	return time.Date(2026, 8, 31, hour, 0, 0, 0, time.UTC)
}

const refinedReply = "Merged with history.\n\n" +
	"```json\n" +
	`{"date": "2026-08-31", "recurring_triggers": [{"sub_category": "poor sleep", "impact": "negative", "description": "late nights"}]}` +
	"\n```"

// refinementAware answers the refinement prompt with a fenced payload and
// every other stage with prose.
func refinementAware(_ int, prompt string) (string, error) {
	if strings.Contains(prompt, "NEW_ANALYSIS") {
		return refinedReply, nil
	}
	return "sleep keeps coming up as a driver", nil
}

func TestPipelineCallCountFiveEntries(t *testing.T) {
	t.Parallel()

	entries := &fakeEntryStore{}
	seedEntries(entries, "u1", yesterdayAt(8), yesterdayAt(10), yesterdayAt(12), yesterdayAt(14), yesterdayAt(16))
	records := &fakeAnalysisStore{}
	gen := &fakeGenerator{reply: refinementAware}
	svc := newTestService(entries, records, gen, 100)

	if err := svc.RunPipeline(context.Background(), "u1", PeriodDaily, testNow); err != nil {
		t.Fatalf("RunPipeline: %v", err)
	}

	// 10 capped extraction runs + consolidation + refinement.
	if got := gen.calls(); got != 12 {
		t.Fatalf("generation calls = %d, want 12", got)
	}
	if gen.opts[0].Temperature != extractionTemperature || gen.opts[0].PresencePenalty != extractionPresence {
		t.Fatalf("extraction sampling = %+v", gen.opts[0])
	}
	if gen.opts[11].Temperature != refinementTemperature {
		t.Fatalf("refinement sampling = %+v", gen.opts[11])
	}
	if len(records.rows) != 1 {
		t.Fatalf("inserted rows = %d, want 1", len(records.rows))
	}
}

func TestPipelineSingleEntryCallCount(t *testing.T) {
	t.Parallel()

	entries := &fakeEntryStore{}
	seedEntries(entries, "u1", yesterdayAt(9))
	gen := &fakeGenerator{reply: refinementAware}
	svc := newTestService(entries, &fakeAnalysisStore{}, gen, 100)

	if err := svc.RunPipeline(context.Background(), "u1", PeriodDaily, testNow); err != nil {
		t.Fatalf("RunPipeline: %v", err)
	}
	if got := gen.calls(); got != 5 {
		t.Fatalf("generation calls = %d, want 5 (3 extraction + 2)", got)
	}
}

func TestPipelineEmptyWindowNoCalls(t *testing.T) {
	t.Parallel()

	entries := &fakeEntryStore{}
	seedEntries(entries, "u1", time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC)) // outside the daily window
	records := &fakeAnalysisStore{}
	gen := &fakeGenerator{}
	svc := newTestService(entries, records, gen, 100)

	err := svc.RunPipeline(context.Background(), "u1", PeriodDaily, testNow)
	if !errors.Is(err, ErrEmptyWindow) {
		t.Fatalf("err = %v, want ErrEmptyWindow", err)
	}
	if gen.calls() != 0 {
		t.Fatalf("generation calls = %d, want 0", gen.calls())
	}
	if records.inserts != 0 {
		t.Fatalf("inserts = %d, want 0", records.inserts)
	}
}

func TestPipelineRefinementSeesHistorySentinel(t *testing.T) {
	t.Parallel()

	entries := &fakeEntryStore{}
	seedEntries(entries, "u1", yesterdayAt(9))
	gen := &fakeGenerator{reply: refinementAware}
	svc := newTestService(entries, &fakeAnalysisStore{}, gen, 100)

	if err := svc.RunPipeline(context.Background(), "u1", PeriodDaily, testNow); err != nil {
		t.Fatalf("RunPipeline: %v", err)
	}
	// The template text itself quotes the sentinel, so assert against the
	// HISTORY section substitution.
	last := gen.prompts[len(gen.prompts)-1]
	if !strings.Contains(last, "<<<HISTORY\n"+sentinelNoRecords+"\nHISTORY") {
		t.Fatalf("refinement prompt should embed the empty-history sentinel:\n%s", last)
	}
}

func TestPipelineRefinementEmbedsHistoryRows(t *testing.T) {
	t.Parallel()

	entries := &fakeEntryStore{}
	seedEntries(entries, "u1", yesterdayAt(9))
	records := &fakeAnalysisStore{}
	seedAnalysisRows(records, "u1", 2, time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC))
	gen := &fakeGenerator{reply: refinementAware}
	svc := newTestService(entries, records, gen, 100)

	if err := svc.RunPipeline(context.Background(), "u1", PeriodDaily, testNow); err != nil {
		t.Fatalf("RunPipeline: %v", err)
	}
	last := gen.prompts[len(gen.prompts)-1]
	if strings.Contains(last, "<<<HISTORY\n"+sentinelNoRecords+"\nHISTORY") {
		t.Fatalf("refinement prompt must not substitute the sentinel when history exists")
	}
	if !strings.Contains(last, "row-000,") || !strings.Contains(last, "row-001,") {
		t.Fatalf("refinement prompt missing the historical rows:\n%s", last)
	}
}

func TestPipelineSkipsInvalidRecords(t *testing.T) {
	t.Parallel()

	reply := "```json\n" +
		`{"date": "2026-08-31", "recurring_triggers": [` +
		`{"sub_category": "a", "impact": "x", "description": "d1"},` +
		`{"sub_category": "b", "impact": "y", "description": "d2"},` +
		`{"impact": "z", "description": "missing sub_category"},` +
		`{"sub_category": "c", "impact": "w", "description": "d3"}]}` +
		"\n```"

	entries := &fakeEntryStore{}
	seedEntries(entries, "u1", yesterdayAt(9))
	records := &fakeAnalysisStore{}
	gen := &fakeGenerator{reply: func(_ int, prompt string) (string, error) {
		if strings.Contains(prompt, "NEW_ANALYSIS") {
			return reply, nil
		}
		return "findings", nil
	}}
	svc := newTestService(entries, records, gen, 100)

	if err := svc.RunPipeline(context.Background(), "u1", PeriodDaily, testNow); err != nil {
		t.Fatalf("RunPipeline: %v", err)
	}
	if len(records.rows) != 3 {
		t.Fatalf("inserted rows = %d, want 3 (invalid record skipped)", len(records.rows))
	}
}

func TestPipelineGenerationFailureAborts(t *testing.T) {
	t.Parallel()

	boom := errors.New("provider unavailable")
	entries := &fakeEntryStore{}
	seedEntries(entries, "u1", yesterdayAt(9))
	records := &fakeAnalysisStore{}
	gen := &fakeGenerator{reply: func(call int, _ string) (string, error) {
		if call == 1 {
			return "", boom
		}
		return "findings", nil
	}}
	svc := newTestService(entries, records, gen, 100)

	err := svc.RunPipeline(context.Background(), "u1", PeriodDaily, testNow)
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want wrapped provider error", err)
	}
	if records.inserts != 0 {
		t.Fatalf("inserts = %d, want 0 after generation failure", records.inserts)
	}
}

func TestPipelineUnparseableReplyPersistsNothing(t *testing.T) {
	t.Parallel()

	entries := &fakeEntryStore{}
	seedEntries(entries, "u1", yesterdayAt(9))
	records := &fakeAnalysisStore{}
	gen := &fakeGenerator{} // default prose reply, no fenced block
	svc := newTestService(entries, records, gen, 100)

	if err := svc.RunPipeline(context.Background(), "u1", PeriodDaily, testNow); err != nil {
		t.Fatalf("RunPipeline: %v", err)
	}
	if records.inserts != 0 {
		t.Fatalf("inserts = %d, want 0 for unparseable reply", records.inserts)
	}
}
