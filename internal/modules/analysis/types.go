package analysis

import (
	"errors"
	"fmt"
	"time"

	"github.com/moodtrack/core/internal/models"
)

// Sentinels substituted for empty datasets before prompt embedding, so the
// model can distinguish "no data" from malformed serialization.
const (
	sentinelNoRecords      = "no records"
	sentinelNoRecordsFound = "no records found"
)

// Sampling parameters per stage. Extraction favors diversity across the
// repeated runs; consolidation and refinement bias toward convergence.
const (
	extractionTemperature    = 0.4
	extractionPresence       = 0.2
	consolidationTemperature = 0.2
	refinementTemperature    = 0.2
	defaultTopP              = 1.0
)

// maxExtractionRuns caps the data-dependent fan-out of the extraction stage.
const maxExtractionRuns = 10

// extractionRuns returns the number of independent extraction calls for a
// window of r entries: three per entry, capped.
func extractionRuns(r int) int {
	n := 3 * r
	if n > maxExtractionRuns {
		return maxExtractionRuns
	}
	return n
}

// ErrEmptyWindow signals that the requested entry window holds no rows.
// It aborts the pipeline run without producing analysis and is never
// surfaced to a user-facing layer.
var ErrEmptyWindow = errors.New("no entries in requested window")

// ParsedRecord is one analysis record decoded from a model reply, prior to
// per-record field validation.
type ParsedRecord struct {
	SubCategory string `json:"sub_category"`
	Impact      string `json:"impact"`
	Description string `json:"description"`
}

// Valid reports whether every required field is present.
func (r ParsedRecord) Valid() bool {
	return r.SubCategory != "" && r.Impact != "" && r.Description != ""
}

// ParsedPayload is the structured result embedded in a refinement or sweep
// reply: an optional date plus per-category record batches.
type ParsedPayload struct {
	Date       time.Time
	Categories map[models.AnalysisCategory][]ParsedRecord
}

// ParseResult is the recognized/unrecognized outcome of scanning a reply.
// Callers must handle both branches; an unrecognized reply is "nothing to
// persist", never an error.
type ParseResult struct {
	Payload *ParsedPayload
	OK      bool
}

// Parsed wraps a recognized payload.
func Parsed(p *ParsedPayload) ParseResult { return ParseResult{Payload: p, OK: true} }

// Unparsed is the no-result outcome.
func Unparsed() ParseResult { return ParseResult{} }

// Period selects a fixed time window relative to "now".
type Period string

const (
	PeriodDaily  Period = "daily"  // prior calendar day
	PeriodWeekly Period = "weekly" // last fully elapsed Monday-Sunday week
	PeriodAll    Period = "all"    // unbounded
)

// ParsePeriod validates a raw period string.
func ParsePeriod(raw string) (Period, error) {
	switch Period(raw) {
	case PeriodDaily, PeriodWeekly, PeriodAll:
		return Period(raw), nil
	}
	return "", fmt.Errorf("unknown period %q", raw)
}
