package analysis

import (
	"encoding/csv"
	"strconv"
	"strings"

	"github.com/moodtrack/core/internal/models"
)

// EntriesCSV serializes a window of mood entries for prompt embedding.
func EntriesCSV(entries []models.MoodEntryModel) string {
	var sb strings.Builder
	w := csv.NewWriter(&sb)
	_ = w.Write([]string{"date", "mood", "description"})
	for _, e := range entries {
		_ = w.Write([]string{
			e.Date.Format("2006-01-02 15:04"),
			strconv.FormatFloat(e.Mood, 'f', -1, 64),
			e.Description,
		})
	}
	w.Flush()
	return sb.String()
}

// RecordsCSV serializes analysis records for prompt embedding.
func RecordsCSV(records []models.MoodAnalysisModel) string {
	var sb strings.Builder
	w := csv.NewWriter(&sb)
	_ = w.Write([]string{"id", "date", "category", "sub_category", "impact", "description"})
	for _, r := range records {
		_ = w.Write([]string{
			r.ID,
			r.Date.Format("2006-01-02"),
			string(r.Category),
			r.SubCategory,
			r.Impact,
			r.Description,
		})
	}
	w.Flush()
	return sb.String()
}

// entriesOrSentinel returns the CSV window or the "no records" sentinel.
func entriesOrSentinel(entries []models.MoodEntryModel) string {
	if len(entries) == 0 {
		return sentinelNoRecords
	}
	return EntriesCSV(entries)
}

// recordsOrSentinel returns the CSV records or the "no records" sentinel.
func recordsOrSentinel(records []models.MoodAnalysisModel) string {
	if len(records) == 0 {
		return sentinelNoRecords
	}
	return RecordsCSV(records)
}
