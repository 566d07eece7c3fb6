package analysis

import (
	"encoding/json"
	"regexp"
	"strings"
	"time"

	"github.com/moodtrack/core/internal/models"
)

// Model replies embed their structured result in a fenced json block inside
// free text. LLM output is unreliable, so extraction fails closed: anything
// short of a well-formed fenced block decodes to Unparsed, never an error.
var fencedJSONRe = regexp.MustCompile("(?s)```json\\s*(\\{.*?\\})\\s*```")

// ExtractPayload scans a reply for the first fenced json block and decodes
// it into a ParsedPayload.
func ExtractPayload(reply string) ParseResult {
	match := fencedJSONRe.FindStringSubmatch(reply)
	if match == nil {
		return Unparsed()
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(strings.TrimSpace(match[1])), &raw); err != nil {
		return Unparsed()
	}

	payload := &ParsedPayload{
		Categories: make(map[models.AnalysisCategory][]ParsedRecord, len(models.AllAnalysisCategories)),
	}
	for key, value := range raw {
		if key == "date" {
			var s string
			if err := json.Unmarshal(value, &s); err != nil {
				continue
			}
			if t, err := time.Parse("2006-01-02", strings.TrimSpace(s)); err == nil {
				payload.Date = t
			}
			continue
		}

		category, err := models.ParseAnalysisCategory(key)
		if err != nil {
			continue // unknown keys are ignored, not fatal
		}
		var records []ParsedRecord
		if err := json.Unmarshal(value, &records); err != nil {
			continue
		}
		payload.Categories[category] = records
	}

	return Parsed(payload)
}
