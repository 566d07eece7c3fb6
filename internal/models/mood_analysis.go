package models

import (
	"fmt"
	"time"
)

// AnalysisCategory is the closed set of mood-analysis categories.
type AnalysisCategory string

const (
	CategoryRecurringTriggers AnalysisCategory = "recurring_triggers"
	CategoryMoodImpact        AnalysisCategory = "mood_impact_by_category"
	CategorySignificantEvents AnalysisCategory = "significant_events"
)

// AllAnalysisCategories lists every category in canonical order.
var AllAnalysisCategories = []AnalysisCategory{
	CategoryRecurringTriggers,
	CategoryMoodImpact,
	CategorySignificantEvents,
}

// ParseAnalysisCategory validates a raw category string.
func ParseAnalysisCategory(raw string) (AnalysisCategory, error) {
	switch AnalysisCategory(raw) {
	case CategoryRecurringTriggers, CategoryMoodImpact, CategorySignificantEvents:
		return AnalysisCategory(raw), nil
	}
	return "", fmt.Errorf("unknown analysis category %q", raw)
}

// MoodAnalysisModel is one extracted analysis record produced by the
// consolidation pipeline. At most 100 rows exist per user at rest; the
// retention trimmer deletes oldest-by-date rows beyond the cap.
type MoodAnalysisModel struct {
	Base
	Date        time.Time        `json:"date"         gorm:"index;not null"` // day granularity
	Category    AnalysisCategory `json:"category"     gorm:"type:varchar(64);index;not null"`
	SubCategory string           `json:"sub_category" gorm:"not null"`
	Impact      string           `json:"impact"       gorm:"not null"`
	Description string           `json:"description"  gorm:"type:text;not null"`
	UserID      string           `json:"user_id"      gorm:"index;not null"`
}

func (MoodAnalysisModel) TableName() string { return "mood_analysis" }
