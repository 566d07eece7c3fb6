package models

import "time"

// MoodEntryModel is a single user-submitted mood log.
// Entries are append-only: they are never updated after creation.
type MoodEntryModel struct {
	Base
	Date        time.Time `json:"date"        gorm:"index;not null"`
	Mood        float64   `json:"mood"        gorm:"not null"` // 1-10 slider score
	Description string    `json:"description" gorm:"type:text;not null"`
	UserID      string    `json:"user_id"     gorm:"index;not null"`
}

func (MoodEntryModel) TableName() string { return "mood_entries" }
