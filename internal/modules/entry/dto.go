package entry

import (
	"time"
)

type CreateEntryDTO struct {
	Mood        float64    `json:"mood"        binding:"required,gte=1,lte=10"`
	Description string     `json:"description" binding:"required"`
	Date        *time.Time `json:"date"`
}

type entryResponse struct {
	ID          string    `json:"id"`
	Date        time.Time `json:"date"`
	Mood        float64   `json:"mood"`
	Description string    `json:"description"`
	Created     time.Time `json:"created"`
}
