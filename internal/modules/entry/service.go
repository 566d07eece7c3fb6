package entry

import (
	"context"
	"time"

	"github.com/moodtrack/core/internal/models"
	"github.com/moodtrack/core/internal/modules/analysis"
	"github.com/moodtrack/core/internal/pkg/response"
	"gorm.io/gorm"
)

// Entries are append-only; there is no update or delete surface.
type Service struct {
	db  *gorm.DB
	loc *time.Location
}

func NewService(db *gorm.DB, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{db: db, loc: loc}
}

func (s *Service) Create(ctx context.Context, userID string, dto CreateEntryDTO) (*models.MoodEntryModel, error) {
	date := time.Now().In(s.loc)
	if dto.Date != nil {
		date = dto.Date.In(s.loc)
	}
	row := models.MoodEntryModel{
		Date:        date,
		Mood:        dto.Mood,
		Description: dto.Description,
		UserID:      userID,
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (s *Service) List(ctx context.Context, userID string, period analysis.Period, now time.Time, q listQuery) ([]models.MoodEntryModel, response.Pagination, error) {
	tx := s.db.WithContext(ctx).
		Model(&models.MoodEntryModel{}).
		Where("user_id = ?", userID).
		Order("date DESC")

	if start, end, bounded := period.Window(now, s.loc); bounded {
		tx = tx.Where("date >= ? AND date < ?", start, end)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, response.Pagination{}, err
	}

	var rows []models.MoodEntryModel
	if err := tx.Offset((q.Page - 1) * q.Size).Limit(q.Size).Find(&rows).Error; err != nil {
		return nil, response.Pagination{}, err
	}

	totalPage := int((total + int64(q.Size) - 1) / int64(q.Size))
	return rows, response.Pagination{
		Total:       total,
		CurrentPage: q.Page,
		TotalPage:   totalPage,
		Size:        q.Size,
		HasNextPage: q.Page < totalPage,
	}, nil
}
