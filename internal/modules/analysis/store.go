package analysis

import (
	"context"
	"time"

	"github.com/moodtrack/core/internal/models"
	"gorm.io/gorm"
)

// EntryStore is the narrow mood-entry dependency of the pipeline.
type EntryStore interface {
	Create(ctx context.Context, entry *models.MoodEntryModel) error
	FetchWindow(ctx context.Context, userID string, start, end time.Time) ([]models.MoodEntryModel, error)
	FetchAll(ctx context.Context, userID string) ([]models.MoodEntryModel, error)
	UserIDs(ctx context.Context) ([]string, error)
}

// AnalysisStore is the narrow analysis-record dependency of the pipeline.
// Delete of a nonexistent id is a silent no-op.
type AnalysisStore interface {
	FetchWindow(ctx context.Context, userID string, start, end time.Time) ([]models.MoodAnalysisModel, error)
	FetchAll(ctx context.Context, userID string) ([]models.MoodAnalysisModel, error)
	Insert(ctx context.Context, rows []models.MoodAnalysisModel) error
	Delete(ctx context.Context, userID string, ids []string) error
}

// GormEntryStore backs EntryStore with MySQL.
type GormEntryStore struct {
	db *gorm.DB
}

func NewGormEntryStore(db *gorm.DB) *GormEntryStore { return &GormEntryStore{db: db} }

func (s *GormEntryStore) Create(ctx context.Context, entry *models.MoodEntryModel) error {
	return s.db.WithContext(ctx).Create(entry).Error
}

func (s *GormEntryStore) FetchWindow(ctx context.Context, userID string, start, end time.Time) ([]models.MoodEntryModel, error) {
	var rows []models.MoodEntryModel
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND date >= ? AND date < ?", userID, start, end).
		Order("date ASC").
		Find(&rows).Error
	return rows, err
}

func (s *GormEntryStore) FetchAll(ctx context.Context, userID string) ([]models.MoodEntryModel, error) {
	var rows []models.MoodEntryModel
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date ASC").
		Find(&rows).Error
	return rows, err
}

func (s *GormEntryStore) UserIDs(ctx context.Context) ([]string, error) {
	var ids []string
	err := s.db.WithContext(ctx).
		Model(&models.MoodEntryModel{}).
		Distinct("user_id").
		Pluck("user_id", &ids).Error
	return ids, err
}

// GormAnalysisStore backs AnalysisStore with MySQL.
type GormAnalysisStore struct {
	db *gorm.DB
}

func NewGormAnalysisStore(db *gorm.DB) *GormAnalysisStore { return &GormAnalysisStore{db: db} }

func (s *GormAnalysisStore) FetchWindow(ctx context.Context, userID string, start, end time.Time) ([]models.MoodAnalysisModel, error) {
	var rows []models.MoodAnalysisModel
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND date >= ? AND date < ?", userID, start, end).
		Order("date ASC").
		Find(&rows).Error
	return rows, err
}

func (s *GormAnalysisStore) FetchAll(ctx context.Context, userID string) ([]models.MoodAnalysisModel, error) {
	var rows []models.MoodAnalysisModel
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date ASC").
		Find(&rows).Error
	return rows, err
}

func (s *GormAnalysisStore) Insert(ctx context.Context, rows []models.MoodAnalysisModel) error {
	if len(rows) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Create(&rows).Error
}

func (s *GormAnalysisStore) Delete(ctx context.Context, userID string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).
		Where("user_id = ? AND id IN ?", userID, ids).
		Delete(&models.MoodAnalysisModel{}).Error
}
