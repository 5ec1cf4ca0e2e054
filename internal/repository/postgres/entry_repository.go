package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	domain "sparkyfitness-server/internal/domain/exercise"
	repo "sparkyfitness-server/internal/repository/interfaces"
)

// pgEntry представляет ORM-модель для таблицы exercise_entries.
type pgEntry struct {
	ID              string                `gorm:"column:id;type:uuid;primaryKey"`
	UserID          string                `gorm:"column:user_id;type:uuid;not null"`
	ExerciseID      string                `gorm:"column:exercise_id;type:uuid;not null"`
	EntryDate       time.Time             `gorm:"column:entry_date;type:date;not null"`
	DurationMinutes float64               `gorm:"column:duration_minutes;not null"`
	CaloriesBurned  float64               `gorm:"column:calories_burned;not null"`
	Notes           string                `gorm:"column:notes;type:text"`
	Sets            jsonArray[domain.Set] `gorm:"column:sets;type:jsonb"`
	ImagePath       string                `gorm:"column:image_path;type:text"`
	PresetID        *string               `gorm:"column:preset_id;type:uuid"`
	CreatedAt       time.Time             `gorm:"column:created_at;type:timestamptz;not null"`
	UpdatedAt       time.Time             `gorm:"column:updated_at;type:timestamptz;not null"`
}

func (pgEntry) TableName() string {
	return "exercise_entries"
}

func (m *pgEntry) toDomain() (*domain.Entry, error) {
	id, err := uuid.Parse(m.ID)
	if err != nil {
		return nil, err
	}
	userID, err := uuid.Parse(m.UserID)
	if err != nil {
		return nil, err
	}
	exerciseID, err := uuid.Parse(m.ExerciseID)
	if err != nil {
		return nil, err
	}

	var presetID *uuid.UUID
	if m.PresetID != nil {
		parsed, err := uuid.Parse(*m.PresetID)
		if err != nil {
			return nil, err
		}
		presetID = &parsed
	}

	return &domain.Entry{
		ID:              id,
		UserID:          userID,
		ExerciseID:      exerciseID,
		EntryDate:       m.EntryDate,
		DurationMinutes: m.DurationMinutes,
		CaloriesBurned:  m.CaloriesBurned,
		Notes:           m.Notes,
		Sets:            []domain.Set(m.Sets),
		ImagePath:       m.ImagePath,
		PresetID:        presetID,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}, nil
}

func fromDomainEntry(e *domain.Entry) *pgEntry {
	var presetID *string
	if e.PresetID != nil {
		s := e.PresetID.String()
		presetID = &s
	}

	return &pgEntry{
		ID:              e.ID.String(),
		UserID:          e.UserID.String(),
		ExerciseID:      e.ExerciseID.String(),
		EntryDate:       e.EntryDate,
		DurationMinutes: e.DurationMinutes,
		CaloriesBurned:  e.CaloriesBurned,
		Notes:           e.Notes,
		Sets:            jsonArray[domain.Set](e.Sets),
		ImagePath:       e.ImagePath,
		PresetID:        presetID,
		CreatedAt:       e.CreatedAt,
		UpdatedAt:       e.UpdatedAt,
	}
}

// EntryRepository реализует repo.EntryRepository с использованием GORM и Postgres.
type EntryRepository struct {
	db *gorm.DB
}

var _ repo.EntryRepository = (*EntryRepository)(nil)

// NewEntryRepository создает новый репозиторий записей дневника.
func NewEntryRepository(db *gorm.DB) *EntryRepository {
	return &EntryRepository{db: db}
}

// Create сохраняет запись дневника.
func (r *EntryRepository) Create(ctx context.Context, entry *domain.Entry) error {
	return r.db.WithContext(ctx).Create(fromDomainEntry(entry)).Error
}

// CreateBatch сохраняет несколько записей одной транзакцией.
func (r *EntryRepository) CreateBatch(ctx context.Context, entries []*domain.Entry) error {
	if len(entries) == 0 {
		return nil
	}
	models := make([]*pgEntry, 0, len(entries))
	for _, e := range entries {
		models = append(models, fromDomainEntry(e))
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(models).Error
	})
}

// GetByID возвращает запись по идентификатору.
func (r *EntryRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Entry, error) {
	var model pgEntry
	err := r.db.WithContext(ctx).
		Where("id = ?", id.String()).
		Take(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repo.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return model.toDomain()
}

// ListByDate возвращает записи пользователя за интервал дат [from, to].
func (r *EntryRepository) ListByDate(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]*domain.Entry, error) {
	var models []pgEntry
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND entry_date >= ? AND entry_date <= ?",
			userID.String(), from.Format("2006-01-02"), to.Format("2006-01-02")).
		Order("entry_date ASC, created_at ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return entriesToDomain(models)
}

// ListByExercise возвращает историю записей пользователя по упражнению.
func (r *EntryRepository) ListByExercise(ctx context.Context, userID, exerciseID uuid.UUID) ([]*domain.Entry, error) {
	var models []pgEntry
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND exercise_id = ?", userID.String(), exerciseID.String()).
		Order("entry_date ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return entriesToDomain(models)
}

// CountByExercise возвращает количество записей, ссылающихся на упражнение.
func (r *EntryRepository) CountByExercise(ctx context.Context, exerciseID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&pgEntry{}).
		Where("exercise_id = ?", exerciseID.String()).
		Count(&count).Error
	return count, err
}

func entriesToDomain(models []pgEntry) ([]*domain.Entry, error) {
	entries := make([]*domain.Entry, 0, len(models))
	for i := range models {
		e, err := models[i].toDomain()
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Update обновляет запись.
func (r *EntryRepository) Update(ctx context.Context, entry *domain.Entry) error {
	model := fromDomainEntry(entry)
	result := r.db.WithContext(ctx).
		Model(&pgEntry{}).
		Where("id = ?", model.ID).
		Updates(map[string]interface{}{
			"exercise_id":      model.ExerciseID,
			"entry_date":       model.EntryDate,
			"duration_minutes": model.DurationMinutes,
			"calories_burned":  model.CaloriesBurned,
			"notes":            model.Notes,
			"sets":             model.Sets,
			"image_path":       model.ImagePath,
			"updated_at":       time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// Delete удаляет запись.
func (r *EntryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("id = ?", id.String()).
		Delete(&pgEntry{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
