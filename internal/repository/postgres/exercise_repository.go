package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	domain "sparkyfitness-server/internal/domain/exercise"
	repo "sparkyfitness-server/internal/repository/interfaces"
)

// pgExercise представляет ORM-модель для таблицы exercises.
// Массивоподобные поля метаданных хранятся как JSON-колонки.
type pgExercise struct {
	ID               string            `gorm:"column:id;type:uuid;primaryKey"`
	UserID           *string           `gorm:"column:user_id;type:uuid"`
	Name             string            `gorm:"column:name;type:varchar(255);not null"`
	Category         string            `gorm:"column:category;type:varchar(100)"`
	CaloriesPerHour  float64           `gorm:"column:calories_per_hour;not null"`
	Description      string            `gorm:"column:description;type:text"`
	Equipment        jsonArray[string] `gorm:"column:equipment;type:jsonb"`
	PrimaryMuscles   jsonArray[string] `gorm:"column:primary_muscles;type:jsonb"`
	SecondaryMuscles jsonArray[string] `gorm:"column:secondary_muscles;type:jsonb"`
	Instructions     jsonArray[string] `gorm:"column:instructions;type:jsonb"`
	Images           jsonArray[string] `gorm:"column:images;type:jsonb"`
	IsCustom         bool              `gorm:"column:is_custom;not null"`
	SharedWithPublic bool              `gorm:"column:shared_with_public;not null"`
	Source           string            `gorm:"column:source;type:varchar(100)"`
	SourceID         string            `gorm:"column:source_id;type:varchar(255)"`
	CreatedAt        time.Time         `gorm:"column:created_at;type:timestamptz;not null"`
	UpdatedAt        time.Time         `gorm:"column:updated_at;type:timestamptz;not null"`
}

func (pgExercise) TableName() string {
	return "exercises"
}

func (m *pgExercise) toDomain() (*domain.Exercise, error) {
	id, err := uuid.Parse(m.ID)
	if err != nil {
		return nil, err
	}

	var userID *uuid.UUID
	if m.UserID != nil {
		parsed, err := uuid.Parse(*m.UserID)
		if err != nil {
			return nil, err
		}
		userID = &parsed
	}

	return &domain.Exercise{
		ID:               id,
		UserID:           userID,
		Name:             m.Name,
		Category:         m.Category,
		CaloriesPerHour:  m.CaloriesPerHour,
		Description:      m.Description,
		Equipment:        []string(m.Equipment),
		PrimaryMuscles:   []string(m.PrimaryMuscles),
		SecondaryMuscles: []string(m.SecondaryMuscles),
		Instructions:     []string(m.Instructions),
		Images:           []string(m.Images),
		IsCustom:         m.IsCustom,
		SharedWithPublic: m.SharedWithPublic,
		Source:           m.Source,
		SourceID:         m.SourceID,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}, nil
}

func fromDomainExercise(e *domain.Exercise) *pgExercise {
	var userID *string
	if e.UserID != nil {
		s := e.UserID.String()
		userID = &s
	}

	return &pgExercise{
		ID:               e.ID.String(),
		UserID:           userID,
		Name:             e.Name,
		Category:         e.Category,
		CaloriesPerHour:  e.CaloriesPerHour,
		Description:      e.Description,
		Equipment:        jsonArray[string](e.Equipment),
		PrimaryMuscles:   jsonArray[string](e.PrimaryMuscles),
		SecondaryMuscles: jsonArray[string](e.SecondaryMuscles),
		Instructions:     jsonArray[string](e.Instructions),
		Images:           jsonArray[string](e.Images),
		IsCustom:         e.IsCustom,
		SharedWithPublic: e.SharedWithPublic,
		Source:           e.Source,
		SourceID:         e.SourceID,
		CreatedAt:        e.CreatedAt,
		UpdatedAt:        e.UpdatedAt,
	}
}

// ExerciseRepository реализует repo.ExerciseRepository с использованием GORM и Postgres.
type ExerciseRepository struct {
	db *gorm.DB
}

var _ repo.ExerciseRepository = (*ExerciseRepository)(nil)

// NewExerciseRepository создает новый репозиторий упражнений.
func NewExerciseRepository(db *gorm.DB) *ExerciseRepository {
	return &ExerciseRepository{db: db}
}

// Create сохраняет упражнение.
func (r *ExerciseRepository) Create(ctx context.Context, ex *domain.Exercise) error {
	return r.db.WithContext(ctx).Create(fromDomainExercise(ex)).Error
}

// GetByID возвращает упражнение по идентификатору.
func (r *ExerciseRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Exercise, error) {
	var model pgExercise
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

// GetBySource возвращает каталожную запись по внешнему источнику.
func (r *ExerciseRepository) GetBySource(ctx context.Context, source, sourceID string) (*domain.Exercise, error) {
	var model pgExercise
	err := r.db.WithContext(ctx).
		Where("source = ? AND source_id = ?", source, sourceID).
		Take(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repo.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return model.toDomain()
}

// Search возвращает упражнения, видимые пользователю, с учётом фильтра.
// Видимость: собственные, публичные и каталожные (user_id IS NULL).
func (r *ExerciseRepository) Search(ctx context.Context, userID uuid.UUID, filter repo.ExerciseFilter) ([]*domain.Exercise, error) {
	q := r.db.WithContext(ctx).Model(&pgExercise{})

	if filter.OwnerOnly {
		q = q.Where("user_id = ?", userID.String())
	} else {
		q = q.Where("user_id = ? OR user_id IS NULL OR shared_with_public = TRUE", userID.String())
	}

	if filter.Query != "" {
		q = q.Where("name ILIKE ?", "%"+strings.TrimSpace(filter.Query)+"%")
	}
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		q = q.Offset(filter.Offset)
	}

	var models []pgExercise
	if err := q.Order("name ASC").Find(&models).Error; err != nil {
		return nil, err
	}

	exercises := make([]*domain.Exercise, 0, len(models))
	for i := range models {
		e, err := models[i].toDomain()
		if err != nil {
			return nil, err
		}
		exercises = append(exercises, e)
	}
	return exercises, nil
}

// Update обновляет упражнение.
func (r *ExerciseRepository) Update(ctx context.Context, ex *domain.Exercise) error {
	model := fromDomainExercise(ex)
	result := r.db.WithContext(ctx).
		Model(&pgExercise{}).
		Where("id = ?", model.ID).
		Updates(map[string]interface{}{
			"name":               model.Name,
			"category":           model.Category,
			"calories_per_hour":  model.CaloriesPerHour,
			"description":        model.Description,
			"equipment":          model.Equipment,
			"primary_muscles":    model.PrimaryMuscles,
			"secondary_muscles":  model.SecondaryMuscles,
			"instructions":       model.Instructions,
			"images":             model.Images,
			"shared_with_public": model.SharedWithPublic,
			"updated_at":         time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// Delete удаляет упражнение. FK-нарушение от ссылающихся записей дневника
// транслируется в ErrExerciseInUse.
func (r *ExerciseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("id = ?", id.String()).
		Delete(&pgExercise{})
	if result.Error != nil {
		if isForeignKeyViolation(result.Error) {
			return repo.ErrExerciseInUse
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
