package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	domain "sparkyfitness-server/internal/domain/workout"
	repo "sparkyfitness-server/internal/repository/interfaces"
)

// pgPreset представляет ORM-модель для таблицы workout_presets.
// Элементы пресета и дни расписания хранятся как JSON-колонки.
type pgPreset struct {
	ID          string                       `gorm:"column:id;type:uuid;primaryKey"`
	UserID      string                       `gorm:"column:user_id;type:uuid;not null"`
	Name        string                       `gorm:"column:name;type:varchar(255);not null"`
	Description string                       `gorm:"column:description;type:text"`
	Days        jsonArray[int]               `gorm:"column:days;type:jsonb"`
	IsPublic    bool                         `gorm:"column:is_public;not null"`
	Items       jsonArray[domain.PresetItem] `gorm:"column:items;type:jsonb"`
	CreatedAt   time.Time                    `gorm:"column:created_at;type:timestamptz;not null"`
	UpdatedAt   time.Time                    `gorm:"column:updated_at;type:timestamptz;not null"`
}

func (pgPreset) TableName() string {
	return "workout_presets"
}

func (m *pgPreset) toDomain() (*domain.Preset, error) {
	id, err := uuid.Parse(m.ID)
	if err != nil {
		return nil, err
	}
	userID, err := uuid.Parse(m.UserID)
	if err != nil {
		return nil, err
	}

	return &domain.Preset{
		ID:          id,
		UserID:      userID,
		Name:        m.Name,
		Description: m.Description,
		Days:        []int(m.Days),
		IsPublic:    m.IsPublic,
		Items:       []domain.PresetItem(m.Items),
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}, nil
}

func fromDomainPreset(p *domain.Preset) *pgPreset {
	return &pgPreset{
		ID:          p.ID.String(),
		UserID:      p.UserID.String(),
		Name:        p.Name,
		Description: p.Description,
		Days:        jsonArray[int](p.Days),
		IsPublic:    p.IsPublic,
		Items:       jsonArray[domain.PresetItem](p.Items),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// PresetRepository реализует repo.PresetRepository с использованием GORM и Postgres.
type PresetRepository struct {
	db *gorm.DB
}

var _ repo.PresetRepository = (*PresetRepository)(nil)

// NewPresetRepository создает новый репозиторий пресетов тренировок.
func NewPresetRepository(db *gorm.DB) *PresetRepository {
	return &PresetRepository{db: db}
}

// Create сохраняет пресет.
func (r *PresetRepository) Create(ctx context.Context, preset *domain.Preset) error {
	return r.db.WithContext(ctx).Create(fromDomainPreset(preset)).Error
}

// GetByID возвращает пресет по идентификатору.
func (r *PresetRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Preset, error) {
	var model pgPreset
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

// ListVisible возвращает пресеты, видимые пользователю.
func (r *PresetRepository) ListVisible(ctx context.Context, userID uuid.UUID) ([]*domain.Preset, error) {
	var models []pgPreset
	err := r.db.WithContext(ctx).
		Where("user_id = ? OR is_public = TRUE", userID.String()).
		Order("name ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	presets := make([]*domain.Preset, 0, len(models))
	for i := range models {
		p, err := models[i].toDomain()
		if err != nil {
			return nil, err
		}
		presets = append(presets, p)
	}
	return presets, nil
}

// Update обновляет пресет.
func (r *PresetRepository) Update(ctx context.Context, preset *domain.Preset) error {
	model := fromDomainPreset(preset)
	result := r.db.WithContext(ctx).
		Model(&pgPreset{}).
		Where("id = ?", model.ID).
		Updates(map[string]interface{}{
			"name":        model.Name,
			"description": model.Description,
			"days":        model.Days,
			"is_public":   model.IsPublic,
			"items":       model.Items,
			"updated_at":  time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// Delete удаляет пресет.
func (r *PresetRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("id = ?", id.String()).
		Delete(&pgPreset{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
