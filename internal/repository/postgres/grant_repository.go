package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	domain "sparkyfitness-server/internal/domain/access"
	repo "sparkyfitness-server/internal/repository/interfaces"
)

// pgGrant представляет ORM-модель для таблицы access_grants.
type pgGrant struct {
	ID            string                     `gorm:"column:id;type:uuid;primaryKey"`
	OwnerUserID   string                     `gorm:"column:owner_user_id;type:uuid;not null"`
	GranteeUserID string                     `gorm:"column:grantee_user_id;type:uuid;not null"`
	Categories    jsonArray[domain.Category] `gorm:"column:categories;type:jsonb;not null"`
	ReadOnly      bool                       `gorm:"column:read_only;not null"`
	IsActive      bool                       `gorm:"column:is_active;not null"`
	ExpiresAt     *time.Time                 `gorm:"column:expires_at;type:timestamptz"`
	CreatedAt     time.Time                  `gorm:"column:created_at;type:timestamptz;not null"`
	UpdatedAt     time.Time                  `gorm:"column:updated_at;type:timestamptz;not null"`
}

func (pgGrant) TableName() string {
	return "access_grants"
}

func (m *pgGrant) toDomain() (*domain.Grant, error) {
	id, err := uuid.Parse(m.ID)
	if err != nil {
		return nil, err
	}
	owner, err := uuid.Parse(m.OwnerUserID)
	if err != nil {
		return nil, err
	}
	grantee, err := uuid.Parse(m.GranteeUserID)
	if err != nil {
		return nil, err
	}

	return &domain.Grant{
		ID:            id,
		OwnerUserID:   owner,
		GranteeUserID: grantee,
		Categories:    []domain.Category(m.Categories),
		ReadOnly:      m.ReadOnly,
		IsActive:      m.IsActive,
		ExpiresAt:     m.ExpiresAt,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}, nil
}

func fromDomainGrant(g *domain.Grant) *pgGrant {
	return &pgGrant{
		ID:            g.ID.String(),
		OwnerUserID:   g.OwnerUserID.String(),
		GranteeUserID: g.GranteeUserID.String(),
		Categories:    jsonArray[domain.Category](g.Categories),
		ReadOnly:      g.ReadOnly,
		IsActive:      g.IsActive,
		ExpiresAt:     g.ExpiresAt,
		CreatedAt:     g.CreatedAt,
		UpdatedAt:     g.UpdatedAt,
	}
}

// GrantRepository реализует repo.GrantRepository с использованием GORM и Postgres.
type GrantRepository struct {
	db *gorm.DB
}

var _ repo.GrantRepository = (*GrantRepository)(nil)

// NewGrantRepository создает новый репозиторий делегированных разрешений.
func NewGrantRepository(db *gorm.DB) *GrantRepository {
	return &GrantRepository{db: db}
}

// Create сохраняет новое разрешение.
func (r *GrantRepository) Create(ctx context.Context, grant *domain.Grant) error {
	return r.db.WithContext(ctx).Create(fromDomainGrant(grant)).Error
}

// GetByID возвращает разрешение по идентификатору.
func (r *GrantRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Grant, error) {
	var model pgGrant
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

// FindForPair возвращает все разрешения пары owner → grantee.
func (r *GrantRepository) FindForPair(ctx context.Context, owner, grantee uuid.UUID) ([]*domain.Grant, error) {
	var models []pgGrant
	err := r.db.WithContext(ctx).
		Where("owner_user_id = ? AND grantee_user_id = ?", owner.String(), grantee.String()).
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return grantsToDomain(models)
}

// ListByOwner возвращает разрешения, выданные пользователем.
func (r *GrantRepository) ListByOwner(ctx context.Context, owner uuid.UUID) ([]*domain.Grant, error) {
	var models []pgGrant
	err := r.db.WithContext(ctx).
		Where("owner_user_id = ?", owner.String()).
		Order("created_at DESC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return grantsToDomain(models)
}

func grantsToDomain(models []pgGrant) ([]*domain.Grant, error) {
	grants := make([]*domain.Grant, 0, len(models))
	for i := range models {
		g, err := models[i].toDomain()
		if err != nil {
			return nil, err
		}
		grants = append(grants, g)
	}
	return grants, nil
}

// Update обновляет разрешение.
func (r *GrantRepository) Update(ctx context.Context, grant *domain.Grant) error {
	model := fromDomainGrant(grant)
	result := r.db.WithContext(ctx).
		Model(&pgGrant{}).
		Where("id = ?", model.ID).
		Updates(map[string]interface{}{
			"categories": model.Categories,
			"is_active":  model.IsActive,
			"expires_at": model.ExpiresAt,
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// Delete удаляет разрешение.
func (r *GrantRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("id = ?", id.String()).
		Delete(&pgGrant{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
