package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "sparkyfitness-server/internal/domain/integration"
	repo "sparkyfitness-server/internal/repository/interfaces"
)

// pgGarminLink представляет ORM-модель для таблицы garmin_links.
type pgGarminLink struct {
	ID        string     `gorm:"column:id;type:uuid;primaryKey"`
	UserID    string     `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_garmin_links_user_unique"`
	GarthDump string     `gorm:"column:garth_dump;type:text;not null"`
	ExpiresAt *time.Time `gorm:"column:expires_at;type:timestamptz"`
	CreatedAt time.Time  `gorm:"column:created_at;type:timestamptz;not null"`
	UpdatedAt time.Time  `gorm:"column:updated_at;type:timestamptz;not null"`
}

func (pgGarminLink) TableName() string {
	return "garmin_links"
}

func (m *pgGarminLink) toDomain() (*domain.GarminLink, error) {
	id, err := uuid.Parse(m.ID)
	if err != nil {
		return nil, err
	}
	userID, err := uuid.Parse(m.UserID)
	if err != nil {
		return nil, err
	}

	return &domain.GarminLink{
		ID:        id,
		UserID:    userID,
		GarthDump: m.GarthDump,
		ExpiresAt: m.ExpiresAt,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}, nil
}

func fromDomainGarminLink(l *domain.GarminLink) *pgGarminLink {
	return &pgGarminLink{
		ID:        l.ID.String(),
		UserID:    l.UserID.String(),
		GarthDump: l.GarthDump,
		ExpiresAt: l.ExpiresAt,
		CreatedAt: l.CreatedAt,
		UpdatedAt: l.UpdatedAt,
	}
}

// GarminRepository реализует repo.GarminRepository с использованием GORM и Postgres.
type GarminRepository struct {
	db *gorm.DB
}

var _ repo.GarminRepository = (*GarminRepository)(nil)

// NewGarminRepository создает новый репозиторий привязок Garmin.
func NewGarminRepository(db *gorm.DB) *GarminRepository {
	return &GarminRepository{db: db}
}

// Upsert сохраняет привязку, заменяя существующую для того же пользователя.
func (r *GarminRepository) Upsert(ctx context.Context, link *domain.GarminLink) error {
	model := fromDomainGarminLink(link)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"garth_dump", "expires_at", "updated_at",
			}),
		}).
		Create(model).Error
}

// GetByUserID возвращает привязку пользователя.
func (r *GarminRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.GarminLink, error) {
	var model pgGarminLink
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID.String()).
		Take(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repo.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return model.toDomain()
}

// DeleteByUserID удаляет привязку пользователя.
func (r *GarminRepository) DeleteByUserID(ctx context.Context, userID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID.String()).
		Delete(&pgGarminLink{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
