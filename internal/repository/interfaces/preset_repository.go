package interfaces

import (
	"context"

	"github.com/google/uuid"

	domain "sparkyfitness-server/internal/domain/workout"
)

// PresetRepository определяет контракт для хранилища пресетов тренировок.
type PresetRepository interface {
	// Create сохраняет пресет.
	Create(ctx context.Context, preset *domain.Preset) error

	// GetByID возвращает пресет по идентификатору.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Preset, error)

	// ListVisible возвращает пресеты, видимые пользователю:
	// собственные и публичные.
	ListVisible(ctx context.Context, userID uuid.UUID) ([]*domain.Preset, error)

	// Update обновляет пресет.
	Update(ctx context.Context, preset *domain.Preset) error

	// Delete удаляет пресет.
	Delete(ctx context.Context, id uuid.UUID) error
}
