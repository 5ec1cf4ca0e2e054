package interfaces

import (
	"context"

	"github.com/google/uuid"

	domain "sparkyfitness-server/internal/domain/integration"
)

// GarminRepository определяет контракт для хранилища привязок Garmin.
// У пользователя может быть не более одной привязки.
type GarminRepository interface {
	// Upsert сохраняет привязку, заменяя существующую для того же пользователя.
	Upsert(ctx context.Context, link *domain.GarminLink) error

	// GetByUserID возвращает привязку пользователя.
	// Возвращает (nil, ErrNotFound), если привязки нет.
	GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.GarminLink, error)

	// DeleteByUserID удаляет привязку пользователя.
	DeleteByUserID(ctx context.Context, userID uuid.UUID) error
}
