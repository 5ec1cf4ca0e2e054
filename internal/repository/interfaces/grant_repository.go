package interfaces

import (
	"context"

	"github.com/google/uuid"

	domain "sparkyfitness-server/internal/domain/access"
)

// GrantRepository определяет контракт для хранения делегированных разрешений
// («acting on behalf of»).
type GrantRepository interface {
	// Create сохраняет новое разрешение.
	Create(ctx context.Context, grant *domain.Grant) error

	// GetByID возвращает разрешение по идентификатору.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Grant, error)

	// FindForPair возвращает все разрешения, выданные владельцем owner
	// пользователю grantee (включая неактивные и истёкшие — фильтрация
	// выполняется на уровне usecase).
	FindForPair(ctx context.Context, owner, grantee uuid.UUID) ([]*domain.Grant, error)

	// ListByOwner возвращает разрешения, выданные пользователем.
	ListByOwner(ctx context.Context, owner uuid.UUID) ([]*domain.Grant, error)

	// Update обновляет разрешение (категории, активность, срок действия).
	Update(ctx context.Context, grant *domain.Grant) error

	// Delete удаляет разрешение.
	Delete(ctx context.Context, id uuid.UUID) error
}
