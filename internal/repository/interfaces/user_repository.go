package interfaces

import (
	"context"
	"time"

	"github.com/google/uuid"

	domain "sparkyfitness-server/internal/domain/user"
)

// UserRepository определяет контракт для работы с пользователями на уровне хранилища.
//
// Интерфейс оперирует доменной моделью User и не раскрывает деталей реализации (GORM, SQL и т.п.).
type UserRepository interface {
	// Create создает нового пользователя.
	// Возвращает ErrEmailExists, если email уже используется.
	Create(ctx context.Context, user *domain.User) error

	// GetByID возвращает пользователя по идентификатору.
	// Возвращает (nil, ErrNotFound), если пользователь не найден или мягко удалён.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByEmail возвращает пользователя по email.
	// Возвращает (nil, ErrNotFound), если пользователь не найден или мягко удалён.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// List возвращает всех активных (не удалённых) пользователей.
	List(ctx context.Context) ([]*domain.User, error)

	// Update обновляет данные пользователя.
	// Не обновляет защищенные поля: id, created_at, password_hash.
	Update(ctx context.Context, user *domain.User) error

	// RecordLogin фиксирует время последнего входа пользователя.
	RecordLogin(ctx context.Context, id uuid.UUID, at time.Time) error

	// SoftDelete помечает пользователя как удалённого (soft delete).
	SoftDelete(ctx context.Context, id uuid.UUID) error

	// HardDelete физически удаляет строку пользователя.
	// Используется только в административных сценариях.
	HardDelete(ctx context.Context, id uuid.UUID) error
}
