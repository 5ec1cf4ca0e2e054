package interfaces

import (
	"context"

	"github.com/google/uuid"

	domain "sparkyfitness-server/internal/domain/exercise"
)

// ExerciseFilter описывает параметры поиска упражнений.
type ExerciseFilter struct {
	// Query — подстрока имени (без учёта регистра); пусто — без фильтра.
	Query string
	// Category — точное совпадение категории; пусто — без фильтра.
	Category string
	// OwnerOnly — вернуть только собственные упражнения пользователя,
	// иначе включаются каталожные и публичные.
	OwnerOnly bool
	Limit     int
	Offset    int
}

// ExerciseRepository определяет контракт для хранилища упражнений.
type ExerciseRepository interface {
	// Create сохраняет упражнение.
	Create(ctx context.Context, ex *domain.Exercise) error

	// GetByID возвращает упражнение по идентификатору.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Exercise, error)

	// GetBySource возвращает каталожную запись по внешнему источнику.
	GetBySource(ctx context.Context, source, sourceID string) (*domain.Exercise, error)

	// Search возвращает упражнения, видимые пользователю userID,
	// с учётом фильтра.
	Search(ctx context.Context, userID uuid.UUID, filter ExerciseFilter) ([]*domain.Exercise, error)

	// Update обновляет упражнение.
	Update(ctx context.Context, ex *domain.Exercise) error

	// Delete удаляет упражнение.
	// Возвращает ErrExerciseInUse, если на упражнение ссылаются записи дневника.
	Delete(ctx context.Context, id uuid.UUID) error
}
