package interfaces

import (
	"context"
	"time"

	"github.com/google/uuid"

	domain "sparkyfitness-server/internal/domain/exercise"
)

// EntryRepository определяет контракт для хранилища записей дневника тренировок.
type EntryRepository interface {
	// Create сохраняет запись дневника.
	Create(ctx context.Context, entry *domain.Entry) error

	// CreateBatch сохраняет несколько записей одной транзакцией.
	// Либо сохраняются все, либо ни одной.
	CreateBatch(ctx context.Context, entries []*domain.Entry) error

	// GetByID возвращает запись по идентификатору.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Entry, error)

	// ListByDate возвращает записи пользователя за интервал дат [from, to].
	ListByDate(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]*domain.Entry, error)

	// ListByExercise возвращает историю записей пользователя по упражнению,
	// упорядоченную по дате (для прогресса).
	ListByExercise(ctx context.Context, userID, exerciseID uuid.UUID) ([]*domain.Entry, error)

	// CountByExercise возвращает количество записей, ссылающихся на упражнение.
	CountByExercise(ctx context.Context, exerciseID uuid.UUID) (int64, error)

	// Update обновляет запись.
	Update(ctx context.Context, entry *domain.Entry) error

	// Delete удаляет запись.
	Delete(ctx context.Context, id uuid.UUID) error
}
