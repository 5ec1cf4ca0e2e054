package exercise

import (
	"context"
	"time"

	"github.com/google/uuid"

	accessdomain "sparkyfitness-server/internal/domain/access"
	domain "sparkyfitness-server/internal/domain/exercise"
	repo "sparkyfitness-server/internal/repository/interfaces"
	accessuc "sparkyfitness-server/internal/usecase/access"
)

// Service описывает usecase-слой каталога упражнений.
// Все операции выполняются от имени acting над данными target
// с проверкой делегированных прав (категория exercise_list).
type Service interface {
	// Create создаёт пользовательское упражнение для target.
	Create(ctx context.Context, acting, target uuid.UUID, input CreateInput) (*domain.Exercise, error)

	// Get возвращает упражнение, если оно видимо acting
	// (собственное, публичное, каталожное или делегированное).
	Get(ctx context.Context, acting uuid.UUID, id uuid.UUID) (*domain.Exercise, error)

	// Search возвращает упражнения, видимые target, с учётом фильтра.
	Search(ctx context.Context, acting, target uuid.UUID, filter repo.ExerciseFilter) ([]*domain.Exercise, error)

	// Update обновляет упражнение. Каталожные записи неизменяемы.
	Update(ctx context.Context, acting uuid.UUID, id uuid.UUID, input UpdateInput) (*domain.Exercise, error)

	// Delete удаляет упражнение. Возвращает repo.ErrExerciseInUse,
	// если на упражнение ссылаются записи дневника.
	Delete(ctx context.Context, acting uuid.UUID, id uuid.UUID) error
}

// CreateInput описывает данные для создания упражнения.
type CreateInput struct {
	Name             string
	Category         string
	CaloriesPerHour  float64
	Description      string
	Equipment        []string
	PrimaryMuscles   []string
	SecondaryMuscles []string
	Instructions     []string
	Images           []string
	SharedWithPublic bool
}

// UpdateInput описывает изменяемые поля упражнения. Все поля опциональны.
type UpdateInput struct {
	Name             *string
	Category         *string
	CaloriesPerHour  *float64
	Description      *string
	Equipment        []string
	PrimaryMuscles   []string
	SecondaryMuscles []string
	Instructions     []string
	Images           []string
	SharedWithPublic *bool
}

type service struct {
	exercises repo.ExerciseRepository
	entries   repo.EntryRepository
	access    accessuc.Service
}

// NewService создаёт сервис упражнений.
func NewService(exercises repo.ExerciseRepository, entries repo.EntryRepository, access accessuc.Service) Service {
	return &service{exercises: exercises, entries: entries, access: access}
}

// Create создаёт пользовательское упражнение.
func (s *service) Create(ctx context.Context, acting, target uuid.UUID, input CreateInput) (*domain.Exercise, error) {
	if err := s.access.CanAccess(ctx, acting, target, accessdomain.CategoryExerciseList, accessdomain.OperationWrite); err != nil {
		return nil, err
	}

	ex := domain.NewCustomExercise(target, input.Name, input.Category, input.CaloriesPerHour)
	ex.Description = input.Description
	ex.Equipment = input.Equipment
	ex.PrimaryMuscles = input.PrimaryMuscles
	ex.SecondaryMuscles = input.SecondaryMuscles
	ex.Instructions = input.Instructions
	ex.Images = input.Images
	ex.SharedWithPublic = input.SharedWithPublic

	if err := s.exercises.Create(ctx, ex); err != nil {
		return nil, err
	}
	return ex, nil
}

// Get возвращает упражнение с проверкой видимости.
func (s *service) Get(ctx context.Context, acting uuid.UUID, id uuid.UUID) (*domain.Exercise, error) {
	ex, err := s.exercises.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if ex.VisibleTo(acting) {
		return ex, nil
	}

	// Чужое непубличное упражнение: нужен делегированный доступ к каталогу владельца
	if err := s.access.CanAccess(ctx, acting, *ex.UserID, accessdomain.CategoryExerciseList, accessdomain.OperationRead); err != nil {
		return nil, err
	}
	return ex, nil
}

// Search возвращает упражнения, видимые target.
func (s *service) Search(ctx context.Context, acting, target uuid.UUID, filter repo.ExerciseFilter) ([]*domain.Exercise, error) {
	if err := s.access.CanAccess(ctx, acting, target, accessdomain.CategoryExerciseList, accessdomain.OperationRead); err != nil {
		return nil, err
	}
	return s.exercises.Search(ctx, target, filter)
}

// Update обновляет упражнение.
func (s *service) Update(ctx context.Context, acting uuid.UUID, id uuid.UUID, input UpdateInput) (*domain.Exercise, error) {
	ex, err := s.exercises.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Каталожные записи (без владельца) неизменяемы
	if ex.UserID == nil {
		return nil, accessuc.ErrForbidden
	}

	if err := s.access.CanAccess(ctx, acting, *ex.UserID, accessdomain.CategoryExerciseList, accessdomain.OperationWrite); err != nil {
		return nil, err
	}

	if input.Name != nil {
		ex.Name = *input.Name
	}
	if input.Category != nil {
		ex.Category = *input.Category
	}
	if input.CaloriesPerHour != nil {
		ex.CaloriesPerHour = *input.CaloriesPerHour
	}
	if input.Description != nil {
		ex.Description = *input.Description
	}
	if input.Equipment != nil {
		ex.Equipment = input.Equipment
	}
	if input.PrimaryMuscles != nil {
		ex.PrimaryMuscles = input.PrimaryMuscles
	}
	if input.SecondaryMuscles != nil {
		ex.SecondaryMuscles = input.SecondaryMuscles
	}
	if input.Instructions != nil {
		ex.Instructions = input.Instructions
	}
	if input.Images != nil {
		ex.Images = input.Images
	}
	if input.SharedWithPublic != nil {
		ex.SharedWithPublic = *input.SharedWithPublic
	}
	ex.Touch(time.Now().UTC())

	if err := s.exercises.Update(ctx, ex); err != nil {
		return nil, err
	}
	return ex, nil
}

// Delete удаляет упражнение.
func (s *service) Delete(ctx context.Context, acting uuid.UUID, id uuid.UUID) error {
	ex, err := s.exercises.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if ex.UserID == nil {
		return accessuc.ErrForbidden
	}

	if err := s.access.CanAccess(ctx, acting, *ex.UserID, accessdomain.CategoryExerciseList, accessdomain.OperationWrite); err != nil {
		return err
	}

	// Упражнение с записями дневника удалять нельзя
	count, err := s.entries.CountByExercise(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return repo.ErrExerciseInUse
	}

	return s.exercises.Delete(ctx, id)
}
