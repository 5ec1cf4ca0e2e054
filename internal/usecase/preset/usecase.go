package preset

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	accessdomain "sparkyfitness-server/internal/domain/access"
	domain "sparkyfitness-server/internal/domain/workout"
	repo "sparkyfitness-server/internal/repository/interfaces"
	accessuc "sparkyfitness-server/internal/usecase/access"
)

// ErrInvalidDay возвращается для дня недели вне диапазона 0–6.
var ErrInvalidDay = fmt.Errorf("day of week out of range")

// Service описывает usecase-слой пресетов тренировок.
type Service interface {
	// Create создаёт пресет для target.
	Create(ctx context.Context, acting, target uuid.UUID, input Input) (*domain.Preset, error)

	// Get возвращает пресет, если он видим acting.
	Get(ctx context.Context, acting uuid.UUID, id uuid.UUID) (*domain.Preset, error)

	// List возвращает пресеты, видимые target.
	List(ctx context.Context, acting, target uuid.UUID) ([]*domain.Preset, error)

	// Update обновляет пресет.
	Update(ctx context.Context, acting uuid.UUID, id uuid.UUID, input Input) (*domain.Preset, error)

	// Delete удаляет пресет.
	Delete(ctx context.Context, acting uuid.UUID, id uuid.UUID) error
}

// Input описывает данные пресета при создании/обновлении.
type Input struct {
	Name        string
	Description string
	Days        []int
	IsPublic    bool
	Items       []domain.PresetItem
}

type service struct {
	presets repo.PresetRepository
	access  accessuc.Service
}

// NewService создаёт сервис пресетов.
func NewService(presets repo.PresetRepository, access accessuc.Service) Service {
	return &service{presets: presets, access: access}
}

// validateDays проверяет дни недели расписания.
func validateDays(days []int) error {
	for _, d := range days {
		if d < 0 || d > 6 {
			return ErrInvalidDay
		}
	}
	return nil
}

// Create создаёт пресет.
func (s *service) Create(ctx context.Context, acting, target uuid.UUID, input Input) (*domain.Preset, error) {
	if err := s.access.CanAccess(ctx, acting, target, accessdomain.CategoryExerciseList, accessdomain.OperationWrite); err != nil {
		return nil, err
	}
	if err := validateDays(input.Days); err != nil {
		return nil, err
	}

	p := domain.NewPreset(target, input.Name)
	p.Description = input.Description
	p.Days = input.Days
	p.IsPublic = input.IsPublic
	p.Items = input.Items

	if err := s.presets.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Get возвращает пресет с проверкой видимости.
func (s *service) Get(ctx context.Context, acting uuid.UUID, id uuid.UUID) (*domain.Preset, error) {
	p, err := s.presets.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.VisibleTo(acting) {
		return p, nil
	}
	if err := s.access.CanAccess(ctx, acting, p.UserID, accessdomain.CategoryExerciseList, accessdomain.OperationRead); err != nil {
		return nil, err
	}
	return p, nil
}

// List возвращает пресеты, видимые target.
func (s *service) List(ctx context.Context, acting, target uuid.UUID) ([]*domain.Preset, error) {
	if err := s.access.CanAccess(ctx, acting, target, accessdomain.CategoryExerciseList, accessdomain.OperationRead); err != nil {
		return nil, err
	}
	return s.presets.ListVisible(ctx, target)
}

// Update обновляет пресет.
func (s *service) Update(ctx context.Context, acting uuid.UUID, id uuid.UUID, input Input) (*domain.Preset, error) {
	p, err := s.presets.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.access.CanAccess(ctx, acting, p.UserID, accessdomain.CategoryExerciseList, accessdomain.OperationWrite); err != nil {
		return nil, err
	}
	if err := validateDays(input.Days); err != nil {
		return nil, err
	}

	p.Name = input.Name
	p.Description = input.Description
	p.Days = input.Days
	p.IsPublic = input.IsPublic
	p.Items = input.Items
	p.Touch(time.Now().UTC())

	if err := s.presets.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Delete удаляет пресет.
func (s *service) Delete(ctx context.Context, acting uuid.UUID, id uuid.UUID) error {
	p, err := s.presets.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.access.CanAccess(ctx, acting, p.UserID, accessdomain.CategoryExerciseList, accessdomain.OperationWrite); err != nil {
		return err
	}
	return s.presets.Delete(ctx, id)
}
