package entry

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	accessdomain "sparkyfitness-server/internal/domain/access"
	domain "sparkyfitness-server/internal/domain/exercise"
	repo "sparkyfitness-server/internal/repository/interfaces"
	accessuc "sparkyfitness-server/internal/usecase/access"
)

// ErrEmptyPreset возвращается при попытке создать записи из пресета без упражнений.
var ErrEmptyPreset = fmt.Errorf("preset has no items")

// Service описывает usecase-слой дневника тренировок.
// Все операции выполняются от имени acting над данными target
// с проверкой делегированных прав (категории exercise_log и reports).
type Service interface {
	// Create создаёт запись дневника. Если калории не указаны, они вычисляются
	// из часовой ставки упражнения: calories_per_hour × duration / 60.
	Create(ctx context.Context, acting, target uuid.UUID, input CreateInput) (*domain.Entry, error)

	// Get возвращает запись, если acting имеет к ней доступ.
	Get(ctx context.Context, acting uuid.UUID, id uuid.UUID) (*domain.Entry, error)

	// ListByDate возвращает записи target за интервал дат.
	ListByDate(ctx context.Context, acting, target uuid.UUID, from, to time.Time) ([]*domain.Entry, error)

	// Update обновляет запись.
	Update(ctx context.Context, acting uuid.UUID, id uuid.UUID, input UpdateInput) (*domain.Entry, error)

	// Delete удаляет запись.
	Delete(ctx context.Context, acting uuid.UUID, id uuid.UUID) error

	// CreateFromPreset разворачивает пресет тренировки в записи дневника
	// за указанную дату. Возвращает созданные записи.
	CreateFromPreset(ctx context.Context, acting, target uuid.UUID, presetID uuid.UUID, date time.Time) ([]*domain.Entry, error)

	// Progress возвращает агрегированный прогресс target по упражнению.
	Progress(ctx context.Context, acting, target uuid.UUID, exerciseID uuid.UUID) (*ProgressReport, error)
}

// CreateInput описывает данные для создания записи дневника.
type CreateInput struct {
	ExerciseID      uuid.UUID
	EntryDate       time.Time
	DurationMinutes float64
	// CaloriesBurned — потраченные калории; nil означает «вычислить по ставке упражнения».
	CaloriesBurned *float64
	Notes          string
	Sets           []domain.Set
	ImagePath      string
}

// UpdateInput описывает изменяемые поля записи. Все поля опциональны.
type UpdateInput struct {
	EntryDate       *time.Time
	DurationMinutes *float64
	CaloriesBurned  *float64
	Notes           *string
	Sets            []domain.Set
	ImagePath       *string
}

// ProgressPoint — одна точка временного ряда прогресса.
type ProgressPoint struct {
	Date           time.Time
	MaxWeight      float64
	TotalVolume    float64
	CaloriesBurned float64
	Duration       float64
}

// ProgressReport — агрегированный прогресс по упражнению.
type ProgressReport struct {
	ExerciseID  uuid.UUID
	Sessions    int
	MaxWeight   float64
	TotalVolume float64
	Series      []ProgressPoint
}

type service struct {
	entries   repo.EntryRepository
	exercises repo.ExerciseRepository
	presets   repo.PresetRepository
	access    accessuc.Service
}

// NewService создаёт сервис дневника тренировок.
func NewService(
	entries repo.EntryRepository,
	exercises repo.ExerciseRepository,
	presets repo.PresetRepository,
	access accessuc.Service,
) Service {
	return &service{
		entries:   entries,
		exercises: exercises,
		presets:   presets,
		access:    access,
	}
}

// defaultCalories вычисляет калории по часовой ставке упражнения.
func defaultCalories(caloriesPerHour, durationMinutes float64) float64 {
	return caloriesPerHour * durationMinutes / 60
}

// Create создаёт запись дневника.
func (s *service) Create(ctx context.Context, acting, target uuid.UUID, input CreateInput) (*domain.Entry, error) {
	if err := s.access.CanAccess(ctx, acting, target, accessdomain.CategoryExerciseLog, accessdomain.OperationWrite); err != nil {
		return nil, err
	}

	ex, err := s.exercises.GetByID(ctx, input.ExerciseID)
	if err != nil {
		return nil, err
	}
	if !ex.VisibleTo(target) {
		return nil, accessuc.ErrForbidden
	}

	e := domain.NewEntry(target, ex.ID, input.EntryDate, input.DurationMinutes)
	e.Notes = input.Notes
	e.Sets = input.Sets
	e.ImagePath = input.ImagePath

	if input.CaloriesBurned != nil {
		e.CaloriesBurned = *input.CaloriesBurned
	} else {
		e.CaloriesBurned = defaultCalories(ex.CaloriesPerHour, input.DurationMinutes)
	}

	if err := s.entries.Create(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

// Get возвращает запись с проверкой доступа.
func (s *service) Get(ctx context.Context, acting uuid.UUID, id uuid.UUID) (*domain.Entry, error) {
	e, err := s.entries.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.access.CanAccess(ctx, acting, e.UserID, accessdomain.CategoryExerciseLog, accessdomain.OperationRead); err != nil {
		return nil, err
	}
	return e, nil
}

// ListByDate возвращает записи за интервал дат.
func (s *service) ListByDate(ctx context.Context, acting, target uuid.UUID, from, to time.Time) ([]*domain.Entry, error) {
	if err := s.access.CanAccess(ctx, acting, target, accessdomain.CategoryExerciseLog, accessdomain.OperationRead); err != nil {
		return nil, err
	}
	return s.entries.ListByDate(ctx, target, from, to)
}

// Update обновляет запись.
func (s *service) Update(ctx context.Context, acting uuid.UUID, id uuid.UUID, input UpdateInput) (*domain.Entry, error) {
	e, err := s.entries.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.access.CanAccess(ctx, acting, e.UserID, accessdomain.CategoryExerciseLog, accessdomain.OperationWrite); err != nil {
		return nil, err
	}

	if input.EntryDate != nil {
		e.EntryDate = *input.EntryDate
	}
	if input.DurationMinutes != nil {
		e.DurationMinutes = *input.DurationMinutes
	}
	if input.CaloriesBurned != nil {
		e.CaloriesBurned = *input.CaloriesBurned
	} else if input.DurationMinutes != nil {
		// Длительность изменилась, калории явно не заданы — пересчитываем
		ex, err := s.exercises.GetByID(ctx, e.ExerciseID)
		if err != nil {
			return nil, err
		}
		e.CaloriesBurned = defaultCalories(ex.CaloriesPerHour, e.DurationMinutes)
	}
	if input.Notes != nil {
		e.Notes = *input.Notes
	}
	if input.Sets != nil {
		e.Sets = input.Sets
	}
	if input.ImagePath != nil {
		e.ImagePath = *input.ImagePath
	}
	e.Touch(time.Now().UTC())

	if err := s.entries.Update(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

// Delete удаляет запись.
func (s *service) Delete(ctx context.Context, acting uuid.UUID, id uuid.UUID) error {
	e, err := s.entries.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.access.CanAccess(ctx, acting, e.UserID, accessdomain.CategoryExerciseLog, accessdomain.OperationWrite); err != nil {
		return err
	}
	return s.entries.Delete(ctx, id)
}

// CreateFromPreset разворачивает пресет в записи дневника.
func (s *service) CreateFromPreset(ctx context.Context, acting, target uuid.UUID, presetID uuid.UUID, date time.Time) ([]*domain.Entry, error) {
	if err := s.access.CanAccess(ctx, acting, target, accessdomain.CategoryExerciseLog, accessdomain.OperationWrite); err != nil {
		return nil, err
	}

	preset, err := s.presets.GetByID(ctx, presetID)
	if err != nil {
		return nil, err
	}
	if !preset.VisibleTo(target) {
		return nil, accessuc.ErrForbidden
	}
	if len(preset.Items) == 0 {
		return nil, ErrEmptyPreset
	}

	entries := make([]*domain.Entry, 0, len(preset.Items))
	for _, item := range preset.Items {
		ex, err := s.exercises.GetByID(ctx, item.ExerciseID)
		if err != nil {
			return nil, err
		}

		e := domain.NewEntry(target, ex.ID, date, item.DurationMinutes)
		e.PresetID = &preset.ID
		e.CaloriesBurned = defaultCalories(ex.CaloriesPerHour, item.DurationMinutes)

		// Параметры подходов пресета превращаются в одинаковые подходы записи
		if item.Sets > 0 {
			sets := make([]domain.Set, item.Sets)
			for i := range sets {
				sets[i] = domain.Set{Reps: item.Reps, Weight: item.Weight}
			}
			e.Sets = sets
		}

		entries = append(entries, e)
	}

	if err := s.entries.CreateBatch(ctx, entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// Progress возвращает агрегированный прогресс по упражнению.
func (s *service) Progress(ctx context.Context, acting, target uuid.UUID, exerciseID uuid.UUID) (*ProgressReport, error) {
	if err := s.access.CanAccess(ctx, acting, target, accessdomain.CategoryReports, accessdomain.OperationRead); err != nil {
		return nil, err
	}

	entries, err := s.entries.ListByExercise(ctx, target, exerciseID)
	if err != nil {
		return nil, err
	}

	report := &ProgressReport{
		ExerciseID: exerciseID,
		Sessions:   len(entries),
		Series:     make([]ProgressPoint, 0, len(entries)),
	}

	for _, e := range entries {
		point := ProgressPoint{
			Date:           e.EntryDate,
			MaxWeight:      e.MaxWeight(),
			TotalVolume:    e.TotalVolume(),
			CaloriesBurned: e.CaloriesBurned,
			Duration:       e.DurationMinutes,
		}
		report.Series = append(report.Series, point)
		report.TotalVolume += point.TotalVolume
		if point.MaxWeight > report.MaxWeight {
			report.MaxWeight = point.MaxWeight
		}
	}

	return report, nil
}
