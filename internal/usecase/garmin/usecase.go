package garmin

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	exdomain "sparkyfitness-server/internal/domain/exercise"
	domain "sparkyfitness-server/internal/domain/integration"
	repo "sparkyfitness-server/internal/repository/interfaces"
)

// Ошибки бизнес-логики интеграции Garmin.
var (
	// ErrNotLinked возвращается, когда у пользователя нет привязки Garmin.
	ErrNotLinked = fmt.Errorf("garmin account is not linked")

	// ErrSessionExpired возвращается, когда кэшированная сессия Garmin истекла
	// и требуется повторная привязка.
	ErrSessionExpired = fmt.Errorf("garmin session expired")
)

// Client описывает контракт Garmin-микросервиса: авторизацию по логину/паролю
// и выгрузку дневных сводок по сохранённому garth-дампу.
type Client interface {
	// Login выполняет вход в Garmin Connect и возвращает сериализованный
	// дамп сессии (garth dump) и срок его действия.
	Login(ctx context.Context, email, password string) (garthDump string, expiresAt *time.Time, err error)

	// DailySummaries возвращает дневные сводки активности за интервал дат.
	DailySummaries(ctx context.Context, garthDump string, from, to time.Time) ([]domain.DailySummary, error)
}

// Status описывает состояние привязки Garmin пользователя.
type Status struct {
	Connected bool
	ExpiresAt *time.Time
	UpdatedAt *time.Time
}

// Service описывает usecase-слой интеграции с Garmin.
type Service interface {
	// Connect привязывает аккаунт Garmin: выполняет вход через микросервис
	// и сохраняет garth-дамп для последующих синхронизаций.
	Connect(ctx context.Context, userID uuid.UUID, email, password string) error

	// Status возвращает состояние привязки пользователя.
	Status(ctx context.Context, userID uuid.UUID) (*Status, error)

	// Sync выгружает дневные сводки за интервал дат и создаёт записи дневника
	// под каталожным упражнением Garmin. Повторная синхронизация за те же даты
	// не создаёт дубликатов. Возвращает количество созданных записей.
	Sync(ctx context.Context, userID uuid.UUID, from, to time.Time) (int, error)

	// Disconnect удаляет привязку Garmin.
	Disconnect(ctx context.Context, userID uuid.UUID) error
}

// garminSource — имя внешнего источника для каталожной записи Garmin.
const garminSource = "garmin"

type service struct {
	links     repo.GarminRepository
	exercises repo.ExerciseRepository
	entries   repo.EntryRepository
	client    Client
	now       func() time.Time
}

// NewService создаёт сервис интеграции Garmin.
func NewService(
	links repo.GarminRepository,
	exercises repo.ExerciseRepository,
	entries repo.EntryRepository,
	client Client,
) Service {
	return &service{
		links:     links,
		exercises: exercises,
		entries:   entries,
		client:    client,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Connect привязывает аккаунт Garmin.
func (s *service) Connect(ctx context.Context, userID uuid.UUID, email, password string) error {
	dump, expiresAt, err := s.client.Login(ctx, email, password)
	if err != nil {
		return err
	}

	link := domain.NewGarminLink(userID, dump, expiresAt)
	return s.links.Upsert(ctx, link)
}

// Status возвращает состояние привязки.
func (s *service) Status(ctx context.Context, userID uuid.UUID) (*Status, error) {
	link, err := s.links.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return &Status{Connected: false}, nil
		}
		return nil, err
	}

	return &Status{
		Connected: !link.IsExpired(s.now()),
		ExpiresAt: link.ExpiresAt,
		UpdatedAt: &link.UpdatedAt,
	}, nil
}

// Sync выгружает сводки и создаёт записи дневника.
func (s *service) Sync(ctx context.Context, userID uuid.UUID, from, to time.Time) (int, error) {
	link, err := s.links.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return 0, ErrNotLinked
		}
		return 0, err
	}
	if link.IsExpired(s.now()) {
		return 0, ErrSessionExpired
	}

	summaries, err := s.client.DailySummaries(ctx, link.GarthDump, from, to)
	if err != nil {
		return 0, err
	}
	if len(summaries) == 0 {
		return 0, nil
	}

	ex, err := s.catalogExercise(ctx)
	if err != nil {
		return 0, err
	}

	// Даты, за которые записи Garmin уже существуют, пропускаются
	existing, err := s.entries.ListByExercise(ctx, userID, ex.ID)
	if err != nil {
		return 0, err
	}
	seen := make(map[string]struct{}, len(existing))
	for _, e := range existing {
		seen[e.EntryDate.Format("2006-01-02")] = struct{}{}
	}

	entries := make([]*exdomain.Entry, 0, len(summaries))
	for _, sum := range summaries {
		if _, ok := seen[sum.Date.Format("2006-01-02")]; ok {
			continue
		}

		e := exdomain.NewEntry(userID, ex.ID, sum.Date, sum.DurationMinutes)
		e.CaloriesBurned = sum.ActiveCalories
		e.Notes = sum.ActivityName
		if sum.Steps > 0 {
			e.Notes = fmt.Sprintf("%s (%d steps)", sum.ActivityName, sum.Steps)
		}
		entries = append(entries, e)
	}
	if len(entries) == 0 {
		return 0, nil
	}

	if err := s.entries.CreateBatch(ctx, entries); err != nil {
		return 0, err
	}
	return len(entries), nil
}

// catalogExercise возвращает каталожную запись Garmin-активности,
// создавая её при первом обращении.
func (s *service) catalogExercise(ctx context.Context) (*exdomain.Exercise, error) {
	ex, err := s.exercises.GetBySource(ctx, garminSource, "daily-activity")
	if err == nil {
		return ex, nil
	}
	if !errors.Is(err, repo.ErrNotFound) {
		return nil, err
	}

	now := s.now()
	ex = &exdomain.Exercise{
		ID:        uuid.New(),
		Name:      "Garmin Activity",
		Category:  "cardio",
		Source:    garminSource,
		SourceID:  "daily-activity",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.exercises.Create(ctx, ex); err != nil {
		return nil, err
	}
	return ex, nil
}

// Disconnect удаляет привязку Garmin.
func (s *service) Disconnect(ctx context.Context, userID uuid.UUID) error {
	err := s.links.DeleteByUserID(ctx, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return ErrNotLinked
	}
	return err
}
