package garmin_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	exdomain "sparkyfitness-server/internal/domain/exercise"
	domain "sparkyfitness-server/internal/domain/integration"
	repo "sparkyfitness-server/internal/repository/interfaces"
	garminuc "sparkyfitness-server/internal/usecase/garmin"
)

// ==== Fakes ====

type fakeLinkRepo struct {
	links map[uuid.UUID]*domain.GarminLink
}

func newFakeLinkRepo() *fakeLinkRepo {
	return &fakeLinkRepo{links: make(map[uuid.UUID]*domain.GarminLink)}
}

func (r *fakeLinkRepo) Upsert(_ context.Context, link *domain.GarminLink) error {
	r.links[link.UserID] = link
	return nil
}

func (r *fakeLinkRepo) GetByUserID(_ context.Context, userID uuid.UUID) (*domain.GarminLink, error) {
	link, ok := r.links[userID]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return link, nil
}

func (r *fakeLinkRepo) DeleteByUserID(_ context.Context, userID uuid.UUID) error {
	if _, ok := r.links[userID]; !ok {
		return repo.ErrNotFound
	}
	delete(r.links, userID)
	return nil
}

type fakeExerciseRepo struct {
	exercises map[uuid.UUID]*exdomain.Exercise
}

func newFakeExerciseRepo() *fakeExerciseRepo {
	return &fakeExerciseRepo{exercises: make(map[uuid.UUID]*exdomain.Exercise)}
}

func (r *fakeExerciseRepo) Create(_ context.Context, ex *exdomain.Exercise) error {
	r.exercises[ex.ID] = ex
	return nil
}

func (r *fakeExerciseRepo) GetByID(_ context.Context, id uuid.UUID) (*exdomain.Exercise, error) {
	ex, ok := r.exercises[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return ex, nil
}

func (r *fakeExerciseRepo) GetBySource(_ context.Context, source, sourceID string) (*exdomain.Exercise, error) {
	for _, ex := range r.exercises {
		if ex.Source == source && ex.SourceID == sourceID {
			return ex, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (r *fakeExerciseRepo) Search(context.Context, uuid.UUID, repo.ExerciseFilter) ([]*exdomain.Exercise, error) {
	return nil, nil
}

func (r *fakeExerciseRepo) Update(_ context.Context, ex *exdomain.Exercise) error {
	r.exercises[ex.ID] = ex
	return nil
}

func (r *fakeExerciseRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.exercises, id)
	return nil
}

type fakeEntryRepo struct {
	entries map[uuid.UUID]*exdomain.Entry
}

func newFakeEntryRepo() *fakeEntryRepo {
	return &fakeEntryRepo{entries: make(map[uuid.UUID]*exdomain.Entry)}
}

func (r *fakeEntryRepo) Create(_ context.Context, e *exdomain.Entry) error {
	r.entries[e.ID] = e
	return nil
}

func (r *fakeEntryRepo) CreateBatch(_ context.Context, entries []*exdomain.Entry) error {
	for _, e := range entries {
		r.entries[e.ID] = e
	}
	return nil
}

func (r *fakeEntryRepo) GetByID(_ context.Context, id uuid.UUID) (*exdomain.Entry, error) {
	e, ok := r.entries[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return e, nil
}

func (r *fakeEntryRepo) ListByDate(context.Context, uuid.UUID, time.Time, time.Time) ([]*exdomain.Entry, error) {
	return nil, nil
}

func (r *fakeEntryRepo) ListByExercise(_ context.Context, userID, exerciseID uuid.UUID) ([]*exdomain.Entry, error) {
	var out []*exdomain.Entry
	for _, e := range r.entries {
		if e.UserID == userID && e.ExerciseID == exerciseID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakeEntryRepo) CountByExercise(context.Context, uuid.UUID) (int64, error) { return 0, nil }

func (r *fakeEntryRepo) Update(_ context.Context, e *exdomain.Entry) error {
	r.entries[e.ID] = e
	return nil
}

func (r *fakeEntryRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.entries, id)
	return nil
}

type fakeClient struct {
	dump      string
	expiresAt *time.Time
	loginErr  error
	summaries []domain.DailySummary
}

func (c *fakeClient) Login(context.Context, string, string) (string, *time.Time, error) {
	if c.loginErr != nil {
		return "", nil, c.loginErr
	}
	return c.dump, c.expiresAt, nil
}

func (c *fakeClient) DailySummaries(context.Context, string, time.Time, time.Time) ([]domain.DailySummary, error) {
	return c.summaries, nil
}

func date(day int) time.Time {
	return time.Date(2025, 6, day, 0, 0, 0, 0, time.UTC)
}

// ==== Tests ====

func TestSync_NotLinked(t *testing.T) {
	svc := garminuc.NewService(newFakeLinkRepo(), newFakeExerciseRepo(), newFakeEntryRepo(), &fakeClient{})

	_, err := svc.Sync(context.Background(), uuid.New(), date(1), date(7))
	require.ErrorIs(t, err, garminuc.ErrNotLinked)
}

func TestSync_ExpiredSession(t *testing.T) {
	links := newFakeLinkRepo()
	svc := garminuc.NewService(links, newFakeExerciseRepo(), newFakeEntryRepo(), &fakeClient{})
	userID := uuid.New()

	expired := time.Now().UTC().Add(-time.Hour)
	require.NoError(t, links.Upsert(context.Background(), domain.NewGarminLink(userID, "dump", &expired)))

	_, err := svc.Sync(context.Background(), userID, date(1), date(7))
	require.ErrorIs(t, err, garminuc.ErrSessionExpired)
}

func TestSync_ImportsSummariesAndDeduplicates(t *testing.T) {
	links := newFakeLinkRepo()
	exercises := newFakeExerciseRepo()
	entries := newFakeEntryRepo()
	client := &fakeClient{
		summaries: []domain.DailySummary{
			{Date: date(1), Steps: 8000, ActiveCalories: 450, DurationMinutes: 60, ActivityName: "Walking"},
			{Date: date(2), Steps: 0, ActiveCalories: 300, DurationMinutes: 45, ActivityName: "Cycling"},
		},
	}
	svc := garminuc.NewService(links, exercises, entries, client)
	userID := uuid.New()

	require.NoError(t, links.Upsert(context.Background(), domain.NewGarminLink(userID, "dump", nil)))

	imported, err := svc.Sync(context.Background(), userID, date(1), date(7))
	require.NoError(t, err)
	require.Equal(t, 2, imported)

	// Каталожная запись создаётся один раз
	ex, err := exercises.GetBySource(context.Background(), "garmin", "daily-activity")
	require.NoError(t, err)
	require.Equal(t, "Garmin Activity", ex.Name)

	// Повторная синхронизация того же интервала ничего не добавляет
	imported, err = svc.Sync(context.Background(), userID, date(1), date(7))
	require.NoError(t, err)
	require.Zero(t, imported)
	require.Len(t, entries.entries, 2)
}

func TestConnect_StoresLink(t *testing.T) {
	links := newFakeLinkRepo()
	expires := time.Now().UTC().Add(24 * time.Hour)
	svc := garminuc.NewService(links, newFakeExerciseRepo(), newFakeEntryRepo(), &fakeClient{dump: "garth-blob", expiresAt: &expires})
	userID := uuid.New()

	require.NoError(t, svc.Connect(context.Background(), userID, "user@example.com", "pass"))

	link, err := links.GetByUserID(context.Background(), userID)
	require.NoError(t, err)
	require.Equal(t, "garth-blob", link.GarthDump)
}

func TestDisconnect_NotLinked(t *testing.T) {
	svc := garminuc.NewService(newFakeLinkRepo(), newFakeExerciseRepo(), newFakeEntryRepo(), &fakeClient{})

	err := svc.Disconnect(context.Background(), uuid.New())
	require.ErrorIs(t, err, garminuc.ErrNotLinked)
}

func TestStatus_ReportsConnectionState(t *testing.T) {
	links := newFakeLinkRepo()
	svc := garminuc.NewService(links, newFakeExerciseRepo(), newFakeEntryRepo(), &fakeClient{})
	userID := uuid.New()

	status, err := svc.Status(context.Background(), userID)
	require.NoError(t, err)
	require.False(t, status.Connected)

	require.NoError(t, links.Upsert(context.Background(), domain.NewGarminLink(userID, "dump", nil)))

	status, err = svc.Status(context.Background(), userID)
	require.NoError(t, err)
	require.True(t, status.Connected)
}
