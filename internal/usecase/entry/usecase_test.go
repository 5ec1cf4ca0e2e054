package entry_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	accessdomain "sparkyfitness-server/internal/domain/access"
	domain "sparkyfitness-server/internal/domain/exercise"
	workoutdomain "sparkyfitness-server/internal/domain/workout"
	repo "sparkyfitness-server/internal/repository/interfaces"
	accessuc "sparkyfitness-server/internal/usecase/access"
	entryuc "sparkyfitness-server/internal/usecase/entry"
)

// ==== Fakes for repositories and services ====

type fakeEntryRepo struct {
	entries map[uuid.UUID]*domain.Entry
	batches [][]*domain.Entry
}

func newFakeEntryRepo() *fakeEntryRepo {
	return &fakeEntryRepo{entries: make(map[uuid.UUID]*domain.Entry)}
}

func (r *fakeEntryRepo) Create(_ context.Context, e *domain.Entry) error {
	r.entries[e.ID] = e
	return nil
}

func (r *fakeEntryRepo) CreateBatch(_ context.Context, entries []*domain.Entry) error {
	for _, e := range entries {
		r.entries[e.ID] = e
	}
	r.batches = append(r.batches, entries)
	return nil
}

func (r *fakeEntryRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Entry, error) {
	e, ok := r.entries[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return e, nil
}

func (r *fakeEntryRepo) ListByDate(_ context.Context, userID uuid.UUID, from, to time.Time) ([]*domain.Entry, error) {
	var out []*domain.Entry
	for _, e := range r.entries {
		if e.UserID == userID && !e.EntryDate.Before(from) && !e.EntryDate.After(to) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakeEntryRepo) ListByExercise(_ context.Context, userID, exerciseID uuid.UUID) ([]*domain.Entry, error) {
	var out []*domain.Entry
	for _, e := range r.entries {
		if e.UserID == userID && e.ExerciseID == exerciseID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakeEntryRepo) CountByExercise(_ context.Context, exerciseID uuid.UUID) (int64, error) {
	var n int64
	for _, e := range r.entries {
		if e.ExerciseID == exerciseID {
			n++
		}
	}
	return n, nil
}

func (r *fakeEntryRepo) Update(_ context.Context, e *domain.Entry) error {
	r.entries[e.ID] = e
	return nil
}

func (r *fakeEntryRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.entries, id)
	return nil
}

type fakeExerciseRepo struct {
	exercises map[uuid.UUID]*domain.Exercise
}

func newFakeExerciseRepo() *fakeExerciseRepo {
	return &fakeExerciseRepo{exercises: make(map[uuid.UUID]*domain.Exercise)}
}

func (r *fakeExerciseRepo) Create(_ context.Context, ex *domain.Exercise) error {
	r.exercises[ex.ID] = ex
	return nil
}

func (r *fakeExerciseRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Exercise, error) {
	ex, ok := r.exercises[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return ex, nil
}

func (r *fakeExerciseRepo) GetBySource(context.Context, string, string) (*domain.Exercise, error) {
	return nil, repo.ErrNotFound
}

func (r *fakeExerciseRepo) Search(context.Context, uuid.UUID, repo.ExerciseFilter) ([]*domain.Exercise, error) {
	return nil, nil
}

func (r *fakeExerciseRepo) Update(_ context.Context, ex *domain.Exercise) error {
	r.exercises[ex.ID] = ex
	return nil
}

func (r *fakeExerciseRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.exercises, id)
	return nil
}

type fakePresetRepo struct {
	presets map[uuid.UUID]*workoutdomain.Preset
}

func newFakePresetRepo() *fakePresetRepo {
	return &fakePresetRepo{presets: make(map[uuid.UUID]*workoutdomain.Preset)}
}

func (r *fakePresetRepo) Create(_ context.Context, p *workoutdomain.Preset) error {
	r.presets[p.ID] = p
	return nil
}

func (r *fakePresetRepo) GetByID(_ context.Context, id uuid.UUID) (*workoutdomain.Preset, error) {
	p, ok := r.presets[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return p, nil
}

func (r *fakePresetRepo) ListVisible(context.Context, uuid.UUID) ([]*workoutdomain.Preset, error) {
	return nil, nil
}

func (r *fakePresetRepo) Update(_ context.Context, p *workoutdomain.Preset) error {
	r.presets[p.ID] = p
	return nil
}

func (r *fakePresetRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.presets, id)
	return nil
}

// allowOwnerAccess — доступ разрешён только к собственным данным.
type allowOwnerAccess struct{}

func (allowOwnerAccess) CanAccess(_ context.Context, acting, target uuid.UUID, _ accessdomain.Category, _ accessdomain.Operation) error {
	if acting == target {
		return nil
	}
	return accessuc.ErrForbidden
}

func (allowOwnerAccess) Grant(context.Context, uuid.UUID, uuid.UUID, []accessdomain.Category, bool, *time.Time) (*accessdomain.Grant, error) {
	return nil, accessuc.ErrForbidden
}

func (allowOwnerAccess) ListGrants(context.Context, uuid.UUID) ([]*accessdomain.Grant, error) {
	return nil, nil
}

func (allowOwnerAccess) Revoke(context.Context, uuid.UUID, uuid.UUID) error {
	return accessuc.ErrForbidden
}

func newService(t *testing.T) (entryuc.Service, *fakeEntryRepo, *fakeExerciseRepo, *fakePresetRepo) {
	t.Helper()
	entries := newFakeEntryRepo()
	exercises := newFakeExerciseRepo()
	presets := newFakePresetRepo()
	svc := entryuc.NewService(entries, exercises, presets, allowOwnerAccess{})
	return svc, entries, exercises, presets
}

// ==== Tests ====

func TestCreate_DefaultCaloriesFromExerciseRate(t *testing.T) {
	svc, _, exercises, _ := newService(t)
	userID := uuid.New()

	ex := domain.NewCustomExercise(userID, "Running", "cardio", 600)
	require.NoError(t, exercises.Create(context.Background(), ex))

	e, err := svc.Create(context.Background(), userID, userID, entryuc.CreateInput{
		ExerciseID:      ex.ID,
		EntryDate:       time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		DurationMinutes: 30,
	})
	require.NoError(t, err)
	// 600 ккал/час × 30 минут / 60 = 300
	require.InDelta(t, 300, e.CaloriesBurned, 1e-9)
}

func TestCreate_ExplicitCaloriesWin(t *testing.T) {
	svc, _, exercises, _ := newService(t)
	userID := uuid.New()

	ex := domain.NewCustomExercise(userID, "Running", "cardio", 600)
	require.NoError(t, exercises.Create(context.Background(), ex))

	calories := 123.0
	e, err := svc.Create(context.Background(), userID, userID, entryuc.CreateInput{
		ExerciseID:      ex.ID,
		EntryDate:       time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		DurationMinutes: 30,
		CaloriesBurned:  &calories,
	})
	require.NoError(t, err)
	require.InDelta(t, 123, e.CaloriesBurned, 1e-9)
}

func TestUpdate_DurationChangeRecomputesCalories(t *testing.T) {
	svc, _, exercises, _ := newService(t)
	userID := uuid.New()

	ex := domain.NewCustomExercise(userID, "Rowing", "cardio", 400)
	require.NoError(t, exercises.Create(context.Background(), ex))

	e, err := svc.Create(context.Background(), userID, userID, entryuc.CreateInput{
		ExerciseID:      ex.ID,
		EntryDate:       time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		DurationMinutes: 60,
	})
	require.NoError(t, err)
	require.InDelta(t, 400, e.CaloriesBurned, 1e-9)

	newDuration := 15.0
	updated, err := svc.Update(context.Background(), userID, e.ID, entryuc.UpdateInput{
		DurationMinutes: &newDuration,
	})
	require.NoError(t, err)
	require.InDelta(t, 100, updated.CaloriesBurned, 1e-9)
}

func TestCreate_ForbiddenForForeignTarget(t *testing.T) {
	svc, _, exercises, _ := newService(t)
	userID := uuid.New()

	ex := domain.NewCustomExercise(userID, "Squat", "strength", 300)
	require.NoError(t, exercises.Create(context.Background(), ex))

	_, err := svc.Create(context.Background(), uuid.New(), userID, entryuc.CreateInput{
		ExerciseID:      ex.ID,
		EntryDate:       time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		DurationMinutes: 10,
	})
	require.ErrorIs(t, err, accessuc.ErrForbidden)
}

func TestCreateFromPreset_ExpandsItems(t *testing.T) {
	svc, entries, exercises, presets := newService(t)
	userID := uuid.New()

	squat := domain.NewCustomExercise(userID, "Squat", "strength", 300)
	bench := domain.NewCustomExercise(userID, "Bench Press", "strength", 250)
	require.NoError(t, exercises.Create(context.Background(), squat))
	require.NoError(t, exercises.Create(context.Background(), bench))

	preset := workoutdomain.NewPreset(userID, "Leg Day")
	preset.Items = []workoutdomain.PresetItem{
		{ExerciseID: squat.ID, Position: 0, DurationMinutes: 20, Sets: 3, Reps: 5, Weight: 100},
		{ExerciseID: bench.ID, Position: 1, DurationMinutes: 15, Sets: 2, Reps: 8, Weight: 60},
	}
	require.NoError(t, presets.Create(context.Background(), preset))

	date := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	created, err := svc.CreateFromPreset(context.Background(), userID, userID, preset.ID, date)
	require.NoError(t, err)
	require.Len(t, created, 2)
	require.Len(t, entries.batches, 1, "записи создаются одной транзакцией")

	first := created[0]
	require.Equal(t, squat.ID, first.ExerciseID)
	require.NotNil(t, first.PresetID)
	require.Equal(t, preset.ID, *first.PresetID)
	require.Len(t, first.Sets, 3)
	require.Equal(t, 5, first.Sets[0].Reps)
	require.InDelta(t, 100, first.Sets[0].Weight, 1e-9)
	// Калории по ставке: 300 × 20 / 60 = 100
	require.InDelta(t, 100, first.CaloriesBurned, 1e-9)
}

func TestCreateFromPreset_EmptyPresetRejected(t *testing.T) {
	svc, _, _, presets := newService(t)
	userID := uuid.New()

	preset := workoutdomain.NewPreset(userID, "Empty")
	require.NoError(t, presets.Create(context.Background(), preset))

	_, err := svc.CreateFromPreset(context.Background(), userID, userID, preset.ID, time.Now())
	require.ErrorIs(t, err, entryuc.ErrEmptyPreset)
}

func TestProgress_AggregatesSessions(t *testing.T) {
	svc, _, exercises, _ := newService(t)
	userID := uuid.New()

	ex := domain.NewCustomExercise(userID, "Deadlift", "strength", 350)
	require.NoError(t, exercises.Create(context.Background(), ex))

	mk := func(day int, sets []domain.Set) {
		_, err := svc.Create(context.Background(), userID, userID, entryuc.CreateInput{
			ExerciseID:      ex.ID,
			EntryDate:       time.Date(2025, 6, day, 0, 0, 0, 0, time.UTC),
			DurationMinutes: 30,
			Sets:            sets,
		})
		require.NoError(t, err)
	}

	mk(1, []domain.Set{{Reps: 5, Weight: 100}, {Reps: 5, Weight: 110}})
	mk(8, []domain.Set{{Reps: 3, Weight: 120}})

	report, err := svc.Progress(context.Background(), userID, userID, ex.ID)
	require.NoError(t, err)
	require.Equal(t, 2, report.Sessions)
	require.InDelta(t, 120, report.MaxWeight, 1e-9)
	// Объём: 5×100 + 5×110 + 3×120 = 1410
	require.InDelta(t, 1410, report.TotalVolume, 1e-9)
	require.Len(t, report.Series, 2)
}
