package exercise_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	accessdomain "sparkyfitness-server/internal/domain/access"
	domain "sparkyfitness-server/internal/domain/exercise"
	repo "sparkyfitness-server/internal/repository/interfaces"
	accessuc "sparkyfitness-server/internal/usecase/access"
	exerciseuc "sparkyfitness-server/internal/usecase/exercise"
)

// ==== Fakes ====

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

func (r *fakeExerciseRepo) Search(_ context.Context, userID uuid.UUID, _ repo.ExerciseFilter) ([]*domain.Exercise, error) {
	var out []*domain.Exercise
	for _, ex := range r.exercises {
		if ex.VisibleTo(userID) {
			out = append(out, ex)
		}
	}
	return out, nil
}

func (r *fakeExerciseRepo) Update(_ context.Context, ex *domain.Exercise) error {
	r.exercises[ex.ID] = ex
	return nil
}

func (r *fakeExerciseRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.exercises, id)
	return nil
}

// fakeEntryRepo учитывает только счётчик ссылок на упражнение.
type fakeEntryRepo struct {
	countByExercise map[uuid.UUID]int64
}

func newFakeEntryRepo() *fakeEntryRepo {
	return &fakeEntryRepo{countByExercise: make(map[uuid.UUID]int64)}
}

func (r *fakeEntryRepo) Create(context.Context, *domain.Entry) error        { return nil }
func (r *fakeEntryRepo) CreateBatch(context.Context, []*domain.Entry) error { return nil }

func (r *fakeEntryRepo) GetByID(context.Context, uuid.UUID) (*domain.Entry, error) {
	return nil, repo.ErrNotFound
}

func (r *fakeEntryRepo) ListByDate(context.Context, uuid.UUID, time.Time, time.Time) ([]*domain.Entry, error) {
	return nil, nil
}

func (r *fakeEntryRepo) ListByExercise(context.Context, uuid.UUID, uuid.UUID) ([]*domain.Entry, error) {
	return nil, nil
}

func (r *fakeEntryRepo) CountByExercise(_ context.Context, exerciseID uuid.UUID) (int64, error) {
	return r.countByExercise[exerciseID], nil
}

func (r *fakeEntryRepo) Update(context.Context, *domain.Entry) error { return nil }
func (r *fakeEntryRepo) Delete(context.Context, uuid.UUID) error     { return nil }

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

func newService(t *testing.T) (exerciseuc.Service, *fakeExerciseRepo, *fakeEntryRepo) {
	t.Helper()
	exercises := newFakeExerciseRepo()
	entries := newFakeEntryRepo()
	svc := exerciseuc.NewService(exercises, entries, allowOwnerAccess{})
	return svc, exercises, entries
}

// ==== Tests ====

func TestCreate_ForeignTargetForbidden(t *testing.T) {
	svc, _, _ := newService(t)

	_, err := svc.Create(context.Background(), uuid.New(), uuid.New(), exerciseuc.CreateInput{
		Name:     "Bench Press",
		Category: "strength",
	})
	require.ErrorIs(t, err, accessuc.ErrForbidden)
}

func TestGet_PublicExerciseVisibleToStranger(t *testing.T) {
	svc, exercises, _ := newService(t)
	owner := uuid.New()

	ex := domain.NewCustomExercise(owner, "Squat", "strength", 400)
	ex.SharedWithPublic = true
	require.NoError(t, exercises.Create(context.Background(), ex))

	got, err := svc.Get(context.Background(), uuid.New(), ex.ID)
	require.NoError(t, err)
	require.Equal(t, ex.ID, got.ID)
}

func TestGet_PrivateExerciseHiddenFromStranger(t *testing.T) {
	svc, exercises, _ := newService(t)
	owner := uuid.New()

	ex := domain.NewCustomExercise(owner, "Squat", "strength", 400)
	require.NoError(t, exercises.Create(context.Background(), ex))

	_, err := svc.Get(context.Background(), uuid.New(), ex.ID)
	require.ErrorIs(t, err, accessuc.ErrForbidden)
}

func TestUpdate_CatalogExerciseImmutable(t *testing.T) {
	svc, exercises, _ := newService(t)

	ex := &domain.Exercise{
		ID:       uuid.New(),
		Name:     "Garmin Activity",
		Category: "cardio",
		Source:   "garmin",
		SourceID: "daily-activity",
	}
	require.NoError(t, exercises.Create(context.Background(), ex))

	name := "Renamed"
	_, err := svc.Update(context.Background(), uuid.New(), ex.ID, exerciseuc.UpdateInput{Name: &name})
	require.ErrorIs(t, err, accessuc.ErrForbidden)
}

func TestUpdate_PartialFields(t *testing.T) {
	svc, exercises, _ := newService(t)
	owner := uuid.New()

	ex := domain.NewCustomExercise(owner, "Deadlift", "strength", 350)
	ex.Equipment = []string{"barbell"}
	require.NoError(t, exercises.Create(context.Background(), ex))

	calories := 420.0
	got, err := svc.Update(context.Background(), owner, ex.ID, exerciseuc.UpdateInput{CaloriesPerHour: &calories})
	require.NoError(t, err)
	require.Equal(t, 420.0, got.CaloriesPerHour)
	require.Equal(t, "Deadlift", got.Name)
	require.Equal(t, []string{"barbell"}, got.Equipment)
}

func TestDelete_BlockedWhileReferencedByEntries(t *testing.T) {
	svc, exercises, entries := newService(t)
	owner := uuid.New()

	ex := domain.NewCustomExercise(owner, "Running", "cardio", 600)
	require.NoError(t, exercises.Create(context.Background(), ex))
	entries.countByExercise[ex.ID] = 3

	err := svc.Delete(context.Background(), owner, ex.ID)
	require.ErrorIs(t, err, repo.ErrExerciseInUse)

	_, err = exercises.GetByID(context.Background(), ex.ID)
	require.NoError(t, err)
}

func TestDelete_UnreferencedExercise(t *testing.T) {
	svc, exercises, _ := newService(t)
	owner := uuid.New()

	ex := domain.NewCustomExercise(owner, "Running", "cardio", 600)
	require.NoError(t, exercises.Create(context.Background(), ex))

	require.NoError(t, svc.Delete(context.Background(), owner, ex.ID))

	_, err := exercises.GetByID(context.Background(), ex.ID)
	require.ErrorIs(t, err, repo.ErrNotFound)
}

func TestDelete_CatalogExerciseForbidden(t *testing.T) {
	svc, exercises, _ := newService(t)

	ex := &domain.Exercise{ID: uuid.New(), Name: "Garmin Activity", Category: "cardio"}
	require.NoError(t, exercises.Create(context.Background(), ex))

	err := svc.Delete(context.Background(), uuid.New(), ex.ID)
	require.ErrorIs(t, err, accessuc.ErrForbidden)
}
