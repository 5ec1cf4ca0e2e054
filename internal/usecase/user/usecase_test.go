package user_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	domain "sparkyfitness-server/internal/domain/user"
	repo "sparkyfitness-server/internal/repository/interfaces"
	useruc "sparkyfitness-server/internal/usecase/user"
)

// ==== Fakes ====

type fakeUserRepo struct {
	users       map[uuid.UUID]*domain.User
	hardDeleted []uuid.UUID
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*domain.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	for _, u := range r.users {
		if strings.EqualFold(u.Email, user.Email) && !u.IsDeleted() {
			return repo.ErrEmailExists
		}
	}
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok || u.IsDeleted() {
		return nil, repo.ErrNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) && !u.IsDeleted() {
			return u, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (r *fakeUserRepo) List(_ context.Context) ([]*domain.User, error) {
	var out []*domain.User
	for _, u := range r.users {
		if !u.IsDeleted() {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return repo.ErrNotFound
	}
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) RecordLogin(_ context.Context, id uuid.UUID, at time.Time) error {
	u, ok := r.users[id]
	if !ok {
		return repo.ErrNotFound
	}
	u.LastLoginAt = &at
	return nil
}

func (r *fakeUserRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	u, ok := r.users[id]
	if !ok {
		return repo.ErrNotFound
	}
	now := time.Now().UTC()
	u.DeletedAt = &now
	return nil
}

func (r *fakeUserRepo) HardDelete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.users[id]; !ok {
		return repo.ErrNotFound
	}
	delete(r.users, id)
	r.hardDeleted = append(r.hardDeleted, id)
	return nil
}

// ==== Tests ====

func TestRegister_DuplicateEmail(t *testing.T) {
	users := newFakeUserRepo()
	svc := useruc.NewService(users)

	_, err := svc.Register(context.Background(), "user@example.com", "hash", "First")
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), "USER@example.com", "hash", "Second")
	require.ErrorIs(t, err, repo.ErrEmailExists)
}

func TestRegister_EmailFreedAfterSoftDelete(t *testing.T) {
	users := newFakeUserRepo()
	svc := useruc.NewService(users)

	u, err := svc.Register(context.Background(), "user@example.com", "hash", "First")
	require.NoError(t, err)
	require.NoError(t, svc.DeleteAccount(context.Background(), u.ID))

	_, err = svc.Register(context.Background(), "user@example.com", "hash", "Second")
	require.NoError(t, err)
}

func TestDeleteAccount_ProfileHidden(t *testing.T) {
	users := newFakeUserRepo()
	svc := useruc.NewService(users)

	u, err := svc.Register(context.Background(), "user@example.com", "hash", "User")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteAccount(context.Background(), u.ID))

	_, err = svc.GetProfile(context.Background(), u.ID)
	require.ErrorIs(t, err, repo.ErrNotFound)
}

func TestAdminUpdateUser_RoleAndActivity(t *testing.T) {
	users := newFakeUserRepo()
	svc := useruc.NewService(users)

	u, err := svc.Register(context.Background(), "user@example.com", "hash", "User")
	require.NoError(t, err)

	role := domain.RoleAdmin
	active := false
	got, err := svc.AdminUpdateUser(context.Background(), u.ID, useruc.AdminUpdateInput{Role: &role, IsActive: &active})
	require.NoError(t, err)
	require.True(t, got.IsAdmin())
	require.False(t, got.IsActive)
	require.Equal(t, "User", got.FullName)
}

func TestAdminDeleteUser_HardDelete(t *testing.T) {
	users := newFakeUserRepo()
	svc := useruc.NewService(users)

	u, err := svc.Register(context.Background(), "user@example.com", "hash", "User")
	require.NoError(t, err)

	require.NoError(t, svc.AdminDeleteUser(context.Background(), u.ID))
	require.Equal(t, []uuid.UUID{u.ID}, users.hardDeleted)
}

func TestBootstrapAdmin(t *testing.T) {
	users := newFakeUserRepo()
	svc := useruc.NewService(users)

	// Пользователь ещё не зарегистрирован — не ошибка
	require.NoError(t, svc.BootstrapAdmin(context.Background(), "admin@example.com"))

	u, err := svc.Register(context.Background(), "admin@example.com", "hash", "Admin")
	require.NoError(t, err)
	require.False(t, u.IsAdmin())

	require.NoError(t, svc.BootstrapAdmin(context.Background(), "admin@example.com"))

	got, err := svc.GetByID(context.Background(), u.ID)
	require.NoError(t, err)
	require.True(t, got.IsAdmin())

	// Повторный вызов идемпотентен
	require.NoError(t, svc.BootstrapAdmin(context.Background(), "admin@example.com"))
}

func TestRecordLogin_SetsTimestamp(t *testing.T) {
	users := newFakeUserRepo()
	svc := useruc.NewService(users)

	u, err := svc.Register(context.Background(), "user@example.com", "hash", "User")
	require.NoError(t, err)
	require.Nil(t, u.LastLoginAt)

	require.NoError(t, svc.RecordLogin(context.Background(), u.ID))

	got, err := svc.GetByID(context.Background(), u.ID)
	require.NoError(t, err)
	require.NotNil(t, got.LastLoginAt)
}
