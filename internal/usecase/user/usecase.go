package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	domain "sparkyfitness-server/internal/domain/user"
	repo "sparkyfitness-server/internal/repository/interfaces"
)

// Service описывает usecase-слой для работы с пользователем:
// регистрацию, получение/обновление профиля, мягкое удаление аккаунта
// и административные операции над пользователями.
type Service interface {
	// Register регистрирует нового пользователя на основе минимального контракта:
	// email, хэш пароля, полное имя. Валидация и хеширование выполняются выше
	// (на уровне хендлера).
	// Возвращает созданного пользователя или ошибку (включая ErrEmailExists).
	Register(ctx context.Context, email, passwordHash, fullName string) (*domain.User, error)

	// GetByID возвращает пользователя по идентификатору.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetProfile возвращает профиль текущего пользователя (по его ID).
	GetProfile(ctx context.Context, userID uuid.UUID) (*domain.User, error)

	// UpdateProfile обновляет профиль пользователя (без изменения пароля и роли).
	UpdateProfile(ctx context.Context, userID uuid.UUID, input ProfileUpdateInput) (*domain.User, error)

	// DeleteAccount выполняет мягкое удаление собственного аккаунта.
	DeleteAccount(ctx context.Context, userID uuid.UUID) error

	// RecordLogin фиксирует успешный вход пользователя.
	RecordLogin(ctx context.Context, userID uuid.UUID) error

	// ListUsers возвращает список всех активных пользователей.
	// Предназначено для административных сценариев.
	ListUsers(ctx context.Context) ([]*domain.User, error)

	// AdminUpdateUser обновляет пользователя от имени администратора
	// (роль, активность, имя).
	AdminUpdateUser(ctx context.Context, userID uuid.UUID, input AdminUpdateInput) (*domain.User, error)

	// AdminDeleteUser физически удаляет пользователя (hard delete).
	AdminDeleteUser(ctx context.Context, userID uuid.UUID) error

	// BootstrapAdmin выдаёт роль администратора пользователю с указанным email,
	// если такой пользователь существует. Отсутствие пользователя не является ошибкой.
	BootstrapAdmin(ctx context.Context, email string) error
}

// ProfileUpdateInput описывает допустимые изменения в профиле пользователя
// на уровне бизнес-логики (usecase). Все поля опциональны.
type ProfileUpdateInput struct {
	Email    *string
	FullName *string
}

// AdminUpdateInput описывает административные изменения пользователя.
type AdminUpdateInput struct {
	FullName *string
	Role     *domain.Role
	IsActive *bool
}

type service struct {
	users repo.UserRepository
}

// NewService создаёт новый сервис пользователей.
func NewService(users repo.UserRepository) Service {
	return &service{users: users}
}

// Register регистрирует нового пользователя.
func (s *service) Register(ctx context.Context, email, passwordHash, fullName string) (*domain.User, error) {
	if email == "" || passwordHash == "" {
		return nil, fmt.Errorf("email и passwordHash обязательны")
	}

	user := domain.NewUser(email, passwordHash, fullName)

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// GetByID возвращает пользователя по ID.
func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}

// GetProfile возвращает профиль пользователя.
func (s *service) GetProfile(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	return s.users.GetByID(ctx, userID)
}

// UpdateProfile обновляет профиль пользователя.
func (s *service) UpdateProfile(ctx context.Context, userID uuid.UUID, input ProfileUpdateInput) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	// Применяем изменения к доменной модели
	if input.Email != nil {
		user.Email = *input.Email
	}
	if input.FullName != nil {
		user.FullName = *input.FullName
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// DeleteAccount выполняет мягкое удаление аккаунта.
func (s *service) DeleteAccount(ctx context.Context, userID uuid.UUID) error {
	return s.users.SoftDelete(ctx, userID)
}

// RecordLogin фиксирует успешный вход пользователя.
func (s *service) RecordLogin(ctx context.Context, userID uuid.UUID) error {
	return s.users.RecordLogin(ctx, userID, time.Now().UTC())
}

// ListUsers возвращает всех активных пользователей.
func (s *service) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return s.users.List(ctx)
}

// AdminUpdateUser обновляет пользователя от имени администратора.
func (s *service) AdminUpdateUser(ctx context.Context, userID uuid.UUID, input AdminUpdateInput) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.FullName != nil {
		user.FullName = *input.FullName
	}
	if input.Role != nil {
		user.Role = *input.Role
	}
	if input.IsActive != nil {
		user.IsActive = *input.IsActive
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// AdminDeleteUser физически удаляет пользователя.
func (s *service) AdminDeleteUser(ctx context.Context, userID uuid.UUID) error {
	return s.users.HardDelete(ctx, userID)
}

// BootstrapAdmin выдаёт роль администратора пользователю с указанным email.
func (s *service) BootstrapAdmin(ctx context.Context, email string) error {
	if email == "" {
		return nil
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			// Пользователь ещё не зарегистрирован — bootstrap отложен
			return nil
		}
		return err
	}

	if user.IsAdmin() {
		return nil
	}

	user.Role = domain.RoleAdmin
	return s.users.Update(ctx, user)
}
