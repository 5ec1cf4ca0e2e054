package user

import (
	"time"

	"github.com/google/uuid"
)

// Role описывает роль пользователя в системе.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User представляет доменную модель пользователя фитнес‑приложения.
//
// Важно: эта модель описывает бизнес‑сущность и не зависит от деталей транспорта (HTTP)
// и конкретного представления в БД.
type User struct {
	ID           uuid.UUID // Уникальный идентификатор пользователя
	Email        string    // Email (уникальный логин)
	PasswordHash string    // Хэш пароля
	FullName     string    // Полное имя

	Role     Role // Роль (user/admin)
	IsActive bool // Активен ли аккаунт (деактивируется администратором)

	CreatedAt   time.Time  // Время создания
	UpdatedAt   time.Time  // Время последнего обновления
	LastLoginAt *time.Time // Время последнего входа (nil, если не входил)
	DeletedAt   *time.Time // Для мягкого удаления (nil, если активен)
}

// NewUser — фабрика для создания нового пользователя на доменном уровне.
// Предполагается, что валидация/нормализация входных данных и хеширование пароля
// выполняются на уровне usecase‑слоя до вызова этой функции.
func NewUser(email, passwordHash, fullName string) *User {
	now := time.Now().UTC()
	return &User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: passwordHash,
		FullName:     fullName,
		Role:         RoleUser,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// IsAdmin возвращает true, если пользователь имеет роль администратора.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsDeleted возвращает true, если пользователь мягко удалён.
func (u *User) IsDeleted() bool {
	return u.DeletedAt != nil
}

// MarkDeleted помечает пользователя как удалённого и обновляет время обновления.
func (u *User) MarkDeleted(at time.Time) {
	u.DeletedAt = &at
	u.UpdatedAt = at
}

// RecordLogin фиксирует время успешного входа.
func (u *User) RecordLogin(at time.Time) {
	u.LastLoginAt = &at
}

// Touch обновляет время последнего изменения сущности.
func (u *User) Touch(at time.Time) {
	u.UpdatedAt = at
}
