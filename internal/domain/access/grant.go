package access

import (
	"time"

	"github.com/google/uuid"
)

// Category описывает именованную область доступа («категорию ресурса»),
// на которую выдаётся делегированное разрешение.
type Category string

const (
	// CategoryExerciseList — каталог упражнений пользователя.
	CategoryExerciseList Category = "exercise_list"
	// CategoryExerciseLog — дневник тренировок (записи упражнений).
	CategoryExerciseLog Category = "exercise_log"
	// CategoryReports — отчёты и прогресс.
	CategoryReports Category = "reports"
)

// Operation описывает вид операции над ресурсом.
type Operation string

const (
	OperationRead  Operation = "read"
	OperationWrite Operation = "write"
)

// IsValid возвращает true для известной категории.
func (c Category) IsValid() bool {
	switch c {
	case CategoryExerciseList, CategoryExerciseLog, CategoryReports:
		return true
	}
	return false
}

// Grant представляет выданное делегированное разрешение: владелец (granter)
// разрешает другому пользователю (grantee) работать со своими данными
// в перечисленных категориях. Режим «acting on behalf of».
type Grant struct {
	ID            uuid.UUID  // Идентификатор разрешения
	OwnerUserID   uuid.UUID  // Владелец данных (кто выдал разрешение)
	GranteeUserID uuid.UUID  // Кому выдано разрешение
	Categories    []Category // Разрешённые категории
	ReadOnly      bool       // Только чтение: операции записи запрещены
	IsActive      bool       // Действует ли разрешение
	ExpiresAt     *time.Time // Срок действия (nil — бессрочно)
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewGrant создаёт новое активное разрешение.
func NewGrant(owner, grantee uuid.UUID, categories []Category, readOnly bool, expiresAt *time.Time) *Grant {
	now := time.Now().UTC()
	return &Grant{
		ID:            uuid.New(),
		OwnerUserID:   owner,
		GranteeUserID: grantee,
		Categories:    categories,
		ReadOnly:      readOnly,
		IsActive:      true,
		ExpiresAt:     expiresAt,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// IsExpired возвращает true, если срок действия разрешения истёк на момент at.
func (g *Grant) IsExpired(at time.Time) bool {
	return g.ExpiresAt != nil && !g.ExpiresAt.After(at)
}

// Allows возвращает true, если разрешение действует, покрывает категорию
// и допускает операцию (read-only разрешение запрещает запись).
func (g *Grant) Allows(category Category, op Operation, at time.Time) bool {
	if !g.IsActive || g.IsExpired(at) {
		return false
	}
	if g.ReadOnly && op == OperationWrite {
		return false
	}
	for _, c := range g.Categories {
		if c == category {
			return true
		}
	}
	return false
}
