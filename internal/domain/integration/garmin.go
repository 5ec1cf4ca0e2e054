package integration

import (
	"time"

	"github.com/google/uuid"
)

// GarminLink представляет привязку аккаунта Garmin Connect к пользователю.
// GarthDump — непрозрачный сериализованный блоб сессии (выдаётся микросервисом
// авторизации), позволяющий возобновлять сессию без повторного входа.
type GarminLink struct {
	ID     uuid.UUID
	UserID uuid.UUID

	GarthDump string     // Кэш учётных данных, содержимое не интерпретируется
	ExpiresAt *time.Time // Срок действия сессии (nil — неизвестен)

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewGarminLink создаёт привязку Garmin для пользователя.
func NewGarminLink(userID uuid.UUID, garthDump string, expiresAt *time.Time) *GarminLink {
	now := time.Now().UTC()
	return &GarminLink{
		ID:        uuid.New(),
		UserID:    userID,
		GarthDump: garthDump,
		ExpiresAt: expiresAt,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IsExpired возвращает true, если срок действия сессии истёк на момент at.
func (l *GarminLink) IsExpired(at time.Time) bool {
	return l.ExpiresAt != nil && !l.ExpiresAt.After(at)
}

// DailySummary описывает дневную сводку активности, полученную из Garmin.
type DailySummary struct {
	Date            time.Time
	Steps           int
	ActiveCalories  float64
	DurationMinutes float64
	ActivityName    string
}
