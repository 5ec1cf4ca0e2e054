package exercise

import (
	"time"

	"github.com/google/uuid"
)

// Exercise представляет упражнение: пользовательское или запись
// публичного каталога (у каталожных записей UserID == nil).
type Exercise struct {
	ID     uuid.UUID
	UserID *uuid.UUID // Владелец; nil — системная запись каталога

	Name            string
	Category        string  // cardio, strength, flexibility и т.п.
	CaloriesPerHour float64 // Расход калорий за час при выполнении
	Description     string

	// Метаданные каталога. В БД хранятся как JSON-массивы.
	Equipment        []string
	PrimaryMuscles   []string
	SecondaryMuscles []string
	Instructions     []string
	Images           []string

	IsCustom         bool // Создано пользователем (не каталог)
	SharedWithPublic bool // Доступно всем пользователям

	// Связь с внешним источником каталога (например, free-exercise-db).
	Source   string
	SourceID string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewCustomExercise создаёт пользовательское упражнение.
func NewCustomExercise(owner uuid.UUID, name, category string, caloriesPerHour float64) *Exercise {
	now := time.Now().UTC()
	return &Exercise{
		ID:              uuid.New(),
		UserID:          &owner,
		Name:            name,
		Category:        category,
		CaloriesPerHour: caloriesPerHour,
		IsCustom:        true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// OwnedBy возвращает true, если упражнение принадлежит пользователю userID.
func (e *Exercise) OwnedBy(userID uuid.UUID) bool {
	return e.UserID != nil && *e.UserID == userID
}

// VisibleTo возвращает true, если пользователь может читать упражнение:
// собственные, публичные и каталожные записи.
func (e *Exercise) VisibleTo(userID uuid.UUID) bool {
	return e.UserID == nil || e.SharedWithPublic || e.OwnedBy(userID)
}

// Touch обновляет время последнего изменения.
func (e *Exercise) Touch(at time.Time) {
	e.UpdatedAt = at
}
