package exercise

import (
	"time"

	"github.com/google/uuid"
)

// Set описывает один подход в записи дневника.
type Set struct {
	Reps            int     `json:"reps,omitempty"`
	Weight          float64 `json:"weight,omitempty"`
	DurationSeconds int     `json:"duration_seconds,omitempty"`
	RestSeconds     int     `json:"rest_seconds,omitempty"`
}

// Entry представляет запись дневника тренировок: выполненное упражнение
// за конкретную дату с длительностью, подходами и потраченными калориями.
type Entry struct {
	ID         uuid.UUID
	UserID     uuid.UUID // Владелец записи
	ExerciseID uuid.UUID // Выполненное упражнение

	EntryDate       time.Time // Дата записи (значима только дата)
	DurationMinutes float64   // Длительность в минутах
	CaloriesBurned  float64   // Потрачено калорий
	Notes           string
	Sets            []Set  // Подходы; в БД хранятся как JSON-массив
	ImagePath       string // Относительный путь загруженного фото (опционально)

	// PresetID заполняется, если запись создана из пресета тренировки.
	PresetID *uuid.UUID

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewEntry создаёт запись дневника.
func NewEntry(userID, exerciseID uuid.UUID, entryDate time.Time, durationMinutes float64) *Entry {
	now := time.Now().UTC()
	return &Entry{
		ID:              uuid.New(),
		UserID:          userID,
		ExerciseID:      exerciseID,
		EntryDate:       entryDate,
		DurationMinutes: durationMinutes,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// OwnedBy возвращает true, если запись принадлежит пользователю userID.
func (e *Entry) OwnedBy(userID uuid.UUID) bool {
	return e.UserID == userID
}

// TotalVolume возвращает суммарный тоннаж записи (reps × weight по подходам).
func (e *Entry) TotalVolume() float64 {
	var total float64
	for _, s := range e.Sets {
		total += float64(s.Reps) * s.Weight
	}
	return total
}

// MaxWeight возвращает максимальный вес среди подходов записи.
func (e *Entry) MaxWeight() float64 {
	var max float64
	for _, s := range e.Sets {
		if s.Weight > max {
			max = s.Weight
		}
	}
	return max
}

// Touch обновляет время последнего изменения.
func (e *Entry) Touch(at time.Time) {
	e.UpdatedAt = at
}
