package workout

import (
	"time"

	"github.com/google/uuid"
)

// PresetItem описывает одно упражнение в составе пресета тренировки
// с параметрами по умолчанию.
type PresetItem struct {
	ExerciseID      uuid.UUID `json:"exercise_id"`
	Position        int       `json:"position"` // Порядок внутри пресета
	DurationMinutes float64   `json:"duration_minutes,omitempty"`
	Sets            int       `json:"sets,omitempty"`
	Reps            int       `json:"reps,omitempty"`
	Weight          float64   `json:"weight,omitempty"`
}

// Preset представляет именованный упорядоченный набор упражнений,
// опционально привязанный к дням недели (0 — воскресенье … 6 — суббота).
type Preset struct {
	ID     uuid.UUID
	UserID uuid.UUID // Владелец пресета

	Name        string
	Description string
	Days        []int        // Дни недели расписания; пусто — без расписания
	IsPublic    bool         // Доступен всем пользователям
	Items       []PresetItem // В БД хранится как JSON-массив

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewPreset создаёт пресет тренировки.
func NewPreset(owner uuid.UUID, name string) *Preset {
	now := time.Now().UTC()
	return &Preset{
		ID:        uuid.New(),
		UserID:    owner,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// OwnedBy возвращает true, если пресет принадлежит пользователю userID.
func (p *Preset) OwnedBy(userID uuid.UUID) bool {
	return p.UserID == userID
}

// VisibleTo возвращает true, если пользователь может читать пресет.
func (p *Preset) VisibleTo(userID uuid.UUID) bool {
	return p.IsPublic || p.OwnedBy(userID)
}

// ScheduledOn возвращает true, если пресет запланирован на день недели day.
func (p *Preset) ScheduledOn(day time.Weekday) bool {
	for _, d := range p.Days {
		if d == int(day) {
			return true
		}
	}
	return false
}

// Touch обновляет время последнего изменения.
func (p *Preset) Touch(at time.Time) {
	p.UpdatedAt = at
}
