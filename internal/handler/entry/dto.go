package entry

import "time"

// SetPayload описывает один подход в теле запроса/ответа.
type SetPayload struct {
	Reps            int     `json:"reps"`
	Weight          float64 `json:"weight"`
	DurationSeconds int     `json:"duration_seconds,omitempty"`
	RestSeconds     int     `json:"rest_seconds,omitempty"`
}

// CreateRequest описывает тело запроса создания записи дневника.
// Дата передаётся строкой YYYY-MM-DD.
type CreateRequest struct {
	ExerciseID      string       `json:"exercise_id" binding:"required,uuid"`
	EntryDate       string       `json:"entry_date" binding:"required"`
	DurationMinutes float64      `json:"duration_minutes" binding:"gte=0"`
	CaloriesBurned  *float64     `json:"calories_burned" binding:"omitempty,gte=0"`
	Notes           string       `json:"notes"`
	Sets            []SetPayload `json:"sets"`
	ImagePath       string       `json:"image_path"`
}

// UpdateRequest — частичное обновление записи дневника.
type UpdateRequest struct {
	EntryDate       *string      `json:"entry_date"`
	DurationMinutes *float64     `json:"duration_minutes" binding:"omitempty,gte=0"`
	CaloriesBurned  *float64     `json:"calories_burned" binding:"omitempty,gte=0"`
	Notes           *string      `json:"notes"`
	Sets            []SetPayload `json:"sets"`
	ImagePath       *string      `json:"image_path"`
}

// FromPresetRequest — создание записей дневника из пресета тренировки.
type FromPresetRequest struct {
	PresetID  string `json:"preset_id" binding:"required,uuid"`
	EntryDate string `json:"entry_date" binding:"required"`
}

// Response — представление записи дневника в API.
type Response struct {
	ID              string       `json:"id"`
	UserID          string       `json:"user_id"`
	ExerciseID      string       `json:"exercise_id"`
	EntryDate       string       `json:"entry_date"`
	DurationMinutes float64      `json:"duration_minutes"`
	CaloriesBurned  float64      `json:"calories_burned"`
	Notes           string       `json:"notes,omitempty"`
	Sets            []SetPayload `json:"sets"`
	ImagePath       string       `json:"image_path,omitempty"`
	PresetID        *string      `json:"preset_id,omitempty"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
}

// ListResponse — записи дневника за интервал дат.
type ListResponse struct {
	Entries []Response `json:"entries"`
	Total   int        `json:"total"`
}

// ProgressPointResponse — одна точка временного ряда прогресса.
type ProgressPointResponse struct {
	Date           string  `json:"date"`
	MaxWeight      float64 `json:"max_weight"`
	TotalVolume    float64 `json:"total_volume"`
	CaloriesBurned float64 `json:"calories_burned"`
	Duration       float64 `json:"duration_minutes"`
}

// ProgressResponse — агрегированный прогресс по упражнению.
type ProgressResponse struct {
	ExerciseID  string                  `json:"exercise_id"`
	Sessions    int                     `json:"sessions"`
	MaxWeight   float64                 `json:"max_weight"`
	TotalVolume float64                 `json:"total_volume"`
	Series      []ProgressPointResponse `json:"series"`
}

// UploadResponse — результат загрузки фото к записи.
type UploadResponse struct {
	Path string `json:"path"`
	URL  string `json:"url"`
}
