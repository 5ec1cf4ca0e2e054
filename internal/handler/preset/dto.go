package preset

import "time"

// ItemPayload описывает упражнение внутри пресета.
type ItemPayload struct {
	ExerciseID      string  `json:"exercise_id" binding:"required,uuid"`
	Position        int     `json:"position" binding:"gte=0"`
	DurationMinutes float64 `json:"duration_minutes" binding:"gte=0"`
	Sets            int     `json:"sets" binding:"gte=0"`
	Reps            int     `json:"reps" binding:"gte=0"`
	Weight          float64 `json:"weight" binding:"gte=0"`
}

// Request описывает тело запроса создания/обновления пресета.
type Request struct {
	Name        string        `json:"name" binding:"required,min=1,max=255"`
	Description string        `json:"description"`
	Days        []int         `json:"days" binding:"omitempty,dive,gte=0,lte=6"`
	IsPublic    bool          `json:"is_public"`
	Items       []ItemPayload `json:"items" binding:"omitempty,dive"`
}

// Response — представление пресета в API.
type Response struct {
	ID          string        `json:"id"`
	UserID      string        `json:"user_id"`
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	Days        []int         `json:"days"`
	IsPublic    bool          `json:"is_public"`
	Items       []ItemPayload `json:"items"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// ListResponse — список пресетов.
type ListResponse struct {
	Presets []Response `json:"presets"`
	Total   int        `json:"total"`
}
