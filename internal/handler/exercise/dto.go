package exercise

import "time"

// CreateRequest описывает тело запроса создания упражнения.
type CreateRequest struct {
	Name             string   `json:"name" binding:"required,min=1,max=255"`
	Category         string   `json:"category" binding:"omitempty,max=64"`
	CaloriesPerHour  float64  `json:"calories_per_hour" binding:"omitempty,gte=0"`
	Description      string   `json:"description"`
	Equipment        []string `json:"equipment"`
	PrimaryMuscles   []string `json:"primary_muscles"`
	SecondaryMuscles []string `json:"secondary_muscles"`
	Instructions     []string `json:"instructions"`
	Images           []string `json:"images"`
	SharedWithPublic bool     `json:"shared_with_public"`
}

// UpdateRequest — частичное обновление упражнения.
type UpdateRequest struct {
	Name             *string  `json:"name" binding:"omitempty,min=1,max=255"`
	Category         *string  `json:"category" binding:"omitempty,max=64"`
	CaloriesPerHour  *float64 `json:"calories_per_hour" binding:"omitempty,gte=0"`
	Description      *string  `json:"description"`
	Equipment        []string `json:"equipment"`
	PrimaryMuscles   []string `json:"primary_muscles"`
	SecondaryMuscles []string `json:"secondary_muscles"`
	Instructions     []string `json:"instructions"`
	Images           []string `json:"images"`
	SharedWithPublic *bool    `json:"shared_with_public"`
}

// Response — представление упражнения в API.
type Response struct {
	ID               string    `json:"id"`
	UserID           *string   `json:"user_id,omitempty"`
	Name             string    `json:"name"`
	Category         string    `json:"category"`
	CaloriesPerHour  float64   `json:"calories_per_hour"`
	Description      string    `json:"description,omitempty"`
	Equipment        []string  `json:"equipment"`
	PrimaryMuscles   []string  `json:"primary_muscles"`
	SecondaryMuscles []string  `json:"secondary_muscles"`
	Instructions     []string  `json:"instructions"`
	Images           []string  `json:"images"`
	IsCustom         bool      `json:"is_custom"`
	SharedWithPublic bool      `json:"shared_with_public"`
	Source           string    `json:"source,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// ListResponse — результат поиска по каталогу.
type ListResponse struct {
	Exercises []Response `json:"exercises"`
	Total     int        `json:"total"`
}

// UploadResponse — результат загрузки картинки упражнения.
type UploadResponse struct {
	Path string `json:"path"`
	URL  string `json:"url"`
}
