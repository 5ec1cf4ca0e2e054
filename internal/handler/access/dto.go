package access

import "time"

// GrantRequest описывает тело запроса выдачи делегированного доступа.
type GrantRequest struct {
	GranteeUserID string     `json:"grantee_user_id" binding:"required,uuid"`
	Categories    []string   `json:"categories" binding:"required,min=1"`
	ReadOnly      bool       `json:"read_only"`
	ExpiresAt     *time.Time `json:"expires_at"`
}

// GrantResponse — представление разрешения в API.
type GrantResponse struct {
	ID            string     `json:"id"`
	OwnerUserID   string     `json:"owner_user_id"`
	GranteeUserID string     `json:"grantee_user_id"`
	Categories    []string   `json:"categories"`
	ReadOnly      bool       `json:"read_only"`
	IsActive      bool       `json:"is_active"`
	ExpiresAt     *time.Time `json:"expires_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// GrantListResponse — список выданных разрешений.
type GrantListResponse struct {
	Grants []GrantResponse `json:"grants"`
	Total  int             `json:"total"`
}
