package garmin

import "time"

// ConnectRequest — привязка аккаунта Garmin по логину/паролю.
// Учётные данные не сохраняются: хранится только дамп сессии.
type ConnectRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// StatusResponse — состояние привязки Garmin.
type StatusResponse struct {
	Connected bool       `json:"connected"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// SyncRequest — интервал дат для синхронизации активности.
type SyncRequest struct {
	From string `json:"from" binding:"required"`
	To   string `json:"to" binding:"required"`
}

// SyncResponse — результат синхронизации.
type SyncResponse struct {
	Imported int `json:"imported"`
}
