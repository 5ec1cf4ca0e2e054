// Package request содержит общие помощники извлечения идентификаторов
// и файлов из аутентифицированного запроса.
package request

import (
	"errors"
	"mime/multipart"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"sparkyfitness-server/internal/handler/middleware"
)

var (
	// ErrUnauthenticated — в контексте запроса нет идентификатора пользователя.
	ErrUnauthenticated = errors.New("missing user id in request context")
	// ErrInvalidTargetID — query-параметр user_id не является валидным UUID.
	ErrInvalidTargetID = errors.New("invalid target user id")
)

// ActingUserID извлекает идентификатор аутентифицированного пользователя
// из контекста запроса (установлен middleware.Auth).
func ActingUserID(c *gin.Context) (uuid.UUID, error) {
	idStr := c.GetString(middleware.ContextUserIDKey)
	if idStr == "" {
		return uuid.Nil, ErrUnauthenticated
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, ErrUnauthenticated
	}

	return id, nil
}

// TargetUserID определяет, чьими данными оперирует запрос: по умолчанию
// данными самого пользователя, но query-параметр user_id позволяет
// действовать от имени другого (право проверяет usecase-слой).
func TargetUserID(c *gin.Context, acting uuid.UUID) (uuid.UUID, error) {
	raw := c.Query("user_id")
	if raw == "" {
		return acting, nil
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, ErrInvalidTargetID
	}

	return id, nil
}

// FormImage извлекает загружаемый файл из multipart-формы.
// Веб-клиент шлёт поле image, мобильный — images; принимаются оба.
func FormImage(c *gin.Context) (*multipart.FileHeader, error) {
	file, err := c.FormFile("image")
	if err == nil {
		return file, nil
	}
	return c.FormFile("images")
}
