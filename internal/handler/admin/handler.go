package admin

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	domain "sparkyfitness-server/internal/domain/user"
	"sparkyfitness-server/internal/handler/middleware"
	"sparkyfitness-server/internal/handler/response"
	repo "sparkyfitness-server/internal/repository/interfaces"
	useruc "sparkyfitness-server/internal/usecase/user"
)

// PoolResetter сбрасывает пул соединений с БД.
type PoolResetter interface {
	Reset() error
}

// Handler обрабатывает административные HTTP-запросы.
// Все маршруты защищены middleware.RequireRole("admin").
type Handler struct {
	users useruc.Service
	pool  PoolResetter
}

// NewHandler создаёт новый AdminHandler.
func NewHandler(users useruc.Service, pool PoolResetter) *Handler {
	return &Handler{users: users, pool: pool}
}

// ListUsers возвращает всех пользователей системы.
func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.users.ListUsers(c.Request.Context())
	if err != nil {
		log.Printf("internal error in ListUsers: err=%v", err)
		response.Error(c, http.StatusInternalServerError, "internal_error", "Внутренняя ошибка сервера", nil)
		return
	}

	resp := UserListResponse{
		Users: make([]UserResponse, 0, len(users)),
		Total: len(users),
	}
	for _, u := range users {
		resp.Users = append(resp.Users, toUserResponse(u))
	}

	c.JSON(http.StatusOK, resp)
}

// GetUser возвращает пользователя по идентификатору.
func (h *Handler) GetUser(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid_id", "Некорректный идентификатор", nil)
		return
	}

	u, err := h.users.GetByID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			response.Error(c, http.StatusNotFound, "user_not_found", "Пользователь не найден", nil)
			return
		}
		log.Printf("internal error in GetUser: user_id=%s err=%v", userID, err)
		response.Error(c, http.StatusInternalServerError, "internal_error", "Внутренняя ошибка сервера", nil)
		return
	}

	c.JSON(http.StatusOK, toUserResponse(u))
}

// UpdateUser меняет роль, активность или имя пользователя.
func (h *Handler) UpdateUser(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid_id", "Некорректный идентификатор", nil)
		return
	}

	var req UserUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid_request", "Некорректное тело запроса", err.Error())
		return
	}

	input := useruc.AdminUpdateInput{
		FullName: req.FullName,
		IsActive: req.IsActive,
	}
	if req.Role != nil {
		role := domain.Role(*req.Role)
		input.Role = &role
	}

	u, err := h.users.AdminUpdateUser(c.Request.Context(), userID, input)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			response.Error(c, http.StatusNotFound, "user_not_found", "Пользователь не найден", nil)
			return
		}
		log.Printf("internal error in UpdateUser: user_id=%s err=%v", userID, err)
		response.Error(c, http.StatusInternalServerError, "internal_error", "Внутренняя ошибка сервера", nil)
		return
	}

	c.JSON(http.StatusOK, toUserResponse(u))
}

// DeleteUser безвозвратно удаляет пользователя вместе с его данными.
func (h *Handler) DeleteUser(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid_id", "Некорректный идентификатор", nil)
		return
	}

	if err := h.users.AdminDeleteUser(c.Request.Context(), userID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			response.Error(c, http.StatusNotFound, "user_not_found", "Пользователь не найден", nil)
			return
		}
		log.Printf("internal error in DeleteUser: user_id=%s err=%v", userID, err)
		response.Error(c, http.StatusInternalServerError, "internal_error", "Внутренняя ошибка сервера", nil)
		return
	}

	c.Status(http.StatusNoContent)
}

// ResetPool пересоздаёт пул соединений с БД. Используется при
// залипших соединениях без рестарта сервиса.
func (h *Handler) ResetPool(c *gin.Context) {
	if err := h.pool.Reset(); err != nil {
		log.Printf("error resetting db pool: err=%v", err)
		response.Error(c, http.StatusInternalServerError, "internal_error", "Не удалось сбросить пул соединений", nil)
		return
	}

	log.Printf("db pool reset by admin: user_id=%s", c.GetString(middleware.ContextUserIDKey))
	c.JSON(http.StatusOK, gin.H{"message": "Пул соединений сброшен"})
}
