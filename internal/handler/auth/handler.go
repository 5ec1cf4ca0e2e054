package auth

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"sparkyfitness-server/internal/domain/user"
	"sparkyfitness-server/internal/handler/response"
	repo "sparkyfitness-server/internal/repository/interfaces"
	"sparkyfitness-server/internal/session"
	useruc "sparkyfitness-server/internal/usecase/user"
	jwtsvc "sparkyfitness-server/pkg/jwt"
	"sparkyfitness-server/pkg/password"
)

// Handler обрабатывает HTTP-запросы, связанные с аутентификацией.
type Handler struct {
	users    useruc.Service
	repo     repo.UserRepository
	jwt      jwtsvc.Service
	sessions *session.Store
}

// NewHandler создаёт новый AuthHandler.
func NewHandler(users useruc.Service, repo repo.UserRepository, jwt jwtsvc.Service, sessions *session.Store) *Handler {
	return &Handler{
		users:    users,
		repo:     repo,
		jwt:      jwt,
		sessions: sessions,
	}
}

// Register обрабатывает регистрацию пользователя.
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid_request", "Некорректное тело запроса", err.Error())
		return
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		log.Printf("error hashing password in Register: email=%s err=%v", req.Email, err)
		response.Error(c, http.StatusInternalServerError, "internal_error", "Внутренняя ошибка сервера", nil)
		return
	}

	u, err := h.users.Register(c.Request.Context(), req.Email, hash, req.FullName)
	if err != nil {
		switch {
		case errors.Is(err, repo.ErrEmailExists):
			log.Printf("email conflict in Register: email=%s err=%v", req.Email, err)
			response.Error(c, http.StatusConflict, "email_already_exists", "Указанный email уже используется", nil)
		default:
			log.Printf("internal error in Register: email=%s err=%v", req.Email, err)
			response.Error(c, http.StatusInternalServerError, "internal_error", "Внутренняя ошибка сервера", nil)
		}
		return
	}

	resp, err := h.issueSession(c, u)
	if err != nil {
		log.Printf("error issuing session in Register: user_id=%s err=%v", u.ID, err)
		response.Error(c, http.StatusInternalServerError, "internal_error", "Внутренняя ошибка сервера", nil)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// Login обрабатывает вход пользователя по email/паролю.
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid_request", "Некорректное тело запроса", err.Error())
		return
	}

	u, err := h.repo.GetByEmail(c.Request.Context(), req.Email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			// Не раскрываем, что именно неверно
			response.Error(c, http.StatusUnauthorized, "invalid_credentials", "Неверный email или пароль", nil)
			return
		}
		log.Printf("internal error in Login (GetByEmail): email=%s err=%v", req.Email, err)
		response.Error(c, http.StatusInternalServerError, "internal_error", "Внутренняя ошибка сервера", nil)
		return
	}

	if err := password.Compare(u.PasswordHash, req.Password); err != nil {
		response.Error(c, http.StatusUnauthorized, "invalid_credentials", "Неверный email или пароль", nil)
		return
	}

	if !u.IsActive {
		response.Error(c, http.StatusForbidden, "account_disabled", "Учётная запись отключена", nil)
		return
	}

	if err := h.users.RecordLogin(c.Request.Context(), u.ID); err != nil {
		// Неудавшаяся отметка времени входа не блокирует сам вход
		log.Printf("error recording login: user_id=%s err=%v", u.ID, err)
	}

	resp, err := h.issueSession(c, u)
	if err != nil {
		log.Printf("error issuing session in Login: user_id=%s err=%v", u.ID, err)
		response.Error(c, http.StatusInternalServerError, "internal_error", "Внутренняя ошибка сервера", nil)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Refresh обрабатывает обновление пары токенов по refresh-токену.
func (h *Handler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid_request", "Некорректное тело запроса", err.Error())
		return
	}

	claims, err := h.jwt.ParseRefreshToken(req.RefreshToken)
	if err != nil {
		response.Error(c, http.StatusUnauthorized, "invalid_refresh_token", "Недействительный refresh-токен", nil)
		return
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		response.Error(c, http.StatusUnauthorized, "invalid_refresh_token", "Недействительный refresh-токен", nil)
		return
	}

	u, err := h.repo.GetByID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			response.Error(c, http.StatusUnauthorized, "invalid_refresh_token", "Недействительный refresh-токен", nil)
			return
		}
		log.Printf("internal error in Refresh (GetByID): user_id=%s err=%v", userID, err)
		response.Error(c, http.StatusInternalServerError, "internal_error", "Внутренняя ошибка сервера", nil)
		return
	}

	if !u.IsActive {
		response.Error(c, http.StatusForbidden, "account_disabled", "Учётная запись отключена", nil)
		return
	}

	resp, err := h.issueSession(c, u)
	if err != nil {
		log.Printf("error issuing session in Refresh: user_id=%s err=%v", u.ID, err)
		response.Error(c, http.StatusInternalServerError, "internal_error", "Внутренняя ошибка сервера", nil)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Logout уничтожает серверную сессию пользователя.
func (h *Handler) Logout(c *gin.Context) {
	if err := h.sessions.Clear(c.Writer, c.Request); err != nil {
		log.Printf("error clearing session in Logout: err=%v", err)
	}
	c.JSON(http.StatusOK, gin.H{"message": "Выход выполнен"})
}

// issueSession генерирует пару токенов и сохраняет сессионную cookie.
func (h *Handler) issueSession(c *gin.Context, u *user.User) (LoginResponse, error) {
	access, err := h.jwt.GenerateAccessToken(u)
	if err != nil {
		return LoginResponse{}, err
	}
	refresh, _, err := h.jwt.GenerateRefreshToken(u)
	if err != nil {
		return LoginResponse{}, err
	}

	if err := h.sessions.Save(c.Writer, c.Request, session.Identity{
		UserID: u.ID.String(),
		Email:  u.Email,
		Role:   string(u.Role),
	}); err != nil {
		return LoginResponse{}, err
	}

	return LoginResponse{
		UserID:   u.ID.String(),
		Email:    u.Email,
		FullName: u.FullName,
		Role:     string(u.Role),
		Tokens: TokenPair{
			AccessToken:  access,
			RefreshToken: refresh,
		},
	}, nil
}
