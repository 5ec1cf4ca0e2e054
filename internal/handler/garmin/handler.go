package garmin

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"sparkyfitness-server/internal/handler/request"
	"sparkyfitness-server/internal/handler/response"
	garminuc "sparkyfitness-server/internal/usecase/garmin"
)

const dateLayout = "2006-01-02"

// Handler обрабатывает HTTP-запросы интеграции с Garmin Connect.
type Handler struct {
	garmin garminuc.Service
}

// NewHandler создаёт новый GarminHandler.
func NewHandler(garmin garminuc.Service) *Handler {
	return &Handler{garmin: garmin}
}

// Connect привязывает аккаунт Garmin текущего пользователя.
func (h *Handler) Connect(c *gin.Context) {
	userID, err := request.ActingUserID(c)
	if err != nil {
		response.Error(c, http.StatusUnauthorized, "unauthorized", "Требуется аутентификация", nil)
		return
	}

	var req ConnectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid_request", "Некорректное тело запроса", err.Error())
		return
	}

	if err := h.garmin.Connect(c.Request.Context(), userID, req.Email, req.Password); err != nil {
		log.Printf("garmin connect failed: user_id=%s err=%v", userID, err)
		response.Error(c, http.StatusBadGateway, "garmin_login_failed", "Не удалось войти в Garmin Connect", nil)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Аккаунт Garmin привязан"})
}

// Status возвращает состояние привязки Garmin.
func (h *Handler) Status(c *gin.Context) {
	userID, err := request.ActingUserID(c)
	if err != nil {
		response.Error(c, http.StatusUnauthorized, "unauthorized", "Требуется аутентификация", nil)
		return
	}

	status, err := h.garmin.Status(c.Request.Context(), userID)
	if err != nil {
		log.Printf("internal error in garmin Status: user_id=%s err=%v", userID, err)
		response.Error(c, http.StatusInternalServerError, "internal_error", "Внутренняя ошибка сервера", nil)
		return
	}

	c.JSON(http.StatusOK, StatusResponse{
		Connected: status.Connected,
		ExpiresAt: status.ExpiresAt,
		UpdatedAt: status.UpdatedAt,
	})
}

// Sync выгружает активность Garmin за интервал дат в дневник.
func (h *Handler) Sync(c *gin.Context) {
	userID, err := request.ActingUserID(c)
	if err != nil {
		response.Error(c, http.StatusUnauthorized, "unauthorized", "Требуется аутентификация", nil)
		return
	}

	var req SyncRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid_request", "Некорректное тело запроса", err.Error())
		return
	}

	from, err := time.Parse(dateLayout, req.From)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid_date", "Дата должна быть в формате YYYY-MM-DD", nil)
		return
	}
	to, err := time.Parse(dateLayout, req.To)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid_date", "Дата должна быть в формате YYYY-MM-DD", nil)
		return
	}
	if to.Before(from) {
		response.Error(c, http.StatusBadRequest, "invalid_range", "Дата to раньше даты from", nil)
		return
	}

	imported, err := h.garmin.Sync(c.Request.Context(), userID, from, to)
	if err != nil {
		switch {
		case errors.Is(err, garminuc.ErrNotLinked):
			response.Error(c, http.StatusConflict, "garmin_not_linked", "Аккаунт Garmin не привязан", nil)
		case errors.Is(err, garminuc.ErrSessionExpired):
			response.Error(c, http.StatusUnauthorized, "garmin_session_expired", "Сессия Garmin истекла, привяжите аккаунт заново", nil)
		default:
			log.Printf("garmin sync failed: user_id=%s err=%v", userID, err)
			response.Error(c, http.StatusBadGateway, "garmin_sync_failed", "Не удалось синхронизировать данные Garmin", nil)
		}
		return
	}

	c.JSON(http.StatusOK, SyncResponse{Imported: imported})
}

// Disconnect удаляет привязку Garmin.
func (h *Handler) Disconnect(c *gin.Context) {
	userID, err := request.ActingUserID(c)
	if err != nil {
		response.Error(c, http.StatusUnauthorized, "unauthorized", "Требуется аутентификация", nil)
		return
	}

	if err := h.garmin.Disconnect(c.Request.Context(), userID); err != nil {
		if errors.Is(err, garminuc.ErrNotLinked) {
			response.Error(c, http.StatusNotFound, "garmin_not_linked", "Аккаунт Garmin не привязан", nil)
			return
		}
		log.Printf("internal error in garmin Disconnect: user_id=%s err=%v", userID, err)
		response.Error(c, http.StatusInternalServerError, "internal_error", "Внутренняя ошибка сервера", nil)
		return
	}

	c.Status(http.StatusNoContent)
}
