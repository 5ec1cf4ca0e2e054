package preset

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	domain "sparkyfitness-server/internal/domain/workout"
	"sparkyfitness-server/internal/handler/request"
	"sparkyfitness-server/internal/handler/response"
	repo "sparkyfitness-server/internal/repository/interfaces"
	accessuc "sparkyfitness-server/internal/usecase/access"
	presetuc "sparkyfitness-server/internal/usecase/preset"
)

// Handler обрабатывает HTTP-запросы пресетов тренировок.
type Handler struct {
	presets presetuc.Service
}

// NewHandler создаёт новый PresetHandler.
func NewHandler(presets presetuc.Service) *Handler {
	return &Handler{presets: presets}
}

// Create создаёт пресет тренировки.
func (h *Handler) Create(c *gin.Context) {
	acting, err := request.ActingUserID(c)
	if err != nil {
		response.Error(c, http.StatusUnauthorized, "unauthorized", "Требуется аутентификация", nil)
		return
	}
	target, err := request.TargetUserID(c, acting)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid_id", "Некорректный идентификатор пользователя", nil)
		return
	}

	var req Request
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid_request", "Некорректное тело запроса", err.Error())
		return
	}

	p, err := h.presets.Create(c.Request.Context(), acting, target, toInput(req))
	if err != nil {
		h.respondError(c, "Create", err)
		return
	}

	c.JSON(http.StatusCreated, toResponse(p))
}

// Get возвращает пресет по идентификатору.
func (h *Handler) Get(c *gin.Context) {
	acting, err := request.ActingUserID(c)
	if err != nil {
		response.Error(c, http.StatusUnauthorized, "unauthorized", "Требуется аутентификация", nil)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid_id", "Некорректный идентификатор", nil)
		return
	}

	p, err := h.presets.Get(c.Request.Context(), acting, id)
	if err != nil {
		h.respondError(c, "Get", err)
		return
	}

	c.JSON(http.StatusOK, toResponse(p))
}

// List возвращает пресеты, видимые целевому пользователю.
func (h *Handler) List(c *gin.Context) {
	acting, err := request.ActingUserID(c)
	if err != nil {
		response.Error(c, http.StatusUnauthorized, "unauthorized", "Требуется аутентификация", nil)
		return
	}
	target, err := request.TargetUserID(c, acting)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid_id", "Некорректный идентификатор пользователя", nil)
		return
	}

	presets, err := h.presets.List(c.Request.Context(), acting, target)
	if err != nil {
		h.respondError(c, "List", err)
		return
	}

	resp := ListResponse{
		Presets: make([]Response, 0, len(presets)),
		Total:   len(presets),
	}
	for _, p := range presets {
		resp.Presets = append(resp.Presets, toResponse(p))
	}

	c.JSON(http.StatusOK, resp)
}

// Update обновляет пресет.
func (h *Handler) Update(c *gin.Context) {
	acting, err := request.ActingUserID(c)
	if err != nil {
		response.Error(c, http.StatusUnauthorized, "unauthorized", "Требуется аутентификация", nil)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid_id", "Некорректный идентификатор", nil)
		return
	}

	var req Request
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid_request", "Некорректное тело запроса", err.Error())
		return
	}

	p, err := h.presets.Update(c.Request.Context(), acting, id, toInput(req))
	if err != nil {
		h.respondError(c, "Update", err)
		return
	}

	c.JSON(http.StatusOK, toResponse(p))
}

// Delete удаляет пресет.
func (h *Handler) Delete(c *gin.Context) {
	acting, err := request.ActingUserID(c)
	if err != nil {
		response.Error(c, http.StatusUnauthorized, "unauthorized", "Требуется аутентификация", nil)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid_id", "Некорректный идентификатор", nil)
		return
	}

	if err := h.presets.Delete(c.Request.Context(), acting, id); err != nil {
		h.respondError(c, "Delete", err)
		return
	}

	c.Status(http.StatusNoContent)
}

// respondError маппит ошибки usecase-слоя в HTTP-ответы.
func (h *Handler) respondError(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, repo.ErrNotFound):
		response.Error(c, http.StatusNotFound, "preset_not_found", "Пресет не найден", nil)
	case errors.Is(err, accessuc.ErrForbidden):
		response.Error(c, http.StatusForbidden, "forbidden", "Недостаточно прав", nil)
	case errors.Is(err, presetuc.ErrInvalidDay):
		response.Error(c, http.StatusBadRequest, "invalid_day", "День недели вне диапазона 0–6", nil)
	default:
		log.Printf("internal error in %s: err=%v", op, err)
		response.Error(c, http.StatusInternalServerError, "internal_error", "Внутренняя ошибка сервера", nil)
	}
}

// toInput маппит DTO в входные данные usecase.
func toInput(req Request) presetuc.Input {
	input := presetuc.Input{
		Name:        req.Name,
		Description: req.Description,
		Days:        req.Days,
		IsPublic:    req.IsPublic,
	}
	for _, item := range req.Items {
		exerciseID, err := uuid.Parse(item.ExerciseID)
		if err != nil {
			continue // binding uuid уже отсёк невалидные значения
		}
		input.Items = append(input.Items, domain.PresetItem{
			ExerciseID:      exerciseID,
			Position:        item.Position,
			DurationMinutes: item.DurationMinutes,
			Sets:            item.Sets,
			Reps:            item.Reps,
			Weight:          item.Weight,
		})
	}
	return input
}

// toResponse маппит доменную модель в DTO.
func toResponse(p *domain.Preset) Response {
	resp := Response{
		ID:          p.ID.String(),
		UserID:      p.UserID.String(),
		Name:        p.Name,
		Description: p.Description,
		Days:        p.Days,
		IsPublic:    p.IsPublic,
		Items:       make([]ItemPayload, 0, len(p.Items)),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if resp.Days == nil {
		resp.Days = []int{}
	}
	for _, item := range p.Items {
		resp.Items = append(resp.Items, ItemPayload{
			ExerciseID:      item.ExerciseID.String(),
			Position:        item.Position,
			DurationMinutes: item.DurationMinutes,
			Sets:            item.Sets,
			Reps:            item.Reps,
			Weight:          item.Weight,
		})
	}
	return resp
}
