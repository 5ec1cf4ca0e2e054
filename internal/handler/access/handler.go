package access

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	domain "sparkyfitness-server/internal/domain/access"
	"sparkyfitness-server/internal/handler/request"
	"sparkyfitness-server/internal/handler/response"
	repo "sparkyfitness-server/internal/repository/interfaces"
	accessuc "sparkyfitness-server/internal/usecase/access"
)

// Handler обрабатывает HTTP-запросы управления делегированным доступом.
type Handler struct {
	access accessuc.Service
}

// NewHandler создаёт новый AccessHandler.
func NewHandler(access accessuc.Service) *Handler {
	return &Handler{access: access}
}

// Grant выдаёт делегированное разрешение другому пользователю.
func (h *Handler) Grant(c *gin.Context) {
	owner, err := request.ActingUserID(c)
	if err != nil {
		response.Error(c, http.StatusUnauthorized, "unauthorized", "Требуется аутентификация", nil)
		return
	}

	var req GrantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid_request", "Некорректное тело запроса", err.Error())
		return
	}

	grantee, _ := uuid.Parse(req.GranteeUserID)
	categories := make([]domain.Category, 0, len(req.Categories))
	for _, raw := range req.Categories {
		categories = append(categories, domain.Category(raw))
	}

	grant, err := h.access.Grant(c.Request.Context(), owner, grantee, categories, req.ReadOnly, req.ExpiresAt)
	if err != nil {
		switch {
		case errors.Is(err, accessuc.ErrSelfGrant):
			response.Error(c, http.StatusBadRequest, "self_grant", "Нельзя выдать разрешение самому себе", nil)
		case errors.Is(err, accessuc.ErrInvalidCategory):
			response.Error(c, http.StatusBadRequest, "invalid_category", "Неизвестная категория доступа", nil)
		default:
			log.Printf("internal error in Grant: owner=%s err=%v", owner, err)
			response.Error(c, http.StatusInternalServerError, "internal_error", "Внутренняя ошибка сервера", nil)
		}
		return
	}

	c.JSON(http.StatusCreated, toGrantResponse(grant))
}

// List возвращает разрешения, выданные текущим пользователем.
func (h *Handler) List(c *gin.Context) {
	owner, err := request.ActingUserID(c)
	if err != nil {
		response.Error(c, http.StatusUnauthorized, "unauthorized", "Требуется аутентификация", nil)
		return
	}

	grants, err := h.access.ListGrants(c.Request.Context(), owner)
	if err != nil {
		log.Printf("internal error in List grants: owner=%s err=%v", owner, err)
		response.Error(c, http.StatusInternalServerError, "internal_error", "Внутренняя ошибка сервера", nil)
		return
	}

	resp := GrantListResponse{
		Grants: make([]GrantResponse, 0, len(grants)),
		Total:  len(grants),
	}
	for _, g := range grants {
		resp.Grants = append(resp.Grants, toGrantResponse(g))
	}

	c.JSON(http.StatusOK, resp)
}

// Revoke отзывает выданное разрешение.
func (h *Handler) Revoke(c *gin.Context) {
	owner, err := request.ActingUserID(c)
	if err != nil {
		response.Error(c, http.StatusUnauthorized, "unauthorized", "Требуется аутентификация", nil)
		return
	}

	grantID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid_id", "Некорректный идентификатор", nil)
		return
	}

	if err := h.access.Revoke(c.Request.Context(), owner, grantID); err != nil {
		switch {
		case errors.Is(err, repo.ErrNotFound):
			response.Error(c, http.StatusNotFound, "grant_not_found", "Разрешение не найдено", nil)
		case errors.Is(err, accessuc.ErrForbidden):
			response.Error(c, http.StatusForbidden, "forbidden", "Отозвать разрешение может только его владелец", nil)
		default:
			log.Printf("internal error in Revoke: owner=%s grant_id=%s err=%v", owner, grantID, err)
			response.Error(c, http.StatusInternalServerError, "internal_error", "Внутренняя ошибка сервера", nil)
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// toGrantResponse маппит доменную модель в DTO.
func toGrantResponse(g *domain.Grant) GrantResponse {
	resp := GrantResponse{
		ID:            g.ID.String(),
		OwnerUserID:   g.OwnerUserID.String(),
		GranteeUserID: g.GranteeUserID.String(),
		Categories:    make([]string, 0, len(g.Categories)),
		ReadOnly:      g.ReadOnly,
		IsActive:      g.IsActive,
		ExpiresAt:     g.ExpiresAt,
		CreatedAt:     g.CreatedAt,
		UpdatedAt:     g.UpdatedAt,
	}
	for _, cat := range g.Categories {
		resp.Categories = append(resp.Categories, string(cat))
	}
	return resp
}
