package entry

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	domain "sparkyfitness-server/internal/domain/exercise"
	"sparkyfitness-server/internal/handler/request"
	"sparkyfitness-server/internal/handler/response"
	repo "sparkyfitness-server/internal/repository/interfaces"
	"sparkyfitness-server/internal/upload"
	accessuc "sparkyfitness-server/internal/usecase/access"
	entryuc "sparkyfitness-server/internal/usecase/entry"
)

const dateLayout = "2006-01-02"

// Handler обрабатывает HTTP-запросы дневника тренировок.
type Handler struct {
	entries entryuc.Service
	uploads *upload.Storage
}

// NewHandler создаёт новый EntryHandler.
func NewHandler(entries entryuc.Service, uploads *upload.Storage) *Handler {
	return &Handler{entries: entries, uploads: uploads}
}

// Create создаёт запись дневника.
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

	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid_request", "Некорректное тело запроса", err.Error())
		return
	}

	exerciseID, _ := uuid.Parse(req.ExerciseID)
	entryDate, err := time.Parse(dateLayout, req.EntryDate)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid_date", "Дата должна быть в формате YYYY-MM-DD", nil)
		return
	}

	e, err := h.entries.Create(c.Request.Context(), acting, target, entryuc.CreateInput{
		ExerciseID:      exerciseID,
		EntryDate:       entryDate,
		DurationMinutes: req.DurationMinutes,
		CaloriesBurned:  req.CaloriesBurned,
		Notes:           req.Notes,
		Sets:            toDomainSets(req.Sets),
		ImagePath:       req.ImagePath,
	})
	if err != nil {
		h.respondError(c, "Create", err)
		return
	}

	c.JSON(http.StatusCreated, toResponse(e))
}

// Get возвращает запись дневника по идентификатору.
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

	e, err := h.entries.Get(c.Request.Context(), acting, id)
	if err != nil {
		h.respondError(c, "Get", err)
		return
	}

	c.JSON(http.StatusOK, toResponse(e))
}

// List возвращает записи за интервал дат (?from=...&to=..., по умолчанию сегодня).
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

	today := time.Now().UTC().Truncate(24 * time.Hour)
	from, to := today, today
	if raw := c.Query("from"); raw != "" {
		if from, err = time.Parse(dateLayout, raw); err != nil {
			response.Error(c, http.StatusBadRequest, "invalid_date", "Дата должна быть в формате YYYY-MM-DD", nil)
			return
		}
	}
	if raw := c.Query("to"); raw != "" {
		if to, err = time.Parse(dateLayout, raw); err != nil {
			response.Error(c, http.StatusBadRequest, "invalid_date", "Дата должна быть в формате YYYY-MM-DD", nil)
			return
		}
	}
	if to.Before(from) {
		response.Error(c, http.StatusBadRequest, "invalid_range", "Дата to раньше даты from", nil)
		return
	}

	entries, err := h.entries.ListByDate(c.Request.Context(), acting, target, from, to)
	if err != nil {
		h.respondError(c, "List", err)
		return
	}

	c.JSON(http.StatusOK, toListResponse(entries))
}

// Update обновляет запись дневника.
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

	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid_request", "Некорректное тело запроса", err.Error())
		return
	}

	input := entryuc.UpdateInput{
		DurationMinutes: req.DurationMinutes,
		CaloriesBurned:  req.CaloriesBurned,
		Notes:           req.Notes,
		ImagePath:       req.ImagePath,
	}
	if req.EntryDate != nil {
		entryDate, err := time.Parse(dateLayout, *req.EntryDate)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "invalid_date", "Дата должна быть в формате YYYY-MM-DD", nil)
			return
		}
		input.EntryDate = &entryDate
	}
	if req.Sets != nil {
		input.Sets = toDomainSets(req.Sets)
	}

	e, err := h.entries.Update(c.Request.Context(), acting, id, input)
	if err != nil {
		h.respondError(c, "Update", err)
		return
	}

	c.JSON(http.StatusOK, toResponse(e))
}

// Delete удаляет запись дневника.
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

	if err := h.entries.Delete(c.Request.Context(), acting, id); err != nil {
		h.respondError(c, "Delete", err)
		return
	}

	c.Status(http.StatusNoContent)
}

// CreateFromPreset разворачивает пресет тренировки в записи дневника.
func (h *Handler) CreateFromPreset(c *gin.Context) {
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

	var req FromPresetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid_request", "Некорректное тело запроса", err.Error())
		return
	}

	presetID, _ := uuid.Parse(req.PresetID)
	entryDate, err := time.Parse(dateLayout, req.EntryDate)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid_date", "Дата должна быть в формате YYYY-MM-DD", nil)
		return
	}

	entries, err := h.entries.CreateFromPreset(c.Request.Context(), acting, target, presetID, entryDate)
	if err != nil {
		if errors.Is(err, entryuc.ErrEmptyPreset) {
			response.Error(c, http.StatusUnprocessableEntity, "empty_preset", "Пресет не содержит упражнений", nil)
			return
		}
		h.respondError(c, "CreateFromPreset", err)
		return
	}

	c.JSON(http.StatusCreated, toListResponse(entries))
}

// Progress возвращает агрегированный прогресс по упражнению.
func (h *Handler) Progress(c *gin.Context) {
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

	exerciseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid_id", "Некорректный идентификатор", nil)
		return
	}

	report, err := h.entries.Progress(c.Request.Context(), acting, target, exerciseID)
	if err != nil {
		h.respondError(c, "Progress", err)
		return
	}

	resp := ProgressResponse{
		ExerciseID:  report.ExerciseID.String(),
		Sessions:    report.Sessions,
		MaxWeight:   report.MaxWeight,
		TotalVolume: report.TotalVolume,
		Series:      make([]ProgressPointResponse, 0, len(report.Series)),
	}
	for _, p := range report.Series {
		resp.Series = append(resp.Series, ProgressPointResponse{
			Date:           p.Date.Format(dateLayout),
			MaxWeight:      p.MaxWeight,
			TotalVolume:    p.TotalVolume,
			CaloriesBurned: p.CaloriesBurned,
			Duration:       p.Duration,
		})
	}

	c.JSON(http.StatusOK, resp)
}

// UploadImage сохраняет фото к записи дневника. Если в форме передан
// entry_id, путь фото записывается в запись; при неудавшейся записи в БД
// сохранённый файл подчищается.
func (h *Handler) UploadImage(c *gin.Context) {
	acting, err := request.ActingUserID(c)
	if err != nil {
		response.Error(c, http.StatusUnauthorized, "unauthorized", "Требуется аутентификация", nil)
		return
	}

	file, err := request.FormImage(c)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid_request", "Файл не передан", err.Error())
		return
	}

	path, err := h.uploads.Save(file)
	if err != nil {
		log.Printf("error saving entry image: filename=%s err=%v", file.Filename, err)
		response.Error(c, http.StatusBadRequest, "upload_failed", "Не удалось сохранить файл", nil)
		return
	}

	if rawID := c.PostForm("entry_id"); rawID != "" {
		if err := h.attachImage(c, acting, rawID, path); err != nil {
			if rerr := h.uploads.Remove(path); rerr != nil {
				log.Printf("error removing orphaned entry image: path=%s err=%v", path, rerr)
			}
			return
		}
	}

	c.JSON(http.StatusCreated, UploadResponse{
		Path: path,
		URL:  "/uploads/" + path,
	})
}

// attachImage записывает путь фото в запись дневника. При ошибке ответ уже
// записан; вызывающая сторона удаляет сохранённый файл.
func (h *Handler) attachImage(c *gin.Context, acting uuid.UUID, rawID, path string) error {
	id, err := uuid.Parse(rawID)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid_request", "Некорректный идентификатор записи", nil)
		return err
	}

	if _, err := h.entries.Update(c.Request.Context(), acting, id, entryuc.UpdateInput{ImagePath: &path}); err != nil {
		h.respondError(c, "UploadImage", err)
		return err
	}
	return nil
}

// respondError маппит ошибки usecase-слоя в HTTP-ответы.
func (h *Handler) respondError(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, repo.ErrNotFound):
		response.Error(c, http.StatusNotFound, "not_found", "Запись не найдена", nil)
	case errors.Is(err, accessuc.ErrForbidden):
		response.Error(c, http.StatusForbidden, "forbidden", "Недостаточно прав", nil)
	default:
		log.Printf("internal error in %s: err=%v", op, err)
		response.Error(c, http.StatusInternalServerError, "internal_error", "Внутренняя ошибка сервера", nil)
	}
}

// toDomainSets маппит DTO подходов в доменную модель.
func toDomainSets(sets []SetPayload) []domain.Set {
	if sets == nil {
		return nil
	}
	out := make([]domain.Set, 0, len(sets))
	for _, s := range sets {
		out = append(out, domain.Set{
			Reps:            s.Reps,
			Weight:          s.Weight,
			DurationSeconds: s.DurationSeconds,
			RestSeconds:     s.RestSeconds,
		})
	}
	return out
}

// toResponse маппит доменную модель в DTO.
func toResponse(e *domain.Entry) Response {
	resp := Response{
		ID:              e.ID.String(),
		UserID:          e.UserID.String(),
		ExerciseID:      e.ExerciseID.String(),
		EntryDate:       e.EntryDate.Format(dateLayout),
		DurationMinutes: e.DurationMinutes,
		CaloriesBurned:  e.CaloriesBurned,
		Notes:           e.Notes,
		Sets:            make([]SetPayload, 0, len(e.Sets)),
		ImagePath:       e.ImagePath,
		CreatedAt:       e.CreatedAt,
		UpdatedAt:       e.UpdatedAt,
	}
	for _, s := range e.Sets {
		resp.Sets = append(resp.Sets, SetPayload{
			Reps:            s.Reps,
			Weight:          s.Weight,
			DurationSeconds: s.DurationSeconds,
			RestSeconds:     s.RestSeconds,
		})
	}
	if e.PresetID != nil {
		id := e.PresetID.String()
		resp.PresetID = &id
	}
	return resp
}

// toListResponse маппит срез записей в DTO списка.
func toListResponse(entries []*domain.Entry) ListResponse {
	resp := ListResponse{
		Entries: make([]Response, 0, len(entries)),
		Total:   len(entries),
	}
	for _, e := range entries {
		resp.Entries = append(resp.Entries, toResponse(e))
	}
	return resp
}
