package exercise

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	domain "sparkyfitness-server/internal/domain/exercise"
	"sparkyfitness-server/internal/handler/request"
	"sparkyfitness-server/internal/handler/response"
	repo "sparkyfitness-server/internal/repository/interfaces"
	"sparkyfitness-server/internal/upload"
	accessuc "sparkyfitness-server/internal/usecase/access"
	exerciseuc "sparkyfitness-server/internal/usecase/exercise"
)

const defaultSearchLimit = 50

// Handler обрабатывает HTTP-запросы каталога упражнений.
type Handler struct {
	exercises exerciseuc.Service
	uploads   *upload.Storage
}

// NewHandler создаёт новый ExerciseHandler.
func NewHandler(exercises exerciseuc.Service, uploads *upload.Storage) *Handler {
	return &Handler{exercises: exercises, uploads: uploads}
}

// Create создаёт пользовательское упражнение.
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

	ex, err := h.exercises.Create(c.Request.Context(), acting, target, exerciseuc.CreateInput{
		Name:             req.Name,
		Category:         req.Category,
		CaloriesPerHour:  req.CaloriesPerHour,
		Description:      req.Description,
		Equipment:        req.Equipment,
		PrimaryMuscles:   req.PrimaryMuscles,
		SecondaryMuscles: req.SecondaryMuscles,
		Instructions:     req.Instructions,
		Images:           req.Images,
		SharedWithPublic: req.SharedWithPublic,
	})
	if err != nil {
		h.respondError(c, "Create", err)
		return
	}

	c.JSON(http.StatusCreated, toResponse(ex))
}

// Get возвращает упражнение по идентификатору.
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

	ex, err := h.exercises.Get(c.Request.Context(), acting, id)
	if err != nil {
		h.respondError(c, "Get", err)
		return
	}

	c.JSON(http.StatusOK, toResponse(ex))
}

// Search ищет упражнения, видимые целевому пользователю.
func (h *Handler) Search(c *gin.Context) {
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

	filter := repo.ExerciseFilter{
		Query:     c.Query("q"),
		Category:  c.Query("category"),
		OwnerOnly: c.Query("owner_only") == "true",
		Limit:     queryInt(c, "limit", defaultSearchLimit),
		Offset:    queryInt(c, "offset", 0),
	}

	exercises, err := h.exercises.Search(c.Request.Context(), acting, target, filter)
	if err != nil {
		h.respondError(c, "Search", err)
		return
	}

	resp := ListResponse{
		Exercises: make([]Response, 0, len(exercises)),
		Total:     len(exercises),
	}
	for _, ex := range exercises {
		resp.Exercises = append(resp.Exercises, toResponse(ex))
	}

	c.JSON(http.StatusOK, resp)
}

// Update обновляет упражнение.
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

	ex, err := h.exercises.Update(c.Request.Context(), acting, id, exerciseuc.UpdateInput{
		Name:             req.Name,
		Category:         req.Category,
		CaloriesPerHour:  req.CaloriesPerHour,
		Description:      req.Description,
		Equipment:        req.Equipment,
		PrimaryMuscles:   req.PrimaryMuscles,
		SecondaryMuscles: req.SecondaryMuscles,
		Instructions:     req.Instructions,
		Images:           req.Images,
		SharedWithPublic: req.SharedWithPublic,
	})
	if err != nil {
		h.respondError(c, "Update", err)
		return
	}

	c.JSON(http.StatusOK, toResponse(ex))
}

// Delete удаляет упражнение.
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

	if err := h.exercises.Delete(c.Request.Context(), acting, id); err != nil {
		h.respondError(c, "Delete", err)
		return
	}

	c.Status(http.StatusNoContent)
}

// UploadImage сохраняет картинку упражнения и возвращает её путь.
// Если в форме передан exercise_id, картинка сразу добавляется к упражнению;
// при неудавшейся записи в БД сохранённый файл подчищается.
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
		log.Printf("error saving exercise image: filename=%s err=%v", file.Filename, err)
		response.Error(c, http.StatusBadRequest, "upload_failed", "Не удалось сохранить файл", nil)
		return
	}

	if rawID := c.PostForm("exercise_id"); rawID != "" {
		if err := h.attachImage(c, acting, rawID, path); err != nil {
			if rerr := h.uploads.Remove(path); rerr != nil {
				log.Printf("error removing orphaned exercise image: path=%s err=%v", path, rerr)
			}
			return
		}
	}

	c.JSON(http.StatusCreated, UploadResponse{
		Path: path,
		URL:  "/uploads/" + path,
	})
}

// attachImage добавляет путь картинки к упражнению. При ошибке ответ уже
// записан; вызывающая сторона удаляет сохранённый файл.
func (h *Handler) attachImage(c *gin.Context, acting uuid.UUID, rawID, path string) error {
	id, err := uuid.Parse(rawID)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid_request", "Некорректный идентификатор упражнения", nil)
		return err
	}

	ex, err := h.exercises.Get(c.Request.Context(), acting, id)
	if err != nil {
		h.respondError(c, "UploadImage", err)
		return err
	}

	images := append(append([]string{}, ex.Images...), path)
	if _, err := h.exercises.Update(c.Request.Context(), acting, id, exerciseuc.UpdateInput{Images: images}); err != nil {
		h.respondError(c, "UploadImage", err)
		return err
	}
	return nil
}

// respondError маппит ошибки usecase-слоя в HTTP-ответы.
func (h *Handler) respondError(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, repo.ErrNotFound):
		response.Error(c, http.StatusNotFound, "exercise_not_found", "Упражнение не найдено", nil)
	case errors.Is(err, accessuc.ErrForbidden):
		response.Error(c, http.StatusForbidden, "forbidden", "Недостаточно прав", nil)
	case errors.Is(err, repo.ErrExerciseInUse):
		response.Error(c, http.StatusConflict, "exercise_in_use", "Упражнение используется в записях дневника", nil)
	default:
		log.Printf("internal error in %s: err=%v", op, err)
		response.Error(c, http.StatusInternalServerError, "internal_error", "Внутренняя ошибка сервера", nil)
	}
}

// queryInt читает целочисленный query-параметр с значением по умолчанию.
func queryInt(c *gin.Context, name string, def int) int {
	raw := c.Query(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return def
	}
	return v
}

// toResponse маппит доменную модель в DTO.
func toResponse(ex *domain.Exercise) Response {
	resp := Response{
		ID:               ex.ID.String(),
		Name:             ex.Name,
		Category:         ex.Category,
		CaloriesPerHour:  ex.CaloriesPerHour,
		Description:      ex.Description,
		Equipment:        ex.Equipment,
		PrimaryMuscles:   ex.PrimaryMuscles,
		SecondaryMuscles: ex.SecondaryMuscles,
		Instructions:     ex.Instructions,
		Images:           ex.Images,
		IsCustom:         ex.IsCustom,
		SharedWithPublic: ex.SharedWithPublic,
		Source:           ex.Source,
		CreatedAt:        ex.CreatedAt,
		UpdatedAt:        ex.UpdatedAt,
	}
	if ex.UserID != nil {
		id := ex.UserID.String()
		resp.UserID = &id
	}
	return resp
}
