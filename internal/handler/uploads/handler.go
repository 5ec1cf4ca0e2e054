package uploads

import (
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"

	"sparkyfitness-server/internal/handler/response"
	"sparkyfitness-server/internal/upload"
)

// Handler раздаёт загруженные файлы по /uploads/*.
// Отсутствующие картинки каталога упражнений дозагружаются на лету.
type Handler struct {
	storage *upload.Storage
}

// NewHandler создаёт новый UploadsHandler.
func NewHandler(storage *upload.Storage) *Handler {
	return &Handler{storage: storage}
}

// Serve отдаёт файл по относительному пути из URL.
func (h *Handler) Serve(c *gin.Context) {
	rel := strings.TrimPrefix(c.Param("filepath"), "/")
	if rel == "" {
		response.Error(c, http.StatusNotFound, "not_found", "Файл не найден", nil)
		return
	}

	abs, err := h.storage.Open(rel)
	if err != nil {
		if os.IsNotExist(err) {
			response.Error(c, http.StatusNotFound, "not_found", "Файл не найден", nil)
			return
		}
		log.Printf("error serving upload: path=%s err=%v", rel, err)
		response.Error(c, http.StatusInternalServerError, "internal_error", "Внутренняя ошибка сервера", nil)
		return
	}

	c.File(abs)
}
