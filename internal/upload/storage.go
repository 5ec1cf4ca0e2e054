package upload

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"sparkyfitness-server/internal/config"
	"sparkyfitness-server/pkg/logger"
)

// unsafeChars вычищает из имени файла всё, кроме букв, цифр, точки и дефиса.
var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9.\-]+`)

// Storage сохраняет загруженные файлы в датированные поддиректории
// (uploads/YYYY/MM/DD/) и раздаёт их через HTTP. Для отсутствующих
// картинок каталога упражнений выполняется дозагрузка из публичной базы.
type Storage struct {
	cfg    *config.UploadsConfig
	http   *http.Client
	logger logger.Logger
	now    func() time.Time
}

// NewStorage создаёт файловое хранилище загрузок.
func NewStorage(cfg *config.UploadsConfig, logger logger.Logger) *Storage {
	return &Storage{
		cfg:    cfg,
		http:   &http.Client{Timeout: 30 * time.Second},
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// SanitizeFilename приводит имя файла к безопасному виду:
// вычищает разделители путей и спецсимволы, схлопывает точки.
func SanitizeFilename(name string) string {
	name = filepath.Base(name)
	name = unsafeChars.ReplaceAllString(name, "_")
	name = strings.Trim(name, "._")
	if name == "" {
		name = "file"
	}
	return name
}

// Save сохраняет загруженный файл и возвращает относительный путь
// внутри директории загрузок (пригоден для URL /uploads/<path>).
func (s *Storage) Save(file *multipart.FileHeader) (string, error) {
	if file.Size > s.cfg.MaxFileSize {
		return "", fmt.Errorf("файл превышает максимальный размер %d байт", s.cfg.MaxFileSize)
	}

	day := s.now()
	relDir := filepath.Join(day.Format("2006"), day.Format("01"), day.Format("02"))
	absDir := filepath.Join(s.cfg.Dir, relDir)
	if err := os.MkdirAll(absDir, 0o755); err != nil {
		return "", fmt.Errorf("ошибка создания директории загрузок: %w", err)
	}

	// Префикс-uuid исключает коллизии имён внутри дня
	name := uuid.New().String() + "-" + SanitizeFilename(file.Filename)
	relPath := filepath.Join(relDir, name)

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(s.cfg.Dir, relPath))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		_ = os.Remove(filepath.Join(s.cfg.Dir, relPath))
		return "", err
	}

	return filepath.ToSlash(relPath), nil
}

// Remove удаляет сохранённый файл по относительному пути.
// Используется для подчистки при неудавшейся записи в БД.
func (s *Storage) Remove(relPath string) error {
	if relPath == "" {
		return nil
	}
	clean, err := s.resolve(relPath)
	if err != nil {
		return err
	}
	return os.Remove(clean)
}

// resolve превращает относительный путь в абсолютный, запрещая выход
// за пределы директории загрузок.
func (s *Storage) resolve(relPath string) (string, error) {
	clean := path.Clean("/" + filepath.ToSlash(relPath))
	if strings.Contains(clean, "..") {
		return "", fmt.Errorf("недопустимый путь: %s", relPath)
	}
	return filepath.Join(s.cfg.Dir, filepath.FromSlash(clean)), nil
}

// Open возвращает абсолютный путь файла для отдачи клиенту.
// Если файл отсутствует и путь указывает на картинку каталога упражнений
// (exercises/<source-id>/<n>.jpg), она дозагружается из публичной базы.
func (s *Storage) Open(relPath string) (string, error) {
	abs, err := s.resolve(relPath)
	if err != nil {
		return "", err
	}

	if _, err := os.Stat(abs); err == nil {
		return abs, nil
	} else if !os.IsNotExist(err) {
		return "", err
	}

	rel := strings.TrimPrefix(path.Clean("/"+filepath.ToSlash(relPath)), "/")
	if !strings.HasPrefix(rel, "exercises/") {
		return "", os.ErrNotExist
	}

	if err := s.download(rel, abs); err != nil {
		return "", err
	}
	return abs, nil
}

// download выкачивает отсутствующую картинку каталога в локальное хранилище.
func (s *Storage) download(rel, abs string) error {
	url := strings.TrimSuffix(s.cfg.ExerciseImageBaseURL, "/") + "/" + strings.TrimPrefix(rel, "exercises/")

	resp, err := s.http.Get(url)
	if err != nil {
		return fmt.Errorf("ошибка дозагрузки картинки упражнения: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return os.ErrNotExist
	}

	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return err
	}

	dst, err := os.Create(abs)
	if err != nil {
		return err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, resp.Body); err != nil {
		_ = os.Remove(abs)
		return err
	}

	s.logger.Info("exercise image re-downloaded", map[string]any{
		"path": rel,
	})
	return nil
}
