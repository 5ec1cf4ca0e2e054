package backup

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"sparkyfitness-server/internal/config"
	"sparkyfitness-server/pkg/logger"
)

// backupPrefix и backupSuffix задают формат имени артефакта:
// sparkyfitness-YYYY-MM-DD.dump
const (
	backupPrefix = "sparkyfitness-"
	backupSuffix = ".dump"
	dateLayout   = "2006-01-02"
)

// Service выполняет резервное копирование базы данных через pg_dump
// и удаление устаревших артефактов по горизонту хранения.
type Service struct {
	db     *config.DatabaseConfig
	cfg    *config.BackupConfig
	logger logger.Logger
	now    func() time.Time
}

// NewService создаёт сервис резервного копирования.
func NewService(db *config.DatabaseConfig, cfg *config.BackupConfig, logger logger.Logger) *Service {
	return &Service{
		db:     db,
		cfg:    cfg,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Run выполняет один цикл: бэкап, затем — только при успехе — удаление
// артефактов старше горизонта хранения.
func (s *Service) Run(ctx context.Context) error {
	path, err := s.Dump(ctx)
	if err != nil {
		return err
	}

	s.logger.Info("database backup written", map[string]any{
		"path": path,
	})

	removed, err := s.Prune()
	if err != nil {
		return err
	}
	if removed > 0 {
		s.logger.Info("old backups pruned", map[string]any{
			"removed":        removed,
			"retention_days": s.cfg.RetentionDays,
		})
	}
	return nil
}

// Dump запускает pg_dump и пишет артефакт в директорию бэкапов.
// Возвращает путь к созданному файлу.
func (s *Service) Dump(ctx context.Context) (string, error) {
	if err := os.MkdirAll(s.cfg.Dir, 0o755); err != nil {
		return "", fmt.Errorf("ошибка создания директории бэкапов: %w", err)
	}

	name := backupPrefix + s.now().Format(dateLayout) + backupSuffix
	path := filepath.Join(s.cfg.Dir, name)

	// Формат -Fc (custom) уже сжат; файл пригоден для pg_restore
	cmd := exec.CommandContext(ctx, "pg_dump",
		"--format=custom",
		"--host", s.db.Host,
		"--port", s.db.Port,
		"--username", s.db.User,
		"--dbname", s.db.DBName,
		"--file", path,
	)
	cmd.Env = append(os.Environ(), "PGPASSWORD="+s.db.Password)

	if out, err := cmd.CombinedOutput(); err != nil {
		// Неудавшийся дамп не должен оставлять частичный файл
		_ = os.Remove(path)
		return "", fmt.Errorf("pg_dump завершился с ошибкой: %w: %s", err, strings.TrimSpace(string(out)))
	}

	return path, nil
}

// Prune удаляет артефакты старше горизонта хранения.
// Возвращает количество удалённых файлов.
func (s *Service) Prune() (int, error) {
	entries, err := os.ReadDir(s.cfg.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("ошибка чтения директории бэкапов: %w", err)
	}

	cutoff := s.now().AddDate(0, 0, -s.cfg.RetentionDays)

	// Обрабатываем по возрастанию имени — даты в именах сортируются лексикографически
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	removed := 0
	for _, name := range names {
		if !strings.HasPrefix(name, backupPrefix) || !strings.HasSuffix(name, backupSuffix) {
			continue
		}

		dateStr := strings.TrimSuffix(strings.TrimPrefix(name, backupPrefix), backupSuffix)
		date, err := time.Parse(dateLayout, dateStr)
		if err != nil {
			// Чужие файлы в директории не трогаем
			continue
		}

		if date.Before(cutoff) {
			if err := os.Remove(filepath.Join(s.cfg.Dir, name)); err != nil {
				return removed, fmt.Errorf("ошибка удаления устаревшего бэкапа %s: %w", name, err)
			}
			removed++
		}
	}
	return removed, nil
}
