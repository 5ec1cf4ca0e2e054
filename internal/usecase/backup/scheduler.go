package backup

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"sparkyfitness-server/pkg/logger"
)

// runTimeout ограничивает длительность одного цикла бэкапа.
const runTimeout = 2 * time.Hour

// Scheduler запускает цикл резервного копирования по cron-расписанию.
// Перекрывающиеся запуски исключены: если предыдущий цикл ещё идёт,
// очередное срабатывание пропускается с записью в лог.
type Scheduler struct {
	service  *Service
	schedule string
	logger   logger.Logger

	cron *cron.Cron
	mu   sync.Mutex
}

// NewScheduler создаёт планировщик для сервиса бэкапов.
func NewScheduler(service *Service, schedule string, logger logger.Logger) *Scheduler {
	return &Scheduler{
		service:  service,
		schedule: schedule,
		logger:   logger,
	}
}

// Start регистрирует задачу и запускает cron.
func (s *Scheduler) Start() error {
	s.cron = cron.New()

	if _, err := s.cron.AddFunc(s.schedule, s.fire); err != nil {
		return fmt.Errorf("некорректное cron-расписание %q: %w", s.schedule, err)
	}

	s.cron.Start()
	s.logger.Info("backup scheduler started", map[string]any{
		"schedule": s.schedule,
	})
	return nil
}

// Stop останавливает cron и дожидается завершения запущенных задач.
func (s *Scheduler) Stop() {
	if s.cron == nil {
		return
	}
	<-s.cron.Stop().Done()
	s.logger.Info("backup scheduler stopped", nil)
}

// fire выполняет один цикл под защитой от перекрытия.
func (s *Scheduler) fire() {
	if !s.mu.TryLock() {
		s.logger.Error("backup run skipped: previous run still in progress", nil)
		return
	}
	defer s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	if err := s.service.Run(ctx); err != nil {
		s.logger.Error("backup run failed", map[string]any{
			"err": err.Error(),
		})
	}
}
