package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"sparkyfitness-server/internal/config"
	"sparkyfitness-server/internal/database"
	garminclient "sparkyfitness-server/internal/garmin"
	accesshandler "sparkyfitness-server/internal/handler/access"
	adminhandler "sparkyfitness-server/internal/handler/admin"
	authhandler "sparkyfitness-server/internal/handler/auth"
	entryhandler "sparkyfitness-server/internal/handler/entry"
	exercisehandler "sparkyfitness-server/internal/handler/exercise"
	garminhandler "sparkyfitness-server/internal/handler/garmin"
	"sparkyfitness-server/internal/handler/health"
	"sparkyfitness-server/internal/handler/middleware"
	presethandler "sparkyfitness-server/internal/handler/preset"
	uploadshandler "sparkyfitness-server/internal/handler/uploads"
	userhandler "sparkyfitness-server/internal/handler/user"
	pgrepo "sparkyfitness-server/internal/repository/postgres"
	"sparkyfitness-server/internal/session"
	"sparkyfitness-server/internal/upload"
	accessuc "sparkyfitness-server/internal/usecase/access"
	backupuc "sparkyfitness-server/internal/usecase/backup"
	entryuc "sparkyfitness-server/internal/usecase/entry"
	exerciseuc "sparkyfitness-server/internal/usecase/exercise"
	garminuc "sparkyfitness-server/internal/usecase/garmin"
	presetuc "sparkyfitness-server/internal/usecase/preset"
	useruc "sparkyfitness-server/internal/usecase/user"
	jwtsvc "sparkyfitness-server/pkg/jwt"
	"sparkyfitness-server/pkg/logger"
)

// Server представляет HTTP сервер приложения
type Server struct {
	router     *gin.Engine
	httpServer *http.Server
	db         *database.DB
	cfg        *config.Config

	jwtService jwtsvc.Service
	sessions   *session.Store
	backup     *backupuc.Scheduler

	authHandler     *authhandler.Handler
	userHandler     *userhandler.Handler
	adminHandler    *adminhandler.Handler
	exerciseHandler *exercisehandler.Handler
	entryHandler    *entryhandler.Handler
	presetHandler   *presethandler.Handler
	accessHandler   *accesshandler.Handler
	garminHandler   *garminhandler.Handler
	uploadsHandler  *uploadshandler.Handler
}

// NewServer создает новый экземпляр сервера
func NewServer(cfg *config.Config, db *database.DB) *Server {
	// Устанавливаем режим Gin в зависимости от окружения
	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	router := gin.New()

	s := &Server{
		router: router,
		db:     db,
		cfg:    cfg,
	}

	appLogger := logger.Default()

	// Репозитории. Указатель остаётся валидным после сброса пула:
	// database.Reset подменяет ConnPool на месте, не создавая новый gorm.DB.
	gormDB := db.DB
	userRepo := pgrepo.NewUserRepository(gormDB)
	grantRepo := pgrepo.NewGrantRepository(gormDB)
	exerciseRepo := pgrepo.NewExerciseRepository(gormDB)
	entryRepo := pgrepo.NewEntryRepository(gormDB)
	presetRepo := pgrepo.NewPresetRepository(gormDB)
	garminRepo := pgrepo.NewGarminRepository(gormDB)

	// Usecase-слой
	userService := useruc.NewService(userRepo)
	accessService := accessuc.NewService(grantRepo)
	exerciseService := exerciseuc.NewService(exerciseRepo, entryRepo, accessService)
	entryService := entryuc.NewService(entryRepo, exerciseRepo, presetRepo, accessService)
	presetService := presetuc.NewService(presetRepo, accessService)
	garminService := garminuc.NewService(garminRepo, exerciseRepo, entryRepo, garminclient.NewHTTPClient(&cfg.Garmin, appLogger))

	s.jwtService = jwtsvc.NewService(&cfg.JWT)
	s.sessions = session.NewStore(&cfg.Session)

	uploadStorage := upload.NewStorage(&cfg.Uploads, appLogger)

	// Фоновый бэкап БД по расписанию
	if cfg.Backup.Enabled {
		backupService := backupuc.NewService(&cfg.Database, &cfg.Backup, appLogger)
		s.backup = backupuc.NewScheduler(backupService, cfg.Backup.Schedule, appLogger)
	}

	// Handler-слой
	s.authHandler = authhandler.NewHandler(userService, userRepo, s.jwtService, s.sessions)
	s.userHandler = userhandler.NewHandler(userService)
	s.adminHandler = adminhandler.NewHandler(userService, db)
	s.exerciseHandler = exercisehandler.NewHandler(exerciseService, uploadStorage)
	s.entryHandler = entryhandler.NewHandler(entryService, uploadStorage)
	s.presetHandler = presethandler.NewHandler(presetService)
	s.accessHandler = accesshandler.NewHandler(accessService)
	s.garminHandler = garminhandler.NewHandler(garminService)
	s.uploadsHandler = uploadshandler.NewHandler(uploadStorage)

	// Настраиваем middleware и роуты
	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// setupMiddleware настраивает middleware для роутера
func (s *Server) setupMiddleware() {
	// Recovery middleware - должен быть первым для перехвата паник
	s.router.Use(middleware.Recovery())

	// Logger middleware - логирование всех запросов
	s.router.Use(middleware.LoggerStructured())

	// CORS middleware - настройка CORS
	s.router.Use(middleware.CORS(&s.cfg.CORS))
}

// setupRoutes настраивает маршруты приложения
func (s *Server) setupRoutes() {
	s.setupHealthRoutes()
	s.setupUploadRoutes()
	s.setupAuthRoutes()
	s.setupUserRoutes()
	s.setupAdminRoutes()
	s.setupExerciseRoutes()
	s.setupEntryRoutes()
	s.setupPresetRoutes()
	s.setupAccessRoutes()
	s.setupGarminRoutes()
}

// setupHealthRoutes настраивает health-check эндпоинты.
func (s *Server) setupHealthRoutes() {
	healthHandler := health.NewHandler(s.db, s.cfg.AppEnv)
	// GET /health — базовый health-check сервера (жив ли процесс).
	s.router.GET("/health", healthHandler.Health)
	// GET /health/db — проверка доступности базы данных.
	s.router.GET("/health/db", healthHandler.HealthDB)
}

// setupUploadRoutes настраивает раздачу загруженных файлов.
func (s *Server) setupUploadRoutes() {
	// GET /uploads/* — раздача загруженных файлов; отсутствующие картинки
	// каталога упражнений дозагружаются из публичной базы.
	s.router.GET("/uploads/*filepath", s.uploadsHandler.Serve)
}

// setupAuthRoutes настраивает эндпоинты аутентификации и корневой роут API.
func (s *Server) setupAuthRoutes() {
	v1 := s.router.Group("/api/v1")

	// GET /api/v1/ — корневой эндпоинт API v1, возвращает версию и базовую информацию.
	v1.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "SparkyFitness API v1",
			"version": "1.0.0",
		})
	})

	authGroup := v1.Group("/auth")
	{
		// POST /api/v1/auth/register — регистрация нового пользователя по email/паролю.
		authGroup.POST("/register", s.authHandler.Register)
		// POST /api/v1/auth/login — аутентификация; выставляет сессионную cookie.
		authGroup.POST("/login", s.authHandler.Login)
		// POST /api/v1/auth/refresh — обновление пары access/refresh токенов.
		authGroup.POST("/refresh", s.authHandler.Refresh)
		// POST /api/v1/auth/logout — уничтожение серверной сессии.
		authGroup.POST("/logout", s.authHandler.Logout)
	}
}

// setupUserRoutes настраивает защищённые эндпоинты пользователя.
func (s *Server) setupUserRoutes() {
	v1 := s.router.Group("/api/v1")

	userGroup := v1.Group("/users")
	userGroup.Use(middleware.Auth(s.jwtService, s.sessions))
	{
		// GET /api/v1/users/me — профиль текущего пользователя.
		userGroup.GET("/me", s.userHandler.GetMe)
		// PUT /api/v1/users/me — обновление профиля.
		userGroup.PUT("/me", s.userHandler.UpdateMe)
		// DELETE /api/v1/users/me — мягкое удаление аккаунта.
		userGroup.DELETE("/me", s.userHandler.DeleteMe)
	}
}

// setupAdminRoutes настраивает административные эндпоинты.
func (s *Server) setupAdminRoutes() {
	v1 := s.router.Group("/api/v1")

	adminGroup := v1.Group("/admin")
	adminGroup.Use(middleware.Auth(s.jwtService, s.sessions))
	adminGroup.Use(middleware.RequireRole("admin"))
	{
		// GET /api/v1/admin/users — список всех пользователей.
		adminGroup.GET("/users", s.adminHandler.ListUsers)
		// GET /api/v1/admin/users/:id — пользователь по идентификатору.
		adminGroup.GET("/users/:id", s.adminHandler.GetUser)
		// PUT /api/v1/admin/users/:id — изменение роли/активности/имени.
		adminGroup.PUT("/users/:id", s.adminHandler.UpdateUser)
		// DELETE /api/v1/admin/users/:id — безвозвратное удаление пользователя.
		adminGroup.DELETE("/users/:id", s.adminHandler.DeleteUser)
		// POST /api/v1/admin/database/reset — сброс пула соединений с БД.
		adminGroup.POST("/database/reset", s.adminHandler.ResetPool)
	}
}

// setupExerciseRoutes настраивает эндпоинты каталога упражнений.
func (s *Server) setupExerciseRoutes() {
	v1 := s.router.Group("/api/v1")

	exerciseGroup := v1.Group("/exercises")
	exerciseGroup.Use(middleware.Auth(s.jwtService, s.sessions))
	{
		// POST /api/v1/exercises — создание пользовательского упражнения.
		exerciseGroup.POST("", s.exerciseHandler.Create)
		// GET /api/v1/exercises — поиск по каталогу (q, category, owner_only, limit, offset).
		exerciseGroup.GET("", s.exerciseHandler.Search)
		// GET /api/v1/exercises/:id — упражнение по идентификатору.
		exerciseGroup.GET("/:id", s.exerciseHandler.Get)
		// PUT /api/v1/exercises/:id — обновление упражнения.
		exerciseGroup.PUT("/:id", s.exerciseHandler.Update)
		// DELETE /api/v1/exercises/:id — удаление упражнения.
		exerciseGroup.DELETE("/:id", s.exerciseHandler.Delete)
		// POST /api/v1/exercises/images — загрузка картинки упражнения.
		exerciseGroup.POST("/images", s.exerciseHandler.UploadImage)
	}
}

// setupEntryRoutes настраивает эндпоинты дневника тренировок.
func (s *Server) setupEntryRoutes() {
	v1 := s.router.Group("/api/v1")

	entryGroup := v1.Group("/exercise-entries")
	entryGroup.Use(middleware.Auth(s.jwtService, s.sessions))
	{
		// POST /api/v1/exercise-entries — создание записи дневника.
		entryGroup.POST("", s.entryHandler.Create)
		// GET /api/v1/exercise-entries — записи за интервал дат (from, to).
		entryGroup.GET("", s.entryHandler.List)
		// GET /api/v1/exercise-entries/:id — запись по идентификатору.
		entryGroup.GET("/:id", s.entryHandler.Get)
		// PUT /api/v1/exercise-entries/:id — обновление записи.
		entryGroup.PUT("/:id", s.entryHandler.Update)
		// DELETE /api/v1/exercise-entries/:id — удаление записи.
		entryGroup.DELETE("/:id", s.entryHandler.Delete)
		// POST /api/v1/exercise-entries/from-preset — развёртывание пресета в записи.
		entryGroup.POST("/from-preset", s.entryHandler.CreateFromPreset)
		// GET /api/v1/exercise-entries/progress/:id — прогресс по упражнению.
		entryGroup.GET("/progress/:id", s.entryHandler.Progress)
		// POST /api/v1/exercise-entries/images — загрузка фото к записи.
		entryGroup.POST("/images", s.entryHandler.UploadImage)
	}
}

// setupPresetRoutes настраивает эндпоинты пресетов тренировок.
func (s *Server) setupPresetRoutes() {
	v1 := s.router.Group("/api/v1")

	presetGroup := v1.Group("/workout-presets")
	presetGroup.Use(middleware.Auth(s.jwtService, s.sessions))
	{
		// POST /api/v1/workout-presets — создание пресета.
		presetGroup.POST("", s.presetHandler.Create)
		// GET /api/v1/workout-presets — пресеты, видимые пользователю.
		presetGroup.GET("", s.presetHandler.List)
		// GET /api/v1/workout-presets/:id — пресет по идентификатору.
		presetGroup.GET("/:id", s.presetHandler.Get)
		// PUT /api/v1/workout-presets/:id — обновление пресета.
		presetGroup.PUT("/:id", s.presetHandler.Update)
		// DELETE /api/v1/workout-presets/:id — удаление пресета.
		presetGroup.DELETE("/:id", s.presetHandler.Delete)
	}
}

// setupAccessRoutes настраивает эндпоинты делегированного доступа.
func (s *Server) setupAccessRoutes() {
	v1 := s.router.Group("/api/v1")

	accessGroup := v1.Group("/access")
	accessGroup.Use(middleware.Auth(s.jwtService, s.sessions))
	{
		// POST /api/v1/access/grants — выдача разрешения другому пользователю.
		accessGroup.POST("/grants", s.accessHandler.Grant)
		// GET /api/v1/access/grants — выданные разрешения.
		accessGroup.GET("/grants", s.accessHandler.List)
		// DELETE /api/v1/access/grants/:id — отзыв разрешения.
		accessGroup.DELETE("/grants/:id", s.accessHandler.Revoke)
	}
}

// setupGarminRoutes настраивает эндпоинты интеграции с Garmin.
func (s *Server) setupGarminRoutes() {
	v1 := s.router.Group("/api/v1")

	garminGroup := v1.Group("/integrations/garmin")
	garminGroup.Use(middleware.Auth(s.jwtService, s.sessions))
	{
		// POST /api/v1/integrations/garmin/connect — привязка аккаунта Garmin.
		garminGroup.POST("/connect", s.garminHandler.Connect)
		// GET /api/v1/integrations/garmin/status — состояние привязки.
		garminGroup.GET("/status", s.garminHandler.Status)
		// POST /api/v1/integrations/garmin/sync — синхронизация активности.
		garminGroup.POST("/sync", s.garminHandler.Sync)
		// DELETE /api/v1/integrations/garmin — удаление привязки.
		garminGroup.DELETE("", s.garminHandler.Disconnect)
	}
}

// Start запускает HTTP сервер с graceful shutdown
func (s *Server) Start() error {
	address := s.cfg.Server.Address()

	s.httpServer = &http.Server{
		Addr:           address,
		Handler:        s.router,
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   15 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20, // 1 MB
	}

	if s.backup != nil {
		s.backup.Start()
	}

	// Канал для получения сигналов ОС
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Канал для ошибок запуска сервера
	serverErr := make(chan error, 1)

	// Запускаем сервер в отдельной горутине
	go func() {
		log.Printf("HTTP сервер запущен на %s", address)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- fmt.Errorf("ошибка запуска HTTP сервера: %w", err)
		}
	}()

	// Ожидаем либо сигнал для graceful shutdown, либо ошибку запуска
	select {
	case err := <-serverErr:
		// Если сервер не смог запуститься, пытаемся корректно остановить
		log.Printf("Ошибка запуска сервера: %v", err)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.httpServer.Shutdown(ctx)
		s.stopBackup()
		return err
	case sig := <-quit:
		log.Printf("Получен сигнал %v для остановки сервера...", sig)
	}

	// Создаем контекст с таймаутом для graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	s.stopBackup()

	// Останавливаем сервер
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("ошибка при остановке сервера: %w", err)
	}

	log.Println("HTTP сервер успешно остановлен")
	return nil
}

// stopBackup останавливает планировщик бэкапов, если он запущен.
func (s *Server) stopBackup() {
	if s.backup != nil {
		s.backup.Stop()
	}
}

// GetRouter возвращает роутер (для тестирования)
func (s *Server) GetRouter() *gin.Engine {
	return s.router
}
