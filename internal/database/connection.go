package database

import (
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"sparkyfitness-server/internal/config"
)

// Константы для значений по умолчанию пула соединений
const (
	defaultMaxOpenConns    = 25
	defaultMaxIdleConns    = 5
	defaultConnMaxLifetime = 5 * time.Minute
	defaultConnMaxIdleTime = 10 * time.Minute
)

// DB представляет подключение к базе данных.
// Экземпляр создаётся в точке входа процесса и передаётся зависимостям явно:
// пакет не хранит глобального пула.
type DB struct {
	*gorm.DB

	mu     sync.Mutex
	cfg    *config.DatabaseConfig
	appEnv string
}

// NewConnection создает новое подключение к базе данных.
// Принимает конфигурацию базы данных и окружение приложения для настройки логирования.
// Возвращает инициализированное подключение или ошибку в случае неудачи.
//
// Пример использования:
//
//	db, err := database.NewConnection(cfg.Database, cfg.AppEnv)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
func NewConnection(cfg *config.DatabaseConfig, appEnv string) (*DB, error) {
	// Валидация входных параметров
	if cfg == nil {
		return nil, fmt.Errorf("конфигурация базы данных не может быть nil")
	}

	log.Println("Инициализация подключения к базе данных...")

	gormDB, err := open(cfg, appEnv)
	if err != nil {
		return nil, err
	}

	log.Println("Подключение к базе данных установлено успешно")

	return &DB{DB: gormDB, cfg: cfg, appEnv: appEnv}, nil
}

// open создаёт и настраивает gorm.DB по конфигурации.
func open(cfg *config.DatabaseConfig, appEnv string) (*gorm.DB, error) {
	// Настройка уровня логирования GORM в зависимости от окружения
	gormLogger := logger.Default
	if strings.ToLower(appEnv) == "development" {
		// В development режиме используем более подробное логирование
		gormLogger = logger.Default.LogMode(logger.Info)
	}

	// Создаем подключение к базе данных
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("ошибка подключения к базе данных: %w", err)
	}

	// Получаем sql.DB для настройки пула соединений
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("ошибка получения sql.DB: %w", err)
	}

	// Настраиваем пул соединений из конфигурации
	// Используем значения из конфига, если они заданы, иначе значения по умолчанию
	maxOpenConns := cfg.MaxOpenConns
	if maxOpenConns == 0 {
		maxOpenConns = defaultMaxOpenConns
	}
	maxIdleConns := cfg.MaxIdleConns
	if maxIdleConns == 0 {
		maxIdleConns = defaultMaxIdleConns
	}
	connMaxLifetime := cfg.ConnMaxLifetime
	if connMaxLifetime == 0 {
		connMaxLifetime = defaultConnMaxLifetime
	}
	connMaxIdleTime := cfg.ConnMaxIdleTime
	if connMaxIdleTime == 0 {
		connMaxIdleTime = defaultConnMaxIdleTime
	}

	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)

	// Проверяем подключение
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("ошибка проверки подключения к базе данных: %w", err)
	}

	return db, nil
}

// Reset пересоздаёт пул соединений: открывает новый по той же конфигурации,
// подменяет им пул существующего gorm.DB и закрывает старый.
// Используется после ротации учётных данных БД.
// Репозитории держат указатель на тот же gorm.DB, поэтому подмена выполняется
// на месте (swapPool), а не переприсваиванием db.DB — иначе все зависимости
// продолжили бы работать с закрытым пулом.
// Если новое подключение открыть не удалось, старый пул остаётся рабочим.
func (db *DB) Reset() error {
	db.mu.Lock()
	defer db.mu.Unlock()

	log.Println("Пересоздание пула соединений базы данных...")

	newDB, err := open(db.cfg, db.appEnv)
	if err != nil {
		return fmt.Errorf("ошибка пересоздания пула соединений: %w", err)
	}
	newSQL, err := newDB.DB()
	if err != nil {
		return fmt.Errorf("ошибка получения sql.DB нового пула: %w", err)
	}

	oldSQL, oldErr := db.DB.DB()

	swapPool(db.DB, newSQL)

	if oldErr == nil {
		if cerr := oldSQL.Close(); cerr != nil {
			log.Printf("Ошибка закрытия старого пула: %v", cerr)
		}
	}

	log.Println("Пул соединений пересоздан успешно")
	return nil
}

// swapPool подменяет пул соединений gorm.DB на месте, не меняя сам указатель.
// Каждая сессия GORM берёт ConnPool из Config, поэтому после подмены все
// держатели этого gorm.DB работают через новый пул.
func swapPool(gormDB *gorm.DB, pool gorm.ConnPool) {
	gormDB.Config.ConnPool = pool
	if gormDB.Statement != nil {
		gormDB.Statement.ConnPool = pool
	}
}

// Close закрывает подключение к базе данных.
// Освобождает все ресурсы, связанные с подключением.
// Возвращает ошибку в случае неудачи при закрытии.
func (db *DB) Close() error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return fmt.Errorf("ошибка получения sql.DB для закрытия: %w", err)
	}

	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("ошибка закрытия подключения к базе данных: %w", err)
	}

	log.Println("Подключение к базе данных закрыто")
	return nil
}

// Ping проверяет доступность базы данных.
// Используется для health checks и проверки работоспособности подключения.
// Возвращает ошибку, если база данных недоступна.
func (db *DB) Ping() error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return fmt.Errorf("ошибка получения sql.DB: %w", err)
	}

	if err := sqlDB.Ping(); err != nil {
		return fmt.Errorf("ошибка ping базы данных: %w", err)
	}

	return nil
}
