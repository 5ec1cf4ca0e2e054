package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config хранит всю конфигурацию приложения
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Session  SessionConfig
	CORS     CORSConfig
	Uploads  UploadsConfig
	Backup   BackupConfig
	Garmin   GarminConfig
	AppEnv   string // Окружение приложения: development, production, etc.

	// AdminEmail — email пользователя, которому при старте выдаётся роль admin
	// (bootstrap первого администратора).
	AdminEmail string
}

// ServerConfig хранит конфигурацию сервера
type ServerConfig struct {
	Host string
	Port string
}

// DatabaseConfig хранит конфигурацию базы данных
type DatabaseConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int           // Максимальное количество открытых соединений
	MaxIdleConns    int           // Максимальное количество неактивных соединений
	ConnMaxLifetime time.Duration // Максимальное время жизни соединения
	ConnMaxIdleTime time.Duration // Максимальное время простоя соединения
}

// JWTConfig хранит настройки подписи access/refresh токенов.
type JWTConfig struct {
	AccessSecret  string
	RefreshSecret string
	Issuer        string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

// SessionConfig хранит настройки серверной cookie-сессии.
// CookieName по умолчанию — "sparky.sid", как в веб-клиенте.
type SessionConfig struct {
	Secret     string
	CookieName string
	MaxAge     time.Duration
	Secure     bool
}

// CORSConfig хранит настройки CORS.
type CORSConfig struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposedHeaders   []string
	AllowCredentials bool
	MaxAge           time.Duration
}

// UploadsConfig хранит настройки хранения загружаемых файлов.
type UploadsConfig struct {
	// Dir — корневая директория для загруженных файлов (раздаётся по /uploads).
	Dir string
	// MaxFileSize — максимальный размер одного файла в байтах.
	MaxFileSize int64
	// ExerciseImageBaseURL — базовый URL публичной базы картинок упражнений,
	// откуда дозагружаются отсутствующие файлы каталога.
	ExerciseImageBaseURL string
}

// BackupConfig хранит настройки ночного резервного копирования БД.
type BackupConfig struct {
	Enabled       bool
	Dir           string
	Schedule      string // cron-выражение; по умолчанию ежедневно в 02:00
	RetentionDays int
}

// GarminConfig хранит настройки интеграции с Garmin-микросервисом.
type GarminConfig struct {
	// ServiceURL — базовый URL микросервиса, выполняющего авторизацию
	// и выгрузку данных Garmin Connect.
	ServiceURL string
	// RequestTimeout — таймаут исходящих запросов к микросервису.
	RequestTimeout time.Duration
}

// DSN возвращает строку подключения к базе данных
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// Address возвращает адрес сервера (host:port)
func (s *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%s", s.Host, s.Port)
}

// Load загружает конфигурацию из переменных окружения
func Load() (*Config, error) {
	// Загружаем .env файл (если существует)
	// В production переменные окружения должны быть установлены напрямую
	_ = godotenv.Load()

	cfg := &Config{}

	// Загружаем конфигурацию сервера
	cfg.Server.Host = getEnv("SERVER_HOST", "localhost")
	cfg.Server.Port = getEnv("SERVER_PORT", "3010")

	// Загружаем конфигурацию базы данных
	cfg.Database.Host = getEnv("DB_HOST", "localhost")
	cfg.Database.Port = getEnv("DB_PORT", "5432")
	cfg.Database.User = getEnv("DB_USER", "postgres")
	cfg.Database.Password = getEnv("DB_PASSWORD", "")
	cfg.Database.DBName = getEnv("DB_NAME", "sparkyfitness")
	cfg.Database.SSLMode = getEnv("DB_SSLMODE", "disable")

	// Загружаем настройки пула соединений
	cfg.Database.MaxOpenConns = getEnvAsInt("DB_MAX_OPEN_CONNS", 25)
	cfg.Database.MaxIdleConns = getEnvAsInt("DB_MAX_IDLE_CONNS", 5)
	cfg.Database.ConnMaxLifetime = getEnvAsDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute)
	cfg.Database.ConnMaxIdleTime = getEnvAsDuration("DB_CONN_MAX_IDLE_TIME", 10*time.Minute)

	// Загружаем настройки JWT
	cfg.JWT.AccessSecret = getEnv("JWT_ACCESS_SECRET", "")
	cfg.JWT.RefreshSecret = getEnv("JWT_REFRESH_SECRET", "")
	cfg.JWT.Issuer = getEnv("JWT_ISSUER", "sparkyfitness")
	cfg.JWT.AccessTTL = getEnvAsDuration("JWT_ACCESS_TTL", 15*time.Minute)
	cfg.JWT.RefreshTTL = getEnvAsDuration("JWT_REFRESH_TTL", 30*24*time.Hour)

	// Загружаем настройки сессии
	cfg.Session.Secret = getEnv("SESSION_SECRET", "")
	cfg.Session.CookieName = getEnv("SESSION_COOKIE_NAME", "sparky.sid")
	cfg.Session.MaxAge = getEnvAsDuration("SESSION_MAX_AGE", 7*24*time.Hour)
	cfg.Session.Secure = getEnvAsBool("SESSION_COOKIE_SECURE", false)

	// Загружаем настройки CORS
	cfg.CORS.AllowedOrigins = getEnvAsSlice("CORS_ALLOWED_ORIGINS", nil)
	cfg.CORS.AllowedMethods = getEnvAsSlice("CORS_ALLOWED_METHODS",
		[]string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"})
	cfg.CORS.AllowedHeaders = getEnvAsSlice("CORS_ALLOWED_HEADERS",
		[]string{"Origin", "Content-Type", "Authorization"})
	cfg.CORS.ExposedHeaders = getEnvAsSlice("CORS_EXPOSED_HEADERS", nil)
	cfg.CORS.AllowCredentials = getEnvAsBool("CORS_ALLOW_CREDENTIALS", true)
	cfg.CORS.MaxAge = getEnvAsDuration("CORS_MAX_AGE", 12*time.Hour)

	// Загружаем настройки загрузки файлов
	cfg.Uploads.Dir = getEnv("UPLOADS_DIR", "uploads")
	cfg.Uploads.MaxFileSize = int64(getEnvAsInt("UPLOADS_MAX_FILE_SIZE", 10<<20))
	cfg.Uploads.ExerciseImageBaseURL = getEnv("EXERCISE_IMAGE_BASE_URL",
		"https://raw.githubusercontent.com/yuhonas/free-exercise-db/main/exercises")

	// Загружаем настройки резервного копирования
	cfg.Backup.Enabled = getEnvAsBool("BACKUP_ENABLED", false)
	cfg.Backup.Dir = getEnv("BACKUP_DIR", "backups")
	cfg.Backup.Schedule = getEnv("BACKUP_SCHEDULE", "0 2 * * *")
	cfg.Backup.RetentionDays = getEnvAsInt("BACKUP_RETENTION_DAYS", 7)

	// Загружаем настройки Garmin-интеграции
	cfg.Garmin.ServiceURL = getEnv("GARMIN_SERVICE_URL", "")
	cfg.Garmin.RequestTimeout = getEnvAsDuration("GARMIN_REQUEST_TIMEOUT", 30*time.Second)

	// Загружаем окружение приложения
	cfg.AppEnv = getEnv("APP_ENV", "development")
	cfg.AdminEmail = getEnv("ADMIN_EMAIL", "")

	// Валидируем конфигурацию
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("ошибка валидации конфигурации: %w", err)
	}

	return cfg, nil
}

// Validate проверяет корректность конфигурации
func (c *Config) Validate() error {
	if c.Server.Host == "" {
		return fmt.Errorf("SERVER_HOST не может быть пустым")
	}
	if c.Server.Port == "" {
		return fmt.Errorf("SERVER_PORT не может быть пустым")
	}
	if c.Database.Host == "" {
		return fmt.Errorf("DB_HOST не может быть пустым")
	}
	if c.Database.User == "" {
		return fmt.Errorf("DB_USER не может быть пустым")
	}
	if c.Database.DBName == "" {
		return fmt.Errorf("DB_NAME не может быть пустым")
	}
	// Вне development секреты обязательны
	if c.AppEnv != "development" {
		if c.JWT.AccessSecret == "" || c.JWT.RefreshSecret == "" {
			return fmt.Errorf("JWT_ACCESS_SECRET и JWT_REFRESH_SECRET обязательны вне development")
		}
		if c.Session.Secret == "" {
			return fmt.Errorf("SESSION_SECRET обязателен вне development")
		}
	}
	if c.Backup.Enabled && c.Backup.RetentionDays <= 0 {
		return fmt.Errorf("BACKUP_RETENTION_DAYS должен быть положительным")
	}
	return nil
}

// getEnv получает переменную окружения или возвращает значение по умолчанию
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvAsInt получает переменную окружения как int или возвращает значение по умолчанию
func getEnvAsInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return intValue
}

// getEnvAsDuration получает переменную окружения как time.Duration или возвращает значение по умолчанию
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	duration, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return duration
}

// getEnvAsBool получает переменную окружения как bool или возвращает значение по умолчанию
func getEnvAsBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return boolValue
}

// getEnvAsSlice получает переменную окружения как список строк, разделённых запятыми.
func getEnvAsSlice(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	if len(result) == 0 {
		return defaultValue
	}
	return result
}
