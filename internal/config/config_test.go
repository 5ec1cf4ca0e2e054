package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "3010", cfg.Server.Port)
	require.Equal(t, "sparkyfitness", cfg.Database.DBName)
	require.Equal(t, "sparky.sid", cfg.Session.CookieName)
	require.Equal(t, "0 2 * * *", cfg.Backup.Schedule)
	require.Equal(t, 7, cfg.Backup.RetentionDays)
	require.Equal(t, int64(10<<20), cfg.Uploads.MaxFileSize)
	require.Equal(t, 15*time.Minute, cfg.JWT.AccessTTL)
	require.Equal(t, "development", cfg.AppEnv)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "8080")
	t.Setenv("DB_NAME", "sparky_test")
	t.Setenv("BACKUP_RETENTION_DAYS", "14")
	t.Setenv("JWT_ACCESS_TTL", "1h")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "8080", cfg.Server.Port)
	require.Equal(t, "sparky_test", cfg.Database.DBName)
	require.Equal(t, 14, cfg.Backup.RetentionDays)
	require.Equal(t, time.Hour, cfg.JWT.AccessTTL)
	require.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
}

func TestValidate_SecretsRequiredOutsideDevelopment(t *testing.T) {
	t.Setenv("APP_ENV", "production")

	_, err := Load()
	require.Error(t, err)

	t.Setenv("JWT_ACCESS_SECRET", "a")
	t.Setenv("JWT_REFRESH_SECRET", "b")
	t.Setenv("SESSION_SECRET", "c")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "production", cfg.AppEnv)
}

func TestValidate_BackupRetentionMustBePositive(t *testing.T) {
	t.Setenv("BACKUP_ENABLED", "true")
	t.Setenv("BACKUP_RETENTION_DAYS", "0")

	_, err := Load()
	require.Error(t, err)
}

func TestDSN_Format(t *testing.T) {
	d := &DatabaseConfig{
		Host:     "db",
		Port:     "5432",
		User:     "postgres",
		Password: "secret",
		DBName:   "sparkyfitness",
		SSLMode:  "disable",
	}
	require.Equal(t,
		"host=db port=5432 user=postgres password=secret dbname=sparkyfitness sslmode=disable",
		d.DSN())
}
