package main

import (
	"context"
	"log"
	"time"

	"sparkyfitness-server/internal/config"
	"sparkyfitness-server/internal/database"
	pgrepo "sparkyfitness-server/internal/repository/postgres"
	"sparkyfitness-server/internal/server"
	useruc "sparkyfitness-server/internal/usecase/user"
)

func main() {
	log.Println("SparkyFitness Server Starting...")

	// Загружаем конфигурацию
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	log.Printf("Конфигурация загружена успешно")
	log.Printf("Сервер будет запущен на %s", cfg.Server.Address())
	log.Printf("База данных: %s@%s:%s/%s", cfg.Database.User, cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Подключаемся к базе данных
	db, err := database.NewConnection(&cfg.Database, cfg.AppEnv)
	if err != nil {
		log.Fatalf("Ошибка подключения к базе данных: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Ошибка закрытия подключения к базе данных: %v", err)
		}
	}()

	// Применяем миграции
	migrator, err := database.NewMigrator(db)
	if err != nil {
		log.Fatalf("Ошибка создания мигратора: %v", err)
	}
	if err := migrator.Up(); err != nil && err != database.ErrNoChange {
		log.Fatalf("Ошибка применения миграций: %v", err)
	}
	if err := migrator.Close(); err != nil {
		log.Printf("Ошибка закрытия мигратора: %v", err)
	}

	// Bootstrap первого администратора
	if cfg.AdminEmail != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		userService := useruc.NewService(pgrepo.NewUserRepository(db.DB))
		if err := userService.BootstrapAdmin(ctx, cfg.AdminEmail); err != nil {
			log.Printf("Ошибка назначения администратора: email=%s err=%v", cfg.AdminEmail, err)
		}
		cancel()
	}

	// Запускаем HTTP сервер
	srv := server.NewServer(cfg, db)
	if err := srv.Start(); err != nil {
		log.Fatalf("Ошибка работы сервера: %v", err)
	}
}
