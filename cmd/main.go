package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"santagogo/backend/internal/api/handler"
	"santagogo/backend/internal/config"
	"santagogo/backend/internal/models"
	"santagogo/backend/internal/storage"
	"santagogo/backend/internal/telegram"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupDependencies(cfg *config.Config) (*gorm.DB, *redis.Client) {
	db, err := gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect PostgreSQL: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	ctx := context.Background()
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect Redis: %v", err)
	}

	err = db.AutoMigrate(
		&models.Chat{},
		&models.Binding{},
		&models.Participant{},
		&models.Pair{},
		&models.JoinToken{},
		&models.DrawRecord{},
	)
	if err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Database and Redis connections established, migrations complete.")
	return db, rdb
}

func main() {
	log.Println("Starting Santagogo bot...")

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	db, rdb := setupDependencies(cfg)
	s := storage.NewStorageService(db, rdb)

	botService, err := telegram.NewBotService(cfg, s)
	if err != nil {
		log.Fatalf("Failed to start the Telegram bot: %v", err)
	}
	go botService.Run()

	r := gin.Default()
	h := handler.NewHandler(botService.Exchange, cfg)
	h.RegisterRoutes(r)

	server := &http.Server{
		Addr:           cfg.APIAddr,
		Handler:        r,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	log.Fatal(server.ListenAndServe())
}
