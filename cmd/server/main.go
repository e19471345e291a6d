package main

import (
	"log"

	"github.com/fauzanhakim/ratebase/internal/bootstrap"
	"github.com/fauzanhakim/ratebase/internal/config"
	"github.com/fauzanhakim/ratebase/internal/server"
	"github.com/fauzanhakim/ratebase/pkg/database"
	"github.com/fauzanhakim/ratebase/pkg/mailer"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db := database.Connect()
	if err := bootstrap.Migrate(db); err != nil {
		log.Fatalf("migration failed: %v", err)
	}
	if err := bootstrap.SeedAdminUser(db, cfg.AdminUsername, cfg.AdminEmail); err != nil {
		log.Fatalf("failed to seed admin user: %v", err)
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatalf("invalid REDIS_URL: %v", err)
		}
		redisClient = redis.NewClient(opts)
	} else {
		log.Println("REDIS_URL not set, write rate limiting disabled")
	}

	mail := mailer.NewSenderFromEnv()

	srv := server.New(cfg, db, redisClient, mail)
	if err := srv.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server exited with error: %v", err)
	}
}
