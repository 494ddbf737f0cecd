package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"
	redisv9 "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"label_detection/internal/app/di"
	"label_detection/internal/app/router"
	"label_detection/internal/feature/labeldetection/adapters/render"
	"label_detection/internal/feature/labeldetection/adapters/vision"
	labelhandler "label_detection/internal/feature/labeldetection/transport/handler"
	"label_detection/internal/feature/labeldetection/usecase"
	platformdb "label_detection/internal/platform/db"
	jwtmw "label_detection/internal/platform/jwt"
	"label_detection/internal/platform/ratelimit"
	platformredis "label_detection/internal/platform/redis"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("[INFO] .env not found; using system environment variables")
	}
	ctx := context.Background()

	// db（任意）
	var db *gorm.DB
	if dbCfg := platformdb.LoadConfigFromEnv(); dbCfg.Enabled() {
		conn, err := platformdb.OpenDB(dbCfg)
		if err != nil {
			log.Fatalf("failed to open database: %v", err)
		}
		db = conn
	} else {
		log.Println("[WARN] DB_DRIVER is not set. Running without run history.")
	}

	// Redis（任意）
	var limiter *ratelimit.FixedWindow
	if redisCfg := platformredis.LoadConfigFromEnv(); redisCfg.Enabled() {
		rdb, err := platformredis.NewRedisClient(ctx, redisCfg)
		if err != nil {
			log.Println("[WARN] Redis unavailable. Running without rate limiting.")
		} else {
			defer func(rdb *redisv9.Client) {
				if err := rdb.Close(); err != nil {
					log.Println("[ERROR] Failed to close Redis client:", err)
				}
			}(rdb)
			limiter = ratelimit.NewFixedWindow(rdb, ratelimit.LimitFromEnv(), ratelimit.DefaultWindow)
		}
	}

	// Cloud clients
	clients, err := di.NewCloudClients(ctx, vision.LoadConfig())
	if err != nil {
		log.Fatalf("failed to create cloud clients: %v", err)
	}
	defer clients.Close()

	// Usecase
	labelUC := usecase.NewLabelDetectionUsecase(
		usecase.Config{RegionID: clients.Region},
		usecase.Dependencies{
			Detector:  clients.Detector,
			Fetcher:   clients.Fetcher,
			Decoder:   render.NewDecoder(),
			Presenter: render.NopPresenter{},
			Runs:      di.NewRunRepository(db),
		},
	)

	// Handler
	labelH := labelhandler.NewLabelDetectionHandler(labelUC, render.NewEncoder())

	// ルータ生成
	r := router.NewRouter(labelH, limiter)

	// JWT_SECRETチェック（開発中の注意喚起）
	if os.Getenv(jwtmw.EnvKeyJWTSecret) == "" {
		log.Println("[WARN] JWT_SECRET is not set. All /v1 requests will be rejected.")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := r.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}
