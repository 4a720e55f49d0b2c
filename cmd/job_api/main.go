package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"video_processing_service/internal/jobapi/handlers"
	"video_processing_service/internal/jobapi/router"
	"video_processing_service/internal/processing/repository"
	"video_processing_service/pkg/config"
	"video_processing_service/pkg/database"
	"video_processing_service/pkg/logger"

	"github.com/gofiber/fiber/v2"
	fiber_log "github.com/gofiber/fiber/v2/middleware/logger"
	"go.uber.org/zap"
)

func main() {
	logger.Log = logger.Initialize(config.EnvConfig.JobAPI, config.EnvConfig.JobAPILogPath)

	cfg := config.LoadConfig[config.JobAPI](config.EnvConfig.JobAPI, config.EnvConfig.JobAPIYAMLPath)

	ctx := context.Background()

	mongoURI := fmt.Sprintf("mongodb://%s:%s@%s:%d",
		cfg.Mongo.User, cfg.Mongo.Password, cfg.Mongo.Host, cfg.Mongo.Port)
	mongoDB, err := database.NewMongoDB(ctx, database.Connection{
		ConnectStr:    mongoURI,
		RetryCount:    cfg.Mongo.RetryCount,
		RetryInterval: time.Duration(cfg.Mongo.RetryInterval) * time.Second,
	}, cfg.Mongo.Database)
	if err != nil {
		logger.Log.Fatal("Unable to connect to MongoDB after retries", zap.Error(err))
	}
	defer mongoDB.Close(ctx)

	jobRepo := repository.NewMongoJobRepository(mongoDB.Database)

	r := fiber.New()

	file, err := os.OpenFile(fmt.Sprintf("%s/access.log", config.EnvConfig.JobAPILogPath), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0666)
	if err != nil {
		log.Fatalf("Failed to open log file: %v", err)
	}
	defer file.Close()

	r.Use(fiber_log.New(fiber_log.Config{
		Output: file,
	}))

	jobHandler := &handlers.JobHandler{Repo: jobRepo}
	router.RegisterRoutes(r, jobHandler)

	logger.Log.Info(fmt.Sprintf("job API listening on : %s", cfg.Port))
	if err := r.Listen(cfg.IP + ":" + cfg.Port); err != nil {
		logger.Log.Fatal("Server failed to start", zap.Error(err))
	}
}
