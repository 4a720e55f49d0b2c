package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	"video_processing_service/internal/processing/app"
	"video_processing_service/internal/processing/domain"
	"video_processing_service/internal/processing/repository"
	"video_processing_service/pkg/config"
	"video_processing_service/pkg/database"
	"video_processing_service/pkg/logger"

	"go.uber.org/zap"
)

func main() {
	logger.Log = logger.Initialize(config.EnvConfig.VideoProcessor, config.EnvConfig.VideoProcessorLogPath)

	cfg := config.LoadConfig[config.VideoProcessor](config.EnvConfig.VideoProcessor, config.EnvConfig.VideoProcessorYAMLPath)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 1. Mongo, fallback datastore for status updates
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

	// 2. MinIO, source downloads and derived asset uploads
	minioClient, err := database.NewMinIOConnection(database.MinIOConnection{
		Endpoint:   fmt.Sprintf("%s:%d", cfg.MinIO.Host, cfg.MinIO.Port),
		User:       cfg.MinIO.User,
		Password:   cfg.MinIO.Password,
		BucketName: cfg.MinIO.BucketName,
		UseSSL:     cfg.MinIO.UseSSL,

		RetryCount:    cfg.MinIO.RetryCount,
		RetryInterval: cfg.MinIO.RetryInterval,
	})
	if err != nil {
		logger.Log.Fatal("Unable to connect to minio after retries", zap.Error(err))
	}

	// 3. RabbitMQ, upload event source
	rabbitURL := fmt.Sprintf("amqp://%s:%s@%s:%s/", cfg.RabbitMQ.User, cfg.RabbitMQ.Password, cfg.RabbitMQ.IP, cfg.RabbitMQ.Port)
	conn, err := database.ConnectRabbitMQWithRetry(database.Connection{
		ConnectStr:    rabbitURL,
		RetryCount:    cfg.RabbitMQ.RetryCount,
		RetryInterval: time.Duration(cfg.RabbitMQ.RetryInterval),
	})
	if err != nil {
		log.Fatalf("RabbitMQ connect failed: %v", err)
	}
	defer conn.Close()

	rabbitChannel, err := database.GetRabbitMQChannelWithRetry(conn, cfg.RabbitMQ.RetryCount, time.Duration(cfg.RabbitMQ.RetryInterval))
	if err != nil {
		log.Fatalf("get RabbitMQ Channel failed: %v", err)
	}
	defer rabbitChannel.Close()

	queueName := cfg.RabbitMQ.Queue
	if queueName == "" {
		queueName = domain.QueueName
	}
	if _, err := rabbitChannel.QueueDeclare(
		queueName,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,   // arguments
	); err != nil {
		log.Fatalf("Queue Declare failed: %v", err)
	}
	// one in-flight job per worker, transcodes are heavy
	if err := rabbitChannel.Qos(1, 0, false); err != nil {
		log.Fatalf("Qos failed: %v", err)
	}

	// 4. Redis, best-effort status notifications
	var notifier database.Notifier
	masterName, sentinelAddrs := config.GetRedisSetting()
	if len(sentinelAddrs) > 0 {
		redisClient, err := database.NewRedisClient(masterName, sentinelAddrs, cfg.Redis.RedisDB)
		if err != nil {
			logger.Log.Warn("redis unavailable, status notifications disabled", zap.Error(err))
		} else {
			notifier = database.NewRedisNotifier(redisClient, domain.StatusChannel)
		}
	}

	// 5. pipeline wiring
	tool := app.NewFFmpegTool(cfg.FFmpegPath, cfg.FFprobePath)
	statusAPI := app.NewStatusAPIClient(cfg.APIBaseURL)
	synchronizer := app.NewStatusSynchronizer(statusAPI, jobRepo)
	pipeline := app.NewPipeline(tool, minioClient, synchronizer, notifier)

	consumer := app.NewConsumer(rabbitChannel, pipeline, queueName)
	consumer.StartConsumer(ctx)

	logger.Log.Info("video processor stopped")
	logger.Log.Sync()
}
