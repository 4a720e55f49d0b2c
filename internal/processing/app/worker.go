package app

import (
	"context"
	"encoding/json"

	"video_processing_service/internal/processing/domain"
	"video_processing_service/pkg/logger"

	"github.com/streadway/amqp"
	"go.uber.org/zap"
)

// Consumer feed upload events from RabbitMQ into the pipeline, one
// invocation per message
type Consumer struct {
	rabbitChannel *amqp.Channel
	pipeline      Pipeline
	queueName     string
}

// NewConsumer create a Consumer
func NewConsumer(rabbitChannel *amqp.Channel, pipeline Pipeline, queueName string) *Consumer {
	return &Consumer{
		rabbitChannel: rabbitChannel,
		pipeline:      pipeline,
		queueName:     queueName,
	}
}

// StartConsumer consume upload events until the context is cancelled
func (c *Consumer) StartConsumer(ctx context.Context) {
	msgs, err := c.rabbitChannel.Consume(
		c.queueName,
		"",    // consumer tag assigned by the broker
		false, // manual ack
		false, // exclusive
		false, // noLocal
		false, // noWait
		nil,   // arguments
	)
	if err != nil {
		logger.Log.Fatal("unable to consume upload events", zap.Error(err))
	}

	logger.Log.Info("consumer started, waiting for upload events", zap.String("queue", c.queueName))

	for {
		select {
		case d, ok := <-msgs:
			if !ok {
				logger.Log.Warn("upload event channel closed")
				return
			}

			var event domain.UploadEvent
			if err := json.Unmarshal(d.Body, &event); err != nil {
				logger.Log.Errorf("failed to decode upload event:", err)
				// malformed message, requeueing would loop forever
				if err := d.Nack(false, false); err != nil {
					logger.Log.Errorf("failed to nack message:", err)
				}
				continue
			}

			logger.Log.Info("received upload event",
				zap.String("bucket", event.Bucket),
				zap.String("object_key", event.ObjectKey),
			)

			if err := c.pipeline.Process(ctx, event); err != nil {
				// failure is already recorded in the job status; drop the
				// message so the broker's bookkeeping sees the failure too
				logger.Log.Errorf("video processing failed:", err)
				if err := d.Nack(false, false); err != nil {
					logger.Log.Errorf("failed to nack message:", err)
				}
				continue
			}

			if err := d.Ack(false); err != nil {
				logger.Log.Errorf("failed to ack message:", err)
			}
		case <-ctx.Done():
			logger.Log.Info("consumer received stop signal")
			return
		}
	}
}
