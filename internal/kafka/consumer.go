package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"ms-dinein/internal/logger"
	"ms-dinein/internal/models"

	"github.com/segmentio/kafka-go"
)

// Consumer reads order change events from one topic and hands them to a handler.
type Consumer struct {
	reader *kafka.Reader
	logger *logger.Logger
}

func NewConsumer(brokers []string, topic, groupID string, log *logger.Logger) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  groupID,
		MinBytes: 10e3, // 10KB
		MaxBytes: 10e6, // 10MB
	})
	return &Consumer{reader: reader, logger: log}
}

// Start consumes until the context is canceled. onDown fires when a read fails,
// letting the realtime board switch to its polling fallback.
func (c *Consumer) Start(ctx context.Context, handler func(models.OrderEvent), onDown func(error), onUp func()) {
	c.logger.LogKafka("CONSUME", c.reader.Config().Topic, "consumer started")

	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			c.logger.Error("KAFKA", fmt.Sprintf("Error reading message: %v", err))
			if onDown != nil {
				onDown(err)
			}
			continue
		}
		if onUp != nil {
			onUp()
		}

		var event models.OrderEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			c.logger.Warn("KAFKA", fmt.Sprintf("Failed to unmarshal order event: %v", err))
			continue
		}

		handler(event)
	}
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}
