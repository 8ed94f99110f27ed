package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"ms-dinein/internal/models"

	"github.com/segmentio/kafka-go"
)

type Producer struct {
	Writer *kafka.Writer
	Topics TopicNames
}

type TopicNames struct {
	OrderCreated        string
	OrderUpdated        string
	NotificationCreated string
}

func NewProducer(brokers []string, topics TopicNames) *Producer {
	writer := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Balancer: &kafka.LeastBytes{},
	}
	return &Producer{Writer: writer, Topics: topics}
}

// Publish writes one message to a topic.
func (p *Producer) Publish(topic, key string, value []byte) error {
	return p.Writer.WriteMessages(context.Background(),
		kafka.Message{
			Topic: topic,
			Key:   []byte(key),
			Value: value,
		},
	)
}

// PublishOrderCreated streams an order insert event.
func (p *Producer) PublishOrderCreated(order models.Order) error {
	return p.publishOrderEvent(p.Topics.OrderCreated, models.EventInsert, order)
}

// PublishOrderUpdated streams an order update event.
func (p *Producer) PublishOrderUpdated(order models.Order) error {
	return p.publishOrderEvent(p.Topics.OrderUpdated, models.EventUpdate, order)
}

func (p *Producer) publishOrderEvent(topic, eventType string, order models.Order) error {
	event := models.OrderEvent{Type: eventType, Order: order}
	msgBytes, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.Publish(topic, strconv.FormatInt(order.ID, 10), msgBytes)
}

// PublishNotificationCreated streams a staff notification.
func (p *Producer) PublishNotificationCreated(n models.Notification) error {
	event := models.NotificationEvent{Type: models.EventInsert, Notification: n}
	msgBytes, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.Publish(p.Topics.NotificationCreated, fmt.Sprintf("%d", n.ID), msgBytes)
}

func (p *Producer) Close() error {
	return p.Writer.Close()
}
