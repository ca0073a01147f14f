package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fastlogix/fastlogix/pkg/model"
	"github.com/segmentio/kafka-go"
)

// Publisher writes order events to Kafka for the notifier service.
// Events are keyed by order id so per-order ordering survives
// partitioning.
type Publisher struct {
	writer *kafka.Writer
}

func NewPublisher(brokers []string, topic string) *Publisher {
	return &Publisher{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafka.Hash{},
		},
	}
}

func (p *Publisher) Publish(ctx context.Context, ev model.OrderEvent) error {
	value, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode order event: %w", err)
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(ev.Order.OrderID),
		Value: value,
		Time:  time.Now(),
	})
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}
