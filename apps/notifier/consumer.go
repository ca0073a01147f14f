package main

import (
	"context"
	"encoding/json"
	"time"

	"github.com/fastlogix/fastlogix/pkg/model"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type Consumer struct {
	reader   *kafka.Reader
	notifier *Notifier
	log      *zap.Logger
}

func NewConsumer(brokers []string, topic, groupID string, notifier *Notifier, log *zap.Logger) *Consumer {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    topic,
		GroupID:  groupID,
		MinBytes: 10e3, // 10KB
		MaxBytes: 10e6, // 10MB
	})
	return &Consumer{reader: r, notifier: notifier, log: log}
}

func (c *Consumer) Run(ctx context.Context) {
	for {
		m, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			c.log.Warn("error reading message, retrying", zap.Error(err))
			time.Sleep(1 * time.Second)
			continue
		}

		var ev model.OrderEvent
		if err := json.Unmarshal(m.Value, &ev); err != nil {
			c.log.Warn("skipping malformed order event", zap.Error(err))
			continue
		}

		c.log.Info("order event received",
			zap.String("type", ev.Type),
			zap.String("order_id", ev.Order.OrderID))
		c.notifier.Handle(ctx, ev)
	}
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}
