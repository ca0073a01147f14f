package main

import (
	"context"

	"github.com/fastlogix/fastlogix/pkg/config"
	"github.com/fastlogix/fastlogix/pkg/logging"
	"github.com/fastlogix/fastlogix/pkg/mail"
	"go.uber.org/zap"
)

func main() {
	log, err := logging.New("notifier")
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	cfg := config.Load()
	if cfg.ZeptoToken == "" {
		log.Warn("ZEPTO_TOKEN not set, mail delivery will fail")
	}

	sender := mail.New(cfg.ZeptoEndpoint, cfg.ZeptoToken, cfg.EmailFrom)
	notifier := NewNotifier(sender, cfg.TrackingBase, log)

	consumer := NewConsumer(cfg.KafkaBrokers, cfg.KafkaTopic, "notifier-group", notifier, log)
	defer consumer.Close()

	log.Info("notifier starting",
		zap.Strings("brokers", cfg.KafkaBrokers),
		zap.String("topic", cfg.KafkaTopic))
	consumer.Run(context.Background())
}
