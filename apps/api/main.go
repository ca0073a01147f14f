package main

import (
	"net/http"

	"github.com/fastlogix/fastlogix/pkg/auth"
	"github.com/fastlogix/fastlogix/pkg/config"
	"github.com/fastlogix/fastlogix/pkg/geocode"
	"github.com/fastlogix/fastlogix/pkg/logging"
	"github.com/fastlogix/fastlogix/pkg/presence"
	"github.com/fastlogix/fastlogix/pkg/snowflake"
	"github.com/fastlogix/fastlogix/pkg/store"
	"go.uber.org/zap"
)

func main() {
	log, err := logging.New("api")
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	cfg := config.Load()

	session, err := store.NewSession(cfg.ScyllaHosts, cfg.ScyllaKeyspace)
	if err != nil {
		log.Fatal("failed to connect to ScyllaDB", zap.Error(err))
	}
	defer session.Close()
	log.Info("connected to ScyllaDB", zap.Strings("hosts", cfg.ScyllaHosts))

	node, err := snowflake.NewNode(2)
	if err != nil {
		log.Fatal("failed to initialize snowflake node", zap.Error(err))
	}

	publisher := NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
	defer publisher.Close()

	tracker := presence.NewTracker(cfg.RedisAddr)
	defer tracker.Close()

	adminHash := cfg.AdminPasswordHash
	if adminHash == "" {
		adminHash, err = auth.HashPassword(cfg.AdminPassword)
		if err != nil {
			log.Fatal("failed to hash admin password", zap.Error(err))
		}
	}

	srv := &Server{
		orders:            store.NewOrders(session),
		messages:          store.NewMessages(session, node),
		geo:               geocode.New(cfg.GeocoderBaseURL, cfg.GeocoderUserAgent),
		events:            publisher,
		participants:      tracker,
		auth:              auth.New(cfg.JWTSecret),
		log:               log,
		adminUsername:     cfg.AdminUsername,
		adminPasswordHash: adminHash,
		allowedOrigins:    cfg.AllowedOrigins,
	}

	log.Info("api service starting", zap.String("addr", cfg.APIAddr))
	if err := http.ListenAndServe(cfg.APIAddr, srv.Router()); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}
