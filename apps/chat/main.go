package main

import (
	"net/http"

	"github.com/fastlogix/fastlogix/pkg/config"
	"github.com/fastlogix/fastlogix/pkg/logging"
	"github.com/fastlogix/fastlogix/pkg/presence"
	"github.com/fastlogix/fastlogix/pkg/snowflake"
	"github.com/fastlogix/fastlogix/pkg/store"
	"go.uber.org/zap"
)

func main() {
	log, err := logging.New("chat")
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

	node, err := snowflake.NewNode(1)
	if err != nil {
		log.Fatal("failed to initialize snowflake node", zap.Error(err))
	}

	tracker := presence.NewTracker(cfg.RedisAddr)
	defer tracker.Close()

	hub := NewHub(store.NewMessages(session, node), tracker, log)

	http.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		serveWs(hub, log, w, r)
	})

	log.Info("chat service starting", zap.String("addr", cfg.ChatAddr))
	if err := http.ListenAndServe(cfg.ChatAddr, nil); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}
