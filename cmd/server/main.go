package main

import (
	"log"
	"log/slog"
	"net/http"
	"time"

	"librarydesk/internal/app"
	"librarydesk/internal/config"
	"librarydesk/internal/server"
	"librarydesk/internal/store"
	"librarydesk/internal/util"
)

func main() {
	cfg, err := config.Load(config.ConfigPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := util.InitLogger(cfg.LogLevel)

	st, err := store.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to open store: %v", err)
	}

	appCore := app.New(st)

	httpServer, err := server.New(server.Config{
		App:             appCore,
		RedisAddr:       cfg.RedisAddr,
		RedisPassword:   cfg.RedisPassword,
		LoginRateLimit:  cfg.LoginRateLimit,
		LoginRateWindow: time.Duration(cfg.LoginRateWindowSeconds) * time.Second,
		TrustedProxies:  cfg.TrustedProxies,
	})
	if err != nil {
		log.Fatalf("failed to init server: %v", err)
	}

	addr := ":" + cfg.Port
	srv := &http.Server{
		Addr:         addr,
		Handler:      httpServer.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	slog.Info("librarydesk listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server error", "err", err)
	}
}
