package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bpkad-transparency/backend/internal/config"
	"bpkad-transparency/backend/internal/httpapi"
	"bpkad-transparency/backend/internal/store"
	"bpkad-transparency/backend/internal/store/memory"
	"bpkad-transparency/backend/internal/store/postgres"

	"github.com/sirupsen/logrus"
)

func main() {
	cfg := config.Load()

	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	if cfg.IsDevelopment() {
		log.SetFormatter(&logrus.TextFormatter{})
		log.SetLevel(logrus.DebugLevel)
	}

	rootCtx, cancelRoot := context.WithCancel(context.Background())
	defer cancelRoot()

	var st store.Store
	var closer func()

	if cfg.DatabaseURL != "" {
		pg, err := postgres.NewStore(cfg.DatabaseURL)
		if err != nil {
			log.WithError(err).Fatal("failed to init postgres store")
		}
		st = pg
		closer = pg.Close
		log.Info("using postgres store")
	} else {
		st = memory.NewStore()
		log.Warn("DATABASE_URL not set, using memory store")
	}

	if closer != nil {
		defer closer()
	}

	srv := httpapi.NewServer(cfg, st, log)
	srv.StartRateLimitCleanup(rootCtx)

	httpServer := &http.Server{
		Addr:              cfg.ListenAddr(),
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithFields(logrus.Fields{
			"addr":        cfg.ListenAddr(),
			"environment": cfg.Environment,
		}).Info("server listening")
		errCh <- httpServer.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Info("shutdown requested")
	case err := <-errCh:
		log.WithError(err).Error("server error")
	}

	cancelRoot()

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	_ = httpServer.Shutdown(ctxShutdown)
}
