package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/unidrl/campus-connect/internal/api"
	"github.com/unidrl/campus-connect/internal/config"
	"github.com/unidrl/campus-connect/internal/db"
	"github.com/unidrl/campus-connect/internal/kvstore"
	"github.com/unidrl/campus-connect/internal/logger"
)

const shutdownTimeout = 10 * time.Second

func Start() error {
	loader := config.NewLoader("./cmd/app/config.yml")

	conf, err := loader.Load()
	if err != nil {
		return fmt.Errorf("failed to initialize config -> %w", err)
	}

	if err = logger.Init(conf.API.Environment); err != nil {
		return fmt.Errorf("failed to initialize logger -> %w", err)
	}
	defer func() { _ = zap.L().Sync() }()

	store, err := openStore(conf)
	if err != nil {
		return fmt.Errorf("failed to initialize storage -> %w", err)
	}

	s := api.NewServer(conf, store)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err = s.Events.Seed(ctx, conf.Seed.EventsFile); err != nil {
		return fmt.Errorf("failed to seed events -> %w", err)
	}
	if err = s.Auth.SeedAdmin(ctx, conf.Seed.AdminEmail, conf.Seed.AdminPassword, conf.Seed.AdminName); err != nil {
		return fmt.Errorf("failed to seed admin -> %w", err)
	}

	loader.Watch(func(c *config.AppConfig) {
		s.Checkout.SetDefaultValidity(c.Checkout.DefaultValidity())
	})

	addr := ":" + conf.API.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.Live.Run(gCtx)
		return nil
	})
	g.Go(func() error {
		zap.L().Info(fmt.Sprintf("starting server at %v", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to start the server -> %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		zap.L().Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func openStore(conf *config.AppConfig) (kvstore.Store, error) {
	if conf.Storage.Driver == config.StorageMemory {
		zap.L().Warn("using in-memory storage, data is lost on restart")
		return kvstore.NewMemory(), nil
	}

	var (
		postgresDB *gorm.DB
		err        error
	)
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		postgresDB, err = db.OpenPostgresWithURL(dbURL)
	} else {
		postgresDB, err = db.OpenPostgres(conf.Postgres)
	}
	if err != nil {
		return nil, err
	}

	return kvstore.NewGorm(postgresDB, conf.Storage.Namespace), nil
}
