package main // Entry point package

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

	"github.com/joyas-pwa/joyas-api/internal/config"
	"github.com/joyas-pwa/joyas-api/internal/database"
	"github.com/joyas-pwa/joyas-api/internal/handler"
	"github.com/joyas-pwa/joyas-api/internal/ledger"
	"github.com/joyas-pwa/joyas-api/internal/logging"
	"github.com/joyas-pwa/joyas-api/internal/metrics"
	"github.com/joyas-pwa/joyas-api/internal/queue"
	"github.com/joyas-pwa/joyas-api/internal/repository"
	"github.com/joyas-pwa/joyas-api/internal/router"
	"github.com/joyas-pwa/joyas-api/internal/service"
	"github.com/joyas-pwa/joyas-api/internal/storage"
	"github.com/joyas-pwa/joyas-api/internal/utils"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "server:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log, err := logging.New(cfg.Env, cfg.LogLevel, "joyas-api")
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	db, err := database.Open(cfg)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient(cfg.Redis)
	if rdb != nil {
		defer rdb.Close()
	} else if cfg.RateLimit.Enabled {
		log.Warn("redis unavailable; login rate limiting disabled")
	}

	var events queue.Publisher = queue.NopPublisher{}
	if cfg.RabbitURL != "" {
		events = queue.NewAMQPPublisher(cfg.RabbitURL, cfg.EventsQueue, log)
	}

	m := metrics.New()
	tokens, err := utils.NewTokenIssuer(cfg.JWTSecret, cfg.JWTAlgorithm, cfg.TokenTTL(), nil)
	if err != nil {
		return err
	}
	auth, err := service.NewAuthService(repository.NewUserRepo(db), utils.NewBcryptHasher(cfg.BcryptCost), tokens, log)
	if err != nil {
		return err
	}

	agg := ledger.New(cfg.ProfitRate)
	saleRepo := repository.NewSaleRepo(db)
	sales := service.NewSalesService(repository.NewCustomerRepo(db), saleRepo, repository.NewPaymentRepo(db), agg, events, nil, log)
	sales.OnPublish = m.EventPublished

	e := router.New(router.Handlers{
		Auth:   handler.NewAuthHandler(auth, m.AuthFailure),
		Sales:  handler.NewSalesHandler(sales),
		Ledger: handler.NewLedgerHandler(service.NewLedgerService(saleRepo, agg, nil)),
		Upload: handler.NewUploadHandler(storage.NewImageStore(cfg.UploadDir, "/uploads/images", cfg.UploadMaxBytes)),
		Health: handler.NewHealthHandler(db, log),
	}, router.Deps{Config: cfg, Tokens: auth, Metrics: m, Redis: rdb, Log: log})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := ":" + cfg.Port
	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
