package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Cheertaboi/eliteshop/internal/api"
	"github.com/Cheertaboi/eliteshop/internal/auth"
	"github.com/Cheertaboi/eliteshop/internal/cache"
	"github.com/Cheertaboi/eliteshop/internal/config"
	"github.com/Cheertaboi/eliteshop/internal/metrics"
	"github.com/Cheertaboi/eliteshop/internal/repository"
	"github.com/Cheertaboi/eliteshop/internal/repository/memory"
	"github.com/Cheertaboi/eliteshop/internal/service"
	"github.com/Cheertaboi/eliteshop/internal/upload"
	"github.com/Cheertaboi/eliteshop/pkg/db"
)

func main() {
	if err := run(); err != nil {
		slog.Error("eliteshop exited", "err", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	images, err := upload.NewDiskStore(cfg.UploadDir, cfg.MaxUploadBytes)
	if err != nil {
		return err
	}

	coupons := cache.NewCouponBook()
	coupons.Load(cfg.Coupons)
	logger.Info("catalog storage ready", "image_dir", images.Dir(), "coupons", coupons.Codes())

	m := metrics.New()
	hasher := auth.NewPasswordHasher(cfg.BcryptCost)
	accounts := service.NewAccountService(store, hasher, coupons, cfg.StartingBalance, m, logger)
	orders := service.NewOrderService(store, time.UTC, logger)

	if _, created, err := accounts.EnsureManager(ctx, cfg.ManagerUsername, cfg.ManagerPassword); err != nil {
		return fmt.Errorf("seed manager: %w", err)
	} else if created {
		logger.Info("manager account created", "username", cfg.ManagerUsername)
	}

	handler := api.NewRouter(api.Deps{
		Accounts:       accounts,
		Catalog:        service.NewCatalogService(store, images, logger),
		Cart:           service.NewCartService(store),
		Checkout:       service.NewCheckoutService(store, m, logger),
		Orders:         orders,
		Tokens:         auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL),
		Metrics:        m,
		Logger:         logger,
		MaxUploadBytes: cfg.MaxUploadBytes,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 35 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// graceful shutdown
	idleConnsClosed := make(chan struct{})
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("http server shutdown", "err", err)
		}
		close(idleConnsClosed)
	}()

	logger.Info("starting eliteshop", "addr", srv.Addr, "store", cfg.Store)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("listen: %w", err)
	}

	<-idleConnsClosed
	logger.Info("server stopped")
	return nil
}

func openStore(ctx context.Context, cfg *config.Config) (repository.Store, func(), error) {
	if cfg.Store == config.StoreMemory {
		return memory.NewStore(), func() {}, nil
	}

	conn, err := db.NewPostgresConnection(ctx, cfg.Postgres)
	if err != nil {
		return nil, nil, fmt.Errorf("db connect: %w", err)
	}
	if err := db.Migrate(ctx, conn); err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("db migrate: %w", err)
	}
	return repository.NewPostgresStore(conn), func() { closeDB(conn) }, nil
}

func closeDB(conn *sql.DB) {
	if err := conn.Close(); err != nil {
		slog.Warn("db close", "err", err)
	}
}
