package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/Cheertaboi/eliteshop/internal/cache"
	"github.com/Cheertaboi/eliteshop/internal/models"
	"github.com/Cheertaboi/eliteshop/internal/upload"
	"github.com/Cheertaboi/eliteshop/pkg/db"
)

const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"

	devJWTSecret = "eliteshop-dev-secret"
)

type Config struct {
	Port            string
	Store           string
	Postgres        db.PostgresConfig
	JWTSecret       string
	TokenTTL        time.Duration
	UploadDir       string
	MaxUploadBytes  int64
	StartingBalance decimal.Decimal
	Coupons         []models.Coupon
	ManagerUsername string
	ManagerPassword string
	BcryptCost      int
	LogLevel        slog.Level
}

func Load() (*Config, error) {
	cfg := &Config{
		Port:            getenv("PORT", "8080"),
		Store:           strings.ToLower(getenv("STORE", StorePostgres)),
		UploadDir:       getenv("UPLOAD_DIR", "static/img"),
		ManagerUsername: getenv("MANAGER_USERNAME", "manager"),
		ManagerPassword: getenv("MANAGER_PASSWORD", "manager123"),
		JWTSecret:       strings.TrimSpace(os.Getenv("JWT_SECRET")),
	}

	switch cfg.Store {
	case StorePostgres:
		pg, err := db.LoadPostgresConfig()
		if err != nil {
			return nil, err
		}
		cfg.Postgres = pg
		if cfg.JWTSecret == "" {
			return nil, errors.New("JWT_SECRET is required")
		}
	case StoreMemory:
		if cfg.JWTSecret == "" {
			cfg.JWTSecret = devJWTSecret
		}
	default:
		return nil, fmt.Errorf("STORE must be %q or %q, got %q", StorePostgres, StoreMemory, cfg.Store)
	}

	var err error
	if cfg.TokenTTL, err = time.ParseDuration(getenv("TOKEN_TTL", "24h")); err != nil || cfg.TokenTTL <= 0 {
		return nil, fmt.Errorf("invalid TOKEN_TTL %q", os.Getenv("TOKEN_TTL"))
	}

	if cfg.MaxUploadBytes, err = strconv.ParseInt(getenv("MAX_UPLOAD_BYTES", strconv.Itoa(upload.DefaultMaxBytes)), 10, 64); err != nil || cfg.MaxUploadBytes <= 0 {
		return nil, fmt.Errorf("invalid MAX_UPLOAD_BYTES %q", os.Getenv("MAX_UPLOAD_BYTES"))
	}

	if cfg.StartingBalance, err = decimal.NewFromString(getenv("STARTING_BALANCE", "1000")); err != nil ||
		cfg.StartingBalance.IsNegative() || !models.Cents(cfg.StartingBalance) {
		return nil, fmt.Errorf("invalid STARTING_BALANCE %q", os.Getenv("STARTING_BALANCE"))
	}

	if raw := strings.TrimSpace(os.Getenv("COUPONS")); raw != "" {
		if cfg.Coupons, err = cache.ParseCoupons(raw); err != nil {
			return nil, fmt.Errorf("invalid COUPONS: %w", err)
		}
	} else {
		cfg.Coupons = cache.DefaultCoupons()
	}

	if cfg.BcryptCost, err = strconv.Atoi(getenv("BCRYPT_COST", strconv.Itoa(bcrypt.DefaultCost))); err != nil ||
		cfg.BcryptCost < bcrypt.MinCost || cfg.BcryptCost > bcrypt.MaxCost {
		return nil, fmt.Errorf("invalid BCRYPT_COST %q", os.Getenv("BCRYPT_COST"))
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(getenv("LOG_LEVEL", "info"))); err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	return cfg, nil
}

func getenv(k, def string) string {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	return v
}
