package db

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

func LoadPostgresConfig() (PostgresConfig, error) {
	port, err := positiveInt("DB_PORT", 5432)
	if err != nil {
		return PostgresConfig{}, err
	}
	maxOpen, err := positiveInt("DB_MAX_OPEN_CONNS", 20)
	if err != nil {
		return PostgresConfig{}, err
	}
	maxIdle, err := positiveInt("DB_MAX_IDLE_CONNS", 10)
	if err != nil {
		return PostgresConfig{}, err
	}
	lifetime, err := time.ParseDuration(getenv("DB_CONN_MAX_LIFETIME", "1h"))
	if err != nil || lifetime <= 0 {
		return PostgresConfig{}, fmt.Errorf("invalid DB_CONN_MAX_LIFETIME %q", os.Getenv("DB_CONN_MAX_LIFETIME"))
	}

	return PostgresConfig{
		Host:     getenv("DB_HOST", "localhost"),
		Port:     port,
		User:     getenv("DB_USER", "postgres"),
		Password: getenv("DB_PASSWORD", "postgres"),
		DBName:   getenv("DB_NAME", "eliteshop"),
		SSLMode:  getenv("DB_SSLMODE", "disable"),

		MaxOpenConns:    maxOpen,
		MaxIdleConns:    min(maxIdle, maxOpen),
		ConnMaxLifetime: lifetime,
	}, nil
}

// DSN renders the config as a postgres:// URL with escaped credentials.
func (c PostgresConfig) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: url.Values{"sslmode": []string{c.SSLMode}}.Encode(),
	}
	return u.String()
}

func positiveInt(k string, def int) (int, error) {
	n, err := strconv.Atoi(getenv(k, strconv.Itoa(def)))
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s %q", k, os.Getenv(k))
	}
	return n, nil
}

func getenv(k, def string) string {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	return v
}
