package db

import (
	"context"
	"database/sql"
	"fmt"
)

// order_items.product_id has no foreign key; order lines outlive their product.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		username VARCHAR(80) NOT NULL UNIQUE,
		password_hash VARCHAR(120) NOT NULL,
		role VARCHAR(20) NOT NULL DEFAULT 'user' CHECK (role IN ('user', 'manager')),
		balance NUMERIC(12,2) NOT NULL DEFAULT 0 CHECK (balance >= 0),
		address VARCHAR(200) NOT NULL DEFAULT '',
		created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS products (
		id BIGSERIAL PRIMARY KEY,
		name VARCHAR(100) NOT NULL,
		price NUMERIC(12,2) NOT NULL CHECK (price > 0),
		description TEXT NOT NULL DEFAULT '',
		image VARCHAR(100) NOT NULL DEFAULT '',
		stock INTEGER NOT NULL DEFAULT 10 CHECK (stock >= 0),
		created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS cart_items (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL REFERENCES users(id),
		product_id BIGINT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
		quantity INTEGER NOT NULL DEFAULT 1 CHECK (quantity >= 1),
		UNIQUE (user_id, product_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_cart_items_user_id ON cart_items(user_id)`,

	`CREATE TABLE IF NOT EXISTS orders (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL REFERENCES users(id),
		total NUMERIC(12,2) NOT NULL,
		address VARCHAR(200) NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_orders_user_id ON orders(user_id)`,

	`CREATE TABLE IF NOT EXISTS order_items (
		id BIGSERIAL PRIMARY KEY,
		order_id BIGINT NOT NULL REFERENCES orders(id),
		product_id BIGINT NOT NULL,
		quantity INTEGER NOT NULL CHECK (quantity >= 1),
		unit_price NUMERIC(12,2) NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_order_items_order_id ON order_items(order_id)`,
}

func Migrate(ctx context.Context, db *sql.DB) error {
	for _, m := range migrations {
		if _, err := db.ExecContext(ctx, m); err != nil {
			return fmt.Errorf("failed to run migration: %w", err)
		}
	}
	return nil
}
