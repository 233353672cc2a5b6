package repository

import (
	"context"
	"fmt"

	"github.com/Cheertaboi/eliteshop/internal/models"
)

type PgCartRepo struct {
	q querier
}

func NewCartRepo(q querier) *PgCartRepo {
	return &PgCartRepo{q: q}
}

func (r *PgCartRepo) AddOne(ctx context.Context, userID, productID int64) (models.CartEntry, error) {
	query := `
		INSERT INTO cart_items (user_id, product_id, quantity)
		VALUES ($1, $2, 1)
		ON CONFLICT (user_id, product_id)
		DO UPDATE SET quantity = cart_items.quantity + 1
		RETURNING id, quantity
	`
	e := models.CartEntry{UserID: userID, ProductID: productID}
	if err := r.q.QueryRowContext(ctx, query, userID, productID).Scan(&e.ID, &e.Quantity); err != nil {
		if isForeignKeyViolation(err) {
			return models.CartEntry{}, ErrNotFound
		}
		return models.CartEntry{}, fmt.Errorf("upsert cart item: %w", err)
	}
	return e, nil
}

func (r *PgCartRepo) ListByUser(ctx context.Context, userID int64) ([]models.CartEntry, error) {
	query := `SELECT id, user_id, product_id, quantity FROM cart_items WHERE user_id = $1 ORDER BY id`
	rows, err := r.q.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list cart: %w", err)
	}
	defer rows.Close()

	var entries []models.CartEntry
	for rows.Next() {
		var e models.CartEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.ProductID, &e.Quantity); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *PgCartRepo) Delete(ctx context.Context, id, userID int64) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM cart_items WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete cart item: %w", err)
	}
	return expectOneRow(res)
}

func (r *PgCartRepo) ClearUser(ctx context.Context, userID int64) (int64, error) {
	res, err := r.q.ExecContext(ctx, `DELETE FROM cart_items WHERE user_id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("clear cart: %w", err)
	}
	return res.RowsAffected()
}
