package repository

import (
	"context"
	"fmt"

	"github.com/lib/pq"

	"github.com/Cheertaboi/eliteshop/internal/models"
)

type PgOrderRepo struct {
	q querier
}

func NewOrderRepo(q querier) *PgOrderRepo {
	return &PgOrderRepo{q: q}
}

func (r *PgOrderRepo) Create(ctx context.Context, o *models.Order) error {
	insertOrder := `
		INSERT INTO orders (user_id, total, address, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	if err := r.q.QueryRowContext(ctx, insertOrder, o.UserID, o.Total, o.Address, o.CreatedAt).Scan(&o.ID); err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	insertLine := `
		INSERT INTO order_items (order_id, product_id, quantity, unit_price)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	for i := range o.Lines {
		l := &o.Lines[i]
		l.OrderID = o.ID
		if err := r.q.QueryRowContext(ctx, insertLine, l.OrderID, l.ProductID, l.Quantity, l.UnitPrice).Scan(&l.ID); err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}
	return nil
}

func (r *PgOrderRepo) Get(ctx context.Context, id int64) (models.Order, error) {
	var o models.Order
	query := `SELECT id, user_id, total, address, created_at FROM orders WHERE id = $1`
	err := r.q.QueryRowContext(ctx, query, id).Scan(&o.ID, &o.UserID, &o.Total, &o.Address, &o.CreatedAt)
	if err != nil {
		return models.Order{}, notFoundIfNoRows(err)
	}
	o.Lines, err = r.LinesByOrder(ctx, id)
	if err != nil {
		return models.Order{}, err
	}
	return o, nil
}

func (r *PgOrderRepo) LinesByOrder(ctx context.Context, orderID int64) ([]models.OrderLine, error) {
	lines, err := r.linesFor(ctx, []int64{orderID})
	if err != nil {
		return nil, err
	}
	return lines[orderID], nil
}

func (r *PgOrderRepo) linesFor(ctx context.Context, orderIDs []int64) (map[int64][]models.OrderLine, error) {
	out := make(map[int64][]models.OrderLine, len(orderIDs))
	if len(orderIDs) == 0 {
		return out, nil
	}

	query := `
		SELECT id, order_id, product_id, quantity, unit_price
		FROM order_items
		WHERE order_id = ANY($1)
		ORDER BY order_id, id
	`
	rows, err := r.q.QueryContext(ctx, query, pq.Array(orderIDs))
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var l models.OrderLine
		if err := rows.Scan(&l.ID, &l.OrderID, &l.ProductID, &l.Quantity, &l.UnitPrice); err != nil {
			return nil, err
		}
		out[l.OrderID] = append(out[l.OrderID], l)
	}
	return out, rows.Err()
}

func (r *PgOrderRepo) ListByUser(ctx context.Context, userID int64) ([]models.Order, error) {
	query := `
		SELECT id, user_id, total, address, created_at
		FROM orders
		WHERE user_id = $1
		ORDER BY id DESC
	`
	rows, err := r.q.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	orders := []models.Order{}
	var ids []int64
	for rows.Next() {
		var o models.Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.Total, &o.Address, &o.CreatedAt); err != nil {
			return nil, err
		}
		orders = append(orders, o)
		ids = append(ids, o.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	lines, err := r.linesFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		orders[i].Lines = lines[orders[i].ID]
	}
	return orders, nil
}

func (r *PgOrderRepo) ListAll(ctx context.Context) ([]models.OrderSummary, error) {
	query := `
		SELECT o.id, o.user_id, o.total, o.address, o.created_at, u.username
		FROM orders o
		JOIN users u ON u.id = o.user_id
		ORDER BY o.id DESC
	`
	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list all orders: %w", err)
	}
	defer rows.Close()

	summaries := []models.OrderSummary{}
	var ids []int64
	for rows.Next() {
		var s models.OrderSummary
		if err := rows.Scan(&s.ID, &s.UserID, &s.Total, &s.Address, &s.CreatedAt, &s.Username); err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
		ids = append(ids, s.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	lines, err := r.linesFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range summaries {
		summaries[i].Lines = lines[summaries[i].ID]
	}
	return summaries, nil
}

func (r *PgOrderRepo) Delete(ctx context.Context, id int64) error {
	if _, err := r.q.ExecContext(ctx, `DELETE FROM order_items WHERE order_id = $1`, id); err != nil {
		return fmt.Errorf("delete order items: %w", err)
	}
	res, err := r.q.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	return expectOneRow(res)
}
