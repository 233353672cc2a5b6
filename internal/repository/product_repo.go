package repository

import (
	"context"
	"fmt"

	"github.com/lib/pq"

	"github.com/Cheertaboi/eliteshop/internal/models"
)

type PgProductRepo struct {
	q querier
}

func NewProductRepo(q querier) *PgProductRepo {
	return &PgProductRepo{q: q}
}

const productColumns = `id, name, price, description, image, stock, created_at`

func scanProduct(row interface{ Scan(...any) error }) (models.Product, error) {
	var p models.Product
	err := row.Scan(&p.ID, &p.Name, &p.Price, &p.Description, &p.ImageRef, &p.Stock, &p.CreatedAt)
	return p, err
}

func (r *PgProductRepo) List(ctx context.Context) ([]models.Product, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT `+productColumns+` FROM products ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *PgProductRepo) GetByID(ctx context.Context, id int64) (models.Product, error) {
	p, err := scanProduct(r.q.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if err != nil {
		return models.Product{}, notFoundIfNoRows(err)
	}
	return p, nil
}

func (r *PgProductRepo) Create(ctx context.Context, p *models.Product) error {
	query := `
		INSERT INTO products (name, price, description, image, stock)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`
	err := r.q.QueryRowContext(ctx, query, p.Name, p.Price, p.Description, p.ImageRef, p.Stock).
		Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// Delete cascades to cart_items; order_items keep their product_id.
func (r *PgProductRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return expectOneRow(res)
}

func (r *PgProductRepo) LockByIDs(ctx context.Context, ids []int64) (map[int64]models.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE id = ANY($1)
		ORDER BY id
		FOR UPDATE
	`
	rows, err := r.q.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("lock products: %w", err)
	}
	defer rows.Close()

	out := make(map[int64]models.Product, len(ids))
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out[p.ID] = p
	}
	return out, rows.Err()
}

func (r *PgProductRepo) AdjustStock(ctx context.Context, id int64, delta int) error {
	res, err := r.q.ExecContext(ctx, `UPDATE products SET stock = stock + $2 WHERE id = $1`, id, delta)
	if err != nil {
		return fmt.Errorf("adjust stock: %w", err)
	}
	return expectOneRow(res)
}
