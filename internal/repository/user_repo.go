package repository

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Cheertaboi/eliteshop/internal/models"
)

type PgUserRepo struct {
	q querier
}

func NewUserRepo(q querier) *PgUserRepo {
	return &PgUserRepo{q: q}
}

const userColumns = `id, username, password_hash, role, balance, address, created_at`

func (r *PgUserRepo) Create(ctx context.Context, u *models.User) error {
	query := `
		INSERT INTO users (username, password_hash, role, balance, address)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`
	err := r.q.QueryRowContext(ctx, query, u.Username, u.PasswordHash, string(u.Role), u.Balance, u.Address).
		Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *PgUserRepo) GetByID(ctx context.Context, id int64) (models.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *PgUserRepo) GetByUsername(ctx context.Context, username string) (models.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
}

func (r *PgUserRepo) LockByID(ctx context.Context, id int64) (models.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1 FOR UPDATE`, id)
}

func (r *PgUserRepo) getOne(ctx context.Context, query string, arg any) (models.User, error) {
	var u models.User
	var role string
	err := r.q.QueryRowContext(ctx, query, arg).Scan(
		&u.ID,
		&u.Username,
		&u.PasswordHash,
		&role,
		&u.Balance,
		&u.Address,
		&u.CreatedAt,
	)
	if err != nil {
		return models.User{}, notFoundIfNoRows(err)
	}
	u.Role = models.Role(role)
	return u, nil
}

func (r *PgUserRepo) UpdateBalance(ctx context.Context, id int64, balance decimal.Decimal) error {
	res, err := r.q.ExecContext(ctx, `UPDATE users SET balance = $2 WHERE id = $1`, id, balance)
	if err != nil {
		return fmt.Errorf("update balance: %w", err)
	}
	return expectOneRow(res)
}
