package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/Cheertaboi/eliteshop/internal/models"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

type UserRepo interface {
	Create(ctx context.Context, u *models.User) error
	GetByID(ctx context.Context, id int64) (models.User, error)
	GetByUsername(ctx context.Context, username string) (models.User, error)
	// LockByID reads the user and holds its row lock until the transaction ends.
	LockByID(ctx context.Context, id int64) (models.User, error)
	UpdateBalance(ctx context.Context, id int64, balance decimal.Decimal) error
}

type ProductRepo interface {
	List(ctx context.Context) ([]models.Product, error)
	GetByID(ctx context.Context, id int64) (models.Product, error)
	Create(ctx context.Context, p *models.Product) error
	Delete(ctx context.Context, id int64) error
	// LockByIDs locks the rows in ascending id order. Missing ids are absent from the map.
	LockByIDs(ctx context.Context, ids []int64) (map[int64]models.Product, error)
	AdjustStock(ctx context.Context, id int64, delta int) error
}

type CartRepo interface {
	// AddOne creates the (user, product) entry with quantity 1 or bumps it by one.
	AddOne(ctx context.Context, userID, productID int64) (models.CartEntry, error)
	ListByUser(ctx context.Context, userID int64) ([]models.CartEntry, error)
	// Delete removes the entry only when it belongs to userID.
	Delete(ctx context.Context, id, userID int64) error
	ClearUser(ctx context.Context, userID int64) (int64, error)
}

type OrderRepo interface {
	// Create inserts the header and every line, filling in generated ids.
	Create(ctx context.Context, o *models.Order) error
	Get(ctx context.Context, id int64) (models.Order, error)
	LinesByOrder(ctx context.Context, orderID int64) ([]models.OrderLine, error)
	ListByUser(ctx context.Context, userID int64) ([]models.Order, error)
	ListAll(ctx context.Context) ([]models.OrderSummary, error)
	// Delete removes the order's lines, then the order.
	Delete(ctx context.Context, id int64) error
}

// Repos is the set of repositories bound to one transaction.
type Repos struct {
	Users    UserRepo
	Products ProductRepo
	Cart     CartRepo
	Orders   OrderRepo
}

// Store hands out transaction-scoped repositories. View is read-only;
// Update is serializable and either commits everything fn did or nothing.
type Store interface {
	View(ctx context.Context, fn func(Repos) error) error
	Update(ctx context.Context, fn func(Repos) error) error
}

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func reposFor(q querier) Repos {
	return Repos{
		Users:    NewUserRepo(q),
		Products: NewProductRepo(q),
		Cart:     NewCartRepo(q),
		Orders:   NewOrderRepo(q),
	}
}

const defaultTxAttempts = 3

type PostgresStore struct {
	db       *sql.DB
	attempts int
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db, attempts: defaultTxAttempts}
}

func (s *PostgresStore) View(ctx context.Context, fn func(Repos) error) error {
	return s.runTx(ctx, &sql.TxOptions{ReadOnly: true}, fn)
}

// Update retries the whole callback when PostgreSQL aborts the transaction
// with a serialization failure or a deadlock.
func (s *PostgresStore) Update(ctx context.Context, fn func(Repos) error) error {
	var err error
	for attempt := 1; ; attempt++ {
		err = s.runTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable}, fn)
		if err == nil || !isRetryable(err) || attempt >= s.attempts || ctx.Err() != nil {
			return err
		}
	}
}

func (s *PostgresStore) runTx(ctx context.Context, opts *sql.TxOptions, fn func(Repos) error) error {
	tx, err := s.db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	// ensure rollback on any exit
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := fn(reposFor(tx)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("tx commit: %w", err)
	}
	committed = true
	return nil
}

func pqCode(err error) pq.ErrorCode {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code
	}
	return ""
}

func isRetryable(err error) bool {
	switch pqCode(err) {
	case "40001", "40P01":
		return true
	}
	return false
}

func isUniqueViolation(err error) bool {
	return pqCode(err) == "23505"
}

func isForeignKeyViolation(err error) bool {
	return pqCode(err) == "23503"
}

func notFoundIfNoRows(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
