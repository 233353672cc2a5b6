// Package memory is an in-process repository.Store used for development
// mode and tests. Update transactions run on a private copy of the state
// that replaces the shared state only when the callback succeeds.
package memory

import (
	"context"
	"errors"
	"maps"
	"sync"

	"github.com/Cheertaboi/eliteshop/internal/models"
	"github.com/Cheertaboi/eliteshop/internal/repository"
)

var errReadOnly = errors.New("memory: write in read-only transaction")

type Store struct {
	mu   sync.RWMutex
	data *state
}

var _ repository.Store = (*Store)(nil)

func NewStore() *Store {
	return &Store{data: newState()}
}

func (s *Store) View(ctx context.Context, fn func(repository.Repos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(reposFor(&tx{st: s.data, readOnly: true}))
}

func (s *Store) Update(ctx context.Context, fn func(repository.Repos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.data.clone()
	if err := fn(reposFor(&tx{st: work})); err != nil {
		return err
	}
	s.data = work
	return nil
}

type state struct {
	users    map[int64]models.User
	products map[int64]models.Product
	cart     map[int64]models.CartEntry
	orders   map[int64]models.Order // Lines kept in lines
	lines    map[int64]models.OrderLine

	nextUserID    int64
	nextProductID int64
	nextCartID    int64
	nextOrderID   int64
	nextLineID    int64
}

func newState() *state {
	return &state{
		users:    make(map[int64]models.User),
		products: make(map[int64]models.Product),
		cart:     make(map[int64]models.CartEntry),
		orders:   make(map[int64]models.Order),
		lines:    make(map[int64]models.OrderLine),

		nextUserID:    1,
		nextProductID: 1,
		nextCartID:    1,
		nextOrderID:   1,
		nextLineID:    1,
	}
}

func (st *state) clone() *state {
	c := *st
	c.users = maps.Clone(st.users)
	c.products = maps.Clone(st.products)
	c.cart = maps.Clone(st.cart)
	c.orders = maps.Clone(st.orders)
	c.lines = maps.Clone(st.lines)
	return &c
}

type tx struct {
	st       *state
	readOnly bool
}

func (t *tx) writable() error {
	if t.readOnly {
		return errReadOnly
	}
	return nil
}

func reposFor(t *tx) repository.Repos {
	return repository.Repos{
		Users:    userRepo{t},
		Products: productRepo{t},
		Cart:     cartRepo{t},
		Orders:   orderRepo{t},
	}
}
