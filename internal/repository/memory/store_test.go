package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Cheertaboi/eliteshop/internal/models"
	"github.com/Cheertaboi/eliteshop/internal/repository"
)

var ctx = context.Background()

func seed(t *testing.T, s *Store) (models.User, models.Product) {
	t.Helper()
	u := models.User{Username: "alice", Role: models.RoleUser, Balance: decimal.NewFromInt(100)}
	p := models.Product{Name: "Mug", Price: decimal.NewFromInt(10), Stock: 3}
	require.NoError(t, s.Update(ctx, func(r repository.Repos) error {
		if err := r.Users.Create(ctx, &u); err != nil {
			return err
		}
		return r.Products.Create(ctx, &p)
	}))
	return u, p
}

func TestUpdate_RollsBackOnError(t *testing.T) {
	s := NewStore()
	u, p := seed(t, s)
	boom := errors.New("boom")

	err := s.Update(ctx, func(r repository.Repos) error {
		require.NoError(t, r.Users.UpdateBalance(ctx, u.ID, decimal.Zero))
		require.NoError(t, r.Products.AdjustStock(ctx, p.ID, -3))
		_, err := r.Cart.AddOne(ctx, u.ID, p.ID)
		require.NoError(t, err)
		return boom
	})
	require.ErrorIs(t, err, boom)

	require.NoError(t, s.View(ctx, func(r repository.Repos) error {
		got, err := r.Users.GetByID(ctx, u.ID)
		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(100).Equal(got.Balance))

		prod, err := r.Products.GetByID(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, 3, prod.Stock)

		entries, err := r.Cart.ListByUser(ctx, u.ID)
		require.NoError(t, err)
		assert.Empty(t, entries)
		return nil
	}))
}

func TestView_IsReadOnly(t *testing.T) {
	s := NewStore()
	u, p := seed(t, s)

	err := s.View(ctx, func(r repository.Repos) error {
		_, err := r.Cart.AddOne(ctx, u.ID, p.ID)
		return err
	})
	assert.ErrorIs(t, err, errReadOnly)
}

func TestCanceledContext(t *testing.T) {
	s := NewStore()
	cctx, cancel := context.WithCancel(ctx)
	cancel()

	called := false
	err := s.Update(cctx, func(repository.Repos) error { called = true; return nil })
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestUsers(t *testing.T) {
	s := NewStore()
	u, _ := seed(t, s)

	err := s.Update(ctx, func(r repository.Repos) error {
		dup := models.User{Username: "alice"}
		assert.ErrorIs(t, r.Users.Create(ctx, &dup), repository.ErrDuplicate)

		got, err := r.Users.GetByUsername(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, u.ID, got.ID)
		assert.False(t, got.CreatedAt.IsZero())

		_, err = r.Users.LockByID(ctx, 99)
		assert.ErrorIs(t, err, repository.ErrNotFound)

		assert.Error(t, r.Users.UpdateBalance(ctx, u.ID, decimal.NewFromInt(-1)))
		assert.ErrorIs(t, r.Users.UpdateBalance(ctx, 99, decimal.Zero), repository.ErrNotFound)
		return nil
	})
	require.NoError(t, err)
}

func TestProducts_StockNeverNegative(t *testing.T) {
	s := NewStore()
	_, p := seed(t, s)

	err := s.Update(ctx, func(r repository.Repos) error {
		return r.Products.AdjustStock(ctx, p.ID, -4)
	})
	assert.Error(t, err)

	err = s.Update(ctx, func(r repository.Repos) error {
		locked, err := r.Products.LockByIDs(ctx, []int64{p.ID, 77})
		require.NoError(t, err)
		assert.Len(t, locked, 1)
		assert.Equal(t, 3, locked[p.ID].Stock)
		return nil
	})
	require.NoError(t, err)
}

func TestCart_UpsertAndCascade(t *testing.T) {
	s := NewStore()
	u, p := seed(t, s)

	err := s.Update(ctx, func(r repository.Repos) error {
		a, err := r.Cart.AddOne(ctx, u.ID, p.ID)
		require.NoError(t, err)
		b, err := r.Cart.AddOne(ctx, u.ID, p.ID)
		require.NoError(t, err)
		assert.Equal(t, a.ID, b.ID)
		assert.Equal(t, 2, b.Quantity)

		_, err = r.Cart.AddOne(ctx, u.ID, 404)
		assert.ErrorIs(t, err, repository.ErrNotFound)

		assert.ErrorIs(t, r.Cart.Delete(ctx, a.ID, u.ID+1), repository.ErrNotFound)
		return r.Products.Delete(ctx, p.ID)
	})
	require.NoError(t, err)

	require.NoError(t, s.View(ctx, func(r repository.Repos) error {
		entries, err := r.Cart.ListByUser(ctx, u.ID)
		require.NoError(t, err)
		assert.Empty(t, entries)
		return nil
	}))
}

func TestOrders(t *testing.T) {
	s := NewStore()
	u, p := seed(t, s)

	var first, second models.Order
	err := s.Update(ctx, func(r repository.Repos) error {
		first = models.Order{UserID: u.ID, Total: decimal.NewFromInt(10), Lines: []models.OrderLine{
			{ProductID: p.ID, Quantity: 1, UnitPrice: decimal.NewFromInt(10)},
		}}
		if err := r.Orders.Create(ctx, &first); err != nil {
			return err
		}
		second = models.Order{UserID: u.ID, Total: decimal.NewFromInt(20), Lines: []models.OrderLine{
			{ProductID: p.ID, Quantity: 2, UnitPrice: decimal.NewFromInt(10)},
		}}
		return r.Orders.Create(ctx, &second)
	})
	require.NoError(t, err)
	assert.Equal(t, first.ID, first.Lines[0].OrderID)

	require.NoError(t, s.View(ctx, func(r repository.Repos) error {
		all, err := r.Orders.ListAll(ctx)
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, second.ID, all[0].ID)
		assert.Equal(t, "alice", all[0].Username)
		assert.Len(t, all[0].Lines, 1)

		got, err := r.Orders.Get(ctx, first.ID)
		require.NoError(t, err)
		assert.True(t, got.Total.Equal(got.LinesTotal()))
		return nil
	}))

	require.NoError(t, s.Update(ctx, func(r repository.Repos) error {
		return r.Orders.Delete(ctx, first.ID)
	}))
	require.NoError(t, s.View(ctx, func(r repository.Repos) error {
		lines, err := r.Orders.LinesByOrder(ctx, first.ID)
		require.NoError(t, err)
		assert.Empty(t, lines)

		mine, err := r.Orders.ListByUser(ctx, u.ID)
		require.NoError(t, err)
		require.Len(t, mine, 1)
		assert.Equal(t, second.ID, mine[0].ID)
		return nil
	}))

	err = s.Update(ctx, func(r repository.Repos) error { return r.Orders.Delete(ctx, first.ID) })
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
