package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Cheertaboi/eliteshop/internal/auth"
	"github.com/Cheertaboi/eliteshop/internal/cache"
	"github.com/Cheertaboi/eliteshop/internal/metrics"
	"github.com/Cheertaboi/eliteshop/internal/models"
	"github.com/Cheertaboi/eliteshop/internal/repository"
	"github.com/Cheertaboi/eliteshop/internal/repository/memory"
)

type fakeImages struct {
	mu        sync.Mutex
	saved     map[string][]byte
	removed   []string
	saveErr   error
	removeErr error
}

func newFakeImages() *fakeImages {
	return &fakeImages{saved: make(map[string][]byte)}
}

func (f *fakeImages) Save(filename string, r io.Reader) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return "", f.saveErr
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	ref := filename
	f.saved[ref] = b
	return ref, nil
}

func (f *fakeImages) Remove(ref string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removed = append(f.removed, ref)
	if f.removeErr != nil {
		return f.removeErr
	}
	delete(f.saved, ref)
	return nil
}

type fixture struct {
	store    *memory.Store
	images   *fakeImages
	metrics  *metrics.Metrics
	accounts *AccountService
	catalog  *CatalogService
	cart     *CartService
	checkout *CheckoutService
	orders   *OrderService
	manager  auth.Principal
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := memory.NewStore()
	images := newFakeImages()
	m := metrics.New()
	coupons := cache.NewCouponBook()
	coupons.Load(cache.DefaultCoupons())

	f := &fixture{
		store:    store,
		images:   images,
		metrics:  m,
		accounts: NewAccountService(store, auth.NewPasswordHasher(bcrypt.MinCost), coupons, decimal.NewFromInt(1000), m, log),
		catalog:  NewCatalogService(store, images, log),
		cart:     NewCartService(store),
		checkout: NewCheckoutService(store, m, log),
		orders:   NewOrderService(store, nil, log),
	}

	mgr, created, err := f.accounts.EnsureManager(context.Background(), "manager", "manager123")
	require.NoError(t, err)
	require.True(t, created)
	f.manager = auth.Principal{UserID: mgr.ID, Role: mgr.Role}
	return f
}

func (f *fixture) register(t *testing.T, username string) auth.Principal {
	t.Helper()
	u, err := f.accounts.Register(context.Background(), models.Registration{
		Username: username,
		Password: "secret123",
		Address:  "1 Main St",
	})
	require.NoError(t, err)
	return auth.Principal{UserID: u.ID, Role: u.Role}
}

func (f *fixture) addProduct(t *testing.T, name, price string, stock int) models.Product {
	t.Helper()
	p, err := f.catalog.AddProduct(context.Background(), f.manager, models.NewProduct{
		Name:  name,
		Price: decimal.RequireFromString(price),
		Stock: &stock,
	}, name+".png", bytes.NewReader([]byte("png")))
	require.NoError(t, err)
	return p
}

func (f *fixture) addToCart(t *testing.T, p auth.Principal, productID int64, times int) {
	t.Helper()
	for i := 0; i < times; i++ {
		_, err := f.cart.Add(context.Background(), p, productID)
		require.NoError(t, err)
	}
}

func (f *fixture) user(t *testing.T, id int64) models.User {
	t.Helper()
	var u models.User
	err := f.store.View(context.Background(), func(r repository.Repos) error {
		var err error
		u, err = r.Users.GetByID(context.Background(), id)
		return err
	})
	require.NoError(t, err)
	return u
}

func (f *fixture) product(t *testing.T, id int64) models.Product {
	t.Helper()
	p, err := f.catalog.Get(context.Background(), f.manager, id)
	require.NoError(t, err)
	return p
}

var errBoom = errors.New("boom")
