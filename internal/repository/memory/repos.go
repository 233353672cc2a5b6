package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Cheertaboi/eliteshop/internal/models"
	"github.com/Cheertaboi/eliteshop/internal/repository"
)

type userRepo struct{ *tx }

func (r userRepo) Create(_ context.Context, u *models.User) error {
	if err := r.writable(); err != nil {
		return err
	}
	for _, existing := range r.st.users {
		if existing.Username == u.Username {
			return repository.ErrDuplicate
		}
	}
	u.ID = r.st.nextUserID
	r.st.nextUserID++
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	r.st.users[u.ID] = *u
	return nil
}

func (r userRepo) GetByID(_ context.Context, id int64) (models.User, error) {
	u, ok := r.st.users[id]
	if !ok {
		return models.User{}, repository.ErrNotFound
	}
	return u, nil
}

func (r userRepo) GetByUsername(_ context.Context, username string) (models.User, error) {
	for _, u := range r.st.users {
		if u.Username == username {
			return u, nil
		}
	}
	return models.User{}, repository.ErrNotFound
}

// LockByID needs no row lock: Update already holds the store mutex.
func (r userRepo) LockByID(ctx context.Context, id int64) (models.User, error) {
	return r.GetByID(ctx, id)
}

func (r userRepo) UpdateBalance(_ context.Context, id int64, balance decimal.Decimal) error {
	if err := r.writable(); err != nil {
		return err
	}
	u, ok := r.st.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	if balance.IsNegative() {
		return fmt.Errorf("memory: balance of user %d would be negative", id)
	}
	u.Balance = balance
	r.st.users[id] = u
	return nil
}

type productRepo struct{ *tx }

func (r productRepo) List(_ context.Context) ([]models.Product, error) {
	res := make([]models.Product, 0, len(r.st.products))
	for _, p := range r.st.products {
		res = append(res, p)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })
	return res, nil
}

func (r productRepo) GetByID(_ context.Context, id int64) (models.Product, error) {
	p, ok := r.st.products[id]
	if !ok {
		return models.Product{}, repository.ErrNotFound
	}
	return p, nil
}

func (r productRepo) Create(_ context.Context, p *models.Product) error {
	if err := r.writable(); err != nil {
		return err
	}
	p.ID = r.st.nextProductID
	r.st.nextProductID++
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	r.st.products[p.ID] = *p
	return nil
}

func (r productRepo) Delete(_ context.Context, id int64) error {
	if err := r.writable(); err != nil {
		return err
	}
	if _, ok := r.st.products[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.st.products, id)
	for cid, e := range r.st.cart {
		if e.ProductID == id {
			delete(r.st.cart, cid)
		}
	}
	return nil
}

func (r productRepo) LockByIDs(_ context.Context, ids []int64) (map[int64]models.Product, error) {
	out := make(map[int64]models.Product, len(ids))
	for _, id := range ids {
		if p, ok := r.st.products[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func (r productRepo) AdjustStock(_ context.Context, id int64, delta int) error {
	if err := r.writable(); err != nil {
		return err
	}
	p, ok := r.st.products[id]
	if !ok {
		return repository.ErrNotFound
	}
	if p.Stock+delta < 0 {
		return fmt.Errorf("memory: stock of product %d would be negative", id)
	}
	p.Stock += delta
	r.st.products[id] = p
	return nil
}

type cartRepo struct{ *tx }

func (r cartRepo) AddOne(_ context.Context, userID, productID int64) (models.CartEntry, error) {
	if err := r.writable(); err != nil {
		return models.CartEntry{}, err
	}
	if _, ok := r.st.products[productID]; !ok {
		return models.CartEntry{}, repository.ErrNotFound
	}
	for id, e := range r.st.cart {
		if e.UserID == userID && e.ProductID == productID {
			e.Quantity++
			r.st.cart[id] = e
			return e, nil
		}
	}
	e := models.CartEntry{
		ID:        r.st.nextCartID,
		UserID:    userID,
		ProductID: productID,
		Quantity:  1,
	}
	r.st.nextCartID++
	r.st.cart[e.ID] = e
	return e, nil
}

func (r cartRepo) ListByUser(_ context.Context, userID int64) ([]models.CartEntry, error) {
	var res []models.CartEntry
	for _, e := range r.st.cart {
		if e.UserID == userID {
			res = append(res, e)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })
	return res, nil
}

func (r cartRepo) Delete(_ context.Context, id, userID int64) error {
	if err := r.writable(); err != nil {
		return err
	}
	e, ok := r.st.cart[id]
	if !ok || e.UserID != userID {
		return repository.ErrNotFound
	}
	delete(r.st.cart, id)
	return nil
}

func (r cartRepo) ClearUser(_ context.Context, userID int64) (int64, error) {
	if err := r.writable(); err != nil {
		return 0, err
	}
	var n int64
	for id, e := range r.st.cart {
		if e.UserID == userID {
			delete(r.st.cart, id)
			n++
		}
	}
	return n, nil
}

type orderRepo struct{ *tx }

func (r orderRepo) Create(_ context.Context, o *models.Order) error {
	if err := r.writable(); err != nil {
		return err
	}
	o.ID = r.st.nextOrderID
	r.st.nextOrderID++
	for i := range o.Lines {
		o.Lines[i].ID = r.st.nextLineID
		o.Lines[i].OrderID = o.ID
		r.st.nextLineID++
		r.st.lines[o.Lines[i].ID] = o.Lines[i]
	}
	header := *o
	header.Lines = nil
	r.st.orders[o.ID] = header
	return nil
}

func (r orderRepo) Get(ctx context.Context, id int64) (models.Order, error) {
	o, ok := r.st.orders[id]
	if !ok {
		return models.Order{}, repository.ErrNotFound
	}
	o.Lines, _ = r.LinesByOrder(ctx, id)
	return o, nil
}

func (r orderRepo) LinesByOrder(_ context.Context, orderID int64) ([]models.OrderLine, error) {
	var res []models.OrderLine
	for _, l := range r.st.lines {
		if l.OrderID == orderID {
			res = append(res, l)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })
	return res, nil
}

func (r orderRepo) ListByUser(ctx context.Context, userID int64) ([]models.Order, error) {
	res := []models.Order{}
	for _, o := range r.st.orders {
		if o.UserID != userID {
			continue
		}
		o.Lines, _ = r.LinesByOrder(ctx, o.ID)
		res = append(res, o)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ID > res[j].ID })
	return res, nil
}

func (r orderRepo) ListAll(ctx context.Context) ([]models.OrderSummary, error) {
	res := []models.OrderSummary{}
	for _, o := range r.st.orders {
		o.Lines, _ = r.LinesByOrder(ctx, o.ID)
		res = append(res, models.OrderSummary{
			Order:    o,
			Username: r.st.users[o.UserID].Username,
		})
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ID > res[j].ID })
	return res, nil
}

func (r orderRepo) Delete(_ context.Context, id int64) error {
	if err := r.writable(); err != nil {
		return err
	}
	for lid, l := range r.st.lines {
		if l.OrderID == id {
			delete(r.st.lines, lid)
		}
	}
	if _, ok := r.st.orders[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.st.orders, id)
	return nil
}
