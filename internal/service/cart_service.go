package service

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/Cheertaboi/eliteshop/internal/auth"
	"github.com/Cheertaboi/eliteshop/internal/models"
	"github.com/Cheertaboi/eliteshop/internal/repository"
)

type CartService struct {
	store repository.Store
}

func NewCartService(store repository.Store) *CartService {
	return &CartService{store: store}
}

// Add puts one unit of the product in the caller's cart. Stock is not
// checked here; checkout does that.
func (s *CartService) Add(ctx context.Context, p auth.Principal, productID int64) (models.CartEntry, error) {
	if err := requireUser(p); err != nil {
		return models.CartEntry{}, err
	}
	var entry models.CartEntry
	err := s.store.Update(ctx, func(r repository.Repos) error {
		var err error
		entry, err = r.Cart.AddOne(ctx, p.UserID, productID)
		return notFound(err, "product", productID)
	})
	return entry, err
}

// Remove deletes a cart entry owned by the caller. Someone else's entry
// looks exactly like a missing one.
func (s *CartService) Remove(ctx context.Context, p auth.Principal, itemID int64) error {
	if err := requireUser(p); err != nil {
		return err
	}
	return s.store.Update(ctx, func(r repository.Repos) error {
		return notFound(r.Cart.Delete(ctx, itemID, p.UserID), "cart item", itemID)
	})
}

func (s *CartService) View(ctx context.Context, p auth.Principal) (models.CartView, error) {
	if err := requireUser(p); err != nil {
		return models.CartView{}, err
	}

	view := models.CartView{Lines: []models.CartLine{}, Total: decimal.Zero}
	err := s.store.View(ctx, func(r repository.Repos) error {
		u, err := r.Users.GetByID(ctx, p.UserID)
		if err != nil {
			return notFound(err, "user", p.UserID)
		}
		view.Balance = u.Balance

		entries, err := r.Cart.ListByUser(ctx, p.UserID)
		if err != nil {
			return err
		}
		for _, e := range entries {
			prod, err := r.Products.GetByID(ctx, e.ProductID)
			if err != nil {
				return notFound(err, "product", e.ProductID)
			}
			sub := prod.Price.Mul(decimal.NewFromInt(int64(e.Quantity)))
			view.Lines = append(view.Lines, models.CartLine{Entry: e, Product: prod, Subtotal: sub})
			view.Total = view.Total.Add(sub)
		}
		return nil
	})
	return view, err
}
