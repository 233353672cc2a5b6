package service

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Cheertaboi/eliteshop/internal/auth"
	"github.com/Cheertaboi/eliteshop/internal/metrics"
	"github.com/Cheertaboi/eliteshop/internal/models"
	"github.com/Cheertaboi/eliteshop/internal/repository"
)

type CheckoutService struct {
	store   repository.Store
	metrics *metrics.Metrics
	log     *slog.Logger
	now     func() time.Time
}

func NewCheckoutService(store repository.Store, m *metrics.Metrics, log *slog.Logger) *CheckoutService {
	return &CheckoutService{
		store:   store,
		metrics: m,
		log:     log,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Checkout turns the caller's cart into an order, settling balance and stock.
// Everything happens in one serializable transaction with the user row and
// the product rows locked, so a failure leaves no trace.
func (s *CheckoutService) Checkout(ctx context.Context, p auth.Principal, address string) (models.Order, error) {
	if err := requireUser(p); err != nil {
		return models.Order{}, err
	}

	var order models.Order
	err := s.store.Update(ctx, func(r repository.Repos) error {
		// 1) lock the buyer first so checkouts by the same user queue up here
		user, err := r.Users.LockByID(ctx, p.UserID)
		if err != nil {
			return notFound(err, "user", p.UserID)
		}

		entries, err := r.Cart.ListByUser(ctx, user.ID)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			return ErrEmptyCart
		}

		// 2) lock products in id order and price the cart from live rows
		ids := make([]int64, 0, len(entries))
		for _, e := range entries {
			ids = append(ids, e.ProductID)
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		products, err := r.Products.LockByIDs(ctx, ids)
		if err != nil {
			return err
		}

		total := decimal.Zero
		lines := make([]models.OrderLine, 0, len(entries))
		for _, e := range entries {
			prod, ok := products[e.ProductID]
			if !ok {
				return &NotFoundError{Entity: "product", ID: e.ProductID}
			}
			line := models.OrderLine{
				ProductID: prod.ID,
				Quantity:  e.Quantity,
				UnitPrice: prod.Price,
			}
			total = total.Add(line.Amount())
			lines = append(lines, line)
		}

		// 3) preconditions
		if user.Balance.LessThan(total) {
			return &InsufficientFundsError{Balance: user.Balance, Total: total}
		}
		for _, e := range entries {
			prod := products[e.ProductID]
			if prod.Stock < e.Quantity {
				return &StockUnavailableError{
					ProductID: prod.ID,
					Name:      prod.Name,
					Requested: e.Quantity,
					Available: prod.Stock,
				}
			}
		}

		addr := strings.TrimSpace(address)
		if addr == "" {
			addr = user.Address
		}
		if addr == "" {
			return models.Invalid("address", "required")
		}
		if len(addr) > 200 {
			return models.Invalid("address", "must be at most 200 characters")
		}

		// 4) write the ledger, then settle stock, cart and balance
		order = models.Order{
			UserID:    user.ID,
			Total:     total,
			Address:   addr,
			CreatedAt: s.now(),
			Lines:     lines,
		}
		if err := r.Orders.Create(ctx, &order); err != nil {
			return err
		}
		for _, e := range entries {
			if err := r.Products.AdjustStock(ctx, e.ProductID, -e.Quantity); err != nil {
				return err
			}
		}
		if _, err := r.Cart.ClearUser(ctx, user.ID); err != nil {
			return err
		}
		return r.Users.UpdateBalance(ctx, user.ID, user.Balance.Sub(total))
	})

	s.metrics.ObserveCheckout(checkoutOutcome(err))
	if err != nil {
		return models.Order{}, err
	}

	s.log.Info("order placed",
		"order_id", order.ID,
		"user_id", order.UserID,
		"total", order.Total.StringFixed(2),
		"lines", len(order.Lines),
	)
	return order, nil
}

func checkoutOutcome(err error) string {
	var verr *models.ValidationError
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ErrEmptyCart):
		return "empty_cart"
	case errors.Is(err, ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, ErrStockUnavailable):
		return "stock_unavailable"
	case errors.As(err, &verr):
		return "invalid"
	default:
		return "error"
	}
}
