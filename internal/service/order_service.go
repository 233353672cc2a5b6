package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/Cheertaboi/eliteshop/internal/auth"
	"github.com/Cheertaboi/eliteshop/internal/models"
	"github.com/Cheertaboi/eliteshop/internal/report"
	"github.com/Cheertaboi/eliteshop/internal/repository"
)

type OrderService struct {
	store repository.Store
	loc   *time.Location
	log   *slog.Logger
}

// NewOrderService reports sales per calendar day in loc (UTC when nil).
func NewOrderService(store repository.Store, loc *time.Location, log *slog.Logger) *OrderService {
	if loc == nil {
		loc = time.UTC
	}
	return &OrderService{store: store, loc: loc, log: log}
}

func (s *OrderService) ListAll(ctx context.Context, p auth.Principal) ([]models.OrderSummary, error) {
	if err := requireManager(p); err != nil {
		return nil, err
	}
	var orders []models.OrderSummary
	err := s.store.View(ctx, func(r repository.Repos) error {
		var err error
		orders, err = r.Orders.ListAll(ctx)
		return err
	})
	return orders, err
}

// Get returns one order with its lines.
func (s *OrderService) Get(ctx context.Context, p auth.Principal, id int64) (models.Order, error) {
	if err := requireManager(p); err != nil {
		return models.Order{}, err
	}
	var order models.Order
	err := s.store.View(ctx, func(r repository.Repos) error {
		var err error
		order, err = r.Orders.Get(ctx, id)
		return notFound(err, "order", id)
	})
	return order, err
}

// DeleteOrder removes the order's lines and then the order, atomically.
func (s *OrderService) DeleteOrder(ctx context.Context, p auth.Principal, id int64) error {
	if err := requireManager(p); err != nil {
		return err
	}
	err := s.store.Update(ctx, func(r repository.Repos) error {
		return notFound(r.Orders.Delete(ctx, id), "order", id)
	})
	if err != nil {
		return err
	}
	s.log.Info("order deleted", "order_id", id, "manager_id", p.UserID)
	return nil
}

func (s *OrderService) SalesReport(ctx context.Context, p auth.Principal) ([]models.DailySales, error) {
	summaries, err := s.ListAll(ctx, p)
	if err != nil {
		return nil, err
	}
	orders := make([]models.Order, 0, len(summaries))
	for _, o := range summaries {
		orders = append(orders, o.Order)
	}
	return report.SalesByDate(orders, s.loc), nil
}
