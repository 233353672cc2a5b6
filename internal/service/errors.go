package service

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Cheertaboi/eliteshop/internal/auth"
	"github.com/Cheertaboi/eliteshop/internal/repository"
)

var (
	ErrUnauthenticated    = errors.New("authentication required")
	ErrForbidden          = errors.New("manager role required")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrEmptyCart          = errors.New("cart is empty")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrStockUnavailable   = errors.New("stock unavailable")
	ErrInvalidCoupon      = errors.New("invalid coupon")
	ErrNotFound           = errors.New("not found")
)

type NotFoundError struct {
	Entity string
	ID     int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

type InsufficientFundsError struct {
	Balance decimal.Decimal
	Total   decimal.Decimal
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds: balance %s, total %s", e.Balance.StringFixed(2), e.Total.StringFixed(2))
}

func (e *InsufficientFundsError) Is(target error) bool { return target == ErrInsufficientFunds }

type StockUnavailableError struct {
	ProductID int64
	Name      string
	Requested int
	Available int
}

func (e *StockUnavailableError) Error() string {
	return fmt.Sprintf("stock unavailable for %q: requested %d, available %d", e.Name, e.Requested, e.Available)
}

func (e *StockUnavailableError) Is(target error) bool { return target == ErrStockUnavailable }

func requireUser(p auth.Principal) error {
	if !p.Authenticated() {
		return ErrUnauthenticated
	}
	return nil
}

func requireManager(p auth.Principal) error {
	if err := requireUser(p); err != nil {
		return err
	}
	if !p.IsManager() {
		return ErrForbidden
	}
	return nil
}

// notFound translates a repository miss into a NotFoundError for entity/id.
func notFound(err error, entity string, id int64) error {
	if errors.Is(err, repository.ErrNotFound) {
		return &NotFoundError{Entity: entity, ID: id}
	}
	return err
}
