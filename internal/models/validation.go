package models

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ValidationError reports a bad or missing input field.
type ValidationError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func Invalid(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// Cents reports whether d has at most two decimal places.
func Cents(d decimal.Decimal) bool {
	return d.Equal(d.Round(2))
}

type Registration struct {
	Username string
	Password string
	Address  string
}

func (r *Registration) Normalize() {
	r.Username = strings.TrimSpace(r.Username)
	r.Address = strings.TrimSpace(r.Address)
}

func (r Registration) Validate() error {
	switch {
	case r.Username == "":
		return Invalid("username", "required")
	case len(r.Username) < 3 || len(r.Username) > 80:
		return Invalid("username", "must be 3-80 characters")
	case r.Password == "":
		return Invalid("password", "required")
	case len(r.Password) < 6:
		return Invalid("password", "must be at least 6 characters")
	case len(r.Address) > 200:
		return Invalid("address", "must be at most 200 characters")
	}
	return nil
}

// NewProduct is the manager's input for a catalog entry. Stock nil means DefaultStock.
type NewProduct struct {
	Name        string
	Price       decimal.Decimal
	Description string
	Stock       *int
}

func (p *NewProduct) Normalize() {
	p.Name = strings.TrimSpace(p.Name)
	p.Description = strings.TrimSpace(p.Description)
}

func (p NewProduct) Validate() error {
	switch {
	case p.Name == "":
		return Invalid("name", "required")
	case len(p.Name) > 100:
		return Invalid("name", "must be at most 100 characters")
	case !p.Price.IsPositive():
		return Invalid("price", "must be positive")
	case !Cents(p.Price):
		return Invalid("price", "at most two decimal places")
	case p.Price.GreaterThan(MaxPrice):
		return Invalid("price", "must be at most "+MaxPrice.String())
	case p.Stock != nil && *p.Stock < 0:
		return Invalid("stock", "must not be negative")
	case p.Stock != nil && *p.Stock > MaxStock:
		return Invalid("stock", fmt.Sprintf("must be at most %d", MaxStock))
	}
	return nil
}

func (p NewProduct) Product() Product {
	stock := DefaultStock
	if p.Stock != nil {
		stock = *p.Stock
	}
	return Product{
		Name:        p.Name,
		Price:       p.Price,
		Description: p.Description,
		Stock:       stock,
	}
}
