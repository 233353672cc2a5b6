package models

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistration(t *testing.T) {
	r := Registration{Username: "  alice  ", Password: "secret1", Address: " 1 Main St "}
	r.Normalize()
	assert.Equal(t, "alice", r.Username)
	assert.Equal(t, "1 Main St", r.Address)
	assert.NoError(t, r.Validate())

	r.Address = strings.Repeat("a", 201)
	var verr *ValidationError
	require.ErrorAs(t, r.Validate(), &verr)
	assert.Equal(t, "address", verr.Field)
	assert.Equal(t, "invalid address: must be at most 200 characters", verr.Error())
}

func TestNewProduct(t *testing.T) {
	p := NewProduct{Name: " Lamp ", Price: decimal.RequireFromString("19.90")}
	p.Normalize()
	require.NoError(t, p.Validate())

	prod := p.Product()
	assert.Equal(t, "Lamp", prod.Name)
	assert.Equal(t, DefaultStock, prod.Stock)

	zero := 0
	p.Stock = &zero
	assert.Equal(t, 0, p.Product().Stock)

	p.Name = strings.Repeat("x", 101)
	assert.Error(t, p.Validate())
}

func TestNewProduct_ColumnLimits(t *testing.T) {
	stock := func(n int) *int { return &n }
	cases := []struct {
		name  string
		in    NewProduct
		field string
	}{
		{"price above numeric(12,2)", NewProduct{Name: "Yacht", Price: decimal.RequireFromString("99999999999")}, "price"},
		{"sub-cent price", NewProduct{Name: "Gum", Price: decimal.RequireFromString("0.015")}, "price"},
		{"stock above int32", NewProduct{Name: "Sand", Price: decimal.NewFromInt(1), Stock: stock(MaxStock + 1)}, "stock"},
		{"negative stock", NewProduct{Name: "Sand", Price: decimal.NewFromInt(1), Stock: stock(-1)}, "stock"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var verr *ValidationError
			require.ErrorAs(t, tc.in.Validate(), &verr)
			assert.Equal(t, tc.field, verr.Field)
		})
	}

	edge := NewProduct{Name: "Yacht", Price: MaxPrice, Stock: stock(MaxStock)}
	assert.NoError(t, edge.Validate())
}

func TestCents(t *testing.T) {
	assert.True(t, Cents(decimal.RequireFromString("12.50")))
	assert.True(t, Cents(decimal.RequireFromString("12.500")))
	assert.False(t, Cents(decimal.RequireFromString("12.505")))
}

func TestOrderTotals(t *testing.T) {
	o := Order{Lines: []OrderLine{
		{Quantity: 2, UnitPrice: decimal.NewFromInt(300)},
		{Quantity: 1, UnitPrice: decimal.NewFromInt(100)},
	}}
	assert.Equal(t, "700", o.LinesTotal().String())
	assert.Equal(t, "600", o.Lines[0].Amount().String())
}

func TestRole(t *testing.T) {
	assert.True(t, RoleUser.Valid())
	assert.True(t, RoleManager.Valid())
	assert.False(t, Role("admin").Valid())
}
