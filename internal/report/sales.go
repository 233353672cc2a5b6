// Package report aggregates the order ledger for the manager panel.
package report

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Cheertaboi/eliteshop/internal/models"
)

const dateLayout = "2006-01-02"

// SalesByDate sums order totals per calendar day in loc, oldest day first.
func SalesByDate(orders []models.Order, loc *time.Location) []models.DailySales {
	if loc == nil {
		loc = time.UTC
	}
	byDate := make(map[string]decimal.Decimal)
	for _, o := range orders {
		day := o.CreatedAt.In(loc).Format(dateLayout)
		byDate[day] = byDate[day].Add(o.Total)
	}

	out := make([]models.DailySales, 0, len(byDate))
	for day, total := range byDate {
		out = append(out, models.DailySales{Date: day, Total: total})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// GrandTotal is the sum over every day.
func GrandTotal(days []models.DailySales) decimal.Decimal {
	total := decimal.Zero
	for _, d := range days {
		total = total.Add(d.Total)
	}
	return total
}
