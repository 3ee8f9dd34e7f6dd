package forecast

import (
	"github.com/Dan9191/cash-coach/internal/models"
	"github.com/shopspring/decimal"
)

// Tagged is an amount already assigned to a category
type Tagged struct {
	Category string
	Amount   float64
}

// TagEvents categorizes every well-formed event by its description.
// Callers filter the event kinds they want rolled up.
func TagEvents(t Taxonomy, events []models.CashFlowEvent) []Tagged {
	tagged := make([]Tagged, 0, len(events))
	for _, e := range events {
		if !validAmount(e.Amount) {
			continue
		}
		tagged = append(tagged, Tagged{Category: t.Categorize(e.Description), Amount: e.Amount})
	}
	return tagged
}

// Rollup sums amounts and counts per category. Rows keep the order in which
// each category was first seen; an empty category counts as "Other".
func Rollup(items []Tagged) []models.CategoryRow {
	type bucket struct {
		total decimal.Decimal
		count int
	}
	order := make([]string, 0)
	buckets := make(map[string]*bucket)
	for _, it := range items {
		cat := it.Category
		if cat == "" {
			cat = CategoryOther
		}
		b, ok := buckets[cat]
		if !ok {
			b = &bucket{}
			buckets[cat] = b
			order = append(order, cat)
		}
		b.total = b.total.Add(decimal.NewFromFloat(it.Amount))
		b.count++
	}

	rows := make([]models.CategoryRow, 0, len(order))
	for _, cat := range order {
		b := buckets[cat]
		rows = append(rows, models.CategoryRow{
			Category: cat,
			Total:    b.total.Round(2).InexactFloat64(),
			Count:    b.count,
		})
	}
	return rows
}
