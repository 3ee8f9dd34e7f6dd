package forecast

import (
	"github.com/Dan9191/cash-coach/internal/models"
	"github.com/shopspring/decimal"
)

// HasDatedEvents reports whether any event can be placed on a calendar day
func HasDatedEvents(events []models.CashFlowEvent) bool {
	for _, e := range events {
		if _, ok := parseDay(e.Date); ok && validAmount(e.Amount) {
			return true
		}
	}
	return false
}

// EstimateDailyDrift spreads undated expenses evenly over the horizon and
// bounds the result to [0, maxDrift]. A maxDrift of zero or less means no upper bound.
func EstimateDailyDrift(events []models.CashFlowEvent, horizonDays int, maxDrift float64) float64 {
	if horizonDays <= 0 {
		return 0
	}
	total := decimal.Zero
	for _, e := range events {
		if e.IsIncome() || !validAmount(e.Amount) {
			continue
		}
		if _, dated := parseDay(e.Date); dated {
			continue
		}
		total = total.Add(decimal.NewFromFloat(e.Amount))
	}
	drift := total.Div(decimal.NewFromInt(int64(horizonDays))).Round(2).InexactFloat64()
	if maxDrift > 0 && drift > maxDrift {
		return maxDrift
	}
	return drift
}

// IsUpcomingBill reports whether e is a valid bill due on or after from
func IsUpcomingBill(e models.CashFlowEvent, from string) bool {
	if !e.IsBill || !validAmount(e.Amount) {
		return false
	}
	_, ok := parseDay(e.Date)
	return ok && e.Date >= from
}

// UpcomingBills returns the bills due on or after from, earliest first
func UpcomingBills(events []models.CashFlowEvent, from string) []models.CashFlowEvent {
	bills := make([]models.CashFlowEvent, 0)
	for _, e := range events {
		if IsUpcomingBill(e, from) {
			bills = append(bills, e)
		}
	}
	sortByDate(bills)
	return bills
}
