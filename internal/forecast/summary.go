package forecast

import (
	"github.com/Dan9191/cash-coach/internal/models"
	"github.com/shopspring/decimal"
)

// Summarize totals inflows and outflows of the events used for a run.
// End is the last projected balance, or the start balance for an empty projection.
func Summarize(events []models.CashFlowEvent, startBalance float64, projection []models.ProjectionPoint) models.Summary {
	inflows, outflows := decimal.Zero, decimal.Zero
	for _, e := range events {
		if !validAmount(e.Amount) {
			continue
		}
		if e.IsIncome() {
			inflows = inflows.Add(decimal.NewFromFloat(e.Amount))
		} else {
			outflows = outflows.Add(decimal.NewFromFloat(e.Amount))
		}
	}

	end := startBalance
	if len(projection) > 0 {
		end = projection[len(projection)-1].Balance
	}
	return models.Summary{
		Start:    startBalance,
		Inflows:  inflows.Round(2).InexactFloat64(),
		Outflows: outflows.Round(2).InexactFloat64(),
		End:      end,
	}
}

// Outlook labels the month the way a weather report would
func Outlook(s models.Summary) string {
	delta := s.End - s.Start
	vol := s.Inflows - s.Outflows
	if vol < 0 {
		vol = -vol
	}
	switch {
	case delta > 800 && s.Inflows >= s.Outflows:
		return "sunny"
	case delta > 0 && vol > 600:
		return "partly"
	case delta <= 0 && s.Outflows > s.Inflows && vol > 800:
		return "storm"
	case delta <= 0:
		return "rain"
	default:
		return "rainbow"
	}
}
