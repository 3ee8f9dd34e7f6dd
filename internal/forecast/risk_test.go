package forecast

import (
	"testing"

	"github.com/Dan9191/cash-coach/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func points(balances ...float64) []models.ProjectionPoint {
	out := make([]models.ProjectionPoint, len(balances))
	start := day("2024-01-01")
	for i, b := range balances {
		out[i] = models.ProjectionPoint{Date: start.AddDate(0, 0, i).Format(models.DateLayout), Balance: b}
	}
	return out
}

func TestDetectRisk_NoneWhenNeverNegative(t *testing.T) {
	assert.Nil(t, DetectRisk(points(10, 0, 5)))
	assert.Nil(t, DetectRisk(nil))
}

func TestDetectRisk_SpansFirstToLastNegative(t *testing.T) {
	risk := DetectRisk(points(50, -10, 20, -40, -5, 30))
	require.NotNil(t, risk)

	assert.Equal(t, "2024-01-02", risk.From)
	assert.Equal(t, "2024-01-05", risk.To)
	assert.Equal(t, -40.0, risk.Min)
}

func TestDetectRisk_MinIsGlobal(t *testing.T) {
	risk := DetectRisk(points(-1, 3, 2))
	require.NotNil(t, risk)

	assert.Equal(t, "2024-01-01", risk.From)
	assert.Equal(t, "2024-01-01", risk.To)
	assert.Equal(t, -1.0, risk.Min)
}

func TestSummarize(t *testing.T) {
	events := []models.CashFlowEvent{
		income("2024-01-02", 2500, "Payroll"),
		expense("2024-01-03", 1200, "Rent"),
		{Date: "2024-01-04", Amount: 30.1, Description: "Coffee"},
		{Date: "2024-01-04", Amount: -9, Description: "malformed"},
	}
	projection := points(1000, 900, 1234.5)

	assert.Equal(t, models.Summary{Start: 1000, Inflows: 2500, Outflows: 1230.1, End: 1234.5},
		Summarize(events, 1000, projection))
	assert.Equal(t, models.Summary{Start: 75, Inflows: 2500, Outflows: 1230.1, End: 75},
		Summarize(events, 75, nil))
}

func TestOutlook(t *testing.T) {
	tests := []struct {
		summary models.Summary
		want    string
	}{
		{models.Summary{Start: 0, End: 1000, Inflows: 2000, Outflows: 1000}, "sunny"},
		{models.Summary{Start: 0, End: 100, Inflows: 100, Outflows: 900}, "partly"},
		{models.Summary{Start: 1000, End: 0, Inflows: 100, Outflows: 1000}, "storm"},
		{models.Summary{Start: 1000, End: 1000}, "rain"},
		{models.Summary{Start: 0, End: 100, Inflows: 300, Outflows: 200}, "rainbow"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, Outlook(tc.summary), "%+v", tc.summary)
	}
}
