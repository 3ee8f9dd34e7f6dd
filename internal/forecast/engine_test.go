package forecast

import (
	"testing"
	"time"

	"github.com/Dan9191/cash-coach/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedEngine(opts Options, today string) *Engine {
	opts.Now = func() time.Time { return day(today).Add(15 * time.Hour) }
	return NewEngine(opts)
}

func TestEngine_FlatWithoutEvents(t *testing.T) {
	engine := fixedEngine(DefaultOptions(), "2024-03-10")
	result := engine.Run(1000, nil)

	require.Len(t, result.Projection, 30)
	assert.Equal(t, "2024-03-10", result.Projection[0].Date)
	assert.Equal(t, "2024-04-08", result.Projection[29].Date)
	for _, p := range result.Projection {
		assert.Equal(t, 1000.0, p.Balance)
	}
	assert.Nil(t, result.Risk)
	assert.Equal(t, models.Summary{Start: 1000, Inflows: 0, Outflows: 0, End: 1000}, result.Summary)
	assert.Empty(t, result.Tips)
	assert.Empty(t, result.Categories)
	assert.Empty(t, result.UpcomingBills)
}

func TestEngine_OverdraftDip(t *testing.T) {
	opts := DefaultOptions()
	opts.Start = day("2024-01-01")
	result := NewEngine(opts).Run(100, []models.CashFlowEvent{expense("2024-01-05", 200, "Best Buy")})

	assert.Equal(t, -100.0, result.Projection[4].Balance)
	require.NotNil(t, result.Risk)
	assert.Equal(t, "2024-01-05", result.Risk.From)
	assert.Equal(t, -100.0, result.Risk.Min)

	require.NotEmpty(t, result.Tips)
	assert.Equal(t, models.ActionApplyPlan, result.Tips[0].Action)
	assert.Equal(t, "Risk of negative balance in 4 days", result.Tips[0].Title)
}

func TestEngine_ClampOptIn(t *testing.T) {
	opts := DefaultOptions()
	opts.Start = day("2024-01-01")
	opts.Clamp = true
	result := NewEngine(opts).Run(100, []models.CashFlowEvent{expense("2024-01-05", 200, "Best Buy")})

	assert.Equal(t, 0.0, result.Projection[4].Balance)
	assert.Nil(t, result.Risk)
}

func TestEngine_CategoriesAndBills(t *testing.T) {
	opts := DefaultOptions()
	opts.Start = day("2024-01-10")
	opts.HorizonDays = 10
	events := []models.CashFlowEvent{
		income("2024-01-11", 2000, "Payroll deposit"),
		{Date: "2024-01-12", Amount: 1200, Kind: models.KindExpense, Description: "Rent", IsBill: true},
		{Date: "2024-01-09", Amount: 80, Kind: models.KindExpense, Description: "Verizon", IsBill: true},
		{Date: "2024-01-15", Amount: 15, Description: "Netflix", IsBill: true},
		expense("2024-01-13", 25.5, "Starbucks"),
		expense("2024-01-14", 4.5, "Starbucks"),
	}
	result := NewEngine(opts).Run(500, events)

	assert.Equal(t, []models.CategoryRow{
		{Category: CategoryHousing, Total: 1200, Count: 1},
		{Category: CategoryTelecom, Total: 80, Count: 1},
		{Category: CategorySubscriptions, Total: 15, Count: 1},
		{Category: CategoryDining, Total: 30, Count: 2},
	}, result.Categories)

	require.Len(t, result.UpcomingBills, 2)
	assert.Equal(t, "Rent", result.UpcomingBills[0].Description)
	assert.Equal(t, "Netflix", result.UpcomingBills[1].Description)

	assert.Equal(t, models.Summary{Start: 500, Inflows: 2000, Outflows: 1325, End: 1255}, result.Summary)
	assert.Equal(t, "partly", result.Outlook)
}

func TestEngine_LiteTaxonomy(t *testing.T) {
	opts := DefaultOptions()
	opts.Taxonomy = LiteTaxonomy
	opts.Start = day("2024-01-01")
	result := NewEngine(opts).Run(0, []models.CashFlowEvent{expense("2024-01-02", 1000, "Rent")})

	require.Len(t, result.Categories, 1)
	assert.Equal(t, CategoryRent, result.Categories[0].Category)
}

func TestEngine_ZeroHorizon(t *testing.T) {
	opts := DefaultOptions()
	opts.HorizonDays = 0
	result := fixedEngine(opts, "2024-01-01").Run(250, []models.CashFlowEvent{expense("2024-01-01", 300, "Rent")})

	assert.Empty(t, result.Projection)
	assert.Nil(t, result.Risk)
	assert.Empty(t, result.Tips)
	assert.Equal(t, 250.0, result.Summary.End)
}

func TestNewEngine_Defaults(t *testing.T) {
	engine := NewEngine(Options{HorizonDays: -1})
	assert.Equal(t, 0, engine.Options().HorizonDays)
	assert.Equal(t, "full", engine.Options().Taxonomy.Name)
	assert.NotNil(t, engine.Options().Now)
}
