package forecast

import (
	"testing"
	"time"

	"github.com/Dan9191/cash-coach/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	t, err := time.Parse(models.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func expense(date string, amount float64, desc string) models.CashFlowEvent {
	return models.CashFlowEvent{Date: date, Amount: amount, Kind: models.KindExpense, Description: desc}
}

func income(date string, amount float64, desc string) models.CashFlowEvent {
	return models.CashFlowEvent{Date: date, Amount: amount, Kind: models.KindIncome, Description: desc}
}

func TestProject_LengthAndContiguousDates(t *testing.T) {
	tests := []struct {
		name    string
		start   string
		horizon int
		want    []string
	}{
		{
			name:    "year rollover",
			start:   "2023-12-30",
			horizon: 4,
			want:    []string{"2023-12-30", "2023-12-31", "2024-01-01", "2024-01-02"},
		},
		{
			name:    "month rollover",
			start:   "2024-01-30",
			horizon: 3,
			want:    []string{"2024-01-30", "2024-01-31", "2024-02-01"},
		},
		{
			name:    "leap day",
			start:   "2024-02-28",
			horizon: 3,
			want:    []string{"2024-02-28", "2024-02-29", "2024-03-01"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			points := Project(50, nil, ProjectOptions{Start: day(tc.start), HorizonDays: tc.horizon})
			require.Len(t, points, tc.horizon)
			for i, p := range points {
				assert.Equal(t, tc.want[i], p.Date)
				assert.Equal(t, 50.0, p.Balance)
			}
		})
	}
}

func TestProject_ConsecutiveForLongHorizon(t *testing.T) {
	points := Project(0, nil, ProjectOptions{Start: day("2024-11-15"), HorizonDays: 120})
	require.Len(t, points, 120)
	for i := 1; i < len(points); i++ {
		prev := day(points[i-1].Date)
		assert.Equal(t, prev.AddDate(0, 0, 1).Format(models.DateLayout), points[i].Date)
	}
}

func TestProject_ExpensesOnlyEndBalance(t *testing.T) {
	events := []models.CashFlowEvent{
		expense("2024-01-02", 50.25, "Groceries"),
		expense("2024-01-10", 100, "Power"),
		expense("2024-01-10", 0.5, "Fee"),
		expense("2024-03-01", 400, "Outside horizon"),
		expense("2023-12-31", 400, "Before horizon"),
	}
	points := Project(1000, events, ProjectOptions{Start: day("2024-01-01"), HorizonDays: 30})

	require.Len(t, points, 30)
	assert.Equal(t, 1000.0, points[0].Balance)
	assert.Equal(t, 949.75, points[1].Balance)
	assert.Equal(t, 849.25, points[9].Balance)
	assert.Equal(t, 849.25, points[29].Balance)
}

func TestProject_IncomeAndSameDayNetting(t *testing.T) {
	events := []models.CashFlowEvent{
		income("2024-01-02", 300, "Payroll"),
		expense("2024-01-02", 120, "Rent"),
		{Date: "2024-01-03", Amount: 30, Description: "No kind is an expense"},
	}
	points := Project(10, events, ProjectOptions{Start: day("2024-01-01"), HorizonDays: 3})

	assert.Equal(t, []models.ProjectionPoint{
		{Date: "2024-01-01", Balance: 10},
		{Date: "2024-01-02", Balance: 190},
		{Date: "2024-01-03", Balance: 160},
	}, points)
}

func TestProject_MalformedEventsAreSkipped(t *testing.T) {
	events := []models.CashFlowEvent{
		expense("not-a-date", 500, "bad date"),
		expense("2024-13-01", 500, "bad month"),
		expense("", 500, "undated"),
		expense("2024-01-02", -20, "negative amount"),
		expense("2024-01-02T09:30:00Z", 5, "timestamp is truncated to the day"),
	}
	points := Project(100, events, ProjectOptions{Start: day("2024-01-01"), HorizonDays: 2})

	assert.Equal(t, 100.0, points[0].Balance)
	assert.Equal(t, 95.0, points[1].Balance)
}

func TestProject_UnclampedByDefault(t *testing.T) {
	events := []models.CashFlowEvent{expense("2024-01-05", 200, "Laptop")}
	points := Project(100, events, ProjectOptions{Start: day("2024-01-01"), HorizonDays: 10})

	assert.Equal(t, 100.0, points[3].Balance)
	assert.Equal(t, "2024-01-05", points[4].Date)
	assert.Equal(t, -100.0, points[4].Balance)
}

func TestProject_ClampFloorsAtZero(t *testing.T) {
	events := []models.CashFlowEvent{
		expense("2024-01-02", 200, "Laptop"),
		income("2024-01-03", 50, "Refund"),
	}
	points := Project(100, events, ProjectOptions{Start: day("2024-01-01"), HorizonDays: 3, Clamp: true})

	assert.Equal(t, 0.0, points[1].Balance)
	assert.Equal(t, 50.0, points[2].Balance)
}

func TestProject_DailyDriftAndRounding(t *testing.T) {
	points := Project(100, nil, ProjectOptions{Start: day("2024-01-01"), HorizonDays: 3, DailyDrift: 10.333})

	assert.Equal(t, 89.67, points[0].Balance)
	assert.Equal(t, 79.33, points[1].Balance)
	assert.Equal(t, 69.0, points[2].Balance)
}

func TestProject_ZeroHorizon(t *testing.T) {
	assert.Empty(t, Project(100, nil, ProjectOptions{Start: day("2024-01-01")}))
	assert.NotNil(t, Project(100, nil, ProjectOptions{HorizonDays: -3}))
}

func TestShiftDate(t *testing.T) {
	got, ok := ShiftDate("2024-12-28", 7)
	require.True(t, ok)
	assert.Equal(t, "2025-01-04", got)

	_, ok = ShiftDate("28/12/2024", 7)
	assert.False(t, ok)
}
