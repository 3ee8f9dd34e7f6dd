package models

// Tip actions
const (
	ActionApplyPlan = "apply-plan"
	ActionNone      = "none"
)

// ProjectionPoint represents the projected balance for a specific day
type ProjectionPoint struct {
	Date    string  `json:"date"` // Format: YYYY-MM-DD
	Balance float64 `json:"balance"`
}

// RiskWindow spans the first to the last negative projected day.
// Min is the lowest balance of the whole projection.
type RiskWindow struct {
	From string  `json:"from"`
	To   string  `json:"to"`
	Min  float64 `json:"min"`
}

// CategoryRow represents the spending total for one category
type CategoryRow struct {
	Category string  `json:"category"`
	Total    float64 `json:"total"`
	Count    int     `json:"count"`
}

// Summary represents aggregate cash flow for a forecast run
type Summary struct {
	Start    float64 `json:"start"`
	Inflows  float64 `json:"inflows"`
	Outflows float64 `json:"outflows"`
	End      float64 `json:"end"`
}

// CoachTip is one advisory produced by the cash coach
type CoachTip struct {
	Title      string  `json:"title"`
	Detail     string  `json:"detail"`
	Impact     string  `json:"impact"`
	Confidence float64 `json:"confidence"` // 0..1
	Action     string  `json:"action"`
}

// ForecastResult is the full output of one forecast computation
type ForecastResult struct {
	Projection    []ProjectionPoint `json:"projection"`
	Categories    []CategoryRow     `json:"categories"`
	Risk          *RiskWindow       `json:"risk,omitempty"`
	Summary       Summary           `json:"summary"`
	Tips          []CoachTip        `json:"tips"`
	UpcomingBills []CashFlowEvent   `json:"upcoming_bills"`
	Outlook       string            `json:"outlook"`
}

// PlanResult is a bill list after a plan action together with the
// forecast recomputed from it
type PlanResult struct {
	Bills    []CashFlowEvent `json:"bills"`
	Forecast ForecastResult  `json:"forecast"`
}
