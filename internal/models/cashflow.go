package models

// Kinds of cash-flow events
const (
	KindIncome  = "income"
	KindExpense = "expense"
)

// DateLayout is the calendar-day format used for every date in the forecast
const DateLayout = "2006-01-02"

// CashFlowEvent is a single dated money movement. Amount is always a magnitude,
// the sign comes from Kind.
type CashFlowEvent struct {
	ID          string  `json:"id,omitempty"`
	AccountID   string  `json:"account_id,omitempty"`
	Amount      float64 `json:"amount"`
	Date        string  `json:"date"` // Format: YYYY-MM-DD, empty when unknown
	Kind        string  `json:"kind,omitempty"`
	Description string  `json:"description"`
	IsBill      bool    `json:"is_bill,omitempty"`
	// OriginalDate is set when a bill was moved by the stay-positive plan
	OriginalDate string `json:"original_date,omitempty"`
}

// IsIncome reports whether the event adds money to the account
func (e CashFlowEvent) IsIncome() bool {
	return e.Kind == KindIncome
}

// SignedAmount returns +Amount for income and -Amount otherwise
func (e CashFlowEvent) SignedAmount() float64 {
	if e.IsIncome() {
		return e.Amount
	}
	return -e.Amount
}
