// Package records maps provider records with inconsistent field names onto
// models.CashFlowEvent.
package records

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/Dan9191/cash-coach/internal/models"
)

var (
	// ErrUnknownShape means no recognised amount field was present
	ErrUnknownShape = errors.New("unknown record shape")
	// ErrInvalidRecord means a recognised field held an unusable value
	ErrInvalidRecord = errors.New("invalid record")
)

var (
	amountKeys      = []string{"amount", "purchase_amount", "payment_amount"}
	dateKeys        = []string{"date", "purchase_date", "transaction_date", "payment_date", "upcoming_payment_date"}
	descriptionKeys = []string{"description", "merchant", "payee", "nickname", "merchant_name"}
	idKeys          = []string{"id", "_id"}
)

// Hints fill in what the endpoint implies but the record does not say
type Hints struct {
	AccountID string
	Kind      string
	IsBill    bool
	Undated   bool // drop any date, the stream has no reliable timing
}

func first(raw map[string]any, keys []string) (any, bool) {
	for _, k := range keys {
		if v, ok := raw[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case json.Number:
		return n.Float64()
	case string:
		return strconv.ParseFloat(strings.TrimSpace(n), 64)
	default:
		return 0, fmt.Errorf("unsupported amount type %T", v)
	}
}

func toString(v any) string {
	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s)
	case json.Number:
		return s.String()
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	default:
		return ""
	}
}

// kindOf reads an explicit kind. Strict values are rejected when unknown.
func kindOf(value string, strict bool) (string, error) {
	switch strings.ToLower(value) {
	case "":
		return "", nil
	case "income", "deposit", "credit", "crdt":
		return models.KindIncome, nil
	case "expense", "purchase", "withdrawal", "debit", "dbit", "bill":
		return models.KindExpense, nil
	}
	if strict {
		return "", fmt.Errorf("%w: unknown kind %q", ErrInvalidRecord, value)
	}
	return "", nil
}

// calendarDay accepts YYYY-MM-DD with an optional time suffix
func calendarDay(v string) string {
	if len(v) > len(models.DateLayout) {
		v = v[:len(models.DateLayout)]
	}
	if _, err := time.Parse(models.DateLayout, v); err != nil {
		return ""
	}
	return v
}

// Normalize converts one raw provider record. Records without an amount
// field are rejected with ErrUnknownShape rather than guessed at.
func Normalize(raw map[string]any, hints Hints) (models.CashFlowEvent, error) {
	rawAmount, ok := first(raw, amountKeys)
	if !ok {
		return models.CashFlowEvent{}, ErrUnknownShape
	}
	amount, err := toFloat(rawAmount)
	if err != nil || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return models.CashFlowEvent{}, fmt.Errorf("%w: amount %v", ErrInvalidRecord, rawAmount)
	}

	kind, err := kindOf(toString(raw["kind"]), true)
	if err != nil {
		return models.CashFlowEvent{}, err
	}
	if kind == "" {
		kind, _ = kindOf(toString(raw["type"]), false)
	}
	if kind == "" {
		kind = hints.Kind
	}
	if amount < 0 {
		amount = -amount
		if kind == "" {
			kind = models.KindExpense
		}
	}
	if kind == "" {
		kind = models.KindExpense
	}

	event := models.CashFlowEvent{
		AccountID: hints.AccountID,
		Amount:    amount,
		Kind:      kind,
		IsBill:    hints.IsBill,
	}
	if v, ok := first(raw, idKeys); ok {
		event.ID = toString(v)
	}
	if v, ok := first(raw, descriptionKeys); ok {
		event.Description = toString(v)
	}
	if !hints.Undated {
		if v, ok := first(raw, dateKeys); ok {
			event.Date = calendarDay(toString(v))
		}
	}
	if b, ok := raw["is_bill"].(bool); ok && b {
		event.IsBill = true
	}
	if id, ok := raw["account_id"].(string); ok && event.AccountID == "" {
		event.AccountID = id
	}
	return event, nil
}

// NormalizeAll converts every record it can and returns the rejections
// separately so callers can log them.
func NormalizeAll(raws []map[string]any, hints Hints) ([]models.CashFlowEvent, []error) {
	events := make([]models.CashFlowEvent, 0, len(raws))
	var rejected []error
	for i, raw := range raws {
		event, err := Normalize(raw, hints)
		if err != nil {
			rejected = append(rejected, fmt.Errorf("record %d: %w", i, err))
			continue
		}
		events = append(events, event)
	}
	return events, rejected
}
