package forecast

import (
	"errors"
	"fmt"
	"sort"

	"github.com/Dan9191/cash-coach/internal/models"
	"github.com/google/uuid"
)

// PlanShiftDays is how far the plan pushes a bill or the second half of a split
const PlanShiftDays = 7

// ErrBillIndex is returned by single bill actions for an index out of range
var ErrBillIndex = errors.New("bill index out of range")

var splitNamespace = uuid.MustParse("5b1f0f7e-6f0a-4c53-9d2e-0c8f6b1d2a47")

func sortByDate(bills []models.CashFlowEvent) {
	sort.SliceStable(bills, func(i, j int) bool {
		return bills[i].Date < bills[j].Date
	})
}

// splitPairs finds bills that are the two halves of an earlier split: same
// description and amount, the second exactly PlanShiftDays after the first.
// The result maps each half to its sibling. bills must be sorted by date.
func splitPairs(bills []models.CashFlowEvent) map[int]int {
	pairs := make(map[int]int)
	for i := range bills {
		if _, taken := pairs[i]; taken || bills[i].Amount <= 0 {
			continue
		}
		later, ok := ShiftDate(bills[i].Date, PlanShiftDays)
		if !ok {
			continue
		}
		for j := i + 1; j < len(bills); j++ {
			if _, taken := pairs[j]; taken {
				continue
			}
			b := bills[j]
			if b.Description == bills[i].Description && b.Amount == bills[i].Amount && b.Date == later {
				pairs[i], pairs[j] = j, i
				break
			}
		}
	}
	return pairs
}

// planDelayed reports whether a bill carries the plan's one-week deferral
func planDelayed(b models.CashFlowEvent) bool {
	if b.OriginalDate == "" {
		return false
	}
	shifted, ok := ShiftDate(b.OriginalDate, PlanShiftDays)
	return ok && shifted == b.Date
}

func splitHalves(b models.CashFlowEvent) (models.CashFlowEvent, models.CashFlowEvent, error) {
	later, ok := ShiftDate(b.Date, PlanShiftDays)
	if !ok {
		return b, b, fmt.Errorf("invalid bill date %q", b.Date)
	}
	first, second := b, b
	first.Amount = b.Amount / 2
	second.Amount = b.Amount / 2
	second.Date = later
	second.ID = uuid.NewSHA1(splitNamespace, []byte(b.ID+"|"+b.Description+"|"+b.Date)).String()
	return first, second, nil
}

// ApplyPlan is the stay-positive plan: split the largest bill into two halves a
// week apart and push the earliest other bill back a week. Applying it to its
// own output changes nothing. The input slice is not modified.
func ApplyPlan(bills []models.CashFlowEvent) []models.CashFlowEvent {
	out := append([]models.CashFlowEvent{}, bills...)
	if len(out) == 0 {
		return out
	}
	sortByDate(out)
	pairs := splitPairs(out)

	// An already split bill competes with its combined amount.
	target, targetAmount := -1, 0.0
	for i, b := range out {
		amount := b.Amount
		if sibling, ok := pairs[i]; ok {
			if sibling < i {
				continue
			}
			amount *= 2
		}
		if target == -1 || amount > targetAmount {
			target, targetAmount = i, amount
		}
	}
	_, alreadySplit := pairs[target]

	delayed := false
	for _, b := range out {
		if planDelayed(b) {
			delayed = true
			break
		}
	}
	if !delayed {
		for i := range out {
			if _, half := pairs[i]; half || i == target {
				continue
			}
			if later, ok := ShiftDate(out[i].Date, PlanShiftDays); ok {
				out[i].OriginalDate = out[i].Date
				out[i].Date = later
				break
			}
		}
	}

	if !alreadySplit {
		if first, second, err := splitHalves(out[target]); err == nil {
			out = append(out[:target], append([]models.CashFlowEvent{first, second}, out[target+1:]...)...)
		}
	}

	sortByDate(out)
	return out
}

// DelayBill pushes one bill back a week, leaving the order of the list as is
func DelayBill(bills []models.CashFlowEvent, index int) ([]models.CashFlowEvent, error) {
	if index < 0 || index >= len(bills) {
		return nil, ErrBillIndex
	}
	later, ok := ShiftDate(bills[index].Date, PlanShiftDays)
	if !ok {
		return nil, fmt.Errorf("invalid bill date %q", bills[index].Date)
	}
	out := append([]models.CashFlowEvent{}, bills...)
	out[index].Date = later
	return out, nil
}

// SplitBill replaces one bill with two halves appended to the end of the list
func SplitBill(bills []models.CashFlowEvent, index int) ([]models.CashFlowEvent, error) {
	if index < 0 || index >= len(bills) {
		return nil, ErrBillIndex
	}
	first, second, err := splitHalves(bills[index])
	if err != nil {
		return nil, err
	}
	out := make([]models.CashFlowEvent, 0, len(bills)+1)
	out = append(out, bills[:index]...)
	out = append(out, bills[index+1:]...)
	return append(out, first, second), nil
}
