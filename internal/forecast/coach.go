package forecast

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/Dan9191/cash-coach/internal/models"
)

const (
	maxTips            = 3
	overdraftSoonDays  = 14
	autoSaveMinGrowth  = 500
	autoSaveCap        = 150
	autoSaveMinimum    = 50
	trimMinimumCut     = 10
	maxSubscriptionTip = 2
)

var subscriptionPattern = regexp.MustCompile(`(?i)netflix|spotify|hulu|prime|subscription`)

// coarseCategory is the keyword bucket used by the trim rule, separate from the taxonomies
func coarseCategory(description string) string {
	d := strings.ToLower(description)
	has := func(subs ...string) bool {
		for _, s := range subs {
			if strings.Contains(d, s) {
				return true
			}
		}
		return false
	}
	switch {
	case has("netflix", "spotify", "subscription"):
		return CategorySubscriptions
	case has("uber", "bus", "gas"):
		return CategoryTransport
	case has("grocery", "market"):
		return CategoryGroceries
	case has("rent"):
		return CategoryHousing
	case has("util"):
		return CategoryUtilities
	case has("coffee", "restaurant", "dining", "fast"):
		return CategoryDining
	default:
		return CategoryOther
	}
}

// orderedSums keeps per-key totals in first-seen order
type orderedSums struct {
	keys   []string
	totals map[string]float64
}

func newOrderedSums() *orderedSums {
	return &orderedSums{totals: make(map[string]float64)}
}

func (o *orderedSums) add(key string, v float64) {
	if _, ok := o.totals[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.totals[key] += v
}

// ranked returns keys by total descending, ties in first-seen order
func (o *orderedSums) ranked() []string {
	keys := append([]string(nil), o.keys...)
	sort.SliceStable(keys, func(i, j int) bool {
		return o.totals[keys[i]] > o.totals[keys[j]]
	})
	return keys
}

// Advise runs the cash coach rules and returns at most three tips,
// highest confidence first.
func Advise(projection []models.ProjectionPoint, events []models.CashFlowEvent, summary models.Summary) []models.CoachTip {
	tips := make([]models.CoachTip, 0, 4)
	if len(projection) == 0 {
		return tips
	}

	byDesc := newOrderedSums()
	byCat := newOrderedSums()
	for _, e := range events {
		if e.IsIncome() || !validAmount(e.Amount) {
			continue
		}
		byDesc.add(e.Description, e.Amount)
		byCat.add(coarseCategory(e.Description), e.Amount)
	}

	if days := firstNegative(projection); days != -1 && days <= overdraftSoonDays {
		plural := "s"
		if days == 1 {
			plural = ""
		}
		tips = append(tips, models.CoachTip{
			Title:      fmt.Sprintf("Risk of negative balance in %d day%s", days, plural),
			Detail:     fmt.Sprintf("Your forecast dips below $0 soon (min %s). Try delaying the next bill and splitting your largest bill.", FormatMoney(minBalance(projection))),
			Impact:     "Raises near-term cushion via deferral & split",
			Confidence: 0.9,
			Action:     models.ActionApplyPlan,
		})
	}

	subs := 0
	for _, desc := range byDesc.ranked() {
		if subs == maxSubscriptionTip {
			break
		}
		if !subscriptionPattern.MatchString(desc) {
			continue
		}
		subs++
		amt := FormatMoney(byDesc.totals[desc])
		tips = append(tips, models.CoachTip{
			Title:      fmt.Sprintf("Review subscription: %s", desc),
			Detail:     fmt.Sprintf("Recurring charge detected. Pausing or downgrading %s could free up %s this month.", desc, amt),
			Impact:     fmt.Sprintf("+%s cushion", amt),
			Confidence: 0.75,
			Action:     models.ActionNone,
		})
	}

	if ranked := byCat.ranked(); len(ranked) > 0 {
		cat := ranked[0]
		if cat == CategoryDining || cat == CategoryOther {
			cut := math.Floor(byCat.totals[cat]*0.2/5+0.5) * 5
			if cut >= trimMinimumCut {
				tips = append(tips, models.CoachTip{
					Title:      fmt.Sprintf("Trim %s by %s this month", cat, FormatMoney(cut)),
					Detail:     "Set a weekly cap and auto-move leftover cash to savings.",
					Impact:     fmt.Sprintf("Projected end +%s", FormatMoney(cut)),
					Confidence: 0.65,
					Action:     models.ActionNone,
				})
			}
		}
	}

	if growth := summary.End - summary.Start; growth >= autoSaveMinGrowth {
		save := math.Min(autoSaveCap, math.Floor(growth*0.25/25)*25)
		if save >= autoSaveMinimum {
			tips = append(tips, models.CoachTip{
				Title:      fmt.Sprintf("Auto-save %s now", FormatMoney(save)),
				Detail:     fmt.Sprintf("You're on track to grow cash this month. Lock in %s to a rainy-day fund.", FormatMoney(save)),
				Impact:     "Builds emergency cushion",
				Confidence: 0.7,
				Action:     models.ActionNone,
			})
		}
	}

	sort.SliceStable(tips, func(i, j int) bool {
		return tips[i].Confidence > tips[j].Confidence
	})
	if len(tips) > maxTips {
		tips = tips[:maxTips]
	}
	return tips
}
