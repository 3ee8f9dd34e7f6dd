package forecast

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// FormatMoney renders whole dollars with thousands separators, e.g. "$1,200" or "-$100".
func FormatMoney(v float64) string {
	p := message.NewPrinter(language.English)
	dollars := int64(math.Round(v))
	if dollars < 0 {
		return p.Sprintf("-$%d", -dollars)
	}
	return p.Sprintf("$%d", dollars)
}
