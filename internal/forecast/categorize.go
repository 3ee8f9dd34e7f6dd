package forecast

import (
	"fmt"
	"regexp"
	"strings"
)

// Labels of the full taxonomy
const (
	CategoryTelecom        = "Telecom"
	CategoryUtilities      = "Utilities"
	CategoryDebt           = "Debt"
	CategorySubscriptions  = "Subscriptions"
	CategoryHousing        = "Housing"
	CategoryInsurance      = "Insurance"
	CategoryTransportation = "Transportation"
	CategoryGroceries      = "Groceries"
	CategoryDining         = "Dining"
	CategoryHealth         = "Health"
	CategoryShopping       = "Shopping"
	CategoryTravel         = "Travel"
	CategoryOther          = "Other"
)

// Labels only used by the lite taxonomy
const (
	CategoryRent          = "Rent"
	CategoryEntertainment = "Entertainment"
	CategoryTransport     = "Transport"
)

// Rule assigns Category when any of its patterns matches the normalized text
type Rule struct {
	Category string
	Patterns []*regexp.Regexp
}

// Taxonomy is an ordered rule list. The first matching rule wins.
type Taxonomy struct {
	Name  string
	Rules []Rule
}

var separators = regexp.MustCompile(`[.\-_,']`)

// words matches any of the alternatives as whole words
func words(alternatives ...string) *regexp.Regexp {
	return regexp.MustCompile(`\b(?:` + strings.Join(alternatives, "|") + `)\b`)
}

// contains matches any of the alternatives anywhere in the text
func contains(alternatives ...string) *regexp.Regexp {
	return regexp.MustCompile(`(?:` + strings.Join(alternatives, "|") + `)`)
}

// FullTaxonomy is the default merchant taxonomy
var FullTaxonomy = Taxonomy{
	Name: "full",
	Rules: []Rule{
		{CategoryTelecom, []*regexp.Regexp{
			words(`verizon`, `at&t`, `att`, `t ?mobile`, `sprint`, `wireless`),
			words(`comcast`, `xfinity`, `spectrum`, `cox`, `centurylink`, `cable`, `internet`, `broadband`),
		}},
		{CategoryUtilities, []*regexp.Regexp{
			words(`power`, `electric`, `electricity`, `utility`, `utilities`, `water`, `sewer`, `gas`),
			words(`dominion`, `georgia power`, `washington gas`, `dc water`, `pepco`, `coned`, `con edison`, `pg&e`, `pge`),
		}},
		{CategoryDebt, []*regexp.Regexp{
			words(`credit ?card`, `loan`, `mortgage`, `auto ?loan`, `student ?loan`, `debt`, `finance`, `financing`),
		}},
		{CategorySubscriptions, []*regexp.Regexp{
			words(`netflix`, `spotify`, `hulu`, `disney`, `disney plus`, `max`, `hbo ?max`, `youtube premium`, `apple music`, `prime video`),
		}},
		{CategoryHousing, []*regexp.Regexp{
			words(`rent`, `landlord`, `property ?management`, `apartments?`),
		}},
		{CategoryInsurance, []*regexp.Regexp{
			words(`insurance`, `geico`, `state farm`, `allstate`, `progressive`, `usaa`),
		}},
		{CategoryTransportation, []*regexp.Regexp{
			words(`uber`, `lyft`, `gasoline`, `fuel`, `shell`, `chevron`, `exxon`, `metro`, `transit`, `parking`, `tolls?`),
		}},
		{CategoryGroceries, []*regexp.Regexp{
			words(`whole foods`, `trader joe ?s?`, `kroger`, `safeway`, `albertsons`, `publix`, `heb`, `costco`, `sam ?s club`, `aldi`, `grocery`, `groceries`, `supermarket`),
		}},
		{CategoryDining, []*regexp.Regexp{
			words(`starbucks`, `mcdonald ?s?`, `chipotle`, `chick ?fil ?a`, `doordash`, `ubereats`, `grubhub`, `restaurant`, `cafe`, `coffee`),
		}},
		{CategoryHealth, []*regexp.Regexp{
			words(`pharmacy`, `walgreens`, `cvs`, `rite aid`, `clinic`, `hospital`, `dental`, `vision`),
		}},
		{CategoryShopping, []*regexp.Regexp{
			words(`amazon`, `walmart`, `target`, `best buy`, `ikea`, `home depot`, `lowe ?s?`),
		}},
		{CategoryTravel, []*regexp.Regexp{
			words(`airlines?`, `hotels?`, `marriott`, `hilton`, `airbnb`, `booking com`, `expedia`),
		}},
		// Substring fallbacks for merchant names glued to other words
		{CategoryOther, []*regexp.Regexp{contains(`misc`)}},
		{CategoryDebt, []*regexp.Regexp{contains(`credit ?card`)}},
		{CategoryTelecom, []*regexp.Regexp{contains(`cable`)}},
		{CategoryUtilities, []*regexp.Regexp{contains(`power`, `utility`, `water`, `gas`)}},
	},
}

// LiteTaxonomy is a six bucket taxonomy for lighter deployments
var LiteTaxonomy = Taxonomy{
	Name: "lite",
	Rules: []Rule{
		{CategoryGroceries, []*regexp.Regexp{
			words(`grocery`, `groceries`, `market`, `supermarket`, `whole foods`, `kroger`, `safeway`, `aldi`, `costco`, `trader joe ?s?`),
		}},
		{CategoryRent, []*regexp.Regexp{
			words(`rent`, `landlord`, `mortgage`, `apartments?`, `property ?management`),
		}},
		{CategoryUtilities, []*regexp.Regexp{
			words(`util\w*`, `electric\w*`, `power`, `water`, `gas`, `internet`, `phone`, `wireless`, `cable`),
		}},
		{CategoryEntertainment, []*regexp.Regexp{
			words(`netflix`, `spotify`, `hulu`, `disney`, `cinema`, `movies?`, `theat(?:er|re)`, `concerts?`, `games?`, `steam`),
		}},
		{CategoryTransport, []*regexp.Regexp{
			words(`uber`, `lyft`, `bus`, `metro`, `transit`, `train`, `taxi`, `fuel`, `parking`, `tolls?`),
		}},
	},
}

// TaxonomyByName resolves "full" or "lite"; an empty name selects the full taxonomy.
func TaxonomyByName(name string) (Taxonomy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", FullTaxonomy.Name:
		return FullTaxonomy, nil
	case LiteTaxonomy.Name:
		return LiteTaxonomy, nil
	default:
		return Taxonomy{}, fmt.Errorf("unknown taxonomy %q", name)
	}
}

// NormalizeText lower-cases s, turns separators into spaces and collapses whitespace
func NormalizeText(s string) string {
	s = separators.ReplaceAllString(strings.ToLower(s), " ")
	return strings.Join(strings.Fields(s), " ")
}

// Categorize maps merchant or description text to a label. Unmatched text is "Other".
func (t Taxonomy) Categorize(text string) string {
	normalized := NormalizeText(text)
	if normalized == "" {
		return CategoryOther
	}
	for _, rule := range t.Rules {
		for _, p := range rule.Patterns {
			if p.MatchString(normalized) {
				return rule.Category
			}
		}
	}
	return CategoryOther
}

// Categorize is shorthand for FullTaxonomy.Categorize. Callers that honour a
// configured taxonomy use Taxonomy.Categorize instead.
func Categorize(text string) string {
	return FullTaxonomy.Categorize(text)
}
