// Package category implements the deterministic rule-based transaction
// classifier. Classification is a pure function over the transaction's text
// fields: no state, no I/O, always returns a result.
package category

import (
	"strings"
)

// Confidence values are discrete tags, not calibrated probabilities:
// a rule either matched (0.9) or nothing matched (0.3).
const (
	MatchConfidence   = 0.9
	DefaultConfidence = 0.3

	Uncategorized = "Uncategorized"
)

// Rule maps a keyword set to a category label. Rules are tried in order and
// the first match wins, so overlapping keyword sets (a grocery chain that
// also sells fuel) resolve by list position.
type Rule struct {
	Label      string
	Confidence float64
	Keywords   []string
}

// DefaultRules is the precedence-ordered rule list. Order is load-bearing:
// Fuel before Restaurant means "SHELL DINER" classifies as Auto:Fuel.
var DefaultRules = []Rule{
	{
		Label:      "Auto:Fuel",
		Confidence: MatchConfidence,
		Keywords: []string{
			"shell", "chevron", "exxon", "mobil", "sunoco", "valero",
			"texaco", "marathon petro", "gas station", "fuel",
		},
	},
	{
		Label:      "Groceries",
		Confidence: MatchConfidence,
		Keywords: []string{
			"kroger", "safeway", "albertsons", "whole foods", "trader joe",
			"aldi", "publix", "wegmans", "food lion", "grocery", "supermarket",
		},
	},
	{
		Label:      "Dining:Coffee",
		Confidence: MatchConfidence,
		Keywords: []string{
			"starbucks", "dunkin", "peet", "caribou coffee", "coffee", "espresso",
		},
	},
	{
		Label:      "Property:Materials",
		Confidence: MatchConfidence,
		Keywords: []string{
			"home depot", "lowe's", "lowes", "menards", "ace hardware",
			"harbor freight", "hardware",
		},
	},
	{
		Label:      "Dining:Restaurant",
		Confidence: MatchConfidence,
		Keywords: []string{
			"restaurant", "mcdonald", "burger", "taco", "pizza", "chipotle",
			"subway", "wendy's", "diner", "grill", "bistro", "cafe",
		},
	},
	{
		Label:      "Utilities",
		Confidence: MatchConfidence,
		Keywords: []string{
			"electric", "water utility", "utility", "utilities", "comcast",
			"xfinity", "verizon", "at&t", "t-mobile", "internet", "sewer",
		},
	},
}

// Classifier classifies transaction text against an ordered rule list.
type Classifier struct {
	rules []Rule
}

// NewClassifier returns a classifier using DefaultRules.
func NewClassifier() *Classifier {
	return &Classifier{rules: DefaultRules}
}

// NewClassifierWithRules returns a classifier with a custom rule list,
// tried in the given order.
func NewClassifierWithRules(rules []Rule) *Classifier {
	return &Classifier{rules: rules}
}

// Classify maps the transaction's text fields to a category label and a
// confidence tag. Absent fields are passed as empty strings. The three inputs
// are concatenated, lowercased, and tested against each rule in order; the
// first rule with any keyword present wins.
func (c *Classifier) Classify(name, merchant, rawCategory string) (string, float64) {
	haystack := strings.ToLower(name + " " + merchant + " " + rawCategory)

	for _, rule := range c.rules {
		for _, kw := range rule.Keywords {
			if strings.Contains(haystack, kw) {
				return rule.Label, rule.Confidence
			}
		}
	}

	return Uncategorized, DefaultConfidence
}
