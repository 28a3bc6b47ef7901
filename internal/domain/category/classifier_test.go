package category

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	c := NewClassifier()

	tests := []struct {
		name           string
		txName         string
		merchant       string
		rawCategory    string
		wantLabel      string
		wantConfidence float64
	}{
		{
			name:           "fuel by station brand",
			txName:         "CHEVRON 00123 OAKLAND CA",
			wantLabel:      "Auto:Fuel",
			wantConfidence: MatchConfidence,
		},
		{
			name:           "fuel beats restaurant on precedence",
			txName:         "SHELL DINER",
			wantLabel:      "Auto:Fuel",
			wantConfidence: MatchConfidence,
		},
		{
			name:           "groceries by chain",
			txName:         "TRADER JOE'S #552",
			wantLabel:      "Groceries",
			wantConfidence: MatchConfidence,
		},
		{
			name:           "coffee chain",
			txName:         "STARBUCKS STORE 09914",
			wantLabel:      "Dining:Coffee",
			wantConfidence: MatchConfidence,
		},
		{
			name:           "hardware chain",
			txName:         "THE HOME DEPOT #1234",
			wantLabel:      "Property:Materials",
			wantConfidence: MatchConfidence,
		},
		{
			name:           "restaurant keyword",
			txName:         "SQ *BLUE PLATE RESTAURANT",
			wantLabel:      "Dining:Restaurant",
			wantConfidence: MatchConfidence,
		},
		{
			name:           "utilities keyword",
			txName:         "CITY OF PORTLAND ELECTRIC BILL",
			wantLabel:      "Utilities",
			wantConfidence: MatchConfidence,
		},
		{
			name:           "merchant field alone matches",
			txName:         "POS PURCHASE 4417",
			merchant:       "Dunkin",
			wantLabel:      "Dining:Coffee",
			wantConfidence: MatchConfidence,
		},
		{
			name:           "provider category alone matches",
			txName:         "ACH WITHDRAWAL",
			rawCategory:    "Travel,Gas Station",
			wantLabel:      "Auto:Fuel",
			wantConfidence: MatchConfidence,
		},
		{
			name:           "default fallback",
			txName:         "ACME WIDGETS CORP",
			wantLabel:      Uncategorized,
			wantConfidence: DefaultConfidence,
		},
		{
			name:           "empty inputs fall through to default",
			wantLabel:      Uncategorized,
			wantConfidence: DefaultConfidence,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			label, confidence := c.Classify(tt.txName, tt.merchant, tt.rawCategory)
			assert.Equal(t, tt.wantLabel, label)
			assert.Equal(t, tt.wantConfidence, confidence)
		})
	}
}

func TestClassify_Deterministic(t *testing.T) {
	c := NewClassifier()

	l1, conf1 := c.Classify("WHOLE FOODS MKT", "Whole Foods", "Shops,Groceries")
	for range 10 {
		l2, conf2 := c.Classify("WHOLE FOODS MKT", "Whole Foods", "Shops,Groceries")
		assert.Equal(t, l1, l2)
		assert.Equal(t, conf1, conf2)
	}
}

func TestClassify_CaseInsensitive(t *testing.T) {
	c := NewClassifier()

	upper, _ := c.Classify("STARBUCKS", "", "")
	lower, _ := c.Classify("starbucks", "", "")
	assert.Equal(t, upper, lower)
}

func TestClassify_CustomRuleOrder(t *testing.T) {
	// First match wins even when a later rule would also match.
	c := NewClassifierWithRules([]Rule{
		{Label: "First", Confidence: MatchConfidence, Keywords: []string{"overlap"}},
		{Label: "Second", Confidence: MatchConfidence, Keywords: []string{"overlap"}},
	})

	label, _ := c.Classify("overlap", "", "")
	assert.Equal(t, "First", label)
}
