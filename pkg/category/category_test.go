package category

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitPrefix(t *testing.T) {
	tests := []struct {
		name         string
		text         string
		wantCategory string
		wantRest     string
	}{
		{"bracket prefix", "[Sales] Call client", "Sales", "Call client"},
		{"brace prefix", "{Ops} Reorder stock", "Ops", "Reorder stock"},
		{"padded prefix", "  [ Marketing ]  Launch campaign", "Marketing", "Launch campaign"},
		{"no prefix", "Untagged item", "", "Untagged item"},
		{"bracket mid-text ignored", "Call [Sales] client", "", "Call [Sales] client"},
		{"empty", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			category, rest := SplitPrefix(tt.text)
			assert.Equal(t, tt.wantCategory, category)
			assert.Equal(t, tt.wantRest, rest)
		})
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "sales", Normalize("  Sales "))
	assert.Equal(t, "sales calls", Normalize("Sales Calls"))
}

// Filtering ["[Sales] Call client", "[Ops] Reorder stock", "Untagged
// item"] by "Sales" must keep exactly the first item, with the prefix
// already stripped from its display text.
func TestFilter_SalesSample(t *testing.T) {
	inputs := []string{"[Sales] Call client", "[Ops] Reorder stock", "Untagged item"}

	var kept []string

	for _, text := range inputs {
		cat, rest := SplitPrefix(text)
		if Matches("Sales", cat, false) {
			kept = append(kept, rest)
		}
	}

	assert.Equal(t, []string{"Call client"}, kept)
}

func TestMatches(t *testing.T) {
	tests := []struct {
		name            string
		active          string
		candidate       string
		includeChildren bool
		want            bool
	}{
		{"empty filter matches all", "", "Ops", false, true},
		{"empty filter matches uncategorized", "", "", false, true},
		{"exact", "Sales", "Sales", false, true},
		{"case insensitive", "sales", "SALES", false, true},
		{"different", "Sales", "Ops", false, false},
		{"uncategorized not matched", "Sales", "", false, false},
		{"child excluded without flag", "Sales", "Sales Calls", false, false},
		{"child included with flag", "Sales", "Sales Calls", true, true},
		{"unrelated stays excluded with flag", "Sales", "Ops", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Matches(tt.active, tt.candidate, tt.includeChildren))
		})
	}
}

func TestIsChild_WordOverlap(t *testing.T) {
	tests := []struct {
		parent    string
		candidate string
		want      bool
	}{
		{"sales", "sales calls", true},
		{"marketing plan", "plan review", true},
		{"sales", "cold sales outreach", true}, // overlap on a non-leading word
		{"quarterly review", "annual budget review", true},
		{"operations", "ops", false},     // no shared word, abbreviations don't count
		{"sales", "presales", false},     // whole-word match only
		{"it", "it support", false},      // words under three letters are ignored
		{"sales", "", false},
		{"", "sales", false},
	}

	for _, tt := range tests {
		t.Run(tt.parent+"/"+tt.candidate, func(t *testing.T) {
			assert.Equal(t, tt.want, IsChild(tt.parent, tt.candidate))
		})
	}
}
