/*
Package factory converts JSON reward-rule reference data into rules.Set.

PURPOSE:
  Bank reward rules change without code changes - caps move, minimum
  spends get introduced. The rule set is defined in JSON, loaded once at
  startup, and cached process-wide (it is read-only; a restart picks up
  edits).

JSON SCHEMA:
  An array, so card order in the file fixes evaluation and display order:

  [
    {
      "card": "DBS Woman's World Card",
      "caps": [
        {
          "description": "4 mpd online bonus",
          "category": "Online Shopping",
          "shared_with": ["Shopping (Retail)"],
          "amount": 1500
        }
      ],
      "min_spend": 0
    }
  ]

TOLERANT PARSING:
  Malformed or empty records are skipped, never an error: a card with a
  broken rule entry simply has no rules, which downstream treats as
  zero progress or omission, not failure.

USAGE:
  set, err := factory.LoadRules("./data/card-rules.json")
  if err != nil { ... }          // file-level problems only
  set := factory.BuiltinRules()  // compiled-in Singapore defaults

SEE ALSO:
  - rules/types.go: the Set and RewardRule definitions
*/
package factory

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/shopspring/decimal"

	"github.com/cardwise/rewards-engine/rules"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// RuleJSON is the JSON representation of one card's reward rule.
type RuleJSON struct {
	Card     string          `json:"card"`
	Caps     []CapJSON       `json:"caps,omitempty"`
	MinSpend decimal.Decimal `json:"min_spend,omitempty"`
}

// CapJSON is the JSON representation of one cap.
type CapJSON struct {
	Description string          `json:"description"`
	Category    string          `json:"category"`
	SharedWith  []string        `json:"shared_with,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
}

// =============================================================================
// LOADING
// =============================================================================

// LoadRules reads and parses a rule file. Only file-level failures
// (missing file, invalid JSON document) are errors; individual bad
// records are dropped.
func LoadRules(path string) (*rules.Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load rules: %w", err)
	}
	return ParseRules(data)
}

// ParseRules parses rule reference data. Records that cannot serve as a
// rule (blank card name, caps with no category or negative amount,
// negative minimum spend) are skipped.
func ParseRules(data []byte) (*rules.Set, error) {
	var records []RuleJSON
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse rules: %w", err)
	}

	set := rules.NewSet()
	for _, rec := range records {
		if rec.Card == "" {
			continue
		}
		rule, ok := toRule(rec)
		if !ok {
			continue
		}
		set.Add(rec.Card, rule)
	}
	return set, nil
}

func toRule(rec RuleJSON) (rules.RewardRule, bool) {
	if rec.MinSpend.IsNegative() {
		return rules.RewardRule{}, false
	}

	rule := rules.RewardRule{MinSpend: rec.MinSpend}
	for _, c := range rec.Caps {
		if c.Category == "" || c.Amount.IsNegative() {
			return rules.RewardRule{}, false
		}
		rule.Caps = append(rule.Caps, rules.Cap{
			Description: c.Description,
			Category:    c.Category,
			SharedWith:  c.SharedWith,
			Amount:      c.Amount,
		})
	}
	return rule, rule.HasRules()
}

// =============================================================================
// BUILT-IN DEFAULTS
// =============================================================================

// BuiltinRules returns a compiled-in rule set for common Singapore
// cards, used when no rule file is configured. Figures follow published
// card terms; verify against the issuer before relying on them.
func BuiltinRules() *rules.Set {
	set := rules.NewSet()

	set.Add("DBS Woman's World Card", rules.RewardRule{
		Caps: []rules.Cap{{
			Description: "4 mpd online spend cap",
			Category:    "Online Shopping",
			Amount:      decimal.NewFromInt(1500),
		}},
	})

	set.Add("Citi Rewards Mastercard", rules.RewardRule{
		Caps: []rules.Cap{{
			Description: "4 mpd bonus cap (online and retail pooled)",
			Category:    "Online Shopping",
			SharedWith:  []string{"Shopping (Retail)"},
			Amount:      decimal.NewFromInt(1000),
		}},
	})

	set.Add("HSBC Revolution", rules.RewardRule{
		Caps: []rules.Cap{{
			Description: "10x points cap (online, dining, entertainment pooled)",
			Category:    "Online Shopping",
			SharedWith:  []string{"Dining", "Entertainment"},
			Amount:      decimal.NewFromInt(1000),
		}},
	})

	set.Add("UOB Lady's Solitaire", rules.RewardRule{
		Caps: []rules.Cap{
			{
				Description: "4 mpd chosen category cap",
				Category:    "Dining",
				Amount:      decimal.NewFromInt(1000),
			},
			{
				Description: "4 mpd second category cap",
				Category:    "Travel",
				Amount:      decimal.NewFromInt(1000),
			},
		},
	})

	set.Add("UOB Preferred Platinum Visa", rules.RewardRule{
		Caps: []rules.Cap{{
			Description: "4 mpd online and contactless cap",
			Category:    "Online Shopping",
			SharedWith:  []string{"Entertainment"},
			Amount:      decimal.NewFromInt(1110),
		}},
	})

	set.Add("KrisFlyer UOB Credit Card", rules.RewardRule{
		MinSpend: decimal.NewFromInt(800),
	})

	set.Add("Maybank Horizon Visa Signature", rules.RewardRule{
		Caps: []rules.Cap{{
			Description: "3.2 mpd dining and transport bonus",
			Category:    "Dining",
			SharedWith:  []string{"Transport"},
			Amount:      decimal.NewFromInt(300),
		}},
		MinSpend: decimal.NewFromInt(300),
	})

	return set
}
