/*
Package rules evaluates bank reward rules against card spending.

PURPOSE:
  Singapore card issuers bound their bonus earn rates two ways:
  - Caps: a bonus ceiling on one category, optionally pooled with other
    categories into a single shared limit.
  - Minimum spend: a total-spend threshold that unlocks the benefit for
    the statement period.

  This package holds the rule definitions and the evaluator that turns a
  period's transactions into per-card progress. It knows nothing about
  persistence or periods; callers hand it the already-filtered spend.

KEY CONCEPTS:
  - Cap / RewardRule: read-only reference data, one RewardRule per card
  - Set: an ordered collection of rules (iteration order is the order
    rules were registered, so output is reproducible)
  - Spend: the minimal transaction view the evaluator needs
  - OptimizationStatus: computed progress, never persisted

SEE ALSO:
  - evaluate.go: the evaluator
  - factory/: loads rule Sets from reference data
*/
package rules

import "github.com/shopspring/decimal"

// Cap is a bonus-rate ceiling on a category, optionally shared with
// other categories pooled into the same limit.
type Cap struct {
	Description string
	Category    string
	SharedWith  []string
	Amount      decimal.Decimal
}

// AppliesTo reports whether spend in the category counts toward this cap.
func (c Cap) AppliesTo(category string) bool {
	if category == c.Category {
		return true
	}
	for _, shared := range c.SharedWith {
		if category == shared {
			return true
		}
	}
	return false
}

// RewardRule is the full rule definition for one card. MinSpend of zero
// means the card has no minimum-spend requirement.
type RewardRule struct {
	Caps     []Cap
	MinSpend decimal.Decimal
}

// HasRules reports whether there is anything to evaluate for this card.
func (r RewardRule) HasRules() bool {
	return len(r.Caps) > 0 || r.MinSpend.IsPositive()
}

// Set is an ordered mapping of card name to RewardRule. Cards evaluate
// in registration order so results are reproducible.
type Set struct {
	cards []string
	rules map[string]RewardRule
}

func NewSet() *Set {
	return &Set{rules: make(map[string]RewardRule)}
}

// Add registers or replaces the rule for a card. First registration
// fixes the card's position in iteration order.
func (s *Set) Add(card string, rule RewardRule) {
	if _, ok := s.rules[card]; !ok {
		s.cards = append(s.cards, card)
	}
	s.rules[card] = rule
}

// Rule returns the rule for a card. A missing card is zero spend to
// evaluate against nothing, not an error.
func (s *Set) Rule(card string) (RewardRule, bool) {
	r, ok := s.rules[card]
	return r, ok
}

// Cards returns card names in registration order.
func (s *Set) Cards() []string {
	out := make([]string, len(s.cards))
	copy(out, s.cards)
	return out
}

func (s *Set) Len() int { return len(s.cards) }

// Spend is the transaction view the evaluator consumes: which card,
// which category, how much.
type Spend struct {
	Card     string
	Category string
	Amount   decimal.Decimal
}
