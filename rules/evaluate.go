/*
evaluate.go - Reward rule evaluation

PURPOSE:
  Computes per-card cap and minimum-spend progress from the transactions
  of a single statement period.

EVALUATION RULES:
  - Cap progress counts spend in the cap's category plus any categories
    pooled via SharedWith, for that card only.
  - A category appearing in two caps counts toward both independently.
  - Minimum spend counts ALL categories for the card, capped or not.
  - Percent is clamped to [0, 100]; Remaining floors at zero even when
    the cap is exceeded (the overage is reported separately).
  - A card with a rule but no spend still evaluates, at zero progress.
  - A card present in spend but absent from the rule set is skipped.
*/
package rules

import "github.com/shopspring/decimal"

// CapProgress is the computed state of one cap for one period.
type CapProgress struct {
	Description string
	Category    string
	SharedWith  []string
	Current     decimal.Decimal
	Limit       decimal.Decimal
	Percent     float64
	Exceeded    bool
	Remaining   decimal.Decimal
	Overage     decimal.Decimal
}

// MinSpendProgress is the computed state of a minimum-spend requirement.
type MinSpendProgress struct {
	Amount    decimal.Decimal
	Current   decimal.Decimal
	Percent   float64
	Met       bool
	Shortfall decimal.Decimal
}

// OptimizationStatus is the full evaluation result for one card.
type OptimizationStatus struct {
	Card     string
	Caps     []CapProgress
	MinSpend *MinSpendProgress
}

// HasActivity reports whether any cap or the minimum spend saw spend.
func (s OptimizationStatus) HasActivity() bool {
	for _, c := range s.Caps {
		if c.Current.IsPositive() {
			return true
		}
	}
	return s.MinSpend != nil && s.MinSpend.Current.IsPositive()
}

// Evaluate computes optimization status for every card in the rule set
// against one statement period's transactions.
//
// Results follow the rule set's registration order. Cards whose rule has
// neither caps nor a positive minimum spend are omitted.
func Evaluate(set *Set, periodSpend []Spend) []OptimizationStatus {
	var out []OptimizationStatus
	for _, card := range set.Cards() {
		rule, _ := set.Rule(card)
		if !rule.HasRules() {
			continue
		}
		out = append(out, evaluateCard(card, rule, periodSpend))
	}
	return out
}

func evaluateCard(card string, rule RewardRule, periodSpend []Spend) OptimizationStatus {
	status := OptimizationStatus{Card: card}

	for _, c := range rule.Caps {
		current := decimal.Zero
		for _, sp := range periodSpend {
			if sp.Card == card && c.AppliesTo(sp.Category) {
				current = current.Add(sp.Amount)
			}
		}
		status.Caps = append(status.Caps, CapProgress{
			Description: c.Description,
			Category:    c.Category,
			SharedWith:  c.SharedWith,
			Current:     current,
			Limit:       c.Amount,
			Percent:     percentOf(current, c.Amount),
			Exceeded:    current.GreaterThan(c.Amount),
			Remaining:   decimal.Max(c.Amount.Sub(current), decimal.Zero),
			Overage:     decimal.Max(current.Sub(c.Amount), decimal.Zero),
		})
	}

	if rule.MinSpend.IsPositive() {
		// Minimum spend counts every category for the card.
		current := decimal.Zero
		for _, sp := range periodSpend {
			if sp.Card == card {
				current = current.Add(sp.Amount)
			}
		}
		status.MinSpend = &MinSpendProgress{
			Amount:    rule.MinSpend,
			Current:   current,
			Percent:   percentOf(current, rule.MinSpend),
			Met:       current.GreaterThanOrEqual(rule.MinSpend),
			Shortfall: decimal.Max(rule.MinSpend.Sub(current), decimal.Zero),
		}
	}

	return status
}

// percentOf returns current/limit as a percentage clamped to [0, 100].
// A non-positive limit yields 0.
func percentOf(current, limit decimal.Decimal) float64 {
	if !limit.IsPositive() {
		return 0
	}
	pct := current.Div(limit).InexactFloat64() * 100
	if pct > 100 {
		return 100
	}
	if pct < 0 {
		return 0
	}
	return pct
}
