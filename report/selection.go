/*
Package report derives reporting views from the ledger: statement-period
buckets, the currently open ("unsettled") period per card, payment due
dates, and aggregate totals.

PURPOSE:
  Selection semantics live here so the evaluator stays period-agnostic:
  - The unsettled period is computed per card against that card's own
    statement day. Two cards checked at the same instant can be in very
    different windows; there is no global cycle.
  - Transactions on a card with no CardConfig have no statement day to
    resolve against. They form the "Unassigned" bucket: excluded from
    period-keyed evaluation, included in all-time totals.
  - "Now" is always an explicit argument, date-truncated by the caller
    via statement.DateOf. Nothing here reads the clock.

SEE ALSO:
  - aggregate.go: totals and breakdowns
  - rules/: the evaluator these selections feed
*/
package report

import (
	"github.com/cardwise/rewards-engine/ledger"
	"github.com/cardwise/rewards-engine/rules"
	"github.com/cardwise/rewards-engine/statement"
)

// UnassignedLabel is the reporting bucket for cards without configuration.
const UnassignedLabel = "Unassigned"

// UnsettledPeriod returns the statement period containing now for one
// configured card.
func UnsettledPeriod(cfg ledger.CardConfig, now statement.Date) statement.Period {
	return statement.ResolvePeriod(now, cfg.StatementDay)
}

// SelectUnsettled returns the entries that fall inside their own card's
// currently open statement period. Each card is checked against its own
// cycle; entries on unconfigured cards never match.
func SelectUnsettled(entries []ledger.SpendingEntry, configs map[string]ledger.CardConfig, now statement.Date) []ledger.SpendingEntry {
	var out []ledger.SpendingEntry
	for _, e := range entries {
		cfg, ok := configs[e.CardName]
		if !ok {
			continue
		}
		if UnsettledPeriod(cfg, now).Contains(e.Date) {
			out = append(out, e)
		}
	}
	return out
}

// Unassigned returns the entries whose card has no configuration.
func Unassigned(entries []ledger.SpendingEntry, configs map[string]ledger.CardConfig) []ledger.SpendingEntry {
	var out []ledger.SpendingEntry
	for _, e := range entries {
		if _, ok := configs[e.CardName]; !ok {
			out = append(out, e)
		}
	}
	return out
}

// CardPeriod is one distinct (card, statement period) pair present in a
// user's ledger.
type CardPeriod struct {
	Card   string
	Period statement.Period
}

// ListPeriods resolves every configured entry to its statement period
// and returns the distinct (card, period) pairs in first-occurrence
// order. Entries on unconfigured cards are skipped.
func ListPeriods(entries []ledger.SpendingEntry, configs map[string]ledger.CardConfig) []CardPeriod {
	var out []CardPeriod
	seen := make(map[CardPeriod]bool)
	for _, e := range entries {
		cfg, ok := configs[e.CardName]
		if !ok {
			continue
		}
		cp := CardPeriod{Card: e.CardName, Period: statement.ResolvePeriod(e.Date, cfg.StatementDay)}
		if !seen[cp] {
			seen[cp] = true
			out = append(out, cp)
		}
	}
	return out
}

// DueDate is a payment due date for one card within a selected bucket.
// Cards sharing a bucket are reported side by side, never merged.
type DueDate struct {
	Card      string
	PeriodEnd statement.Date
	Due       statement.Date
}

// PaymentDueDates computes the due date for each distinct configured
// card present in the selected entries, resolving each card's period
// end against the given reference date. Order follows first occurrence.
func PaymentDueDates(selected []ledger.SpendingEntry, configs map[string]ledger.CardConfig, now statement.Date) []DueDate {
	var out []DueDate
	seen := make(map[string]bool)
	for _, e := range selected {
		cfg, ok := configs[e.CardName]
		if !ok || seen[e.CardName] {
			continue
		}
		seen[e.CardName] = true
		end := UnsettledPeriod(cfg, now).End
		out = append(out, DueDate{Card: e.CardName, PeriodEnd: end, Due: cfg.PaymentDueDate(end)})
	}
	return out
}

// ToSpend converts ledger entries to the evaluator's transaction view.
func ToSpend(entries []ledger.SpendingEntry) []rules.Spend {
	out := make([]rules.Spend, len(entries))
	for i, e := range entries {
		out[i] = rules.Spend{Card: e.CardName, Category: e.Category, Amount: e.Amount}
	}
	return out
}

// EvaluateOptimization evaluates reward rules over the entries of one
// selected period. The full ledger rides along for callers that filter
// the display by overall activity; evaluation itself reads only the
// period's entries.
func EvaluateOptimization(set *rules.Set, _, period []ledger.SpendingEntry) []rules.OptimizationStatus {
	return rules.Evaluate(set, ToSpend(period))
}

// UnsettledOptimization is the common case: evaluate every configured
// card against its own currently open period.
func UnsettledOptimization(set *rules.Set, entries []ledger.SpendingEntry, configs map[string]ledger.CardConfig, now statement.Date) []rules.OptimizationStatus {
	return EvaluateOptimization(set, entries, SelectUnsettled(entries, configs, now))
}
