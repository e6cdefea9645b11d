/*
aggregate.go - All-time totals and grouped breakdowns

Grouping preserves the insertion order of distinct keys so repeated runs
over the same ledger render identically.
*/
package report

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/cardwise/rewards-engine/ledger"
)

// Summary is the headline metrics block for a set of entries.
type Summary struct {
	Total     decimal.Decimal
	Average   decimal.Decimal
	Count     int
	CardsUsed int
}

// Summarize computes totals over the given entries. Average is zero for
// an empty set.
func Summarize(entries []ledger.SpendingEntry) Summary {
	s := Summary{Total: decimal.Zero, Average: decimal.Zero, Count: len(entries)}
	cards := make(map[string]bool)
	for _, e := range entries {
		s.Total = s.Total.Add(e.Amount)
		cards[e.CardName] = true
	}
	s.CardsUsed = len(cards)
	if s.Count > 0 {
		s.Average = s.Total.Div(decimal.NewFromInt(int64(s.Count)))
	}
	return s
}

// GroupTotal is one key's summed amount within a breakdown.
type GroupTotal struct {
	Key   string
	Total decimal.Decimal
}

// ByCategory sums entries per category, keys in first-occurrence order.
func ByCategory(entries []ledger.SpendingEntry) []GroupTotal {
	return groupBy(entries, func(e ledger.SpendingEntry) string { return e.Category })
}

// ByCard sums entries per card, keys in first-occurrence order.
func ByCard(entries []ledger.SpendingEntry) []GroupTotal {
	return groupBy(entries, func(e ledger.SpendingEntry) string { return e.CardName })
}

func groupBy(entries []ledger.SpendingEntry, key func(ledger.SpendingEntry) string) []GroupTotal {
	var out []GroupTotal
	index := make(map[string]int)
	for _, e := range entries {
		k := key(e)
		i, ok := index[k]
		if !ok {
			i = len(out)
			index[k] = i
			out = append(out, GroupTotal{Key: k, Total: decimal.Zero})
		}
		out[i].Total = out[i].Total.Add(e.Amount)
	}
	return out
}

// Recent returns the n latest entries by transaction date, most recent
// first. Entries sharing a date keep their ledger order.
func Recent(entries []ledger.SpendingEntry, n int) []ledger.SpendingEntry {
	sorted := make([]ledger.SpendingEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[j].Date.Before(sorted[i].Date)
	})
	if n >= 0 && n < len(sorted) {
		sorted = sorted[:n]
	}
	return sorted
}
