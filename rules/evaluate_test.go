package rules_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardwise/rewards-engine/rules"
)

func d(v string) decimal.Decimal { return decimal.RequireFromString(v) }

func spend(card, category, amount string) rules.Spend {
	return rules.Spend{Card: card, Category: category, Amount: d(amount)}
}

// =============================================================================
// CAP EVALUATION
// =============================================================================

func TestEvaluate_SharedCategoriesPoolIntoOneCap(t *testing.T) {
	// GIVEN: A $100 Dining cap shared with Entertainment
	// WHEN: The period has Dining $60 and Entertainment $50 on the card
	// THEN: Current is $110, exceeded, remaining floors at 0, percent clamps at 100

	set := rules.NewSet()
	set.Add("Citi Rewards Mastercard", rules.RewardRule{
		Caps: []rules.Cap{{
			Description: "4 mpd bonus cap",
			Category:    "Dining",
			SharedWith:  []string{"Entertainment"},
			Amount:      d("100"),
		}},
	})

	statuses := rules.Evaluate(set, []rules.Spend{
		spend("Citi Rewards Mastercard", "Dining", "60"),
		spend("Citi Rewards Mastercard", "Entertainment", "50"),
	})

	require.Len(t, statuses, 1)
	require.Len(t, statuses[0].Caps, 1)

	got := statuses[0].Caps[0]
	assert.True(t, got.Current.Equal(d("110")))
	assert.True(t, got.Exceeded)
	assert.True(t, got.Remaining.IsZero())
	assert.True(t, got.Overage.Equal(d("10")))
	assert.Equal(t, 100.0, got.Percent)
}

func TestEvaluate_CapIgnoresOtherCardsAndCategories(t *testing.T) {
	// GIVEN: A Groceries cap on one card
	// WHEN: Spend exists on another card and in unrelated categories
	// THEN: Only the card's own Groceries spend counts

	set := rules.NewSet()
	set.Add("DBS Woman's World Card", rules.RewardRule{
		Caps: []rules.Cap{{Description: "Online cap", Category: "Groceries", Amount: d("200")}},
	})

	statuses := rules.Evaluate(set, []rules.Spend{
		spend("DBS Woman's World Card", "Groceries", "80"),
		spend("DBS Woman's World Card", "Travel", "500"),
		spend("HSBC Revolution", "Groceries", "300"),
	})

	require.Len(t, statuses, 1)
	got := statuses[0].Caps[0]
	assert.True(t, got.Current.Equal(d("80")))
	assert.False(t, got.Exceeded)
	assert.True(t, got.Remaining.Equal(d("120")))
	assert.InDelta(t, 40.0, got.Percent, 0.0001)
}

func TestEvaluate_CategoryInTwoCaps_CountsTowardBoth(t *testing.T) {
	// Overlapping SharedWith membership double-counts by design: each cap
	// sums its own pool independently.

	set := rules.NewSet()
	set.Add("UOB Lady's Solitaire", rules.RewardRule{
		Caps: []rules.Cap{
			{Description: "Dining pool", Category: "Dining", SharedWith: []string{"Transport"}, Amount: d("100")},
			{Description: "Retail pool", Category: "Shopping (Retail)", SharedWith: []string{"Transport"}, Amount: d("100")},
		},
	})

	statuses := rules.Evaluate(set, []rules.Spend{
		spend("UOB Lady's Solitaire", "Transport", "40"),
	})

	require.Len(t, statuses, 1)
	require.Len(t, statuses[0].Caps, 2)
	assert.True(t, statuses[0].Caps[0].Current.Equal(d("40")))
	assert.True(t, statuses[0].Caps[1].Current.Equal(d("40")))
}

func TestEvaluate_ZeroLimitCap_PercentIsZero(t *testing.T) {
	set := rules.NewSet()
	set.Add("Card", rules.RewardRule{
		Caps: []rules.Cap{{Description: "degenerate", Category: "Dining", Amount: decimal.Zero}},
	})

	// A zero-amount cap still lists the card (it has a cap), percent stays 0.
	statuses := rules.Evaluate(set, []rules.Spend{spend("Card", "Dining", "10")})
	require.Len(t, statuses, 1)
	assert.Equal(t, 0.0, statuses[0].Caps[0].Percent)
	assert.True(t, statuses[0].Caps[0].Exceeded)
}

// =============================================================================
// MINIMUM SPEND
// =============================================================================

func TestEvaluate_MinSpendCountsAllCategories(t *testing.T) {
	// GIVEN: A card with a Dining-only cap and an $800 minimum spend
	// WHEN: All spend is in an uncapped category
	// THEN: Minimum spend still counts it; the cap does not

	set := rules.NewSet()
	set.Add("Maybank Horizon Visa Signature", rules.RewardRule{
		Caps:     []rules.Cap{{Description: "Dining bonus", Category: "Dining", Amount: d("300")}},
		MinSpend: d("800"),
	})

	statuses := rules.Evaluate(set, []rules.Spend{
		spend("Maybank Horizon Visa Signature", "Bills & Utilities", "500"),
		spend("Maybank Horizon Visa Signature", "Fuel", "400"),
	})

	require.Len(t, statuses, 1)
	assert.True(t, statuses[0].Caps[0].Current.IsZero())

	ms := statuses[0].MinSpend
	require.NotNil(t, ms)
	assert.True(t, ms.Current.Equal(d("900")))
	assert.True(t, ms.Met)
	assert.True(t, ms.Shortfall.IsZero())
	assert.Equal(t, 100.0, ms.Percent)
}

func TestEvaluate_MinSpendShortfall(t *testing.T) {
	set := rules.NewSet()
	set.Add("Standard Chartered Journey", rules.RewardRule{MinSpend: d("1000")})

	statuses := rules.Evaluate(set, []rules.Spend{
		spend("Standard Chartered Journey", "Travel", "250"),
	})

	require.Len(t, statuses, 1)
	ms := statuses[0].MinSpend
	require.NotNil(t, ms)
	assert.False(t, ms.Met)
	assert.True(t, ms.Shortfall.Equal(d("750")))
	assert.InDelta(t, 25.0, ms.Percent, 0.0001)
}

func TestEvaluate_ExactMinSpendIsMet(t *testing.T) {
	set := rules.NewSet()
	set.Add("Card", rules.RewardRule{MinSpend: d("500")})

	statuses := rules.Evaluate(set, []rules.Spend{spend("Card", "Others", "500")})
	require.Len(t, statuses, 1)
	assert.True(t, statuses[0].MinSpend.Met)
	assert.True(t, statuses[0].MinSpend.Shortfall.IsZero())
}

// =============================================================================
// CARD SELECTION AND ORDERING
// =============================================================================

func TestEvaluate_CardWithoutRulesIsOmitted(t *testing.T) {
	set := rules.NewSet()
	set.Add("Empty Card", rules.RewardRule{})
	set.Add("Real Card", rules.RewardRule{MinSpend: d("100")})

	statuses := rules.Evaluate(set, nil)

	require.Len(t, statuses, 1)
	assert.Equal(t, "Real Card", statuses[0].Card)
}

func TestEvaluate_ZeroSpendStillEvaluates(t *testing.T) {
	// Absence from the period is zero spend, not an error.
	set := rules.NewSet()
	set.Add("Idle Card", rules.RewardRule{
		Caps:     []rules.Cap{{Description: "cap", Category: "Dining", Amount: d("100")}},
		MinSpend: d("500"),
	})

	statuses := rules.Evaluate(set, []rules.Spend{spend("Other Card", "Dining", "50")})

	require.Len(t, statuses, 1)
	assert.True(t, statuses[0].Caps[0].Current.IsZero())
	assert.False(t, statuses[0].MinSpend.Met)
	assert.False(t, statuses[0].HasActivity())
}

func TestEvaluate_ResultsFollowRegistrationOrder(t *testing.T) {
	set := rules.NewSet()
	set.Add("B Card", rules.RewardRule{MinSpend: d("1")})
	set.Add("A Card", rules.RewardRule{MinSpend: d("1")})
	set.Add("C Card", rules.RewardRule{MinSpend: d("1")})

	statuses := rules.Evaluate(set, nil)

	require.Len(t, statuses, 3)
	assert.Equal(t, "B Card", statuses[0].Card)
	assert.Equal(t, "A Card", statuses[1].Card)
	assert.Equal(t, "C Card", statuses[2].Card)
}

func TestSet_AddReplacesRuleKeepsPosition(t *testing.T) {
	set := rules.NewSet()
	set.Add("First", rules.RewardRule{MinSpend: d("1")})
	set.Add("Second", rules.RewardRule{MinSpend: d("1")})
	set.Add("First", rules.RewardRule{MinSpend: d("999")})

	assert.Equal(t, []string{"First", "Second"}, set.Cards())
	r, ok := set.Rule("First")
	require.True(t, ok)
	assert.True(t, r.MinSpend.Equal(d("999")))
}
