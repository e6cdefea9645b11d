package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardwise/rewards-engine/ledger"
	"github.com/cardwise/rewards-engine/statement"
	"github.com/cardwise/rewards-engine/store/sqlite"
)

func newTestStore(t *testing.T) *sqlite.Store {
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func testEntry(card, category, amount string, date statement.Date) ledger.SpendingEntry {
	return ledger.SpendingEntry{
		CardName: card,
		Category: category,
		Amount:   decimal.RequireFromString(amount),
		Date:     date,
		Notes:    "test",
	}
}

// =============================================================================
// ENTRY ROUND TRIP
// =============================================================================

func TestStore_AddAndList_RoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	day := statement.NewDate(2024, time.March, 10)

	id, err := store.AddEntry(ctx, "alice", testEntry("DBS Altitude", "Travel", "123.45", day))
	require.NoError(t, err)
	assert.Equal(t, 1, id)

	entries, err := store.ListEntries(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, entries, 1)

	e := entries[0]
	assert.Equal(t, 1, e.ID)
	assert.Equal(t, "DBS Altitude", e.CardName)
	assert.Equal(t, "Travel", e.Category)
	assert.True(t, e.Amount.Equal(decimal.RequireFromString("123.45")))
	assert.Equal(t, day, e.Date)
	assert.Equal(t, "test", e.Notes)
	assert.False(t, e.CreatedAt.IsZero())
}

func TestStore_ListEmptyUser(t *testing.T) {
	store := newTestStore(t)

	entries, err := store.ListEntries(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

// =============================================================================
// DELETE AND RENUMBER
// =============================================================================

func TestStore_DeleteRenumbersWithinOneTransaction(t *testing.T) {
	// GIVEN: Entries [1,2,3,4]
	// WHEN: Deleting id 2
	// THEN: Ids read back as [1,2,3] with original relative order intact

	store := newTestStore(t)
	ctx := context.Background()
	day := statement.NewDate(2024, time.March, 10)

	for _, category := range []string{"Dining", "Travel", "Fuel", "Others"} {
		_, err := store.AddEntry(ctx, "alice", testEntry("Card", category, "10", day))
		require.NoError(t, err)
	}

	require.NoError(t, store.DeleteEntry(ctx, "alice", 2))

	entries, err := store.ListEntries(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, entries, 3)
	for i, e := range entries {
		assert.Equal(t, i+1, e.ID)
	}
	assert.Equal(t, "Dining", entries[0].Category)
	assert.Equal(t, "Fuel", entries[1].Category)
	assert.Equal(t, "Others", entries[2].Category)
}

func TestStore_DeleteFirstOfMany(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	day := statement.NewDate(2024, time.March, 10)

	for i := 0; i < 5; i++ {
		_, err := store.AddEntry(ctx, "alice", testEntry("Card", "Dining", "10", day))
		require.NoError(t, err)
	}

	require.NoError(t, store.DeleteEntry(ctx, "alice", 1))

	entries, err := store.ListEntries(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, entries, 4)
	for i, e := range entries {
		assert.Equal(t, i+1, e.ID)
	}
}

func TestStore_DeleteLastRemaining_ThenAddStartsAtOne(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	day := statement.NewDate(2024, time.March, 10)

	_, err := store.AddEntry(ctx, "alice", testEntry("Card", "Dining", "10", day))
	require.NoError(t, err)
	require.NoError(t, store.DeleteEntry(ctx, "alice", 1))

	entries, err := store.ListEntries(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, entries)

	id, err := store.AddEntry(ctx, "alice", testEntry("Card", "Travel", "20", day))
	require.NoError(t, err)
	assert.Equal(t, 1, id)
}

func TestStore_DeleteMissingID_ReturnsNotFound(t *testing.T) {
	store := newTestStore(t)

	err := store.DeleteEntry(context.Background(), "alice", 42)

	require.Error(t, err)
	assert.True(t, ledger.IsNotFound(err))
}

func TestStore_DeleteIsScopedToUser(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	day := statement.NewDate(2024, time.March, 10)

	_, err := store.AddEntry(ctx, "alice", testEntry("Card", "Dining", "10", day))
	require.NoError(t, err)

	err = store.DeleteEntry(ctx, "bob", 1)
	assert.True(t, ledger.IsNotFound(err))

	entries, err := store.ListEntries(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

// =============================================================================
// CARD CONFIGURATIONS
// =============================================================================

func TestStore_CardConfig_UpsertRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SetCardConfig(ctx, "alice", ledger.CardConfig{
		CardName: "HSBC Revolution", StatementDay: 18, PaymentDueOffsetDays: 20,
	}))
	require.NoError(t, store.SetCardConfig(ctx, "alice", ledger.CardConfig{
		CardName: "HSBC Revolution", StatementDay: 25, PaymentDueOffsetDays: 15,
	}))
	require.NoError(t, store.SetCardConfig(ctx, "alice", ledger.CardConfig{
		CardName: "DBS Altitude", StatementDay: 3, PaymentDueOffsetDays: 21,
	}))

	configs, err := store.GetCardConfigs(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, configs, 2)

	rev := configs["HSBC Revolution"]
	assert.Equal(t, 25, rev.StatementDay)
	assert.Equal(t, 15, rev.PaymentDueOffsetDays)
	assert.False(t, rev.UpdatedAt.IsZero())

	// Other users see nothing.
	other, err := store.GetCardConfigs(ctx, "bob")
	require.NoError(t, err)
	assert.Empty(t, other)
}
