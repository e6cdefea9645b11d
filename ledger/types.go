/*
Package ledger holds the per-user spending ledger and card configuration.

PURPOSE:
  Every tracked transaction is a SpendingEntry owned by exactly one user.
  CardConfig carries the per-card billing-cycle settings (statement day,
  payment due offset) that the statement package resolves periods with.

IDENTITY MODEL:
  Entry ids are a dense 1-based sequence per user. Deleting an entry
  renumbers the survivors to 1..N in their existing relative order, so a
  deletion is NOT a stable-id operation. Readers must never observe a
  gap or a duplicate id; the delete-and-renumber sequence is atomic.

SEE ALSO:
  - store.go: the persistence interface and its contract
  - memory.go: in-memory implementation (tests, dev)
  - store/sqlite: durable implementation
*/
package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/cardwise/rewards-engine/statement"
)

// SpendingEntry is one tracked credit-card transaction. Immutable after
// creation; the only mutation is deletion (which renumbers ids).
type SpendingEntry struct {
	ID        int
	CardName  string
	Category  string
	Amount    decimal.Decimal
	Date      statement.Date
	Notes     string
	CreatedAt time.Time
}

// CardConfig is the billing-cycle configuration for one card, keyed by
// card name and unique per user. StatementDay is clamped at use-time to
// the actual month being resolved, so 31 is always a valid setting.
type CardConfig struct {
	CardName             string
	StatementDay         int
	PaymentDueOffsetDays int
	UpdatedAt            time.Time
}

// PaymentDueDate returns when payment falls due for a statement ending
// on periodEnd.
func (c CardConfig) PaymentDueDate(periodEnd statement.Date) statement.Date {
	return periodEnd.AddDays(c.PaymentDueOffsetDays)
}

// Categories is the canonical spending category list for Singapore cards.
var Categories = []string{
	"Online Shopping",
	"Dining",
	"Groceries",
	"Travel",
	"Transport",
	"Entertainment",
	"Fuel",
	"Bills & Utilities",
	"Foreign Currency",
	"Shopping (Retail)",
	"Others",
}

// KnownCards lists common Singapore credit cards for UI pickers. Entries
// are free-form; a card outside this list is still a valid CardName.
var KnownCards = []string{
	"DBS Woman's World Card",
	"Citi Rewards Mastercard",
	"Maybank XL Rewards",
	"HSBC Revolution",
	"UOB Lady's Solitaire",
	"UOB Preferred Platinum Visa",
	"UOB Visa Signature",
	"KrisFlyer UOB Credit Card",
	"AMEX KrisFlyer Ascend",
	"DBS Altitude",
	"Standard Chartered Journey",
	"Citi PremierMiles",
	"UOB PRVI Miles",
	"AMEX HighFlyer",
	"Maybank Horizon Visa Signature",
}
