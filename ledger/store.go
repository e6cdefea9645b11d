/*
store.go - Persistence interface for the spending ledger

PURPOSE:
  Defines the contract between the domain and storage. Implementations
  exist for SQLite (store/sqlite) and memory (memory.go); both must hold
  the same invariants.

CONTRACT:
  - Ids are a dense 1-based sequence per user at all times.
  - DeleteEntry removes one entry and renumbers the survivors to 1..N in
    their existing relative order, observed by readers as a single
    atomic step. No reader sees a gap or a duplicate id.
  - The add/delete/renumber sequence requires mutual exclusion per user.
    Implementations use a lock or a storage transaction scoped to the
    user's records.
  - SetCardConfig is a full-replace upsert keyed by card name.
  - A write returning nil means the data is durable (for durable
    implementations).
*/
package ledger

import "context"

// Store persists spending entries and card configurations per user.
type Store interface {
	// AddEntry appends an entry for the user and returns its assigned
	// id (always current count + 1). The entry's ID field is ignored.
	AddEntry(ctx context.Context, user string, entry SpendingEntry) (int, error)

	// DeleteEntry removes the entry with the given id and renumbers the
	// remaining entries to 1..N in their existing relative order,
	// atomically. Returns ErrEntryNotFound if the id does not exist.
	DeleteEntry(ctx context.Context, user string, id int) error

	// ListEntries returns the user's entries ordered by id. A user with
	// no entries yields an empty slice, not an error.
	ListEntries(ctx context.Context, user string) ([]SpendingEntry, error)

	// SetCardConfig upserts the configuration for one card, replacing
	// any previous configuration for the same card name in full.
	SetCardConfig(ctx context.Context, user string, cfg CardConfig) error

	// GetCardConfigs returns the user's card configurations keyed by
	// card name.
	GetCardConfigs(ctx context.Context, user string) (map[string]CardConfig, error)
}
