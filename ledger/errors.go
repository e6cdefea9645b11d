/*
errors.go - Centralized error types for the ledger

PURPOSE:
  All ledger error values in one place. Store implementations return
  these; callers branch with errors.Is / errors.As rather than string
  matching.

ERROR CATEGORIES:
  1. Not-found errors - deleting or reading something that isn't there
  2. Store errors - the backing storage is unavailable

NOT AN ERROR:
  A card with no CardConfig, or a card with no reward rule, is defined
  fallback behavior (the "Unassigned" bucket, zero progress), never an
  error from this package.
*/
package ledger

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrEntryNotFound is returned when a delete names an id that does
	// not exist. Deleting the last remaining entry is valid and yields
	// an empty ledger; deleting a missing id is this failure.
	ErrEntryNotFound = errors.New("spending entry not found")

	// ErrCardConfigNotFound is returned by lookups of a card that was
	// never configured.
	ErrCardConfigNotFound = errors.New("card configuration not found")

	// ErrStoreUnavailable is returned when the backing storage cannot
	// be reached. The caller may retry; the ledger itself never does.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// EntryNotFoundError identifies which user and id a failed delete named.
type EntryNotFoundError struct {
	User string
	ID   int
}

func (e *EntryNotFoundError) Error() string {
	return fmt.Sprintf("spending entry %d not found for user %q", e.ID, e.User)
}

func (e *EntryNotFoundError) Unwrap() error { return ErrEntryNotFound }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsNotFound reports whether the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrEntryNotFound) || errors.Is(err, ErrCardConfigNotFound)
}

// IsRetryable reports whether the operation might succeed on retry.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrStoreUnavailable)
}
