/*
Package sqlite provides the SQLite-backed ledger.Store implementation.

PURPOSE:
  Durable persistence for spending entries and card configurations,
  keyed by user identity. The same patterns apply to PostgreSQL - only
  minor SQL dialect differences.

KEY TABLES:
  spending_entries: the per-user ledger, primary key (user_id, id)
  card_configs:     per-user per-card billing-cycle settings

RENUMBERING:
  DeleteEntry must leave ids dense (1..N, original relative order) and
  be observed atomically. Both happen inside one database transaction:
  the row is deleted and every higher id shifts down by one. The shift
  goes through negated ids in two UPDATE passes because SQLite checks
  primary-key uniqueness per row, and a direct "id = id - 1" can collide
  with a not-yet-shifted neighbor.

CONCURRENCY:
  A sync.Mutex serializes writers in-process; the transaction covers
  writers in other processes. Readers see either the pre-delete or the
  post-renumber state, never a gap.

WAL MODE:
  Opened with WAL so readers are not blocked by the single writer.

USAGE:
  store, err := sqlite.New("./data/cardwise.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

SEE ALSO:
  - ledger/store.go: the interface and its contract
  - ledger/memory.go: in-memory implementation for comparison
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/cardwise/rewards-engine/ledger"
	"github.com/cardwise/rewards-engine/statement"
)

// Store implements ledger.Store on SQLite.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

var _ ledger.Store = (*Store)(nil)

// New opens (or creates) the database at dbPath and migrates the schema.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	-- Spending ledger. Ids are dense 1..N per user; DeleteEntry renumbers.
	CREATE TABLE IF NOT EXISTS spending_entries (
		user_id    TEXT NOT NULL,
		id         INTEGER NOT NULL,
		card_name  TEXT NOT NULL,
		category   TEXT NOT NULL,
		amount     TEXT NOT NULL,
		entry_date TEXT NOT NULL,
		notes      TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		PRIMARY KEY (user_id, id)
	);

	CREATE INDEX IF NOT EXISTS idx_entries_user_date
		ON spending_entries(user_id, entry_date);
	CREATE INDEX IF NOT EXISTS idx_entries_user_card
		ON spending_entries(user_id, card_name);

	-- Billing-cycle settings, one row per (user, card).
	CREATE TABLE IF NOT EXISTS card_configs (
		user_id          TEXT NOT NULL,
		card_name        TEXT NOT NULL,
		statement_day    INTEGER NOT NULL,
		payment_due_days INTEGER NOT NULL,
		updated_at       TEXT NOT NULL,
		PRIMARY KEY (user_id, card_name)
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// SPENDING ENTRIES
// =============================================================================

func (s *Store) AddEntry(ctx context.Context, user string, entry ledger.SpendingEntry) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("add entry: %w", err)
	}
	defer tx.Rollback()

	var next int
	if err := tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(id), 0) + 1 FROM spending_entries WHERE user_id = ?`, user,
	).Scan(&next); err != nil {
		return 0, fmt.Errorf("add entry: %w", err)
	}

	createdAt := entry.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO spending_entries (user_id, id, card_name, category, amount, entry_date, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		user, next, entry.CardName, entry.Category, entry.Amount.String(),
		entry.Date.String(), entry.Notes, createdAt.Format(time.RFC3339),
	)
	if err != nil {
		return 0, fmt.Errorf("add entry: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("add entry: %w", err)
	}
	return next, nil
}

func (s *Store) DeleteEntry(ctx context.Context, user string, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`DELETE FROM spending_entries WHERE user_id = ? AND id = ?`, user, id)
	if err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}
	if affected == 0 {
		return &ledger.EntryNotFoundError{User: user, ID: id}
	}

	// Shift higher ids down by one via negation so the per-row primary
	// key check never sees a collision mid-shift.
	if _, err := tx.ExecContext(ctx,
		`UPDATE spending_entries SET id = -(id - 1) WHERE user_id = ? AND id > ?`, user, id); err != nil {
		return fmt.Errorf("renumber entries: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE spending_entries SET id = -id WHERE user_id = ? AND id < 0`, user); err != nil {
		return fmt.Errorf("renumber entries: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}
	return nil
}

func (s *Store) ListEntries(ctx context.Context, user string) ([]ledger.SpendingEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, card_name, category, amount, entry_date, notes, created_at
		FROM spending_entries
		WHERE user_id = ?
		ORDER BY id`, user)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	entries := []ledger.SpendingEntry{}
	for rows.Next() {
		var (
			e                     ledger.SpendingEntry
			amount, date, created string
		)
		if err := rows.Scan(&e.ID, &e.CardName, &e.Category, &amount, &date, &e.Notes, &created); err != nil {
			return nil, fmt.Errorf("list entries: %w", err)
		}
		if e.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("list entries: bad amount %q: %w", amount, err)
		}
		if e.Date, err = statement.ParseDate(date); err != nil {
			return nil, fmt.Errorf("list entries: bad date %q: %w", date, err)
		}
		if e.CreatedAt, err = time.Parse(time.RFC3339, created); err != nil {
			return nil, fmt.Errorf("list entries: bad created_at %q: %w", created, err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// =============================================================================
// CARD CONFIGURATIONS
// =============================================================================

func (s *Store) SetCardConfig(ctx context.Context, user string, cfg ledger.CardConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	updatedAt := cfg.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO card_configs (user_id, card_name, statement_day, payment_due_days, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(user_id, card_name) DO UPDATE SET
			statement_day = excluded.statement_day,
			payment_due_days = excluded.payment_due_days,
			updated_at = excluded.updated_at`,
		user, cfg.CardName, cfg.StatementDay, cfg.PaymentDueOffsetDays, updatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("set card config: %w", err)
	}
	return nil
}

func (s *Store) GetCardConfigs(ctx context.Context, user string) (map[string]ledger.CardConfig, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT card_name, statement_day, payment_due_days, updated_at
		FROM card_configs
		WHERE user_id = ?`, user)
	if err != nil {
		return nil, fmt.Errorf("get card configs: %w", err)
	}
	defer rows.Close()

	configs := make(map[string]ledger.CardConfig)
	for rows.Next() {
		var (
			cfg     ledger.CardConfig
			updated string
		)
		if err := rows.Scan(&cfg.CardName, &cfg.StatementDay, &cfg.PaymentDueOffsetDays, &updated); err != nil {
			return nil, fmt.Errorf("get card configs: %w", err)
		}
		if cfg.UpdatedAt, err = time.Parse(time.RFC3339, updated); err != nil {
			return nil, fmt.Errorf("get card configs: bad updated_at %q: %w", updated, err)
		}
		configs[cfg.CardName] = cfg
	}
	return configs, rows.Err()
}
