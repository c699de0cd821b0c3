// Package sqlite provides a SQLite implementation of the LedgerStore
// interface plus an append-only notification journal.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/lucky83149028/CarShop/internal/domain/entities"
	"github.com/lucky83149028/CarShop/internal/infrastructure/config"
)

// generateUUID returns a new UUID string.
func generateUUID() string {
	return uuid.New().String()
}

// timeNow returns the current time (can be mocked in tests).
var timeNow = time.Now

// Repository implements ports.LedgerStore using SQLite. It also implements
// ports.Notifier by journaling notifications into an events table; journal
// writes are best-effort and never fail a ledger operation.
type Repository struct {
	db   *sql.DB
	path string

	mu      sync.Mutex
	lastErr error
}

// NewRepository creates a new SQLite repository.
func NewRepository(cfg config.SQLiteConfig) (*Repository, error) {
	if cfg.Path == "" {
		return nil, errors.New("sqlite path is required")
	}

	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}

	// Enable WAL mode for better concurrent read/write performance
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	// Set busy timeout to avoid "database is locked" errors
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	return &Repository{
		db:   db,
		path: cfg.Path,
	}, nil
}

// Close closes the database connection.
func (r *Repository) Close() error {
	return r.db.Close()
}

// Path returns the database file path.
func (r *Repository) Path() string {
	return r.path
}

// EnsureSchema creates the database schema if it doesn't exist.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	schema := `
	-- Single-row ledger metadata (administrator identity)
	CREATE TABLE IF NOT EXISTS meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	-- Minted cars, one row per id, ids dense from 0
	CREATE TABLE IF NOT EXISTS cars (
		id INTEGER PRIMARY KEY,
		owner TEXT NOT NULL,
		price INTEGER NOT NULL,
		name TEXT NOT NULL DEFAULT '',
		approved TEXT NOT NULL DEFAULT ''
	);
	CREATE INDEX IF NOT EXISTS idx_cars_owner ON cars(owner);

	-- Blanket operator grants
	CREATE TABLE IF NOT EXISTS operators (
		owner TEXT NOT NULL,
		operator TEXT NOT NULL,
		PRIMARY KEY (owner, operator)
	);

	-- Append-only notification journal
	CREATE TABLE IF NOT EXISTS events (
		id TEXT PRIMARY KEY,
		kind TEXT NOT NULL,
		details TEXT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_events_kind ON events(kind);
	`
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}

// Save replaces the stored snapshot with the given one, atomically.
func (r *Repository) Save(ctx context.Context, snap *entities.Snapshot) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `INSERT OR REPLACE INTO meta (key, value) VALUES ('admin', ?)`, snap.Admin.String()); err != nil {
		return fmt.Errorf("saving administrator: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM cars`); err != nil {
		return fmt.Errorf("clearing cars: %w", err)
	}
	for _, car := range snap.Cars {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO cars (id, owner, price, name, approved) VALUES (?, ?, ?, ?, ?)`,
			car.ID, car.Owner.String(), car.Price, car.Name, car.Approved.String(),
		)
		if err != nil {
			return fmt.Errorf("saving car %d: %w", car.ID, err)
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM operators`); err != nil {
		return fmt.Errorf("clearing operators: %w", err)
	}
	for _, g := range snap.Operators {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO operators (owner, operator) VALUES (?, ?)`,
			g.Owner.String(), g.Operator.String(),
		)
		if err != nil {
			return fmt.Errorf("saving operator grant: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing snapshot: %w", err)
	}
	return nil
}

// Load returns the stored snapshot, or nil if the store was never saved to.
func (r *Repository) Load(ctx context.Context) (*entities.Snapshot, error) {
	var admin string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM meta WHERE key = 'admin'`).Scan(&admin)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading administrator: %w", err)
	}

	snap := &entities.Snapshot{Admin: entities.Identity(admin)}

	rows, err := r.db.QueryContext(ctx, `SELECT id, owner, price, name, approved FROM cars ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("querying cars: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var car entities.Car
		var owner, approved string
		if err := rows.Scan(&car.ID, &owner, &car.Price, &car.Name, &approved); err != nil {
			return nil, fmt.Errorf("scanning car: %w", err)
		}
		car.Owner = entities.Identity(owner)
		car.Approved = entities.Identity(approved)
		snap.Cars = append(snap.Cars, car)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading cars: %w", err)
	}

	opRows, err := r.db.QueryContext(ctx, `SELECT owner, operator FROM operators ORDER BY owner, operator`)
	if err != nil {
		return nil, fmt.Errorf("querying operators: %w", err)
	}
	defer opRows.Close()

	for opRows.Next() {
		var owner, operator string
		if err := opRows.Scan(&owner, &operator); err != nil {
			return nil, fmt.Errorf("scanning operator grant: %w", err)
		}
		snap.Operators = append(snap.Operators, entities.OperatorGrant{
			Owner:    entities.Identity(owner),
			Operator: entities.Identity(operator),
		})
	}
	if err := opRows.Err(); err != nil {
		return nil, fmt.Errorf("reading operators: %w", err)
	}

	return snap, nil
}

// Events returns the most recent journal entries, newest first.
func (r *Repository) Events(ctx context.Context, limit int) ([]entities.Event, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, kind, details, created_at FROM events ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying events: %w", err)
	}
	defer rows.Close()

	var events []entities.Event
	for rows.Next() {
		var ev entities.Event
		var details string
		if err := rows.Scan(&ev.ID, &ev.Kind, &details, &ev.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning event: %w", err)
		}
		if details != "" {
			if err := json.Unmarshal([]byte(details), &ev.Details); err != nil {
				return nil, fmt.Errorf("parsing event details: %w", err)
			}
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

// JournalErr returns the last journal write error, nil if none occurred.
func (r *Repository) JournalErr() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastErr
}

// Notifier implementation. Notifications fire after the ledger has
// committed and are never retried, so journal failures are recorded but
// not propagated.

// Transfer journals an ownership change.
func (r *Repository) Transfer(from, to entities.Identity, id uint64) {
	r.journal(entities.EventTransfer, map[string]any{"from": from.String(), "to": to.String(), "id": id})
}

// Approval journals a per-car delegation.
func (r *Repository) Approval(owner, delegate entities.Identity, id uint64) {
	r.journal(entities.EventApproval, map[string]any{"owner": owner.String(), "delegate": delegate.String(), "id": id})
}

// ApprovalForAll journals a blanket operator change.
func (r *Repository) ApprovalForAll(owner, operator entities.Identity, approved bool) {
	r.journal(entities.EventApprovalForAll, map[string]any{"owner": owner.String(), "operator": operator.String(), "approved": approved})
}

// NameChange journals a rename.
func (r *Repository) NameChange(id uint64, newName string) {
	r.journal(entities.EventNameChange, map[string]any{"id": id, "name": newName})
}

// Sold journals an administrator-relayed sale.
func (r *Repository) Sold(to entities.Identity, id uint64) {
	r.journal(entities.EventSold, map[string]any{"to": to.String(), "id": id})
}

func (r *Repository) journal(kind string, details map[string]any) {
	payload, err := json.Marshal(details)
	if err == nil {
		_, err = r.db.Exec(
			`INSERT INTO events (id, kind, details, created_at) VALUES (?, ?, ?, ?)`,
			generateUUID(), kind, string(payload), timeNow(),
		)
	}
	if err != nil {
		r.mu.Lock()
		r.lastErr = fmt.Errorf("journaling %s event: %w", kind, err)
		r.mu.Unlock()
	}
}
