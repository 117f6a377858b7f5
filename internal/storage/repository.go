package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"fintrack/internal/core"

	_ "modernc.org/sqlite"
)

// SQLiteRepository persists transactions. Each call touches at most one row;
// SQLite's per-statement atomicity is all the consistency the model needs.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

// NewWithDB wraps an existing handle. Used by tests; migrations are the
// caller's responsibility.
func NewWithDB(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

const txColumns = "id, amount_cents, date, description, category, version, created_at, updated_at"

// List returns all transactions in insertion order.
func (r *SQLiteRepository) List(ctx context.Context) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+txColumns+" FROM transactions ORDER BY rowid")
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return out, nil
}

// Get returns a single transaction or core.ErrNotFound.
func (r *SQLiteRepository) Get(ctx context.Context, id string) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+txColumns+" FROM transactions WHERE id = ?", id)
	t, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, core.ErrNotFound
	}
	return t, err
}

// Create inserts a new transaction. The caller assigns the ID.
func (r *SQLiteRepository) Create(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	now := time.Now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now
	t.Version = 1

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (id, amount_cents, date, description, category, version, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Amount.Cents, t.Date.Format(time.RFC3339Nano), t.Description, t.Category,
		t.Version, now.Format(time.RFC3339Nano), now.Format(time.RFC3339Nano))
	if err != nil {
		return core.Transaction{}, fmt.Errorf("insert transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved",
		"id", t.ID,
		"description", t.Description,
		"amount_cents", t.Amount.Cents,
		"category", t.Category)

	return t, nil
}

// TransactionPatch carries the optional fields of an update. Nil means
// "leave unchanged", which makes re-applying the same patch idempotent.
type TransactionPatch struct {
	Amount      *core.Money
	Date        *time.Time
	Description *string
	Category    *string
}

// Update applies a partial update and returns the full updated record.
// Unknown ids yield core.ErrNotFound.
func (r *SQLiteRepository) Update(ctx context.Context, id string, patch TransactionPatch) (core.Transaction, error) {
	t, err := r.Get(ctx, id)
	if err != nil {
		return core.Transaction{}, err
	}

	if patch.Amount != nil {
		t.Amount = *patch.Amount
	}
	if patch.Date != nil {
		t.Date = *patch.Date
	}
	if patch.Description != nil {
		t.Description = *patch.Description
	}
	if patch.Category != nil {
		t.Category = *patch.Category
	}
	t.Normalize()
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}

	t.Version++
	t.UpdatedAt = time.Now().UTC()

	res, err := r.db.ExecContext(ctx,
		`UPDATE transactions
		 SET amount_cents = ?, date = ?, description = ?, category = ?, version = ?, updated_at = ?
		 WHERE id = ?`,
		t.Amount.Cents, t.Date.Format(time.RFC3339Nano), t.Description, t.Category,
		t.Version, t.UpdatedAt.Format(time.RFC3339Nano), id)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("update transaction: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return core.Transaction{}, core.ErrNotFound
	}

	slog.InfoContext(ctx, "Transaction updated", "id", id, "version", t.Version)
	return t, nil
}

// Delete removes a transaction. Unknown ids yield core.ErrNotFound and the
// store is left unchanged.
func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM transactions WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if n == 0 {
		return core.ErrNotFound
	}

	slog.InfoContext(ctx, "Transaction deleted", "id", id)
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (core.Transaction, error) {
	var (
		t                          core.Transaction
		date, createdAt, updatedAt string
	)
	err := row.Scan(&t.ID, &t.Amount.Cents, &date, &t.Description, &t.Category,
		&t.Version, &createdAt, &updatedAt)
	if err != nil {
		return core.Transaction{}, err
	}

	if t.Date, err = parseStoredTime(date); err != nil {
		return core.Transaction{}, fmt.Errorf("parse transaction date: %w", err)
	}
	if t.CreatedAt, err = parseStoredTime(createdAt); err != nil {
		return core.Transaction{}, fmt.Errorf("parse created_at: %w", err)
	}
	if t.UpdatedAt, err = parseStoredTime(updatedAt); err != nil {
		return core.Transaction{}, fmt.Errorf("parse updated_at: %w", err)
	}
	return t, nil
}

// parseStoredTime accepts RFC3339 (what the repository writes) and SQLite's
// strftime default format (what column defaults write).
func parseStoredTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02T15:04:05.999Z", s)
}
