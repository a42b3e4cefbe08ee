// Package storage implements the transaction store on SQLite.
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

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"bloomledger/internal/core"
	"bloomledger/internal/store"
)

type SQLiteRepository struct {
	db *sql.DB
}

// PendingSyncTransaction is the minimal row handed to the mirror worker.
type PendingSyncTransaction struct {
	ID        string
	CreatedAt time.Time
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

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

const txColumns = `id, tx_type, category, details, amount_cents, tx_date_ms, status, owner, is_business, due_date_ms`

func scanTransaction(scan func(...any) error) (core.Transaction, error) {
	var (
		t          core.Transaction
		dateMs     sql.NullInt64
		dueMs      sql.NullInt64
		isBusiness int64
	)
	err := scan(&t.ID, &t.Type, &t.Category, &t.Details, &t.Amount.Cents,
		&dateMs, &t.Status, &t.User, &isBusiness, &dueMs)
	if err != nil {
		return core.Transaction{}, err
	}
	t.IsBusiness = isBusiness != 0
	t.Date = timestampFromMillis(dateMs)
	t.DueDate = timestampFromMillis(dueMs)
	return t, nil
}

func timestampFromMillis(v sql.NullInt64) core.Timestamp {
	if !v.Valid {
		return core.Timestamp{}
	}
	return core.NewTimestamp(time.UnixMilli(v.Int64))
}

func millisFromTimestamp(ts core.Timestamp) sql.NullInt64 {
	if !ts.Valid {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: ts.Time.UnixMilli(), Valid: true}
}

// List implements store.Lister.
func (r *SQLiteRepository) List(ctx context.Context) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+txColumns+` FROM transactions`)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return out, nil
}

// Append implements store.Appender. The id is assigned here, never by the
// caller.
func (r *SQLiteRepository) Append(ctx context.Context, t core.Transaction) (string, error) {
	if err := t.Validate(); err != nil {
		return "", err
	}
	id := uuid.NewString()
	isBusiness := 0
	if t.IsBusiness {
		isBusiness = 1
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO transactions (id, tx_type, category, details, amount_cents, tx_date_ms, status, owner, is_business, due_date_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, t.Type, t.Category, t.Details, t.Amount.Cents,
		millisFromTimestamp(t.Date), t.Status, t.User, isBusiness,
		millisFromTimestamp(t.DueDate))
	if err != nil {
		return "", fmt.Errorf("insert transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved",
		"id", id,
		"type", t.Type,
		"category", t.Category,
		"amount_cents", t.Amount.Cents,
		"status", t.Status)

	return id, nil
}

// UpdateStatus implements store.StatusUpdater.
func (r *SQLiteRepository) UpdateStatus(ctx context.Context, id string, status core.TxStatus) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return fmt.Errorf("update transaction status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// PIN implements store.CredentialReader.
func (r *SQLiteRepository) PIN(ctx context.Context) (string, error) {
	var pin string
	err := r.db.QueryRowContext(ctx,
		`SELECT value FROM settings WHERE key = 'dashboard_pin'`).Scan(&pin)
	if err != nil {
		return "", fmt.Errorf("read dashboard pin: %w", err)
	}
	return pin, nil
}

// GetTransaction returns a single row by id for the mirror worker.
func (r *SQLiteRepository) GetTransaction(ctx context.Context, id string) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+txColumns+` FROM transactions WHERE id = ?`, id)
	t, err := scanTransaction(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, store.ErrNotFound
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction by id: %w", err)
	}
	return t, nil
}

// GetPendingSyncTransactions returns rows not yet mirrored to the external
// ledger, oldest first.
func (r *SQLiteRepository) GetPendingSyncTransactions(ctx context.Context, limit int) ([]PendingSyncTransaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, created_at FROM transactions
		WHERE synced_at IS NULL AND sync_error = 0
		ORDER BY created_at ASC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("get pending sync transactions: %w", err)
	}
	defer rows.Close()

	var out []PendingSyncTransaction
	for rows.Next() {
		var p PendingSyncTransaction
		if err := rows.Scan(&p.ID, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan pending sync row: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// MarkSynced records a successful mirror append.
func (r *SQLiteRepository) MarkSynced(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET synced_at = CURRENT_TIMESTAMP WHERE id = ?`, id); err != nil {
		return fmt.Errorf("mark transaction synced: %w", err)
	}
	slog.InfoContext(ctx, "Transaction marked as synced", "id", id)
	return nil
}

// MarkSyncError flags a row so the periodic scan stops retrying it.
func (r *SQLiteRepository) MarkSyncError(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET sync_error = 1 WHERE id = ?`, id); err != nil {
		return fmt.Errorf("mark transaction sync error: %w", err)
	}
	slog.WarnContext(ctx, "Transaction marked with sync error", "id", id)
	return nil
}
