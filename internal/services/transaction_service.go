package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"bloomledger/internal/amqp"
	"bloomledger/internal/core"
	"bloomledger/internal/store"
)

// ErrAccessDenied is returned when the supplied PIN does not match.
var ErrAccessDenied = errors.New("access denied")

// TransactionService orchestrates transaction operations across the store and AMQP
type TransactionService struct {
	store      store.TransactionStore
	amqpClient *amqp.Client
}

func NewTransactionService(st store.TransactionStore, amqpClient *amqp.Client) *TransactionService {
	return &TransactionService{
		store:      st,
		amqpClient: amqpClient,
	}
}

// VerifyPIN checks the supplied PIN against the stored dashboard PIN.
// The PIN gates the management view only; it is not a security boundary.
func (s *TransactionService) VerifyPIN(ctx context.Context, pin string) error {
	stored, err := s.store.PIN(ctx)
	if err != nil {
		return fmt.Errorf("read dashboard pin: %w", err)
	}
	if subtle.ConstantTimeCompare([]byte(pin), []byte(stored)) != 1 {
		return ErrAccessDenied
	}
	return nil
}

// List returns all transactions for the management view, newest first.
func (s *TransactionService) List(ctx context.Context, pin string) ([]core.Transaction, error) {
	if err := s.VerifyPIN(ctx, pin); err != nil {
		return nil, err
	}
	return s.listSorted(ctx)
}

// ListPublic returns all transactions for the public view, newest first.
func (s *TransactionService) ListPublic(ctx context.Context) ([]core.Transaction, error) {
	return s.listSorted(ctx)
}

func (s *TransactionService) listSorted(ctx context.Context) ([]core.Transaction, error) {
	txs, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}

	// Newest first; undated entries sink to the end.
	sort.SliceStable(txs, func(i, j int) bool {
		a, b := txs[i].Date, txs[j].Date
		if a.Valid != b.Valid {
			return a.Valid
		}
		return a.Time.After(b.Time)
	})
	return txs, nil
}

// Add records a transaction from the management view and publishes a sync message.
func (s *TransactionService) Add(ctx context.Context, pin string, tx core.Transaction) (core.Transaction, error) {
	if err := s.VerifyPIN(ctx, pin); err != nil {
		return core.Transaction{}, err
	}
	return s.append(ctx, tx)
}

// AddPublic records a transaction submitted from the public view. Public
// entries are always business-scoped, dated now, and confirmed on arrival.
func (s *TransactionService) AddPublic(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	tx.Date = core.NewTimestamp(time.Now())
	tx.User = ""
	tx.IsBusiness = true
	if tx.Status == "" {
		tx.Status = core.Confirmed
	}
	return s.append(ctx, tx)
}

func (s *TransactionService) append(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	// Save to the store first (fast, reliable)
	id, err := s.store.Append(ctx, tx)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("save transaction: %w", err)
	}
	tx.ID = id

	// Publish async mirror message (non-blocking, version 1 for new entry)
	if err := s.publishRecorded(ctx, id, 1); err != nil {
		slog.ErrorContext(ctx, "Failed to publish recorded message",
			"id", id, "error", err)
		// Don't fail the request - transaction is saved locally
	}

	return tx, nil
}

// Confirm marks a pending transaction as confirmed. Confirming an already
// confirmed transaction is a no-op.
func (s *TransactionService) Confirm(ctx context.Context, pin, id string) error {
	if err := s.VerifyPIN(ctx, pin); err != nil {
		return err
	}

	if err := s.store.UpdateStatus(ctx, id, core.Confirmed); err != nil {
		return fmt.Errorf("confirm transaction: %w", err)
	}

	if err := s.publishConfirmed(ctx, id); err != nil {
		slog.ErrorContext(ctx, "Failed to publish confirmed message",
			"id", id, "error", err)
		// Don't fail the request - status is updated locally
	}

	return nil
}

func (s *TransactionService) publishRecorded(ctx context.Context, id string, version int64) error {
	if s.amqpClient == nil {
		slog.WarnContext(ctx, "AMQP client not available, skipping recorded message")
		return nil
	}
	return s.amqpClient.PublishTransactionRecorded(ctx, id, version)
}

func (s *TransactionService) publishConfirmed(ctx context.Context, id string) error {
	if s.amqpClient == nil {
		slog.WarnContext(ctx, "AMQP client not available, skipping confirmed message")
		return nil
	}
	return s.amqpClient.PublishTransactionConfirmed(ctx, id)
}
