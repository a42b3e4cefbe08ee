package worker

import (
	"context"
	"fmt"
	"log/slog"

	"bloomledger/internal/amqp"
	"bloomledger/internal/core"
	"bloomledger/internal/sheets"
	"bloomledger/internal/storage"
)

// SyncWorker mirrors transactions from SQLite to the external ledger
type SyncWorker struct {
	storage   *storage.SQLiteRepository
	mirror    sheets.LedgerMirror
	batchSize int
}

func NewSyncWorker(storage *storage.SQLiteRepository, mirror sheets.LedgerMirror, batchSize int) *SyncWorker {
	return &SyncWorker{
		storage:   storage,
		mirror:    mirror,
		batchSize: batchSize,
	}
}

// HandleLedgerMessage processes a single mirror message from AMQP
func (w *SyncWorker) HandleLedgerMessage(ctx context.Context, msg *amqp.LedgerMessage) error {
	switch {
	case msg.Recorded != nil:
		return w.handleRecorded(ctx, msg.Recorded)
	case msg.Confirmed != nil:
		return w.handleConfirmed(ctx, msg.Confirmed)
	default:
		return fmt.Errorf("empty ledger message")
	}
}

func (w *SyncWorker) handleRecorded(ctx context.Context, msg *amqp.TransactionRecordedMessage) error {
	slog.InfoContext(ctx, "Processing recorded message",
		"id", msg.ID,
		"version", msg.Version)

	tx, err := w.storage.GetTransaction(ctx, msg.ID)
	if err != nil {
		return fmt.Errorf("get transaction from storage: %w", err)
	}

	if err := w.mirrorTransaction(ctx, tx); err != nil {
		return fmt.Errorf("mirror transaction: %w", err)
	}

	return nil
}

func (w *SyncWorker) handleConfirmed(ctx context.Context, msg *amqp.TransactionConfirmedMessage) error {
	slog.InfoContext(ctx, "Processing confirmed message", "id", msg.ID)

	if err := w.mirror.UpdateTransactionStatus(ctx, msg.ID, core.Confirmed); err != nil {
		return fmt.Errorf("update mirrored status: %w", err)
	}

	slog.InfoContext(ctx, "Updated mirrored transaction status",
		"id", msg.ID, "status", core.Confirmed)
	return nil
}

func (w *SyncWorker) mirrorTransaction(ctx context.Context, tx core.Transaction) error {
	rowRef, err := w.mirror.AppendTransaction(ctx, tx)
	if err != nil {
		if markErr := w.storage.MarkSyncError(ctx, tx.ID); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark sync error", "id", tx.ID, "error", markErr)
		}
		return err
	}

	if err := w.storage.MarkSynced(ctx, tx.ID); err != nil {
		return fmt.Errorf("mark synced: %w", err)
	}

	slog.InfoContext(ctx, "Mirrored transaction to ledger",
		"id", tx.ID, "row", rowRef)
	return nil
}

// ProcessPendingTransactions mirrors any transactions that were never synced.
// This is a backup mechanism in case AMQP messages are lost
func (w *SyncWorker) ProcessPendingTransactions(ctx context.Context) error {
	pending, err := w.storage.GetPendingSyncTransactions(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("get pending transactions: %w", err)
	}

	if len(pending) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Processing pending transactions", "count", len(pending))

	for _, p := range pending {
		tx, err := w.storage.GetTransaction(ctx, p.ID)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to get transaction", "id", p.ID, "error", err)
			if err := w.storage.MarkSyncError(ctx, p.ID); err != nil {
				slog.ErrorContext(ctx, "Failed to mark sync error", "id", p.ID, "error", err)
			}
			continue
		}

		if err := w.mirrorTransaction(ctx, tx); err != nil {
			slog.ErrorContext(ctx, "Failed to mirror transaction", "id", p.ID, "error", err)
			continue
		}
	}

	return nil
}

// StartupSyncCheck mirrors any pending transactions at worker startup.
// This recovers from missed AMQP messages or worker downtime
func (w *SyncWorker) StartupSyncCheck(ctx context.Context) error {
	// Get a larger batch for startup check
	pending, err := w.storage.GetPendingSyncTransactions(ctx, w.batchSize*5)
	if err != nil {
		return fmt.Errorf("get pending transactions for startup check: %w", err)
	}

	if len(pending) == 0 {
		slog.InfoContext(ctx, "No pending transactions found on startup")
		return nil
	}

	slog.InfoContext(ctx, "Found pending transactions on startup, processing...",
		"count", len(pending))

	successCount := 0
	errorCount := 0

	for _, p := range pending {
		tx, err := w.storage.GetTransaction(ctx, p.ID)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to get transaction for startup sync",
				"id", p.ID, "error", err)
			if err := w.storage.MarkSyncError(ctx, p.ID); err != nil {
				slog.ErrorContext(ctx, "Failed to mark sync error", "id", p.ID, "error", err)
			}
			errorCount++
			continue
		}

		if err := w.mirrorTransaction(ctx, tx); err != nil {
			slog.ErrorContext(ctx, "Failed to mirror transaction during startup",
				"id", p.ID, "error", err)
			errorCount++
			continue
		}

		successCount++
	}

	slog.InfoContext(ctx, "Startup sync completed",
		"total", len(pending),
		"synced", successCount,
		"errors", errorCount)

	return nil
}
