package sheets

import (
	"context"

	"bloomledger/internal/core"
)

// Ports for outbound ledger mirror adapters.
type (
	// LedgerAppender mirrors a newly recorded transaction to the external
	// ledger and returns a reference to the written row.
	LedgerAppender interface {
		AppendTransaction(ctx context.Context, t core.Transaction) (rowRef string, err error)
	}

	// StatusWriter updates the mirrored status of a previously appended
	// transaction, located by id.
	StatusWriter interface {
		UpdateTransactionStatus(ctx context.Context, id string, status core.TxStatus) error
	}

	// LedgerMirror is the full outbound contract used by the sync worker.
	LedgerMirror interface {
		LedgerAppender
		StatusWriter
	}
)
