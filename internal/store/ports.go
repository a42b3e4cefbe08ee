// Package store defines the ports every transaction store implements.
// The store is an explicit collaborator handed to the service layer; no
// package-level singleton is involved, and an in-memory implementation is
// a drop-in replacement for tests.
package store

import (
	"context"
	"errors"

	"bloomledger/internal/core"
)

// ErrNotFound is returned when a referenced transaction id does not exist.
var ErrNotFound = errors.New("transaction not found")

type (
	Lister interface {
		// List returns every transaction, in no particular order.
		List(ctx context.Context) ([]core.Transaction, error)
	}

	Appender interface {
		// Append persists a new transaction and returns the assigned id.
		// The caller's ID field is ignored.
		Append(ctx context.Context, t core.Transaction) (string, error)
	}

	StatusUpdater interface {
		// UpdateStatus sets the status of the identified transaction.
		// Unknown ids yield ErrNotFound and leave the store unchanged.
		UpdateStatus(ctx context.Context, id string, status core.TxStatus) error
	}

	CredentialReader interface {
		// PIN returns the stored management credential.
		PIN(ctx context.Context) (string, error)
	}

	// TransactionStore is the full collaborator contract.
	TransactionStore interface {
		Lister
		Appender
		StatusUpdater
		CredentialReader
	}
)
