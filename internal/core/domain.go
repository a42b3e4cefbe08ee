package core

import (
	"errors"
	"strings"
)

const (
	Income  TxType = "income"
	Expense TxType = "expense"
)

const (
	Confirmed TxStatus = "confirmed"
	Pending   TxStatus = "pending"
)

// Income categories tracked on the comparison chart. The store accepts
// arbitrary category strings; only these two get their own series row.
const (
	CategoryStudio  = "Studio Income"
	CategoryOutdoor = "Outdoor Events Income"
)

type (
	TxType   string
	TxStatus string

	Money struct {
		Cents int64
	}

	// Transaction is a single financial event. ID is assigned by the store
	// at creation time and never changes afterwards. User is empty for
	// business transactions.
	Transaction struct {
		ID         string
		Type       TxType
		Category   string
		Details    string
		Amount     Money
		Date       Timestamp
		Status     TxStatus
		User       string
		IsBusiness bool
		DueDate    Timestamp
	}
)

var (
	ErrInvalidType     = errors.New("invalid transaction type")
	ErrInvalidStatus   = errors.New("invalid transaction status")
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrEmptyCategory   = errors.New("empty category")
	ErrBusinessHasUser = errors.New("business transaction cannot have a user")
)

func (t TxType) Valid() bool {
	return t == Income || t == Expense
}

func (s TxStatus) Valid() bool {
	return s == Confirmed || s == Pending
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// Validate checks the creation-time invariants. An invalid (unknown) date is
// allowed; it degrades to "N/A" at display time rather than failing here.
func (t Transaction) Validate() error {
	if !t.Type.Valid() {
		return ErrInvalidType
	}
	if !t.Status.Valid() {
		return ErrInvalidStatus
	}
	if len(strings.TrimSpace(t.Category)) == 0 {
		return ErrEmptyCategory
	}
	if len(t.Category) > 200 {
		return errors.New("category too long (max 200 characters)")
	}
	if len(t.Details) > 500 {
		return errors.New("details too long (max 500 characters)")
	}
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if t.IsBusiness && strings.TrimSpace(t.User) != "" {
		return ErrBusinessHasUser
	}
	return nil
}

// Owner returns the display owner of a transaction: the organization for
// business rows, the named user otherwise.
func (t Transaction) Owner() string {
	if t.IsBusiness {
		return "Business"
	}
	return t.User
}
