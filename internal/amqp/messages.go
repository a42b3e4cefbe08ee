package amqp

import (
	"encoding/json"
	"time"
)

// TransactionRecordedMessage signals that a transaction was appended locally
// and should be mirrored to the external ledger. It carries only the id and
// version; the worker fetches the full row from the database.
type TransactionRecordedMessage struct {
	ID        string    `json:"id"`
	Version   int64     `json:"version"`
	Timestamp time.Time `json:"timestamp"`
}

// TransactionConfirmedMessage signals that a pending transaction was
// confirmed and its mirrored row should be updated.
type TransactionConfirmedMessage struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

// envelope distinguishes the two message kinds on a shared queue.
type envelope struct {
	Kind      string          `json:"kind"`
	Payload   json.RawMessage `json:"payload"`
	Timestamp time.Time       `json:"timestamp"`
}

const (
	kindRecorded  = "transaction.recorded"
	kindConfirmed = "transaction.confirmed"
)

func NewTransactionRecordedMessage(id string, version int64) *TransactionRecordedMessage {
	return &TransactionRecordedMessage{
		ID:        id,
		Version:   version,
		Timestamp: time.Now(),
	}
}

func NewTransactionConfirmedMessage(id string) *TransactionConfirmedMessage {
	return &TransactionConfirmedMessage{
		ID:        id,
		Timestamp: time.Now(),
	}
}

func wrap(kind string, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(envelope{Kind: kind, Payload: raw, Timestamp: time.Now()})
}

// LedgerMessage is the decoded union delivered to consumers. Exactly one of
// Recorded and Confirmed is non-nil.
type LedgerMessage struct {
	Recorded  *TransactionRecordedMessage
	Confirmed *TransactionConfirmedMessage
}

func decodeLedgerMessage(data []byte) (*LedgerMessage, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, err
	}
	switch env.Kind {
	case kindRecorded:
		var msg TransactionRecordedMessage
		if err := json.Unmarshal(env.Payload, &msg); err != nil {
			return nil, err
		}
		return &LedgerMessage{Recorded: &msg}, nil
	case kindConfirmed:
		var msg TransactionConfirmedMessage
		if err := json.Unmarshal(env.Payload, &msg); err != nil {
			return nil, err
		}
		return &LedgerMessage{Confirmed: &msg}, nil
	default:
		return nil, &UnknownKindError{Kind: env.Kind}
	}
}

// UnknownKindError is returned for messages with an unrecognized kind field.
type UnknownKindError struct {
	Kind string
}

func (e *UnknownKindError) Error() string {
	return "unknown message kind: " + e.Kind
}
