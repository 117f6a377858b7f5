package amqp

import (
	"encoding/json"
	"time"
)

// Operations a transaction event can describe.
const (
	OpCreated = "created"
	OpUpdated = "updated"
	OpDeleted = "deleted"
)

// TransactionEvent is a lightweight change notification. It carries only the
// id, operation and version; the worker fetches the full row from storage.
type TransactionEvent struct {
	ID        string    `json:"id"`
	Op        string    `json:"op"`
	Version   int64     `json:"version"`
	Timestamp time.Time `json:"timestamp"`
}

func NewTransactionEvent(id, op string, version int64) *TransactionEvent {
	return &TransactionEvent{
		ID:        id,
		Op:        op,
		Version:   version,
		Timestamp: time.Now(),
	}
}

func (e *TransactionEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

func TransactionEventFromJSON(data []byte) (*TransactionEvent, error) {
	var e TransactionEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return &e, nil
}
