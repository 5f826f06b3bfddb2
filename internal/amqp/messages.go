package amqp

import (
	"encoding/json"
	"fmt"
	"time"

	"gradetracker/internal/core"
)

// StoreChangedMessage announces that the grade book was saved after a
// mutation. It carries only the names involved; consumers reload the
// grade book from storage to see the new state.
type StoreChangedMessage struct {
	Operation core.Operation `json:"operation"`
	Year      string         `json:"year"`
	Course    string         `json:"course,omitempty"`
	Category  string         `json:"category,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// NewStoreChangedMessage creates a message for the given change.
func NewStoreChangedMessage(c core.Change) *StoreChangedMessage {
	return &StoreChangedMessage{
		Operation: c.Operation,
		Year:      c.Year,
		Course:    c.Course,
		Category:  c.Category,
		Timestamp: time.Now(),
	}
}

// Change returns the change the message describes.
func (m *StoreChangedMessage) Change() core.Change {
	return core.Change{
		Operation: m.Operation,
		Year:      m.Year,
		Course:    m.Course,
		Category:  m.Category,
	}
}

// ToJSON converts the message to JSON bytes
func (m *StoreChangedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// StoreChangedMessageFromJSON creates a message from JSON bytes
func StoreChangedMessageFromJSON(data []byte) (*StoreChangedMessage, error) {
	var msg StoreChangedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.Operation == "" {
		return nil, fmt.Errorf("message has no operation")
	}
	return &msg, nil
}
