package amqp

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	TypeExpenseAdded   = "expense.added"
	TypeExpenseDeleted = "expense.deleted"
)

// ExpenseChangeMessage announces a ledger mutation that has already been
// saved. Consumers must not expect exactly-once delivery.
type ExpenseChangeMessage struct {
	MessageID  string           `json:"message_id"`
	Type       string           `json:"type"`
	EventName  string           `json:"event_name"`
	ExpenseID  string           `json:"expense_id"`
	Category   string           `json:"category,omitempty"`
	TotalCost  *decimal.Decimal `json:"total_cost,omitempty"`
	OccurredAt time.Time        `json:"occurred_at"`
}

func NewExpenseAddedMessage(eventName, expenseID, category string, totalCost decimal.Decimal) *ExpenseChangeMessage {
	return &ExpenseChangeMessage{
		MessageID:  uuid.NewString(),
		Type:       TypeExpenseAdded,
		EventName:  eventName,
		ExpenseID:  expenseID,
		Category:   category,
		TotalCost:  &totalCost,
		OccurredAt: time.Now().UTC(),
	}
}

func NewExpenseDeletedMessage(eventName, expenseID string) *ExpenseChangeMessage {
	return &ExpenseChangeMessage{
		MessageID:  uuid.NewString(),
		Type:       TypeExpenseDeleted,
		EventName:  eventName,
		ExpenseID:  expenseID,
		OccurredAt: time.Now().UTC(),
	}
}

func (m *ExpenseChangeMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func ExpenseChangeMessageFromJSON(data []byte) (*ExpenseChangeMessage, error) {
	var m ExpenseChangeMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("unmarshal expense change message: %w", err)
	}
	return &m, nil
}
