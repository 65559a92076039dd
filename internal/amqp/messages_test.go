package amqp

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func TestExpenseAddedMessageRoundTrip(t *testing.T) {
	msg := NewExpenseAddedMessage("Picnic", "a1b2c3", "Food", decimal.RequireFromString("6.92"))
	if _, err := uuid.Parse(msg.MessageID); err != nil {
		t.Fatalf("message id is not a uuid: %q", msg.MessageID)
	}
	if msg.Type != TypeExpenseAdded {
		t.Fatalf("unexpected type %q", msg.Type)
	}
	if time.Since(msg.OccurredAt) > time.Minute {
		t.Fatalf("unexpected timestamp %v", msg.OccurredAt)
	}

	body, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}
	if !strings.Contains(string(body), `"total_cost":6.92`) {
		t.Fatalf("expected numeric total in %s", body)
	}

	parsed, err := ExpenseChangeMessageFromJSON(body)
	if err != nil {
		t.Fatalf("ExpenseChangeMessageFromJSON() error = %v", err)
	}
	if parsed.MessageID != msg.MessageID || parsed.EventName != "Picnic" || parsed.ExpenseID != "a1b2c3" || parsed.Category != "Food" {
		t.Fatalf("unexpected parsed message %+v", parsed)
	}
	if parsed.TotalCost == nil || !parsed.TotalCost.Equal(decimal.RequireFromString("6.92")) {
		t.Fatalf("unexpected total %v", parsed.TotalCost)
	}
}

func TestExpenseDeletedMessageOmitsAmounts(t *testing.T) {
	msg := NewExpenseDeletedMessage("Picnic", "a1b2c3")
	body, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}
	if strings.Contains(string(body), "total_cost") || strings.Contains(string(body), "category") {
		t.Fatalf("deleted message should not carry amounts: %s", body)
	}
	if msg.Type != TypeExpenseDeleted {
		t.Fatalf("unexpected type %q", msg.Type)
	}
	other := NewExpenseDeletedMessage("Picnic", "a1b2c3")
	if other.MessageID == msg.MessageID {
		t.Fatalf("message ids should be unique")
	}
}

func TestExpenseChangeMessageFromJSON_Invalid(t *testing.T) {
	if _, err := ExpenseChangeMessageFromJSON([]byte("{invalid")); err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}
