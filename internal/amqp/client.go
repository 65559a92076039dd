package amqp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"budget/internal/core"

	"github.com/rabbitmq/amqp091-go"
)

const publishTimeout = 5 * time.Second

// ChangeHandler processes one decoded change message. A non-nil error
// requeues the delivery once.
type ChangeHandler func(context.Context, *ExpenseChangeMessage) error

// Client publishes and consumes expense change messages on a durable
// direct exchange whose routing key is the queue name.
type Client struct {
	conn     *amqp091.Connection
	channel  *amqp091.Channel
	exchange string
	queue    string
}

func NewClient(url, exchange, queue string) (*Client, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	c := &Client{conn: conn, channel: ch, exchange: exchange, queue: queue}
	if err := c.declare(); err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

func (c *Client) declare() error {
	if err := c.channel.ExchangeDeclare(c.exchange, amqp091.ExchangeDirect, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare exchange %s: %w", c.exchange, err)
	}
	if _, err := c.channel.QueueDeclare(c.queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare queue %s: %w", c.queue, err)
	}
	if err := c.channel.QueueBind(c.queue, c.queue, c.exchange, false, nil); err != nil {
		return fmt.Errorf("bind %s to %s: %w", c.queue, c.exchange, err)
	}
	return nil
}

// PublishExpenseAdded announces a newly recorded expense.
func (c *Client) PublishExpenseAdded(ctx context.Context, eventName string, e core.Expense) error {
	return c.publish(ctx, NewExpenseAddedMessage(eventName, e.ID, e.Category, e.TotalCost))
}

// PublishExpenseDeleted announces a removed expense.
func (c *Client) PublishExpenseDeleted(ctx context.Context, eventName, expenseID string) error {
	return c.publish(ctx, NewExpenseDeletedMessage(eventName, expenseID))
}

func (c *Client) publish(ctx context.Context, msg *ExpenseChangeMessage) error {
	body, err := msg.ToJSON()
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	pub := amqp091.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp091.Persistent,
		MessageId:    msg.MessageID,
		Type:         msg.Type,
		Timestamp:    msg.OccurredAt,
		Body:         body,
	}
	if err := c.channel.PublishWithContext(ctx, c.exchange, c.queue, false, false, pub); err != nil {
		return fmt.Errorf("publish %s: %w", msg.Type, err)
	}

	slog.DebugContext(ctx, "Published expense change",
		"type", msg.Type,
		"event", msg.EventName,
		"expense_id", msg.ExpenseID)
	return nil
}

// ConsumeExpenseChanges feeds deliveries to handler one at a time until
// ctx is done or the broker closes the channel.
func (c *Client) ConsumeExpenseChanges(ctx context.Context, handler ChangeHandler) error {
	if err := c.channel.Qos(1, 0, false); err != nil {
		return fmt.Errorf("set qos: %w", err)
	}
	deliveries, err := c.channel.Consume(c.queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume %s: %w", c.queue, err)
	}

	slog.InfoContext(ctx, "Consuming expense changes", "queue", c.queue)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-deliveries:
			if !ok {
				return errors.New("delivery channel closed")
			}
			settle(ctx, d, handler)
		}
	}
}

// settle runs handler for one delivery and acks or nacks it. Undecodable
// bodies are dropped; a handler failure is retried once via redelivery.
func settle(ctx context.Context, d amqp091.Delivery, handler ChangeHandler) {
	msg, err := ExpenseChangeMessageFromJSON(d.Body)
	if err != nil {
		slog.ErrorContext(ctx, "Dropping malformed change message", "error", err)
		_ = d.Nack(false, false)
		return
	}
	if err := handler(ctx, msg); err != nil {
		slog.ErrorContext(ctx, "Change handler failed",
			"error", err,
			"message_id", msg.MessageID,
			"redelivered", d.Redelivered)
		_ = d.Nack(false, !d.Redelivered)
		return
	}
	_ = d.Ack(false)
}

func (c *Client) Close() error {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
