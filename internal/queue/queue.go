package queue

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Client is a single AMQP connection with one channel.
type Client struct {
	conn *amqp.Connection
	ch   *amqp.Channel
}

func New(url string) (*Client, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}
	return &Client{conn: conn, ch: ch}, nil
}

func (c *Client) Close() error {
	if c.ch != nil {
		_ = c.ch.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// Binding wires a durable queue to a topic exchange.
type Binding struct {
	Exchange   string
	Queue      string
	RoutingKey string
}

// Declare makes sure the exchange, the queue and the binding exist. Declaring is
// idempotent so every process calls it on startup.
func (c *Client) Declare(b Binding) error {
	if err := c.ch.ExchangeDeclare(b.Exchange, "topic", true, false, false, false, nil); err != nil {
		return err
	}
	if b.Queue == "" {
		return nil
	}
	if _, err := c.ch.QueueDeclare(b.Queue, true, false, false, false, nil); err != nil {
		return err
	}
	return c.ch.QueueBind(b.Queue, b.RoutingKey, b.Exchange, false, nil)
}

func (c *Client) PublishJSON(ctx context.Context, exchange, routingKey string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return c.ch.PublishWithContext(ctx, exchange, routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
		Timestamp:    time.Now(),
	})
}
