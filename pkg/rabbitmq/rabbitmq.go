package rabbitmq

import (
	"encoding/json"
	"fmt"

	"github.com/streadway/amqp"
)

const (
	ordersExchange  = "orders"
	orderCreatedKey = "order.created"
	ordersQueue     = "orders.events"
)

type Config struct {
	URL string
}

// Publisher is the subset of the client used by services; tests mock it.
type Publisher interface {
	Publish(exchange, routingKey string, body []byte) error
	PublishOrderCreated(messageBody map[string]interface{}) error
	Close() error
}

type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
}

func NewClient(cfg Config) (*Client, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open a channel: %w", err)
	}

	if err := ch.ExchangeDeclare(ordersExchange, "topic", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	return &Client{conn: conn, channel: ch}, nil
}

func (c *Client) Publish(exchange, routingKey string, body []byte) error {
	return c.channel.Publish(exchange, routingKey, false, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        body,
	})
}

// PublishOrderCreated emits an order.created event on the orders exchange.
func (c *Client) PublishOrderCreated(messageBody map[string]interface{}) error {
	body, err := json.Marshal(messageBody)
	if err != nil {
		return fmt.Errorf("failed to marshal order event: %w", err)
	}
	return c.Publish(ordersExchange, orderCreatedKey, body)
}

// ConsumeOrderEvents binds a queue to the orders exchange and invokes
// messageHandler for each delivery, acking on nil and nacking with
// requeue on error. Blocks until the channel closes.
func (c *Client) ConsumeOrderEvents(messageHandler func(amqp.Delivery) error) error {
	q, err := c.channel.QueueDeclare(ordersQueue, true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to declare queue: %w", err)
	}

	if err := c.channel.QueueBind(q.Name, "order.*", ordersExchange, false, nil); err != nil {
		return fmt.Errorf("failed to bind queue: %w", err)
	}

	deliveries, err := c.channel.Consume(q.Name, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	for msg := range deliveries {
		if handlerErr := messageHandler(msg); handlerErr != nil {
			msg.Nack(false, true)
			continue
		}
		msg.Ack(false)
	}
	return nil
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
