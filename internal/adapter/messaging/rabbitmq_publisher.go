package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/srgjo27/house_rental/internal/core/ports"
	"github.com/srgjo27/house_rental/internal/platform/logger"
	"github.com/streadway/amqp"
)

const DefaultQueue = "properties_queue"

// PropertyMessage is what the search indexer consumes.
type PropertyMessage struct {
	Action     string `json:"action"`
	PropertyID string `json:"property_id"`
}

type publisherChannel interface {
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

type RabbitMQPublisher struct {
	mu      sync.Mutex
	conn    *amqp.Connection
	channel publisherChannel
	queue   string
	log     logger.Logger
}

func NewRabbitMQPublisher(url, queue string, log logger.Logger) (*RabbitMQPublisher, error) {
	if queue == "" {
		queue = DefaultQueue
	}

	log.Info("connecting to RabbitMQ")

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	_, err = ch.QueueDeclare(
		queue, // name
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue %s: %w", queue, err)
	}

	log.Info("RabbitMQ publisher ready on queue %s", queue)

	return &RabbitMQPublisher{conn: conn, channel: ch, queue: queue, log: log}, nil
}

func (p *RabbitMQPublisher) PublishPropertyEvent(ctx context.Context, action ports.PropertyAction, propertyID uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	body, err := json.Marshal(PropertyMessage{Action: string(action), PropertyID: propertyID.String()})
	if err != nil {
		return fmt.Errorf("failed to encode property message: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.channel.Publish("", p.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("failed to publish %s for property %s: %w", action, propertyID, err)
	}

	p.log.Debug("published %s for property %s", action, propertyID)
	return nil
}

func (p *RabbitMQPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.channel.Close(); err != nil {
		return err
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

// NopPublisher drops every event. It stands in when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) PublishPropertyEvent(context.Context, ports.PropertyAction, uuid.UUID) error {
	return nil
}
