package messaging

import (
	"context"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// Message is one outbound broker message
type Message struct {
	ID         string
	RoutingKey string
	Body       []byte
	Timestamp  time.Time
}

// Publisher delivers messages to an external broker
type Publisher interface {
	Publish(ctx context.Context, msg Message) error
}

// amqpChannel is the part of *amqp.Channel the publisher needs
type amqpChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// AMQPPublisher publishes persistent JSON messages to one exchange
type AMQPPublisher struct {
	channel  amqpChannel
	exchange string
	appID    string
	logger   *zap.Logger
}

// NewAMQPPublisher declares the exchange and returns a publisher bound to it
func NewAMQPPublisher(rmq *RabbitMQ, exchange, appID string, logger *zap.Logger) (*AMQPPublisher, error) {
	if err := rmq.DeclareExchange(exchange); err != nil {
		return nil, fmt.Errorf("failed to declare exchange %s: %w", exchange, err)
	}
	return newAMQPPublisher(rmq.Channel(), exchange, appID, logger), nil
}

func newAMQPPublisher(channel amqpChannel, exchange, appID string, logger *zap.Logger) *AMQPPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AMQPPublisher{
		channel:  channel,
		exchange: exchange,
		appID:    appID,
		logger:   logger,
	}
}

// Publish sends msg with persistent delivery
func (p *AMQPPublisher) Publish(ctx context.Context, msg Message) error {
	timestamp := msg.Timestamp
	if timestamp.IsZero() {
		timestamp = time.Now()
	}

	err := p.channel.PublishWithContext(ctx,
		p.exchange,     // exchange
		msg.RoutingKey, // routing key
		false,          // mandatory
		false,          // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    msg.ID,
			AppId:        p.appID,
			Timestamp:    timestamp.UTC(),
			Body:         msg.Body,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish %s: %w", msg.RoutingKey, err)
	}

	p.logger.Debug("Message published",
		zap.String("exchange", p.exchange),
		zap.String("routing_key", msg.RoutingKey),
		zap.String("message_id", msg.ID),
	)
	return nil
}

var _ Publisher = (*AMQPPublisher)(nil)
