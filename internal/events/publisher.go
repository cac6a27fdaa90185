// Package events publishes ledger change notifications over AMQP. The
// feed is one-way and best-effort: a failed publish is logged and the
// mutation that triggered it is unaffected.
package events

import (
	"context"
	"fmt"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"monetraq/internal/core"
	"monetraq/internal/log"
)

const publishTimeout = 5 * time.Second

// Publisher delivers ChangeMessages to a durable direct exchange. It
// satisfies ledger.EventSink.
type Publisher struct {
	conn         *amqp091.Connection
	channel      *amqp091.Channel
	exchangeName string
	queueName    string
	logger       *log.Logger
}

func NewPublisher(url, exchangeName, queueName string, logger *log.Logger) (*Publisher, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	p := &Publisher{
		conn:         conn,
		channel:      channel,
		exchangeName: exchangeName,
		queueName:    queueName,
		logger:       logger.WithComponent(log.ComponentEvents),
	}

	if err := p.setup(); err != nil {
		p.Close()
		return nil, fmt.Errorf("setup exchange and queue: %w", err)
	}

	return p, nil
}

func (p *Publisher) setup() error {
	err := p.channel.ExchangeDeclare(
		p.exchangeName, // name
		"direct",       // type
		true,           // durable
		false,          // auto-deleted
		false,          // internal
		false,          // no-wait
		nil,            // arguments
	)
	if err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}

	_, err = p.channel.QueueDeclare(
		p.queueName, // name
		true,        // durable
		false,       // delete when unused
		false,       // exclusive
		false,       // no-wait
		nil,         // arguments
	)
	if err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}

	err = p.channel.QueueBind(
		p.queueName,    // queue name
		p.queueName,    // routing key
		p.exchangeName, // exchange
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}

	return nil
}

// EntryAdded implements ledger.EventSink.
func (p *Publisher) EntryAdded(ctx context.Context, e core.Entry) {
	p.publish(ctx, newEntryMessage(ActionEntryAdded, e))
}

// EntryUpdated implements ledger.EventSink.
func (p *Publisher) EntryUpdated(ctx context.Context, e core.Entry) {
	p.publish(ctx, newEntryMessage(ActionEntryUpdated, e))
}

// EntryRemoved implements ledger.EventSink.
func (p *Publisher) EntryRemoved(ctx context.Context, id string) {
	p.publish(ctx, ChangeMessage{Action: ActionEntryRemoved, EntryID: id, Timestamp: time.Now()})
}

// Cleared implements ledger.EventSink.
func (p *Publisher) Cleared(ctx context.Context) {
	p.publish(ctx, ChangeMessage{Action: ActionCleared, Timestamp: time.Now()})
}

func (p *Publisher) publish(ctx context.Context, msg ChangeMessage) {
	body, err := msg.ToJSON()
	if err != nil {
		p.logger.ErrorContext(ctx, "marshal change message failed",
			log.FieldError, err, "action", msg.Action)
		return
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err = p.channel.PublishWithContext(
		ctx,
		p.exchangeName, // exchange
		p.queueName,    // routing key
		false,          // mandatory
		false,          // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	if err != nil {
		p.logger.WarnContext(ctx, "publish change message failed",
			log.FieldError, err, "action", msg.Action, log.FieldEntryID, msg.EntryID)
		return
	}

	p.logger.InfoContext(ctx, "published change message",
		"action", msg.Action, log.FieldEntryID, msg.EntryID, "exchange", p.exchangeName)
}

// Close releases the channel and connection.
func (p *Publisher) Close() error {
	var firstErr error
	if p.channel != nil {
		if err := p.channel.Close(); err != nil {
			firstErr = err
		}
	}
	if p.conn != nil {
		if err := p.conn.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
