package queue

import (
    "context"
    "encoding/json"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"
    "go.uber.org/zap"
)

const dialTimeout = 3 * time.Second

// Publisher sends ledger events.  Implementations must be safe for
// concurrent use.
type Publisher interface {
    Publish(ctx context.Context, ev LedgerEvent) error
}

// NopPublisher drops every event.  It is used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, LedgerEvent) error { return nil }

// AMQPPublisher publishes events to a durable queue on the default exchange.
// It dials per call: event volume is a handful per sale, and a broker outage
// must never break the request that produced the event.
type AMQPPublisher struct {
    url   string
    queue string
    log   *zap.Logger
}

// NewAMQPPublisher returns a publisher for url and queue.
func NewAMQPPublisher(url, queue string, log *zap.Logger) *AMQPPublisher {
    return &AMQPPublisher{url: url, queue: queue, log: log.Named("publisher")}
}

// Publish marshals ev and sends it as a persistent JSON message.  Errors are
// logged and returned so the caller can choose to ignore them.
func (p *AMQPPublisher) Publish(ctx context.Context, ev LedgerEvent) error {
    conn, err := amqp.DialConfig(p.url, amqp.Config{Dial: amqp.DefaultDial(dialTimeout)})
    if err != nil {
        p.log.Warn("dial failed", zap.Error(err))
        return err
    }
    defer func() { _ = conn.Close() }()

    ch, err := conn.Channel()
    if err != nil {
        p.log.Warn("channel open failed", zap.Error(err))
        return err
    }
    defer func() { _ = ch.Close() }()

    // Durable so messages survive broker restarts.
    if _, err := ch.QueueDeclare(p.queue, true, false, false, false, nil); err != nil {
        p.log.Warn("queue declare failed", zap.String("queue", p.queue), zap.Error(err))
        return err
    }

    body, err := json.Marshal(ev)
    if err != nil {
        return err
    }

    pub := amqp.Publishing{
        ContentType:  "application/json",
        DeliveryMode: amqp.Persistent,
        Timestamp:    time.Now().UTC(),
        Type:         ev.Type,
        Body:         body,
    }
    if err := ch.PublishWithContext(ctx, "", p.queue, false, false, pub); err != nil {
        p.log.Warn("publish failed", zap.String("type", ev.Type), zap.Error(err))
        return err
    }
    return nil
}
