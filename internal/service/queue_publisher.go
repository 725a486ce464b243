// Package service publishes domain events to RabbitMQ.  Publishing is best
// effort: failures are logged and returned so callers can ignore them
// without interrupting the request that produced the event.
package service

import (
    "context"
    "encoding/json"
    "time"

    "github.com/pkg/errors"
    amqp "github.com/rabbitmq/amqp091-go"
    "github.com/sirupsen/logrus"

    "github.com/iliyamo/quic/internal/config"
    q "github.com/iliyamo/quic/internal/queue"
)

// Publisher delivers activity events.
type Publisher interface {
    Publish(ctx context.Context, ev q.ActivityEvent) error
}

// NewPublisher returns an AMQP publisher when activity events are enabled
// and a no-op otherwise.
func NewPublisher(cfg config.ActivityConfig, log logrus.FieldLogger) Publisher {
    if !cfg.Enabled {
        return Noop{}
    }
    return &AMQPPublisher{url: cfg.URL, queue: cfg.Queue, log: log}
}

// Noop discards every event.
type Noop struct{}

func (Noop) Publish(context.Context, q.ActivityEvent) error { return nil }

// AMQPPublisher dials the broker per event.  Event volume is one message
// per create request, so a connection per publish is acceptable.
type AMQPPublisher struct {
    url   string
    queue string
    log   logrus.FieldLogger
}

// Publish sends ev to the activity queue as a persistent JSON message.
func (p *AMQPPublisher) Publish(ctx context.Context, ev q.ActivityEvent) error {
    err := p.publish(ctx, ev)
    if err != nil {
        p.log.WithError(err).WithField("event", ev.Type).Warn("rabbitmq: publish failed")
    }
    return err
}

func (p *AMQPPublisher) publish(ctx context.Context, ev q.ActivityEvent) error {
    conn, err := q.Dial(ctx, p.url)
    if err != nil {
        return err
    }
    defer func() { _ = conn.Close() }()

    ch, err := conn.Channel()
    if err != nil {
        return errors.Wrap(err, "channel open")
    }
    defer func() { _ = ch.Close() }()

    // idempotent; durable so messages survive broker restarts
    if _, err := ch.QueueDeclare(p.queue, true, false, false, false, nil); err != nil {
        return errors.Wrap(err, "queue declare")
    }

    body, err := json.Marshal(ev)
    if err != nil {
        return errors.Wrap(err, "marshal event")
    }
    return errors.Wrap(ch.PublishWithContext(ctx, "", p.queue, false, false, amqp.Publishing{
        ContentType:  "application/json",
        DeliveryMode: amqp.Persistent,
        Timestamp:    time.Now().UTC(),
        Type:         ev.Type,
        Body:         body,
    }), "publish")
}
