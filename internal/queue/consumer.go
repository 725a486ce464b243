// Package queue contains the background consumer that listens to the
// activity queue and appends one line per event to the activity log.
package queue

import (
    "context"
    "encoding/json"
    "fmt"
    "os"
    "path/filepath"
    "time"

    "github.com/pkg/errors"
    amqp "github.com/rabbitmq/amqp091-go"
    "github.com/sirupsen/logrus"

    "github.com/iliyamo/quic/internal/config"
)

// StartActivityConsumer connects to RabbitMQ, declares the activity queue
// (durable) and consumes until ctx is cancelled.  Broker failures are
// logged and retried with exponential backoff so the server keeps
// running while the broker is away.
func StartActivityConsumer(ctx context.Context, cfg config.ActivityConfig, log logrus.FieldLogger) error {
    backoff := time.Second
    for {
        conn, err := Dial(ctx, cfg.URL)
        if err != nil {
            log.WithError(err).Warnf("activity-consumer: dial failed, retrying in %s", backoff)
            if !sleep(ctx, backoff) {
                return ctx.Err()
            }
            if backoff < 30*time.Second {
                backoff *= 2
            }
            continue
        }
        backoff = time.Second

        err = consumeLoop(ctx, conn, cfg, log)
        _ = conn.Close()
        if ctx.Err() != nil {
            return ctx.Err()
        }
        log.WithError(err).Warn("activity-consumer: consume loop ended, reconnecting")
        if !sleep(ctx, 2*time.Second) {
            return ctx.Err()
        }
    }
}

func consumeLoop(ctx context.Context, conn *amqp.Connection, cfg config.ActivityConfig, log logrus.FieldLogger) error {
    ch, err := conn.Channel()
    if err != nil {
        return errors.Wrap(err, "channel open")
    }
    defer func() { _ = ch.Close() }()

    if err := ch.Qos(50, 0, false); err != nil {
        log.WithError(err).Warn("activity-consumer: set QoS failed")
    }
    if _, err := ch.QueueDeclare(cfg.Queue, true, false, false, false, nil); err != nil {
        return errors.Wrap(err, "queue declare")
    }
    msgs, err := ch.ConsumeWithContext(ctx, cfg.Queue, "", false, false, false, false, nil)
    if err != nil {
        return errors.Wrap(err, "queue consume")
    }

    for d := range msgs {
        if err := handleMessage(cfg.LogPath, d.Body); err != nil {
            log.WithError(err).Error("activity-consumer: handle message failed")
            _ = d.Nack(false, false) // do not requeue poison messages
            continue
        }
        _ = d.Ack(false)
    }
    return errors.New("deliveries channel closed")
}

// handleMessage decodes one event and appends it to the log at path.
func handleMessage(path string, body []byte) error {
    var ev ActivityEvent
    if err := json.Unmarshal(body, &ev); err != nil {
        return errors.Wrap(err, "unmarshal")
    }
    if ev.Type == "" {
        return errors.New("event without type")
    }
    if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
        return errors.Wrap(err, "mkdir logs")
    }
    f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
    if err != nil {
        return errors.Wrap(err, "open log file")
    }
    defer f.Close()

    if _, err := f.WriteString(formatLine(ev)); err != nil {
        return errors.Wrap(err, "write log")
    }
    return nil
}

func formatLine(ev ActivityEvent) string {
    line := fmt.Sprintf("[%s] %s | user_id=%d", ev.OccurredAt, ev.Type, ev.UserID)
    if ev.Username != "" {
        line += fmt.Sprintf(" | username=%q", ev.Username)
    }
    if ev.FolderID != 0 {
        line += fmt.Sprintf(" | folder_id=%d", ev.FolderID)
    }
    if ev.SetID != 0 {
        line += fmt.Sprintf(" | set_id=%d", ev.SetID)
    }
    if ev.Name != "" {
        line += fmt.Sprintf(" | name=%q", ev.Name)
    }
    return line + "\n"
}

func sleep(ctx context.Context, d time.Duration) bool {
    t := time.NewTimer(d)
    defer t.Stop()
    select {
    case <-ctx.Done():
        return false
    case <-t.C:
        return true
    }
}
