package queue

import (
    "context"
    "time"

    "github.com/pkg/errors"
    amqp "github.com/rabbitmq/amqp091-go"
)

// DefaultDialTimeout bounds the TCP connect and AMQP handshake when ctx
// carries no deadline of its own.
const DefaultDialTimeout = 5 * time.Second

// Dial opens a broker connection that gives up once ctx is done or its
// deadline passes.  amqp091 has no context-aware dial, so the remaining
// time becomes the connect and handshake timeout.
func Dial(ctx context.Context, url string) (*amqp.Connection, error) {
    if err := ctx.Err(); err != nil {
        return nil, errors.Wrap(err, "dial")
    }
    timeout := DefaultDialTimeout
    if deadline, ok := ctx.Deadline(); ok {
        timeout = time.Until(deadline)
        if timeout <= 0 {
            return nil, errors.Wrap(context.DeadlineExceeded, "dial")
        }
    }
    conn, err := amqp.DialConfig(url, amqp.Config{
        Dial:      amqp.DefaultDial(timeout),
        Heartbeat: 10 * time.Second,
        Locale:    "en_US",
    })
    if err != nil {
        return nil, errors.Wrap(err, "dial")
    }
    return conn, nil
}
