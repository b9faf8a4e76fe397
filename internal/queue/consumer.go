package queue

import (
    "context"
    "encoding/json"
    "errors"
    "fmt"
    "io"
    "os"
    "path/filepath"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"
    "go.uber.org/zap"
)

// Consumer drains the ledger queue and appends one line per event to a log
// file.  It reconnects with exponential backoff until its context ends.
type Consumer struct {
    URL     string
    Queue   string
    LogPath string
    Log     *zap.Logger
}

// Run blocks until ctx is cancelled.  Malformed messages are rejected
// without requeueing so they cannot loop.
func (c *Consumer) Run(ctx context.Context) error {
    backoff := time.Second
    for {
        conn, err := amqp.Dial(c.URL)
        if err != nil {
            c.Log.Warn("dial failed; retrying", zap.Error(err), zap.Duration("backoff", backoff))
            if !sleep(ctx, backoff) {
                return ctx.Err()
            }
            if backoff < 30*time.Second {
                backoff *= 2
            }
            continue
        }
        backoff = time.Second // reset after successful connect

        err = c.consume(ctx, conn)
        _ = conn.Close()
        if ctx.Err() != nil {
            return ctx.Err()
        }
        c.Log.Warn("consume loop ended; reconnecting", zap.Error(err))
        if !sleep(ctx, 2*time.Second) {
            return ctx.Err()
        }
    }
}

func (c *Consumer) consume(ctx context.Context, conn *amqp.Connection) error {
    ch, err := conn.Channel()
    if err != nil {
        return fmt.Errorf("channel open: %w", err)
    }
    defer func() { _ = ch.Close() }()

    if err := ch.Qos(50, 0, false); err != nil {
        c.Log.Warn("set QoS failed", zap.Error(err))
    }
    if _, err := ch.QueueDeclare(c.Queue, true, false, false, false, nil); err != nil {
        return fmt.Errorf("queue declare: %w", err)
    }
    msgs, err := ch.ConsumeWithContext(ctx, c.Queue, "", false, false, false, false, nil)
    if err != nil {
        return fmt.Errorf("queue consume: %w", err)
    }

    for d := range msgs {
        if err := c.handle(d.Body); err != nil {
            c.Log.Warn("handle message failed", zap.Error(err))
            _ = d.Nack(false, false)
            continue
        }
        _ = d.Ack(false)
    }
    return errors.New("deliveries channel closed")
}

func (c *Consumer) handle(body []byte) error {
    if err := os.MkdirAll(filepath.Dir(c.LogPath), 0o755); err != nil {
        return fmt.Errorf("mkdir logs: %w", err)
    }
    f, err := os.OpenFile(c.LogPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
    if err != nil {
        return fmt.Errorf("open log file: %w", err)
    }
    defer f.Close()
    return WriteEventLine(f, body)
}

// WriteEventLine decodes one message body and writes it as a single line.
func WriteEventLine(w io.Writer, body []byte) error {
    var ev LedgerEvent
    if err := json.Unmarshal(body, &ev); err != nil {
        return fmt.Errorf("unmarshal: %w", err)
    }
    if ev.Type == "" {
        return errors.New("event without type")
    }

    var line string
    switch ev.Type {
    case EventPaymentRecorded:
        line = fmt.Sprintf("[%s] Payment recorded | payment_id=%d | sale_id=%d | customer_id=%d | amount=%s\n",
            ev.OccurredAt.UTC().Format(time.RFC3339), ev.PaymentID, ev.SaleID, ev.CustomerID, ev.Amount)
    case EventSaleCreated:
        line = fmt.Sprintf("[%s] Sale created | sale_id=%d | customer_id=%d | customer=%q | items=%d | total=%s\n",
            ev.OccurredAt.UTC().Format(time.RFC3339), ev.SaleID, ev.CustomerID, ev.CustomerName, ev.ItemCount, ev.Amount)
    default:
        line = fmt.Sprintf("[%s] %s | sale_id=%d\n", ev.OccurredAt.UTC().Format(time.RFC3339), ev.Type, ev.SaleID)
    }
    if _, err := io.WriteString(w, line); err != nil {
        return fmt.Errorf("write log: %w", err)
    }
    return nil
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
