package queue

import (
    "bytes"
    "context"
    "encoding/json"
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func TestWriteEventLine(t *testing.T) {
    at := time.Date(2026, 5, 3, 14, 30, 0, 0, time.UTC)

    body, err := json.Marshal(LedgerEvent{
        Type: EventPaymentRecorded, SaleID: 9, CustomerID: 4, PaymentID: 31, Amount: "150.00", OccurredAt: at,
    })
    require.NoError(t, err)

    var buf bytes.Buffer
    require.NoError(t, WriteEventLine(&buf, body))
    assert.Equal(t, "[2026-05-03T14:30:00Z] Payment recorded | payment_id=31 | sale_id=9 | customer_id=4 | amount=150.00\n", buf.String())

    body, err = json.Marshal(LedgerEvent{
        Type: EventSaleCreated, SaleID: 9, CustomerID: 4, CustomerName: "Ana", ItemCount: 2, Amount: "250.00", OccurredAt: at,
    })
    require.NoError(t, err)
    buf.Reset()
    require.NoError(t, WriteEventLine(&buf, body))
    assert.Equal(t, "[2026-05-03T14:30:00Z] Sale created | sale_id=9 | customer_id=4 | customer=\"Ana\" | items=2 | total=250.00\n", buf.String())
}

func TestWriteEventLine_Rejects(t *testing.T) {
    var buf bytes.Buffer
    assert.Error(t, WriteEventLine(&buf, []byte("{not json")))
    assert.Error(t, WriteEventLine(&buf, []byte(`{"sale_id":1}`)))
    assert.Zero(t, buf.Len())
}

func TestNopPublisher(t *testing.T) {
    var p Publisher = NopPublisher{}
    assert.NoError(t, p.Publish(context.Background(), LedgerEvent{Type: EventSaleCreated}))
}
