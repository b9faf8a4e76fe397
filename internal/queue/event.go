// Package queue defines message payloads exchanged over the message broker.
package queue

import "time"

// Event types published on the ledger queue.
const (
    EventSaleCreated     = "sale.created"
    EventPaymentRecorded = "payment.recorded"
)

// LedgerEvent is published after a sale or payment is committed.  It carries
// enough for downstream consumers to log or notify without querying the
// primary database.  Money travels as 2-decimal strings.
type LedgerEvent struct {
    Type         string    `json:"type"`
    SaleID       uint64    `json:"sale_id"`
    CustomerID   uint64    `json:"customer_id"`
    CustomerName string    `json:"customer_name,omitempty"`
    PaymentID    uint64    `json:"payment_id,omitempty"`
    Amount       string    `json:"amount"`
    ItemCount    int       `json:"item_count,omitempty"`
    OccurredAt   time.Time `json:"occurred_at"`
}
