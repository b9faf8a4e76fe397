package model

import (
    "time"

    "github.com/shopspring/decimal"
)

// AccountStatus is the payment state of a sale.
type AccountStatus string

const (
    StatusPaid    AccountStatus = "PAGADO"    // nothing left to pay
    StatusPartial AccountStatus = "PARCIAL"   // some money received, balance remains
    StatusPending AccountStatus = "PENDIENTE" // nothing received yet
)

// ParseAccountStatus accepts one of the three status names.
func ParseAccountStatus(s string) (AccountStatus, bool) {
    switch st := AccountStatus(s); st {
    case StatusPaid, StatusPartial, StatusPending:
        return st, true
    }
    return "", false
}

// SaleStatement is the derived financial summary of one sale.  It is
// recomputed on every read and never stored.
type SaleStatement struct {
    SaleID          uint64
    CustomerID      uint64
    CustomerName    string
    PurchaseDate    time.Time
    PaymentDueDate  *time.Time
    DeliveryDate    *time.Time
    DeliveryAddress string
    SaleTotal       decimal.Decimal
    PaidTotal       decimal.Decimal
    Remaining       decimal.Decimal // may be negative when overpaid
    AccountStatus   AccountStatus
}

// KPIs are the business-wide dashboard figures.
type KPIs struct {
    ItemsSold   int64           // total_joyas_vendidas
    TotalPaid   decimal.Decimal // total_ya_pagado
    Outstanding decimal.Decimal // dinero_faltante
    TotalSold   decimal.Decimal // total_vendido
    ToRemit     decimal.Decimal // dinero_a_entregar
    Profit      decimal.Decimal // ganancia_40
}

// HistoryRow aggregates one customer's completed sales in one month.
type HistoryRow struct {
    Month        time.Time // first day of the month
    CustomerID   uint64
    CustomerName string
    SalesCount   int
    TotalSold    decimal.Decimal
    Profit       decimal.Decimal
}
