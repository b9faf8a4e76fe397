package model

import (
    "time"

    "github.com/shopspring/decimal"
)

// Sale is the header of a purchase made by a customer.  Its line items and
// payments live in separate tables and are removed with it.
//
// Fields:
//  ID              – primary key identifier.
//  CustomerID      – buyer; must reference an existing customer.
//  PurchaseDate    – calendar date of the purchase (defaults to the
//                    creation date).
//  PaymentDueDate  – optional date by which the balance is due.
//  DeliveryDate    – optional delivery date.
//  DeliveryAddress – where the jewelry is delivered.
//  Notes           – free text.
//  CreatedAt       – creation timestamp.
type Sale struct {
    ID              uint64     // sale.id
    CustomerID      uint64     // sale.customer_id
    PurchaseDate    time.Time  // sale.purchase_date
    PaymentDueDate  *time.Time // sale.payment_due_date (nullable)
    DeliveryDate    *time.Time // sale.delivery_date (nullable)
    DeliveryAddress string     // sale.delivery_address
    Notes           *string    // sale.notes (nullable)
    CreatedAt       time.Time  // sale.created_at
}

// SaleItem is one line of a sale.  Quantity and UnitPrice are strictly
// positive.
type SaleItem struct {
    ID          uint64          // sale_item.id
    SaleID      uint64          // sale_item.sale_id
    ProductCode *string         // sale_item.product_code (nullable)
    JewelType   string          // sale_item.jewel_type
    Quantity    int             // sale_item.quantity
    UnitPrice   decimal.Decimal // sale_item.unit_price
    PhotoURL    *string         // sale_item.photo_url (nullable)
    CreatedAt   time.Time       // sale_item.created_at
}

// LineTotal is quantity × unit price.
func (i SaleItem) LineTotal() decimal.Decimal {
    return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Payment is money received against a sale.
type Payment struct {
    ID        uint64          // payment.id
    SaleID    uint64          // payment.sale_id
    PaidAt    time.Time       // payment.paid_at
    Amount    decimal.Decimal // payment.amount
    CreatedAt time.Time       // payment.created_at
}

// SaleLedger is everything needed to derive a sale's statement: the header,
// the buyer's name and the full set of items and payments as of read time.
type SaleLedger struct {
    Sale         Sale
    CustomerName string
    Items        []SaleItem
    Payments     []Payment
}
