package handler

import (
    "bytes"
    "encoding/json"
    "fmt"
    "time"

    "github.com/shopspring/decimal"

    "github.com/joyas-pwa/joyas-api/internal/model"
    "github.com/joyas-pwa/joyas-api/internal/service"
)

const dateLayout = "2006-01-02"

// Date is a calendar date encoded as "YYYY-MM-DD".  Decoding also accepts a
// full RFC 3339 timestamp and keeps only its date.
type Date struct{ time.Time }

func (d Date) MarshalJSON() ([]byte, error) {
    return json.Marshal(d.Format(dateLayout))
}

func (d *Date) UnmarshalJSON(b []byte) error {
    if bytes.Equal(b, []byte("null")) {
        return nil
    }
    var s string
    if err := json.Unmarshal(b, &s); err != nil {
        return fmt.Errorf("date must be a string: %w", err)
    }
    if t, err := time.Parse(dateLayout, s); err == nil {
        d.Time = t
        return nil
    }
    t, err := time.Parse(time.RFC3339, s)
    if err != nil {
        return fmt.Errorf("date %q is not YYYY-MM-DD", s)
    }
    d.Time = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
    return nil
}

func datePtr(t *time.Time) *Date {
    if t == nil {
        return nil
    }
    return &Date{*t}
}

func timePtr(d *Date) *time.Time {
    if d == nil {
        return nil
    }
    t := d.Time
    return &t
}

// money renders an amount with exactly two decimals.
func money(d decimal.Decimal) string { return d.StringFixed(2) }

// ----- responses -----

type userResp struct {
    ID        uint64    `json:"id"`
    Username  string    `json:"username"`
    CreatedAt time.Time `json:"created_at"`
}

func newUserResp(u model.User) userResp {
    return userResp{ID: u.ID, Username: u.Username, CreatedAt: u.CreatedAt}
}

type customerResp struct {
    ID        uint64    `json:"id"`
    FullName  string    `json:"full_name"`
    Phone     *string   `json:"phone"`
    CreatedAt time.Time `json:"created_at"`
}

func newCustomerResp(c model.Customer) customerResp {
    return customerResp{ID: c.ID, FullName: c.FullName, Phone: c.Phone, CreatedAt: c.CreatedAt}
}

type saleResp struct {
    ID              uint64         `json:"id"`
    CustomerID      uint64         `json:"customer_id"`
    PurchaseDate    Date           `json:"purchase_date"`
    PaymentDueDate  *Date          `json:"payment_due_date"`
    DeliveryDate    *Date          `json:"delivery_date"`
    DeliveryAddress string         `json:"delivery_address"`
    Notes           *string        `json:"notes"`
    CreatedAt       time.Time      `json:"created_at"`
    Items           []saleItemResp `json:"items,omitempty"`
}

func newSaleResp(s model.Sale) saleResp {
    return saleResp{
        ID:              s.ID,
        CustomerID:      s.CustomerID,
        PurchaseDate:    Date{s.PurchaseDate},
        PaymentDueDate:  datePtr(s.PaymentDueDate),
        DeliveryDate:    datePtr(s.DeliveryDate),
        DeliveryAddress: s.DeliveryAddress,
        Notes:           s.Notes,
        CreatedAt:       s.CreatedAt,
    }
}

type saleItemResp struct {
    ID          uint64    `json:"id"`
    SaleID      uint64    `json:"sale_id"`
    ProductCode *string   `json:"product_code"`
    JewelType   string    `json:"jewel_type"`
    Quantity    int       `json:"quantity"`
    UnitPrice   string    `json:"unit_price"`
    PhotoURL    *string   `json:"photo_url"`
    CreatedAt   time.Time `json:"created_at"`
}

func newSaleItemResp(it model.SaleItem) saleItemResp {
    return saleItemResp{
        ID:          it.ID,
        SaleID:      it.SaleID,
        ProductCode: it.ProductCode,
        JewelType:   it.JewelType,
        Quantity:    it.Quantity,
        UnitPrice:   money(it.UnitPrice),
        PhotoURL:    it.PhotoURL,
        CreatedAt:   it.CreatedAt,
    }
}

type paymentResp struct {
    ID        uint64    `json:"id"`
    SaleID    uint64    `json:"sale_id"`
    PaidAt    time.Time `json:"paid_at"`
    Amount    string    `json:"amount"`
    CreatedAt time.Time `json:"created_at"`
}

func newPaymentResp(p model.Payment) paymentResp {
    return paymentResp{ID: p.ID, SaleID: p.SaleID, PaidAt: p.PaidAt, Amount: money(p.Amount), CreatedAt: p.CreatedAt}
}

type statementResp struct {
    SaleID          uint64 `json:"sale_id"`
    CustomerID      uint64 `json:"customer_id"`
    CustomerName    string `json:"customer_name"`
    PurchaseDate    Date   `json:"purchase_date"`
    PaymentDueDate  *Date  `json:"payment_due_date"`
    DeliveryDate    *Date  `json:"delivery_date"`
    DeliveryAddress string `json:"delivery_address"`
    SaleTotal       string `json:"sale_total"`
    PaidTotal       string `json:"paid_total"`
    Remaining       string `json:"remaining"`
    AccountStatus   string `json:"account_status"`
}

func newStatementResp(st model.SaleStatement) statementResp {
    return statementResp{
        SaleID:          st.SaleID,
        CustomerID:      st.CustomerID,
        CustomerName:    st.CustomerName,
        PurchaseDate:    Date{st.PurchaseDate},
        PaymentDueDate:  datePtr(st.PaymentDueDate),
        DeliveryDate:    datePtr(st.DeliveryDate),
        DeliveryAddress: st.DeliveryAddress,
        SaleTotal:       money(st.SaleTotal),
        PaidTotal:       money(st.PaidTotal),
        Remaining:       money(st.Remaining),
        AccountStatus:   string(st.AccountStatus),
    }
}

type kpisResp struct {
    TotalJoyasVendidas int64  `json:"total_joyas_vendidas"`
    TotalYaPagado      string `json:"total_ya_pagado"`
    DineroFaltante     string `json:"dinero_faltante"`
    TotalVendido       string `json:"total_vendido"`
    DineroAEntregar    string `json:"dinero_a_entregar"`
    Ganancia40         string `json:"ganancia_40"`
}

func newKPIsResp(k model.KPIs) kpisResp {
    return kpisResp{
        TotalJoyasVendidas: k.ItemsSold,
        TotalYaPagado:      money(k.TotalPaid),
        DineroFaltante:     money(k.Outstanding),
        TotalVendido:       money(k.TotalSold),
        DineroAEntregar:    money(k.ToRemit),
        Ganancia40:         money(k.Profit),
    }
}

type historyRowResp struct {
    Month        Date   `json:"month"`
    CustomerID   uint64 `json:"customer_id"`
    CustomerName string `json:"customer_name"`
    SalesCount   int    `json:"sales_count"`
    TotalVendido string `json:"total_vendido"`
    Ganancia40   string `json:"ganancia_40"`
}

func newHistoryRowResp(r model.HistoryRow) historyRowResp {
    return historyRowResp{
        Month:        Date{r.Month},
        CustomerID:   r.CustomerID,
        CustomerName: r.CustomerName,
        SalesCount:   r.SalesCount,
        TotalVendido: money(r.TotalSold),
        Ganancia40:   money(r.Profit),
    }
}

// pageResp is the envelope of every paginated listing.
type pageResp[T any] struct {
    Items      []T `json:"items"`
    Total      int `json:"total"`
    Page       int `json:"page"`
    PageSize   int `json:"page_size"`
    TotalPages int `json:"total_pages"`
}

func newPageResp[M, T any](p service.Paged[M], conv func(M) T) pageResp[T] {
    items := make([]T, 0, len(p.Items))
    for _, m := range p.Items {
        items = append(items, conv(m))
    }
    return pageResp[T]{Items: items, Total: p.Total, Page: p.Page, PageSize: p.PageSize, TotalPages: p.TotalPages()}
}
