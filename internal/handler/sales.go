package handler

import (
    "net/http"

    "github.com/labstack/echo/v4"
    "github.com/shopspring/decimal"

    "github.com/joyas-pwa/joyas-api/internal/service"
)

type saleItemReq struct {
    ProductCode *string         `json:"product_code" validate:"omitempty,max=100"`
    JewelType   string          `json:"jewel_type" validate:"required,max=100"`
    Quantity    *int            `json:"quantity" validate:"omitempty,gt=0"`
    UnitPrice   decimal.Decimal `json:"unit_price"`
    PhotoURL    *string         `json:"photo_url" validate:"omitempty,max=500"`
}

type createSaleReq struct {
    CustomerID      uint64        `json:"customer_id" validate:"required"`
    PurchaseDate    *Date         `json:"purchase_date"`
    PaymentDueDate  *Date         `json:"payment_due_date"`
    DeliveryDate    *Date         `json:"delivery_date"`
    DeliveryAddress string        `json:"delivery_address" validate:"required,max=500"`
    Notes           *string       `json:"notes"`
    Items           []saleItemReq `json:"items" validate:"dive"`
}

func (r createSaleReq) input() service.SaleInput {
    in := service.SaleInput{
        CustomerID:      r.CustomerID,
        PurchaseDate:    timePtr(r.PurchaseDate),
        PaymentDueDate:  timePtr(r.PaymentDueDate),
        DeliveryDate:    timePtr(r.DeliveryDate),
        DeliveryAddress: r.DeliveryAddress,
        Notes:           r.Notes,
        Items:           make([]service.ItemInput, 0, len(r.Items)),
    }
    for _, it := range r.Items {
        in.Items = append(in.Items, service.ItemInput{
            ProductCode: it.ProductCode,
            JewelType:   it.JewelType,
            Quantity:    it.Quantity,
            UnitPrice:   it.UnitPrice,
            PhotoURL:    it.PhotoURL,
        })
    }
    return in
}

// CreateSale stores a sale and its items atomically and answers with both.
func (h *SalesHandler) CreateSale(c echo.Context) error {
    var req createSaleReq
    if err := bindAndValidate(c, &req); err != nil {
        return err
    }
    ctx, cancel := requestContext(c)
    defer cancel()

    detail, err := h.Sales.CreateSale(ctx, req.input())
    if err != nil {
        return err
    }
    resp := newSaleResp(detail.Sale)
    resp.Items = make([]saleItemResp, 0, len(detail.Items))
    for _, it := range detail.Items {
        resp.Items = append(resp.Items, newSaleItemResp(it))
    }
    return c.JSON(http.StatusCreated, resp)
}

// ListSales supports ?customer_id= and ?status_filter= plus paging.
func (h *SalesHandler) ListSales(c echo.Context) error {
    customerID, err := queryID(c, "customer_id")
    if err != nil {
        return err
    }
    status, err := statusParam(c)
    if err != nil {
        return err
    }
    page, err := pageParams(c)
    if err != nil {
        return err
    }
    ctx, cancel := requestContext(c)
    defer cancel()

    res, err := h.Sales.ListSales(ctx, service.SaleQuery{CustomerID: customerID, Status: status}, page)
    if err != nil {
        return err
    }
    return c.JSON(http.StatusOK, newPageResp(res, newSaleResp))
}

func (h *SalesHandler) GetSale(c echo.Context) error {
    id, err := pathID(c, "id")
    if err != nil {
        return err
    }
    ctx, cancel := requestContext(c)
    defer cancel()

    sale, err := h.Sales.GetSale(ctx, id)
    if err != nil {
        return err
    }
    return c.JSON(http.StatusOK, newSaleResp(sale))
}

func (h *SalesHandler) SaleItems(c echo.Context) error {
    id, err := pathID(c, "id")
    if err != nil {
        return err
    }
    ctx, cancel := requestContext(c)
    defer cancel()

    items, err := h.Sales.SaleItems(ctx, id)
    if err != nil {
        return err
    }
    out := make([]saleItemResp, 0, len(items))
    for _, it := range items {
        out = append(out, newSaleItemResp(it))
    }
    return c.JSON(http.StatusOK, out)
}
