package handler

import (
    "net/http"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/shopspring/decimal"

    "github.com/joyas-pwa/joyas-api/internal/service"
)

type createPaymentReq struct {
    SaleID uint64          `json:"sale_id" validate:"required"`
    Amount decimal.Decimal `json:"amount"`
    PaidAt *time.Time      `json:"paid_at"`
}

func (h *SalesHandler) CreatePayment(c echo.Context) error {
    var req createPaymentReq
    if err := bindAndValidate(c, &req); err != nil {
        return err
    }
    ctx, cancel := requestContext(c)
    defer cancel()

    p, err := h.Sales.CreatePayment(ctx, service.PaymentInput{SaleID: req.SaleID, Amount: req.Amount, PaidAt: req.PaidAt})
    if err != nil {
        return err
    }
    return c.JSON(http.StatusCreated, newPaymentResp(p))
}

// ListPayments supports ?sale_id= plus paging.
func (h *SalesHandler) ListPayments(c echo.Context) error {
    saleID, err := queryID(c, "sale_id")
    if err != nil {
        return err
    }
    page, err := pageParams(c)
    if err != nil {
        return err
    }
    ctx, cancel := requestContext(c)
    defer cancel()

    res, err := h.Sales.ListPayments(ctx, saleID, page)
    if err != nil {
        return err
    }
    return c.JSON(http.StatusOK, newPageResp(res, newPaymentResp))
}
