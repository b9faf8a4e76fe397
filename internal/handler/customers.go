package handler

import (
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/joyas-pwa/joyas-api/internal/service"
)

// SalesHandler serves customers, sales and payments.
type SalesHandler struct {
    Sales *service.SalesService
}

func NewSalesHandler(sales *service.SalesService) *SalesHandler {
    return &SalesHandler{Sales: sales}
}

type createCustomerReq struct {
    FullName string  `json:"full_name" validate:"required,max=200"`
    Phone    *string `json:"phone" validate:"omitempty,max=50"`
}

func (h *SalesHandler) CreateCustomer(c echo.Context) error {
    var req createCustomerReq
    if err := bindAndValidate(c, &req); err != nil {
        return err
    }
    ctx, cancel := requestContext(c)
    defer cancel()

    cust, err := h.Sales.CreateCustomer(ctx, service.CustomerInput{FullName: req.FullName, Phone: req.Phone})
    if err != nil {
        return err
    }
    return c.JSON(http.StatusCreated, newCustomerResp(cust))
}

// ListCustomers supports ?search= on the name plus page and page_size.
func (h *SalesHandler) ListCustomers(c echo.Context) error {
    page, err := pageParams(c)
    if err != nil {
        return err
    }
    ctx, cancel := requestContext(c)
    defer cancel()

    res, err := h.Sales.ListCustomers(ctx, c.QueryParam("search"), page)
    if err != nil {
        return err
    }
    return c.JSON(http.StatusOK, newPageResp(res, newCustomerResp))
}

func (h *SalesHandler) GetCustomer(c echo.Context) error {
    id, err := pathID(c, "id")
    if err != nil {
        return err
    }
    ctx, cancel := requestContext(c)
    defer cancel()

    cust, err := h.Sales.GetCustomer(ctx, id)
    if err != nil {
        return err
    }
    return c.JSON(http.StatusOK, newCustomerResp(cust))
}
