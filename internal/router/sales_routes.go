package router

import (
	"github.com/labstack/echo/v4"

	"github.com/joyas-pwa/joyas-api/internal/handler"
)

// RegisterSales registers customer, sale and payment endpoints.  Every route
// requires a valid bearer token.
func RegisterSales(e *echo.Echo, h *handler.SalesHandler, bearer echo.MiddlewareFunc) {
	c := e.Group("/customers", bearer)
	c.POST("", h.CreateCustomer)
	c.GET("", h.ListCustomers)
	c.GET("/:id", h.GetCustomer)

	s := e.Group("/sales", bearer)
	s.POST("", h.CreateSale)
	s.GET("", h.ListSales)
	s.GET("/:id", h.GetSale)
	s.GET("/:id/items", h.SaleItems)

	p := e.Group("/payments", bearer)
	p.POST("", h.CreatePayment)
	p.GET("", h.ListPayments)
}
