package router

import (
	"github.com/labstack/echo/v4"

	"github.com/joyas-pwa/joyas-api/internal/handler"
)

// RegisterLedger registers the derived figures: statements, KPIs and the
// monthly history.  Every route requires a valid bearer token.
func RegisterLedger(e *echo.Echo, h *handler.LedgerHandler, bearer echo.MiddlewareFunc) {
	e.GET("/sales/:id/statement", h.Statement, bearer)
	e.GET("/kpis", h.KPIs, bearer)

	d := e.Group("/dashboard", bearer)
	d.GET("/kpis", h.KPIs)
	d.GET("/sales-statements", h.SalesStatements)

	e.GET("/history/monthly", h.MonthlyHistory, bearer)
}
