package handler

import (
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/joyas-pwa/joyas-api/internal/ledger"
    "github.com/joyas-pwa/joyas-api/internal/service"
)

// LedgerHandler serves statements, KPIs and the monthly history.
type LedgerHandler struct {
    Ledger *service.LedgerService
}

func NewLedgerHandler(l *service.LedgerService) *LedgerHandler {
    return &LedgerHandler{Ledger: l}
}

// Statement returns the computed statement of one sale.
func (h *LedgerHandler) Statement(c echo.Context) error {
    id, err := pathID(c, "id")
    if err != nil {
        return err
    }
    ctx, cancel := requestContext(c)
    defer cancel()

    st, err := h.Ledger.Statement(ctx, id)
    if err != nil {
        return err
    }
    return c.JSON(http.StatusOK, newStatementResp(st))
}

// KPIs serves both /kpis and /dashboard/kpis.
func (h *LedgerHandler) KPIs(c echo.Context) error {
    ctx, cancel := requestContext(c)
    defer cancel()

    k, err := h.Ledger.KPIs(ctx)
    if err != nil {
        return err
    }
    return c.JSON(http.StatusOK, newKPIsResp(k))
}

// SalesStatements supports ?status_filter= and ?search= plus paging.
func (h *LedgerHandler) SalesStatements(c echo.Context) error {
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

    res, err := h.Ledger.SalesStatements(ctx, service.StatementQuery{Status: status, Search: c.QueryParam("search")}, page)
    if err != nil {
        return err
    }
    return c.JSON(http.StatusOK, newPageResp(res, newStatementResp))
}

// MonthlyHistory supports ?year= and ?month=.  Without a year it starts
// twelve months back and has no upper bound.
func (h *LedgerHandler) MonthlyHistory(c echo.Context) error {
    year, err := queryInt(c, "year", 0)
    if err != nil {
        return err
    }
    month, err := queryInt(c, "month", 0)
    if err != nil {
        return err
    }
    ctx, cancel := requestContext(c)
    defer cancel()

    rows, err := h.Ledger.MonthlyHistory(ctx, ledger.HistoryFilter{Year: year, Month: month})
    if err != nil {
        return err
    }
    out := make([]historyRowResp, 0, len(rows))
    for _, r := range rows {
        out = append(out, newHistoryRowResp(r))
    }
    return c.JSON(http.StatusOK, out)
}
