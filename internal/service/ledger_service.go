package service

import (
	"context"
	"strings"

	"github.com/joyas-pwa/joyas-api/internal/apperr"
	"github.com/joyas-pwa/joyas-api/internal/ledger"
	"github.com/joyas-pwa/joyas-api/internal/model"
	"github.com/joyas-pwa/joyas-api/internal/utils"
)

// LedgerService serves the derived figures: statements, KPIs and history.
// Everything is recomputed from stored rows on each call.
type LedgerService struct {
	sales SaleStore
	agg   ledger.Aggregator
	now   utils.Clock
}

// NewLedgerService wires the service.  A nil clock means utils.SystemClock.
func NewLedgerService(sales SaleStore, agg ledger.Aggregator, clock utils.Clock) *LedgerService {
	if clock == nil {
		clock = utils.SystemClock
	}
	return &LedgerService{sales: sales, agg: agg, now: clock}
}

// Statement returns the statement of one sale.
func (s *LedgerService) Statement(ctx context.Context, saleID uint64) (model.SaleStatement, error) {
	l, err := s.sales.LoadLedger(ctx, saleID)
	if err != nil {
		return model.SaleStatement{}, notFoundOr(err, "sale not found", "could not load sale")
	}
	return s.agg.Statement(l), nil
}

// KPIs returns the business-wide dashboard figures.
func (s *LedgerService) KPIs(ctx context.Context) (model.KPIs, error) {
	ls, err := s.sales.ListLedgers(ctx, 0)
	if err != nil {
		return model.KPIs{}, apperr.Internal(err, "could not load sales")
	}
	return s.agg.KPIs(ls), nil
}

const (
	minHistoryYear = 2000
	maxHistoryYear = 2100
)

// MonthlyHistory returns completed sales grouped by month and customer.
func (s *LedgerService) MonthlyHistory(ctx context.Context, f ledger.HistoryFilter) ([]model.HistoryRow, error) {
	fields := map[string]string{}
	if f.Month != 0 && (f.Month < 1 || f.Month > 12) {
		fields["month"] = "must be between 1 and 12"
	}
	if f.Year != 0 && (f.Year < minHistoryYear || f.Year > maxHistoryYear) {
		fields["year"] = "must be between 2000 and 2100"
	}
	if len(fields) > 0 {
		return nil, apperr.Validation("invalid history filter", fields)
	}

	ls, err := s.sales.ListLedgers(ctx, 0)
	if err != nil {
		return nil, apperr.Internal(err, "could not load sales")
	}
	return s.agg.MonthlyHistory(ls, f, s.now()), nil
}

// StatementQuery filters SalesStatements.  Zero values mean no filter.
type StatementQuery struct {
	Status model.AccountStatus
	Search string
}

// SalesStatements pages through sale statements, most recent purchase
// first, optionally filtered by status and customer name.
func (s *LedgerService) SalesStatements(ctx context.Context, q StatementQuery, p Page) (Paged[model.SaleStatement], error) {
	ls, err := s.sales.ListLedgers(ctx, 0)
	if err != nil {
		return Paged[model.SaleStatement]{}, apperr.Internal(err, "could not load sales")
	}
	search := strings.ToLower(strings.TrimSpace(q.Search))
	var matched []model.SaleStatement
	for _, st := range s.agg.Statements(ls) {
		if q.Status != "" && st.AccountStatus != q.Status {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(st.CustomerName), search) {
			continue
		}
		matched = append(matched, st)
	}
	return paginate(matched, p), nil
}
