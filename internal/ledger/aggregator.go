// Package ledger derives sale statements, dashboard KPIs and the monthly
// sales history from raw sale, item and payment rows.  Nothing here touches
// storage: callers fetch the rows, the Aggregator does the arithmetic.
package ledger

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/joyas-pwa/joyas-api/internal/model"
)

// DefaultProfitRate is the share of total sales counted as profit.
var DefaultProfitRate = decimal.RequireFromString("0.40")

// Aggregator computes derived figures.
type Aggregator struct {
	ProfitRate decimal.Decimal
}

// New returns an Aggregator for the given profit rate.
func New(profitRate decimal.Decimal) Aggregator {
	return Aggregator{ProfitRate: profitRate}
}

// SaleTotal is Σ quantity × unit price over the items.
func SaleTotal(items []model.SaleItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.LineTotal())
	}
	return total
}

// PaidTotal is Σ amount over the payments.
func PaidTotal(payments []model.Payment) decimal.Decimal {
	total := decimal.Zero
	for _, p := range payments {
		total = total.Add(p.Amount)
	}
	return total
}

// StatusFor classifies a balance.  Anything with nothing left to pay is
// PAGADO, including sales with no items; otherwise any money received makes
// it PARCIAL.
func StatusFor(remaining, paid decimal.Decimal) model.AccountStatus {
	switch {
	case !remaining.IsPositive():
		return model.StatusPaid
	case paid.IsPositive():
		return model.StatusPartial
	default:
		return model.StatusPending
	}
}

// Statement builds the statement of one sale.  Remaining is negative when
// the sale is overpaid.
func (a Aggregator) Statement(l model.SaleLedger) model.SaleStatement {
	total := SaleTotal(l.Items)
	paid := PaidTotal(l.Payments)
	remaining := total.Sub(paid)
	return model.SaleStatement{
		SaleID:          l.Sale.ID,
		CustomerID:      l.Sale.CustomerID,
		CustomerName:    l.CustomerName,
		PurchaseDate:    l.Sale.PurchaseDate,
		PaymentDueDate:  l.Sale.PaymentDueDate,
		DeliveryDate:    l.Sale.DeliveryDate,
		DeliveryAddress: l.Sale.DeliveryAddress,
		SaleTotal:       total,
		PaidTotal:       paid,
		Remaining:       remaining,
		AccountStatus:   StatusFor(remaining, paid),
	}
}

// Statements maps Statement over ledgers, keeping their order.
func (a Aggregator) Statements(ls []model.SaleLedger) []model.SaleStatement {
	out := make([]model.SaleStatement, 0, len(ls))
	for _, l := range ls {
		out = append(out, a.Statement(l))
	}
	return out
}

// KPIs sums the dashboard figures over every sale.  Overpaid sales do not
// reduce the outstanding amount of other sales.
func (a Aggregator) KPIs(ls []model.SaleLedger) model.KPIs {
	k := model.KPIs{
		TotalPaid:   decimal.Zero,
		Outstanding: decimal.Zero,
		TotalSold:   decimal.Zero,
	}
	for _, l := range ls {
		for _, it := range l.Items {
			k.ItemsSold += int64(it.Quantity)
		}
		st := a.Statement(l)
		k.TotalSold = k.TotalSold.Add(st.SaleTotal)
		k.TotalPaid = k.TotalPaid.Add(st.PaidTotal)
		if st.Remaining.IsPositive() {
			k.Outstanding = k.Outstanding.Add(st.Remaining)
		}
	}
	k.Profit = k.TotalSold.Mul(a.ProfitRate)
	k.ToRemit = k.TotalSold.Sub(k.Profit)
	return k
}

// HistoryFilter narrows MonthlyHistory.  Year and Month are zero when unset;
// Month is ignored without Year.
type HistoryFilter struct {
	Year  int
	Month int
}

// window returns the half-open [from, to) range selected by f.  A zero to
// leaves the range open ended: the default covers the twelve months before
// the current one onward, future-dated sales included.
func (f HistoryFilter) window(now time.Time) (from, to time.Time) {
	switch {
	case f.Year > 0 && f.Month >= 1 && f.Month <= 12:
		from = time.Date(f.Year, time.Month(f.Month), 1, 0, 0, 0, 0, time.UTC)
		return from, from.AddDate(0, 1, 0)
	case f.Year > 0:
		from = time.Date(f.Year, time.January, 1, 0, 0, 0, 0, time.UTC)
		return from, from.AddDate(1, 0, 0)
	default:
		return monthStart(now).AddDate(0, -12, 0), time.Time{}
	}
}

func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

type historyKey struct {
	month    time.Time
	customer uint64
}

// MonthlyHistory groups completed (PAGADO) sales by purchase month and
// customer.  Rows are ordered by month descending, then total descending,
// then customer id.
func (a Aggregator) MonthlyHistory(ls []model.SaleLedger, f HistoryFilter, now time.Time) []model.HistoryRow {
	from, to := f.window(now)
	groups := make(map[historyKey]*model.HistoryRow)
	for _, l := range ls {
		st := a.Statement(l)
		if st.AccountStatus != model.StatusPaid {
			continue
		}
		m := monthStart(st.PurchaseDate)
		if m.Before(from) || (!to.IsZero() && !m.Before(to)) {
			continue
		}
		key := historyKey{month: m, customer: st.CustomerID}
		row, ok := groups[key]
		if !ok {
			row = &model.HistoryRow{
				Month:        m,
				CustomerID:   st.CustomerID,
				CustomerName: st.CustomerName,
				TotalSold:    decimal.Zero,
			}
			groups[key] = row
		}
		row.SalesCount++
		row.TotalSold = row.TotalSold.Add(st.SaleTotal)
	}

	out := make([]model.HistoryRow, 0, len(groups))
	for _, row := range groups {
		row.Profit = row.TotalSold.Mul(a.ProfitRate)
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Month.Equal(out[j].Month) {
			return out[i].Month.After(out[j].Month)
		}
		if c := out[i].TotalSold.Cmp(out[j].TotalSold); c != 0 {
			return c > 0
		}
		return out[i].CustomerID < out[j].CustomerID
	})
	return out
}
