package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/joyas-pwa/joyas-api/internal/model"
)

// SaleRepo provides access to sales and their line items.  A sale header and
// its items are always written together in one transaction.
type SaleRepo struct {
	db *sql.DB
}

// NewSaleRepo returns a SaleRepo bound to db.
func NewSaleRepo(db *sql.DB) *SaleRepo { return &SaleRepo{db: db} }

const (
	saleColumns = "s.id, s.customer_id, s.purchase_date, s.payment_due_date, s.delivery_date, s.delivery_address, s.notes, s.created_at"
	itemColumns = "si.id, si.sale_id, si.product_code, si.jewel_type, si.quantity, si.unit_price, si.photo_url, si.created_at"
)

func scanSale(s scanner, extra ...any) (model.Sale, error) {
	var m model.Sale
	dest := []any{&m.ID, &m.CustomerID, &m.PurchaseDate, &m.PaymentDueDate, &m.DeliveryDate,
		&m.DeliveryAddress, &m.Notes, &m.CreatedAt}
	err := s.Scan(append(dest, extra...)...)
	return m, err
}

func scanItem(s scanner) (model.SaleItem, error) {
	var it model.SaleItem
	err := s.Scan(&it.ID, &it.SaleID, &it.ProductCode, &it.JewelType, &it.Quantity,
		&it.UnitPrice, &it.PhotoURL, &it.CreatedAt)
	return it, err
}

// CreateWithItems inserts the sale header and every item in one transaction.
// On success sale and items carry their generated ids and timestamps; on
// failure nothing is stored.  Once the commit succeeds the call succeeds too,
// even when the follow-up read cannot refresh the stored values.
func (r *SaleRepo) CreateWithItems(ctx context.Context, sale *model.Sale, items []model.SaleItem) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const q = `INSERT INTO sale (customer_id, purchase_date, payment_due_date, delivery_date, delivery_address, notes) VALUES (?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, sale.CustomerID, sale.PurchaseDate, sale.PaymentDueDate,
		sale.DeliveryDate, sale.DeliveryAddress, sale.Notes)
	if err != nil {
		return translate(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	sale.ID = uint64(id)

	if err = r.createItemsTx(ctx, tx, sale.ID, items); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return err
	}

	var refreshed *model.Sale
	if stored, gerr := r.GetByID(ctx, sale.ID); gerr == nil {
		refreshed = &stored
	}
	fresh, ierr := r.Items(ctx, sale.ID)
	if ierr != nil {
		fresh = nil
	}
	settleCreated(sale, items, refreshed, fresh, time.Now().UTC())
	return nil
}

// settleCreated copies the stored rows over a freshly inserted sale.  A nil
// stored or a short fresh keeps the inserted values, stamped with now.
func settleCreated(sale *model.Sale, items []model.SaleItem, stored *model.Sale, fresh []model.SaleItem, now time.Time) {
	if stored != nil {
		*sale = *stored
	} else if sale.CreatedAt.IsZero() {
		sale.CreatedAt = now
	}
	if len(fresh) == len(items) {
		copy(items, fresh)
		return
	}
	for i := range items {
		items[i].SaleID = sale.ID
		if items[i].CreatedAt.IsZero() {
			items[i].CreatedAt = now
		}
	}
}

// createItemsTx inserts all items in a single multi-row statement.  An empty
// slice is a no-op.
func (r *SaleRepo) createItemsTx(ctx context.Context, tx *sql.Tx, saleID uint64, items []model.SaleItem) error {
	if len(items) == 0 {
		return nil
	}
	var b strings.Builder
	b.WriteString("INSERT INTO sale_item (sale_id, product_code, jewel_type, quantity, unit_price, photo_url) VALUES ")
	args := make([]any, 0, len(items)*6)
	for i, it := range items {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString("(?, ?, ?, ?, ?, ?)")
		args = append(args, saleID, it.ProductCode, it.JewelType, it.Quantity, it.UnitPrice, it.PhotoURL)
	}
	_, err := tx.ExecContext(ctx, b.String(), args...)
	return translate(err)
}

// GetByID returns the sale header or ErrNotFound.
func (r *SaleRepo) GetByID(ctx context.Context, id uint64) (model.Sale, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+saleColumns+" FROM sale s WHERE s.id = ?", id)
	s, err := scanSale(row)
	if err != nil {
		return model.Sale{}, translate(err)
	}
	return s, nil
}

// Exists reports whether a sale with id exists.
func (r *SaleRepo) Exists(ctx context.Context, id uint64) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx, "SELECT 1 FROM sale WHERE id = ? LIMIT 1", id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	return err == nil, err
}

// List returns one page of sale headers, most recent purchase first.  A
// zero customerID lists every customer's sales.
func (r *SaleRepo) List(ctx context.Context, customerID uint64, limit, offset int) ([]model.Sale, int, error) {
	where, args := saleFilter(customerID)

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM sale s"+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	q := "SELECT " + saleColumns + " FROM sale s" + where + " ORDER BY s.purchase_date DESC, s.id DESC LIMIT ? OFFSET ?"
	rows, err := r.db.QueryContext(ctx, q, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]model.Sale, 0, limit)
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, s)
	}
	return out, total, rows.Err()
}

// Items returns the line items of a sale in insertion order.
func (r *SaleRepo) Items(ctx context.Context, saleID uint64) ([]model.SaleItem, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+itemColumns+" FROM sale_item si WHERE si.sale_id = ? ORDER BY si.id", saleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.SaleItem
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

// LoadLedger reads a sale with its buyer's name, items and payments.
func (r *SaleRepo) LoadLedger(ctx context.Context, saleID uint64) (model.SaleLedger, error) {
	var l model.SaleLedger
	row := r.db.QueryRowContext(ctx,
		"SELECT "+saleColumns+", c.full_name FROM sale s JOIN customer c ON c.id = s.customer_id WHERE s.id = ?", saleID)
	sale, err := scanSale(row, &l.CustomerName)
	if err != nil {
		return model.SaleLedger{}, translate(err)
	}
	l.Sale = sale

	if l.Items, err = r.Items(ctx, saleID); err != nil {
		return model.SaleLedger{}, err
	}
	if l.Payments, err = r.payments(ctx, " WHERE p.sale_id = ?", saleID); err != nil {
		return model.SaleLedger{}, err
	}
	return l, nil
}

// ListLedgers loads every sale (optionally of one customer) with items and
// payments using three queries, ordered by purchase date descending.
func (r *SaleRepo) ListLedgers(ctx context.Context, customerID uint64) ([]model.SaleLedger, error) {
	where, args := saleFilter(customerID)

	rows, err := r.db.QueryContext(ctx,
		"SELECT "+saleColumns+", c.full_name FROM sale s JOIN customer c ON c.id = s.customer_id"+where+
			" ORDER BY s.purchase_date DESC, s.id DESC", args...)
	if err != nil {
		return nil, err
	}
	var ledgers []model.SaleLedger
	index := make(map[uint64]int)
	for rows.Next() {
		var name string
		s, err := scanSale(rows, &name)
		if err != nil {
			rows.Close()
			return nil, err
		}
		index[s.ID] = len(ledgers)
		ledgers = append(ledgers, model.SaleLedger{Sale: s, CustomerName: name})
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()
	if len(ledgers) == 0 {
		return ledgers, nil
	}

	itemRows, err := r.db.QueryContext(ctx,
		"SELECT "+itemColumns+" FROM sale_item si JOIN sale s ON s.id = si.sale_id"+where+" ORDER BY si.id", args...)
	if err != nil {
		return nil, err
	}
	defer itemRows.Close()
	for itemRows.Next() {
		it, err := scanItem(itemRows)
		if err != nil {
			return nil, err
		}
		if i, ok := index[it.SaleID]; ok {
			ledgers[i].Items = append(ledgers[i].Items, it)
		}
	}
	if err := itemRows.Err(); err != nil {
		return nil, err
	}

	pays, err := r.payments(ctx, " JOIN sale s ON s.id = p.sale_id"+where, args...)
	if err != nil {
		return nil, err
	}
	for _, p := range pays {
		if i, ok := index[p.SaleID]; ok {
			ledgers[i].Payments = append(ledgers[i].Payments, p)
		}
	}
	return ledgers, nil
}

func (r *SaleRepo) payments(ctx context.Context, tail string, args ...any) ([]model.Payment, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+paymentColumns+" FROM payment p"+tail+" ORDER BY p.paid_at, p.id", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func saleFilter(customerID uint64) (string, []any) {
	if customerID == 0 {
		return "", nil
	}
	return " WHERE s.customer_id = ?", []any{customerID}
}
