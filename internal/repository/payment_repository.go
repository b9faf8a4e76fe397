package repository

import (
	"context"
	"database/sql"

	"github.com/joyas-pwa/joyas-api/internal/model"
)

// PaymentRepo provides access to the payment table.
type PaymentRepo struct {
	db *sql.DB
}

// NewPaymentRepo returns a PaymentRepo bound to db.
func NewPaymentRepo(db *sql.DB) *PaymentRepo { return &PaymentRepo{db: db} }

const paymentColumns = "p.id, p.sale_id, p.paid_at, p.amount, p.created_at"

func scanPayment(s scanner) (model.Payment, error) {
	var p model.Payment
	err := s.Scan(&p.ID, &p.SaleID, &p.PaidAt, &p.Amount, &p.CreatedAt)
	return p, err
}

// Create inserts a payment and fills in ID and CreatedAt.  A payment for a
// sale that no longer exists yields ErrForeignKey.
func (r *PaymentRepo) Create(ctx context.Context, p *model.Payment) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO payment (sale_id, paid_at, amount) VALUES (?, ?, ?)", p.SaleID, p.PaidAt, p.Amount)
	if err != nil {
		return translate(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	row := r.db.QueryRowContext(ctx, "SELECT "+paymentColumns+" FROM payment p WHERE p.id = ?", id)
	stored, err := scanPayment(row)
	if err != nil {
		return translate(err)
	}
	*p = stored
	return nil
}

// List returns one page of payments, most recent first.  A zero saleID
// lists payments of every sale.
func (r *PaymentRepo) List(ctx context.Context, saleID uint64, limit, offset int) ([]model.Payment, int, error) {
	where := ""
	var args []any
	if saleID != 0 {
		where = " WHERE p.sale_id = ?"
		args = append(args, saleID)
	}

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM payment p"+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	q := "SELECT " + paymentColumns + " FROM payment p" + where + " ORDER BY p.paid_at DESC, p.id DESC LIMIT ? OFFSET ?"
	rows, err := r.db.QueryContext(ctx, q, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]model.Payment, 0, limit)
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, p)
	}
	return out, total, rows.Err()
}
