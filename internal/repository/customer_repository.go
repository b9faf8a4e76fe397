package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/joyas-pwa/joyas-api/internal/model"
)

// CustomerRepo provides access to the customer table.
type CustomerRepo struct {
	db *sql.DB
}

// NewCustomerRepo returns a CustomerRepo bound to db.
func NewCustomerRepo(db *sql.DB) *CustomerRepo { return &CustomerRepo{db: db} }

const customerColumns = "id, full_name, phone, created_at"

func scanCustomer(s scanner) (model.Customer, error) {
	var c model.Customer
	err := s.Scan(&c.ID, &c.FullName, &c.Phone, &c.CreatedAt)
	return c, err
}

// Create inserts a customer and fills in ID and CreatedAt.
func (r *CustomerRepo) Create(ctx context.Context, c *model.Customer) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO customer (full_name, phone) VALUES (?, ?)", c.FullName, c.Phone)
	if err != nil {
		return translate(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	stored, err := r.GetByID(ctx, uint64(id))
	if err != nil {
		return err
	}
	*c = stored
	return nil
}

// GetByID returns the customer or ErrNotFound.
func (r *CustomerRepo) GetByID(ctx context.Context, id uint64) (model.Customer, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+customerColumns+" FROM customer WHERE id = ?", id)
	c, err := scanCustomer(row)
	if err != nil {
		return model.Customer{}, translate(err)
	}
	return c, nil
}

// List returns one page of customers, newest first, and the total number of
// matches.  A non-blank search matches names case-insensitively.
func (r *CustomerRepo) List(ctx context.Context, search string, limit, offset int) ([]model.Customer, int, error) {
	where := ""
	var args []any
	if strings.TrimSpace(search) != "" {
		where = " WHERE LOWER(full_name) LIKE ?"
		args = append(args, likePattern(search))
	}

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM customer"+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	q := "SELECT " + customerColumns + " FROM customer" + where + " ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?"
	rows, err := r.db.QueryContext(ctx, q, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]model.Customer, 0, limit)
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, c)
	}
	return out, total, rows.Err()
}
