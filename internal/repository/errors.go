// Package repository implements the MySQL data access layer.  Repositories
// return model types and translate driver errors into the sentinel values
// below so that services never inspect SQL errors themselves.
package repository

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
)

// ErrNotFound is returned when a lookup by key matches no row.
var ErrNotFound = errors.New("not found")

// ErrUsernameTaken is returned when inserting a user whose username
// already exists.
var ErrUsernameTaken = errors.New("username already exists")

// ErrForeignKey is returned when an insert references a missing parent
// row, e.g. a payment for a sale deleted in between.
var ErrForeignKey = errors.New("referenced row does not exist")

const (
	mysqlDuplicateEntry = 1062
	mysqlNoReferenced   = 1452
)

// translate maps driver errors onto the sentinels.  Unknown errors pass
// through unchanged.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		switch me.Number {
		case mysqlDuplicateEntry:
			return ErrUsernameTaken
		case mysqlNoReferenced:
			return ErrForeignKey
		}
	}
	return err
}

// likePattern builds a case-insensitive contains pattern, escaping LIKE
// wildcards in the user's input.
func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.ToLower(strings.TrimSpace(s))) + "%"
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}
