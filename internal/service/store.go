// Package service holds the business operations behind the HTTP handlers.
// Services depend on the storage interfaces declared here; the MySQL
// repositories satisfy them and tests substitute mocks.
package service

import (
	"context"
	"time"

	"github.com/joyas-pwa/joyas-api/internal/model"
	"github.com/joyas-pwa/joyas-api/internal/utils"
)

// UserStore persists application users.
type UserStore interface {
	Create(ctx context.Context, username, passwordHash string) (model.User, error)
	GetByUsername(ctx context.Context, username string) (model.User, error)
}

// CustomerStore persists customers.
type CustomerStore interface {
	Create(ctx context.Context, c *model.Customer) error
	GetByID(ctx context.Context, id uint64) (model.Customer, error)
	List(ctx context.Context, search string, limit, offset int) ([]model.Customer, int, error)
}

// SaleStore persists sales with their items and reads whole ledgers.
type SaleStore interface {
	CreateWithItems(ctx context.Context, sale *model.Sale, items []model.SaleItem) error
	GetByID(ctx context.Context, id uint64) (model.Sale, error)
	Exists(ctx context.Context, id uint64) (bool, error)
	List(ctx context.Context, customerID uint64, limit, offset int) ([]model.Sale, int, error)
	Items(ctx context.Context, saleID uint64) ([]model.SaleItem, error)
	LoadLedger(ctx context.Context, saleID uint64) (model.SaleLedger, error)
	ListLedgers(ctx context.Context, customerID uint64) ([]model.SaleLedger, error)
}

// PaymentStore persists payments.
type PaymentStore interface {
	Create(ctx context.Context, p *model.Payment) error
	List(ctx context.Context, saleID uint64, limit, offset int) ([]model.Payment, int, error)
}

// PasswordHasher hashes and checks passwords.  Verify must never panic.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(hash, plain string) bool
}

// TokenCodec issues and parses session tokens.
type TokenCodec interface {
	Issue(subject string, ttl time.Duration) (utils.AccessToken, error)
	Parse(raw string) (string, error)
}
