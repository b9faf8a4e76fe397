package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/joyas-pwa/joyas-api/internal/model"
	"github.com/joyas-pwa/joyas-api/internal/queue"
	"github.com/joyas-pwa/joyas-api/internal/utils"
)

type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) Create(ctx context.Context, username, passwordHash string) (model.User, error) {
	args := m.Called(ctx, username, passwordHash)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *MockUserStore) GetByUsername(ctx context.Context, username string) (model.User, error) {
	args := m.Called(ctx, username)
	return args.Get(0).(model.User), args.Error(1)
}

type MockCustomerStore struct {
	mock.Mock
}

func (m *MockCustomerStore) Create(ctx context.Context, c *model.Customer) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCustomerStore) GetByID(ctx context.Context, id uint64) (model.Customer, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Customer), args.Error(1)
}

func (m *MockCustomerStore) List(ctx context.Context, search string, limit, offset int) ([]model.Customer, int, error) {
	args := m.Called(ctx, search, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]model.Customer), args.Int(1), args.Error(2)
}

type MockSaleStore struct {
	mock.Mock
}

func (m *MockSaleStore) CreateWithItems(ctx context.Context, sale *model.Sale, items []model.SaleItem) error {
	args := m.Called(ctx, sale, items)
	return args.Error(0)
}

func (m *MockSaleStore) GetByID(ctx context.Context, id uint64) (model.Sale, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Sale), args.Error(1)
}

func (m *MockSaleStore) Exists(ctx context.Context, id uint64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockSaleStore) List(ctx context.Context, customerID uint64, limit, offset int) ([]model.Sale, int, error) {
	args := m.Called(ctx, customerID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]model.Sale), args.Int(1), args.Error(2)
}

func (m *MockSaleStore) Items(ctx context.Context, saleID uint64) ([]model.SaleItem, error) {
	args := m.Called(ctx, saleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.SaleItem), args.Error(1)
}

func (m *MockSaleStore) LoadLedger(ctx context.Context, saleID uint64) (model.SaleLedger, error) {
	args := m.Called(ctx, saleID)
	return args.Get(0).(model.SaleLedger), args.Error(1)
}

func (m *MockSaleStore) ListLedgers(ctx context.Context, customerID uint64) ([]model.SaleLedger, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.SaleLedger), args.Error(1)
}

type MockPaymentStore struct {
	mock.Mock
}

func (m *MockPaymentStore) Create(ctx context.Context, p *model.Payment) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPaymentStore) List(ctx context.Context, saleID uint64, limit, offset int) ([]model.Payment, int, error) {
	args := m.Called(ctx, saleID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]model.Payment), args.Int(1), args.Error(2)
}

type MockTokenCodec struct {
	mock.Mock
}

func (m *MockTokenCodec) Issue(subject string, ttl time.Duration) (utils.AccessToken, error) {
	args := m.Called(subject, ttl)
	return args.Get(0).(utils.AccessToken), args.Error(1)
}

func (m *MockTokenCodec) Parse(raw string) (string, error) {
	args := m.Called(raw)
	return args.String(0), args.Error(1)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, ev queue.LedgerEvent) error {
	args := m.Called(ctx, ev)
	return args.Error(0)
}

// countingHasher wraps a real hasher and counts Verify calls.
type countingHasher struct {
	utils.BcryptHasher
	verifies int
}

func (h *countingHasher) Verify(hash, plain string) bool {
	h.verifies++
	return h.BcryptHasher.Verify(hash, plain)
}
