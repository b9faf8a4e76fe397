package router

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/joyas-pwa/joyas-api/internal/model"
	"github.com/joyas-pwa/joyas-api/internal/repository"
)

// memStore keeps every table in memory and orders results the way the MySQL
// repositories do.
type memStore struct {
	mu        sync.Mutex
	now       func() time.Time
	users     []model.User
	customers []model.Customer
	sales     []model.Sale
	items     []model.SaleItem
	payments  []model.Payment
	nextID    uint64
}

func newMemStore(now func() time.Time) *memStore { return &memStore{now: now} }

func (s *memStore) id() uint64 {
	s.nextID++
	return s.nextID
}

type memUsers struct{ *memStore }

func (s memUsers) Create(_ context.Context, username, hash string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == username {
			return model.User{}, repository.ErrUsernameTaken
		}
	}
	u := model.User{ID: s.id(), Username: username, PasswordHash: hash, CreatedAt: s.now()}
	s.users = append(s.users, u)
	return u, nil
}

func (s memUsers) GetByUsername(_ context.Context, username string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == username {
			return u, nil
		}
	}
	return model.User{}, repository.ErrNotFound
}

type memCustomers struct{ *memStore }

func (s memCustomers) Create(_ context.Context, c *model.Customer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.ID = s.id()
	c.CreatedAt = s.now()
	s.customers = append(s.customers, *c)
	return nil
}

func (s memCustomers) GetByID(_ context.Context, id uint64) (model.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.customer(id)
}

func (s *memStore) customer(id uint64) (model.Customer, error) {
	for _, c := range s.customers {
		if c.ID == id {
			return c, nil
		}
	}
	return model.Customer{}, repository.ErrNotFound
}

func (s memCustomers) List(_ context.Context, search string, limit, offset int) ([]model.Customer, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Customer
	for i := len(s.customers) - 1; i >= 0; i-- {
		c := s.customers[i]
		if search == "" || strings.Contains(strings.ToLower(c.FullName), strings.ToLower(search)) {
			out = append(out, c)
		}
	}
	return window(out, limit, offset), len(out), nil
}

type memSales struct{ *memStore }

func (s memSales) CreateWithItems(_ context.Context, sale *model.Sale, items []model.SaleItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.customer(sale.CustomerID); err != nil {
		return repository.ErrForeignKey
	}
	sale.ID = s.id()
	sale.CreatedAt = s.now()
	s.sales = append(s.sales, *sale)
	for i := range items {
		items[i].ID = s.id()
		items[i].SaleID = sale.ID
		items[i].CreatedAt = sale.CreatedAt
		s.items = append(s.items, items[i])
	}
	return nil
}

func (s *memStore) sale(id uint64) (model.Sale, error) {
	for _, sl := range s.sales {
		if sl.ID == id {
			return sl, nil
		}
	}
	return model.Sale{}, repository.ErrNotFound
}

func (s memSales) GetByID(_ context.Context, id uint64) (model.Sale, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sale(id)
}

func (s memSales) Exists(_ context.Context, id uint64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.sale(id)
	return err == nil, nil
}

func (s *memStore) sortedSales(customerID uint64) []model.Sale {
	var out []model.Sale
	for _, sl := range s.sales {
		if customerID == 0 || sl.CustomerID == customerID {
			out = append(out, sl)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].PurchaseDate.Equal(out[j].PurchaseDate) {
			return out[i].PurchaseDate.After(out[j].PurchaseDate)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func (s memSales) List(_ context.Context, customerID uint64, limit, offset int) ([]model.Sale, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	all := s.sortedSales(customerID)
	return window(all, limit, offset), len(all), nil
}

func (s memSales) Items(_ context.Context, saleID uint64) ([]model.SaleItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saleItems(saleID), nil
}

func (s *memStore) saleItems(saleID uint64) []model.SaleItem {
	var out []model.SaleItem
	for _, it := range s.items {
		if it.SaleID == saleID {
			out = append(out, it)
		}
	}
	return out
}

func (s *memStore) salePayments(saleID uint64) []model.Payment {
	var out []model.Payment
	for _, p := range s.payments {
		if p.SaleID == saleID {
			out = append(out, p)
		}
	}
	return out
}

func (s *memStore) ledger(sale model.Sale) model.SaleLedger {
	c, _ := s.customer(sale.CustomerID)
	return model.SaleLedger{
		Sale:         sale,
		CustomerName: c.FullName,
		Items:        s.saleItems(sale.ID),
		Payments:     s.salePayments(sale.ID),
	}
}

func (s memSales) LoadLedger(_ context.Context, saleID uint64) (model.SaleLedger, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sale, err := s.sale(saleID)
	if err != nil {
		return model.SaleLedger{}, err
	}
	return s.ledger(sale), nil
}

func (s memSales) ListLedgers(_ context.Context, customerID uint64) ([]model.SaleLedger, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.SaleLedger
	for _, sale := range s.sortedSales(customerID) {
		out = append(out, s.ledger(sale))
	}
	return out, nil
}

type memPayments struct{ *memStore }

func (s memPayments) Create(_ context.Context, p *model.Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.sale(p.SaleID); err != nil {
		return repository.ErrForeignKey
	}
	p.ID = s.id()
	p.CreatedAt = s.now()
	s.payments = append(s.payments, *p)
	return nil
}

func (s memPayments) List(_ context.Context, saleID uint64, limit, offset int) ([]model.Payment, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Payment
	for _, p := range s.payments {
		if saleID == 0 || p.SaleID == saleID {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].PaidAt.Equal(out[j].PaidAt) {
			return out[i].PaidAt.After(out[j].PaidAt)
		}
		return out[i].ID > out[j].ID
	})
	return window(out, limit, offset), len(out), nil
}

func window[T any](all []T, limit, offset int) []T {
	if offset >= len(all) {
		return []T{}
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end]
}
