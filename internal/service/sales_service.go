package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/joyas-pwa/joyas-api/internal/apperr"
	"github.com/joyas-pwa/joyas-api/internal/ledger"
	"github.com/joyas-pwa/joyas-api/internal/model"
	"github.com/joyas-pwa/joyas-api/internal/queue"
	"github.com/joyas-pwa/joyas-api/internal/repository"
	"github.com/joyas-pwa/joyas-api/internal/utils"
)

// publishTimeout bounds how long a request waits on the broker after its
// data is committed.
const publishTimeout = 3 * time.Second

// SalesService records customers, sales and payments.
type SalesService struct {
	customers CustomerStore
	sales     SaleStore
	payments  PaymentStore
	agg       ledger.Aggregator
	events    queue.Publisher
	now       utils.Clock
	log       *zap.Logger

	// OnPublish, when set, observes every publish attempt.
	OnPublish func(eventType string, err error)
}

// NewSalesService wires the service.  A nil publisher drops events and a nil
// clock means utils.SystemClock.
func NewSalesService(customers CustomerStore, sales SaleStore, payments PaymentStore, agg ledger.Aggregator,
	events queue.Publisher, clock utils.Clock, log *zap.Logger) *SalesService {
	if events == nil {
		events = queue.NopPublisher{}
	}
	if clock == nil {
		clock = utils.SystemClock
	}
	return &SalesService{
		customers: customers,
		sales:     sales,
		payments:  payments,
		agg:       agg,
		events:    events,
		now:       clock,
		log:       log.Named("sales"),
	}
}

// CustomerInput is the data needed to create a customer.
type CustomerInput struct {
	FullName string
	Phone    *string
}

// CreateCustomer trims the name and stores the customer.  A blank phone is
// stored as absent.
func (s *SalesService) CreateCustomer(ctx context.Context, in CustomerInput) (model.Customer, error) {
	c := model.Customer{FullName: strings.TrimSpace(in.FullName), Phone: trimOptional(in.Phone)}
	if c.FullName == "" {
		return model.Customer{}, apperr.Validation("invalid customer", map[string]string{"full_name": "must not be empty"})
	}
	if err := s.customers.Create(ctx, &c); err != nil {
		return model.Customer{}, apperr.Internal(err, "could not create customer")
	}
	return c, nil
}

// GetCustomer returns a customer or a NotFound error.
func (s *SalesService) GetCustomer(ctx context.Context, id uint64) (model.Customer, error) {
	c, err := s.customers.GetByID(ctx, id)
	if err != nil {
		return model.Customer{}, notFoundOr(err, "customer not found", "could not load customer")
	}
	return c, nil
}

// ListCustomers pages through customers, newest first, optionally matching a
// name fragment.
func (s *SalesService) ListCustomers(ctx context.Context, search string, p Page) (Paged[model.Customer], error) {
	items, total, err := s.customers.List(ctx, search, p.Size, p.Offset())
	if err != nil {
		return Paged[model.Customer]{}, apperr.Internal(err, "could not list customers")
	}
	return newPaged(items, total, p), nil
}

// ItemInput is one line of a new sale.  A nil Quantity means 1.
type ItemInput struct {
	ProductCode *string
	JewelType   string
	Quantity    *int
	UnitPrice   decimal.Decimal
	PhotoURL    *string
}

// SaleInput is the data needed to create a sale.  A nil PurchaseDate means
// today.
type SaleInput struct {
	CustomerID      uint64
	PurchaseDate    *time.Time
	PaymentDueDate  *time.Time
	DeliveryDate    *time.Time
	DeliveryAddress string
	Notes           *string
	Items           []ItemInput
}

// SaleDetail is a stored sale and its items.
type SaleDetail struct {
	Sale  model.Sale
	Items []model.SaleItem
}

// CreateSale validates the input, checks the customer and stores the header
// and items atomically.  A sale.created event is published after commit.
func (s *SalesService) CreateSale(ctx context.Context, in SaleInput) (SaleDetail, error) {
	sale, items, err := s.buildSale(in)
	if err != nil {
		return SaleDetail{}, err
	}

	cust, err := s.customers.GetByID(ctx, in.CustomerID)
	if err != nil {
		return SaleDetail{}, notFoundOr(err, "customer not found", "could not load customer")
	}

	if err := s.sales.CreateWithItems(ctx, &sale, items); err != nil {
		if errors.Is(err, repository.ErrForeignKey) {
			return SaleDetail{}, apperr.NotFound("customer not found")
		}
		return SaleDetail{}, apperr.Internal(err, "could not create sale")
	}
	s.log.Info("sale created", zap.Uint64("sale_id", sale.ID), zap.Int("items", len(items)))

	s.publish(ctx, queue.LedgerEvent{
		Type:         queue.EventSaleCreated,
		SaleID:       sale.ID,
		CustomerID:   sale.CustomerID,
		CustomerName: cust.FullName,
		Amount:       ledger.SaleTotal(items).StringFixed(2),
		ItemCount:    len(items),
		OccurredAt:   s.now().UTC(),
	})
	return SaleDetail{Sale: sale, Items: items}, nil
}

func (s *SalesService) buildSale(in SaleInput) (model.Sale, []model.SaleItem, error) {
	fields := map[string]string{}
	if in.CustomerID == 0 {
		fields["customer_id"] = "is required"
	}
	address := strings.TrimSpace(in.DeliveryAddress)
	if address == "" {
		fields["delivery_address"] = "must not be empty"
	}

	items := make([]model.SaleItem, 0, len(in.Items))
	for i, it := range in.Items {
		qty := 1
		if it.Quantity != nil {
			qty = *it.Quantity
		}
		prefix := "items[" + itoa(i) + "]."
		if strings.TrimSpace(it.JewelType) == "" {
			fields[prefix+"jewel_type"] = "must not be empty"
		}
		if qty <= 0 {
			fields[prefix+"quantity"] = "must be greater than 0"
		}
		if !it.UnitPrice.IsPositive() {
			fields[prefix+"unit_price"] = "must be greater than 0"
		}
		items = append(items, model.SaleItem{
			ProductCode: trimOptional(it.ProductCode),
			JewelType:   strings.TrimSpace(it.JewelType),
			Quantity:    qty,
			UnitPrice:   it.UnitPrice,
			PhotoURL:    trimOptional(it.PhotoURL),
		})
	}
	if len(fields) > 0 {
		return model.Sale{}, nil, apperr.Validation("invalid sale", fields)
	}

	purchase := dateOnly(s.now())
	if in.PurchaseDate != nil {
		purchase = dateOnly(*in.PurchaseDate)
	}
	sale := model.Sale{
		CustomerID:      in.CustomerID,
		PurchaseDate:    purchase,
		PaymentDueDate:  dateOnlyPtr(in.PaymentDueDate),
		DeliveryDate:    dateOnlyPtr(in.DeliveryDate),
		DeliveryAddress: address,
		Notes:           trimOptional(in.Notes),
	}
	return sale, items, nil
}

// GetSale returns a sale header or a NotFound error.
func (s *SalesService) GetSale(ctx context.Context, id uint64) (model.Sale, error) {
	sale, err := s.sales.GetByID(ctx, id)
	if err != nil {
		return model.Sale{}, notFoundOr(err, "sale not found", "could not load sale")
	}
	return sale, nil
}

// SaleItems returns the items of an existing sale.
func (s *SalesService) SaleItems(ctx context.Context, saleID uint64) ([]model.SaleItem, error) {
	if err := s.requireSale(ctx, saleID); err != nil {
		return nil, err
	}
	items, err := s.sales.Items(ctx, saleID)
	if err != nil {
		return nil, apperr.Internal(err, "could not load sale items")
	}
	if items == nil {
		items = []model.SaleItem{}
	}
	return items, nil
}

// SaleQuery filters ListSales.  Zero values mean no filter.
type SaleQuery struct {
	CustomerID uint64
	Status     model.AccountStatus
}

// ListSales pages through sales, most recent purchase first.  Filtering by
// account status needs every statement, so that path pages in memory.
func (s *SalesService) ListSales(ctx context.Context, q SaleQuery, p Page) (Paged[model.Sale], error) {
	if q.Status == "" {
		items, total, err := s.sales.List(ctx, q.CustomerID, p.Size, p.Offset())
		if err != nil {
			return Paged[model.Sale]{}, apperr.Internal(err, "could not list sales")
		}
		return newPaged(items, total, p), nil
	}

	ledgers, err := s.sales.ListLedgers(ctx, q.CustomerID)
	if err != nil {
		return Paged[model.Sale]{}, apperr.Internal(err, "could not list sales")
	}
	var matched []model.Sale
	for _, l := range ledgers {
		if s.agg.Statement(l).AccountStatus == q.Status {
			matched = append(matched, l.Sale)
		}
	}
	return paginate(matched, p), nil
}

// PaymentInput is the data needed to record a payment.  A nil PaidAt means
// now.
type PaymentInput struct {
	SaleID uint64
	Amount decimal.Decimal
	PaidAt *time.Time
}

// CreatePayment records money received against an existing sale and
// publishes payment.recorded after commit.
func (s *SalesService) CreatePayment(ctx context.Context, in PaymentInput) (model.Payment, error) {
	fields := map[string]string{}
	if in.SaleID == 0 {
		fields["sale_id"] = "is required"
	}
	if !in.Amount.IsPositive() {
		fields["amount"] = "must be greater than 0"
	}
	if len(fields) > 0 {
		return model.Payment{}, apperr.Validation("invalid payment", fields)
	}

	sale, err := s.sales.GetByID(ctx, in.SaleID)
	if err != nil {
		return model.Payment{}, notFoundOr(err, "sale not found", "could not load sale")
	}

	p := model.Payment{SaleID: in.SaleID, Amount: in.Amount, PaidAt: s.now().UTC().Truncate(time.Second)}
	if in.PaidAt != nil {
		p.PaidAt = in.PaidAt.UTC()
	}
	if err := s.payments.Create(ctx, &p); err != nil {
		if errors.Is(err, repository.ErrForeignKey) {
			return model.Payment{}, apperr.NotFound("sale not found")
		}
		return model.Payment{}, apperr.Internal(err, "could not record payment")
	}
	s.log.Info("payment recorded", zap.Uint64("sale_id", p.SaleID), zap.Uint64("payment_id", p.ID))

	s.publish(ctx, queue.LedgerEvent{
		Type:       queue.EventPaymentRecorded,
		SaleID:     p.SaleID,
		CustomerID: sale.CustomerID,
		PaymentID:  p.ID,
		Amount:     p.Amount.StringFixed(2),
		OccurredAt: s.now().UTC(),
	})
	return p, nil
}

// ListPayments pages through payments, most recent first.  A non-zero
// saleID must name an existing sale.
func (s *SalesService) ListPayments(ctx context.Context, saleID uint64, p Page) (Paged[model.Payment], error) {
	if saleID != 0 {
		if err := s.requireSale(ctx, saleID); err != nil {
			return Paged[model.Payment]{}, err
		}
	}
	items, total, err := s.payments.List(ctx, saleID, p.Size, p.Offset())
	if err != nil {
		return Paged[model.Payment]{}, apperr.Internal(err, "could not list payments")
	}
	return newPaged(items, total, p), nil
}

func (s *SalesService) requireSale(ctx context.Context, id uint64) error {
	ok, err := s.sales.Exists(ctx, id)
	if err != nil {
		return apperr.Internal(err, "could not load sale")
	}
	if !ok {
		return apperr.NotFound("sale not found")
	}
	return nil
}

// publish never fails the caller: the data is already committed.
func (s *SalesService) publish(ctx context.Context, ev queue.LedgerEvent) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	err := s.events.Publish(ctx, ev)
	if err != nil {
		s.log.Warn("event not published", zap.String("type", ev.Type), zap.Uint64("sale_id", ev.SaleID), zap.Error(err))
	}
	if s.OnPublish != nil {
		s.OnPublish(ev.Type, err)
	}
}
