package repository

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/joyas-pwa/joyas-api/internal/model"
)

func TestSettleCreated_UsesStoredRows(t *testing.T) {
	created := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	sale := &model.Sale{ID: 41, CustomerID: 3, DeliveryAddress: "Calle 5"}
	items := []model.SaleItem{{JewelType: "anillo", Quantity: 1, UnitPrice: decimal.NewFromInt(90)}}

	stored := model.Sale{ID: 41, CustomerID: 3, DeliveryAddress: "Calle 5", CreatedAt: created}
	fresh := []model.SaleItem{{ID: 7, SaleID: 41, JewelType: "anillo", Quantity: 1, UnitPrice: decimal.NewFromInt(90), CreatedAt: created}}

	settleCreated(sale, items, &stored, fresh, created.Add(time.Hour))
	assert.Equal(t, created, sale.CreatedAt)
	assert.Equal(t, uint64(7), items[0].ID)
	assert.Equal(t, created, items[0].CreatedAt)
}

func TestSettleCreated_FailedReadKeepsInsertedValues(t *testing.T) {
	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	sale := &model.Sale{ID: 41, CustomerID: 3, DeliveryAddress: "Calle 5"}
	items := []model.SaleItem{
		{JewelType: "anillo", Quantity: 2, UnitPrice: decimal.NewFromInt(90)},
		{JewelType: "collar", Quantity: 1, UnitPrice: decimal.NewFromInt(150)},
	}

	settleCreated(sale, items, nil, nil, now)
	assert.Equal(t, uint64(41), sale.ID)
	assert.Equal(t, uint64(3), sale.CustomerID)
	assert.Equal(t, now, sale.CreatedAt)
	for _, it := range items {
		assert.Equal(t, uint64(41), it.SaleID)
		assert.Equal(t, now, it.CreatedAt)
	}
	assert.Equal(t, "collar", items[1].JewelType)
	assert.True(t, decimal.NewFromInt(150).Equal(items[1].UnitPrice))
}
