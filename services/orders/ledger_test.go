package main

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newLedgerFixture(t *testing.T, stock int) (*StockLedger, *memoryOrderRepository, *memoryProductRepository) {
	t.Helper()
	store := newMemoryStore()
	orders := &memoryOrderRepository{store: store}
	products := &memoryProductRepository{store: store}
	now := time.Now()
	err := products.CreateProduct(context.Background(), &Product{
		ID: "p1", Name: "sample product", AmountInStock: stock, CreatedAt: now, UpdatedAt: now,
	})
	assert.NoError(t, err)
	return NewStockLedger(products), orders, products
}

func TestStockLedger_ReserveDecrements(t *testing.T) {
	ledger, orders, products := newLedgerFixture(t, 5)

	tx, err := orders.BeginTx(context.Background())
	assert.NoError(t, err)
	assert.NoError(t, ledger.Reserve(context.Background(), tx, "p1", 5))
	assert.NoError(t, tx.Commit())

	product, err := products.GetProduct(context.Background(), "p1")
	assert.NoError(t, err)
	assert.Equal(t, 0, product.AmountInStock)
}

func TestStockLedger_ReserveFailsWithoutMutating(t *testing.T) {
	ledger, orders, products := newLedgerFixture(t, 5)

	tx, err := orders.BeginTx(context.Background())
	assert.NoError(t, err)
	assert.ErrorIs(t, ledger.Reserve(context.Background(), tx, "p1", 6), ErrInsufficientStock)
	assert.NoError(t, tx.Rollback())

	product, err := products.GetProduct(context.Background(), "p1")
	assert.NoError(t, err)
	assert.Equal(t, 5, product.AmountInStock)
}

func TestStockLedger_ReleaseHasNoUpperBound(t *testing.T) {
	ledger, orders, products := newLedgerFixture(t, 5)

	tx, err := orders.BeginTx(context.Background())
	assert.NoError(t, err)
	assert.NoError(t, ledger.Release(context.Background(), tx, "p1", 100))
	assert.NoError(t, tx.Commit())

	product, err := products.GetProduct(context.Background(), "p1")
	assert.NoError(t, err)
	assert.Equal(t, 105, product.AmountInStock)
}

func TestStockLedger_UnknownProduct(t *testing.T) {
	ledger, orders, _ := newLedgerFixture(t, 5)

	tx, err := orders.BeginTx(context.Background())
	assert.NoError(t, err)
	defer tx.Rollback()

	assert.ErrorIs(t, ledger.Reserve(context.Background(), tx, "missing", 1), ErrProductNotFound)
	assert.ErrorIs(t, ledger.Release(context.Background(), tx, "missing", 1), ErrProductNotFound)
}
