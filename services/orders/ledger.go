package main

import (
	"context"
	"log"
)

// StockLedger controla o estoque compartilhado dos produtos. Toda operação
// roda dentro da transação do chamador, com a linha do produto travada —
// check e mutação do estoque são um passo só, sem janela para oversell.
type StockLedger struct {
	products ProductRepository
}

// NewStockLedger cria uma nova instância de StockLedger
func NewStockLedger(products ProductRepository) *StockLedger {
	return &StockLedger{products: products}
}

// Reserve decrementa o estoque disponível em quantity unidades, falhando com
// ErrInsufficientStock (e deixando o estoque intacto) se não houver saldo
func (l *StockLedger) Reserve(ctx context.Context, tx Tx, productID string, quantity int) error {
	product, err := l.products.GetProductForUpdate(ctx, tx, productID)
	if err != nil {
		return err
	}

	if product.AmountInStock < quantity {
		log.Printf("❌ [RESERVE] Insufficient stock: ProductID=%s available=%d requested=%d",
			productID, product.AmountInStock, quantity)
		return ErrInsufficientStock
	}

	return l.products.AdjustStock(ctx, tx, productID, -quantity)
}

// Release devolve quantity unidades ao estoque. Sem teto: unidades liberadas
// simplesmente voltam para o pool.
func (l *StockLedger) Release(ctx context.Context, tx Tx, productID string, quantity int) error {
	if _, err := l.products.GetProductForUpdate(ctx, tx, productID); err != nil {
		return err
	}

	return l.products.AdjustStock(ctx, tx, productID, quantity)
}
