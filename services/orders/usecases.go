package main

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// OrderUseCase contém a lógica de negócio dos pedidos: orquestra o lifecycle,
// o registro de itens e o ledger de estoque dentro de uma única transação por
// operação — estoque e itens mudam juntos ou não mudam.
type OrderUseCase struct {
	orders   OrderRepository
	products ProductRepository
	ledger   *StockLedger

	itemMutations metric.Int64Counter
	cashouts      metric.Int64Counter
}

// NewOrderUseCase cria uma nova instância de OrderUseCase
func NewOrderUseCase(orders OrderRepository, products ProductRepository, ledger *StockLedger) *OrderUseCase {
	meter := otel.Meter("orders-service")

	itemMutations, err := meter.Int64Counter("orders.item_mutations")
	if err != nil {
		log.Printf("⚠️ Failed to create item_mutations counter: %v", err)
	}
	cashouts, err := meter.Int64Counter("orders.cashouts")
	if err != nil {
		log.Printf("⚠️ Failed to create cashouts counter: %v", err)
	}

	return &OrderUseCase{
		orders:        orders,
		products:      products,
		ledger:        ledger,
		itemMutations: itemMutations,
		cashouts:      cashouts,
	}
}

// CreateOrder cria um pedido vazio com status OPEN
func (uc *OrderUseCase) CreateOrder(ctx context.Context) (*Order, error) {
	order := NewOrder(uuid.New().String())

	if err := uc.orders.CreateOrder(ctx, order); err != nil {
		log.Printf("❌ Failed to create order: %v", err)
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	log.Printf("✅ Order created: %s", order.ID)
	return order, nil
}

// GetOrder busca um pedido com seus itens
func (uc *OrderUseCase) GetOrder(ctx context.Context, orderID string) (*Order, error) {
	return uc.orders.GetOrder(ctx, orderID)
}

// ListOrders busca todos os pedidos
func (uc *OrderUseCase) ListOrders(ctx context.Context) ([]Order, error) {
	return uc.orders.ListOrders(ctx)
}

// ListOpenOrders busca os pedidos ainda abertos
func (uc *OrderUseCase) ListOpenOrders(ctx context.Context) ([]Order, error) {
	return uc.orders.ListOrdersByStatus(ctx, OrderStatusOpen)
}

// AddItem adiciona quantity unidades de um produto ao pedido, reservando o
// estoque correspondente. Linha existente recebe merge aditivo: a reserva
// cobre exatamente o incremento, nunca o total acumulado.
func (uc *OrderUseCase) AddItem(ctx context.Context, orderID string, requested OrderItem) (*Order, error) {
	log.Printf("➡️ [ADD ITEM] OrderID: %s | ProductID: %s | Quantity: %d",
		orderID, requested.ProductID, requested.Quantity)

	if requested.Quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	exists, err := uc.orders.OrderExists(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to check order existence: %w", err)
	}
	if !exists {
		return nil, ErrOrderNotFound
	}

	tx, err := uc.orders.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	order, err := uc.orders.GetOrderForUpdate(ctx, tx, orderID)
	if err != nil {
		return nil, err
	}

	if err := order.AssertMutable(); err != nil {
		log.Printf("❌ [ADD ITEM] Order already cashed out: %s", orderID)
		return nil, err
	}

	// Reserva sob lock pessimista: valida a existência do produto e faz
	// check-e-decremento do estoque como um passo só
	if err := uc.ledger.Reserve(ctx, tx, requested.ProductID, requested.Quantity); err != nil {
		return nil, err
	}

	items := order.OrderItems
	if existing, ok := findItem(items, requested.ProductID); ok {
		items = setItemQuantity(items, requested.ProductID, existing.Quantity+requested.Quantity)
	} else {
		items, _ = upsertItem(items, requested)
	}

	if err := uc.orders.SaveOrderItems(ctx, tx, orderID, items); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit add item: %w", err)
	}

	uc.itemMutations.Add(ctx, 1, metric.WithAttributes(attribute.String("op", "add")))
	log.Printf("✅ [ADD ITEM] Success: OrderID=%s ProductID=%s", orderID, requested.ProductID)

	return uc.orders.GetOrder(ctx, orderID)
}

// RemoveItem remove quantity unidades de um produto do pedido, devolvendo o
// estoque correspondente. Remover a quantidade inteira apaga a linha.
func (uc *OrderUseCase) RemoveItem(ctx context.Context, orderID string, requested OrderItem) (*Order, error) {
	log.Printf("➡️ [REMOVE ITEM] OrderID: %s | ProductID: %s | Quantity: %d",
		orderID, requested.ProductID, requested.Quantity)

	if requested.Quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	exists, err := uc.orders.OrderExists(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to check order existence: %w", err)
	}
	if !exists {
		return nil, ErrOrderNotFound
	}

	tx, err := uc.orders.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	order, err := uc.orders.GetOrderForUpdate(ctx, tx, orderID)
	if err != nil {
		return nil, err
	}

	if err := order.AssertMutable(); err != nil {
		log.Printf("❌ [REMOVE ITEM] Order already cashed out: %s", orderID)
		return nil, err
	}

	if _, ok := findItem(order.OrderItems, requested.ProductID); !ok {
		return nil, ErrItemNotOnOrder
	}

	// Release valida a existência do produto; se a redução abaixo falhar, o
	// rollback desfaz a devolução junto — release e reduce andam juntos
	if err := uc.ledger.Release(ctx, tx, requested.ProductID, requested.Quantity); err != nil {
		return nil, err
	}

	items, err := reduceItem(order.OrderItems, requested)
	if err != nil {
		return nil, err
	}

	if err := uc.orders.SaveOrderItems(ctx, tx, orderID, items); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit remove item: %w", err)
	}

	uc.itemMutations.Add(ctx, 1, metric.WithAttributes(attribute.String("op", "remove")))
	log.Printf("✅ [REMOVE ITEM] Success: OrderID=%s ProductID=%s", orderID, requested.ProductID)

	return uc.orders.GetOrder(ctx, orderID)
}

// CashoutOrder fecha o pedido (OPEN -> PAID). Depois disso os itens congelam
// e nenhuma mutação é aceita.
func (uc *OrderUseCase) CashoutOrder(ctx context.Context, orderID string) (*Order, error) {
	log.Printf("➡️ [CASHOUT] OrderID: %s", orderID)

	tx, err := uc.orders.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	order, err := uc.orders.GetOrderForUpdate(ctx, tx, orderID)
	if err != nil {
		return nil, err
	}

	if err := order.Finalize(); err != nil {
		log.Printf("❌ [CASHOUT] Order already cashed out: %s", orderID)
		return nil, err
	}

	if err := uc.orders.UpdateOrderStatus(ctx, tx, orderID, order.Status); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit cashout: %w", err)
	}

	uc.cashouts.Add(ctx, 1)
	log.Printf("✅ [CASHOUT] Order cashed out: %s", orderID)

	return uc.orders.GetOrder(ctx, orderID)
}
