package main

import (
	"fmt"
	"time"
)

// OrderStatus representa os possíveis status de um pedido
type OrderStatus string

const (
	OrderStatusOpen OrderStatus = "OPEN"
	OrderStatusPaid OrderStatus = "PAID"
)

// Order representa um pedido de venda no sistema
type Order struct {
	ID         string      `json:"id" db:"id"`
	OrderItems []OrderItem `json:"order_items"`
	Status     OrderStatus `json:"status" db:"status"`
	CreatedAt  time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at" db:"updated_at"`
}

// OrderItem representa uma linha (produto, quantidade) de um pedido.
// O ID é atribuído na primeira persistência; duas linhas com o mesmo
// product_id nunca coexistem no mesmo pedido.
type OrderItem struct {
	ID        string `json:"id,omitempty" db:"id"`
	ProductID string `json:"product_id" db:"product_id"`
	Quantity  int    `json:"quantity" db:"quantity"`
}

// Product representa um produto do catálogo com seu estoque disponível
type Product struct {
	ID            string    `json:"id" db:"id"`
	Name          string    `json:"name" db:"name"`
	AmountInStock int       `json:"amount_in_stock" db:"amount_in_stock"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

// NewOrder cria um pedido vazio com status OPEN
func NewOrder(id string) *Order {
	now := time.Now()
	return &Order{
		ID:         id,
		OrderItems: []OrderItem{},
		Status:     OrderStatusOpen,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// AssertMutable garante que o pedido ainda aceita mutações de itens.
// Switch exaustivo: um status novo precisa passar por aqui explicitamente.
func (o *Order) AssertMutable() error {
	switch o.Status {
	case OrderStatusOpen:
		return nil
	case OrderStatusPaid:
		return ErrOrderAlreadyPaid
	default:
		return fmt.Errorf("unknown order status %q", o.Status)
	}
}

// Finalize fecha o pedido (OPEN -> PAID); a transição é irreversível
func (o *Order) Finalize() error {
	if o.Status == OrderStatusPaid {
		return ErrOrderAlreadyPaid
	}

	o.Status = OrderStatusPaid
	o.UpdatedAt = time.Now()
	return nil
}
