package main

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
)

// Fakes em memória com semântica de transação: mutações acontecem numa cópia
// do estado e só ficam visíveis no Commit; Rollback descarta tudo. O mutex é
// segurado do BeginTx até o Commit/Rollback, serializando transações como o
// lock de linha do Postgres faz em produção.

type storeState struct {
	orders   map[string]*Order
	products map[string]*Product
}

func newStoreState() *storeState {
	return &storeState{
		orders:   map[string]*Order{},
		products: map[string]*Product{},
	}
}

func (s *storeState) clone() *storeState {
	out := newStoreState()
	for id, order := range s.orders {
		out.orders[id] = cloneOrder(order)
	}
	for id, product := range s.products {
		c := *product
		out.products[id] = &c
	}
	return out
}

func cloneOrder(order *Order) *Order {
	c := *order
	c.OrderItems = make([]OrderItem, len(order.OrderItems))
	copy(c.OrderItems, order.OrderItems)
	return &c
}

type memoryStore struct {
	mu    sync.Mutex
	state *storeState
}

func newMemoryStore() *memoryStore {
	return &memoryStore{state: newStoreState()}
}

func (s *memoryStore) begin() *memoryTx {
	s.mu.Lock()
	return &memoryTx{store: s, state: s.state.clone()}
}

type memoryTx struct {
	store *memoryStore
	state *storeState
	done  bool
}

func (t *memoryTx) Commit() error {
	if t.done {
		return errors.New("transaction already closed")
	}
	t.store.state = t.state
	t.done = true
	t.store.mu.Unlock()
	return nil
}

func (t *memoryTx) Rollback() error {
	if t.done {
		return nil
	}
	t.done = true
	t.store.mu.Unlock()
	return nil
}

// Os fakes cumprem os mesmos contratos das implementações Postgres
var (
	_ OrderRepository   = (*memoryOrderRepository)(nil)
	_ ProductRepository = (*memoryProductRepository)(nil)
)

type memoryOrderRepository struct {
	store *memoryStore
}

func (r *memoryOrderRepository) BeginTx(ctx context.Context) (Tx, error) {
	return r.store.begin(), nil
}

func (r *memoryOrderRepository) OrderExists(ctx context.Context, orderID string) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	_, ok := r.store.state.orders[orderID]
	return ok, nil
}

func (r *memoryOrderRepository) CreateOrder(ctx context.Context, order *Order) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.state.orders[order.ID] = cloneOrder(order)
	return nil
}

func (r *memoryOrderRepository) GetOrder(ctx context.Context, orderID string) (*Order, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	order, ok := r.store.state.orders[orderID]
	if !ok {
		return nil, ErrOrderNotFound
	}
	return cloneOrder(order), nil
}

func (r *memoryOrderRepository) GetOrderForUpdate(ctx context.Context, tx Tx, orderID string) (*Order, error) {
	state := tx.(*memoryTx).state
	order, ok := state.orders[orderID]
	if !ok {
		return nil, ErrOrderNotFound
	}
	return cloneOrder(order), nil
}

func (r *memoryOrderRepository) SaveOrderItems(ctx context.Context, tx Tx, orderID string, items []OrderItem) error {
	state := tx.(*memoryTx).state
	order, ok := state.orders[orderID]
	if !ok {
		return ErrOrderNotFound
	}
	saved := make([]OrderItem, len(items))
	copy(saved, items)
	for i := range saved {
		if saved[i].ID == "" {
			saved[i].ID = uuid.New().String()
		}
	}
	order.OrderItems = saved
	return nil
}

func (r *memoryOrderRepository) UpdateOrderStatus(ctx context.Context, tx Tx, orderID string, status OrderStatus) error {
	state := tx.(*memoryTx).state
	order, ok := state.orders[orderID]
	if !ok {
		return ErrOrderNotFound
	}
	order.Status = status
	return nil
}

func (r *memoryOrderRepository) ListOrders(ctx context.Context) ([]Order, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	orders := []Order{}
	for _, order := range r.store.state.orders {
		orders = append(orders, *cloneOrder(order))
	}
	return orders, nil
}

func (r *memoryOrderRepository) ListOrdersByStatus(ctx context.Context, status OrderStatus) ([]Order, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	orders := []Order{}
	for _, order := range r.store.state.orders {
		if order.Status == status {
			orders = append(orders, *cloneOrder(order))
		}
	}
	return orders, nil
}

type memoryProductRepository struct {
	store *memoryStore
}

func (r *memoryProductRepository) ProductExists(ctx context.Context, productID string) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	_, ok := r.store.state.products[productID]
	return ok, nil
}

func (r *memoryProductRepository) CreateProduct(ctx context.Context, product *Product) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	c := *product
	r.store.state.products[product.ID] = &c
	return nil
}

func (r *memoryProductRepository) GetProduct(ctx context.Context, productID string) (*Product, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	product, ok := r.store.state.products[productID]
	if !ok {
		return nil, ErrProductNotFound
	}
	c := *product
	return &c, nil
}

func (r *memoryProductRepository) GetProductForUpdate(ctx context.Context, tx Tx, productID string) (*Product, error) {
	state := tx.(*memoryTx).state
	product, ok := state.products[productID]
	if !ok {
		return nil, ErrProductNotFound
	}
	c := *product
	return &c, nil
}

func (r *memoryProductRepository) AdjustStock(ctx context.Context, tx Tx, productID string, delta int) error {
	state := tx.(*memoryTx).state
	product, ok := state.products[productID]
	if !ok {
		return ErrProductNotFound
	}
	product.AmountInStock += delta
	return nil
}
