package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Tx representa uma transação de banco de dados
type Tx interface {
	Commit() error
	Rollback() error
}

// OrderRepository define as operações de persistência de pedidos
type OrderRepository interface {
	// Gerenciamento de transação
	BeginTx(ctx context.Context) (Tx, error)

	// OrderExists verifica se o pedido existe
	OrderExists(ctx context.Context, orderID string) (bool, error)

	// CreateOrder persiste um pedido novo (sem itens)
	CreateOrder(ctx context.Context, order *Order) error

	// GetOrder busca um pedido com seus itens
	GetOrder(ctx context.Context, orderID string) (*Order, error)

	// GetOrderForUpdate busca o pedido com lock pessimista (FOR UPDATE),
	// serializando mutações concorrentes no mesmo pedido
	GetOrderForUpdate(ctx context.Context, tx Tx, orderID string) (*Order, error)

	// SaveOrderItems substitui a coleção de itens do pedido dentro da transação
	SaveOrderItems(ctx context.Context, tx Tx, orderID string, items []OrderItem) error

	// UpdateOrderStatus atualiza o status do pedido dentro da transação
	UpdateOrderStatus(ctx context.Context, tx Tx, orderID string, status OrderStatus) error

	// ListOrders busca todos os pedidos
	ListOrders(ctx context.Context) ([]Order, error)

	// ListOrdersByStatus busca os pedidos com um status específico
	ListOrdersByStatus(ctx context.Context, status OrderStatus) ([]Order, error)
}

// PostgresTx implementa a interface Tx
type PostgresTx struct {
	tx pgx.Tx
}

func (t *PostgresTx) Commit() error {
	return t.tx.Commit(context.Background())
}

func (t *PostgresTx) Rollback() error {
	return t.tx.Rollback(context.Background())
}

// pgxQuerier é satisfeito por *pgxpool.Pool e por pgx.Tx — as queries de
// leitura de pedido funcionam dentro e fora de transação
type pgxQuerier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresOrderRepository implementa OrderRepository usando PostgreSQL
type PostgresOrderRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresOrderRepository cria uma nova instância de PostgresOrderRepository
func NewPostgresOrderRepository(pool *pgxpool.Pool) *PostgresOrderRepository {
	return &PostgresOrderRepository{pool: pool}
}

// BeginTx inicia uma nova transação
func (r *PostgresOrderRepository) BeginTx(ctx context.Context) (Tx, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return &PostgresTx{tx: tx}, nil
}

// OrderExists verifica se o pedido existe
func (r *PostgresOrderRepository) OrderExists(ctx context.Context, orderID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM orders WHERE id = $1)", orderID).Scan(&exists)
	return exists, err
}

// CreateOrder persiste um pedido novo (sem itens)
func (r *PostgresOrderRepository) CreateOrder(ctx context.Context, order *Order) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO orders (id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
	`, order.ID, order.Status, order.CreatedAt, order.UpdatedAt)
	return err
}

// GetOrder busca um pedido com seus itens
func (r *PostgresOrderRepository) GetOrder(ctx context.Context, orderID string) (*Order, error) {
	return getOrder(ctx, r.pool, orderID, "")
}

// GetOrderForUpdate busca o pedido com lock pessimista (FOR UPDATE)
func (r *PostgresOrderRepository) GetOrderForUpdate(ctx context.Context, tx Tx, orderID string) (*Order, error) {
	pgTx := tx.(*PostgresTx).tx
	return getOrder(ctx, pgTx, orderID, " FOR UPDATE")
}

func getOrder(ctx context.Context, q pgxQuerier, orderID, lockClause string) (*Order, error) {
	query := `
		SELECT id, status, created_at, updated_at
		FROM orders
		WHERE id = $1
	` + lockClause

	var order Order
	err := q.QueryRow(ctx, query, orderID).Scan(
		&order.ID,
		&order.Status,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	order.OrderItems, err = getOrderItems(ctx, q, orderID)
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func getOrderItems(ctx context.Context, q pgxQuerier, orderID string) ([]OrderItem, error) {
	rows, err := q.Query(ctx, `
		SELECT id, product_id, quantity
		FROM order_items
		WHERE order_id = $1
		ORDER BY position
	`, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	items := []OrderItem{}
	for rows.Next() {
		var item OrderItem
		if err := rows.Scan(&item.ID, &item.ProductID, &item.Quantity); err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// SaveOrderItems substitui a coleção de itens do pedido dentro da transação.
// A posição de cada linha é o índice na coleção — a ordem de inserção do
// pedido sobrevive ao round-trip pelo banco.
func (r *PostgresOrderRepository) SaveOrderItems(ctx context.Context, tx Tx, orderID string, items []OrderItem) error {
	pgTx := tx.(*PostgresTx).tx

	_, err := pgTx.Exec(ctx, "DELETE FROM order_items WHERE order_id = $1", orderID)
	if err != nil {
		return fmt.Errorf("failed to clear order items: %w", err)
	}

	for position, item := range items {
		if item.ID == "" {
			item.ID = uuid.New().String()
		}
		_, err := pgTx.Exec(ctx, `
			INSERT INTO order_items (id, order_id, product_id, quantity, position)
			VALUES ($1, $2, $3, $4, $5)
		`, item.ID, orderID, item.ProductID, item.Quantity, position)
		if err != nil {
			return fmt.Errorf("failed to insert order item: %w", err)
		}
	}

	_, err = pgTx.Exec(ctx, "UPDATE orders SET updated_at = NOW() WHERE id = $1", orderID)
	if err != nil {
		return fmt.Errorf("failed to touch order: %w", err)
	}
	return nil
}

// UpdateOrderStatus atualiza o status do pedido dentro da transação
func (r *PostgresOrderRepository) UpdateOrderStatus(ctx context.Context, tx Tx, orderID string, status OrderStatus) error {
	pgTx := tx.(*PostgresTx).tx

	_, err := pgTx.Exec(ctx, `
		UPDATE orders
		SET status = $1, updated_at = NOW()
		WHERE id = $2
	`, status, orderID)
	return err
}

// ListOrders busca todos os pedidos
func (r *PostgresOrderRepository) ListOrders(ctx context.Context) ([]Order, error) {
	return r.listOrders(ctx, "SELECT id, status, created_at, updated_at FROM orders ORDER BY created_at")
}

// ListOrdersByStatus busca os pedidos com um status específico
func (r *PostgresOrderRepository) ListOrdersByStatus(ctx context.Context, status OrderStatus) ([]Order, error) {
	return r.listOrders(ctx, "SELECT id, status, created_at, updated_at FROM orders WHERE status = $1 ORDER BY created_at", status)
}

func (r *PostgresOrderRepository) listOrders(ctx context.Context, query string, args ...any) ([]Order, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	orders := []Order{}
	for rows.Next() {
		var order Order
		if err := rows.Scan(&order.ID, &order.Status, &order.CreatedAt, &order.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range orders {
		orders[i].OrderItems, err = getOrderItems(ctx, r.pool, orders[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return orders, nil
}
