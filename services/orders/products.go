package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ProductRepository define as operações de persistência de produtos.
// amount_in_stock só muda via AdjustStock, sempre dentro de uma transação
// com a linha do produto travada.
type ProductRepository interface {
	// ProductExists verifica se o produto existe
	ProductExists(ctx context.Context, productID string) (bool, error)

	// CreateProduct persiste um produto novo
	CreateProduct(ctx context.Context, product *Product) error

	// GetProduct busca um produto pelo ID
	GetProduct(ctx context.Context, productID string) (*Product, error)

	// GetProductForUpdate obtém o produto com lock pessimista (FOR UPDATE)
	GetProductForUpdate(ctx context.Context, tx Tx, productID string) (*Product, error)

	// AdjustStock soma delta (positivo ou negativo) ao estoque do produto
	AdjustStock(ctx context.Context, tx Tx, productID string, delta int) error
}

// PostgresProductRepository implementa ProductRepository usando PostgreSQL
type PostgresProductRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresProductRepository cria uma nova instância de PostgresProductRepository
func NewPostgresProductRepository(pool *pgxpool.Pool) *PostgresProductRepository {
	return &PostgresProductRepository{pool: pool}
}

// ProductExists verifica se o produto existe
func (r *PostgresProductRepository) ProductExists(ctx context.Context, productID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM products WHERE id = $1)", productID).Scan(&exists)
	return exists, err
}

// CreateProduct persiste um produto novo
func (r *PostgresProductRepository) CreateProduct(ctx context.Context, product *Product) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO products (id, name, amount_in_stock, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`, product.ID, product.Name, product.AmountInStock, product.CreatedAt, product.UpdatedAt)
	return err
}

// GetProduct busca um produto pelo ID
func (r *PostgresProductRepository) GetProduct(ctx context.Context, productID string) (*Product, error) {
	return r.getProduct(ctx, r.pool, productID, "")
}

// GetProductForUpdate obtém o produto com lock pessimista (FOR UPDATE).
// A linha fica travada até o Commit ou Rollback — reservas concorrentes no
// mesmo produto serializam aqui.
func (r *PostgresProductRepository) GetProductForUpdate(ctx context.Context, tx Tx, productID string) (*Product, error) {
	pgTx := tx.(*PostgresTx).tx
	return r.getProduct(ctx, pgTx, productID, " FOR UPDATE")
}

func (r *PostgresProductRepository) getProduct(ctx context.Context, q pgxQuerier, productID, lockClause string) (*Product, error) {
	query := `
		SELECT id, name, amount_in_stock, created_at, updated_at
		FROM products
		WHERE id = $1
	` + lockClause

	var product Product
	err := q.QueryRow(ctx, query, productID).Scan(
		&product.ID,
		&product.Name,
		&product.AmountInStock,
		&product.CreatedAt,
		&product.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return &product, nil
}

// AdjustStock soma delta ao estoque do produto dentro da transação
func (r *PostgresProductRepository) AdjustStock(ctx context.Context, tx Tx, productID string, delta int) error {
	pgTx := tx.(*PostgresTx).tx

	_, err := pgTx.Exec(ctx, `
		UPDATE products
		SET amount_in_stock = amount_in_stock + $1, updated_at = NOW()
		WHERE id = $2
	`, delta, productID)
	if err != nil {
		return fmt.Errorf("failed to adjust stock: %w", err)
	}
	return nil
}

// ProductUseCase contém a lógica de negócio do catálogo de produtos
type ProductUseCase struct {
	products ProductRepository
}

// NewProductUseCase cria uma nova instância de ProductUseCase
func NewProductUseCase(products ProductRepository) *ProductUseCase {
	return &ProductUseCase{products: products}
}

// CreateProduct registra um produto novo com seu estoque inicial
func (uc *ProductUseCase) CreateProduct(ctx context.Context, name string, amountInStock int) (*Product, error) {
	if amountInStock < 0 {
		return nil, fmt.Errorf("%w: initial stock must not be negative", ErrInvalidQuantity)
	}

	now := time.Now()
	product := &Product{
		ID:            uuid.New().String(),
		Name:          name,
		AmountInStock: amountInStock,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := uc.products.CreateProduct(ctx, product); err != nil {
		log.Printf("❌ Failed to create product: %v", err)
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	log.Printf("✅ Product created: %s (stock=%d)", product.ID, product.AmountInStock)
	return product, nil
}

// GetProduct busca um produto pelo ID
func (uc *ProductUseCase) GetProduct(ctx context.Context, productID string) (*Product, error) {
	return uc.products.GetProduct(ctx, productID)
}
