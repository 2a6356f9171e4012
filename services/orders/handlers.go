package main

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// OrderUseCaseInterface define a interface para o use case de pedidos
type OrderUseCaseInterface interface {
	CreateOrder(ctx context.Context) (*Order, error)
	GetOrder(ctx context.Context, orderID string) (*Order, error)
	ListOrders(ctx context.Context) ([]Order, error)
	ListOpenOrders(ctx context.Context) ([]Order, error)
	AddItem(ctx context.Context, orderID string, requested OrderItem) (*Order, error)
	RemoveItem(ctx context.Context, orderID string, requested OrderItem) (*Order, error)
	CashoutOrder(ctx context.Context, orderID string) (*Order, error)
}

// ProductUseCaseInterface define a interface para o use case de produtos
type ProductUseCaseInterface interface {
	CreateProduct(ctx context.Context, name string, amountInStock int) (*Product, error)
	GetProduct(ctx context.Context, productID string) (*Product, error)
}

// OrderItemRequest representa a requisição para adicionar/remover itens
type OrderItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,gt=0"`
}

// CreateProductRequest representa a requisição para criar um produto
type CreateProductRequest struct {
	Name          string `json:"name" binding:"required"`
	AmountInStock int    `json:"amount_in_stock" binding:"gte=0"`
}

// OrderHandler contém os handlers HTTP de pedidos
type OrderHandler struct {
	useCase  OrderUseCaseInterface
	products ProductUseCaseInterface
	tracer   trace.Tracer
}

// NewOrderHandler cria uma nova instância de OrderHandler
func NewOrderHandler(useCase OrderUseCaseInterface, products ProductUseCaseInterface, tracer trace.Tracer) *OrderHandler {
	return &OrderHandler{
		useCase:  useCase,
		products: products,
		tracer:   tracer,
	}
}

// statusFromError traduz os erros de domínio para códigos HTTP
func statusFromError(err error) int {
	switch {
	case errors.Is(err, ErrOrderNotFound), errors.Is(err, ErrProductNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrOrderAlreadyPaid):
		return http.StatusConflict
	case errors.Is(err, ErrInsufficientStock):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrItemNotOnOrder), errors.Is(err, ErrInsufficientQuantity), errors.Is(err, ErrInvalidQuantity):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// CreateOrder cria um pedido vazio
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "create_order")
	defer span.End()

	order, err := h.useCase.CreateOrder(ctx)
	if err != nil {
		span.RecordError(err)
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}

	span.SetAttributes(attribute.String("order_id", order.ID))
	c.JSON(http.StatusCreated, order)
}

// GetOrder busca um pedido pelo ID
func (h *OrderHandler) GetOrder(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "get_order")
	defer span.End()

	order, err := h.useCase.GetOrder(ctx, c.Param("id"))
	if err != nil {
		span.RecordError(err)
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, order)
}

// ListOrders lista todos os pedidos
func (h *OrderHandler) ListOrders(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "list_orders")
	defer span.End()

	orders, err := h.useCase.ListOrders(ctx)
	if err != nil {
		span.RecordError(err)
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, orders)
}

// ListOpenOrders lista os pedidos ainda abertos
func (h *OrderHandler) ListOpenOrders(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "list_open_orders")
	defer span.End()

	orders, err := h.useCase.ListOpenOrders(ctx)
	if err != nil {
		span.RecordError(err)
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, orders)
}

// AddItem adiciona itens de um produto ao pedido
func (h *OrderHandler) AddItem(c *gin.Context) {
	var req OrderItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, span := h.tracer.Start(c.Request.Context(), "add_item")
	defer span.End()

	orderID := c.Param("id")
	span.SetAttributes(
		attribute.String("order_id", orderID),
		attribute.String("product_id", req.ProductID),
		attribute.Int("quantity", req.Quantity),
	)

	order, err := h.useCase.AddItem(ctx, orderID, OrderItem{ProductID: req.ProductID, Quantity: req.Quantity})
	if err != nil {
		span.RecordError(err)
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, order)
}

// RemoveItem remove itens de um produto do pedido
func (h *OrderHandler) RemoveItem(c *gin.Context) {
	var req OrderItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, span := h.tracer.Start(c.Request.Context(), "remove_item")
	defer span.End()

	orderID := c.Param("id")
	span.SetAttributes(
		attribute.String("order_id", orderID),
		attribute.String("product_id", req.ProductID),
		attribute.Int("quantity", req.Quantity),
	)

	order, err := h.useCase.RemoveItem(ctx, orderID, OrderItem{ProductID: req.ProductID, Quantity: req.Quantity})
	if err != nil {
		span.RecordError(err)
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, order)
}

// CashoutOrder fecha um pedido aberto
func (h *OrderHandler) CashoutOrder(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "cashout_order")
	defer span.End()

	orderID := c.Param("id")
	span.SetAttributes(attribute.String("order_id", orderID))

	order, err := h.useCase.CashoutOrder(ctx, orderID)
	if err != nil {
		span.RecordError(err)
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, order)
}

// CreateProduct registra um produto novo com estoque inicial
func (h *OrderHandler) CreateProduct(c *gin.Context) {
	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, span := h.tracer.Start(c.Request.Context(), "create_product")
	defer span.End()

	product, err := h.products.CreateProduct(ctx, req.Name, req.AmountInStock)
	if err != nil {
		span.RecordError(err)
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}

	span.SetAttributes(attribute.String("product_id", product.ID))
	c.JSON(http.StatusCreated, product)
}

// GetProduct busca um produto pelo ID
func (h *OrderHandler) GetProduct(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "get_product")
	defer span.End()

	product, err := h.products.GetProduct(ctx, c.Param("id"))
	if err != nil {
		span.RecordError(err)
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, product)
}

// HealthCheck verifica a saúde do serviço
func (h *OrderHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "orders-service",
	})
}
