package main

import (
	"errors"
	"testing"
	"time"
)

func TestNewOrder(t *testing.T) {
	// Arrange
	id := "test-order-123"

	// Act
	order := NewOrder(id)

	// Assert
	if order.ID != id {
		t.Errorf("Expected ID %s, got %s", id, order.ID)
	}
	if order.Status != OrderStatusOpen {
		t.Errorf("Expected Status %s, got %s", OrderStatusOpen, order.Status)
	}
	if len(order.OrderItems) != 0 {
		t.Errorf("Expected empty order items, got %d", len(order.OrderItems))
	}
	if order.CreatedAt.IsZero() {
		t.Error("Expected CreatedAt to be set")
	}
	if order.UpdatedAt.IsZero() {
		t.Error("Expected UpdatedAt to be set")
	}

	// Verify that CreatedAt and UpdatedAt are within a reasonable time range
	now := time.Now()
	if order.CreatedAt.After(now) || order.CreatedAt.Before(now.Add(-time.Second)) {
		t.Error("CreatedAt is not within expected time range")
	}
}

func TestOrderStatus(t *testing.T) {
	// Test that constants are defined correctly
	if OrderStatusOpen != "OPEN" {
		t.Errorf("Expected OrderStatusOpen to be 'OPEN', got %s", OrderStatusOpen)
	}
	if OrderStatusPaid != "PAID" {
		t.Errorf("Expected OrderStatusPaid to be 'PAID', got %s", OrderStatusPaid)
	}
}

func TestOrderFinalize(t *testing.T) {
	order := NewOrder("test-order-123")

	if err := order.Finalize(); err != nil {
		t.Errorf("Expected first finalize to succeed, got %v", err)
	}
	if order.Status != OrderStatusPaid {
		t.Errorf("Expected Status %s, got %s", OrderStatusPaid, order.Status)
	}

	// Finalizar duas vezes nunca passa
	if err := order.Finalize(); !errors.Is(err, ErrOrderAlreadyPaid) {
		t.Errorf("Expected ErrOrderAlreadyPaid on second finalize, got %v", err)
	}
	if order.Status != OrderStatusPaid {
		t.Errorf("Expected Status to stay %s, got %s", OrderStatusPaid, order.Status)
	}
}

func TestOrderAssertMutable(t *testing.T) {
	order := NewOrder("test-order-123")

	if err := order.AssertMutable(); err != nil {
		t.Errorf("Expected open order to be mutable, got %v", err)
	}

	order.Status = OrderStatusPaid
	if err := order.AssertMutable(); !errors.Is(err, ErrOrderAlreadyPaid) {
		t.Errorf("Expected ErrOrderAlreadyPaid, got %v", err)
	}

	order.Status = OrderStatus("CANCELLED")
	if err := order.AssertMutable(); err == nil {
		t.Error("Expected unknown status to be rejected")
	}
}
