package port

import (
	"context"

	"pizzeria/internal/core/domain"
)

type InventoryLedger interface {
	// Get returns the current count for an item, or domain.ErrUnknownItem.
	Get(ctx context.Context, itemID int) (int, error)

	// Reserve atomically decrements the count by qty. Fails with
	// domain.ErrInsufficientStock if the count would go negative and with
	// domain.ErrUnknownItem if the item was never seeded.
	Reserve(ctx context.Context, itemID, qty int) error

	// Release is the compensating increment for an undone reservation.
	Release(ctx context.Context, itemID, qty int) error

	// Seed sets the initial count once at bootstrap. Repeating it for the
	// same item fails with domain.ErrAlreadySeeded.
	Seed(ctx context.Context, itemID, count int) error

	// List returns all counts ordered by item id ascending.
	List(ctx context.Context) ([]domain.ItemCount, error)
}

type OrderLedger interface {
	// Create persists a new order and returns its id synchronously with the
	// write. The id is never inferred from "the most recent row".
	Create(ctx context.Context, o domain.Order) (int64, error)

	// UpdateStatus fails with domain.ErrUnknownOrder if the order is absent.
	UpdateStatus(ctx context.Context, orderID int64, status domain.OrderStatus) error

	// List returns all orders ordered by id ascending.
	List(ctx context.Context) ([]domain.Order, error)
}

type DeliveryRegistry interface {
	// Upsert creates the delivery record for the given order id or
	// overwrites its flag. Fails with domain.ErrUnknownOrder if no such
	// order exists.
	Upsert(ctx context.Context, orderID int64, requiresDelivery bool) error

	// ByOrder returns the delivery record for an order, or nil if none.
	ByOrder(ctx context.Context, orderID int64) (*domain.Delivery, error)
}
