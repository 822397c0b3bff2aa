package service

import (
	"context"

	"pizzeria/internal/core/domain"
	"pizzeria/internal/port"
)

// ReportingView is the read-only admin aggregation over the order and
// inventory ledgers. Both listings come back in deterministic ascending
// order; reads may run alongside writers and see a consistent snapshot.
type ReportingView struct {
	orders    port.OrderLedger
	inventory port.InventoryLedger
}

func NewReportingView(orders port.OrderLedger, inventory port.InventoryLedger) *ReportingView {
	return &ReportingView{orders: orders, inventory: inventory}
}

func (v *ReportingView) ListOrders(ctx context.Context) ([]domain.Order, error) {
	return v.orders.List(ctx)
}

func (v *ReportingView) ListInventory(ctx context.Context) ([]domain.ItemCount, error) {
	return v.inventory.List(ctx)
}
