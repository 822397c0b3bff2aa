package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"pizzeria/internal/core/domain"
	"pizzeria/internal/port"
)

// PlacementRequest is a fully resolved order decision. Free-text answers are
// the interactive layer's problem; by the time a request reaches the
// coordinator, confirm and delivery are booleans.
type PlacementRequest struct {
	// RequestID deduplicates retransmitted submissions when a stock gate is
	// configured. Empty disables the check.
	RequestID string

	SectionID       int
	SubsectionIndex int // 1-based position within the section

	// Confirm false records a cancelled order for audit without touching
	// inventory.
	Confirm bool

	// Delivery is the captured delivery answer, nil if never asked.
	Delivery *bool
}

type PlacementResult struct {
	OrderID int64
	Status  domain.OrderStatus
}

// Coordinator validates a selection against the catalog and drives the
// placement unit: reserve -> create -> upsert-or-skip, atomically. The gate
// and audit log are optional collaborators; the store is authoritative.
type Coordinator struct {
	catalog *domain.Catalog
	store   port.PlacementStore
	gate    port.StockGate
	audit   port.AuditLog
	log     *slog.Logger
}

func NewCoordinator(catalog *domain.Catalog, store port.PlacementStore, gate port.StockGate, audit port.AuditLog, log *slog.Logger) *Coordinator {
	if log == nil {
		log = slog.Default()
	}
	return &Coordinator{
		catalog: catalog,
		store:   store,
		gate:    gate,
		audit:   audit,
		log:     log,
	}
}

func (c *Coordinator) PlaceOrder(ctx context.Context, req PlacementRequest) (*PlacementResult, error) {
	item, err := c.catalog.Item(req.SectionID, req.SubsectionIndex)
	if err != nil {
		return nil, err
	}

	if req.RequestID != "" && c.gate != nil {
		ok, err := c.gate.SetIdempotency(ctx, "order:"+req.RequestID)
		if err != nil {
			return nil, fmt.Errorf("idempotency check: %w", err)
		}
		if !ok {
			return nil, domain.ErrDuplicateRequest
		}
	}

	if !req.Confirm {
		return c.cancel(ctx, item, req.Delivery)
	}
	return c.complete(ctx, item, req.Delivery)
}

func (c *Coordinator) complete(ctx context.Context, item domain.Item, delivery *bool) (*PlacementResult, error) {
	gated := false
	if c.gate != nil {
		ok, err := c.gate.DecrementStock(ctx, item.ID, 1)
		if err != nil {
			// The gate is an optimization; the ledger's conditional
			// decrement still guards the count.
			c.log.Warn("stock gate unavailable", "item", item.ID, "error", err)
		} else if !ok {
			return nil, fmt.Errorf("item %d: %w", item.ID, domain.ErrInsufficientStock)
		} else {
			gated = true
		}
	}

	// Pickup means no delivery record at all; a record is written only for
	// an explicit yes.
	var deliveryRow *bool
	if delivery != nil && *delivery {
		t := true
		deliveryRow = &t
	}

	id, err := c.place(ctx, port.Placement{
		Section:    item.Section,
		Subsection: item.Subsection,
		ItemID:     item.ID,
		Status:     domain.OrderStatusCompleted,
		Reserve:    true,
		Delivery:   deliveryRow,
	})
	if err != nil {
		if gated {
			if rbErr := c.gate.IncrementStock(ctx, item.ID, 1); rbErr != nil {
				c.log.Error("stock gate rollback failed", "item", item.ID, "error", rbErr)
			}
		}
		return nil, err
	}

	c.record(ctx, "order_completed", id, item, deliveryRow != nil)
	return &PlacementResult{OrderID: id, Status: domain.OrderStatusCompleted}, nil
}

func (c *Coordinator) cancel(ctx context.Context, item domain.Item, delivery *bool) (*PlacementResult, error) {
	// No reservation is made, so there is nothing to release. A delivery
	// answer captured earlier is keyed to this order's fresh id, never to
	// whatever order happens to be the latest.
	id, err := c.place(ctx, port.Placement{
		Section:    item.Section,
		Subsection: item.Subsection,
		ItemID:     item.ID,
		Status:     domain.OrderStatusCancelled,
		Reserve:    false,
		Delivery:   delivery,
	})
	if err != nil {
		return nil, err
	}

	c.record(ctx, "order_cancelled", id, item, delivery != nil)
	return &PlacementResult{OrderID: id, Status: domain.OrderStatusCancelled}, nil
}

// place runs the atomic unit, retrying once on a transient storage failure.
// The unit commits whole or not at all, so the retry can never double-apply.
func (c *Coordinator) place(ctx context.Context, p port.Placement) (int64, error) {
	id, err := c.store.Place(ctx, p)
	if err != nil && domain.IsStorageFailure(err) {
		c.log.Warn("placement unit failed, retrying once", "item", p.ItemID, "error", err)
		id, err = c.store.Place(ctx, p)
	}
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (c *Coordinator) record(ctx context.Context, kind string, orderID int64, item domain.Item, deliveryRecorded bool) {
	if c.audit == nil {
		return
	}
	ev := domain.AuditEvent{
		Kind: kind,
		Detail: map[string]string{
			"order_id":   strconv.FormatInt(orderID, 10),
			"section":    item.Section,
			"subsection": item.Subsection,
			"item_id":    strconv.Itoa(item.ID),
			"delivery":   strconv.FormatBool(deliveryRecorded),
		},
	}
	if err := c.audit.Append(ctx, ev); err != nil {
		c.log.Error("audit append failed", "kind", kind, "order_id", orderID, "error", err)
	}
}
