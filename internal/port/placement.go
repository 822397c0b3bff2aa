package port

import (
	"context"

	"pizzeria/internal/core/domain"
)

// Placement describes the atomic group of writes for one order: an optional
// reservation of one unit, the order row itself, and an optional delivery
// record keyed to the freshly allocated order id.
type Placement struct {
	Section    string
	Subsection string
	ItemID     int
	Status     domain.OrderStatus

	// Reserve decrements the item count by one inside the unit. It is false
	// for cancelled orders, which are recorded for audit without touching
	// inventory.
	Reserve bool

	// Delivery, when non-nil, writes a delivery record against the new
	// order's id. Nil means pickup: no record at all.
	Delivery *bool
}

// PlacementStore executes a placement as one atomic unit: either every write
// commits or none do. In particular domain.ErrInsufficientStock must leave
// no order row behind.
type PlacementStore interface {
	Place(ctx context.Context, p Placement) (int64, error)
}
