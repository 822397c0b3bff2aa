package domain

import "time"

type OrderStatus string

const (
	OrderStatusPlaced    OrderStatus = "Placed"
	OrderStatusCompleted OrderStatus = "Completed"
	OrderStatusCancelled OrderStatus = "Cancelled"
)

// Order is immutable after creation except for its status.
type Order struct {
	ID         int64
	Section    string
	Subsection string
	ItemID     int
	Status     OrderStatus
	CreatedAt  time.Time
}
