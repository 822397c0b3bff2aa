package domain

// Delivery records whether a single order requires delivery.
// At most one record exists per order.
type Delivery struct {
	ID               int64
	OrderID          int64
	RequiresDelivery bool
}
