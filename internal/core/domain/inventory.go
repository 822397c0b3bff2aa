package domain

// ItemCount is the stock record for a single catalog item.
// Count never goes below zero.
type ItemCount struct {
	ItemID int
	Count  int
}
