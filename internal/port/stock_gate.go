package port

import "context"

// StockGate is a fast-path stock mirror in front of the database, shared by
// all instances. It rejects doomed placements before they reach the storage
// layer; the ledger's own conditional decrement stays authoritative.
type StockGate interface {
	// DecrementStock atomically decreases mirrored stock, returns false if
	// insufficient.
	DecrementStock(ctx context.Context, itemID, qty int) (bool, error)

	// IncrementStock restores mirrored stock (rollback after a failed unit).
	IncrementStock(ctx context.Context, itemID, qty int) error

	// SetStock overwrites the mirrored count, used to sync at bootstrap.
	SetStock(ctx context.Context, itemID, count int) error

	// SetIdempotency sets a key for request idempotency, returns false if it
	// already exists.
	SetIdempotency(ctx context.Context, key string) (bool, error)
}
