package port

import (
	"context"

	"pizzeria/internal/core/domain"
)

// AuditLog is an append-only event trail. Implementations must never drop
// events silently; append failures are returned to the caller.
type AuditLog interface {
	Append(ctx context.Context, ev domain.AuditEvent) error
}
