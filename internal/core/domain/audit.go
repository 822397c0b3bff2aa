package domain

import "time"

// AuditEvent is one entry of the append-only audit trail. Detail values are
// rendered as-is, so credentials must never be put there.
type AuditEvent struct {
	Kind   string            `json:"kind"`
	At     time.Time         `json:"at"`
	Actor  string            `json:"actor,omitempty"`
	Detail map[string]string `json:"detail,omitempty"`
}
