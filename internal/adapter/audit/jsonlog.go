// Package audit provides the append-only event trail behind port.AuditLog.
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"

	"pizzeria/internal/core/domain"
)

// JSONLog appends one JSON object per line to a writer. It replaces the old
// plaintext registration file; events carry no credentials.
type JSONLog struct {
	mu  sync.Mutex
	enc *json.Encoder
}

func NewJSONLog(w io.Writer) *JSONLog {
	return &JSONLog{enc: json.NewEncoder(w)}
}

func (l *JSONLog) Append(ctx context.Context, ev domain.AuditEvent) error {
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.enc.Encode(ev); err != nil {
		return fmt.Errorf("append audit event: %w", err)
	}
	return nil
}
