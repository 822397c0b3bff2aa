package audit

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pizzeria/internal/core/domain"
)

func TestJSONLog_AppendsOneLinePerEvent(t *testing.T) {
	var buf bytes.Buffer
	log := NewJSONLog(&buf)
	ctx := context.Background()

	require.NoError(t, log.Append(ctx, domain.AuditEvent{
		Kind:  "user_registered",
		Actor: "alice",
	}))
	require.NoError(t, log.Append(ctx, domain.AuditEvent{
		Kind:   "order_completed",
		Detail: map[string]string{"order_id": "7", "delivery": "true"},
	}))

	scanner := bufio.NewScanner(&buf)
	var events []domain.AuditEvent
	for scanner.Scan() {
		var ev domain.AuditEvent
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &ev))
		events = append(events, ev)
	}

	require.Len(t, events, 2)
	assert.Equal(t, "user_registered", events[0].Kind)
	assert.Equal(t, "alice", events[0].Actor)
	assert.False(t, events[0].At.IsZero(), "timestamp is stamped on append")
	assert.Equal(t, "7", events[1].Detail["order_id"])
}
