package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	stockKeyPrefix    = "stock:"
	idempotencyKeyTTL = 24 * time.Hour
)

var decrementStockScript = redis.NewScript(`
local key = KEYS[1]
local quantity = tonumber(ARGV[1])

local current = redis.call('GET', key)
if not current then
	return 0
end

current = tonumber(current)
if current >= quantity then
	redis.call('DECRBY', key, quantity)
	return 1
end

return 0
`)

// RedisGate implements port.StockGate: a mirrored stock count shared by all
// instances that rejects doomed placements before they reach the database.
type RedisGate struct {
	client *redis.Client
}

func NewRedisGate(client *redis.Client) *RedisGate {
	return &RedisGate{client: client}
}

func (g *RedisGate) DecrementStock(ctx context.Context, itemID, qty int) (bool, error) {
	key := stockKey(itemID)

	result, err := decrementStockScript.Run(ctx, g.client, []string{key}, qty).Int()
	if err != nil {
		return false, err
	}

	return result == 1, nil
}

func (g *RedisGate) IncrementStock(ctx context.Context, itemID, qty int) error {
	return g.client.IncrBy(ctx, stockKey(itemID), int64(qty)).Err()
}

func (g *RedisGate) SetStock(ctx context.Context, itemID, count int) error {
	return g.client.Set(ctx, stockKey(itemID), count, 0).Err()
}

func (g *RedisGate) SetIdempotency(ctx context.Context, key string) (bool, error) {
	ok, err := g.client.SetNX(ctx, key, 1, idempotencyKeyTTL).Result()
	if err != nil {
		return false, err
	}

	return ok, nil
}

func stockKey(itemID int) string {
	return fmt.Sprintf("%s%d", stockKeyPrefix, itemID)
}
