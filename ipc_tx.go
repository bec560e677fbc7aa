package main

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"ktm-can-service/ktm"

	"github.com/go-redis/redis/v8"
)

// Sink receives every decoded record.
type Sink interface {
	SendRecord(r ktm.Record) error
}

// IPCTx mirrors decoded records into Redis hashes, one per message family.
type IPCTx struct {
	log   *LeveledLogger
	redis *redis.Client
	keys  RedisKeys
	mu    sync.Mutex
	ctx   context.Context
}

func NewIPCTx(logger *LeveledLogger, redis *redis.Client, keys RedisKeys) *IPCTx {
	return &IPCTx{
		log:   logger,
		redis: redis,
		keys:  keys,
		ctx:   context.Background(),
	}
}

func (tx *IPCTx) Destroy() {}

func (tx *IPCTx) SendRecord(r ktm.Record) error {
	values := redisValues(r)
	if len(values) == 0 {
		return nil
	}

	tx.mu.Lock()
	defer tx.mu.Unlock()

	id := r.CANID()
	pipe := tx.redis.Pipeline()

	pipe.HSet(tx.ctx, tx.keys.Hash(id), values)

	// Notify subscribers which family changed
	pipe.Publish(tx.ctx, tx.keys.Channel(id), ktm.KeyOf(id))

	if _, err := pipe.Exec(tx.ctx); err != nil {
		return fmt.Errorf("failed to send %s: %v", ktm.NameOf(id), err)
	}

	return nil
}

// redisValues flattens a record for HSET. Booleans become "on"/"off" and
// temperatures keep one decimal place. Unmapped payloads are keyed by their
// identifier so different unknown IDs do not overwrite each other.
func redisValues(r ktm.Record) map[string]interface{} {
	if u, ok := r.(ktm.Unmapped); ok {
		return map[string]interface{}{
			fmt.Sprintf("0x%03X", u.ID): u.Hex(),
		}
	}

	fields := r.Fields()
	values := make(map[string]interface{}, len(fields))
	for k, v := range fields {
		switch v := v.(type) {
		case bool:
			values[k] = map[bool]string{true: "on", false: "off"}[v]
		case float64:
			values[k] = strconv.FormatFloat(v, 'f', 1, 64)
		default:
			values[k] = v
		}
	}
	return values
}
