package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/BruksfildServices01/fila-atendimento/internal/domain/queue"
)

// Cache keys
const (
	KeyAppointments = "fila:appointments"
)

// QueryCache guarda o snapshot da fila sob chaves conhecidas.
type QueryCache struct {
	store Store
	ttl   time.Duration
}

func NewQueryCache(store Store, ttl time.Duration) *QueryCache {
	return &QueryCache{store: store, ttl: ttl}
}

// Snapshot returns the cached queue; ok is false on a miss or expiry.
func (c *QueryCache) Snapshot(ctx context.Context) (queue.Snapshot, bool, error) {
	b, ok, err := c.store.Get(ctx, KeyAppointments)
	if err != nil || !ok {
		return queue.Snapshot{}, false, err
	}

	var snap queue.Snapshot
	if err := json.Unmarshal(b, &snap); err != nil {
		return queue.Snapshot{}, false, fmt.Errorf("decode cached snapshot: %w", err)
	}
	return snap, true, nil
}

func (c *QueryCache) PutSnapshot(ctx context.Context, snap queue.Snapshot) error {
	b, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return c.store.Set(ctx, KeyAppointments, b, c.ttl)
}

func (c *QueryCache) Invalidate(ctx context.Context) error {
	return c.store.Delete(ctx, KeyAppointments)
}
