package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/crm-properties/crm-api/internal/core/ports"
)

const (
	metricsKey = "metrics:global"
	metricsTTL = 30 * time.Second
)

// MetricsCache holds the admin dashboard counts for a short window so a
// refresh-happy dashboard does not hammer six COUNT queries per hit.
type MetricsCache struct {
	client *redis.Client
}

// NewMetricsCache creates a MetricsCache wrapping the given Redis client.
func NewMetricsCache(client *redis.Client) *MetricsCache {
	return &MetricsCache{client: client}
}

// Get returns the cached metrics and whether the key was present.
func (c *MetricsCache) Get(ctx context.Context) (*ports.GlobalMetrics, bool, error) {
	raw, err := c.client.Get(ctx, metricsKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("metrics cache get: %w", err)
	}

	var m ports.GlobalMetrics
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, false, fmt.Errorf("metrics cache decode: %w", err)
	}
	return &m, true, nil
}

// Set stores the metrics with the cache TTL.
func (c *MetricsCache) Set(ctx context.Context, m *ports.GlobalMetrics) error {
	raw, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("metrics cache encode: %w", err)
	}
	return c.client.Set(ctx, metricsKey, raw, metricsTTL).Err()
}
