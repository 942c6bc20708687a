// Package cache holds the dashboard statistics cache.
package cache

import (
	"context"
	"time"

	"github.com/tonsisouvanh/mineral-inventory-system/internal/dto"
)

// StatsKey is the single key the dashboard aggregate lives under.
const StatsKey = "stats:dashboard"

type StatsCache interface {
	Get(ctx context.Context) (*dto.StatsResponse, bool, error)
	Set(ctx context.Context, value *dto.StatsResponse, ttl time.Duration) error
	Invalidate(ctx context.Context) error
}

// NoopStatsCache is used when Redis is not configured.
type NoopStatsCache struct{}

func (NoopStatsCache) Get(_ context.Context) (*dto.StatsResponse, bool, error) {
	return nil, false, nil
}

func (NoopStatsCache) Set(_ context.Context, _ *dto.StatsResponse, _ time.Duration) error {
	return nil
}

func (NoopStatsCache) Invalidate(_ context.Context) error { return nil }
