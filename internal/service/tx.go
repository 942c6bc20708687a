package service

import (
	"context"

	"github.com/tonsisouvanh/mineral-inventory-system/internal/cache"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// withStatsCleared runs a write that changes dashboard totals and clears the
// cached totals before and after it. The second clear drops a value a
// concurrent Dashboard call stored while fn was still uncommitted.
func withStatsCleared(ctx context.Context, stats cache.StatsCache, fn func() error) error {
	clearStats(ctx, stats)
	if err := fn(); err != nil {
		return err
	}
	clearStats(ctx, stats)
	return nil
}

func clearStats(ctx context.Context, stats cache.StatsCache) {
	if err := stats.Invalidate(ctx); err != nil {
		log.Warn().Err(err).Msg("stats cache invalidation failed")
	}
}
