package service

import (
	"context"
	"time"

	"github.com/tonsisouvanh/mineral-inventory-system/internal/cache"
	"github.com/tonsisouvanh/mineral-inventory-system/internal/config"
	"github.com/tonsisouvanh/mineral-inventory-system/internal/dto"
	"github.com/tonsisouvanh/mineral-inventory-system/internal/repository"

	"github.com/rs/zerolog/log"
)

// StatsService serves the dashboard aggregates, read-through cached.
type StatsService interface {
	Dashboard(ctx context.Context) (*dto.StatsResponse, error)
}

type statsService struct {
	products  repository.ProductRepository
	movements repository.StockMovementRepository
	orders    repository.OrderRepository
	cache     cache.StatsCache
	cfg       *config.Config
}

func NewStatsService(
	products repository.ProductRepository,
	movements repository.StockMovementRepository,
	orders repository.OrderRepository,
	c cache.StatsCache,
	cfg *config.Config,
) StatsService {
	return &statsService{products: products, movements: movements, orders: orders, cache: c, cfg: cfg}
}

func (s *statsService) Dashboard(ctx context.Context) (*dto.StatsResponse, error) {
	cached, ok, err := s.cache.Get(ctx)
	if err != nil {
		// A cache outage degrades to a direct read.
		log.Warn().Err(err).Msg("stats cache read failed")
	}
	if ok {
		return cached, nil
	}

	products, err := s.products.CountByStatus(ctx, s.cfg.ReorderPoint)
	if err != nil {
		return nil, err
	}
	movements, err := s.movements.CountByType(ctx)
	if err != nil {
		return nil, err
	}
	orders, err := s.orders.Summary(ctx)
	if err != nil {
		return nil, err
	}
	resp := &dto.StatsResponse{Products: products, Movements: movements, Orders: orders}

	ttl := time.Duration(s.cfg.StatsCacheTTLSeconds) * time.Second
	if err := s.cache.Set(ctx, resp, ttl); err != nil {
		log.Warn().Err(err).Msg("stats cache write failed")
	}
	return resp, nil
}
