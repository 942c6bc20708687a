package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/tonsisouvanh/mineral-inventory-system/internal/apierror"
	"github.com/tonsisouvanh/mineral-inventory-system/internal/cache"
	"github.com/tonsisouvanh/mineral-inventory-system/internal/config"
	"github.com/tonsisouvanh/mineral-inventory-system/internal/dto"
	"github.com/tonsisouvanh/mineral-inventory-system/internal/metrics"
	"github.com/tonsisouvanh/mineral-inventory-system/internal/model"
	"github.com/tonsisouvanh/mineral-inventory-system/internal/repository"

	"gorm.io/gorm"
)

// StockService owns the stock movement ledger. Every mutation applies its
// signed delta to the product inside the same transaction, so a product's
// quantity always equals the signed sum of its movements.
type StockService interface {
	Create(ctx context.Context, actorID *int64, productID int64, req dto.CreateStockRequest) (*dto.StockResponse, error)
	Update(ctx context.Context, id int64, req dto.UpdateStockRequest) (*dto.StockResponse, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter dto.StockFilter) (*dto.Page[dto.StockResponse], error)
	Count(ctx context.Context) (*dto.StockCountResponse, error)

	// RecordTx inserts m and reconciles its product inside an open
	// transaction. Used by product creation and order fulfillment.
	RecordTx(tx *gorm.DB, m *model.StockMovement) error
}

type stockService struct {
	repo     repository.StockMovementRepository
	products repository.ProductRepository
	stats    cache.StatsCache
	cfg      *config.Config
}

func NewStockService(
	repo repository.StockMovementRepository,
	products repository.ProductRepository,
	stats cache.StatsCache,
	cfg *config.Config,
) StockService {
	return &stockService{repo: repo, products: products, stats: stats, cfg: cfg}
}

func (s *stockService) Create(ctx context.Context, actorID *int64, productID int64, req dto.CreateStockRequest) (*dto.StockResponse, error) {
	if productID <= 0 {
		return nil, apierror.Invalid("product_id", "is required")
	}
	m := &model.StockMovement{
		ProductID:    productID,
		MovementType: model.MovementType(req.MovementType),
		Quantity:     req.Quantity,
		Remarks:      req.Remarks,
		CreatedBy:    actorID,
	}
	if err := validateMovement(m.MovementType, m.Quantity); err != nil {
		return nil, err
	}
	if req.CreatedAt != nil && strings.TrimSpace(*req.CreatedAt) != "" {
		at, err := parseTimestamp("created_at", *req.CreatedAt)
		if err != nil {
			return nil, err
		}
		m.CreatedAt = at
	}

	err := s.mutate(ctx, func(tx *gorm.DB) error {
		return s.RecordTx(tx, m)
	})
	if err != nil {
		return nil, countRejection(err)
	}
	metrics.RecordMovement("create", string(m.MovementType))
	resp := toStockResponse(m)
	return &resp, nil
}

func (s *stockService) Update(ctx context.Context, id int64, req dto.UpdateStockRequest) (*dto.StockResponse, error) {
	newType := model.MovementType(req.MovementType)
	if err := validateMovement(newType, req.Quantity); err != nil {
		return nil, err
	}

	var updated *model.StockMovement
	err := s.mutate(ctx, func(tx *gorm.DB) error {
		m, err := s.repo.FindByIDTx(tx, id)
		if err != nil {
			return notFound(err, "stock movement", id)
		}
		// Net delta, so a type change is undone and re-applied in one step.
		delta := newType.Contribution(req.Quantity) - m.Contribution()

		m.MovementType = newType
		m.Quantity = req.Quantity
		m.Remarks = req.Remarks
		m.UpdatedAt = time.Now()
		if err := s.repo.UpdateTx(tx, m); err != nil {
			return err
		}
		if err := s.products.AdjustQuantityTx(tx, m.ProductID, delta, s.cfg.AllowNegativeStock); err != nil {
			return notFound(err, "product", m.ProductID)
		}
		updated = m
		return nil
	})
	if err != nil {
		return nil, countRejection(err)
	}
	metrics.RecordMovement("update", string(newType))
	resp := toStockResponse(updated)
	return &resp, nil
}

func (s *stockService) Delete(ctx context.Context, id int64) error {
	var deletedType model.MovementType
	err := s.mutate(ctx, func(tx *gorm.DB) error {
		m, err := s.repo.FindByIDTx(tx, id)
		if err != nil {
			return notFound(err, "stock movement", id)
		}
		if err := s.repo.DeleteTx(tx, id); err != nil {
			return err
		}
		if err := s.products.AdjustQuantityTx(tx, m.ProductID, -m.Contribution(), s.cfg.AllowNegativeStock); err != nil {
			return notFound(err, "product", m.ProductID)
		}
		deletedType = m.MovementType
		return nil
	})
	if err != nil {
		return countRejection(err)
	}
	metrics.RecordMovement("delete", string(deletedType))
	return nil
}

// mutate runs fn in a transaction and clears the dashboard cache around it.
func (s *stockService) mutate(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return withStatsCleared(ctx, s.stats, func() error {
		return runTx(ctx, s.repo.DB(), fn)
	})
}

func (s *stockService) RecordTx(tx *gorm.DB, m *model.StockMovement) error {
	if err := validateMovement(m.MovementType, m.Quantity); err != nil {
		return err
	}
	// Reconcile first: a missing product or an overdraw fails before the
	// ledger row is written.
	if err := s.products.AdjustQuantityTx(tx, m.ProductID, m.Contribution(), s.cfg.AllowNegativeStock); err != nil {
		return notFound(err, "product", m.ProductID)
	}
	return s.repo.CreateTx(tx, m)
}

func (s *stockService) List(ctx context.Context, filter dto.StockFilter) (*dto.Page[dto.StockResponse], error) {
	q := repository.StockQuery{
		Name:         strings.TrimSpace(filter.Name),
		MovementType: strings.TrimSpace(filter.MovementType),
	}
	if q.MovementType != "" && !model.MovementType(q.MovementType).Valid() {
		return nil, apierror.Invalid("movementType", "must be one of IN OUT TRANSFER")
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pid, err := strconv.ParseInt(search, 10, 64)
		if err != nil {
			return nil, apierror.Invalid("search", "must be a numeric product id")
		}
		q.ProductID = &pid
	}
	day, err := parseDay("date", filter.Date)
	if err != nil {
		return nil, err
	}
	q.Day = day

	limit := dto.NormalizeLimit(filter.Limit)
	total, err := s.repo.Count(ctx, q)
	if err != nil {
		return nil, err
	}
	page, totalPages := dto.ClampPage(filter.Page, limit, total)

	rows, err := s.repo.List(ctx, q, dto.Offset(page, limit), limit)
	if err != nil {
		return nil, err
	}
	data := make([]dto.StockResponse, 0, len(rows))
	for i := range rows {
		data = append(data, toStockResponse(&rows[i]))
	}
	return &dto.Page[dto.StockResponse]{
		Data: data,
		Meta: dto.NewPageMeta(s.cfg.APIBaseURL+"/stocks", total, page, totalPages, limit,
			dto.QueryParam{Key: "name", Value: q.Name},
			dto.QueryParam{Key: "movementType", Value: q.MovementType},
			dto.QueryParam{Key: "date", Value: strings.TrimSpace(filter.Date)},
		),
	}, nil
}

func (s *stockService) Count(ctx context.Context) (*dto.StockCountResponse, error) {
	c, err := s.repo.CountByType(ctx)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// countRejection counts negative-stock policy rejections and returns err.
func countRejection(err error) error {
	if errors.Is(err, apierror.ErrInsufficientStock) {
		metrics.InsufficientStockTotal.Inc()
	}
	return err
}

func validateMovement(t model.MovementType, quantity int) error {
	if !t.Valid() {
		return apierror.Invalid("movement_type", "must be one of IN OUT TRANSFER")
	}
	if quantity <= 0 {
		return apierror.Invalid("quantity", "must be greater than 0")
	}
	return nil
}

// notFound rewrites a repository not-found into apierror.ErrNotFound with the
// entity named; other errors pass through untouched.
func notFound(err error, entity string, id any) error {
	if repository.IsNotFound(err) {
		return fmt.Errorf("%s %v: %w", entity, id, apierror.ErrNotFound)
	}
	return err
}

func toStockResponse(m *model.StockMovement) dto.StockResponse {
	r := dto.StockResponse{
		ID:           m.ID,
		ProductID:    m.ProductID,
		MovementType: string(m.MovementType),
		Quantity:     m.Quantity,
		Remarks:      m.Remarks,
		CreatedBy:    m.CreatedBy,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
	if m.Product != nil {
		r.Product = &dto.NameRef{Name: m.Product.Name}
	}
	if m.User != nil {
		r.User = &dto.NameRef{Name: m.User.Name}
	}
	return r
}
