package service

import (
	"context"
	"strings"
	"time"

	"github.com/tonsisouvanh/mineral-inventory-system/internal/apierror"
	"github.com/tonsisouvanh/mineral-inventory-system/internal/cache"
	"github.com/tonsisouvanh/mineral-inventory-system/internal/config"
	"github.com/tonsisouvanh/mineral-inventory-system/internal/dto"
	"github.com/tonsisouvanh/mineral-inventory-system/internal/model"
	"github.com/tonsisouvanh/mineral-inventory-system/internal/repository"

	"gorm.io/gorm"
)

type ProductService interface {
	Get(ctx context.Context, id int64) (*dto.ProductResponse, error)
	Update(ctx context.Context, id int64, req dto.UpdateProductRequest) (*dto.ProductResponse, error)
	Create(ctx context.Context, actorID *int64, req dto.CreateProductRequest) (*dto.ProductResponse, error)
	BulkCreate(ctx context.Context, rows []dto.BulkProductRow) (*dto.BulkResult, error)
	List(ctx context.Context, filter dto.ProductFilter) (*dto.Page[dto.ProductResponse], error)
	ReorderLevels(ctx context.Context) ([]dto.ReorderLevelResponse, error)
	CreateBundle(ctx context.Context, req dto.CreateBundleRequest) (*dto.BundleResponse, error)
	BulkCreateBundles(ctx context.Context, rows []dto.BulkBundleRow) (*dto.BulkResult, error)
}

type productService struct {
	repo    repository.ProductRepository
	bundles repository.BundleProductRepository
	stock   StockService
	stats   cache.StatsCache
	cfg     *config.Config
}

func NewProductService(
	repo repository.ProductRepository,
	bundles repository.BundleProductRepository,
	stock StockService,
	stats cache.StatsCache,
	cfg *config.Config,
) ProductService {
	return &productService{repo: repo, bundles: bundles, stock: stock, stats: stats, cfg: cfg}
}

func (s *productService) Get(ctx context.Context, id int64) (*dto.ProductResponse, error) {
	p, err := s.repo.FindWithMovements(ctx, id)
	if err != nil {
		return nil, notFound(err, "product", id)
	}
	resp := s.toResponse(p)
	return &resp, nil
}

func (s *productService) Update(ctx context.Context, id int64, req dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "product", id)
	}

	if req.ProductNumber != nil {
		p.ProductNumber = *req.ProductNumber
	}
	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.ShortDescription != nil {
		p.ShortDescription = req.ShortDescription
	}
	if req.LongDescription != nil {
		p.LongDescription = req.LongDescription
	}
	if req.Price != nil {
		p.Price = *req.Price
	}
	if req.SKU != nil {
		p.SKU = req.SKU
	}
	if req.Images != nil {
		p.Images = req.Images
	}
	if req.Size != nil {
		p.Size = req.Size
	}
	if req.ReorderLevel != nil {
		p.ReorderLevel = *req.ReorderLevel
	}
	if req.Pack != nil {
		p.Pack = *req.Pack
	}
	if req.Type != nil {
		p.Type = req.Type
	}

	// Reorder levels feed the dashboard low-stock count.
	err = withStatsCleared(ctx, s.stats, func() error { return s.repo.Update(ctx, p) })
	if err != nil {
		return nil, err
	}
	resp := s.toResponse(p)
	return &resp, nil
}

// Create publishes a product. An initial IN quantity goes through the ledger
// so the product's quantity is backed by a movement row.
func (s *productService) Create(ctx context.Context, actorID *int64, req dto.CreateProductRequest) (*dto.ProductResponse, error) {
	now := time.Now()
	pack := req.Pack
	if pack == 0 {
		pack = 1
	}
	p := &model.Product{
		// Catalog ids follow the external product number, matching bulk import.
		ID:               req.ProductNumber,
		ProductNumber:    req.ProductNumber,
		Name:             strings.TrimSpace(req.Name),
		ShortDescription: req.ShortDescription,
		LongDescription:  req.LongDescription,
		Price:            req.Price,
		SKU:              req.SKU,
		Images:           req.Images,
		Size:             req.Size,
		Code:             req.Code,
		StorageType:      req.StorageType,
		Type:             req.Type,
		Pack:             pack,
		ReorderLevel:     req.ReorderLevel,
		ActiveAt:         &now,
	}

	err := withStatsCleared(ctx, s.stats, func() error {
		return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
			if err := s.repo.CreateTx(tx, p); err != nil {
				return err
			}
			if req.StockMovementType == nil || req.StockQuantity <= 0 {
				return nil
			}
			return s.stock.RecordTx(tx, &model.StockMovement{
				ProductID:    p.ID,
				MovementType: model.MovementType(*req.StockMovementType),
				Quantity:     req.StockQuantity,
				CreatedBy:    actorID,
			})
		})
	})
	if err != nil {
		return nil, err
	}
	if req.StockMovementType != nil && req.StockQuantity > 0 {
		p.Quantity = model.MovementType(*req.StockMovementType).Contribution(req.StockQuantity)
	}
	resp := s.toResponse(p)
	return &resp, nil
}

func (s *productService) BulkCreate(ctx context.Context, rows []dto.BulkProductRow) (*dto.BulkResult, error) {
	if len(rows) == 0 {
		return nil, apierror.Invalid("body", "must be a non-empty array")
	}
	now := time.Now()
	products := make([]model.Product, 0, len(rows))
	for _, row := range rows {
		id, err := parseCount("id", row.ID, 0)
		if err != nil {
			return nil, err
		}
		if id <= 0 {
			return nil, apierror.Invalid("id", "must be a positive integer")
		}
		price, err := parseAmount("price", row.Price)
		if err != nil {
			return nil, err
		}
		pack, err := parseCount("pack", row.Pack, 1)
		if err != nil {
			return nil, err
		}
		p := model.Product{
			ID:               int64(id),
			ProductNumber:    int64(id),
			Name:             row.Name,
			Price:            price,
			Size:             row.Size,
			Images:           row.Images,
			ShortDescription: row.ShortDescription,
			LongDescription:  row.LongDescription,
			Pack:             pack,
			Remarks:          row.Remark,
			Type:             row.Type,
			StorageType:      row.StorageType,
			Code:             row.Code,
		}
		if row.ActiveAt != nil && strings.TrimSpace(*row.ActiveAt) != "" {
			p.ActiveAt = &now
		}
		products = append(products, p)
	}
	err := withStatsCleared(ctx, s.stats, func() error { return s.repo.CreateBatch(ctx, products) })
	if err != nil {
		return nil, err
	}
	return &dto.BulkResult{Count: len(products)}, nil
}

func (s *productService) List(ctx context.Context, filter dto.ProductFilter) (*dto.Page[dto.ProductResponse], error) {
	q := repository.ProductQuery{
		Name:         strings.TrimSpace(filter.Name),
		Search:       strings.TrimSpace(filter.Search),
		Status:       strings.TrimSpace(filter.Status),
		ReorderPoint: s.cfg.ReorderPoint,
	}
	switch model.StockStatus(q.Status) {
	case "", model.StockLow, model.StockNormal, model.StockOutOfStock:
	default:
		return nil, apierror.Invalid("status", "must be one of LOW NORMAL OUT_OF_STOCK")
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
	data := make([]dto.ProductResponse, 0, len(rows))
	for i := range rows {
		data = append(data, s.toResponse(&rows[i]))
	}
	return &dto.Page[dto.ProductResponse]{
		Data: data,
		Meta: dto.NewPageMeta(s.cfg.APIBaseURL+"/products", total, page, totalPages, limit,
			dto.QueryParam{Key: "name", Value: q.Name},
			dto.QueryParam{Key: "search", Value: q.Search},
			dto.QueryParam{Key: "status", Value: q.Status},
			dto.QueryParam{Key: "date", Value: strings.TrimSpace(filter.Date)},
		),
	}, nil
}

func (s *productService) ReorderLevels(ctx context.Context) ([]dto.ReorderLevelResponse, error) {
	rows, err := s.repo.ListBelowThreshold(ctx, s.cfg.ReorderPoint)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ReorderLevelResponse, 0, len(rows))
	for _, p := range rows {
		out = append(out, dto.ReorderLevelResponse{
			ID:            p.ID,
			ProductNumber: p.ProductNumber,
			Name:          p.Name,
			Quantity:      p.Quantity,
			Threshold:     p.Threshold(s.cfg.ReorderPoint),
			Status:        string(p.Status(s.cfg.ReorderPoint)),
		})
	}
	return out, nil
}

func (s *productService) CreateBundle(ctx context.Context, req dto.CreateBundleRequest) (*dto.BundleResponse, error) {
	if _, err := s.repo.FindByID(ctx, req.ProductID); err != nil {
		return nil, notFound(err, "product", req.ProductID)
	}
	b := &model.BundleProduct{
		ProductID:   req.ProductID,
		Code:        req.Code,
		Name:        req.Name,
		Price:       req.Price,
		StorageType: req.StorageType,
		Pack:        req.Pack,
		Images:      req.Images,
	}
	if err := s.bundles.Create(ctx, b); err != nil {
		return nil, err
	}
	resp := toBundleResponse(b)
	return &resp, nil
}

// BulkCreateBundles links each row to the published single-pack product with
// the same code. Rows without a match are skipped.
func (s *productService) BulkCreateBundles(ctx context.Context, rows []dto.BulkBundleRow) (*dto.BulkResult, error) {
	if len(rows) == 0 {
		return nil, apierror.Invalid("body", "must be a non-empty array")
	}
	bundles := make([]model.BundleProduct, 0, len(rows))
	for _, row := range rows {
		p, err := s.repo.FindPublishedByCode(ctx, row.Code)
		if repository.IsNotFound(err) {
			continue
		}
		if err != nil {
			return nil, err
		}
		price, err := parseAmount("price", row.Price)
		if err != nil {
			return nil, err
		}
		pack, err := parseCount("pack", row.Pack, 1)
		if err != nil {
			return nil, err
		}
		if pack <= 0 {
			return nil, apierror.Invalid("pack", "must be greater than 0")
		}
		code := row.Code
		bundles = append(bundles, model.BundleProduct{
			ProductID:   p.ID,
			Code:        &code,
			Name:        row.Name,
			Price:       price,
			StorageType: p.StorageType,
			Pack:        pack,
			Images:      row.Images,
		})
	}
	if err := s.bundles.CreateBatch(ctx, bundles); err != nil {
		return nil, err
	}
	return &dto.BulkResult{Count: len(bundles), Skipped: len(rows) - len(bundles)}, nil
}

func (s *productService) toResponse(p *model.Product) dto.ProductResponse {
	r := dto.ProductResponse{
		ID:               p.ID,
		ProductNumber:    p.ProductNumber,
		Name:             p.Name,
		ShortDescription: p.ShortDescription,
		LongDescription:  p.LongDescription,
		Price:            p.Price,
		SKU:              p.SKU,
		Images:           p.Images,
		Size:             p.Size,
		Code:             p.Code,
		StorageType:      p.StorageType,
		Type:             p.Type,
		Pack:             p.Pack,
		Quantity:         p.Quantity,
		ReorderLevel:     p.ReorderLevel,
		Status:           string(p.Status(s.cfg.ReorderPoint)),
		ActiveAt:         p.ActiveAt,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
	for i := range p.Movements {
		r.Movements = append(r.Movements, toStockResponse(&p.Movements[i]))
	}
	return r
}

func toBundleResponse(b *model.BundleProduct) dto.BundleResponse {
	return dto.BundleResponse{
		ID:          b.ID,
		ProductID:   b.ProductID,
		Code:        b.Code,
		Name:        b.Name,
		Price:       b.Price,
		StorageType: b.StorageType,
		Quantity:    b.Quantity,
		Pack:        b.Pack,
		Images:      b.Images,
	}
}
