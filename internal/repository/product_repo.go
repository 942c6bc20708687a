package repository

import (
	"context"
	"errors"

	"github.com/tonsisouvanh/mineral-inventory-system/internal/apierror"
	"github.com/tonsisouvanh/mineral-inventory-system/internal/dto"
	"github.com/tonsisouvanh/mineral-inventory-system/internal/model"

	"gorm.io/gorm"
)

// ProductRepository defines the data access contract for products.
// Services depend on this interface, not on the concrete GORM implementation,
// enabling clean unit testing via stubs.
type ProductRepository interface {
	CreateTx(tx *gorm.DB, p *model.Product) error
	CreateBatch(ctx context.Context, ps []model.Product) error
	FindByID(ctx context.Context, id int64) (*model.Product, error)
	FindWithMovements(ctx context.Context, id int64) (*model.Product, error)
	FindPublishedByCode(ctx context.Context, code string) (*model.Product, error)
	Update(ctx context.Context, p *model.Product) error
	Count(ctx context.Context, q ProductQuery) (int64, error)
	List(ctx context.Context, q ProductQuery, offset, limit int) ([]model.Product, error)
	ListBelowThreshold(ctx context.Context, reorderPoint int) ([]model.Product, error)
	CountByStatus(ctx context.Context, reorderPoint int) (dto.ProductStats, error)

	// Used inside transactions; callers must pass the tx instance
	FindByNumberTx(tx *gorm.DB, number int64) (*model.Product, error)

	// AdjustQuantityTx adds delta to quantity in a single conditional UPDATE.
	// With allowNegative false the update only matches when the result stays
	// >= 0. Returns apierror.ErrNotFound or apierror.ErrInsufficientStock when
	// no row matched.
	AdjustQuantityTx(tx *gorm.DB, id int64, delta int, allowNegative bool) error

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type productRepo struct{ db *gorm.DB }

func NewProductRepository(db *gorm.DB) ProductRepository { return &productRepo{db: db} }

// thresholdExpr is the per-product LOW threshold: reorder_level, or the
// global reorder point when the product has none.
const thresholdExpr = "COALESCE(NULLIF(reorder_level, 0), ?)"

func (r *productRepo) CreateTx(tx *gorm.DB, p *model.Product) error {
	return tx.Create(p).Error
}

func (r *productRepo) CreateBatch(ctx context.Context, ps []model.Product) error {
	return r.db.WithContext(ctx).CreateInBatches(ps, 200).Error
}

func (r *productRepo) FindByID(ctx context.Context, id int64) (*model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).First(&p, id).Error
	return &p, err
}

func (r *productRepo) FindWithMovements(ctx context.Context, id int64) (*model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).
		Preload("Movements", func(db *gorm.DB) *gorm.DB { return db.Order("created_at DESC") }).
		First(&p, id).Error
	return &p, err
}

func (r *productRepo) FindPublishedByCode(ctx context.Context, code string) (*model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).
		Where("code = ? AND pack = 1 AND active_at IS NOT NULL", code).
		First(&p).Error
	return &p, err
}

// Update writes catalog fields only; quantity belongs to the ledger.
func (r *productRepo) Update(ctx context.Context, p *model.Product) error {
	return r.db.WithContext(ctx).Omit("quantity", "created_at").Save(p).Error
}

func (r *productRepo) scoped(ctx context.Context, q ProductQuery) *gorm.DB {
	db := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("pack = 1 AND active_at IS NOT NULL")
	if q.Name != "" {
		db = db.Where("name ILIKE ?", "%"+q.Name+"%")
	}
	if q.Search != "" {
		db = db.Where("(name ILIKE ? OR sku ILIKE ?)", "%"+q.Search+"%", "%"+q.Search+"%")
	}
	if q.Day != nil {
		from, to := dayRange(*q.Day)
		db = db.Where("created_at >= ? AND created_at < ?", from, to)
	}
	switch model.StockStatus(q.Status) {
	case model.StockOutOfStock:
		db = db.Where("quantity <= 0")
	case model.StockLow:
		db = db.Where("quantity > 0 AND quantity <= "+thresholdExpr, q.ReorderPoint)
	case model.StockNormal:
		db = db.Where("quantity > "+thresholdExpr, q.ReorderPoint)
	}
	return db
}

func (r *productRepo) Count(ctx context.Context, q ProductQuery) (int64, error) {
	var total int64
	err := r.scoped(ctx, q).Count(&total).Error
	return total, err
}

func (r *productRepo) List(ctx context.Context, q ProductQuery, offset, limit int) ([]model.Product, error) {
	var products []model.Product
	err := r.scoped(ctx, q).Order("created_at DESC").Offset(offset).Limit(limit).Find(&products).Error
	return products, err
}

func (r *productRepo) ListBelowThreshold(ctx context.Context, reorderPoint int) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).
		Where("pack = 1 AND active_at IS NOT NULL").
		Where("quantity <= "+thresholdExpr, reorderPoint).
		Order("quantity ASC, name ASC").
		Find(&products).Error
	return products, err
}

func (r *productRepo) CountByStatus(ctx context.Context, reorderPoint int) (dto.ProductStats, error) {
	var s dto.ProductStats
	err := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("pack = 1 AND active_at IS NOT NULL").
		Select(`COUNT(*) AS total,
			COUNT(*) FILTER (WHERE quantity <= 0) AS out_of_stock,
			COUNT(*) FILTER (WHERE quantity > 0 AND quantity <= `+thresholdExpr+`) AS low,
			COUNT(*) FILTER (WHERE quantity > `+thresholdExpr+`) AS normal`,
			reorderPoint, reorderPoint).
		Scan(&s).Error
	return s, err
}

func (r *productRepo) FindByNumberTx(tx *gorm.DB, number int64) (*model.Product, error) {
	var p model.Product
	err := tx.Where("product_number = ?", number).First(&p).Error
	return &p, err
}

func (r *productRepo) AdjustQuantityTx(tx *gorm.DB, id int64, delta int, allowNegative bool) error {
	q := tx.Model(&model.Product{}).Where("id = ?", id)
	if !allowNegative && delta < 0 {
		q = q.Where("quantity + ? >= 0", delta)
	}
	res := q.Update("quantity", gorm.Expr("quantity + ?", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}

	var n int64
	if err := tx.Model(&model.Product{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return apierror.ErrNotFound
	}
	return apierror.ErrInsufficientStock
}

func (r *productRepo) DB() *gorm.DB { return r.db }

// IsNotFound reports whether err means the looked-up row does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, apierror.ErrNotFound)
}
