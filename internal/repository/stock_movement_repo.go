package repository

import (
	"context"

	"github.com/tonsisouvanh/mineral-inventory-system/internal/dto"
	"github.com/tonsisouvanh/mineral-inventory-system/internal/model"

	"gorm.io/gorm"
)

type StockMovementRepository interface {
	CreateTx(tx *gorm.DB, m *model.StockMovement) error
	FindByIDTx(tx *gorm.DB, id int64) (*model.StockMovement, error)
	UpdateTx(tx *gorm.DB, m *model.StockMovement) error
	DeleteTx(tx *gorm.DB, id int64) error
	Count(ctx context.Context, q StockQuery) (int64, error)
	List(ctx context.Context, q StockQuery, offset, limit int) ([]model.StockMovement, error)
	CountByType(ctx context.Context) (dto.StockCountResponse, error)
	DB() *gorm.DB
}

type stockMovementRepo struct{ db *gorm.DB }

func NewStockMovementRepository(db *gorm.DB) StockMovementRepository {
	return &stockMovementRepo{db: db}
}

func (r *stockMovementRepo) CreateTx(tx *gorm.DB, m *model.StockMovement) error {
	return tx.Create(m).Error
}

func (r *stockMovementRepo) FindByIDTx(tx *gorm.DB, id int64) (*model.StockMovement, error) {
	var m model.StockMovement
	err := tx.First(&m, id).Error
	return &m, err
}

func (r *stockMovementRepo) UpdateTx(tx *gorm.DB, m *model.StockMovement) error {
	return tx.Model(m).Select("movement_type", "quantity", "remarks", "updated_at").Updates(m).Error
}

func (r *stockMovementRepo) DeleteTx(tx *gorm.DB, id int64) error {
	return tx.Delete(&model.StockMovement{}, id).Error
}

func (r *stockMovementRepo) scoped(ctx context.Context, q StockQuery) *gorm.DB {
	db := r.db.WithContext(ctx).Model(&model.StockMovement{})
	if q.ProductID != nil {
		db = db.Where("stock_movements.product_id = ?", *q.ProductID)
	}
	if q.MovementType != "" {
		db = db.Where("stock_movements.movement_type = ?", q.MovementType)
	}
	if q.Day != nil {
		from, to := dayRange(*q.Day)
		db = db.Where("stock_movements.created_at >= ? AND stock_movements.created_at < ?", from, to)
	}
	if q.Name != "" {
		db = db.Joins("JOIN products ON products.id = stock_movements.product_id").
			Where("products.name ILIKE ?", "%"+q.Name+"%")
	}
	return db
}

func (r *stockMovementRepo) Count(ctx context.Context, q StockQuery) (int64, error) {
	var total int64
	err := r.scoped(ctx, q).Count(&total).Error
	return total, err
}

func (r *stockMovementRepo) List(ctx context.Context, q StockQuery, offset, limit int) ([]model.StockMovement, error) {
	var movements []model.StockMovement
	err := r.scoped(ctx, q).
		Preload("Product", func(db *gorm.DB) *gorm.DB { return db.Select("id", "name") }).
		Preload("User", func(db *gorm.DB) *gorm.DB { return db.Select("id", "name") }).
		Order("stock_movements.created_at DESC").
		Offset(offset).Limit(limit).
		Find(&movements).Error
	return movements, err
}

func (r *stockMovementRepo) CountByType(ctx context.Context) (dto.StockCountResponse, error) {
	var c dto.StockCountResponse
	err := r.db.WithContext(ctx).Model(&model.StockMovement{}).
		Select(`COUNT(*) AS total,
			COUNT(*) FILTER (WHERE movement_type = 'IN') AS "in",
			COUNT(*) FILTER (WHERE movement_type = 'OUT') AS "out",
			COUNT(*) FILTER (WHERE movement_type = 'TRANSFER') AS transfer`).
		Scan(&c).Error
	return c, err
}

func (r *stockMovementRepo) DB() *gorm.DB { return r.db }
