package repository

import (
	"context"

	"github.com/tonsisouvanh/mineral-inventory-system/internal/dto"
	"github.com/tonsisouvanh/mineral-inventory-system/internal/model"

	"gorm.io/gorm"
)

type OrderRepository interface {
	// CreateTx inserts the order and its Details in one statement batch.
	CreateTx(tx *gorm.DB, o *model.Order) error
	CreateBatch(ctx context.Context, orders []model.Order) error
	FindByID(ctx context.Context, id string) (*model.Order, error)
	Count(ctx context.Context, q OrderQuery) (int64, error)
	List(ctx context.Context, q OrderQuery, offset, limit int) ([]model.Order, error)
	Summary(ctx context.Context) (dto.OrderStats, error)
	DB() *gorm.DB
}

type orderRepo struct{ db *gorm.DB }

func NewOrderRepository(db *gorm.DB) OrderRepository { return &orderRepo{db: db} }

func (r *orderRepo) CreateTx(tx *gorm.DB, o *model.Order) error {
	return tx.Create(o).Error
}

func (r *orderRepo) CreateBatch(ctx context.Context, orders []model.Order) error {
	return r.db.WithContext(ctx).CreateInBatches(orders, 200).Error
}

func (r *orderRepo) FindByID(ctx context.Context, id string) (*model.Order, error) {
	var o model.Order
	err := r.db.WithContext(ctx).Preload("Details").Where("id = ?", id).First(&o).Error
	return &o, err
}

func (r *orderRepo) scoped(ctx context.Context, q OrderQuery) *gorm.DB {
	db := r.db.WithContext(ctx).Model(&model.Order{})
	if q.OrderID != "" {
		db = db.Where("id = ?", q.OrderID)
	}
	if q.Search != "" {
		db = db.Where("order_code ILIKE ?", "%"+q.Search+"%")
	}
	if q.Phone != "" {
		db = db.Where("shipping_phone ILIKE ?", "%"+q.Phone+"%")
	}
	if q.Day != nil {
		from, to := dayRange(*q.Day)
		db = db.Where("created_at >= ? AND created_at < ?", from, to)
	}
	return db
}

func (r *orderRepo) Count(ctx context.Context, q OrderQuery) (int64, error) {
	var total int64
	err := r.scoped(ctx, q).Count(&total).Error
	return total, err
}

func (r *orderRepo) List(ctx context.Context, q OrderQuery, offset, limit int) ([]model.Order, error) {
	var orders []model.Order
	err := r.scoped(ctx, q).Order("created_at DESC").Offset(offset).Limit(limit).Find(&orders).Error
	return orders, err
}

func (r *orderRepo) Summary(ctx context.Context) (dto.OrderStats, error) {
	var s dto.OrderStats
	err := r.db.WithContext(ctx).Model(&model.Order{}).
		Select("COUNT(*) AS count, COALESCE(SUM(order_amount), 0) AS revenue").
		Scan(&s).Error
	return s, err
}

func (r *orderRepo) DB() *gorm.DB { return r.db }
