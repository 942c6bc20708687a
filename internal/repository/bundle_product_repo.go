package repository

import (
	"context"

	"github.com/tonsisouvanh/mineral-inventory-system/internal/model"

	"gorm.io/gorm"
)

type BundleProductRepository interface {
	Create(ctx context.Context, b *model.BundleProduct) error
	CreateBatch(ctx context.Context, bs []model.BundleProduct) error
	// FindByIDTx is used during order fulfillment to resolve a shop product id.
	FindByIDTx(tx *gorm.DB, id int64) (*model.BundleProduct, error)
}

type bundleProductRepo struct{ db *gorm.DB }

func NewBundleProductRepository(db *gorm.DB) BundleProductRepository {
	return &bundleProductRepo{db: db}
}

func (r *bundleProductRepo) Create(ctx context.Context, b *model.BundleProduct) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *bundleProductRepo) CreateBatch(ctx context.Context, bs []model.BundleProduct) error {
	if len(bs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(bs, 200).Error
}

func (r *bundleProductRepo) FindByIDTx(tx *gorm.DB, id int64) (*model.BundleProduct, error) {
	var b model.BundleProduct
	err := tx.First(&b, id).Error
	return &b, err
}
