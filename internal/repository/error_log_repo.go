package repository

import (
	"context"

	"github.com/tonsisouvanh/mineral-inventory-system/internal/model"

	"gorm.io/gorm"
)

type ErrorLogRepository interface {
	Create(ctx context.Context, e *model.ErrorLog) error
}

type errorLogRepo struct{ db *gorm.DB }

func NewErrorLogRepository(db *gorm.DB) ErrorLogRepository { return &errorLogRepo{db: db} }

func (r *errorLogRepo) Create(ctx context.Context, e *model.ErrorLog) error {
	return r.db.WithContext(ctx).Create(e).Error
}
