package infra

import (
	"fmt"

	"github.com/tonsisouvanh/mineral-inventory-system/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx and brings the schema
// up to date via RunMigrations.
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}
	return db, nil
}

// RunMigrations creates / updates all tables, then applies the idempotent SQL
// patches GORM cannot express. Integration tests call it directly.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.User{},
		&model.RefreshToken{},
		&model.Product{},
		&model.StockMovement{},
		&model.BundleProduct{},
		&model.Order{},
		&model.OrderDetail{},
		&model.ErrorLog{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	if err := applySchemaPatches(db); err != nil {
		return fmt.Errorf("schema patches: %w", err)
	}
	return nil
}

// applySchemaPatches runs idempotent DDL statements that GORM AutoMigrate cannot
// fully handle on its own (check constraints, descending indexes). Each
// statement is guarded so re-running on an already-patched DB is a no-op.
func applySchemaPatches(db *gorm.DB) error {
	patches := []struct{ descr, sql string }{
		{"stock_movements quantity > 0", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_stock_movements_quantity') THEN
    ALTER TABLE stock_movements ADD CONSTRAINT chk_stock_movements_quantity CHECK (quantity > 0);
  END IF;
END $$`},
		{"stock_movements movement_type enum", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_stock_movements_type') THEN
    ALTER TABLE stock_movements ADD CONSTRAINT chk_stock_movements_type
      CHECK (movement_type IN ('IN', 'OUT', 'TRANSFER'));
  END IF;
END $$`},
		{"bundle_products pack > 0", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_bundle_products_pack') THEN
    ALTER TABLE bundle_products ADD CONSTRAINT chk_bundle_products_pack CHECK (pack > 0);
  END IF;
END $$`},
		{"listing index on stock_movements",
			`CREATE INDEX IF NOT EXISTS idx_stock_movements_product_created
			   ON stock_movements (product_id, created_at DESC)`},
		{"listing index on orders",
			`CREATE INDEX IF NOT EXISTS idx_orders_created_desc ON orders (created_at DESC)`},
	}
	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", p.descr, err)
		}
	}
	return nil
}
