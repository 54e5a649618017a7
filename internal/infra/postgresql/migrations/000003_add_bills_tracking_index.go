package migrations

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
)

func addBillsTrackingIndex() *gormigrate.Migration {
	return &gormigrate.Migration{
		ID: "000003_add_bills_tracking_index",
		Migrate: func(tx *gorm.DB) error {
			return tx.Exec(`CREATE INDEX IF NOT EXISTS idx_bills_tracking_number ON bills (tracking_number) WHERE tracking_number IS NOT NULL`).Error
		},
		Rollback: func(tx *gorm.DB) error {
			return tx.Exec(`DROP INDEX IF EXISTS idx_bills_tracking_number`).Error
		},
	}
}
