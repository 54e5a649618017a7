package migrations

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"github.com/kursadbilgin/bill-notifier/internal/repository"
	"gorm.io/gorm"
)

func createBillsTables() *gormigrate.Migration {
	return &gormigrate.Migration{
		ID: "000002_create_bills",
		Migrate: func(tx *gorm.DB) error {
			if err := tx.AutoMigrate(
				&repository.ProductModel{},
				&repository.BillModel{},
				&repository.BillItemModel{},
			); err != nil {
				return err
			}

			statements := []string{
				`CREATE UNIQUE INDEX IF NOT EXISTS idx_bills_organisation_bill_no ON bills (organisation_id, bill_no)`,
				`ALTER TABLE bills DROP CONSTRAINT IF EXISTS chk_bills_billing_mode`,
				`ALTER TABLE bills ADD CONSTRAINT chk_bills_billing_mode CHECK (billing_mode IN ('online', 'offline'))`,
			}
			for _, sql := range statements {
				if err := tx.Exec(sql).Error; err != nil {
					return err
				}
			}
			return nil
		},
		Rollback: func(tx *gorm.DB) error {
			return tx.Migrator().DropTable(
				&repository.BillItemModel{},
				&repository.BillModel{},
				&repository.ProductModel{},
			)
		},
	}
}
