package migrations

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"github.com/kursadbilgin/bill-notifier/internal/repository"
	"gorm.io/gorm"
)

func createOrganisationsAndCustomers() *gormigrate.Migration {
	return &gormigrate.Migration{
		ID: "000001_create_organisations_customers",
		Migrate: func(tx *gorm.DB) error {
			return tx.AutoMigrate(&repository.OrganisationModel{}, &repository.CustomerModel{})
		},
		Rollback: func(tx *gorm.DB) error {
			return tx.Migrator().DropTable(&repository.CustomerModel{}, &repository.OrganisationModel{})
		},
	}
}
