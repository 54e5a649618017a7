package migrations

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return gormigrate.New(db, gormigrate.DefaultOptions, migrationList()).Migrate()
}

// RollbackLast undoes the most recently applied migration.
func RollbackLast(db *gorm.DB) error {
	return gormigrate.New(db, gormigrate.DefaultOptions, migrationList()).RollbackLast()
}

func migrationList() []*gormigrate.Migration {
	return []*gormigrate.Migration{
		createOrganisationsAndCustomers(),
		createBillsTables(),
		addBillsTrackingIndex(),
	}
}
