package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/kursadbilgin/bill-notifier/internal/domain"
	"gorm.io/gorm"
)

type BillRepository interface {
	FindByNumber(ctx context.Context, organisationID uint, billNo int64) (*domain.Bill, error)
	UpdateShipment(ctx context.Context, organisationID uint, billID uint, update domain.ShipmentUpdate) error
}

type GormBillRepo struct {
	db *gorm.DB
}

func NewGormBillRepo(db *gorm.DB) *GormBillRepo {
	return &GormBillRepo{db: db}
}

// FindByNumber loads a bill with its organisation, customer and items. A bill
// owned by another organisation is reported as not found.
func (r *GormBillRepo) FindByNumber(ctx context.Context, organisationID uint, billNo int64) (*domain.Bill, error) {
	var model BillModel
	err := r.db.WithContext(ctx).
		Preload("Organisation").
		Preload("Customer").
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("bill_items.id ASC")
		}).
		Preload("Items.Product").
		Where("organisation_id = ? AND bill_no = ?", organisationID, billNo).
		First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return billModelToDomain(&model), nil
}

// UpdateShipment writes tracking number, weight and shipped status in one
// statement. A nil weight clears the column.
func (r *GormBillRepo) UpdateShipment(ctx context.Context, organisationID uint, billID uint, update domain.ShipmentUpdate) error {
	result := r.db.WithContext(ctx).
		Model(&BillModel{}).
		Where("id = ? AND organisation_id = ?", billID, organisationID).
		Updates(map[string]any{
			"tracking_number": strings.TrimSpace(update.TrackingNumber),
			"weight":          nullDecimal(update.Weight),
			"status":          domain.BillStatusShipped,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
