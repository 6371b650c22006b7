package repositories

import (
	"errors"

	"erp-app/models"

	"gorm.io/gorm"
)

type AllotmentRepository struct {
	db *gorm.DB
}

func NewAllotmentRepository(db *gorm.DB) *AllotmentRepository {
	return &AllotmentRepository{db: db}
}

// pickAllotment resolves the effective capacity: a day override wins
// over the vendor default; with neither configured the capacity is
// zero, not unlimited, so unconfigured vendors never silently
// overbook.
func pickAllotment(override *models.DailyKickOverride, def *models.VendorKickAllotment) (int, bool) {
	if override != nil {
		return override.Allotment, true
	}
	if def != nil {
		return def.DailyAllotment, false
	}
	return 0, false
}

// EffectiveAllotment returns the daily kick capacity for a
// (vendor, box type, date) and whether it came from an override.
func (r *AllotmentRepository) EffectiveAllotment(vendorID uint, boxType, kickDate string) (int, bool, error) {
	var override models.DailyKickOverride
	err := r.db.Where("vendor_id = ? AND box_type = ? AND kick_date = ?", vendorID, boxType, kickDate).
		First(&override).Error
	if err == nil {
		capacity, isOverride := pickAllotment(&override, nil)
		return capacity, isOverride, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, false, err
	}

	var def models.VendorKickAllotment
	err = r.db.Where("vendor_id = ? AND box_type = ?", vendorID, boxType).First(&def).Error
	if err == nil {
		capacity, isOverride := pickAllotment(nil, &def)
		return capacity, isOverride, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, false, err
	}

	capacity, isOverride := pickAllotment(nil, nil)
	return capacity, isOverride, nil
}

// UpsertAllotment creates or updates the default for (vendor, box type).
func (r *AllotmentRepository) UpsertAllotment(vendorID uint, boxType string, daily int, actor int) (models.VendorKickAllotment, error) {
	var allotment models.VendorKickAllotment
	err := r.db.Where("vendor_id = ? AND box_type = ?", vendorID, boxType).First(&allotment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		allotment = models.VendorKickAllotment{
			VendorID:       vendorID,
			BoxType:        boxType,
			DailyAllotment: daily,
			CreatedBy:      actor,
		}
		if err := r.db.Create(&allotment).Error; err != nil {
			return allotment, err
		}
		return allotment, nil
	}
	if err != nil {
		return allotment, err
	}

	allotment.DailyAllotment = daily
	allotment.UpdatedBy = actor
	if err := r.db.Save(&allotment).Error; err != nil {
		return allotment, err
	}
	return allotment, nil
}

// UpsertOverride creates or updates the override for
// (vendor, box type, date).
func (r *AllotmentRepository) UpsertOverride(vendorID uint, boxType, kickDate string, allot int, actor int) (models.DailyKickOverride, error) {
	var override models.DailyKickOverride
	err := r.db.Where("vendor_id = ? AND box_type = ? AND kick_date = ?", vendorID, boxType, kickDate).
		First(&override).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		override = models.DailyKickOverride{
			VendorID:  vendorID,
			BoxType:   boxType,
			KickDate:  kickDate,
			Allotment: allot,
			CreatedBy: actor,
		}
		if err := r.db.Create(&override).Error; err != nil {
			return override, err
		}
		return override, nil
	}
	if err != nil {
		return override, err
	}

	override.Allotment = allot
	override.UpdatedBy = actor
	if err := r.db.Save(&override).Error; err != nil {
		return override, err
	}
	return override, nil
}

// DeleteOverride removes an override; the vendor default applies again.
// Hard delete, the unique index would otherwise block re-creating the
// same (vendor, box type, date) later.
func (r *AllotmentRepository) DeleteOverride(id uint) error {
	var override models.DailyKickOverride
	if err := r.db.First(&override, id).Error; err != nil {
		return err
	}
	return r.db.Unscoped().Delete(&override).Error
}
