package migration

import (
	"erp-app/models"

	"gorm.io/gorm"
)

// Migrate runs the master database migrations.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.BusinessUnit{},
	)
}

// MigrateBusinessUnit runs the per-unit migrations.
func MigrateBusinessUnit(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Item{},
		&models.Truck{},
		&models.Transporter{},
		&models.PurchaseOrder{},
		&models.PurchaseOrderLine{},
		&models.SalesOrder{},
		&models.SalesOrderLine{},
		&models.PriorityEntry{},
		&models.VendorKickAllotment{},
		&models.DailyKickOverride{},
		&models.DeliveryRun{},
		&models.ScheduleNote{},
		&models.TransactionHistory{},
	)
}
