// database/seeder.go
package database

import (
	"log"

	"erp-app/config"
	"erp-app/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func RunSeeders(db *gorm.DB) {
	SeedUserMaster(db)
	SeedTrucks(db)
	SeedItems(db)
}

func SeedUnit(db *gorm.DB) {
	unit := models.BusinessUnit{
		DbName:      config.DBUnit,
		Description: "Box plant main unit",
	}

	var existing models.BusinessUnit
	err := db.Where("db_name = ?", unit.DbName).First(&existing).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			if err := db.Create(&unit).Error; err != nil {
				log.Fatalf("Failed to create unit: %v", err)
			}
		} else {
			log.Fatalf("Unexpected DB error: %v", err)
		}
	}
}

func SeedUserMaster(db *gorm.DB) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("admin"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash seed password: %v", err)
	}

	admin := models.User{
		Username: "admin",
		Password: string(hashed),
		Name:     "Administrator",
		Email:    "admin@localhost",
		Role:     "admin",
	}

	var existing models.User
	if err := db.Where("username = ?", admin.Username).First(&existing).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			db.Create(&admin)
		}
	}
}

func SeedTrucks(db *gorm.DB) {
	trucks := []models.Truck{
		{Name: "TRUCK-01", Description: "Local route flatbed"},
		{Name: "TRUCK-02", Description: "Regional box truck"},
	}

	for _, t := range trucks {
		var existing models.Truck
		if err := db.Where("name = ?", t.Name).First(&existing).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				db.Create(&t)
			}
		}
	}
}

func SeedItems(db *gorm.DB) {
	items := []models.Item{
		{ItemCode: "BOX-RSC-12", ItemName: "12x12x12 RSC", BoxType: models.BoxRSC, UnitsPerPallet: 250},
		{ItemCode: "BOX-DC-20", ItemName: "20x14 die cut mailer", BoxType: models.BoxDC, UnitsPerPallet: 400},
	}

	for _, i := range items {
		var existing models.Item
		if err := db.Where("item_code = ?", i.ItemCode).First(&existing).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				db.Create(&i)
			}
		}
	}
}
