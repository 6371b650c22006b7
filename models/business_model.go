package models

import "gorm.io/gorm"

// BusinessUnit is one tenant. Every unit gets its own database; the
// db_name is what the auth token carries and what the DB middleware
// injects a connection for.
type BusinessUnit struct {
	gorm.Model
	DbName      string `json:"db_name" gorm:"unique"`
	Description string `json:"description"`
	CreatedBy   int
	UpdatedBy   int
	DeletedBy   int
}
