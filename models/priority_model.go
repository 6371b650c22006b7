package models

import (
	"erp-app/types"

	"gorm.io/gorm"
)

// PriorityEntry places one purchase order line in a bin. A bin is the
// (vendor, kick date, box type) coordinate; Seq is the position inside
// the bin and stays dense (0..n-1) after every mutation. Exactly one
// entry exists per line; entries are hard-deleted so a re-synced line
// can be re-created without tripping the unique index.
type PriorityEntry struct {
	gorm.Model
	LineId          uint              `json:"line_id" gorm:"uniqueIndex"`
	PurchaseOrderId types.SnowflakeID `json:"purchase_order_id"`
	VendorID        uint              `json:"vendor_id" gorm:"index:idx_bin"`
	KickDate        string            `json:"kick_date" gorm:"type:date;index:idx_bin"`
	BoxType         string            `json:"box_type" gorm:"index:idx_bin"`
	Seq             int               `json:"seq"`
	CreatedBy       int
	UpdatedBy       int
	DeletedBy       int
}

// VendorKickAllotment is the default daily kick capacity for one
// (vendor, box type) pair.
type VendorKickAllotment struct {
	gorm.Model
	VendorID       uint   `json:"vendor_id" gorm:"uniqueIndex:idx_vendor_box"`
	BoxType        string `json:"box_type" gorm:"uniqueIndex:idx_vendor_box"`
	DailyAllotment int    `json:"daily_allotment"`
	CreatedBy      int
	UpdatedBy      int
	DeletedBy      int
}

// DailyKickOverride supersedes the default for one specific date.
type DailyKickOverride struct {
	gorm.Model
	VendorID  uint   `json:"vendor_id" gorm:"uniqueIndex:idx_vendor_box_date"`
	BoxType   string `json:"box_type" gorm:"uniqueIndex:idx_vendor_box_date"`
	KickDate  string `json:"kick_date" gorm:"type:date;uniqueIndex:idx_vendor_box_date"`
	Allotment int    `json:"allotment"`
	CreatedBy int
	UpdatedBy int
	DeletedBy int
}
