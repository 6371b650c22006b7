package models

import "gorm.io/gorm"

// Box type classifications. The tag is assigned when the item is
// created or promoted, so scheduling code never inspects the item
// beyond this field.
const (
	BoxRSC   = "RSC"
	BoxDC    = "DC"
	BoxHSC   = "HSC"
	BoxFOL   = "FOL"
	BoxTELE  = "TELE"
	BoxOther = "OTHER"
)

var BoxTypes = []string{BoxRSC, BoxDC, BoxHSC, BoxFOL, BoxTELE, BoxOther}

func ValidBoxType(bt string) bool {
	for _, b := range BoxTypes {
		if b == bt {
			return true
		}
	}
	return false
}

type Item struct {
	gorm.Model
	ItemCode string `json:"item_code" gorm:"unique"`
	ItemName string `json:"item_name"`
	BoxType  string `json:"box_type" gorm:"default:'OTHER'"`
	// UnitsPerPallet drives the calendar pallet math. Zero means not
	// configured; the calendar falls back to one pallet per line.
	UnitsPerPallet int  `json:"units_per_pallet"`
	VendorID       uint `json:"vendor_id"`
	CreatedBy      int
	UpdatedBy      int
	DeletedBy      int
}
