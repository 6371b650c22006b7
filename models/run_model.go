package models

import (
	"erp-app/controllers/idgen"
	"erp-app/types"

	"gorm.io/gorm"
)

// DeliveryRun is a named batch of sales orders for one truck on one
// date. RunSeq orders multiple runs of the same truck within a day.
// Runs are only deleted explicitly; a run that loses its last order
// stays around until a user removes it.
type DeliveryRun struct {
	gorm.Model
	ID         types.SnowflakeID `json:"id" gorm:"primary_key"`
	Name       string            `json:"name"`
	TruckId    uint              `json:"truck_id"`
	RunDate    string            `json:"run_date" gorm:"type:date"`
	RunSeq     int               `json:"run_seq" gorm:"default:1"`
	DepartTime string            `json:"depart_time"`
	Completed  bool              `json:"completed" gorm:"default:false"`
	CreatedBy  int
	UpdatedBy  int
	DeletedBy  int
}

func (r *DeliveryRun) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == 0 {
		r.ID = types.SnowflakeID(idgen.GenerateID())
	}
	return
}
