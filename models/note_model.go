package models

import (
	"erp-app/types"

	"gorm.io/gorm"
)

// Note attachment kinds. A note carries exactly one populated
// reference, matching AttachType.
const (
	NoteAttachDate          = "date"
	NoteAttachTruck         = "truck"
	NoteAttachRun           = "run"
	NoteAttachSalesOrder    = "sales_order"
	NoteAttachPurchaseOrder = "purchase_order"
)

var NoteAttachTypes = []string{
	NoteAttachDate, NoteAttachTruck, NoteAttachRun,
	NoteAttachSalesOrder, NoteAttachPurchaseOrder,
}

type ScheduleNote struct {
	gorm.Model
	AttachType      string            `json:"attach_type"`
	NoteDate        string            `json:"note_date" gorm:"type:date"`
	TruckId         uint              `json:"truck_id"`
	DeliveryRunId   types.SnowflakeID `json:"delivery_run_id"`
	SalesOrderId    types.SnowflakeID `json:"sales_order_id"`
	PurchaseOrderId types.SnowflakeID `json:"purchase_order_id"`
	Body            string            `json:"body"`
	CreatedBy       int
	UpdatedBy       int
	DeletedBy       int
}
