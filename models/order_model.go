package models

import (
	"erp-app/controllers/idgen"
	"erp-app/types"

	"gorm.io/gorm"
)

// Order statuses shared by purchase and sales orders.
const (
	StatusOpen      = "open"
	StatusComplete  = "complete"
	StatusCancelled = "cancelled"
)

// Order types as they appear in routes and events.
const (
	OrderTypePurchase = "PO"
	OrderTypeSales    = "SO"
)

func TerminalStatus(status string) bool {
	return status == StatusComplete || status == StatusCancelled
}

// PurchaseOrder is an inbound production order placed on a vendor.
// Purchase orders never carry a truck or delivery run assignment.
// ScheduledDate empty string means unscheduled.
type PurchaseOrder struct {
	gorm.Model
	ID            types.SnowflakeID `json:"id" gorm:"primary_key"`
	PoNo          string            `json:"po_no" gorm:"unique"`
	VendorID      uint              `json:"vendor_id"`
	Status        string            `json:"status" gorm:"default:'open'"`
	ScheduledDate string            `json:"scheduled_date" gorm:"type:date"`
	RequestDate   string            `json:"request_date" gorm:"type:date"`
	Priority      int               `json:"priority"`
	SchedulerSeq  int               `json:"scheduler_seq"`
	Remarks       string            `json:"remarks"`
	CreatedBy     int
	UpdatedBy     int
	DeletedBy     int

	Lines []PurchaseOrderLine `json:"lines" gorm:"foreignKey:PurchaseOrderId;references:ID"`
}

func (o *PurchaseOrder) BeforeCreate(tx *gorm.DB) (err error) {
	if o.ID == 0 {
		o.ID = types.SnowflakeID(idgen.GenerateID())
	}
	return
}

// PurchaseOrderLine is one production line: a quantity of one item.
// The quantity is fixed once the line exists; the priority list only
// references lines, it never owns them.
type PurchaseOrderLine struct {
	gorm.Model
	PurchaseOrderId types.SnowflakeID `json:"purchase_order_id"`
	PoNo            string            `json:"po_no"`
	ItemId          uint              `json:"item_id"`
	ItemCode        string            `json:"item_code"`
	Quantity        int               `json:"quantity"`
	CreatedBy       int
	UpdatedBy       int
	DeletedBy       int
}

type SalesOrder struct {
	gorm.Model
	ID            types.SnowflakeID `json:"id" gorm:"primary_key"`
	SoNo          string            `json:"so_no" gorm:"unique"`
	CustomerName  string            `json:"customer_name"`
	Status        string            `json:"status" gorm:"default:'open'"`
	ScheduledDate string            `json:"scheduled_date" gorm:"type:date"`
	TruckId       uint              `json:"truck_id"`        // 0 = unassigned
	DeliveryRunId types.SnowflakeID `json:"delivery_run_id"` // 0 = no run
	Priority      int               `json:"priority"`
	SchedulerSeq  int               `json:"scheduler_seq"`
	Remarks       string            `json:"remarks"`
	CreatedBy     int
	UpdatedBy     int
	DeletedBy     int

	Lines []SalesOrderLine `json:"lines" gorm:"foreignKey:SalesOrderId;references:ID"`
}

func (o *SalesOrder) BeforeCreate(tx *gorm.DB) (err error) {
	if o.ID == 0 {
		o.ID = types.SnowflakeID(idgen.GenerateID())
	}
	return
}

type SalesOrderLine struct {
	gorm.Model
	SalesOrderId types.SnowflakeID `json:"sales_order_id"`
	SoNo         string            `json:"so_no"`
	ItemId       uint              `json:"item_id"`
	ItemCode     string            `json:"item_code"`
	Quantity     int               `json:"quantity"`
	CreatedBy    int
	UpdatedBy    int
	DeletedBy    int
}
