package repositories

import (
	"errors"
	"fmt"

	"erp-app/controllers/helpers"
	"erp-app/models"
	"erp-app/notifier"
	"erp-app/types"

	"golang.org/x/exp/slices"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrPurchaseTruck rejects any attempt to put a truck or delivery run
// on a purchase order. POs are inbound only.
var ErrPurchaseTruck = errors.New("purchase orders cannot carry a truck or delivery run")

type CalendarRepository struct {
	db *gorm.DB
}

func NewCalendarRepository(db *gorm.DB) *CalendarRepository {
	return &CalendarRepository{db: db}
}

// SchedulePatch carries the fields a schedule update may change. Nil
// means leave untouched; a pointer to the zero value clears.
type SchedulePatch struct {
	ScheduledDate *string            `json:"scheduled_date"`
	TruckId       *uint              `json:"truck_id"`
	DeliveryRunId *types.SnowflakeID `json:"delivery_run_id"`
	SchedulerSeq  *int               `json:"scheduler_seq"`
}

// scheduleFields is the scheduler-owned slice of an order.
type scheduleFields struct {
	ScheduledDate string
	TruckId       uint
	DeliveryRunId types.SnowflakeID
	SchedulerSeq  int
}

// applySchedulePatch applies the scheduling rules in order:
//  1. purchase orders never take a truck or run, not even a clear;
//  2. clearing the truck also clears the run (a run implies a truck);
//  3. assigning a run overwrites truck and date from the run, the run
//     is authoritative once set;
//  4. detaching from a run keeps truck and date as last set.
//
// run must be the target run when the patch assigns one.
func applySchedulePatch(orderType string, cur scheduleFields, patch SchedulePatch, run *models.DeliveryRun) (scheduleFields, error) {
	if orderType == models.OrderTypePurchase && (patch.TruckId != nil || patch.DeliveryRunId != nil) {
		return cur, ErrPurchaseTruck
	}

	if patch.ScheduledDate != nil {
		cur.ScheduledDate = *patch.ScheduledDate
	}
	if patch.SchedulerSeq != nil {
		cur.SchedulerSeq = *patch.SchedulerSeq
	}

	if patch.TruckId != nil {
		cur.TruckId = *patch.TruckId
		if cur.TruckId == 0 {
			cur.DeliveryRunId = 0
		}
	}

	if patch.DeliveryRunId != nil {
		if *patch.DeliveryRunId == 0 {
			cur.DeliveryRunId = 0
		} else {
			if run == nil {
				return cur, gorm.ErrRecordNotFound
			}
			cur.DeliveryRunId = run.ID
			cur.TruckId = run.TruckId
			cur.ScheduledDate = run.RunDate
		}
	}

	return cur, nil
}

// palletsForLine computes the pallet count one line reserves. A line
// of a misconfigured item still takes one visible pallet, never zero.
func palletsForLine(quantity, unitsPerPallet int) int {
	if unitsPerPallet <= 0 {
		return 1
	}
	return (quantity + unitsPerPallet - 1) / unitsPerPallet
}

// CalendarOrder is the projection of an order as a calendar cell shows
// it.
type CalendarOrder struct {
	OrderType     string            `json:"order_type"`
	OrderID       types.SnowflakeID `json:"order_id"`
	OrderNo       string            `json:"order_no"`
	PartyName     string            `json:"party_name"`
	Status        string            `json:"status"`
	ScheduledDate string            `json:"scheduled_date"`
	TruckId       uint              `json:"truck_id"`
	TruckName     string            `json:"truck_name"`
	DeliveryRunId types.SnowflakeID `json:"delivery_run_id"`
	RunName       string            `json:"run_name"`
	Priority      int               `json:"priority"`
	SchedulerSeq  int               `json:"scheduler_seq"`
	TotalLines    int               `json:"total_lines"`
	TotalQty      int               `json:"total_qty"`
	TotalPallets  int               `json:"total_pallets"`
}

type CalendarCell struct {
	Date   string          `json:"date"`
	Orders []CalendarOrder `json:"orders"`
}

type CalendarTruck struct {
	TruckId   uint           `json:"truck_id"`
	TruckName string         `json:"truck_name"`
	Days      []CalendarCell `json:"days"`
}

// sortCell orders a cell's orders. The user's manual drag order always
// wins over the numeric priority tie-break.
func sortCell(orders []CalendarOrder) {
	slices.SortFunc(orders, func(a, b CalendarOrder) int {
		if a.SchedulerSeq != b.SchedulerSeq {
			return a.SchedulerSeq - b.SchedulerSeq
		}
		if a.Priority != b.Priority {
			return a.Priority - b.Priority
		}
		if a.OrderID < b.OrderID {
			return -1
		}
		if a.OrderID > b.OrderID {
			return 1
		}
		return 0
	})
}

// groupCalendar buckets orders per truck then per date. Orders with no
// truck land in the "Unassigned" bucket, which sorts first.
func groupCalendar(orders []CalendarOrder) []CalendarTruck {
	truckNames := map[uint]string{}
	perTruck := map[uint]map[string][]CalendarOrder{}

	for _, o := range orders {
		name := o.TruckName
		if o.TruckId == 0 {
			name = "Unassigned"
		}
		truckNames[o.TruckId] = name
		if perTruck[o.TruckId] == nil {
			perTruck[o.TruckId] = map[string][]CalendarOrder{}
		}
		perTruck[o.TruckId][o.ScheduledDate] = append(perTruck[o.TruckId][o.ScheduledDate], o)
	}

	truckIDs := make([]uint, 0, len(perTruck))
	for id := range perTruck {
		truckIDs = append(truckIDs, id)
	}
	slices.SortFunc(truckIDs, func(a, b uint) int {
		// Unassigned first, then by name.
		if a == 0 {
			return -1
		}
		if b == 0 {
			return 1
		}
		if truckNames[a] != truckNames[b] {
			if truckNames[a] < truckNames[b] {
				return -1
			}
			return 1
		}
		return int(a) - int(b)
	})

	result := make([]CalendarTruck, 0, len(truckIDs))
	for _, tid := range truckIDs {
		group := CalendarTruck{TruckId: tid, TruckName: truckNames[tid]}

		dates := make([]string, 0, len(perTruck[tid]))
		for d := range perTruck[tid] {
			dates = append(dates, d)
		}
		slices.Sort(dates)

		for _, d := range dates {
			cell := CalendarCell{Date: d, Orders: perTruck[tid][d]}
			sortCell(cell.Orders)
			group.Days = append(group.Days, cell)
		}
		result = append(result, group)
	}
	return result
}

// calendarOrderProjection builds the calendar view of one order,
// totals included.
func calendarOrderProjection(db *gorm.DB, orderType string, orderID types.SnowflakeID) (CalendarOrder, error) {
	var proj CalendarOrder
	proj.OrderType = orderType
	proj.OrderID = orderID

	switch orderType {
	case models.OrderTypeSales:
		var so models.SalesOrder
		if err := db.Where("id = ?", orderID).First(&so).Error; err != nil {
			return proj, err
		}
		proj.OrderNo = so.SoNo
		proj.PartyName = so.CustomerName
		proj.Status = so.Status
		proj.ScheduledDate = so.ScheduledDate
		proj.TruckId = so.TruckId
		proj.DeliveryRunId = so.DeliveryRunId
		proj.Priority = so.Priority
		proj.SchedulerSeq = so.SchedulerSeq

		if so.TruckId != 0 {
			var truck models.Truck
			if err := db.First(&truck, so.TruckId).Error; err == nil {
				proj.TruckName = truck.Name
			}
		}
		if so.DeliveryRunId != 0 {
			var run models.DeliveryRun
			if err := db.Where("id = ?", so.DeliveryRunId).First(&run).Error; err == nil {
				proj.RunName = run.Name
			}
		}

		type lineRow struct {
			Quantity       int
			UnitsPerPallet int
		}
		var rows []lineRow
		sql := `SELECT sol.quantity, COALESCE(items.units_per_pallet, 0) AS units_per_pallet
		FROM sales_order_lines sol
		LEFT JOIN items ON items.id = sol.item_id
		WHERE sol.sales_order_id = ? AND sol.deleted_at IS NULL`
		if err := db.Raw(sql, orderID).Scan(&rows).Error; err != nil {
			return proj, err
		}
		for _, row := range rows {
			proj.TotalLines++
			proj.TotalQty += row.Quantity
			proj.TotalPallets += palletsForLine(row.Quantity, row.UnitsPerPallet)
		}
		return proj, nil

	case models.OrderTypePurchase:
		var po models.PurchaseOrder
		if err := db.Where("id = ?", orderID).First(&po).Error; err != nil {
			return proj, err
		}
		proj.OrderNo = po.PoNo
		proj.Status = po.Status
		proj.ScheduledDate = po.ScheduledDate
		proj.Priority = po.Priority
		proj.SchedulerSeq = po.SchedulerSeq

		var vendorName string
		db.Raw(`SELECT name FROM vendors WHERE id = ? AND deleted_at IS NULL`, po.VendorID).Scan(&vendorName)
		proj.PartyName = vendorName

		type lineRow struct {
			Quantity       int
			UnitsPerPallet int
		}
		var rows []lineRow
		sql := `SELECT pol.quantity, COALESCE(items.units_per_pallet, 0) AS units_per_pallet
		FROM purchase_order_lines pol
		LEFT JOIN items ON items.id = pol.item_id
		WHERE pol.purchase_order_id = ? AND pol.deleted_at IS NULL`
		if err := db.Raw(sql, orderID).Scan(&rows).Error; err != nil {
			return proj, err
		}
		for _, row := range rows {
			proj.TotalLines++
			proj.TotalQty += row.Quantity
			proj.TotalPallets += palletsForLine(row.Quantity, row.UnitsPerPallet)
		}
		return proj, nil

	default:
		return proj, fmt.Errorf("unknown order type %q", orderType)
	}
}

// UpdateSchedule applies a schedule patch to one order and returns the
// fresh calendar projection. A run that empties out as a side effect
// is left alone; empty runs persist until a user deletes them (a run
// auto-delete here raced with drag-and-drop in the past).
func (r *CalendarRepository) UpdateSchedule(orderType string, orderID types.SnowflakeID, patch SchedulePatch, actor int, unit string) (CalendarOrder, error) {
	var proj CalendarOrder

	if orderType != models.OrderTypeSales && orderType != models.OrderTypePurchase {
		return proj, fmt.Errorf("unknown order type %q", orderType)
	}

	tx := r.db.Begin()
	if tx.Error != nil {
		return proj, errors.New("failed to start transaction")
	}

	defer func() {
		if rec := recover(); rec != nil {
			tx.Rollback()
		}
	}()

	// Resolve the target run first when the patch assigns one.
	var run *models.DeliveryRun
	if patch.DeliveryRunId != nil && *patch.DeliveryRunId != 0 {
		var dr models.DeliveryRun
		if err := tx.Where("id = ?", *patch.DeliveryRunId).First(&dr).Error; err != nil {
			tx.Rollback()
			return proj, err
		}
		run = &dr
	}
	if patch.TruckId != nil && *patch.TruckId != 0 {
		var truck models.Truck
		if err := tx.First(&truck, *patch.TruckId).Error; err != nil {
			tx.Rollback()
			return proj, err
		}
	}

	var refNo, status string
	switch orderType {
	case models.OrderTypeSales:
		var so models.SalesOrder
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", orderID).First(&so).Error; err != nil {
			tx.Rollback()
			return proj, err
		}

		cur := scheduleFields{so.ScheduledDate, so.TruckId, so.DeliveryRunId, so.SchedulerSeq}
		next, err := applySchedulePatch(orderType, cur, patch, run)
		if err != nil {
			tx.Rollback()
			return proj, err
		}

		if err := tx.Model(&models.SalesOrder{}).Where("id = ?", so.ID).
			Updates(map[string]interface{}{
				"scheduled_date":  next.ScheduledDate,
				"truck_id":        next.TruckId,
				"delivery_run_id": next.DeliveryRunId,
				"scheduler_seq":   next.SchedulerSeq,
				"updated_by":      actor,
			}).Error; err != nil {
			tx.Rollback()
			return proj, err
		}
		refNo, status = so.SoNo, so.Status

	case models.OrderTypePurchase:
		var po models.PurchaseOrder
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", orderID).First(&po).Error; err != nil {
			tx.Rollback()
			return proj, err
		}

		cur := scheduleFields{ScheduledDate: po.ScheduledDate, SchedulerSeq: po.SchedulerSeq}
		next, err := applySchedulePatch(orderType, cur, patch, run)
		if err != nil {
			tx.Rollback()
			return proj, err
		}

		if err := tx.Model(&models.PurchaseOrder{}).Where("id = ?", po.ID).
			Updates(map[string]interface{}{
				"scheduled_date": next.ScheduledDate,
				"scheduler_seq":  next.SchedulerSeq,
				"updated_by":     actor,
			}).Error; err != nil {
			tx.Rollback()
			return proj, err
		}
		refNo, status = po.PoNo, po.Status
	}

	if err := helpers.InsertTransactionHistory(tx, refNo, status, orderType, "Schedule updated", actor); err != nil {
		tx.Rollback()
		return proj, err
	}

	if err := tx.Commit().Error; err != nil {
		return proj, err
	}

	proj, err := calendarOrderProjection(r.db, orderType, orderID)
	if err != nil {
		return proj, err
	}

	notifier.Publish(notifier.Event{
		Event:  notifier.EventOrderUpdated,
		Action: notifier.ActionUpdated,
		Unit:   unit,
		Payload: notifier.OrderPayload{
			OrderType: orderType,
			OrderID:   orderID,
			Order:     proj,
		},
	})

	return proj, nil
}

// CalendarRange returns the per-truck, per-day listing for a date
// range, both order types included.
func (r *CalendarRepository) CalendarRange(startDate, endDate string) ([]CalendarTruck, error) {
	orders, err := r.fetchCalendarOrders(
		`so.scheduled_date BETWEEN ? AND ?`, `po.scheduled_date BETWEEN ? AND ?`,
		[]interface{}{startDate, endDate})
	if err != nil {
		return nil, err
	}
	return groupCalendar(orders), nil
}

// UnscheduledOrders returns every non-terminal order without a
// scheduled date, sorted the way a calendar cell sorts.
func (r *CalendarRepository) UnscheduledOrders() ([]CalendarOrder, error) {
	orders, err := r.fetchCalendarOrders(
		`(so.scheduled_date IS NULL OR so.scheduled_date = '') AND so.status NOT IN ('complete', 'cancelled')`,
		`(po.scheduled_date IS NULL OR po.scheduled_date = '') AND po.status NOT IN ('complete', 'cancelled')`,
		nil)
	if err != nil {
		return nil, err
	}
	sortCell(orders)
	return orders, nil
}

func (r *CalendarRepository) fetchCalendarOrders(soWhere, poWhere string, args []interface{}) ([]CalendarOrder, error) {
	soSQL := `SELECT 'SO' AS order_type, so.id AS order_id, so.so_no AS order_no,
		so.customer_name AS party_name, so.status, so.scheduled_date,
		so.truck_id, COALESCE(trucks.name, '') AS truck_name,
		so.delivery_run_id, COALESCE(delivery_runs.name, '') AS run_name,
		so.priority, so.scheduler_seq,
		COUNT(sol.id) AS total_lines,
		COALESCE(SUM(sol.quantity), 0) AS total_qty
	FROM sales_orders so
	LEFT JOIN trucks ON trucks.id = so.truck_id
	LEFT JOIN delivery_runs ON delivery_runs.id = so.delivery_run_id
	LEFT JOIN sales_order_lines sol ON sol.sales_order_id = so.id AND sol.deleted_at IS NULL
	WHERE so.deleted_at IS NULL AND ` + soWhere + `
	GROUP BY so.id, so.so_no, so.customer_name, so.status, so.scheduled_date,
		so.truck_id, trucks.name, so.delivery_run_id, delivery_runs.name,
		so.priority, so.scheduler_seq`

	var orders []CalendarOrder
	if err := r.db.Raw(soSQL, args...).Scan(&orders).Error; err != nil {
		return nil, err
	}

	poSQL := `SELECT 'PO' AS order_type, po.id AS order_id, po.po_no AS order_no,
		COALESCE(vendors.name, '') AS party_name, po.status, po.scheduled_date,
		0 AS truck_id, '' AS truck_name, 0 AS delivery_run_id, '' AS run_name,
		po.priority, po.scheduler_seq,
		COUNT(pol.id) AS total_lines,
		COALESCE(SUM(pol.quantity), 0) AS total_qty
	FROM purchase_orders po
	LEFT JOIN vendors ON vendors.id = po.vendor_id
	LEFT JOIN purchase_order_lines pol ON pol.purchase_order_id = po.id AND pol.deleted_at IS NULL
	WHERE po.deleted_at IS NULL AND ` + poWhere + `
	GROUP BY po.id, po.po_no, vendors.name, po.status, po.scheduled_date,
		po.priority, po.scheduler_seq`

	var poOrders []CalendarOrder
	if err := r.db.Raw(poSQL, args...).Scan(&poOrders).Error; err != nil {
		return nil, err
	}
	orders = append(orders, poOrders...)

	// Pallet totals need per-line item data; one pass per order type.
	if err := r.fillPalletTotals(orders); err != nil {
		return nil, err
	}

	return orders, nil
}

type palletRow struct {
	OrderID        types.SnowflakeID
	Quantity       int
	UnitsPerPallet int
}

func (r *CalendarRepository) fillPalletTotals(orders []CalendarOrder) error {
	var soRows, poRows []palletRow

	soSQL := `SELECT sol.sales_order_id AS order_id, sol.quantity,
		COALESCE(items.units_per_pallet, 0) AS units_per_pallet
	FROM sales_order_lines sol
	LEFT JOIN items ON items.id = sol.item_id
	WHERE sol.deleted_at IS NULL`
	if err := r.db.Raw(soSQL).Scan(&soRows).Error; err != nil {
		return err
	}

	poSQL := `SELECT pol.purchase_order_id AS order_id, pol.quantity,
		COALESCE(items.units_per_pallet, 0) AS units_per_pallet
	FROM purchase_order_lines pol
	LEFT JOIN items ON items.id = pol.item_id
	WHERE pol.deleted_at IS NULL`
	if err := r.db.Raw(poSQL).Scan(&poRows).Error; err != nil {
		return err
	}

	soPallets := map[types.SnowflakeID]int{}
	for _, row := range soRows {
		soPallets[row.OrderID] += palletsForLine(row.Quantity, row.UnitsPerPallet)
	}
	poPallets := map[types.SnowflakeID]int{}
	for _, row := range poRows {
		poPallets[row.OrderID] += palletsForLine(row.Quantity, row.UnitsPerPallet)
	}

	for i := range orders {
		switch orders[i].OrderType {
		case models.OrderTypeSales:
			orders[i].TotalPallets = soPallets[orders[i].OrderID]
		case models.OrderTypePurchase:
			orders[i].TotalPallets = poPallets[orders[i].OrderID]
		}
	}
	return nil
}
