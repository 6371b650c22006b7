package repositories

import (
	"errors"
	"fmt"

	"erp-app/controllers/helpers"
	"erp-app/models"
	"erp-app/notifier"

	"golang.org/x/exp/slices"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrBinMismatch is returned when a reorder request does not carry
// exactly the lines currently in the bin. A stale client must refetch
// instead of silently dropping or duplicating lines.
var ErrBinMismatch = errors.New("lines do not match current bin contents")

type PriorityRepository struct {
	db    *gorm.DB
	allot *AllotmentRepository
}

func NewPriorityRepository(db *gorm.DB) *PriorityRepository {
	return &PriorityRepository{db: db, allot: NewAllotmentRepository(db)}
}

// PriorityLine is one production line as the priority list shows it.
type PriorityLine struct {
	EntryID     uint   `json:"entry_id"`
	LineID      uint   `json:"line_id"`
	PoNo        string `json:"po_no"`
	ItemCode    string `json:"item_code"`
	ItemName    string `json:"item_name"`
	Quantity    int    `json:"quantity"`
	Seq         int    `json:"seq"`
	RequestDate string `json:"request_date"`
	VendorID    uint   `json:"vendor_id"`
	VendorName  string `json:"vendor_name"`
	KickDate    string `json:"kick_date"`
	BoxType     string `json:"box_type"`
}

// PriorityBucket is one bin plus its capacity numbers. Remaining
// floors at zero: overbooking stays visible through ScheduledQty, not
// through a negative remainder.
type PriorityBucket struct {
	BoxType      string         `json:"box_type"`
	Allotment    int            `json:"allotment"`
	IsOverride   bool           `json:"is_override"`
	ScheduledQty int            `json:"scheduled_qty"`
	Remaining    int            `json:"remaining"`
	Lines        []PriorityLine `json:"lines"`
}

type PriorityDay struct {
	KickDate string           `json:"kick_date"`
	Buckets  []PriorityBucket `json:"buckets"`
}

type PriorityVendor struct {
	VendorID   uint          `json:"vendor_id"`
	VendorName string        `json:"vendor_name"`
	Days       []PriorityDay `json:"days"`
}

// BuildPriorityList returns the grouped vendor -> date -> box type
// view for a date range. vendorID 0 means all vendors.
func (r *PriorityRepository) BuildPriorityList(startDate, endDate string, vendorID uint) ([]PriorityVendor, error) {
	sql := `SELECT pe.id AS entry_id, pe.line_id, pol.po_no, pol.item_code,
		COALESCE(items.item_name, '') AS item_name, pol.quantity, pe.seq,
		po.request_date, pe.vendor_id, COALESCE(vendors.name, '') AS vendor_name,
		pe.kick_date, pe.box_type
	FROM priority_entries pe
	INNER JOIN purchase_order_lines pol ON pol.id = pe.line_id
	INNER JOIN purchase_orders po ON po.id = pe.purchase_order_id
	LEFT JOIN items ON items.id = pol.item_id
	LEFT JOIN vendors ON vendors.id = pe.vendor_id
	WHERE pe.kick_date BETWEEN ? AND ?
	AND pe.deleted_at IS NULL
	AND pol.deleted_at IS NULL
	AND po.deleted_at IS NULL`

	args := []interface{}{startDate, endDate}
	if vendorID != 0 {
		sql += ` AND pe.vendor_id = ?`
		args = append(args, vendorID)
	}
	sql += ` ORDER BY vendor_name, pe.kick_date, pe.box_type, pe.seq`

	var lines []PriorityLine
	if err := r.db.Raw(sql, args...).Scan(&lines).Error; err != nil {
		return nil, err
	}

	return buildGroups(lines, func(vendorID uint, boxType, kickDate string) (int, bool, error) {
		return r.allot.EffectiveAllotment(vendorID, boxType, kickDate)
	})
}

type allotmentFn func(vendorID uint, boxType, kickDate string) (int, bool, error)

// buildGroups shapes flat rows into the vendor -> date -> box type
// view and settles each bucket against its allotment. Output order is
// deterministic: vendor name, date ascending, box type alphabetical,
// sequence within the bucket.
func buildGroups(lines []PriorityLine, allot allotmentFn) ([]PriorityVendor, error) {
	type dayKey struct {
		vendorID uint
		date     string
	}

	vendorNames := map[uint]string{}
	days := map[dayKey]map[string][]PriorityLine{}

	for _, line := range lines {
		vendorNames[line.VendorID] = line.VendorName
		k := dayKey{line.VendorID, line.KickDate}
		if days[k] == nil {
			days[k] = map[string][]PriorityLine{}
		}
		days[k][line.BoxType] = append(days[k][line.BoxType], line)
	}

	vendorIDs := make([]uint, 0, len(vendorNames))
	for id := range vendorNames {
		vendorIDs = append(vendorIDs, id)
	}
	slices.SortFunc(vendorIDs, func(a, b uint) int {
		if vendorNames[a] != vendorNames[b] {
			if vendorNames[a] < vendorNames[b] {
				return -1
			}
			return 1
		}
		return int(a) - int(b)
	})

	result := make([]PriorityVendor, 0, len(vendorIDs))
	for _, vid := range vendorIDs {
		vendorView := PriorityVendor{VendorID: vid, VendorName: vendorNames[vid]}

		var dates []string
		for k := range days {
			if k.vendorID == vid {
				dates = append(dates, k.date)
			}
		}
		slices.Sort(dates)

		for _, date := range dates {
			day := PriorityDay{KickDate: date}

			buckets := days[dayKey{vid, date}]
			boxTypes := make([]string, 0, len(buckets))
			for bt := range buckets {
				boxTypes = append(boxTypes, bt)
			}
			slices.Sort(boxTypes)

			for _, bt := range boxTypes {
				bucketLines := buckets[bt]
				slices.SortFunc(bucketLines, func(a, b PriorityLine) int {
					return a.Seq - b.Seq
				})

				scheduled := 0
				for _, l := range bucketLines {
					scheduled += l.Quantity
				}

				allotment, isOverride, err := allot(vid, bt, date)
				if err != nil {
					return nil, err
				}

				remaining := allotment - scheduled
				if remaining < 0 {
					remaining = 0
				}

				day.Buckets = append(day.Buckets, PriorityBucket{
					BoxType:      bt,
					Allotment:    allotment,
					IsOverride:   isOverride,
					ScheduledQty: scheduled,
					Remaining:    remaining,
					Lines:        bucketLines,
				})
			}

			vendorView.Days = append(vendorView.Days, day)
		}

		result = append(result, vendorView)
	}

	return result, nil
}

// applyReorder maps line -> new sequence for a full reorder of one
// bin. The given order must contain exactly the bin's current lines.
func applyReorder(entries []models.PriorityEntry, orderedLineIDs []uint) (map[uint]int, error) {
	if len(orderedLineIDs) != len(entries) {
		return nil, ErrBinMismatch
	}

	current := make(map[uint]bool, len(entries))
	for _, e := range entries {
		current[e.LineId] = true
	}

	seqByLine := make(map[uint]int, len(orderedLineIDs))
	for i, lineID := range orderedLineIDs {
		if !current[lineID] {
			return nil, ErrBinMismatch
		}
		if _, dup := seqByLine[lineID]; dup {
			return nil, ErrBinMismatch
		}
		seqByLine[lineID] = i
	}

	return seqByLine, nil
}

// resequencePlan renumbers entries densely 0..n-1 in their existing
// relative order and returns only the entries whose sequence changes.
func resequencePlan(entries []models.PriorityEntry) map[uint]int {
	sorted := make([]models.PriorityEntry, len(entries))
	copy(sorted, entries)
	slices.SortFunc(sorted, func(a, b models.PriorityEntry) int {
		if a.Seq != b.Seq {
			return a.Seq - b.Seq
		}
		return int(a.ID) - int(b.ID)
	})

	changes := map[uint]int{}
	for i, e := range sorted {
		if e.Seq != i {
			changes[e.ID] = i
		}
	}
	return changes
}

// clampSeq keeps an insert position inside 0..n.
func clampSeq(insertAt, n int) int {
	if insertAt < 0 {
		return 0
	}
	if insertAt > n {
		return n
	}
	return insertAt
}

// reinsertAt pulls one id out of the order and reinserts it at the
// wanted position; used when a move targets the line's current bin.
func reinsertAt(entries []models.PriorityEntry, lineID uint, at int) []uint {
	rest := make([]uint, 0, len(entries))
	for _, e := range entries {
		if e.LineId != lineID {
			rest = append(rest, e.LineId)
		}
	}
	at = clampSeq(at, len(rest))

	ordered := make([]uint, 0, len(entries))
	ordered = append(ordered, rest[:at]...)
	ordered = append(ordered, lineID)
	ordered = append(ordered, rest[at:]...)
	return ordered
}

// insertPlan renumbers a bin densely around an insertion. Existing
// entries take the positions 0..n with the insert slot skipped, so
// the outcome is positional even when earlier deletions left sequence
// gaps in the bin. Returns the changed sequences and the slot the
// inserted line takes.
func insertPlan(entries []models.PriorityEntry, insertAt int) (map[uint]int, int) {
	sorted := make([]models.PriorityEntry, len(entries))
	copy(sorted, entries)
	slices.SortFunc(sorted, func(a, b models.PriorityEntry) int {
		if a.Seq != b.Seq {
			return a.Seq - b.Seq
		}
		return int(a.ID) - int(b.ID)
	})
	insertAt = clampSeq(insertAt, len(sorted))

	changes := map[uint]int{}
	for i, e := range sorted {
		newSeq := i
		if i >= insertAt {
			newSeq = i + 1
		}
		if e.Seq != newSeq {
			changes[e.ID] = newSeq
		}
	}
	return changes, insertAt
}

// ReorderBin rewrites the sequence of one bin to the given line order.
// Rejected without touching anything when the set of lines does not
// exactly match the bin.
func (r *PriorityRepository) ReorderBin(vendorID uint, kickDate, boxType string, orderedLineIDs []uint, actor int, unit string) error {
	tx := r.db.Begin()
	if tx.Error != nil {
		return errors.New("failed to start transaction")
	}

	defer func() {
		if rec := recover(); rec != nil {
			tx.Rollback()
		}
	}()

	var entries []models.PriorityEntry
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("vendor_id = ? AND kick_date = ? AND box_type = ?", vendorID, kickDate, boxType).
		Order("seq asc").Find(&entries).Error; err != nil {
		tx.Rollback()
		return err
	}

	seqByLine, err := applyReorder(entries, orderedLineIDs)
	if err != nil {
		tx.Rollback()
		return err
	}

	for _, e := range entries {
		newSeq := seqByLine[e.LineId]
		if newSeq == e.Seq {
			continue
		}
		if err := tx.Model(&models.PriorityEntry{}).Where("id = ?", e.ID).
			Updates(map[string]interface{}{"seq": newSeq, "updated_by": actor}).Error; err != nil {
			tx.Rollback()
			return err
		}
	}

	if err := tx.Commit().Error; err != nil {
		return err
	}

	notifier.Publish(notifier.Event{
		Event:  notifier.EventPriorityUpdated,
		Action: notifier.ActionReordered,
		Unit:   unit,
		Payload: notifier.PriorityPayload{
			VendorID: vendorID,
			KickDate: kickDate,
			BoxType:  boxType,
		},
	})

	return nil
}

// MovePriorityLine moves one production line to another kick date,
// inserting it at the given position in the target bin. The vendor and
// box type are fixed by the line itself. The parent purchase order's
// scheduled date follows the line: a PO's lines sit in one bin, so
// moving a line moves the PO.
func (r *PriorityRepository) MovePriorityLine(lineID uint, targetDate string, insertAt int, actor int, unit string) error {
	tx := r.db.Begin()
	if tx.Error != nil {
		return errors.New("failed to start transaction")
	}

	defer func() {
		if rec := recover(); rec != nil {
			tx.Rollback()
		}
	}()

	var entry models.PriorityEntry
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("line_id = ?", lineID).First(&entry).Error; err != nil {
		tx.Rollback()
		return err
	}

	var po models.PurchaseOrder
	if err := tx.Where("id = ?", entry.PurchaseOrderId).First(&po).Error; err != nil {
		tx.Rollback()
		return err
	}

	oldDate := entry.KickDate

	if targetDate == oldDate {
		// Same bin: plain reorder with the line at the wanted spot.
		var bin []models.PriorityEntry
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("vendor_id = ? AND kick_date = ? AND box_type = ?", entry.VendorID, oldDate, entry.BoxType).
			Order("seq asc").Find(&bin).Error; err != nil {
			tx.Rollback()
			return err
		}
		tx.Rollback()
		return r.ReorderBin(entry.VendorID, oldDate, entry.BoxType, reinsertAt(bin, lineID, insertAt), actor, unit)
	}

	// Lock the target bin and renumber it positionally around the
	// insert slot.
	var target []models.PriorityEntry
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("vendor_id = ? AND kick_date = ? AND box_type = ?", entry.VendorID, targetDate, entry.BoxType).
		Order("seq asc").Find(&target).Error; err != nil {
		tx.Rollback()
		return err
	}
	changes, slot := insertPlan(target, insertAt)
	for entryID, seq := range changes {
		if err := tx.Model(&models.PriorityEntry{}).Where("id = ?", entryID).
			Updates(map[string]interface{}{"seq": seq, "updated_by": actor}).Error; err != nil {
			tx.Rollback()
			return err
		}
	}

	if err := tx.Model(&models.PriorityEntry{}).Where("id = ?", entry.ID).
		Updates(map[string]interface{}{
			"kick_date":  targetDate,
			"seq":        slot,
			"updated_by": actor,
		}).Error; err != nil {
		tx.Rollback()
		return err
	}

	// Close the gap the line left behind.
	var old []models.PriorityEntry
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("vendor_id = ? AND kick_date = ? AND box_type = ?", entry.VendorID, oldDate, entry.BoxType).
		Order("seq asc").Find(&old).Error; err != nil {
		tx.Rollback()
		return err
	}
	for entryID, seq := range resequencePlan(old) {
		if err := tx.Model(&models.PriorityEntry{}).Where("id = ?", entryID).
			Updates(map[string]interface{}{"seq": seq, "updated_by": actor}).Error; err != nil {
			tx.Rollback()
			return err
		}
	}

	// The PO follows its line.
	if err := tx.Model(&models.PurchaseOrder{}).Where("id = ?", po.ID).
		Updates(map[string]interface{}{"scheduled_date": targetDate, "updated_by": actor}).Error; err != nil {
		tx.Rollback()
		return err
	}

	detail := fmt.Sprintf("Production line %d moved from %s to %s", lineID, oldDate, targetDate)
	if err := helpers.InsertTransactionHistory(tx, po.PoNo, po.Status, "PO", detail, actor); err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit().Error; err != nil {
		return err
	}

	order, err := calendarOrderProjection(r.db, models.OrderTypePurchase, po.ID)
	if err != nil {
		// Projection is only event payload; the move already committed.
		order = CalendarOrder{OrderType: models.OrderTypePurchase, OrderID: po.ID}
	}
	notifier.Publish(notifier.Event{
		Event:  notifier.EventOrderUpdated,
		Action: notifier.ActionUpdated,
		Unit:   unit,
		Payload: notifier.OrderPayload{
			OrderType: models.OrderTypePurchase,
			OrderID:   po.ID,
			Order:     order,
		},
	})

	notifier.Publish(notifier.Event{
		Event:  notifier.EventPriorityUpdated,
		Action: notifier.ActionMoved,
		Unit:   unit,
		Payload: notifier.PriorityPayload{
			VendorID:  entry.VendorID,
			KickDate:  oldDate,
			BoxType:   entry.BoxType,
			LineID:    lineID,
			Direction: notifier.DirectionFrom,
		},
	})
	insertedSeq := slot
	notifier.Publish(notifier.Event{
		Event:  notifier.EventPriorityUpdated,
		Action: notifier.ActionMoved,
		Unit:   unit,
		Payload: notifier.PriorityPayload{
			VendorID:  entry.VendorID,
			KickDate:  targetDate,
			BoxType:   entry.BoxType,
			LineID:    lineID,
			Seq:       &insertedSeq,
			Direction: notifier.DirectionTo,
		},
	})

	return nil
}
