package repositories

import (
	"errors"

	"erp-app/models"
	"erp-app/notifier"
	"erp-app/types"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SyncRepository struct {
	db *gorm.DB
}

func NewSyncRepository(db *gorm.DB) *SyncRepository {
	return &SyncRepository{db: db}
}

type SyncResult struct {
	Created int `json:"created"`
	Deleted int `json:"deleted"`
}

// syncCandidate is an open, scheduled purchase order line that has no
// priority entry yet.
type syncCandidate struct {
	LineID          uint
	PurchaseOrderId types.SnowflakeID
	VendorID        uint
	KickDate        string
	BoxType         string
}

type binKey struct {
	VendorID uint
	KickDate string
	BoxType  string
}

// planSync derives the entries to create. Creation is append-only:
// each candidate goes to the end of its bin, existing entries are
// never reordered. maxSeq carries the current highest sequence per
// bin; bins absent from the map are empty.
func planSync(candidates []syncCandidate, maxSeq map[binKey]int) []models.PriorityEntry {
	next := make(map[binKey]int, len(maxSeq))
	for k, max := range maxSeq {
		next[k] = max + 1
	}

	entries := make([]models.PriorityEntry, 0, len(candidates))
	for _, c := range candidates {
		k := binKey{c.VendorID, c.KickDate, c.BoxType}
		seq, ok := next[k]
		if !ok {
			seq = 0
		}
		next[k] = seq + 1

		entries = append(entries, models.PriorityEntry{
			LineId:          c.LineID,
			PurchaseOrderId: c.PurchaseOrderId,
			VendorID:        c.VendorID,
			KickDate:        c.KickDate,
			BoxType:         c.BoxType,
			Seq:             seq,
		})
	}
	return entries
}

// planPrune returns the per-bin sequence rewrites that keep every bin
// dense once the given entry ids are removed. Remaining entries keep
// their relative order; only entries whose sequence actually changes
// appear in the result.
func planPrune(entries []models.PriorityEntry, removeIDs []uint) map[uint]int {
	removed := make(map[uint]bool, len(removeIDs))
	for _, id := range removeIDs {
		removed[id] = true
	}

	bins := map[binKey][]models.PriorityEntry{}
	for _, e := range entries {
		if removed[e.ID] {
			continue
		}
		k := binKey{e.VendorID, e.KickDate, e.BoxType}
		bins[k] = append(bins[k], e)
	}

	changes := map[uint]int{}
	for _, bin := range bins {
		for id, seq := range resequencePlan(bin) {
			changes[id] = seq
		}
	}
	return changes
}

// SyncPriorityEntries reconciles priority entries against the purchase
// orders: every open, scheduled PO line gets an entry; entries of
// complete/cancelled POs are removed and the bins they leave are
// renumbered densely. Running it twice without intervening order
// changes is a no-op the second time.
func (r *SyncRepository) SyncPriorityEntries(actor int, unit string) (SyncResult, error) {
	var result SyncResult

	tx := r.db.Begin()
	if tx.Error != nil {
		return result, errors.New("failed to start transaction")
	}

	defer func() {
		if rec := recover(); rec != nil {
			tx.Rollback()
		}
	}()

	// Lock every entry up front. Sync is a whole-table reconcile, so
	// two concurrent syncs, or a sync racing a reorder or move, must
	// serialize on these rows or one of them plans against stale
	// sequences.
	var existing []models.PriorityEntry
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Order("vendor_id, kick_date, box_type, seq").Find(&existing).Error; err != nil {
		tx.Rollback()
		return result, err
	}

	maxSeq := make(map[binKey]int)
	for _, e := range existing {
		k := binKey{e.VendorID, e.KickDate, e.BoxType}
		if cur, ok := maxSeq[k]; !ok || e.Seq > cur {
			maxSeq[k] = e.Seq
		}
	}

	candidateSQL := `SELECT pol.id AS line_id, po.id AS purchase_order_id,
		po.vendor_id, po.scheduled_date AS kick_date,
		COALESCE(items.box_type, 'OTHER') AS box_type
	FROM purchase_order_lines pol
	INNER JOIN purchase_orders po ON po.id = pol.purchase_order_id
	LEFT JOIN items ON items.id = pol.item_id
	LEFT JOIN priority_entries pe ON pe.line_id = pol.id AND pe.deleted_at IS NULL
	WHERE pe.id IS NULL
	AND po.status = ?
	AND po.scheduled_date IS NOT NULL AND po.scheduled_date <> ''
	AND pol.deleted_at IS NULL
	AND po.deleted_at IS NULL
	ORDER BY po.scheduled_date, pol.id`

	var candidates []syncCandidate
	if err := tx.Raw(candidateSQL, models.StatusOpen).Scan(&candidates).Error; err != nil {
		tx.Rollback()
		return result, err
	}

	// Entries whose parent PO reached a terminal status.
	var staleIDs []uint
	staleSQL := `SELECT pe.id
	FROM priority_entries pe
	INNER JOIN purchase_orders po ON po.id = pe.purchase_order_id
	WHERE po.status IN (?, ?)
	AND pe.deleted_at IS NULL`
	if err := tx.Raw(staleSQL, models.StatusComplete, models.StatusCancelled).Scan(&staleIDs).Error; err != nil {
		tx.Rollback()
		return result, err
	}

	toCreate := planSync(candidates, maxSeq)
	if len(toCreate) == 0 && len(staleIDs) == 0 {
		tx.Rollback()
		return result, nil
	}

	for i := range toCreate {
		toCreate[i].CreatedBy = actor
		if err := tx.Create(&toCreate[i]).Error; err != nil {
			tx.Rollback()
			return SyncResult{}, err
		}
	}

	if len(staleIDs) > 0 {
		if err := tx.Unscoped().Where("id IN ?", staleIDs).
			Delete(&models.PriorityEntry{}).Error; err != nil {
			tx.Rollback()
			return SyncResult{}, err
		}
	}

	// Removing stale entries leaves gaps; renumber the survivors so
	// every bin stays dense. Freshly created entries sit past the old
	// tail, so they shift down with the rest.
	combined := append(existing, toCreate...)
	for entryID, seq := range planPrune(combined, staleIDs) {
		if err := tx.Model(&models.PriorityEntry{}).Where("id = ?", entryID).
			Updates(map[string]interface{}{"seq": seq, "updated_by": actor}).Error; err != nil {
			tx.Rollback()
			return SyncResult{}, err
		}
	}

	if err := tx.Commit().Error; err != nil {
		return SyncResult{}, err
	}

	result.Created = len(toCreate)
	result.Deleted = len(staleIDs)

	// One coarse broadcast; sync can touch many bins and per-bin
	// events would be noisy.
	notifier.Publish(notifier.Event{
		Event:  notifier.EventPriorityUpdated,
		Action: notifier.ActionSynced,
		Unit:   unit,
		Payload: notifier.PriorityPayload{
			Created: result.Created,
			Deleted: result.Deleted,
		},
	})

	return result, nil
}
