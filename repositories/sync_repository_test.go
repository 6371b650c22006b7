package repositories

import (
	"testing"

	"erp-app/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func pruneBin(vendorID uint, date, boxType string, firstID uint, seqs ...int) []models.PriorityEntry {
	entries := make([]models.PriorityEntry, len(seqs))
	for i, seq := range seqs {
		entries[i] = models.PriorityEntry{
			Model:    gorm.Model{ID: firstID + uint(i)},
			VendorID: vendorID,
			KickDate: date,
			BoxType:  boxType,
			Seq:      seq,
		}
	}
	return entries
}

func TestPlanSyncAppendsToBinTail(t *testing.T) {
	candidates := []syncCandidate{
		{LineID: 1, PurchaseOrderId: 1001, VendorID: 7, KickDate: "2026-03-02", BoxType: models.BoxRSC},
		{LineID: 2, PurchaseOrderId: 1001, VendorID: 7, KickDate: "2026-03-02", BoxType: models.BoxRSC},
		{LineID: 3, PurchaseOrderId: 1002, VendorID: 7, KickDate: "2026-03-02", BoxType: models.BoxDC},
	}
	maxSeq := map[binKey]int{
		{VendorID: 7, KickDate: "2026-03-02", BoxType: models.BoxRSC}: 4,
	}

	entries := planSync(candidates, maxSeq)
	require.Len(t, entries, 3)

	// Existing RSC bin ends at seq 4; new lines continue from 5.
	assert.Equal(t, 5, entries[0].Seq)
	assert.Equal(t, 6, entries[1].Seq)

	// DC bin is empty; its first line starts at 0.
	assert.Equal(t, 0, entries[2].Seq)
	assert.Equal(t, models.BoxDC, entries[2].BoxType)
}

func TestPlanSyncCarriesBinCoordinates(t *testing.T) {
	candidates := []syncCandidate{
		{LineID: 9, PurchaseOrderId: 2001, VendorID: 3, KickDate: "2026-04-01", BoxType: models.BoxHSC},
	}

	entries := planSync(candidates, nil)
	require.Len(t, entries, 1)

	e := entries[0]
	assert.Equal(t, uint(9), e.LineId)
	assert.Equal(t, uint(3), e.VendorID)
	assert.Equal(t, "2026-04-01", e.KickDate)
	assert.Equal(t, models.BoxHSC, e.BoxType)
	assert.Equal(t, 0, e.Seq)
}

func TestPlanSyncNoCandidatesNoEntries(t *testing.T) {
	entries := planSync(nil, map[binKey]int{
		{VendorID: 7, KickDate: "2026-03-02", BoxType: models.BoxRSC}: 2,
	})
	assert.Empty(t, entries)
}

func TestPlanSyncNeverTouchesExistingSequences(t *testing.T) {
	// Two sync passes over disjoint candidates keep appending; the
	// second pass starts where the first would have left off.
	first := planSync([]syncCandidate{
		{LineID: 1, VendorID: 7, KickDate: "2026-03-02", BoxType: models.BoxRSC},
		{LineID: 2, VendorID: 7, KickDate: "2026-03-02", BoxType: models.BoxRSC},
	}, nil)
	require.Len(t, first, 2)

	maxAfterFirst := map[binKey]int{
		{VendorID: 7, KickDate: "2026-03-02", BoxType: models.BoxRSC}: first[1].Seq,
	}
	second := planSync([]syncCandidate{
		{LineID: 3, VendorID: 7, KickDate: "2026-03-02", BoxType: models.BoxRSC},
	}, maxAfterFirst)
	require.Len(t, second, 1)
	assert.Equal(t, 2, second[0].Seq)
}

func TestPlanPruneClosesGaps(t *testing.T) {
	// Removing the middle entry must pull its successors down; the
	// bin stays dense 0..n-1.
	entries := pruneBin(7, "2026-03-02", models.BoxRSC, 11, 0, 1, 2)

	changes := planPrune(entries, []uint{12})
	assert.Equal(t, map[uint]int{13: 1}, changes)
}

func TestPlanPruneLeavesOtherBinsAlone(t *testing.T) {
	entries := pruneBin(7, "2026-03-02", models.BoxRSC, 11, 0, 1, 2)
	entries = append(entries, pruneBin(7, "2026-03-02", models.BoxDC, 21, 0, 1)...)

	changes := planPrune(entries, []uint{11})
	assert.Equal(t, map[uint]int{12: 0, 13: 1}, changes)
}

func TestPlanPruneAfterAppendStaysDense(t *testing.T) {
	// One sync pass can delete a stale entry from a bin it also
	// appends to. The appended entry sits past the old tail and must
	// shift down with the survivors.
	existing := pruneBin(7, "2026-03-02", models.BoxRSC, 31, 0, 1, 2)
	created := pruneBin(7, "2026-03-02", models.BoxRSC, 34, 3)

	changes := planPrune(append(existing, created...), []uint{32})
	assert.Equal(t, map[uint]int{33: 1, 34: 2}, changes)
}

func TestPlanPruneNoRemovalsDenseBinNoChanges(t *testing.T) {
	entries := pruneBin(7, "2026-03-02", models.BoxRSC, 41, 0, 1, 2)
	assert.Empty(t, planPrune(entries, nil))
}
