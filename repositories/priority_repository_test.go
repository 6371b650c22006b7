package repositories

import (
	"testing"

	"erp-app/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func binEntries(lineIDs ...uint) []models.PriorityEntry {
	entries := make([]models.PriorityEntry, len(lineIDs))
	for i, id := range lineIDs {
		entries[i] = models.PriorityEntry{
			Model:  gorm.Model{ID: id + 100},
			LineId: id,
			Seq:    i,
		}
	}
	return entries
}

func TestApplyReorder(t *testing.T) {
	entries := binEntries(1, 2, 3)

	tests := []struct {
		name    string
		ordered []uint
		want    map[uint]int
		wantErr bool
	}{
		{
			name:    "reverse",
			ordered: []uint{3, 2, 1},
			want:    map[uint]int{3: 0, 2: 1, 1: 2},
		},
		{
			name:    "identity",
			ordered: []uint{1, 2, 3},
			want:    map[uint]int{1: 0, 2: 1, 3: 2},
		},
		{
			name:    "missing line",
			ordered: []uint{1, 2},
			wantErr: true,
		},
		{
			name:    "extra line",
			ordered: []uint{1, 2, 3, 4},
			wantErr: true,
		},
		{
			name:    "unknown line",
			ordered: []uint{1, 2, 9},
			wantErr: true,
		},
		{
			name:    "duplicate line",
			ordered: []uint{1, 2, 2},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := applyReorder(entries, tt.ordered)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrBinMismatch)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestApplyReorderSequencesAreDense(t *testing.T) {
	entries := binEntries(10, 20, 30, 40)
	got, err := applyReorder(entries, []uint{40, 10, 30, 20})
	require.NoError(t, err)

	seen := make([]bool, len(got))
	for _, seq := range got {
		require.Less(t, seq, len(got))
		require.False(t, seen[seq], "sequence %d assigned twice", seq)
		seen[seq] = true
	}
}

func TestResequencePlan(t *testing.T) {
	tests := []struct {
		name    string
		entries []models.PriorityEntry
		want    map[uint]int
	}{
		{
			name:    "already dense",
			entries: binEntries(1, 2, 3),
			want:    map[uint]int{},
		},
		{
			name: "gap after removal",
			entries: []models.PriorityEntry{
				{Model: gorm.Model{ID: 11}, LineId: 1, Seq: 0},
				{Model: gorm.Model{ID: 13}, LineId: 3, Seq: 2},
				{Model: gorm.Model{ID: 14}, LineId: 4, Seq: 3},
			},
			want: map[uint]int{13: 1, 14: 2},
		},
		{
			name:    "empty bin",
			entries: nil,
			want:    map[uint]int{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, resequencePlan(tt.entries))
		})
	}
}

func TestClampSeq(t *testing.T) {
	assert.Equal(t, 0, clampSeq(-5, 3))
	assert.Equal(t, 0, clampSeq(0, 3))
	assert.Equal(t, 2, clampSeq(2, 3))
	assert.Equal(t, 3, clampSeq(3, 3))
	assert.Equal(t, 3, clampSeq(99, 3))
	assert.Equal(t, 0, clampSeq(1, 0))
}

func TestReinsertAt(t *testing.T) {
	entries := binEntries(1, 2, 3, 4)

	tests := []struct {
		name string
		line uint
		at   int
		want []uint
	}{
		{"to front", 3, 0, []uint{3, 1, 2, 4}},
		{"to back", 1, 3, []uint{2, 3, 4, 1}},
		{"middle", 4, 1, []uint{1, 4, 2, 3}},
		{"past end clamps", 2, 99, []uint{1, 3, 4, 2}},
		{"negative clamps", 4, -1, []uint{4, 1, 2, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, reinsertAt(entries, tt.line, tt.at))
		})
	}
}

func TestInsertPlan(t *testing.T) {
	// A bin that lost its middle entry: seqs 0 and 2 with a gap.
	gapped := []models.PriorityEntry{
		{Model: gorm.Model{ID: 101}, LineId: 1, Seq: 0},
		{Model: gorm.Model{ID: 102}, LineId: 2, Seq: 2},
	}

	tests := []struct {
		name    string
		entries []models.PriorityEntry
		at      int
		changes map[uint]int
		slot    int
	}{
		{"end of gapped bin", gapped, 2, map[uint]int{102: 1}, 2},
		{"front of gapped bin", gapped, 0, map[uint]int{101: 1}, 0},
		{"middle of gapped bin", gapped, 1, map[uint]int{}, 1},
		{"end of dense bin", binEntries(1, 2, 3), 3, map[uint]int{}, 3},
		{"past end clamps", binEntries(1, 2), 99, map[uint]int{}, 2},
		{"empty bin", nil, 5, map[uint]int{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			changes, slot := insertPlan(tt.entries, tt.at)
			assert.Equal(t, tt.changes, changes)
			assert.Equal(t, tt.slot, slot)
		})
	}
}

func TestInsertPlanKeepsBinDense(t *testing.T) {
	// Position is what counts, not the stored sequence value. After
	// the plan the bin must read 0..n with the inserted line at the
	// requested position.
	gapped := []models.PriorityEntry{
		{Model: gorm.Model{ID: 101}, LineId: 1, Seq: 0},
		{Model: gorm.Model{ID: 102}, LineId: 2, Seq: 2},
		{Model: gorm.Model{ID: 103}, LineId: 3, Seq: 5},
	}

	for insertAt := 0; insertAt <= 4; insertAt++ {
		changes, slot := insertPlan(gapped, insertAt)

		final := map[int]bool{slot: true}
		for _, e := range gapped {
			seq := e.Seq
			if s, ok := changes[e.ID]; ok {
				seq = s
			}
			assert.False(t, final[seq], "duplicate seq %d at insertAt %d", seq, insertAt)
			final[seq] = true
		}
		for seq := 0; seq < len(gapped)+1; seq++ {
			assert.True(t, final[seq], "missing seq %d at insertAt %d", seq, insertAt)
		}
		assert.Equal(t, clampSeq(insertAt, len(gapped)), slot)
	}
}

func fixedAllotment(allot int, override bool) allotmentFn {
	return func(vendorID uint, boxType, kickDate string) (int, bool, error) {
		return allot, override, nil
	}
}

func TestBuildGroupsBucketMath(t *testing.T) {
	lines := []PriorityLine{
		{EntryID: 1, LineID: 1, VendorID: 7, VendorName: "Acme Corrugated", KickDate: "2026-03-02", BoxType: models.BoxRSC, Quantity: 40, Seq: 1},
		{EntryID: 2, LineID: 2, VendorID: 7, VendorName: "Acme Corrugated", KickDate: "2026-03-02", BoxType: models.BoxRSC, Quantity: 40, Seq: 0},
		{EntryID: 3, LineID: 3, VendorID: 7, VendorName: "Acme Corrugated", KickDate: "2026-03-02", BoxType: models.BoxDC, Quantity: 25, Seq: 0},
	}

	groups, err := buildGroups(lines, fixedAllotment(100, false))
	require.NoError(t, err)
	require.Len(t, groups, 1)
	require.Len(t, groups[0].Days, 1)
	require.Len(t, groups[0].Days[0].Buckets, 2)

	// Box types alphabetical: DC before RSC.
	dc := groups[0].Days[0].Buckets[0]
	rsc := groups[0].Days[0].Buckets[1]
	assert.Equal(t, models.BoxDC, dc.BoxType)
	assert.Equal(t, 25, dc.ScheduledQty)
	assert.Equal(t, 75, dc.Remaining)

	assert.Equal(t, models.BoxRSC, rsc.BoxType)
	assert.Equal(t, 80, rsc.ScheduledQty)
	assert.Equal(t, 20, rsc.Remaining)

	// Lines inside a bucket come back in sequence order.
	require.Len(t, rsc.Lines, 2)
	assert.Equal(t, uint(2), rsc.Lines[0].LineID)
	assert.Equal(t, uint(1), rsc.Lines[1].LineID)
}

func TestBuildGroupsRemainingFloorsAtZero(t *testing.T) {
	lines := []PriorityLine{
		{EntryID: 1, LineID: 1, VendorID: 7, VendorName: "Acme", KickDate: "2026-03-02", BoxType: models.BoxRSC, Quantity: 120, Seq: 0},
	}

	groups, err := buildGroups(lines, fixedAllotment(100, true))
	require.NoError(t, err)
	bucket := groups[0].Days[0].Buckets[0]

	assert.Equal(t, 120, bucket.ScheduledQty)
	assert.Equal(t, 0, bucket.Remaining, "overbooking must not go negative")
	assert.True(t, bucket.IsOverride)
}

func TestBuildGroupsDeterministicOrder(t *testing.T) {
	lines := []PriorityLine{
		{EntryID: 1, LineID: 1, VendorID: 9, VendorName: "Zenith Packaging", KickDate: "2026-03-03", BoxType: models.BoxRSC, Quantity: 10, Seq: 0},
		{EntryID: 2, LineID: 2, VendorID: 7, VendorName: "Acme", KickDate: "2026-03-04", BoxType: models.BoxRSC, Quantity: 10, Seq: 0},
		{EntryID: 3, LineID: 3, VendorID: 7, VendorName: "Acme", KickDate: "2026-03-02", BoxType: models.BoxRSC, Quantity: 10, Seq: 0},
	}

	groups, err := buildGroups(lines, fixedAllotment(50, false))
	require.NoError(t, err)
	require.Len(t, groups, 2)

	// Vendors by name, days ascending within a vendor.
	assert.Equal(t, "Acme", groups[0].VendorName)
	assert.Equal(t, "Zenith Packaging", groups[1].VendorName)
	require.Len(t, groups[0].Days, 2)
	assert.Equal(t, "2026-03-02", groups[0].Days[0].KickDate)
	assert.Equal(t, "2026-03-04", groups[0].Days[1].KickDate)
}

// A move planned through the pure helpers conserves lines: the target
// day gains the line at the wanted position, the source day closes its
// gap densely.
func TestMovePlanConservesLines(t *testing.T) {
	source := binEntries(1, 2, 3)

	// Pull line 3 out of the source bin.
	remaining := source[:2]
	changes := resequencePlan(remaining)
	assert.Empty(t, changes, "first two lines already dense")

	shortened := []models.PriorityEntry{
		{Model: gorm.Model{ID: 101}, LineId: 1, Seq: 0},
		{Model: gorm.Model{ID: 103}, LineId: 3, Seq: 2},
	}
	changes = resequencePlan(shortened)
	assert.Equal(t, map[uint]int{103: 1}, changes)

	// Insert into a target bin of two lines at position 1.
	target := binEntries(8, 9)
	at := clampSeq(1, len(target))
	assert.Equal(t, 1, at)
	ordered := reinsertAt(append(target, models.PriorityEntry{Model: gorm.Model{ID: 110}, LineId: 5, Seq: 99}), 5, at)
	assert.Equal(t, []uint{8, 5, 9}, ordered)
}

// Scenario: one vendor, RSC allotment overridden to 150 for the day,
// three 40-unit lines scheduled. Moving the third line to the next day
// leaves sequences {0,1} behind and {0} at the target.
func TestOverrideAndMoveScenario(t *testing.T) {
	day1 := []PriorityLine{
		{EntryID: 1, LineID: 1, VendorID: 7, VendorName: "Acme", KickDate: "2026-03-02", BoxType: models.BoxRSC, Quantity: 40, Seq: 0},
		{EntryID: 2, LineID: 2, VendorID: 7, VendorName: "Acme", KickDate: "2026-03-02", BoxType: models.BoxRSC, Quantity: 40, Seq: 1},
		{EntryID: 3, LineID: 3, VendorID: 7, VendorName: "Acme", KickDate: "2026-03-02", BoxType: models.BoxRSC, Quantity: 40, Seq: 2},
	}

	groups, err := buildGroups(day1, fixedAllotment(150, true))
	require.NoError(t, err)
	bucket := groups[0].Days[0].Buckets[0]
	assert.Equal(t, 120, bucket.ScheduledQty)
	assert.Equal(t, 30, bucket.Remaining)

	// Line 3 leaves; the source bin closes up.
	left := []models.PriorityEntry{
		{Model: gorm.Model{ID: 101}, LineId: 1, Seq: 0},
		{Model: gorm.Model{ID: 102}, LineId: 2, Seq: 1},
	}
	assert.Empty(t, resequencePlan(left))

	// Target day was empty; the moved line lands at 0.
	assert.Equal(t, 0, clampSeq(0, 0))

	day1After := []PriorityLine{day1[0], day1[1]}
	day2 := []PriorityLine{
		{EntryID: 3, LineID: 3, VendorID: 7, VendorName: "Acme", KickDate: "2026-03-03", BoxType: models.BoxRSC, Quantity: 40, Seq: 0},
	}

	groups, err = buildGroups(append(day1After, day2...), fixedAllotment(150, true))
	require.NoError(t, err)
	require.Len(t, groups[0].Days, 2)
	assert.Equal(t, 80, groups[0].Days[0].Buckets[0].ScheduledQty)
	assert.Equal(t, 40, groups[0].Days[1].Buckets[0].ScheduledQty)
}
