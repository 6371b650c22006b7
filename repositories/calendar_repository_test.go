package repositories

import (
	"testing"

	"erp-app/models"
	"erp-app/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strp(s string) *string                      { return &s }
func uintp(v uint) *uint                         { return &v }
func intp(v int) *int                            { return &v }
func idp(v types.SnowflakeID) *types.SnowflakeID { return &v }

func TestApplySchedulePatchPurchaseNeverTakesTruck(t *testing.T) {
	cur := scheduleFields{ScheduledDate: "2026-03-02"}

	_, err := applySchedulePatch(models.OrderTypePurchase, cur, SchedulePatch{TruckId: uintp(4)}, nil)
	assert.ErrorIs(t, err, ErrPurchaseTruck)

	_, err = applySchedulePatch(models.OrderTypePurchase, cur, SchedulePatch{DeliveryRunId: idp(77)}, nil)
	assert.ErrorIs(t, err, ErrPurchaseTruck)

	// Even a clear is rejected; the field does not exist for POs.
	_, err = applySchedulePatch(models.OrderTypePurchase, cur, SchedulePatch{TruckId: uintp(0)}, nil)
	assert.ErrorIs(t, err, ErrPurchaseTruck)
}

func TestApplySchedulePatchPurchaseDateAndSeq(t *testing.T) {
	cur := scheduleFields{ScheduledDate: "2026-03-02", SchedulerSeq: 1}

	next, err := applySchedulePatch(models.OrderTypePurchase, cur, SchedulePatch{
		ScheduledDate: strp("2026-03-05"),
		SchedulerSeq:  intp(3),
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, "2026-03-05", next.ScheduledDate)
	assert.Equal(t, 3, next.SchedulerSeq)
}

func TestApplySchedulePatchClearTruckClearsRun(t *testing.T) {
	cur := scheduleFields{ScheduledDate: "2026-03-02", TruckId: 4, DeliveryRunId: 900}

	next, err := applySchedulePatch(models.OrderTypeSales, cur, SchedulePatch{TruckId: uintp(0)}, nil)
	require.NoError(t, err)
	assert.Equal(t, uint(0), next.TruckId)
	assert.Equal(t, types.SnowflakeID(0), next.DeliveryRunId, "a run implies a truck")
	assert.Equal(t, "2026-03-02", next.ScheduledDate, "date survives a truck clear")
}

func TestApplySchedulePatchRunIsAuthoritative(t *testing.T) {
	cur := scheduleFields{ScheduledDate: "2026-03-02", TruckId: 4}
	run := &models.DeliveryRun{
		ID:      types.SnowflakeID(900),
		TruckId: 9,
		RunDate: "2026-03-07",
	}

	// The patch's own date and truck lose to the run's.
	next, err := applySchedulePatch(models.OrderTypeSales, cur, SchedulePatch{
		ScheduledDate: strp("2026-03-04"),
		TruckId:       uintp(2),
		DeliveryRunId: idp(900),
	}, run)
	require.NoError(t, err)
	assert.Equal(t, types.SnowflakeID(900), next.DeliveryRunId)
	assert.Equal(t, uint(9), next.TruckId)
	assert.Equal(t, "2026-03-07", next.ScheduledDate)
}

func TestApplySchedulePatchDetachKeepsTruckAndDate(t *testing.T) {
	cur := scheduleFields{ScheduledDate: "2026-03-07", TruckId: 9, DeliveryRunId: 900}

	next, err := applySchedulePatch(models.OrderTypeSales, cur, SchedulePatch{DeliveryRunId: idp(0)}, nil)
	require.NoError(t, err)
	assert.Equal(t, types.SnowflakeID(0), next.DeliveryRunId)
	assert.Equal(t, uint(9), next.TruckId)
	assert.Equal(t, "2026-03-07", next.ScheduledDate)
}

func TestApplySchedulePatchAssignMissingRun(t *testing.T) {
	cur := scheduleFields{}
	_, err := applySchedulePatch(models.OrderTypeSales, cur, SchedulePatch{DeliveryRunId: idp(900)}, nil)
	assert.Error(t, err)
}

func TestApplySchedulePatchNilLeavesUntouched(t *testing.T) {
	cur := scheduleFields{ScheduledDate: "2026-03-02", TruckId: 4, DeliveryRunId: 900, SchedulerSeq: 2}
	next, err := applySchedulePatch(models.OrderTypeSales, cur, SchedulePatch{}, nil)
	require.NoError(t, err)
	assert.Equal(t, cur, next)
}

func TestPalletsForLine(t *testing.T) {
	tests := []struct {
		name           string
		quantity       int
		unitsPerPallet int
		want           int
	}{
		{"exact fit", 500, 250, 2},
		{"round up", 501, 250, 3},
		{"less than one pallet", 10, 250, 1},
		{"unconfigured item", 500, 0, 1},
		{"negative config", 500, -1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, palletsForLine(tt.quantity, tt.unitsPerPallet))
		})
	}
}

func TestSortCell(t *testing.T) {
	orders := []CalendarOrder{
		{OrderID: 3, SchedulerSeq: 2, Priority: 1},
		{OrderID: 1, SchedulerSeq: 1, Priority: 9},
		{OrderID: 2, SchedulerSeq: 1, Priority: 3},
		{OrderID: 5, SchedulerSeq: 1, Priority: 3},
	}

	sortCell(orders)

	// Manual seq first, then priority, then id.
	assert.Equal(t, types.SnowflakeID(2), orders[0].OrderID)
	assert.Equal(t, types.SnowflakeID(5), orders[1].OrderID)
	assert.Equal(t, types.SnowflakeID(1), orders[2].OrderID)
	assert.Equal(t, types.SnowflakeID(3), orders[3].OrderID)
}

func TestGroupCalendarUnassignedFirst(t *testing.T) {
	orders := []CalendarOrder{
		{OrderID: 1, TruckId: 4, TruckName: "TRUCK-01", ScheduledDate: "2026-03-02"},
		{OrderID: 2, TruckId: 0, ScheduledDate: "2026-03-02"},
		{OrderID: 3, TruckId: 4, TruckName: "TRUCK-01", ScheduledDate: "2026-03-03"},
	}

	groups := groupCalendar(orders)
	require.Len(t, groups, 2)

	assert.Equal(t, uint(0), groups[0].TruckId)
	assert.Equal(t, "Unassigned", groups[0].TruckName)

	assert.Equal(t, "TRUCK-01", groups[1].TruckName)
	require.Len(t, groups[1].Days, 2)
	assert.Equal(t, "2026-03-02", groups[1].Days[0].Date)
	assert.Equal(t, "2026-03-03", groups[1].Days[1].Date)
}
