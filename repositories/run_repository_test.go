package repositories

import (
	"testing"

	"erp-app/models"
	"erp-app/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyRunPatch(t *testing.T) {
	base := models.DeliveryRun{
		ID:      types.SnowflakeID(900),
		Name:    "Morning run",
		TruckId: 4,
		RunDate: "2026-03-02",
		RunSeq:  1,
	}

	tests := []struct {
		name        string
		patch       RunPatch
		wantCascade bool
		check       func(t *testing.T, got models.DeliveryRun)
	}{
		{
			name:        "rename only",
			patch:       RunPatch{Name: strp("Afternoon run")},
			wantCascade: false,
			check: func(t *testing.T, got models.DeliveryRun) {
				assert.Equal(t, "Afternoon run", got.Name)
				assert.Equal(t, uint(4), got.TruckId)
			},
		},
		{
			name:        "truck change cascades",
			patch:       RunPatch{TruckId: uintp(9)},
			wantCascade: true,
			check: func(t *testing.T, got models.DeliveryRun) {
				assert.Equal(t, uint(9), got.TruckId)
			},
		},
		{
			name:        "date change cascades",
			patch:       RunPatch{RunDate: strp("2026-03-05")},
			wantCascade: true,
			check: func(t *testing.T, got models.DeliveryRun) {
				assert.Equal(t, "2026-03-05", got.RunDate)
			},
		},
		{
			name:        "same truck no cascade",
			patch:       RunPatch{TruckId: uintp(4)},
			wantCascade: false,
			check:       func(t *testing.T, got models.DeliveryRun) {},
		},
		{
			name:        "seq and depart time no cascade",
			patch:       RunPatch{RunSeq: intp(2), DepartTime: strp("08:30")},
			wantCascade: false,
			check: func(t *testing.T, got models.DeliveryRun) {
				assert.Equal(t, 2, got.RunSeq)
				assert.Equal(t, "08:30", got.DepartTime)
			},
		},
		{
			name:        "complete flag no cascade",
			patch:       RunPatch{Completed: boolp(true)},
			wantCascade: false,
			check: func(t *testing.T, got models.DeliveryRun) {
				assert.True(t, got.Completed)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, cascade := applyRunPatch(base, tt.patch)
			assert.Equal(t, tt.wantCascade, cascade)
			tt.check(t, got)
		})
	}
}

func TestApplyRunPatchEmptyIsNoop(t *testing.T) {
	base := models.DeliveryRun{ID: types.SnowflakeID(900), TruckId: 4, RunDate: "2026-03-02"}
	got, cascade := applyRunPatch(base, RunPatch{})
	require.False(t, cascade)
	assert.Equal(t, base, got)
}

func boolp(v bool) *bool { return &v }
