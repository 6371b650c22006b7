package repositories

import (
	"testing"

	"erp-app/models"

	"github.com/stretchr/testify/assert"
)

func TestPickAllotment(t *testing.T) {
	override := &models.DailyKickOverride{Allotment: 150}
	def := &models.VendorKickAllotment{DailyAllotment: 100}

	tests := []struct {
		name         string
		override     *models.DailyKickOverride
		def          *models.VendorKickAllotment
		want         int
		wantOverride bool
	}{
		{"override wins", override, def, 150, true},
		{"default when no override", nil, def, 100, false},
		{"override without default", override, nil, 150, true},
		{"nothing configured means zero", nil, nil, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, isOverride := pickAllotment(tt.override, tt.def)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantOverride, isOverride)
		})
	}
}

func TestPickAllotmentZeroOverrideStillWins(t *testing.T) {
	// An explicit zero override closes the day even when a default
	// exists.
	override := &models.DailyKickOverride{Allotment: 0}
	def := &models.VendorKickAllotment{DailyAllotment: 100}

	got, isOverride := pickAllotment(override, def)
	assert.Equal(t, 0, got)
	assert.True(t, isOverride)
}
