package controllers

import (
	"errors"
	"fmt"
	"testing"

	"erp-app/repositories"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestStatusForError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"record not found", gorm.ErrRecordNotFound, fiber.StatusNotFound},
		{"bin mismatch", repositories.ErrBinMismatch, fiber.StatusBadRequest},
		{"purchase truck", repositories.ErrPurchaseTruck, fiber.StatusBadRequest},
		{"run without truck or date", repositories.ErrRunFields, fiber.StatusBadRequest},
		{"run losing its truck", repositories.ErrRunTruckless, fiber.StatusBadRequest},
		{"wrapped not found", fmt.Errorf("load run: %w", gorm.ErrRecordNotFound), fiber.StatusNotFound},
		{"anything else", errors.New("connection reset"), fiber.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, statusForError(tt.err))
		})
	}
}

func TestValidDate(t *testing.T) {
	assert.True(t, validDate("2026-03-02"))
	assert.False(t, validDate(""))
	assert.False(t, validDate("02-03-2026"))
	assert.False(t, validDate("2026-3-2"))
	assert.False(t, validDate("2026-02-30"))
}
