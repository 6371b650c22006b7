package controllers

import (
	"errors"
	"time"

	"erp-app/mailer"
	"erp-app/models"
	"erp-app/repositories"

	"github.com/go-playground/validator"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

var validate = validator.New()

// validDate accepts ISO dates only (YYYY-MM-DD).
func validDate(s string) bool {
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

// statusForError maps repository errors onto HTTP statuses.
func statusForError(err error) int {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, repositories.ErrBinMismatch),
		errors.Is(err, repositories.ErrPurchaseTruck),
		errors.Is(err, repositories.ErrRunFields),
		errors.Is(err, repositories.ErrRunTruckless):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

type PriorityController struct {
	DB *gorm.DB
}

func NewPriorityController(db *gorm.DB) *PriorityController {
	return &PriorityController{DB: db}
}

// GetPriorityList returns the grouped vendor / date / box type view.
// start_date and end_date are required ISO dates; vendor_id is an
// optional filter.
func (c *PriorityController) GetPriorityList(ctx *fiber.Ctx) error {
	startDate := ctx.Query("start_date")
	endDate := ctx.Query("end_date")
	if !validDate(startDate) || !validDate(endDate) {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "start_date and end_date are required as YYYY-MM-DD"})
	}
	vendorID := uint(ctx.QueryInt("vendor_id", 0))

	repo := repositories.NewPriorityRepository(c.DB)
	groups, err := repo.BuildPriorityList(startDate, endDate, vendorID)
	if err != nil {
		return ctx.Status(statusForError(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.JSON(fiber.Map{"success": true, "message": "Priority list found", "data": groups})
}

type ReorderRequest struct {
	VendorID uint   `json:"vendor_id" validate:"required"`
	KickDate string `json:"kick_date" validate:"required"`
	BoxType  string `json:"box_type" validate:"required"`
	Lines    []uint `json:"lines" validate:"required,min=1"`
}

// Reorder rewrites one bin's sequence to the given line order.
func (c *PriorityController) Reorder(ctx *fiber.Ctx) error {
	var req ReorderRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err := validate.Struct(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if !validDate(req.KickDate) {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "kick_date must be YYYY-MM-DD"})
	}
	if !models.ValidBoxType(req.BoxType) {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid box type"})
	}

	actor := int(ctx.Locals("userID").(float64))
	unit := ctx.Locals("unit").(string)

	repo := repositories.NewPriorityRepository(c.DB)
	if err := repo.ReorderBin(req.VendorID, req.KickDate, req.BoxType, req.Lines, actor, unit); err != nil {
		return ctx.Status(statusForError(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.JSON(fiber.Map{"success": true, "message": "Bin reordered successfully"})
}

type MoveRequest struct {
	LineID     uint   `json:"line_id" validate:"required"`
	TargetDate string `json:"target_date" validate:"required"`
	Seq        int    `json:"seq"`
}

// Move places one production line on another kick date at the given
// position.
func (c *PriorityController) Move(ctx *fiber.Ctx) error {
	var req MoveRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err := validate.Struct(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if !validDate(req.TargetDate) {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "target_date must be YYYY-MM-DD"})
	}

	actor := int(ctx.Locals("userID").(float64))
	unit := ctx.Locals("unit").(string)

	repo := repositories.NewPriorityRepository(c.DB)
	if err := repo.MovePriorityLine(req.LineID, req.TargetDate, req.Seq, actor, unit); err != nil {
		return ctx.Status(statusForError(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.JSON(fiber.Map{"success": true, "message": "Line moved successfully"})
}

// Sync reconciles priority entries against open purchase orders.
func (c *PriorityController) Sync(ctx *fiber.Ctx) error {
	actor := int(ctx.Locals("userID").(float64))
	unit := ctx.Locals("unit").(string)

	repo := repositories.NewSyncRepository(c.DB)
	result, err := repo.SyncPriorityEntries(actor, unit)
	if err != nil {
		return ctx.Status(statusForError(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.JSON(fiber.Map{"success": true, "message": "Priority list synced", "data": result})
}

type EmailScheduleRequest struct {
	VendorID uint   `json:"vendor_id" validate:"required"`
	KickDate string `json:"kick_date" validate:"required"`
}

// EmailSchedule mails a vendor its kick schedule for one date.
func (c *PriorityController) EmailSchedule(ctx *fiber.Ctx) error {
	var req EmailScheduleRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err := validate.Struct(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if !validDate(req.KickDate) {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "kick_date must be YYYY-MM-DD"})
	}

	if err := mailer.SendKickSchedule(c.DB, req.VendorID, req.KickDate); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.JSON(fiber.Map{"success": true, "message": "Schedule sent"})
}
