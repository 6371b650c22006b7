package controllers

import (
	"erp-app/models"
	"erp-app/types"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type NoteController struct {
	DB *gorm.DB
}

func NewNoteController(db *gorm.DB) *NoteController {
	return &NoteController{DB: db}
}

type NoteRequest struct {
	AttachType      string            `json:"attach_type" validate:"required"`
	NoteDate        string            `json:"note_date"`
	TruckId         uint              `json:"truck_id"`
	DeliveryRunId   types.SnowflakeID `json:"delivery_run_id"`
	SalesOrderId    types.SnowflakeID `json:"sales_order_id"`
	PurchaseOrderId types.SnowflakeID `json:"purchase_order_id"`
	Body            string            `json:"body" validate:"required"`
}

// checkAttach verifies the reference matching the attach type is set.
func checkAttach(req NoteRequest) string {
	switch req.AttachType {
	case models.NoteAttachDate:
		if !validDate(req.NoteDate) {
			return "note_date must be YYYY-MM-DD for a date note"
		}
	case models.NoteAttachTruck:
		if req.TruckId == 0 {
			return "truck_id is required for a truck note"
		}
	case models.NoteAttachRun:
		if req.DeliveryRunId == 0 {
			return "delivery_run_id is required for a run note"
		}
	case models.NoteAttachSalesOrder:
		if req.SalesOrderId == 0 {
			return "sales_order_id is required for a sales order note"
		}
	case models.NoteAttachPurchaseOrder:
		if req.PurchaseOrderId == 0 {
			return "purchase_order_id is required for a purchase order note"
		}
	default:
		return "invalid attach_type"
	}
	return ""
}

func (c *NoteController) CreateNote(ctx *fiber.Ctx) error {
	var req NoteRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err := validate.Struct(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if msg := checkAttach(req); msg != "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
	}

	note := models.ScheduleNote{
		AttachType:      req.AttachType,
		NoteDate:        req.NoteDate,
		TruckId:         req.TruckId,
		DeliveryRunId:   req.DeliveryRunId,
		SalesOrderId:    req.SalesOrderId,
		PurchaseOrderId: req.PurchaseOrderId,
		Body:            req.Body,
		CreatedBy:       int(ctx.Locals("userID").(float64)),
	}

	if err := c.DB.Create(&note).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "message": "Note created successfully", "data": note})
}

// GetNotes filters by attach type plus the matching reference passed as
// query params. With no filters it returns everything, newest first.
func (c *NoteController) GetNotes(ctx *fiber.Ctx) error {
	q := c.DB.Order("created_at desc")

	if attachType := ctx.Query("attach_type"); attachType != "" {
		q = q.Where("attach_type = ?", attachType)
	}
	if noteDate := ctx.Query("note_date"); noteDate != "" {
		if !validDate(noteDate) {
			return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "note_date must be YYYY-MM-DD"})
		}
		q = q.Where("note_date = ?", noteDate)
	}
	if truckID := ctx.QueryInt("truck_id", 0); truckID > 0 {
		q = q.Where("truck_id = ?", truckID)
	}
	if runID := ctx.QueryInt("delivery_run_id", 0); runID > 0 {
		q = q.Where("delivery_run_id = ?", runID)
	}
	if soID := ctx.QueryInt("sales_order_id", 0); soID > 0 {
		q = q.Where("sales_order_id = ?", soID)
	}
	if poID := ctx.QueryInt("purchase_order_id", 0); poID > 0 {
		q = q.Where("purchase_order_id = ?", poID)
	}

	var notes []models.ScheduleNote
	if err := q.Find(&notes).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.JSON(fiber.Map{"success": true, "message": "Notes found", "data": notes})
}

func (c *NoteController) UpdateNote(ctx *fiber.Ctx) error {
	id := ctx.Params("id")
	var note models.ScheduleNote
	if err := c.DB.First(&note, "id = ?", id).Error; err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Note not found"})
	}

	var req struct {
		Body string `json:"body" validate:"required"`
	}
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err := validate.Struct(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	note.Body = req.Body
	note.UpdatedBy = int(ctx.Locals("userID").(float64))

	if err := c.DB.Save(&note).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.JSON(fiber.Map{"success": true, "message": "Note updated successfully", "data": note})
}

func (c *NoteController) DeleteNote(ctx *fiber.Ctx) error {
	id := ctx.Params("id")
	var note models.ScheduleNote
	if err := c.DB.First(&note, "id = ?", id).Error; err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Note not found"})
	}

	note.DeletedBy = int(ctx.Locals("userID").(float64))
	if err := c.DB.Select("deleted_by").Where("id = ?", id).Updates(&note).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	if err := c.DB.Delete(&note).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.JSON(fiber.Map{"success": true, "message": "Note deleted successfully"})
}
