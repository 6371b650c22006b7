package controllers

import (
	"erp-app/models"
	"erp-app/repositories"
	"erp-app/types"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type RunController struct {
	DB *gorm.DB
}

func NewRunController(db *gorm.DB) *RunController {
	return &RunController{DB: db}
}

// GetRuns returns delivery runs within a date range.
func (c *RunController) GetRuns(ctx *fiber.Ctx) error {
	startDate := ctx.Query("start_date")
	endDate := ctx.Query("end_date")
	if !validDate(startDate) || !validDate(endDate) {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "start_date and end_date are required as YYYY-MM-DD"})
	}

	repo := repositories.NewRunRepository(c.DB)
	runs, err := repo.GetRuns(startDate, endDate)
	if err != nil {
		return ctx.Status(statusForError(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.JSON(fiber.Map{"success": true, "message": "Runs found", "data": runs})
}

type CreateRunRequest struct {
	Name       string `json:"name"`
	TruckId    uint   `json:"truck_id" validate:"required"`
	RunDate    string `json:"run_date" validate:"required"`
	RunSeq     int    `json:"run_seq"`
	DepartTime string `json:"depart_time"`
}

// CreateRun creates a delivery run on a truck and date.
func (c *RunController) CreateRun(ctx *fiber.Ctx) error {
	var req CreateRunRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err := validate.Struct(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if !validDate(req.RunDate) {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "run_date must be YYYY-MM-DD"})
	}

	actor := int(ctx.Locals("userID").(float64))
	unit := ctx.Locals("unit").(string)

	run := models.DeliveryRun{
		Name:       req.Name,
		TruckId:    req.TruckId,
		RunDate:    req.RunDate,
		RunSeq:     req.RunSeq,
		DepartTime: req.DepartTime,
		CreatedBy:  actor,
	}

	repo := repositories.NewRunRepository(c.DB)
	created, err := repo.CreateRun(run, actor, unit)
	if err != nil {
		return ctx.Status(statusForError(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "message": "Run created successfully", "data": created})
}

// UpdateRun applies a partial edit; moving the run to another truck or
// date drags its member orders along.
func (c *RunController) UpdateRun(ctx *fiber.Ctx) error {
	runID, err := ctx.ParamsInt("id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid run id"})
	}

	var patch repositories.RunPatch
	if err := ctx.BodyParser(&patch); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if patch.RunDate != nil && !validDate(*patch.RunDate) {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "run_date must be YYYY-MM-DD"})
	}

	actor := int(ctx.Locals("userID").(float64))
	unit := ctx.Locals("unit").(string)

	repo := repositories.NewRunRepository(c.DB)
	run, err := repo.UpdateRun(types.SnowflakeID(runID), patch, actor, unit)
	if err != nil {
		return ctx.Status(statusForError(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.JSON(fiber.Map{"success": true, "message": "Run updated successfully", "data": run})
}

// DeleteRun removes a run; member orders keep their truck and date.
func (c *RunController) DeleteRun(ctx *fiber.Ctx) error {
	runID, err := ctx.ParamsInt("id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid run id"})
	}

	actor := int(ctx.Locals("userID").(float64))
	unit := ctx.Locals("unit").(string)

	repo := repositories.NewRunRepository(c.DB)
	if err := repo.DeleteRun(types.SnowflakeID(runID), actor, unit); err != nil {
		return ctx.Status(statusForError(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.JSON(fiber.Map{"success": true, "message": "Run deleted successfully"})
}
