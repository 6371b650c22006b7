package controllers

import (
	"strconv"
	"strings"

	"erp-app/models"
	"erp-app/repositories"
	"erp-app/types"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CalendarController struct {
	DB *gorm.DB
}

func NewCalendarController(db *gorm.DB) *CalendarController {
	return &CalendarController{DB: db}
}

// GetCalendar returns orders grouped by truck and date for a range.
func (c *CalendarController) GetCalendar(ctx *fiber.Ctx) error {
	startDate := ctx.Query("start_date")
	endDate := ctx.Query("end_date")
	if !validDate(startDate) || !validDate(endDate) {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "start_date and end_date are required as YYYY-MM-DD"})
	}

	repo := repositories.NewCalendarRepository(c.DB)
	trucks, err := repo.CalendarRange(startDate, endDate)
	if err != nil {
		return ctx.Status(statusForError(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.JSON(fiber.Map{"success": true, "message": "Calendar found", "data": trucks})
}

// GetUnscheduled returns open orders with no scheduled date.
func (c *CalendarController) GetUnscheduled(ctx *fiber.Ctx) error {
	repo := repositories.NewCalendarRepository(c.DB)
	orders, err := repo.UnscheduledOrders()
	if err != nil {
		return ctx.Status(statusForError(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.JSON(fiber.Map{"success": true, "message": "Unscheduled orders found", "data": orders})
}

// UpdateSchedule applies a partial schedule change to one order.
// Absent fields are untouched, zero values clear the field.
func (c *CalendarController) UpdateSchedule(ctx *fiber.Ctx) error {
	orderType := strings.ToUpper(ctx.Params("orderType"))
	if orderType != models.OrderTypePurchase && orderType != models.OrderTypeSales {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "order type must be PO or SO"})
	}
	orderID, err := strconv.ParseInt(ctx.Params("id"), 10, 64)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid order id"})
	}

	var patch repositories.SchedulePatch
	if err := ctx.BodyParser(&patch); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if patch.ScheduledDate != nil && *patch.ScheduledDate != "" && !validDate(*patch.ScheduledDate) {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "scheduled_date must be YYYY-MM-DD or empty"})
	}

	actor := int(ctx.Locals("userID").(float64))
	unit := ctx.Locals("unit").(string)

	repo := repositories.NewCalendarRepository(c.DB)
	order, err := repo.UpdateSchedule(orderType, types.SnowflakeID(orderID), patch, actor, unit)
	if err != nil {
		return ctx.Status(statusForError(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.JSON(fiber.Map{"success": true, "message": "Schedule updated", "data": order})
}
