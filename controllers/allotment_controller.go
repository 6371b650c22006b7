package controllers

import (
	"fmt"
	"strconv"
	"strings"

	"erp-app/erp/master/vendor"
	"erp-app/models"
	"erp-app/repositories"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

type AllotmentController struct {
	DB *gorm.DB
}

func NewAllotmentController(db *gorm.DB) *AllotmentController {
	return &AllotmentController{DB: db}
}

// GetAllotments lists vendor default allotments, optionally for one
// vendor.
func (c *AllotmentController) GetAllotments(ctx *fiber.Ctx) error {
	var allotments []models.VendorKickAllotment
	q := c.DB.Order("vendor_id, box_type")
	if vendorID := ctx.QueryInt("vendor_id", 0); vendorID > 0 {
		q = q.Where("vendor_id = ?", vendorID)
	}
	if err := q.Find(&allotments).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.JSON(fiber.Map{"success": true, "message": "Allotments found", "data": allotments})
}

type AllotmentRequest struct {
	VendorID       uint   `json:"vendor_id" validate:"required"`
	BoxType        string `json:"box_type" validate:"required"`
	DailyAllotment int    `json:"daily_allotment" validate:"min=0"`
}

// UpsertAllotment sets a vendor's default daily capacity for a box
// type.
func (c *AllotmentController) UpsertAllotment(ctx *fiber.Ctx) error {
	var req AllotmentRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err := validate.Struct(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if !models.ValidBoxType(req.BoxType) {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid box type"})
	}

	actor := int(ctx.Locals("userID").(float64))

	repo := repositories.NewAllotmentRepository(c.DB)
	allotment, err := repo.UpsertAllotment(req.VendorID, req.BoxType, req.DailyAllotment, actor)
	if err != nil {
		return ctx.Status(statusForError(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.JSON(fiber.Map{"success": true, "message": "Allotment saved", "data": allotment})
}

// GetOverrides lists per-day overrides within a date range.
func (c *AllotmentController) GetOverrides(ctx *fiber.Ctx) error {
	startDate := ctx.Query("start_date")
	endDate := ctx.Query("end_date")
	if !validDate(startDate) || !validDate(endDate) {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "start_date and end_date are required as YYYY-MM-DD"})
	}

	var overrides []models.DailyKickOverride
	q := c.DB.Where("kick_date BETWEEN ? AND ?", startDate, endDate).Order("kick_date, vendor_id, box_type")
	if vendorID := ctx.QueryInt("vendor_id", 0); vendorID > 0 {
		q = q.Where("vendor_id = ?", vendorID)
	}
	if err := q.Find(&overrides).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.JSON(fiber.Map{"success": true, "message": "Overrides found", "data": overrides})
}

type OverrideRequest struct {
	VendorID  uint   `json:"vendor_id" validate:"required"`
	BoxType   string `json:"box_type" validate:"required"`
	KickDate  string `json:"kick_date" validate:"required"`
	Allotment int    `json:"allotment" validate:"min=0"`
}

// UpsertOverride sets capacity for one vendor, box type and day,
// overriding the default.
func (c *AllotmentController) UpsertOverride(ctx *fiber.Ctx) error {
	var req OverrideRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err := validate.Struct(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if !models.ValidBoxType(req.BoxType) {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid box type"})
	}
	if !validDate(req.KickDate) {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "kick_date must be YYYY-MM-DD"})
	}

	actor := int(ctx.Locals("userID").(float64))

	repo := repositories.NewAllotmentRepository(c.DB)
	override, err := repo.UpsertOverride(req.VendorID, req.BoxType, req.KickDate, req.Allotment, actor)
	if err != nil {
		return ctx.Status(statusForError(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.JSON(fiber.Map{"success": true, "message": "Override saved", "data": override})
}

// DeleteOverride drops a per-day override; the vendor default applies
// again.
func (c *AllotmentController) DeleteOverride(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid override id"})
	}

	repo := repositories.NewAllotmentRepository(c.DB)
	if err := repo.DeleteOverride(uint(id)); err != nil {
		return ctx.Status(statusForError(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.JSON(fiber.Map{"success": true, "message": "Override deleted successfully"})
}

// upload allotments from excel file

type AllotmentUploadResult struct {
	TotalRows     int      `json:"total_rows"`
	SuccessCount  int      `json:"success_count"`
	ErrorCount    int      `json:"error_count"`
	ErrorMessages []string `json:"error_messages"`
}

// CreateAllotmentFromExcel bulk-loads vendor default allotments from a
// workbook with columns VENDOR_CODE, BOX_TYPE, DAILY_ALLOTMENT.
func (c *AllotmentController) CreateAllotmentFromExcel(ctx *fiber.Ctx) error {
	file, err := ctx.FormFile("file")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "File is required",
		})
	}

	if !strings.HasSuffix(strings.ToLower(file.Filename), ".xlsx") &&
		!strings.HasSuffix(strings.ToLower(file.Filename), ".xls") {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Only Excel files (.xlsx, .xls) are allowed",
		})
	}

	fileContent, err := file.Open()
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to open file",
		})
	}
	defer fileContent.Close()

	f, err := excelize.OpenReader(fileContent)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to read Excel file",
		})
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "No sheets found in Excel file",
		})
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to read rows",
		})
	}

	if len(rows) < 2 {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Excel file must contain header and at least one data row",
		})
	}

	result := AllotmentUploadResult{
		TotalRows:     len(rows) - 1,
		ErrorMessages: []string{},
	}

	userID := int(ctx.Locals("userID").(float64))
	repo := repositories.NewAllotmentRepository(c.DB)

	// Cache for vendor code resolution
	vendorCache := make(map[string]uint)

	for i, row := range rows[1:] {
		rowNum := i + 2

		if len(row) < 3 {
			result.ErrorCount++
			result.ErrorMessages = append(result.ErrorMessages,
				fmt.Sprintf("Row %d: expected VENDOR_CODE, BOX_TYPE, DAILY_ALLOTMENT", rowNum))
			continue
		}

		vendorCode := strings.ToUpper(strings.TrimSpace(row[0]))
		boxType := strings.ToUpper(strings.TrimSpace(row[1]))
		dailyStr := strings.TrimSpace(row[2])

		if vendorCode == "" || boxType == "" || dailyStr == "" {
			result.ErrorCount++
			result.ErrorMessages = append(result.ErrorMessages,
				fmt.Sprintf("Row %d: VENDOR_CODE, BOX_TYPE, and DAILY_ALLOTMENT are required", rowNum))
			continue
		}

		if !models.ValidBoxType(boxType) {
			result.ErrorCount++
			result.ErrorMessages = append(result.ErrorMessages,
				fmt.Sprintf("Row %d: invalid box type '%s'", rowNum, boxType))
			continue
		}

		daily, err := strconv.Atoi(dailyStr)
		if err != nil || daily < 0 {
			result.ErrorCount++
			result.ErrorMessages = append(result.ErrorMessages,
				fmt.Sprintf("Row %d: DAILY_ALLOTMENT must be a non-negative number", rowNum))
			continue
		}

		vendorID, exists := vendorCache[vendorCode]
		if !exists {
			var v vendor.Vendor
			if err := c.DB.Where("code = ?", vendorCode).First(&v).Error; err != nil {
				result.ErrorCount++
				result.ErrorMessages = append(result.ErrorMessages,
					fmt.Sprintf("Row %d: Vendor '%s' not found", rowNum, vendorCode))
				continue
			}
			vendorID = v.ID
			vendorCache[vendorCode] = vendorID
		}

		if _, err := repo.UpsertAllotment(vendorID, boxType, daily, userID); err != nil {
			result.ErrorCount++
			result.ErrorMessages = append(result.ErrorMessages,
				fmt.Sprintf("Row %d: Failed to save allotment - %s", rowNum, err.Error()))
			continue
		}

		result.SuccessCount++
	}

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": fmt.Sprintf("Upload completed: %d success, %d errors",
			result.SuccessCount, result.ErrorCount),
		"data": result,
	})
}
