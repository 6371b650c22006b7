package controllers

import (
	"erp-app/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type ProductController struct {
	DB *gorm.DB
}

func NewProductController(db *gorm.DB) *ProductController {
	return &ProductController{DB: db}
}

type ItemRequest struct {
	ItemCode       string `json:"item_code" validate:"required"`
	ItemName       string `json:"item_name" validate:"required"`
	BoxType        string `json:"box_type"`
	UnitsPerPallet int    `json:"units_per_pallet" validate:"min=0"`
	VendorID       uint   `json:"vendor_id"`
}

func (c *ProductController) CreateItem(ctx *fiber.Ctx) error {
	var req ItemRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err := validate.Struct(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if req.BoxType == "" {
		req.BoxType = models.BoxOther
	}
	if !models.ValidBoxType(req.BoxType) {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid box type"})
	}

	item := models.Item{
		ItemCode:       req.ItemCode,
		ItemName:       req.ItemName,
		BoxType:        req.BoxType,
		UnitsPerPallet: req.UnitsPerPallet,
		VendorID:       req.VendorID,
		CreatedBy:      int(ctx.Locals("userID").(float64)),
	}

	if err := c.DB.Create(&item).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "message": "Item created successfully", "data": item})
}

func (c *ProductController) GetAllItems(ctx *fiber.Ctx) error {
	var items []models.Item
	q := c.DB.Order("item_code")
	if vendorID := ctx.QueryInt("vendor_id", 0); vendorID > 0 {
		q = q.Where("vendor_id = ?", vendorID)
	}
	if err := q.Find(&items).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.JSON(fiber.Map{"success": true, "message": "Items found", "data": items})
}

func (c *ProductController) GetItemByID(ctx *fiber.Ctx) error {
	id := ctx.Params("id")
	var item models.Item
	if err := c.DB.First(&item, "id = ?", id).Error; err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Item not found"})
	}

	return ctx.JSON(fiber.Map{"success": true, "message": "Item found", "data": item})
}

func (c *ProductController) UpdateItem(ctx *fiber.Ctx) error {
	id := ctx.Params("id")
	var item models.Item
	if err := c.DB.First(&item, "id = ?", id).Error; err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Item not found"})
	}

	var req ItemRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err := validate.Struct(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if req.BoxType != "" && !models.ValidBoxType(req.BoxType) {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid box type"})
	}

	item.ItemCode = req.ItemCode
	item.ItemName = req.ItemName
	if req.BoxType != "" {
		item.BoxType = req.BoxType
	}
	item.UnitsPerPallet = req.UnitsPerPallet
	item.VendorID = req.VendorID
	item.UpdatedBy = int(ctx.Locals("userID").(float64))

	if err := c.DB.Save(&item).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.JSON(fiber.Map{"success": true, "message": "Item updated successfully", "data": item})
}

func (c *ProductController) DeleteItem(ctx *fiber.Ctx) error {
	id := ctx.Params("id")
	var item models.Item
	if err := c.DB.First(&item, "id = ?", id).Error; err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Item not found"})
	}

	item.DeletedBy = int(ctx.Locals("userID").(float64))
	if err := c.DB.Select("deleted_by").Where("id = ?", id).Updates(&item).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	if err := c.DB.Delete(&item).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.JSON(fiber.Map{"success": true, "message": "Item deleted successfully", "data": item})
}
