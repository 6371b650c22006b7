package controllers

import (
	"erp-app/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type TruckController struct {
	DB *gorm.DB
}

func NewTruckController(db *gorm.DB) *TruckController {
	return &TruckController{DB: db}
}

type TruckRequest struct {
	Name        string `json:"truck_name" validate:"required"`
	Description string `json:"truck_description"`
}

func (c *TruckController) CreateTruck(ctx *fiber.Ctx) error {
	var req TruckRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err := validate.Struct(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	truck := models.Truck{
		Name:        req.Name,
		Description: req.Description,
		CreatedBy:   int(ctx.Locals("userID").(float64)),
	}

	if err := c.DB.Create(&truck).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "message": "Truck created successfully", "data": truck})
}

func (c *TruckController) GetAllTrucks(ctx *fiber.Ctx) error {
	var trucks []models.Truck
	if err := c.DB.Order("name").Find(&trucks).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.JSON(fiber.Map{"success": true, "message": "Trucks found", "data": trucks})
}

func (c *TruckController) GetTruckByID(ctx *fiber.Ctx) error {
	id := ctx.Params("id")
	var truck models.Truck
	if err := c.DB.First(&truck, "id = ?", id).Error; err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Truck not found"})
	}

	return ctx.JSON(fiber.Map{"success": true, "message": "Truck found", "data": truck})
}

func (c *TruckController) UpdateTruck(ctx *fiber.Ctx) error {
	id := ctx.Params("id")
	var truck models.Truck
	if err := c.DB.First(&truck, "id = ?", id).Error; err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Truck not found"})
	}

	var req TruckRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err := validate.Struct(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	truck.Name = req.Name
	truck.Description = req.Description
	truck.UpdatedBy = int(ctx.Locals("userID").(float64))

	if err := c.DB.Save(&truck).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.JSON(fiber.Map{"success": true, "message": "Truck updated successfully", "data": truck})
}

func (c *TruckController) DeleteTruck(ctx *fiber.Ctx) error {
	id := ctx.Params("id")
	var truck models.Truck
	if err := c.DB.First(&truck, "id = ?", id).Error; err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Truck not found"})
	}

	truck.DeletedBy = int(ctx.Locals("userID").(float64))
	if err := c.DB.Select("deleted_by").Where("id = ?", id).Updates(&truck).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	if err := c.DB.Delete(&truck).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return ctx.JSON(fiber.Map{"success": true, "message": "Truck deleted successfully", "data": truck})
}
