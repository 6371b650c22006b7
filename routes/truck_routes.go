package routes

import (
	"erp-app/config"
	"erp-app/controllers"
	"erp-app/middleware"

	"github.com/gofiber/fiber/v2"
)

func SetupTruckRoutes(app *fiber.App) {
	truckController := &controllers.TruckController{}

	api := app.Group(config.MAIN_ROUTES+"/trucks", middleware.AuthMiddleware)
	api.Use(middleware.InjectDBMiddleware(truckController))

	api.Post("/", truckController.CreateTruck)
	api.Get("/", truckController.GetAllTrucks)
	api.Get("/:id", truckController.GetTruckByID)
	api.Put("/:id", truckController.UpdateTruck)
	api.Delete("/:id", truckController.DeleteTruck)
}
