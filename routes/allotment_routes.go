package routes

import (
	"erp-app/config"
	"erp-app/controllers"
	"erp-app/middleware"

	"github.com/gofiber/fiber/v2"
)

func SetupAllotmentRoutes(app *fiber.App) {
	allotmentController := &controllers.AllotmentController{}

	api := app.Group(config.MAIN_ROUTES+"/allotments", middleware.AuthMiddleware)
	api.Use(middleware.InjectDBMiddleware(allotmentController))

	api.Get("/", allotmentController.GetAllotments)
	api.Post("/", allotmentController.UpsertAllotment)
	api.Post("/upload", allotmentController.CreateAllotmentFromExcel)
	api.Get("/overrides", allotmentController.GetOverrides)
	api.Post("/overrides", allotmentController.UpsertOverride)
	api.Delete("/overrides/:id", allotmentController.DeleteOverride)
}
