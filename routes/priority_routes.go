package routes

import (
	"erp-app/config"
	"erp-app/controllers"
	"erp-app/middleware"

	"github.com/gofiber/fiber/v2"
)

func SetupPriorityRoutes(app *fiber.App) {
	priorityController := &controllers.PriorityController{}

	api := app.Group(config.MAIN_ROUTES+"/priority", middleware.AuthMiddleware)
	api.Use(middleware.InjectDBMiddleware(priorityController))

	api.Get("/", priorityController.GetPriorityList)
	api.Post("/reorder", priorityController.Reorder)
	api.Post("/move", priorityController.Move)
	api.Post("/sync", priorityController.Sync)
	api.Post("/email", priorityController.EmailSchedule)
}
