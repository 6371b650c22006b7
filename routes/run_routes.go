package routes

import (
	"erp-app/config"
	"erp-app/controllers"
	"erp-app/middleware"

	"github.com/gofiber/fiber/v2"
)

func SetupRunRoutes(app *fiber.App) {
	runController := &controllers.RunController{}

	api := app.Group(config.MAIN_ROUTES+"/runs", middleware.AuthMiddleware)
	api.Use(middleware.InjectDBMiddleware(runController))

	api.Get("/", runController.GetRuns)
	api.Post("/", runController.CreateRun)
	api.Put("/:id", runController.UpdateRun)
	api.Delete("/:id", runController.DeleteRun)
}
