package routes

import (
	"erp-app/config"
	"erp-app/controllers"
	"erp-app/middleware"

	"github.com/gofiber/fiber/v2"
)

func SetupProductRoutes(app *fiber.App) {
	productController := &controllers.ProductController{}

	api := app.Group(config.MAIN_ROUTES+"/items", middleware.AuthMiddleware)
	api.Use(middleware.InjectDBMiddleware(productController))

	api.Post("/", productController.CreateItem)
	api.Get("/", productController.GetAllItems)
	api.Get("/:id", productController.GetItemByID)
	api.Put("/:id", productController.UpdateItem)
	api.Delete("/:id", productController.DeleteItem)
}
