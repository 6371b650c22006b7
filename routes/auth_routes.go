package routes

import (
	"erp-app/config"
	"erp-app/controllers"
	"erp-app/middleware"

	"github.com/gofiber/fiber/v2"
)

func SetupAuthRoutes(app *fiber.App) {
	api := app.Group(config.MAIN_ROUTES + "/auth")
	api.Post("/login", controllers.Login)
	api.Post("/refresh", controllers.RefreshToken)

	apiAuth := app.Group(config.MAIN_ROUTES+"/auth", middleware.AuthMiddleware)
	apiAuth.Get("/logout", controllers.Logout)
	apiAuth.Get("/isLoggedIn", controllers.IsLoggedIn)
}
