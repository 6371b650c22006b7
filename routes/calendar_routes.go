package routes

import (
	"erp-app/config"
	"erp-app/controllers"
	"erp-app/middleware"

	"github.com/gofiber/fiber/v2"
)

func SetupCalendarRoutes(app *fiber.App) {
	calendarController := &controllers.CalendarController{}

	api := app.Group(config.MAIN_ROUTES+"/calendar", middleware.AuthMiddleware)
	api.Use(middleware.InjectDBMiddleware(calendarController))

	api.Get("/", calendarController.GetCalendar)
	api.Get("/unscheduled", calendarController.GetUnscheduled)
	api.Put("/:orderType/:id", calendarController.UpdateSchedule)
}
