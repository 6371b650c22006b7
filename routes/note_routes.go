package routes

import (
	"erp-app/config"
	"erp-app/controllers"
	"erp-app/middleware"

	"github.com/gofiber/fiber/v2"
)

func SetupNoteRoutes(app *fiber.App) {
	noteController := &controllers.NoteController{}

	api := app.Group(config.MAIN_ROUTES+"/notes", middleware.AuthMiddleware)
	api.Use(middleware.InjectDBMiddleware(noteController))

	api.Post("/", noteController.CreateNote)
	api.Get("/", noteController.GetNotes)
	api.Put("/:id", noteController.UpdateNote)
	api.Delete("/:id", noteController.DeleteNote)
}
