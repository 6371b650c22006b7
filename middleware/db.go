package middleware

import (
	"erp-app/database"
	"reflect"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// InjectDBMiddleware resolves the business unit database named by the
// token and injects it into the controller's DB field. The injected
// handle is the tenant scope every repository call runs against.
func InjectDBMiddleware(controller interface{}) fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbName, ok := c.Locals("unit").(string)
		if !ok || dbName == "" {
			return fiber.NewError(fiber.StatusInternalServerError, "database name not found in context")
		}

		db, err := database.GetDBConnection(dbName)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "error connecting to database")
		}

		val := reflect.ValueOf(controller)
		if val.Kind() != reflect.Ptr || val.IsNil() {
			return fiber.NewError(fiber.StatusInternalServerError, "controller must be a non-nil pointer")
		}

		elem := val.Elem()
		dbField := elem.FieldByName("DB")
		if !dbField.IsValid() || !dbField.CanSet() {
			return fiber.NewError(fiber.StatusInternalServerError, "DB field not found or cannot be set in controller")
		}

		if dbField.Type() != reflect.TypeOf((*gorm.DB)(nil)) {
			return fiber.NewError(fiber.StatusInternalServerError, "DB field has wrong type")
		}

		dbField.Set(reflect.ValueOf(db))

		return c.Next()
	}
}
