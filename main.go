package main

import (
	"fmt"
	"log"

	"erp-app/config"
	"erp-app/controllers/idgen"
	"erp-app/database"
	"erp-app/erp/master/vendor"
	"erp-app/middleware"
	"erp-app/migration"
	"erp-app/notifier"
	"erp-app/routes"

	"github.com/gofiber/fiber/v2"
)

func main() {

	config.LoadConfig()

	app := fiber.New()

	database.EnsureDatabaseExists(config.DBName)
	database.EnsureDatabaseExists(config.DBUnit)

	mainDB, err := database.OpenMasterDB()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	err = migration.Migrate(mainDB)
	if err != nil {
		log.Fatalf("Failed to auto migrate: %v", err)
	}

	unitDB, err := database.OpenDatabaseConnection(config.DBUnit)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	err = migration.MigrateBusinessUnit(unitDB)
	if err != nil {
		log.Fatalf("Failed to auto migrate unit database: %v", err)
	}
	if err := vendor.Migrate(unitDB); err != nil {
		log.Fatalf("Failed to auto migrate vendors: %v", err)
	}

	database.SeedUnit(mainDB)

	idgen.Init()
	notifier.Init()

	database.RunSeeders(unitDB)
	vendor.SeedVendor(unitDB)

	config.SetupCORS(app)

	routes.SetupAuthRoutes(app)
	routes.SetupPriorityRoutes(app)
	routes.SetupCalendarRoutes(app)
	routes.SetupRunRoutes(app)
	routes.SetupAllotmentRoutes(app)
	routes.SetupTruckRoutes(app)
	routes.SetupProductRoutes(app)
	routes.SetupNoteRoutes(app)
	routes.SetupUserRoutes(app)
	vendor.SetupVendorRoutes(app)

	api := app.Group(config.MAIN_ROUTES)
	api.Post("/configurations/create-db", middleware.AuthMiddleware, database.CreateDatabase)
	api.Post("/configurations/get-all-table", middleware.AuthMiddleware, database.GetAllTables())
	api.Get("/configurations/get-all-bu", database.GetAllBusinessUnit)
	api.Post("/configurations/db-migrate", database.MigrateDB)

	port := config.APP_PORT
	fmt.Println("Server listening on port " + port)

	if err := app.Listen(":" + port); err != nil {
		log.Fatal(err)
	}

}
