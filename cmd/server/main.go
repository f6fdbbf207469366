package main

import (
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/romuloroldao/Black-House-sub001/config"
	"github.com/romuloroldao/Black-House-sub001/controllers"
	"github.com/romuloroldao/Black-House-sub001/database"
	"github.com/romuloroldao/Black-House-sub001/extraction"
	"github.com/romuloroldao/Black-House-sub001/logger"
	"github.com/romuloroldao/Black-House-sub001/routes"
	"github.com/romuloroldao/Black-House-sub001/services"
)

func main() {
	logger.Init()

	if err := godotenv.Load(); err != nil {
		logger.Warn("No .env file found, using system env vars")
	}

	db, err := database.Connect()
	if err != nil {
		logger.Error("Database initialization failed", "error", err)
		os.Exit(1)
	}
	if err := database.SeedFoodTypes(db); err != nil {
		logger.Error("Food type seeding failed", "error", err)
		os.Exit(1)
	}

	chain := extraction.NewChain(
		extraction.NewLLMProvider(),
		extraction.NewRuleBasedProvider(),
	)
	imports := services.NewImportService(db)
	controller := controllers.NewImportController(imports, chain)

	r := routes.SetupRouter(controller)

	port := config.GetEnv("PORT", "8080")
	logger.Info("Server starting", "port", port)
	if err := http.ListenAndServe(":"+port, r); err != nil {
		logger.Error("Server failed to start", "error", err)
		os.Exit(1)
	}
}
