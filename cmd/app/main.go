package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"foodorder/cmd"
)

func main() {
	configs := getConfigs()

	root, err := cmd.NewCompositionRoot(context.Background(), configs)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	if err = root.JobManager().StartAll(); err != nil {
		log.Fatalf("Failed to start background jobs: %v", err)
	}
	defer root.JobManager().StopAll()

	startWebServer(root, configs.HTTPPort)
}

func getConfigs() cmd.Config {
	// A missing .env file is fine; the environment may be set directly.
	_ = godotenv.Load(".env")

	return cmd.Config{
		HTTPPort:        envOrDefault("HTTP_PORT", "8080"),
		StorageDriver:   envOrDefault("STORAGE_DRIVER", cmd.StorageDriverFile),
		SnapshotPath:    envOrDefault("SNAPSHOT_PATH", "food_ordering_state.json"),
		DBHost:          envOrDefault("DB_HOST", "localhost"),
		DBPort:          envOrDefault("DB_PORT", "5432"),
		DBUser:          os.Getenv("DB_USER"),
		DBPassword:      os.Getenv("DB_PASSWORD"),
		DBName:          os.Getenv("DB_NAME"),
		DBSslMode:       envOrDefault("DB_SSLMODE", "disable"),
		CatalogPath:     os.Getenv("CATALOG_PATH"),
		ManagerUsername: os.Getenv("MANAGER_USERNAME"),
		ManagerPassword: os.Getenv("MANAGER_PASSWORD"),
		AgentNames:      envOrDefault("AGENT_NAMES", "John,Jane"),
	}
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func startWebServer(root *cmd.CompositionRoot, port string) {
	e := echo.New()
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	root.HTTPServer().RegisterRoutes(e)

	e.Logger.Fatal(e.Start(fmt.Sprintf("0.0.0.0:%s", port)))
}
