package main

import (
	"context"
	"log"

	"biodash/internal/config"
	"biodash/internal/container"
	"biodash/ui"
	"biodash/ui/services"

	"github.com/joho/godotenv"
)

// ui serves the chi rendition of the dashboard: page and JSON spec only.
func main() {
	_ = godotenv.Load()

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	c, err := container.New(appConfig)
	if err != nil {
		log.Fatalf("Failed to create application container: %v", err)
	}
	defer c.Shutdown(context.Background())

	if err := c.Load(context.Background()); err != nil {
		c.Logger.Error("Dataset load failed: %v", err)
	}

	app, err := ui.NewApp(services.NewDashboardService(c, c.HTML, nil, c.Reports), c.Logger)
	if err != nil {
		log.Fatal("Failed to create UI app:", err)
	}

	log.Fatal(app.Start(ui.Config{Port: appConfig.Server.Port}))
}
