package main

import (
	"context"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"biodash/internal/config"
	"biodash/internal/container"
	"biodash/ui"
	"biodash/ui/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	gin.SetMode(appConfig.Server.GinMode)

	appContainer, err := container.New(appConfig)
	if err != nil {
		log.Fatalf("Failed to create application container: %v", err)
	}
	defer appContainer.Shutdown(context.Background())

	logger := appContainer.Logger

	// A failed load keeps the server up with an unpopulated dashboard.
	if err := appContainer.Load(context.Background()); err != nil {
		logger.Error("Dataset load failed: %v", err)
	} else {
		ds, _ := appContainer.Dataset()
		logger.Info("Loaded %d subjects from %s (%s)", ds.Len(), ds.Info.Source, ds.Info.Location)
	}

	service := services.NewDashboardService(appContainer, appContainer.HTML, appContainer.PNG, appContainer.Reports).
		WithRenderLimit(appConfig.Render.Concurrency)
	server, err := ui.NewServer(appContainer, service, logger)
	if err != nil {
		log.Fatalf("Failed to initialize server: %v", err)
	}

	// Start pprof server for performance profiling
	if appConfig.Profiling.Enabled {
		go func() {
			logger.Info("Profiling server starting on :%s", appConfig.Profiling.Port)
			if err := http.ListenAndServe(":"+appConfig.Profiling.Port, nil); err != nil {
				logger.Error("pprof server failed: %v", err)
			}
		}()
	}

	go func() {
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
		<-stop

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			logger.Warn("Shutdown: %v", err)
		}
	}()

	if err := server.Start(":" + appConfig.Server.Port); err != nil {
		log.Fatal(err)
	}
	logger.Info("Server stopped")
}
