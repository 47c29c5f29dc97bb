package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"sheetdiff/internal/api"
	"sheetdiff/internal/config"
	"sheetdiff/internal/container"
	"sheetdiff/ui"
)

func main() {
	envFile := flag.String("env-file", ".env", "Environment file to load before reading configuration")
	addr := flag.String("addr", "", "Listen address (overrides UI_ADDR)")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := config.LoadEnv(*envFile); err != nil {
		log.Fatalf("Failed to load environment: %v", err)
	}
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	gin.SetMode(cfg.Server.GinMode)

	c, err := container.New(cfg, nil)
	if err != nil {
		log.Fatalf("Failed to create container: %v", err)
	}
	defer c.Close()

	if err := c.InitWithDatabase(ctx); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	if !cfg.HasDatabase() {
		c.Logger.Warn("[UI] DATABASE_URL not set; the viewer will show no runs")
	}

	app, err := ui.NewApp(ui.Config{
		Addr: cfg.Server.Addr,
		API:  api.NewRouter(c.Runs, c.Logger),
	}, c.Runs, c.Logger)
	if err != nil {
		log.Fatalf("Failed to create UI app: %v", err)
	}

	if err := app.Start(ctx); err != nil {
		log.Fatalf("UI server failed: %v", err)
	}
}
