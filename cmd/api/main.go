package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"sheetdiff/internal/api"
	"sheetdiff/internal/config"
	"sheetdiff/internal/container"
)

// Serves the run history JSON API on its own, without the viewer pages.
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
	if !cfg.HasDatabase() {
		log.Fatal("DATABASE_URL is required for the API server")
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

	server := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           api.NewRouter(c.Runs, c.Logger),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	c.Logger.Info("Starting API server on %s", cfg.Server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Server failed: %v", err)
	}
}
