// Package entrypoint wires the service together and runs it.
package entrypoint

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/reader/internal/config"
	"github.com/mrlokans/reader/internal/exporters"
	http_controllers "github.com/mrlokans/reader/internal/http"
	"github.com/mrlokans/reader/internal/scheduler"
	"github.com/mrlokans/reader/internal/storage"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		fmt.Printf("Starting server at %s:%d\n", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

func Run(cfg *config.Config, version string) {
	log.Printf("Starting Reader v%s", version)

	db, err := storage.NewDatabase(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	repository := storage.NewRepository(db.DB)
	exporter := exporters.NewMarkdownExporter(repository, cfg.Export.OutputDir)

	// Periodic export, if enabled
	var exportScheduler *scheduler.ExportScheduler
	if cfg.Export.Enabled {
		exportScheduler = scheduler.NewExportScheduler(exporter, cfg.Export.Schedule)
		if err := exportScheduler.Start(context.Background()); err != nil {
			log.Fatalf("Failed to start export scheduler: %v", err)
		}
	}

	routerCfg := http_controllers.RouterConfig{
		Store:    repository,
		Exporter: exporter,
		Database: db,
		Version:  version,
	}

	router := http_controllers.NewRouter(routerCfg)

	onShutdown := func(ctx context.Context) {
		if exportScheduler != nil {
			exportScheduler.Stop()
		}
	}

	Serve(router, cfg, onShutdown)
}
