package main

import (
	"fmt"
	"os"

	"github.com/mrlokans/reader/internal/config"
	"github.com/mrlokans/reader/internal/entrypoint"
	"github.com/mrlokans/reader/internal/exporters"
	"github.com/mrlokans/reader/internal/storage"
)

// Version information - set at build time via ldflags
var (
	Version = "dev"
	Commit  = "unknown"
)

func main() {
	// If no arguments or "serve" command, run the HTTP server
	if len(os.Args) < 2 || os.Args[1] == "serve" {
		cfg := config.NewConfig()
		entrypoint.Run(cfg, Version)
		return
	}

	command := os.Args[1]

	switch command {
	case "export":
		if err := runExport(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

	case "-h", "--help", "help":
		printUsage()

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

// runExport writes every stored book's annotations to markdown once and
// exits.
func runExport() error {
	cfg := config.NewConfig()

	db, err := storage.NewDatabase(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	repository := storage.NewRepository(db.DB)
	exporter := exporters.NewMarkdownExporter(repository, cfg.Export.OutputDir)

	result, err := exporter.ExportAll()
	if err != nil {
		return err
	}

	fmt.Printf("Exported %d annotations across %d books (%d failed) to %s\n",
		result.AnnotationsProcessed, result.BooksProcessed, result.BooksFailed, exporter.OutputDir)
	return nil
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "Usage: %s <command> [options]\n\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "Commands:\n")
	fmt.Fprintf(os.Stderr, "  serve   Start the HTTP server (default if no command given)\n")
	fmt.Fprintf(os.Stderr, "  export  Export all annotations to markdown and exit\n")
}
