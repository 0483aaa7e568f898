// Package exporters writes annotation collections out as markdown, one
// file per book, for use in external note vaults.
package exporters

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mrlokans/reader/internal/entities"
)

// BookSource is the read side of the annotation storage.
type BookSource interface {
	Books() ([]string, error)
	Load(bookID string) ([]entities.Annotation, error)
}

// ExportResult contains the outcome of an export run.
type ExportResult struct {
	BooksProcessed       int
	AnnotationsProcessed int
	BooksFailed          int
}

type MarkdownExporter struct {
	source    BookSource
	OutputDir string
}

func NewMarkdownExporter(source BookSource, outputDir string) *MarkdownExporter {
	return &MarkdownExporter{
		source:    source,
		OutputDir: outputDir,
	}
}

// ExportAll writes every book's annotations. A failing book is counted
// and skipped; the run continues.
func (exporter *MarkdownExporter) ExportAll() (ExportResult, error) {
	result := ExportResult{}

	if err := os.MkdirAll(exporter.OutputDir, 0755); err != nil {
		return result, fmt.Errorf("failed to create export directory: %w", err)
	}

	books, err := exporter.source.Books()
	if err != nil {
		return result, fmt.Errorf("failed to enumerate books: %w", err)
	}

	for _, bookID := range books {
		items, err := exporter.source.Load(bookID)
		if err != nil {
			result.BooksFailed++
			continue
		}
		if err := exporter.exportBook(bookID, items); err != nil {
			result.BooksFailed++
			continue
		}
		result.BooksProcessed++
		result.AnnotationsProcessed += len(items)
	}

	return result, nil
}

func (exporter *MarkdownExporter) exportBook(bookID string, items []entities.Annotation) error {
	outputPath := filepath.Join(exporter.OutputDir, safeFilename(bookID)+".md")

	var builder strings.Builder

	fmt.Fprintf(&builder, "---\n")
	fmt.Fprintf(&builder, "content_type: book_annotations\n")
	fmt.Fprintf(&builder, "book_id: %s\n", bookID)
	fmt.Fprintf(&builder, "exported_at: %s\n", time.Now().Format("2006-01-02"))
	fmt.Fprintf(&builder, "tags: annotations, books\n")
	fmt.Fprintf(&builder, "---\n")
	fmt.Fprintf(&builder, "## Annotations:\n")

	for _, a := range items {
		fmt.Fprintf(&builder, "### %s\n", a.Name)
		if a.Chapter != "" {
			fmt.Fprintf(&builder, "(chapter: %s)\n", a.Chapter)
		}
		fmt.Fprintf(&builder, "> %s\n", a.Text)
		if a.Note != "" {
			fmt.Fprintf(&builder, "\n%s\n", a.Note)
		}
		fmt.Fprintf(&builder, "\n(created: %s)\n\n", time.UnixMilli(a.CreatedAt).Format("2006-01-02 15:04"))
	}

	return os.WriteFile(outputPath, []byte(builder.String()), 0644)
}

// safeFilename keeps book ids usable as file names.
func safeFilename(bookID string) string {
	replacer := strings.NewReplacer("/", "_", "\\", "_", ":", "_", "*", "_", "?", "_", "\"", "_", "<", "_", ">", "_", "|", "_")
	return replacer.Replace(bookID)
}
