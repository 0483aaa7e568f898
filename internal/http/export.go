package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/reader/internal/exporters"
)

// Exporter runs a full markdown export of every stored book.
type Exporter interface {
	ExportAll() (exporters.ExportResult, error)
}

type ExportController struct {
	exporter Exporter
}

func NewExportController(exporter Exporter) *ExportController {
	return &ExportController{exporter: exporter}
}

// TriggerExport runs an export synchronously and reports counts.
// POST /api/export
func (ec *ExportController) TriggerExport(c *gin.Context) {
	result, err := ec.exporter.ExportAll()
	if err != nil {
		respondInternalError(c, err, "export")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":               "export completed",
		"books_processed":       result.BooksProcessed,
		"annotations_processed": result.AnnotationsProcessed,
		"books_failed":          result.BooksFailed,
	})
}
