package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/reader/internal/storage"
)

type HealthResponse struct {
	Status  string            `json:"status"`
	Time    string            `json:"time"`
	Version string            `json:"version,omitempty"`
	Checks  map[string]string `json:"checks"`
}

// BookLister is the slice of the store the health check exercises: if
// collections can be enumerated, annotation reads work end to end.
type BookLister interface {
	Books() ([]string, error)
}

type HealthController struct {
	db      *storage.Database
	store   BookLister
	version string
}

func NewHealthController(db *storage.Database, store BookLister, version string) *HealthController {
	return &HealthController{
		db:      db,
		store:   store,
		version: version,
	}
}

func (h *HealthController) Status(c *gin.Context) {
	checks := make(map[string]string)
	status := "healthy"

	if h.db != nil {
		sqlDB, err := h.db.DB.DB()
		if err != nil {
			checks["database"] = "error: " + err.Error()
			status = "unhealthy"
		} else if err := sqlDB.Ping(); err != nil {
			checks["database"] = "error: " + err.Error()
			status = "unhealthy"
		} else {
			checks["database"] = "ok"
		}
	} else {
		checks["database"] = "not configured"
	}

	// A working annotation read path matters more than a raw ping; an
	// empty library is still healthy.
	if h.store != nil {
		books, err := h.store.Books()
		if err != nil {
			checks["annotations"] = "error: " + err.Error()
			status = "unhealthy"
		} else {
			checks["annotations"] = fmt.Sprintf("ok (%d books)", len(books))
		}
	} else {
		checks["annotations"] = "not configured"
	}

	health := HealthResponse{
		Status:  status,
		Time:    time.Now().Format(time.RFC3339),
		Version: h.version,
		Checks:  checks,
	}

	statusCode := http.StatusOK
	if status != "healthy" {
		statusCode = http.StatusServiceUnavailable
	}

	c.IndentedJSON(statusCode, health)
}
