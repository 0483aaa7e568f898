package http

import (
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/reader/internal/entities"
)

// AnnotationsStore defines the storage operations the API needs.
type AnnotationsStore interface {
	Books() ([]string, error)
	Load(bookID string) ([]entities.Annotation, error)
	Save(bookID string, items []entities.Annotation) error
}

type AnnotationsController struct {
	store AnnotationsStore
}

func NewAnnotationsController(store AnnotationsStore) *AnnotationsController {
	return &AnnotationsController{store: store}
}

// ListBooks returns every book id with stored annotations.
// GET /api/books
func (ac *AnnotationsController) ListBooks(c *gin.Context) {
	books, err := ac.store.Books()
	if err != nil {
		respondInternalError(c, err, "list books")
		return
	}
	if books == nil {
		books = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"books": books})
}

// ListAnnotations returns a book's collection, newest first.
// GET /api/books/:bookId/annotations
func (ac *AnnotationsController) ListAnnotations(c *gin.Context) {
	bookID := c.Param("bookId")

	items, err := ac.store.Load(bookID)
	if err != nil {
		respondInternalError(c, err, "load annotations")
		return
	}
	if items == nil {
		items = []entities.Annotation{}
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt > items[j].CreatedAt
	})

	c.JSON(http.StatusOK, gin.H{"annotations": items, "total": len(items)})
}

type updateAnnotationRequest struct {
	Name string `json:"name"`
	Note string `json:"note"`
}

// UpdateAnnotation replaces an annotation's name and note. Anchor, text
// and creation time are immutable.
// PATCH /api/books/:bookId/annotations/:id
func (ac *AnnotationsController) UpdateAnnotation(c *gin.Context) {
	bookID := c.Param("bookId")
	id := c.Param("id")

	var req updateAnnotationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	if req.Name == "" {
		respondBadRequest(c, "name is required")
		return
	}

	items, err := ac.store.Load(bookID)
	if err != nil {
		respondInternalError(c, err, "load annotations")
		return
	}

	updated := false
	for i := range items {
		if items[i].ID == id {
			items[i].Name = req.Name
			items[i].Note = req.Note
			items[i].UpdatedAt = time.Now().UnixMilli()
			updated = true
			break
		}
	}
	if !updated {
		respondNotFound(c, "annotation")
		return
	}

	if err := ac.store.Save(bookID, items); err != nil {
		respondInternalError(c, err, "save annotations")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "annotation updated"})
}

// DeleteAnnotation removes one annotation from a book's collection.
// DELETE /api/books/:bookId/annotations/:id
func (ac *AnnotationsController) DeleteAnnotation(c *gin.Context) {
	bookID := c.Param("bookId")
	id := c.Param("id")

	items, err := ac.store.Load(bookID)
	if err != nil {
		respondInternalError(c, err, "load annotations")
		return
	}

	remaining := items[:0]
	found := false
	for _, a := range items {
		if a.ID == id {
			found = true
			continue
		}
		remaining = append(remaining, a)
	}
	if !found {
		respondNotFound(c, "annotation")
		return
	}

	if err := ac.store.Save(bookID, remaining); err != nil {
		respondInternalError(c, err, "save annotations")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "annotation deleted"})
}
