package entities

import "github.com/mrlokans/reader/internal/render"

// Annotation is the persisted unit: a named, optionally annotated text
// selection anchored to a position inside a book. The anchor (CFIRange) is
// an opaque token meaningful only to the rendering layer.
//
// JSON field names deliberately match the record format the web reader has
// always written, so stored collections stay readable across versions.
type Annotation struct {
	ID       string `json:"id"`
	BookID   string `json:"bookId"`
	CFIRange string `json:"cfiRange"`

	// Text is a snapshot of the selected content at creation time. It is
	// never re-derived from the book.
	Text string `json:"text"`

	Name string `json:"name"`
	Note string `json:"note,omitempty"`

	// Millisecond epoch timestamps.
	CreatedAt int64 `json:"createdAt"`
	UpdatedAt int64 `json:"updatedAt"`

	// Chapter labels the structural location at creation time. Display
	// grouping only, not used for anchoring.
	Chapter string `json:"chapter,omitempty"`
}

// PendingAnnotation is the ephemeral holder between a confirmed text
// selection and a committed Annotation. At most one exists at any time.
type PendingAnnotation struct {
	CFIRange string
	Text     string

	// Contents is the content frame the selection originated in. A
	// reflowable book may host several frames at once, so the origin has
	// to travel with the selection.
	Contents render.Contents
}

// AnnotationFormData carries the editable fields of the annotation modal.
type AnnotationFormData struct {
	Name string `json:"name"`
	Note string `json:"note"`
}
