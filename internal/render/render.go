// Package render defines the boundary to the rendering collaborator: the
// pagination/rendering engine that owns book content, content frames and
// highlight overlays. The annotation core consumes these interfaces and
// makes no assumptions about the engine behind them.
//
// Implementations live with the embedding application. All shape
// validation of the engine's loosely-typed objects happens inside the
// adapter, never in the core.
package render

// Rect is a rectangle in the coordinate space of the outer view.
type Rect struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// HighlightMeta is attached to a highlight overlay so the overlay can be
// traced back to its annotation.
type HighlightMeta struct {
	ID   string
	Name string
	Note string
}

// HighlightStyle describes the visual treatment of a highlight overlay.
// Values are passed through to the rendering engine untouched.
type HighlightStyle struct {
	Fill         string
	FillOpacity  string
	MixBlendMode string
	Stroke       string
	StrokeWidth  string
}

// SelectionRange is a live text selection inside one content frame.
type SelectionRange interface {
	// Text returns the stringified selection. Empty means the selection
	// has collapsed or was cleared.
	Text() string

	// BoundingRect returns the selection's rectangle in the frame's own
	// coordinate space.
	BoundingRect() Rect
}

// Contents is one loaded content frame of the book.
type Contents interface {
	// Selection returns the frame's current selection, if any.
	Selection() (SelectionRange, bool)

	// AnchorFromRange resolves a selection range to an opaque anchor
	// token (a CFI range) usable for display and highlighting.
	AnchorFromRange(r SelectionRange) (string, error)

	// ClearSelection collapses any active selection in the frame.
	ClearSelection()
}

// Surface is the live rendering surface for the open book. Frames are
// loaded lazily and may be torn down and rebuilt on navigation, so callers
// must not hold Contents handles across ticks.
type Surface interface {
	// Contents enumerates the currently loaded content frames, in
	// display order. May be empty while the surface is still loading.
	Contents() []Contents

	// ContainerRect returns the frame container's rectangle in outer
	// view coordinates.
	ContainerRect() Rect

	// ScrollLeft returns the container's current horizontal scroll
	// offset.
	ScrollLeft() float64

	// AddHighlight overlays a highlight at the anchored range. The
	// category keys the overlay so different overlay kinds on the same
	// surface stay independent.
	AddHighlight(anchor string, meta HighlightMeta, category string, style HighlightStyle) error

	// RemoveHighlight removes the overlay for one anchor + category.
	RemoveHighlight(anchor, category string) error

	// Display navigates the surface to the anchored position.
	Display(anchor string) error
}
