// Package selection turns a live text selection into an anchored,
// positioned extraction result. Failures here must never break the
// reading flow, so every error path degrades to "no extraction".
package selection

import (
	"log"

	"github.com/mrlokans/reader/internal/render"
)

// Outcome of an extraction attempt.
type Outcome int

const (
	// OutcomeNone: nothing usable, nothing to report.
	OutcomeNone Outcome = iota

	// OutcomeCleared: the selection exists but stringifies to empty,
	// meaning it has been cleared or collapsed.
	OutcomeCleared

	// OutcomeSelected: a non-empty selection was resolved.
	OutcomeSelected
)

// Result is a resolved selection: the anchor token, the snapshot text and
// the bounding rectangle in outer view coordinates.
type Result struct {
	Anchor string
	Text   string
	Rect   render.Rect

	// Contents is the frame the selection came from.
	Contents render.Contents
}

type Extractor struct {
	surface render.Surface
}

func NewExtractor(surface render.Surface) *Extractor {
	return &Extractor{surface: surface}
}

// Extract reads the active content frame's selection and resolves it.
// The frame may be torn down mid-read; any panic from a stale handle is
// caught at this boundary and reported as OutcomeNone.
func (e *Extractor) Extract() (result Result, outcome Outcome) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Error processing selection: %v", r)
			result, outcome = Result{}, OutcomeNone
		}
	}()

	contents := e.surface.Contents()
	if len(contents) == 0 {
		return Result{}, OutcomeNone
	}

	// Selections are read against the first (active) frame; during page
	// transitions the surface may briefly host more than one.
	active := contents[0]
	sel, ok := active.Selection()
	if !ok {
		return Result{}, OutcomeNone
	}

	text := sel.Text()
	if text == "" {
		return Result{}, OutcomeCleared
	}

	anchor, err := active.AnchorFromRange(sel)
	if err != nil {
		log.Printf("Error processing selection: %v", err)
		return Result{}, OutcomeNone
	}

	// The selection rect is local to a nested, independently scrollable
	// frame; shift it into outer view coordinates.
	selRect := sel.BoundingRect()
	viewRect := e.surface.ContainerRect()

	return Result{
		Anchor: anchor,
		Text:   text,
		Rect: render.Rect{
			Left:   viewRect.Left + selRect.Left - e.surface.ScrollLeft(),
			Top:    viewRect.Top + selRect.Top,
			Width:  selRect.Width,
			Height: selRect.Height,
		},
		Contents: active,
	}, OutcomeSelected
}
