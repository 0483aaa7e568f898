// Package highlight projects the annotation collection onto the live
// rendering surface as visual highlight overlays.
//
// The surface loads content lazily and tears frames down on navigation,
// so application is deferred, idempotent and per-annotation fault
// isolated: one bad anchor never blocks the rest. Deferred work reads
// the collection through the source at fire time, so a timer armed
// before a book switch or a delete never re-paints entries that are
// gone.
package highlight

import (
	"log"
	"sync"
	"time"

	"github.com/mrlokans/reader/internal/entities"
	"github.com/mrlokans/reader/internal/render"
)

// Category keys every overlay this package owns, so bulk re-application
// and removal never disturb other overlay kinds on the same surface.
const Category = "saved-annotation"

type Config struct {
	// SettleDelay is how long to wait for frame layout to finish before
	// overlay injection.
	SettleDelay time.Duration

	// MaxRetries bounds re-scheduling while the surface has zero loaded
	// frames.
	MaxRetries int

	// AccentColor fills and strokes the overlays.
	AccentColor string
}

type Synchronizer struct {
	surface render.Surface
	source  func() []entities.Annotation
	cfg     Config
	style   render.HighlightStyle

	mu      sync.Mutex
	applied map[string]bool // anchors with a live overlay

	afterFunc func(d time.Duration, fn func()) *time.Timer
}

// NewSynchronizer builds a synchronizer over a surface. The source must
// return the current annotation collection; it is consulted whenever a
// deferred application fires.
func NewSynchronizer(surface render.Surface, source func() []entities.Annotation, cfg Config) *Synchronizer {
	return &Synchronizer{
		surface: surface,
		source:  source,
		cfg:     cfg,
		style: render.HighlightStyle{
			Fill:         cfg.AccentColor,
			FillOpacity:  "0.4",
			MixBlendMode: "multiply",
			Stroke:       cfg.AccentColor,
			StrokeWidth:  "1px",
		},
		applied:   make(map[string]bool),
		afterFunc: time.AfterFunc,
	}
}

// ApplyAll schedules projection of the full current collection after
// the settle delay. Safe to call repeatedly and before the surface is
// ready.
func (s *Synchronizer) ApplyAll() {
	if len(s.source()) == 0 {
		return
	}
	s.scheduleApply(s.cfg.MaxRetries)
}

func (s *Synchronizer) scheduleApply(retriesLeft int) {
	s.afterFunc(s.cfg.SettleDelay, func() {
		items := s.source()
		if len(items) == 0 {
			return
		}
		if len(s.surface.Contents()) == 0 {
			if retriesLeft > 0 {
				s.scheduleApply(retriesLeft - 1)
				return
			}
			log.Printf("WARNING: Surface never became ready, %d annotations not highlighted", len(items))
			return
		}
		for _, a := range items {
			if err := s.Apply(a); err != nil {
				log.Printf("Failed to apply annotation %s: %v", a.ID, err)
			}
		}
	})
}

// Apply overlays a single annotation immediately. Applying an anchor that
// already has a live overlay is a no-op.
func (s *Synchronizer) Apply(a entities.Annotation) error {
	s.mu.Lock()
	if s.applied[a.CFIRange] {
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	meta := render.HighlightMeta{ID: a.ID, Name: a.Name, Note: a.Note}
	if err := s.surface.AddHighlight(a.CFIRange, meta, Category, s.style); err != nil {
		return err
	}

	s.mu.Lock()
	s.applied[a.CFIRange] = true
	s.mu.Unlock()
	return nil
}

// Remove drops the overlay for one anchor. Other categories sharing the
// surface are untouched. Removal failures are logged; the anchor is
// forgotten either way so the store stays 1:1 with tracked overlays.
func (s *Synchronizer) Remove(anchor string) {
	if err := s.surface.RemoveHighlight(anchor, Category); err != nil {
		log.Printf("Could not remove highlight: %v", err)
	}

	s.mu.Lock()
	delete(s.applied, anchor)
	s.mu.Unlock()
}

// Reset forgets all tracked overlays. Call when the surface has torn
// down and rebuilt its frames, then re-apply the collection.
func (s *Synchronizer) Reset() {
	s.mu.Lock()
	s.applied = make(map[string]bool)
	s.mu.Unlock()
}
