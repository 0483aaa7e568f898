// Package reader assembles the gesture, selection, annotation and
// highlight components into one reading session for an open book.
package reader

import (
	"github.com/mrlokans/reader/internal/annotations"
	"github.com/mrlokans/reader/internal/config"
	"github.com/mrlokans/reader/internal/gesture"
	"github.com/mrlokans/reader/internal/highlight"
	"github.com/mrlokans/reader/internal/platform"
	"github.com/mrlokans/reader/internal/render"
	"github.com/mrlokans/reader/internal/selection"
	"github.com/mrlokans/reader/internal/session"
)

// Options wires a session to its collaborators.
type Options struct {
	Config  *config.Config
	Profile platform.Profile

	Surface    render.Surface
	Repository annotations.Repository

	Navigator gesture.Navigator
	Clicks    gesture.ClickDispatcher
	Confirm   session.Confirmer
}

// Session is one reader session: raw input flows through the Classifier,
// selection outcomes through the Controller, committed annotations into
// the Store and onto the surface.
type Session struct {
	Classifier *gesture.Classifier
	Controller *session.Controller
	Store      *annotations.Store

	extractor  *selection.Extractor
	highlights *highlight.Synchronizer
	surface    render.Surface
}

func NewSession(opts Options) *Session {
	store := annotations.NewStore(opts.Repository)
	highlights := highlight.NewSynchronizer(opts.Surface, store.All, highlight.Config{
		SettleDelay: opts.Config.Highlight.SettleDelay,
		MaxRetries:  opts.Config.Highlight.MaxRetries,
		AccentColor: opts.Config.Highlight.AccentColor,
	})
	controller := session.NewController(store, highlights, opts.Surface, opts.Confirm)
	extractor := selection.NewExtractor(opts.Surface)

	s := &Session{
		Controller: controller,
		Store:      store,
		extractor:  extractor,
		highlights: highlights,
		surface:    opts.Surface,
	}
	s.Classifier = gesture.NewClassifier(
		classifierConfig(opts.Config, opts.Profile),
		opts.Navigator,
		opts.Clicks,
		(*selectionSink)(s),
	)
	return s
}

// classifierConfig merges the tunable thresholds with the platform
// profile; explicit timing overrides win over the profile.
func classifierConfig(cfg *config.Config, profile platform.Profile) gesture.Config {
	gc := gesture.Config{
		SwipeThreshold:    cfg.Gesture.SwipeThreshold,
		SwipeRestraint:    cfg.Gesture.SwipeRestraint,
		SwipeAllowedTime:  cfg.Gesture.SwipeAllowedTime,
		MoveThreshold:     cfg.Gesture.MoveThreshold,
		VerticalRatio:     cfg.Gesture.VerticalRatio,
		MoveCountCutoff:   cfg.Gesture.MoveCountCutoff,
		LongPressDuration: profile.LongPressDuration,
		SettleDelay:       profile.SelectionSettleDelay,
		TouchCapable:      profile.IsTouchCapable,
		IOS:               profile.IsIOS,
	}
	if cfg.Selection.LongPressDuration > 0 {
		gc.LongPressDuration = cfg.Selection.LongPressDuration
	}
	if cfg.Selection.SettleDelay > 0 {
		gc.SettleDelay = cfg.Selection.SettleDelay
	}
	return gc
}

// Open loads a book's annotations and projects them onto the surface.
func (s *Session) Open(bookID string) {
	s.Store.Load(bookID)
	s.highlights.Reset()
	s.highlights.ApplyAll()
}

// SurfaceReloaded re-applies all highlights after the surface tore down
// and rebuilt its content frames (page navigation, relayout).
func (s *Session) SurfaceReloaded() {
	s.highlights.Reset()
	s.highlights.ApplyAll()
}

// selectionSink adapts the session for the classifier's selection
// outcomes. Reads of live frames happen inside the extractor; no handle
// is held across ticks.
type selectionSink Session

func (s *selectionSink) ExtractSelection() {
	result, outcome := s.extractor.Extract()
	switch outcome {
	case selection.OutcomeSelected:
		s.Controller.HandleSelection(result)
	case selection.OutcomeCleared:
		s.Controller.HandleCleared()
	}
}

func (s *selectionSink) ClearSelection() {
	for _, contents := range s.surface.Contents() {
		contents.ClearSelection()
	}
	s.Controller.HandleCleared()
}
