// Package gesture disambiguates raw pointer input into discrete reading
// intents: swipe navigation, tap, or a text selection attempt.
//
// The classifier consumes one start/move*/end sequence per pointer and
// emits exactly one terminal classification for it. Selection outcomes are
// not resolved inline: the platform's own selection machinery settles
// asynchronously after touch-end, so the classifier only schedules
// extraction after a settle delay and leaves reading the selection to the
// sink.
package gesture

import (
	"math"
	"sync"
	"time"
)

// Direction of a swipe. Negative horizontal travel pages forward.
type Direction string

const (
	DirectionNext Direction = "next"
	DirectionPrev Direction = "prev"
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
)

// Navigator receives swipe classifications.
type Navigator interface {
	Swipe(dir Direction)
}

// ClickDispatcher re-dispatches taps as synthetic clicks so links and
// controls under the tap still receive conventional input.
type ClickDispatcher interface {
	DispatchClick(x, y float64)
}

// SelectionSink receives the selection-flavoured outcomes. Extraction is
// expected to swallow its own failures; the classifier never fails.
type SelectionSink interface {
	// ExtractSelection reads the live selection, called after the settle
	// delay (or immediately for mouse input).
	ExtractSelection()

	// ClearSelection collapses any active selection.
	ClearSelection()
}

// Config holds the disambiguation thresholds. The zero value is not
// usable; build one from the application config and platform profile.
type Config struct {
	SwipeThreshold   float64       // min travel distance for a swipe
	SwipeRestraint   float64       // max perpendicular travel for a swipe
	SwipeAllowedTime time.Duration // swipes slower than this degrade to tap

	MoveThreshold   float64 // movement below this keeps the long press armed
	VerticalRatio   float64 // vertical dominance that flags a selection attempt
	MoveCountCutoff int     // move events beyond this also flag selection

	LongPressDuration time.Duration
	SettleDelay       time.Duration

	// TouchCapable gates the contextmenu suppression path, IOS the
	// selectionchange assist.
	TouchCapable bool
	IOS          bool
}

// Classifier is the per-pointer gesture state machine. Safe for use from
// one event loop; the internal lock only covers the long-press timer
// firing concurrently.
type Classifier struct {
	cfg    Config
	nav    Navigator
	clicks ClickDispatcher
	sel    SelectionSink

	mu        sync.Mutex
	st        gestureState
	longPress *time.Timer

	// Injection points for tests.
	now       func() time.Time
	afterFunc func(d time.Duration, fn func()) *time.Timer
}

func NewClassifier(cfg Config, nav Navigator, clicks ClickDispatcher, sel SelectionSink) *Classifier {
	return &Classifier{
		cfg:       cfg,
		nav:       nav,
		clicks:    clicks,
		sel:       sel,
		now:       time.Now,
		afterFunc: time.AfterFunc,
	}
}

// TouchStart begins a new touch sequence at the given page coordinates.
// Any prior sequence state and pending long-press timer are discarded.
func (c *Classifier) TouchStart(x, y float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cancelLongPressLocked()
	c.st = gestureState{
		active:    true,
		startX:    x,
		startY:    y,
		lastMoveX: x,
		lastMoveY: y,
		startTime: c.now(),
	}
	c.longPress = c.afterFunc(c.cfg.LongPressDuration, c.longPressFired)
}

// longPressFired runs when the long-press timer elapses. It only counts
// as a long press if the finger has stayed put.
func (c *Classifier) longPressFired() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.st.active {
		return
	}
	moveX := math.Abs(c.st.lastMoveX - c.st.startX)
	moveY := math.Abs(c.st.lastMoveY - c.st.startY)
	if moveX < c.cfg.MoveThreshold && moveY < c.cfg.MoveThreshold {
		c.st.isLongPress = true
	}
}

// TouchMove records pointer movement within the current sequence.
func (c *Classifier) TouchMove(x, y float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.st.active {
		return
	}
	c.st.lastMoveX = x
	c.st.lastMoveY = y
	c.st.moveCount++

	moveX := math.Abs(x - c.st.startX)
	moveY := math.Abs(y - c.st.startY)
	if moveX <= c.cfg.MoveThreshold && moveY <= c.cfg.MoveThreshold {
		return
	}

	// Significant movement: the long press is moot either way.
	c.cancelLongPressLocked()

	// Pure horizontal drag is the navigation gesture and must not be
	// hijacked into selection mode. Vertical-dominant motion, or many
	// small moves, is a selection attempt.
	if moveY > moveX*c.cfg.VerticalRatio || c.st.moveCount > c.cfg.MoveCountCutoff {
		c.st.isSelectionAttempt = true
	}
}

// TouchEnd closes the sequence and emits its single classification.
func (c *Classifier) TouchEnd(x, y float64) {
	c.mu.Lock()
	if !c.st.active {
		c.mu.Unlock()
		return
	}
	c.st.active = false
	c.cancelLongPressLocked()

	elapsed := c.now().Sub(c.st.startTime)
	distX := x - c.st.startX
	distY := y - c.st.startY
	startX, startY := c.st.startX, c.st.startY
	selection := c.st.isLongPress || c.st.isSelectionAttempt
	c.mu.Unlock()

	if selection {
		// The browser resolves the selection asynchronously relative to
		// touch-end; extracting immediately would race it.
		c.afterFunc(c.cfg.SettleDelay, c.sel.ExtractSelection)
		return
	}

	switch {
	case elapsed > c.cfg.SwipeAllowedTime:
		// Too slow for a swipe regardless of distance.
		c.tap(startX, startY)
	case math.Abs(distX) >= c.cfg.SwipeThreshold && math.Abs(distY) <= c.cfg.SwipeRestraint:
		if distX < 0 {
			c.nav.Swipe(DirectionNext)
		} else {
			c.nav.Swipe(DirectionPrev)
		}
	case math.Abs(distY) >= c.cfg.SwipeThreshold && math.Abs(distX) <= c.cfg.SwipeRestraint:
		if distY < 0 {
			c.nav.Swipe(DirectionUp)
		} else {
			c.nav.Swipe(DirectionDown)
		}
	default:
		c.tap(startX, startY)
	}
}

func (c *Classifier) tap(x, y float64) {
	c.sel.ClearSelection()
	c.clicks.DispatchClick(x, y)
}

// MouseDown handles desktop input: pressing the mouse is an implicit new
// gesture start and clears any existing selection.
func (c *Classifier) MouseDown() {
	c.sel.ClearSelection()
}

// MouseUp always attempts extraction; there is no swipe concept for mouse
// input and no settle delay is needed.
func (c *Classifier) MouseUp() {
	c.sel.ExtractSelection()
}

// ContextMenu handles the native long-press menu on touch devices. It
// reports whether the caller should suppress the menu; suppression still
// runs the settle-then-extract path so the custom selection flow wins.
func (c *Classifier) ContextMenu() bool {
	if !c.cfg.TouchCapable {
		return false
	}
	c.afterFunc(c.cfg.SettleDelay, c.sel.ExtractSelection)
	return true
}

// SelectionChanged is the iOS assist path: iOS occasionally finishes
// resolving a touch selection only after touch-end, signalled through a
// selectionchange event.
func (c *Classifier) SelectionChanged() {
	if !c.cfg.IOS {
		return
	}
	c.mu.Lock()
	selection := c.st.isLongPress || c.st.isSelectionAttempt
	c.mu.Unlock()

	if selection {
		c.afterFunc(c.cfg.SettleDelay, c.sel.ExtractSelection)
	}
}

func (c *Classifier) cancelLongPressLocked() {
	if c.longPress != nil {
		c.longPress.Stop()
		c.longPress = nil
	}
}
