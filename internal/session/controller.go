// Package session orchestrates the pending-annotation → modal-edit →
// commit/discard flow for the open book: it mediates between selection
// extraction, the annotation store and the highlight overlays.
package session

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mrlokans/reader/internal/annotations"
	"github.com/mrlokans/reader/internal/entities"
	"github.com/mrlokans/reader/internal/highlight"
	"github.com/mrlokans/reader/internal/render"
	"github.com/mrlokans/reader/internal/selection"
)

// State of the controller. Derived from pending/editing/modal, exposed
// for observability and tests.
type State string

const (
	StateIdle            State = "idle"
	StatePending         State = "pending"
	StateEditingNew      State = "editing-new"
	StateEditingExisting State = "editing-existing"
)

// Confirmer gates destructive operations behind a blocking yes/no
// decision.
type Confirmer interface {
	Confirm(prompt string) bool
}

// Controller owns the single PendingAnnotation and the modal/panel
// observable state. All mutations happen under one lock; commit and
// discard clear pending state and form fields as one step.
type Controller struct {
	store      *annotations.Store
	highlights *highlight.Synchronizer
	surface    render.Surface
	confirm    Confirmer

	mu      sync.Mutex
	pending *entities.PendingAnnotation
	editing *entities.Annotation

	showModal    bool
	showPanel    bool
	hasSelection bool
	name         string
	note         string
	chapter      string

	now   func() time.Time
	newID func(now time.Time) string
}

func NewController(store *annotations.Store, highlights *highlight.Synchronizer, surface render.Surface, confirm Confirmer) *Controller {
	return &Controller{
		store:      store,
		highlights: highlights,
		surface:    surface,
		confirm:    confirm,
		now:        time.Now,
		newID:      generateAnnotationID,
	}
}

func generateAnnotationID(now time.Time) string {
	return fmt.Sprintf("annotation-%d-%s", now.UnixMilli(), uuid.NewString()[:9])
}

// HandleSelection reacts to a confirmed non-empty selection: it becomes
// the pending annotation, replacing any prior one (last selection wins).
func (c *Controller) HandleSelection(res selection.Result) {
	if res.Text == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	c.hasSelection = true
	c.pending = &entities.PendingAnnotation{
		CFIRange: res.Anchor,
		Text:     res.Text,
		Contents: res.Contents,
	}
	c.name = ""
	c.note = ""
	c.editing = nil
}

// HandleCleared discards the pending annotation when the selection is
// gone.
func (c *Controller) HandleCleared() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.hasSelection = false
	c.pending = nil
}

// CreateFromSelection opens the annotation modal for the pending
// selection. Without one it is a logged no-op.
func (c *Controller) CreateFromSelection() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.pending == nil {
		log.Printf("WARNING: No pending annotation to create")
		return
	}
	c.showModal = true
}

// Edit opens the modal for an existing annotation, seeding the form and
// pending fields from it. No duplicate is created; commit will update in
// place.
func (c *Controller) Edit(a entities.Annotation) {
	c.mu.Lock()
	defer c.mu.Unlock()

	annotation := a
	c.editing = &annotation
	c.name = a.Name
	c.note = a.Note
	c.pending = &entities.PendingAnnotation{
		CFIRange: a.CFIRange,
		Text:     a.Text,
	}
	c.showModal = true
}

// Save commits the modal. A new annotation is stamped, inserted at the
// front, highlighted, persisted, and the panel opens so the result is
// visible. An edit replaces only name, note and the update timestamp.
// A missing name or pending annotation rejects the commit with no state
// change.
func (c *Controller) Save(form entities.AnnotationFormData) {
	c.mu.Lock()

	if c.pending == nil {
		c.mu.Unlock()
		log.Printf("WARNING: Annotation save without a pending annotation")
		return
	}
	if form.Name == "" {
		c.mu.Unlock()
		log.Printf("WARNING: Annotation save requires a name")
		return
	}

	now := c.now().UnixMilli()

	if c.editing != nil {
		id := c.editing.ID
		c.mu.Unlock()

		if !c.store.Update(id, annotations.Patch{
			Name:      form.Name,
			Note:      form.Note,
			UpdatedAt: now,
		}) {
			log.Printf("WARNING: Annotation %s no longer exists, edit dropped", id)
			return
		}
		// The highlight already exists at the unchanged anchor; no
		// re-apply and no panel auto-open on edit.
		c.store.Persist()
		c.Close()
		return
	}

	a := entities.Annotation{
		ID:        c.newID(c.now()),
		BookID:    c.store.BookID(),
		CFIRange:  c.pending.CFIRange,
		Text:      c.pending.Text,
		Name:      form.Name,
		Note:      form.Note,
		CreatedAt: now,
		UpdatedAt: now,
		Chapter:   c.chapter,
	}
	c.mu.Unlock()

	c.store.InsertFront(a)
	if err := c.highlights.Apply(a); err != nil {
		log.Printf("Could not apply highlight immediately: %v", err)
	}
	c.store.Persist()
	c.Close()

	c.mu.Lock()
	c.showPanel = true
	c.mu.Unlock()
}

// Close discards the modal and all pending state in one step.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.showModal = false
	c.pending = nil
	c.name = ""
	c.note = ""
	c.editing = nil
	c.hasSelection = false
}

// Delete removes an annotation and its highlight after explicit
// confirmation. Declining leaves everything unchanged.
func (c *Controller) Delete(id string) {
	if !c.confirm.Confirm("Are you sure you want to delete this annotation?") {
		return
	}

	removed, ok := c.store.RemoveByID(id)
	if !ok {
		return
	}
	c.highlights.Remove(removed.CFIRange)
	c.store.Persist()
	log.Printf("Deleted annotation: %s", removed.Name)
}

// GoTo navigates the surface to an annotation's anchored position.
func (c *Controller) GoTo(anchor string) {
	if err := c.surface.Display(anchor); err != nil {
		log.Printf("Could not display annotation location: %v", err)
	}
}

// TogglePanel flips the annotations panel.
func (c *Controller) TogglePanel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.showPanel = !c.showPanel
}

// SetChapter records the structural location label stamped onto new
// annotations. Callers update it as the reader navigates.
func (c *Controller) SetChapter(label string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.chapter = label
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch {
	case c.showModal && c.editing != nil:
		return StateEditingExisting
	case c.showModal:
		return StateEditingNew
	case c.pending != nil:
		return StatePending
	default:
		return StateIdle
	}
}

// Observable flags and form snapshots for the UI layer.

func (c *Controller) ShowModal() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.showModal
}

func (c *Controller) ShowPanel() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.showPanel
}

func (c *Controller) HasSelection() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hasSelection
}

// Pending returns a snapshot of the pending annotation, if any.
func (c *Controller) Pending() (entities.PendingAnnotation, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pending == nil {
		return entities.PendingAnnotation{}, false
	}
	return *c.pending, true
}

// Form returns the current editable fields.
func (c *Controller) Form() entities.AnnotationFormData {
	c.mu.Lock()
	defer c.mu.Unlock()
	return entities.AnnotationFormData{Name: c.name, Note: c.note}
}
