package annotations

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/reader/internal/entities"
)

type fakeRepo struct {
	stored  map[string][]entities.Annotation
	loadErr error
	saveErr error
	saves   int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{stored: make(map[string][]entities.Annotation)}
}

func (r *fakeRepo) Load(bookID string) ([]entities.Annotation, error) {
	if r.loadErr != nil {
		return nil, r.loadErr
	}
	return r.stored[bookID], nil
}

func (r *fakeRepo) Save(bookID string, items []entities.Annotation) error {
	r.saves++
	if r.saveErr != nil {
		return r.saveErr
	}
	r.stored[bookID] = append([]entities.Annotation(nil), items...)
	return nil
}

func annotation(id string, createdAt int64) entities.Annotation {
	return entities.Annotation{
		ID:        id,
		BookID:    "book-1",
		CFIRange:  "epubcfi(/6/4!/4/2,/1:0,/1:5)",
		Text:      "text " + id,
		Name:      "name " + id,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}

func TestStore_LoadSortsNewestFirst(t *testing.T) {
	repo := newFakeRepo()
	repo.stored["book-1"] = []entities.Annotation{
		annotation("old", 100),
		annotation("new", 300),
		annotation("mid", 200),
	}

	store := NewStore(repo)
	store.Load("book-1")

	items := store.All()
	require.Len(t, items, 3)
	assert.Equal(t, "new", items[0].ID)
	assert.Equal(t, "mid", items[1].ID)
	assert.Equal(t, "old", items[2].ID)
}

func TestStore_LoadFailureDegradesToEmpty(t *testing.T) {
	repo := newFakeRepo()
	repo.stored["book-1"] = []entities.Annotation{annotation("a", 1)}
	store := NewStore(repo)
	store.Load("book-1")
	require.Equal(t, 1, store.Len())

	repo.loadErr = errors.New("corrupt record")
	store.Load("book-1")

	assert.Zero(t, store.Len())
	assert.Equal(t, "book-1", store.BookID())
}

func TestStore_InsertFrontKeepsCommitOrder(t *testing.T) {
	store := NewStore(newFakeRepo())
	store.Load("book-1")

	a := annotation("a", 100)
	a.Name = "Note A"
	b := annotation("b", 200)
	b.Name = "Note B"

	store.InsertFront(a)
	store.InsertFront(b)

	items := store.All()
	require.Len(t, items, 2)
	assert.Equal(t, "Note B", items[0].Name)
	assert.Equal(t, "Note A", items[1].Name)
}

func TestStore_UpdateTouchesOnlyEditableFields(t *testing.T) {
	store := NewStore(newFakeRepo())
	store.Load("book-1")
	original := annotation("a", 100)
	store.InsertFront(original)

	ok := store.Update("a", Patch{Name: "renamed", Note: "a note", UpdatedAt: 500})
	require.True(t, ok)

	updated, found := store.Get("a")
	require.True(t, found)
	assert.Equal(t, "renamed", updated.Name)
	assert.Equal(t, "a note", updated.Note)
	assert.Equal(t, int64(500), updated.UpdatedAt)

	assert.Equal(t, original.ID, updated.ID)
	assert.Equal(t, original.CFIRange, updated.CFIRange)
	assert.Equal(t, original.Text, updated.Text)
	assert.Equal(t, original.CreatedAt, updated.CreatedAt)
}

func TestStore_UpdateUnknownID(t *testing.T) {
	store := NewStore(newFakeRepo())
	store.Load("book-1")

	assert.False(t, store.Update("ghost", Patch{Name: "x"}))
}

func TestStore_RemoveByID(t *testing.T) {
	store := NewStore(newFakeRepo())
	store.Load("book-1")
	store.InsertFront(annotation("a", 100))
	store.InsertFront(annotation("b", 200))

	removed, ok := store.RemoveByID("a")
	require.True(t, ok)
	assert.Equal(t, "a", removed.ID)
	assert.Equal(t, 1, store.Len())

	_, ok = store.RemoveByID("a")
	assert.False(t, ok)
}

func TestStore_PersistRoundTrip(t *testing.T) {
	repo := newFakeRepo()
	store := NewStore(repo)
	store.Load("book-1")
	store.InsertFront(annotation("a", 100))
	store.InsertFront(annotation("b", 200))
	store.Persist()

	reloaded := NewStore(repo)
	reloaded.Load("book-1")

	assert.Equal(t, store.All(), reloaded.All())
}

func TestStore_PersistFailureKeepsMemoryState(t *testing.T) {
	repo := newFakeRepo()
	repo.saveErr = errors.New("disk full")
	store := NewStore(repo)
	store.Load("book-1")
	store.InsertFront(annotation("a", 100))

	store.Persist()

	assert.Equal(t, 1, repo.saves)
	assert.Equal(t, 1, store.Len(), "unsaved changes stay live")
}

func TestStore_PersistBeforeLoadIsNoop(t *testing.T) {
	repo := newFakeRepo()
	store := NewStore(repo)

	store.Persist()

	assert.Zero(t, repo.saves)
}
