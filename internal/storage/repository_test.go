package storage

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/reader/internal/entities"
)

func setupTestDB(t *testing.T) (*gorm.DB, *Repository, func()) {
	dbPath := "./test_annotations_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&BookAnnotations{})
	require.NoError(t, err)

	repo := NewRepository(db)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return db, repo, cleanup
}

func testAnnotation(id string, createdAt int64) entities.Annotation {
	return entities.Annotation{
		ID:        id,
		BookID:    "book-1",
		CFIRange:  "epubcfi(/6/4!/4/2,/1:0,/1:5)",
		Text:      "selected text",
		Name:      "label " + id,
		Note:      "a note",
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
		Chapter:   "chapter-1.xhtml",
	}
}

func TestRepository_SaveAndLoadRoundTrip(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	items := []entities.Annotation{
		testAnnotation("a-2", 200),
		testAnnotation("a-1", 100),
	}
	require.NoError(t, repo.Save("book-1", items))

	loaded, err := repo.Load("book-1")
	require.NoError(t, err)
	assert.Equal(t, items, loaded)
}

func TestRepository_LoadUnknownBookIsEmpty(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	loaded, err := repo.Load("never-opened")

	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestRepository_SaveOverwritesExistingCollection(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	require.NoError(t, repo.Save("book-1", []entities.Annotation{testAnnotation("a-1", 100)}))
	require.NoError(t, repo.Save("book-1", []entities.Annotation{
		testAnnotation("a-2", 200),
		testAnnotation("a-1", 100),
	}))

	loaded, err := repo.Load("book-1")
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, "a-2", loaded[0].ID)
}

func TestRepository_SaveEmptyCollection(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	require.NoError(t, repo.Save("book-1", []entities.Annotation{testAnnotation("a-1", 100)}))
	require.NoError(t, repo.Save("book-1", nil))

	loaded, err := repo.Load("book-1")
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestRepository_BooksPartitionStrictly(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	require.NoError(t, repo.Save("book-b", []entities.Annotation{testAnnotation("b-1", 100)}))
	require.NoError(t, repo.Save("book-a", []entities.Annotation{testAnnotation("a-1", 100)}))

	books, err := repo.Books()
	require.NoError(t, err)
	assert.Equal(t, []string{"book-a", "book-b"}, books)

	loaded, err := repo.Load("book-a")
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "a-1", loaded[0].ID)
}

func TestRepository_MalformedPayloadIsAnError(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	record := BookAnnotations{BookID: "book-1", Payload: "{not json"}
	require.NoError(t, db.Create(&record).Error)

	_, err := repo.Load("book-1")
	assert.Error(t, err)
}

func TestRepository_UnknownDocumentVersionIsAnError(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	record := BookAnnotations{BookID: "book-1", Payload: `{"version":99,"annotations":[]}`}
	require.NoError(t, db.Create(&record).Error)

	_, err := repo.Load("book-1")
	assert.Error(t, err)
}

func TestRepository_LegacyBareArrayStillLoads(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	legacy := `[{"id":"annotation-1700000000000-abc","bookId":"book-1",` +
		`"cfiRange":"epubcfi(/6/4!/4/2,/1:0,/1:5)","text":"old text",` +
		`"name":"old label","createdAt":1700000000000,"updatedAt":1700000000000}]`
	record := BookAnnotations{BookID: "book-1", Payload: legacy}
	require.NoError(t, db.Create(&record).Error)

	loaded, err := repo.Load("book-1")
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "old label", loaded[0].Name)
	assert.Empty(t, loaded[0].Note)
}

func TestRepository_DeleteBook(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	require.NoError(t, repo.Save("book-1", []entities.Annotation{testAnnotation("a-1", 100)}))
	require.NoError(t, repo.DeleteBook("book-1"))

	loaded, err := repo.Load("book-1")
	require.NoError(t, err)
	assert.Empty(t, loaded)
}
