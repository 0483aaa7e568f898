package exporters

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/reader/internal/entities"
)

type fakeSource struct {
	books   map[string][]entities.Annotation
	failFor map[string]error
}

func (s *fakeSource) Books() ([]string, error) {
	ids := make([]string, 0, len(s.books))
	for id := range s.books {
		ids = append(ids, id)
	}
	return ids, nil
}

func (s *fakeSource) Load(bookID string) ([]entities.Annotation, error) {
	if err := s.failFor[bookID]; err != nil {
		return nil, err
	}
	return s.books[bookID], nil
}

func TestExportAll_WritesOneFilePerBook(t *testing.T) {
	source := &fakeSource{books: map[string][]entities.Annotation{
		"book-1": {
			{
				ID:        "a",
				Name:      "Key idea",
				Text:      "Lorem ipsum",
				Note:      "worth re-reading",
				Chapter:   "chapter-1.xhtml",
				CreatedAt: 1_700_000_000_000,
			},
		},
		"book-2": {},
	}}
	outputDir := t.TempDir()

	result, err := NewMarkdownExporter(source, outputDir).ExportAll()

	require.NoError(t, err)
	assert.Equal(t, 2, result.BooksProcessed)
	assert.Equal(t, 1, result.AnnotationsProcessed)
	assert.Zero(t, result.BooksFailed)

	content, err := os.ReadFile(filepath.Join(outputDir, "book-1.md"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "book_id: book-1")
	assert.Contains(t, string(content), "### Key idea")
	assert.Contains(t, string(content), "> Lorem ipsum")
	assert.Contains(t, string(content), "worth re-reading")
	assert.Contains(t, string(content), "(chapter: chapter-1.xhtml)")
}

func TestExportAll_FailingBookIsSkipped(t *testing.T) {
	source := &fakeSource{
		books: map[string][]entities.Annotation{
			"good": {{ID: "a", Name: "n", Text: "t"}},
			"bad":  {},
		},
		failFor: map[string]error{"bad": errors.New("corrupt record")},
	}
	outputDir := t.TempDir()

	result, err := NewMarkdownExporter(source, outputDir).ExportAll()

	require.NoError(t, err)
	assert.Equal(t, 1, result.BooksProcessed)
	assert.Equal(t, 1, result.BooksFailed)

	_, statErr := os.Stat(filepath.Join(outputDir, "good.md"))
	assert.NoError(t, statErr)
}

func TestSafeFilename(t *testing.T) {
	assert.Equal(t, "remote_42_my_book.epub", safeFilename(`remote/42:my*book.epub`))
}
