package storage

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alfierilab/ddtft/internal/domain/document"
)

func sampleDoc(number string, importedAt time.Time) *document.ParsedDocument {
	return &document.ParsedDocument{
		ID:         uuid.New(),
		Kind:       document.KindDDT,
		Number:     number,
		FileName:   "DDV_" + number + ".pdf",
		ImportedAt: importedAt,
	}
}

func TestLocalArchiveRoundTrip(t *testing.T) {
	a, err := NewLocalArchive(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	doc := sampleDoc("4521", time.Now().UTC())
	entry, err := a.Store(ctx, doc)
	require.NoError(t, err)
	assert.Equal(t, doc.ID, entry.ID)
	assert.Equal(t, document.KindDDT, entry.Kind)

	loaded, err := a.Load(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, doc.Number, loaded.Number)
	assert.Equal(t, doc.Kind, loaded.Kind)
	assert.Equal(t, doc.FileName, loaded.FileName)
}

func TestLocalArchiveListNewestFirst(t *testing.T) {
	a, err := NewLocalArchive(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	older := sampleDoc("0001", time.Now().UTC().Add(-time.Hour))
	newer := sampleDoc("0002", time.Now().UTC())
	_, err = a.Store(ctx, older)
	require.NoError(t, err)
	_, err = a.Store(ctx, newer)
	require.NoError(t, err)

	entries, err := a.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, newer.ID, entries[0].ID)
	assert.Equal(t, older.ID, entries[1].ID)
}

func TestLocalArchiveDelete(t *testing.T) {
	a, err := NewLocalArchive(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	doc := sampleDoc("4521", time.Now().UTC())
	_, err = a.Store(ctx, doc)
	require.NoError(t, err)

	require.NoError(t, a.Delete(ctx, doc.ID))
	_, err = a.Load(ctx, doc.ID)
	assert.Error(t, err)
	assert.Error(t, a.Delete(ctx, doc.ID))
}

func TestNewDisabledWhenNoPath(t *testing.T) {
	a, err := New(&Config{})
	require.NoError(t, err)
	assert.Nil(t, a)
}
