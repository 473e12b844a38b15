package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/alfierilab/ddtft/internal/domain/document"
)

// LocalArchive implements Archive using the local filesystem. Each
// document is one JSON file named by its ID; the entry metadata is read
// back from the document itself, so there is no separate index to
// corrupt.
type LocalArchive struct {
	basePath string
}

// NewLocalArchive creates a local filesystem archive
func NewLocalArchive(basePath string) (*LocalArchive, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create archive directory: %w", err)
	}
	return &LocalArchive{basePath: basePath}, nil
}

// Store persists a parsed document as pretty-printed JSON
func (a *LocalArchive) Store(ctx context.Context, doc *document.ParsedDocument) (*Entry, error) {
	if doc == nil {
		return nil, fmt.Errorf("nil document")
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}

	path := a.path(doc.ID)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return nil, fmt.Errorf("failed to write document: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return nil, fmt.Errorf("failed to finalize document: %w", err)
	}

	return &Entry{
		ID:         doc.ID,
		Kind:       doc.Kind,
		Number:     doc.Number,
		FileName:   doc.FileName,
		ArchivedAt: doc.ImportedAt,
	}, nil
}

// Load retrieves an archived document by ID
func (a *LocalArchive) Load(ctx context.Context, id uuid.UUID) (*document.ParsedDocument, error) {
	data, err := os.ReadFile(a.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("document %s not archived", id)
		}
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	var doc document.ParsedDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode document %s: %w", id, err)
	}
	return &doc, nil
}

// List returns the archive entries, newest first
func (a *LocalArchive) List(ctx context.Context) ([]*Entry, error) {
	names, err := os.ReadDir(a.basePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read archive directory: %w", err)
	}

	var entries []*Entry
	for _, f := range names {
		if f.IsDir() || !strings.HasSuffix(f.Name(), ".json") {
			continue
		}
		id, err := uuid.Parse(strings.TrimSuffix(f.Name(), ".json"))
		if err != nil {
			continue
		}
		doc, err := a.Load(ctx, id)
		if err != nil {
			continue
		}
		entries = append(entries, &Entry{
			ID:         doc.ID,
			Kind:       doc.Kind,
			Number:     doc.Number,
			FileName:   doc.FileName,
			ArchivedAt: doc.ImportedAt,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].ArchivedAt.After(entries[j].ArchivedAt)
	})
	return entries, nil
}

// Delete removes an archived document by ID
func (a *LocalArchive) Delete(ctx context.Context, id uuid.UUID) error {
	if err := os.Remove(a.path(id)); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("document %s not archived", id)
		}
		return fmt.Errorf("failed to delete document: %w", err)
	}
	return nil
}

func (a *LocalArchive) path(id uuid.UUID) string {
	return filepath.Join(a.basePath, id.String()+".json")
}
