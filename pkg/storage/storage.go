// Package storage archives parsed documents so later imports can detect
// duplicates and operators can re-inspect what a given file parsed into.
package storage

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/alfierilab/ddtft/internal/domain/document"
)

// Entry contains metadata about an archived document
type Entry struct {
	ID         uuid.UUID     `json:"id"`
	Kind       document.Kind `json:"kind"`
	Number     string        `json:"number"`
	FileName   string        `json:"file_name"`
	ArchivedAt time.Time     `json:"archived_at"`
}

// Archive defines the interface for parsed-document persistence
type Archive interface {
	// Store persists a parsed document and returns its archive entry
	Store(ctx context.Context, doc *document.ParsedDocument) (*Entry, error)

	// Load retrieves an archived document by its ID
	Load(ctx context.Context, id uuid.UUID) (*document.ParsedDocument, error)

	// List returns the archive entries, newest first
	List(ctx context.Context) ([]*Entry, error)

	// Delete removes an archived document by its ID
	Delete(ctx context.Context, id uuid.UUID) error
}

// Config holds archive configuration
type Config struct {
	// LocalPath is the directory documents are archived under. An empty
	// path disables archiving.
	LocalPath string
}

// New creates an Archive based on configuration. It returns nil when
// archiving is disabled.
func New(cfg *Config) (Archive, error) {
	if cfg == nil || cfg.LocalPath == "" {
		return nil, nil
	}
	return NewLocalArchive(cfg.LocalPath)
}
