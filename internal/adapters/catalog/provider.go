// Package catalog loads versioned candidate snapshots from the external
// data layer. Each load produces a whole new immutable snapshot under a
// fresh version token; snapshots are replaced, never patched.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/dugout-io/dugout/internal/domain/model"
)

// Provider supplies immutable catalog snapshots.
type Provider interface {
	// Load produces a new snapshot with a fresh version token.
	Load(ctx context.Context) (*model.Catalog, error)
}

// snapshotFile mirrors the JSON feed layout.
type snapshotFile struct {
	Candidates []model.Candidate `json:"candidates"`
	Groups     []model.Group     `json:"groups"`
}

// FileProvider reads snapshots from a JSON file on disk.
type FileProvider struct {
	path string
}

// NewFileProvider creates a provider reading the given snapshot file.
func NewFileProvider(path string) *FileProvider {
	return &FileProvider{path: path}
}

// Load reads and validates the snapshot file, stamping a fresh uuid as the
// catalog version.
func (p *FileProvider) Load(ctx context.Context) (*model.Catalog, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("catalog load canceled: %w", err)
	}
	raw, err := os.ReadFile(p.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadSnapshot, err)
	}
	var f snapshotFile
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecodeSnapshot, err)
	}
	if len(f.Candidates) == 0 {
		return nil, fmt.Errorf("%w: snapshot carries no candidates", ErrDecodeSnapshot)
	}
	cat, err := model.NewCatalog(uuid.NewString(), f.Candidates, f.Groups)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecodeSnapshot, err)
	}
	return cat, nil
}

// StaticProvider serves a fixed candidate list; each Load still stamps a
// fresh version. Useful for tests and the squadgen checker.
type StaticProvider struct {
	candidates []model.Candidate
	groups     []model.Group
}

// NewStaticProvider creates a provider over an in-memory candidate list.
func NewStaticProvider(candidates []model.Candidate, groups []model.Group) *StaticProvider {
	return &StaticProvider{candidates: candidates, groups: groups}
}

// Load builds a snapshot from the held list under a new version.
func (p *StaticProvider) Load(ctx context.Context) (*model.Catalog, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("catalog load canceled: %w", err)
	}
	cat, err := model.NewCatalog(uuid.NewString(), p.candidates, p.groups)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecodeSnapshot, err)
	}
	return cat, nil
}
