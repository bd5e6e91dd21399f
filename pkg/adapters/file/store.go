// Package file persists the graph topology and run state on the local
// filesystem as JSON documents.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/weir/pkg/domain"
)

// Store implements ports.SchemaStore using two colocated JSON files: the
// topology file, and a derived run-state file recording {"running": bool}.
type Store struct {
	// TopologyPath is the primary topology file, e.g. "data/flow.json".
	TopologyPath string
}

type runState struct {
	Running bool `json:"running"`
}

// New creates a Store for the given topology path.
// If topologyPath is empty, it defaults to ".weir/flow.json".
func New(topologyPath string) *Store {
	if topologyPath == "" {
		topologyPath = filepath.Join(".weir", "flow.json")
	}
	return &Store{TopologyPath: topologyPath}
}

// StatePath returns the derived run-state filename, colocated with the
// topology file ("flow.json" -> "flow.state.json").
func (s *Store) StatePath() string {
	ext := filepath.Ext(s.TopologyPath)
	base := strings.TrimSuffix(s.TopologyPath, ext)
	return base + ".state" + ext
}

// SaveSchema rewrites the full topology file. Not a diff format.
func (s *Store) SaveSchema(ctx context.Context, schema *domain.GraphSchema) error {
	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal schema: %w", err)
	}
	return writeAtomic(s.TopologyPath, data)
}

// LoadSchema reads the topology file.
func (s *Store) LoadSchema(ctx context.Context) (*domain.GraphSchema, error) {
	data, err := os.ReadFile(s.TopologyPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrSchemaNotFound
		}
		return nil, fmt.Errorf("failed to read topology file: %w", err)
	}

	var schema domain.GraphSchema
	if err := json.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("failed to unmarshal topology: %w", err)
	}
	return &schema, nil
}

// SaveRunState rewrites the run-state file.
func (s *Store) SaveRunState(ctx context.Context, running bool) error {
	data, err := json.Marshal(runState{Running: running})
	if err != nil {
		return fmt.Errorf("failed to marshal run state: %w", err)
	}
	return writeAtomic(s.StatePath(), data)
}

// LoadRunState reads the run-state file; a missing file means not running.
func (s *Store) LoadRunState(ctx context.Context) (bool, error) {
	data, err := os.ReadFile(s.StatePath())
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read run-state file: %w", err)
	}

	var rs runState
	if err := json.Unmarshal(data, &rs); err != nil {
		return false, fmt.Errorf("failed to unmarshal run state: %w", err)
	}
	return rs.Running, nil
}

// writeAtomic writes to a temporary file in the same directory, syncs via
// fsync, and renames it over the destination so a crash never leaves a
// partial file behind.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to ensure data directory: %w", err)
	}

	// Same directory keeps us on one filesystem (required for atomic rename).
	tmpFile, err := os.CreateTemp(dir, "tmp-"+filepath.Base(path)+"-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath) // no-op once renamed
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to fsync temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	// On Windows, os.Rename fails if dest exists; remove first. The tiny
	// delete window is acceptable compared to a torn write.
	if _, err := os.Stat(path); err == nil {
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("failed to remove existing file for overwrite: %w", err)
		}
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to rename temp file into place: %w", err)
	}
	return nil
}
