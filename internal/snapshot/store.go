// Package snapshot persists the dunder list as a JSON document.
//
// The snapshot is the source of truth between runs, in particular for the
// GitHub issue numbers already assigned to dunders. There is no update-by-key
// operation: callers Load the whole list, mutate records in place, and Save
// the whole list back.
package snapshot

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/natefinch/atomic"

	"github.com/mcoding/dunders/internal/lockfile"
	"github.com/mcoding/dunders/internal/types"
)

// DefaultPath is the snapshot location relative to the repository root.
const DefaultPath = "dunders.json"

// Load reads and validates the snapshot at path. A missing file is reported
// as an error wrapping fs.ErrNotExist.
func Load(path string) ([]*types.Dunder, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is the configured snapshot location
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}
	return Decode(data)
}

// Decode parses and validates a snapshot document.
func Decode(data []byte) ([]*types.Dunder, error) {
	var dunders []*types.Dunder
	if err := json.Unmarshal(data, &dunders); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot: %w", err)
	}
	for i, d := range dunders {
		if d == nil {
			return nil, fmt.Errorf("snapshot entry %d: %w", i, &types.ValidationError{Field: "dunder"})
		}
		d.SetDefaults()
		if err := d.Validate(); err != nil {
			return nil, fmt.Errorf("snapshot entry %d: %w", i, err)
		}
	}
	return dunders, nil
}

// Encode renders dunders in the snapshot format: an indented JSON array
// with a trailing newline.
func Encode(dunders []*types.Dunder) ([]byte, error) {
	if dunders == nil {
		dunders = []*types.Dunder{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(dunders); err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return buf.Bytes(), nil
}

// Save writes dunders to path. The new content is written to a temporary
// file and renamed over the old one, so readers never see a partial file.
func Save(path string, dunders []*types.Dunder) error {
	data, err := Encode(dunders)
	if err != nil {
		return err
	}
	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	return nil
}

// LockPath returns the advisory lock file guarding the snapshot at path.
func LockPath(path string) string {
	return path + ".lock"
}

// Lock takes the advisory lock for the snapshot at path. A second run that
// tries to lock the same snapshot fails with lockfile.ErrLockBusy.
func Lock(path string) (*lockfile.Lock, error) {
	return lockfile.Acquire(LockPath(path))
}
