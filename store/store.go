// Package store persists the ledger snapshot as a single JSON document
// with write-to-temp-then-rename semantics: a crash mid-write leaves
// the previous durable copy intact.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/letbuildnow/solPaper/ledger"
)

type JSONStore struct {
	mu   sync.Mutex
	path string
}

func NewJSON(path string) *JSONStore {
	return &JSONStore{path: path}
}

// Save writes the snapshot atomically. Writes are serialized
// process-wide so concurrent saves cannot interleave on the temp file.
func (s *JSONStore) Save(snap ledger.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create snapshot dir: %w", err)
		}
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temp snapshot: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("rename snapshot: %w", err)
	}
	return nil
}

// Load reads the durable snapshot. A missing file is a fresh start,
// not an error; absent collections in an older document default to
// empty.
func (s *JSONStore) Load() (ledger.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var snap ledger.Snapshot

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		snap.Normalize()
		return snap, nil
	}
	if err != nil {
		return snap, fmt.Errorf("read snapshot: %w", err)
	}

	if err := json.Unmarshal(data, &snap); err != nil {
		return snap, fmt.Errorf("parse snapshot: %w", err)
	}
	snap.Normalize()
	return snap, nil
}
