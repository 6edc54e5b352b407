package database

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/craftlocal/leadflow/internal/entity"
)

// LeadStore keeps the whole lead collection in one JSON file, rewritten
// wholesale on every save. There is no per-record I/O: every mutation is a
// load-modify-save cycle, serialized by a process-wide mutex. The file itself
// carries no lock, so multiple processes sharing the same path will lose or
// corrupt data; that deployment shape is unsupported.
type LeadStore struct {
	mu   sync.Mutex
	path string
}

func NewLeadStore(path string) *LeadStore {
	return &LeadStore{path: path}
}

// LoadAll reads the full collection. A missing file is initialized to an
// empty collection; an unreadable or malformed file fails the whole call.
func (s *LeadStore) LoadAll() ([]entity.Lead, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked()
}

// SaveAll replaces the file's entire contents with the given collection.
func (s *LeadStore) SaveAll(leads []entity.Lead) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked(leads)
}

// Mutate runs one load-modify-save cycle under the store lock. fn receives
// the current collection and returns the collection to persist; returning an
// error aborts the cycle without writing.
func (s *LeadStore) Mutate(fn func(leads []entity.Lead) ([]entity.Lead, error)) ([]entity.Lead, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	leads, err := s.loadLocked()
	if err != nil {
		return nil, err
	}

	leads, err = fn(leads)
	if err != nil {
		return nil, err
	}

	if err := s.saveLocked(leads); err != nil {
		return nil, err
	}
	return leads, nil
}

func (s *LeadStore) loadLocked() ([]entity.Lead, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		if err := s.saveLocked(nil); err != nil {
			return nil, err
		}
		return []entity.Lead{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read lead store %s: %w", s.path, err)
	}

	var leads []entity.Lead
	if err := json.Unmarshal(data, &leads); err != nil {
		return nil, fmt.Errorf("decode lead store %s: %w", s.path, err)
	}
	return leads, nil
}

func (s *LeadStore) saveLocked(leads []entity.Lead) error {
	if leads == nil {
		leads = []entity.Lead{}
	}

	data, err := json.MarshalIndent(leads, "", "  ")
	if err != nil {
		return fmt.Errorf("encode lead store: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write lead store %s: %w", s.path, err)
	}
	return nil
}
