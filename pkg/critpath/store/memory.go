package store

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/randalmurphal/critpath/pkg/critpath"
)

// MemoryStore keeps summaries in memory. Useful for tests and short-lived
// processes.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	seq     int
	closed  bool
}

type memoryEntry struct {
	data    []byte
	summary Summary
	seq     int
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]memoryEntry)}
}

// Save implements Store. The summary is stored as a JSON copy, so later
// changes to info are not visible through Load.
func (s *MemoryStore) Save(buildID string, info *critpath.BuildInfo) error {
	data, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("encode summary: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStoreClosed
	}

	s.seq++
	s.entries[buildID] = memoryEntry{
		data:    data,
		summary: summarize(buildID, info, time.Now().UTC()),
		seq:     s.seq,
	}
	return nil
}

// Load implements Store.
func (s *MemoryStore) Load(buildID string) (*critpath.BuildInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrStoreClosed
	}

	e, ok := s.entries[buildID]
	if !ok {
		return nil, ErrNotFound
	}
	var info critpath.BuildInfo
	if err := json.Unmarshal(e.data, &info); err != nil {
		return nil, fmt.Errorf("decode summary: %w", err)
	}
	return &info, nil
}

// List implements Store.
func (s *MemoryStore) List() ([]Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrStoreClosed
	}

	entries := make([]memoryEntry, 0, len(s.entries))
	for _, e := range s.entries {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].seq < entries[j].seq })

	out := make([]Summary, len(entries))
	for i, e := range entries {
		out[i] = e.summary
	}
	return out, nil
}

// Delete implements Store.
func (s *MemoryStore) Delete(buildID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStoreClosed
	}
	delete(s.entries, buildID)
	return nil
}

// Close implements Store. Further calls return ErrStoreClosed.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.entries = nil
	return nil
}
