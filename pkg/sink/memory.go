package sink

import (
	"context"
	"maps"
	"slices"
	"sync"
)

// MemorySink keeps documents in memory.
type MemorySink struct {
	mu   sync.Mutex
	docs map[string][]byte
}

// NewMemorySink creates an empty memory sink.
func NewMemorySink() *MemorySink {
	return &MemorySink{docs: make(map[string][]byte)}
}

// Put stores a copy of data.
func (s *MemorySink) Put(_ context.Context, name string, data []byte) (Status, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if old, ok := s.docs[name]; ok && Hash(old) == Hash(data) {
		return StatusUnchanged, nil
	}
	s.docs[name] = slices.Clone(data)
	return StatusWritten, nil
}

// Get returns the document stored under name.
func (s *MemorySink) Get(name string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.docs[name]
	return data, ok
}

// Names returns the stored names, sorted.
func (s *MemorySink) Names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Sorted(maps.Keys(s.docs))
}

// Location returns name unchanged.
func (s *MemorySink) Location(name string) string { return name }

// Close does nothing.
func (s *MemorySink) Close() error { return nil }

// NullSink discards everything.
// Useful for dry runs or when only the ordering is of interest.
type NullSink struct{}

// Put reports every document as written without storing it.
func (NullSink) Put(context.Context, string, []byte) (Status, error) { return StatusWritten, nil }

// Location returns name unchanged.
func (NullSink) Location(name string) string { return name }

// Close does nothing.
func (NullSink) Close() error { return nil }

var (
	_ Sink = (*MemorySink)(nil)
	_ Sink = NullSink{}
)
