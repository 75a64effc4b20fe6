// Package memory provides in-memory store implementations for development
// and testing.
package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"channelwatch/internal/watch"
)

// Store implements watch.SourceStore and watch.RecordStore in memory.
type Store struct {
	mu      sync.RWMutex
	sources map[string]watch.Source
	order   []string
	records map[string]watch.Record
	nextID  int

	// FailCreate forces CreateRecord to fail, for store-failure paths.
	FailCreate bool
	// FailUpdate forces SetActive to fail.
	FailUpdate bool
}

// New constructs an empty Store.
func New() *Store {
	return &Store{
		sources: make(map[string]watch.Source),
		records: make(map[string]watch.Record),
	}
}

// AddSource registers a source, assigning an ID when absent.
func (s *Store) AddSource(src watch.Source) watch.Source {
	s.mu.Lock()
	defer s.mu.Unlock()
	if src.ID == "" {
		s.nextID++
		src.ID = fmt.Sprintf("source-%d", s.nextID)
	}
	if _, exists := s.sources[src.ID]; !exists {
		s.order = append(s.order, src.ID)
	}
	s.sources[src.ID] = src
	return src
}

// ListSources returns all sources in insertion order.
func (s *Store) ListSources(_ context.Context) ([]watch.Source, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]watch.Source, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.sources[id])
	}
	return out, nil
}

// SetActive flips a source's activation flag.
func (s *Store) SetActive(_ context.Context, sourceID string, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailUpdate {
		return errors.New("update rejected")
	}
	src, ok := s.sources[sourceID]
	if !ok {
		return fmt.Errorf("source %s not found", sourceID)
	}
	src.Active = active
	s.sources[sourceID] = src
	return nil
}

// ActivateAll sets every source active and returns the count touched.
func (s *Store) ActivateAll(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, src := range s.sources {
		src.Active = true
		s.sources[id] = src
	}
	return len(s.sources), nil
}

// Exists reports whether a record with this URL was already created.
func (s *Store) Exists(_ context.Context, url string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.records[url]
	return ok, nil
}

// CreateRecord files a processed record keyed by its URL.
func (s *Store) CreateRecord(_ context.Context, rec watch.Record) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailCreate {
		return "", errors.New("create rejected")
	}
	s.records[rec.URL] = rec
	s.nextID++
	return fmt.Sprintf("record-%d", s.nextID), nil
}

// Source returns a source by ID for test assertions.
func (s *Store) Source(id string) (watch.Source, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	src, ok := s.sources[id]
	return src, ok
}

// Records returns all created records.
func (s *Store) Records() []watch.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]watch.Record, 0, len(s.records))
	for _, rec := range s.records {
		out = append(out, rec)
	}
	return out
}
