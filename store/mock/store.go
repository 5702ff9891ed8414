// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package mock provides an in-memory store.VectorStore for testing. It
// captures every upsert and delete so tests can assert on exactly what the
// pipeline persisted, and supports error injection through function fields.
package mock

import (
	"context"
	"sync"

	"github.com/poiesic/stratify/core"
	"github.com/poiesic/stratify/store"
)

// Store is an in-memory store.VectorStore. The zero value is not usable;
// construct with NewStore.
type Store struct {
	mu      sync.Mutex
	records map[string]map[string]store.Record // namespace -> id -> record
	upserts int
	deletes int
	closed  bool

	// UpsertFunc, when set, replaces the default capture behavior.
	UpsertFunc func(ctx context.Context, records []store.Record, namespace string) error

	// DeleteFunc, when set, replaces the default delete behavior.
	DeleteFunc func(ctx context.Context, docID string, namespace string) error
}

// NewStore returns an empty capturing store.
func NewStore() *Store {
	return &Store{
		records: make(map[string]map[string]store.Record),
	}
}

// Upsert records the given records under the namespace, overwriting any
// existing entries with the same ID.
func (s *Store) Upsert(ctx context.Context, records []store.Record, namespace string) error {
	if s.UpsertFunc != nil {
		return s.UpsertFunc(ctx, records, namespace)
	}
	if namespace == "" {
		return store.ErrNamespaceRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ns := s.records[namespace]
	if ns == nil {
		ns = make(map[string]store.Record)
		s.records[namespace] = ns
	}
	for _, r := range records {
		ns[r.ID] = r
	}
	s.upserts++
	return nil
}

// DeleteByDocID removes every captured record whose doc_id payload matches.
func (s *Store) DeleteByDocID(ctx context.Context, docID string, namespace string) error {
	if s.DeleteFunc != nil {
		return s.DeleteFunc(ctx, docID, namespace)
	}
	if namespace == "" {
		return store.ErrNamespaceRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for id, r := range s.records[namespace] {
		if r.Payload[core.MetaDocID] == docID {
			delete(s.records[namespace], id)
		}
	}
	s.deletes++
	return nil
}

// Close marks the store closed. It never fails.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// Records returns a copy of everything stored under the namespace.
func (s *Store) Records(namespace string) []store.Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]store.Record, 0, len(s.records[namespace]))
	for _, r := range s.records[namespace] {
		out = append(out, r)
	}
	return out
}

// Record returns the stored record with the given ID, if present.
func (s *Store) Record(namespace, id string) (store.Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.records[namespace][id]
	return r, ok
}

// UpsertCalls returns the number of Upsert invocations captured.
func (s *Store) UpsertCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.upserts
}

// DeleteCalls returns the number of DeleteByDocID invocations captured.
func (s *Store) DeleteCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deletes
}

// Closed reports whether Close has been called.
func (s *Store) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Reset clears all captured state.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = make(map[string]map[string]store.Record)
	s.upserts = 0
	s.deletes = 0
	s.closed = false
}
