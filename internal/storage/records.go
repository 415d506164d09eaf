// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jeranaias/shuaib-registry/internal/kv"
	"github.com/jeranaias/shuaib-registry/internal/student"
)

// StorageKey is the kv key holding the serialized collection.
const StorageKey = "shuaib_students"

// =============================================================================
// STORE
// =============================================================================

// Store is the ordered collection of student records.
// It is safe for concurrent use. Subscribers are called without the lock held.
type Store struct {
	mu      sync.RWMutex
	backend kv.Storage
	records []student.Record

	// raw is the last collection read from or written to the backend.
	raw []byte

	subMu   sync.Mutex
	subs    map[int]func([]student.Record)
	nextSub int

	logger *zap.Logger
	now    func() time.Time
	newID  func() string
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for load fallbacks.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock overrides the creation timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator overrides record id generation.
func WithIDGenerator(gen func() string) Option {
	return func(s *Store) { s.newID = gen }
}

// Open creates a store over backend and loads the persisted collection.
// Loading never fails: absent data yields an empty store, unreadable or
// corrupt data is logged and also yields an empty store.
func Open(backend kv.Storage, opts ...Option) *Store {
	s := &Store{
		backend: backend,
		subs:    make(map[int]func([]student.Record)),
		logger:  zap.NewNop(),
		now:     time.Now,
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.records = s.load()
	return s
}

func (s *Store) load() []student.Record {
	data, err := s.backend.Get(StorageKey)
	if errors.Is(err, kv.ErrNotFound) {
		s.logger.Info("no persisted records, starting empty")
		return []student.Record{}
	}
	if err != nil {
		s.logger.Warn("failed to read persisted records, starting empty", zap.Error(err))
		return []student.Record{}
	}

	records, err := s.decode(data)
	if err != nil {
		s.logger.Warn("persisted records are corrupt, starting empty",
			zap.Error(err), zap.Int("bytes", len(data)))
		return []student.Record{}
	}
	s.raw = data
	s.logger.Debug("loaded records", zap.Int("count", len(records)))
	return records
}

// decode parses a persisted collection, dropping repeated ids.
func (s *Store) decode(data []byte) ([]student.Record, error) {
	var records []student.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(records))
	out := make([]student.Record, 0, len(records))
	for _, r := range records {
		if seen[r.ID] {
			s.logger.Warn("dropping record with duplicate id", zap.String("id", r.ID))
			continue
		}
		seen[r.ID] = true
		out = append(out, r)
	}
	return out, nil
}

// Reload re-reads the backend. When another process changed the persisted
// collection, the in-memory records are replaced and subscribers notified.
// It reports whether anything changed. Unreadable or corrupt data leaves
// the store as it was.
func (s *Store) Reload() (bool, error) {
	s.mu.Lock()
	data, err := s.backend.Get(StorageKey)
	if errors.Is(err, kv.ErrNotFound) {
		data, err = nil, nil
	}
	if err != nil {
		s.mu.Unlock()
		return false, &StoreError{Op: "reload", Err: err}
	}
	if bytes.Equal(data, s.raw) {
		s.mu.Unlock()
		return false, nil
	}

	records := []student.Record{}
	if len(data) > 0 {
		if records, err = s.decode(data); err != nil {
			s.mu.Unlock()
			return false, &StoreError{Op: "reload", Err: err}
		}
	}
	s.records = records
	s.raw = data
	snap := s.snapshot()
	s.mu.Unlock()

	s.logger.Info("records changed on disk", zap.Int("count", len(snap)))
	s.notify(snap)
	return true, nil
}

// =============================================================================
// MUTATIONS
// =============================================================================

// Add validates the draft, assigns a fresh id and the current time,
// prepends the record and persists the collection.
func (s *Store) Add(d student.Draft) (student.Record, error) {
	d = d.Canonical()
	if err := d.Validate(); err != nil {
		return student.Record{}, err
	}

	s.mu.Lock()
	rec := student.NewRecord(d, s.uniqueID(), s.now())
	next := make([]student.Record, 0, len(s.records)+1)
	next = append(next, rec)
	next = append(next, s.records...)
	if err := s.commit("add", next); err != nil {
		s.mu.Unlock()
		return student.Record{}, err
	}
	snap := s.snapshot()
	s.mu.Unlock()

	s.notify(snap)
	return rec, nil
}

// Remove deletes the record with the given id. It reports whether a record
// was removed; an unknown id is a no-op and leaves storage untouched.
func (s *Store) Remove(id string) (bool, error) {
	s.mu.Lock()
	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		return false, nil
	}

	next := make([]student.Record, 0, len(s.records)-1)
	next = append(next, s.records[:idx]...)
	next = append(next, s.records[idx+1:]...)
	if err := s.commit("remove", next); err != nil {
		s.mu.Unlock()
		return false, err
	}
	snap := s.snapshot()
	s.mu.Unlock()

	s.notify(snap)
	return true, nil
}

// Clear removes every record and persists the empty collection.
func (s *Store) Clear() error {
	s.mu.Lock()
	if err := s.commit("clear", []student.Record{}); err != nil {
		s.mu.Unlock()
		return err
	}
	snap := s.snapshot()
	s.mu.Unlock()

	s.notify(snap)
	return nil
}

// ImportResult reports what Import did with each input record.
type ImportResult struct {
	Added     int
	Duplicate int
	Invalid   int
}

// Import appends externally produced records, keeping their ids and
// timestamps. Records whose id is already present (or repeated in the
// input) are skipped, as are records failing validation. Missing ids and
// timestamps are filled in. The collection is persisted once.
func (s *Store) Import(records []student.Record) (ImportResult, error) {
	var res ImportResult

	s.mu.Lock()
	seen := make(map[string]bool, len(s.records)+len(records))
	for _, r := range s.records {
		seen[r.ID] = true
	}

	next := append([]student.Record{}, s.records...)
	for _, r := range records {
		d := r.Draft().Canonical()
		if err := d.Validate(); err != nil {
			s.logger.Warn("skipping invalid imported record", zap.String("id", r.ID), zap.Error(err))
			res.Invalid++
			continue
		}
		if r.ID == "" {
			r.ID = s.uniqueIDExcluding(seen)
		}
		if seen[r.ID] {
			res.Duplicate++
			continue
		}
		at := r.CreatedAt
		if at.IsZero() || at.UnixMilli() == 0 {
			at = s.now()
		}
		seen[r.ID] = true
		next = append(next, student.NewRecord(d, r.ID, at))
		res.Added++
	}

	if res.Added == 0 {
		s.mu.Unlock()
		return res, nil
	}
	if err := s.commit("import", next); err != nil {
		s.mu.Unlock()
		return ImportResult{}, err
	}
	snap := s.snapshot()
	s.mu.Unlock()

	s.notify(snap)
	return res, nil
}

// commit persists next and, on success, makes it the current collection.
// Callers hold s.mu.
func (s *Store) commit(op string, next []student.Record) error {
	data, err := json.Marshal(next)
	if err != nil {
		return &StoreError{Op: op, Err: err}
	}
	if err := s.backend.Set(StorageKey, data); err != nil {
		return &StoreError{Op: op, Err: err}
	}
	s.records = next
	s.raw = data
	return nil
}

func (s *Store) uniqueID() string {
	for {
		id := s.newID()
		if s.indexOf(id) < 0 {
			return id
		}
	}
}

func (s *Store) uniqueIDExcluding(taken map[string]bool) string {
	for {
		id := s.newID()
		if !taken[id] {
			return id
		}
	}
}

func (s *Store) indexOf(id string) int {
	for i, r := range s.records {
		if r.ID == id {
			return i
		}
	}
	return -1
}

// =============================================================================
// READS
// =============================================================================

// Records returns a copy of the collection, newest first.
func (s *Store) Records() []student.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot()
}

// Len returns the number of records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Get returns the record with the given id.
func (s *Store) Get(id string) (student.Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexOf(id); i >= 0 {
		return s.records[i], true
	}
	return student.Record{}, false
}

func (s *Store) snapshot() []student.Record {
	return append([]student.Record{}, s.records...)
}

// =============================================================================
// SUBSCRIPTIONS
// =============================================================================

// Subscribe registers fn to receive a snapshot after every successful
// mutation. The returned function removes the subscription.
func (s *Store) Subscribe(fn func([]student.Record)) (unsubscribe func()) {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.subs, id)
			s.subMu.Unlock()
		})
	}
}

func (s *Store) notify(snap []student.Record) {
	s.subMu.Lock()
	fns := make([]func([]student.Record), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(append([]student.Record{}, snap...))
	}
}

// =============================================================================
// ERRORS
// =============================================================================

// StoreError reports a failed persistence step. The in-memory collection is
// unchanged when a StoreError is returned.
type StoreError struct {
	Op  string
	Err error
}

// Error implements the error interface.
func (e *StoreError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *StoreError) Unwrap() error {
	return e.Err
}
