// Package store implements the local-first draft/commit data store for
// the scheduler. It holds two copies of the canonical document: the
// durable "saved" snapshot and an editable "draft". Every mutation runs
// against the draft; only Save persists, and Discard throws the draft
// away. All entry points take the acting session explicitly so the core
// stays pure and testable.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gartstein/shiftstore/internal/scheduler/auth"
	e "github.com/gartstein/shiftstore/internal/scheduler/errors"
	"github.com/gartstein/shiftstore/internal/scheduler/events"
	"github.com/gartstein/shiftstore/internal/scheduler/models"
	"github.com/gartstein/shiftstore/internal/scheduler/normalize"
	"github.com/gartstein/shiftstore/internal/scheduler/storage"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// EventProducer receives store lifecycle notifications. A nil producer
// disables eventing (offline deployments, tests).
type EventProducer interface {
	Produce(eventType events.EventType, companyCode, entityID string)
}

// Store is the draft/saved transaction model plus the per-entity CRUD
// engine and credential-change workflow layered on top of it.
type Store struct {
	backing  storage.BackingStore
	hasher   auth.Hasher
	producer EventProducer
	logger   *zap.Logger

	now   func() time.Time
	newID func() string

	mu          sync.Mutex
	saved       models.Document
	draft       models.Document
	dirty       bool
	initialized bool
}

// Option configures a Store.
type Option func(*Store)

// WithProducer attaches an event producer.
func WithProducer(p EventProducer) Option {
	return func(s *Store) { s.producer = p }
}

// WithClock overrides the timestamp source, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDFunc overrides id generation, for tests.
func WithIDFunc(fn func() string) Option {
	return func(s *Store) { s.newID = fn }
}

// New constructs a Store. Init must be called before use.
func New(backing storage.BackingStore, hasher auth.Hasher, logger *zap.Logger, opts ...Option) *Store {
	s := &Store{
		backing: backing,
		hasher:  hasher,
		logger:  logger.Named("store"),
		now:     time.Now,
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Init loads and normalizes the persisted document. A second call is a
// no-op.
func (s *Store) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.initialized {
		return nil
	}

	data, err := s.backing.Load(ctx)
	if err != nil {
		return fmt.Errorf("%w: load: %v", e.ErrStorage, err)
	}
	doc := normalize.FromJSON(data)
	s.saved = doc
	s.draft = doc.Clone()
	s.dirty = false
	s.initialized = true
	s.logger.Info("store initialized",
		zap.Int("companies", len(doc.Companies)),
		zap.Int("users", len(doc.Users)),
		zap.Int("shifts", len(doc.Shifts)),
	)
	return nil
}

// Save re-normalizes the draft and commits it. Normalization is re-run
// here rather than trusted from Init so accumulated draft edits cannot
// desynchronize the canonical shape from what gets persisted. On I/O
// failure the in-memory state is left untouched.
func (s *Store) Save(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	normalized := normalize.Normalize(s.draft)
	data, err := json.Marshal(normalized)
	if err != nil {
		return fmt.Errorf("%w: encode: %v", e.ErrStorage, err)
	}
	if err := s.backing.Save(ctx, data); err != nil {
		return fmt.Errorf("%w: save: %v", e.ErrStorage, err)
	}

	s.saved = normalized
	s.draft = normalized.Clone()
	s.dirty = false
	s.produce(events.DocumentSaved, "", "")
	return nil
}

// Discard reverts the draft to the last saved snapshot. Unsaved edits
// are gone for good; there is no undo history beyond this single level.
func (s *Store) Discard() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft = s.saved.Clone()
	s.dirty = false
}

// Dirty reports whether the draft has unsaved edits.
func (s *Store) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty
}

// Saved returns a tenant-scoped deep copy of the committed snapshot.
func (s *Store) Saved(sess auth.Session) models.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return scopeDocument(s.saved, sess)
}

// Draft returns a tenant-scoped deep copy of the editable state.
func (s *Store) Draft(sess auth.Session) models.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return scopeDocument(s.draft, sess)
}

// Export serializes the saved snapshot for backup.
func (s *Store) Export() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := json.MarshalIndent(s.saved, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("%w: encode: %v", e.ErrStorage, err)
	}
	return data, nil
}

// Import replaces all state with the normalized document and persists
// it immediately. Prior state is not merged.
func (s *Store) Import(ctx context.Context, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := normalize.FromJSON(data)
	encoded, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("%w: encode: %v", e.ErrStorage, err)
	}
	if err := s.backing.Save(ctx, encoded); err != nil {
		return fmt.Errorf("%w: save: %v", e.ErrStorage, err)
	}

	s.saved = doc
	s.draft = doc.Clone()
	s.dirty = false
	s.produce(events.DocumentImported, "", "")
	return nil
}

// Wipe clears durable storage and resets to an empty canonical state.
func (s *Store) Wipe(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.backing.Clear(ctx); err != nil {
		return fmt.Errorf("%w: clear: %v", e.ErrStorage, err)
	}
	empty := normalize.Normalize(models.Document{})
	s.saved = empty
	s.draft = empty.Clone()
	s.dirty = false
	return nil
}

// markEdited flags the draft dirty and stamps the edit time. Every CRUD
// mutation ends up here.
func (s *Store) markEdited() {
	s.dirty = true
	s.draft.Settings.LastEditedAt = s.now()
}

func (s *Store) produce(eventType events.EventType, companyCode, entityID string) {
	if s.producer == nil {
		return
	}
	s.producer.Produce(eventType, companyCode, entityID)
}
