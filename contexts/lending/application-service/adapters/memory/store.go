package memory

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"creditapp/contexts/lending/application-service/domain/entities"
	domainerrors "creditapp/contexts/lending/application-service/domain/errors"
)

// AuditEntry is retained so tests can assert explicit audit calls.
type AuditEntry struct {
	EntityType string
	EntityID   string
	Action     string
	RecordedAt time.Time
}

type Store struct {
	mu sync.RWMutex

	applications map[string]entities.Application
	audit        []AuditEntry
	sequence     uint64

	// FixedNow pins the clock for deterministic tests; zero means wall clock.
	FixedNow time.Time
}

func NewStore() *Store {
	return &Store{
		applications: map[string]entities.Application{},
	}
}

func (s *Store) GetApplication(_ context.Context, applicationID string) (entities.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.applications[applicationID]
	if !ok {
		return entities.Application{}, domainerrors.ErrApplicationNotFound
	}
	return item, nil
}

func (s *Store) CreateApplication(_ context.Context, application entities.Application) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.applications[application.ApplicationID]; exists {
		return domainerrors.ErrRepositoryInvariant
	}
	s.applications[application.ApplicationID] = application
	return nil
}

func (s *Store) UpdateStatus(
	_ context.Context,
	applicationID string,
	status entities.ApplicationStatus,
	expectedVersion int64,
	updatedAt time.Time,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.applications[applicationID]
	if !ok {
		return domainerrors.ErrApplicationNotFound
	}
	if item.Version != expectedVersion {
		return domainerrors.ErrVersionConflict
	}
	item.Status = status
	item.Version++
	item.UpdatedAt = updatedAt.UTC()
	s.applications[applicationID] = item
	return nil
}

func (s *Store) Record(_ context.Context, entityType string, entityID string, action string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.audit = append(s.audit, AuditEntry{
		EntityType: entityType,
		EntityID:   entityID,
		Action:     action,
		RecordedAt: s.now(),
	})
	return nil
}

func (s *Store) AuditEntries() []AuditEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]AuditEntry(nil), s.audit...)
}

func (s *Store) Now() time.Time {
	if !s.FixedNow.IsZero() {
		return s.FixedNow
	}
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	next := atomic.AddUint64(&s.sequence, 1)
	return fmt.Sprintf("app-%d", next), nil
}

func (s *Store) now() time.Time {
	if !s.FixedNow.IsZero() {
		return s.FixedNow
	}
	return time.Now().UTC()
}
