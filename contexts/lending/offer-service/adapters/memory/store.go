package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"creditapp/contexts/lending/offer-service/domain/entities"
	domainerrors "creditapp/contexts/lending/offer-service/domain/errors"
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

	offers   map[string]entities.Offer
	audit    []AuditEntry
	sequence uint64

	// FixedNow pins the clock for deterministic tests; zero means wall clock.
	FixedNow time.Time
}

func NewStore() *Store {
	return &Store{
		offers: map[string]entities.Offer{},
	}
}

func (s *Store) GetOffer(_ context.Context, offerID string) (entities.Offer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	offer, ok := s.offers[offerID]
	if !ok {
		return entities.Offer{}, domainerrors.ErrOfferNotFound
	}
	return offer, nil
}

func (s *Store) ListOffersByApplication(_ context.Context, applicationID string) ([]entities.Offer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []entities.Offer
	for _, offer := range s.offers {
		if offer.ApplicationID == applicationID {
			result = append(result, offer)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].OfferID < result[j].OfferID
	})
	return result, nil
}

func (s *Store) GetActiveOffer(_ context.Context, applicationID string, bankID string) (entities.Offer, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, offer := range s.offers {
		if offer.ApplicationID == applicationID &&
			offer.BankID == bankID &&
			!entities.IsTerminal(offer.Status) {
			return offer, true, nil
		}
	}
	return entities.Offer{}, false, nil
}

func (s *Store) GetAcceptedOffer(_ context.Context, applicationID string) (entities.Offer, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, offer := range s.offers {
		if offer.ApplicationID == applicationID && offer.Status == entities.OfferStatusAccepted {
			return offer, true, nil
		}
	}
	return entities.Offer{}, false, nil
}

func (s *Store) CreateOffer(_ context.Context, offer entities.Offer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.offers[offer.OfferID]; exists {
		return domainerrors.ErrRepositoryInvariant
	}
	s.offers[offer.OfferID] = offer
	return nil
}

func (s *Store) UpdateStatus(_ context.Context, offerID string, status entities.OfferStatus, updatedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	offer, ok := s.offers[offerID]
	if !ok {
		return domainerrors.ErrOfferNotFound
	}
	offer.Status = status
	offer.UpdatedAt = updatedAt.UTC()
	s.offers[offerID] = offer
	return nil
}

func (s *Store) ListExpiryCandidates(_ context.Context, now time.Time) ([]entities.Offer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []entities.Offer
	for _, offer := range s.offers {
		if !entities.IsTerminal(offer.Status) && offer.IsExpiredAt(now) {
			result = append(result, offer)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].OfferID < result[j].OfferID
	})
	return result, nil
}

func (s *Store) ListExpiringSoon(_ context.Context, from time.Time, to time.Time) ([]entities.Offer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []entities.Offer
	for _, offer := range s.offers {
		if offer.Notified || entities.IsTerminal(offer.Status) {
			continue
		}
		if offer.ExpiresAt.After(from) && !offer.ExpiresAt.After(to) {
			result = append(result, offer)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].ExpiresAt.Equal(result[j].ExpiresAt) {
			return result[i].ExpiresAt.Before(result[j].ExpiresAt)
		}
		return result[i].OfferID < result[j].OfferID
	})
	return result, nil
}

func (s *Store) MarkNotified(_ context.Context, offerID string, updatedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	offer, ok := s.offers[offerID]
	if !ok {
		return domainerrors.ErrOfferNotFound
	}
	offer.Notified = true
	offer.UpdatedAt = updatedAt.UTC()
	s.offers[offerID] = offer
	return nil
}

// BanksForApplication lists the banks holding offers for an application.
// Implements the application service's bank resolver port.
func (s *Store) BanksForApplication(_ context.Context, applicationID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := map[string]struct{}{}
	var banks []string
	for _, offer := range s.offers {
		if offer.ApplicationID != applicationID {
			continue
		}
		if _, ok := seen[offer.BankID]; ok {
			continue
		}
		seen[offer.BankID] = struct{}{}
		banks = append(banks, offer.BankID)
	}
	sort.Strings(banks)
	return banks, nil
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
	return fmt.Sprintf("offer-%d", next), nil
}

func (s *Store) now() time.Time {
	if !s.FixedNow.IsZero() {
		return s.FixedNow
	}
	return time.Now().UTC()
}
