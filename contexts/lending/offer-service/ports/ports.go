package ports

import (
	"context"
	"time"

	"creditapp/contexts/lending/offer-service/domain/entities"
)

// OfferRepository owns offer persistence. Expiry selection predicates live
// here so sweeps stay idempotent at the query level.
type OfferRepository interface {
	GetOffer(ctx context.Context, offerID string) (entities.Offer, error)
	ListOffersByApplication(ctx context.Context, applicationID string) ([]entities.Offer, error)
	// GetActiveOffer returns the single non-terminal offer for the pair, if any.
	GetActiveOffer(ctx context.Context, applicationID string, bankID string) (entities.Offer, bool, error)
	// GetAcceptedOffer returns the currently ACCEPTED offer for an application, if any.
	GetAcceptedOffer(ctx context.Context, applicationID string) (entities.Offer, bool, error)
	CreateOffer(ctx context.Context, offer entities.Offer) error
	UpdateStatus(ctx context.Context, offerID string, status entities.OfferStatus, updatedAt time.Time) error
	// ListExpiryCandidates selects offers with expires_at <= now and a
	// non-terminal status.
	ListExpiryCandidates(ctx context.Context, now time.Time) ([]entities.Offer, error)
	// ListExpiringSoon selects offers with expires_at in (from, to] and
	// notified = false, ordered by expires_at then offer id.
	ListExpiringSoon(ctx context.Context, from time.Time, to time.Time) ([]entities.Offer, error)
	MarkNotified(ctx context.Context, offerID string, updatedAt time.Time) error
}

// ApplicationSummary is the slice of application state the offer workflows
// need from the application service.
type ApplicationSummary struct {
	ApplicationID string
	BorrowerID    string
	Status        string
}

// ApplicationGateway is the narrow view of the application service consumed
// by offer workflows: ownership lookup and validated status changes.
type ApplicationGateway interface {
	GetApplication(ctx context.Context, applicationID string) (ApplicationSummary, error)
	ChangeStatus(ctx context.Context, applicationID string, newStatus string) error
	// RevertToSubmitted moves an ACCEPTED application back to SUBMITTED
	// when its accepted offer lapses. This path is exempt from the
	// user-facing transition table.
	RevertToSubmitted(ctx context.Context, applicationID string) error
}

// ExpiryNotifier dispatches one expiration warning for an offer. It may
// fail; callers treat failure as a countable outcome, not a fatal one.
type ExpiryNotifier interface {
	NotifyExpiringOffer(ctx context.Context, offer entities.Offer) error
}

// Metrics is the counters/timers sink for the offer sweeps.
type Metrics interface {
	AddOffersExpired(count int)
	AddWarningsSent(count int)
	AddWarningsFailed(count int)
	IncSchedulerFailure(job string)
	ObserveSchedulerDuration(job string, elapsed time.Duration)
}

// Broadcaster pushes offer-driven changes to connected bank officers.
type Broadcaster interface {
	BroadcastApplicationUpdate(bankID string, item any)
	BroadcastStatusChange(bankID string, applicationID string, oldStatus string, newStatus string)
}

// AuditRecorder records a business action against an entity.
type AuditRecorder interface {
	Record(ctx context.Context, entityType string, entityID string, action string) error
}

// Clock allows deterministic testing of expiry windows.
type Clock interface {
	Now() time.Time
}

// IDGenerator abstracts offer identifier generation.
type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
