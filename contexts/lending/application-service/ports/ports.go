package ports

import (
	"context"
	"time"

	"creditapp/contexts/lending/application-service/domain/entities"
)

// ApplicationRepository owns application persistence. UpdateStatus must bump
// the optimistic version counter and fail on a stale expected version.
type ApplicationRepository interface {
	GetApplication(ctx context.Context, applicationID string) (entities.Application, error)
	CreateApplication(ctx context.Context, application entities.Application) error
	UpdateStatus(
		ctx context.Context,
		applicationID string,
		status entities.ApplicationStatus,
		expectedVersion int64,
		updatedAt time.Time,
	) error
}

// BankResolver reports which banks currently hold offers for an application.
// Implemented against the offer store; used to fan out status changes.
type BankResolver interface {
	BanksForApplication(ctx context.Context, applicationID string) ([]string, error)
}

// QueueItem is the live-queue payload pushed to bank officers.
type QueueItem struct {
	ApplicationID string    `json:"applicationId"`
	BorrowerID    string    `json:"borrowerId"`
	LoanType      string    `json:"loanType"`
	LoanAmount    string    `json:"loanAmount"`
	TermMonths    int       `json:"termMonths"`
	Currency      string    `json:"currency"`
	Status        string    `json:"status"`
	SubmittedAt   time.Time `json:"submittedAt"`
}

// Broadcaster pushes queue/status updates to connected bank officers.
// Both calls are fire-and-forget from the caller's point of view.
type Broadcaster interface {
	BroadcastApplicationUpdate(bankID string, item any)
	BroadcastStatusChange(bankID string, applicationID string, oldStatus string, newStatus string)
}

// AuditRecorder records a business action against an entity. Storage format
// is owned elsewhere; callers pass entity id and action explicitly.
type AuditRecorder interface {
	Record(ctx context.Context, entityType string, entityID string, action string) error
}

// Clock allows deterministic testing of timestamps.
type Clock interface {
	Now() time.Time
}

// IDGenerator abstracts application identifier generation.
type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
