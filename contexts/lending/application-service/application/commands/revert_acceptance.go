package commands

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	application "creditapp/contexts/lending/application-service/application"
	"creditapp/contexts/lending/application-service/domain/entities"
	domainerrors "creditapp/contexts/lending/application-service/domain/errors"
	"creditapp/contexts/lending/application-service/ports"
)

const auditActionAcceptanceReverted = "APPLICATION_ACCEPTANCE_REVERTED"

// RevertAcceptanceUseCase moves an ACCEPTED application back to SUBMITTED
// after its accepted offer lapses. The user-facing transition table has no
// such edge; this system-initiated path is the only caller allowed to take
// it.
type RevertAcceptanceUseCase struct {
	Applications ports.ApplicationRepository
	Banks        ports.BankResolver
	Broadcaster  ports.Broadcaster
	Audit        ports.AuditRecorder
	Clock        ports.Clock
	Logger       *slog.Logger
}

func (u RevertAcceptanceUseCase) Execute(ctx context.Context, applicationID string) (entities.Application, error) {
	logger := application.ResolveLogger(u.Logger)

	applicationID = strings.TrimSpace(applicationID)
	if applicationID == "" {
		return entities.Application{}, domainerrors.ErrApplicationNotFound
	}

	item, err := u.Applications.GetApplication(ctx, applicationID)
	if err != nil {
		return entities.Application{}, err
	}
	if item.Status != entities.ApplicationStatusAccepted {
		return entities.Application{}, fmt.Errorf("%w: %s",
			domainerrors.ErrInvalidTransition,
			entities.TransitionErrorMessage(item.Status, entities.ApplicationStatusSubmitted))
	}

	now := u.Clock.Now().UTC()
	if err := u.Applications.UpdateStatus(ctx, applicationID, entities.ApplicationStatusSubmitted, item.Version, now); err != nil {
		logger.Error("acceptance revert failed",
			"event", "application_acceptance_revert_failed",
			"module", "lending/application-service",
			"layer", "application",
			"application_id", applicationID,
			"error", err.Error(),
		)
		return entities.Application{}, err
	}
	oldStatus := item.Status
	item.Status = entities.ApplicationStatusSubmitted
	item.Version++
	item.UpdatedAt = now

	if err := u.Audit.Record(ctx, "Application", applicationID, auditActionAcceptanceReverted); err != nil {
		logger.Warn("audit record failed",
			"event", "application_acceptance_audit_failed",
			"module", "lending/application-service",
			"layer", "application",
			"application_id", applicationID,
			"error", err.Error(),
		)
	}

	if u.Banks != nil && u.Broadcaster != nil {
		bankIDs, err := u.Banks.BanksForApplication(ctx, applicationID)
		if err != nil {
			logger.Warn("bank resolution for broadcast failed",
				"event", "application_acceptance_broadcast_skipped",
				"module", "lending/application-service",
				"layer", "application",
				"application_id", applicationID,
				"error", err.Error(),
			)
		} else {
			for _, bankID := range bankIDs {
				u.Broadcaster.BroadcastStatusChange(
					bankID,
					applicationID,
					string(oldStatus),
					string(item.Status),
				)
			}
		}
	}

	logger.Info("application acceptance reverted",
		"event", "application_acceptance_reverted",
		"module", "lending/application-service",
		"layer", "application",
		"application_id", applicationID,
	)
	return item, nil
}
