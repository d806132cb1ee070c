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

const auditActionStatusChanged = "APPLICATION_STATUS_CHANGED"

type ChangeStatusCommand struct {
	ApplicationID string
	NewStatus     string
}

type ChangeStatusResult struct {
	Application entities.Application
	OldStatus   entities.ApplicationStatus
}

// ChangeStatusUseCase applies one validated status transition, audits it and
// pushes the change to every bank that holds an offer on the application.
type ChangeStatusUseCase struct {
	Applications ports.ApplicationRepository
	Banks        ports.BankResolver
	Broadcaster  ports.Broadcaster
	Audit        ports.AuditRecorder
	Clock        ports.Clock
	Logger       *slog.Logger
}

func (u ChangeStatusUseCase) Execute(ctx context.Context, cmd ChangeStatusCommand) (ChangeStatusResult, error) {
	logger := application.ResolveLogger(u.Logger)

	applicationID := strings.TrimSpace(cmd.ApplicationID)
	newStatus := entities.ApplicationStatus(strings.ToUpper(strings.TrimSpace(cmd.NewStatus)))
	if applicationID == "" || !entities.IsSupportedStatus(newStatus) {
		return ChangeStatusResult{}, fmt.Errorf("%w: %s",
			domainerrors.ErrInvalidTransition,
			entities.TransitionErrorMessage("", newStatus))
	}

	item, err := u.Applications.GetApplication(ctx, applicationID)
	if err != nil {
		return ChangeStatusResult{}, err
	}

	oldStatus := item.Status
	if !entities.IsValidTransition(oldStatus, newStatus) {
		logger.Warn("status transition rejected",
			"event", "application_status_transition_rejected",
			"module", "lending/application-service",
			"layer", "application",
			"application_id", applicationID,
			"from", string(oldStatus),
			"to", string(newStatus),
		)
		return ChangeStatusResult{}, fmt.Errorf("%w: %s",
			domainerrors.ErrInvalidTransition,
			entities.TransitionErrorMessage(oldStatus, newStatus))
	}

	now := u.Clock.Now().UTC()
	if err := u.Applications.UpdateStatus(ctx, applicationID, newStatus, item.Version, now); err != nil {
		logger.Error("status update failed",
			"event", "application_status_update_failed",
			"module", "lending/application-service",
			"layer", "application",
			"application_id", applicationID,
			"error", err.Error(),
		)
		return ChangeStatusResult{}, err
	}
	item.Status = newStatus
	item.Version++
	item.UpdatedAt = now

	if err := u.Audit.Record(ctx, "Application", applicationID, auditActionStatusChanged); err != nil {
		logger.Warn("audit record failed",
			"event", "application_status_audit_failed",
			"module", "lending/application-service",
			"layer", "application",
			"application_id", applicationID,
			"error", err.Error(),
		)
	}

	u.notifyBanks(ctx, logger, item, oldStatus)

	logger.Info("application status changed",
		"event", "application_status_changed",
		"module", "lending/application-service",
		"layer", "application",
		"application_id", applicationID,
		"from", string(oldStatus),
		"to", string(newStatus),
	)
	return ChangeStatusResult{Application: item, OldStatus: oldStatus}, nil
}

// notifyBanks is fire-and-forget: a resolver failure is logged, never
// surfaced to the caller of the business operation.
func (u ChangeStatusUseCase) notifyBanks(
	ctx context.Context,
	logger *slog.Logger,
	item entities.Application,
	oldStatus entities.ApplicationStatus,
) {
	if u.Banks == nil || u.Broadcaster == nil {
		return
	}
	bankIDs, err := u.Banks.BanksForApplication(ctx, item.ApplicationID)
	if err != nil {
		logger.Warn("bank resolution for broadcast failed",
			"event", "application_status_broadcast_skipped",
			"module", "lending/application-service",
			"layer", "application",
			"application_id", item.ApplicationID,
			"error", err.Error(),
		)
		return
	}
	for _, bankID := range bankIDs {
		u.Broadcaster.BroadcastStatusChange(
			bankID,
			item.ApplicationID,
			string(oldStatus),
			string(item.Status),
		)
	}
}
