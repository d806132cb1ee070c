package commands

import (
	"context"
	"log/slog"
	"strings"

	application "creditapp/contexts/lending/offer-service/application"
	"creditapp/contexts/lending/offer-service/domain/entities"
	domainerrors "creditapp/contexts/lending/offer-service/domain/errors"
	"creditapp/contexts/lending/offer-service/ports"
)

const (
	auditActionOfferSelected = "OFFER_SELECTED"
	auditActionOfferReverted = "OFFER_REVERTED"
)

type SelectOfferCommand struct {
	ApplicationID string
	OfferID       string
	BorrowerID    string
}

// SelectOfferUseCase accepts one offer on behalf of the borrower. Selecting
// a new offer while another one is already ACCEPTED reverts the previous
// offer to SUBMITTED before the new acceptance is recorded.
type SelectOfferUseCase struct {
	Offers       ports.OfferRepository
	Applications ports.ApplicationGateway
	Broadcaster  ports.Broadcaster
	Audit        ports.AuditRecorder
	Clock        ports.Clock
	Logger       *slog.Logger
}

func (u SelectOfferUseCase) Execute(ctx context.Context, cmd SelectOfferCommand) (entities.Offer, error) {
	logger := application.ResolveLogger(u.Logger)

	applicationID := strings.TrimSpace(cmd.ApplicationID)
	offerID := strings.TrimSpace(cmd.OfferID)
	borrowerID := strings.TrimSpace(cmd.BorrowerID)
	if applicationID == "" || offerID == "" || borrowerID == "" {
		return entities.Offer{}, domainerrors.ErrInvalidOfferRequest
	}

	summary, err := u.Applications.GetApplication(ctx, applicationID)
	if err != nil {
		return entities.Offer{}, err
	}
	if summary.BorrowerID != borrowerID {
		return entities.Offer{}, domainerrors.ErrNotApplicationOwner
	}

	offer, err := u.Offers.GetOffer(ctx, offerID)
	if err != nil {
		return entities.Offer{}, err
	}
	if offer.ApplicationID != applicationID {
		return entities.Offer{}, domainerrors.ErrOfferNotFound
	}
	if entities.IsTerminal(offer.Status) {
		return entities.Offer{}, domainerrors.ErrOfferNotSelectable
	}

	now := u.Clock.Now().UTC()
	if offer.IsExpiredAt(now) {
		return entities.Offer{}, domainerrors.ErrOfferExpired
	}

	previous, found, err := u.Offers.GetAcceptedOffer(ctx, applicationID)
	if err != nil {
		return entities.Offer{}, err
	}
	if found && previous.OfferID != offer.OfferID {
		if err := u.Offers.UpdateStatus(ctx, previous.OfferID, entities.OfferStatusSubmitted, now); err != nil {
			return entities.Offer{}, err
		}
		if err := u.Audit.Record(ctx, "Offer", previous.OfferID, auditActionOfferReverted); err != nil {
			logger.Warn("audit record failed",
				"event", "offer_select_audit_failed",
				"module", "lending/offer-service",
				"layer", "application",
				"offer_id", previous.OfferID,
				"error", err.Error(),
			)
		}
		logger.Info("previously accepted offer reverted",
			"event", "offer_reverted",
			"module", "lending/offer-service",
			"layer", "application",
			"offer_id", previous.OfferID,
			"application_id", applicationID,
		)
	}

	if err := u.Offers.UpdateStatus(ctx, offer.OfferID, entities.OfferStatusAccepted, now); err != nil {
		return entities.Offer{}, err
	}

	if summary.Status != string(entities.OfferStatusAccepted) {
		if err := u.Applications.ChangeStatus(ctx, applicationID, "ACCEPTED"); err != nil {
			logger.Error("application status change failed",
				"event", "offer_select_status_change_failed",
				"module", "lending/offer-service",
				"layer", "application",
				"application_id", applicationID,
				"offer_id", offer.OfferID,
				"error", err.Error(),
			)
			return entities.Offer{}, err
		}
	}

	if err := u.Audit.Record(ctx, "Offer", offer.OfferID, auditActionOfferSelected); err != nil {
		logger.Warn("audit record failed",
			"event", "offer_select_audit_failed",
			"module", "lending/offer-service",
			"layer", "application",
			"offer_id", offer.OfferID,
			"error", err.Error(),
		)
	}

	if u.Broadcaster != nil {
		u.Broadcaster.BroadcastApplicationUpdate(offer.BankID, map[string]any{
			"applicationId": applicationID,
			"offerId":       offer.OfferID,
			"status":        string(entities.OfferStatusAccepted),
		})
	}

	offer.Status = entities.OfferStatusAccepted
	offer.UpdatedAt = now
	logger.Info("offer selected",
		"event", "offer_selected",
		"module", "lending/offer-service",
		"layer", "application",
		"offer_id", offer.OfferID,
		"application_id", applicationID,
		"bank_id", offer.BankID,
	)
	return offer, nil
}
