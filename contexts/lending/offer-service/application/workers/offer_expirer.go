package workers

import (
	"context"
	"log/slog"
	"time"

	application "creditapp/contexts/lending/offer-service/application"
	"creditapp/contexts/lending/offer-service/domain/entities"
	domainerrors "creditapp/contexts/lending/offer-service/domain/errors"
	"creditapp/contexts/lending/offer-service/ports"
)

const (
	offerExpirerJob          = "offer_expirer"
	auditActionOfferExpired  = "OFFER_EXPIRED"
	auditActionOfferReverted = "OFFER_REVERTED"
)

// OfferExpirer transitions overdue offers to EXPIRED. The daily sweep runs
// under a single failure boundary; re-running immediately is a no-op because
// the candidate query excludes terminal statuses.
type OfferExpirer struct {
	Offers       ports.OfferRepository
	Applications ports.ApplicationGateway
	Audit        ports.AuditRecorder
	Metrics      ports.Metrics
	Clock        ports.Clock
	Logger       *slog.Logger
}

// RunOnce performs one sweep and returns the number of expired offers.
func (w OfferExpirer) RunOnce(ctx context.Context) (int, error) {
	logger := application.ResolveLogger(w.Logger)
	started := w.Clock.Now().UTC()

	candidates, err := w.Offers.ListExpiryCandidates(ctx, started)
	if err != nil {
		if w.Metrics != nil {
			w.Metrics.IncSchedulerFailure(offerExpirerJob)
		}
		logger.Error("expiry candidate query failed",
			"event", "offer_expiry_sweep_failed",
			"module", "lending/offer-service",
			"layer", "application",
			"error", err.Error(),
		)
		return 0, err
	}

	expired := 0
	for _, offer := range candidates {
		if err := w.expireOffer(ctx, logger, offer, started); err != nil {
			if w.Metrics != nil {
				w.Metrics.IncSchedulerFailure(offerExpirerJob)
			}
			logger.Error("expiry sweep aborted",
				"event", "offer_expiry_sweep_failed",
				"module", "lending/offer-service",
				"layer", "application",
				"offer_id", offer.OfferID,
				"expired_so_far", expired,
				"error", err.Error(),
			)
			return expired, err
		}
		expired++
	}

	if w.Metrics != nil {
		w.Metrics.AddOffersExpired(expired)
		w.Metrics.ObserveSchedulerDuration(offerExpirerJob, w.Clock.Now().UTC().Sub(started))
	}
	logger.Info("offer expiry sweep finished",
		"event", "offer_expiry_sweep_finished",
		"module", "lending/offer-service",
		"layer", "application",
		"expired", expired,
	)
	return expired, nil
}

// ExpireOne expires a single offer on demand, outside the scheduled sweep.
func (w OfferExpirer) ExpireOne(ctx context.Context, offerID string) (entities.Offer, error) {
	logger := application.ResolveLogger(w.Logger)

	offer, err := w.Offers.GetOffer(ctx, offerID)
	if err != nil {
		return entities.Offer{}, err
	}
	if entities.IsTerminal(offer.Status) {
		return entities.Offer{}, domainerrors.ErrOfferNotExpirable
	}

	now := w.Clock.Now().UTC()
	if !offer.IsExpiredAt(now) {
		return entities.Offer{}, domainerrors.ErrOfferNotExpirable
	}
	if err := w.expireOffer(ctx, logger, offer, now); err != nil {
		return entities.Offer{}, err
	}
	if w.Metrics != nil {
		w.Metrics.AddOffersExpired(1)
	}
	offer.Status = entities.OfferStatusExpired
	offer.UpdatedAt = now
	return offer, nil
}

// expireOffer marks one offer EXPIRED. Expiring an ACCEPTED offer also
// reverts its application from ACCEPTED back to SUBMITTED so the borrower
// can pick another offer.
func (w OfferExpirer) expireOffer(ctx context.Context, logger *slog.Logger, offer entities.Offer, now time.Time) error {
	wasAccepted := offer.Status == entities.OfferStatusAccepted

	if err := w.Offers.UpdateStatus(ctx, offer.OfferID, entities.OfferStatusExpired, now); err != nil {
		return err
	}
	if err := w.Audit.Record(ctx, "Offer", offer.OfferID, auditActionOfferExpired); err != nil {
		logger.Warn("audit record failed",
			"event", "offer_expire_audit_failed",
			"module", "lending/offer-service",
			"layer", "application",
			"offer_id", offer.OfferID,
			"error", err.Error(),
		)
	}

	if wasAccepted {
		if err := w.Applications.RevertToSubmitted(ctx, offer.ApplicationID); err != nil {
			logger.Error("application revert failed",
				"event", "offer_expire_revert_failed",
				"module", "lending/offer-service",
				"layer", "application",
				"offer_id", offer.OfferID,
				"application_id", offer.ApplicationID,
				"error", err.Error(),
			)
			return err
		}
		if err := w.Audit.Record(ctx, "Application", offer.ApplicationID, auditActionOfferReverted); err != nil {
			logger.Warn("audit record failed",
				"event", "offer_expire_audit_failed",
				"module", "lending/offer-service",
				"layer", "application",
				"application_id", offer.ApplicationID,
				"error", err.Error(),
			)
		}
	}

	logger.Info("offer expired",
		"event", "offer_expired",
		"module", "lending/offer-service",
		"layer", "application",
		"offer_id", offer.OfferID,
		"application_id", offer.ApplicationID,
		"was_accepted", wasAccepted,
	)
	return nil
}
