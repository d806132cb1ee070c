package workers

import (
	"context"
	"log/slog"
	"time"

	application "creditapp/contexts/lending/offer-service/application"
	"creditapp/contexts/lending/offer-service/domain/entities"
	"creditapp/contexts/lending/offer-service/ports"
)

const (
	expiryWarningJob     = "expiry_warning"
	warningWindow        = 24 * time.Hour
	defaultDispatchLimit = 10 * time.Second
)

// ExpiryWarningResult reports one warning run.
type ExpiryWarningResult struct {
	Sent   int
	Failed int
}

// ExpiryWarningNotifier dispatches one-time "expiring soon" warnings for
// offers inside the next 24 hours. Each offer is processed in its own
// failure boundary; the notified flag keeps the dispatch exactly-once
// across runs.
type ExpiryWarningNotifier struct {
	Offers   ports.OfferRepository
	Notifier ports.ExpiryNotifier
	Metrics  ports.Metrics
	Clock    ports.Clock
	Logger   *slog.Logger
	// DispatchTimeout bounds a single notifier call. Zero means the
	// default.
	DispatchTimeout time.Duration
}

func (w ExpiryWarningNotifier) RunOnce(ctx context.Context) (ExpiryWarningResult, error) {
	logger := application.ResolveLogger(w.Logger)
	started := w.Clock.Now().UTC()

	candidates, err := w.Offers.ListExpiringSoon(ctx, started, started.Add(warningWindow))
	if err != nil {
		if w.Metrics != nil {
			w.Metrics.IncSchedulerFailure(expiryWarningJob)
		}
		logger.Error("warning candidate query failed",
			"event", "expiry_warning_sweep_failed",
			"module", "lending/offer-service",
			"layer", "application",
			"error", err.Error(),
		)
		return ExpiryWarningResult{}, err
	}

	var result ExpiryWarningResult
	for _, offer := range candidates {
		if err := w.warnOne(ctx, offer); err != nil {
			result.Failed++
			logger.Error("expiry warning failed",
				"event", "expiry_warning_failed",
				"module", "lending/offer-service",
				"layer", "application",
				"offer_id", offer.OfferID,
				"application_id", offer.ApplicationID,
				"bank_id", offer.BankID,
				"error", err.Error(),
			)
			continue
		}
		result.Sent++
	}

	if w.Metrics != nil {
		w.Metrics.AddWarningsSent(result.Sent)
		w.Metrics.AddWarningsFailed(result.Failed)
		w.Metrics.ObserveSchedulerDuration(expiryWarningJob, w.Clock.Now().UTC().Sub(started))
	}
	logger.Info("expiry warning sweep finished",
		"event", "expiry_warning_sweep_finished",
		"module", "lending/offer-service",
		"layer", "application",
		"sent", result.Sent,
		"failed", result.Failed,
		"candidates", len(candidates),
	)
	return result, nil
}

func (w ExpiryWarningNotifier) warnOne(ctx context.Context, offer entities.Offer) error {
	timeout := w.DispatchTimeout
	if timeout <= 0 {
		timeout = defaultDispatchLimit
	}
	dispatchCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := w.Notifier.NotifyExpiringOffer(dispatchCtx, offer); err != nil {
		return err
	}
	return w.Offers.MarkNotified(ctx, offer.OfferID, w.Clock.Now().UTC())
}
