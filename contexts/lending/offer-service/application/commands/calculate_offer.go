package commands

import (
	"context"
	"log/slog"
	"strings"

	application "creditapp/contexts/lending/offer-service/application"
	"creditapp/contexts/lending/offer-service/domain/entities"
	domainerrors "creditapp/contexts/lending/offer-service/domain/errors"
	"creditapp/contexts/lending/offer-service/ports"

	"github.com/shopspring/decimal"
)

const auditActionOfferCalculated = "OFFER_CALCULATED"

type CalculateOfferCommand struct {
	ApplicationID      string
	BankID             string
	APR                decimal.Decimal
	MonthlyPayment     decimal.Decimal
	TotalCost          decimal.Decimal
	OriginationFee     decimal.Decimal
	ProcessingTimeDays int
	ValidityPeriodDays int
}

type CalculateOfferResult struct {
	Offer      entities.Offer
	Superseded bool
}

// CalculateOfferUseCase registers a freshly priced offer for an application.
// A previous active offer for the same (application, bank) pair is withdrawn
// so the pair invariant holds.
type CalculateOfferUseCase struct {
	Offers       ports.OfferRepository
	Applications ports.ApplicationGateway
	Audit        ports.AuditRecorder
	Clock        ports.Clock
	IDGenerator  ports.IDGenerator
	Logger       *slog.Logger
}

func (u CalculateOfferUseCase) Execute(ctx context.Context, cmd CalculateOfferCommand) (CalculateOfferResult, error) {
	logger := application.ResolveLogger(u.Logger)

	applicationID := strings.TrimSpace(cmd.ApplicationID)
	bankID := strings.TrimSpace(cmd.BankID)
	if applicationID == "" ||
		bankID == "" ||
		cmd.ProcessingTimeDays <= 0 ||
		cmd.ValidityPeriodDays <= 0 ||
		!cmd.APR.IsPositive() ||
		!cmd.MonthlyPayment.IsPositive() ||
		!cmd.TotalCost.IsPositive() ||
		cmd.OriginationFee.IsNegative() {
		return CalculateOfferResult{}, domainerrors.ErrInvalidOfferRequest
	}

	if _, err := u.Applications.GetApplication(ctx, applicationID); err != nil {
		return CalculateOfferResult{}, err
	}

	now := u.Clock.Now().UTC()
	superseded := false

	previous, found, err := u.Offers.GetActiveOffer(ctx, applicationID, bankID)
	if err != nil {
		return CalculateOfferResult{}, err
	}
	if found {
		if err := u.Offers.UpdateStatus(ctx, previous.OfferID, entities.OfferStatusWithdrawn, now); err != nil {
			return CalculateOfferResult{}, err
		}
		superseded = true
		logger.Info("previous active offer withdrawn",
			"event", "offer_superseded",
			"module", "lending/offer-service",
			"layer", "application",
			"offer_id", previous.OfferID,
			"application_id", applicationID,
			"bank_id", bankID,
		)
	}

	offerID, err := u.IDGenerator.NewID(ctx)
	if err != nil {
		return CalculateOfferResult{}, err
	}

	offer := entities.Offer{
		OfferID:            offerID,
		ApplicationID:      applicationID,
		BankID:             bankID,
		Status:             entities.OfferStatusCalculated,
		APR:                cmd.APR,
		MonthlyPayment:     cmd.MonthlyPayment,
		TotalCost:          cmd.TotalCost,
		OriginationFee:     cmd.OriginationFee,
		ProcessingTimeDays: cmd.ProcessingTimeDays,
		ValidityPeriodDays: cmd.ValidityPeriodDays,
		ExpiresAt:          entities.ExpiryFor(now, cmd.ValidityPeriodDays),
		Notified:           false,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := u.Offers.CreateOffer(ctx, offer); err != nil {
		logger.Error("offer creation failed",
			"event", "offer_calculate_failed",
			"module", "lending/offer-service",
			"layer", "application",
			"application_id", applicationID,
			"bank_id", bankID,
			"error", err.Error(),
		)
		return CalculateOfferResult{}, err
	}

	if err := u.Audit.Record(ctx, "Offer", offerID, auditActionOfferCalculated); err != nil {
		logger.Warn("audit record failed",
			"event", "offer_calculate_audit_failed",
			"module", "lending/offer-service",
			"layer", "application",
			"offer_id", offerID,
			"error", err.Error(),
		)
	}

	logger.Info("offer calculated",
		"event", "offer_calculated",
		"module", "lending/offer-service",
		"layer", "application",
		"offer_id", offerID,
		"application_id", applicationID,
		"bank_id", bankID,
		"expires_at", offer.ExpiresAt,
	)
	return CalculateOfferResult{Offer: offer, Superseded: superseded}, nil
}
