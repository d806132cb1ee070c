package queries

import (
	"context"
	"log/slog"
	"strings"

	"creditapp/contexts/lending/offer-service/domain/entities"
	domainerrors "creditapp/contexts/lending/offer-service/domain/errors"
	"creditapp/contexts/lending/offer-service/ports"
)

type ListOffersQuery struct {
	ApplicationID string
	BorrowerID    string
}

// ListOffersUseCase returns every offer for an application, newest history
// included, after verifying ownership.
type ListOffersUseCase struct {
	Offers       ports.OfferRepository
	Applications ports.ApplicationGateway
	Logger       *slog.Logger
}

func (u ListOffersUseCase) Execute(ctx context.Context, query ListOffersQuery) ([]entities.Offer, error) {
	applicationID := strings.TrimSpace(query.ApplicationID)
	borrowerID := strings.TrimSpace(query.BorrowerID)
	if applicationID == "" || borrowerID == "" {
		return nil, domainerrors.ErrInvalidOfferRequest
	}

	summary, err := u.Applications.GetApplication(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if summary.BorrowerID != borrowerID {
		return nil, domainerrors.ErrNotApplicationOwner
	}
	return u.Offers.ListOffersByApplication(ctx, applicationID)
}
