package queries

import (
	"context"
	"log/slog"
	"strings"

	"creditapp/contexts/lending/application-service/domain/entities"
	domainerrors "creditapp/contexts/lending/application-service/domain/errors"
	"creditapp/contexts/lending/application-service/ports"
)

type GetApplicationQuery struct {
	ApplicationID string
	BorrowerID    string
}

type GetApplicationResult struct {
	Application entities.Application
}

type GetApplicationUseCase struct {
	Applications ports.ApplicationRepository
	Logger       *slog.Logger
}

// Execute loads one application and enforces borrower ownership.
func (u GetApplicationUseCase) Execute(ctx context.Context, query GetApplicationQuery) (GetApplicationResult, error) {
	applicationID := strings.TrimSpace(query.ApplicationID)
	if applicationID == "" {
		return GetApplicationResult{}, domainerrors.ErrApplicationNotFound
	}

	item, err := u.Applications.GetApplication(ctx, applicationID)
	if err != nil {
		return GetApplicationResult{}, err
	}
	if query.BorrowerID != "" && item.BorrowerID != query.BorrowerID {
		return GetApplicationResult{}, domainerrors.ErrNotApplicationOwner
	}
	return GetApplicationResult{Application: item}, nil
}
