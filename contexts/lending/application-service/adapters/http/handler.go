package httpadapter

import (
	"context"
	"log/slog"
	"time"

	application "creditapp/contexts/lending/application-service/application"
	"creditapp/contexts/lending/application-service/application/commands"
	"creditapp/contexts/lending/application-service/application/queries"
	"creditapp/contexts/lending/application-service/domain/entities"
	domainerrors "creditapp/contexts/lending/application-service/domain/errors"
	httptransport "creditapp/contexts/lending/application-service/transport/http"

	"github.com/shopspring/decimal"
)

type Handler struct {
	Submit       commands.SubmitApplicationUseCase
	ChangeStatus commands.ChangeStatusUseCase
	Get          queries.GetApplicationUseCase
	Logger       *slog.Logger
}

// SubmitApplicationHandler godoc
// @Summary Submit a loan application
// @Description Creates the application in status SUBMITTED.
// @Tags application-service
// @Accept json
// @Produce json
// @Param X-User-Id header string true "Borrower id"
// @Param request body httptransport.SubmitApplicationRequest true "Application payload"
// @Success 200 {object} httptransport.SubmitApplicationResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 500 {object} httptransport.ErrorResponse
// @Router /api/borrower/applications [post]
func (h Handler) SubmitApplicationHandler(
	ctx context.Context,
	borrowerID string,
	req httptransport.SubmitApplicationRequest,
) (httptransport.SubmitApplicationResponse, error) {
	amount, err := decimal.NewFromString(req.LoanAmount)
	if err != nil {
		return httptransport.SubmitApplicationResponse{}, domainerrors.ErrInvalidSubmission
	}

	result, err := h.Submit.Execute(ctx, commands.SubmitApplicationCommand{
		BorrowerID: borrowerID,
		LoanType:   req.LoanType,
		LoanAmount: amount,
		TermMonths: req.TermMonths,
		Currency:   req.Currency,
	})
	if err != nil {
		return httptransport.SubmitApplicationResponse{}, err
	}
	return httptransport.SubmitApplicationResponse{
		Item: mapApplication(result.Application),
	}, nil
}

// ChangeStatusHandler godoc
// @Summary Change application status
// @Description Applies one validated status transition.
// @Tags application-service
// @Accept json
// @Produce json
// @Param application_id path string true "Application id"
// @Param request body httptransport.ChangeStatusRequest true "Target status"
// @Success 200 {object} httptransport.ChangeStatusResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Failure 409 {object} httptransport.ErrorResponse
// @Router /api/borrower/applications/{application_id}/status [patch]
func (h Handler) ChangeStatusHandler(
	ctx context.Context,
	applicationID string,
	req httptransport.ChangeStatusRequest,
) (httptransport.ChangeStatusResponse, error) {
	logger := application.ResolveLogger(h.Logger)

	result, err := h.ChangeStatus.Execute(ctx, commands.ChangeStatusCommand{
		ApplicationID: applicationID,
		NewStatus:     req.Status,
	})
	if err != nil {
		logger.Error("change status request failed",
			"event", "http_change_status_failed",
			"module", "lending/application-service",
			"layer", "transport",
			"application_id", applicationID,
			"error", err.Error(),
		)
		return httptransport.ChangeStatusResponse{}, err
	}
	return httptransport.ChangeStatusResponse{
		Item:      mapApplication(result.Application),
		OldStatus: string(result.OldStatus),
	}, nil
}

// GetApplicationHandler godoc
// @Summary Get one application
// @Tags application-service
// @Produce json
// @Param X-User-Id header string true "Borrower id"
// @Param application_id path string true "Application id"
// @Success 200 {object} httptransport.GetApplicationResponse
// @Failure 403 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /api/borrower/applications/{application_id} [get]
func (h Handler) GetApplicationHandler(
	ctx context.Context,
	borrowerID string,
	applicationID string,
) (httptransport.GetApplicationResponse, error) {
	result, err := h.Get.Execute(ctx, queries.GetApplicationQuery{
		ApplicationID: applicationID,
		BorrowerID:    borrowerID,
	})
	if err != nil {
		return httptransport.GetApplicationResponse{}, err
	}
	return httptransport.GetApplicationResponse{
		Item: mapApplication(result.Application),
	}, nil
}

func mapApplication(item entities.Application) httptransport.ApplicationDTO {
	return httptransport.ApplicationDTO{
		ApplicationID: item.ApplicationID,
		BorrowerID:    item.BorrowerID,
		LoanType:      string(item.LoanType),
		LoanAmount:    item.LoanAmount.String(),
		TermMonths:    item.TermMonths,
		Currency:      item.Currency,
		Status:        string(item.Status),
		Version:       item.Version,
		CreatedAt:     item.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:     item.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
