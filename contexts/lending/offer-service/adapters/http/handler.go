package httpadapter

import (
	"context"
	"log/slog"
	"time"

	application "creditapp/contexts/lending/offer-service/application"
	"creditapp/contexts/lending/offer-service/application/commands"
	"creditapp/contexts/lending/offer-service/application/queries"
	"creditapp/contexts/lending/offer-service/application/workers"
	"creditapp/contexts/lending/offer-service/domain/entities"
	domainerrors "creditapp/contexts/lending/offer-service/domain/errors"
	httptransport "creditapp/contexts/lending/offer-service/transport/http"

	"github.com/shopspring/decimal"
)

type Handler struct {
	Calculate commands.CalculateOfferUseCase
	Select    commands.SelectOfferUseCase
	Insights  queries.OfferInsightsUseCase
	List      queries.ListOffersUseCase
	Expirer   workers.OfferExpirer
	Logger    *slog.Logger
}

// CalculateOfferHandler godoc
// @Summary Submit a priced offer for an application
// @Description Registers the bank's offer in status CALCULATED; a previous active offer for the same bank is withdrawn.
// @Tags offer-service
// @Accept json
// @Produce json
// @Param X-Bank-Id header string true "Bank id"
// @Param application_id path string true "Application id"
// @Param request body httptransport.CalculateOfferRequest true "Offer pricing"
// @Success 200 {object} httptransport.CalculateOfferResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /api/bank/applications/{application_id}/offers [post]
func (h Handler) CalculateOfferHandler(
	ctx context.Context,
	bankID string,
	applicationID string,
	req httptransport.CalculateOfferRequest,
) (httptransport.CalculateOfferResponse, error) {
	apr, err := decimal.NewFromString(req.APR)
	if err != nil {
		return httptransport.CalculateOfferResponse{}, domainerrors.ErrInvalidOfferRequest
	}
	monthly, err := decimal.NewFromString(req.MonthlyPayment)
	if err != nil {
		return httptransport.CalculateOfferResponse{}, domainerrors.ErrInvalidOfferRequest
	}
	totalCost, err := decimal.NewFromString(req.TotalCost)
	if err != nil {
		return httptransport.CalculateOfferResponse{}, domainerrors.ErrInvalidOfferRequest
	}
	fee := decimal.Zero
	if req.OriginationFee != "" {
		fee, err = decimal.NewFromString(req.OriginationFee)
		if err != nil {
			return httptransport.CalculateOfferResponse{}, domainerrors.ErrInvalidOfferRequest
		}
	}

	result, err := h.Calculate.Execute(ctx, commands.CalculateOfferCommand{
		ApplicationID:      applicationID,
		BankID:             bankID,
		APR:                apr,
		MonthlyPayment:     monthly,
		TotalCost:          totalCost,
		OriginationFee:     fee,
		ProcessingTimeDays: req.ProcessingTimeDays,
		ValidityPeriodDays: req.ValidityPeriodDays,
	})
	if err != nil {
		return httptransport.CalculateOfferResponse{}, err
	}
	return httptransport.CalculateOfferResponse{
		Item:       mapOffer(result.Offer),
		Superseded: result.Superseded,
	}, nil
}

// SelectOfferHandler godoc
// @Summary Accept one offer on an application
// @Tags offer-service
// @Produce json
// @Param X-User-Id header string true "Borrower id"
// @Param application_id path string true "Application id"
// @Param offer_id path string true "Offer id"
// @Success 200 {object} httptransport.SelectOfferResponse
// @Failure 403 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Failure 409 {object} httptransport.ErrorResponse
// @Failure 410 {object} httptransport.ErrorResponse
// @Router /api/borrower/applications/{application_id}/offers/{offer_id}/select [post]
func (h Handler) SelectOfferHandler(
	ctx context.Context,
	borrowerID string,
	applicationID string,
	offerID string,
) (httptransport.SelectOfferResponse, error) {
	logger := application.ResolveLogger(h.Logger)

	offer, err := h.Select.Execute(ctx, commands.SelectOfferCommand{
		ApplicationID: applicationID,
		OfferID:       offerID,
		BorrowerID:    borrowerID,
	})
	if err != nil {
		logger.Error("select offer request failed",
			"event", "http_select_offer_failed",
			"module", "lending/offer-service",
			"layer", "transport",
			"application_id", applicationID,
			"offer_id", offerID,
			"error", err.Error(),
		)
		return httptransport.SelectOfferResponse{}, err
	}
	return httptransport.SelectOfferResponse{Item: mapOffer(offer)}, nil
}

// ListOffersHandler godoc
// @Summary List offers for an application
// @Tags offer-service
// @Produce json
// @Param X-User-Id header string true "Borrower id"
// @Param application_id path string true "Application id"
// @Success 200 {object} httptransport.ListOffersResponse
// @Failure 403 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /api/borrower/applications/{application_id}/offers [get]
func (h Handler) ListOffersHandler(
	ctx context.Context,
	borrowerID string,
	applicationID string,
) (httptransport.ListOffersResponse, error) {
	offers, err := h.List.Execute(ctx, queries.ListOffersQuery{
		ApplicationID: applicationID,
		BorrowerID:    borrowerID,
	})
	if err != nil {
		return httptransport.ListOffersResponse{}, err
	}
	items := make([]httptransport.OfferDTO, 0, len(offers))
	for _, offer := range offers {
		items = append(items, mapOffer(offer))
	}
	return httptransport.ListOffersResponse{Items: items}, nil
}

// OfferInsightsHandler godoc
// @Summary Compare all offers of an application
// @Description Returns comparison analytics; available only with two or more offers.
// @Tags offer-service
// @Produce json
// @Param X-User-Id header string true "Borrower id"
// @Param application_id path string true "Application id"
// @Success 200 {object} httptransport.OfferInsightsResponse
// @Failure 403 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /api/borrower/applications/{application_id}/offers/insights [get]
func (h Handler) OfferInsightsHandler(
	ctx context.Context,
	borrowerID string,
	applicationID string,
) (httptransport.OfferInsightsResponse, error) {
	insights, err := h.Insights.Execute(ctx, queries.OfferInsightsQuery{
		ApplicationID: applicationID,
		BorrowerID:    borrowerID,
	})
	if err != nil {
		return httptransport.OfferInsightsResponse{}, err
	}
	return mapInsights(insights), nil
}

// ExpireOfferHandler godoc
// @Summary Expire one overdue offer immediately
// @Tags offer-service
// @Produce json
// @Param offer_id path string true "Offer id"
// @Success 200 {object} httptransport.ExpireOfferResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Failure 409 {object} httptransport.ErrorResponse
// @Router /api/internal/offers/{offer_id}/expire [post]
func (h Handler) ExpireOfferHandler(ctx context.Context, offerID string) (httptransport.ExpireOfferResponse, error) {
	offer, err := h.Expirer.ExpireOne(ctx, offerID)
	if err != nil {
		return httptransport.ExpireOfferResponse{}, err
	}
	return httptransport.ExpireOfferResponse{Item: mapOffer(offer)}, nil
}

func mapOffer(offer entities.Offer) httptransport.OfferDTO {
	return httptransport.OfferDTO{
		OfferID:            offer.OfferID,
		ApplicationID:      offer.ApplicationID,
		BankID:             offer.BankID,
		Status:             string(offer.Status),
		APR:                offer.APR.String(),
		MonthlyPayment:     offer.MonthlyPayment.String(),
		TotalCost:          offer.TotalCost.String(),
		OriginationFee:     offer.OriginationFee.String(),
		ProcessingTimeDays: offer.ProcessingTimeDays,
		ValidityPeriodDays: offer.ValidityPeriodDays,
		ExpiresAt:          offer.ExpiresAt.UTC().Format(time.RFC3339),
		Notified:           offer.Notified,
		CreatedAt:          offer.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:          offer.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func mapInsights(insights queries.OfferInsights) httptransport.OfferInsightsResponse {
	if !insights.Available {
		return httptransport.OfferInsightsResponse{
			Available:  false,
			OfferCount: insights.OfferCount,
		}
	}
	best := mapOffer(insights.BestAprOffer)
	lowestMonthly := mapOffer(insights.LowestMonthlyPaymentOffer)
	lowestCost := mapOffer(insights.LowestTotalCostOffer)
	return httptransport.OfferInsightsResponse{
		Available:                 true,
		OfferCount:                insights.OfferCount,
		BestAprOffer:              &best,
		LowestMonthlyPaymentOffer: &lowestMonthly,
		LowestTotalCostOffer:      &lowestCost,
		AverageApr:                insights.AverageApr.StringFixed(2),
		AprSpread:                 insights.AprSpread.String(),
		RecommendedOfferID:        insights.RecommendedOfferID,
		Savings: &httptransport.SavingsAnalysisDTO{
			ComparedToWorstOffer:   insights.Savings.ComparedToWorstOffer.String(),
			ComparedToAverageOffer: insights.Savings.ComparedToAverageOffer.StringFixed(2),
			Message:                insights.Savings.Message,
		},
	}
}
