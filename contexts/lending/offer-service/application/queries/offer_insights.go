package queries

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	application "creditapp/contexts/lending/offer-service/application"
	"creditapp/contexts/lending/offer-service/domain/entities"
	domainerrors "creditapp/contexts/lending/offer-service/domain/errors"
	"creditapp/contexts/lending/offer-service/ports"

	"github.com/shopspring/decimal"
)

type OfferInsightsQuery struct {
	ApplicationID string
	BorrowerID    string
}

// SavingsAnalysis compares the cheapest offer against the rest of the set.
type SavingsAnalysis struct {
	ComparedToWorstOffer   decimal.Decimal
	ComparedToAverageOffer decimal.Decimal
	Message                string
}

// OfferInsights is the comparison summary over one application's offers.
// Available is false when fewer than two offers exist; all other fields are
// zero values in that case.
type OfferInsights struct {
	Available                 bool
	OfferCount                int
	BestAprOffer              entities.Offer
	LowestMonthlyPaymentOffer entities.Offer
	LowestTotalCostOffer      entities.Offer
	AverageApr                decimal.Decimal
	AprSpread                 decimal.Decimal
	RecommendedOfferID        string
	Savings                   SavingsAnalysis
}

// OfferInsightsUseCase computes comparison analytics over all offers of one
// application. Ownership is checked before the offer store is queried.
type OfferInsightsUseCase struct {
	Offers       ports.OfferRepository
	Applications ports.ApplicationGateway
	Logger       *slog.Logger
}

func (u OfferInsightsUseCase) Execute(ctx context.Context, query OfferInsightsQuery) (OfferInsights, error) {
	logger := application.ResolveLogger(u.Logger)

	applicationID := strings.TrimSpace(query.ApplicationID)
	borrowerID := strings.TrimSpace(query.BorrowerID)
	if applicationID == "" || borrowerID == "" {
		return OfferInsights{}, domainerrors.ErrInvalidOfferRequest
	}

	summary, err := u.Applications.GetApplication(ctx, applicationID)
	if err != nil {
		return OfferInsights{}, err
	}
	if summary.BorrowerID != borrowerID {
		return OfferInsights{}, domainerrors.ErrNotApplicationOwner
	}

	offers, err := u.Offers.ListOffersByApplication(ctx, applicationID)
	if err != nil {
		return OfferInsights{}, err
	}
	if len(offers) < 2 {
		logger.Info("not enough offers for insights",
			"event", "offer_insights_unavailable",
			"module", "lending/offer-service",
			"layer", "application",
			"application_id", applicationID,
			"offer_count", len(offers),
		)
		return OfferInsights{Available: false, OfferCount: len(offers)}, nil
	}

	insights := computeInsights(offers)
	logger.Info("offer insights computed",
		"event", "offer_insights_computed",
		"module", "lending/offer-service",
		"layer", "application",
		"application_id", applicationID,
		"offer_count", len(offers),
		"recommended_offer_id", insights.RecommendedOfferID,
	)
	return insights, nil
}

func computeInsights(offers []entities.Offer) OfferInsights {
	bestApr := minOffer(offers, func(o entities.Offer) decimal.Decimal { return o.APR })
	lowestMonthly := minOffer(offers, func(o entities.Offer) decimal.Decimal { return o.MonthlyPayment })
	lowestCost := minOffer(offers, func(o entities.Offer) decimal.Decimal { return o.TotalCost })
	worstCost := maxCostOffer(offers)

	aprSum := decimal.Zero
	costSum := decimal.Zero
	maxApr := offers[0].APR
	minApr := offers[0].APR
	for _, o := range offers {
		aprSum = aprSum.Add(o.APR)
		costSum = costSum.Add(o.TotalCost)
		if o.APR.GreaterThan(maxApr) {
			maxApr = o.APR
		}
		if o.APR.LessThan(minApr) {
			minApr = o.APR
		}
	}
	count := decimal.NewFromInt(int64(len(offers)))

	savingsVsWorst := worstCost.TotalCost.Sub(lowestCost.TotalCost)
	savingsVsAverage := costSum.Div(count).Sub(lowestCost.TotalCost).Round(2)

	return OfferInsights{
		Available:                 true,
		OfferCount:                len(offers),
		BestAprOffer:              bestApr,
		LowestMonthlyPaymentOffer: lowestMonthly,
		LowestTotalCostOffer:      lowestCost,
		AverageApr:                aprSum.Div(count).Round(2),
		AprSpread:                 maxApr.Sub(minApr),
		RecommendedOfferID:        recommendOffer(offers).OfferID,
		Savings: SavingsAnalysis{
			ComparedToWorstOffer:   savingsVsWorst,
			ComparedToAverageOffer: savingsVsAverage,
			Message: fmt.Sprintf("Choosing %s saves %s compared to the most expensive offer",
				lowestCost.BankID, savingsVsWorst.StringFixed(2)),
		},
	}
}

// minOffer picks the offer minimizing the keyed field, ties broken by lowest
// total cost, then by offer id.
func minOffer(offers []entities.Offer, key func(entities.Offer) decimal.Decimal) entities.Offer {
	best := offers[0]
	for _, o := range offers[1:] {
		switch key(o).Cmp(key(best)) {
		case -1:
			best = o
		case 0:
			switch o.TotalCost.Cmp(best.TotalCost) {
			case -1:
				best = o
			case 0:
				if o.OfferID < best.OfferID {
					best = o
				}
			}
		}
	}
	return best
}

func maxCostOffer(offers []entities.Offer) entities.Offer {
	worst := offers[0]
	for _, o := range offers[1:] {
		if o.TotalCost.GreaterThan(worst.TotalCost) {
			worst = o
		}
	}
	return worst
}

// recommendOffer minimizes total cost, then APR, then monthly payment, then
// processing time, with offer id as the final deterministic tie-break.
func recommendOffer(offers []entities.Offer) entities.Offer {
	best := offers[0]
	for _, o := range offers[1:] {
		if lessRecommended(o, best) {
			best = o
		}
	}
	return best
}

func lessRecommended(a, b entities.Offer) bool {
	if c := a.TotalCost.Cmp(b.TotalCost); c != 0 {
		return c < 0
	}
	if c := a.APR.Cmp(b.APR); c != 0 {
		return c < 0
	}
	if c := a.MonthlyPayment.Cmp(b.MonthlyPayment); c != 0 {
		return c < 0
	}
	if a.ProcessingTimeDays != b.ProcessingTimeDays {
		return a.ProcessingTimeDays < b.ProcessingTimeDays
	}
	return a.OfferID < b.OfferID
}
