package httptransport

type CalculateOfferRequest struct {
	APR                string `json:"apr"`
	MonthlyPayment     string `json:"monthly_payment"`
	TotalCost          string `json:"total_cost"`
	OriginationFee     string `json:"origination_fee"`
	ProcessingTimeDays int    `json:"processing_time_days"`
	ValidityPeriodDays int    `json:"validity_period_days"`
}

type OfferDTO struct {
	OfferID            string `json:"offer_id"`
	ApplicationID      string `json:"application_id"`
	BankID             string `json:"bank_id"`
	Status             string `json:"status"`
	APR                string `json:"apr"`
	MonthlyPayment     string `json:"monthly_payment"`
	TotalCost          string `json:"total_cost"`
	OriginationFee     string `json:"origination_fee"`
	ProcessingTimeDays int    `json:"processing_time_days"`
	ValidityPeriodDays int    `json:"validity_period_days"`
	ExpiresAt          string `json:"expires_at"`
	Notified           bool   `json:"notified"`
	CreatedAt          string `json:"created_at"`
	UpdatedAt          string `json:"updated_at"`
}

type CalculateOfferResponse struct {
	Item       OfferDTO `json:"item"`
	Superseded bool     `json:"superseded"`
}

type SelectOfferResponse struct {
	Item OfferDTO `json:"item"`
}

type ListOffersResponse struct {
	Items []OfferDTO `json:"items"`
}

type ExpireOfferResponse struct {
	Item OfferDTO `json:"item"`
}

type SavingsAnalysisDTO struct {
	ComparedToWorstOffer   string `json:"compared_to_worst_offer"`
	ComparedToAverageOffer string `json:"compared_to_average_offer"`
	Message                string `json:"message"`
}

type OfferInsightsResponse struct {
	Available                 bool                `json:"available"`
	OfferCount                int                 `json:"offer_count"`
	BestAprOffer              *OfferDTO           `json:"best_apr_offer,omitempty"`
	LowestMonthlyPaymentOffer *OfferDTO           `json:"lowest_monthly_payment_offer,omitempty"`
	LowestTotalCostOffer      *OfferDTO           `json:"lowest_total_cost_offer,omitempty"`
	AverageApr                string              `json:"average_apr,omitempty"`
	AprSpread                 string              `json:"apr_spread,omitempty"`
	RecommendedOfferID        string              `json:"recommended_offer_id,omitempty"`
	Savings                   *SavingsAnalysisDTO `json:"savings,omitempty"`
}

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
