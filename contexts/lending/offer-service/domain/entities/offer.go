package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

type OfferStatus string

const (
	OfferStatusCalculated OfferStatus = "CALCULATED"
	OfferStatusSubmitted  OfferStatus = "SUBMITTED"
	OfferStatusAccepted   OfferStatus = "ACCEPTED"
	OfferStatusRejected   OfferStatus = "REJECTED"
	OfferStatusExpired    OfferStatus = "EXPIRED"
	OfferStatusWithdrawn  OfferStatus = "WITHDRAWN"
)

// Offer is one bank's priced response to a borrower application. Offers are
// append-only history: terminal rows are never mutated or deleted, and at
// most one non-terminal offer exists per (application, bank) pair.
type Offer struct {
	OfferID            string
	ApplicationID      string
	BankID             string
	Status             OfferStatus
	APR                decimal.Decimal
	MonthlyPayment     decimal.Decimal
	TotalCost          decimal.Decimal
	OriginationFee     decimal.Decimal
	ProcessingTimeDays int
	ValidityPeriodDays int
	ExpiresAt          time.Time
	Notified           bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// IsTerminal reports whether the status is final; terminal offers are
// excluded from expiry sweeps and supersede checks.
func IsTerminal(status OfferStatus) bool {
	switch status {
	case OfferStatusAccepted, OfferStatusRejected, OfferStatusExpired, OfferStatusWithdrawn:
		return true
	default:
		return false
	}
}

func (o Offer) IsExpiredAt(now time.Time) bool {
	return !o.ExpiresAt.After(now)
}

// ExpiryFor places the expiration timestamp at calculation time plus the
// validity period.
func ExpiryFor(calculatedAt time.Time, validityPeriodDays int) time.Time {
	return calculatedAt.UTC().Add(time.Duration(validityPeriodDays) * 24 * time.Hour)
}
