package entities

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type ApplicationStatus string
type LoanType string

const (
	ApplicationStatusSubmitted       ApplicationStatus = "SUBMITTED"
	ApplicationStatusUnderReview     ApplicationStatus = "UNDER_REVIEW"
	ApplicationStatusOffersAvailable ApplicationStatus = "OFFERS_AVAILABLE"
	ApplicationStatusAccepted        ApplicationStatus = "ACCEPTED"
	ApplicationStatusRejected        ApplicationStatus = "REJECTED"
	ApplicationStatusCompleted       ApplicationStatus = "COMPLETED"

	LoanTypePersonal LoanType = "PERSONAL"
	LoanTypeAuto     LoanType = "AUTO"
	LoanTypeMortgage LoanType = "MORTGAGE"
	LoanTypeBusiness LoanType = "BUSINESS"
)

// Application is a borrower's loan request. Status is only ever mutated
// through validated transitions; rows are never hard-deleted.
type Application struct {
	ApplicationID string
	BorrowerID    string
	LoanType      LoanType
	LoanAmount    decimal.Decimal
	TermMonths    int
	Currency      string
	Status        ApplicationStatus
	Version       int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsValidTransition reports whether an application may move from one status
// to another. Self-transitions and unknown statuses are never valid.
func IsValidTransition(from, to ApplicationStatus) bool {
	if from == "" || to == "" {
		return false
	}
	if from == to {
		return false
	}

	switch from {
	case ApplicationStatusSubmitted:
		return to == ApplicationStatusUnderReview || to == ApplicationStatusRejected
	case ApplicationStatusUnderReview:
		return to == ApplicationStatusOffersAvailable || to == ApplicationStatusRejected
	case ApplicationStatusOffersAvailable:
		return to == ApplicationStatusAccepted || to == ApplicationStatusRejected
	case ApplicationStatusAccepted:
		return to == ApplicationStatusCompleted || to == ApplicationStatusRejected
	default:
		return false
	}
}

func TransitionErrorMessage(from, to ApplicationStatus) string {
	return fmt.Sprintf("invalid status transition from %s to %s", from, to)
}

func IsSupportedStatus(value ApplicationStatus) bool {
	switch value {
	case ApplicationStatusSubmitted,
		ApplicationStatusUnderReview,
		ApplicationStatusOffersAvailable,
		ApplicationStatusAccepted,
		ApplicationStatusRejected,
		ApplicationStatusCompleted:
		return true
	default:
		return false
	}
}

func IsSupportedLoanType(value LoanType) bool {
	switch value {
	case LoanTypePersonal, LoanTypeAuto, LoanTypeMortgage, LoanTypeBusiness:
		return true
	default:
		return false
	}
}
