package errors

import "errors"

var (
	ErrOfferNotFound       = errors.New("offer not found")
	ErrApplicationNotFound = errors.New("application not found")
	ErrNotApplicationOwner = errors.New("cannot access another borrower's application")
	ErrOfferExpired        = errors.New("offer has expired")
	ErrOfferNotSelectable  = errors.New("offer is not in a selectable status")
	ErrInvalidOfferRequest = errors.New("invalid offer request")
	ErrOfferNotExpirable   = errors.New("offer cannot be expired from its current status")
	ErrRepositoryInvariant = errors.New("offer repository invariant violated")
)
