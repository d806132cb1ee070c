package errors

import "errors"

var (
	ErrApplicationNotFound = errors.New("application not found")
	ErrInvalidTransition   = errors.New("invalid application status transition")
	ErrInvalidSubmission   = errors.New("invalid application submission")
	ErrNotApplicationOwner = errors.New("cannot access another borrower's application")
	ErrVersionConflict     = errors.New("application was modified concurrently")
	ErrRepositoryInvariant = errors.New("application repository invariant violated")
)
