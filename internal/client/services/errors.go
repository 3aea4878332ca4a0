package services

import "errors"

var (
	// ErrNotLoaded is returned when an operation needs data that has not
	// been fetched yet.
	ErrNotLoaded = errors.New("not loaded")
	// ErrNotFound is returned for an id the controller does not hold.
	ErrNotFound = errors.New("not found")
	// ErrStepNotAllowed is returned for an action the current step of the
	// inheritance flow does not offer.
	ErrStepNotAllowed = errors.New("action not allowed at this step")
)
