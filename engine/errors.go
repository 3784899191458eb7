package engine

import "errors"

var (
	// ErrUnknownCase is returned when a call names a case the registry does
	// not know.
	ErrUnknownCase = errors.New("unknown case")
	// ErrUnknownObjective is returned when a call names an objective its case
	// does not define.
	ErrUnknownObjective = errors.New("unknown objective")
	// ErrPreconditionNotMet is returned when a call could not perform its
	// transition. Nothing it guards was mutated.
	ErrPreconditionNotMet = errors.New("precondition not met")
	// ErrInvalidTransition is returned for forced status changes that would
	// regress a case or leave a terminal status.
	ErrInvalidTransition = errors.New("invalid status transition")
)
