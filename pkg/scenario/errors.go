package scenario

import "errors"

var (
	// ErrUnknownSet is returned when a parameter or query references a set
	// that was never defined
	ErrUnknownSet = errors.New("unknown set")
	// ErrUnknownMember is returned when a dimension value is not a member of
	// its declared set
	ErrUnknownMember = errors.New("value is not a member of set")
	// ErrUnknownParameter is returned when a parameter name has no declared schema
	ErrUnknownParameter = errors.New("unknown parameter")
	// ErrDimensionMismatch is returned when a parameter row's arity does not
	// match the parameter's fixed schema
	ErrDimensionMismatch = errors.New("row dimensions do not match parameter schema")
	// ErrUnknownYear is returned when a year-valued dimension is not a
	// declared history or horizon year
	ErrUnknownYear = errors.New("year is not part of the scenario horizon or history")
	// ErrScenarioCommitted is returned on mutation attempts after Commit
	ErrScenarioCommitted = errors.New("scenario is committed and frozen")
	// ErrScenarioNotCommitted is returned when a derived artifact is requested
	// before Commit
	ErrScenarioNotCommitted = errors.New("scenario is not committed")
	// ErrHorizonRequired is returned when committing a scenario without model years
	ErrHorizonRequired = errors.New("scenario horizon has no model years")
	// ErrHorizonNotSorted is returned when history or model years are not
	// strictly increasing, or history overlaps the horizon
	ErrHorizonNotSorted = errors.New("years must be strictly increasing and history must precede the horizon")
)
