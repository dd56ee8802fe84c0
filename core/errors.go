package core

import "errors"

// Simulation errors. Schedule parsing errors live in the schedule package.
var (
	ErrScheduleNotSet     = errors.New("schedule not set up before evaluation")
	ErrNoPatternsAttached = errors.New("no patterns attached to item")
	ErrDivisionByZero     = errors.New("division by zero")
	ErrUnreachableTarget  = errors.New("target not reached within maximum horizon")
	ErrHorizonTooLong     = errors.New("maximum horizon exceeds the longest measurable duration")
	ErrLocationOutOfRange = errors.New("location exceeds collection range")
	ErrInvalidTimeRange   = errors.New("end time is before start time")
	ErrInvalidGranularity = errors.New("granularity must be at least as fine as the derived step")
	ErrUnknownOperator    = errors.New("unknown operator")
	ErrItemNotFound       = errors.New("item not found in scenario")
	ErrScenarioRequired   = errors.New("a scenario file is required")
	ErrTimeRangeRequired  = errors.New("both --start and --end are required")
	ErrTargetRequired     = errors.New("--target is required")
	ErrSpecRequired       = errors.New("--spec is required")
)
