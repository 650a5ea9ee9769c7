package mailaudit

import "errors"

var (
	// ErrNoChecksConfigured is returned when Validate() is called
	// but no audit level is configured (not even syntax).
	ErrNoChecksConfigured = errors.New("mailaudit: no audit checks configured")

	// ErrInvalidProbeOptions is returned when WithProbe is called
	// with out-of-range options (CatchallProbes outside [0,5] or MaxMX < 1).
	ErrInvalidProbeOptions = errors.New("mailaudit: invalid probe options")
)
