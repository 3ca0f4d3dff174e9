package binance

import "fmt"

// MissingParameterError is raised locally, before any network call, when a
// required wire parameter is absent. The order validator should have caught
// this already; the check is kept here as a last line of defense.
type MissingParameterError struct {
	Param  string
	Reason string
}

// Error implements the error interface
func (e *MissingParameterError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("missing required parameter %q: %s", e.Param, e.Reason)
	}
	return fmt.Sprintf("missing required parameter %q", e.Param)
}
