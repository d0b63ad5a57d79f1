package engine

import "fmt"

// NonConvergence reports that an engine exceeded its iteration cap. The
// partial result carries the trace committed up to the failure point; the
// caller decides whether to raise the cap and retry.
type NonConvergence struct {
	Engine  Kind
	Limit   int
	Partial *Result
}

// Error implements the error interface.
func (e *NonConvergence) Error() string {
	return fmt.Sprintf("%s engine did not converge within %d iterations", e.Engine, e.Limit)
}
