package plan

import "errors"

// Sentinel kinds for plan parsing errors.
var (
	ErrMalformedPlan = errors.New("malformed plan response")
)
