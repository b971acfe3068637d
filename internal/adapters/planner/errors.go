package planner

import "errors"

// ErrUnexpectedStatus is returned when the planning service responds with a
// non-2xx status code.
var ErrUnexpectedStatus = errors.New("unexpected planner status")
