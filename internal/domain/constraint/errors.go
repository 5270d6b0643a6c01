package constraint

import "errors"

// ErrInvalidConstraint is the sentinel kind for malformed requests; use
// errors.Is against it and errors.As for the typed detail.
var ErrInvalidConstraint = errors.New("invalid constraint")

// InvalidConstraintError names the first violated request field. Requests
// failing validation are surfaced to the caller directly and never retried.
type InvalidConstraintError struct {
	Field  string
	Reason string
}

func (e *InvalidConstraintError) Error() string {
	return "invalid constraint: " + e.Field + ": " + e.Reason
}

// Is makes errors.Is(err, ErrInvalidConstraint) hold for typed values.
func (e *InvalidConstraintError) Is(target error) bool {
	return target == ErrInvalidConstraint
}
