package optimizer

import "errors"

// Sentinel kinds for selection errors.
var (
	// ErrInfeasible means no 15-member roster satisfies the catalog and
	// constraints jointly. errors.As yields the typed *InfeasibleError.
	ErrInfeasible = errors.New("infeasible")

	// errLimitExceeded is internal: the exact search ran past its state or
	// node budget. Select converts it into a heuristic fallback instead of
	// failing the request.
	errLimitExceeded = errors.New("search limit exceeded")
)

// Binding names the constraint found to make a request unsatisfiable.
const (
	BindingBudget   = "budget"
	BindingQuota    = "quota"
	BindingGroupCap = "group_cap"
	BindingRequired = "required"
)

// InfeasibleError reports the binding constraint where determinable, plus a
// user-actionable reason.
type InfeasibleError struct {
	Binding string
	Reason  string
}

func (e *InfeasibleError) Error() string {
	return "infeasible (" + e.Binding + "): " + e.Reason
}

// Is makes errors.Is(err, ErrInfeasible) hold for typed values.
func (e *InfeasibleError) Is(target error) bool {
	return target == ErrInfeasible
}
