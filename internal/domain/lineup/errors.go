package lineup

import (
	"errors"

	"github.com/dugout-io/dugout/internal/domain/model"
)

// ErrInvalidFormation is the sentinel kind for formations the fixed roster
// split cannot satisfy.
var ErrInvalidFormation = errors.New("invalid formation")

// InvalidFormationError carries the offending formation and the reason.
type InvalidFormationError struct {
	Formation model.Formation
	Reason    string
}

func (e *InvalidFormationError) Error() string {
	return "invalid formation " + e.Formation.String() + ": " + e.Reason
}

// Is makes errors.Is(err, ErrInvalidFormation) hold for typed values.
func (e *InvalidFormationError) Is(target error) bool {
	return target == ErrInvalidFormation
}
