package diplomacy

import (
	"fmt"

	"github.com/FTWinston/Stabalyzer/internal/apperr"
)

// AdjudicatorInternalError wraps a panic recovered while resolving,
// building, or retreating a phase step — a state the adjudicator should
// never reach given legally-sampled orders, i.e. a bug rather than bad
// input. Phase records which phase was being stepped when it happened.
type AdjudicatorInternalError struct {
	Phase PhaseType
	Cause any
}

func (e *AdjudicatorInternalError) Error() string {
	return fmt.Sprintf("adjudicator internal error during %s phase: %v", e.Phase, e.Cause)
}

func (e *AdjudicatorInternalError) Kind() apperr.Kind { return apperr.KindAdjudicatorInternal }
