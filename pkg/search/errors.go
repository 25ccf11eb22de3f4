package search

import (
	"fmt"

	"github.com/FTWinston/Stabalyzer/internal/apperr"
)

// WorkerError wraps a panic recovered from one coordinator worker
// goroutine (outside any single tree iteration, which already recovers
// its own AdjudicatorInternalError). The coordinator never aborts its
// siblings for one worker's failure (§7 "Worker error"); this just gives
// the caller a typed value instead of a bare recovered interface{}.
type WorkerError struct {
	Worker int
	Cause  any
}

func (e *WorkerError) Error() string {
	return fmt.Sprintf("search worker %d panicked: %v", e.Worker, e.Cause)
}

func (e *WorkerError) Kind() apperr.Kind { return apperr.KindWorker }
