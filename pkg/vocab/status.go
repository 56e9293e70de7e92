package vocab

import (
	"errors"
	"fmt"
)

// NoErrorMessage is what DiagnosticMessage reports after a clean load.
const NoErrorMessage = "no error"

var (
	ErrNotInitialized = errors.New("not initialized")
	// ErrPartialLoad matches a LoadError where some, but not all, sources failed.
	ErrPartialLoad = errors.New("partial vocabulary load")
	// ErrNoData matches a LoadError where every source failed.
	ErrNoData = errors.New("no vocabulary data")
)

// Level classifies the outcome of the last Initialize.
type Level int

const (
	LevelNotInitialized Level = iota
	LevelOK
	LevelPartial
	LevelNoData
)

func (l Level) String() string {
	switch l {
	case LevelOK:
		return "ok"
	case LevelPartial:
		return "partial"
	case LevelNoData:
		return "no_data"
	default:
		return "not_initialized"
	}
}

// Status is the advisory load report of a Store.
type Status struct {
	Level   Level
	Failed  int
	Total   int
	Message string
	// Counts holds the number of words per tier, indexed by TierID.
	Counts [numTiers]int
}

// LoadError reports sources that could not be read during Initialize.
// It never makes Initialize fail.
type LoadError struct {
	Failed int
	Total  int
}

func (e *LoadError) Error() string {
	if e.Failed >= e.Total {
		return "ERROR: No data files found!"
	}
	return fmt.Sprintf("WARNING: %d data file(s) missing", e.Failed)
}

// Is lets errors.Is match ErrPartialLoad or ErrNoData.
func (e *LoadError) Is(target error) bool {
	switch target {
	case ErrNoData:
		return e.Failed >= e.Total
	case ErrPartialLoad:
		return e.Failed > 0 && e.Failed < e.Total
	}
	return false
}

func statusFor(failed, total int) Status {
	st := Status{Failed: failed, Total: total}
	switch {
	case failed == 0:
		st.Level = LevelOK
	case failed >= total:
		st.Level = LevelNoData
	default:
		st.Level = LevelPartial
	}
	if failed > 0 {
		st.Message = (&LoadError{Failed: failed, Total: total}).Error()
	}
	return st
}
