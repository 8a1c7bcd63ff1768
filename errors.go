package consensus

import "errors"

// Sentinel errors returned (possibly wrapped) by Run and RunContext.
// Match them with errors.Is.
var (
	// ErrInvalidInput indicates the input matrix is unusable: fewer than two
	// rows, no columns, ragged rows, or non-finite values.
	ErrInvalidInput = errors.New("invalid input matrix")

	// ErrInvalidParameter indicates a Config field outside its valid range,
	// or a derived subsample too small to support the requested cluster count.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrDegenerateResample indicates a resample whose dissimilarity matrix
	// contains undefined distances. It is handled internally: the repetition
	// is skipped and counted in KResult.SkippedReps, never returned by Run.
	ErrDegenerateResample = errors.New("degenerate resample")
)
