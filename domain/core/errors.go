package core

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Domain errors - centralized error definitions
var (
	// Construction errors
	ErrDimension      = errors.New("dimension mismatch")
	ErrInvalidBins    = errors.New("invalid temperature bins")
	ErrLengthMismatch = errors.New("length mismatch")
	ErrInvalidInput   = errors.New("invalid input")

	// Data coverage errors
	ErrMissingEdge = errors.New("bin edges missing from contribution function temperatures")

	// Line state errors
	ErrAlreadyObserved = errors.New("line observation already set")
	ErrUnobservedLine  = fmt.Errorf("%w: line has no observed intensity", ErrInvalidInput)

	// Sampling errors
	ErrTooFewWalkers = fmt.Errorf("%w: too few walkers", ErrInvalidInput)
	ErrBadInitial    = fmt.Errorf("%w: invalid initial walker state", ErrInvalidInput)
)

// MissingEdgeError lists the bin edges (in kelvin) a discrete contribution
// function cannot represent.
type MissingEdgeError struct {
	Edges []float64
}

func (e *MissingEdgeError) Error() string {
	parts := make([]string, len(e.Edges))
	for i, edge := range e.Edges {
		parts[i] = strconv.FormatFloat(edge, 'g', -1, 64) + " K"
	}
	return fmt.Sprintf("%s: [%s]", ErrMissingEdge, strings.Join(parts, ", "))
}

func (e *MissingEdgeError) Unwrap() error {
	return ErrMissingEdge
}
