package model

import (
	"errors"
	"fmt"
)

// Failure taxonomy. Components tag their errors with exactly one of these so
// the orchestrator and the journal can attribute a failure without string
// matching.
var (
	// ErrNavigation indicates a page or report could not be reached.
	ErrNavigation = errors.New("tenbuy: navigation failed")
	// ErrElementNotFound indicates the page loaded but an expected element
	// is missing (vendor layout drift).
	ErrElementNotFound = errors.New("tenbuy: expected element not found")
	// ErrParse indicates an element was found but its text is unparsable
	// (vendor format drift). Never silently read as zero.
	ErrParse = errors.New("tenbuy: unparsable page text")
	// ErrArtifactWrite indicates a confirmation artifact could not be written.
	ErrArtifactWrite = errors.New("tenbuy: artifact write failed")
)

// Stage names the step of a run at which a failure occurred.
type Stage string

const (
	StageReadBalance       Stage = "read_balance"
	StageNavigateToItem    Stage = "navigate_to_item"
	StageAddToCart         Stage = "add_to_cart"
	StageProceedToCheckout Stage = "proceed_to_checkout"
	StageReachConfirm      Stage = "reach_confirm_step"
	StageCommit            Stage = "commit"
	StageRecord            Stage = "record_confirmation"
)

// StageError tags an underlying error with the stage that produced it.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// StageOf extracts the stage from err, or fallback if err carries none.
func StageOf(err error, fallback Stage) Stage {
	var se *StageError
	if errors.As(err, &se) {
		return se.Stage
	}
	return fallback
}
