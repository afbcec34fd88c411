package loader

import (
	"errors"
	"fmt"
)

// Kind classifies why a chart load failed.
type Kind string

const (
	KindFetchFailure        Kind = "fetch_failure"
	KindMalformedPayload    Kind = "malformed_payload"
	KindRenderTargetMissing Kind = "render_target_missing"
	KindRenderFailure       Kind = "render_failure"
)

// OutcomeOK is the outcome label of a successful load.
const OutcomeOK = "ok"

// LoadError is returned by Initialize for every failed load.
type LoadError struct {
	Kind   Kind
	LoadID string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Message is the text shown to the user in place of the chart.
func (e *LoadError) Message() string {
	switch e.Kind {
	case KindFetchFailure:
		return "Price history is currently unavailable. Please try again later."
	case KindMalformedPayload:
		return "Price history could not be read."
	case KindRenderTargetMissing:
		return "The chart could not be placed on this page."
	default:
		return "The chart could not be loaded."
	}
}

// Outcome returns OutcomeOK for a nil error, the load kind for a
// *LoadError and "error" for anything else.
func Outcome(err error) string {
	if err == nil {
		return OutcomeOK
	}
	var le *LoadError
	if errors.As(err, &le) {
		return string(le.Kind)
	}
	return "error"
}
