package weather

import "errors"

var (
	// ErrSchemaMismatch is returned when a declared feature column cannot be
	// derived from a time point.
	ErrSchemaMismatch = errors.New("schema mismatch")

	// ErrModelUnavailable is returned when no model is loaded or the
	// requested granularity lacks a regressor or classifier.
	ErrModelUnavailable = errors.New("model unavailable")

	// ErrInferenceFailure wraps any estimator error raised during prediction.
	ErrInferenceFailure = errors.New("inference failure")

	// ErrInvalidCalendarInput is returned for start dates that do not exist.
	ErrInvalidCalendarInput = errors.New("invalid calendar input")
)
