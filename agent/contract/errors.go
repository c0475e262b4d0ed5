package contract

import "errors"

var (
	ErrModelInvoke     = errors.New("model invoke failed")
	ErrSchemaViolation = errors.New("model response violates schema")
	ErrValidation      = errors.New("validation failed")

	// Turn-routing failure taxonomy. Classification failures fail open,
	// retrieval failures degrade, scheduling failures are recoverable.
	ErrClassification       = errors.New("exit classification failed")
	ErrRetrievalUnavailable = errors.New("vector index unreachable")
	ErrNoRelevantPassages   = errors.New("no passage above similarity floor")
	ErrSlotTaken            = errors.New("slot no longer available")
	ErrStoreUnavailable     = errors.New("scheduling store unavailable")
	ErrBookingExists        = errors.New("session already holds a booking")
)
