package services

import "fmt"

// ErrorKind classifies claim failures so the gateway/clients can render a
// precise message and decide whether a retry makes sense.
type ErrorKind string

const (
	KindNotFound         ErrorKind = "NOT_FOUND"
	KindAlreadyClaimed   ErrorKind = "ALREADY_CLAIMED"
	KindInactive         ErrorKind = "INACTIVE"
	KindHuntNotStarted   ErrorKind = "HUNT_NOT_STARTED"
	KindHuntEnded        ErrorKind = "HUNT_ENDED"
	KindCapacityExceeded ErrorKind = "CAPACITY_EXCEEDED"
	KindTooFar           ErrorKind = "TOO_FAR"
	KindRateLimited      ErrorKind = "RATE_LIMITED"
	KindConflict         ErrorKind = "CONFLICT"
	KindAlreadyRedeemed  ErrorKind = "ALREADY_REDEEMED"
	KindInfra            ErrorKind = "INFRA"
)

// ClaimError carries the failure kind plus whatever context the caller needs
// for a user-facing message (distance, remaining wait).
type ClaimError struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`

	// Set for RATE_LIMITED
	WaitSeconds int `json:"wait_seconds,omitempty"`

	// Set for TOO_FAR
	DistanceMeters float64 `json:"distance_meters,omitempty"`
	RadiusMeters   float64 `json:"radius_meters,omitempty"`

	cause error
}

func (e *ClaimError) Error() string {
	return e.Message
}

func (e *ClaimError) Unwrap() error {
	return e.cause
}

func newClaimError(kind ErrorKind, message string) *ClaimError {
	return &ClaimError{Kind: kind, Message: message}
}

// infraError wraps a persistence-layer failure. The caller owns retry/backoff.
func infraError(op string, cause error) *ClaimError {
	return &ClaimError{
		Kind:    KindInfra,
		Message: fmt.Sprintf("%s failed: %v", op, cause),
		cause:   cause,
	}
}
