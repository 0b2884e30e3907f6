package adjudication

import "errors"

// Error taxonomy for one adjudication call. None of these are retried
// inside the engine; every call surfaces exactly one of them or returns a
// complete verdict.
var (
	// ErrInvalidCandidate marks a malformed candidate batch: empty list,
	// mismatched task ids, or empty content. No collaborator work is
	// performed once detected.
	ErrInvalidCandidate = errors.New("invalid candidate")

	// ErrPolicyValidation marks a policy validator collaborator failure.
	ErrPolicyValidation = errors.New("policy validation failed")

	// ErrClaimExtraction marks a claim processor collaborator failure.
	ErrClaimExtraction = errors.New("claim extraction failed")

	// ErrTimeout marks a consensus reviewer call that exceeded the
	// configured adjudication budget. The whole adjudication aborts.
	ErrTimeout = errors.New("adjudication timed out")

	// ErrDebateFailed is reserved for future non-deterministic-winner
	// cases. The strict-argmax tie-break rule cannot reach it today.
	ErrDebateFailed = errors.New("debate failed")
)
