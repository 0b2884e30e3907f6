package adjudication

import (
	"context"
	"time"
)

// PolicyCheckRequest describes one candidate's change for policy and
// change-budget validation. AcceptanceCriteria are pre-rendered as
// "Given X, When Y, Then Z" strings.
type PolicyCheckRequest struct {
	WorkingSpecID      string       `json:"working_spec_id"`
	RiskTier           RiskTier     `json:"risk_tier"`
	ScopeIncluded      []string     `json:"scope_included"`
	ScopeExcluded      []string     `json:"scope_excluded,omitempty"`
	AcceptanceCriteria []string     `json:"acceptance_criteria"`
	ChangeBudget       ChangeBudget `json:"change_budget"`
	DiffStats          DiffStats    `json:"diff_stats"`
	Patches            []string     `json:"patches,omitempty"`
	LanguageHints      []string     `json:"language_hints,omitempty"`
	TestsAdded         bool         `json:"tests_added"`
	Deterministic      bool         `json:"deterministic"`
	Waivers            []string     `json:"waivers,omitempty"`
}

// PolicyCheckResult carries the violations a validator found for one
// candidate. An empty list means the candidate is compliant.
type PolicyCheckResult struct {
	Violations []Violation `json:"violations"`
}

// PolicyValidator checks one candidate's change against CAWS policy and
// change-budget rules. A failed call is fatal to the adjudication; the
// engine never retries it.
type PolicyValidator interface {
	Validate(ctx context.Context, req PolicyCheckRequest) (*PolicyCheckResult, error)
}

// ClaimContext situates a sentence for claim extraction.
type ClaimContext struct {
	TaskID             string   `json:"task_id"`
	WorkingSpecID      string   `json:"working_spec_id"`
	SurroundingContext string   `json:"surrounding_context"`
	DomainHints        []string `json:"domain_hints,omitempty"`
}

// ClaimExtraction is the result of processing one sentence-like unit.
type ClaimExtraction struct {
	AtomicClaims []Claim `json:"atomic_claims"`
}

// ClaimProcessor turns one sentence-like unit of candidate content into
// atomic, independently checkable claims.
type ClaimProcessor interface {
	Process(ctx context.Context, sentence string, cctx ClaimContext) (*ClaimExtraction, error)
}

// ReviewEntry pairs one candidate with its current-round evidence.
type ReviewEntry struct {
	Index     int              `json:"index"`
	Candidate CandidateOutput  `json:"candidate"`
	Evidence  EvidenceManifest `json:"evidence"`
}

// ReviewRequest is the per-round submission to the consensus reviewer.
type ReviewRequest struct {
	TaskID        string        `json:"task_id"`
	WorkingSpecID string        `json:"working_spec_id"`
	Round         int           `json:"round"`
	Entries       []ReviewEntry `json:"entries"`
}

// ReviewSession is the reviewer's record of one round of deliberation. The
// engine treats its internals as opaque; winner selection happens on the
// evidence scores, not on session contents.
type ReviewSession struct {
	ID          string         `json:"id"`
	StartedAt   time.Time      `json:"started_at"`
	CompletedAt time.Time      `json:"completed_at"`
	Notes       map[string]any `json:"notes,omitempty"`
}

// ConsensusReviewer deliberates over competing candidates and their
// evidence. Implementations must honor the context deadline; the engine
// bounds every call by the configured adjudication timeout.
type ConsensusReviewer interface {
	Review(ctx context.Context, req ReviewRequest) (*ReviewSession, error)
}

// ProvenanceSigner produces and checks cryptographic attestations over
// serialized verdict records.
type ProvenanceSigner interface {
	Sign(record []byte) ([]byte, error)
	Verify(record, signature []byte) bool
}
