package adjudication

import "time"

// VerdictStatus is the terminal decision for an adjudicated task.
type VerdictStatus string

const (
	StatusApproved           VerdictStatus = "approved"
	StatusRejected           VerdictStatus = "rejected"
	StatusWaiverRequired     VerdictStatus = "waiver_required"
	StatusNeedsClarification VerdictStatus = "needs_clarification"
)

// RiskTier classifies how much scrutiny a task requires. Tier 1 is the
// highest scrutiny, tier 4 the lowest.
type RiskTier int

const (
	RiskTierCritical RiskTier = 1
	RiskTierHigh     RiskTier = 2
	RiskTierStandard RiskTier = 3
	RiskTierLow      RiskTier = 4
)

// Scope lists the path globs a task may and may not touch.
type Scope struct {
	Included []string `json:"included" yaml:"included"`
	Excluded []string `json:"excluded,omitempty" yaml:"excluded,omitempty"`
}

// AcceptanceCriterion is a single given/when/then acceptance triple.
type AcceptanceCriterion struct {
	ID    string `json:"id" yaml:"id"`
	Given string `json:"given" yaml:"given"`
	When  string `json:"when" yaml:"when"`
	Then  string `json:"then" yaml:"then"`
}

// ChangeBudget caps the size of an acceptable change.
type ChangeBudget struct {
	MaxFiles int `json:"max_files" yaml:"max_files"`
	MaxLOC   int `json:"max_loc" yaml:"max_loc"`
}

// WorkingSpec is the task contract candidates are judged against. It is
// immutable for the duration of one adjudication.
type WorkingSpec struct {
	ID                 string                `json:"id" yaml:"id"`
	RiskTier           RiskTier              `json:"risk_tier" yaml:"risk_tier"`
	Scope              Scope                 `json:"scope" yaml:"scope"`
	AcceptanceCriteria []AcceptanceCriterion `json:"acceptance_criteria" yaml:"acceptance_criteria"`
	ChangeBudget       ChangeBudget          `json:"change_budget" yaml:"change_budget"`
}

// DiffStats summarizes the shape of a candidate's change.
type DiffStats struct {
	FilesChanged int `json:"files_changed" yaml:"files_changed"`
	LinesAdded   int `json:"loc_added" yaml:"loc_added"`
	LinesRemoved int `json:"loc_removed" yaml:"loc_removed"`
}

// CandidateOutput is one worker's proposed solution for a task. Every
// candidate in a single adjudication call must share the same task id and
// carry non-empty content.
type CandidateOutput struct {
	WorkerID  string         `json:"worker_id" yaml:"worker_id"`
	TaskID    string         `json:"task_id" yaml:"task_id"`
	Content   string         `json:"content" yaml:"content"`
	Rationale string         `json:"rationale,omitempty" yaml:"rationale,omitempty"`
	DiffStats DiffStats      `json:"diff_stats" yaml:"diff_stats"`
	Metadata  map[string]any `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Claim is an atomic, independently checkable assertion extracted from one
// sentence of candidate content. Confidence is intended to lie in [0,1].
type Claim struct {
	ID         string  `json:"id"`
	Statement  string  `json:"statement"`
	Confidence float64 `json:"confidence"`
}

// VerificationResult records the outcome of checking one content unit.
type VerificationResult struct {
	Status          string  `json:"status"`
	EvidenceQuality float64 `json:"evidence_quality"`
}

// EvidenceManifest is the aggregated result of evidence gathering for one
// or more candidates.
type EvidenceManifest struct {
	Claims               []Claim              `json:"claims"`
	VerificationResults  []VerificationResult `json:"verification_results"`
	FactualAccuracyScore float64              `json:"factual_accuracy_score"`
	CawsComplianceScore  float64              `json:"caws_compliance_score"`
}

// Violation is a single policy or budget violation reported by the policy
// validator.
type Violation struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Severity string `json:"severity,omitempty"`
}

// ExaminationResult is the outcome of examining a full candidate batch
// against CAWS policy and change budgets.
type ExaminationResult struct {
	OverallCompliant   bool        `json:"overall_compliant"`
	Violations         []Violation `json:"violations"`
	CandidatesExamined int         `json:"candidates_examined"`
}

// Verdict is the terminal output of one adjudication call. It is created
// once, never mutated after construction, and owned by the caller once
// returned.
type Verdict struct {
	TaskID           string            `json:"task_id"`
	WorkingSpecID    string            `json:"working_spec_id"`
	Status           VerdictStatus     `json:"status"`
	Confidence       float64           `json:"confidence"`
	EvidenceManifest *EvidenceManifest `json:"evidence_manifest,omitempty"`
	WaiverRequired   bool              `json:"waiver_required"`
	WaiverReason     string            `json:"waiver_reason,omitempty"`
	DebateRounds     int               `json:"debate_rounds"`
	ProvenanceID     string            `json:"provenance_id"`
	Timestamp        time.Time         `json:"timestamp"`
}
