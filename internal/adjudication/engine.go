package adjudication

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"dev.caws.arbiter/internal/adjudication/audit"
	"dev.caws.arbiter/internal/observability/metrics"
)

// Collaborators bundles the external services one engine borrows. The
// engine does not own their lifecycle; any of them may be swapped for a
// stub in tests.
type Collaborators struct {
	PolicyValidator   PolicyValidator
	ClaimProcessor    ClaimProcessor
	ConsensusReviewer ConsensusReviewer
	ProvenanceSigner  ProvenanceSigner
}

// Engine runs the full adjudication pipeline. It is safe for concurrent
// use: every Adjudicate call owns its round counter and candidate roster.
type Engine struct {
	cfg        Config
	gate       *ExaminationGate
	aggregator *EvidenceAggregator
	debate     *DebateOrchestrator
	calculator *VerdictCalculator
	publisher  *ProvenancePublisher
	audit      *audit.Recorder
	metrics    *metrics.Collector
	logger     *zap.Logger
}

// Option configures optional engine facilities.
type Option func(*Engine)

// WithLogger sets the engine's structured logger.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithAuditRecorder attaches an audit recorder; every adjudication's
// events become inspectable through it.
func WithAuditRecorder(r *audit.Recorder) Option {
	return func(e *Engine) { e.audit = r }
}

// WithMetrics attaches a Prometheus collector.
func WithMetrics(c *metrics.Collector) Option {
	return func(e *Engine) { e.metrics = c }
}

// NewEngine wires the pipeline components around the given collaborators.
func NewEngine(cfg Config, collab Collaborators, opts ...Option) *Engine {
	e := &Engine{cfg: cfg.Normalize(), logger: zap.NewNop()}
	for _, opt := range opts {
		opt(e)
	}

	e.gate = NewExaminationGate(collab.PolicyValidator, e.logger)
	e.aggregator = NewEvidenceAggregator(collab.ClaimProcessor, e.cfg.EnableClaimExtraction, e.logger)
	e.debate = NewDebateOrchestrator(e.cfg, e.aggregator, collab.ConsensusReviewer, e.audit, e.logger)
	e.calculator = NewVerdictCalculator(e.cfg)
	e.publisher = NewProvenancePublisher(collab.ProvenanceSigner, e.logger)
	return e
}

// Result is the detailed outcome of one adjudication: the verdict, the
// signature over its serialized record, and the id under which its audit
// trail was recorded.
type Result struct {
	Verdict        *Verdict
	Signature      []byte
	AdjudicationID string
}

// Adjudicate runs the pipeline and returns the verdict. See
// AdjudicateDetailed for the signature and audit handle.
func (e *Engine) Adjudicate(
	ctx context.Context,
	spec WorkingSpec,
	candidates []CandidateOutput,
) (*Verdict, error) {
	res, err := e.AdjudicateDetailed(ctx, spec, candidates)
	if err != nil {
		return nil, err
	}
	return res.Verdict, nil
}

// AdjudicateDetailed runs intake, examination, evidence gathering
// (optionally inside debate rounds), verdict calculation and provenance
// publication. It returns one complete verdict or one error, never both
// and never a partial verdict.
func (e *Engine) AdjudicateDetailed(
	ctx context.Context,
	spec WorkingSpec,
	candidates []CandidateOutput,
) (*Result, error) {
	started := time.Now()
	adjudicationID := uuid.NewString()

	res, err := e.run(ctx, adjudicationID, spec, candidates)
	if err != nil {
		e.observeError(err)
		e.record(adjudicationID, &audit.Event{
			Type: audit.EventErrorOccurred,
			Data: map[string]any{"error": err.Error()},
		})
		return nil, err
	}

	e.metrics.ObserveVerdict(
		string(res.Verdict.Status),
		time.Since(started).Seconds(),
		res.Verdict.DebateRounds,
	)
	return res, nil
}

func (e *Engine) run(
	ctx context.Context,
	adjudicationID string,
	spec WorkingSpec,
	candidates []CandidateOutput,
) (*Result, error) {
	if err := checkIntake(candidates); err != nil {
		return nil, err
	}
	taskID := candidates[0].TaskID

	e.record(adjudicationID, &audit.Event{
		Type:   audit.EventIntakeAccepted,
		TaskID: taskID,
		Data:   map[string]any{"candidates": len(candidates)},
	})

	exam, err := e.gate.Examine(ctx, spec, candidates)
	if err != nil {
		return nil, err
	}
	e.record(adjudicationID, &audit.Event{
		Type:   audit.EventExaminationCompleted,
		TaskID: taskID,
		Data: map[string]any{
			"overall_compliant": exam.OverallCompliant,
			"violations":        len(exam.Violations),
		},
	})

	evidence, rounds, err := e.gatherEvidence(ctx, adjudicationID, spec, candidates)
	if err != nil {
		return nil, err
	}
	e.metrics.ObserveEvidence(len(evidence.Claims))

	assessment := e.calculator.Assess(spec, exam, evidence)

	verdict := &Verdict{
		TaskID:           taskID,
		WorkingSpecID:    spec.ID,
		Status:           assessment.Status,
		Confidence:       assessment.Confidence,
		EvidenceManifest: evidence,
		WaiverRequired:   assessment.WaiverRequired,
		WaiverReason:     assessment.WaiverReason,
		DebateRounds:     rounds,
		Timestamp:        time.Now().UTC(),
	}

	signature, err := e.publisher.Publish(verdict)
	if err != nil {
		return nil, err
	}

	e.record(adjudicationID, &audit.Event{
		Type:   audit.EventVerdictPublished,
		TaskID: taskID,
		Data: map[string]any{
			"provenance_id": verdict.ProvenanceID,
			"status":        string(verdict.Status),
			"confidence":    verdict.Confidence,
		},
	})

	e.logger.Info("adjudication completed",
		zap.String("adjudication_id", adjudicationID),
		zap.String("task_id", taskID),
		zap.String("status", string(verdict.Status)),
		zap.Float64("confidence", verdict.Confidence),
		zap.Int("debate_rounds", verdict.DebateRounds),
		zap.String("provenance_id", verdict.ProvenanceID),
	)

	return &Result{
		Verdict:        verdict,
		Signature:      signature,
		AdjudicationID: adjudicationID,
	}, nil
}

// gatherEvidence picks the evidence strategy: the debate loop when enabled
// and contested, the single-candidate short circuit otherwise, or combined
// per-candidate evidence for a non-debate multi-candidate batch.
func (e *Engine) gatherEvidence(
	ctx context.Context,
	adjudicationID string,
	spec WorkingSpec,
	candidates []CandidateOutput,
) (*EvidenceManifest, int, error) {
	if e.cfg.EnableDebateProtocol || len(candidates) == 1 {
		outcome, err := e.debate.Run(ctx, adjudicationID, spec, candidates)
		if err != nil {
			return nil, 0, err
		}
		return outcome.Evidence, outcome.Rounds, nil
	}

	manifests, err := e.debate.gatherAll(ctx, adjudicationID, candidates)
	if err != nil {
		return nil, 0, err
	}
	return CombineManifests(manifests), 0, nil
}

func (e *Engine) observeError(err error) {
	switch {
	case errors.Is(err, ErrPolicyValidation):
		e.metrics.ObserveCollaboratorError("policy_validator")
	case errors.Is(err, ErrClaimExtraction):
		e.metrics.ObserveCollaboratorError("claim_processor")
	case errors.Is(err, ErrTimeout):
		e.metrics.ObserveCollaboratorError("consensus_reviewer")
	}
}

func (e *Engine) record(adjudicationID string, event *audit.Event) {
	if e.audit != nil {
		e.audit.Record(adjudicationID, event)
	}
}
