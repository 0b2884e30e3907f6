package adjudication

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"dev.caws.arbiter/internal/adjudication/audit"
)

// DebatePhase is the orchestrator's state for one adjudication call.
type DebatePhase string

const (
	PhaseStart           DebatePhase = "start"
	PhaseRoundInProgress DebatePhase = "round_in_progress"
	PhaseConverged       DebatePhase = "converged"
	PhaseExhausted       DebatePhase = "exhausted"
)

// counterArgument is appended to every non-winning candidate's content
// between rounds.
const counterArgument = "Counter-argument: the proposed solution may have factual inconsistencies that need verification"

// DebateOutcome is the result of running the debate loop (or its
// single-candidate short circuit) for one adjudication call.
type DebateOutcome struct {
	Evidence    *EvidenceManifest
	WinnerIndex int
	Rounds      int
	Phase       DebatePhase
	FinalRoster []CandidateOutput
}

// DebateOrchestrator runs bounded rounds of evidence comparison and
// counter-argument generation until one candidate's evidence clears the
// configured confidence bar or the round budget is exhausted.
//
// All per-call mutable state (round counter, current roster) is local to
// Run, so one orchestrator may serve concurrent adjudications.
type DebateOrchestrator struct {
	cfg        Config
	aggregator *EvidenceAggregator
	reviewer   ConsensusReviewer
	audit      *audit.Recorder
	logger     *zap.Logger
}

// NewDebateOrchestrator wires the debate loop's collaborators. The audit
// recorder may be nil.
func NewDebateOrchestrator(
	cfg Config,
	aggregator *EvidenceAggregator,
	reviewer ConsensusReviewer,
	recorder *audit.Recorder,
	logger *zap.Logger,
) *DebateOrchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DebateOrchestrator{
		cfg:        cfg.Normalize(),
		aggregator: aggregator,
		reviewer:   reviewer,
		audit:      recorder,
		logger:     logger,
	}
}

// Run executes the debate protocol for the given candidates. With debate
// disabled, or exactly one candidate, evidence is gathered once and
// returned immediately without entering a round.
func (o *DebateOrchestrator) Run(
	ctx context.Context,
	adjudicationID string,
	spec WorkingSpec,
	candidates []CandidateOutput,
) (*DebateOutcome, error) {
	if !o.cfg.EnableDebateProtocol || len(candidates) == 1 {
		evidence, err := o.aggregator.Gather(ctx, candidates[0])
		if err != nil {
			return nil, err
		}
		o.record(adjudicationID, &audit.Event{
			Type:   audit.EventEvidenceGathered,
			TaskID: candidates[0].TaskID,
		})
		return &DebateOutcome{
			Evidence:    evidence,
			WinnerIndex: 0,
			Rounds:      0,
			Phase:       PhaseConverged,
			FinalRoster: candidates,
		}, nil
	}

	// Roster is rebuilt between rounds; earlier rounds' candidate lists
	// are never mutated so their inputs stay inspectable for auditing.
	roster := candidates
	taskID := candidates[0].TaskID

	for round := 1; round <= o.cfg.MaxDebateRounds; round++ {
		o.record(adjudicationID, &audit.Event{
			Type:   audit.EventRoundStarted,
			TaskID: taskID,
			Round:  round,
		})

		evidence, err := o.gatherAll(ctx, adjudicationID, roster)
		if err != nil {
			return nil, err
		}

		if err := o.submitReview(ctx, spec, taskID, round, roster, evidence); err != nil {
			return nil, err
		}

		winner := argmaxAccuracy(evidence)
		winnerScore := evidence[winner].FactualAccuracyScore

		o.record(adjudicationID, &audit.Event{
			Type:           audit.EventWinnerSelected,
			TaskID:         taskID,
			Round:          round,
			CandidateIndex: winner,
			Data:           map[string]any{"factual_accuracy_score": winnerScore},
		})

		o.logger.Debug("debate round completed",
			zap.String("task_id", taskID),
			zap.Int("round", round),
			zap.Int("winner_index", winner),
			zap.Float64("winner_score", winnerScore),
		)

		if winnerScore >= o.cfg.MinVerdictConfidence {
			o.record(adjudicationID, &audit.Event{
				Type:   audit.EventDebateConverged,
				TaskID: taskID,
				Round:  round,
			})
			return &DebateOutcome{
				Evidence:    evidence[winner],
				WinnerIndex: winner,
				Rounds:      round,
				Phase:       PhaseConverged,
				FinalRoster: roster,
			}, nil
		}

		roster = critiqueLosers(roster, winner)

		o.record(adjudicationID, &audit.Event{
			Type:   audit.EventRoundCompleted,
			TaskID: taskID,
			Round:  round,
		})
	}

	// Round budget exhausted: re-evaluate the final, already-critiqued
	// roster and pick the argmax by the same tie-break rule.
	evidence, err := o.gatherAll(ctx, adjudicationID, roster)
	if err != nil {
		return nil, err
	}
	winner := argmaxAccuracy(evidence)

	o.record(adjudicationID, &audit.Event{
		Type:           audit.EventDebateExhausted,
		TaskID:         taskID,
		Round:          o.cfg.MaxDebateRounds,
		CandidateIndex: winner,
	})

	return &DebateOutcome{
		Evidence:    evidence[winner],
		WinnerIndex: winner,
		Rounds:      o.cfg.MaxDebateRounds,
		Phase:       PhaseExhausted,
		FinalRoster: roster,
	}, nil
}

// gatherAll extracts evidence for every roster entry in parallel. Each
// extraction is independent and order-insensitive; results are joined in
// roster order before the round proceeds.
func (o *DebateOrchestrator) gatherAll(
	ctx context.Context,
	adjudicationID string,
	roster []CandidateOutput,
) ([]*EvidenceManifest, error) {
	manifests := make([]*EvidenceManifest, len(roster))
	eg, egCtx := errgroup.WithContext(ctx)
	for i, c := range roster {
		eg.Go(func() error {
			m, err := o.aggregator.Gather(egCtx, c)
			if err != nil {
				return err
			}
			manifests[i] = m
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	o.record(adjudicationID, &audit.Event{
		Type:   audit.EventEvidenceGathered,
		TaskID: roster[0].TaskID,
		Data:   map[string]any{"candidates": len(roster)},
	})
	return manifests, nil
}

// submitReview sends the round's candidates and evidence to the consensus
// reviewer, bounded by the configured adjudication timeout. Exceeding the
// budget aborts the whole adjudication.
func (o *DebateOrchestrator) submitReview(
	ctx context.Context,
	spec WorkingSpec,
	taskID string,
	round int,
	roster []CandidateOutput,
	evidence []*EvidenceManifest,
) error {
	entries := make([]ReviewEntry, len(roster))
	for i := range roster {
		entries[i] = ReviewEntry{
			Index:     i,
			Candidate: roster[i],
			Evidence:  *evidence[i],
		}
	}

	reviewCtx, cancel := context.WithTimeout(ctx, o.cfg.MaxAdjudicationTime)
	defer cancel()

	_, err := o.reviewer.Review(reviewCtx, ReviewRequest{
		TaskID:        taskID,
		WorkingSpecID: spec.ID,
		Round:         round,
		Entries:       entries,
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || reviewCtx.Err() != nil {
			return fmt.Errorf("%w: consensus review in round %d: %v", ErrTimeout, round, err)
		}
		return fmt.Errorf("consensus review in round %d: %w", round, err)
	}
	return nil
}

// argmaxAccuracy returns the index of the strictly greatest factual
// accuracy score. Ties resolve to the lowest index: a deterministic,
// stable tie-break, not a semantically motivated one.
func argmaxAccuracy(evidence []*EvidenceManifest) int {
	best := 0
	for i := 1; i < len(evidence); i++ {
		if evidence[i].FactualAccuracyScore > evidence[best].FactualAccuracyScore {
			best = i
		}
	}
	return best
}

// critiqueLosers builds the next round's roster: a fresh list in which
// every candidate except the winner carries the appended counter-argument.
// The previous roster is left untouched.
func critiqueLosers(roster []CandidateOutput, winner int) []CandidateOutput {
	next := make([]CandidateOutput, len(roster))
	for i, c := range roster {
		next[i] = c
		if i != winner {
			next[i].Content = c.Content + "\n\n" + counterArgument
		}
	}
	return next
}

func (o *DebateOrchestrator) record(adjudicationID string, event *audit.Event) {
	if o.audit != nil {
		o.audit.Record(adjudicationID, event)
	}
}
