package adjudication

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ExaminationGate validates a candidate batch for internal consistency and
// checks each candidate against CAWS policy and change-budget rules through
// the external policy validator.
type ExaminationGate struct {
	validator PolicyValidator
	logger    *zap.Logger
}

// NewExaminationGate creates a gate backed by the given validator.
func NewExaminationGate(validator PolicyValidator, logger *zap.Logger) *ExaminationGate {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExaminationGate{validator: validator, logger: logger}
}

// checkIntake enforces the batch invariants before any collaborator work:
// non-empty list, one shared task id, non-empty content.
func checkIntake(candidates []CandidateOutput) error {
	if len(candidates) == 0 {
		return fmt.Errorf("%w: candidate list is empty", ErrInvalidCandidate)
	}

	taskID := candidates[0].TaskID
	for i, c := range candidates {
		if c.TaskID != taskID {
			return fmt.Errorf(
				"%w: candidate %d has task id %q, expected %q",
				ErrInvalidCandidate, i, c.TaskID, taskID,
			)
		}
		if c.Content == "" {
			return fmt.Errorf(
				"%w: candidate %d (worker %s) has empty content",
				ErrInvalidCandidate, i, c.WorkerID,
			)
		}
	}
	return nil
}

// Examine validates the batch shape and then examines every candidate
// against policy, in parallel. Violations from all candidates are
// concatenated in candidate order; the batch is compliant iff that list is
// empty. A validator call failure is fatal and not retried here.
func (g *ExaminationGate) Examine(
	ctx context.Context,
	spec WorkingSpec,
	candidates []CandidateOutput,
) (*ExaminationResult, error) {
	if err := checkIntake(candidates); err != nil {
		return nil, err
	}

	criteria := renderAcceptanceCriteria(spec.AcceptanceCriteria)

	perCandidate := make([][]Violation, len(candidates))
	eg, egCtx := errgroup.WithContext(ctx)
	for i, c := range candidates {
		eg.Go(func() error {
			req := PolicyCheckRequest{
				WorkingSpecID:      spec.ID,
				RiskTier:           spec.RiskTier,
				ScopeIncluded:      spec.Scope.Included,
				ScopeExcluded:      spec.Scope.Excluded,
				AcceptanceCriteria: criteria,
				ChangeBudget:       spec.ChangeBudget,
				DiffStats:          c.DiffStats,
				Patches:            metadataStrings(c.Metadata, "patches"),
				LanguageHints:      metadataStrings(c.Metadata, "language_hints"),
				TestsAdded:         metadataBool(c.Metadata, "tests_added"),
				Deterministic:      metadataBool(c.Metadata, "deterministic"),
				Waivers:            metadataStrings(c.Metadata, "waivers"),
			}
			res, err := g.validator.Validate(egCtx, req)
			if err != nil {
				return fmt.Errorf("%w: candidate %d: %v", ErrPolicyValidation, i, err)
			}
			perCandidate[i] = res.Violations
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	violations := make([]Violation, 0)
	for _, vs := range perCandidate {
		violations = append(violations, vs...)
	}

	g.logger.Debug("examination completed",
		zap.String("working_spec_id", spec.ID),
		zap.Int("candidates", len(candidates)),
		zap.Int("violations", len(violations)),
	)

	return &ExaminationResult{
		OverallCompliant:   len(violations) == 0,
		Violations:         violations,
		CandidatesExamined: len(candidates),
	}, nil
}

// metadataBool reads a boolean flag from a candidate's open metadata map.
func metadataBool(metadata map[string]any, key string) bool {
	v, ok := metadata[key].(bool)
	return ok && v
}

// metadataStrings reads a string list from a candidate's open metadata
// map, accepting both []string and []any encodings (the latter is what
// JSON decoding produces).
func metadataStrings(metadata map[string]any, key string) []string {
	switch v := metadata[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

// renderAcceptanceCriteria flattens criteria into the "Given X, When Y,
// Then Z" strings the policy validator consumes.
func renderAcceptanceCriteria(criteria []AcceptanceCriterion) []string {
	out := make([]string, 0, len(criteria))
	for _, ac := range criteria {
		out = append(out, fmt.Sprintf("Given %s, When %s, Then %s", ac.Given, ac.When, ac.Then))
	}
	return out
}
