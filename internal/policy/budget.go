// Package policy provides the reference CAWS policy validator: change
// budget enforcement plus risk-tier scrutiny checks. It deliberately stops
// short of a rule engine; richer policy suites plug in behind the same
// adjudication.PolicyValidator interface.
package policy

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"dev.caws.arbiter/internal/adjudication"
)

// BudgetValidator enforces the working spec's change budget against a
// candidate's diff statistics.
type BudgetValidator struct {
	logger *zap.Logger
}

// NewBudgetValidator creates a validator. A nil logger is replaced by a
// no-op logger.
func NewBudgetValidator(logger *zap.Logger) *BudgetValidator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BudgetValidator{logger: logger}
}

// Validate reports budget violations for one candidate. A zero budget
// field means that dimension is unbounded.
func (v *BudgetValidator) Validate(
	ctx context.Context,
	req adjudication.PolicyCheckRequest,
) (*adjudication.PolicyCheckResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	violations := []adjudication.Violation{}

	if req.ChangeBudget.MaxFiles > 0 && req.DiffStats.FilesChanged > req.ChangeBudget.MaxFiles {
		violations = append(violations, adjudication.Violation{
			Code:     "budget.max_files",
			Severity: "major",
			Message: fmt.Sprintf(
				"change touches %d files, budget allows %d",
				req.DiffStats.FilesChanged, req.ChangeBudget.MaxFiles,
			),
		})
	}

	loc := req.DiffStats.LinesAdded + req.DiffStats.LinesRemoved
	if req.ChangeBudget.MaxLOC > 0 && loc > req.ChangeBudget.MaxLOC {
		violations = append(violations, adjudication.Violation{
			Code:     "budget.max_loc",
			Severity: "major",
			Message: fmt.Sprintf(
				"change spans %d lines, budget allows %d",
				loc, req.ChangeBudget.MaxLOC,
			),
		})
	}

	// Tier 1 and 2 tasks demand tests and deterministic behavior unless a
	// waiver is already on file.
	if req.RiskTier <= adjudication.RiskTierHigh && len(req.Waivers) == 0 {
		if !req.TestsAdded {
			violations = append(violations, adjudication.Violation{
				Code:     "scrutiny.tests_required",
				Severity: "critical",
				Message:  fmt.Sprintf("risk tier %d requires accompanying tests", req.RiskTier),
			})
		}
		if !req.Deterministic {
			violations = append(violations, adjudication.Violation{
				Code:     "scrutiny.determinism_required",
				Severity: "critical",
				Message:  fmt.Sprintf("risk tier %d requires deterministic changes", req.RiskTier),
			})
		}
	}

	v.logger.Debug("policy check completed",
		zap.String("working_spec_id", req.WorkingSpecID),
		zap.Int("violations", len(violations)),
	)

	return &adjudication.PolicyCheckResult{Violations: violations}, nil
}
