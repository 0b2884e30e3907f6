package policy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dev.caws.arbiter/internal/adjudication"
)

func validate(t *testing.T, req adjudication.PolicyCheckRequest) []adjudication.Violation {
	t.Helper()
	result, err := NewBudgetValidator(nil).Validate(context.Background(), req)
	require.NoError(t, err)
	return result.Violations
}

func codes(violations []adjudication.Violation) []string {
	out := make([]string, 0, len(violations))
	for _, v := range violations {
		out = append(out, v.Code)
	}
	return out
}

func TestValidate_WithinBudget(t *testing.T) {
	violations := validate(t, adjudication.PolicyCheckRequest{
		RiskTier:     adjudication.RiskTierStandard,
		ChangeBudget: adjudication.ChangeBudget{MaxFiles: 10, MaxLOC: 500},
		DiffStats:    adjudication.DiffStats{FilesChanged: 3, LinesAdded: 100, LinesRemoved: 20},
	})
	assert.Empty(t, violations)
}

func TestValidate_FileBudgetExceeded(t *testing.T) {
	violations := validate(t, adjudication.PolicyCheckRequest{
		RiskTier:     adjudication.RiskTierStandard,
		ChangeBudget: adjudication.ChangeBudget{MaxFiles: 2, MaxLOC: 500},
		DiffStats:    adjudication.DiffStats{FilesChanged: 5, LinesAdded: 10},
	})
	require.Len(t, violations, 1)
	assert.Equal(t, "budget.max_files", violations[0].Code)
	assert.Equal(t, "major", violations[0].Severity)
	assert.Contains(t, violations[0].Message, "5 files")
}

func TestValidate_LOCBudgetCountsBothDirections(t *testing.T) {
	violations := validate(t, adjudication.PolicyCheckRequest{
		RiskTier:     adjudication.RiskTierStandard,
		ChangeBudget: adjudication.ChangeBudget{MaxFiles: 10, MaxLOC: 100},
		DiffStats:    adjudication.DiffStats{FilesChanged: 1, LinesAdded: 60, LinesRemoved: 60},
	})
	require.Len(t, violations, 1)
	assert.Equal(t, "budget.max_loc", violations[0].Code)
	assert.Contains(t, violations[0].Message, "120 lines")
}

func TestValidate_ZeroBudgetIsUnbounded(t *testing.T) {
	violations := validate(t, adjudication.PolicyCheckRequest{
		RiskTier:  adjudication.RiskTierStandard,
		DiffStats: adjudication.DiffStats{FilesChanged: 500, LinesAdded: 100000},
	})
	assert.Empty(t, violations)
}

func TestValidate_HighTierScrutiny(t *testing.T) {
	violations := validate(t, adjudication.PolicyCheckRequest{
		RiskTier:     adjudication.RiskTierHigh,
		ChangeBudget: adjudication.ChangeBudget{MaxFiles: 10, MaxLOC: 500},
		DiffStats:    adjudication.DiffStats{FilesChanged: 1, LinesAdded: 10},
	})
	assert.ElementsMatch(t,
		[]string{"scrutiny.tests_required", "scrutiny.determinism_required"},
		codes(violations),
	)
}

func TestValidate_HighTierSatisfiedScrutiny(t *testing.T) {
	violations := validate(t, adjudication.PolicyCheckRequest{
		RiskTier:      adjudication.RiskTierCritical,
		ChangeBudget:  adjudication.ChangeBudget{MaxFiles: 10, MaxLOC: 500},
		DiffStats:     adjudication.DiffStats{FilesChanged: 1, LinesAdded: 10},
		TestsAdded:    true,
		Deterministic: true,
	})
	assert.Empty(t, violations)
}

func TestValidate_WaiverSkipsScrutiny(t *testing.T) {
	violations := validate(t, adjudication.PolicyCheckRequest{
		RiskTier:     adjudication.RiskTierCritical,
		ChangeBudget: adjudication.ChangeBudget{MaxFiles: 10, MaxLOC: 500},
		DiffStats:    adjudication.DiffStats{FilesChanged: 1, LinesAdded: 10},
		Waivers:      []string{"WV-0042"},
	})
	assert.Empty(t, violations)
}

func TestValidate_StandardTierSkipsScrutiny(t *testing.T) {
	violations := validate(t, adjudication.PolicyCheckRequest{
		RiskTier:  adjudication.RiskTierStandard,
		DiffStats: adjudication.DiffStats{FilesChanged: 1, LinesAdded: 10},
	})
	assert.Empty(t, violations)
}

func TestValidate_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewBudgetValidator(nil).Validate(ctx, adjudication.PolicyCheckRequest{})
	require.ErrorIs(t, err, context.Canceled)
}
