package adjudication

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAssess_CompliantStandardTier(t *testing.T) {
	calc := NewVerdictCalculator(DefaultConfig())

	a := calc.Assess(
		testSpec(RiskTierStandard),
		&ExaminationResult{OverallCompliant: true, CandidatesExamined: 1},
		&EvidenceManifest{FactualAccuracyScore: 0.8, CawsComplianceScore: 0.9},
	)

	// 0.5 + 0.3 + 0.8*0.2 + 0.9*0.2 = 1.14
	assert.InDelta(t, 1.14, a.Confidence, 1e-9)
	assert.Equal(t, StatusApproved, a.Status)
	assert.False(t, a.WaiverRequired)
}

// Scenario: high-scrutiny tier with two violations still scores the full
// evidence terms, but the waiver dominates the status.
func TestAssess_ViolationsForceWaiver(t *testing.T) {
	calc := NewVerdictCalculator(DefaultConfig())

	a := calc.Assess(
		testSpec(RiskTierHigh),
		&ExaminationResult{
			OverallCompliant: false,
			Violations: []Violation{
				{Code: "budget.max_files", Severity: "error"},
				{Code: "budget.max_loc", Severity: "error"},
			},
			CandidatesExamined: 1,
		},
		&EvidenceManifest{FactualAccuracyScore: 0.9, CawsComplianceScore: 0.9},
	)

	// 0.5 + 0.9*0.2 + 0.9*0.2 - 0.05 = 0.81
	assert.InDelta(t, 0.81, a.Confidence, 1e-9)
	assert.Equal(t, StatusWaiverRequired, a.Status)
	assert.True(t, a.WaiverRequired)
	assert.Equal(t, "CAWS violations: 2", a.WaiverReason)
}

func TestAssess_ConfidenceNotClamped(t *testing.T) {
	calc := NewVerdictCalculator(DefaultConfig())

	a := calc.Assess(
		testSpec(RiskTierCritical),
		&ExaminationResult{OverallCompliant: true, CandidatesExamined: 1},
		&EvidenceManifest{FactualAccuracyScore: 1.0, CawsComplianceScore: 1.0},
	)

	// 0.5 + 0.3 + 0.2 + 0.2 - 0.1 = 1.1, above 1.0 on purpose.
	assert.InDelta(t, 1.1, a.Confidence, 1e-9)
	assert.Equal(t, StatusApproved, a.Status)
}

func TestAssess_BelowThresholdRejected(t *testing.T) {
	calc := NewVerdictCalculator(DefaultConfig())

	a := calc.Assess(
		testSpec(RiskTierCritical),
		&ExaminationResult{OverallCompliant: true, CandidatesExamined: 1},
		&EvidenceManifest{FactualAccuracyScore: 0.1, CawsComplianceScore: 0.1},
	)

	// 0.5 + 0.3 + 0.02 + 0.02 - 0.1 = 0.74 < 0.8
	assert.InDelta(t, 0.74, a.Confidence, 1e-9)
	assert.Equal(t, StatusRejected, a.Status)
}

func TestAssess_NilEvidenceSkipsEvidenceTerms(t *testing.T) {
	calc := NewVerdictCalculator(DefaultConfig())

	a := calc.Assess(
		testSpec(RiskTierLow),
		&ExaminationResult{OverallCompliant: true, CandidatesExamined: 1},
		nil,
	)

	assert.InDelta(t, 0.8, a.Confidence, 1e-9)
	assert.Equal(t, StatusApproved, a.Status)
}

func TestRiskPenalty(t *testing.T) {
	cases := []struct {
		tier RiskTier
		want float64
	}{
		{RiskTierCritical, 0.1},
		{RiskTierHigh, 0.05},
		{RiskTierStandard, 0.0},
		{RiskTierLow, 0.0},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprintf("tier_%d", tc.tier), func(t *testing.T) {
			assert.InDelta(t, tc.want, riskPenalty(tc.tier), 1e-9)
		})
	}
}
