package adjudication

import "fmt"

// Assessment is the scoring stage's output: status, confidence and waiver
// fields. Debate round count and provenance are attached afterward by the
// engine.
type Assessment struct {
	Status         VerdictStatus
	Confidence     float64
	WaiverRequired bool
	WaiverReason   string
}

// VerdictCalculator combines examination compliance, evidence quality and
// task risk into a single confidence score and decision status.
type VerdictCalculator struct {
	cfg Config
}

// NewVerdictCalculator creates a calculator for the given configuration.
func NewVerdictCalculator(cfg Config) *VerdictCalculator {
	return &VerdictCalculator{cfg: cfg.Normalize()}
}

// Assess scores one adjudication. Confidence starts at 0.5, gains 0.3 for
// batch compliance, gains evidence-weighted terms when evidence is present,
// and loses a risk penalty for high-scrutiny tiers. The result is
// deliberately not clamped to [0,1]; extreme inputs can exceed 1.0 (the
// approval comparison is insensitive to values above the threshold).
func (c *VerdictCalculator) Assess(
	spec WorkingSpec,
	exam *ExaminationResult,
	evidence *EvidenceManifest,
) Assessment {
	a := Assessment{Confidence: 0.5}

	if exam.OverallCompliant {
		a.Confidence += 0.3
	} else {
		a.WaiverRequired = true
		a.WaiverReason = fmt.Sprintf("CAWS violations: %d", len(exam.Violations))
	}

	if evidence != nil {
		a.Confidence += evidence.FactualAccuracyScore * 0.2
		a.Confidence += evidence.CawsComplianceScore * 0.2
	}

	a.Confidence -= riskPenalty(spec.RiskTier)

	// Status priority: a required waiver dominates regardless of the
	// confidence magnitude.
	switch {
	case a.WaiverRequired:
		a.Status = StatusWaiverRequired
	case a.Confidence >= c.cfg.MinVerdictConfidence:
		a.Status = StatusApproved
	default:
		a.Status = StatusRejected
	}

	return a
}

func riskPenalty(tier RiskTier) float64 {
	switch tier {
	case RiskTierCritical:
		return 0.1
	case RiskTierHigh:
		return 0.05
	default:
		return 0.0
	}
}
