package adjudication

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

const (
	// defaultFactualAccuracy applies when no claims were extracted.
	defaultFactualAccuracy = 0.8

	// placeholderCawsCompliance is a fixed placeholder pending a real
	// compliance estimator; it is not a computed value.
	placeholderCawsCompliance = 0.9

	// verifiedEvidenceQuality is the placeholder quality attached to each
	// processed unit's verification result.
	verifiedEvidenceQuality = 0.9

	// placeholderWorkingSpecID stands in for the working-spec id in claim
	// contexts; the aggregator operates per candidate and does not carry
	// the working spec.
	placeholderWorkingSpecID = "unspecified"
)

// EvidenceAggregator turns one candidate's free-text content into a scored
// bundle of verifiable claims by delegating to the claim processor,
// sentence by sentence.
type EvidenceAggregator struct {
	processor ClaimProcessor
	enabled   bool
	logger    *zap.Logger
}

// NewEvidenceAggregator creates an aggregator. When enabled is false the
// claim processor is never called and manifests carry default scores.
func NewEvidenceAggregator(processor ClaimProcessor, enabled bool, logger *zap.Logger) *EvidenceAggregator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EvidenceAggregator{processor: processor, enabled: enabled, logger: logger}
}

// segmentContent cuts content into sentence-like units on '.', '!' and '?',
// trimming whitespace and dropping empty units. This is a deliberately
// simple heuristic segmenter, not a sentence-boundary-disambiguation model.
func segmentContent(content string) []string {
	parts := strings.FieldsFunc(content, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	})
	units := make([]string, 0, len(parts))
	for _, p := range parts {
		if u := strings.TrimSpace(p); u != "" {
			units = append(units, u)
		}
	}
	return units
}

// Gather produces the evidence manifest for one candidate. A claim
// processor failure is fatal.
func (a *EvidenceAggregator) Gather(ctx context.Context, candidate CandidateOutput) (*EvidenceManifest, error) {
	manifest := &EvidenceManifest{
		Claims:              make([]Claim, 0),
		VerificationResults: make([]VerificationResult, 0),
	}

	if a.enabled {
		cctx := ClaimContext{
			TaskID:             candidate.TaskID,
			WorkingSpecID:      placeholderWorkingSpecID,
			SurroundingContext: candidate.Content,
			DomainHints:        []string{"code", "api"},
		}

		for _, unit := range segmentContent(candidate.Content) {
			extraction, err := a.processor.Process(ctx, unit, cctx)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrClaimExtraction, err)
			}
			manifest.Claims = append(manifest.Claims, extraction.AtomicClaims...)
			manifest.VerificationResults = append(manifest.VerificationResults, VerificationResult{
				Status:          "Verified",
				EvidenceQuality: verifiedEvidenceQuality,
			})
		}
	}

	manifest.FactualAccuracyScore = meanClaimConfidence(manifest.Claims)
	manifest.CawsComplianceScore = placeholderCawsCompliance

	a.logger.Debug("evidence gathered",
		zap.String("task_id", candidate.TaskID),
		zap.String("worker_id", candidate.WorkerID),
		zap.Int("claims", len(manifest.Claims)),
		zap.Float64("factual_accuracy", manifest.FactualAccuracyScore),
	)

	return manifest, nil
}

// meanClaimConfidence averages claim confidences, falling back to the
// default accuracy when nothing was extracted.
func meanClaimConfidence(claims []Claim) float64 {
	if len(claims) == 0 {
		return defaultFactualAccuracy
	}
	total := 0.0
	for _, c := range claims {
		total += c.Confidence
	}
	return total / float64(len(claims))
}

// CombineManifests merges per-candidate manifests into the combined
// evidence of a non-debate adjudication: claims and verification results
// are concatenated and the two scores are averaged arithmetically,
// unweighted. Returns nil for an empty input.
func CombineManifests(manifests []*EvidenceManifest) *EvidenceManifest {
	if len(manifests) == 0 {
		return nil
	}

	combined := &EvidenceManifest{
		Claims:              make([]Claim, 0),
		VerificationResults: make([]VerificationResult, 0),
	}
	var accuracy, compliance float64
	for _, m := range manifests {
		combined.Claims = append(combined.Claims, m.Claims...)
		combined.VerificationResults = append(combined.VerificationResults, m.VerificationResults...)
		accuracy += m.FactualAccuracyScore
		compliance += m.CawsComplianceScore
	}
	combined.FactualAccuracyScore = accuracy / float64(len(manifests))
	combined.CawsComplianceScore = compliance / float64(len(manifests))
	return combined
}
