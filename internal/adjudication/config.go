package adjudication

import "time"

// Config tunes one adjudication engine. All fields are overridable; zero
// values are replaced by defaults via Normalize.
type Config struct {
	// MaxAdjudicationTime bounds each consensus reviewer call. Exceeding
	// it aborts the whole adjudication.
	MaxAdjudicationTime time.Duration `json:"max_adjudication_time" yaml:"max_adjudication_time"`

	// EnableClaimExtraction toggles the claim processor. When disabled,
	// evidence manifests carry no claims and fall back to default scores.
	EnableClaimExtraction bool `json:"enable_claim_extraction" yaml:"enable_claim_extraction"`

	// EnableDebateProtocol toggles multi-candidate debate rounds.
	EnableDebateProtocol bool `json:"enable_debate_protocol" yaml:"enable_debate_protocol"`

	// MaxDebateRounds bounds the debate loop.
	MaxDebateRounds int `json:"max_debate_rounds" yaml:"max_debate_rounds"`

	// MinVerdictConfidence is both the debate convergence bar and the
	// approval threshold.
	MinVerdictConfidence float64 `json:"min_verdict_confidence" yaml:"min_verdict_confidence"`
}

// DefaultConfig returns the engine defaults.
func DefaultConfig() Config {
	return Config{
		MaxAdjudicationTime:   300 * time.Second,
		EnableClaimExtraction: true,
		EnableDebateProtocol:  true,
		MaxDebateRounds:       3,
		MinVerdictConfidence:  0.8,
	}
}

// Normalize fills unset numeric fields with defaults. Boolean toggles are
// honored as given.
func (c Config) Normalize() Config {
	def := DefaultConfig()
	if c.MaxAdjudicationTime <= 0 {
		c.MaxAdjudicationTime = def.MaxAdjudicationTime
	}
	if c.MaxDebateRounds <= 0 {
		c.MaxDebateRounds = def.MaxDebateRounds
	}
	if c.MinVerdictConfidence <= 0 {
		c.MinVerdictConfidence = def.MinVerdictConfidence
	}
	return c
}
