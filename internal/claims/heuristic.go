// Package claims provides a pattern-based claim processor. It extracts
// atomic assertions from sentence-like units using lexical heuristics
// rather than a language model, which makes it deterministic and cheap
// enough to serve as the default local collaborator.
package claims

import (
	"context"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"dev.caws.arbiter/internal/adjudication"
)

// HeuristicProcessor implements adjudication.ClaimProcessor with regular
// expressions and assertion-verb detection. Safe for concurrent use.
type HeuristicProcessor struct {
	logger *zap.Logger

	assertionRegex  *regexp.Regexp
	numberRegex     *regexp.Regexp
	identifierRegex *regexp.Regexp
}

// assertion verbs that mark a sentence as a checkable statement of fact.
var assertionVerbs = []string{
	"is", "are", "was", "were", "has", "have",
	"uses", "supports", "returns", "provides", "implements",
	"requires", "ensures", "guarantees", "handles", "stores",
}

// NewHeuristicProcessor creates a processor. A nil logger is replaced by a
// no-op logger.
func NewHeuristicProcessor(logger *zap.Logger) *HeuristicProcessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HeuristicProcessor{
		logger:          logger,
		assertionRegex:  regexp.MustCompile(`(?i)\b(` + strings.Join(assertionVerbs, "|") + `)\b`),
		numberRegex:     regexp.MustCompile(`\b\d+(\.\d+)?%?\b`),
		identifierRegex: regexp.MustCompile("`[^`]+`|\\b[a-z]+[A-Z][A-Za-z]*\\b|\\b[A-Za-z_]+\\(\\)"),
	}
}

// Process extracts at most one atomic claim from the given sentence-like
// unit. Sentences without an assertion verb yield no claims.
func (p *HeuristicProcessor) Process(
	ctx context.Context,
	sentence string,
	cctx adjudication.ClaimContext,
) (*adjudication.ClaimExtraction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	statement := strings.TrimSpace(sentence)
	extraction := &adjudication.ClaimExtraction{AtomicClaims: []adjudication.Claim{}}

	if statement == "" || !p.assertionRegex.MatchString(statement) {
		return extraction, nil
	}

	confidence := 0.6
	if p.numberRegex.MatchString(statement) {
		confidence += 0.15
	}
	if p.identifierRegex.MatchString(statement) {
		confidence += 0.1
	}
	if containsAnyFold(statement, cctx.DomainHints) {
		confidence += 0.1
	}
	if confidence > 0.95 {
		confidence = 0.95
	}

	claim := adjudication.Claim{
		ID:         uuid.NewString(),
		Statement:  statement,
		Confidence: confidence,
	}
	extraction.AtomicClaims = append(extraction.AtomicClaims, claim)

	p.logger.Debug("claim extracted",
		zap.String("task_id", cctx.TaskID),
		zap.Float64("confidence", confidence),
	)

	return extraction, nil
}

func containsAnyFold(s string, hints []string) bool {
	lower := strings.ToLower(s)
	for _, h := range hints {
		if h != "" && strings.Contains(lower, strings.ToLower(h)) {
			return true
		}
	}
	return false
}
