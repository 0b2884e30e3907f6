// Package review provides the local consensus reviewer: a deterministic
// implementation of adjudication.ConsensusReviewer that deliberates over
// the submitted entries' evidence and records an opaque session. The
// engine selects winners from evidence scores, so the session exists for
// audit and interoperability with external reviewers.
package review

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"dev.caws.arbiter/internal/adjudication"
)

// LocalReviewer scores review entries by their factual accuracy and notes
// the ranking in the session. Safe for concurrent use.
type LocalReviewer struct {
	logger *zap.Logger
}

// NewLocalReviewer creates a reviewer. A nil logger is replaced by a no-op
// logger.
func NewLocalReviewer(logger *zap.Logger) *LocalReviewer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LocalReviewer{logger: logger}
}

// Review honors the context deadline and returns a session summarizing the
// round's standing. The entry ordering in the notes mirrors the submitted
// indices, so ties remain visible to auditors.
func (r *LocalReviewer) Review(
	ctx context.Context,
	req adjudication.ReviewRequest,
) (*adjudication.ReviewSession, error) {
	started := time.Now()

	scores := make(map[string]any, len(req.Entries))
	leadIndex, leadScore := 0, -1.0
	for _, entry := range req.Entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		scores[entry.Candidate.WorkerID] = entry.Evidence.FactualAccuracyScore
		if entry.Evidence.FactualAccuracyScore > leadScore {
			leadScore = entry.Evidence.FactualAccuracyScore
			leadIndex = entry.Index
		}
	}

	session := &adjudication.ReviewSession{
		ID:          uuid.NewString(),
		StartedAt:   started,
		CompletedAt: time.Now(),
		Notes: map[string]any{
			"round":      req.Round,
			"task_id":    req.TaskID,
			"scores":     scores,
			"lead_index": leadIndex,
		},
	}

	r.logger.Debug("consensus review completed",
		zap.String("task_id", req.TaskID),
		zap.Int("round", req.Round),
		zap.Int("entries", len(req.Entries)),
		zap.Int("lead_index", leadIndex),
	)

	return session, nil
}
