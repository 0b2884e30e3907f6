package review

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dev.caws.arbiter/internal/adjudication"
)

func reviewRequest() adjudication.ReviewRequest {
	return adjudication.ReviewRequest{
		TaskID:        "task-1",
		WorkingSpecID: "spec-001",
		Round:         2,
		Entries: []adjudication.ReviewEntry{
			{
				Index:     0,
				Candidate: adjudication.CandidateOutput{WorkerID: "w1", TaskID: "task-1", Content: "alpha"},
				Evidence:  adjudication.EvidenceManifest{FactualAccuracyScore: 0.5},
			},
			{
				Index:     1,
				Candidate: adjudication.CandidateOutput{WorkerID: "w2", TaskID: "task-1", Content: "beta"},
				Evidence:  adjudication.EvidenceManifest{FactualAccuracyScore: 0.9},
			},
		},
	}
}

func TestReview_SessionNotesRanking(t *testing.T) {
	session, err := NewLocalReviewer(nil).Review(context.Background(), reviewRequest())
	require.NoError(t, err)

	assert.NotEmpty(t, session.ID)
	assert.False(t, session.StartedAt.IsZero())
	assert.False(t, session.CompletedAt.Before(session.StartedAt))

	assert.Equal(t, 2, session.Notes["round"])
	assert.Equal(t, "task-1", session.Notes["task_id"])
	assert.Equal(t, 1, session.Notes["lead_index"])

	scores, ok := session.Notes["scores"].(map[string]any)
	require.True(t, ok)
	assert.InDelta(t, 0.5, scores["w1"].(float64), 1e-9)
	assert.InDelta(t, 0.9, scores["w2"].(float64), 1e-9)
}

func TestReview_SessionsAreDistinct(t *testing.T) {
	reviewer := NewLocalReviewer(nil)

	first, err := reviewer.Review(context.Background(), reviewRequest())
	require.NoError(t, err)
	second, err := reviewer.Review(context.Background(), reviewRequest())
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
}

func TestReview_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewLocalReviewer(nil).Review(ctx, reviewRequest())
	require.ErrorIs(t, err, context.Canceled)
}
