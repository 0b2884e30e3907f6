// Package audit records the events of adjudication calls so that every
// round's inputs and decisions remain inspectable after the fact. The
// recorder is in-memory, keyed by adjudication id, and safe for concurrent
// use across adjudications.
package audit

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"
)

// EventType identifies the kind of adjudication event.
type EventType string

const (
	EventIntakeAccepted       EventType = "intake_accepted"
	EventExaminationCompleted EventType = "examination_completed"
	EventEvidenceGathered     EventType = "evidence_gathered"
	EventRoundStarted         EventType = "round_started"
	EventRoundCompleted       EventType = "round_completed"
	EventWinnerSelected       EventType = "winner_selected"
	EventDebateConverged      EventType = "debate_converged"
	EventDebateExhausted      EventType = "debate_exhausted"
	EventVerdictPublished     EventType = "verdict_published"
	EventErrorOccurred        EventType = "error_occurred"
)

// Event is a single entry in an adjudication's trail.
type Event struct {
	ID             string         `json:"id"`
	Timestamp      time.Time      `json:"timestamp"`
	Type           EventType      `json:"type"`
	AdjudicationID string         `json:"adjudication_id"`
	TaskID         string         `json:"task_id,omitempty"`
	Round          int            `json:"round,omitempty"`
	CandidateIndex int            `json:"candidate_index,omitempty"`
	Data           map[string]any `json:"data,omitempty"`
}

// Summary condenses one adjudication's trail.
type Summary struct {
	AdjudicationID string        `json:"adjudication_id"`
	TaskID         string        `json:"task_id,omitempty"`
	RoundsRecorded int           `json:"rounds_recorded"`
	EvidencePasses int           `json:"evidence_passes"`
	Errors         int           `json:"errors"`
	Converged      bool          `json:"converged"`
	Exhausted      bool          `json:"exhausted"`
	Published      bool          `json:"published"`
	StartTime      time.Time     `json:"start_time"`
	EndTime        time.Time     `json:"end_time"`
	Duration       time.Duration `json:"duration"`
}

// Trail is the complete recorded history of one adjudication.
type Trail struct {
	AdjudicationID string   `json:"adjudication_id"`
	Events         []*Event `json:"events"`
	Summary        *Summary `json:"summary"`
}

// Recorder accumulates adjudication events. The zero value is not usable;
// construct with NewRecorder.
type Recorder struct {
	events  map[string][]*Event
	counter int64
	mu      sync.RWMutex
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{events: make(map[string][]*Event)}
}

// Record appends an event to the given adjudication's trail. Missing ids
// and timestamps are filled in.
func (r *Recorder) Record(adjudicationID string, event *Event) {
	if event == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if event.ID == "" {
		r.counter++
		event.ID = fmt.Sprintf("evt-%d", r.counter)
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	event.AdjudicationID = adjudicationID

	r.events[adjudicationID] = append(r.events[adjudicationID], event)
}

// Events returns a copy of the adjudication's events sorted by timestamp,
// or nil if the adjudication is unknown.
func (r *Recorder) Events(adjudicationID string) []*Event {
	r.mu.RLock()
	defer r.mu.RUnlock()

	raw, ok := r.events[adjudicationID]
	if !ok {
		return nil
	}

	out := make([]*Event, len(raw))
	copy(out, raw)
	sort.Slice(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out
}

// Trail returns the full trail with its computed summary, or nil if the
// adjudication is unknown.
func (r *Recorder) Trail(adjudicationID string) *Trail {
	events := r.Events(adjudicationID)
	if events == nil {
		return nil
	}
	return &Trail{
		AdjudicationID: adjudicationID,
		Events:         events,
		Summary:        r.Summary(adjudicationID),
	}
}

// Summary computes a Summary over the adjudication's events, or nil if the
// adjudication is unknown.
func (r *Recorder) Summary(adjudicationID string) *Summary {
	events := r.Events(adjudicationID)
	if events == nil {
		return nil
	}

	s := &Summary{AdjudicationID: adjudicationID}
	var earliest, latest time.Time

	for _, e := range events {
		if earliest.IsZero() || e.Timestamp.Before(earliest) {
			earliest = e.Timestamp
		}
		if latest.IsZero() || e.Timestamp.After(latest) {
			latest = e.Timestamp
		}
		if s.TaskID == "" && e.TaskID != "" {
			s.TaskID = e.TaskID
		}

		switch e.Type {
		case EventRoundCompleted:
			if e.Round > s.RoundsRecorded {
				s.RoundsRecorded = e.Round
			}
		case EventEvidenceGathered:
			s.EvidencePasses++
		case EventErrorOccurred:
			s.Errors++
		case EventDebateConverged:
			s.Converged = true
		case EventDebateExhausted:
			s.Exhausted = true
		case EventVerdictPublished:
			s.Published = true
		}
	}

	s.StartTime = earliest
	s.EndTime = latest
	if !earliest.IsZero() && !latest.IsZero() {
		s.Duration = latest.Sub(earliest)
	}
	return s
}

// MarshalTrailJSON serializes the trail for the given adjudication.
func (r *Recorder) MarshalTrailJSON(adjudicationID string) ([]byte, error) {
	trail := r.Trail(adjudicationID)
	if trail == nil {
		return nil, fmt.Errorf("adjudication %q not found", adjudicationID)
	}
	return json.Marshal(trail)
}

// Clear drops the trail for the given adjudication.
func (r *Recorder) Clear(adjudicationID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.events, adjudicationID)
}

// AdjudicationIDs returns the sorted ids of all recorded adjudications.
func (r *Recorder) AdjudicationIDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.events))
	for id := range r.events {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
