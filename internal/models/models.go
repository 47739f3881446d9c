// Package models defines the records persisted by the Amvora datastore.
package models

import (
	"time"
)

// CommunicationStyle is the tone profile applied to companion messages.
type CommunicationStyle string

const (
	StyleDirect      CommunicationStyle = "direct"
	StyleEncouraging CommunicationStyle = "encouraging"
	StyleAnalytical  CommunicationStyle = "analytical"
	StyleCasual      CommunicationStyle = "casual"
)

// DefaultSessionMinutes is the planned length assigned to sessions
// when no duration is specified.
const DefaultSessionMinutes = 25

// FocusSession is a timed period of declared concentration work.
// CompletedAt and FocusScore are set if and only if Completed is true,
// and a session is never mutated after completion. ActualMinutes is
// recorded when a session completes or is abandoned; while it is zero
// the session is still running.
type FocusSession struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	DurationMinutes int        `json:"duration_minutes"`
	ActualMinutes   int        `json:"actual_minutes"`
	Completed       bool       `json:"completed"`
	Distractions    int        `json:"distractions"`
	FocusScore      int        `json:"focus_score,omitempty"`
	StartedAt       time.Time  `json:"started_at"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
}

// EffectiveMinutes returns the actual session length, falling back to the
// planned duration when no actual value was recorded.
func (s *FocusSession) EffectiveMinutes() int {
	if s.ActualMinutes > 0 {
		return s.ActualMinutes
	}

	return s.DurationMinutes
}

// EndedAt estimates when the session ended from its start time and
// effective length.
func (s *FocusSession) EndedAt() time.Time {
	return s.StartedAt.Add(time.Duration(s.EffectiveMinutes()) * time.Minute)
}

// Active reports whether the session is still running: not completed,
// not cut short, and within its planned window. An abandoned session
// records its elapsed minutes, which closes the window early.
func (s *FocusSession) Active(now time.Time) bool {
	if s.Completed {
		return false
	}

	if s.ActualMinutes > 0 {
		return false
	}

	end := s.StartedAt.Add(time.Duration(s.DurationMinutes) * time.Minute)

	return now.Before(end)
}

// Note is a user-authored note with optional AI-derived summary and tags.
type Note struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Summary   string    `json:"summary,omitempty"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Untagged reports whether the note has no tags yet.
func (n *Note) Untagged() bool {
	return len(n.Tags) == 0
}

// TrustMetric records how well the companion's suggestions have landed
// with a user. TrustScore and AcceptanceRate stay within [0,100] after
// every update.
type TrustMetric struct {
	UserID           string             `json:"user_id"`
	AcceptanceRate   float64            `json:"suggestion_acceptance_rate"`
	PreferredMinutes int                `json:"preferred_session_length"`
	BestFocusTimes   []string           `json:"best_focus_times"`
	DislikedFeatures []string           `json:"disliked_features"`
	Style            CommunicationStyle `json:"communication_style"`
	TrustScore       float64            `json:"trust_score"`
	LearningRate     float64            `json:"learning_rate"`
	CreatedAt        time.Time          `json:"created_at"`
	UpdatedAt        time.Time          `json:"updated_at"`
}

// DefaultTrustMetric returns the metric created the first time a user
// submits suggestion feedback.
func DefaultTrustMetric(userID string) *TrustMetric {
	now := time.Now()

	return &TrustMetric{
		UserID:           userID,
		AcceptanceRate:   50,
		PreferredMinutes: DefaultSessionMinutes,
		BestFocusTimes:   []string{"morning"},
		DislikedFeatures: []string{},
		Style:            StyleEncouraging,
		TrustScore:       50,
		LearningRate:     10,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}
