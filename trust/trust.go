// Package trust tracks how well the companion's suggestions land with a
// user and adapts the companion's tone accordingly.
package trust

import (
	"math/rand"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/amvora/amvora/internal/models"
	"github.com/amvora/amvora/store"
)

const (
	// feedbackDelta is how much a single accept or decline moves the
	// acceptance rate.
	feedbackDelta = 5
	// trustFloor keeps the trust score from bottoming out completely so
	// the companion never goes fully silent.
	trustFloor = 10
	// highTrust is the score above which messages gain a personal touch.
	highTrust = 80
	// lowTrust is the score below which messages are softened.
	lowTrust = 30
)

var (
	enthusiasticWords = regexp.MustCompile(`(?i)\b(amazing|awesome|great)\b`)
	intenseWords      = regexp.MustCompile(`(?i)\b(crushing|killing|dominating)\b`)
)

// personalTouches are appended to messages for high-trust users.
var personalTouches = [3]string{
	" I've noticed you're really consistent with this!",
	" This aligns perfectly with your usual patterns.",
	" You've been crushing it lately!",
}

// Tracker persists per-user trust metrics behind a small read cache.
// Metrics handed out are copies; all mutation goes through Tracker
// methods, so Tracker is safe for concurrent use.
type Tracker struct {
	db store.DB

	mu     sync.Mutex
	cached map[string]*models.TrustMetric
}

// NewTracker returns a Tracker backed by the given store.
func NewTracker(db store.DB) *Tracker {
	return &Tracker{
		db:     db,
		cached: make(map[string]*models.TrustMetric),
	}
}

// Get retrieves the user's trust metric, or nil if none exists yet.
// The returned metric is a copy, so callers can read or mutate it
// without coordinating with concurrent feedback writes.
func (t *Tracker) Get(userID string) (*models.TrustMetric, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if m, ok := t.cached[userID]; ok {
		clone := *m
		return &clone, nil
	}

	m, err := t.db.GetTrustMetric(userID)
	if err != nil {
		return nil, err
	}

	if m == nil {
		return nil, nil
	}

	t.cached[userID] = m

	clone := *m

	return &clone, nil
}

// Ensure creates the user's trust metric with defaults if it does not
// exist yet. Calling it again is a no-op and never overwrites state.
func (t *Tracker) Ensure(userID string) (*models.TrustMetric, error) {
	m, err := t.Get(userID)
	if err != nil {
		return nil, err
	}

	if m != nil {
		return m, nil
	}

	m = models.DefaultTrustMetric(userID)

	err = t.db.SaveTrustMetric(userID, m)
	if err != nil {
		return nil, err
	}

	t.mu.Lock()
	t.cached[userID] = m
	t.mu.Unlock()

	clone := *m

	return &clone, nil
}

// RecordFeedback applies a single accept or decline to the user's metric.
// If no metric exists yet, creating one with defaults is the whole
// action; the feedback itself is not applied on top.
func (t *Tracker) RecordFeedback(userID string, accepted bool) error {
	m, err := t.Get(userID)
	if err != nil {
		return err
	}

	if m == nil {
		_, err = t.Ensure(userID)
		return err
	}

	delta := float64(feedbackDelta)
	if !accepted {
		delta = -delta
	}

	m.AcceptanceRate = clamp(m.AcceptanceRate+delta, 0, 100)
	m.TrustScore = clamp(m.AcceptanceRate, trustFloor, 100)
	m.UpdatedAt = time.Now()

	err = t.db.SaveTrustMetric(userID, m)
	if err != nil {
		return err
	}

	t.mu.Lock()
	t.cached[userID] = m
	t.mu.Unlock()

	return nil
}

// SetStyle persists a new communication style for the user, creating the
// metric with defaults first if necessary.
func (t *Tracker) SetStyle(
	userID string,
	style models.CommunicationStyle,
) error {
	m, err := t.Get(userID)
	if err != nil {
		return err
	}

	if m == nil {
		m = models.DefaultTrustMetric(userID)
	}

	m.Style = style
	m.UpdatedAt = time.Now()

	err = t.db.SaveTrustMetric(userID, m)
	if err != nil {
		return err
	}

	t.mu.Lock()
	t.cached[userID] = m
	t.mu.Unlock()

	return nil
}

// StyleMessage rewrites a base message according to the communication
// style and trust level. An unrecognized style falls back to
// encouraging. The high-trust personal touch is the only random element
// and is drawn from the provided source.
func StyleMessage(
	base string,
	style models.CommunicationStyle,
	trustScore float64,
	rng *rand.Rand,
) string {
	var msg string

	switch style {
	case models.StyleDirect:
		msg = strings.ReplaceAll(base, "!", ".")
		msg = enthusiasticWords.ReplaceAllString(msg, "good")
	case models.StyleAnalytical:
		msg = "Based on your patterns: " + strings.ToLower(base)
	case models.StyleCasual:
		msg = "Hey! " + base + " 😊"
	default:
		msg = "Great job! " + base + " 🎉"
	}

	if trustScore > highTrust {
		msg += personalTouches[intn(rng, len(personalTouches))]
	} else if trustScore < lowTrust {
		msg = strings.ReplaceAll(msg, "!", ".")
		msg = intenseWords.ReplaceAllString(msg, "working on")
	}

	return msg
}

func intn(rng *rand.Rand, n int) int {
	if rng == nil {
		return rand.Intn(n)
	}

	return rng.Intn(n)
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}

	if v > max {
		return max
	}

	return v
}
