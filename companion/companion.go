// Package companion rotates pattern-driven suggestions on a fixed
// cadence and reacts to accept/decline feedback.
package companion

import (
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/amvora/amvora/internal/models"
	"github.com/amvora/amvora/pattern"
	"github.com/amvora/amvora/store"
	"github.com/amvora/amvora/suggest"
	"github.com/amvora/amvora/trust"
)

// State is the orchestrator's rotation state.
type State int

const (
	// Idle means no suggestions have been produced yet.
	Idle State = iota
	// Rotating means the companion is cycling through suggestions.
	Rotating
	// Suspended means rotation is paused for a feedback cool-down.
	Suspended
)

const (
	// DefaultRotateInterval is how often the displayed suggestion
	// advances.
	DefaultRotateInterval = 15 * time.Second
	// DefaultAcceptCooldown pauses rotation after an accepted
	// suggestion.
	DefaultAcceptCooldown = 120 * time.Second
	// DefaultDeclineCooldown pauses rotation after a declined
	// suggestion.
	DefaultDeclineCooldown = 60 * time.Second
)

const (
	acceptedMessage = "Awesome! Let's make it happen!"
	declinedMessage = "No problem! I'll come up with something better."
	// FallbackSuggestion is shown on a manual trigger when no
	// suggestions are available.
	FallbackSuggestion = "How about starting with a 25-minute focus session?"
)

// Config adjusts the orchestrator's cadence. Zero values fall back to
// the documented defaults.
type Config struct {
	UserID          string
	RotateInterval  time.Duration
	AcceptCooldown  time.Duration
	DeclineCooldown time.Duration
	// Rand drives the manual suggestion pick and message
	// personalization. Defaults to a time-seeded source.
	Rand *rand.Rand
}

// Companion presents suggestions for a single user. All exported
// methods are safe for concurrent use.
type Companion struct {
	db      store.DB
	tracker *trust.Tracker
	cfg     Config
	rng     *rand.Rand

	mu            sync.Mutex
	state         State
	suggestions   []string
	index         int
	message       string
	rotateTimer   *time.Timer
	cooldownTimer *time.Timer
}

// New creates a Companion in the Idle state. It begins rotating once
// Refresh produces a non-empty suggestion list.
func New(db store.DB, tracker *trust.Tracker, cfg Config) *Companion {
	if cfg.RotateInterval <= 0 {
		cfg.RotateInterval = DefaultRotateInterval
	}

	if cfg.AcceptCooldown <= 0 {
		cfg.AcceptCooldown = DefaultAcceptCooldown
	}

	if cfg.DeclineCooldown <= 0 {
		cfg.DeclineCooldown = DefaultDeclineCooldown
	}

	rng := cfg.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	return &Companion{
		db:      db,
		tracker: tracker,
		cfg:     cfg,
		rng:     rng,
	}
}

// Patterns recomputes the user's patterns from the datastore. Read
// failures degrade to empty history rather than propagating.
func (c *Companion) Patterns() pattern.UserPatterns {
	sessions, notes, active := c.load()

	return pattern.Analyze(sessions, notes, time.Now(), active)
}

// Refresh recomputes patterns and suggestions from the datastore. It is
// meant to be called after any session or note change. When suggestions
// first become available, the companion leaves Idle and starts rotating.
func (c *Companion) Refresh() {
	sessions, notes, active := c.load()

	now := time.Now()
	p := pattern.Analyze(sessions, notes, now, active)
	suggestions := suggest.Generate(p, notes, now.Hour(), active)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.suggestions = suggestions

	if len(c.suggestions) == 0 {
		return
	}

	if c.index >= len(c.suggestions) {
		c.index = 0
	}

	if c.state == Idle {
		c.state = Rotating
		c.message = c.styled(c.suggestions[c.index])
		c.scheduleRotation()
	}
}

// Message returns the suggestion or acknowledgement currently displayed.
func (c *Companion) Message() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.message
}

// State returns the current rotation state.
func (c *Companion) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.state
}

// Suggestions returns a copy of the current suggestion list.
func (c *Companion) Suggestions() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]string, len(c.suggestions))
	copy(out, c.suggestions)

	return out
}

// Accept records positive feedback, switches to a fixed acknowledgement,
// and suspends rotation for the accept cool-down.
func (c *Companion) Accept() {
	c.feedback(true, acceptedMessage, c.cfg.AcceptCooldown)
}

// Decline records negative feedback, switches to a fixed message, and
// suspends rotation for the shorter decline cool-down.
func (c *Companion) Decline() {
	c.feedback(false, declinedMessage, c.cfg.DeclineCooldown)
}

// Suggest immediately shows a random suggestion from the current list,
// or a fixed fallback when the list is empty. It does not touch the
// rotation timers or the trust score.
func (c *Companion) Suggest() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	base := FallbackSuggestion
	if len(c.suggestions) > 0 {
		base = c.suggestions[c.rng.Intn(len(c.suggestions))]
	}

	c.message = c.styled(base)

	return c.message
}

// StyledMessage rewrites a base message according to the user's stored
// communication style and trust level.
func (c *Companion) StyledMessage(base string) string {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.styled(base)
}

// Stop cancels any pending timers. The companion can be refreshed back
// into rotation afterwards.
func (c *Companion) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.rotateTimer != nil {
		c.rotateTimer.Stop()
	}

	if c.cooldownTimer != nil {
		c.cooldownTimer.Stop()
	}

	c.state = Idle
}

func (c *Companion) feedback(accepted bool, message string, cooldown time.Duration) {
	err := c.tracker.RecordFeedback(c.cfg.UserID, accepted)
	if err != nil {
		slog.Error(
			"recording suggestion feedback failed",
			slog.String("user", c.cfg.UserID),
			slog.Any("error", err),
		)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.message = c.styled(message)
	c.state = Suspended

	if c.rotateTimer != nil {
		c.rotateTimer.Stop()
	}

	if c.cooldownTimer != nil {
		c.cooldownTimer.Stop()
	}

	c.cooldownTimer = time.AfterFunc(cooldown, c.resume)
}

// resume returns to rotation once a cool-down elapses.
func (c *Companion) resume() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != Suspended {
		return
	}

	c.state = Rotating

	if len(c.suggestions) > 0 {
		c.index = (c.index + 1) % len(c.suggestions)
		c.message = c.styled(c.suggestions[c.index])
	}

	c.scheduleRotation()
}

// rotate advances to the next suggestion in the list, wrapping around.
func (c *Companion) rotate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != Rotating || len(c.suggestions) == 0 {
		return
	}

	c.index = (c.index + 1) % len(c.suggestions)
	c.message = c.styled(c.suggestions[c.index])

	c.scheduleRotation()
}

// scheduleRotation arms the rotation timer, cancelling any pending one
// so transitions never overlap. Callers must hold c.mu.
func (c *Companion) scheduleRotation() {
	if c.rotateTimer != nil {
		c.rotateTimer.Stop()
	}

	c.rotateTimer = time.AfterFunc(c.cfg.RotateInterval, c.rotate)
}

// styled personalizes a message through the trust tracker. Callers must
// hold c.mu.
func (c *Companion) styled(base string) string {
	m, err := c.tracker.Get(c.cfg.UserID)
	if err != nil || m == nil {
		return base
	}

	return trust.StyleMessage(base, m.Style, m.TrustScore, c.rng)
}

// load reads the user's history, treating failures as empty data so the
// companion keeps working without a datastore.
func (c *Companion) load() ([]models.FocusSession, []models.Note, bool) {
	sessions, err := c.db.ListSessions(c.cfg.UserID)
	if err != nil {
		slog.Warn("listing sessions failed", slog.Any("error", err))

		sessions = nil
	}

	notes, err := c.db.ListNotes(c.cfg.UserID)
	if err != nil {
		slog.Warn("listing notes failed", slog.Any("error", err))

		notes = nil
	}

	now := time.Now()
	active := false

	for i := range sessions {
		if sessions[i].Active(now) {
			active = true
			break
		}
	}

	return sessions, notes, active
}
