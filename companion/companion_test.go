package companion

import (
	"math/rand"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/amvora/amvora/internal/models"
	"github.com/amvora/amvora/internal/testutil"
	"github.com/amvora/amvora/suggest"
	"github.com/amvora/amvora/trust"
)

const testUser = "ayo"

func seedHistory(t *testing.T, db *testutil.MemDB) {
	t.Helper()

	base := time.Now().Add(-24 * time.Hour)

	for i := 0; i < 3; i++ {
		start := base.Add(time.Duration(i) * time.Hour)
		completedAt := start.Add(25 * time.Minute)

		err := db.SaveSession(testUser, &models.FocusSession{
			ID:              start.Format(time.RFC3339Nano),
			Title:           "Work",
			DurationMinutes: 25,
			ActualMinutes:   25,
			Completed:       true,
			FocusScore:      85,
			StartedAt:       start,
			CompletedAt:     &completedAt,
		})
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
	}

	err := db.SaveNote(testUser, &models.Note{
		ID:        "n1",
		Title:     "untagged",
		CreatedAt: base,
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
}

func newTestCompanion(
	db *testutil.MemDB,
	rotate, cooldown time.Duration,
) (*Companion, *trust.Tracker) {
	tracker := trust.NewTracker(db)

	c := New(db, tracker, Config{
		UserID:          testUser,
		RotateInterval:  rotate,
		AcceptCooldown:  cooldown,
		DeclineCooldown: cooldown,
		Rand:            rand.New(rand.NewSource(1)),
	})

	return c, tracker
}

// waitFor polls until the condition holds or the deadline passes.
func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)

	for time.Now().Before(deadline) {
		if cond() {
			return
		}

		time.Sleep(5 * time.Millisecond)
	}

	t.Fatal(msg)
}

func TestCompanionStartsIdle(t *testing.T) {
	db := testutil.NewMemDB()

	c, _ := newTestCompanion(db, time.Minute, time.Minute)
	defer c.Stop()

	if c.State() != Idle {
		t.Errorf("expected initial state to be Idle, but got: %v", c.State())
	}

	if c.Message() != "" {
		t.Errorf("expected no message before Refresh, but got: %q", c.Message())
	}
}

func TestCompanionRefreshStartsRotation(t *testing.T) {
	db := testutil.NewMemDB()
	seedHistory(t, db)

	c, _ := newTestCompanion(db, time.Minute, time.Minute)
	defer c.Stop()

	c.Refresh()

	if c.State() != Rotating {
		t.Fatalf("expected state to be Rotating, but got: %v", c.State())
	}

	suggestions := c.Suggestions()

	if len(suggestions) == 0 {
		t.Fatal("expected a non-empty suggestion list")
	}

	if c.Message() != suggestions[0] {
		t.Errorf(
			"expected the first suggestion %q to be displayed, but got: %q",
			suggestions[0],
			c.Message(),
		)
	}
}

func TestCompanionRotatesThroughSuggestions(t *testing.T) {
	db := testutil.NewMemDB()
	seedHistory(t, db)

	c, _ := newTestCompanion(db, 30*time.Millisecond, time.Minute)
	defer c.Stop()

	c.Refresh()

	suggestions := c.Suggestions()

	if len(suggestions) < 2 {
		t.Fatalf(
			"expected at least two suggestions to rotate through, got: %v",
			suggestions,
		)
	}

	first := c.Message()

	waitFor(t, func() bool {
		return c.Message() != first
	}, "expected the displayed suggestion to advance")

	if c.Message() != suggestions[1] {
		t.Errorf(
			"expected rotation to show %q next, but got: %q",
			suggestions[1],
			c.Message(),
		)
	}
}

func TestCompanionAcceptSuspendsAndResumes(t *testing.T) {
	db := testutil.NewMemDB()
	seedHistory(t, db)

	c, tracker := newTestCompanion(db, time.Minute, 50*time.Millisecond)
	defer c.Stop()

	c.Refresh()
	c.Accept()

	if c.State() != Suspended {
		t.Fatalf("expected state to be Suspended, but got: %v", c.State())
	}

	// accepting for the first time creates the metric with defaults, so
	// the acknowledgement arrives in the encouraging voice
	want := "Great job! " + acceptedMessage + " 🎉"

	if c.Message() != want {
		t.Errorf(
			"expected acknowledgement %q, but got: %q",
			want,
			c.Message(),
		)
	}

	m, err := tracker.Get(testUser)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if m == nil || m.AcceptanceRate != 50 {
		t.Errorf("expected a freshly created metric with rate 50, got: %+v", m)
	}

	waitFor(t, func() bool {
		return c.State() == Rotating
	}, "expected rotation to resume after the cool-down")
}

func TestCompanionDeclineAdjustsTrust(t *testing.T) {
	db := testutil.NewMemDB()
	seedHistory(t, db)

	c, tracker := newTestCompanion(db, time.Minute, time.Minute)
	defer c.Stop()

	_, err := tracker.Ensure(testUser)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	c.Refresh()
	c.Decline()

	if c.State() != Suspended {
		t.Fatalf("expected state to be Suspended, but got: %v", c.State())
	}

	m, err := tracker.Get(testUser)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if m.AcceptanceRate != 45 || m.TrustScore != 45 {
		t.Errorf(
			"expected rate and score of 45, but got: %f and %f",
			m.AcceptanceRate,
			m.TrustScore,
		)
	}
}

func TestCompanionSuggestFallsBack(t *testing.T) {
	db := testutil.NewMemDB()

	c, _ := newTestCompanion(db, time.Minute, time.Minute)
	defer c.Stop()

	// no Refresh, so the suggestion list is empty
	got := c.Suggest()

	if got != FallbackSuggestion {
		t.Errorf(
			"expected the fallback suggestion, but got: %q",
			got,
		)
	}

	if c.State() != Idle {
		t.Errorf(
			"expected a manual trigger to leave the state alone, got: %v",
			c.State(),
		)
	}
}

func TestCompanionSuggestPicksFromList(t *testing.T) {
	db := testutil.NewMemDB()
	seedHistory(t, db)

	c, _ := newTestCompanion(db, time.Minute, time.Minute)
	defer c.Stop()

	c.Refresh()

	suggestions := c.Suggestions()

	got := c.Suggest()

	found := false

	for _, s := range suggestions {
		if got == s {
			found = true
		}
	}

	if !found {
		t.Errorf(
			"expected %q to come from the suggestion list %v",
			got,
			suggestions,
		)
	}
}

func TestCompanionDegradesOnReadFailure(t *testing.T) {
	db := testutil.NewMemDB()
	seedHistory(t, db)

	db.FailReads = true

	c, _ := newTestCompanion(db, time.Minute, time.Minute)
	defer c.Stop()

	c.Refresh()

	// unreadable history is treated as empty history
	want := []string{suggest.Welcome}

	if diff := cmp.Diff(want, c.Suggestions()); diff != "" {
		t.Errorf("unexpected suggestions (-want +got):\n%s", diff)
	}
}

func TestCompanionStopReturnsToIdle(t *testing.T) {
	db := testutil.NewMemDB()
	seedHistory(t, db)

	c, _ := newTestCompanion(db, time.Minute, time.Minute)

	c.Refresh()

	if c.State() != Rotating {
		t.Fatalf("expected state to be Rotating, but got: %v", c.State())
	}

	c.Stop()

	if c.State() != Idle {
		t.Errorf("expected state to be Idle after Stop, but got: %v", c.State())
	}
}
