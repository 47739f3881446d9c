package trust

import (
	"math/rand"
	"strings"
	"sync"
	"testing"

	"github.com/amvora/amvora/internal/models"
	"github.com/amvora/amvora/internal/testutil"
)

const testUser = "ayo"

func TestEnsureIsIdempotent(t *testing.T) {
	db := testutil.NewMemDB()
	tracker := NewTracker(db)

	first, err := tracker.Ensure(testUser)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if first.AcceptanceRate != 50 || first.TrustScore != 50 {
		t.Errorf(
			"expected default rate and score of 50, but got: %f and %f",
			first.AcceptanceRate,
			first.TrustScore,
		)
	}

	if first.Style != models.StyleEncouraging {
		t.Errorf(
			"expected default style to be encouraging, but got: %s",
			first.Style,
		)
	}

	// mutate the stored metric, then confirm Ensure leaves it alone
	err = tracker.RecordFeedback(testUser, true)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	again, err := tracker.Ensure(testUser)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if again.AcceptanceRate != 55 {
		t.Errorf(
			"expected Ensure to preserve the updated rate of 55, but got: %f",
			again.AcceptanceRate,
		)
	}
}

func TestRecordFeedbackFirstCallCreatesDefaults(t *testing.T) {
	db := testutil.NewMemDB()
	tracker := NewTracker(db)

	// with no existing metric, the creation is the entire action
	err := tracker.RecordFeedback(testUser, true)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	m, err := tracker.Get(testUser)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if m.AcceptanceRate != 50 {
		t.Errorf(
			"expected rate to stay at the default 50, but got: %f",
			m.AcceptanceRate,
		)
	}
}

func TestRecordFeedbackAdjustsRateAndScore(t *testing.T) {
	db := testutil.NewMemDB()
	tracker := NewTracker(db)

	_, err := tracker.Ensure(testUser)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	err = tracker.RecordFeedback(testUser, true)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	m, err := tracker.Get(testUser)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if m.AcceptanceRate != 55 || m.TrustScore != 55 {
		t.Errorf(
			"expected rate and score of 55, but got: %f and %f",
			m.AcceptanceRate,
			m.TrustScore,
		)
	}
}

func TestRecordFeedbackClampsAfterRepeatedDeclines(t *testing.T) {
	db := testutil.NewMemDB()
	tracker := NewTracker(db)

	_, err := tracker.Ensure(testUser)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	for i := 0; i < 11; i++ {
		err = tracker.RecordFeedback(testUser, false)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
	}

	m, err := tracker.Get(testUser)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if m.AcceptanceRate != 0 {
		t.Errorf(
			"expected acceptance rate to floor at 0, but got: %f",
			m.AcceptanceRate,
		)
	}

	if m.TrustScore != 10 {
		t.Errorf(
			"expected trust score to floor at 10, but got: %f",
			m.TrustScore,
		)
	}
}

func TestGetReturnsIndependentCopy(t *testing.T) {
	db := testutil.NewMemDB()
	tracker := NewTracker(db)

	first, err := tracker.Ensure(testUser)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	// scribbling on a returned metric must not leak into the tracker
	first.AcceptanceRate = 99
	first.Style = models.StyleDirect

	m, err := tracker.Get(testUser)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if m.AcceptanceRate != 50 || m.Style != models.StyleEncouraging {
		t.Errorf(
			"expected the stored metric to be untouched, but got: %+v",
			m,
		)
	}
}

func TestTrackerConcurrentReadsAndWrites(t *testing.T) {
	db := testutil.NewMemDB()
	tracker := NewTracker(db)

	_, err := tracker.Ensure(testUser)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	var wg sync.WaitGroup

	for i := 0; i < 4; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for j := 0; j < 100; j++ {
				m, err := tracker.Get(testUser)
				if err != nil {
					t.Errorf("Unexpected error: %v", err)
					return
				}

				if m.TrustScore < 10 || m.TrustScore > 100 {
					t.Errorf(
						"trust score out of range: %f",
						m.TrustScore,
					)

					return
				}
			}
		}()
	}

	wg.Add(1)

	go func() {
		defer wg.Done()

		for j := 0; j < 100; j++ {
			err := tracker.RecordFeedback(testUser, j%2 == 0)
			if err != nil {
				t.Errorf("Unexpected error: %v", err)
				return
			}
		}
	}()

	wg.Wait()
}

func TestSetStyle(t *testing.T) {
	db := testutil.NewMemDB()
	tracker := NewTracker(db)

	_, err := tracker.Ensure(testUser)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	err = tracker.SetStyle(testUser, models.StyleAnalytical)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	m, err := tracker.Get(testUser)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if m.Style != models.StyleAnalytical {
		t.Errorf(
			"expected style to be analytical, but got: %s",
			m.Style,
		)
	}

	stored, err := db.GetTrustMetric(testUser)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if stored.Style != models.StyleAnalytical {
		t.Errorf(
			"expected the persisted style to be analytical, but got: %s",
			stored.Style,
		)
	}
}

func TestStyleMessage(t *testing.T) {
	cases := []struct {
		name  string
		base  string
		style models.CommunicationStyle
		trust float64
		want  string
	}{
		{
			name:  "direct flattens enthusiasm",
			base:  "Amazing work! Keep it up!",
			style: models.StyleDirect,
			trust: 50,
			want:  "good work. Keep it up.",
		},
		{
			name:  "analytical prefixes and lowercases",
			base:  "Try a 25-minute Session!",
			style: models.StyleAnalytical,
			trust: 50,
			want:  "Based on your patterns: try a 25-minute session!",
		},
		{
			name:  "casual greets",
			base:  "Time for a break?",
			style: models.StyleCasual,
			trust: 50,
			want:  "Hey! Time for a break? 😊",
		},
		{
			name:  "encouraging celebrates",
			base:  "You did it!",
			style: models.StyleEncouraging,
			trust: 50,
			want:  "Great job! You did it! 🎉",
		},
		{
			name:  "unknown style falls back to encouraging",
			base:  "You did it!",
			style: models.CommunicationStyle("sarcastic"),
			trust: 50,
			want:  "Great job! You did it! 🎉",
		},
		{
			name:  "low trust softens after styling",
			base:  "You're crushing it!",
			style: models.StyleEncouraging,
			trust: 20,
			want:  "Great job. You're working on it. 🎉",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rng := rand.New(rand.NewSource(1))

			got := StyleMessage(tc.base, tc.style, tc.trust, rng)

			if got != tc.want {
				t.Errorf(
					"expected styled message to be %q, but got: %q",
					tc.want,
					got,
				)
			}
		})
	}
}

func TestStyleMessageHighTrustPersonalTouch(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	base := "Time to focus?"

	got := StyleMessage(base, models.StyleCasual, 90, rng)

	prefix := "Hey! " + base + " 😊"

	if !strings.HasPrefix(got, prefix) {
		t.Fatalf("expected message to start with %q, but got: %q", prefix, got)
	}

	suffix := strings.TrimPrefix(got, prefix)

	found := false

	for _, touch := range personalTouches {
		if suffix == touch {
			found = true
		}
	}

	if !found {
		t.Errorf(
			"expected suffix to be one of the personal touches, but got: %q",
			suffix,
		)
	}

	// the same seed must always pick the same sentence
	again := StyleMessage(
		base,
		models.StyleCasual,
		90,
		rand.New(rand.NewSource(42)),
	)

	if again != got {
		t.Errorf(
			"expected deterministic output for a fixed seed, got %q and %q",
			got,
			again,
		)
	}
}
