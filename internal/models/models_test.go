package models

import (
	"testing"
	"time"
)

func TestFocusSessionActive(t *testing.T) {
	start := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	completedAt := start.Add(25 * time.Minute)

	cases := []struct {
		name string
		sess FocusSession
		now  time.Time
		want bool
	}{
		{
			name: "running within the planned window",
			sess: FocusSession{
				DurationMinutes: 25,
				StartedAt:       start,
			},
			now:  start.Add(10 * time.Minute),
			want: true,
		},
		{
			name: "planned window elapsed",
			sess: FocusSession{
				DurationMinutes: 25,
				StartedAt:       start,
			},
			now:  start.Add(30 * time.Minute),
			want: false,
		},
		{
			name: "completed",
			sess: FocusSession{
				DurationMinutes: 25,
				ActualMinutes:   25,
				Completed:       true,
				StartedAt:       start,
				CompletedAt:     &completedAt,
			},
			now:  start.Add(10 * time.Minute),
			want: false,
		},
		{
			name: "abandoned early with time still on the clock",
			sess: FocusSession{
				DurationMinutes: 25,
				ActualMinutes:   5,
				StartedAt:       start,
			},
			now:  start.Add(10 * time.Minute),
			want: false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.sess.Active(tc.now)

			if got != tc.want {
				t.Errorf(
					"expected Active to be %v, but got: %v",
					tc.want,
					got,
				)
			}
		})
	}
}

func TestEffectiveMinutes(t *testing.T) {
	sess := FocusSession{DurationMinutes: 25}

	if sess.EffectiveMinutes() != 25 {
		t.Errorf(
			"expected the planned duration fallback of 25, but got: %d",
			sess.EffectiveMinutes(),
		)
	}

	sess.ActualMinutes = 10

	if sess.EffectiveMinutes() != 10 {
		t.Errorf(
			"expected the recorded 10 minutes, but got: %d",
			sess.EffectiveMinutes(),
		)
	}
}
