// Package pattern derives usage patterns from a user's session and note
// history. Analysis is a pure function of its inputs and recomputes from
// the full history on every call.
package pattern

import (
	"sort"
	"time"

	"github.com/amvora/amvora/internal/models"
)

const (
	// successScore is the focus score above which a session counts as
	// successful.
	successScore = 70
	// successRatio is the per-hour success ratio above which an hour
	// qualifies as a best focus hour.
	successRatio = 0.6
	// breakAfter is how long after the last completed session a break
	// becomes overdue.
	breakAfter = 2 * time.Hour
)

// UserPatterns summarises a user's focus and note-taking habits.
type UserPatterns struct {
	BestFocusHours        []int
	OptimalSessionMinutes int
	NotePeakHours         []int
	AvgDistractions       float64
	SuccessRate           float64
	NeedsBreak            bool
	GoodFocusOpportunity  bool
	CompletedSessions     int
	TotalSessions         int
	TotalNotes            int
}

type hourStat struct {
	total      int
	successful int
}

// Analyze computes the user's patterns from their full session and note
// history. Records with a zero timestamp are skipped from hour bucketing
// but still count towards totals.
func Analyze(
	sessions []models.FocusSession,
	notes []models.Note,
	now time.Time,
	sessionActive bool,
) UserPatterns {
	p := UserPatterns{
		OptimalSessionMinutes: models.DefaultSessionMinutes,
		TotalSessions:         len(sessions),
		TotalNotes:            len(notes),
	}

	var completed []models.FocusSession

	for i := range sessions {
		if sessions[i].Completed {
			completed = append(completed, sessions[i])
		}
	}

	p.CompletedSessions = len(completed)

	p.BestFocusHours = bestFocusHours(completed)
	p.OptimalSessionMinutes = optimalSessionMinutes(completed)
	p.NotePeakHours = notePeakHours(notes)

	if len(completed) > 0 {
		var distractions, successes int

		for i := range completed {
			distractions += completed[i].Distractions

			if completed[i].FocusScore > successScore {
				successes++
			}
		}

		p.AvgDistractions = float64(distractions) / float64(len(completed))
		p.SuccessRate = float64(successes) / float64(len(completed))
		p.NeedsBreak = needsBreak(completed, now)
	}

	currentHour := now.Hour()

	for _, h := range p.BestFocusHours {
		if h == currentHour && !sessionActive {
			p.GoodFocusOpportunity = true
		}
	}

	return p
}

// bestFocusHours returns the hours of day in which the success ratio of
// completed sessions exceeds the threshold, sorted ascending.
func bestFocusHours(completed []models.FocusSession) []int {
	stats := make(map[int]*hourStat)

	for i := range completed {
		sess := &completed[i]
		if sess.StartedAt.IsZero() {
			continue
		}

		hour := sess.StartedAt.Hour()

		s, ok := stats[hour]
		if !ok {
			s = &hourStat{}
			stats[hour] = s
		}

		s.total++

		if sess.FocusScore > successScore {
			s.successful++
		}
	}

	var hours []int

	for hour, s := range stats {
		if s.total >= 1 &&
			float64(s.successful)/float64(s.total) > successRatio {
			hours = append(hours, hour)
		}
	}

	sort.Ints(hours)

	return hours
}

// optimalSessionMinutes picks the session length with the most successful
// completions. The comparison is strict, so the first duration examined
// wins ties and the 25-minute default survives unless beaten outright.
func optimalSessionMinutes(completed []models.FocusSession) int {
	successes := make(map[int]int)

	for i := range completed {
		sess := &completed[i]

		duration := sess.EffectiveMinutes()
		if duration <= 0 {
			continue
		}

		if _, ok := successes[duration]; !ok {
			successes[duration] = 0
		}

		if sess.FocusScore > successScore {
			successes[duration]++
		}
	}

	durations := make([]int, 0, len(successes))
	for d := range successes {
		durations = append(durations, d)
	}

	sort.Ints(durations)

	optimal := models.DefaultSessionMinutes

	for _, d := range durations {
		if successes[d] > successes[optimal] {
			optimal = d
		}
	}

	return optimal
}

// notePeakHours returns the hours of day in which at least one note was
// created, sorted ascending.
func notePeakHours(notes []models.Note) []int {
	seen := make(map[int]bool)

	for i := range notes {
		if notes[i].CreatedAt.IsZero() {
			continue
		}

		seen[notes[i].CreatedAt.Hour()] = true
	}

	var hours []int

	for hour := range seen {
		hours = append(hours, hour)
	}

	sort.Ints(hours)

	return hours
}

// needsBreak reports whether more than breakAfter has elapsed since the
// end of the most recently started completed session. The session with
// the latest start time is located explicitly so the result does not
// depend on input order.
func needsBreak(completed []models.FocusSession, now time.Time) bool {
	last := completed[0]

	for i := range completed {
		if completed[i].StartedAt.After(last.StartedAt) {
			last = completed[i]
		}
	}

	if last.StartedAt.IsZero() {
		return false
	}

	return now.Sub(last.EndedAt()) > breakAfter
}
