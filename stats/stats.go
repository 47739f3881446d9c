// Package stats reports Amvora focus-session statistics.
package stats

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/hako/durafmt"
	"github.com/pterm/pterm"

	"github.com/amvora/amvora/config"
	"github.com/amvora/amvora/internal/models"
	"github.com/amvora/amvora/internal/timeutil"
	"github.com/amvora/amvora/internal/ui"
	"github.com/amvora/amvora/pattern"
	"github.com/amvora/amvora/store"
)

const (
	barChartChar  = "▇"
	noSessionsMsg = "No sessions found for the specified time range"
)

type summary struct {
	tags            map[string]int
	totalTime       time.Duration
	completed       int
	abandoned       int
	distractions    int
	focusScoreTotal int
}

// computeTotals calculates the totals for the reporting period.
func computeTotals(
	sessions []models.FocusSession,
	notes []models.Note,
) summary {
	totals := summary{
		tags: make(map[string]int),
	}

	for i := range sessions {
		sess := sessions[i]

		totals.totalTime += time.Duration(sess.EffectiveMinutes()) *
			time.Minute
		totals.distractions += sess.Distractions

		if sess.Completed {
			totals.completed++
			totals.focusScoreTotal += sess.FocusScore
		} else {
			totals.abandoned++
		}
	}

	for i := range notes {
		if len(notes[i].Tags) == 0 {
			totals.tags["uncategorized"]++
			continue
		}

		for _, tag := range notes[i].Tags {
			totals.tags[tag]++
		}
	}

	return totals
}

// computeHourly buckets focus minutes by the hour of day in which each
// session started.
func computeHourly(sessions []models.FocusSession) map[int]time.Duration {
	hourly := make(map[int]time.Duration)

	for i := 0; i < timeutil.HoursInADay; i++ {
		hourly[i] = time.Duration(0)
	}

	for i := range sessions {
		sess := sessions[i]
		if sess.StartedAt.IsZero() {
			continue
		}

		hourly[sess.StartedAt.Hour()] += time.Duration(
			sess.EffectiveMinutes(),
		) * time.Minute
	}

	return hourly
}

func getBarChart(data map[int]time.Duration) string {
	if len(data) == 0 {
		return ""
	}

	header := ui.Blue("\nHourly breakdown (minutes)")

	type keyValue struct {
		value time.Duration
		key   int
	}

	sl := make([]keyValue, 0, len(data))
	for k, v := range data {
		sl = append(sl, keyValue{v, k})
	}

	sort.SliceStable(sl, func(i, j int) bool {
		return sl[i].key < sl[j].key
	})

	var bars pterm.Bars

	for _, v := range sl {
		bars = append(bars, pterm.Bar{
			Value: timeutil.Round(v.value.Minutes()),
			Label: fmt.Sprintf("%02d:00", v.key),
		})
	}

	chart, err := pterm.DefaultBarChart.WithHorizontalBarCharacter(barChartChar).
		WithHorizontal().
		WithShowValue().
		WithBars(bars).
		Srender()
	if err != nil {
		pterm.Error.Println(err)
		return ""
	}

	return header + chart
}

// getTags retrieves the note tag breakdown.
func getTags(tags map[string]int) string {
	var builder strings.Builder

	if len(tags) == 0 {
		return ""
	}

	builder.WriteString(fmt.Sprintf("\n%s\n", ui.Blue("Note tags")))

	type keyValue struct {
		key   string
		value int
	}

	kv := make([]keyValue, 0, len(tags))
	for k, v := range tags {
		kv = append(kv, keyValue{k, v})
	}

	sort.SliceStable(kv, func(i, j int) bool {
		return kv[i].value > kv[j].value
	})

	for _, v := range kv {
		builder.WriteString(fmt.Sprintf(
			"%s: %s\n",
			v.key,
			ui.Green(v.value),
		))
	}

	return builder.String()
}

// getSummary retrieves the focus session summary for the reporting
// period.
func getSummary(totals summary, p pattern.UserPatterns) string {
	header := fmt.Sprintf("%s\n", ui.Blue("Summary"))

	duration := durafmt.Parse(totals.totalTime)

	timeLogged := fmt.Sprintf(
		"Time logged: %s\n",
		ui.Green(duration.LimitToUnit("hours").LimitFirstN(2)),
	)

	completed := fmt.Sprintln(
		"Sessions completed:",
		ui.Green(totals.completed),
	)

	abandoned := fmt.Sprintln(
		"Sessions abandoned:",
		ui.Green(totals.abandoned),
	)

	successRate := fmt.Sprintf(
		"Success rate: %s\n",
		ui.Green(fmt.Sprintf("%.0f%%", p.SuccessRate*100)),
	)

	avgDistractions := fmt.Sprintf(
		"Average distractions: %s\n",
		ui.Green(fmt.Sprintf("%.1f", p.AvgDistractions)),
	)

	var avgLength string

	if total := totals.completed + totals.abandoned; total > 0 {
		mins := timeutil.Round(totals.totalTime.Minutes()) / total
		hrs, remMins := timeutil.MinsToHoursAndMins(mins)

		avgLength = fmt.Sprintf(
			"Average session length: %s\n",
			ui.Green(fmt.Sprintf("%dh %02dm", hrs, remMins)),
		)
	}

	var avgScore string
	if totals.completed > 0 {
		avgScore = fmt.Sprintf(
			"Average focus score: %s\n",
			ui.Green(totals.focusScoreTotal/totals.completed),
		)
	}

	return header + timeLogged + completed + abandoned + successRate +
		avgDistractions + avgLength + avgScore
}

// filterSessions limits sessions to the reporting period and drops
// records with an invalid start date.
func filterSessions(
	sessions []models.FocusSession,
	startTime, endTime time.Time,
) []models.FocusSession {
	filtered := sessions[:0]

	for i := range sessions {
		sess := sessions[i]

		if sess.StartedAt.IsZero() {
			continue
		}

		if sess.StartedAt.Before(startTime) || sess.StartedAt.After(endTime) {
			continue
		}

		filtered = append(filtered, sess)
	}

	return filtered
}

// Show displays the relevant statistics for the set time period after
// making the necessary calculations.
func Show(
	db store.DB,
	userID string,
	filter *config.FilterConfig,
	w io.Writer,
) error {
	sessions, err := db.ListSessions(userID)
	if err != nil {
		return err
	}

	notes, err := db.ListNotes(userID)
	if err != nil {
		return err
	}

	sessions = filterSessions(sessions, filter.StartTime, filter.EndTime)

	if len(sessions) == 0 && len(notes) == 0 {
		fmt.Fprintln(w, noSessionsMsg)
		return nil
	}

	// For all-time, set start time to the date of the first session
	startTime := filter.StartTime
	if startTime.IsZero() && len(sessions) > 0 {
		startTime = timeutil.RoundToStart(sessions[0].StartedAt)
	}

	p := pattern.Analyze(sessions, notes, time.Now(), false)
	totals := computeTotals(sessions, notes)
	hourly := computeHourly(sessions)

	reportingStart := startTime.Format("January 02, 2006")
	reportingEnd := filter.EndTime.Format("January 02, 2006")
	timePeriod := "Reporting period: " + reportingStart + " - " + reportingEnd

	header := pterm.DefaultHeader.WithBackgroundStyle(pterm.NewStyle(pterm.BgYellow)).
		WithTextStyle(pterm.NewStyle(pterm.FgBlack)).
		Sprintfln(timePeriod)

	output := fmt.Sprint(
		header,
		getSummary(totals, p),
		getTags(totals.tags),
		getBarChart(hourly),
	)

	fmt.Fprintln(w, strings.TrimSpace(output))

	return nil
}
