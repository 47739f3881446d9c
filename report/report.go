// Package report prints companion output to the terminal.
package report

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"

	"github.com/amvora/amvora/config"
	"github.com/amvora/amvora/internal/ui"
	"github.com/amvora/amvora/pattern"
)

func Error(err error) {
	pterm.Error.Println(err)
}

// Suggestions prints the companion's current nudges as a bulleted list.
func Suggestions(suggestions []string) {
	if len(suggestions) == 0 {
		pterm.Info.Println("No suggestions right now. Check back later!")
		return
	}

	items := make([]pterm.BulletListItem, 0, len(suggestions))

	for _, s := range suggestions {
		items = append(items, pterm.BulletListItem{
			Level: 0,
			Text:  s,
		})
	}

	_ = pterm.DefaultBulletList.WithItems(items).Render()
}

// Patterns prints the derived usage patterns.
func Patterns(p pattern.UserPatterns) {
	fmt.Fprintf(
		config.Stdout,
		"%s\n%s %s\n%s %s\n%s %s\n%s %s\n%s %s\n%s %s\n%s %s\n",
		ui.Blue("Your patterns"),
		"Best focus hours:",
		ui.Green(formatHours(p.BestFocusHours)),
		"Optimal session length:",
		ui.Green(fmt.Sprintf("%d minutes", p.OptimalSessionMinutes)),
		"Note-taking peak hours:",
		ui.Green(formatHours(p.NotePeakHours)),
		"Focus success rate:",
		ui.Green(fmt.Sprintf("%.0f%%", p.SuccessRate*100)),
		"Average distractions:",
		ui.Green(fmt.Sprintf("%.1f", p.AvgDistractions)),
		"Sessions completed:",
		ui.Green(fmt.Sprintf("%d of %d", p.CompletedSessions, p.TotalSessions)),
		"Notes:",
		ui.Green(p.TotalNotes),
	)

	if p.NeedsBreak {
		pterm.Info.Println("It's been a while since your last session. Take a break!")
	}

	if p.GoodFocusOpportunity {
		pterm.Info.Println("Now is one of your best focus hours.")
	}
}

func formatHours(hours []int) string {
	if len(hours) == 0 {
		return "not enough data"
	}

	parts := make([]string, 0, len(hours))

	for _, h := range hours {
		parts = append(parts, fmt.Sprintf("%02d:00", h))
	}

	return strings.Join(parts, ", ")
}
