// Package suggest turns derived usage patterns into short nudges for the
// companion to present.
package suggest

import (
	"fmt"

	"github.com/amvora/amvora/internal/models"
	"github.com/amvora/amvora/pattern"
)

// maxSuggestions caps how many nudges are surfaced at once.
const maxSuggestions = 3

// Welcome greets users with no history at all.
const Welcome = "Welcome to Amvora! Start with a focus session or create a note! 🌟"

// Generate produces at most three suggestion strings. The rules are
// evaluated in a fixed priority order, which is also the output order.
func Generate(
	p pattern.UserPatterns,
	notes []models.Note,
	hour int,
	sessionActive bool,
) []string {
	var suggestions []string

	// Session count milestones: exactly one of these applies.
	switch {
	case p.CompletedSessions == 0 && p.TotalSessions > 0:
		suggestions = append(suggestions, fmt.Sprintf(
			"You have %d sessions! Complete one to see your patterns! 🎯",
			p.TotalSessions,
		))
	case p.CompletedSessions == 0 && p.TotalNotes > 0:
		suggestions = append(suggestions, fmt.Sprintf(
			"I see %d notes! Ready for your first focus session? 🚀",
			p.TotalNotes,
		))
	case p.CompletedSessions == 1:
		suggestions = append(suggestions, fmt.Sprintf(
			"Great first session! Try another %d-minute focus? ⭐",
			p.OptimalSessionMinutes,
		))
	case p.CompletedSessions > 1:
		suggestions = append(suggestions, fmt.Sprintf(
			"Amazing! %d sessions completed! Keep going? 🏆",
			p.CompletedSessions,
		))
	}

	if p.GoodFocusOpportunity && p.CompletedSessions > 0 {
		suggestions = append(suggestions, fmt.Sprintf(
			"It's %d:00 - your best focus time! Perfect for %d minutes! 🎯",
			hour,
			p.OptimalSessionMinutes,
		))
	}

	if p.NeedsBreak && !sessionActive && p.CompletedSessions > 0 {
		suggestions = append(suggestions, fmt.Sprintf(
			"You've completed %d sessions! Time for a break? ☕",
			p.CompletedSessions,
		))
	}

	if containsHour(p.NotePeakHours, hour) && p.TotalNotes > 0 {
		untagged := 0

		for i := range notes {
			if notes[i].Untagged() {
				untagged++
			}
		}

		if untagged > 0 {
			suggestions = append(suggestions, fmt.Sprintf(
				"You have %d untagged notes. Organize them? 🏷️",
				untagged,
			))
		}
	}

	if p.TotalSessions == 0 && p.TotalNotes == 0 {
		suggestions = append(suggestions, Welcome)
	}

	if len(suggestions) > maxSuggestions {
		suggestions = suggestions[:maxSuggestions]
	}

	return suggestions
}

func containsHour(hours []int, hour int) bool {
	for _, h := range hours {
		if h == hour {
			return true
		}
	}

	return false
}
