// Package score derives the focus score for completed sessions.
package score

const (
	base               = 100
	distractionPenalty = 8
	maxPenalty         = 40
	minScore           = 50
	maxScore           = 100
)

// Compute returns a 0-100 quality metric for a completed session.
// Distractions cost 8 points each up to a cap of 40, and longer
// sessions earn a small bonus. The result is clamped to [50,100].
func Compute(distractions, actualMinutes int) int {
	s := base

	penalty := distractions * distractionPenalty
	if penalty > maxPenalty {
		penalty = maxPenalty
	}

	s -= penalty

	switch {
	case actualMinutes >= 45:
		s += 10
	case actualMinutes >= 30:
		s += 5
	case actualMinutes >= 15:
		s += 2
	}

	if s < minScore {
		return minScore
	}

	if s > maxScore {
		return maxScore
	}

	return s
}
