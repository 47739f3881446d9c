package config

import (
	"time"

	"github.com/urfave/cli/v2"

	"github.com/amvora/amvora/internal/timeutil"
)

// FilterConfig represents the time filtering options for stats reporting.
type FilterConfig struct {
	StartTime time.Time
	EndTime   time.Time
	Period    timeutil.Period
}

// Filter reads the reporting period from command-line flags, defaulting
// to the last 7 days. An unknown period falls back to the default.
func Filter(ctx *cli.Context) *FilterConfig {
	period := timeutil.Period(ctx.String("period"))

	valid := false

	for _, p := range timeutil.PeriodCollection {
		if p == period {
			valid = true
			break
		}
	}

	if !valid {
		period = timeutil.Period7Days
	}

	start, end := timeutil.TimeRange(period, time.Now())

	return &FilterConfig{
		StartTime: start,
		EndTime:   end,
		Period:    period,
	}
}
