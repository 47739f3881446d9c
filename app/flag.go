package app

import "github.com/urfave/cli/v2"

var (
	noColorFlag = &cli.BoolFlag{
		Name:  "no-color",
		Usage: "Disable coloured output",
	}

	durationFlag = &cli.IntFlag{
		Name:    "duration",
		Aliases: []string{"d"},
		Usage:   "Session duration in minutes (default: 25)",
	}

	titleFlag = &cli.StringFlag{
		Name:    "title",
		Aliases: []string{"t"},
		Usage:   "A short title for the focus session",
	}

	sessionCmdFlag = &cli.StringFlag{
		Name:    "session-cmd",
		Aliases: []string{"cmd"},
		Usage:   "Execute an arbitrary command after the session completes",
	}

	disableNotificationFlag = &cli.BoolFlag{
		Name:  "disable-notification",
		Usage: "Disable the system notification that appears after a session is completed",
	}

	noteTitleFlag = &cli.StringFlag{
		Name:     "title",
		Aliases:  []string{"t"},
		Usage:    "The note title",
		Required: true,
	}

	noteContentFlag = &cli.StringFlag{
		Name:    "content",
		Aliases: []string{"c"},
		Usage:   "The note content",
	}

	noteTagsFlag = &cli.StringFlag{
		Name:  "tags",
		Usage: "Comma-delimited tags for the note",
	}

	periodFlag = &cli.StringFlag{
		Name:    "period",
		Aliases: []string{"p"},
		Usage:   "Specify a reporting period for the stats (e.g. 7days, 30days, all-time)",
		Value:   "7days",
	}

	acceptFlag = &cli.BoolFlag{
		Name:  "accept",
		Usage: "Record the last suggestion as accepted",
	}

	declineFlag = &cli.BoolFlag{
		Name:  "decline",
		Usage: "Record the last suggestion as declined",
	}
)
