// Package app defines the amvora command-line application.
package app

import (
	"os"

	"github.com/pterm/pterm"
	"github.com/urfave/cli/v2"

	"github.com/amvora/amvora/config"
	"github.com/amvora/amvora/internal/log"
)

const (
	envNoColor       = "NO_COLOR"
	envAmvoraNoColor = "AMVORA_NO_COLOR"
)

// disableStyling disables all styling provided by pterm.
func disableStyling() {
	pterm.DisableColor()
	pterm.DisableStyling()
	pterm.Debug.Prefix.Text = ""
	pterm.Info.Prefix.Text = ""
	pterm.Success.Prefix.Text = ""
	pterm.Warning.Prefix.Text = ""
	pterm.Error.Prefix.Text = ""
	pterm.Fatal.Prefix.Text = ""
}

func beforeAction(ctx *cli.Context) error {
	if _, ok := os.LookupEnv(envNoColor); ok {
		disableStyling()
	}

	if _, ok := os.LookupEnv(envAmvoraNoColor); ok {
		disableStyling()
	}

	if ctx.Bool("no-color") {
		disableStyling()
	}

	config.InitializePaths()

	log.Init(config.LogFilePath())

	return nil
}

// Get retrieves the amvora app instance.
func Get() *cli.App {
	amvoraApp := &cli.App{
		Name: "amvora",
		Usage: `
		Amvora is a productivity companion for the command line. It tracks
		focus sessions and notes, learns your work patterns, and nudges you
		with suggestions that adapt to your feedback.`,
		UsageText:            "[COMMAND] [OPTIONS]",
		Version:              config.Version,
		EnableBashCompletion: true,
		Commands: []*cli.Command{
			{
				Name:  "session",
				Usage: "Manage focus sessions",
				Subcommands: []*cli.Command{
					{
						Name:   "start",
						Usage:  "Start a focus session and count it down",
						Action: sessionStartAction,
						Flags: []cli.Flag{
							durationFlag,
							titleFlag,
							sessionCmdFlag,
							disableNotificationFlag,
						},
					},
					{
						Name:   "list",
						Usage:  "List recorded focus sessions",
						Action: sessionListAction,
					},
					{
						Name:      "delete",
						Usage:     "Delete one or more focus sessions",
						ArgsUsage: "<session-id>...",
						Action:    sessionDeleteAction,
					},
				},
			},
			{
				Name:  "note",
				Usage: "Manage notes",
				Subcommands: []*cli.Command{
					{
						Name:   "add",
						Usage:  "Create a note",
						Action: noteAddAction,
						Flags: []cli.Flag{
							noteTitleFlag,
							noteContentFlag,
							noteTagsFlag,
						},
					},
					{
						Name:   "list",
						Usage:  "List notes",
						Action: noteListAction,
					},
					{
						Name:      "summarize",
						Usage:     "Generate a summary for a note",
						ArgsUsage: "<note-id>",
						Action:    noteSummarizeAction,
					},
					{
						Name:      "tag",
						Usage:     "Generate tags for a note",
						ArgsUsage: "<note-id>",
						Action:    noteTagAction,
					},
					{
						Name:      "delete",
						Usage:     "Delete a note",
						ArgsUsage: "<note-id>",
						Action:    noteDeleteAction,
					},
				},
			},
			{
				Name:   "patterns",
				Usage:  "Show the work patterns inferred from your history",
				Action: patternsAction,
			},
			{
				Name:   "suggest",
				Usage:  "Print the companion's current suggestions",
				Action: suggestAction,
			},
			{
				Name: "companion",
				Usage: `
				Run the companion interactively. It rotates through suggestions
				and reacts to your feedback: press Enter to show the current
				message, a to accept, d to decline, s for a fresh suggestion,
				and q to quit`,
				Action: companionAction,
			},
			{
				Name:   "feedback",
				Usage:  "Record suggestion feedback without the interactive companion",
				Action: feedbackAction,
				Flags: []cli.Flag{
					acceptFlag,
					declineFlag,
				},
			},
			{
				Name:      "style",
				Usage:     "Preview how the companion would phrase a message for you",
				ArgsUsage: "<message>",
				Action:    styleAction,
			},
			{
				Name: "stats",
				Usage: `
				Track your progress with detailed statistics reporting. Defaults
				to a reporting period of 7 days`,
				Action: statsAction,
				Flags: []cli.Flag{
					periodFlag,
				},
			},
		},
		Flags: []cli.Flag{
			noColorFlag,
		},
		Before: beforeAction,
	}

	return amvoraApp
}
