// Package timer operates the Amvora focus-session countdown and records
// the outcome of each session.
package timer

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"os/exec"
	"os/signal"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gen2brain/beeep"
	"github.com/google/uuid"
	"github.com/kballard/go-shellquote"
	"github.com/pterm/pterm"

	"github.com/amvora/amvora/config"
	"github.com/amvora/amvora/internal/models"
	"github.com/amvora/amvora/internal/timeutil"
	"github.com/amvora/amvora/internal/ui"
	"github.com/amvora/amvora/score"
	"github.com/amvora/amvora/store"
)

// Timer runs a single focus session to completion or abandonment.
type Timer struct {
	db   store.DB
	opts *config.Config

	distractions atomic.Int64
}

// New creates a new timer.
func New(db store.DB, cfg *config.Config) *Timer {
	return &Timer{
		db:   db,
		opts: cfg,
	}
}

// NewSession initialises a focus session record. The completion fields
// stay unset until the countdown finishes.
func (t *Timer) NewSession(
	title string,
	minutes int,
	startTime time.Time,
) *models.FocusSession {
	if minutes <= 0 {
		minutes = t.opts.Session.DurationMinutes
	}

	if title == "" {
		title = "Focus session"
	}

	return &models.FocusSession{
		ID:              uuid.NewString(),
		Title:           title,
		DurationMinutes: minutes,
		Completed:       false,
		StartedAt:       startTime,
	}
}

// Run persists a new session, counts it down, and records the outcome.
// Pressing d followed by Enter logs a distraction; Ctrl-C abandons the
// session while keeping its record.
func (t *Timer) Run(title string, minutes int) error {
	sess := t.NewSession(title, minutes, time.Now())

	err := t.db.SaveSession(t.opts.System.User, sess)
	if err != nil {
		return err
	}

	t.printSession(sess)

	go t.watchDistractions()

	interrupted := t.handleInterruption()

	end := sess.StartedAt.Add(
		time.Duration(sess.DurationMinutes) * time.Minute,
	)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-interrupted:
			return t.abandon(sess)
		case now := <-ticker.C:
			remaining := timeutil.Round(end.Sub(now).Seconds())
			if remaining <= 0 {
				fmt.Fprintf(config.Stdout, "\r\033[K")
				return t.complete(sess)
			}

			t.countdown(remaining)
		}
	}
}

// countdown prints the time remaining until the end of the session.
func (t *Timer) countdown(remainingSeconds int) {
	fmt.Fprintf(
		config.Stdout,
		"\r🕒%s:%s",
		ui.Yellow(fmt.Sprintf("%02d", remainingSeconds/60)),
		ui.Yellow(fmt.Sprintf("%02d", remainingSeconds%60)),
	)
}

// printSession writes the details of the current session to stdout.
func (t *Timer) printSession(sess *models.FocusSession) {
	fmt.Fprintf(
		config.Stdout,
		"%s: %s (until %s). Press d then Enter to log a distraction.\n",
		ui.Green("[Focus]"),
		sess.Title,
		ui.Highlight(
			sess.StartedAt.Add(
				time.Duration(sess.DurationMinutes)*time.Minute,
			).Format("03:04:05 PM"),
		),
	)
}

// watchDistractions counts `d` keypresses submitted through stdin.
func (t *Timer) watchDistractions() {
	scanner := bufio.NewScanner(config.Stdin)

	for scanner.Scan() {
		if strings.TrimSpace(scanner.Text()) == "d" {
			n := t.distractions.Add(1)

			fmt.Fprintf(
				config.Stdout,
				"\r\033[K%s\n",
				ui.Red(fmt.Sprintf("Distraction logged (%d)", n)),
			)
		}
	}
}

// handleInterruption converts Ctrl-C into an abandonment signal.
func (t *Timer) handleInterruption() chan struct{} {
	interrupted := make(chan struct{})

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		close(interrupted)
	}()

	return interrupted
}

// abandon keeps the session record with its elapsed time but leaves it
// incomplete so it still counts against the success rate. The elapsed
// time is rounded up so that even a brief attempt records a nonzero
// duration and ends the active window.
func (t *Timer) abandon(sess *models.FocusSession) error {
	elapsed := int(math.Ceil(time.Since(sess.StartedAt).Minutes()))

	sess.ActualMinutes = elapsed
	sess.Distractions = int(t.distractions.Load())

	err := t.db.SaveSession(t.opts.System.User, sess)
	if err != nil {
		return err
	}

	fmt.Fprintln(config.Stdout)
	pterm.Info.Println("Session abandoned")

	return nil
}

// complete fills the completion-only fields exactly once and notifies
// the user.
func (t *Timer) complete(sess *models.FocusSession) error {
	now := time.Now()
	distractions := int(t.distractions.Load())

	sess.Completed = true
	sess.CompletedAt = &now
	sess.ActualMinutes = sess.DurationMinutes
	sess.Distractions = distractions
	sess.FocusScore = score.Compute(distractions, sess.ActualMinutes)

	err := t.db.SaveSession(t.opts.System.User, sess)
	if err != nil {
		return err
	}

	fmt.Fprintf(
		config.Stdout,
		"Session completed! Focus score: %s\n",
		ui.Green(sess.FocusScore),
	)

	t.notify(sess)

	return t.runSessionCmd(t.opts.Session.Cmd)
}

// notify sends a desktop notification once a session completes.
func (t *Timer) notify(sess *models.FocusSession) {
	if !t.opts.Notification.Enabled {
		return
	}

	msg := fmt.Sprintf(
		"%s is done. Focus score: %d",
		sess.Title,
		sess.FocusScore,
	)

	err := beeep.Notify("Focus session complete", msg, "")
	if err != nil {
		pterm.Error.Printfln("unable to display notification: %v", err)
	}
}

// runSessionCmd executes the configured post-session command.
func (t *Timer) runSessionCmd(sessionCmd string) error {
	if sessionCmd == "" {
		return nil
	}

	cmdSlice, err := shellquote.Split(sessionCmd)
	if err != nil {
		return fmt.Errorf("unable to parse session cmd option: %w", err)
	}

	if len(cmdSlice) == 0 {
		return nil
	}

	name := cmdSlice[0]
	args := cmdSlice[1:]

	cmd := exec.Command(name, args...)

	return cmd.Run()
}
