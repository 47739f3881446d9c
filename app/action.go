package app

import (
	"bufio"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pterm/pterm"
	"github.com/urfave/cli/v2"

	"github.com/amvora/amvora/ai"
	"github.com/amvora/amvora/companion"
	"github.com/amvora/amvora/config"
	"github.com/amvora/amvora/internal/models"
	"github.com/amvora/amvora/internal/ui"
	"github.com/amvora/amvora/report"
	"github.com/amvora/amvora/stats"
	"github.com/amvora/amvora/store"
	"github.com/amvora/amvora/timer"
	"github.com/amvora/amvora/trust"
)

var errNoteNotFound = errors.New("note not found")

// initConfig loads the configuration file and applies any command-line
// overrides.
func initConfig(ctx *cli.Context) (*config.Config, error) {
	cfg, err := config.New(
		config.WithViperConfig(config.ConfigFilePath()),
	)
	if err != nil {
		return nil, err
	}

	if ctx.Int("duration") > 0 {
		cfg.Session.DurationMinutes = ctx.Int("duration")
	}

	if ctx.String("session-cmd") != "" {
		cfg.Session.Cmd = ctx.String("session-cmd")
	}

	if ctx.Bool("disable-notification") {
		cfg.Notification.Enabled = false
	}

	ui.DarkTheme = cfg.System.DarkTheme

	return cfg, nil
}

// initTracker prepares the trust tracker, creating the user's metric on
// first use and syncing the configured communication style.
func initTracker(
	cfg *config.Config,
	db store.DB,
) (*trust.Tracker, error) {
	tracker := trust.NewTracker(db)

	m, err := tracker.Ensure(cfg.System.User)
	if err != nil {
		return nil, err
	}

	style := cfg.Companion.Style
	if style != "" && style != m.Style {
		switch style {
		case models.StyleDirect, models.StyleEncouraging,
			models.StyleAnalytical, models.StyleCasual:
			err = tracker.SetStyle(cfg.System.User, style)
			if err != nil {
				return nil, err
			}
		}
	}

	return tracker, nil
}

func newCompanion(
	cfg *config.Config,
	db store.DB,
) (*companion.Companion, *trust.Tracker, error) {
	tracker, err := initTracker(cfg, db)
	if err != nil {
		return nil, nil, err
	}

	comp := companion.New(db, tracker, companion.Config{
		UserID:          cfg.System.User,
		RotateInterval:  cfg.Companion.RotateInterval,
		AcceptCooldown:  cfg.Companion.AcceptCooldown,
		DeclineCooldown: cfg.Companion.DeclineCooldown,
	})

	return comp, tracker, nil
}

func setup(ctx *cli.Context) (*config.Config, *store.Client, error) {
	cfg, err := initConfig(ctx)
	if err != nil {
		return nil, nil, err
	}

	db, err := store.NewClient(config.DBFilePath())
	if err != nil {
		return nil, nil, err
	}

	return cfg, db, nil
}

func sessionStartAction(ctx *cli.Context) error {
	cfg, db, err := setup(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	t := timer.New(db, cfg)

	return t.Run(ctx.String("title"), ctx.Int("duration"))
}

func sessionListAction(ctx *cli.Context) error {
	cfg, db, err := setup(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	sessions, err := db.ListSessions(cfg.System.User)
	if err != nil {
		return err
	}

	if len(sessions) == 0 {
		pterm.Info.Println("No sessions recorded yet")
		return nil
	}

	data := pterm.TableData{
		{"ID", "Title", "Started", "Minutes", "Completed", "Score", "Distractions"},
	}

	for i := range sessions {
		sess := sessions[i]

		completed := "no"
		scoreStr := "-"

		if sess.Completed {
			completed = "yes"
			scoreStr = fmt.Sprintf("%d", sess.FocusScore)
		}

		data = append(data, []string{
			shortID(sess.ID),
			sess.Title,
			sess.StartedAt.Format("Jan 02 15:04"),
			fmt.Sprintf("%d", sess.EffectiveMinutes()),
			completed,
			scoreStr,
			fmt.Sprintf("%d", sess.Distractions),
		})
	}

	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func sessionDeleteAction(ctx *cli.Context) error {
	if ctx.NArg() == 0 {
		return errors.New("specify at least one session id")
	}

	cfg, db, err := setup(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	err = db.DeleteSessions(cfg.System.User, ctx.Args().Slice())
	if err != nil {
		return err
	}

	pterm.Info.Println("session(s) deleted successfully")

	return nil
}

func noteAddAction(ctx *cli.Context) error {
	cfg, db, err := setup(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	now := time.Now()

	note := &models.Note{
		ID:        uuid.NewString(),
		Title:     ctx.String("title"),
		Content:   ctx.String("content"),
		Tags:      splitTags(ctx.String("tags")),
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = db.SaveNote(cfg.System.User, note)
	if err != nil {
		return err
	}

	pterm.Info.Println("note added successfully")

	return nil
}

func noteListAction(ctx *cli.Context) error {
	cfg, db, err := setup(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	notes, err := db.ListNotes(cfg.System.User)
	if err != nil {
		return err
	}

	if len(notes) == 0 {
		pterm.Info.Println("No notes yet")
		return nil
	}

	data := pterm.TableData{
		{"ID", "Title", "Tags", "Created", "Summary"},
	}

	for i := range notes {
		note := notes[i]

		summary := "-"
		if note.Summary != "" {
			summary = note.Summary
		}

		data = append(data, []string{
			shortID(note.ID),
			note.Title,
			strings.Join(note.Tags, ", "),
			note.CreatedAt.Format("Jan 02 15:04"),
			summary,
		})
	}

	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func noteSummarizeAction(ctx *cli.Context) error {
	cfg, db, err := setup(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	note, err := findNote(db, cfg.System.User, ctx.Args().First())
	if err != nil {
		return err
	}

	note.Summary = ai.Summarize(note.Content)
	note.UpdatedAt = time.Now()

	err = db.SaveNote(cfg.System.User, note)
	if err != nil {
		return err
	}

	fmt.Fprintln(config.Stdout, note.Summary)

	return nil
}

func noteTagAction(ctx *cli.Context) error {
	cfg, db, err := setup(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	note, err := findNote(db, cfg.System.User, ctx.Args().First())
	if err != nil {
		return err
	}

	note.Tags = ai.GenerateTags(note.Content)
	note.UpdatedAt = time.Now()

	err = db.SaveNote(cfg.System.User, note)
	if err != nil {
		return err
	}

	fmt.Fprintln(config.Stdout, strings.Join(note.Tags, ", "))

	return nil
}

func noteDeleteAction(ctx *cli.Context) error {
	cfg, db, err := setup(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	note, err := findNote(db, cfg.System.User, ctx.Args().First())
	if err != nil {
		return err
	}

	err = db.DeleteNote(cfg.System.User, note.ID)
	if err != nil {
		return err
	}

	pterm.Info.Println("note deleted successfully")

	return nil
}

func patternsAction(ctx *cli.Context) error {
	cfg, db, err := setup(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	comp, _, err := newCompanion(cfg, db)
	if err != nil {
		return err
	}

	report.Patterns(comp.Patterns())

	return nil
}

func suggestAction(ctx *cli.Context) error {
	cfg, db, err := setup(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	comp, _, err := newCompanion(cfg, db)
	if err != nil {
		return err
	}
	defer comp.Stop()

	comp.Refresh()

	report.Suggestions(comp.Suggestions())

	return nil
}

func companionAction(ctx *cli.Context) error {
	cfg, db, err := setup(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	comp, _, err := newCompanion(cfg, db)
	if err != nil {
		return err
	}
	defer comp.Stop()

	comp.Refresh()

	pterm.Info.Println(
		"Companion started. Enter: repeat message, a: accept, d: decline, s: new suggestion, q: quit",
	)

	done := make(chan struct{})

	// echo the companion's message whenever it changes, including
	// timer-driven rotations
	go func() {
		var last string

		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()

		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				msg := comp.Message()
				if msg != "" && msg != last {
					last = msg

					fmt.Fprintf(config.Stdout, "💬 %s\n", ui.Magenta(msg))
				}
			}
		}
	}()

	scanner := bufio.NewScanner(config.Stdin)

	for scanner.Scan() {
		switch strings.TrimSpace(scanner.Text()) {
		case "a":
			comp.Accept()
		case "d":
			comp.Decline()
		case "s":
			comp.Suggest()
		case "q":
			close(done)
			return nil
		default:
			fmt.Fprintf(config.Stdout, "💬 %s\n", ui.Magenta(comp.Message()))
		}
	}

	close(done)

	return scanner.Err()
}

func feedbackAction(ctx *cli.Context) error {
	if !ctx.Bool("accept") && !ctx.Bool("decline") {
		return errors.New("specify either --accept or --decline")
	}

	cfg, db, err := setup(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	tracker, err := initTracker(cfg, db)
	if err != nil {
		return err
	}

	err = tracker.RecordFeedback(cfg.System.User, ctx.Bool("accept"))
	if err != nil {
		return err
	}

	m, err := tracker.Get(cfg.System.User)
	if err != nil {
		return err
	}

	pterm.Info.Printfln(
		"feedback recorded (trust score: %.0f%%)",
		m.TrustScore,
	)

	return nil
}

func styleAction(ctx *cli.Context) error {
	if ctx.NArg() == 0 {
		return errors.New("specify a message to style")
	}

	cfg, db, err := setup(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	comp, _, err := newCompanion(cfg, db)
	if err != nil {
		return err
	}

	fmt.Fprintln(
		config.Stdout,
		comp.StyledMessage(strings.Join(ctx.Args().Slice(), " ")),
	)

	return nil
}

func statsAction(ctx *cli.Context) error {
	cfg, db, err := setup(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	filter := config.Filter(ctx)

	return stats.Show(db, cfg.System.User, filter, config.Stdout)
}

// findNote locates a note by its full or shortened id.
func findNote(db store.DB, userID, id string) (*models.Note, error) {
	if id == "" {
		return nil, errNoteNotFound
	}

	notes, err := db.ListNotes(userID)
	if err != nil {
		return nil, err
	}

	for i := range notes {
		if notes[i].ID == id || strings.HasPrefix(notes[i].ID, id) {
			return &notes[i], nil
		}
	}

	return nil, errNoteNotFound
}

func splitTags(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return []string{}
	}

	parts := strings.Split(raw, ",")

	tags := make([]string, 0, len(parts))

	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			tags = append(tags, p)
		}
	}

	return tags
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}

	return id
}
