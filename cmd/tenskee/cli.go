package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/dd3vahmad/tenskee/internal/bot"
	"github.com/dd3vahmad/tenskee/internal/command"
	"github.com/dd3vahmad/tenskee/internal/config"
	"github.com/dd3vahmad/tenskee/internal/dateparse"
	"github.com/dd3vahmad/tenskee/internal/digest"
	"github.com/dd3vahmad/tenskee/internal/enrich"
	"github.com/dd3vahmad/tenskee/internal/errors"
	"github.com/dd3vahmad/tenskee/internal/ops"
	"github.com/dd3vahmad/tenskee/internal/schedule"
	"github.com/dd3vahmad/tenskee/internal/scheduler"
	"github.com/dd3vahmad/tenskee/internal/web"
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp(db *sql.DB, cfg *config.Config) *cli.App {
	app := &cli.App{
		Name:    "tenskee",
		Usage:   "Class group assistant: assignments, events, timetable, daily digests",
		Version: Version,
		Commands: []*cli.Command{
			serveCmd(db, cfg),
			digestCmd(db, cfg),
			addCmd(db, cfg),
			timetableCmd(db),
			listCmd(db),
			eventsCmd(db, cfg),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// serveCmd runs the bot: Telegram long poll, daily digest scheduler, and the
// web status page, until SIGINT/SIGTERM.
func serveCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the Telegram bot, daily reminder, and status page",
		Action: func(c *cli.Context) error {
			if cfg.TelegramToken == "" {
				return cli.Exit("TENSKEE_TELEGRAM_TOKEN is not set", 1)
			}
			if cfg.ChatID == 0 {
				return cli.Exit("chat_id is not configured (config.yaml or TENSKEE_CHAT_ID)", 1)
			}

			loc, err := cfg.Location()
			if err != nil {
				slog.Warn("falling back to UTC", "error", err)
			}

			var enricher digest.Enricher
			if client := enrich.New(cfg.AI); client != nil {
				enricher = client
			} else {
				slog.Info("no AI key configured, digests go out unenriched")
			}

			b := bot.New(cfg, db, enricher, loc)

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			go func() {
				sig := <-sigCh
				slog.Info("signal received, shutting down", "signal", sig.String())
				cancel()
			}()

			hour, minute, err := cfg.ReminderClock()
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}
			sched, err := scheduler.New(loc, hour, minute, func() {
				b.SendDaily(context.Background())
			})
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}
			sched.Start()
			defer sched.Stop()

			if cfg.Listen != "" {
				srv := web.NewServer(db, loc, Version, cfg.Listen)
				go func() {
					slog.Info("status page listening", "addr", cfg.Listen)
					if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
						slog.Error("status page failed", "error", err)
					}
				}()
				defer srv.Close()
			}

			b.PollLoop(ctx)
			return nil
		},
	}
}

// digestCmd prints the digest for a reference date without sending anything.
func digestCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "digest",
		Usage: "Print the digest for a reference date (deterministic, no AI)",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "date", Aliases: []string{"d"}, Usage: "Reference date (default: today)"},
			&cli.BoolFlag{Name: "daily", Usage: "Build the morning reminder instead of the summon digest"},
		},
		Action: func(c *cli.Context) error {
			ref, err := referenceDate(c.String("date"), cfg)
			if err != nil {
				return outputError(err)
			}

			var text string
			if c.Bool("daily") {
				text, err = digest.BuildDaily(db, ref)
				if err == nil && text == "" {
					text = "Nothing to report."
				}
			} else {
				text, err = digest.BuildSummon(db, ref)
			}
			if err != nil {
				return outputError(err)
			}

			fmt.Println(text)
			return nil
		},
	}
}

// addCmd records an assignment.
func addCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "add",
		Usage:     "Record an assignment",
		ArgsUsage: "<title...>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "due", Required: true, Usage: "Due date: YYYY-MM-DD, today, tomorrow, or next <weekday>"},
		},
		Action: func(c *cli.Context) error {
			ref, err := referenceDate("", cfg)
			if err != nil {
				return outputError(err)
			}

			due, err := dateparse.Resolve(c.String("due"), ref)
			if err != nil {
				return outputError(err)
			}

			a, err := ops.AddAssignment(db, ops.AddAssignmentInput{
				Title: strings.Join(c.Args().Slice(), " "),
				Due:   due,
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(a)
		},
	}
}

// timetableCmd replaces one weekday's timetable.
func timetableCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:      "timetable",
		Usage:     "Replace the timetable for a weekday",
		ArgsUsage: "<weekday> [entries, e.g. \"OOP 9AM, Stats 11AM\"]",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "free", Usage: "Mark the whole day as a free day"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return outputError(errors.NewBadWeekday(""))
			}
			day, ok := schedule.ParseWeekday(c.Args().First())
			if !ok {
				return outputError(errors.NewBadWeekday(c.Args().First()))
			}

			entry := schedule.TimetableEntry{Day: day, FreeDay: c.Bool("free")}
			if !entry.FreeDay {
				entry.Slots = command.ParseSlots(strings.Join(c.Args().Tail(), " "))
			}

			if err := ops.SetTimetable(db, ops.SetTimetableInput{Day: day, Entry: entry}); err != nil {
				return outputError(err)
			}
			return outputJSON(map[string]any{"day": day.String(), "free_day": entry.FreeDay, "slots": entry.Slots})
		},
	}
}

// listCmd lists all assignments.
func listCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List assignments, ascending by due date",
		Action: func(c *cli.Context) error {
			assignments, err := ops.ListAssignments(db)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(map[string]any{"assignments": assignments})
		},
	}
}

// eventsCmd lists or records events.
func eventsCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "events",
		Usage: "List upcoming events or record one",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List upcoming events",
				Action: func(c *cli.Context) error {
					ref, err := referenceDate("", cfg)
					if err != nil {
						return outputError(err)
					}
					events, err := ops.ListUpcomingEvents(db, ref)
					if err != nil {
						return outputError(err)
					}
					return outputJSON(map[string]any{"events": events})
				},
			},
			{
				Name:      "add",
				Usage:     "Record an event",
				ArgsUsage: "<title...>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "on", Required: true, Usage: "Event date expression"},
					&cli.StringFlag{Name: "kind", Usage: "Event kind: exam, test, quiz, presentation, meeting"},
					&cli.StringFlag{Name: "notes", Usage: "Free-text notes"},
				},
				Action: func(c *cli.Context) error {
					ref, err := referenceDate("", cfg)
					if err != nil {
						return outputError(err)
					}
					date, err := dateparse.Resolve(c.String("on"), ref)
					if err != nil {
						return outputError(err)
					}
					e, err := ops.AddEvent(db, ops.AddEventInput{
						Kind:  c.String("kind"),
						Title: strings.Join(c.Args().Slice(), " "),
						Date:  date,
						Notes: c.String("notes"),
					})
					if err != nil {
						return outputError(err)
					}
					return outputJSON(e)
				},
			},
		},
	}
}

// Helper functions

// referenceDate resolves an optional --date flag against the configured
// timezone; empty means today.
func referenceDate(flag string, cfg *config.Config) (time.Time, error) {
	loc := time.UTC
	if cfg != nil {
		if l, err := cfg.Location(); err == nil {
			loc = l
		}
	}
	now := time.Now().In(loc)
	if flag == "" {
		return schedule.Truncate(now), nil
	}
	return dateparse.Resolve(flag, now)
}

// outputJSON marshals result to stdout as JSON.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	if bErr, ok := err.(*errors.BotError); ok {
		return cli.Exit(fmt.Sprintf("[%s] %s", bErr.Code, bErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}
