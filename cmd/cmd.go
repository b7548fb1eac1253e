// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func jsonFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:  "json",
		Usage: "Output raw JSON",
	}
}

func bookArg() cli.Argument {
	return &cli.StringArg{
		Name:      "book",
		UsageText: "book ID, ID prefix or title",
	}
}

// setupCommand handles setup operations for the configuration file and database. The file is the one named
// by the root --config flag.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "database",
				Usage: "Create the config file (--config) if missing, initialize the database and run migrations",
				Action: r.SetupDatabase,
			},
		},
	}
}

// userCommand handles the local profile: signup, login, onboarding and goals.
func userCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "user",
		Aliases: []string{"profile"},
		Usage:   "Manage the local reader profile",
		Commands: []*cli.Command{
			{
				Name:  "signup",
				Usage: "Create a profile (the password is checked, never stored)",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "first-name", Usage: "First name", Required: true},
					&cli.StringFlag{Name: "last-name", Usage: "Last name", Required: true},
					&cli.StringFlag{Name: "username", Aliases: []string{"u"}, Usage: "Username", Required: true},
					&cli.StringFlag{Name: "email", Aliases: []string{"e"}, Usage: "Email address", Required: true},
					&cli.StringFlag{Name: "birth-date", Usage: "Birth date (YYYY-MM-DD)", Required: true},
					&cli.StringFlag{Name: "password", Aliases: []string{"p"}, Usage: "Password (8+ characters, at least one letter)", Required: true},
					&cli.StringFlag{Name: "confirm", Usage: "Password confirmation", Required: true},
				},
				Action: r.UserSignup,
			},
			{
				Name:  "login",
				Usage: "Select the local profile by email",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "email", Aliases: []string{"e"}, Usage: "Email address", Required: true},
					&cli.StringFlag{Name: "password", Aliases: []string{"p"}, Usage: "Password", Required: true},
				},
				Action: r.UserLogin,
			},
			{
				Name:   "logout",
				Usage:  "Forget the profile (books and sessions are kept)",
				Action: r.UserLogout,
			},
			{
				Name:   "show",
				Usage:  "Show the current profile",
				Flags:  []cli.Flag{jsonFlag()},
				Action: r.UserShow,
			},
			{
				Name:  "onboard",
				Usage: "Run the first-time setup: favorite genres, goals and photo",
				Flags: []cli.Flag{
					&cli.StringSliceFlag{Name: "genre", Aliases: []string{"g"}, Usage: "Favorite genre (repeat, at least 3)"},
					&cli.IntFlag{Name: "daily", Usage: "Daily reading goal in minutes", Value: 30},
					&cli.IntFlag{Name: "yearly", Usage: "Yearly goal in books", Value: 24},
					&cli.BoolFlag{Name: "notifications", Usage: "Enable reading reminders", Value: true},
					&cli.StringFlag{Name: "photo", Usage: "Profile photo URL or path"},
				},
				Action: r.UserOnboard,
			},
			{
				Name:  "goals",
				Usage: "Show or change the daily and yearly goals",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "daily", Usage: "Daily reading goal in minutes"},
					&cli.IntFlag{Name: "yearly", Usage: "Yearly goal in books"},
				},
				Action: r.UserGoals,
			},
		},
	}
}

// bookCommand handles the shelf manager.
func bookCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "book",
		Aliases: []string{"books", "b"},
		Usage:   "Manage books on your shelves",
		Commands: []*cli.Command{
			{
				Name:  "add",
				Usage: "Add a book",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "title", Aliases: []string{"t"}, Usage: "Title", Required: true},
					&cli.StringFlag{Name: "author", Aliases: []string{"a"}, Usage: "Author", Required: true},
					&cli.IntFlag{Name: "pages", Aliases: []string{"p"}, Usage: "Total pages", Required: true},
					&cli.StringFlag{Name: "genre", Aliases: []string{"g"}, Usage: "Genre"},
					&cli.StringFlag{Name: "cover", Usage: "Cover image URL"},
					&cli.StringFlag{Name: "status", Aliases: []string{"s"}, Usage: "want-to-read, reading or finished", Value: "want-to-read"},
				},
				Action: r.BookAdd,
			},
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   "List books on a shelf",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "shelf", Aliases: []string{"s"}, Usage: "all, want-to-read, reading or finished", Value: "all"},
					&cli.StringFlag{Name: "query", Aliases: []string{"q"}, Usage: "Filter by title or author"},
					jsonFlag(),
				},
				Action: r.BookList,
			},
			{
				Name:      "show",
				Usage:     "Show one book",
				Arguments: []cli.Argument{bookArg()},
				Flags:     []cli.Flag{jsonFlag()},
				Action:    r.BookShow,
			},
			{
				Name:      "progress",
				Usage:     "Set the current page (reaching the last page finishes the book)",
				Arguments: []cli.Argument{bookArg()},
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "page", Aliases: []string{"p"}, Usage: "Current page", Required: true},
				},
				Action: r.BookProgress,
			},
			{
				Name:      "status",
				Usage:     "Move a book to another shelf",
				Arguments: []cli.Argument{bookArg()},
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "to", Usage: "want-to-read, reading or finished", Required: true},
				},
				Action: r.BookStatus,
			},
			{
				Name:      "rate",
				Usage:     "Rate a book 1-5 (the same rating again clears it, 0 clears)",
				Arguments: []cli.Argument{bookArg()},
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "stars", Aliases: []string{"s"}, Usage: "Rating", Required: true},
				},
				Action: r.BookRate,
			},
			{
				Name:      "note",
				Usage:     "Replace a book's notes",
				Arguments: []cli.Argument{bookArg()},
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "text", Usage: "Notes", Required: true},
				},
				Action: r.BookNote,
			},
			{
				Name:      "delete",
				Aliases:   []string{"rm"},
				Usage:     "Remove a book",
				Arguments: []cli.Argument{bookArg()},
				Action:    r.BookDelete,
			},
		},
	}
}

// sessionCommand handles the reading planner.
func sessionCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "session",
		Aliases: []string{"sessions", "s"},
		Usage:   "Log reading sessions and track the daily goal",
		Commands: []*cli.Command{
			{
				Name:  "log",
				Usage: "Log a reading session for today",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "minutes", Aliases: []string{"m"}, Usage: "Minutes read", Required: true},
					&cli.IntFlag{Name: "pages", Aliases: []string{"p"}, Usage: "Pages read"},
					&cli.StringFlag{Name: "book", Aliases: []string{"b"}, Usage: "Book title", Required: true},
				},
				Action: r.SessionLog,
			},
			{
				Name:   "today",
				Usage:  "Show today's sessions and daily goal progress",
				Flags:  []cli.Flag{jsonFlag()},
				Action: r.SessionToday,
			},
			{
				Name:   "week",
				Usage:  "Show reading minutes for the last seven days",
				Flags:  []cli.Flag{jsonFlag()},
				Action: r.SessionWeek,
			},
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   "List every logged session",
				Flags:   []cli.Flag{jsonFlag()},
				Action:  r.SessionList,
			},
		},
	}
}

// statsCommand prints the reading dashboard.
func statsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "stats",
		Usage: "Show reading statistics",
		Flags: []cli.Flag{
			jsonFlag(),
			&cli.BoolFlag{Name: "markdown", Aliases: []string{"md"}, Usage: "Output Markdown"},
			&cli.StringFlag{Name: "now", Usage: "Compute as of this date (YYYY-MM-DD)"},
		},
		Action: r.Stats,
	}
}

func achievementsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "achievements",
		Usage:  "Show achievements, points and level",
		Flags:  []cli.Flag{jsonFlag()},
		Action: r.Achievements,
	}
}

// exportCommand writes the library to disk.
func exportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export the library as CSV, YAML, JSON, Markdown or text",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Usage: "csv, yaml, json, markdown or txt", Value: "json"},
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "Output path (default: stdout for yaml, json and txt)"},
			&cli.BoolFlag{Name: "all", Usage: "Write every format into --dir"},
			&cli.StringFlag{Name: "dir", Aliases: []string{"d"}, Usage: "Output directory for --all (default: bookmedia_export_{epoch})"},
			&cli.IntFlag{Name: "workers", Usage: "Concurrent writers for --all", Value: 3},
		},
		Action: r.Export,
	}
}

// serveCommand runs the local JSON API.
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the library as a local JSON API",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "host", Usage: "Listen host (default from config)"},
			&cli.IntFlag{Name: "port", Usage: "Listen port (default from config)"},
			&cli.BoolFlag{Name: "open", Usage: "Open the stats endpoint in a browser"},
		},
		Action: r.Serve,
	}
}

// tuiCommand returns the top-level TUI command for the interactive dashboard.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive dashboard",
		Action:  r.TUI,
	}
}
