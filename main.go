package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/brandonszeto/todo/internal/app"
	"github.com/brandonszeto/todo/internal/commands"
	"github.com/brandonszeto/todo/internal/core/logging"
	"github.com/brandonszeto/todo/internal/core/styles"
	"github.com/brandonszeto/todo/internal/data/db"
	"github.com/brandonszeto/todo/internal/data/stores"
	"github.com/brandonszeto/todo/internal/printer"
	"github.com/brandonszeto/todo/internal/todoist"
	"github.com/brandonszeto/todo/internal/updatecheck"
	"github.com/brandonszeto/todo/pkg/logutils"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	// When installed via `go install module@version`, build() falls back
	// to runtime/debug.BuildInfo.
	version = "dev"
	commit  = "HEAD"
	date    = "now"
)

func build() string {
	v, c, d := version, commit, date

	if v == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok {
			if mv := info.Main.Version; mv != "" && mv != "(devel)" {
				v = mv
			}
			for _, s := range info.Settings {
				switch s.Key {
				case "vcs.revision":
					c = s.Value
				case "vcs.time":
					d = s.Value
				}
			}
		}
	}

	short := c
	if len(c) > 7 {
		short = c[:7]
	}

	return fmt.Sprintf("%s (%s) %s", v, short, d)
}

// openDatabase opens the cache, moving a corrupted file aside once.
func openDatabase(dataDir string) (*db.DB, error) {
	database, err := db.Open(dataDir, db.DefaultOpenOptions())
	if err == nil || !stores.IsCorruptionError(err) {
		return database, err
	}

	log.Warn().Err(err).Msg("cache database is corrupted, starting fresh")
	if err := stores.RecoverFromCorruption(dataDir, time.Now()); err != nil {
		return nil, err
	}
	return db.Open(dataDir, db.DefaultOpenOptions())
}

func main() {
	ctx := context.Background()

	var (
		logCloser func()
		todoApp   = &app.App{}
		database  *db.DB
		kvStore   *stores.KVStore
	)

	flags := &commands.Flags{}

	root := &cli.Command{
		Name:      "todo",
		Usage:     "Decide what to work on next from your remote task list",
		UsageText: "todo [global options] command [command options]",
		Description: `todo ranks the tasks in a project by urgency: overdue and due-today work
first, then undated tasks, with priority breaking ties. Timed tasks within
fifteen minutes of now jump to the top.

Run 'todo config init' to store your API token.
Run 'todo next' to see the single most urgent task, then 'todo complete' when done.`,
		Version: build(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error, fatal, panic)",
				Sources:     cli.EnvVars("TODO_LOG_LEVEL"),
				Value:       "info",
				Destination: &flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "path to log file (defaults to <data-dir>/todo.log)",
				Sources:     cli.EnvVars("TODO_LOG_FILE"),
				Destination: &flags.LogFile,
			},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to config file",
				Sources:     cli.EnvVars("TODO_CONFIG"),
				Value:       commands.DefaultConfigPath(),
				Destination: &flags.ConfigPath,
			},
			&cli.StringFlag{
				Name:        "data-dir",
				Usage:       "path to data directory",
				Sources:     cli.EnvVars("TODO_DATA_DIR"),
				Value:       commands.DefaultDataDir(),
				Destination: &flags.DataDir,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			logFile := flags.LogFile
			if logFile == "" {
				logFile = filepath.Join(flags.DataDir, "todo.log")
			}

			logger, closer, err := logutils.New(flags.LogLevel, logFile)
			if err != nil {
				return ctx, fmt.Errorf("setup logger: %w", err)
			}
			logging.Install(logger)
			logCloser = closer

			ctx = logging.WithCommand(ctx, c.Args().First())
			ctx = printer.NewContext(ctx, printer.New(os.Stderr))

			if err := flags.LoadConfig(c.Args().First()); err != nil {
				return ctx, err
			}
			cfg := flags.Config

			// An unvalidated config may name an unknown theme.
			if cfg.ColorEnabled() && os.Getenv("NO_COLOR") == "" {
				palette, ok := styles.GetPalette(cfg.Theme)
				if !ok {
					palette, _ = styles.GetPalette(styles.DefaultTheme)
				}
				styles.SetTheme(palette)
			} else {
				styles.Disable()
			}

			// The config group needs neither the cache nor the API.
			if c.Args().First() == "config" {
				return ctx, nil
			}

			database, err = openDatabase(cfg.DataDir)
			if err != nil {
				return ctx, fmt.Errorf("open database: %w", err)
			}
			kvStore = stores.NewKVStore(database)

			client := todoist.New(ctx, todoist.Options{
				BaseURL: cfg.BaseURL,
				Token:   cfg.Token,
				Timeout: cfg.Timeout,
				Logger:  logging.Component("todoist"),
			})

			// Populate the pre-allocated App struct (commands already hold a pointer to it)
			*todoApp = *app.NewApp(cfg, client, database, kvStore, time.Now, logging.Component("tasks"))

			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			if kvStore != nil && flags.Config != nil && flags.Config.UpdateCheckEnabled() {
				checker := updatecheck.New(kvStore, "", logging.Component("updatecheck"))
				if res, _ := checker.Check(ctx, version); res != nil {
					printer.Ctx(ctx).Infof("A new version is available: %s -> %s", res.Current, res.Latest)
				}
			}

			if kvStore != nil {
				if err := kvStore.SweepExpired(ctx); err != nil {
					log.Debug().Err(err).Msg("kv sweep failed")
				}
			}

			if database != nil {
				if err := database.Close(); err != nil {
					log.Error().Err(err).Msg("failed to close database")
					return err
				}
			}

			if logCloser != nil {
				logCloser()
			}
			return nil
		},
	}

	root = commands.NewListCmd(flags, todoApp).Register(root)
	root = commands.NewNextCmd(flags, todoApp).Register(root)
	root = commands.NewCompleteCmd(flags, todoApp).Register(root)
	root = commands.NewAddCmd(flags, todoApp).Register(root)
	root = commands.NewMoveCmd(flags, todoApp).Register(root)
	root = commands.NewPrioritizeCmd(flags, todoApp).Register(root)
	root = commands.NewSortCmd(flags, todoApp).Register(root)
	root = commands.NewConfigCmd(flags).Register(root)

	exitCode := 0
	if err := root.Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		exitCode = 1
	}

	os.Exit(exitCode)
}
