// Command docgen generates CLI reference documentation from the todo command
// definitions. Output is written to docs/cli-reference.md.
package main

import (
	"fmt"
	"os"

	docs "github.com/urfave/cli-docs/v3"
	"github.com/urfave/cli/v3"

	"github.com/brandonszeto/todo/internal/app"
	"github.com/brandonszeto/todo/internal/commands"
)

func main() {
	flags := &commands.Flags{}
	todoApp := &app.App{}

	root := &cli.Command{
		Name:      "todo",
		Usage:     "Decide what to work on next from your remote task list",
		UsageText: "todo [global options] command [command options]",
		Description: `todo ranks the tasks in a project by urgency: overdue and due-today work
first, then undated tasks, with priority breaking ties. Timed tasks within
fifteen minutes of now jump to the top.

Run 'todo config init' to store your API token.
Run 'todo next' to see the single most urgent task, then 'todo complete' when done.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "log level (debug, info, warn, error, fatal, panic)",
				Sources: cli.EnvVars("TODO_LOG_LEVEL"),
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "log-file",
				Usage:   "path to log file (defaults to <data-dir>/todo.log)",
				Sources: cli.EnvVars("TODO_LOG_FILE"),
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to config file",
				Sources: cli.EnvVars("TODO_CONFIG"),
				Value:   commands.DefaultConfigPath(),
			},
			&cli.StringFlag{
				Name:    "data-dir",
				Usage:   "path to data directory",
				Sources: cli.EnvVars("TODO_DATA_DIR"),
				Value:   commands.DefaultDataDir(),
			},
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

	md, err := docs.ToMarkdown(root)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error generating docs: %v\n", err)
		os.Exit(1)
	}

	outPath := "docs/cli-reference.md"
	if len(os.Args) > 1 {
		outPath = os.Args[1]
	}

	if err := os.WriteFile(outPath, []byte(md), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "error writing %s: %v\n", outPath, err)
		os.Exit(1)
	}

	fmt.Printf("Generated %s\n", outPath)
}
