package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/brandonszeto/todo/internal/app"
	"github.com/brandonszeto/todo/internal/core/task"
	"github.com/brandonszeto/todo/internal/printer"
	"github.com/urfave/cli/v3"
)

type NextCmd struct {
	flags *Flags
	app   *app.App

	// flags
	project    string
	jsonOutput bool
}

// NewNextCmd creates a new next command
func NewNextCmd(flags *Flags, app *app.App) *NextCmd {
	return &NextCmd{flags: flags, app: app}
}

// Register adds the next command to the application
func (cmd *NextCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "next",
		Usage:     "Show the most urgent task",
		UsageText: "todo next [--project NAME] [--json]",
		Description: `Shows the single most urgent actionable task and remembers it,
so that 'todo complete' can close it without an id.`,
		Flags: []cli.Flag{
			projectFlag(&cmd.project),
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output as a JSON line",
				Destination: &cmd.jsonOutput,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *NextCmd) run(ctx context.Context, c *cli.Command) error {
	projectID, err := cmd.flags.remoteProject(cmd.project)
	if err != nil {
		return err
	}

	next, err := cmd.app.Tasks.Next(ctx, projectID)
	if err != nil {
		if errors.Is(err, app.ErrNoNextItem) {
			if !cmd.jsonOutput {
				printer.Ctx(ctx).Successf("No tasks on list")
			}
			return nil
		}
		return fmt.Errorf("next task: %w", err)
	}

	return writeTasks(c.Root().Writer, []task.Task{next}, cmd.app.Tasks.Now(), cmd.app.Tasks.Location(), cmd.jsonOutput)
}
