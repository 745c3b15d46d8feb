package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/brandonszeto/todo/internal/app"
	"github.com/brandonszeto/todo/internal/core/task"
	"github.com/urfave/cli/v3"
)

type AddCmd struct {
	flags *Flags
	app   *app.App

	// flags
	jsonOutput bool
}

// NewAddCmd creates a new add command
func NewAddCmd(flags *Flags, app *app.App) *AddCmd {
	return &AddCmd{flags: flags, app: app}
}

// Register adds the add command to the application
func (cmd *AddCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "add",
		Aliases:   []string{"a"},
		Usage:     "Add a task to the inbox",
		UsageText: "todo add [--json] <text...>",
		Description: `Adds a task to the inbox. Dates in the text are understood by the server,
for example: todo add Pay rent every 1st at 9am`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output the created task as a JSON line",
				Destination: &cmd.jsonOutput,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *AddCmd) run(ctx context.Context, c *cli.Command) error {
	if err := cmd.flags.Config.RequireToken(); err != nil {
		return err
	}

	text := strings.Join(c.Args().Slice(), " ")

	created, err := cmd.app.Tasks.Add(ctx, text)
	if err != nil {
		return fmt.Errorf("add task: %w", err)
	}

	return writeTasks(c.Root().Writer, []task.Task{created}, cmd.app.Tasks.Now(), cmd.app.Tasks.Location(), cmd.jsonOutput)
}
