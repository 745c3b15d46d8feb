package commands

import (
	"context"
	"fmt"

	"github.com/brandonszeto/todo/internal/app"
	"github.com/brandonszeto/todo/internal/core/task"
	"github.com/brandonszeto/todo/internal/printer"
	"github.com/urfave/cli/v3"
)

type ListCmd struct {
	flags *Flags
	app   *app.App

	// flags
	project    string
	scheduled  bool
	all        bool
	jsonOutput bool
}

// NewListCmd creates a new list command
func NewListCmd(flags *Flags, app *app.App) *ListCmd {
	return &ListCmd{flags: flags, app: app}
}

// Register adds the list command to the application
func (cmd *ListCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "list",
		Aliases:   []string{"ls"},
		Usage:     "List tasks in a project, most urgent first",
		UsageText: "todo list [--project NAME] [--scheduled | --all] [--json]",
		Description: `Lists open tasks that are due today, overdue, or undated, ordered by urgency.

Use --scheduled to list only tasks with a time of day due today, ordered by time.
Use --all to include tasks due in the future.`,
		Flags: []cli.Flag{
			projectFlag(&cmd.project),
			&cli.BoolFlag{
				Name:        "scheduled",
				Aliases:     []string{"s"},
				Usage:       "only timed tasks due today, in time order",
				Destination: &cmd.scheduled,
			},
			&cli.BoolFlag{
				Name:        "all",
				Aliases:     []string{"a"},
				Usage:       "include tasks due in the future",
				Destination: &cmd.all,
			},
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output as JSON lines",
				Destination: &cmd.jsonOutput,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *ListCmd) run(ctx context.Context, c *cli.Command) error {
	if cmd.scheduled && cmd.all {
		return fmt.Errorf("--scheduled and --all cannot be combined")
	}

	projectID, err := cmd.flags.remoteProject(cmd.project)
	if err != nil {
		return err
	}

	var tasks []task.Task
	switch {
	case cmd.scheduled:
		tasks, err = cmd.app.Tasks.DueNow(ctx, projectID)
	case cmd.all:
		tasks, err = cmd.app.Tasks.All(ctx, projectID)
	default:
		tasks, err = cmd.app.Tasks.Actionable(ctx, projectID)
	}
	if err != nil {
		return fmt.Errorf("list tasks: %w", err)
	}

	if len(tasks) == 0 {
		if !cmd.jsonOutput {
			printer.Ctx(ctx).Infof("No tasks in %s", cmd.project)
		}
		return nil
	}

	return writeTasks(c.Root().Writer, tasks, cmd.app.Tasks.Now(), cmd.app.Tasks.Location(), cmd.jsonOutput)
}
