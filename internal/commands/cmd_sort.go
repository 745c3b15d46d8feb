package commands

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/brandonszeto/todo/internal/app"
	"github.com/brandonszeto/todo/internal/core/task"
	"github.com/brandonszeto/todo/pkg/iojson"
	"github.com/urfave/cli/v3"
)

type SortCmd struct {
	flags *Flags
	app   *app.App

	// flags
	input      iojson.FileReader[json.RawMessage]
	scheduled  bool
	all        bool
	jsonOutput bool
}

// NewSortCmd creates a new sort command
func NewSortCmd(flags *Flags, app *app.App) *SortCmd {
	return &SortCmd{flags: flags, app: app}
}

// Register adds the sort command to the application
func (cmd *SortCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "sort",
		Usage:     "Sort a saved project payload without contacting the API",
		UsageText: "todo sort [--file FILE] [--scheduled | --all] [--json] < items.json",
		Description: `Reads a project data payload of the form {"items": [...]} from a file or
stdin and prints the tasks the same way 'todo list' would.`,
		Flags: []cli.Flag{
			cmd.input.Flag(),
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

func (cmd *SortCmd) run(ctx context.Context, c *cli.Command) error {
	if cmd.scheduled && cmd.all {
		return fmt.Errorf("--scheduled and --all cannot be combined")
	}

	raw, err := cmd.input.Read()
	if err != nil {
		return err
	}

	tasks, err := task.DecodeTasks(raw)
	if err != nil {
		return err
	}

	now := cmd.app.Now()
	loc := cmd.flags.Config.Location()
	tasks = task.FilterOpen(tasks)

	switch {
	case cmd.scheduled:
		tasks = task.SortByDueInstant(task.FilterDueNow(tasks, now, loc), now, loc)
	case cmd.all:
		tasks = task.SortByUrgency(tasks, now, loc)
	default:
		tasks = task.SortByUrgency(task.FilterActionable(tasks, now, loc), now, loc)
	}

	return writeTasks(c.Root().Writer, tasks, now, loc, cmd.jsonOutput)
}
