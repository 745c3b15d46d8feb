package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/brandonszeto/todo/internal/app"
	"github.com/brandonszeto/todo/internal/core/task"
	"github.com/brandonszeto/todo/internal/printer"
	"github.com/charmbracelet/huh"
	"github.com/urfave/cli/v3"
)

type PrioritizeCmd struct {
	flags *Flags
	app   *app.App

	// flags
	level int

	// prompt asks for a level when --level is not given.
	prompt func(t task.Task) (int, error)
}

// NewPrioritizeCmd creates a new prioritize command
func NewPrioritizeCmd(flags *Flags, app *app.App) *PrioritizeCmd {
	return &PrioritizeCmd{flags: flags, app: app, prompt: promptLevel}
}

// Register adds the prioritize command to the application
func (cmd *PrioritizeCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "prioritize",
		Aliases:   []string{"pri"},
		Usage:     "Set the priority of a task",
		UsageText: "todo prioritize <id> [--level 1-3]",
		Description: `Sets a task's priority from 1 (lowest) to 3 (highest).
Without --level an interactive prompt is shown. The task becomes the next
item, so 'todo complete' closes it.`,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:        "level",
				Aliases:     []string{"l"},
				Usage:       "priority level, 1 (lowest) to 3 (highest)",
				Destination: &cmd.level,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *PrioritizeCmd) run(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() != 1 {
		return fmt.Errorf("expected exactly one task id")
	}
	id := c.Args().First()

	if err := cmd.flags.Config.RequireToken(); err != nil {
		return err
	}

	item, err := cmd.app.Tasks.Item(ctx, id)
	if err != nil {
		return fmt.Errorf("get task: %w", err)
	}

	level := cmd.level
	if !c.IsSet("level") {
		level, err = cmd.prompt(item)
		if err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				return nil
			}
			return err
		}
	}

	if err := cmd.app.Tasks.SetPriority(ctx, item, level); err != nil {
		return fmt.Errorf("set priority: %w", err)
	}

	printer.Ctx(ctx).Successf("Set priority of %q to %d", item.Content, level)
	return nil
}

func promptLevel(t task.Task) (int, error) {
	level := 1
	err := huh.NewSelect[int]().
		Title("Priority for " + t.Content).
		Description("1 is the lowest, 3 the highest").
		Options(
			huh.NewOption("1 (lowest)", 1),
			huh.NewOption("2", 2),
			huh.NewOption("3 (highest)", 3),
		).
		Value(&level).
		Run()
	return level, err
}
