package commands

import (
	"context"
	"fmt"

	"github.com/brandonszeto/todo/internal/app"
	"github.com/brandonszeto/todo/internal/printer"
	"github.com/urfave/cli/v3"
)

type MoveCmd struct {
	flags *Flags
	app   *app.App

	// flags
	project string
}

// NewMoveCmd creates a new move command
func NewMoveCmd(flags *Flags, app *app.App) *MoveCmd {
	return &MoveCmd{flags: flags, app: app}
}

// Register adds the move command to the application
func (cmd *MoveCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "move",
		Aliases:   []string{"mv"},
		Usage:     "Move a task to another project",
		UsageText: "todo move <id> --project NAME",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "project",
				Aliases:     []string{"p"},
				Usage:       "destination project name or glob pattern",
				Required:    true,
				Destination: &cmd.project,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *MoveCmd) run(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() != 1 {
		return fmt.Errorf("expected exactly one task id")
	}
	id := c.Args().First()

	projectID, err := cmd.flags.remoteProject(cmd.project)
	if err != nil {
		return err
	}

	if err := cmd.app.Tasks.Move(ctx, id, projectID); err != nil {
		return fmt.Errorf("move task: %w", err)
	}

	printer.Ctx(ctx).Successf("Moved %s to %s", id, cmd.project)
	return nil
}
