package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/brandonszeto/todo/internal/app"
	"github.com/brandonszeto/todo/internal/printer"
	"github.com/urfave/cli/v3"
)

type CompleteCmd struct {
	flags *Flags
	app   *app.App
}

// NewCompleteCmd creates a new complete command
func NewCompleteCmd(flags *Flags, app *app.App) *CompleteCmd {
	return &CompleteCmd{flags: flags, app: app}
}

// Register adds the complete command to the application
func (cmd *CompleteCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:        "complete",
		Aliases:     []string{"done"},
		Usage:       "Complete the task last shown by 'todo next'",
		UsageText:   "todo complete",
		Description: "Closes the task remembered by the most recent 'todo next' and forgets it.",
		Action:      cmd.run,
	})

	return app
}

func (cmd *CompleteCmd) run(ctx context.Context, c *cli.Command) error {
	if err := cmd.flags.Config.RequireToken(); err != nil {
		return err
	}

	item, err := cmd.app.Tasks.CompleteNext(ctx)
	if err != nil {
		if errors.Is(err, app.ErrNoNextItem) {
			return fmt.Errorf("nothing to complete; run 'todo next' first")
		}
		return fmt.Errorf("complete task: %w", err)
	}

	printer.Ctx(ctx).Successf("Completed %s", item.Content)
	return nil
}
