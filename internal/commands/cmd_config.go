package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/brandonszeto/todo/internal/core/config"
	"github.com/brandonszeto/todo/internal/printer"
	"github.com/brandonszeto/todo/pkg/iojson"
	"github.com/charmbracelet/huh"
	"github.com/hay-kot/criterio"
	"github.com/urfave/cli/v3"
)

type ConfigCmd struct {
	flags *Flags

	// init flags
	token    string
	timezone string
	force    bool

	// validate flags
	format string

	// ask fills in init answers interactively.
	ask func(a *initAnswers, exists bool) error
}

type initAnswers struct {
	Token     string
	Timezone  string
	Overwrite bool
}

// NewConfigCmd creates the config command group.
func NewConfigCmd(flags *Flags) *ConfigCmd {
	return &ConfigCmd{flags: flags, ask: askInit}
}

// Register adds the config command group to the application.
func (cmd *ConfigCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "config",
		Usage: "Configuration management commands",
		Commands: []*cli.Command{
			{
				Name:      "init",
				Usage:     "Write a config file with your API token",
				UsageText: "todo config init [--token TOKEN] [--timezone ZONE] [--force]",
				Description: `Creates the config file. Values not given as flags are prompted for.
The token is found under Settings > Integrations > Developer in the web app.`,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:        "token",
						Usage:       "API token",
						Destination: &cmd.token,
					},
					&cli.StringFlag{
						Name:        "timezone",
						Usage:       "IANA timezone for dates without one, e.g. America/Chicago",
						Destination: &cmd.timezone,
					},
					&cli.BoolFlag{
						Name:        "force",
						Usage:       "overwrite an existing config file without asking",
						Destination: &cmd.force,
					},
				},
				Action: cmd.runInit,
			},
			{
				Name:        "validate",
				Usage:       "Validate configuration file",
				UsageText:   "todo config validate [options]",
				Description: "Validates the configuration file, checking the token, timezone, project patterns, and data directory.",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:        "format",
						Usage:       "output format (text, json)",
						Value:       "text",
						Destination: &cmd.format,
					},
				},
				Action: cmd.runValidate,
			},
		},
	})

	return app
}

func (cmd *ConfigCmd) runInit(ctx context.Context, c *cli.Command) error {
	p := printer.Ctx(ctx)
	path := cmd.flags.ConfigPath

	_, statErr := os.Stat(path)
	exists := statErr == nil

	answers := initAnswers{Token: cmd.token, Timezone: cmd.timezone, Overwrite: cmd.force}
	if answers.Token == "" || (exists && !answers.Overwrite) {
		if err := cmd.ask(&answers, exists); err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				p.Infof("Init cancelled")
				return nil
			}
			return err
		}
	}

	if exists && !answers.Overwrite {
		p.Infof("Init cancelled")
		return nil
	}

	cfg := cmd.initConfig(answers)
	if err := cfg.Validate(); err != nil && cmd.flags.Config != nil {
		// Settings carried over from a broken file are dropped.
		fresh := config.DefaultConfig()
		fresh.Token, fresh.Timezone, fresh.DataDir = cfg.Token, cfg.Timezone, cfg.DataDir
		if fresh.Validate() == nil {
			p.Warnf("Existing settings were invalid and have been reset: %v", err)
			cfg = fresh
		}
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	if err := cfg.Save(path); err != nil {
		return err
	}

	p.Successf("Wrote %s", path)
	if len(cfg.Projects) == 0 {
		p.Infof("Add project ids under 'projects:' to use --project, e.g. inbox: \"2203306141\"")
	}
	return nil
}

// initConfig merges answers over the loaded config.
func (cmd *ConfigCmd) initConfig(answers initAnswers) config.Config {
	cfg := config.DefaultConfig()
	if cmd.flags.Config != nil {
		cfg = *cmd.flags.Config
	}
	cfg.Token = answers.Token
	cfg.Timezone = answers.Timezone
	cfg.DataDir = cmd.flags.DataDir
	return cfg
}

func askInit(a *initAnswers, exists bool) error {
	var fields []huh.Field

	if exists && !a.Overwrite {
		fields = append(fields, huh.NewConfirm().
			Title("Config file already exists").
			Description("Overwrite it?").
			Value(&a.Overwrite))
	}

	if a.Token == "" {
		fields = append(fields, huh.NewInput().
			Title("API token").
			Description("Settings > Integrations > Developer").
			EchoMode(huh.EchoModePassword).
			Validate(config.ValidateToken).
			Value(&a.Token))
	}

	if a.Timezone == "" {
		fields = append(fields, huh.NewInput().
			Title("Timezone").
			Description("IANA name such as Europe/Berlin; leave empty for UTC").
			Validate(validateTimezone).
			Value(&a.Timezone))
	}

	if len(fields) == 0 {
		return nil
	}
	return huh.NewForm(huh.NewGroup(fields...)).Run()
}

func validateTimezone(name string) error {
	if name == "" {
		return nil
	}
	if _, err := time.LoadLocation(name); err != nil {
		return fmt.Errorf("unknown timezone %q", name)
	}
	return nil
}

type validationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (cmd *ConfigCmd) runValidate(ctx context.Context, c *cli.Command) error {
	result := cmd.flags.Config.ValidateDeep(cmd.flags.ConfigPath)
	warnings := cmd.flags.Config.Warnings()
	errs := fieldErrors(result)

	if cmd.format == "json" {
		out := struct {
			Valid    bool                       `json:"valid"`
			Errors   []validationError          `json:"errors,omitempty"`
			Warnings []config.ValidationWarning `json:"warnings,omitempty"`
		}{
			Valid:    result == nil,
			Errors:   errs,
			Warnings: warnings,
		}

		if err := iojson.WriteWith(c.Root().Writer, c.Root().ErrWriter, out); err != nil {
			return err
		}
		if result != nil {
			return cli.Exit("", 1)
		}
		return nil
	}

	p := printer.Ctx(ctx)

	for _, warn := range warnings {
		p.Warnf("%s: %s", warn.Category, warn.Message)
	}

	for _, e := range errs {
		p.Errorf("%s: %s", e.Field, e.Message)
	}

	p.Printf("")
	if result == nil {
		p.Successf("Configuration is valid")
		return nil
	}

	p.Errorf("%d error(s) found", len(errs))
	return cli.Exit("", 1)
}

func fieldErrors(err error) []validationError {
	if err == nil {
		return nil
	}

	var fieldErrs criterio.FieldErrors
	if !errors.As(err, &fieldErrs) {
		return []validationError{{Field: "config", Message: err.Error()}}
	}

	out := make([]validationError, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, validationError{Field: fe.Field, Message: fe.Err.Error()})
	}
	return out
}
