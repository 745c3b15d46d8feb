package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/brandonszeto/todo/internal/core/config"
	"github.com/urfave/cli/v3"
)

const defaultProject = "inbox"

func projectFlag(dest *string) *cli.StringFlag {
	return &cli.StringFlag{
		Name:        "project",
		Aliases:     []string{"p"},
		Usage:       "configured project name or glob pattern",
		Value:       defaultProject,
		Destination: dest,
	}
}

// remoteProject checks that the API can be reached and resolves a project
// name to its remote id.
func (f *Flags) remoteProject(name string) (string, error) {
	if err := f.Config.RequireToken(); err != nil {
		return "", err
	}

	id, err := f.Config.ProjectID(name)
	if errors.Is(err, config.ErrUnknownProject) {
		return "", fmt.Errorf("%w; add it under 'projects:' in %s, e.g. %s: \"<project id>\"",
			err, f.ConfigPath, projectKey(name))
	}
	return id, err
}

// projectKey is the config key suggested for an unknown project. Patterns
// fall back to the default project name.
func projectKey(name string) string {
	if strings.ContainsAny(name, "*?[{") {
		return defaultProject
	}
	return name
}
