package main

import (
	"context"

	"github.com/charmbracelet/lipgloss"
	"github.com/urfave/cli/v3"

	"github.com/anzhiyu-c/anheyu-cli/internal/icons"
)

var iconStyle = lipgloss.NewStyle().Bold(true)

// Icons lists every registered icon, or resolves a single identifier.
func (r *Runner) Icons(ctx context.Context, cmd *cli.Command) error {
	if id := cmd.StringArg("id"); id != "" {
		icon, err := icons.Resolve(id)
		if err != nil {
			return err
		}
		r.writePlain("%s %s (%s)\n", icon.Render(iconStyle), icon.ID, icon.Collection())
		return nil
	}

	for _, reg := range icons.Registries() {
		r.writePlainHeader(reg.Name())
		for _, icon := range reg.Icons() {
			r.writePlain("%s  %s\n", icon.Render(iconStyle), icon.ID)
		}
		r.writePlain("%d icons\n\n", reg.Len())
	}
	return nil
}
