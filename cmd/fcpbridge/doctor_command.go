package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"fcpbridge/internal/preflight"
)

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check media tools and working directories",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			failed := false

			lines := renderSectionHeader("Configuration", colorize)
			if ctx.configPath != "" {
				lines = append(lines, renderStatusLine("Config file", statusInfo, ctx.configPath, colorize))
			}
			lines = append(lines, renderStatusLine("Export flavor", statusInfo, cfg.Export.Flavor, colorize))
			lines = append(lines, "")

			lines = append(lines, renderSectionHeader("Media tools", colorize)...)
			for _, status := range preflight.CheckSystemDeps(cfg) {
				switch {
				case status.Available:
					probe := preflight.ProbeToolVersion(cmd.Context(), status.Command)
					lines = append(lines, renderStatusLine(status.Name, statusOK, status.Command+" ("+probe.Detail()+")", colorize))
				case status.Optional:
					lines = append(lines, renderStatusLine(status.Name, statusWarn, status.Detail+"; "+strings.ToLower(status.Description), colorize))
				default:
					failed = true
					lines = append(lines, renderStatusLine(status.Name, statusError, status.Detail+"; "+strings.ToLower(status.Description), colorize))
				}
			}
			lines = append(lines, "")

			lines = append(lines, renderSectionHeader("Directories", colorize)...)
			for _, result := range preflight.RunAll(cfg) {
				kind := statusOK
				if !result.Passed {
					kind = statusError
					failed = true
				}
				lines = append(lines, renderStatusLine(result.Name, kind, result.Detail, colorize))
			}

			fmt.Fprintln(out, strings.Join(lines, "\n"))
			if failed {
				return errors.New("doctor found problems")
			}
			return nil
		},
	}
}
