package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"fcpbridge/internal/config"
	"fcpbridge/internal/fcp7"
	"fcpbridge/internal/pathurl"
	"fcpbridge/internal/preflight"
	"fcpbridge/internal/timeline"
)

func newExportCommand(ctx *commandContext) *cobra.Command {
	var output string
	var name string
	var flavor string
	var strict bool

	cmd := &cobra.Command{
		Use:   "export <timeline.json>",
		Short: "Write a timeline as Final Cut Pro 7 XML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			opts, err := exportOptions(cfg, cmd, name, flavor, strict)
			if err != nil {
				return err
			}

			target, err := config.ExpandPath(strings.TrimSpace(output))
			if err != nil {
				return fmt.Errorf("resolve output path: %w", err)
			}
			if check := preflight.CheckOutputTarget(target); !check.Passed {
				return errors.New("output: " + check.Detail)
			}

			tk, logger, err := ctx.toolkit()
			if err != nil {
				return err
			}
			tl, err := timeline.ReadJSONFile(cmd.Context(), args[0], tk)
			if err != nil {
				return err
			}
			report, err := fcp7.Write(cmd.Context(), opts, tk, target, tl, logger)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote %s (%d video clips, %d audio clips, %d files)\n",
				report.Output, report.VideoClips, report.AudioClips, report.Files)
			if report.ExtractedStreams > 0 {
				fmt.Fprintf(out, "Extracted %d secondary audio streams\n", report.ExtractedStreams)
			}
			for _, t := range report.DroppedVideoTracks {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: video track %d was not exported (only the first video track is supported)\n", t+1)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Destination XML file")
	cmd.Flags().StringVar(&name, "name", "", "Sequence name (defaults to export.sequence_name)")
	cmd.Flags().StringVar(&flavor, "flavor", "", "Path style: premiere or resolve (defaults to export.flavor)")
	cmd.Flags().BoolVar(&strict, "strict-video-tracks", false, "Fail instead of dropping video tracks after the first")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}

func exportOptions(cfg *config.Config, cmd *cobra.Command, name, flavor string, strict bool) (fcp7.Options, error) {
	opts := fcp7.Options{
		Name:              cfg.Export.SequenceName,
		StrictVideoTracks: cfg.Export.StrictVideoTracks,
	}
	if strings.TrimSpace(name) != "" {
		opts.Name = strings.TrimSpace(name)
	}
	if cmd.Flags().Changed("strict-video-tracks") {
		opts.StrictVideoTracks = strict
	}
	if strings.TrimSpace(flavor) == "" {
		flavor = cfg.Export.Flavor
	}
	parsed, err := pathurl.ParseFlavor(flavor)
	if err != nil {
		return fcp7.Options{}, err
	}
	opts.Flavor = parsed
	return opts, nil
}
