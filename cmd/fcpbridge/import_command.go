package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"fcpbridge/internal/config"
	"fcpbridge/internal/fcp7"
	"fcpbridge/internal/fileutil"
	"fcpbridge/internal/timeline"
)

func newImportCommand(ctx *commandContext) *cobra.Command {
	var output string
	var noProbe bool

	cmd := &cobra.Command{
		Use:   "import <document.xml>",
		Short: "Convert Final Cut Pro 7 XML into a timeline JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tk, logger, err := ctx.toolkit()
			if err != nil {
				return err
			}
			var prober timeline.Prober = tk
			if noProbe {
				prober = nil
			}

			tl, err := fcp7.Read(cmd.Context(), args[0], prober, logger)
			if err != nil {
				return err
			}

			target := strings.TrimSpace(output)
			if target == "" || target == "-" {
				return timeline.WriteJSON(cmd.OutOrStdout(), tl)
			}
			if target, err = config.ExpandPath(target); err != nil {
				return fmt.Errorf("resolve output path: %w", err)
			}
			err = fileutil.WriteFileAtomic(target, 0o644, func(w io.Writer) error {
				return timeline.WriteJSON(w, tl)
			})
			if err != nil {
				return fmt.Errorf("write %s: %w", target, err)
			}
			videoClips, audioClips := tl.ClipCount()
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d sources, %d video clips, %d audio clips)\n",
				target, len(tl.Sources), videoClips, audioClips)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Destination JSON file (stdout when omitted)")
	cmd.Flags().BoolVar(&noProbe, "no-probe", false, "Skip ffprobe; source stream lists stay empty and files need not exist")
	return cmd
}
