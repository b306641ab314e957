package main

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"fcpbridge/internal/fcp7"
	"fcpbridge/internal/framerate"
	"fcpbridge/internal/media"
	"fcpbridge/internal/timeline"
	"fcpbridge/internal/xmlschema"
)

type trackSummary struct {
	Kind  string `json:"kind"`
	Index int    `json:"index"`
	Clips int    `json:"clips"`
	Start int64  `json:"start"`
	End   int64  `json:"end"`
}

type sourceSummary struct {
	ID     string   `json:"id"`
	Path   string   `json:"path"`
	Videos []string `json:"videos"`
	Audios []string `json:"audios"`
}

type timelineSummary struct {
	Rate       string          `json:"rate"`
	Timebase   int64           `json:"timebase"`
	NTSC       bool            `json:"ntsc"`
	Resolution string          `json:"resolution"`
	SampleRate int             `json:"samplerate"`
	Duration   int64           `json:"duration"`
	Sources    []sourceSummary `json:"sources"`
	Tracks     []trackSummary  `json:"tracks"`
}

func newInspectCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool
	var noProbe bool

	cmd := &cobra.Command{
		Use:   "inspect <timeline.json|document.xml>",
		Short: "Summarize a timeline or Final Cut Pro 7 XML document",
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

			var tl *timeline.Timeline
			if strings.EqualFold(filepath.Ext(args[0]), ".xml") {
				tl, err = fcp7.Read(cmd.Context(), args[0], prober, logger)
			} else {
				tl, err = timeline.ReadJSONFile(cmd.Context(), args[0], prober)
			}
			if err != nil {
				return err
			}

			summary := summarizeTimeline(tl)
			if asJSON {
				return writeJSON(cmd, summary)
			}
			fmt.Fprint(cmd.OutOrStdout(), renderSummary(summary))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON instead of tables")
	cmd.Flags().BoolVar(&noProbe, "no-probe", false, "Skip ffprobe (source files need not exist)")
	return cmd
}

func summarizeTimeline(tl *timeline.Timeline) timelineSummary {
	timebase, ntsc := framerate.ToInterchange(tl.Rate)
	summary := timelineSummary{
		Rate:       framerate.Format(tl.Rate),
		Timebase:   timebase,
		NTSC:       ntsc,
		Resolution: tl.Resolution.String(),
		SampleRate: tl.SampleRate,
		Duration:   tl.OutLen(),
	}

	for _, id := range tl.SourceIDs() {
		src := tl.Sources[id]
		s := sourceSummary{ID: id, Path: src.Path, Videos: []string{}, Audios: []string{}}
		for _, v := range src.Videos {
			s.Videos = append(s.Videos, media.DescribeVideo(v))
		}
		for _, a := range src.Audios {
			s.Audios = append(s.Audios, media.DescribeAudio(a))
		}
		summary.Sources = append(summary.Sources, s)
	}

	for i, track := range tl.Video {
		clips := make([]timeline.Clip, 0, len(track))
		for _, c := range track {
			clips = append(clips, c.Clip)
		}
		summary.Tracks = append(summary.Tracks, summarizeTrack("video", i+1, clips))
	}
	for i, track := range tl.Audio {
		clips := make([]timeline.Clip, 0, len(track))
		for _, c := range track {
			clips = append(clips, c.Clip)
		}
		summary.Tracks = append(summary.Tracks, summarizeTrack("audio", i+1, clips))
	}
	return summary
}

func summarizeTrack(kind string, index int, clips []timeline.Clip) trackSummary {
	ts := trackSummary{Kind: kind, Index: index, Clips: len(clips)}
	for i, c := range clips {
		if i == 0 || c.Start < ts.Start {
			ts.Start = c.Start
		}
		ts.End = max(ts.End, c.End())
	}
	return ts
}

func renderSummary(summary timelineSummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Rate:        %s (timebase %d, ntsc %s)\n", summary.Rate, summary.Timebase, xmlschema.FormatBool(summary.NTSC))
	fmt.Fprintf(&b, "Resolution:  %s\n", summary.Resolution)
	fmt.Fprintf(&b, "Sample rate: %d\n", summary.SampleRate)
	fmt.Fprintf(&b, "Duration:    %d frames\n\n", summary.Duration)

	title := cases.Title(language.English)
	trackRows := make([][]string, 0, len(summary.Tracks))
	for _, t := range summary.Tracks {
		trackRows = append(trackRows, []string{
			title.String(t.Kind) + " " + strconv.Itoa(t.Index),
			strconv.Itoa(t.Clips),
			strconv.FormatInt(t.Start, 10),
			strconv.FormatInt(t.End, 10),
		})
	}
	b.WriteString(renderTable(
		[]string{"Track", "Clips", "Start", "End"},
		trackRows,
		[]columnAlignment{alignLeft, alignRight, alignRight, alignRight},
	))
	b.WriteString("\n\n")

	sourceRows := make([][]string, 0, len(summary.Sources))
	for _, s := range summary.Sources {
		streams := append(append([]string{}, s.Videos...), s.Audios...)
		sourceRows = append(sourceRows, []string{s.ID, s.Path, strings.Join(streams, "\n")})
	}
	b.WriteString(renderTable(
		[]string{"ID", "Path", "Streams"},
		sourceRows,
		[]columnAlignment{alignRight, alignLeft, alignLeft},
	))
	b.WriteString("\n")
	return b.String()
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
