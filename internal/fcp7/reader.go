package fcp7

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strconv"
	"strings"

	"github.com/beevik/etree"

	"fcpbridge/internal/framerate"
	"fcpbridge/internal/logging"
	"fcpbridge/internal/pathurl"
	"fcpbridge/internal/timeline"
	"fcpbridge/internal/xmlschema"
)

var sequenceSchema = xmlschema.Schema{
	"name":     xmlschema.String(),
	"duration": xmlschema.Int(),
	"rate": xmlschema.Nested(xmlschema.Schema{
		"timebase": xmlschema.Rational(),
		"ntsc":     xmlschema.Bool(),
	}),
	"media": xmlschema.Opaque(),
}

var mediaSchema = xmlschema.Schema{
	"video": xmlschema.Opaque(),
	"audio": xmlschema.Opaque(),
}

var clipItemSchema = xmlschema.Schema{
	"start": xmlschema.Int(),
	"end":   xmlschema.Int(),
	"in":    xmlschema.Int(),
	"out":   xmlschema.Int(),
	"file":  xmlschema.Opaque(),
}

var transitionSchema = xmlschema.Schema{
	"start":     xmlschema.Int(),
	"end":       xmlschema.Int(),
	"alignment": xmlschema.Opaque(),
}

var trackSchema = xmlschema.Schema{
	"clipitem":       xmlschema.Repeated(clipItemSchema),
	"transitionitem": xmlschema.Repeated(transitionSchema),
}

// transitionEdge is the value Premiere writes for a clip edge that falls
// inside a transition.
const transitionEdge = -1

var videoSchema = xmlschema.Schema{
	"format": xmlschema.Nested(xmlschema.Schema{
		"samplecharacteristics": xmlschema.Nested(xmlschema.Schema{
			"width":  xmlschema.Int(),
			"height": xmlschema.Int(),
		}),
	}),
	"track": xmlschema.Repeated(trackSchema),
}

var audioSchema = xmlschema.Schema{
	"format": xmlschema.Nested(xmlschema.Schema{
		"samplecharacteristics": xmlschema.Nested(xmlschema.Schema{
			"samplerate": xmlschema.Int(),
		}),
	}),
	"track": xmlschema.Repeated(trackSchema),
}

var fileSchema = xmlschema.Schema{
	"pathurl": xmlschema.Opaque(),
}

type reader struct {
	prober timeline.Prober
	logger *slog.Logger
	tl     *timeline.Timeline
	byFile map[string]string
}

// Read parses the document at path into a timeline. Each distinct file
// reference is probed once through prober, which may be nil.
func Read(ctx context.Context, path string, prober timeline.Prober, logger *slog.Logger) (*timeline.Timeline, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromFile(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrDocumentNotFound, path)
		}
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return ReadDocument(ctx, doc, prober, logger)
}

// ReadDocument converts an already parsed document.
func ReadDocument(ctx context.Context, doc *etree.Document, prober timeline.Prober, logger *slog.Logger) (*timeline.Timeline, error) {
	r := &reader{
		prober: prober,
		logger: logging.NewComponentLogger(logger, "fcp7.reader"),
		tl: &timeline.Timeline{
			Sources:    map[string]*timeline.Source{},
			SampleRate: timeline.DefaultSampleRate,
			Resolution: timeline.DefaultResolution,
			Background: timeline.DefaultBackground,
		},
		byFile: map[string]string{},
	}

	sequence, err := xmlschema.CheckRoot(doc, "xmeml", "sequence")
	if err != nil {
		return nil, err
	}
	seq, err := xmlschema.Parse(sequence, sequenceSchema)
	if err != nil {
		return nil, err
	}
	rate := seq.Record("rate")
	r.tl.Rate = framerate.FromInterchangeRat(rate.Rat("timebase"), rate.Bool("ntsc"))

	if !seq.Has("media") {
		return nil, xmlschema.Violation(sequence, "missing required element", "<media>", "nothing")
	}
	media, err := xmlschema.Parse(seq.Node("media"), mediaSchema)
	if err != nil {
		return nil, err
	}

	if media.Has("video") {
		if err := r.readVideo(ctx, media.Node("video")); err != nil {
			return nil, err
		}
	}
	if media.Has("audio") {
		if err := r.readAudio(ctx, media.Node("audio")); err != nil {
			return nil, err
		}
	}

	if err := r.tl.Validate(); err != nil {
		return nil, fmt.Errorf("imported timeline: %w", err)
	}

	videoClips, audioClips := r.tl.ClipCount()
	r.logger.Debug("read interchange document",
		slog.String("sequence", seq.String("name")),
		slog.String("rate", framerate.Format(r.tl.Rate)),
		slog.Int("sources", len(r.tl.Sources)),
		slog.Int("video_clips", videoClips),
		slog.Int("audio_clips", audioClips),
	)
	return r.tl, nil
}

func (r *reader) readVideo(ctx context.Context, node *etree.Element) error {
	video, err := xmlschema.Parse(node, videoSchema)
	if err != nil {
		return err
	}
	schar := video.Record("format").Record("samplecharacteristics")
	r.tl.Resolution = timeline.Resolution{
		Width:  int(schar.Int("width")),
		Height: int(schar.Int("height")),
	}

	for _, track := range video.List("track") {
		clips, err := r.track(ctx, track)
		if err != nil {
			return err
		}
		if len(clips) == 0 {
			continue
		}
		out := make([]timeline.VideoClip, 0, len(clips))
		for _, clip := range clips {
			out = append(out, timeline.VideoClip{Clip: clip})
		}
		r.tl.Video = append(r.tl.Video, out)
	}
	return nil
}

func (r *reader) readAudio(ctx context.Context, node *etree.Element) error {
	audio, err := xmlschema.Parse(node, audioSchema)
	if err != nil {
		return err
	}
	r.tl.SampleRate = int(audio.Record("format").Record("samplecharacteristics").Int("samplerate"))

	for _, track := range audio.List("track") {
		clips, err := r.track(ctx, track)
		if err != nil {
			return err
		}
		if len(clips) == 0 {
			continue
		}
		out := make([]timeline.AudioClip, 0, len(clips))
		for _, clip := range clips {
			out = append(out, timeline.AudioClip{Clip: clip, Volume: 1})
		}
		r.tl.Audio = append(r.tl.Audio, out)
	}
	return nil
}

// clipEdges holds a clip item's raw start and end plus the edit points of
// the transitions directly before and after it.
type clipEdges struct {
	item       *xmlschema.Record
	start, end int64
	cutBefore  *int64
	cutAfter   *int64
}

// track reads a track's clip items in document order. Edges Premiere marks
// as -1 are moved to the edit point of the adjacent transition, or to the
// neighbouring clip's boundary when the track has no transition there.
func (r *reader) track(ctx context.Context, track *xmlschema.Record) ([]timeline.Clip, error) {
	items := track.List("clipitem")
	transitions := track.List("transitionitem")
	if len(items) == 0 {
		return nil, nil
	}

	edges := make([]clipEdges, 0, len(items))
	var cut *int64
	nextItem, nextTransition := 0, 0
	for _, child := range track.Element().ChildElements() {
		switch child.Tag {
		case "transitionitem":
			at := editPoint(transitions[nextTransition])
			nextTransition++
			if n := len(edges); n > 0 && edges[n-1].cutAfter == nil {
				edges[n-1].cutAfter = &at
			}
			cut = &at
		case "clipitem":
			item := items[nextItem]
			nextItem++
			edges = append(edges, clipEdges{
				item:      item,
				start:     item.Int("start"),
				end:       item.Int("end"),
				cutBefore: cut,
			})
			cut = nil
		}
	}

	clips := make([]timeline.Clip, 0, len(edges))
	for i, e := range edges {
		start, end := e.start, e.end
		if start == transitionEdge {
			switch {
			case e.cutBefore != nil:
				start = *e.cutBefore
			case i == 0:
				start = 0
			case edges[i-1].end != transitionEdge:
				start = edges[i-1].end
			default:
				return nil, xmlschema.Violation(e.item.Element(), "clip start inside a transition with no edit point", "a transitionitem before the clip", "-1")
			}
		}
		if end == transitionEdge {
			switch {
			case e.cutAfter != nil:
				end = *e.cutAfter
			case i+1 < len(edges) && edges[i+1].start != transitionEdge:
				end = edges[i+1].start
			default:
				return nil, xmlschema.Violation(e.item.Element(), "clip end inside a transition with no edit point", "a transitionitem after the clip", "-1")
			}
		}
		clip, err := r.clip(ctx, e.item, start, end)
		if err != nil {
			return nil, err
		}
		clips = append(clips, clip)
	}
	return clips, nil
}

// editPoint is where the cut sits inside a transition: its start, its end,
// or the midpoint for centred and unspecified alignments.
func editPoint(transition *xmlschema.Record) int64 {
	start, end := transition.Int("start"), transition.Int("end")
	alignment := ""
	if transition.Has("alignment") {
		alignment = strings.ToLower(strings.TrimSpace(transition.Node("alignment").Text()))
	}
	switch alignment {
	case "start", "start-black":
		return start
	case "end", "end-black":
		return end
	default:
		return start + (end-start)/2
	}
}

func (r *reader) clip(ctx context.Context, item *xmlschema.Record, start, end int64) (timeline.Clip, error) {
	if err := ctx.Err(); err != nil {
		return timeline.Clip{}, err
	}
	src, err := r.source(ctx, item)
	if err != nil {
		return timeline.Clip{}, err
	}
	return timeline.Clip{
		Start:  start,
		Dur:    end - start,
		Src:    src,
		Offset: item.Int("in"),
		Speed:  1,
	}, nil
}

// source returns the registry id for the clip item's file, registering the
// file on first sight.
func (r *reader) source(ctx context.Context, item *xmlschema.Record) (string, error) {
	clipNode := item.Element()
	if !item.Has("file") {
		return "", &ReferenceError{
			Path:    clipNode.GetPath(),
			Message: "clipitem has no <file> element",
			Excerpt: xmlschema.Excerpt(clipNode, 2),
		}
	}
	file := item.Node("file")
	fileID := strings.TrimSpace(file.SelectAttrValue("id", ""))
	if fileID == "" {
		return "", xmlschema.Violation(file, "file element has no id attribute", `id="file-N"`, "no id")
	}
	if id, ok := r.byFile[fileID]; ok {
		return id, nil
	}

	fields, err := xmlschema.Parse(file, fileSchema)
	if err != nil {
		return "", err
	}
	if !fields.Has("pathurl") {
		return "", &ReferenceError{
			Path:    file.GetPath(),
			FileID:  fileID,
			Message: "first reference to file has no <pathurl>",
			Excerpt: xmlschema.Excerpt(file, 3),
		}
	}
	local, err := pathurl.ToPath(fields.Node("pathurl").Text())
	if err != nil {
		return "", &ReferenceError{
			Path:    file.GetPath(),
			FileID:  fileID,
			Message: err.Error(),
			Excerpt: xmlschema.Excerpt(file, 3),
		}
	}

	id := strconv.Itoa(len(r.tl.Sources))
	src, err := timeline.NewSource(ctx, r.prober, id, local)
	if err != nil {
		return "", err
	}
	r.tl.Sources[id] = src
	r.byFile[fileID] = id
	r.logger.Debug("registered source",
		slog.String(logging.FieldSource, id),
		slog.String("file_id", fileID),
		slog.String(logging.FieldPath, local),
	)
	return id, nil
}
