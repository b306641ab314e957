package fcp7

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"github.com/gofrs/flock"

	"fcpbridge/internal/fileutil"
	"fcpbridge/internal/framerate"
	"fcpbridge/internal/logging"
	"fcpbridge/internal/pathurl"
	"fcpbridge/internal/timeline"
)

// Extractor materializes one audio stream of a media file as a standalone
// file and returns its path. The caller takes ownership of the file.
type Extractor interface {
	ExtractAudio(ctx context.Context, path string, stream int) (string, error)
}

// Options controls document output.
type Options struct {
	// Name is the sequence name. Defaults to the output file stem.
	Name   string
	Flavor pathurl.Flavor
	// StrictVideoTracks fails with ErrUnsupported instead of dropping video
	// tracks after the first.
	StrictVideoTracks bool
}

// Report summarizes a completed write.
type Report struct {
	Output             string
	VideoClips         int
	AudioClips         int
	Files              int
	ExtractedStreams   int
	DroppedVideoTracks []int
}

type writer struct {
	opts      Options
	extractor Extractor
	tl        *timeline.Timeline
	logger    *slog.Logger

	plan     *plan
	urls     map[fileKey]string
	defined  map[string]bool
	timebase int64
	ntsc     bool
	duration int64
	report   Report
}

// Write converts tl into an interchange document at output. Secondary audio
// streams are extracted through extractor into <stem>_tracks next to each
// source. Nothing is written when the timeline is invalid.
func Write(ctx context.Context, opts Options, extractor Extractor, output string, tl *timeline.Timeline, logger *slog.Logger) (*Report, error) {
	if tl == nil {
		return nil, errors.New("write: nil timeline")
	}
	p, err := newPlan(tl, opts.StrictVideoTracks)
	if err != nil {
		return nil, err
	}
	if info, err := os.Stat(filepath.Dir(output)); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("output directory %s is not usable: %w", filepath.Dir(output), errOrNotDir(err))
	}

	if opts.Name == "" {
		base := filepath.Base(output)
		opts.Name = strings.TrimSuffix(base, filepath.Ext(base))
	}
	if opts.Flavor == "" {
		opts.Flavor = pathurl.FlavorPremiere
	}

	w := &writer{
		opts:      opts,
		extractor: extractor,
		tl:        tl,
		logger:    logging.NewComponentLogger(logger, "fcp7.writer"),
		plan:      p,
		urls:      map[fileKey]string{},
		defined:   map[string]bool{},
		duration:  tl.OutLen(),
	}
	w.timebase, w.ntsc = framerate.ToInterchange(tl.Rate)
	w.report = Report{
		Output:             output,
		Files:              len(p.files),
		DroppedVideoTracks: p.droppedVideo,
	}

	w.warnPlan()
	if err := w.resolveMedia(ctx); err != nil {
		return nil, err
	}

	doc := w.document()
	err = fileutil.WriteFileAtomic(output, 0o644, func(out io.Writer) error {
		_, err := doc.WriteTo(out)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("write %s: %w", output, err)
	}

	w.logger.Info("wrote interchange document",
		slog.String(logging.FieldPath, output),
		slog.String("sequence", opts.Name),
		slog.Int64("timebase", w.timebase),
		slog.Bool("ntsc", w.ntsc),
		slog.Int("video_clips", w.report.VideoClips),
		slog.Int("audio_clips", w.report.AudioClips),
	)
	return &w.report, nil
}

func errOrNotDir(err error) error {
	if err != nil {
		return err
	}
	return fileutil.ErrNotDirectory
}

func (w *writer) warnPlan() {
	for _, t := range w.plan.droppedVideo {
		logging.WarnWithContext(w.logger, "video track not exported", "video_track_dropped",
			slog.Int(logging.FieldTrack, t+1),
			slog.Int("clips", len(w.tl.Video[t])),
			slog.String(logging.FieldImpact, "clips on this track are missing from the document"),
			slog.String(logging.FieldErrorHint, "flatten video tracks before export or enable strict_video_tracks"),
		)
	}
	for _, d := range w.plan.dangling {
		w.logger.Debug("video clip has no matching audio clip to link",
			slog.Int(logging.FieldClip, d.clip+1),
			slog.Int(logging.FieldTrack, d.track),
		)
	}
}

// resolveMedia spells every file the document references and extracts
// secondary audio streams.
func (w *writer) resolveMedia(ctx context.Context) error {
	for _, id := range w.tl.SourceIDs() {
		src := w.tl.Sources[id]
		primary, err := pathurl.Resolve(src.Path, w.opts.Flavor)
		if err != nil {
			return err
		}
		w.urls[fileKey{src: id, stream: 0}] = primary

		if len(src.Audios) > 1 {
			if err := w.extractStreams(ctx, src); err != nil {
				return err
			}
		}
	}
	return nil
}

func (w *writer) extractStreams(ctx context.Context, src *timeline.Source) error {
	if w.extractor == nil {
		return fmt.Errorf("source %s has %d audio streams but no extractor is configured", src.Path, len(src.Audios))
	}
	dir := filepath.Join(filepath.Dir(src.Path), src.Stem()+"_tracks")
	if err := fileutil.EnsureDir(dir); err != nil {
		if errors.Is(err, fileutil.ErrNotDirectory) {
			return fmt.Errorf("%w: %s exists and is not a directory", ErrFilesystemConflict, dir)
		}
		return fmt.Errorf("create %s: %w", dir, err)
	}

	lock := flock.New(filepath.Join(dir, ".lock"))
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("lock %s: %w", dir, err)
	}
	defer func() {
		_ = lock.Unlock()
	}()

	abs, err := filepath.Abs(src.Path)
	if err != nil {
		return err
	}
	for i := 1; i < len(src.Audios); i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		tmp, err := w.extractor.ExtractAudio(ctx, abs, i)
		if err != nil {
			return fmt.Errorf("extract stream %d of %s: %w", i, src.Path, err)
		}
		target := filepath.Join(dir, strconv.Itoa(i)+".wav")
		if err := fileutil.MoveFile(tmp, target); err != nil {
			return fmt.Errorf("move extracted stream to %s: %w", target, err)
		}
		uri, err := pathurl.Resolve(target, w.opts.Flavor)
		if err != nil {
			return err
		}
		w.urls[fileKey{src: src.ID, stream: i}] = uri
		w.report.ExtractedStreams++
		w.logger.Debug("extracted secondary audio stream",
			slog.String(logging.FieldSource, src.ID),
			slog.Int(logging.FieldStream, i),
			slog.String(logging.FieldPath, target),
		)
	}
	return nil
}

func (w *writer) document() *etree.Document {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	xmeml := doc.CreateElement("xmeml")
	xmeml.CreateAttr("version", xmemlVersion)
	sequence := xmeml.CreateElement("sequence")
	textChild(sequence, "name", w.opts.Name)
	intChild(sequence, "duration", w.duration)
	rateElement(sequence, w.timebase, w.ntsc)

	media := sequence.CreateElement("media")
	w.videoSection(media.CreateElement("video"))
	w.audioSection(media.CreateElement("audio"))

	doc.IndentTabs()
	return doc
}

func (w *writer) videoSection(video *etree.Element) {
	format := video.CreateElement("format")
	schar := format.CreateElement("samplecharacteristics")
	rateElement(schar, w.timebase, w.ntsc)
	textChild(schar, "fielddominance", fieldDominance)
	textChild(schar, "colordepth", colorDepth)
	intChild(schar, "width", int64(w.tl.Resolution.Width))
	intChild(schar, "height", int64(w.tl.Resolution.Height))
	textChild(schar, "pixelaspectratio", pixelAspectRatio)

	if len(w.plan.video) == 0 {
		return
	}
	track := video.CreateElement("track")
	for _, pc := range w.plan.video {
		item := w.clipItem(track, pc)
		w.fileElement(item, pc, true)
		if pc.clip.Speed != 1 {
			item.AddChild(timeRemap(pc.clip.Speed * 100))
		}
		for _, l := range pc.links {
			linkElement(item, l)
		}
		w.report.VideoClips++
	}
}

func (w *writer) audioSection(audio *etree.Element) {
	textChild(audio, "numOutputChannels", channelCount)
	format := audio.CreateElement("format")
	audioCharacteristics(format, w.tl.SampleRate)

	for _, clips := range w.plan.audio {
		track := audio.CreateElement("track")
		track.CreateAttr("currentExplodedTrackIndex", "0")
		track.CreateAttr("premiereTrackType", "Stereo")

		for _, pc := range clips {
			item := w.clipItem(track, pc)
			item.CreateAttr("premiereChannelType", "stereo")
			w.fileElement(item, pc, false)

			sourceTrack := item.CreateElement("sourcetrack")
			textChild(sourceTrack, "mediatype", "audio")
			textChild(sourceTrack, "trackindex", "1")
			labels := item.CreateElement("labels")
			textChild(labels, "label2", "Iris")

			if pc.clip.Speed != 1 {
				item.AddChild(timeRemap(pc.clip.Speed * 100))
			}
			if pc.src.HasVideo() {
				textChild(item, "outputchannelindex", "1")
			}
			w.report.AudioClips++
		}
	}
}

func (w *writer) clipItem(track *etree.Element, pc plannedClip) *etree.Element {
	in := pc.clip.SourceIn()
	item := track.CreateElement("clipitem")
	item.CreateAttr("id", pc.id)
	textChild(item, "masterclipid", pc.masterID)
	textChild(item, "name", pc.src.Stem())
	intChild(item, "start", pc.clip.Start)
	intChild(item, "end", pc.clip.End())
	intChild(item, "in", in)
	intChild(item, "out", in+pc.clip.Dur)
	return item
}

// fileElement emits a bare <file id> reference, or the full definition on the
// first occurrence of the id in the document.
func (w *writer) fileElement(item *etree.Element, pc plannedClip, withVideo bool) {
	file := item.CreateElement("file")
	file.CreateAttr("id", pc.fileID)
	if w.defined[pc.fileID] {
		return
	}
	w.defined[pc.fileID] = true

	stream := 0
	if !withVideo {
		stream = pc.clip.Stream
	}
	textChild(file, "name", pc.src.Stem())
	textChild(file, "pathurl", w.urls[fileKey{src: pc.src.ID, stream: stream}])
	rateElement(file, w.timebase, w.ntsc)
	if withVideo {
		intChild(file, "duration", w.duration)
	}

	media := file.CreateElement("media")
	if withVideo {
		video := media.CreateElement("video")
		schar := video.CreateElement("samplecharacteristics")
		rateElement(schar, w.timebase, w.ntsc)
		intChild(schar, "width", int64(w.tl.Resolution.Width))
		intChild(schar, "height", int64(w.tl.Resolution.Height))
		textChild(schar, "anamorphic", anamorphic)
		textChild(schar, "pixelaspectratio", pixelAspectRatio)
	}
	audio := media.CreateElement("audio")
	audioCharacteristics(audio, w.tl.SampleRate)
	textChild(audio, "channelcount", channelCount)
}

func linkElement(item *etree.Element, l link) {
	el := item.CreateElement("link")
	textChild(el, "linkclipref", l.target)
	textChild(el, "mediatype", l.mediaType)
	intChild(el, "trackindex", int64(l.trackIndex))
	intChild(el, "clipindex", int64(l.clipIndex))
	if l.group {
		textChild(el, "groupindex", "1")
	}
}
