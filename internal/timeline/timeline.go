package timeline

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

var (
	// ErrUnknownSource marks a clip that references a source id missing from the registry.
	ErrUnknownSource = errors.New("unknown source")
	// ErrInvalidClip marks a clip with impossible timing values.
	ErrInvalidClip = errors.New("invalid clip")
)

const (
	// DefaultBackground is the background color used when none is specified.
	DefaultBackground = "#000"
	// DefaultSampleRate is used when a document carries no audio format.
	DefaultSampleRate = 48000
)

// DefaultResolution is used when a document carries no video format.
var DefaultResolution = Resolution{Width: 1920, Height: 1080}

// Resolution is a frame size in pixels.
type Resolution struct {
	Width  int
	Height int
}

func (r Resolution) String() string {
	return fmt.Sprintf("%dx%d", r.Width, r.Height)
}

// VideoStream describes one video stream inside a source file.
type VideoStream struct {
	Index  int
	Codec  string
	Width  int
	Height int
}

// AudioStream describes one audio stream inside a source file.
type AudioStream struct {
	Index      int
	Codec      string
	SampleRate int
	Channels   int
}

// Streams is the stream layout reported by a Prober.
type Streams struct {
	Videos []VideoStream
	Audios []AudioStream
}

// Prober inspects a media file and reports its streams.
type Prober interface {
	Probe(ctx context.Context, path string) (Streams, error)
}

// Source is a media file registered once and referenced by clips.
type Source struct {
	ID     string
	Path   string
	Videos []VideoStream
	Audios []AudioStream
}

// NewSource probes path and returns a registered source.
func NewSource(ctx context.Context, prober Prober, id, path string) (*Source, error) {
	src := &Source{ID: id, Path: path}
	if prober == nil {
		return src, nil
	}
	streams, err := prober.Probe(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("probe source %s: %w", path, err)
	}
	src.Videos = streams.Videos
	src.Audios = streams.Audios
	return src, nil
}

// Stem returns the file name without directory or extension.
func (s *Source) Stem() string {
	base := filepath.Base(s.Path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// HasVideo reports whether the source carries at least one video stream.
func (s *Source) HasVideo() bool {
	return len(s.Videos) > 0
}

// Clip is the timing shared by video and audio clips. Start and Dur are in
// timeline frames; Offset is where the clip begins inside the source.
type Clip struct {
	Start  int64
	Dur    int64
	Src    string
	Offset int64
	Speed  float64
	Stream int
}

// End returns the first timeline frame after the clip.
func (c Clip) End() int64 {
	return c.Start + c.Dur
}

// SourceIn returns the offset divided by speed, truncated toward zero.
func (c Clip) SourceIn() int64 {
	if c.Speed == 0 {
		return c.Offset
	}
	return int64(float64(c.Offset) / c.Speed)
}

func (c Clip) validate() error {
	switch {
	case c.Start < 0:
		return fmt.Errorf("%w: negative start %d", ErrInvalidClip, c.Start)
	case c.Dur < 0:
		return fmt.Errorf("%w: negative duration %d", ErrInvalidClip, c.Dur)
	case c.Offset < 0:
		return fmt.Errorf("%w: negative offset %d", ErrInvalidClip, c.Offset)
	case c.Stream < 0:
		return fmt.Errorf("%w: negative stream index %d", ErrInvalidClip, c.Stream)
	case !(c.Speed > 0):
		return fmt.Errorf("%w: speed must be positive, got %v", ErrInvalidClip, c.Speed)
	}
	return nil
}

// VideoClip places a span of a source's video on a track.
type VideoClip struct {
	Clip
}

// AudioClip places a span of a source's audio on a track.
type AudioClip struct {
	Clip
	Volume float64
}

// Timeline is the normalized edit.
type Timeline struct {
	Sources    map[string]*Source
	Rate       *big.Rat
	SampleRate int
	Resolution Resolution
	Background string
	Video      [][]VideoClip
	Audio      [][]AudioClip
}

// OutLen returns the end frame of the last clip on any track.
func (tl *Timeline) OutLen() int64 {
	var out int64
	for _, track := range tl.Video {
		for _, clip := range track {
			out = max(out, clip.End())
		}
	}
	for _, track := range tl.Audio {
		for _, clip := range track {
			out = max(out, clip.End())
		}
	}
	return out
}

// ClipCount returns the number of video and audio clips.
func (tl *Timeline) ClipCount() (video, audio int) {
	for _, track := range tl.Video {
		video += len(track)
	}
	for _, track := range tl.Audio {
		audio += len(track)
	}
	return video, audio
}

// SourceIDs returns registry keys in numeric-aware order so "10" sorts after "9".
func (tl *Timeline) SourceIDs() []string {
	ids := make([]string, 0, len(tl.Sources))
	for id := range tl.Sources {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		a, errA := strconv.Atoi(ids[i])
		b, errB := strconv.Atoi(ids[j])
		switch {
		case errA == nil && errB == nil:
			return a < b
		case errA == nil:
			return true
		case errB == nil:
			return false
		default:
			return ids[i] < ids[j]
		}
	})
	return ids
}

// Source looks up a registered source.
func (tl *Timeline) Source(id string) (*Source, error) {
	src, ok := tl.Sources[id]
	if !ok || src == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSource, id)
	}
	return src, nil
}

// Validate checks that every clip references a registered source and has
// usable timing.
func (tl *Timeline) Validate() error {
	if tl.Rate == nil || tl.Rate.Sign() <= 0 {
		return errors.New("timeline: frame rate must be positive")
	}
	for t, track := range tl.Video {
		for i, clip := range track {
			if err := tl.validateClip(clip.Clip); err != nil {
				return fmt.Errorf("video track %d clip %d: %w", t+1, i+1, err)
			}
		}
	}
	for t, track := range tl.Audio {
		for i, clip := range track {
			if err := tl.validateClip(clip.Clip); err != nil {
				return fmt.Errorf("audio track %d clip %d: %w", t+1, i+1, err)
			}
		}
	}
	return nil
}

func (tl *Timeline) validateClip(clip Clip) error {
	if _, err := tl.Source(clip.Src); err != nil {
		return err
	}
	return clip.validate()
}
