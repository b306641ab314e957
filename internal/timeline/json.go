package timeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/big"
	"os"
	"strconv"
	"strings"

	"fcpbridge/internal/framerate"
)

var (
	// ErrUnsupported marks timeline content this package cannot represent.
	ErrUnsupported = errors.New("unsupported timeline content")
	// ErrMediaNotFound marks a source path that does not exist on disk.
	ErrMediaNotFound = errors.New("media file not found")
)

type jsonDocument struct {
	Version  string        `json:"version"`
	Timeline *jsonTimeline `json:"timeline"`
}

type jsonTimeline struct {
	Sources    map[string]string `json:"sources"`
	Background string            `json:"background"`
	Timebase   jsonRate          `json:"timebase"`
	Resolution []int             `json:"resolution"`
	SampleRate int               `json:"samplerate"`
	V          [][]jsonObject    `json:"v"`
	A          [][]jsonObject    `json:"a"`
}

type jsonObject struct {
	Name   string   `json:"name"`
	Start  *int64   `json:"start"`
	Dur    *int64   `json:"dur"`
	Src    *string  `json:"src"`
	Offset *int64   `json:"offset,omitempty"`
	Speed  *float64 `json:"speed,omitempty"`
	Volume *float64 `json:"volume,omitempty"`
	Stream *int     `json:"stream,omitempty"`
}

// jsonRate accepts "30000/1001", "29.97" or a bare number.
type jsonRate struct {
	rat *big.Rat
}

func (r *jsonRate) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err != nil {
		var number json.Number
		if err := json.Unmarshal(data, &number); err != nil {
			return fmt.Errorf("timebase: %w", err)
		}
		text = number.String()
	}
	rate, err := framerate.Parse(text)
	if err != nil {
		return err
	}
	r.rat = rate
	return nil
}

func (r jsonRate) MarshalJSON() ([]byte, error) {
	if r.rat == nil {
		return []byte("null"), nil
	}
	return json.Marshal(framerate.Format(r.rat))
}

// ReadJSONFile loads a version 3 timeline from path.
func ReadJSONFile(ctx context.Context, path string, prober Prober) (*Timeline, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open timeline: %w", err)
	}
	defer file.Close()
	return ReadJSON(ctx, file, prober)
}

// ReadJSON decodes a version 3 timeline. Every source path must exist; each
// source is probed once.
func ReadJSON(ctx context.Context, r io.Reader, prober Prober) (*Timeline, error) {
	var doc jsonDocument
	decoder := json.NewDecoder(r)
	decoder.UseNumber()
	if err := decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("parse timeline json: %w", err)
	}
	if strings.TrimSpace(doc.Version) == "" {
		return nil, errors.New("timeline json: 'version' attribute not found")
	}
	major, minor, err := parseVersion(doc.Version)
	if err != nil {
		return nil, err
	}
	if major != 3 || minor != 0 {
		return nil, fmt.Errorf("%w: importing version %s timelines is not supported", ErrUnsupported, doc.Version)
	}
	if doc.Timeline == nil {
		return nil, errors.New("timeline json: 'timeline' attribute not found")
	}
	raw := doc.Timeline
	if raw.Timebase.rat == nil {
		return nil, errors.New("timeline json: 'timebase' attribute not found")
	}
	if len(raw.Resolution) != 2 || raw.Resolution[0] <= 0 || raw.Resolution[1] <= 0 {
		return nil, fmt.Errorf("timeline json: resolution must be [width, height], got %v", raw.Resolution)
	}
	if raw.SampleRate <= 0 {
		return nil, fmt.Errorf("timeline json: samplerate must be positive, got %d", raw.SampleRate)
	}

	tl := &Timeline{
		Sources:    make(map[string]*Source, len(raw.Sources)),
		Rate:       raw.Timebase.rat,
		SampleRate: raw.SampleRate,
		Resolution: Resolution{Width: raw.Resolution[0], Height: raw.Resolution[1]},
		Background: raw.Background,
	}
	if tl.Background == "" {
		tl.Background = DefaultBackground
	}

	for id, path := range raw.Sources {
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			return nil, fmt.Errorf("%w: could not locate media file %q", ErrMediaNotFound, path)
		}
		src, err := NewSource(ctx, prober, id, path)
		if err != nil {
			return nil, err
		}
		tl.Sources[id] = src
	}

	for t, layer := range raw.V {
		if len(layer) == 0 {
			continue
		}
		track := make([]VideoClip, 0, len(layer))
		for i, obj := range layer {
			if obj.Name != "video" {
				return nil, objectError("video", t, i, obj.Name)
			}
			clip, err := obj.clip()
			if err != nil {
				return nil, fmt.Errorf("video track %d object %d: %w", t+1, i+1, err)
			}
			track = append(track, VideoClip{Clip: clip})
		}
		tl.Video = append(tl.Video, track)
	}

	for t, layer := range raw.A {
		if len(layer) == 0 {
			continue
		}
		track := make([]AudioClip, 0, len(layer))
		for i, obj := range layer {
			if obj.Name != "audio" {
				return nil, objectError("audio", t, i, obj.Name)
			}
			clip, err := obj.clip()
			if err != nil {
				return nil, fmt.Errorf("audio track %d object %d: %w", t+1, i+1, err)
			}
			volume := 1.0
			if obj.Volume != nil {
				volume = *obj.Volume
			}
			if volume < 0 || volume > 1 {
				return nil, fmt.Errorf("audio track %d object %d: %w: volume must be between 0 and 1, got %v", t+1, i+1, ErrInvalidClip, volume)
			}
			track = append(track, AudioClip{Clip: clip, Volume: volume})
		}
		tl.Audio = append(tl.Audio, track)
	}

	if err := tl.Validate(); err != nil {
		return nil, err
	}
	return tl, nil
}

func objectError(kind string, track, index int, name string) error {
	if name == "" {
		return fmt.Errorf("%s track %d object %d: name not specified", kind, track+1, index+1)
	}
	return fmt.Errorf("%w: %s track %d object %d: unknown object %q", ErrUnsupported, kind, track+1, index+1, name)
}

func (o jsonObject) clip() (Clip, error) {
	if o.Start == nil {
		return Clip{}, errors.New("'start' attribute not found")
	}
	if o.Dur == nil {
		return Clip{}, errors.New("'dur' attribute not found")
	}
	if o.Src == nil {
		return Clip{}, errors.New("'src' attribute not found")
	}
	clip := Clip{Start: *o.Start, Dur: *o.Dur, Src: *o.Src, Speed: 1}
	if o.Offset != nil {
		clip.Offset = *o.Offset
	}
	if o.Speed != nil {
		clip.Speed = *o.Speed
	}
	if o.Stream != nil {
		clip.Stream = *o.Stream
	}
	return clip, nil
}

// parseVersion accepts "3", "3.0", "3.0.1" and an "unstable:" prefix.
func parseVersion(value string) (int, int, error) {
	value = strings.TrimPrefix(strings.TrimSpace(value), "unstable:")
	parts := strings.Split(value, ".")
	if len(parts) > 3 {
		return 0, 0, fmt.Errorf("version string %q: too many separators", value)
	}
	nums := make([]int, 2)
	for i := 0; i < len(parts) && i < 2; i++ {
		n, err := strconv.Atoi(parts[i])
		if err != nil {
			return 0, 0, fmt.Errorf("version string %q: could not convert to int", value)
		}
		nums[i] = n
	}
	if len(parts) == 3 {
		if _, err := strconv.Atoi(parts[2]); err != nil {
			return 0, 0, fmt.Errorf("version string %q: could not convert to int", value)
		}
	}
	return nums[0], nums[1], nil
}

// WriteJSON encodes tl as a version 3 timeline.
func WriteJSON(w io.Writer, tl *Timeline) error {
	raw := jsonTimeline{
		Sources:    make(map[string]string, len(tl.Sources)),
		Background: tl.Background,
		Timebase:   jsonRate{rat: tl.Rate},
		Resolution: []int{tl.Resolution.Width, tl.Resolution.Height},
		SampleRate: tl.SampleRate,
		V:          make([][]jsonObject, 0, len(tl.Video)),
		A:          make([][]jsonObject, 0, len(tl.Audio)),
	}
	for id, src := range tl.Sources {
		raw.Sources[id] = src.Path
	}
	for _, track := range tl.Video {
		layer := make([]jsonObject, 0, len(track))
		for _, clip := range track {
			layer = append(layer, newJSONObject("video", clip.Clip, nil))
		}
		raw.V = append(raw.V, layer)
	}
	for _, track := range tl.Audio {
		layer := make([]jsonObject, 0, len(track))
		for _, clip := range track {
			volume := clip.Volume
			layer = append(layer, newJSONObject("audio", clip.Clip, &volume))
		}
		raw.A = append(raw.A, layer)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(jsonDocument{Version: "3", Timeline: &raw})
}

func newJSONObject(name string, clip Clip, volume *float64) jsonObject {
	start, dur, offset := clip.Start, clip.Dur, clip.Offset
	src := clip.Src
	speed := clip.Speed
	stream := clip.Stream
	return jsonObject{
		Name:   name,
		Start:  &start,
		Dur:    &dur,
		Src:    &src,
		Offset: &offset,
		Speed:  &speed,
		Volume: volume,
		Stream: &stream,
	}
}
