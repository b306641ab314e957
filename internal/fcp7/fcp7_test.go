package fcp7

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/beevik/etree"

	"fcpbridge/internal/pathurl"
	"fcpbridge/internal/timeline"
	"fcpbridge/internal/xmlschema"
)

type fakeProber struct {
	streams timeline.Streams
	calls   map[string]int
}

func newFakeProber(videos, audios int) *fakeProber {
	p := &fakeProber{calls: map[string]int{}}
	for i := 0; i < videos; i++ {
		p.streams.Videos = append(p.streams.Videos, timeline.VideoStream{Index: i, Codec: "h264", Width: 1920, Height: 1080})
	}
	for i := 0; i < audios; i++ {
		p.streams.Audios = append(p.streams.Audios, timeline.AudioStream{Index: videos + i, Codec: "aac", SampleRate: 48000, Channels: 2})
	}
	return p
}

func (p *fakeProber) Probe(_ context.Context, path string) (timeline.Streams, error) {
	p.calls[path]++
	return p.streams, nil
}

type fakeExtractor struct {
	dir   string
	calls []int
}

func (e *fakeExtractor) ExtractAudio(_ context.Context, path string, stream int) (string, error) {
	e.calls = append(e.calls, stream)
	out := filepath.Join(e.dir, fmt.Sprintf("extract-%d.wav", len(e.calls)))
	if err := os.WriteFile(out, []byte(path+"#"+strconv.Itoa(stream)), 0o644); err != nil {
		return "", err
	}
	return out, nil
}

func newSource(t *testing.T, dir, name string, videos, audios int) *timeline.Source {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("media"), 0o644); err != nil {
		t.Fatalf("write media: %v", err)
	}
	src, err := timeline.NewSource(context.Background(), newFakeProber(videos, audios), "0", path)
	if err != nil {
		t.Fatalf("NewSource: %v", err)
	}
	return src
}

func clip(start, dur, offset int64) timeline.Clip {
	return timeline.Clip{Start: start, Dur: dur, Src: "0", Offset: offset, Speed: 1}
}

func readOutput(t *testing.T, path string) *etree.Document {
	t.Helper()
	doc := etree.NewDocument()
	if err := doc.ReadFromFile(path); err != nil {
		t.Fatalf("read output: %v", err)
	}
	return doc
}

func TestWriteReadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	src := newSource(t, dir, "talk.mp4", 1, 1)
	tl := &timeline.Timeline{
		Sources:    map[string]*timeline.Source{"0": src},
		Rate:       big.NewRat(30000, 1001),
		SampleRate: 44100,
		Resolution: timeline.Resolution{Width: 1280, Height: 720},
		Background: timeline.DefaultBackground,
		Video:      [][]timeline.VideoClip{{{Clip: clip(0, 120, 45)}}},
		Audio:      [][]timeline.AudioClip{{{Clip: clip(0, 120, 45), Volume: 1}}},
	}

	output := filepath.Join(dir, "talk.xml")
	report, err := Write(context.Background(), Options{Name: "Talk"}, &fakeExtractor{dir: dir}, output, tl, nil)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if report.VideoClips != 1 || report.AudioClips != 1 || report.Files != 1 {
		t.Fatalf("unexpected report: %+v", report)
	}

	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !strings.HasPrefix(string(data), `<?xml version="1.0" encoding="UTF-8"?>`) {
		t.Fatalf("missing xml declaration: %q", string(data[:60]))
	}
	if !strings.Contains(string(data), "\n\t<sequence>") {
		t.Fatal("expected tab indentation")
	}

	prober := newFakeProber(1, 1)
	got, err := Read(context.Background(), output, prober, nil)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got.Rate.Cmp(tl.Rate) != 0 {
		t.Fatalf("rate = %s, want %s", got.Rate, tl.Rate)
	}
	if got.SampleRate != 44100 || got.Resolution != tl.Resolution {
		t.Fatalf("format mismatch: sr=%d res=%v", got.SampleRate, got.Resolution)
	}
	if len(got.Video) != 1 || len(got.Audio) != 1 {
		t.Fatalf("track counts: video=%d audio=%d", len(got.Video), len(got.Audio))
	}
	v := got.Video[0][0]
	if v.Start != 0 || v.Dur != 120 || v.Offset != 45 || v.Speed != 1 || v.Src != "0" {
		t.Fatalf("video clip mismatch: %+v", v)
	}
	a := got.Audio[0][0]
	if a.Start != 0 || a.Dur != 120 || a.Offset != 45 || a.Volume != 1 || a.Src != "0" {
		t.Fatalf("audio clip mismatch: %+v", a)
	}
	if len(got.Sources) != 1 {
		t.Fatalf("expected one source, got %d", len(got.Sources))
	}
	want, _ := filepath.EvalSymlinks(src.Path)
	if got.Sources["0"].Path != want {
		t.Fatalf("source path = %q, want %q", got.Sources["0"].Path, want)
	}
	if len(prober.calls) != 1 || prober.calls[want] != 1 {
		t.Fatalf("expected a single probe per file, got %v", prober.calls)
	}
}

func TestWriteLinksVideoToMatchingAudio(t *testing.T) {
	const n = 4
	dir := t.TempDir()
	src := newSource(t, dir, "cut.mov", 1, 1)
	tl := &timeline.Timeline{
		Sources:    map[string]*timeline.Source{"0": src},
		Rate:       big.NewRat(30, 1),
		SampleRate: 48000,
		Resolution: timeline.DefaultResolution,
		Video:      [][]timeline.VideoClip{{}},
		Audio:      [][]timeline.AudioClip{{}},
	}
	for j := int64(0); j < n; j++ {
		tl.Video[0] = append(tl.Video[0], timeline.VideoClip{Clip: clip(j*10, 10, j*20)})
		tl.Audio[0] = append(tl.Audio[0], timeline.AudioClip{Clip: clip(j*10, 10, j*20), Volume: 1})
	}

	output := filepath.Join(dir, "cut.xml")
	if _, err := Write(context.Background(), Options{}, nil, output, tl, nil); err != nil {
		t.Fatalf("Write: %v", err)
	}
	doc := readOutput(t, output)

	videoItems := doc.FindElements("//video/track/clipitem")
	if len(videoItems) != n {
		t.Fatalf("expected %d video clip items, got %d", n, len(videoItems))
	}
	for j, item := range videoItems {
		if id := item.SelectAttrValue("id", ""); id != "clipitem-"+strconv.Itoa(j+1) {
			t.Fatalf("video clip %d id = %s", j, id)
		}
		links := item.SelectElements("link")
		if len(links) != 2 {
			t.Fatalf("video clip %d: expected 2 links, got %d", j, len(links))
		}
		self := links[0]
		if self.SelectElement("linkclipref").Text() != item.SelectAttrValue("id", "") || self.SelectElement("mediatype").Text() != "video" {
			t.Fatalf("video clip %d: first link must reference itself", j)
		}
		audio := links[1]
		want := "clipitem-" + strconv.Itoa(n+j+1)
		if got := audio.SelectElement("linkclipref").Text(); got != want {
			t.Fatalf("video clip %d links to %s, want %s", j, got, want)
		}
		if audio.SelectElement("groupindex") == nil || audio.SelectElement("clipindex").Text() != strconv.Itoa(j+1) {
			t.Fatalf("video clip %d: audio link missing group/clip index", j)
		}
	}

	audioItems := doc.FindElements("//audio/track/clipitem")
	for j, item := range audioItems {
		if id := item.SelectAttrValue("id", ""); id != "clipitem-"+strconv.Itoa(n+j+1) {
			t.Fatalf("audio clip %d id = %s", j, id)
		}
		if item.SelectElement("outputchannelindex") == nil {
			t.Fatalf("audio clip %d of a video source needs outputchannelindex", j)
		}
	}

	files := doc.FindElements("//file[pathurl]")
	if len(files) != 1 {
		t.Fatalf("expected the file to be defined once, got %d definitions", len(files))
	}
}

func TestWriteExtractsSecondaryAudioStreams(t *testing.T) {
	dir := t.TempDir()
	src := newSource(t, dir, "interview.mkv", 1, 3)
	tl := &timeline.Timeline{
		Sources:    map[string]*timeline.Source{"0": src},
		Rate:       big.NewRat(25, 1),
		SampleRate: 48000,
		Resolution: timeline.DefaultResolution,
		Video:      [][]timeline.VideoClip{{{Clip: clip(0, 50, 0)}}},
	}
	for stream := 0; stream < 3; stream++ {
		c := clip(0, 50, 0)
		c.Stream = stream
		tl.Audio = append(tl.Audio, []timeline.AudioClip{{Clip: c, Volume: 1}})
	}

	scratch := t.TempDir()
	extractor := &fakeExtractor{dir: scratch}
	output := filepath.Join(dir, "interview.xml")
	report, err := Write(context.Background(), Options{Flavor: pathurl.FlavorResolve}, extractor, output, tl, nil)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if report.ExtractedStreams != 2 || report.Files != 3 {
		t.Fatalf("unexpected report: %+v", report)
	}
	if fmt.Sprint(extractor.calls) != "[1 2]" {
		t.Fatalf("extractor calls = %v", extractor.calls)
	}

	tracksDir := filepath.Join(dir, "interview_tracks")
	for _, name := range []string{"1.wav", "2.wav"} {
		if _, err := os.Stat(filepath.Join(tracksDir, name)); err != nil {
			t.Fatalf("expected %s: %v", name, err)
		}
	}

	doc := readOutput(t, output)
	defs := map[string]string{}
	for _, file := range doc.FindElements("//file[pathurl]") {
		defs[file.SelectAttrValue("id", "")] = file.SelectElement("pathurl").Text()
	}
	if len(defs) != 3 {
		t.Fatalf("expected 3 file definitions, got %v", defs)
	}
	for id, uri := range defs {
		if !strings.HasPrefix(uri, "file:///") {
			t.Fatalf("%s: expected file URI, got %s", id, uri)
		}
	}
	if !strings.HasSuffix(defs["file-2"], "/interview_tracks/1.wav") || !strings.HasSuffix(defs["file-3"], "/interview_tracks/2.wav") {
		t.Fatalf("unexpected extracted stream URIs: %v", defs)
	}

	links := doc.FindElements("//video/track/clipitem/link")
	if len(links) != 4 {
		t.Fatalf("expected self + 3 audio links, got %d", len(links))
	}

	// A second export reuses the existing directory.
	if _, err := Write(context.Background(), Options{}, extractor, output, tl, nil); err != nil {
		t.Fatalf("second Write: %v", err)
	}
}

func TestWriteFilesystemConflict(t *testing.T) {
	dir := t.TempDir()
	src := newSource(t, dir, "show.mkv", 1, 2)
	if err := os.WriteFile(filepath.Join(dir, "show_tracks"), []byte("not a dir"), 0o644); err != nil {
		t.Fatal(err)
	}
	tl := &timeline.Timeline{
		Sources:    map[string]*timeline.Source{"0": src},
		Rate:       big.NewRat(24, 1),
		SampleRate: 48000,
		Resolution: timeline.DefaultResolution,
		Video:      [][]timeline.VideoClip{{{Clip: clip(0, 24, 0)}}},
	}
	output := filepath.Join(dir, "show.xml")
	_, err := Write(context.Background(), Options{}, &fakeExtractor{dir: t.TempDir()}, output, tl, nil)
	if !errors.Is(err, ErrFilesystemConflict) {
		t.Fatalf("expected ErrFilesystemConflict, got %v", err)
	}
	if _, err := os.Stat(output); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("no output expected after failure, stat err=%v", err)
	}
}

func TestWriteVideoTrackLimit(t *testing.T) {
	dir := t.TempDir()
	src := newSource(t, dir, "multi.mp4", 1, 1)
	tl := &timeline.Timeline{
		Sources:    map[string]*timeline.Source{"0": src},
		Rate:       big.NewRat(30, 1),
		SampleRate: 48000,
		Resolution: timeline.DefaultResolution,
		Video: [][]timeline.VideoClip{
			{{Clip: clip(0, 30, 0)}},
			{{Clip: clip(30, 30, 0)}},
		},
	}
	output := filepath.Join(dir, "multi.xml")

	_, err := Write(context.Background(), Options{StrictVideoTracks: true}, nil, output, tl, nil)
	if !errors.Is(err, ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported in strict mode, got %v", err)
	}
	if _, err := os.Stat(output); !errors.Is(err, os.ErrNotExist) {
		t.Fatal("strict failure must not write output")
	}

	report, err := Write(context.Background(), Options{}, nil, output, tl, nil)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if fmt.Sprint(report.DroppedVideoTracks) != "[1]" || report.VideoClips != 1 {
		t.Fatalf("unexpected report: %+v", report)
	}
}

func TestWriteRejectsUnknownSource(t *testing.T) {
	dir := t.TempDir()
	tl := &timeline.Timeline{
		Sources:    map[string]*timeline.Source{},
		Rate:       big.NewRat(30, 1),
		SampleRate: 48000,
		Video:      [][]timeline.VideoClip{{{Clip: clip(0, 30, 0)}}},
	}
	output := filepath.Join(dir, "bad.xml")
	_, err := Write(context.Background(), Options{}, nil, output, tl, nil)
	if !errors.Is(err, ErrUnknownSource) {
		t.Fatalf("expected ErrUnknownSource, got %v", err)
	}
	if _, err := os.Stat(output); !errors.Is(err, os.ErrNotExist) {
		t.Fatal("no output expected")
	}
}

func TestWriteTimeRemap(t *testing.T) {
	dir := t.TempDir()
	src := newSource(t, dir, "fast.mp4", 1, 1)
	c := clip(0, 40, 60)
	c.Speed = 1.5
	tl := &timeline.Timeline{
		Sources:    map[string]*timeline.Source{"0": src},
		Rate:       big.NewRat(30, 1),
		SampleRate: 48000,
		Resolution: timeline.DefaultResolution,
		Video:      [][]timeline.VideoClip{{{Clip: c}}},
	}
	output := filepath.Join(dir, "fast.xml")
	if _, err := Write(context.Background(), Options{}, nil, output, tl, nil); err != nil {
		t.Fatalf("Write: %v", err)
	}
	doc := readOutput(t, output)
	item := doc.FindElement("//video/track/clipitem")
	if item.SelectElement("in").Text() != "40" || item.SelectElement("out").Text() != "80" {
		t.Fatalf("in/out = %s/%s, want 40/80", item.SelectElement("in").Text(), item.SelectElement("out").Text())
	}
	speed := doc.FindElement("//clipitem/filter/effect/parameter[parameterid='speed']/value")
	if speed == nil || speed.Text() != "150" {
		t.Fatalf("expected speed parameter 150, got %v", speed)
	}
}

func TestWriteAudioOnlySource(t *testing.T) {
	dir := t.TempDir()
	src := newSource(t, dir, "voice.wav", 0, 1)
	tl := &timeline.Timeline{
		Sources:    map[string]*timeline.Source{"0": src},
		Rate:       big.NewRat(30, 1),
		SampleRate: 48000,
		Resolution: timeline.DefaultResolution,
		Audio:      [][]timeline.AudioClip{{{Clip: clip(0, 10, 0), Volume: 1}, {Clip: clip(10, 10, 30), Volume: 1}}},
	}
	output := filepath.Join(dir, "voice.xml")
	if _, err := Write(context.Background(), Options{}, nil, output, tl, nil); err != nil {
		t.Fatalf("Write: %v", err)
	}
	doc := readOutput(t, output)
	if doc.FindElement("//video/track") != nil {
		t.Fatal("no video track expected")
	}
	items := doc.FindElements("//audio/track/clipitem")
	if len(items) != 2 || items[0].SelectAttrValue("id", "") != "clipitem-1" {
		t.Fatalf("unexpected audio items")
	}
	if items[0].SelectElement("outputchannelindex") != nil {
		t.Fatal("audio-only source must not carry outputchannelindex")
	}
	if items[0].SelectElement("file").SelectElement("pathurl") == nil || items[1].SelectElement("file").SelectElement("pathurl") != nil {
		t.Fatal("file must be defined on first occurrence only")
	}
}

const readerFixture = `<?xml version="1.0" encoding="UTF-8"?>
<xmeml version="4">
	<sequence>
		<name>Imported</name>
		<duration>90</duration>
		<rate><timebase>24</timebase><ntsc>TRUE</ntsc></rate>
		<media>
			<video>
				<format><samplecharacteristics><width>3840</width><height>2160</height></samplecharacteristics></format>
				<track></track>
				<track>
					<clipitem id="clipitem-1">
						<start>0</start><end>30</end><in>12</in><out>42</out>
						<file id="file-1"><pathurl>file://localhost/media/My%20Clip.mov</pathurl></file>
					</clipitem>
					<clipitem id="clipitem-2">
						<start>30</start><end>90</end><in>100</in><out>160</out>
						<file id="file-1"/>
					</clipitem>
				</track>
			</video>
			<audio>
				<format><samplecharacteristics><samplerate>44100</samplerate></samplecharacteristics></format>
				<track>
					<clipitem id="clipitem-3">
						<start>0</start><end>90</end><in>0</in><out>90</out>
						<file id="file-2"><pathurl>/media/music.wav</pathurl></file>
					</clipitem>
				</track>
			</audio>
		</media>
	</sequence>
</xmeml>
`

func readString(t *testing.T, content string, prober timeline.Prober) (*timeline.Timeline, error) {
	t.Helper()
	doc := etree.NewDocument()
	if err := doc.ReadFromString(content); err != nil {
		t.Fatalf("parse fixture: %v", err)
	}
	return ReadDocument(context.Background(), doc, prober, nil)
}

func TestReadDocument(t *testing.T) {
	prober := newFakeProber(1, 1)
	tl, err := readString(t, readerFixture, prober)
	if err != nil {
		t.Fatalf("ReadDocument: %v", err)
	}
	if tl.Rate.Cmp(big.NewRat(24000, 1001)) != 0 {
		t.Fatalf("rate = %s", tl.Rate)
	}
	if tl.Resolution != (timeline.Resolution{Width: 3840, Height: 2160}) || tl.SampleRate != 44100 {
		t.Fatalf("format mismatch: %v %d", tl.Resolution, tl.SampleRate)
	}
	if tl.Background != "#000" {
		t.Fatalf("background = %q", tl.Background)
	}
	if len(tl.Video) != 1 || len(tl.Video[0]) != 2 {
		t.Fatalf("empty tracks must be skipped and clips kept together: %+v", tl.Video)
	}
	second := tl.Video[0][1]
	if second.Start != 30 || second.Dur != 60 || second.Offset != 100 || second.Src != "0" {
		t.Fatalf("unexpected second clip: %+v", second)
	}
	if tl.Sources["0"].Path != filepath.FromSlash("/media/My Clip.mov") {
		t.Fatalf("source 0 path = %q", tl.Sources["0"].Path)
	}
	if len(tl.Audio) != 1 || tl.Audio[0][0].Src != "1" || tl.Sources["1"].Path != "/media/music.wav" {
		t.Fatalf("unexpected audio import: %+v", tl.Audio)
	}
	if prober.calls["/media/My Clip.mov"] != 1 {
		t.Fatalf("expected one probe for the shared file, got %v", prober.calls)
	}
}

func TestReadDefaultsWithoutSections(t *testing.T) {
	content := `<xmeml version="4"><sequence><name>x</name><duration>0</duration>` +
		`<rate><timebase>30</timebase><ntsc>FALSE</ntsc></rate><media/></sequence></xmeml>`
	tl, err := readString(t, content, nil)
	if err != nil {
		t.Fatalf("ReadDocument: %v", err)
	}
	if tl.Resolution != timeline.DefaultResolution || tl.SampleRate != timeline.DefaultSampleRate {
		t.Fatalf("expected defaults, got %v %d", tl.Resolution, tl.SampleRate)
	}
	if len(tl.Video) != 0 || len(tl.Audio) != 0 {
		t.Fatal("expected no tracks")
	}
	if tl.Rate.Cmp(big.NewRat(30, 1)) != 0 {
		t.Fatalf("rate = %s", tl.Rate)
	}
}

func TestReadErrors(t *testing.T) {
	const head = `<xmeml version="4"><sequence><name>x</name><duration>0</duration>`
	const rate = `<rate><timebase>30</timebase><ntsc>FALSE</ntsc></rate>`
	const videoFormat = `<format><samplecharacteristics><width>1</width><height>1</height></samplecharacteristics></format>`
	item := func(file string) string {
		return head + rate + `<media><video>` + videoFormat +
			`<track><clipitem><start>0</start><end>1</end><in>0</in><out>1</out>` + file +
			`</clipitem></track></video></media></sequence></xmeml>`
	}

	tests := []struct {
		name    string
		content string
		want    error
	}{
		{"wrong root", `<fcpxml><sequence/></fcpxml>`, xmlschema.ErrSchemaViolation},
		{"wrong first child", `<xmeml><project/></xmeml>`, xmlschema.ErrSchemaViolation},
		{"lowercase bool", head + `<rate><timebase>30</timebase><ntsc>true</ntsc></rate><media/></sequence></xmeml>`, xmlschema.ErrSchemaViolation},
		{"missing rate", head + `<media/></sequence></xmeml>`, xmlschema.ErrSchemaViolation},
		{"missing pathurl", item(`<file id="file-1"><name>a</name></file>`), ErrUnresolvableReference},
		{"missing file", item(``), ErrUnresolvableReference},
		{"missing file id", item(`<file><pathurl>/a.mov</pathurl></file>`), xmlschema.ErrSchemaViolation},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := readString(t, tc.content, nil)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestReadResolvesTransitionEdges(t *testing.T) {
	const file = `<file id="file-1"><pathurl>/media/a.mov</pathurl></file>`
	content := `<xmeml version="4"><sequence><name>x</name><duration>100</duration>` +
		`<rate><timebase>30</timebase><ntsc>FALSE</ntsc></rate><media><video>` +
		`<format><samplecharacteristics><width>1</width><height>1</height></samplecharacteristics></format>` +
		`<track>` +
		`<clipitem id="clipitem-1"><start>0</start><end>-1</end><in>0</in><out>50</out>` + file + `</clipitem>` +
		`<transitionitem><start>40</start><end>60</end><alignment>center</alignment></transitionitem>` +
		`<clipitem id="clipitem-2"><start>-1</start><end>100</end><in>200</in><out>250</out><file id="file-1"/></clipitem>` +
		`</track>` +
		`<track>` +
		`<transitionitem><start>0</start><end>10</end><alignment>end-black</alignment></transitionitem>` +
		`<clipitem id="clipitem-3"><start>-1</start><end>40</end><in>5</in><out>35</out><file id="file-1"/></clipitem>` +
		`<clipitem id="clipitem-4"><start>-1</start><end>70</end><in>80</in><out>110</out><file id="file-1"/></clipitem>` +
		`</track>` +
		`</video></media></sequence></xmeml>`

	tl, err := readString(t, content, nil)
	if err != nil {
		t.Fatalf("ReadDocument: %v", err)
	}
	if len(tl.Video) != 2 {
		t.Fatalf("expected 2 video tracks, got %d", len(tl.Video))
	}
	want := [][]timeline.Clip{
		{{Start: 0, Dur: 50, Src: "0", Offset: 0, Speed: 1}, {Start: 50, Dur: 50, Src: "0", Offset: 200, Speed: 1}},
		{{Start: 10, Dur: 30, Src: "0", Offset: 5, Speed: 1}, {Start: 40, Dur: 30, Src: "0", Offset: 80, Speed: 1}},
	}
	for ti, track := range want {
		for ci, expected := range track {
			if got := tl.Video[ti][ci].Clip; got != expected {
				t.Fatalf("track %d clip %d = %+v, want %+v", ti+1, ci+1, got, expected)
			}
		}
	}
}

func TestReadRejectsUnresolvableTransitionEdge(t *testing.T) {
	content := `<xmeml version="4"><sequence><name>x</name><duration>50</duration>` +
		`<rate><timebase>30</timebase><ntsc>FALSE</ntsc></rate><media><video>` +
		`<format><samplecharacteristics><width>1</width><height>1</height></samplecharacteristics></format>` +
		`<track><clipitem id="clipitem-1"><start>0</start><end>-1</end><in>0</in><out>50</out>` +
		`<file id="file-1"><pathurl>/media/a.mov</pathurl></file></clipitem></track>` +
		`</video></media></sequence></xmeml>`

	_, err := readString(t, content, nil)
	var schemaErr *xmlschema.SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("expected schema violation, got %v", err)
	}
	if !strings.Contains(schemaErr.Excerpt, `<clipitem id="clipitem-1">`) {
		t.Fatalf("excerpt should show the clip item, got %q", schemaErr.Excerpt)
	}
}

func TestReadMissingDocument(t *testing.T) {
	_, err := Read(context.Background(), filepath.Join(t.TempDir(), "missing.xml"), nil, nil)
	if !errors.Is(err, ErrDocumentNotFound) {
		t.Fatalf("expected ErrDocumentNotFound, got %v", err)
	}
}
