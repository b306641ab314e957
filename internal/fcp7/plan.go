package fcp7

import (
	"fmt"
	"strconv"

	"fcpbridge/internal/timeline"
)

// fileKey addresses one playable file: the source's primary file (stream 0)
// or an extracted secondary audio stream.
type fileKey struct {
	src    string
	stream int
}

type link struct {
	target     string
	mediaType  string
	trackIndex int
	clipIndex  int
	group      bool
}

type plannedClip struct {
	id       string
	fileID   string
	masterID string
	clip     timeline.Clip
	src      *timeline.Source
	links    []link
}

// danglingLink records a link the video clip would carry if the audio track
// had a matching clip.
type danglingLink struct {
	clip  int
	track int
}

type plan struct {
	video   []plannedClip
	audio   [][]plannedClip
	files   map[fileKey]string
	masters map[string]string

	droppedVideo []int
	dangling     []danglingLink
}

type planner struct {
	tl      *timeline.Timeline
	plan    *plan
	nextID  int
	nextFID int
	nextMID int
}

// newPlan validates tl and assigns ids in document order: the first video
// track's clips, then each audio track in turn.
func newPlan(tl *timeline.Timeline, strictVideo bool) (*plan, error) {
	if err := tl.Validate(); err != nil {
		return nil, err
	}

	p := &planner{
		tl: tl,
		plan: &plan{
			files:   map[fileKey]string{},
			masters: map[string]string{},
		},
	}

	for t := 1; t < len(tl.Video); t++ {
		if len(tl.Video[t]) == 0 {
			continue
		}
		if strictVideo {
			return nil, fmt.Errorf("%w: video track %d has %d clips but only the first video track can be exported", ErrUnsupported, t+1, len(tl.Video[t]))
		}
		p.plan.droppedVideo = append(p.plan.droppedVideo, t)
	}

	if len(tl.Video) > 0 {
		for _, clip := range tl.Video[0] {
			planned, err := p.place(clip.Clip, 0)
			if err != nil {
				return nil, err
			}
			p.plan.video = append(p.plan.video, planned)
		}
	}

	p.plan.audio = make([][]plannedClip, len(tl.Audio))
	for t, track := range tl.Audio {
		for _, clip := range track {
			planned, err := p.place(clip.Clip, clip.Stream)
			if err != nil {
				return nil, fmt.Errorf("audio track %d: %w", t+1, err)
			}
			p.plan.audio[t] = append(p.plan.audio[t], planned)
		}
	}

	p.link()
	return p.plan, nil
}

func (p *planner) place(clip timeline.Clip, stream int) (plannedClip, error) {
	src := p.tl.Sources[clip.Src]
	if stream > 0 && stream >= len(src.Audios) {
		return plannedClip{}, fmt.Errorf("%w: source %s has %d audio streams, clip uses stream %d", timeline.ErrInvalidClip, src.ID, len(src.Audios), stream)
	}

	p.nextID++
	key := fileKey{src: clip.Src, stream: stream}
	fid, ok := p.plan.files[key]
	if !ok {
		p.nextFID++
		fid = "file-" + strconv.Itoa(p.nextFID)
		p.plan.files[key] = fid
	}
	mid, ok := p.plan.masters[clip.Src]
	if !ok {
		p.nextMID++
		mid = "masterclip-" + strconv.Itoa(p.nextMID)
		p.plan.masters[clip.Src] = mid
	}

	return plannedClip{
		id:       "clipitem-" + strconv.Itoa(p.nextID),
		fileID:   fid,
		masterID: mid,
		clip:     clip,
		src:      src,
	}, nil
}

// link connects video clip j to itself and to clip j of audio tracks
// 1..len(src.Audios), one per audio stream of its source.
func (p *planner) link() {
	for j := range p.plan.video {
		vc := &p.plan.video[j]
		vc.links = append(vc.links, link{
			target:     vc.id,
			mediaType:  "video",
			trackIndex: 1,
			clipIndex:  j + 1,
		})
		for i := 1; i <= len(vc.src.Audios); i++ {
			if i > len(p.plan.audio) || j >= len(p.plan.audio[i-1]) || p.plan.audio[i-1][j].clip.Src != vc.clip.Src {
				p.plan.dangling = append(p.plan.dangling, danglingLink{clip: j, track: i})
				continue
			}
			vc.links = append(vc.links, link{
				target:     p.plan.audio[i-1][j].id,
				mediaType:  "audio",
				trackIndex: i,
				clipIndex:  j + 1,
				group:      true,
			})
		}
	}
}
