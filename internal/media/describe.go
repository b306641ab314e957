package media

import (
	"strconv"
	"strings"

	"fcpbridge/internal/timeline"
)

// DescribeVideo renders a compact summary such as "h264 | 1920x1080".
func DescribeVideo(stream timeline.VideoStream) string {
	parts := make([]string, 0, 2)
	if codec := strings.TrimSpace(stream.Codec); codec != "" {
		parts = append(parts, codec)
	}
	if stream.Width > 0 && stream.Height > 0 {
		parts = append(parts, strconv.Itoa(stream.Width)+"x"+strconv.Itoa(stream.Height))
	}
	if len(parts) == 0 {
		return "video"
	}
	return strings.Join(parts, " | ")
}

// DescribeAudio renders a compact summary such as "aac | 2ch | 48000Hz".
func DescribeAudio(stream timeline.AudioStream) string {
	parts := make([]string, 0, 3)
	if codec := strings.TrimSpace(stream.Codec); codec != "" {
		parts = append(parts, codec)
	}
	if stream.Channels > 0 {
		parts = append(parts, strconv.Itoa(stream.Channels)+"ch")
	}
	if stream.SampleRate > 0 {
		parts = append(parts, strconv.Itoa(stream.SampleRate)+"Hz")
	}
	if len(parts) == 0 {
		return "audio"
	}
	return strings.Join(parts, " | ")
}
