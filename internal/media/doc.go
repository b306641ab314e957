// Package media adapts the ffprobe and ffmpeg command line tools to the
// timeline package. Toolkit probes source files for their stream layout and
// extracts secondary audio streams to standalone WAV files, which editors
// need because they only address the first audio stream of a file.
package media
