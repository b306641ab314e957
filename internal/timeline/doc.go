// Package timeline defines the normalized editing timeline exchanged with the
// automated editing pipeline: a source registry plus ordered video and audio
// tracks of clips measured in timeline frames.
//
// Timelines are built fresh for every conversion. Sources carry the stream
// layout discovered by a Prober so writers can decide how many audio streams
// need to be linked or extracted. The package also reads and writes the
// pipeline's version 3 JSON representation.
package timeline
