// Package framerate converts between exact rational frame rates and the
// xmeml rate encoding of an integer timebase plus an NTSC flag.
//
// The three broadcast rates 24000/1001, 30000/1001 and 60000/1001 map to
// timebases 24, 30 and 60 with the flag set. Other rates of the form
// n*999/1000 are encoded as (n, true). Everything else is truncated to an
// integer timebase; that truncation is lossy and cannot be undone on read.
package framerate
