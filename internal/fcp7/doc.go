// Package fcp7 converts between timeline.Timeline and the Final Cut Pro 7 XML
// interchange format (xmeml) read by Premiere Pro and DaVinci Resolve.
//
// Read validates a document against declarative schemas and rebuilds the
// source registry and clip tracks. It does not reconstruct clip speed from
// Time Remap filters or the link graph; both are write-only.
//
// Write works in two passes. The plan pass validates the timeline and assigns
// every clip item, file, and master clip a stable id while building the
// video/audio link graph in memory. The emit pass serializes that plan,
// extracting secondary audio streams to a sibling <stem>_tracks directory
// because editors only address the first audio stream of a file. The document
// is written atomically; a failed conversion leaves no output behind.
package fcp7
