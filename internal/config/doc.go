// Package config loads, normalizes, and validates fcpbridge configuration.
//
// It supplies defaults, expands user paths (including tilde shortcuts), reads
// TOML files, and honours environment fallbacks for the ffprobe and ffmpeg
// binaries. Always obtain settings through this package so the CLI receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
