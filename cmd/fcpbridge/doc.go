// Package main hosts the fcpbridge CLI entrypoint and command graph.
//
// The Cobra command tree converts timelines to and from Final Cut Pro 7 XML,
// summarizes either format, checks the external media tools, and scaffolds
// configuration. Configuration resolution, logger setup, and the media
// toolkit live in commandContext so subcommands only handle user experience;
// conversion logic belongs in internal/fcp7 and internal/timeline.
package main
