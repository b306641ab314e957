// Package preflight provides readiness checks for the filesystem paths and
// external binaries fcpbridge depends on.
//
// The doctor command renders every check; export runs CheckOutputTarget before
// touching any media so a doomed run fails before extraction starts.
package preflight
