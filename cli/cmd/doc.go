// Package cmd implements the stache subcommands: render, fmt, init, and the
// data and partial flags they share.
package cmd

// Names of kong variables set by the cli package.
var (
	// CacheIdentifier holds the path of the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier holds the path of the YAML configuration file.
	ConfigIdentifier = "config"
)
