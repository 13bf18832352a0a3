// Package cli implements the command-line interface for espn-lines.
//
// The cli package provides the Cobra-based root command. It resolves the league and
// schedule date (from flags or interactive prompts), loads configuration, builds the
// fetcher and sink, runs the pipeline and reports the extracted games as text or JSON.
package cli
