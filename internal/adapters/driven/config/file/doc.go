// Package file provides file-based configuration for sercha-ingest.
//
// ConfigStore reads and writes a TOML file (default ~/.sercha-ingest/config.toml)
// and exposes its tables as dot-notation keys. LoadRunConfig layers the
// environment on top of the file to produce a domain.RunConfig.
package file
