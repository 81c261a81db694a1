package config

import "errors"

// Sentinel errors for config file handling and output-dir validation.

var (
	// ErrInvalidKey indicates a config key that cannot be stored in the
	// key=value file format.
	ErrInvalidKey = errors.New("invalid config key")

	// ErrInvalidSyntax indicates a config file line that is not a
	// key=value pair.
	ErrInvalidSyntax = errors.New("invalid config syntax")

	// ErrNotDirectory indicates the output-dir path exists but is a file.
	ErrNotDirectory = errors.New("path is not a directory")

	// ErrNotWritable indicates the output-dir exists but rejects writes.
	ErrNotWritable = errors.New("directory is not writable")
)
