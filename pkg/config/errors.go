package config

import "errors"

var (
	// ErrInvalidConfig wraps every Load and Validate failure caused by the
	// file contents: unparsable YAML, unknown themes or formats, bad colours.
	ErrInvalidConfig = errors.New("config: invalid configuration")

	// ErrMissingRequired is returned instead of ErrInvalidConfig when the
	// only problem is an emptied required setting.
	ErrMissingRequired = errors.New("config: missing required field")
)
