package config

import "errors"

// Errors returned while loading a patrol configuration file such as
// patrol.yaml or patrol.json.
var (
	// ErrConfigNotFound means the patrol configuration path does not exist.
	ErrConfigNotFound = errors.New("patrol config: file not found")

	// ErrInvalidFormat means the file is not well-formed YAML or JSON, or
	// names a field patrol does not know.
	ErrInvalidFormat = errors.New("patrol config: malformed document")

	// ErrUnsupportedFormat means the extension is not .yaml, .yml or .json.
	ErrUnsupportedFormat = errors.New("patrol config: unsupported file extension")

	// ErrValidationFailed means the document parsed but holds unusable
	// search, logging, storage or metrics settings.
	ErrValidationFailed = errors.New("patrol config: invalid settings")

	// ErrMissingEnvVar means a ${VAR:?} reference, or any unset reference in
	// strict mode, had no value in the environment.
	ErrMissingEnvVar = errors.New("patrol config: environment variable not set")
)
