package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	// Path is the dotted path to the invalid field.
	Path string
	// Message describes the validation error.
	Message string
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Path == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

// Error implements the error interface.
func (e ValidationErrors) Error() string {
	switch len(e) {
	case 0:
		return "no validation errors"
	case 1:
		return e[0].Error()
	}
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("%d validation errors:\n  - %s", len(e), strings.Join(msgs, "\n  - "))
}

// HasErrors returns true if there are any validation errors.
func (e ValidationErrors) HasErrors() bool {
	return len(e) > 0
}

// Validator validates patrol configuration.
type Validator struct {
	errors ValidationErrors
}

// NewValidator creates a new validator.
func NewValidator() *Validator {
	return &Validator{}
}

// Validate validates the configuration and returns any errors.
func (v *Validator) Validate(c *PatrolConfig) ValidationErrors {
	v.errors = nil

	if c.Version == "" {
		v.addError("version", "version is required")
	}
	v.validateSearch(c.Search)
	v.validateLogging(c.Logging)
	v.validateStorage(c.Storage)

	return v.errors
}

func (v *Validator) addError(path, message string) {
	v.errors = append(v.errors, ValidationError{Path: path, Message: message})
}

func (v *Validator) validateSearch(s SearchConfig) {
	if s.Workers < 0 {
		v.addError("search.workers", "must be non-negative")
	}
	if s.StepBudgetFactor < 0 {
		v.addError("search.step_budget_factor", "must be non-negative")
	}
	if s.TrialTimeout < 0 {
		v.addError("search.trial_timeout", "must be non-negative")
	}
}

func (v *Validator) validateLogging(l LoggingConfig) {
	switch strings.ToLower(l.Level) {
	case "", "trace", "debug", "info", "warn", "warning", "error":
	default:
		v.addError("logging.level", fmt.Sprintf("unknown level %q", l.Level))
	}
	switch l.Format {
	case "", FormatConsole, FormatJSON:
	default:
		v.addError("logging.format", fmt.Sprintf("must be %s or %s", FormatConsole, FormatJSON))
	}
}

func (v *Validator) validateStorage(s StorageConfig) {
	switch s.Backend {
	case "", BackendMemory:
	case BackendSQLite:
		if s.DSN == "" {
			v.addError("storage.dsn", "required for the sqlite backend")
		}
	case BackendBadger:
		if s.Dir == "" {
			v.addError("storage.dir", "required for the badger backend")
		}
	default:
		v.addError("storage.backend", fmt.Sprintf("unknown backend %q", s.Backend))
	}
}
