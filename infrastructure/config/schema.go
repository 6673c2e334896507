package config

import (
	"encoding/json"
	"fmt"

	domainconfig "github.com/felixgeelhaar/patrol-go/domain/config"
)

// JSONSchema represents a JSON Schema document.
type JSONSchema struct {
	Schema      string                 `json:"$schema,omitempty"`
	ID          string                 `json:"$id,omitempty"`
	Title       string                 `json:"title,omitempty"`
	Description string                 `json:"description,omitempty"`
	Type        string                 `json:"type,omitempty"`
	Properties  map[string]*JSONSchema `json:"properties,omitempty"`
	Required    []string               `json:"required,omitempty"`
	Enum        []string               `json:"enum,omitempty"`
	Default     any                    `json:"default,omitempty"`
	Minimum     *float64               `json:"minimum,omitempty"`
	Pattern     string                 `json:"pattern,omitempty"`
}

// GenerateSchema generates a JSON Schema for PatrolConfig.
func GenerateSchema() *JSONSchema {
	return &JSONSchema{
		Schema:      "https://json-schema.org/draft/2020-12/schema",
		ID:          "https://github.com/felixgeelhaar/patrol-go/patrol-config.schema.json",
		Title:       "Patrol Configuration",
		Description: "Configuration for patrol analyses",
		Type:        "object",
		Required:    []string{"version"},
		Properties: map[string]*JSONSchema{
			"name": {
				Type:        "string",
				Description: "Label stored with every report",
			},
			"version": {
				Type:        "string",
				Description: "The configuration schema version",
				Default:     "1.0",
			},
			"search":  generateSearchSchema(),
			"logging": generateLoggingSchema(),
			"storage": generateStorageSchema(),
			"metrics": {
				Type:        "object",
				Description: "OpenTelemetry metrics",
				Properties: map[string]*JSONSchema{
					"enabled": {Type: "boolean", Default: false},
				},
			},
		},
	}
}

func generateSearchSchema() *JSONSchema {
	return &JSONSchema{
		Type:        "object",
		Description: "Obstruction search tuning",
		Properties: map[string]*JSONSchema{
			"workers": {
				Type:        "integer",
				Description: "Worker pool size (0 = GOMAXPROCS)",
				Default:     0,
				Minimum:     floatPtr(0),
			},
			"step_budget_factor": {
				Type:        "integer",
				Description: "Step budget is factor*4*area+1",
				Default:     2,
				Minimum:     floatPtr(0),
			},
			"trial_timeout": {
				Type:        "string",
				Description: "Per-trial timeout such as 5s (0s = none)",
				Pattern:     `^([0-9]+(\.[0-9]+)?(ns|us|µs|ms|s|m|h))+$`,
			},
		},
	}
}

func generateLoggingSchema() *JSONSchema {
	return &JSONSchema{
		Type:        "object",
		Description: "Process logger",
		Properties: map[string]*JSONSchema{
			"level": {
				Type:    "string",
				Enum:    []string{"trace", "debug", "info", "warn", "error"},
				Default: "info",
			},
			"format": {
				Type:    "string",
				Enum:    []string{domainconfig.FormatConsole, domainconfig.FormatJSON},
				Default: domainconfig.FormatConsole,
			},
		},
	}
}

func generateStorageSchema() *JSONSchema {
	return &JSONSchema{
		Type:        "object",
		Description: "Report storage",
		Properties: map[string]*JSONSchema{
			"backend": {
				Type:    "string",
				Enum:    []string{domainconfig.BackendMemory, domainconfig.BackendSQLite, domainconfig.BackendBadger},
				Default: domainconfig.BackendMemory,
			},
			"dsn": {
				Type:        "string",
				Description: "SQLite data source name",
			},
			"dir": {
				Type:        "string",
				Description: "BadgerDB data directory",
			},
		},
	}
}

func floatPtr(f float64) *float64 {
	return &f
}

// SchemaJSON returns the schema as indented JSON.
func SchemaJSON() (string, error) {
	data, err := json.MarshalIndent(GenerateSchema(), "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal schema: %w", err)
	}
	return string(data), nil
}
