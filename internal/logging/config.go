package logging

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// configSchema validates logging configuration documents. Unknown keys are
// rejected so typos surface instead of being silently ignored.
const configSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "title": "Logging configuration",
  "type": "object",
  "properties": {
    "level": {
      "type": "string",
      "enum": ["debug", "info", "warning", "error", "critical"]
    },
    "format": {
      "type": "string",
      "enum": ["text", "json"]
    },
    "file": {
      "type": "string",
      "minLength": 1
    },
    "color": {
      "type": "boolean"
    }
  },
  "additionalProperties": false
}`

// Config is the content of a logging configuration file.
type Config struct {
	// Level is the minimum level to emit. Defaults to info when empty.
	Level string `json:"level"`

	// Format is "text" or "json". Defaults to text when empty.
	Format string `json:"format"`

	// File redirects output from stderr to the named file (append mode).
	File string `json:"file"`

	// Color overrides the command line color preference when set.
	Color *bool `json:"color"`
}

// LoadConfig reads and validates a logging configuration file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read logging configuration %s: %w", path, err)
	}

	if err := validateConfig(data); err != nil {
		return nil, fmt.Errorf("invalid logging configuration %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("invalid logging configuration %s: %w", path, err)
	}
	if cfg.Level == "" {
		cfg.Level = LevelInfo.String()
	}
	return &cfg, nil
}

func validateConfig(data []byte) error {
	schemaLoader := gojsonschema.NewStringLoader(configSchema)
	documentLoader := gojsonschema.NewBytesLoader(data)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}

	if !result.Valid() {
		var errorMessages []string
		for _, desc := range result.Errors() {
			errorMessages = append(errorMessages, desc.String())
		}
		return fmt.Errorf("schema validation failed:\n  - %s", strings.Join(errorMessages, "\n  - "))
	}

	return nil
}
