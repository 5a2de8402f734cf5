package rules

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format is the encoding of a rules file.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatFromPath picks the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("unsupported rules file type %q", filepath.Ext(path))
	}
}

// LoadError reports a rule that could not be loaded.
type LoadError struct {
	Index int
	Name  string
	Err   error
}

func (e *LoadError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("rule %d (%s): %v", e.Index, e.Name, e.Err)
	}
	return fmt.Sprintf("rule %d: %v", e.Index, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// document is the keyed form of a rules file. TOML always uses it; JSON and
// YAML also accept a bare list of rules.
type document struct {
	Rules []*Rule `json:"Rules" yaml:"rules" toml:"rules"`
}

// Parse decodes and validates a list of rules.
//
// JSON is the format of existing rule files: a list of objects with
// PascalCase keys, where enumerations may be names or ordinals. YAML and
// TOML use snake_case keys and names only. TOML files hold the rules in a
// [[rules]] array.
func Parse(data []byte, format Format) (*Set, error) {
	var list []*Rule

	switch format {
	case FormatJSON:
		trimmed := bytes.TrimSpace(data)
		if len(trimmed) > 0 && trimmed[0] == '{' {
			var doc document
			if err := json.Unmarshal(trimmed, &doc); err != nil {
				return nil, fmt.Errorf("decode json rules: %w", err)
			}
			list = doc.Rules
		} else if err := json.Unmarshal(trimmed, &list); err != nil {
			return nil, fmt.Errorf("decode json rules: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &list); err != nil {
			var doc document
			if docErr := yaml.Unmarshal(data, &doc); docErr != nil {
				return nil, fmt.Errorf("decode yaml rules: %w", err)
			}
			list = doc.Rules
		}
	case FormatTOML:
		var doc document
		if err := toml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("decode toml rules: %w", err)
		}
		list = doc.Rules
	default:
		return nil, fmt.Errorf("unsupported rules format %q", format)
	}

	return NewSet(list...)
}

// LoadFile reads a rules file, choosing the decoder from its extension.
func LoadFile(path string) (*Set, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules: %w", err)
	}
	set, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return set, nil
}

//go:embed default_rules.json
var defaultRules []byte

// Default returns the built-in rule set used when no rules file is given.
func Default() (*Set, error) {
	return Parse(defaultRules, FormatJSON)
}

// Encode writes the rules of s in the given format.
func (s *Set) Encode(format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		return json.MarshalIndent(s.rules, "", "  ")
	case FormatYAML:
		return yaml.Marshal(s.rules)
	case FormatTOML:
		return toml.Marshal(document{Rules: s.rules})
	default:
		return nil, fmt.Errorf("unsupported rules format %q", format)
	}
}
