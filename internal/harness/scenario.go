package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Scenario defines an encoding conformance scenario.
// Scenarios load a program, encode it with the given flags, and assert
// on the resulting backend text.
type Scenario struct {
	// Name uniquely identifies this scenario. It doubles as the golden
	// file name.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Program is the path to the CUE program file, relative to the
	// scenario file location.
	Program string `yaml:"program"`

	// PreambleOnly drops methods from the encoded output.
	PreambleOnly bool `yaml:"preamble_only,omitempty"`

	// Simplify runs the backend simplifier over encoded expressions.
	Simplify bool `yaml:"simplify,omitempty"`

	// Assertions validate the encoded text.
	Assertions []Assertion `yaml:"assertions,omitempty"`

	// dir is the scenario file's directory, for resolving Program.
	dir string
}

// Assertion validates the encoded text.
type Assertion struct {
	// Type specifies the assertion type:
	// - "contains": encoded text contains Text
	// - "not_contains": encoded text does not contain Text
	// - "fingerprint": program fingerprint equals Value
	Type string `yaml:"type"`

	// Text is the substring checked by contains/not_contains.
	Text string `yaml:"text,omitempty"`

	// Value is the expected value for fingerprint assertions.
	Value string `yaml:"value,omitempty"`
}

// Assertion type constants.
const (
	AssertContains    = "contains"
	AssertNotContains = "not_contains"
	AssertFingerprint = "fingerprint"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed, contains
// unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // catches typos like "assertion:" vs "assertions:"
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if scenario.Name == "" {
		return nil, fmt.Errorf("scenario name is required")
	}
	if scenario.Program == "" {
		return nil, fmt.Errorf("scenario program is required")
	}
	for i, a := range scenario.Assertions {
		switch a.Type {
		case AssertContains, AssertNotContains:
			if a.Text == "" {
				return nil, fmt.Errorf("assertion %d: text is required", i)
			}
		case AssertFingerprint:
			if a.Value == "" {
				return nil, fmt.Errorf("assertion %d: value is required", i)
			}
		default:
			return nil, fmt.Errorf("assertion %d: unknown type %q", i, a.Type)
		}
	}

	scenario.dir = filepath.Dir(path)
	return &scenario, nil
}

// ProgramPath resolves the program file relative to the scenario file.
func (s *Scenario) ProgramPath() string {
	if filepath.IsAbs(s.Program) || s.dir == "" {
		return s.Program
	}
	return filepath.Join(s.dir, s.Program)
}
