package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"gopkg.in/yaml.v3"
)

// DefaultRunID is used when a scenario does not set run_id.
const DefaultRunID = "test-run-default"

// DefaultTimeoutMS bounds how long a scenario may wait for lazy chunk loading.
const DefaultTimeoutMS = 2000

// Scenario defines one reporter run against a simulated host.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Bundle is the CUE bundle (file or package directory) describing the host.
	// Relative paths are resolved against the scenario file location.
	Bundle string `yaml:"bundle"`

	// RunID is a fixed run id for deterministic output.
	// If empty, defaults to DefaultRunID.
	RunID string `yaml:"run_id,omitempty"`

	// TimeoutMS bounds the wait for the host. Scenarios that expect the run
	// never to complete should set it low.
	TimeoutMS int `yaml:"timeout_ms,omitempty"`

	// Patches are registered by the extension layer before the host boots.
	Patches []PatchSpec `yaml:"patches,omitempty"`

	// Searches is the recorded lookup history, in call order.
	Searches []SearchSpec `yaml:"searches,omitempty"`

	// Expect describes what the run must report.
	Expect Expect `yaml:"expect"`
}

// PatchSpec is an extension patch.
type PatchSpec struct {
	Owner        string            `yaml:"owner"`
	Find         string            `yaml:"find"`
	Replacements []ReplacementSpec `yaml:"replacements"`
}

// ReplacementSpec is one regexp replacement of a patch.
type ReplacementSpec struct {
	Match   string `yaml:"match"`
	Replace string `yaml:"replace"`
}

// SearchSpec is one recorded lookup.
type SearchSpec struct {
	// Type is the recorded search type (findComponent, waitForStore, ...).
	Type string    `yaml:"type"`
	Args []ArgSpec `yaml:"args,omitempty"`
}

// Expect describes the expected outcome of a run.
type Expect struct {
	// Completes defaults to true. Set false for runs that must hang.
	Completes *bool `yaml:"completes,omitempty"`

	// Fatal is a substring of the expected fatal line. Implies Completes=false.
	Fatal string `yaml:"fatal,omitempty"`

	// UnmatchedPatches lists the owners of unmatched patches, in order.
	UnmatchedPatches []string `yaml:"unmatched_patches,omitempty"`

	// Failures lists the diagnostics of failed lookups, in order.
	Failures []string `yaml:"failures,omitempty"`

	// Lines, if set, must equal the full diagnostic log.
	Lines []string `yaml:"lines,omitempty"`
}

// ShouldComplete reports whether the run is expected to emit the completion
// marker.
func (e Expect) ShouldComplete() bool {
	if e.Fatal != "" {
		return false
	}
	return e.Completes == nil || *e.Completes
}

// Timeout returns the scenario's wait bound in milliseconds.
func (s *Scenario) Timeout() int {
	if s.TimeoutMS > 0 {
		return s.TimeoutMS
	}
	return DefaultTimeoutMS
}

// LoadScenario reads and parses a scenario YAML file.
// The bundle path is resolved relative to the scenario file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	return LoadScenarioWithBasePath(path, filepath.Dir(path))
}

// LoadScenarioWithBasePath reads and parses a scenario YAML file,
// resolving the bundle path relative to basePath.
func LoadScenarioWithBasePath(path, basePath string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict field validation catches typos like "search:" vs "searches:".
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if scenario.Bundle != "" && !filepath.IsAbs(scenario.Bundle) && basePath != "" {
		scenario.Bundle = filepath.Join(basePath, scenario.Bundle)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if s.Bundle == "" {
		return fmt.Errorf("bundle is required")
	}
	if _, err := os.Stat(s.Bundle); os.IsNotExist(err) {
		return &BundleNotFoundError{Scenario: s.Name, Path: s.Bundle}
	}
	if s.TimeoutMS < 0 {
		return fmt.Errorf("timeout_ms must be non-negative")
	}

	for i, p := range s.Patches {
		if p.Owner == "" {
			return fmt.Errorf("patches[%d]: owner is required", i)
		}
		if p.Find == "" {
			return fmt.Errorf("patches[%d]: find is required", i)
		}
		if len(p.Replacements) == 0 {
			return fmt.Errorf("patches[%d]: replacements list is required and must be non-empty", i)
		}
		for j, r := range p.Replacements {
			if _, err := regexp.Compile(r.Match); err != nil {
				return fmt.Errorf("patches[%d].replacements[%d]: %w", i, j, err)
			}
		}
	}

	for i, step := range s.Searches {
		if step.Type == "" {
			return fmt.Errorf("searches[%d]: type is required", i)
		}
		for j, arg := range step.Args {
			if err := arg.validate(); err != nil {
				return fmt.Errorf("searches[%d].args[%d]: %w", i, j, err)
			}
		}
	}

	if s.Expect.Completes != nil && *s.Expect.Completes && s.Expect.Fatal != "" {
		return fmt.Errorf("expect: fatal and completes: true are mutually exclusive")
	}
	return nil
}

// BundleNotFoundError is returned when a scenario references a bundle that
// doesn't exist.
type BundleNotFoundError struct {
	Scenario string
	Path     string
}

// Error implements the error interface.
func (e *BundleNotFoundError) Error() string {
	return fmt.Sprintf("scenario %q references bundle %q which does not exist", e.Scenario, e.Path)
}
