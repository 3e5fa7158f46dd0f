package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/extremecraft/internal/inventory"
	"github.com/roach88/extremecraft/internal/item"
	"github.com/roach88/extremecraft/internal/recipe"
)

// Scenario defines a crafting scenario.
// A scenario loads a datapack, optionally attaches transformers to some
// of its recipes, then crafts a sequence of grids and checks each result.
type Scenario struct {
	// Name uniquely identifies this scenario.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Pack is the datapack root. Relative paths are resolved against
	// the scenario file's directory.
	Pack string `yaml:"pack"`

	// Transformers maps recipe id → slot → transformer name. They are
	// attached once, before any craft runs.
	Transformers map[string]map[int]string `yaml:"transformers,omitempty"`

	// Crafts are executed in order against the loaded registry.
	Crafts []CraftStep `yaml:"crafts"`
}

// CraftStep is one grid lookup.
type CraftStep struct {
	// Grid is the crafting grid contents.
	Grid inventory.GridSpec `yaml:"grid"`

	// Expect describes the required outcome.
	Expect CraftExpect `yaml:"expect"`
}

// CraftExpect describes the outcome of a craft.
type CraftExpect struct {
	// Match reports whether any recipe must match.
	Match bool `yaml:"match"`

	// Recipe is the id of the recipe that must match.
	Recipe string `yaml:"recipe,omitempty"`

	// Output is the assembled stack in "id*count{tag}" form.
	Output string `yaml:"output,omitempty"`

	// Remaining lists the non-empty stacks left in the grid by slot.
	// Slots not listed must be empty. Nil skips the check.
	Remaining map[int]string `yaml:"remaining,omitempty"`
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict field validation catches typos like "craft:" vs "crafts:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if scenario.Pack != "" && !filepath.IsAbs(scenario.Pack) {
		scenario.Pack = filepath.Join(filepath.Dir(path), scenario.Pack)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// LoadScenarios loads every *.yaml and *.yml file in dir, sorted by
// file name.
func LoadScenarios(dir string) ([]*Scenario, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario directory: %w", err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".yaml", ".yml":
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	slices.Sort(paths)

	scenarios := make([]*Scenario, 0, len(paths))
	seen := make(map[string]string)
	for _, p := range paths {
		s, err := LoadScenario(p)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", p, err)
		}
		if first, dup := seen[s.Name]; dup {
			return nil, fmt.Errorf("%s: scenario name %q already used by %s", p, s.Name, first)
		}
		seen[s.Name] = p
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.Pack == "" {
		return fmt.Errorf("pack is required")
	}
	if info, err := os.Stat(s.Pack); err != nil || !info.IsDir() {
		return fmt.Errorf("pack directory not found: %s", s.Pack)
	}

	if len(s.Crafts) == 0 {
		return fmt.Errorf("crafts list is required and must be non-empty")
	}

	for id, slots := range s.Transformers {
		if _, err := item.ParseID(id); err != nil {
			return fmt.Errorf("transformers[%s]: %w", id, err)
		}
		if _, err := recipe.ParseTransformers(slots); err != nil {
			return fmt.Errorf("transformers[%s]: %w", id, err)
		}
	}

	for i, step := range s.Crafts {
		if err := validateCraft(i, &step); err != nil {
			return err
		}
	}

	return nil
}

// validateCraft validates a single craft step.
func validateCraft(index int, c *CraftStep) error {
	if _, err := c.Grid.Build(); err != nil {
		return fmt.Errorf("crafts[%d]: %w", index, err)
	}

	e := c.Expect
	if !e.Match {
		if e.Recipe != "" || e.Output != "" || e.Remaining != nil {
			return fmt.Errorf("crafts[%d]: recipe, output and remaining require match: true", index)
		}
		return nil
	}

	if e.Recipe != "" {
		if _, err := item.ParseID(e.Recipe); err != nil {
			return fmt.Errorf("crafts[%d].expect.recipe: %w", index, err)
		}
	}
	if e.Output != "" {
		if _, err := item.ParseStack(e.Output); err != nil {
			return fmt.Errorf("crafts[%d].expect.output: %w", index, err)
		}
	}
	for slot, s := range e.Remaining {
		if _, err := item.ParseStack(s); err != nil {
			return fmt.Errorf("crafts[%d].expect.remaining[%d]: %w", index, slot, err)
		}
	}
	return nil
}
