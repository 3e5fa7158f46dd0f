package inventory

import (
	"bytes"
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/roach88/extremecraft/internal/item"
)

// GridSpec describes a grid in YAML:
//
//	width: 9
//	height: 9
//	slots:
//	  0: minecraft:iron_ingot
//	  40: minecraft:nether_star*2
//
// Slots not listed are empty.
type GridSpec struct {
	Width  int            `yaml:"width"`
	Height int            `yaml:"height"`
	Slots  map[int]string `yaml:"slots"`
}

// Build creates the grid the spec describes.
func (s GridSpec) Build() (*Grid, error) {
	if s.Width <= 0 || s.Height <= 0 {
		return nil, fmt.Errorf("grid: width and height must be positive, got %dx%d", s.Width, s.Height)
	}
	g := NewGrid(s.Width, s.Height)

	slots := make([]int, 0, len(s.Slots))
	for slot := range s.Slots {
		slots = append(slots, slot)
	}
	slices.Sort(slots)

	for _, slot := range slots {
		stack, err := item.ParseStack(s.Slots[slot])
		if err != nil {
			return nil, fmt.Errorf("grid slot %d: %w", slot, err)
		}
		if err := g.Set(slot, stack); err != nil {
			return nil, fmt.Errorf("grid: %w", err)
		}
	}
	return g, nil
}

// LoadGridSpec reads a GridSpec from a YAML file.
func LoadGridSpec(path string) (GridSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return GridSpec{}, fmt.Errorf("read grid: %w", err)
	}

	// Strict field validation catches typos like "slot:" vs "slots:"
	var spec GridSpec
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&spec); err != nil {
		return GridSpec{}, fmt.Errorf("parse grid %s: %w", path, err)
	}
	return spec, nil
}
