// Package inventory provides the slot containers that recipes are matched
// against.
package inventory

import (
	"fmt"

	"github.com/roach88/extremecraft/internal/item"
)

// Container is a fixed-size list of item slots.
type Container interface {
	Size() int
	Item(slot int) item.Stack
}

// CraftingContainer is a Container laid out as a width × height grid,
// slots in row-major order.
type CraftingContainer interface {
	Container
	Width() int
	Height() int
}

// Grid is an in-memory crafting grid.
type Grid struct {
	width, height int
	slots         []item.Stack
}

// NewGrid creates an empty width × height grid.
func NewGrid(width, height int) *Grid {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Grid{width: width, height: height, slots: make([]item.Stack, width*height)}
}

// FromStacks creates a grid and fills it row-major from stacks.
// Extra stacks beyond the grid capacity are an error.
func FromStacks(width, height int, stacks ...item.Stack) (*Grid, error) {
	g := NewGrid(width, height)
	if len(stacks) > g.Size() {
		return nil, fmt.Errorf("%d stacks do not fit a %dx%d grid", len(stacks), width, height)
	}
	for i, s := range stacks {
		g.slots[i] = s.Copy()
	}
	return g, nil
}

// Width returns the number of columns.
func (g *Grid) Width() int { return g.width }

// Height returns the number of rows.
func (g *Grid) Height() int { return g.height }

// Size returns the number of slots.
func (g *Grid) Size() int { return len(g.slots) }

// Item returns a copy of the stack in slot. Out-of-range slots are empty.
func (g *Grid) Item(slot int) item.Stack {
	if slot < 0 || slot >= len(g.slots) {
		return item.Empty
	}
	return g.slots[slot].Copy()
}

// Set stores a copy of s in slot.
func (g *Grid) Set(slot int, s item.Stack) error {
	if slot < 0 || slot >= len(g.slots) {
		return fmt.Errorf("slot %d out of range [0, %d)", slot, len(g.slots))
	}
	g.slots[slot] = s.Copy()
	return nil
}

// SetAt stores a copy of s at column x, row y.
func (g *Grid) SetAt(x, y int, s item.Stack) error {
	if x < 0 || x >= g.width || y < 0 || y >= g.height {
		return fmt.Errorf("cell (%d,%d) outside %dx%d grid", x, y, g.width, g.height)
	}
	return g.Set(y*g.width+x, s)
}

// Clear empties every slot.
func (g *Grid) Clear() {
	clear(g.slots)
}

// NonEmpty returns copies of the non-empty stacks in slot order.
func NonEmpty(c Container) []item.Stack {
	var out []item.Stack
	for i := 0; i < c.Size(); i++ {
		if s := c.Item(i); !s.IsEmpty() {
			out = append(out, s)
		}
	}
	return out
}
