package ingredient

import (
	"fmt"
	"io"

	"github.com/roach88/extremecraft/internal/item"
	"github.com/roach88/extremecraft/internal/wire"
)

// customMarker prefixes custom-type ingredients on the wire in place of
// the item count.
const customMarker int32 = -1

// ToNetwork writes the ingredient.
//
// Vanilla: VarInt n followed by n stacks.
// Custom:  VarInt -1, the type id, then the type's payload (one stack for
// forge:nbt).
func (in Ingredient) ToNetwork(b *wire.Buffer) error {
	if in.kind == KindNBT {
		b.WriteVarInt(customMarker)
		if err := b.WriteID(NBTTypeID); err != nil {
			return fmt.Errorf("ingredient: %w", err)
		}
		if err := b.WriteItem(in.stacks[0]); err != nil {
			return fmt.Errorf("ingredient: %w", err)
		}
		return nil
	}

	b.WriteVarInt(int32(len(in.stacks)))
	for i, s := range in.stacks {
		if err := b.WriteItem(s); err != nil {
			return fmt.Errorf("ingredient item %d: %w", i, err)
		}
	}
	return nil
}

// FromNetwork reads an ingredient written by ToNetwork.
func FromNetwork(b *wire.Buffer) (Ingredient, error) {
	n, err := b.ReadVarInt()
	if err != nil {
		return Empty, fmt.Errorf("ingredient: %w", err)
	}

	if n == customMarker {
		typ, err := b.ReadID()
		if err != nil {
			return Empty, fmt.Errorf("ingredient: %w", err)
		}
		if typ != NBTTypeID {
			return Empty, fmt.Errorf("ingredient: unknown ingredient type %s", typ)
		}
		s, err := b.ReadItem()
		if err != nil {
			return Empty, fmt.Errorf("ingredient: %w", err)
		}
		return NBT(s), nil
	}
	if n < 0 {
		return Empty, fmt.Errorf("ingredient: invalid item count %d", n)
	}
	// Each stack takes at least one byte; a larger count is corrupt.
	if int(n) > b.Len() {
		return Empty, fmt.Errorf("ingredient: item count %d exceeds remaining %d byte(s): %w", n, b.Len(), io.ErrUnexpectedEOF)
	}

	stacks := make([]item.Stack, 0, n)
	for i := int32(0); i < n; i++ {
		s, err := b.ReadItem()
		if err != nil {
			return Empty, fmt.Errorf("ingredient item %d: %w", i, err)
		}
		stacks = append(stacks, s)
	}
	return OfStacks(stacks...), nil
}
