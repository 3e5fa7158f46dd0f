package recipe

import (
	"sync/atomic"

	"github.com/roach88/extremecraft/internal/ingredient"
	"github.com/roach88/extremecraft/internal/inventory"
	"github.com/roach88/extremecraft/internal/item"
	"github.com/roach88/extremecraft/internal/matcher"
)

// Transformer computes the remaining stack for one slot from the stack
// that was in it before crafting.
type Transformer func(item.Stack) item.Stack

// ShapelessExtreme is a shapeless recipe for extreme crafting grids.
// Slot positions are irrelevant; only the multiset of present stacks
// matters.
type ShapelessExtreme struct {
	id           item.ID
	ingredients  []ingredient.Ingredient
	output       item.Stack

	// transformers holds a map that is never mutated once stored, so
	// readers can range over it without holding a lock.
	transformers atomic.Pointer[map[int]Transformer]
}

// NewShapelessExtreme creates a recipe. The ingredient slice and output are
// copied.
func NewShapelessExtreme(id item.ID, ingredients []ingredient.Ingredient, output item.Stack) *ShapelessExtreme {
	return &ShapelessExtreme{
		id:          id,
		ingredients: append([]ingredient.Ingredient(nil), ingredients...),
		output:      output.Copy(),
	}
}

// ID returns the recipe identifier.
func (r *ShapelessExtreme) ID() item.ID { return r.id }

// Type returns ExtremeCraftingType.
func (r *ShapelessExtreme) Type() item.ID { return ExtremeCraftingType }

// SerializerID returns ShapelessExtremeSerializerID.
func (r *ShapelessExtreme) SerializerID() item.ID { return ShapelessExtremeSerializerID }

// Ingredients returns a copy of the ordered ingredient list.
func (r *ShapelessExtreme) Ingredients() []ingredient.Ingredient {
	return append([]ingredient.Ingredient(nil), r.ingredients...)
}

// ResultItem returns a copy of the output template.
func (r *ShapelessExtreme) ResultItem() item.Stack {
	return r.output.Copy()
}

// CanCraftInDimensions reports whether a width × height grid has room for
// every ingredient. It does not check that the ingredients match.
func (r *ShapelessExtreme) CanCraftInDimensions(width, height int) bool {
	return width*height >= len(r.ingredients)
}

// Matches reports whether the non-empty stacks in c pair one-to-one with the
// ingredients. Empty slots are ignored.
func (r *ShapelessExtreme) Matches(c inventory.Container) bool {
	stacks := inventory.NonEmpty(c)
	if len(stacks) != len(r.ingredients) {
		return false
	}
	return matcher.FindMatches(stacks, r.ingredients) != nil
}

// Assemble returns a fresh copy of the output. The inputs are not consumed.
func (r *ShapelessExtreme) Assemble(inventory.Container) item.Stack {
	return r.output.Copy()
}

// SetTransformers assigns the per-slot transformer table. Keys are slot
// indices; slots without a transformer are left empty after crafting.
// A nil or empty table restores the default remainder policy.
//
// The table is copied and swapped in atomically, so it may be replaced
// while the recipe is in use.
func (r *ShapelessExtreme) SetTransformers(transformers map[int]Transformer) {
	if len(transformers) == 0 {
		r.transformers.Store(nil)
		return
	}
	table := make(map[int]Transformer, len(transformers))
	for slot, fn := range transformers {
		table[slot] = fn
	}
	r.transformers.Store(&table)
}

// HasTransformers reports whether a transformer table is set.
func (r *ShapelessExtreme) HasTransformers() bool {
	return r.transformers.Load() != nil
}

// RemainingItems returns the post-craft slot contents, emptying every slot
// that has no transformer.
func (r *ShapelessExtreme) RemainingItems(c inventory.Container) []item.Stack {
	return r.RemainingItemsWith(c, NoRemainder)
}

// RemainingItemsWith returns the post-craft slot contents. The result has
// one entry per slot of c.
//
// With a transformer table, slot i holds transformer[i](c.Item(i)) and all
// other slots are empty, whatever they held before. Without one, policy is
// applied to every slot.
func (r *ShapelessExtreme) RemainingItemsWith(c inventory.Container, policy RemainderFunc) []item.Stack {
	table := r.transformers.Load()
	if table == nil {
		return DefaultRemainingItems(c, policy)
	}

	out := make([]item.Stack, c.Size())
	for slot, fn := range *table {
		if slot < 0 || slot >= len(out) || fn == nil {
			continue
		}
		out[slot] = fn(c.Item(slot))
	}
	return out
}

// Tier returns the extreme table tier a recipe of this size is meant for:
// 1 below 10 ingredients, 2 below 26, 3 below 50, otherwise 4.
// It is informational; matching never consults it.
func (r *ShapelessExtreme) Tier() int {
	return tierFromSize(len(r.ingredients))
}

func tierFromSize(size int) int {
	switch {
	case size < 10:
		return 1
	case size < 26:
		return 2
	case size < 50:
		return 3
	default:
		return 4
	}
}
