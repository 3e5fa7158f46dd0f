// Package recipe defines crafting recipes and the shapeless extreme
// crafting recipe type.
//
// Recipes are immutable after construction, with one exception: the
// transformer table of a ShapelessExtreme can be replaced with
// SetTransformers. The swap is atomic, so a recipe already installed in a
// registry stays safe to match and craft with from other goroutines.
// All recipe operations are pure and run on the caller's goroutine.
package recipe

import (
	"github.com/roach88/extremecraft/internal/ingredient"
	"github.com/roach88/extremecraft/internal/inventory"
	"github.com/roach88/extremecraft/internal/item"
)

var (
	// ExtremeCraftingType is the recipe type of every extreme table recipe.
	ExtremeCraftingType = item.MustParseID("extremecraft:extreme_crafting")

	// ShapelessExtremeSerializerID names the serializer for ShapelessExtreme.
	ShapelessExtremeSerializerID = item.MustParseID("extremecraft:shapeless_extreme_crafting")
)

// Recipe is the behavior a registry needs from any recipe kind.
type Recipe interface {
	ID() item.ID
	Type() item.ID
	SerializerID() item.ID

	// Ingredients returns a copy of the ingredient list.
	Ingredients() []ingredient.Ingredient
	// ResultItem returns a copy of the output template.
	ResultItem() item.Stack

	Matches(c inventory.Container) bool
	Assemble(c inventory.Container) item.Stack
	RemainingItemsWith(c inventory.Container, policy RemainderFunc) []item.Stack
	CanCraftInDimensions(width, height int) bool
}

// RemainderFunc computes what is left in a slot after crafting when no
// transformer applies.
type RemainderFunc func(item.Stack) item.Stack

// NoRemainder empties every slot.
func NoRemainder(item.Stack) item.Stack {
	return item.Empty
}

// RemainderFrom builds a policy that leaves container remainders behind.
func RemainderFrom(r item.Remainders) RemainderFunc {
	return r.Of
}

// DefaultRemainingItems applies policy to every slot of c.
func DefaultRemainingItems(c inventory.Container, policy RemainderFunc) []item.Stack {
	if policy == nil {
		policy = NoRemainder
	}
	out := make([]item.Stack, c.Size())
	for i := range out {
		out[i] = policy(c.Item(i))
	}
	return out
}
