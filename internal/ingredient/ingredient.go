// Package ingredient provides ingredient predicates: rules that accept one
// or more item kinds in a crafting grid.
//
// An Ingredient is immutable once built. Tag references are resolved to
// concrete items when the ingredient is parsed, so testing a stack never
// consults a tag table.
package ingredient

import (
	"strings"

	"github.com/roach88/extremecraft/internal/item"
)

// Kind distinguishes the ingredient encodings.
type Kind int

const (
	// KindVanilla matches on item kind only.
	KindVanilla Kind = iota
	// KindNBT matches on item kind and exact tag data.
	KindNBT
)

// NBTTypeID is the custom-ingredient type for tag-strict ingredients.
var NBTTypeID = item.MustParseID("forge:nbt")

// Ingredient accepts any stack matching one of its listed stacks.
type Ingredient struct {
	kind   Kind
	stacks []item.Stack
}

// Empty accepts only empty stacks.
var Empty = Ingredient{}

// Of builds a vanilla ingredient accepting any of the given items.
func Of(ids ...item.ID) Ingredient {
	stacks := make([]item.Stack, 0, len(ids))
	for _, id := range ids {
		stacks = append(stacks, item.NewStack(id, 1))
	}
	return OfStacks(stacks...)
}

// OfStacks builds a vanilla ingredient from example stacks.
// Empty stacks are dropped; counts and tags are kept for display only.
func OfStacks(stacks ...item.Stack) Ingredient {
	out := make([]item.Stack, 0, len(stacks))
	for _, s := range stacks {
		if !s.IsEmpty() {
			out = append(out, s.Copy())
		}
	}
	if len(out) == 0 {
		return Empty
	}
	return Ingredient{kind: KindVanilla, stacks: out}
}

// NBT builds an ingredient that accepts only stacks of the same item with
// exactly the same tag data.
func NBT(s item.Stack) Ingredient {
	if s.IsEmpty() {
		return Empty
	}
	return Ingredient{kind: KindNBT, stacks: []item.Stack{s.Copy()}}
}

// MustIDs is a test helper building a vanilla ingredient from id strings.
func MustIDs(ids ...string) Ingredient {
	parsed := make([]item.ID, len(ids))
	for i, s := range ids {
		parsed[i] = item.MustParseID(s)
	}
	return Of(parsed...)
}

// Kind reports the ingredient's encoding kind.
func (in Ingredient) Kind() Kind {
	return in.kind
}

// IsEmpty reports whether the ingredient lists no items.
func (in Ingredient) IsEmpty() bool {
	return len(in.stacks) == 0
}

// Items returns copies of the accepted example stacks.
func (in Ingredient) Items() []item.Stack {
	out := make([]item.Stack, len(in.stacks))
	for i, s := range in.stacks {
		out[i] = s.Copy()
	}
	return out
}

// Test reports whether the stack satisfies the ingredient.
// The empty ingredient accepts exactly the empty stack.
func (in Ingredient) Test(s item.Stack) bool {
	if in.IsEmpty() {
		return s.IsEmpty()
	}
	if s.IsEmpty() {
		return false
	}
	for _, want := range in.stacks {
		switch in.kind {
		case KindNBT:
			if want.SameItemSameTag(s) {
				return true
			}
		default:
			if want.SameItem(s) {
				return true
			}
		}
	}
	return false
}

// Equal reports whether two ingredients have the same kind and list the
// same stacks in the same order.
func (in Ingredient) Equal(other Ingredient) bool {
	if in.kind != other.kind || len(in.stacks) != len(other.stacks) {
		return false
	}
	for i := range in.stacks {
		if !in.stacks[i].Equal(other.stacks[i]) {
			return false
		}
	}
	return true
}

// String renders the accepted items as "a|b|c". Empty renders as "empty".
func (in Ingredient) String() string {
	if in.IsEmpty() {
		return "empty"
	}
	parts := make([]string, len(in.stacks))
	for i, s := range in.stacks {
		if in.kind == KindNBT {
			parts[i] = s.String()
			continue
		}
		parts[i] = s.Item.String()
	}
	return strings.Join(parts, "|")
}
