package recipe

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/roach88/extremecraft/internal/item"
)

// damageKey is the tag key holding accumulated tool damage.
const damageKey = "Damage"

// Keep leaves the input stack in its slot unchanged.
func Keep(s item.Stack) item.Stack {
	return s.Copy()
}

// Consume empties the slot.
func Consume(item.Stack) item.Stack {
	return item.Empty
}

// Replace swaps the input for a single item of another kind.
func Replace(id item.ID) Transformer {
	return func(s item.Stack) item.Stack {
		if s.IsEmpty() {
			return item.Empty
		}
		return item.NewStack(id, 1)
	}
}

// Shrink removes n items from the input stack.
func Shrink(n int) Transformer {
	return func(s item.Stack) item.Stack {
		return s.WithCount(s.Count - n)
	}
}

// Damage returns the input with its Damage tag raised by n.
func Damage(n int) Transformer {
	return func(s item.Stack) item.Stack {
		out := s.Copy()
		if out.IsEmpty() {
			return item.Empty
		}
		if out.Tag == nil {
			out.Tag = item.Compound{}
		}
		out.Tag[damageKey] = item.TagInt(out.Tag.Int(damageKey) + int64(n))
		return out
	}
}

// TransformerByName resolves the textual transformer forms used in
// scenario files: "keep", "consume", "replace:<id>", "shrink:<n>" and
// "damage:<n>".
func TransformerByName(name string) (Transformer, error) {
	kind, arg, _ := strings.Cut(strings.TrimSpace(name), ":")
	switch kind {
	case "keep":
		return Keep, nil
	case "consume":
		return Consume, nil
	case "replace":
		id, err := item.ParseID(arg)
		if err != nil {
			return nil, fmt.Errorf("transformer %q: %w", name, err)
		}
		return Replace(id), nil
	case "shrink", "damage":
		n, err := strconv.Atoi(arg)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("transformer %q: expected a non-negative count", name)
		}
		if kind == "shrink" {
			return Shrink(n), nil
		}
		return Damage(n), nil
	default:
		return nil, fmt.Errorf("unknown transformer %q", name)
	}
}

// ParseTransformers resolves a slot → name table.
func ParseTransformers(names map[int]string) (map[int]Transformer, error) {
	out := make(map[int]Transformer, len(names))
	for slot, name := range names {
		fn, err := TransformerByName(name)
		if err != nil {
			return nil, fmt.Errorf("slot %d: %w", slot, err)
		}
		out[slot] = fn
	}
	return out, nil
}
