package item

import (
	"fmt"
	"strconv"
	"strings"
)

// Stack is a quantity of one item kind plus optional tag data.
// The zero Stack is the empty stack.
type Stack struct {
	Item  ID
	Count int
	Tag   Compound
}

// Empty is the empty stack.
var Empty = Stack{}

// NewStack creates a stack without tag data.
func NewStack(id ID, count int) Stack {
	return Stack{Item: id, Count: count}
}

// Of is shorthand for a single-item stack of the given identifier.
// Panics on an invalid identifier; use only in tests and constants.
func Of(id string) Stack {
	return NewStack(MustParseID(id), 1)
}

// IsEmpty reports whether the stack holds nothing.
func (s Stack) IsEmpty() bool {
	return s.Item.IsZero() || s.Item == AirID || s.Count <= 0
}

// Copy returns a deep copy. Copying an empty stack returns Empty.
func (s Stack) Copy() Stack {
	if s.IsEmpty() {
		return Empty
	}
	return Stack{Item: s.Item, Count: s.Count, Tag: s.Tag.Clone()}
}

// WithCount returns a copy with the given count.
func (s Stack) WithCount(n int) Stack {
	c := s.Copy()
	if c.IsEmpty() {
		return Empty
	}
	c.Count = n
	if c.IsEmpty() {
		return Empty
	}
	return c
}

// SameItem reports whether both stacks are of the same item kind.
func (s Stack) SameItem(other Stack) bool {
	if s.IsEmpty() || other.IsEmpty() {
		return s.IsEmpty() && other.IsEmpty()
	}
	return s.Item == other.Item
}

// SameItemSameTag reports whether both stacks share item kind and tag data.
func (s Stack) SameItemSameTag(other Stack) bool {
	return s.SameItem(other) && s.Tag.Equal(other.Tag)
}

// Equal reports whether the stacks match in item, count and tag.
// All empty stacks are equal.
func (s Stack) Equal(other Stack) bool {
	if s.IsEmpty() || other.IsEmpty() {
		return s.IsEmpty() && other.IsEmpty()
	}
	return s.Count == other.Count && s.SameItemSameTag(other)
}

// String renders "id*count", with the canonical tag appended when present.
// Empty stacks render as "empty".
func (s Stack) String() string {
	if s.IsEmpty() {
		return "empty"
	}
	var b strings.Builder
	b.WriteString(s.Item.String())
	if s.Count != 1 {
		b.WriteByte('*')
		b.WriteString(strconv.Itoa(s.Count))
	}
	if len(s.Tag) > 0 {
		if tag, err := MarshalCanonical(s.Tag); err == nil {
			b.Write(tag)
		}
	}
	return b.String()
}

// ParseStack parses the compact "id", "id*count" or "id*count{json tag}"
// form used by grid files and scenarios. "empty" yields Empty.
func ParseStack(s string) (Stack, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "empty" {
		return Empty, nil
	}

	var tag Compound
	if i := strings.IndexByte(s, '{'); i >= 0 {
		parsed, err := ParseCompoundString(s[i:])
		if err != nil {
			return Empty, fmt.Errorf("stack %q: %w", s, err)
		}
		tag = parsed
		s = s[:i]
	}

	count := 1
	if idPart, countPart, found := strings.Cut(s, "*"); found {
		n, err := strconv.Atoi(countPart)
		if err != nil {
			return Empty, fmt.Errorf("stack %q: invalid count: %w", s, err)
		}
		count = n
		s = idPart
	}

	id, err := ParseID(s)
	if err != nil {
		return Empty, fmt.Errorf("stack: %w", err)
	}
	return Stack{Item: id, Count: count, Tag: tag}, nil
}

// MustParseStack is like ParseStack but panics on error.
func MustParseStack(s string) Stack {
	st, err := ParseStack(s)
	if err != nil {
		panic(err)
	}
	return st
}
