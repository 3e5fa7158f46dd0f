package item

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"
	"unicode/utf16"
)

// TagValue is a sealed interface over the value types allowed in stack tags.
// Only TagString, TagInt, TagBool, TagList and Compound implement it.
// NO float and NO null: tags must have exactly one canonical encoding.
type TagValue interface {
	tagValue()
}

// TagString is a string tag value.
type TagString string

func (TagString) tagValue() {}

// TagInt is an integer tag value. Always int64.
type TagInt int64

func (TagInt) tagValue() {}

// TagBool is a boolean tag value.
type TagBool bool

func (TagBool) tagValue() {}

// TagList is an ordered list of tag values.
type TagList []TagValue

func (TagList) tagValue() {}

// Compound maps keys to tag values. It is the root type of a stack tag.
// Use SortedKeys for deterministic iteration.
type Compound map[string]TagValue

func (Compound) tagValue() {}

// SortedKeys returns keys in canonical order (UTF-16 code units).
// Go's string comparison is UTF-8 byte order, which differs for
// characters outside the BMP.
func (c Compound) SortedKeys() []string {
	keys := slices.Collect(maps.Keys(c))
	slices.SortFunc(keys, compareUTF16)
	return keys
}

func compareUTF16(a, b string) int {
	return slices.Compare(utf16.Encode([]rune(a)), utf16.Encode([]rune(b)))
}

// Clone returns a deep copy of the compound. Cloning nil returns nil.
func (c Compound) Clone() Compound {
	if c == nil {
		return nil
	}
	out := make(Compound, len(c))
	for k, v := range c {
		out[k] = cloneTag(v)
	}
	return out
}

func cloneTag(v TagValue) TagValue {
	switch val := v.(type) {
	case Compound:
		return val.Clone()
	case TagList:
		out := make(TagList, len(val))
		for i, elem := range val {
			out[i] = cloneTag(elem)
		}
		return out
	default:
		return v
	}
}

// Equal reports whether two compounds hold the same data.
// A nil compound equals an empty one.
func (c Compound) Equal(other Compound) bool {
	if len(c) != len(other) {
		return false
	}
	for k, v := range c {
		ov, ok := other[k]
		if !ok || !tagEqual(v, ov) {
			return false
		}
	}
	return true
}

func tagEqual(a, b TagValue) bool {
	switch av := a.(type) {
	case Compound:
		bv, ok := b.(Compound)
		return ok && av.Equal(bv)
	case TagList:
		bv, ok := b.(TagList)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !tagEqual(av[i], bv[i]) {
				return false
			}
		}
		return true
	default:
		return a == b
	}
}

// Int returns the integer stored under key, or 0 if absent or not an int.
func (c Compound) Int(key string) int64 {
	if v, ok := c[key].(TagInt); ok {
		return int64(v)
	}
	return 0
}

// MarshalJSON encodes the compound canonically.
func (c Compound) MarshalJSON() ([]byte, error) {
	return MarshalCanonical(c)
}

// UnmarshalJSON decodes a JSON object into a compound.
// Floats and null are rejected.
func (c *Compound) UnmarshalJSON(data []byte) error {
	v, err := ParseTagJSON(data)
	if err != nil {
		return err
	}
	obj, ok := v.(Compound)
	if !ok {
		return fmt.Errorf("tag must be a JSON object, got %T", v)
	}
	*c = obj
	return nil
}

// ParseTagJSON decodes any JSON value into a TagValue.
func ParseTagJSON(data []byte) (TagValue, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("invalid tag JSON: %w", err)
	}
	if dec.More() {
		return nil, fmt.Errorf("invalid tag JSON: trailing data")
	}
	return toTagValue(raw)
}

// ParseCompoundString decodes a compound from its JSON text form, as used
// by the "nbt" field when it is given as a string.
func ParseCompoundString(s string) (Compound, error) {
	var c Compound
	if err := c.UnmarshalJSON([]byte(strings.TrimSpace(s))); err != nil {
		return nil, err
	}
	return c, nil
}

func toTagValue(v any) (TagValue, error) {
	switch val := v.(type) {
	case nil:
		return nil, fmt.Errorf("null is forbidden in tags")
	case string:
		return TagString(val), nil
	case bool:
		return TagBool(val), nil
	case json.Number:
		n, err := val.Int64()
		if err != nil {
			return nil, fmt.Errorf("floats are forbidden in tags: %s", val)
		}
		return TagInt(n), nil
	case int:
		return TagInt(val), nil
	case int64:
		return TagInt(val), nil
	case []any:
		list := make(TagList, len(val))
		for i, elem := range val {
			tv, err := toTagValue(elem)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			list[i] = tv
		}
		return list, nil
	case map[string]any:
		obj := make(Compound, len(val))
		for k, elem := range val {
			tv, err := toTagValue(elem)
			if err != nil {
				return nil, fmt.Errorf("[%q]: %w", k, err)
			}
			obj[k] = tv
		}
		return obj, nil
	default:
		return nil, fmt.Errorf("unsupported tag type: %T", v)
	}
}
