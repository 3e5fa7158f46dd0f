package ingredient

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/roach88/extremecraft/internal/item"
)

// valueJSON is one entry of an ingredient definition.
type valueJSON struct {
	Type string          `json:"type"`
	Item string          `json:"item"`
	Tag  string          `json:"tag"`
	NBT  json.RawMessage `json:"nbt"`
}

// FromJSON parses an ingredient definition.
//
// Accepted forms:
//   - {"item": "ns:id"}
//   - {"tag": "ns:tag"}      resolved through tags
//   - {"type": "forge:nbt", "item": "ns:id", "nbt": {...}}
//   - a non-empty array of item/tag objects
//
// A tag that tags does not know returns an error wrapping ErrUnknownTag.
func FromJSON(data []byte, tags TagSource) (Ingredient, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return Empty, fmt.Errorf("ingredient: empty value")
	}
	if tags == nil {
		tags = NoTags
	}

	switch data[0] {
	case '[':
		var entries []json.RawMessage
		if err := json.Unmarshal(data, &entries); err != nil {
			return Empty, fmt.Errorf("ingredient: %w", err)
		}
		if len(entries) == 0 {
			return Empty, fmt.Errorf("ingredient: item array cannot be empty, at least one item must be defined")
		}
		var stacks []item.Stack
		for i, raw := range entries {
			v, err := decodeValue(raw)
			if err != nil {
				return Empty, fmt.Errorf("ingredient[%d]: %w", i, err)
			}
			if v.Type != "" {
				return Empty, fmt.Errorf("ingredient[%d]: typed ingredients cannot appear in an array", i)
			}
			got, err := v.stacks(tags)
			if err != nil {
				return Empty, fmt.Errorf("ingredient[%d]: %w", i, err)
			}
			stacks = append(stacks, got...)
		}
		return OfStacks(stacks...), nil
	case '{':
		v, err := decodeValue(data)
		if err != nil {
			return Empty, fmt.Errorf("ingredient: %w", err)
		}
		if v.Type != "" {
			return v.typed()
		}
		stacks, err := v.stacks(tags)
		if err != nil {
			return Empty, fmt.Errorf("ingredient: %w", err)
		}
		return OfStacks(stacks...), nil
	default:
		return Empty, fmt.Errorf("ingredient: expected object or array")
	}
}

func decodeValue(raw json.RawMessage) (valueJSON, error) {
	var v valueJSON
	if err := json.Unmarshal(raw, &v); err != nil {
		return valueJSON{}, fmt.Errorf("expected object: %w", err)
	}
	return v, nil
}

// stacks expands a vanilla item or tag value.
func (v valueJSON) stacks(tags TagSource) ([]item.Stack, error) {
	switch {
	case v.Item != "" && v.Tag != "":
		return nil, fmt.Errorf("an ingredient entry is either a tag or an item, not both")
	case v.Item != "":
		id, err := parseItemID(v.Item)
		if err != nil {
			return nil, err
		}
		return []item.Stack{item.NewStack(id, 1)}, nil
	case v.Tag != "":
		tagID, err := item.ParseID(v.Tag)
		if err != nil {
			return nil, err
		}
		ids, ok := tags.TagItems(tagID)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownTag, tagID)
		}
		out := make([]item.Stack, len(ids))
		for i, id := range ids {
			out[i] = item.NewStack(id, 1)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("an ingredient entry needs either a tag or an item")
	}
}

// typed builds a custom-type ingredient.
func (v valueJSON) typed() (Ingredient, error) {
	typ, err := item.ParseID(v.Type)
	if err != nil {
		return Empty, fmt.Errorf("ingredient: type: %w", err)
	}
	if typ != NBTTypeID {
		return Empty, fmt.Errorf("ingredient: unknown ingredient type %s", typ)
	}
	if v.Item == "" {
		return Empty, fmt.Errorf("ingredient: %s requires an item", typ)
	}
	id, err := parseItemID(v.Item)
	if err != nil {
		return Empty, fmt.Errorf("ingredient: %w", err)
	}
	tag, err := ParseNBTField(v.NBT)
	if err != nil {
		return Empty, fmt.Errorf("ingredient: %w", err)
	}
	if tag == nil {
		return Empty, fmt.Errorf("ingredient: %s requires nbt", typ)
	}
	return NBT(item.Stack{Item: id, Count: 1, Tag: tag}), nil
}

func parseItemID(s string) (item.ID, error) {
	id, err := item.ParseID(s)
	if err != nil {
		return item.ID{}, err
	}
	if id == item.AirID {
		return item.ID{}, fmt.Errorf("ingredient item cannot be %s", item.AirID)
	}
	return id, nil
}

// ParseNBTField decodes an "nbt" field, which may be a JSON object or a
// string holding JSON object text. An absent field yields nil.
func ParseNBTField(raw json.RawMessage) (item.Compound, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, fmt.Errorf("nbt: %w", err)
		}
		tag, err := item.ParseCompoundString(s)
		if err != nil {
			return nil, fmt.Errorf("nbt: %w", err)
		}
		return tag, nil
	}
	var tag item.Compound
	if err := tag.UnmarshalJSON(raw); err != nil {
		return nil, fmt.Errorf("nbt: %w", err)
	}
	return tag, nil
}
