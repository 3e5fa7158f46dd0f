package wire

import (
	"fmt"
	"math"

	"github.com/roach88/extremecraft/internal/item"
)

// WriteItem appends an item stack.
//
// Layout: bool present; when present, the item id, the count as an
// unsigned byte, bool hasTag and, when set, the canonical JSON of the tag
// as a string.
func (b *Buffer) WriteItem(s item.Stack) error {
	if s.IsEmpty() {
		b.WriteBool(false)
		return nil
	}
	if s.Count > math.MaxUint8 {
		return fmt.Errorf("write item %s: count %d does not fit in a byte", s.Item, s.Count)
	}

	b.WriteBool(true)
	if err := b.WriteID(s.Item); err != nil {
		return fmt.Errorf("write item: %w", err)
	}
	_ = b.WriteByte(byte(s.Count))

	if len(s.Tag) == 0 {
		b.WriteBool(false)
		return nil
	}
	tag, err := item.MarshalCanonical(s.Tag)
	if err != nil {
		return fmt.Errorf("write item %s: tag: %w", s.Item, err)
	}
	b.WriteBool(true)
	if err := b.WriteStringMax(string(tag), MaxTagLength); err != nil {
		return fmt.Errorf("write item %s: tag: %w", s.Item, err)
	}
	return nil
}

// ReadItem consumes an item stack written by WriteItem.
func (b *Buffer) ReadItem() (item.Stack, error) {
	present, err := b.ReadBool()
	if err != nil {
		return item.Empty, fmt.Errorf("read item: %w", err)
	}
	if !present {
		return item.Empty, nil
	}

	id, err := b.ReadID()
	if err != nil {
		return item.Empty, fmt.Errorf("read item: %w", err)
	}
	count, err := b.ReadByte()
	if err != nil {
		return item.Empty, fmt.Errorf("read item %s: count: %w", id, err)
	}
	stack := item.Stack{Item: id, Count: int(count)}

	hasTag, err := b.ReadBool()
	if err != nil {
		return item.Empty, fmt.Errorf("read item %s: %w", id, err)
	}
	if hasTag {
		raw, err := b.ReadStringMax(MaxTagLength)
		if err != nil {
			return item.Empty, fmt.Errorf("read item %s: tag: %w", id, err)
		}
		tag, err := item.ParseCompoundString(raw)
		if err != nil {
			return item.Empty, fmt.Errorf("read item %s: tag: %w", id, err)
		}
		stack.Tag = tag
	}
	return stack, nil
}
