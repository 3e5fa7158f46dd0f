package serializer

import (
	"fmt"

	"github.com/roach88/extremecraft/internal/item"
	"github.com/roach88/extremecraft/internal/recipe"
	"github.com/roach88/extremecraft/internal/wire"
)

// WriteSync encodes a recipe sync packet: VarInt recipe count, then per
// recipe its serializer type ID, recipe ID and serializer payload.
func (r *Registry) WriteSync(b *wire.Buffer, recipes []recipe.Recipe) error {
	b.WriteVarInt(int32(len(recipes)))
	for _, rec := range recipes {
		kind := rec.SerializerID()
		s, ok := r.Get(kind)
		if !ok {
			return fmt.Errorf("recipe %s: %w: %s", rec.ID(), ErrUnregisteredType, kind)
		}
		if err := b.WriteID(kind); err != nil {
			return fmt.Errorf("recipe %s: %w", rec.ID(), err)
		}
		if err := b.WriteID(rec.ID()); err != nil {
			return fmt.Errorf("recipe %s: %w", rec.ID(), err)
		}
		if err := s.ToNetwork(b, rec); err != nil {
			return err
		}
	}
	return nil
}

// ReadSync decodes a packet written by WriteSync.
func (r *Registry) ReadSync(b *wire.Buffer) ([]recipe.Recipe, error) {
	n, err := b.ReadVarInt()
	if err != nil {
		return nil, fmt.Errorf("recipe count: %w", err)
	}
	if n < 0 {
		return nil, fmt.Errorf("negative recipe count %d", n)
	}

	out := make([]recipe.Recipe, 0, min(int(n), b.Len()))
	for i := int32(0); i < n; i++ {
		kind, err := b.ReadID()
		if err != nil {
			return nil, fmt.Errorf("recipe %d: type: %w", i, err)
		}
		id, err := b.ReadID()
		if err != nil {
			return nil, fmt.Errorf("recipe %d: id: %w", i, err)
		}
		s, ok := r.Get(kind)
		if !ok {
			return nil, fmt.Errorf("recipe %s: %w: %s", id, ErrUnregisteredType, kind)
		}
		rec, err := s.FromNetwork(id, b)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// EncodePayload returns the serializer payload of a single recipe.
func (r *Registry) EncodePayload(rec recipe.Recipe) ([]byte, error) {
	s, ok := r.Get(rec.SerializerID())
	if !ok {
		return nil, fmt.Errorf("recipe %s: %w: %s", rec.ID(), ErrUnregisteredType, rec.SerializerID())
	}
	b := wire.NewBuffer(nil)
	if err := s.ToNetwork(b, rec); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

// DecodePayload decodes a single serializer payload. Trailing bytes are
// an error.
func (r *Registry) DecodePayload(kind, id item.ID, payload []byte) (recipe.Recipe, error) {
	s, ok := r.Get(kind)
	if !ok {
		return nil, fmt.Errorf("recipe %s: %w: %s", id, ErrUnregisteredType, kind)
	}
	b := wire.NewBuffer(payload)
	rec, err := s.FromNetwork(id, b)
	if err != nil {
		return nil, err
	}
	if b.Len() != 0 {
		return nil, fmt.Errorf("recipe %s: %d trailing bytes after payload", id, b.Len())
	}
	return rec, nil
}
