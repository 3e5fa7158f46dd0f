package serializer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/roach88/extremecraft/internal/ingredient"
	"github.com/roach88/extremecraft/internal/item"
	"github.com/roach88/extremecraft/internal/recipe"
	"github.com/roach88/extremecraft/internal/wire"
)

// ShapelessExtreme decodes and encodes shapeless extreme crafting recipes.
//
// JSON:
//
//	{
//	  "type": "extremecraft:shapeless_extreme_crafting",
//	  "ingredients": [<ingredient>, ...],
//	  "result": {"item": "ns:id", "count": 1, "nbt": {...}}
//	}
//
// Network: VarInt ingredient count, each ingredient in order, the result.
type ShapelessExtreme struct {
	// Tags resolves "tag" ingredients. Nil means no tags are known.
	Tags ingredient.TagSource
}

// FromJSON decodes a recipe definition file.
func (s ShapelessExtreme) FromJSON(id item.ID, data []byte) (recipe.Recipe, error) {
	return s.DecodeJSON(id, data)
}

// DecodeJSON is FromJSON with a concrete result type.
func (s ShapelessExtreme) DecodeJSON(id item.ID, data []byte) (*recipe.ShapelessExtreme, error) {
	obj, err := decodeObject(id, data)
	if err != nil {
		return nil, err
	}

	rawIngredients, ok := obj["ingredients"]
	if !ok {
		return nil, loadError(ErrCodeMissingIngredients, id, "ingredients", "missing required field", nil)
	}
	var entries []json.RawMessage
	if err := json.Unmarshal(rawIngredients, &entries); err != nil || entries == nil {
		return nil, loadError(ErrCodeMissingIngredients, id, "ingredients", "expected a JSON array", nil)
	}

	rawResult, ok := obj["result"]
	if !ok {
		return nil, loadError(ErrCodeMissingResult, id, "result", "missing required field", nil)
	}
	if trimmed := bytes.TrimSpace(rawResult); len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, loadError(ErrCodeMissingResult, id, "result", "expected a JSON object", nil)
	}

	if len(entries) == 0 {
		return nil, loadError(ErrCodeNoIngredients, id, "ingredients", "no ingredients for shapeless recipe", nil)
	}

	ingredients := make([]ingredient.Ingredient, 0, len(entries))
	for i, raw := range entries {
		in, err := ingredient.FromJSON(raw, s.Tags)
		if err != nil {
			code := ErrCodeBadIngredient
			if errors.Is(err, ingredient.ErrUnknownTag) {
				code = ErrCodeUnknownTag
			}
			return nil, loadError(code, id, fmt.Sprintf("ingredients[%d]", i), "invalid ingredient", err)
		}
		ingredients = append(ingredients, in)
	}

	output, err := StackFromJSON(rawResult)
	if err != nil {
		return nil, loadError(ErrCodeBadResult, id, "result", "invalid result", err)
	}

	return recipe.NewShapelessExtreme(id, ingredients, output), nil
}

// FromNetwork decodes a recipe payload. The id travels outside the payload.
func (s ShapelessExtreme) FromNetwork(id item.ID, b *wire.Buffer) (recipe.Recipe, error) {
	return s.Decode(id, b)
}

// Decode is FromNetwork with a concrete result type.
func (s ShapelessExtreme) Decode(id item.ID, b *wire.Buffer) (*recipe.ShapelessExtreme, error) {
	n, err := b.ReadVarInt()
	if err != nil {
		return nil, fmt.Errorf("recipe %s: ingredient count: %w", id, err)
	}
	if n < 0 {
		return nil, fmt.Errorf("recipe %s: negative ingredient count %d", id, n)
	}

	ingredients := make([]ingredient.Ingredient, 0, min(int(n), b.Len()))
	for i := int32(0); i < n; i++ {
		in, err := ingredient.FromNetwork(b)
		if err != nil {
			return nil, fmt.Errorf("recipe %s: ingredient %d: %w", id, i, err)
		}
		ingredients = append(ingredients, in)
	}

	output, err := b.ReadItem()
	if err != nil {
		return nil, fmt.Errorf("recipe %s: result: %w", id, err)
	}
	return recipe.NewShapelessExtreme(id, ingredients, output), nil
}

// ToNetwork encodes a recipe payload.
func (s ShapelessExtreme) ToNetwork(b *wire.Buffer, r recipe.Recipe) error {
	ingredients := r.Ingredients()
	b.WriteVarInt(int32(len(ingredients)))
	for i, in := range ingredients {
		if err := in.ToNetwork(b); err != nil {
			return fmt.Errorf("recipe %s: ingredient %d: %w", r.ID(), i, err)
		}
	}
	if err := b.WriteItem(r.ResultItem()); err != nil {
		return fmt.Errorf("recipe %s: result: %w", r.ID(), err)
	}
	return nil
}

func decodeObject(id item.ID, data []byte) (map[string]json.RawMessage, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil || obj == nil {
		return nil, loadError(ErrCodeMalformedJSON, id, "", "recipe must be a JSON object", err)
	}
	return obj, nil
}

// resultJSON is the output stack format.
type resultJSON struct {
	Item  string          `json:"item"`
	Count *int            `json:"count"`
	NBT   json.RawMessage `json:"nbt"`
}

// StackFromJSON decodes a result stack. "item" is required, "count"
// defaults to 1 and must fit in the wire format's count byte (1 to 255),
// "nbt" is optional.
func StackFromJSON(data []byte) (item.Stack, error) {
	var r resultJSON
	if err := json.Unmarshal(data, &r); err != nil {
		return item.Empty, err
	}
	if r.Item == "" {
		return item.Empty, fmt.Errorf("missing item")
	}
	id, err := item.ParseID(r.Item)
	if err != nil {
		return item.Empty, err
	}
	if id == item.AirID {
		return item.Empty, fmt.Errorf("result item cannot be %s", item.AirID)
	}

	count := 1
	if r.Count != nil {
		count = *r.Count
	}
	if count < 1 || count > math.MaxUint8 {
		return item.Empty, fmt.Errorf("invalid output count: %d", count)
	}

	tag, err := ingredient.ParseNBTField(r.NBT)
	if err != nil {
		return item.Empty, err
	}
	return item.Stack{Item: id, Count: count, Tag: tag}, nil
}
