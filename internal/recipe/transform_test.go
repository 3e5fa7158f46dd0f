package recipe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/extremecraft/internal/item"
)

func TestTransformers(t *testing.T) {
	in := item.Of("minecraft:iron_ingot").WithCount(5)

	assert.Equal(t, in, Keep(in))
	assert.True(t, Consume(in).IsEmpty())
	assert.Equal(t, item.Of("minecraft:bucket"), Replace(item.MustParseID("minecraft:bucket"))(in))
	assert.True(t, Replace(item.MustParseID("minecraft:bucket"))(item.Empty).IsEmpty())
	assert.Equal(t, 3, Shrink(2)(in).Count)
	assert.True(t, Shrink(5)(in).IsEmpty())
}

func TestDamage(t *testing.T) {
	hammer := item.Of("extremecraft:hammer")
	once := Damage(1)(hammer)
	twice := Damage(1)(once)

	assert.Equal(t, int64(1), once.Tag.Int("Damage"))
	assert.Equal(t, int64(2), twice.Tag.Int("Damage"))
	assert.Nil(t, hammer.Tag, "input must not be mutated")
	assert.True(t, Damage(1)(item.Empty).IsEmpty())
}

func TestTransformerByName(t *testing.T) {
	in := item.Of("minecraft:stone").WithCount(4)

	tests := []struct {
		name string
		want item.Stack
	}{
		{"keep", in},
		{"consume", item.Empty},
		{"replace:minecraft:cobblestone", item.Of("minecraft:cobblestone")},
		{"shrink:1", in.WithCount(3)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fn, err := TransformerByName(tt.name)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(fn(in)), "got %s", fn(in))
		})
	}

	fn, err := TransformerByName("damage:3")
	require.NoError(t, err)
	assert.Equal(t, int64(3), fn(in).Tag.Int("Damage"))

	for _, bad := range []string{"", "explode", "shrink:x", "shrink:-1", "replace:Bad Id"} {
		_, err := TransformerByName(bad)
		assert.Error(t, err, bad)
	}
}

func TestParseTransformers(t *testing.T) {
	table, err := ParseTransformers(map[int]string{0: "keep", 4: "consume"})
	require.NoError(t, err)
	assert.Len(t, table, 2)

	_, err = ParseTransformers(map[int]string{3: "nope"})
	assert.ErrorContains(t, err, "slot 3")
}
