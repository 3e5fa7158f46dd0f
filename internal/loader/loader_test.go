package loader

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/extremecraft/internal/item"
	"github.com/roach88/extremecraft/internal/serializer"
	"github.com/roach88/extremecraft/internal/testutil"
)

const basicPack = "testdata/basic"

func ids(t *testing.T, res *Result) []string {
	t.Helper()
	out := make([]string, len(res.Recipes))
	for i, r := range res.Recipes {
		out[i] = r.ID().String()
	}
	return out
}

func TestLoadBasicPack(t *testing.T) {
	res, errs := Load(context.Background(), basicPack, Options{Mode: CollectAll})
	require.Empty(t, errs)
	require.NotNil(t, res)

	assert.Equal(t, []string{
		"extremecraft:cosmic_meatballs",
		"extremecraft:infinity_catalyst",
		"extremecraft:tools/neutron_hammer",
		"extremecraft:ultimate_stew",
	}, ids(t, res))
	assert.Equal(t, 4, res.FileCount)

	require.Len(t, res.Skipped, 1)
	assert.Equal(t, "minecraft:torch", res.Skipped[0].ID.String())
	assert.Equal(t, "minecraft:crafting_shaped", res.Skipped[0].Type.String())
}

func TestLoadResolvesNestedTags(t *testing.T) {
	res, errs := Load(context.Background(), basicPack, Options{})
	require.Empty(t, errs)

	members, ok := res.Tags.TagItems(item.MustParseID("forge:ingots/iron"))
	require.True(t, ok)
	assert.Equal(t, []item.ID{
		item.MustParseID("minecraft:iron_ingot"),
		item.MustParseID("extremecraft:neutronium_ingot"),
	}, members)

	hammer := res.Recipes[2]
	require.Equal(t, "extremecraft:tools/neutron_hammer", hammer.ID().String())
	ings := hammer.Ingredients()
	require.Len(t, ings, 3)
	assert.Equal(t, "minecraft:iron_ingot|extremecraft:neutronium_ingot", ings[0].String())
	assert.Equal(t, int64(0), hammer.ResultItem().Tag.Int("Damage"))
}

func TestLoadCUERecipes(t *testing.T) {
	res, errs := Load(context.Background(), basicPack, Options{Concurrency: 1})
	require.Empty(t, errs)

	meatballs := res.Recipes[0]
	assert.Equal(t, "extremecraft:cosmic_meatballs", meatballs.ID().String())
	assert.Equal(t, 2, meatballs.ResultItem().Count)
	assert.Len(t, meatballs.Ingredients(), 3)

	stew := res.Recipes[3]
	assert.Equal(t, "minecraft:wheat|minecraft:carrot", stew.Ingredients()[0].String())
	assert.Equal(t, 1, stew.ResultItem().Count)
}

func TestLoadDeterministicOrder(t *testing.T) {
	first, errs := Load(context.Background(), basicPack, Options{Concurrency: 8})
	require.Empty(t, errs)
	for range 5 {
		again, errs := Load(context.Background(), basicPack, Options{Concurrency: 8})
		require.Empty(t, errs)
		assert.Equal(t, ids(t, first), ids(t, again))
	}
}

func TestLoadMissingDirectory(t *testing.T) {
	res, errs := Load(context.Background(), "testdata/does-not-exist", Options{})
	assert.Nil(t, res)
	require.Len(t, errs, 1)

	var pe *PackError
	require.True(t, errors.As(errs[0], &pe))
	assert.Equal(t, ErrCodeNotFound, pe.Code)
}

func TestLoadNoDataDirectory(t *testing.T) {
	root := testutil.WritePack(t, map[string]string{"pack.mcmeta": `{}`})
	res, errs := Load(context.Background(), root, Options{})
	assert.Nil(t, res)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "no data directory")
}

func TestLoadNoRecipes(t *testing.T) {
	root := testutil.WritePack(t, map[string]string{
		"data/test/tags/items/rocks.json": `{"values":["minecraft:stone"]}`,
	})
	res, errs := Load(context.Background(), root, Options{Mode: CollectAll})
	assert.Nil(t, res)
	require.Len(t, errs, 1)

	var pe *PackError
	require.True(t, errors.As(errs[0], &pe))
	assert.Equal(t, ErrCodeNoFiles, pe.Code)
}

func brokenPack(t *testing.T) string {
	return testutil.WritePack(t, map[string]string{
		"data/test/recipes/a_good.json":           `{"type":"extremecraft:shapeless_extreme_crafting","ingredients":[{"item":"stone"}],"result":{"item":"gravel"}}`,
		"data/test/recipes/b_no_result.json":      `{"type":"extremecraft:shapeless_extreme_crafting","ingredients":[{"item":"stone"}]}`,
		"data/test/recipes/c_no_ingredients.json": `{"type":"extremecraft:shapeless_extreme_crafting","result":{"item":"stone"}}`,
		"data/test/recipes/d_bad_tag.json":        `{"type":"extremecraft:shapeless_extreme_crafting","ingredients":[{"tag":"test:nope"}],"result":{"item":"stone"}}`,
	})
}

func TestLoadCollectAll(t *testing.T) {
	res, errs := Load(context.Background(), brokenPack(t), Options{Mode: CollectAll})
	require.NotNil(t, res)
	assert.Equal(t, []string{"test:a_good"}, ids(t, res))

	require.Len(t, errs, 3)
	codes := make([]string, len(errs))
	for i, err := range errs {
		var le *serializer.LoadError
		require.True(t, errors.As(err, &le), "error %d: %v", i, err)
		codes[i] = le.Code
	}
	assert.Equal(t, []string{
		serializer.ErrCodeMissingResult,
		serializer.ErrCodeMissingIngredients,
		serializer.ErrCodeUnknownTag,
	}, codes)
}

func TestLoadFailFast(t *testing.T) {
	res, errs := Load(context.Background(), brokenPack(t), Options{Mode: FailFast})
	require.NotNil(t, res)
	require.Len(t, errs, 1)

	var le *serializer.LoadError
	require.True(t, errors.As(errs[0], &le))
	assert.Equal(t, serializer.ErrCodeMissingResult, le.Code)
	assert.Equal(t, "test:b_no_result", le.Recipe.String())
}

func TestLoadDuplicateIDs(t *testing.T) {
	root := testutil.WritePack(t, map[string]string{
		"data/test/recipes/dup.json": `{"type":"extremecraft:shapeless_extreme_crafting","ingredients":[{"item":"stone"}],"result":{"item":"gravel"}}`,
		"data/test/recipes/more.cue": `recipe: dup: {type: "extremecraft:shapeless_extreme_crafting", ingredients: [{item: "dirt"}], result: item: "sand"}`,
	})
	res, errs := Load(context.Background(), root, Options{Mode: CollectAll})
	require.NotNil(t, res)
	require.Len(t, res.Recipes, 1)
	require.Len(t, errs, 1)

	var le *serializer.LoadError
	require.True(t, errors.As(errs[0], &le))
	assert.Equal(t, serializer.ErrCodeDuplicateRecipe, le.Code)
}

func TestLoadBadCUE(t *testing.T) {
	root := testutil.WritePack(t, map[string]string{
		"data/test/recipes/ok.json":      `{"type":"extremecraft:shapeless_extreme_crafting","ingredients":[{"item":"stone"}],"result":{"item":"gravel"}}`,
		"data/test/recipes/syntax.cue":   `recipe: {`,
		"data/test/recipes/norecipe.cue": `other: 1`,
		"data/test/recipes/open.cue":     `recipe: x: {type: string, ingredients: [], result: {}}`,
	})
	res, errs := Load(context.Background(), root, Options{Mode: CollectAll})
	require.NotNil(t, res)
	assert.Equal(t, []string{"test:ok"}, ids(t, res))
	require.Len(t, errs, 3)
	for _, err := range errs {
		var pe *PackError
		require.True(t, errors.As(err, &pe), "%v", err)
		assert.Equal(t, ErrCodeCUEError, pe.Code)
	}
}

func TestLoadBadTags(t *testing.T) {
	root := testutil.WritePack(t, map[string]string{
		"data/test/tags/items/loop_a.json": `{"values":["#test:loop_b"]}`,
		"data/test/tags/items/loop_b.json": `{"values":["#test:loop_a"]}`,
		"data/test/recipes/ok.json":        `{"type":"extremecraft:shapeless_extreme_crafting","ingredients":[{"item":"stone"}],"result":{"item":"gravel"}}`,
	})

	_, errs := Load(context.Background(), root, Options{Mode: FailFast})
	require.Len(t, errs, 1)
	var pe *PackError
	require.True(t, errors.As(errs[0], &pe))
	assert.Equal(t, ErrCodeTagError, pe.Code)
	assert.Contains(t, errs[0].Error(), "cycle")

	res, errs := Load(context.Background(), root, Options{Mode: CollectAll})
	require.NotNil(t, res)
	assert.Len(t, res.Recipes, 1)
	assert.Len(t, errs, 1)
}

func TestLoadCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, errs := Load(ctx, basicPack, Options{})
	assert.Nil(t, res)
	require.NotEmpty(t, errs)
	assert.ErrorIs(t, errs[len(errs)-1], context.Canceled)
}
