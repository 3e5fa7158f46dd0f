package registry

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/extremecraft/internal/ingredient"
	"github.com/roach88/extremecraft/internal/inventory"
	"github.com/roach88/extremecraft/internal/item"
	"github.com/roach88/extremecraft/internal/recipe"
	ectest "github.com/roach88/extremecraft/internal/testutil"
)

func shapeless(id string, out string, ings ...string) *recipe.ShapelessExtreme {
	list := make([]ingredient.Ingredient, len(ings))
	for i, s := range ings {
		list[i] = ingredient.MustIDs(s)
	}
	return recipe.NewShapelessExtreme(item.MustParseID(id), list, item.MustParseStack(out))
}

func grid(t *testing.T, w, h int, slots map[int]string) *inventory.Grid {
	t.Helper()
	g := inventory.NewGrid(w, h)
	for slot, s := range slots {
		require.NoError(t, g.Set(slot, item.MustParseStack(s)))
	}
	return g
}

func TestReplaceAndLookup(t *testing.T) {
	m := New()
	assert.Equal(t, uuid.Nil, m.ReloadID())

	id, err := m.Replace([]recipe.Recipe{
		shapeless("test:b", "minecraft:gravel", "minecraft:stone"),
		shapeless("test:a", "minecraft:sand", "minecraft:gravel"),
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, id)
	assert.Equal(t, id, m.ReloadID())
	assert.Equal(t, 2, m.Len())

	got := m.Recipes()
	require.Len(t, got, 2)
	assert.Equal(t, "test:a", got[0].ID().String())
	assert.Equal(t, "test:b", got[1].ID().String())

	r, ok := m.Get(item.MustParseID("test:b"))
	require.True(t, ok)
	assert.Equal(t, "minecraft:gravel", r.ResultItem().Item.String())

	_, ok = m.Get(item.MustParseID("test:missing"))
	assert.False(t, ok)
}

func TestReplaceRejectsDuplicates(t *testing.T) {
	m := New()
	_, err := m.Replace([]recipe.Recipe{shapeless("test:a", "x", "y")})
	require.NoError(t, err)
	before := m.ReloadID()

	_, err = m.Replace([]recipe.Recipe{shapeless("test:c", "x", "y"), shapeless("test:c", "x", "z")})
	assert.ErrorContains(t, err, "duplicate recipe id test:c")
	assert.Equal(t, before, m.ReloadID(), "failed replace must not change the registry")
	assert.Equal(t, 1, m.Len())
}

func TestReplaceNewReloadID(t *testing.T) {
	m := New()
	first, err := m.Replace(nil)
	require.NoError(t, err)
	second, err := m.Replace(nil)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestWithReloadIDs(t *testing.T) {
	m := New(WithReloadIDs(ectest.NewSequentialReloadIDs()))
	first, err := m.Replace(nil)
	require.NoError(t, err)
	second, err := m.Replace(nil)
	require.NoError(t, err)

	assert.Equal(t, "00000000-0000-0000-0000-000000000001", first.String())
	assert.Equal(t, "00000000-0000-0000-0000-000000000002", second.String())
	assert.Equal(t, second, m.ReloadID())
}

func TestAddAndClear(t *testing.T) {
	m := New()
	require.NoError(t, m.Add(shapeless("test:a", "x", "y")))
	assert.ErrorContains(t, m.Add(shapeless("test:a", "x", "y")), "duplicate")
	assert.Equal(t, 1, m.Len())

	m.Clear()
	assert.Zero(t, m.Len())
	assert.Empty(t, m.Recipes())
	assert.Equal(t, uuid.Nil, m.ReloadID())
}

func TestFindMatch(t *testing.T) {
	m := New()
	_, err := m.Replace([]recipe.Recipe{
		shapeless("test:alloy", "extremecraft:alloy", "minecraft:iron_ingot", "minecraft:gold_ingot"),
		shapeless("test:single", "minecraft:stick", "minecraft:oak_planks"),
	})
	require.NoError(t, err)

	r, ok := m.FindMatch(grid(t, 9, 9, map[int]string{80: "minecraft:gold_ingot", 3: "minecraft:iron_ingot"}))
	require.True(t, ok)
	assert.Equal(t, "test:alloy", r.ID().String())

	_, ok = m.FindMatch(grid(t, 9, 9, map[int]string{0: "minecraft:gold_ingot"}))
	assert.False(t, ok)

	_, ok = m.FindMatch(inventory.NewGrid(9, 9))
	assert.False(t, ok)
}

// countingRecipe records how often Matches runs.
type countingRecipe struct {
	*recipe.ShapelessExtreme
	calls int
}

func (r *countingRecipe) Matches(c inventory.Container) bool {
	r.calls++
	return r.ShapelessExtreme.Matches(c)
}

func TestFindMatchHonorsDimensions(t *testing.T) {
	ings := make([]string, 10)
	for i := range ings {
		ings[i] = "minecraft:stone"
	}
	big := &countingRecipe{ShapelessExtreme: shapeless("test:ten", "minecraft:bedrock", ings...)}
	m := New()
	_, err := m.Replace([]recipe.Recipe{big})
	require.NoError(t, err)

	_, ok := m.FindMatch(grid(t, 3, 3, map[int]string{0: "minecraft:stone"}))
	assert.False(t, ok)
	assert.Zero(t, big.calls, "a 3x3 grid is rejected before matching")

	slots := map[int]string{}
	for i := range 10 {
		slots[i] = "minecraft:stone"
	}
	r, ok := m.FindMatch(grid(t, 2, 5, slots))
	require.True(t, ok)
	assert.Equal(t, "test:ten", r.ID().String())
	assert.Equal(t, 1, big.calls)
}

func TestFindMatchCache(t *testing.T) {
	m := New()
	_, err := m.Replace([]recipe.Recipe{shapeless("test:alloy", "extremecraft:alloy", "minecraft:iron_ingot", "minecraft:gold_ingot")})
	require.NoError(t, err)

	g := grid(t, 9, 9, map[int]string{0: "minecraft:iron_ingot", 1: "minecraft:gold_ingot"})
	moved := grid(t, 9, 9, map[int]string{40: "minecraft:gold_ingot*5", 7: "minecraft:iron_ingot"})

	hits := testutil.ToFloat64(matchCacheHits)
	_, ok := m.FindMatch(g)
	require.True(t, ok)
	assert.Equal(t, hits, testutil.ToFloat64(matchCacheHits), "first lookup misses the cache")

	_, ok = m.FindMatch(moved)
	require.True(t, ok)
	assert.Equal(t, hits+1, testutil.ToFloat64(matchCacheHits), "same multiset in other slots hits the cache")

	// A reload flushes the cache and drops the recipe.
	_, err = m.Replace(nil)
	require.NoError(t, err)
	_, ok = m.FindMatch(g)
	assert.False(t, ok)
	assert.Equal(t, hits+1, testutil.ToFloat64(matchCacheHits))
}

func TestAddFlushesMatchCache(t *testing.T) {
	m := New()
	require.NoError(t, m.Add(shapeless("test:zzz", "minecraft:gravel", "minecraft:stone")))

	g := grid(t, 3, 3, map[int]string{0: "minecraft:stone"})
	r, ok := m.FindMatch(g)
	require.True(t, ok)
	assert.Equal(t, "test:zzz", r.ID().String())

	require.NoError(t, m.Add(shapeless("test:aaa", "minecraft:sand", "minecraft:stone")))
	r, ok = m.FindMatch(g)
	require.True(t, ok)
	assert.Equal(t, "test:aaa", r.ID().String(), "the earliest id wins after an add")
}

func TestFingerprint(t *testing.T) {
	a := grid(t, 9, 9, map[int]string{0: "minecraft:iron_ingot*3", 5: "minecraft:gold_ingot"})
	b := grid(t, 9, 9, map[int]string{70: "minecraft:gold_ingot*9", 2: "minecraft:iron_ingot"})
	c := grid(t, 3, 3, map[int]string{0: "minecraft:iron_ingot", 1: "minecraft:gold_ingot"})
	d := grid(t, 9, 9, map[int]string{0: `minecraft:iron_ingot{"k":1}`, 5: "minecraft:gold_ingot"})

	assert.Equal(t, fingerprint(a), fingerprint(b))
	assert.NotEqual(t, fingerprint(a), fingerprint(c), "dimensions are part of the key")
	assert.NotEqual(t, fingerprint(a), fingerprint(d), "tags are part of the key")
}

func TestCraft(t *testing.T) {
	cake := shapeless("test:cake", "minecraft:cake", "minecraft:milk_bucket", "minecraft:sugar")
	hammer := shapeless("test:hammered", "minecraft:iron_nugget*9", "minecraft:iron_ingot", "extremecraft:hammer")
	hammer.SetTransformers(map[int]recipe.Transformer{1: recipe.Damage(1)})

	m := New()
	_, err := m.Replace([]recipe.Recipe{cake, hammer})
	require.NoError(t, err)

	res, ok := m.Craft(grid(t, 3, 3, map[int]string{0: "minecraft:sugar", 4: "minecraft:milk_bucket"}))
	require.True(t, ok)
	assert.Equal(t, "test:cake", res.Recipe.ID().String())
	assert.True(t, res.Output.Equal(item.Of("minecraft:cake")))
	require.Len(t, res.Remaining, 9)
	assert.Equal(t, item.Of("minecraft:bucket"), res.Remaining[4])
	assert.True(t, res.Remaining[0].IsEmpty())

	res, ok = m.Craft(grid(t, 3, 3, map[int]string{0: "minecraft:iron_ingot", 1: "extremecraft:hammer"}))
	require.True(t, ok)
	assert.Equal(t, 9, res.Output.Count)
	assert.True(t, res.Remaining[0].IsEmpty())
	assert.Equal(t, int64(1), res.Remaining[1].Tag.Int("Damage"))

	_, ok = m.Craft(grid(t, 3, 3, map[int]string{0: "minecraft:dirt"}))
	assert.False(t, ok)
}

func TestWithRemainders(t *testing.T) {
	m := New(WithRemainders(nil))
	_, err := m.Replace([]recipe.Recipe{shapeless("test:cake", "minecraft:cake", "minecraft:milk_bucket")})
	require.NoError(t, err)

	res, ok := m.Craft(grid(t, 3, 3, map[int]string{0: "minecraft:milk_bucket"}))
	require.True(t, ok)
	assert.True(t, res.Remaining[0].IsEmpty())
}

func TestMetrics(t *testing.T) {
	m := New()
	attempts := testutil.ToFloat64(matchAttempts)
	hits := testutil.ToFloat64(matchHits)
	reloads := testutil.ToFloat64(reloadsTotal)

	_, err := m.Replace([]recipe.Recipe{shapeless("test:a", "x", "minecraft:stone"), shapeless("test:b", "x", "minecraft:dirt")})
	require.NoError(t, err)
	assert.Equal(t, reloads+1, testutil.ToFloat64(reloadsTotal))
	assert.Equal(t, float64(2), testutil.ToFloat64(recipesLoaded))

	m.FindMatch(grid(t, 3, 3, map[int]string{0: "minecraft:stone"}))
	m.FindMatch(grid(t, 3, 3, map[int]string{0: "minecraft:sand"}))
	assert.Equal(t, attempts+2, testutil.ToFloat64(matchAttempts))
	assert.Equal(t, hits+1, testutil.ToFloat64(matchHits))
}

func TestConcurrentReloadAndMatch(t *testing.T) {
	m := New()
	set := []recipe.Recipe{shapeless("test:a", "minecraft:gravel", "minecraft:stone")}
	_, err := m.Replace(set)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			g := inventory.NewGrid(3, 3)
			_ = g.Set(i%9, item.Of("minecraft:stone"))
			for range 100 {
				if r, ok := m.FindMatch(g); ok {
					assert.Equal(t, "test:a", r.ID().String())
				}
			}
		}()
	}
	for range 20 {
		_, err := m.Replace(set)
		require.NoError(t, err)
	}
	wg.Wait()
	assert.Equal(t, 1, m.Len())
}
