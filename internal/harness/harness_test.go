package harness

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const basicPack = "../../../loader/testdata/basic"

// writeScenario writes a scenario into a temp dir, pointing it at the
// basic pack by absolute path.
func writeScenario(t *testing.T, body string) string {
	t.Helper()
	abs, err := filepath.Abs("testdata/scenarios")
	require.NoError(t, err)
	body = "pack: " + filepath.Join(abs, basicPack) + "\n" + body

	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadScenario(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/hammer_tools.yaml")
	require.NoError(t, err)

	assert.Equal(t, "hammer_tools", s.Name)
	assert.Equal(t, filepath.Join("testdata/scenarios", basicPack), s.Pack)
	assert.Equal(t, map[int]string{2: "keep"}, s.Transformers["extremecraft:tools/neutron_hammer"])
	require.Len(t, s.Crafts, 3)
	assert.Equal(t, 9, s.Crafts[0].Grid.Width)
	assert.Equal(t, "minecraft:stick", s.Crafts[0].Grid.Slots[2])
	assert.True(t, s.Crafts[0].Expect.Match)
	assert.NotNil(t, s.Crafts[1].Expect.Remaining, "explicit empty remaining still checks")
	assert.False(t, s.Crafts[2].Expect.Match)
}

func TestLoadScenario_Errors(t *testing.T) {
	grid := `
    grid:
      width: 3
      height: 3
      slots:
        0: minecraft:stone
`
	tests := []struct {
		name string
		body string
		want string
	}{
		{"unknown field", "name: x\ndescription: d\ncraft: []\n", "failed to parse YAML"},
		{"missing name", "description: d\ncrafts:\n  -" + grid + "    expect: {match: false}\n", "name is required"},
		{"missing description", "name: x\ncrafts:\n  -" + grid + "    expect: {match: false}\n", "description is required"},
		{"no crafts", "name: x\ndescription: d\ncrafts: []\n", "crafts list is required"},
		{"bad transformer", "name: x\ndescription: d\ntransformers:\n  \"a:b\":\n    0: melt\ncrafts:\n  -" + grid + "    expect: {match: false}\n", "unknown transformer"},
		{"bad grid", "name: x\ndescription: d\ncrafts:\n  - grid: {width: 0, height: 3}\n    expect: {match: false}\n", "width and height must be positive"},
		{"expectation without match", "name: x\ndescription: d\ncrafts:\n  -" + grid + "    expect: {match: false, recipe: \"a:b\"}\n", "require match: true"},
		{"bad output", "name: x\ndescription: d\ncrafts:\n  -" + grid + "    expect: {match: true, output: \"Bad Item\"}\n", "expect.output"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadScenario(writeScenario(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadScenario_MissingPack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s.yaml")
	body := "name: x\ndescription: d\npack: nowhere\ncrafts:\n  - grid: {width: 1, height: 1}\n    expect: {match: false}\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pack directory not found")
}

func TestLoadScenarios(t *testing.T) {
	scenarios, err := LoadScenarios("testdata/scenarios")
	require.NoError(t, err)
	require.Len(t, scenarios, 2)
	assert.Equal(t, "hammer_tools", scenarios[0].Name)
	assert.Equal(t, "meals", scenarios[1].Name)
}

func TestLoadScenarios_DuplicateName(t *testing.T) {
	data, err := os.ReadFile("testdata/scenarios/meals.yaml")
	require.NoError(t, err)
	abs, err := filepath.Abs(filepath.Join("testdata/scenarios", basicPack))
	require.NoError(t, err)
	data = []byte(strings.Replace(string(data), "pack: "+basicPack, "pack: "+abs, 1))

	dir := t.TempDir()
	for _, f := range []string{"a.yaml", "b.yml"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, f), data, 0o644))
	}

	_, err = LoadScenarios(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `scenario name "meals" already used`)
}

func TestScenarios_Golden(t *testing.T) {
	scenarios, err := LoadScenarios("testdata/scenarios")
	require.NoError(t, err)

	for _, s := range scenarios {
		t.Run(s.Name, func(t *testing.T) {
			result, err := RunWithGolden(t, s)
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
			assert.Empty(t, result.Errors)
			assert.Equal(t, "00000000-0000-0000-0000-000000000001", result.ReloadID)
			assert.Len(t, result.Trace, len(s.Crafts))
		})
	}
}

func TestRun_ReportsMismatches(t *testing.T) {
	path := writeScenario(t, `name: wrong
description: "every expectation is off"
crafts:
  - grid:
      width: 9
      height: 9
      slots:
        0: minecraft:carrot
        1: minecraft:milk_bucket
        2: extremecraft:neutron_pile
    expect:
      match: true
      recipe: extremecraft:cosmic_meatballs
      output: extremecraft:ultimate_stew*2
      remaining:
        3: minecraft:bucket
  - grid:
      width: 9
      height: 9
      slots:
        0: minecraft:beef
    expect:
      match: true
`)
	s, err := LoadScenario(path)
	require.NoError(t, err)

	result, err := Run(context.Background(), s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	assert.Equal(t, []string{
		"crafts[0]: expected output extremecraft:ultimate_stew*2, got extremecraft:ultimate_stew",
		"crafts[0]: expected recipe extremecraft:cosmic_meatballs, got extremecraft:ultimate_stew",
		"crafts[0]: slot 1: expected empty, got minecraft:bucket",
		"crafts[0]: slot 3: expected minecraft:bucket, got empty",
		"crafts[1]: expected a match, got none",
	}, result.Errors)

	require.Len(t, result.Trace, 2)
	assert.Equal(t, map[int]string{1: "minecraft:bucket"}, result.Trace[0].Remaining)
	assert.False(t, result.Trace[1].Match)
}

func TestRun_UnexpectedMatch(t *testing.T) {
	path := writeScenario(t, `name: surprise
description: "a match where none was expected"
crafts:
  - grid:
      width: 3
      height: 3
      slots:
        0: minecraft:beef
        1: minecraft:porkchop
        2: extremecraft:neutron_pile
    expect:
      match: false
`)
	s, err := LoadScenario(path)
	require.NoError(t, err)

	result, err := Run(context.Background(), s)
	require.NoError(t, err)
	assert.Equal(t, []string{"crafts[0]: expected no match, got extremecraft:cosmic_meatballs"}, result.Errors)
}

func TestRun_TransformerForUnknownRecipe(t *testing.T) {
	path := writeScenario(t, `name: ghost
description: "transformers for a recipe the pack lacks"
transformers:
  "extremecraft:ghost":
    0: keep
crafts:
  - grid: {width: 3, height: 3}
    expect: {match: false}
`)
	s, err := LoadScenario(path)
	require.NoError(t, err)

	_, err = Run(context.Background(), s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "transformers[extremecraft:ghost]: recipe not found in pack")
}

func TestRun_PackErrors(t *testing.T) {
	pack := t.TempDir()
	dir := filepath.Join(pack, "data", "x", "recipes")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.json"), []byte(`{"type": "extremecraft:shapeless_extreme_crafting"}`), 0o644))

	s := &Scenario{
		Name:        "broken",
		Description: "pack with a broken recipe",
		Pack:        pack,
		Crafts:      []CraftStep{{}},
	}
	_, err := Run(context.Background(), s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "E201")
}

func TestRun_CanceledContext(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/meals.yaml")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Run(ctx, s)
	assert.ErrorIs(t, err, context.Canceled)
}
