package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	harnessScenarios = "../harness/testdata/scenarios"
	harnessGolden    = "../harness/testdata/golden"
)

func TestTestCommandMissingArgs(t *testing.T) {
	_, err := execute(t, "test")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg")
}

func TestTestCommandNonExistentScenariosDir(t *testing.T) {
	_, err := execute(t, "test", "/nonexistent/scenarios")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "scenarios directory not found")
}

func TestTestCommandEmptyDir(t *testing.T) {
	out, err := execute(t, "test", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "No scenarios found.")
}

func TestTestCommandPassesWithGolden(t *testing.T) {
	out, err := execute(t, "test", harnessScenarios, "--golden-dir", harnessGolden)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ hammer_tools\n")
	assert.Contains(t, out, "✓ meals\n")
	assert.Contains(t, out, "Test Summary: 2 passed, 0 failed, 2 total")
}

func TestTestCommandFilterJSON(t *testing.T) {
	out, err := execute(t, "--format", "json", "test", harnessScenarios, "--golden-dir", harnessGolden, "--filter", "meal*")
	require.NoError(t, err)

	var resp struct {
		Status string     `json:"status"`
		Data   TestResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 1, resp.Data.Total)
	assert.Equal(t, []ScenarioResult{{Name: "meals", Pass: true}}, resp.Data.Scenarios)
}

func TestTestCommandUpdateWritesGolden(t *testing.T) {
	goldenDir := filepath.Join(t.TempDir(), "golden")

	out, err := execute(t, "test", harnessScenarios, "--golden-dir", goldenDir, "--update")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ meals (golden updated)")

	for _, name := range []string{"meals", "hammer_tools"} {
		got, err := os.ReadFile(filepath.Join(goldenDir, name+".golden"))
		require.NoError(t, err)
		want, err := os.ReadFile(filepath.Join(harnessGolden, name+".golden"))
		require.NoError(t, err)
		assert.Equal(t, string(want), string(got), name)
	}
}

func TestTestCommandGoldenMismatch(t *testing.T) {
	goldenDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(goldenDir, "meals.golden"), []byte("{}\n"), 0o644))

	out, err := execute(t, "test", harnessScenarios, "--golden-dir", goldenDir, "--filter", "meals")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ meals")
	assert.Contains(t, out, "trace does not match golden file")
}

func TestTestCommandFailingScenario(t *testing.T) {
	pack, err := filepath.Abs(basicPack)
	require.NoError(t, err)

	dir := t.TempDir()
	scenario := "name: wrong_output\n" +
		"description: \"expects the wrong stew count\"\n" +
		"pack: " + pack + "\n" +
		`crafts:
  - grid:
      width: 3
      height: 3
      slots:
        0: minecraft:wheat
        1: minecraft:milk_bucket
        2: extremecraft:neutron_pile
    expect:
      match: true
      output: extremecraft:ultimate_stew*9
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "wrong.yaml"), []byte(scenario), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.yml"), []byte("name: [\n"), 0o644))

	out, err := execute(t, "--format", "json", "test", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp struct {
		Status string     `json:"status"`
		Data   TestResult `json:"data"`
		Error  *CLIError  `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, 2, resp.Data.Failed)
	require.Len(t, resp.Data.Scenarios, 2)

	assert.Equal(t, "broken.yml", resp.Data.Scenarios[0].Name)
	assert.Contains(t, resp.Data.Scenarios[0].Errors[0], "failed to load scenario")

	assert.Equal(t, "wrong_output", resp.Data.Scenarios[1].Name)
	assert.Equal(t, []string{
		"crafts[0]: expected output extremecraft:ultimate_stew*9, got extremecraft:ultimate_stew",
	}, resp.Data.Scenarios[1].Errors)
	assert.Equal(t, "E_TEST_FAILED", resp.Error.Code)
}
