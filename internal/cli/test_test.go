package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// copyScenario copies a testdata scenario and its bundle into a fresh
// scenarios/ directory and returns that directory.
func copyScenario(t *testing.T, name string) string {
	t.Helper()
	root := t.TempDir()
	dir := filepath.Join(root, "scenarios")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "bundles"), 0755))
	require.NoError(t, os.MkdirAll(dir, 0755))

	src, err := os.ReadFile(filepath.Join(scenariosDir, name+".yaml"))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, name+".yaml"), src, 0644))

	bundle, err := os.ReadFile(filepath.Join(scenariosDir, "..", "bundles", "discord.cue"))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(root, "bundles", "discord.cue"), bundle, 0644))
	return dir
}

func TestTestCommandTestdataPasses(t *testing.T) {
	out, _, err := execute(t, "test", scenariosDir)
	require.NoError(t, err, out)

	assert.Contains(t, out, "✓ found_and_missing")
	assert.Contains(t, out, "✓ every_search_type")
	assert.Contains(t, out, "Test Summary: 7 passed, 0 failed, 7 total")
}

func TestTestCommandFilterJSON(t *testing.T) {
	out, _, err := execute(t, "--format", "json", "test", scenariosDir, "--filter", "*patch*")
	require.NoError(t, err)

	var resp struct {
		Status string     `json:"status"`
		Data   TestResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 2, resp.Data.Total)
	assert.Equal(t, "mixed_patches", resp.Data.Scenarios[0].Name)
	assert.Equal(t, "unmatched_patch", resp.Data.Scenarios[1].Name)
}

func TestTestCommandGoldenMismatchFails(t *testing.T) {
	dir := copyScenario(t, "unmatched_patch")
	golden := filepath.Join(filepath.Dir(dir), "golden")
	require.NoError(t, os.MkdirAll(golden, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(golden, "unmatched_patch.golden"), []byte("stale\n"), 0644))

	out, _, err := execute(t, "test", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ unmatched_patch")
	assert.Contains(t, out, "does not match golden file")
}

func TestTestCommandUpdateWritesGolden(t *testing.T) {
	dir := copyScenario(t, "unmatched_patch")
	goldenDir := filepath.Join(t.TempDir(), "snapshots")

	_, _, err := execute(t, "test", dir, "--update", "--golden-dir", goldenDir)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(goldenDir, "unmatched_patch.golden"))
	require.NoError(t, err)
	assert.Equal(t, "INFO [Reporter] Starting test...\n"+
		"WARN [WebpackInterceptor] Patch by MessageLogger found no module (Module id is -): .MESSAGE_EDITED\n"+
		"INFO [Reporter] Finished test\n", string(data))

	_, _, err = execute(t, "test", dir, "--golden-dir", goldenDir)
	require.NoError(t, err)
}

func TestTestCommandBrokenScenarioFails(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.yaml"), []byte("name: broken\n"), 0644))

	out, _, err := execute(t, "test", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ broken.yaml")
	assert.Contains(t, out, "failed to load scenario")
}

func TestTestCommandEmptyDirectory(t *testing.T) {
	out, _, err := execute(t, "test", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "No scenarios found.")
}

func TestTestCommandMissingDirectory(t *testing.T) {
	_, _, err := execute(t, "test", filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestFindScenarioFilesWithFilter(t *testing.T) {
	files, err := findScenarioFiles(scenariosDir, "chunk_*")
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "chunk_load_failure.yaml", filepath.Base(files[0]))

	_, err = findScenarioFiles(scenariosDir, "[")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid filter pattern")
}

func TestGoldenFilePath(t *testing.T) {
	assert.Equal(t, filepath.Join("testdata", "golden", "x.golden"), goldenFilePath(filepath.Join("testdata", "golden"), "x"))
}
