package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateTestdataScenarios(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join(scenariosDir, "*.yaml"))
	require.NoError(t, err)

	out, _, err := execute(t, append([]string{"validate"}, paths...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ All scenarios valid")
}

func TestValidateReportsBundleErrors(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "host.cue"), []byte("bundle: {\n\tmodules: {}\n}\n"), 0644))
	scenario := filepath.Join(dir, "s.yaml")
	require.NoError(t, os.WriteFile(scenario, []byte("name: s\ndescription: d\nbundle: host.cue\n"), 0644))

	out, _, err := execute(t, "--format", "json", "validate", scenario)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp struct {
		Status string           `json:"status"`
		Data   ValidationResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.False(t, resp.Data.Valid)
	require.Len(t, resp.Data.Errors, 1)
	assert.Equal(t, filepath.Join(dir, "host.cue"), resp.Data.Errors[0].File)
	assert.NotEmpty(t, resp.Data.Errors[0].Code)
}

func TestValidateReportsScenarioErrors(t *testing.T) {
	scenario := filepath.Join(t.TempDir(), "s.yaml")
	require.NoError(t, os.WriteFile(scenario, []byte("name: s\n"), 0644))

	out, _, err := execute(t, "validate", scenario)
	require.Error(t, err)
	assert.Contains(t, out, "✗ Validation failed")
	assert.Contains(t, out, "E101: invalid scenario: description is required")
}

func TestValidateRequiresArguments(t *testing.T) {
	_, _, err := execute(t, "validate")
	require.Error(t, err)
}
