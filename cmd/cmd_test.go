package cmd

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexiusacademia/rcbeam/internal/design"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "rcbeam")
	assert.Contains(t, out, "NSCP2015")
}

func TestCodes(t *testing.T) {
	out, err := execute(t, "codes")
	require.NoError(t, err)
	assert.Contains(t, out, "IS456 (default)")
	assert.Contains(t, out, "ACI318")

	out, err = execute(t, "codes", "NSCP2015")
	require.NoError(t, err)
	assert.Contains(t, out, "FC28")
	assert.Contains(t, out, "LOAD COMBINATIONS")

	_, err = execute(t, "codes", "EC2")
	assert.Error(t, err)
}

func TestClause(t *testing.T) {
	out, err := execute(t, "clause", "IS456:40.1")
	require.NoError(t, err)
	assert.Contains(t, out, "IS456:40.1")
	assert.Contains(t, out, "Used by")

	_, err = execute(t, "clause", "IS456:999.9")
	assert.Error(t, err)
}

func TestMoment(t *testing.T) {
	out, err := execute(t, "moment", "--design-code", "NSCP2015", "-d", "50", "-l", "30", "--all")
	require.NoError(t, err)
	assert.Contains(t, out, "FACTORED MOMENT (Mu) = 108.00 kN-m")
	assert.Contains(t, out, "GOVERNS")
}

func TestDesignJSON(t *testing.T) {
	out, err := execute(t, "design",
		"-b", "230", "--depth", "450", "-d", "400", "--concrete", "M20", "--steel", "Fe415",
		"--mu", "60", "--vu", "100", "--span", "4000", "--label", "B-1", "--json")
	require.NoError(t, err)

	var res design.Result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "B-1", res.Label)
	assert.Equal(t, "IS456", res.Code)
	assert.Equal(t, design.StatusPass, res.Status)
}

func TestSectionAnalyze(t *testing.T) {
	path := filepath.Join(t.TempDir(), "t-beam.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"name": "T-Beam",
		"vertices": [
			{"x": 0, "y": 0}, {"x": 300, "y": 0}, {"x": 300, "y": 400},
			{"x": 600, "y": 400}, {"x": 600, "y": 500}, {"x": 0, "y": 500}
		],
		"reinforcement": [{"y": 65, "area": 1256.64, "description": "4-20mm"}]
	}`), 0o644))

	out, err := execute(t, "section", "analyze", "-f", path,
		"--design-code", "NSCP2015", "--concrete", "FC28", "--steel", "G415", "--diagram")
	require.NoError(t, err)
	assert.Contains(t, out, "POLYGONAL SECTION ANALYSIS - NSCP2015")
	assert.Contains(t, out, "DESIGN CAPACITY")
	assert.Contains(t, out, "T-BEAM")

	out, err = execute(t, "section", "design", "-f", path,
		"--design-code", "NSCP2015", "--concrete", "FC28", "--steel", "G415", "--diagram=false", "--mu", "150")
	require.NoError(t, err)
	assert.Contains(t, out, "REQUIRED TENSION STEEL")
}
