package InputParameters

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var jobYAML = []byte(`
Title: "Two cell square"
QuadratureOrder: 4
RelTol: 1.e-10
AllowInverted: true
Workers: 3
`)

func TestParse(t *testing.T) {
	var ap AssemblyParameters
	require.NoError(t, ap.Parse(jobYAML))
	assert.Equal(t, AssemblyParameters{
		Title:           "Two cell square",
		QuadratureOrder: 4,
		RelTol:          1.e-10,
		AllowInverted:   true,
		Workers:         3,
	}, ap)

	assert.ErrorContains(t, (&AssemblyParameters{}).Parse([]byte("QuadratureOrder: -1")), "non negative")
	assert.ErrorContains(t, (&AssemblyParameters{}).Parse([]byte("Dimension: 4")), "Dimension")
	assert.Error(t, (&AssemblyParameters{}).Parse([]byte("QuadratureOrder: [1")))
}

func TestReadFile(t *testing.T) {
	fileName := filepath.Join(t.TempDir(), "job.yaml")
	require.NoError(t, os.WriteFile(fileName, jobYAML, 0o644))
	ap, err := ReadFile(fileName)
	require.NoError(t, err)
	assert.Equal(t, 4, ap.QuadratureOrder)

	require.NoError(t, os.WriteFile(fileName, []byte("RelTol: -1"), 0o644))
	_, err = ReadFile(fileName)
	assert.ErrorContains(t, err, "job.yaml")
}
