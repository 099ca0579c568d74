package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hedgerow-pam/birdprep/internal/buildinfo"
	"github.com/hedgerow-pam/birdprep/internal/config"
	"github.com/hedgerow-pam/birdprep/internal/errors"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	out := &bytes.Buffer{}
	ctx := config.NewContext()
	ctx.Out = out
	ctx.Build = buildinfo.NewContext("0.3.0", "2024-06-05")
	t.Cleanup(func() { _ = ctx.Close() })

	root := RootCommand(ctx)
	root.SetArgs(args)
	root.SetOut(out)
	root.SetErr(&bytes.Buffer{})
	err := root.Execute()
	return out.String(), err
}

func TestFlagsOverrideConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
paths:
  dataroot: /mnt/field
labeller:
  defaultclass: Dunnock
`), 0o644))

	text, err := execute(t, "--config", path, "--data-root", "/srv/pam", "config")
	require.NoError(t, err)
	assert.Contains(t, text, "dataroot: /srv/pam")
	assert.Contains(t, text, "defaultclass: Dunnock")
}

func TestInvalidConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("labeller:\n  chunkseconds: -1\n"), 0o644))

	_, err := execute(t, "--config", path, "config")
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryValidation))
}

func TestVersion(t *testing.T) {
	text, err := execute(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, text, "0.3.0 (built 2024-06-05)")
}
