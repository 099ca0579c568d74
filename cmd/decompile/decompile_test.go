package decompile

import (
	"bytes"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hedgerow-pam/birdprep/internal/conf"
	"github.com/hedgerow-pam/birdprep/internal/config"
	"github.com/hedgerow-pam/birdprep/internal/errors"
)

const compiled = `date time,start,end,scientific name,common name,location,confidence
05/06/2024 18:47,0.0,3.0,Erithacus rubecula,European Robin,Hedgerow North,0.91
05/06/2024 19:02,6.0,9.0,Alauda arvensis,Eurasian Skylark,North Control Grassland,0.75
06/06/2024 05:12,0.0,3.0,Alauda arvensis,Eurasian Skylark,South Meadow,0.88
`

func newTestContext(t *testing.T) (*config.Context, afero.Fs, *bytes.Buffer) {
	t.Helper()

	settings, err := conf.Defaults()
	require.NoError(t, err)

	fs := afero.NewMemMapFs()
	out := &bytes.Buffer{}
	ctx := config.NewContext()
	ctx.Settings = settings
	ctx.Fs = fs
	ctx.Out = out
	return ctx, fs, out
}

func TestRunWritesLocationFiles(t *testing.T) {
	t.Parallel()

	ctx, fs, out := newTestContext(t)
	require.NoError(t, afero.WriteFile(fs, "data/csv/raw/compiled.csv", []byte(compiled), 0o644))

	require.NoError(t, run(ctx, "compiled.csv"))

	hedgerow, err := afero.ReadFile(fs, "data/csv/raw/hedgerow_north.csv")
	require.NoError(t, err)
	assert.Equal(t, `date time,start,end,scientific name,common name,location,confidence
05/06/2024 18:47,0.0,3.0,Erithacus rubecula,European Robin,Hedgerow North,0.91
`, string(hedgerow))

	exists, err := afero.Exists(fs, "data/csv/raw/north_control_grassland.csv")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = afero.Exists(fs, "data/csv/raw/south_meadow.csv")
	require.NoError(t, err)
	assert.False(t, exists, "locations outside the list are skipped")

	assert.Contains(t, out.String(), "2 rows kept, 1 rows from other locations skipped")
}

func TestRunWithoutLocations(t *testing.T) {
	t.Parallel()

	ctx, fs, _ := newTestContext(t)
	ctx.Settings.Decompile.Locations = nil
	require.NoError(t, afero.WriteFile(fs, "data/csv/raw/compiled.csv", []byte(compiled), 0o644))

	err := run(ctx, "compiled.csv")
	require.Error(t, err)
	assert.True(t, errors.IsUserInput(err))
}

func TestRunMissingInput(t *testing.T) {
	t.Parallel()

	ctx, _, _ := newTestContext(t)
	err := run(ctx, "compiled.csv")
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryFileIO))
}
