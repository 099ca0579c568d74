package partition

import (
	"slices"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hedgerow-pam/birdprep/internal/errors"
)

func TestPartitionByLocation(t *testing.T) {
	t.Parallel()

	input := detectionCSV("\n", append(slices.Clone(detectionRows),
		"06/06/2024 05:12,0.0,3.0,Alauda arvensis,Eurasian Skylark,South Meadow,0.88")...)

	res, err := PartitionByLocation(strings.NewReader(input), []string{"North Control Grassland", "Hedgerow North"})
	require.NoError(t, err)

	assert.Equal(t, []string{"Hedgerow North", "North Control Grassland"}, res.Order)
	assert.Len(t, res.Groups["Hedgerow North"], 3)
	assert.Len(t, res.Groups["North Control Grassland"], 1)
	assert.Equal(t, 4, res.Rows)
	assert.Equal(t, 1, res.Skipped)
}

func TestPartitionByLocationShortRow(t *testing.T) {
	t.Parallel()

	_, err := PartitionByLocation(
		strings.NewReader(detectionCSV("\n", "05/06/2024 18:47,0.0,3.0,Erithacus rubecula,European Robin")),
		[]string{"Hedgerow North"})
	require.Error(t, err)
	assert.True(t, errors.IsMalformedInput(err))
}

func TestLocationFileName(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"Hedgerow North":          "hedgerow_north.csv",
		"North Control Grassland": "north_control_grassland.csv",
		"  Site 4 / East ":        "site_4_east.csv",
		"":                        "unknown.csv",
	}
	for in, want := range tests {
		assert.Equal(t, want, LocationFileName(in), "location %q", in)
	}
}

func TestWriteLocations(t *testing.T) {
	t.Parallel()

	res, err := PartitionByLocation(strings.NewReader(detectionCSV("\n", detectionRows...)), []string{"Hedgerow North"})
	require.NoError(t, err)

	fs := afero.NewMemMapFs()
	paths, err := WriteLocations(fs, "csv/raw", res)
	require.NoError(t, err)
	require.Equal(t, []string{"csv/raw/hedgerow_north.csv"}, paths)

	data, err := afero.ReadFile(fs, paths[0])
	require.NoError(t, err)
	assert.Equal(t,
		detectionHeader+"\n"+detectionRows[0]+"\n"+detectionRows[1]+"\n"+detectionRows[3]+"\n",
		string(data))
}
