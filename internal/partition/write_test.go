package partition

import (
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hedgerow-pam/birdprep/internal/logger"
)

func TestWriterRoundTrip(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "raw/detections.csv", []byte("\ufeff"+detectionCSV("\n", detectionRows...)), 0o644))

	res, err := ReadFile(fs, "raw/detections.csv")
	require.NoError(t, err)

	w := NewWriter(fs, "data/split", logger.Discard())
	summary, err := w.Write(res.Header, res.Table)
	require.NoError(t, err)
	assert.Equal(t, WriteSummary{Dir: "data/split", Files: 2, Rows: 4}, summary)

	var got []string
	for _, key := range res.Table.Keys() {
		data, err := afero.ReadFile(fs, filepath.Join("data/split", FileName(key)))
		require.NoError(t, err)

		lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
		require.NotEmpty(t, lines)
		assert.Equal(t, detectionHeader, lines[0], "header is byte-identical in %s", key)

		for _, line := range lines[1:] {
			k, err := ParseTimestamp(strings.SplitN(line, ",", 2)[0])
			require.NoError(t, err)
			assert.Equal(t, key, k, "row written to the wrong window")
		}
		got = append(got, lines[1:]...)
	}

	want := slices.Clone(detectionRows)
	slices.Sort(want)
	slices.Sort(got)
	assert.Equal(t, want, got, "output rows are the input rows")
}

func TestWriterPreservesRowOrderAndCRLF(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	res, err := Read(strings.NewReader(detectionCSV("\r\n", detectionRows...)))
	require.NoError(t, err)

	_, err = NewWriter(fs, "split", nil).Write(res.Header, res.Table)
	require.NoError(t, err)

	data, err := afero.ReadFile(fs, "split/20240605_184000.csv")
	require.NoError(t, err)
	assert.Equal(t,
		detectionHeader+"\r\n"+detectionRows[0]+"\r\n"+detectionRows[1]+"\r\n"+detectionRows[3]+"\r\n",
		string(data))
}

func TestWriterOverwritesExisting(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "split/20240605_190000.csv", []byte("stale\n"), 0o644))

	res, err := Read(strings.NewReader(detectionCSV("\n", detectionRows[2])))
	require.NoError(t, err)

	_, err = NewWriter(fs, "split", nil).Write(res.Header, res.Table)
	require.NoError(t, err)

	data, err := afero.ReadFile(fs, "split/20240605_190000.csv")
	require.NoError(t, err)
	assert.Equal(t, detectionHeader+"\n"+detectionRows[2]+"\n", string(data))
}

func TestWriterKeepsRowTerminators(t *testing.T) {
	t.Parallel()

	input := detectionHeader + "\r\n" +
		detectionRows[0] + "\n" +
		detectionRows[1] + "\r\n" +
		detectionRows[3]
	res, err := Read(strings.NewReader(input))
	require.NoError(t, err)

	fs := afero.NewMemMapFs()
	_, err = NewWriter(fs, "split", nil).Write(res.Header, res.Table)
	require.NoError(t, err)

	data, err := afero.ReadFile(fs, "split/20240605_184000.csv")
	require.NoError(t, err)
	assert.Equal(t,
		detectionHeader+"\r\n"+detectionRows[0]+"\n"+detectionRows[1]+"\r\n"+detectionRows[3]+"\r\n",
		string(data), "rows keep their own line ending; the unterminated last row gets the header's")
}

func TestWriterReadOnlyFs(t *testing.T) {
	t.Parallel()

	res, err := Read(strings.NewReader(detectionCSV("\n", detectionRows[0])))
	require.NoError(t, err)

	fs := afero.NewReadOnlyFs(afero.NewMemMapFs())
	_, err = NewWriter(fs, "split", nil).Write(res.Header, res.Table)
	assert.Error(t, err)
}
