package labeller

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hedgerow-pam/birdprep/internal/errors"
)

const (
	testLabelDir = "data/labels/HedgerowNorth_20240605_184000"
	testImageDir = "data/spectrograms/HedgerowNorth_20240605_184000"
)

func TestExportWritesLabelsAndImage(t *testing.T) {
	t.Parallel()

	s, fs, _ := loadedSession(t)
	require.NoError(t, s.SetClass("European Robin"))
	_, err := s.Drag(ScreenPoint{30, 20}, ScreenPoint{90, 60})
	require.NoError(t, err)
	require.NoError(t, s.SetClass("Dunnock"))
	_, err = s.Drag(ScreenPoint{12, 8}, ScreenPoint{36, 40})
	require.NoError(t, err)

	res, err := s.Export()
	require.NoError(t, err)

	assert.Equal(t, ExportResult{
		Index:     0,
		LabelPath: testLabelDir + "/0.txt",
		ImagePath: testImageDir + "/0.png",
		Boxes:     2,
	}, res)
	assert.Equal(t, StateChunkLoaded, s.State())

	data, err := afero.ReadFile(fs, res.LabelPath)
	require.NoError(t, err)
	assert.Equal(t,
		"0 0.500000 0.500000 0.500000 0.500000\n"+
			"1 0.200000 0.700000 0.200000 0.400000\n",
		string(data))

	exists, err := afero.Exists(fs, res.ImagePath)
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Len(t, s.Boxes(), 2, "export keeps the boxes")
	assert.Equal(t, 1, s.Status().Exported)
}

func TestExportNumberingIncrements(t *testing.T) {
	t.Parallel()

	s, _, _ := loadedSession(t)
	for want := range 3 {
		require.NoError(t, s.LoadChunk(float64(want)))
		_, err := s.Drag(ScreenPoint{10, 10}, ScreenPoint{40, 40})
		require.NoError(t, err)

		res, err := s.Export()
		require.NoError(t, err)
		assert.Equal(t, want, res.Index)
	}
}

func TestExportSkipsTakenNumbers(t *testing.T) {
	t.Parallel()

	s, fs, _ := loadedSession(t)
	require.NoError(t, afero.WriteFile(fs, testLabelDir+"/0.txt", []byte("0 0.5 0.5 0.1 0.1\n"), 0o644))
	require.NoError(t, afero.WriteFile(fs, testLabelDir+"/2.txt", []byte("0 0.5 0.5 0.1 0.1\n"), 0o644))
	require.NoError(t, afero.WriteFile(fs, testLabelDir+"/notes.md", []byte("ignored"), 0o644))

	_, err := s.Drag(ScreenPoint{10, 10}, ScreenPoint{40, 40})
	require.NoError(t, err)

	res, err := s.Export()
	require.NoError(t, err)
	assert.Equal(t, 3, res.Index)
}

func TestExportRequiresBoxes(t *testing.T) {
	t.Parallel()

	s, fs, _ := loadedSession(t)
	_, err := s.Export()
	require.Error(t, err)
	assert.True(t, errors.IsUserInput(err))

	exists, err := afero.DirExists(fs, testLabelDir)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestExportReadOnlyFilesystem(t *testing.T) {
	t.Parallel()

	s, fs, _ := loadedSession(t)
	_, err := s.Drag(ScreenPoint{10, 10}, ScreenPoint{40, 40})
	require.NoError(t, err)

	s.fs = afero.NewReadOnlyFs(fs)
	_, err = s.Export()
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryFileIO))
	assert.Equal(t, StateChunkLoaded, s.State())
	assert.Len(t, s.Boxes(), 1)
}
