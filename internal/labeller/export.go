package labeller

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/afero"

	"github.com/hedgerow-pam/birdprep/internal/errors"
	"github.com/hedgerow-pam/birdprep/internal/logger"
	"github.com/hedgerow-pam/birdprep/internal/myaudio"
	"github.com/hedgerow-pam/birdprep/internal/spectrogram"
)

const labelExt = ".txt"

// ExportResult describes the files one Export wrote.
type ExportResult struct {
	Index     int
	LabelPath string
	ImagePath string
	Boxes     int
}

// Export writes the boxes of the current chunk to
// <label dir>/<wav stem>/<n>.txt, one "<class> <cx> <cy> <w> <h>" row per
// box, and the chunk preview to <spectrogram dir>/<wav stem>/<n>.png, where
// n is the number of label files already written for the recording.
func (s *Session) Export() (ExportResult, error) {
	if s.state != StateChunkLoaded {
		return ExportResult{}, userError("load a chunk before exporting")
	}
	if len(s.boxes) == 0 {
		return ExportResult{}, userError("draw at least one box before exporting")
	}

	s.state = StateExporting
	defer func() { s.state = StateChunkLoaded }()

	stem := myaudio.Stem(s.wavPath)
	labelDir := filepath.Join(s.cfg.Paths.LabelDir, stem)
	if err := s.fs.MkdirAll(labelDir, 0o755); err != nil {
		return ExportResult{}, errors.FileError(fmt.Errorf("create label directory: %w", err), labelDir)
	}

	n, err := nextExportIndex(s.fs, labelDir)
	if err != nil {
		return ExportResult{}, err
	}

	res := ExportResult{
		Index:     n,
		LabelPath: filepath.Join(labelDir, strconv.Itoa(n)+labelExt),
		ImagePath: filepath.Join(s.cfg.Paths.SpectrogramDir, stem, strconv.Itoa(n)+".png"),
		Boxes:     len(s.boxes),
	}

	var sb strings.Builder
	for _, box := range s.boxes {
		sb.WriteString(box.LabelRow())
		sb.WriteByte('\n')
	}
	if err := afero.WriteFile(s.fs, res.LabelPath, []byte(sb.String()), 0o644); err != nil {
		return ExportResult{}, errors.FileError(fmt.Errorf("write labels: %w", err), res.LabelPath)
	}
	if err := spectrogram.SavePNG(s.fs, res.ImagePath, s.preview); err != nil {
		return ExportResult{}, err
	}

	s.exported++
	s.log.Info("Exported labels",
		logger.String("labels", res.LabelPath),
		logger.String("image", res.ImagePath),
		logger.Int("boxes", res.Boxes))
	return res, nil
}

// nextExportIndex counts existing label files in dir and returns the first
// unused number from there.
func nextExportIndex(fs afero.Fs, dir string) (int, error) {
	entries, err := afero.ReadDir(fs, dir)
	if err != nil {
		return 0, errors.FileError(fmt.Errorf("list label directory: %w", err), dir)
	}

	n := 0
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == labelExt {
			n++
		}
	}
	for {
		exists, err := afero.Exists(fs, filepath.Join(dir, strconv.Itoa(n)+labelExt))
		if err != nil {
			return 0, errors.FileError(err, dir)
		}
		if !exists {
			return n, nil
		}
		n++
	}
}
