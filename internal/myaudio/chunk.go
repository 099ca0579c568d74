package myaudio

import (
	"fmt"
	"path/filepath"
)

// Segment is one chunk of a recording.
type Segment struct {
	Index   int
	Offset  int // first sample in the source
	Samples []float64
}

// StartSeconds returns the segment start time in the source recording.
func (s Segment) StartSeconds(sampleRate int) float64 {
	if sampleRate <= 0 {
		return 0
	}
	return float64(s.Offset) / float64(sampleRate)
}

// Chunk cuts samples into windows of int(chunkSeconds*sampleRate) samples
// whose starts are int(hopSeconds*sampleRate) apart. Only full windows are
// returned, so a recording shorter than one window yields none.
// Segments share the backing array of samples.
func Chunk(samples []float64, sampleRate int, chunkSeconds, hopSeconds float64) ([]Segment, error) {
	if sampleRate <= 0 {
		return nil, validationError("sample rate must be positive, got %d", sampleRate)
	}

	size := int(chunkSeconds * float64(sampleRate))
	step := int(hopSeconds * float64(sampleRate))
	if size <= 0 {
		return nil, validationError("chunk length %.3fs is shorter than one sample", chunkSeconds)
	}
	if step <= 0 {
		return nil, validationError("hop length %.3fs is shorter than one sample", hopSeconds)
	}

	if len(samples) < size {
		return nil, nil
	}

	segments := make([]Segment, 0, (len(samples)-size)/step+1)
	for start := 0; start+size <= len(samples); start += step {
		segments = append(segments, Segment{
			Index:   len(segments),
			Offset:  start,
			Samples: samples[start : start+size],
		})
	}
	return segments, nil
}

// ChunkPath returns where segment index of the recording stem is stored
// under dir: <dir>/<stem>/<stem>_<index>.<ext>.
func ChunkPath(dir, stem string, index int, ext string) string {
	return filepath.Join(dir, stem, fmt.Sprintf("%s_%04d%s", stem, index, ext))
}

// Stem returns the file name of path without directory and extension.
func Stem(path string) string {
	base := filepath.Base(path)
	return base[:len(base)-len(filepath.Ext(base))]
}
