package partition

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/hedgerow-pam/birdprep/internal/errors"
	"github.com/hedgerow-pam/birdprep/internal/logger"
)

const (
	outputDirPermissions  = 0o755
	outputFilePermissions = 0o644
)

// Writer emits one CSV file per table entry into Dir.
type Writer struct {
	fs  afero.Fs
	dir string
	log logger.Logger
}

// WriteSummary reports what a Write produced.
type WriteSummary struct {
	Dir   string
	Files int
	Rows  int
}

// NewWriter returns a Writer rooted at dir on fs.
func NewWriter(fs afero.Fs, dir string, log logger.Logger) *Writer {
	return &Writer{fs: fs, dir: dir, log: logger.OrDiscard(log).Module("writer")}
}

// FileName returns the output file name for key.
func FileName(key RecordingKey) string {
	return string(key) + ".csv"
}

// Write creates Dir if needed and writes <key>.csv for every entry: the
// header line, then the rows in input order. Existing files are replaced.
func (w *Writer) Write(header Header, table *Table) (WriteSummary, error) {
	summary := WriteSummary{Dir: w.dir}

	if err := w.fs.MkdirAll(w.dir, outputDirPermissions); err != nil {
		return summary, errors.FileError(fmt.Errorf("create output directory: %w", err), w.dir)
	}

	for _, key := range MergeSort(table.Keys()) {
		rows := table.Rows(key)
		path := filepath.Join(w.dir, FileName(key))

		if err := writeRows(w.fs, path, header, rows); err != nil {
			return summary, err
		}

		summary.Files++
		summary.Rows += len(rows)
		w.log.Debug("Wrote recording CSV",
			logger.String("file", path),
			logger.Int("rows", len(rows)))
	}

	return summary, nil
}

// writeRows writes the header and rows to path, replacing any existing
// file. Each line keeps its own terminator; lines without one get the
// header's.
func writeRows(fs afero.Fs, path string, header Header, rows []DetectionRow) error {
	fallback := header.Terminator
	if fallback == "" {
		fallback = "\n"
	}

	var sb strings.Builder
	sb.WriteString(header.Line)
	sb.WriteString(fallback)
	for _, row := range rows {
		sb.WriteString(row.Line)
		if row.Terminator != "" {
			sb.WriteString(row.Terminator)
		} else {
			sb.WriteString(fallback)
		}
	}

	if err := afero.WriteFile(fs, path, []byte(sb.String()), outputFilePermissions); err != nil {
		return errors.FileError(fmt.Errorf("write csv: %w", err), path)
	}
	return nil
}
