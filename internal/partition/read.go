// Package partition splits a detection CSV into one CSV per 20-minute
// recording window and counts detections per species along the way.
package partition

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/afero"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/hedgerow-pam/birdprep/internal/errors"
)

// Column layout of the detection CSV.
const (
	ColTimestamp  = 0
	ColScientific = 3
	ColCommon     = 4
	ColLocation   = 5

	// minDetectionColumns is the shortest row the partitioner accepts.
	minDetectionColumns = ColCommon + 1
)

// DetectionRow is one data record. Fields are the parsed columns; Line is
// the record exactly as it appeared in the input, without its terminator.
// Terminator is empty for a last record with no line ending.
type DetectionRow struct {
	Fields     []string
	Line       string
	Terminator string
}

// Species identifies a bird by scientific and common name.
type Species struct {
	Scientific string
	Common     string
}

// SpeciesCount counts detections per species.
type SpeciesCount map[Species]int

// Total returns the sum of all counts.
func (c SpeciesCount) Total() int {
	total := 0
	for _, n := range c {
		total += n
	}
	return total
}

// Header is the input header row.
type Header struct {
	Fields     []string
	Line       string
	Terminator string // line ending of the header, also used for rows that have none
}

// Result is everything one scan of a detection CSV produces.
type Result struct {
	Header  Header
	Table   *Table
	Species SpeciesCount
	Rows    int
}

// ReadFile opens path on fs and partitions it.
func ReadFile(fs afero.Fs, path string) (*Result, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, errors.FileError(fmt.Errorf("open detections: %w", err), path)
	}
	defer f.Close()

	res, err := Read(f)
	if err != nil {
		return nil, errors.Wrap(err).Component("partition").FileContext(path).Build()
	}
	return res, nil
}

// Read partitions a detection CSV. The whole scan fails on the first row
// that is too short or carries an unparsable timestamp; no partial result
// is returned.
func Read(r io.Reader) (*Result, error) {
	res := &Result{
		Table:   NewTable(),
		Species: make(SpeciesCount),
	}

	header, err := scanRecords(r, func(n int, row DetectionRow) error {
		key, err := checkDetection(n, row)
		if err != nil {
			return err
		}

		res.Species[Species{Scientific: row.Fields[ColScientific], Common: row.Fields[ColCommon]}]++
		res.Table.Add(key, row)
		res.Rows++
		return nil
	})
	if err != nil {
		return nil, err
	}

	res.Header = header
	return res, nil
}

// Detections is a detection CSV kept as a flat list in input order.
type Detections struct {
	Header Header
	Rows   []DetectionRow
}

// ReadDetections reads a detection CSV without partitioning it, with the
// same decoding and row checks as Read.
func ReadDetections(fs afero.Fs, path string) (*Detections, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, errors.FileError(fmt.Errorf("open detections: %w", err), path)
	}
	defer f.Close()

	d := &Detections{}
	header, err := scanRecords(f, func(n int, row DetectionRow) error {
		if _, err := checkDetection(n, row); err != nil {
			return err
		}
		d.Rows = append(d.Rows, row)
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err).Component("partition").FileContext(path).Build()
	}

	d.Header = header
	return d, nil
}

// checkDetection validates row n and returns its recording key.
func checkDetection(n int, row DetectionRow) (RecordingKey, error) {
	if len(row.Fields) < minDetectionColumns {
		return "", shortRow(n, len(row.Fields), minDetectionColumns)
	}

	key, err := ParseTimestamp(row.Fields[ColTimestamp])
	if err != nil {
		return "", errors.Wrap(err).
			Component("partition").
			Category(errors.CategoryMalformedInput).
			Context("row", n).
			Build()
	}
	return key, nil
}

// scanRecords decodes r as UTF-8, dropping a leading byte-order mark, and
// calls fn for every data record with its 1-based row number.
func scanRecords(r io.Reader, fn func(n int, row DetectionRow) error) (Header, error) {
	data, err := io.ReadAll(transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder())))
	if err != nil {
		return Header{}, errors.New(fmt.Errorf("read detections: %w", err)).
			Component("partition").
			Category(errors.CategoryFileIO).
			Build()
	}

	cr := csv.NewReader(bytes.NewReader(data))
	cr.FieldsPerRecord = -1
	// stray quotes inside unquoted fields are kept as text; rows are
	// re-emitted from Line
	cr.LazyQuotes = true

	var offset int64
	next := func() ([]string, string, error) {
		fields, err := cr.Read()
		if err != nil {
			return nil, "", err
		}
		end := cr.InputOffset()
		raw := string(data[offset:end])
		offset = end
		return fields, raw, nil
	}

	fields, raw, err := next()
	if err == io.EOF {
		return Header{}, errors.Newf("detection file has no header row").
			Component("partition").
			Category(errors.CategoryMalformedInput).
			Build()
	}
	if err != nil {
		return Header{}, csvError(err)
	}

	line, term := splitTerminator(raw)
	header := Header{Fields: fields, Line: line, Terminator: term}
	if header.Terminator == "" {
		header.Terminator = "\n"
	}

	for n := 1; ; n++ {
		fields, raw, err := next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Header{}, csvError(err)
		}

		line, term := splitTerminator(raw)
		if err := fn(n, DetectionRow{Fields: fields, Line: line, Terminator: term}); err != nil {
			return Header{}, err
		}
	}

	return header, nil
}

// splitTerminator strips blank lines skipped before the record and returns
// the record text and its line ending.
func splitTerminator(raw string) (line, term string) {
	raw = strings.TrimLeft(raw, "\r\n")
	switch {
	case strings.HasSuffix(raw, "\r\n"):
		return raw[:len(raw)-2], "\r\n"
	case strings.HasSuffix(raw, "\n"):
		return raw[:len(raw)-1], "\n"
	default:
		return raw, ""
	}
}

func shortRow(n, got, want int) error {
	return errors.Newf("row has %d columns, need at least %d", got, want).
		Component("partition").
		Category(errors.CategoryMalformedInput).
		Context("row", n).
		Build()
}

func csvError(err error) error {
	ee := errors.New(fmt.Errorf("parse detections: %w", err)).
		Component("partition").
		Category(errors.CategoryMalformedInput)

	var pe *csv.ParseError
	if errors.As(err, &pe) {
		ee = ee.Context("line", pe.Line)
	}
	return ee.Build()
}
