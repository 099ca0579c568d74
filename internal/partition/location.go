package partition

import (
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strings"
	"unicode"

	"github.com/spf13/afero"

	"github.com/hedgerow-pam/birdprep/internal/errors"
)

// minLocationColumns is the shortest row the location split accepts.
const minLocationColumns = ColLocation + 1

// LocationResult groups rows of a compiled multi-site CSV by location.
// Rows from locations outside the allow list are counted in Skipped.
type LocationResult struct {
	Header  Header
	Groups  map[string][]DetectionRow
	Order   []string
	Rows    int
	Skipped int
}

// PartitionByLocation groups rows by their location column, keeping only
// locations in allowed.
func PartitionByLocation(r io.Reader, allowed []string) (*LocationResult, error) {
	res := &LocationResult{Groups: make(map[string][]DetectionRow)}

	header, err := scanRecords(r, func(n int, row DetectionRow) error {
		if len(row.Fields) < minLocationColumns {
			return shortRow(n, len(row.Fields), minLocationColumns)
		}

		location := row.Fields[ColLocation]
		if !slices.Contains(allowed, location) {
			res.Skipped++
			return nil
		}

		if _, ok := res.Groups[location]; !ok {
			res.Order = append(res.Order, location)
		}
		res.Groups[location] = append(res.Groups[location], row)
		res.Rows++
		return nil
	})
	if err != nil {
		return nil, err
	}

	res.Header = header
	return res, nil
}

// LocationFileName turns a location such as "Hedgerow North" into
// "hedgerow_north.csv".
func LocationFileName(location string) string {
	var sb strings.Builder
	underscore := false
	for _, r := range strings.ToLower(strings.TrimSpace(location)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(r)
			underscore = false
			continue
		}
		if !underscore && sb.Len() > 0 {
			sb.WriteByte('_')
			underscore = true
		}
	}
	name := strings.TrimSuffix(sb.String(), "_")
	if name == "" {
		name = "unknown"
	}
	return name + ".csv"
}

// WriteLocations writes one CSV per location group into dir and returns the
// paths written, in first-seen location order.
func WriteLocations(fs afero.Fs, dir string, res *LocationResult) ([]string, error) {
	if err := fs.MkdirAll(dir, outputDirPermissions); err != nil {
		return nil, errors.FileError(fmt.Errorf("create output directory: %w", err), dir)
	}

	paths := make([]string, 0, len(res.Order))
	for _, location := range res.Order {
		path := filepath.Join(dir, LocationFileName(location))
		if err := writeRows(fs, path, res.Header, res.Groups[location]); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}
