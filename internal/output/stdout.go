// Package output prints command results for a terminal. Colour is dropped
// automatically when stdout is not a terminal.
package output

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/fatih/color"

	"github.com/hedgerow-pam/birdprep/internal/partition"
)

var (
	bold    = color.New(color.Bold).SprintFunc()
	count   = color.New(color.FgYellow).Add(color.Bold).SprintFunc()
	success = color.New(color.FgGreen).SprintFunc()
	warning = color.New(color.FgYellow).SprintFunc()
	failure = color.New(color.FgRed).Add(color.Bold).SprintFunc()
	muted   = color.New(color.Faint).SprintFunc()
)

// PrintFrequencyReport lists species from most to least detected.
func PrintFrequencyReport(w io.Writer, report []partition.SpeciesFrequency) {
	fmt.Fprintln(w, bold("Species frequency"))
	if len(report) == 0 {
		fmt.Fprintln(w, muted("  no detections"))
		return
	}
	for _, entry := range report {
		fmt.Fprintf(w, "  %s  %-30s %s\n",
			count(fmt.Sprintf("%6d", entry.Count)),
			entry.Species.Common,
			muted(entry.Species.Scientific))
	}
}

// PrintSplitSummary reports what a split wrote.
func PrintSplitSummary(w io.Writer, summary partition.WriteSummary, species int) {
	fmt.Fprintf(w, "%s %d rows into %d recording files in %s (%d species)\n",
		success("Wrote"), summary.Rows, summary.Files, summary.Dir, species)
}

// PrintRecordingFiles lists output file names in chronological order.
func PrintRecordingFiles(w io.Writer, dir string, keys []partition.RecordingKey) {
	for _, key := range partition.MergeSort(keys) {
		fmt.Fprintf(w, "  %s\n", filepath.Join(dir, partition.FileName(key)))
	}
}

// PrintPaths lists written files under a heading.
func PrintPaths(w io.Writer, heading string, paths []string) {
	fmt.Fprintln(w, bold(heading))
	for _, p := range paths {
		fmt.Fprintf(w, "  %s\n", p)
	}
}

// Info prints a plain status line.
func Info(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, format+"\n", args...)
}

// Success prints a confirmation line.
func Success(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, success(fmt.Sprintf(format, args...)))
}

// Notice prints a recoverable problem.
func Notice(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, warning("! "+fmt.Sprintf(format, args...)))
}

// Failure prints an error that aborted an operation.
func Failure(w io.Writer, err error) {
	fmt.Fprintln(w, failure("error: ")+err.Error())
}
