package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hedgerow-pam/birdprep/internal/errors"
	"github.com/hedgerow-pam/birdprep/internal/partition"
)

func TestPrintFrequencyReport(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	PrintFrequencyReport(&buf, []partition.SpeciesFrequency{
		{Species: partition.Species{Scientific: "Erithacus rubecula", Common: "European Robin"}, Count: 12},
		{Species: partition.Species{Scientific: "Prunella modularis", Common: "Dunnock"}, Count: 3},
	})

	out := buf.String()
	robin := strings.Index(out, "European Robin")
	dunnock := strings.Index(out, "Dunnock")
	assert.Positive(t, robin)
	assert.Greater(t, dunnock, robin, "report keeps the given order")
	assert.Contains(t, out, "12")
	assert.Contains(t, out, "Prunella modularis")
}

func TestPrintFrequencyReportEmpty(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	PrintFrequencyReport(&buf, nil)
	assert.Contains(t, buf.String(), "no detections")
}

func TestPrintRecordingFilesSorted(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	PrintRecordingFiles(&buf, "split", []partition.RecordingKey{"20240605_190000", "20240605_184000"})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, []string{"split/20240605_184000.csv", "split/20240605_190000.csv"},
		[]string{strings.TrimSpace(lines[0]), strings.TrimSpace(lines[1])})
}

func TestNoticeAndFailure(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	Notice(&buf, "unknown class %q", "Nightingale")
	Failure(&buf, errors.NewStd("disk full"))
	Info(&buf, "Loaded %d boxes", 2)

	out := buf.String()
	assert.Contains(t, out, `unknown class "Nightingale"`)
	assert.Contains(t, out, "disk full")
	assert.Contains(t, out, "Loaded 2 boxes")
}
