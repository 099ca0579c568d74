package partition

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hedgerow-pam/birdprep/internal/errors"
)

// RecordingKey names the 20-minute recording window a detection falls into,
// formatted yyyyMMdd_HHMMSS with seconds always "00". Keys sort
// chronologically when compared as strings.
type RecordingKey string

// windowMinutes is the length of one recorder file.
const windowMinutes = 20

// RecordingKeyFor derives the recording key from a DD/MM/YYYY date and an
// HH:MM time. A trailing :SS on the time is accepted and dropped. Day, month,
// year and hour are copied as written.
func RecordingKeyFor(date, clock string) (RecordingKey, error) {
	dateParts := strings.Split(date, "/")
	if len(dateParts) != 3 {
		return "", malformedTimestamp("date must be DD/MM/YYYY", date+" "+clock)
	}
	day, month, year := dateParts[0], dateParts[1], dateParts[2]

	timeParts := strings.Split(clock, ":")
	if len(timeParts) != 2 && len(timeParts) != 3 {
		return "", malformedTimestamp("time must be HH:MM", date+" "+clock)
	}
	hour := timeParts[0]

	minute, err := strconv.Atoi(timeParts[1])
	if err != nil || minute < 0 || minute > 59 {
		return "", malformedTimestamp("minute must be 00-59", date+" "+clock)
	}

	return RecordingKey(year + month + day + "_" + hour + bucketMinute(minute) + "00"), nil
}

// ParseTimestamp derives the recording key from a "DD/MM/YYYY HH:MM[:SS]" field.
func ParseTimestamp(field string) (RecordingKey, error) {
	date, clock, ok := strings.Cut(field, " ")
	if !ok || strings.Contains(clock, " ") {
		return "", malformedTimestamp("timestamp must be \"DD/MM/YYYY HH:MM\"", field)
	}
	return RecordingKeyFor(date, clock)
}

// bucketMinute returns the start minute of the window containing minute.
func bucketMinute(minute int) string {
	return fmt.Sprintf("%02d", minute/windowMinutes*windowMinutes)
}

func malformedTimestamp(reason, value string) error {
	return errors.Newf("unparsable timestamp: %s", reason).
		Component("partition").
		Category(errors.CategoryMalformedInput).
		Context("value", value).
		Build()
}
