package units

import (
	"fmt"
	"time"

	"github.com/ncruces/go-strftime"
)

// TimestampFormat is the strftime pattern used for on-screen timestamps.
const TimestampFormat = "%Y-%m-%d %H:%M:%S"

// IsTimezoneValid checks if the given timezone is valid by attempting to load it from the tz database
func IsTimezoneValid(tz string) bool {
	if tz == "" {
		return false
	}
	_, err := time.LoadLocation(tz)
	return err == nil
}

// ConvertTime converts a time to the specified timezone for display.
// Loaded samples without an explicit offset are treated as UTC.
func ConvertTime(t time.Time, targetTimezone string) (time.Time, error) {
	if targetTimezone == "" || targetTimezone == "UTC" {
		return t.UTC(), nil
	}

	loc, err := time.LoadLocation(targetTimezone)
	if err != nil {
		return t, fmt.Errorf("failed to load timezone %s: %w", targetTimezone, err)
	}
	return t.In(loc), nil
}

// FormatTimestamp renders t in the display timezone using TimestampFormat.
// An unknown timezone falls back to UTC.
func FormatTimestamp(t time.Time, tz string) string {
	local, err := ConvertTime(t, tz)
	if err != nil {
		local = t.UTC()
	}
	return strftime.Format(TimestampFormat, local)
}
