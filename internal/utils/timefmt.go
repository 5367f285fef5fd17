package utils

import "time"

const timestampLayout = "2006-01-02 15:04"

// FormatTimestamp returns the provided time formatted in the local time zone
// with minute precision. The zero time formats to an empty string.
func FormatTimestamp(value time.Time) string {
	if value.IsZero() {
		return ""
	}
	return value.In(time.Local).Format(timestampLayout)
}
