package utils

import "time"

const snapshotTimestampLayout = "2006-01-02 15:04:05"

// FormatSnapshotTimestamp formats the generation time written into snapshot headers.
func FormatSnapshotTimestamp(value time.Time) string {
	if value.IsZero() {
		return ""
	}
	return value.In(time.Local).Format(snapshotTimestampLayout)
}
