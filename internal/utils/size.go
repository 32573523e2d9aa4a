package utils

import (
	"fmt"
)

var byteCountUnits = []string{"Bytes", "KB", "MB", "GB", "TB"}

// FormatByteCount converts a byte length into a human-readable string such as
// "0 Bytes" or "1.50 KB".
func FormatByteCount(bytes int64) string {
	if bytes <= 0 {
		return "0 Bytes"
	}
	value := float64(bytes)
	unitIndex := 0
	for value >= 1024 && unitIndex < len(byteCountUnits)-1 {
		value /= 1024
		unitIndex++
	}
	return fmt.Sprintf("%.2f %s", value, byteCountUnits[unitIndex])
}
