package utils_test

import (
	"testing"
	"time"

	"github.com/temirov/codesnap/internal/utils"
)

func TestFormatByteCount(t *testing.T) {
	testCases := []struct {
		name     string
		bytes    int64
		expected string
	}{
		{name: "negative", bytes: -1, expected: "0 Bytes"},
		{name: "zero", bytes: 0, expected: "0 Bytes"},
		{name: "bytes", bytes: 512, expected: "512.00 Bytes"},
		{name: "one kilobyte", bytes: 1024, expected: "1.00 KB"},
		{name: "fractional kilobyte", bytes: 1536, expected: "1.50 KB"},
		{name: "ten megabytes", bytes: 10 * 1024 * 1024, expected: "10.00 MB"},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			result := utils.FormatByteCount(testCase.bytes)
			if result != testCase.expected {
				t.Fatalf("expected %s, got %s", testCase.expected, result)
			}
		})
	}
}

func TestFormatSnapshotTimestamp(t *testing.T) {
	location := time.Now().Location()
	if result := utils.FormatSnapshotTimestamp(time.Time{}); result != "" {
		t.Fatalf("expected empty string for zero time, got %q", result)
	}
	value := time.Date(2024, time.January, 2, 15, 4, 5, 0, location)
	if result := utils.FormatSnapshotTimestamp(value); result != "2024-01-02 15:04:05" {
		t.Fatalf("unexpected snapshot timestamp %q", result)
	}
}
