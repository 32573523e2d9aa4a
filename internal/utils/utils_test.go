package utils_test

import (
	"path/filepath"
	"reflect"
	"testing"

	"github.com/temirov/codesnap/internal/utils"
)

// TestRelativePathOrSelf verifies relative path calculations.
func TestRelativePathOrSelf(testingInstance *testing.T) {
	temporaryRoot := testingInstance.TempDir()
	nestedPath := filepath.Join(temporaryRoot, "a", "b.txt")

	if result := utils.RelativePathOrSelf(temporaryRoot, temporaryRoot); result != "." {
		testingInstance.Fatalf("expected '.', got %q", result)
	}
	if result := utils.RelativePathOrSelf(nestedPath, temporaryRoot); result != "a/b.txt" {
		testingInstance.Fatalf("expected 'a/b.txt', got %q", result)
	}
}

// TestNormalizeRelativePath verifies separator and prefix normalization.
func TestNormalizeRelativePath(testingInstance *testing.T) {
	temporaryRoot := testingInstance.TempDir()
	testCases := []struct {
		testName string
		input    string
		expected string
	}{
		{testName: "plain", input: "src/main.go", expected: "src/main.go"},
		{testName: "backslashes", input: `src\pkg\main.go`, expected: "src/pkg/main.go"},
		{testName: "dot prefix", input: "./src/", expected: "src"},
		{testName: "root dot", input: ".", expected: ""},
		{testName: "absolute", input: filepath.Join(temporaryRoot, "docs", "a.md"), expected: "docs/a.md"},
		{testName: "absolute root", input: temporaryRoot, expected: ""},
	}
	for _, testCase := range testCases {
		testingInstance.Run(testCase.testName, func(t *testing.T) {
			if result := utils.NormalizeRelativePath(testCase.input, temporaryRoot); result != testCase.expected {
				t.Fatalf("expected %q, got %q", testCase.expected, result)
			}
		})
	}
}

// TestIsWithinDirectory verifies prefix matching on segment boundaries.
func TestIsWithinDirectory(testingInstance *testing.T) {
	testCases := []struct {
		path      string
		directory string
		expected  bool
	}{
		{path: ".codebase", directory: ".codebase", expected: true},
		{path: ".codebase/codebase.txt", directory: ".codebase", expected: true},
		{path: ".codebase-old/file", directory: ".codebase", expected: false},
		{path: "anything", directory: "", expected: false},
	}
	for _, testCase := range testCases {
		if result := utils.IsWithinDirectory(testCase.path, testCase.directory); result != testCase.expected {
			testingInstance.Errorf("IsWithinDirectory(%q, %q) = %t, want %t", testCase.path, testCase.directory, result, testCase.expected)
		}
	}
}

// TestJoinAndSplitRelativePath verifies the helpers used for tree reconstruction.
func TestJoinAndSplitRelativePath(testingInstance *testing.T) {
	if joined := utils.JoinRelativePath("", "a"); joined != "a" {
		testingInstance.Fatalf("expected 'a', got %q", joined)
	}
	if joined := utils.JoinRelativePath("a/b", "c"); joined != "a/b/c" {
		testingInstance.Fatalf("expected 'a/b/c', got %q", joined)
	}
	if segments := utils.SplitRelativePath(""); segments != nil {
		testingInstance.Fatalf("expected nil segments for empty path, got %v", segments)
	}
	if segments := utils.SplitRelativePath("a/b/c"); !reflect.DeepEqual(segments, []string{"a", "b", "c"}) {
		testingInstance.Fatalf("unexpected segments %v", segments)
	}
}
