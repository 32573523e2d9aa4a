package ignore

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
)

const (
	// CustomIgnoreHeader is the first line of a custom ignore file.
	CustomIgnoreHeader = "# Add your custom ignore patterns here"

	customIgnoreExampleLines = "# Example: *.log\n# Example: temp/\n"
	customIgnoreFilePerm     = 0o644
)

// ReadPatternFile returns the non-blank, non-comment lines of the ignore file
// at path, kept verbatim. A missing file is reported as found == false with no error.
//
// #nosec G304
func ReadPatternFile(path string) (patterns []string, found bool, err error) {
	fileHandle, openError := os.Open(path)
	if openError != nil {
		if errors.Is(openError, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, openError
	}
	defer fileHandle.Close()

	info, statError := fileHandle.Stat()
	if statError != nil {
		return nil, false, statError
	}
	if info.IsDir() {
		return nil, false, fmt.Errorf("%s is a directory", path)
	}

	scanner := bufio.NewScanner(fileHandle)
	for scanner.Scan() {
		line := strings.TrimSuffix(scanner.Text(), "\r")
		trimmedLine := strings.TrimSpace(line)
		if trimmedLine == "" || strings.HasPrefix(trimmedLine, "#") {
			continue
		}
		patterns = append(patterns, line)
	}
	if scanError := scanner.Err(); scanError != nil {
		return nil, false, scanError
	}
	return patterns, true, nil
}

// CreateCustomIgnoreFile writes a new custom ignore file holding only the
// header and example comments.
func CreateCustomIgnoreFile(path string) error {
	content := CustomIgnoreHeader + "\n" + customIgnoreExampleLines
	if writeError := os.WriteFile(path, []byte(content), customIgnoreFilePerm); writeError != nil {
		return fmt.Errorf("create %s: %w", path, writeError)
	}
	return nil
}

// EnsureCustomIgnoreHeader inserts CustomIgnoreHeader as the first line of
// the file at path when it is not already there.
//
// #nosec G304
func EnsureCustomIgnoreHeader(path string) error {
	content, readError := os.ReadFile(path)
	if readError != nil {
		return fmt.Errorf("read %s: %w", path, readError)
	}
	firstLine, _, _ := strings.Cut(string(content), "\n")
	if strings.TrimSpace(firstLine) == CustomIgnoreHeader {
		return nil
	}
	updated := CustomIgnoreHeader + "\n" + string(content)
	if writeError := os.WriteFile(path, []byte(updated), customIgnoreFilePerm); writeError != nil {
		return fmt.Errorf("update %s: %w", path, writeError)
	}
	return nil
}
