// Package utils contains general helper functions used across the codesnap tool.
package utils

import (
	"path/filepath"
	"strings"
)

const pathSegmentSeparator = "/"

// RelativePathOrSelf calculates the relative path from root to fullPath.
// Returns the cleaned fullPath if relative calculation fails.
// Returns "." if fullPath and root resolve to the same directory.
func RelativePathOrSelf(fullPath, root string) string {
	cleanPath := filepath.Clean(fullPath)
	absoluteRoot, err := filepath.Abs(root)
	if err != nil {
		return cleanPath
	}
	cleanAbsoluteRoot := filepath.Clean(absoluteRoot)

	if cleanPath == cleanAbsoluteRoot {
		return "."
	}

	relativePath, relErr := filepath.Rel(cleanAbsoluteRoot, cleanPath)
	if relErr != nil {
		return cleanPath
	}
	return filepath.ToSlash(relativePath)
}

// NormalizeRelativePath converts a path into the forward-slash form used for
// matching and display. Absolute paths are made relative to root when they
// live beneath it. Backslashes become slashes, and leading "./" segments and
// surrounding slashes are removed. The project root itself normalizes to "".
func NormalizeRelativePath(path, root string) string {
	candidate := path
	if filepath.IsAbs(candidate) && root != "" {
		relative := RelativePathOrSelf(candidate, root)
		if relative == "." {
			return ""
		}
		candidate = relative
	}
	candidate = strings.ReplaceAll(candidate, "\\", pathSegmentSeparator)
	for strings.HasPrefix(candidate, "./") {
		candidate = strings.TrimPrefix(candidate, "./")
	}
	candidate = strings.Trim(candidate, pathSegmentSeparator)
	if candidate == "." {
		return ""
	}
	return candidate
}

// IsWithinDirectory reports whether relativePath equals directory or lies beneath it.
// Both arguments are expected in forward-slash form.
func IsWithinDirectory(relativePath, directory string) bool {
	if directory == "" {
		return false
	}
	return relativePath == directory || strings.HasPrefix(relativePath, directory+pathSegmentSeparator)
}

// SplitRelativePath splits a normalized relative path into its segments.
func SplitRelativePath(relativePath string) []string {
	if relativePath == "" {
		return nil
	}
	return strings.Split(relativePath, pathSegmentSeparator)
}

// JoinRelativePath joins a parent relative path and a child name with a forward slash.
func JoinRelativePath(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + pathSegmentSeparator + name
}
