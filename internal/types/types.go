// Package types defines every cross-package data structure used by the codesnap CLI.
package types

import "time"

// EntryKind classifies a ScanEntry produced by the walker.
type EntryKind string

const (
	// EntryKindText marks an included text file.
	EntryKindText EntryKind = "text"
	// EntryKindBinary marks a file excluded because it was classified as binary.
	EntryKindBinary EntryKind = "binary"
	// EntryKindFile marks a file excluded by an ignore rule.
	EntryKindFile EntryKind = "file"
	// EntryKindDirectory marks a directory excluded by an ignore rule.
	EntryKindDirectory EntryKind = "directory"
)

// IgnoreSource names the ignore-pattern source that matched a path.
type IgnoreSource string

const (
	IgnoreSourceNone        IgnoreSource = ""
	IgnoreSourceGitIgnore   IgnoreSource = "gitignore"
	IgnoreSourceWatchIgnore IgnoreSource = "watchignore"
	IgnoreSourceDefault     IgnoreSource = "default"
	IgnoreSourceOutput      IgnoreSource = "output"
)

const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"

	CommandSnapshot = "snapshot"
	CommandScan     = "scan"
	CommandTree     = "tree"
)

// ScanEntry is one classified filesystem entry. RelativePath always uses "/".
type ScanEntry struct {
	AbsolutePath string       `json:"-" yaml:"-"`
	RelativePath string       `json:"path" yaml:"path"`
	Kind         EntryKind    `json:"kind" yaml:"kind"`
	Source       IgnoreSource `json:"source,omitempty" yaml:"source,omitempty"`
}

// PathEntry is one element of the flat path list collected during a walk.
type PathEntry struct {
	RelativePath string `json:"path" yaml:"path"`
	IsDirectory  bool   `json:"isDirectory" yaml:"isDirectory"`
}

// Inventory is the result of walking a project.
type Inventory struct {
	TextFiles    []ScanEntry `json:"textFiles" yaml:"textFiles"`
	IgnoredItems []ScanEntry `json:"ignoredItems" yaml:"ignoredItems"`
	AllPaths     []PathEntry `json:"-" yaml:"-"`
	FilesVisited int         `json:"filesVisited" yaml:"filesVisited"`
}

func (inventory Inventory) ignoredOfKind(kind EntryKind) []ScanEntry {
	var matching []ScanEntry
	for _, entry := range inventory.IgnoredItems {
		if entry.Kind == kind {
			matching = append(matching, entry)
		}
	}
	return matching
}

// IgnoredDirectories returns the ignored directory entries in walk order.
func (inventory Inventory) IgnoredDirectories() []ScanEntry {
	return inventory.ignoredOfKind(EntryKindDirectory)
}

// BinaryFiles returns the entries excluded as binary.
func (inventory Inventory) BinaryFiles() []ScanEntry {
	return inventory.ignoredOfKind(EntryKindBinary)
}

// IgnoredFiles returns the files excluded by an ignore rule.
func (inventory Inventory) IgnoredFiles() []ScanEntry {
	return inventory.ignoredOfKind(EntryKindFile)
}

// IgnoredDirectoryPaths returns the relative paths of IgnoredDirectories.
func (inventory Inventory) IgnoredDirectoryPaths() []string {
	directories := inventory.IgnoredDirectories()
	paths := make([]string, 0, len(directories))
	for _, entry := range directories {
		paths = append(paths, entry.RelativePath)
	}
	return paths
}

// SourceSummary describes one loaded ignore-pattern source.
type SourceSummary struct {
	Source   IgnoreSource `json:"source" yaml:"source"`
	Path     string       `json:"path,omitempty" yaml:"path,omitempty"`
	Found    bool         `json:"found" yaml:"found"`
	Patterns []string     `json:"patterns" yaml:"patterns"`
}

// RuleSummary describes every ignore-pattern source of a rule set.
type RuleSummary struct {
	GitIgnore   SourceSummary `json:"gitignore" yaml:"gitignore"`
	WatchIgnore SourceSummary `json:"watchignore" yaml:"watchignore"`
	Defaults    SourceSummary `json:"defaults" yaml:"defaults"`
}

// SnapshotStats summarizes a written snapshot.
type SnapshotStats struct {
	TextFiles          int       `json:"textFiles" yaml:"textFiles"`
	BinaryFiles        int       `json:"binaryFiles" yaml:"binaryFiles"`
	IgnoredItems       int       `json:"ignoredItems" yaml:"ignoredItems"`
	IgnoredDirectories int       `json:"ignoredDirectories" yaml:"ignoredDirectories"`
	IgnoredFiles       int       `json:"ignoredFiles" yaml:"ignoredFiles"`
	TotalFiles         int       `json:"totalFiles" yaml:"totalFiles"`
	TotalCharacters    int       `json:"totalCharacters" yaml:"totalCharacters"`
	TotalBytes         int64     `json:"totalBytes" yaml:"totalBytes"`
	Errors             int       `json:"errors" yaml:"errors"`
	OutputPath         string    `json:"outputPath" yaml:"outputPath"`
	Timestamp          time.Time `json:"timestamp" yaml:"timestamp"`
}
