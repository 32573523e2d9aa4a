// Package snapshot combines the text files of an inventory into one annotated document.
package snapshot

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/temirov/codesnap/internal/tree"
	"github.com/temirov/codesnap/internal/types"
	"github.com/temirov/codesnap/internal/utils"
)

// ErrCancelled is returned by Combine when its context ends before every file is written.
var ErrCancelled = fmt.Errorf("snapshot cancelled: %w", context.Canceled)

const (
	headerRule           = "=========================================================="
	headerOpen           = "/* " + headerRule + "\n"
	headerTitleFormat    = "   CODEBASE SNAPSHOT - %s\n"
	headerProjectFormat  = "   Project: %s\n"
	headerRevisionFormat = "   Revision: %s\n"
	headerFilesFormat    = "   Files: %d (%d text, %d binary)\n"
	headerIgnoredFormat  = "   Ignored Items: %d\n"
	headerClose          = "   " + headerRule + " */\n\n"

	structureOpen       = "/* ===== PROJECT STRUCTURE =====\n"
	structureLinePrefix = " * "
	structureClose      = " */\n\n"

	fileDelimiterFormat = "/* ===== %s ===== */\n"
	fileSeparator       = "\n\n"
	errorMarkerFormat   = "/* ===== ERROR: Could not read file: %s ===== */\n/* %s */\n\n"

	reportOpen              = "\n/* ===== IGNORED FILES & DIRECTORIES ===== */\n/* The following items were excluded based on ignore rules */\n\n"
	gitIgnoreHeading        = "/* .gitignore patterns: */\n"
	watchIgnoreHeading      = "/* .watchignore patterns: */\n"
	defaultPatternsHeading  = "/* Default patterns: */\n"
	ignoredListHeading      = "/* Ignored items list: */\n"
	ignoredDirectoryHeading = "/* Ignored directories: */\n"
	ignoredFileHeading      = "/* Ignored files: */\n"
	binaryFileHeading       = "/* Binary files: */\n"
	reportLineFormat        = "/*   %s */\n"
	commentTerminator       = "*/"
	escapedTerminator       = "*\\/"

	processingMessageFormat = "Processing (%d/%d): %s"
	doneMessageFormat       = "Done! Combined %d text files into %s"

	outputDirectoryPerm = 0o755
	logMessageReadFail  = "could not read file"
	logFieldPath        = "path"
)

// ProgressFunc receives a message and the completed fraction of the combine phase.
type ProgressFunc func(message string, fraction float64)

// Options control the optional parts of a snapshot.
type Options struct {
	IncludeTree bool
	// Tree renders the project structure block. Its ExcludedDirectory defaults to the output directory.
	Tree     tree.Renderer
	Progress ProgressFunc
}

// Writer produces the snapshot file of one project.
type Writer struct {
	ProjectRoot string
	// OutputPath defaults to <ProjectRoot>/.codebase/codebase.txt.
	OutputPath string
	// Revision is printed in the header when not empty.
	Revision string
	// Now defaults to time.Now.
	Now    func() time.Time
	Logger *zap.Logger
}

// DefaultOutputPath returns the snapshot location for projectRoot.
func DefaultOutputPath(projectRoot string) string {
	return filepath.Join(projectRoot, utils.OutputDirectoryName, utils.SnapshotFileName)
}

type countingWriter struct {
	buffered   *bufio.Writer
	characters int
	bytes      int64
	err        error
}

func (writer *countingWriter) write(text string) {
	if writer.err != nil {
		return
	}
	written, writeError := writer.buffered.WriteString(text)
	writer.bytes += int64(written)
	writer.characters += utf8.RuneCountInString(text[:written])
	writer.err = writeError
}

func (writer *countingWriter) writef(format string, arguments ...any) {
	writer.write(fmt.Sprintf(format, arguments...))
}

// Combine writes the snapshot of inventory. Text files are re-read from disk;
// a file that cannot be read is replaced by an error marker and counted in
// SnapshotStats.Errors. The context is checked before each file, and a
// cancelled run leaves the blocks written so far on disk and returns ErrCancelled.
func (snapshotWriter Writer) Combine(ctx context.Context, inventory types.Inventory, summary types.RuleSummary, options Options) (types.SnapshotStats, error) {
	logger := utils.LoggerOrNop(snapshotWriter.Logger)
	projectRoot, absError := filepath.Abs(snapshotWriter.ProjectRoot)
	if absError != nil {
		return types.SnapshotStats{}, fmt.Errorf("resolve %s: %w", snapshotWriter.ProjectRoot, absError)
	}
	outputPath := snapshotWriter.OutputPath
	if outputPath == utils.EmptyString {
		outputPath = DefaultOutputPath(projectRoot)
	}
	now := time.Now
	if snapshotWriter.Now != nil {
		now = snapshotWriter.Now
	}
	progress := options.Progress
	if progress == nil {
		progress = func(string, float64) {}
	}

	if mkdirError := os.MkdirAll(filepath.Dir(outputPath), outputDirectoryPerm); mkdirError != nil {
		return types.SnapshotStats{}, fmt.Errorf("create output directory: %w", mkdirError)
	}
	outputFile, createError := os.Create(outputPath)
	if createError != nil {
		return types.SnapshotStats{}, fmt.Errorf("create %s: %w", outputPath, createError)
	}
	defer outputFile.Close()

	binaryFiles := inventory.BinaryFiles()
	ignoredDirectories := inventory.IgnoredDirectories()
	ignoredFiles := inventory.IgnoredFiles()
	timestamp := now()
	stats := types.SnapshotStats{
		TextFiles:          len(inventory.TextFiles),
		BinaryFiles:        len(binaryFiles),
		IgnoredDirectories: len(ignoredDirectories),
		IgnoredFiles:       len(ignoredFiles),
		IgnoredItems:       len(ignoredDirectories) + len(ignoredFiles),
		TotalFiles:         len(inventory.TextFiles) + len(binaryFiles),
		OutputPath:         outputPath,
		Timestamp:          timestamp,
	}

	output := &countingWriter{buffered: bufio.NewWriter(outputFile)}
	finish := func(result error) (types.SnapshotStats, error) {
		if flushError := output.buffered.Flush(); flushError != nil && output.err == nil {
			output.err = flushError
		}
		stats.TotalCharacters = output.characters
		stats.TotalBytes = output.bytes
		if output.err != nil {
			return stats, fmt.Errorf("write %s: %w", outputPath, output.err)
		}
		return stats, result
	}

	output.write(headerOpen)
	output.writef(headerTitleFormat, utils.FormatSnapshotTimestamp(timestamp))
	output.writef(headerProjectFormat, filepath.Base(projectRoot))
	if snapshotWriter.Revision != utils.EmptyString {
		output.writef(headerRevisionFormat, snapshotWriter.Revision)
	}
	output.writef(headerFilesFormat, stats.TotalFiles, stats.TextFiles, stats.BinaryFiles)
	output.writef(headerIgnoredFormat, stats.IgnoredItems)
	output.write(headerClose)

	if options.IncludeTree {
		renderer := options.Tree
		if renderer.ExcludedDirectory == utils.EmptyString {
			renderer.ExcludedDirectory = utils.OutputDirectoryName
		}
		output.write(structureOpen)
		for _, line := range strings.Split(renderer.Render(inventory.IgnoredDirectoryPaths(), inventory.AllPaths), "\n") {
			output.write(structureLinePrefix + escapeComment(line) + "\n")
		}
		output.write(structureClose)
	}

	totalTextFiles := len(inventory.TextFiles)
	for index, entry := range inventory.TextFiles {
		if contextError := ctx.Err(); contextError != nil {
			return finish(cancellationError(contextError))
		}
		if output.err != nil {
			break
		}
		content, readError := os.ReadFile(entry.AbsolutePath)
		if readError != nil {
			stats.Errors++
			logger.Warn(logMessageReadFail, zap.String(logFieldPath, entry.AbsolutePath), zap.Error(readError))
			output.writef(errorMarkerFormat, escapeComment(entry.RelativePath), escapeComment(readError.Error()))
		} else {
			output.writef(fileDelimiterFormat, escapeComment(entry.RelativePath))
			output.write(replaceInvalidBytes(content))
			output.write(fileSeparator)
		}
		progress(fmt.Sprintf(processingMessageFormat, index+1, totalTextFiles, entry.RelativePath), float64(index+1)/float64(totalTextFiles))
	}

	writeIgnoredReport(output, summary, ignoredDirectories, ignoredFiles, binaryFiles)

	stats, combineError := finish(nil)
	if combineError == nil {
		progress(fmt.Sprintf(doneMessageFormat, stats.TextFiles, outputPath), 1)
	}
	return stats, combineError
}

// replaceInvalidBytes decodes content as UTF-8, writing one U+FFFD for each
// byte that does not start a valid sequence.
func replaceInvalidBytes(content []byte) string {
	if utf8.Valid(content) {
		return string(content)
	}
	var builder strings.Builder
	builder.Grow(len(content) + len(content)/2)
	for len(content) > 0 {
		decoded, size := utf8.DecodeRune(content)
		if decoded == utf8.RuneError && size == 1 {
			builder.WriteRune(utf8.RuneError)
		} else {
			builder.Write(content[:size])
		}
		content = content[size:]
	}
	return builder.String()
}

func cancellationError(contextError error) error {
	if errors.Is(contextError, context.Canceled) {
		return ErrCancelled
	}
	return fmt.Errorf("%w: %w", ErrCancelled, contextError)
}

func writeIgnoredReport(output *countingWriter, summary types.RuleSummary, ignoredDirectories, ignoredFiles, binaryFiles []types.ScanEntry) {
	output.write(reportOpen)

	if summary.GitIgnore.Found {
		writePatternList(output, gitIgnoreHeading, summary.GitIgnore.Patterns)
	}
	if summary.WatchIgnore.Found && len(summary.WatchIgnore.Patterns) > 0 {
		writePatternList(output, watchIgnoreHeading, summary.WatchIgnore.Patterns)
	}
	writePatternList(output, defaultPatternsHeading, summary.Defaults.Patterns)

	output.write(ignoredListHeading)
	sections := []struct {
		heading string
		entries []types.ScanEntry
		suffix  string
	}{
		{heading: ignoredDirectoryHeading, entries: ignoredDirectories, suffix: "/"},
		{heading: ignoredFileHeading, entries: ignoredFiles},
		{heading: binaryFileHeading, entries: binaryFiles},
	}
	wroteSection := false
	for _, section := range sections {
		if len(section.entries) == 0 {
			continue
		}
		if wroteSection {
			output.write("\n")
		}
		wroteSection = true
		output.write(section.heading)
		for _, relativePath := range sortedRelativePaths(section.entries) {
			output.writef(reportLineFormat, escapeComment(relativePath+section.suffix))
		}
	}
}

func writePatternList(output *countingWriter, heading string, patterns []string) {
	output.write(heading)
	for _, pattern := range patterns {
		output.writef(reportLineFormat, escapeComment(pattern))
	}
	output.write("\n")
}

func sortedRelativePaths(entries []types.ScanEntry) []string {
	paths := make([]string, 0, len(entries))
	for _, entry := range entries {
		paths = append(paths, entry.RelativePath)
	}
	sort.Strings(paths)
	return paths
}

// escapeComment keeps text from closing the surrounding block comment.
func escapeComment(text string) string {
	return strings.ReplaceAll(text, commentTerminator, escapedTerminator)
}
