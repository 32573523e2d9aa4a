// Package scanner walks a project tree and sorts every entry into the
// inventory consumed by the snapshot writer.
package scanner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/temirov/codesnap/internal/classifier"
	"github.com/temirov/codesnap/internal/types"
	"github.com/temirov/codesnap/internal/utils"
)

// DefaultProgressInterval is the number of files visited between progress reports.
const DefaultProgressInterval = 10

const (
	scanningMessageFormat    = "Scanning: %s"
	scanCompleteFormat       = "Scan complete! Found %d text files, %d binary files, and %d ignored items"
	logMessageReadDirFailed  = "skipping unreadable directory"
	logMessageSymlinkSkipped = "not descending into symlinked directory"
	logFieldPath             = "path"
)

// Rules decides whether a relative path is excluded and by which source.
type Rules interface {
	MatchSource(relativePath string, isDirectory bool) (types.IgnoreSource, bool)
}

// ProgressFunc receives a human-readable message and the number of files visited so far.
type ProgressFunc func(message string, filesVisited int)

// Walker traverses Root top-down.
type Walker struct {
	Root  string
	Rules Rules
	// Classify defaults to classifier.Classify.
	Classify func(path string) classifier.Class
	// ProgressInterval defaults to DefaultProgressInterval.
	ProgressInterval int
	Logger           *zap.Logger
}

type walkState struct {
	walker             *Walker
	root               string
	logger             *zap.Logger
	classify           func(path string) classifier.Class
	interval           int
	progress           ProgressFunc
	inventory          types.Inventory
	ignoredDirectories map[string]struct{}
}

// Scan walks the project and returns its inventory. Entries beneath an
// ignored directory are never visited, and the private output directory is
// left out of every list. The only error returned is the
// context's, checked before each directory is read.
func (walker *Walker) Scan(ctx context.Context, progress ProgressFunc) (types.Inventory, error) {
	absoluteRoot, absError := filepath.Abs(walker.Root)
	if absError != nil {
		return types.Inventory{}, fmt.Errorf("resolve %s: %w", walker.Root, absError)
	}
	state := &walkState{
		walker:             walker,
		root:               absoluteRoot,
		logger:             utils.LoggerOrNop(walker.Logger),
		classify:           walker.Classify,
		interval:           walker.ProgressInterval,
		progress:           progress,
		ignoredDirectories: make(map[string]struct{}),
	}
	if state.classify == nil {
		state.classify = classifier.Classify
	}
	if state.interval <= 0 {
		state.interval = DefaultProgressInterval
	}
	if state.progress == nil {
		state.progress = func(string, int) {}
	}

	if walkError := state.walkDirectory(ctx, absoluteRoot, utils.EmptyString); walkError != nil {
		return state.inventory, walkError
	}

	state.progress(fmt.Sprintf(scanCompleteFormat,
		len(state.inventory.TextFiles),
		len(state.inventory.BinaryFiles()),
		len(state.inventory.IgnoredItems)-len(state.inventory.BinaryFiles()),
	), state.inventory.FilesVisited)
	return state.inventory, nil
}

func (state *walkState) walkDirectory(ctx context.Context, absolutePath string, relativePath string) error {
	if contextError := ctx.Err(); contextError != nil {
		return contextError
	}
	if state.hasIgnoredAncestor(relativePath) {
		return nil
	}

	entries, readError := os.ReadDir(absolutePath)
	if readError != nil {
		state.logger.Debug(logMessageReadDirFailed, zap.String(logFieldPath, absolutePath), zap.Error(readError))
	}

	var subdirectories []string
	for _, entry := range entries {
		childAbsolutePath := filepath.Join(absolutePath, entry.Name())
		childRelativePath := utils.JoinRelativePath(relativePath, entry.Name())
		isDirectory, isSymlink := describeEntry(entry, childAbsolutePath)

		source, ignored := state.walker.Rules.MatchSource(childRelativePath, isDirectory)
		if ignored && source == types.IgnoreSourceOutput {
			continue
		}

		state.inventory.AllPaths = append(state.inventory.AllPaths, types.PathEntry{
			RelativePath: childRelativePath,
			IsDirectory:  isDirectory,
		})

		if isDirectory {
			if ignored {
				state.ignoredDirectories[childRelativePath] = struct{}{}
				state.inventory.IgnoredItems = append(state.inventory.IgnoredItems, types.ScanEntry{
					AbsolutePath: childAbsolutePath,
					RelativePath: childRelativePath,
					Kind:         types.EntryKindDirectory,
					Source:       source,
				})
				continue
			}
			if isSymlink {
				state.logger.Debug(logMessageSymlinkSkipped, zap.String(logFieldPath, childAbsolutePath))
				continue
			}
			subdirectories = append(subdirectories, entry.Name())
			continue
		}

		state.visitFile(childAbsolutePath, childRelativePath, source, ignored)
	}

	for _, name := range subdirectories {
		if walkError := state.walkDirectory(ctx, filepath.Join(absolutePath, name), utils.JoinRelativePath(relativePath, name)); walkError != nil {
			return walkError
		}
	}
	return nil
}

func (state *walkState) visitFile(absolutePath string, relativePath string, source types.IgnoreSource, ignored bool) {
	state.inventory.FilesVisited++
	if state.inventory.FilesVisited%state.interval == 0 {
		state.progress(fmt.Sprintf(scanningMessageFormat, relativePath), state.inventory.FilesVisited)
	}

	if ignored {
		state.inventory.IgnoredItems = append(state.inventory.IgnoredItems, types.ScanEntry{
			AbsolutePath: absolutePath,
			RelativePath: relativePath,
			Kind:         types.EntryKindFile,
			Source:       source,
		})
		return
	}

	entry := types.ScanEntry{AbsolutePath: absolutePath, RelativePath: relativePath, Kind: types.EntryKindText}
	if state.classify(absolutePath) == classifier.Binary {
		entry.Kind = types.EntryKindBinary
		state.inventory.IgnoredItems = append(state.inventory.IgnoredItems, entry)
		return
	}
	state.inventory.TextFiles = append(state.inventory.TextFiles, entry)
}

// hasIgnoredAncestor reports whether relativePath or any of its ancestors was ignored.
func (state *walkState) hasIgnoredAncestor(relativePath string) bool {
	prefix := utils.EmptyString
	for _, segment := range utils.SplitRelativePath(relativePath) {
		prefix = utils.JoinRelativePath(prefix, segment)
		if _, ignored := state.ignoredDirectories[prefix]; ignored {
			return true
		}
	}
	return false
}

// describeEntry resolves symlinks so that links to directories are reported as directories.
func describeEntry(entry os.DirEntry, absolutePath string) (isDirectory bool, isSymlink bool) {
	if entry.Type()&os.ModeSymlink == 0 {
		return entry.IsDir(), false
	}
	targetInfo, statError := os.Stat(absolutePath)
	if statError != nil {
		return false, true
	}
	return targetInfo.IsDir(), true
}
