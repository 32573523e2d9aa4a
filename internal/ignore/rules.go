// Package ignore decides which project paths are excluded from a snapshot.
// Patterns come from three sources evaluated in a fixed order: the project's
// .gitignore, the custom .codebase/.watchignore and the built-in defaults.
package ignore

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/temirov/codesnap/internal/types"
	"github.com/temirov/codesnap/internal/utils"
)

const (
	outputDirectoryPerm = 0o755

	logMessageGitIgnoreLoaded    = "loaded .gitignore rules"
	logMessageGitIgnoreFailed    = "failed to load .gitignore"
	logMessageWatchIgnoreLoaded  = "loaded .watchignore rules"
	logMessageWatchIgnoreCreated = "created .watchignore"
	logMessageWatchIgnoreFailed  = "failed to load .watchignore"
	logMessageOutputDirFailed    = "failed to create output directory"
	logMessageUnknownEngine      = "unknown ignore engine, using git"
	logFieldPath                 = "path"
	logFieldEngine               = "engine"
	logFieldPatterns             = "patterns"
)

// Options configure Load.
type Options struct {
	// Engine selects the matcher implementation; empty means EngineGit.
	Engine string
	// UseGitignore enables the project's .gitignore as a pattern source.
	UseGitignore bool
	Logger       *zap.Logger
}

type patternSource struct {
	summary types.SourceSummary
	matcher Matcher
}

// RuleSet holds the compiled pattern sources of one project.
type RuleSet struct {
	projectRoot      string
	outputDirectory  string
	customIgnorePath string
	engine           Engine
	sources          []patternSource
}

// Load reads every pattern source of projectRoot and compiles it. Load never
// fails: a source that cannot be read or created is logged and contributes no
// patterns.
func Load(projectRoot string, options Options) *RuleSet {
	logger := utils.LoggerOrNop(options.Logger)
	absoluteRoot, absError := filepath.Abs(projectRoot)
	if absError != nil {
		absoluteRoot = filepath.Clean(projectRoot)
	}

	engine, known := ParseEngine(options.Engine)
	if !known {
		logger.Warn(logMessageUnknownEngine, zap.String(logFieldEngine, options.Engine))
	}

	outputDirectory := filepath.Join(absoluteRoot, utils.OutputDirectoryName)
	ruleSet := &RuleSet{
		projectRoot:      absoluteRoot,
		outputDirectory:  outputDirectory,
		customIgnorePath: filepath.Join(outputDirectory, utils.CustomIgnoreFileName),
		engine:           engine,
	}

	gitIgnoreSummary := types.SourceSummary{
		Source: types.IgnoreSourceGitIgnore,
		Path:   filepath.Join(absoluteRoot, utils.GitIgnoreFileName),
	}
	if options.UseGitignore {
		patterns, found, loadError := ReadPatternFile(gitIgnoreSummary.Path)
		switch {
		case loadError != nil:
			logger.Warn(logMessageGitIgnoreFailed, zap.String(logFieldPath, gitIgnoreSummary.Path), zap.Error(loadError))
		case found:
			gitIgnoreSummary.Found = true
			gitIgnoreSummary.Patterns = patterns
			logger.Debug(logMessageGitIgnoreLoaded, zap.String(logFieldPath, gitIgnoreSummary.Path), zap.Int(logFieldPatterns, len(patterns)))
		}
	}
	ruleSet.addSource(gitIgnoreSummary)

	ruleSet.addSource(ruleSet.loadCustomIgnore(logger))

	ruleSet.addSource(types.SourceSummary{
		Source:   types.IgnoreSourceDefault,
		Found:    true,
		Patterns: append([]string(nil), DefaultPatterns...),
	})
	return ruleSet
}

func (ruleSet *RuleSet) loadCustomIgnore(logger *zap.Logger) types.SourceSummary {
	summary := types.SourceSummary{Source: types.IgnoreSourceWatchIgnore, Path: ruleSet.customIgnorePath}
	if mkdirError := os.MkdirAll(ruleSet.outputDirectory, outputDirectoryPerm); mkdirError != nil {
		logger.Warn(logMessageOutputDirFailed, zap.String(logFieldPath, ruleSet.outputDirectory), zap.Error(mkdirError))
		return summary
	}

	info, statError := os.Stat(ruleSet.customIgnorePath)
	if statError != nil && os.IsNotExist(statError) {
		if createError := CreateCustomIgnoreFile(ruleSet.customIgnorePath); createError != nil {
			logger.Warn(logMessageWatchIgnoreFailed, zap.String(logFieldPath, ruleSet.customIgnorePath), zap.Error(createError))
			return summary
		}
		logger.Debug(logMessageWatchIgnoreCreated, zap.String(logFieldPath, ruleSet.customIgnorePath))
		return summary
	}
	if statError == nil && !info.IsDir() {
		if headerError := EnsureCustomIgnoreHeader(ruleSet.customIgnorePath); headerError != nil {
			logger.Warn(logMessageWatchIgnoreFailed, zap.String(logFieldPath, ruleSet.customIgnorePath), zap.Error(headerError))
		}
	}

	patterns, found, loadError := ReadPatternFile(ruleSet.customIgnorePath)
	if loadError != nil {
		logger.Warn(logMessageWatchIgnoreFailed, zap.String(logFieldPath, ruleSet.customIgnorePath), zap.Error(loadError))
		return summary
	}
	summary.Found = found
	summary.Patterns = patterns
	logger.Debug(logMessageWatchIgnoreLoaded, zap.String(logFieldPath, ruleSet.customIgnorePath), zap.Int(logFieldPatterns, len(patterns)))
	return summary
}

func (ruleSet *RuleSet) addSource(summary types.SourceSummary) {
	ruleSet.sources = append(ruleSet.sources, patternSource{
		summary: summary,
		matcher: NewMatcher(ruleSet.engine, ruleSet.projectRoot, summary.Patterns),
	})
}

// ProjectRoot returns the absolute project root the rules are anchored to.
func (ruleSet *RuleSet) ProjectRoot() string {
	return ruleSet.projectRoot
}

// Engine returns the matcher engine in use.
func (ruleSet *RuleSet) Engine() Engine {
	return ruleSet.engine
}

// CustomIgnorePath returns the location of the project's .watchignore file.
func (ruleSet *RuleSet) CustomIgnorePath() string {
	return ruleSet.customIgnorePath
}

// IsIgnored normalizes path and reports whether it is excluded. The path is
// inspected on disk to learn whether it is a directory; paths that cannot be
// inspected are treated as files.
func (ruleSet *RuleSet) IsIgnored(path string) bool {
	relativePath := utils.NormalizeRelativePath(path, ruleSet.projectRoot)
	absolutePath := filepath.Join(ruleSet.projectRoot, filepath.FromSlash(relativePath))
	isDirectory := false
	if info, statError := os.Stat(absolutePath); statError == nil {
		isDirectory = info.IsDir()
	}
	return ruleSet.Matches(relativePath, isDirectory)
}

// Matches reports whether relativePath is excluded by any source.
func (ruleSet *RuleSet) Matches(relativePath string, isDirectory bool) bool {
	_, matched := ruleSet.MatchSource(relativePath, isDirectory)
	return matched
}

// MatchSource returns the first source excluding relativePath. The output
// directory and everything beneath it always match with IgnoreSourceOutput.
func (ruleSet *RuleSet) MatchSource(relativePath string, isDirectory bool) (types.IgnoreSource, bool) {
	normalizedPath := utils.NormalizeRelativePath(relativePath, ruleSet.projectRoot)
	if normalizedPath == "" {
		return types.IgnoreSourceNone, false
	}
	if utils.IsWithinDirectory(normalizedPath, utils.OutputDirectoryName) {
		return types.IgnoreSourceOutput, true
	}
	for _, source := range ruleSet.sources {
		if source.matcher.Match(normalizedPath, isDirectory) {
			return source.summary.Source, true
		}
	}
	return types.IgnoreSourceNone, false
}

// Summary returns the raw patterns of every source for reporting.
func (ruleSet *RuleSet) Summary() types.RuleSummary {
	var summary types.RuleSummary
	for _, source := range ruleSet.sources {
		copied := source.summary
		copied.Patterns = append([]string(nil), source.summary.Patterns...)
		switch copied.Source {
		case types.IgnoreSourceGitIgnore:
			summary.GitIgnore = copied
		case types.IgnoreSourceWatchIgnore:
			summary.WatchIgnore = copied
		case types.IgnoreSourceDefault:
			summary.Defaults = copied
		}
	}
	return summary
}
