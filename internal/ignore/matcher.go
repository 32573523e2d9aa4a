package ignore

import (
	"path/filepath"
	"strings"

	gitignore "github.com/go-git/go-git/v5/plumbing/format/gitignore"
	indexedignore "github.com/monochromegane/go-gitignore"
	regexpignore "github.com/sabhiram/go-gitignore"

	"github.com/temirov/codesnap/internal/utils"
)

const recursiveWildcard = "**"

// Matcher reports whether a forward-slash relative path is excluded by one
// compiled pattern source.
type Matcher interface {
	Match(relativePath string, isDirectory bool) bool
}

// Engine names a Matcher implementation.
type Engine string

const (
	// EngineGit compiles patterns with go-git's gitignore package.
	EngineGit Engine = "git"
	// EngineRegexp compiles each pattern into a regular expression.
	EngineRegexp Engine = "regexp"
	// EngineIndexed uses an index of patterns keyed by path depth. Sources
	// containing "**" are compiled with go-git instead.
	EngineIndexed Engine = "indexed"
)

// ParseEngine resolves name to an Engine. The empty name selects EngineGit.
func ParseEngine(name string) (Engine, bool) {
	switch Engine(strings.ToLower(strings.TrimSpace(name))) {
	case "", EngineGit:
		return EngineGit, true
	case EngineRegexp:
		return EngineRegexp, true
	case EngineIndexed:
		return EngineIndexed, true
	default:
		return EngineGit, false
	}
}

// NewMatcher compiles patterns for engine. projectRoot anchors engines that
// resolve paths against a base directory.
func NewMatcher(engine Engine, projectRoot string, patterns []string) Matcher {
	activePatterns := activeLines(patterns)
	if len(activePatterns) == 0 {
		return emptyMatcher{}
	}
	switch engine {
	case EngineRegexp:
		return regexpMatcher{compiled: regexpignore.CompileIgnoreLines(activePatterns...)}
	case EngineIndexed:
		if hasRecursiveWildcard(activePatterns) {
			return newGitMatcher(activePatterns)
		}
		reader := strings.NewReader(strings.Join(activePatterns, "\n"))
		return indexedMatcher{
			projectRoot: projectRoot,
			compiled:    indexedignore.NewGitIgnoreFromReader(projectRoot, reader),
		}
	default:
		return newGitMatcher(activePatterns)
	}
}

// hasRecursiveWildcard reports whether any pattern uses "**". The indexed
// engine has no "**" support, so such sources are compiled by go-git whole,
// keeping last-match-wins ordering across the source intact.
func hasRecursiveWildcard(patterns []string) bool {
	for _, pattern := range patterns {
		if strings.Contains(pattern, recursiveWildcard) {
			return true
		}
	}
	return false
}

func newGitMatcher(patterns []string) Matcher {
	parsed := make([]gitignore.Pattern, 0, len(patterns))
	for _, pattern := range patterns {
		parsed = append(parsed, gitignore.ParsePattern(pattern, nil))
	}
	return gitMatcher{compiled: gitignore.NewMatcher(parsed)}
}

// activeLines drops blank and comment lines.
func activeLines(lines []string) []string {
	active := make([]string, 0, len(lines))
	for _, line := range lines {
		trimmedLine := strings.TrimSpace(line)
		if trimmedLine == "" || strings.HasPrefix(trimmedLine, "#") {
			continue
		}
		active = append(active, strings.TrimRight(line, " \t\r"))
	}
	return active
}

type emptyMatcher struct{}

func (emptyMatcher) Match(string, bool) bool { return false }

type gitMatcher struct {
	compiled gitignore.Matcher
}

func (matcher gitMatcher) Match(relativePath string, isDirectory bool) bool {
	segments := utils.SplitRelativePath(relativePath)
	if len(segments) == 0 {
		return false
	}
	return matcher.compiled.Match(segments, isDirectory)
}

type regexpMatcher struct {
	compiled *regexpignore.GitIgnore
}

// Match appends a slash to directories so directory-only patterns apply.
func (matcher regexpMatcher) Match(relativePath string, isDirectory bool) bool {
	if relativePath == "" {
		return false
	}
	if isDirectory {
		return matcher.compiled.MatchesPath(relativePath + "/")
	}
	return matcher.compiled.MatchesPath(relativePath)
}

type indexedMatcher struct {
	projectRoot string
	compiled    indexedignore.IgnoreMatcher
}

func (matcher indexedMatcher) Match(relativePath string, isDirectory bool) bool {
	if relativePath == "" {
		return false
	}
	absolutePath := filepath.Join(matcher.projectRoot, filepath.FromSlash(relativePath))
	return matcher.compiled.Match(absolutePath, isDirectory)
}
