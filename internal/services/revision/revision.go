// Package revision describes the Git revision checked out in a project.
package revision

import (
	"errors"
	"fmt"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

const (
	shortHashLength = 7
	revisionFormat  = "%s@%s"
)

// ErrNoRevision reports a project that is not inside a Git repository or has no commits yet.
var ErrNoRevision = errors.New("no git revision available")

// Describe returns "<branch>@<short hash>" for the repository containing
// projectRoot. A detached HEAD is described as "HEAD@<short hash>".
func Describe(projectRoot string) (string, error) {
	repository, openError := git.PlainOpenWithOptions(projectRoot, &git.PlainOpenOptions{DetectDotGit: true})
	if openError != nil {
		if errors.Is(openError, git.ErrRepositoryNotExists) {
			return "", ErrNoRevision
		}
		return "", fmt.Errorf("open repository at %s: %w", projectRoot, openError)
	}
	head, headError := repository.Head()
	if headError != nil {
		if errors.Is(headError, plumbing.ErrReferenceNotFound) {
			return "", ErrNoRevision
		}
		return "", fmt.Errorf("resolve HEAD: %w", headError)
	}
	hash := head.Hash().String()
	if len(hash) > shortHashLength {
		hash = hash[:shortHashLength]
	}
	return fmt.Sprintf(revisionFormat, head.Name().Short(), hash), nil
}
