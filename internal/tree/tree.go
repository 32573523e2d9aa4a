// Package tree renders the flat path list collected by the scanner as a
// box-drawing directory diagram.
package tree

import (
	"sort"
	"strings"

	"github.com/temirov/codesnap/internal/types"
	"github.com/temirov/codesnap/internal/utils"
)

const (
	rootLine            = "."
	directorySuffix     = "/"
	treeBranchConnector = "├── "
	treeLastConnector   = "└── "
	treeBranchPadding   = "│   "
	treeLastPadding     = "    "
)

// Node is one entry of the reconstructed directory structure.
type Node struct {
	Name        string
	IsDirectory bool
	IsIgnored   bool
	Children    map[string]*Node
}

// Renderer converts a flat path list into tree text.
type Renderer struct {
	// MaxDepth limits the number of rendered levels below the root; zero renders every level.
	MaxDepth int
	// ExcludedDirectory and everything beneath it is dropped from the diagram.
	ExcludedDirectory string
}

// Render draws paths with the default renderer, which hides the private output directory.
func Render(ignoredDirectories []string, paths []types.PathEntry) string {
	renderer := Renderer{ExcludedDirectory: utils.OutputDirectoryName}
	return renderer.Render(ignoredDirectories, paths)
}

// Build reconstructs the nested structure from paths. A node is ignored when
// its own path or any ancestor path is listed in ignoredDirectories, and an
// ignored directory never receives children.
func (renderer Renderer) Build(ignoredDirectories []string, paths []types.PathEntry) *Node {
	ignoredSet := make(map[string]struct{}, len(ignoredDirectories))
	for _, directory := range ignoredDirectories {
		ignoredSet[utils.NormalizeRelativePath(directory, utils.EmptyString)] = struct{}{}
	}

	root := &Node{Name: rootLine, IsDirectory: true, Children: map[string]*Node{}}
	for _, pathEntry := range paths {
		relativePath := utils.NormalizeRelativePath(pathEntry.RelativePath, utils.EmptyString)
		if relativePath == utils.EmptyString || utils.IsWithinDirectory(relativePath, renderer.ExcludedDirectory) {
			continue
		}
		segments := utils.SplitRelativePath(relativePath)
		current := root
		currentPath := utils.EmptyString
		for index, segment := range segments {
			if segment == utils.EmptyString {
				continue
			}
			currentPath = utils.JoinRelativePath(currentPath, segment)
			isFinal := index == len(segments)-1
			child, exists := current.Children[segment]
			if !exists {
				child = &Node{
					Name:        segment,
					IsDirectory: !isFinal || pathEntry.IsDirectory,
					IsIgnored:   current.IsIgnored || isListed(ignoredSet, currentPath),
					Children:    map[string]*Node{},
				}
				current.Children[segment] = child
			} else if !isFinal || pathEntry.IsDirectory {
				child.IsDirectory = true
			}
			if isFinal {
				break
			}
			if child.IsIgnored {
				break
			}
			current = child
		}
	}
	return root
}

func isListed(set map[string]struct{}, path string) bool {
	_, listed := set[path]
	return listed
}

// Render returns the tree text, starting with "." and without a trailing newline.
func (renderer Renderer) Render(ignoredDirectories []string, paths []types.PathEntry) string {
	root := renderer.Build(ignoredDirectories, paths)
	lines := []string{rootLine}
	lines = renderer.appendChildren(lines, root, utils.EmptyString, 1)
	return strings.Join(lines, "\n")
}

func (renderer Renderer) appendChildren(lines []string, node *Node, prefix string, level int) []string {
	if renderer.MaxDepth > 0 && level > renderer.MaxDepth {
		return lines
	}
	children := SortedChildren(node)
	for index, child := range children {
		isLast := index == len(children)-1
		connector, childPrefix := treeBranchConnector, prefix+treeBranchPadding
		if isLast {
			connector, childPrefix = treeLastConnector, prefix+treeLastPadding
		}
		name := child.Name
		if child.IsDirectory {
			name += directorySuffix
		}
		lines = append(lines, prefix+connector+name)
		if child.IsDirectory && !child.IsIgnored && len(child.Children) > 0 {
			lines = renderer.appendChildren(lines, child, childPrefix, level+1)
		}
	}
	return lines
}

// SortedChildren lists directories before files, each group ordered case-insensitively by name.
func SortedChildren(node *Node) []*Node {
	children := make([]*Node, 0, len(node.Children))
	for _, child := range node.Children {
		children = append(children, child)
	}
	sort.Slice(children, func(left, right int) bool {
		if children[left].IsDirectory != children[right].IsDirectory {
			return children[left].IsDirectory
		}
		leftName := strings.ToLower(children[left].Name)
		rightName := strings.ToLower(children[right].Name)
		if leftName != rightName {
			return leftName < rightName
		}
		return children[left].Name < children[right].Name
	})
	return children
}
