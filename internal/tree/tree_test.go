package tree_test

import (
	"strings"
	"testing"

	"github.com/temirov/codesnap/internal/tree"
	"github.com/temirov/codesnap/internal/types"
)

func samplePaths() []types.PathEntry {
	return []types.PathEntry{
		{RelativePath: "README.md"},
		{RelativePath: "src", IsDirectory: true},
		{RelativePath: "src/main.go"},
		{RelativePath: "src/util", IsDirectory: true},
		{RelativePath: "src/util/helpers.go"},
		{RelativePath: "build", IsDirectory: true},
		{RelativePath: "build/app.exe"},
		{RelativePath: ".codebase", IsDirectory: true},
		{RelativePath: ".codebase/codebase.txt"},
		{RelativePath: "alpha.txt"},
		{RelativePath: "Zeta.txt"},
	}
}

func TestRenderLayout(testingHandle *testing.T) {
	rendered := tree.Render([]string{"build"}, samplePaths())
	expected := strings.Join([]string{
		".",
		"├── build/",
		"├── src/",
		"│   ├── util/",
		"│   │   └── helpers.go",
		"│   └── main.go",
		"├── alpha.txt",
		"├── README.md",
		"└── Zeta.txt",
	}, "\n")
	if rendered != expected {
		testingHandle.Fatalf("unexpected tree:\n%s\nwant:\n%s", rendered, expected)
	}
}

func TestRenderHidesOutputDirectory(testingHandle *testing.T) {
	rendered := tree.Render(nil, samplePaths())
	if strings.Contains(rendered, ".codebase") {
		testingHandle.Fatalf("output directory leaked into tree:\n%s", rendered)
	}
}

func TestIgnoredDirectoryIsLeaf(testingHandle *testing.T) {
	rendered := tree.Render([]string{"build"}, samplePaths())
	if strings.Contains(rendered, "app.exe") {
		testingHandle.Fatalf("ignored directory children rendered:\n%s", rendered)
	}
	root := tree.Renderer{}.Build([]string{"build"}, samplePaths())
	buildNode := root.Children["build"]
	if buildNode == nil || !buildNode.IsIgnored || len(buildNode.Children) != 0 {
		testingHandle.Fatalf("expected ignored leaf node for build, got %+v", buildNode)
	}
}

func TestRenderMaxDepth(testingHandle *testing.T) {
	renderer := tree.Renderer{MaxDepth: 1, ExcludedDirectory: ".codebase"}
	rendered := renderer.Render(nil, samplePaths())
	if strings.Contains(rendered, "main.go") {
		testingHandle.Fatalf("depth limit not applied:\n%s", rendered)
	}
	if !strings.Contains(rendered, "└── Zeta.txt") {
		testingHandle.Fatalf("top level entries missing:\n%s", rendered)
	}
}

func TestRenderEmpty(testingHandle *testing.T) {
	if rendered := tree.Render(nil, nil); rendered != "." {
		testingHandle.Fatalf("expected only the root line, got %q", rendered)
	}
}

func TestBuildInfersDirectoriesFromNestedPaths(testingHandle *testing.T) {
	root := tree.Renderer{}.Build(nil, []types.PathEntry{{RelativePath: `docs\guide\intro.md`}})
	docs := root.Children["docs"]
	if docs == nil || !docs.IsDirectory {
		testingHandle.Fatalf("expected docs to be inferred as a directory")
	}
	if guide := docs.Children["guide"]; guide == nil || guide.Children["intro.md"] == nil {
		testingHandle.Fatalf("expected nested file under docs/guide")
	}
}
