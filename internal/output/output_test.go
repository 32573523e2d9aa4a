package output_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/temirov/codesnap/internal/output"
	"github.com/temirov/codesnap/internal/pipeline"
	"github.com/temirov/codesnap/internal/types"
)

var sampleTimestamp = time.Date(2024, time.January, 2, 15, 4, 5, 0, time.UTC)

func sampleResult() pipeline.Result {
	return pipeline.Result{
		Success: true,
		Message: "Successfully combined 2 text files into /tmp/p/.codebase/codebase.txt",
		Stats: types.SnapshotStats{
			TextFiles:          2,
			BinaryFiles:        1,
			IgnoredItems:       3,
			IgnoredDirectories: 1,
			IgnoredFiles:       2,
			TotalFiles:         3,
			TotalCharacters:    42,
			TotalBytes:         2048,
			OutputPath:         "/tmp/p/.codebase/codebase.txt",
			Timestamp:          sampleTimestamp,
		},
		OutputPath:      "/tmp/p/.codebase/codebase.txt",
		OutputDirectory: "/tmp/p/.codebase",
	}
}

func sampleInventory() types.Inventory {
	return types.Inventory{
		TextFiles: []types.ScanEntry{
			{RelativePath: "src/main.go", Kind: types.EntryKindText},
			{RelativePath: "README.md", Kind: types.EntryKindText},
		},
		IgnoredItems: []types.ScanEntry{
			{RelativePath: "node_modules", Kind: types.EntryKindDirectory, Source: types.IgnoreSourceDefault},
			{RelativePath: "logo.png", Kind: types.EntryKindBinary},
			{RelativePath: "debug.log", Kind: types.EntryKindFile, Source: types.IgnoreSourceGitIgnore},
		},
		FilesVisited: 4,
	}
}

func TestRenderResultText(testingHandle *testing.T) {
	var buffer bytes.Buffer
	if renderError := output.RenderResult(&buffer, sampleResult(), types.FormatText); renderError != nil {
		testingHandle.Fatalf("render: %v", renderError)
	}
	rendered := buffer.String()
	expectedFragments := []string{
		"Successfully combined 2 text files",
		"Text files:      2\n",
		"Binary files:    1\n",
		"Ignored items:   3 (1 directories, 2 files)\n",
		"Size:            2.00 KB\n",
		"Generated:       2024-01-02 15:04:05\n",
	}
	for _, fragment := range expectedFragments {
		if !strings.Contains(rendered, fragment) {
			testingHandle.Fatalf("expected %q in\n%s", fragment, rendered)
		}
	}
	if strings.Contains(rendered, "Read errors") {
		testingHandle.Fatalf("read errors line rendered without errors:\n%s", rendered)
	}
}

func TestRenderResultFailureText(testingHandle *testing.T) {
	var buffer bytes.Buffer
	failure := pipeline.Result{Message: pipeline.CancelledMessage}
	if renderError := output.RenderResult(&buffer, failure, types.FormatText); renderError != nil {
		testingHandle.Fatalf("render: %v", renderError)
	}
	if buffer.String() != pipeline.CancelledMessage+"\n" {
		testingHandle.Fatalf("unexpected failure rendering %q", buffer.String())
	}
}

func TestRenderResultStructured(testingHandle *testing.T) {
	testCases := []struct {
		name   string
		format string
		decode func([]byte, any) error
	}{
		{name: "json", format: types.FormatJSON, decode: json.Unmarshal},
		{name: "yaml", format: types.FormatYAML, decode: yaml.Unmarshal},
	}
	for _, testCase := range testCases {
		testingHandle.Run(testCase.name, func(testingHandle *testing.T) {
			var buffer bytes.Buffer
			if renderError := output.RenderResult(&buffer, sampleResult(), testCase.format); renderError != nil {
				testingHandle.Fatalf("render: %v", renderError)
			}
			var decoded map[string]any
			if decodeError := testCase.decode(buffer.Bytes(), &decoded); decodeError != nil {
				testingHandle.Fatalf("decode %s: %v\n%s", testCase.format, decodeError, buffer.String())
			}
			if decoded["success"] != true {
				testingHandle.Fatalf("expected success=true, got %v", decoded["success"])
			}
			if decoded["outputPath"] != "/tmp/p/.codebase/codebase.txt" {
				testingHandle.Fatalf("unexpected outputPath %v", decoded["outputPath"])
			}
		})
	}
}

func TestRenderRejectsUnknownFormat(testingHandle *testing.T) {
	if renderError := output.RenderResult(&bytes.Buffer{}, sampleResult(), "xml"); renderError == nil {
		testingHandle.Fatalf("expected error for xml result")
	}
	if renderError := output.RenderInventory(&bytes.Buffer{}, "/tmp/p", sampleInventory(), types.RuleSummary{}, "toon"); renderError == nil {
		testingHandle.Fatalf("expected error for toon inventory")
	}
	if output.IsSupportedFormat("xml") || !output.IsSupportedFormat(types.FormatYAML) {
		testingHandle.Fatalf("IsSupportedFormat disagrees with the format constants")
	}
}

func TestRenderInventoryText(testingHandle *testing.T) {
	var buffer bytes.Buffer
	if renderError := output.RenderInventory(&buffer, "/tmp/p", sampleInventory(), types.RuleSummary{}, types.FormatText); renderError != nil {
		testingHandle.Fatalf("render: %v", renderError)
	}
	expected := "Text files (2):\n" +
		"  README.md\n" +
		"  src/main.go\n" +
		"Ignored directories (1):\n" +
		"  node_modules [default]\n" +
		"Ignored files (1):\n" +
		"  debug.log [gitignore]\n" +
		"Binary files (1):\n" +
		"  logo.png\n"
	if buffer.String() != expected {
		testingHandle.Fatalf("unexpected inventory text\nexpected:\n%s\ngot:\n%s", expected, buffer.String())
	}
}

func TestRenderInventoryJSON(testingHandle *testing.T) {
	var buffer bytes.Buffer
	summary := types.RuleSummary{Defaults: types.SourceSummary{Source: types.IgnoreSourceDefault, Found: true, Patterns: []string{"node_modules/"}}}
	if renderError := output.RenderInventory(&buffer, "/tmp/p", sampleInventory(), summary, types.FormatJSON); renderError != nil {
		testingHandle.Fatalf("render: %v", renderError)
	}
	var decoded struct {
		Root         string            `json:"root"`
		FilesVisited int               `json:"filesVisited"`
		TextFiles    []types.ScanEntry `json:"textFiles"`
		IgnoredItems []types.ScanEntry `json:"ignoredItems"`
		Rules        types.RuleSummary `json:"rules"`
	}
	if decodeError := json.Unmarshal(buffer.Bytes(), &decoded); decodeError != nil {
		testingHandle.Fatalf("decode: %v", decodeError)
	}
	if decoded.Root != "/tmp/p" || decoded.FilesVisited != 4 {
		testingHandle.Fatalf("unexpected header fields %+v", decoded)
	}
	if len(decoded.TextFiles) != 2 || decoded.TextFiles[0].RelativePath != "README.md" {
		testingHandle.Fatalf("text files not sorted: %+v", decoded.TextFiles)
	}
	if len(decoded.IgnoredItems) != 3 || decoded.IgnoredItems[0].RelativePath != "debug.log" {
		testingHandle.Fatalf("ignored items not sorted: %+v", decoded.IgnoredItems)
	}
	if len(decoded.Rules.Defaults.Patterns) != 1 {
		testingHandle.Fatalf("rule summary lost: %+v", decoded.Rules)
	}
}
