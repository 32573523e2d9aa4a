// Package output renders pipeline results, inventories and progress for the terminal.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/temirov/codesnap/internal/pipeline"
	"github.com/temirov/codesnap/internal/types"
	"github.com/temirov/codesnap/internal/utils"
)

const (
	indentPrefix = ""
	indentSpacer = "  "

	invalidFormatMessage = "invalid format value '%s'"

	statsTextFilesFormat  = "Text files:      %d\n"
	statsBinaryFormat     = "Binary files:    %d\n"
	statsIgnoredFormat    = "Ignored items:   %d (%d directories, %d files)\n"
	statsCharactersFormat = "Characters:      %d\n"
	statsSizeFormat       = "Size:            %s\n"
	statsErrorsFormat     = "Read errors:     %d\n"
	statsOutputFormat     = "Output:          %s\n"
	statsTimestampFormat  = "Generated:       %s\n"

	inventorySectionFormat = "%s (%d):\n"
	inventoryLineFormat    = "  %s\n"
	inventorySourceFormat  = "  %s [%s]\n"
	textFilesHeading       = "Text files"
	ignoredDirsHeading     = "Ignored directories"
	ignoredFilesHeading    = "Ignored files"
	binaryFilesHeading     = "Binary files"
)

// IsSupportedFormat reports whether format is one of text, json or yaml.
func IsSupportedFormat(format string) bool {
	switch format {
	case types.FormatText, types.FormatJSON, types.FormatYAML:
		return true
	default:
		return false
	}
}

// RenderResult writes the outcome of a snapshot run.
func RenderResult(writer io.Writer, result pipeline.Result, format string) error {
	switch format {
	case types.FormatJSON, types.FormatYAML:
		return encodeStructured(writer, result, format)
	case types.FormatText:
		var builder strings.Builder
		builder.WriteString(result.Message + "\n")
		if result.Success {
			stats := result.Stats
			fmt.Fprintf(&builder, statsTextFilesFormat, stats.TextFiles)
			fmt.Fprintf(&builder, statsBinaryFormat, stats.BinaryFiles)
			fmt.Fprintf(&builder, statsIgnoredFormat, stats.IgnoredItems, stats.IgnoredDirectories, stats.IgnoredFiles)
			fmt.Fprintf(&builder, statsCharactersFormat, stats.TotalCharacters)
			fmt.Fprintf(&builder, statsSizeFormat, utils.FormatByteCount(stats.TotalBytes))
			if stats.Errors > 0 {
				fmt.Fprintf(&builder, statsErrorsFormat, stats.Errors)
			}
			fmt.Fprintf(&builder, statsOutputFormat, stats.OutputPath)
			fmt.Fprintf(&builder, statsTimestampFormat, utils.FormatSnapshotTimestamp(stats.Timestamp))
		}
		_, writeError := io.WriteString(writer, builder.String())
		return writeError
	default:
		return fmt.Errorf(invalidFormatMessage, format)
	}
}

type inventoryDocument struct {
	Root         string            `json:"root" yaml:"root"`
	FilesVisited int               `json:"filesVisited" yaml:"filesVisited"`
	TextFiles    []types.ScanEntry `json:"textFiles" yaml:"textFiles"`
	IgnoredItems []types.ScanEntry `json:"ignoredItems" yaml:"ignoredItems"`
	Rules        types.RuleSummary `json:"rules" yaml:"rules"`
}

// RenderInventory writes the classified entries of a scan. Entries are sorted by path.
func RenderInventory(writer io.Writer, root string, inventory types.Inventory, summary types.RuleSummary, format string) error {
	document := inventoryDocument{
		Root:         root,
		FilesVisited: inventory.FilesVisited,
		TextFiles:    sortedEntries(inventory.TextFiles),
		IgnoredItems: sortedEntries(inventory.IgnoredItems),
		Rules:        summary,
	}
	switch format {
	case types.FormatJSON, types.FormatYAML:
		return encodeStructured(writer, document, format)
	case types.FormatText:
		var builder strings.Builder
		writeInventorySection(&builder, textFilesHeading, document.TextFiles, false)
		writeInventorySection(&builder, ignoredDirsHeading, sortedEntries(inventory.IgnoredDirectories()), true)
		writeInventorySection(&builder, ignoredFilesHeading, sortedEntries(inventory.IgnoredFiles()), true)
		writeInventorySection(&builder, binaryFilesHeading, sortedEntries(inventory.BinaryFiles()), false)
		_, writeError := io.WriteString(writer, builder.String())
		return writeError
	default:
		return fmt.Errorf(invalidFormatMessage, format)
	}
}

func writeInventorySection(builder *strings.Builder, heading string, entries []types.ScanEntry, withSource bool) {
	fmt.Fprintf(builder, inventorySectionFormat, heading, len(entries))
	for _, entry := range entries {
		if withSource && entry.Source != types.IgnoreSourceNone {
			fmt.Fprintf(builder, inventorySourceFormat, entry.RelativePath, entry.Source)
			continue
		}
		fmt.Fprintf(builder, inventoryLineFormat, entry.RelativePath)
	}
}

func sortedEntries(entries []types.ScanEntry) []types.ScanEntry {
	sorted := append([]types.ScanEntry(nil), entries...)
	sort.SliceStable(sorted, func(left, right int) bool {
		return sorted[left].RelativePath < sorted[right].RelativePath
	})
	return sorted
}

func encodeStructured(writer io.Writer, value any, format string) error {
	if format == types.FormatYAML {
		encoder := yaml.NewEncoder(writer)
		encoder.SetIndent(len(indentSpacer))
		if encodeError := encoder.Encode(value); encodeError != nil {
			return fmt.Errorf("encode yaml: %w", encodeError)
		}
		return encoder.Close()
	}
	encoded, encodeError := json.MarshalIndent(value, indentPrefix, indentSpacer)
	if encodeError != nil {
		return fmt.Errorf("encode json: %w", encodeError)
	}
	_, writeError := fmt.Fprintln(writer, string(encoded))
	return writeError
}
