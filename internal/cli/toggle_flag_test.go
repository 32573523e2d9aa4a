package cli

import (
	"io"
	"reflect"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func TestToggleFlagParsesValues(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name        string
		arguments   []string
		expected    bool
		expectError bool
	}{
		{name: "defaults_to_false", arguments: []string{}, expected: false},
		{name: "sets_true_without_value", arguments: []string{"--copy"}, expected: true},
		{name: "sets_false_with_equals", arguments: []string{"--copy=false"}, expected: false},
		{name: "sets_true_with_on", arguments: []string{"--copy=on"}, expected: true},
		{name: "rejects_unknown_literal", arguments: []string{"--copy=maybe"}, expectError: true},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			var value bool
			flagSet := pflag.NewFlagSet("toggle", pflag.ContinueOnError)
			flagSet.SetOutput(io.Discard)
			addToggleFlag(flagSet, &value, "copy", "copy")
			parseError := flagSet.Parse(testCase.arguments)
			if testCase.expectError {
				if parseError == nil {
					t.Fatalf("expected error for %v", testCase.arguments)
				}
				return
			}
			if parseError != nil {
				t.Fatalf("unexpected parse error: %v", parseError)
			}
			if value != testCase.expected {
				t.Fatalf("expected %t, got %t", testCase.expected, value)
			}
		})
	}
}

func TestNormalizeToggleArguments(t *testing.T) {
	t.Parallel()

	var copyEnabled, quiet bool
	var format string
	root := &cobra.Command{Use: "root"}
	addToggleFlag(root.PersistentFlags(), &quiet, "quiet", "quiet")
	child := &cobra.Command{Use: "snapshot"}
	addToggleFlag(child.Flags(), &copyEnabled, "copy", "copy")
	child.Flags().StringVar(&format, "format", "", "format")
	root.AddCommand(child)

	testCases := []struct {
		name      string
		arguments []string
		expected  []string
	}{
		{
			name:      "joins_literal",
			arguments: []string{"snapshot", "--copy", "no", "."},
			expected:  []string{"snapshot", "--copy=no", "."},
		},
		{
			name:      "keeps_path_after_toggle",
			arguments: []string{"snapshot", "--copy", "./project"},
			expected:  []string{"snapshot", "--copy", "./project"},
		},
		{
			name:      "persistent_toggle",
			arguments: []string{"--quiet", "yes", "snapshot"},
			expected:  []string{"--quiet=yes", "snapshot"},
		},
		{
			name:      "ignores_value_flags",
			arguments: []string{"snapshot", "--format", "no"},
			expected:  []string{"snapshot", "--format", "no"},
		},
		{
			name:      "stops_at_separator",
			arguments: []string{"snapshot", "--", "--copy", "no"},
			expected:  []string{"snapshot", "--", "--copy", "no"},
		},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			normalized := normalizeToggleArguments(root, testCase.arguments)
			if !reflect.DeepEqual(normalized, testCase.expected) {
				t.Fatalf("expected %v, got %v", testCase.expected, normalized)
			}
		})
	}
}
