package cli

import (
	"io"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func TestToggleFlagParsesValues(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name         string
		defaultValue bool
		arguments    []string
		expected     bool
		expectError  bool
	}{
		{name: "defaults_to_true", defaultValue: true, arguments: []string{}, expected: true},
		{name: "sets_true_without_value", defaultValue: false, arguments: []string{"--summary"}, expected: true},
		{name: "sets_false_with_equals", defaultValue: true, arguments: []string{"--summary=false"}, expected: false},
		{name: "sets_false_with_no_literal", defaultValue: true, arguments: []string{"--summary", "no"}, expected: false},
		{name: "sets_true_with_on_literal", defaultValue: false, arguments: []string{"--summary", "on"}, expected: true},
		{name: "keeps_path_after_flag", defaultValue: false, arguments: []string{"--summary", "./service"}, expected: true},
		{name: "rejects_invalid_inline_value", defaultValue: false, arguments: []string{"--summary=maybe"}, expectError: true},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			command := &cobra.Command{Use: "toggle-test"}
			command.SetOut(io.Discard)
			command.SetErr(io.Discard)
			flagValue := !testCase.defaultValue
			registerToggleFlag(command.Flags(), &flagValue, "summary", testCase.defaultValue, "include summary")
			parseErr := command.ParseFlags(normalizeToggleArguments(command, testCase.arguments))
			if testCase.expectError {
				if parseErr == nil {
					t.Fatalf("expected parse error for arguments %v", testCase.arguments)
				}
				return
			}
			if parseErr != nil {
				t.Fatalf("unexpected parse error: %v", parseErr)
			}
			if flagValue != testCase.expected {
				t.Fatalf("expected %t, got %t", testCase.expected, flagValue)
			}
		})
	}
}

func TestNormalizeToggleArguments(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name      string
		arguments []string
		expected  []string
	}{
		{
			name:      "joins_literal",
			arguments: []string{"run", "--copy", "no", "."},
			expected:  []string{"run", "--copy=no", "."},
		},
		{
			name:      "keeps_path",
			arguments: []string{"run", "--prompt", "./service"},
			expected:  []string{"run", "--prompt", "./service"},
		},
		{
			name:      "keeps_single_letter_directory",
			arguments: []string{"tree", "--git", "t"},
			expected:  []string{"tree", "--git", "t"},
		},
		{
			name:      "ignores_value_flags",
			arguments: []string{"tree", "--format", "yes"},
			expected:  []string{"tree", "--format", "yes"},
		},
		{
			name:      "stops_at_terminator",
			arguments: []string{"classify", "--", "--git", "no"},
			expected:  []string{"classify", "--", "--git", "no"},
		},
	}
	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			rootCommand := newApplication(nil, &recordingCopier{}).createRootCommand()
			actual := normalizeToggleArguments(rootCommand, testCase.arguments)
			if strings.Join(actual, " ") != strings.Join(testCase.expected, " ") {
				t.Fatalf("expected %v, got %v", testCase.expected, actual)
			}
		})
	}
}
