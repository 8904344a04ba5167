package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/temirov/digest/internal/utils"
)

// writeTestFile creates a file with the specified content, failing the test on error.
func writeTestFile(testingHandle *testing.T, filePath string, content string) {
	testingHandle.Helper()
	if writeError := os.WriteFile(filePath, []byte(content), 0o644); writeError != nil {
		testingHandle.Fatalf("failed to write %s: %v", filePath, writeError)
	}
}

// TestLoadIgnoreFilePatternsSkipsCommentsAndBinarySection verifies that only ignore patterns are returned.
func TestLoadIgnoreFilePatternsSkipsCommentsAndBinarySection(testingHandle *testing.T) {
	rootDirectory := testingHandle.TempDir()
	ignoreFilePath := filepath.Join(rootDirectory, utils.IgnoreFileName)
	writeTestFile(testingHandle, ignoreFilePath, "# generated output\ndist/\n\n*.log\n[binary]\nassets/*.png\n[ignore]\ntmp/\n")

	patternList, loadError := LoadIgnoreFilePatterns(ignoreFilePath)
	if loadError != nil {
		testingHandle.Fatalf("LoadIgnoreFilePatterns failed: %v", loadError)
	}
	expectedPatterns := []string{"dist/", "*.log", "tmp/"}
	if !reflect.DeepEqual(patternList, expectedPatterns) {
		testingHandle.Fatalf("unexpected patterns: got %v want %v", patternList, expectedPatterns)
	}
}

// TestLoadIgnoreFilePatternsMissingFile verifies that an absent ignore file is not an error.
func TestLoadIgnoreFilePatternsMissingFile(testingHandle *testing.T) {
	patternList, loadError := LoadIgnoreFilePatterns(filepath.Join(testingHandle.TempDir(), utils.GitIgnoreFileName))
	if loadError != nil {
		testingHandle.Fatalf("expected no error for missing file, got %v", loadError)
	}
	if len(patternList) != 0 {
		testingHandle.Fatalf("expected no patterns, got %v", patternList)
	}
}

// TestLoadIgnoreFilePatternsDirectory verifies that a directory in place of an ignore file is reported.
func TestLoadIgnoreFilePatternsDirectory(testingHandle *testing.T) {
	rootDirectory := testingHandle.TempDir()
	directoryPath := filepath.Join(rootDirectory, utils.IgnoreFileName)
	if makeDirError := os.MkdirAll(directoryPath, 0o755); makeDirError != nil {
		testingHandle.Fatalf("failed to create directory: %v", makeDirError)
	}
	if _, loadError := LoadIgnoreFilePatterns(directoryPath); loadError == nil {
		testingHandle.Fatalf("expected an error when the ignore path is a directory")
	}
}

// TestParseIgnorePatternsSections verifies section switching and case-insensitive headers.
func TestParseIgnorePatternsSections(testingHandle *testing.T) {
	testCases := []struct {
		name     string
		document string
		expected []string
	}{
		{name: "empty", document: "", expected: nil},
		{name: "comments only", document: "# one\n   # two\n", expected: nil},
		{name: "uppercase headers", document: "[BINARY]\n*.bin\n[Ignore]\nbuild/\n", expected: []string{"build/"}},
		{name: "binary to end", document: "vendor/\n[binary]\n*.png\n*.jpg\n", expected: []string{"vendor/"}},
		{name: "trimmed lines", document: "  coverage/  \n\t*.out\n", expected: []string{"coverage/", "*.out"}},
	}
	for _, testCase := range testCases {
		testCase := testCase
		testingHandle.Run(testCase.name, func(testingHandle *testing.T) {
			testingHandle.Parallel()
			patterns, parseError := ParseIgnorePatterns(strings.NewReader(testCase.document))
			if parseError != nil {
				testingHandle.Fatalf("ParseIgnorePatterns failed: %v", parseError)
			}
			if !reflect.DeepEqual(patterns, testCase.expected) {
				testingHandle.Fatalf("unexpected patterns: got %v want %v", patterns, testCase.expected)
			}
		})
	}
}
