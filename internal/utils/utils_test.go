package utils_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/temirov/digest/internal/utils"
)

type failingReader struct{}

var errReadFailed = errors.New("read failed")

func (failingReader) Read([]byte) (int, error) {
	return 0, errReadFailed
}

func TestDeduplicatePatterns(testingInstance *testing.T) {
	testingInstance.Parallel()
	testCases := []struct {
		testName string
		patterns []string
		expected []string
	}{
		{testName: "first occurrence wins", patterns: []string{"dist/", "*.log", "dist/"}, expected: []string{"dist/", "*.log"}},
		{testName: "trims before comparing", patterns: []string{" vendor/", "vendor/ "}, expected: []string{"vendor/"}},
		{testName: "drops blanks", patterns: []string{"", "  ", "tmp/"}, expected: []string{"tmp/"}},
		{testName: "nil input", patterns: nil, expected: []string{}},
	}
	for _, testCase := range testCases {
		testCase := testCase
		testingInstance.Run(testCase.testName, func(testingInstance *testing.T) {
			testingInstance.Parallel()
			actual := utils.DeduplicatePatterns(testCase.patterns)
			if !reflect.DeepEqual(actual, testCase.expected) {
				testingInstance.Fatalf("expected %q, got %q", testCase.expected, actual)
			}
		})
	}
}

func TestIsServiceFile(testingInstance *testing.T) {
	testingInstance.Parallel()
	serviceNames := map[string]bool{
		utils.IgnoreFileName:    true,
		utils.GitIgnoreFileName: true,
		utils.ConfigFileName:    false,
		".gitattributes":        false,
		"README.md":             false,
	}
	for name, expected := range serviceNames {
		if actual := utils.IsServiceFile(name); actual != expected {
			testingInstance.Errorf("%s: expected %t, got %t", name, expected, actual)
		}
	}
}

func TestRelativePathOrSelf(testingInstance *testing.T) {
	testingInstance.Parallel()
	rootDirectory := testingInstance.TempDir()
	testCases := []struct {
		testName string
		fullPath string
		expected string
	}{
		{testName: "root itself", fullPath: rootDirectory, expected: "."},
		{testName: "nested file", fullPath: filepath.Join(rootDirectory, "cmd", "digest", "main.go"), expected: "cmd/digest/main.go"},
		{testName: "unclean path", fullPath: rootDirectory + string(filepath.Separator) + "docs" + string(filepath.Separator) + ".." + string(filepath.Separator) + "go.mod", expected: "go.mod"},
		{testName: "relative input is returned cleaned", fullPath: "a/./b.go", expected: filepath.Clean("a/./b.go")},
	}
	for _, testCase := range testCases {
		testCase := testCase
		testingInstance.Run(testCase.testName, func(testingInstance *testing.T) {
			testingInstance.Parallel()
			actual := utils.RelativePathOrSelf(testCase.fullPath, rootDirectory)
			if actual != testCase.expected {
				testingInstance.Fatalf("expected %s, got %s", testCase.expected, actual)
			}
		})
	}
}

func TestIsBinary(testingInstance *testing.T) {
	testingInstance.Parallel()
	testCases := []struct {
		testName string
		data     []byte
		expected bool
	}{
		{testName: "empty", data: nil, expected: false},
		{testName: "ascii", data: []byte("package main\n"), expected: false},
		{testName: "multi-byte text", data: []byte("naïve résumé ├──"), expected: false},
		{testName: "nul byte", data: []byte("text\x00more"), expected: true},
		{testName: "invalid utf8", data: []byte{0xff, 0xfe}, expected: true},
		{testName: "rune cut at the end", data: []byte{'a', 0xe2, 0x94}, expected: false},
		{testName: "stray continuation byte", data: []byte{'a', 0x94, 'b'}, expected: true},
	}
	for _, testCase := range testCases {
		testCase := testCase
		testingInstance.Run(testCase.testName, func(testingInstance *testing.T) {
			testingInstance.Parallel()
			if actual := utils.IsBinary(testCase.data); actual != testCase.expected {
				testingInstance.Fatalf("expected %t, got %t", testCase.expected, actual)
			}
		})
	}
}

func TestSniffBinary(testingInstance *testing.T) {
	testingInstance.Parallel()
	binary, sniffError := utils.SniffBinary(strings.NewReader("short text"))
	if sniffError != nil || binary {
		testingInstance.Fatalf("expected short text to be text, got %t, %v", binary, sniffError)
	}
	trailingNul := append(bytes.Repeat([]byte("a"), 9000), 0)
	binary, sniffError = utils.SniffBinary(bytes.NewReader(trailingNul))
	if sniffError != nil || binary {
		testingInstance.Fatalf("expected bytes past the sniff window to be ignored, got %t, %v", binary, sniffError)
	}
	if _, sniffError = utils.SniffBinary(failingReader{}); !errors.Is(sniffError, errReadFailed) {
		testingInstance.Fatalf("expected read error, got %v", sniffError)
	}
}

func TestIsFileBinary(testingInstance *testing.T) {
	testingInstance.Parallel()
	rootDirectory := testingInstance.TempDir()
	fileContents := map[string][]byte{
		"notes.txt":    []byte("hello"),
		"logo.png":     {0x89, 'P', 'N', 'G', 0x00, 0x01},
		"boundary.txt": append(bytes.Repeat([]byte("a"), 7999), []byte("é and more")...),
	}
	for name, content := range fileContents {
		if writeError := os.WriteFile(filepath.Join(rootDirectory, name), content, 0o600); writeError != nil {
			testingInstance.Fatalf("write %s: %v", name, writeError)
		}
	}
	testCases := []struct {
		testName string
		name     string
		expected bool
	}{
		{testName: "text file", name: "notes.txt", expected: false},
		{testName: "binary file", name: "logo.png", expected: true},
		{testName: "rune across sniff window", name: "boundary.txt", expected: false},
		{testName: "missing file", name: "missing", expected: false},
	}
	for _, testCase := range testCases {
		testCase := testCase
		testingInstance.Run(testCase.testName, func(testingInstance *testing.T) {
			testingInstance.Parallel()
			if actual := utils.IsFileBinary(filepath.Join(rootDirectory, testCase.name)); actual != testCase.expected {
				testingInstance.Fatalf("expected %t, got %t", testCase.expected, actual)
			}
		})
	}
}
