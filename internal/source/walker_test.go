package source_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strings"
	"testing"

	"github.com/temirov/digest/internal/digest"
	"github.com/temirov/digest/internal/source"
)

func writeFile(t *testing.T, rootDirectory string, relativePath string, content string) {
	t.Helper()
	fullPath := filepath.Join(rootDirectory, filepath.FromSlash(relativePath))
	if makeDirError := os.MkdirAll(filepath.Dir(fullPath), 0o755); makeDirError != nil {
		t.Fatalf("failed to create directory for %s: %v", relativePath, makeDirError)
	}
	if writeError := os.WriteFile(fullPath, []byte(content), 0o644); writeError != nil {
		t.Fatalf("failed to write %s: %v", relativePath, writeError)
	}
}

func collectedPaths(files []digest.SourceFile) []string {
	paths := make([]string, 0, len(files))
	for _, file := range files {
		paths = append(paths, file.Path)
	}
	sort.Strings(paths)
	return paths
}

func buildRepository(t *testing.T) string {
	t.Helper()
	rootDirectory := t.TempDir()
	writeFile(t, rootDirectory, "README.md", "# project\n")
	writeFile(t, rootDirectory, "main.go", "package main\n")
	writeFile(t, rootDirectory, ".gitignore", "build/\n*.log\n")
	writeFile(t, rootDirectory, ".ignore", "scratch.txt\n")
	writeFile(t, rootDirectory, "build/output.txt", "artifact\n")
	writeFile(t, rootDirectory, "debug.log", "log line\n")
	writeFile(t, rootDirectory, "scratch.txt", "notes\n")
	writeFile(t, rootDirectory, "pkg/.gitignore", "local.go\n")
	writeFile(t, rootDirectory, "pkg/local.go", "package pkg\n")
	writeFile(t, rootDirectory, "pkg/shared.go", "package pkg\n")
	writeFile(t, rootDirectory, "other/local.go", "package other\n")
	writeFile(t, rootDirectory, ".git/config", "[core]\n")
	writeFile(t, rootDirectory, "image.raw", "\x00\x01\x02binary")
	return rootDirectory
}

func TestWalkerCollect(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name          string
		options       source.Options
		expectedPaths []string
	}{
		{
			name:          "all_ignore_sources",
			options:       source.Options{UseGitignore: true, UseIgnoreFile: true},
			expectedPaths: []string{"README.md", "main.go", "other/local.go", "pkg/shared.go"},
		},
		{
			name:          "gitignore_disabled",
			options:       source.Options{UseGitignore: false, UseIgnoreFile: true},
			expectedPaths: []string{"README.md", "build/output.txt", "debug.log", "main.go", "other/local.go", "pkg/local.go", "pkg/shared.go"},
		},
		{
			name:          "ignore_file_disabled",
			options:       source.Options{UseGitignore: true, UseIgnoreFile: false},
			expectedPaths: []string{"README.md", "main.go", "other/local.go", "pkg/shared.go", "scratch.txt"},
		},
		{
			name:          "command_line_exclusions",
			options:       source.Options{UseGitignore: true, UseIgnoreFile: true, ExclusionPatterns: []string{"other", "*.md"}},
			expectedPaths: []string{"main.go", "pkg/shared.go"},
		},
		{
			name:          "include_git_directory",
			options:       source.Options{UseGitignore: true, UseIgnoreFile: true, IncludeGit: true},
			expectedPaths: []string{".git/config", "README.md", "main.go", "other/local.go", "pkg/shared.go"},
		},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			rootDirectory := buildRepository(t)
			files, collectError := source.NewWalker(testCase.options, nil).Collect(context.Background(), rootDirectory)
			if collectError != nil {
				t.Fatalf("Collect failed: %v", collectError)
			}
			paths := collectedPaths(files)
			if !reflect.DeepEqual(paths, testCase.expectedPaths) {
				t.Fatalf("unexpected paths: got %v want %v", paths, testCase.expectedPaths)
			}
		})
	}
}

func TestWalkerCollectReadsLazily(t *testing.T) {
	t.Parallel()

	rootDirectory := t.TempDir()
	writeFile(t, rootDirectory, "notes.txt", strings.Repeat("ab", 50))
	files, collectError := source.NewWalker(source.Options{}, nil).Collect(context.Background(), rootDirectory)
	if collectError != nil {
		t.Fatalf("Collect failed: %v", collectError)
	}
	if len(files) != 1 {
		t.Fatalf("expected one file, got %d", len(files))
	}
	if files[0].Size != 100 {
		t.Fatalf("expected size 100, got %d", files[0].Size)
	}

	text, more, readError := files[0].Content.ReadUpTo(10)
	if readError != nil {
		t.Fatalf("ReadUpTo failed: %v", readError)
	}
	if text != strings.Repeat("ab", 5) || !more {
		t.Fatalf("unexpected partial read (%q, %t)", text, more)
	}

	if removeError := os.Remove(filepath.Join(rootDirectory, "notes.txt")); removeError != nil {
		t.Fatalf("remove failed: %v", removeError)
	}
	if _, _, readError := files[0].Content.ReadUpTo(10); readError == nil {
		t.Fatalf("expected a read error once the file is gone")
	}
}

func TestWalkerCollectSingleFile(t *testing.T) {
	t.Parallel()

	rootDirectory := t.TempDir()
	writeFile(t, rootDirectory, "nested/tool.py", "print('hi')\n")
	files, collectError := source.NewWalker(source.Options{}, nil).Collect(context.Background(), filepath.Join(rootDirectory, "nested", "tool.py"))
	if collectError != nil {
		t.Fatalf("Collect failed: %v", collectError)
	}
	if len(files) != 1 || files[0].Path != "tool.py" {
		t.Fatalf("expected tool.py alone, got %v", collectedPaths(files))
	}
}

func TestWalkerCollectMissingRoot(t *testing.T) {
	t.Parallel()

	_, collectError := source.NewWalker(source.Options{}, nil).Collect(context.Background(), filepath.Join(t.TempDir(), "absent"))
	if collectError == nil {
		t.Fatalf("expected an error for a missing root")
	}
}

func TestWalkerCollectHonoursCancellation(t *testing.T) {
	t.Parallel()

	rootDirectory := t.TempDir()
	writeFile(t, rootDirectory, "a.go", "package a\n")
	cancelledContext, cancel := context.WithCancel(context.Background())
	cancel()
	_, collectError := source.NewWalker(source.Options{}, nil).Collect(cancelledContext, rootDirectory)
	if !errors.Is(collectError, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", collectError)
	}
}
