// Package utils holds the small helpers shared by the walker, configuration and CLI.
package utils

import (
	"path/filepath"
	"strings"
)

const (
	// IgnoreFileName is the project-level ignore file read next to .gitignore.
	IgnoreFileName = ".ignore"
	// GitIgnoreFileName is the Git ignore file.
	GitIgnoreFileName = ".gitignore"
	// GitDirectoryName is skipped unless the walker is asked to include it.
	GitDirectoryName = ".git"
	// ConfigFileName names both the local and the global configuration file.
	ConfigFileName = ".digest.yaml"
	// GlobalConfigDirectoryName is the directory under the home directory holding the global configuration.
	GlobalConfigDirectoryName = ".digest"

	currentDirectory = "."
)

// IsServiceFile reports whether name is an ignore file consumed by the walker rather than digested.
func IsServiceFile(name string) bool {
	return name == IgnoreFileName || name == GitIgnoreFileName
}

// DeduplicatePatterns trims each pattern, drops blanks and keeps the first
// occurrence of every remaining pattern in input order.
func DeduplicatePatterns(patterns []string) []string {
	seen := make(map[string]struct{}, len(patterns))
	unique := make([]string, 0, len(patterns))
	for _, pattern := range patterns {
		trimmed := strings.TrimSpace(pattern)
		if trimmed == "" {
			continue
		}
		if _, duplicate := seen[trimmed]; duplicate {
			continue
		}
		seen[trimmed] = struct{}{}
		unique = append(unique, trimmed)
	}
	return unique
}

// RelativePathOrSelf returns fullPath relative to root with forward slashes,
// "." for root itself, or the cleaned fullPath when no relative form exists.
func RelativePathOrSelf(fullPath, root string) string {
	cleanedPath := filepath.Clean(fullPath)
	absoluteRoot, absoluteError := filepath.Abs(root)
	if absoluteError != nil {
		return cleanedPath
	}
	relativePath, relativeError := filepath.Rel(absoluteRoot, cleanedPath)
	if relativeError != nil {
		return cleanedPath
	}
	if relativePath == currentDirectory {
		return currentDirectory
	}
	return filepath.ToSlash(relativePath)
}
