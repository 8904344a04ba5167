package config

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
)

const (
	ignoreFileCommentPrefix = "#"
	binarySectionHeader     = "[binary]"
	ignoreSectionHeader     = "[ignore]"

	errorReadIgnoreFileFormat  = "read ignore file %s: %w"
	errorParseIgnoreFileFormat = "parse ignore file %s: %w"
)

// LoadIgnoreFilePatterns reads an ignore file and returns its patterns.
// A missing file yields no patterns and no error.
//
// #nosec G304
func LoadIgnoreFilePatterns(ignoreFilePath string) ([]string, error) {
	contents, readError := os.ReadFile(ignoreFilePath)
	if readError != nil {
		if errors.Is(readError, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf(errorReadIgnoreFileFormat, ignoreFilePath, readError)
	}
	patterns, parseError := ParseIgnorePatterns(bytes.NewReader(contents))
	if parseError != nil {
		return nil, fmt.Errorf(errorParseIgnoreFileFormat, ignoreFilePath, parseError)
	}
	return patterns, nil
}

// ParseIgnorePatterns returns the gitignore-style patterns of an ignore
// document. Blank lines and comments are dropped, and so is everything listed
// under a [binary] section until the next [ignore] header.
func ParseIgnorePatterns(reader io.Reader) ([]string, error) {
	var patterns []string
	inBinarySection := false
	scanner := bufio.NewScanner(reader)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "", strings.HasPrefix(line, ignoreFileCommentPrefix):
		case strings.EqualFold(line, binarySectionHeader):
			inBinarySection = true
		case strings.EqualFold(line, ignoreSectionHeader):
			inBinarySection = false
		case !inBinarySection:
			patterns = append(patterns, line)
		}
	}
	if scanError := scanner.Err(); scanError != nil {
		return nil, scanError
	}
	return patterns, nil
}
