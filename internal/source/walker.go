// Package source collects repository files from the local filesystem for the digest pipeline.
package source

import (
	"bufio"
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/temirov/digest/internal/digest"
	"github.com/temirov/digest/internal/utils"
	"go.uber.org/zap"
)

const (
	errorAbsolutePathFormat = "failed to get absolute path for %s: %w"
	errorStatPathFormat     = "failed to stat %s: %w"
	errorLoadIgnoreFormat   = "loading ignore files from %s: %w"
	logMessageAccessFailed  = "skipping inaccessible path"
	logMessageBinarySkipped = "skipping binary file"
	logFieldPath            = "path"
	logFieldError           = "error"
)

// Options controls which files a Walker reports.
type Options struct {
	// ExclusionPatterns are gitignore-style patterns applied relative to the walked root.
	ExclusionPatterns []string
	UseGitignore      bool
	UseIgnoreFile     bool
	IncludeGit        bool
}

// Walker lists the text files under a root directory.
type Walker struct {
	options Options
	logger  *zap.Logger
}

// NewWalker constructs a Walker. A nil logger discards log output.
func NewWalker(options Options, logger *zap.Logger) *Walker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Walker{options: options, logger: logger}
}

// Collect walks rootPath and returns one SourceFile per surviving regular file,
// with forward-slash paths relative to rootPath. File content is not read here;
// each SourceFile carries an accessor that opens the file on demand. When
// rootPath is a file, it is returned alone under its base name.
func (walker *Walker) Collect(executionContext context.Context, rootPath string) ([]digest.SourceFile, error) {
	absoluteRootPath, absolutePathError := filepath.Abs(rootPath)
	if absolutePathError != nil {
		return nil, fmt.Errorf(errorAbsolutePathFormat, rootPath, absolutePathError)
	}
	cleanedRootPath := filepath.Clean(absoluteRootPath)

	rootInfo, statError := os.Stat(cleanedRootPath)
	if statError != nil {
		return nil, fmt.Errorf(errorStatPathFormat, rootPath, statError)
	}
	if !rootInfo.IsDir() {
		return []digest.SourceFile{newSourceFile(filepath.Base(cleanedRootPath), cleanedRootPath, rootInfo.Size())}, nil
	}

	cache, cacheError := newIgnoreCache(cleanedRootPath, walker.options)
	if cacheError != nil {
		return nil, fmt.Errorf(errorLoadIgnoreFormat, rootPath, cacheError)
	}

	var collected []digest.SourceFile
	walkError := filepath.WalkDir(cleanedRootPath, func(walkedPath string, directoryEntry fs.DirEntry, accessError error) error {
		if contextError := executionContext.Err(); contextError != nil {
			return contextError
		}
		if accessError != nil {
			walker.logger.Warn(logMessageAccessFailed, zap.String(logFieldPath, walkedPath), zap.Error(accessError))
			if directoryEntry != nil && directoryEntry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if walkedPath == cleanedRootPath {
			return nil
		}

		if directoryEntry.IsDir() {
			if cache.ignored(walkedPath, true) {
				return filepath.SkipDir
			}
			if loadError := cache.loadDirectory(walkedPath); loadError != nil {
				return fmt.Errorf(errorLoadIgnoreFormat, walkedPath, loadError)
			}
			return nil
		}
		if !directoryEntry.Type().IsRegular() {
			return nil
		}
		if utils.IsServiceFile(directoryEntry.Name()) || cache.ignored(walkedPath, false) {
			return nil
		}

		fileInfo, infoError := directoryEntry.Info()
		if infoError != nil {
			walker.logger.Warn(logMessageAccessFailed, zap.String(logFieldPath, walkedPath), zap.Error(infoError))
			return nil
		}
		if utils.IsFileBinary(walkedPath) {
			walker.logger.Debug(logMessageBinarySkipped, zap.String(logFieldPath, walkedPath))
			return nil
		}

		relativePath := utils.RelativePathOrSelf(walkedPath, cleanedRootPath)
		collected = append(collected, newSourceFile(relativePath, walkedPath, fileInfo.Size()))
		return nil
	})
	if walkError != nil {
		return nil, walkError
	}
	return collected, nil
}

func newSourceFile(relativePath string, absolutePath string, size int64) digest.SourceFile {
	return digest.SourceFile{
		Path:    relativePath,
		Size:    size,
		Content: fileContent{absolutePath: absolutePath},
	}
}

// fileContent reads a file lazily, stopping after the requested number of characters.
type fileContent struct {
	absolutePath string
}

// ReadUpTo implements digest.ContentAccessor.
//
// #nosec G304
func (content fileContent) ReadUpTo(limit int) (string, bool, error) {
	fileHandle, openError := os.Open(content.absolutePath)
	if openError != nil {
		return "", false, openError
	}
	defer fileHandle.Close()
	return digest.ReadRunes(bufio.NewReader(fileHandle), limit)
}
