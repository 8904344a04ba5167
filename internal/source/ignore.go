package source

import (
	"path/filepath"

	ignore "github.com/sabhiram/go-gitignore"
	"github.com/temirov/digest/internal/config"
	"github.com/temirov/digest/internal/utils"
)

// ignoreCache holds the compiled ignore files found while walking one root.
// Directories are visited top-down, so a directory's own ignore files are
// loaded before any of its entries are checked.
type ignoreCache struct {
	rootPath     string
	useGitignore bool
	useIgnore    bool
	compiled     map[string][]*ignore.GitIgnore
	visited      map[string]struct{}
	exclusions   *ignore.GitIgnore
}

func newIgnoreCache(rootPath string, options Options) (*ignoreCache, error) {
	exclusionLines := utils.DeduplicatePatterns(options.ExclusionPatterns)
	if !options.IncludeGit {
		exclusionLines = append(exclusionLines, utils.GitDirectoryName+"/")
	}
	cache := &ignoreCache{
		rootPath:     rootPath,
		useGitignore: options.UseGitignore,
		useIgnore:    options.UseIgnoreFile,
		compiled:     make(map[string][]*ignore.GitIgnore),
		visited:      make(map[string]struct{}),
		exclusions:   ignore.CompileIgnoreLines(exclusionLines...),
	}
	if loadError := cache.loadDirectory(rootPath); loadError != nil {
		return nil, loadError
	}
	return cache, nil
}

func (cache *ignoreCache) loadDirectory(directoryPath string) error {
	if _, seen := cache.visited[directoryPath]; seen {
		return nil
	}
	cache.visited[directoryPath] = struct{}{}

	var fileNames []string
	if cache.useIgnore {
		fileNames = append(fileNames, utils.IgnoreFileName)
	}
	if cache.useGitignore {
		fileNames = append(fileNames, utils.GitIgnoreFileName)
	}
	for _, fileName := range fileNames {
		patterns, loadError := config.LoadIgnoreFilePatterns(filepath.Join(directoryPath, fileName))
		if loadError != nil {
			return loadError
		}
		if len(patterns) == 0 {
			continue
		}
		cache.compiled[directoryPath] = append(cache.compiled[directoryPath], ignore.CompileIgnoreLines(patterns...))
	}
	return nil
}

// ignored reports whether absolutePath is excluded by the command-line
// exclusions or by any ignore file between its directory and the root.
func (cache *ignoreCache) ignored(absolutePath string, isDirectory bool) bool {
	relativePath := utils.RelativePathOrSelf(absolutePath, cache.rootPath)
	if matchesIgnore(cache.exclusions, relativePath, isDirectory) {
		return true
	}
	directoryPath := filepath.Dir(absolutePath)
	for {
		for _, compiled := range cache.compiled[directoryPath] {
			relativeToIgnoreFile, relativeError := filepath.Rel(directoryPath, absolutePath)
			if relativeError == nil && matchesIgnore(compiled, filepath.ToSlash(relativeToIgnoreFile), isDirectory) {
				return true
			}
		}
		if directoryPath == cache.rootPath {
			return false
		}
		parentPath := filepath.Dir(directoryPath)
		if parentPath == directoryPath {
			return false
		}
		directoryPath = parentPath
	}
}

// Directory patterns such as "build/" only match a trailing slash.
func matchesIgnore(compiled *ignore.GitIgnore, relativePath string, isDirectory bool) bool {
	if compiled.MatchesPath(relativePath) {
		return true
	}
	return isDirectory && compiled.MatchesPath(relativePath+"/")
}
