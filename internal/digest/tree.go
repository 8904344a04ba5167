package digest

import (
	"fmt"
	"sort"
	"strings"
)

const (
	treeRootLabel             = "."
	treeEmptyLabel            = "(empty)"
	treeBranchConnector       = "├── "
	treeLastConnector         = "└── "
	treeBranchIndent          = "│   "
	treeLastIndent            = "    "
	treeTruncatedNoticeFormat = "... [tree truncated at %d entries]"
)

type treeNode struct {
	name        string
	directories map[string]*treeNode
	files       map[string]struct{}
}

func newTreeNode(name string) *treeNode {
	return &treeNode{name: name, directories: map[string]*treeNode{}, files: map[string]struct{}{}}
}

// RenderTree draws the given paths as a nested tree. Directories are listed
// before files and each group is sorted lexicographically. When maxEntries is
// positive and smaller than the number of paths, only the first maxEntries
// paths in sorted order are drawn and a notice line is appended.
func RenderTree(paths []string, maxEntries int) string {
	sortedPaths := make([]string, 0, len(paths))
	seen := make(map[string]struct{}, len(paths))
	for _, filePath := range paths {
		normalized := NormalizePath(filePath)
		if normalized == "" || normalized == treeRootLabel {
			continue
		}
		if _, duplicate := seen[normalized]; duplicate {
			continue
		}
		seen[normalized] = struct{}{}
		sortedPaths = append(sortedPaths, normalized)
	}
	if len(sortedPaths) == 0 {
		return treeEmptyLabel
	}
	sort.Strings(sortedPaths)

	truncated := false
	if maxEntries > 0 && len(sortedPaths) > maxEntries {
		sortedPaths = sortedPaths[:maxEntries]
		truncated = true
	}

	root := newTreeNode(treeRootLabel)
	for _, filePath := range sortedPaths {
		segments := strings.Split(filePath, "/")
		current := root
		for _, directoryName := range segments[:len(segments)-1] {
			child, exists := current.directories[directoryName]
			if !exists {
				child = newTreeNode(directoryName)
				current.directories[directoryName] = child
			}
			current = child
		}
		current.files[segments[len(segments)-1]] = struct{}{}
	}

	var builder strings.Builder
	builder.WriteString(treeRootLabel)
	writeTreeChildren(&builder, root, "")
	if truncated {
		builder.WriteString("\n")
		builder.WriteString(fmt.Sprintf(treeTruncatedNoticeFormat, maxEntries))
	}
	return builder.String()
}

func writeTreeChildren(builder *strings.Builder, node *treeNode, prefix string) {
	directoryNames := make([]string, 0, len(node.directories))
	for directoryName := range node.directories {
		directoryNames = append(directoryNames, directoryName)
	}
	sort.Strings(directoryNames)
	fileNames := make([]string, 0, len(node.files))
	for fileName := range node.files {
		fileNames = append(fileNames, fileName)
	}
	sort.Strings(fileNames)

	totalChildren := len(directoryNames) + len(fileNames)
	childIndex := 0
	for _, directoryName := range directoryNames {
		childIndex++
		connector, nextPrefix := treeConnector(prefix, childIndex == totalChildren)
		builder.WriteString("\n" + prefix + connector + directoryName + "/")
		writeTreeChildren(builder, node.directories[directoryName], nextPrefix)
	}
	for _, fileName := range fileNames {
		childIndex++
		connector, _ := treeConnector(prefix, childIndex == totalChildren)
		builder.WriteString("\n" + prefix + connector + fileName)
	}
}

func treeConnector(prefix string, isLast bool) (string, string) {
	if isLast {
		return treeLastConnector, prefix + treeLastIndent
	}
	return treeBranchConnector, prefix + treeBranchIndent
}
