// Package digest selects, orders, truncates and composes repository files into a
// bounded textual digest intended for a downstream summarizer.
package digest

import (
	"bufio"
	"strings"
)

// Tier is a priority bucket. Lower values are considered first.
type Tier int

const (
	// TierDocumentation holds top-level prose such as README and CHANGELOG.
	TierDocumentation Tier = 1
	// TierManifest holds dependency manifests and container descriptors.
	TierManifest Tier = 2
	// TierEntryPoint holds conventional program entry points.
	TierEntryPoint Tier = 3
	// TierInfrastructure holds CI, build and web-server configuration.
	TierInfrastructure Tier = 4
	// TierSource holds everything else that survived exclusion.
	TierSource Tier = 5

	tierCount = 5
)

// Mandatory reports whether files of the tier are admitted regardless of the remaining budget.
func (tier Tier) Mandatory() bool {
	return tier == TierDocumentation || tier == TierManifest
}

// Valid reports whether the tier is one of the five known tiers.
func (tier Tier) Valid() bool {
	return tier >= TierDocumentation && tier <= TierSource
}

// String returns a short label for the tier.
func (tier Tier) String() string {
	switch tier {
	case TierDocumentation:
		return "documentation"
	case TierManifest:
		return "manifest"
	case TierEntryPoint:
		return "entrypoint"
	case TierInfrastructure:
		return "infrastructure"
	case TierSource:
		return "source"
	default:
		return "unknown"
	}
}

// ContentAccessor produces file text on demand.
//
// ReadUpTo returns at most limit characters from the beginning of the content and
// reports whether more content follows. Implementations must not load more than
// they need to answer that question.
type ContentAccessor interface {
	ReadUpTo(limit int) (text string, more bool, err error)
}

// StringContent is an in-memory ContentAccessor.
type StringContent string

// ReadUpTo implements ContentAccessor.
func (content StringContent) ReadUpTo(limit int) (string, bool, error) {
	return ReadRunes(bufio.NewReader(strings.NewReader(string(content))), limit)
}

// SourceFile is one file handed over by the fetch layer.
type SourceFile struct {
	Path    string
	Size    int64
	Content ContentAccessor
}

// FileEntry is a classified, non-excluded file.
type FileEntry struct {
	Path      string
	Size      int64
	Tier      Tier
	Content   string
	Truncated bool

	accessor ContentAccessor
}
