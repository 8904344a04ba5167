package digest

import "strings"

const (
	documentTreeHeading    = "## Directory Structure"
	documentContentHeading = "## File Contents"
	sectionHeaderPrefix    = "### "
	fenceCharacter         = '`'
	minimumFenceLength     = 3
)

// Section is one admitted file as it appears in the digest.
type Section struct {
	Path      string `json:"path" xml:"path,attr" yaml:"path"`
	Tier      Tier   `json:"tier" xml:"tier,attr" yaml:"tier"`
	Size      int64  `json:"size" xml:"size,attr" yaml:"size"`
	Truncated bool   `json:"truncated" xml:"truncated,attr" yaml:"truncated"`
	Content   string `json:"content" xml:",chardata" yaml:"content"`
}

// Digest is the bounded artifact handed to the summarizer.
type Digest struct {
	Tree     string
	Sections []Section
	Skipped  []SkippedFile
	// Budget is the character budget the digest was built with.
	Budget int
	// Remaining is the budget left after admission.
	Remaining int
}

// Compose assembles the digest from the rendered tree and the admitted files in their given order.
func Compose(tree string, admitted []FileEntry, skipped []SkippedFile, budget int, remaining int) Digest {
	sections := make([]Section, 0, len(admitted))
	for _, entry := range admitted {
		sections = append(sections, Section{
			Path:      entry.Path,
			Tier:      entry.Tier,
			Size:      entry.Size,
			Truncated: entry.Truncated,
			Content:   entry.Content,
		})
	}
	return Digest{
		Tree:      tree,
		Sections:  sections,
		Skipped:   append([]SkippedFile(nil), skipped...),
		Budget:    budget,
		Remaining: remaining,
	}
}

// Document renders the digest as one text block: the tree followed by one
// fenced section per admitted file.
func (digest Digest) Document() string {
	var builder strings.Builder
	builder.WriteString(documentTreeHeading + "\n")
	writeFenced(&builder, digest.Tree)
	builder.WriteString("\n\n")
	builder.WriteString(documentContentHeading + "\n")
	for sectionIndex, section := range digest.Sections {
		if sectionIndex > 0 {
			builder.WriteString("\n\n")
		}
		builder.WriteString(sectionHeaderPrefix + section.Path + "\n")
		writeFenced(&builder, section.Content)
	}
	return builder.String()
}

// writeFenced writes content inside a code fence longer than any backtick run
// in content, so embedded fences cannot close the block early.
func writeFenced(builder *strings.Builder, content string) {
	fence := CodeFence(content)
	builder.WriteString(fence + "\n" + content + "\n" + fence)
}

// CodeFence returns the backtick fence for content: three backticks, or one
// more than the longest backtick run in content.
func CodeFence(content string) string {
	longestRun, currentRun := 0, 0
	for _, character := range content {
		if character != fenceCharacter {
			currentRun = 0
			continue
		}
		currentRun++
		longestRun = max(longestRun, currentRun)
	}
	return strings.Repeat(string(fenceCharacter), max(minimumFenceLength, longestRun+1))
}

// TotalCharacters returns the character count of Document.
func (digest Digest) TotalCharacters() int {
	return CharacterCount(digest.Document())
}

// ContentCharacters returns the character count of the admitted contents alone.
func (digest Digest) ContentCharacters() int {
	total := 0
	for _, section := range digest.Sections {
		total += CharacterCount(section.Content)
	}
	return total
}

// TruncatedCount returns the number of admitted sections that were truncated.
func (digest Digest) TruncatedCount() int {
	count := 0
	for _, section := range digest.Sections {
		if section.Truncated {
			count++
		}
	}
	return count
}
