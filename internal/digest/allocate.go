package digest

// SkipReason explains why a classified file is missing from the digest.
type SkipReason string

const (
	// SkipReasonBudget marks files that did not fit in the remaining budget.
	SkipReasonBudget SkipReason = "budget"
	// SkipReasonUnreadable marks files whose content could not be read as text.
	SkipReasonUnreadable SkipReason = "unreadable"
)

// SkippedFile records a classified file left out of the digest.
type SkippedFile struct {
	Path   string     `json:"path" xml:"path,attr" yaml:"path"`
	Tier   Tier       `json:"tier" xml:"tier,attr" yaml:"tier"`
	Reason SkipReason `json:"reason" xml:"reason,attr" yaml:"reason"`
	Detail string     `json:"detail,omitempty" xml:",chardata" yaml:"detail,omitempty"`
}

// AllocationResult is the outcome of walking the tiers under a budget.
type AllocationResult struct {
	// Admitted lists files in admission order, which is also the digest order.
	Admitted []FileEntry
	// Remaining is the budget left after admission. It is negative when
	// mandatory files alone exceeded the budget.
	Remaining int
	Skipped   []SkippedFile
}

// NewFileEntry builds a FileEntry whose content is read lazily during allocation.
func NewFileEntry(source SourceFile, tier Tier) FileEntry {
	return FileEntry{
		Path:     NormalizePath(source.Path),
		Size:     source.Size,
		Tier:     tier,
		accessor: source.Content,
	}
}

// Allocate walks tiers in priority order and admits files against budget.
// Mandatory tiers are admitted unconditionally and charged even when that
// drives the budget negative. Files of other tiers are admitted only when their
// cost fits in what remains; a file that does not fit is skipped and the walk
// continues with the next file. Cost is the character count after truncation
// at ceiling, including the truncation notice.
func Allocate(tiers [][]FileEntry, budget int, ceiling int) AllocationResult {
	result := AllocationResult{Remaining: budget}
	for _, tierEntries := range tiers {
		for _, entry := range tierEntries {
			mandatory := entry.Tier.Mandatory()
			if !mandatory && result.Remaining <= 0 {
				result.Skipped = append(result.Skipped, SkippedFile{Path: entry.Path, Tier: entry.Tier, Reason: SkipReasonBudget})
				continue
			}

			admittedEntry, readError := readEntry(entry, ceiling)
			if readError != nil {
				result.Skipped = append(result.Skipped, SkippedFile{
					Path:   entry.Path,
					Tier:   entry.Tier,
					Reason: SkipReasonUnreadable,
					Detail: readError.Error(),
				})
				continue
			}

			cost := CharacterCount(admittedEntry.Content)
			if !mandatory && cost > result.Remaining {
				result.Skipped = append(result.Skipped, SkippedFile{Path: entry.Path, Tier: entry.Tier, Reason: SkipReasonBudget})
				continue
			}
			result.Remaining -= cost
			result.Admitted = append(result.Admitted, admittedEntry)
		}
	}
	return result
}

func readEntry(entry FileEntry, ceiling int) (FileEntry, error) {
	accessor := entry.accessor
	if accessor == nil {
		accessor = StringContent(entry.Content)
	}
	text, more, readError := accessor.ReadUpTo(ceiling)
	if readError != nil {
		return FileEntry{}, readError
	}
	entry.Content, entry.Truncated = TruncateRead(text, more, ceiling)
	entry.accessor = nil
	return entry, nil
}
