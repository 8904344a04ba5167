package digest

import "sort"

// Aggregate groups entries into tiers 1 through 5. Each tier is sorted by
// ascending size, ties broken by path. Entries with an unknown tier are dropped.
func Aggregate(entries []FileEntry) [][]FileEntry {
	tiers := make([][]FileEntry, tierCount)
	for _, entry := range entries {
		if !entry.Tier.Valid() {
			continue
		}
		tierIndex := int(entry.Tier) - 1
		tiers[tierIndex] = append(tiers[tierIndex], entry)
	}
	for _, tierEntries := range tiers {
		sort.SliceStable(tierEntries, func(left, right int) bool {
			if tierEntries[left].Size != tierEntries[right].Size {
				return tierEntries[left].Size < tierEntries[right].Size
			}
			return tierEntries[left].Path < tierEntries[right].Path
		})
	}
	return tiers
}
