package partition

import (
	"cmp"
	"slices"
)

// SpeciesFrequency is one line of the frequency report.
type SpeciesFrequency struct {
	Species Species
	Count   int
}

// FrequencyReport orders species by count descending. Equal counts are
// ordered by scientific name, then common name.
func FrequencyReport(counts SpeciesCount) []SpeciesFrequency {
	report := make([]SpeciesFrequency, 0, len(counts))
	for sp, n := range counts {
		report = append(report, SpeciesFrequency{Species: sp, Count: n})
	}

	slices.SortFunc(report, func(a, b SpeciesFrequency) int {
		return cmp.Or(
			cmp.Compare(b.Count, a.Count),
			cmp.Compare(a.Species.Scientific, b.Species.Scientific),
			cmp.Compare(a.Species.Common, b.Species.Common),
		)
	})
	return report
}
