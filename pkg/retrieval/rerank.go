package retrieval

import (
	"sort"
	"strings"
)

// ApplyKeywordBonus reorders candidates by distance, discounting those whose
// content contains the keyword as a case-insensitive substring. A cheap
// lexical signal like an exact regulation number often beats embedding
// similarity alone.
//
// The input slice is not mutated. Sorting is stable, so equal distances keep
// their input order.
func ApplyKeywordBonus(items []Candidate, keyword string, bonus float64) []Candidate {
	out := make([]Candidate, len(items))
	copy(out, items)

	loweredKeyword := strings.ToLower(strings.TrimSpace(keyword))
	if loweredKeyword != "" {
		for i := range out {
			if strings.Contains(strings.ToLower(out[i].Content), loweredKeyword) {
				out[i].HitKeyword = true
				out[i].Distance -= bonus
			}
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Distance < out[j].Distance
	})

	return out
}
