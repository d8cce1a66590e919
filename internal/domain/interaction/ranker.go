package interaction

import "sort"

// RankAndTruncate orders interactions by approval then score and keeps the
// first quota entries.
//
// Approved interactions sort before unapproved ones regardless of score;
// within the same approval state higher scores sort first. Missing flags and
// scores rank as false and 0. The sort is stable, so ties keep their input
// order and repeated runs reproduce the same result. A quota of 0 yields an
// empty list; a quota beyond the list length returns the whole sorted list.
//
// The input slice is never reordered; the result is a fresh slice.
func RankAndTruncate(interactions []Interaction, quota int) []Interaction {
	ranked := make([]Interaction, len(interactions))
	copy(ranked, interactions)

	sort.SliceStable(ranked, func(i, j int) bool {
		approvedI, approvedJ := ranked[i].ApprovedFlag(), ranked[j].ApprovedFlag()
		if approvedI != approvedJ {
			return approvedI
		}
		return ranked[i].ScoreValue() > ranked[j].ScoreValue()
	})

	if quota < 0 {
		quota = 0
	}
	if quota > len(ranked) {
		quota = len(ranked)
	}
	return ranked[:quota]
}

//Personal.AI order the ending
