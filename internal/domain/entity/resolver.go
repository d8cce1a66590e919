package entity

// DefaultThreshold is the minimum similarity score a fuzzy candidate must
// reach before its canonical name is accepted.
const DefaultThreshold = 0.7

// Resolution describes the outcome of resolving one raw name: the canonical
// name of the best candidate, that candidate's similarity score, whether the
// score cleared the threshold, and whether the normalized input hit an index
// key directly instead of going through fuzzy scoring.
type Resolution struct {
	Canonical string
	Score     float64
	Matched   bool
	Exact     bool
}

// Resolve maps one free-form name to the canonical name of the best-matching
// index key.
//
// Resolve returns ("", false) when rawName is empty, the index is empty, or
// no candidate clears the threshold. Callers are expected to fall back to the
// raw string; that fallback is lossy for genuinely unknown names because
// downstream record matching then depends on substring containment against
// raw user text.
func Resolve(rawName string, idx *AliasIndex, threshold float64) (string, bool) {
	r := ResolveDetailed(rawName, idx, threshold)
	return r.Canonical, r.Matched
}

// ResolveDetailed is Resolve with the full outcome; callers that audit or
// meter resolutions need the best score even when no candidate clears the
// threshold. The raw name is normalized and checked for a direct index hit
// first: a direct hit is authoritative and wins over any space-stripped twin
// the fuzzy scan might rank ahead of it. Otherwise the needle is scored
// against every key in the candidate pool and the first key with the maximum
// score wins.
func ResolveDetailed(rawName string, idx *AliasIndex, threshold float64) Resolution {
	if rawName == "" || idx == nil || idx.Len() == 0 {
		return Resolution{}
	}

	needle := Normalize(rawName)
	if needle == "" {
		return Resolution{}
	}

	if canonical, ok := idx.Lookup(needle); ok {
		return Resolution{Canonical: canonical, Score: 1, Matched: 1 >= threshold, Exact: true}
	}

	bestScore := -1.0
	bestKey := ""
	for _, key := range idx.Keys() {
		if score := Similarity(needle, key); score > bestScore {
			bestScore = score
			bestKey = key
		}
	}

	if bestScore < threshold {
		return Resolution{Score: bestScore}
	}

	canonical, ok := idx.Lookup(bestKey)
	if !ok {
		return Resolution{Score: bestScore}
	}
	return Resolution{Canonical: canonical, Score: bestScore, Matched: true}
}

//Personal.AI order the ending
