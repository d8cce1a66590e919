package interaction

import "strings"

// SelectBest picks the single record that best matches term. A
// case-insensitive exact name match wins immediately. Otherwise, among the
// records whose name contains term case-insensitively, the one with the most
// interactions wins, ties going to the earliest record. Returns nil when
// records is empty or nothing matches.
//
// The returned pointer aliases an element of records; callers must treat it
// as read-only.
func SelectBest(records []DomainRecord, term string) *DomainRecord {
	needle := strings.ToLower(term)

	var best *DomainRecord
	for i := range records {
		record := &records[i]
		name := strings.ToLower(record.Name)

		if name == needle {
			return record
		}
		if !strings.Contains(name, needle) {
			continue
		}
		if best == nil || len(record.Interactions) > len(best.Interactions) {
			best = record
		}
	}

	return best
}

//Personal.AI order the ending
