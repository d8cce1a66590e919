package interaction

// SelectAndRank matches each resolved name to its best record, divides
// totalBudget across the matched names, and returns per-name ranked,
// truncated interaction lists.
//
// Names are processed independently, duplicates included; a name with no
// matching record is dropped from the output silently, which is the expected
// treatment for unresolved or misspelled input, not an error. Result keys are
// exactly the matched names in first-match order.
func SelectAndRank(records []DomainRecord, resolvedNames []string, totalBudget int) (*RankedSet, error) {
	matched := make(map[string]*DomainRecord, len(resolvedNames))
	available := make(map[string]int, len(resolvedNames))
	order := make([]string, 0, len(resolvedNames))

	for _, name := range resolvedNames {
		record := SelectBest(records, name)
		if record == nil {
			continue
		}
		if _, seen := matched[name]; !seen {
			order = append(order, name)
		}
		matched[name] = record
		available[name] = len(record.Interactions)
	}

	quotas, err := Allocate(available, totalBudget)
	if err != nil {
		return nil, err
	}

	result := NewRankedSet()
	for _, name := range order {
		result.Set(name, RankAndTruncate(matched[name].Interactions, quotas[name]))
	}

	return result, nil
}

//Personal.AI order the ending
