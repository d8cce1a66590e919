package interaction

import (
	"fmt"
	"sort"

	"github.com/turtacn/RxGene-Intelligence/pkg/errors"
)

// Allocate fairly divides totalBudget across the named entities given each
// one's available interaction count.
//
// Entities are served in ascending order of supply: a scarce entity cannot
// over-consume the shared pool, and granting it its small true availability
// first releases budget to the larger entities later in the pass. At step i
// of n the fair share is floor(remaining/(n-i)) and the entity receives
// min(count, max(fairShare, 0)).
//
// Guarantees: every quota is non-negative and at most the entity's count, the
// quotas sum to at most totalBudget, and when totalBudget covers the total
// supply every entity receives its full count.
//
// A negative budget or a negative count is an upstream contract violation and
// fails fast rather than silently misallocating.
func Allocate(available map[string]int, totalBudget int) (map[string]int, error) {
	if totalBudget < 0 {
		return nil, errors.New(errors.ErrCodeAllocationBudgetNegative,
			fmt.Sprintf("total budget must be non-negative, got %d", totalBudget))
	}

	type supply struct {
		name  string
		count int
	}

	entries := make([]supply, 0, len(available))
	for name, count := range available {
		entries = append(entries, supply{name: name, count: count})
	}

	// Scarce entities first; equal supply ordered by name so map iteration
	// order cannot change the result.
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count < entries[j].count
		}
		return entries[i].name < entries[j].name
	})

	quotas := make(map[string]int, len(entries))
	remaining := totalBudget
	for i, entry := range entries {
		if entry.count < 0 {
			return nil, errors.New(errors.ErrCodeAllocationCountNegative,
				fmt.Sprintf("available count for %q must be non-negative, got %d", entry.name, entry.count))
		}

		fairShare := remaining / (len(entries) - i)
		if fairShare < 0 {
			fairShare = 0
		}

		quota := entry.count
		if fairShare < quota {
			quota = fairShare
		}

		quotas[entry.name] = quota
		remaining -= quota
	}

	return quotas, nil
}

//Personal.AI order the ending
