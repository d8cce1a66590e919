package entity

// AliasIndex maps normalized alias keys to canonical names for one domain.
// It is built once from an AliasTable and treated as read-only afterwards,
// which makes concurrent lookups safe without locking.
type AliasIndex struct {
	entries    map[string]string
	keys       []string
	canonicals int
	collisions int
}

// BuildIndex constructs the alias index for table.
//
// Every canonical name is inserted as its own alias first, so exact canonical
// input always resolves. When two table entries normalize to the same key the
// later insertion silently wins; construction order equals table order, which
// keeps the result deterministic. Homonymous aliases across canonicals are a
// known source-data ambiguity, not an error.
func BuildIndex(table AliasTable) *AliasIndex {
	idx := &AliasIndex{
		entries: make(map[string]string, len(table)*4),
		keys:    make([]string, 0, len(table)*4),
	}

	seen := make(map[string]struct{}, len(table))
	for _, entry := range table {
		seen[entry.Canonical] = struct{}{}
		idx.insert(Normalize(entry.Canonical), entry.Canonical)
		for _, alias := range entry.Aliases {
			idx.insert(Normalize(alias), entry.Canonical)
		}
	}
	idx.canonicals = len(seen)

	return idx
}

// insert records key → canonical. The candidate pool keeps each key once, in
// first-insertion order; remapping a key must not reorder the pool or the
// fuzzy tie-break would change with it.
func (idx *AliasIndex) insert(key, canonical string) {
	if _, seen := idx.entries[key]; seen {
		idx.collisions++
	} else {
		idx.keys = append(idx.keys, key)
	}
	idx.entries[key] = canonical
}

// Lookup returns the canonical name mapped to a normalized key.
func (idx *AliasIndex) Lookup(key string) (string, bool) {
	canonical, ok := idx.entries[key]
	return canonical, ok
}

// Keys returns the fuzzy-matching candidate pool in deterministic
// first-insertion order. Callers must not mutate the returned slice.
func (idx *AliasIndex) Keys() []string {
	return idx.keys
}

// Len returns the number of distinct keys in the index.
func (idx *AliasIndex) Len() int {
	return len(idx.keys)
}

// CanonicalCount returns the number of distinct canonical names the source
// table declared, counted before key collisions collapse any of them.
func (idx *AliasIndex) CanonicalCount() int {
	return idx.canonicals
}

// Collisions returns how many insertions remapped an existing key during the
// build. A non-zero count means the source data carries homonymous aliases.
func (idx *AliasIndex) Collisions() int {
	return idx.collisions
}

//Personal.AI order the ending
