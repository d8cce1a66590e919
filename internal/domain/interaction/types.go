// Package interaction implements the ranked-allocation core: best-record
// selection for resolved names, fair-share budget allocation across entities,
// two-key ranking with truncation, and citation-link derivation.
package interaction

import (
	"bytes"
	"encoding/json"
)

// DrugRef carries the drug-side fields of an interaction. Approved is a
// pointer because the upstream source omits it for non-drug interactions.
type DrugRef struct {
	Name      string `json:"name,omitempty"`
	ConceptID string `json:"conceptId,omitempty"`
	Approved  *bool  `json:"approved,omitempty"`
}

// Interaction is one drug-gene interaction record as returned by the
// upstream source. Known fields are typed; everything else is preserved
// verbatim in Extra and emitted unchanged on marshal, so unanticipated
// upstream fields survive the pipeline.
//
// Score and the drug approval flag are optional; ranking substitutes 0 and
// false. PMIDs holds raw publication identifiers and is removed by
// ToCitations, which fills Publications with fully qualified links instead.
type Interaction struct {
	Score        *float64 `json:"-"`
	Drug         *DrugRef `json:"-"`
	Types        []string `json:"-"`
	PMIDs        []string `json:"-"`
	Publications []string `json:"-"`

	Extra map[string]json.RawMessage `json:"-"`
}

// Field names used on the wire.
const (
	fieldScore        = "interactionScore"
	fieldDrug         = "drug"
	fieldTypes        = "interactionTypes"
	fieldPMIDs        = "pmids"
	fieldPublications = "publications"
)

// ApprovedFlag reports whether the interaction's drug is marked approved.
// A missing drug or missing flag counts as not approved.
func (i *Interaction) ApprovedFlag() bool {
	return i.Drug != nil && i.Drug.Approved != nil && *i.Drug.Approved
}

// ScoreValue returns the interaction score, 0 when missing.
func (i *Interaction) ScoreValue() float64 {
	if i.Score == nil {
		return 0
	}
	return *i.Score
}

// UnmarshalJSON decodes the known fields and keeps every other property raw
// in Extra. A known field that fails to decode is left in Extra untouched
// rather than failing the record; ranking then sees the zero value, which is
// the documented treatment of malformed score and approval data.
func (i *Interaction) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	if v, ok := raw[fieldScore]; ok {
		var score float64
		if err := json.Unmarshal(v, &score); err == nil {
			i.Score = &score
			delete(raw, fieldScore)
		}
	}
	if v, ok := raw[fieldDrug]; ok {
		var drug DrugRef
		if err := json.Unmarshal(v, &drug); err == nil {
			i.Drug = &drug
			delete(raw, fieldDrug)
		}
	}
	if v, ok := raw[fieldTypes]; ok {
		var types []string
		if err := json.Unmarshal(v, &types); err == nil {
			i.Types = types
			delete(raw, fieldTypes)
		}
	}
	if v, ok := raw[fieldPMIDs]; ok {
		if ids, ok := decodeIdentifiers(v); ok {
			i.PMIDs = ids
			delete(raw, fieldPMIDs)
		}
	}
	if v, ok := raw[fieldPublications]; ok {
		var pubs []string
		if err := json.Unmarshal(v, &pubs); err == nil {
			i.Publications = pubs
			delete(raw, fieldPublications)
		}
	}

	if len(raw) > 0 {
		i.Extra = raw
	}
	return nil
}

// MarshalJSON re-emits the typed fields together with the preserved Extra
// properties. Typed fields win on name clashes. Publications distinguishes
// nil (field absent, record not yet citation-transformed) from empty (field
// present as an empty list).
func (i Interaction) MarshalJSON() ([]byte, error) {
	m := make(map[string]json.RawMessage, len(i.Extra)+5)
	for k, v := range i.Extra {
		m[k] = v
	}

	if i.Score != nil {
		b, err := json.Marshal(*i.Score)
		if err != nil {
			return nil, err
		}
		m[fieldScore] = b
	}
	if i.Drug != nil {
		b, err := json.Marshal(i.Drug)
		if err != nil {
			return nil, err
		}
		m[fieldDrug] = b
	}
	if i.Types != nil {
		b, err := json.Marshal(i.Types)
		if err != nil {
			return nil, err
		}
		m[fieldTypes] = b
	}
	if i.PMIDs != nil {
		b, err := json.Marshal(i.PMIDs)
		if err != nil {
			return nil, err
		}
		m[fieldPMIDs] = b
	}
	if i.Publications != nil {
		b, err := json.Marshal(i.Publications)
		if err != nil {
			return nil, err
		}
		m[fieldPublications] = b
	}

	return json.Marshal(m)
}

// decodeIdentifiers accepts publication identifiers as strings or numbers,
// since upstream sources are inconsistent about PMID typing.
func decodeIdentifiers(raw json.RawMessage) ([]string, bool) {
	var ids []string
	if err := json.Unmarshal(raw, &ids); err == nil {
		return ids, true
	}

	var nums []json.Number
	if err := json.Unmarshal(raw, &nums); err != nil {
		return nil, false
	}
	ids = make([]string, len(nums))
	for i, n := range nums {
		ids[i] = n.String()
	}
	return ids, true
}

// DomainRecord is one entity as returned by the upstream source: a name plus
// its interaction list. The pipeline only reads it.
type DomainRecord struct {
	Name         string        `json:"name"`
	Interactions []Interaction `json:"interactions"`
}

// RankedSet maps requested names to their ranked, truncated interaction
// lists. Keys keep first-match insertion order, which a plain map cannot
// guarantee, and marshal as a JSON object in that order.
type RankedSet struct {
	names []string
	items map[string][]Interaction
}

// NewRankedSet creates an empty result set.
func NewRankedSet() *RankedSet {
	return &RankedSet{items: make(map[string][]Interaction)}
}

// Set stores the interaction list for name, appending name to the key order
// on first insertion.
func (s *RankedSet) Set(name string, list []Interaction) {
	if _, seen := s.items[name]; !seen {
		s.names = append(s.names, name)
	}
	s.items[name] = list
}

// Get returns the interaction list stored for name.
func (s *RankedSet) Get(name string) ([]Interaction, bool) {
	list, ok := s.items[name]
	return list, ok
}

// Names returns the keys in insertion order. Callers must not mutate the
// returned slice.
func (s *RankedSet) Names() []string {
	return s.names
}

// Len returns the number of names in the set.
func (s *RankedSet) Len() int {
	return len(s.names)
}

// MarshalJSON emits the set as a JSON object with keys in insertion order.
func (s *RankedSet) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range s.names {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		value, err := json.Marshal(s.items[name])
		if err != nil {
			return nil, err
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

//Personal.AI order the ending
