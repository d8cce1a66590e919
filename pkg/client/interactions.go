package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/turtacn/RxGene-Intelligence/pkg/types/common"
)

// InteractionsClient provides access to the interaction-query endpoint.
type InteractionsClient struct {
	client *Client
}

// InteractionsRequest is one interaction query spanning either or both
// entity domains.  Budget zero means "use the server default".
type InteractionsRequest struct {
	Drugs  []string `json:"drugs,omitempty"`
	Genes  []string `json:"genes,omitempty"`
	Budget int      `json:"budget,omitempty"`
}

// DrugRef carries the drug-side fields of an interaction.
type DrugRef struct {
	Name      string `json:"name,omitempty"`
	ConceptID string `json:"conceptId,omitempty"`
	Approved  *bool  `json:"approved,omitempty"`
}

// Interaction is one ranked drug-gene interaction record.  Publications
// holds the fully qualified citation links derived from the record's raw
// publication identifiers.
type Interaction struct {
	Score        *float64 `json:"interactionScore,omitempty"`
	Drug         *DrugRef `json:"drug,omitempty"`
	Types        []string `json:"interactionTypes,omitempty"`
	Publications []string `json:"publications"`
}

// UnresolvedName reports an input that fell back to its raw form.
type UnresolvedName struct {
	Domain    string  `json:"domain"`
	Raw       string  `json:"raw"`
	BestScore float64 `json:"best_score"`
}

// RankedInteractions is the per-name interaction map.  The server emits the
// names in first-match order; the custom decoder preserves that order so CLI
// output stays stable across runs.
type RankedInteractions struct {
	names  []string
	byName map[string][]Interaction
}

// Names returns the requested names that matched a record, in server order.
func (r *RankedInteractions) Names() []string {
	return r.names
}

// Get returns the ranked interaction list for one name.
func (r *RankedInteractions) Get(name string) ([]Interaction, bool) {
	list, ok := r.byName[name]
	return list, ok
}

// Len returns the number of matched names.
func (r *RankedInteractions) Len() int {
	return len(r.names)
}

// UnmarshalJSON decodes the JSON object while recording key order.
func (r *RankedInteractions) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("client: ranked interactions must be a JSON object")
	}

	r.names = nil
	r.byName = make(map[string][]Interaction)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		name := keyTok.(string)

		var list []Interaction
		if err := dec.Decode(&list); err != nil {
			return err
		}

		if _, dup := r.byName[name]; !dup {
			r.names = append(r.names, name)
		}
		r.byName[name] = list
	}

	// Consume the closing brace.
	_, err = dec.Token()
	return err
}

// MarshalJSON re-emits the object in recorded order.
func (r RankedInteractions) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range r.names {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(r.byName[name])
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// InteractionsResult carries ranked, citation-transformed interactions per
// matched name plus diagnostics for names that stayed raw.
type InteractionsResult struct {
	Interactions RankedInteractions `json:"interactions"`
	Unresolved   []UnresolvedName   `json:"unresolved,omitempty"`
	Budget       int                `json:"budget"`
	Used         int                `json:"used"`
}

// Query resolves the submitted names and returns their ranked interactions
// under the shared output budget.
func (ic *InteractionsClient) Query(ctx context.Context, req *InteractionsRequest) (*InteractionsResult, error) {
	if req == nil {
		return nil, fmt.Errorf("client: interactions request is required")
	}
	if len(req.Drugs) == 0 && len(req.Genes) == 0 {
		return nil, fmt.Errorf("client: interactions request needs at least one drug or gene name")
	}

	var envelope common.APIResponse[InteractionsResult]
	if err := ic.client.post(ctx, "/api/v1/interactions", req, &envelope); err != nil {
		return nil, err
	}
	return &envelope.Data, nil
}

//Personal.AI order the ending
