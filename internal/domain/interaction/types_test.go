package interaction

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInteraction_UnmarshalJSON(t *testing.T) {
	payload := `{
		"interactionScore": 0.73,
		"drug": {"name": "IMATINIB", "conceptId": "chembl:CHEMBL941", "approved": true},
		"interactionTypes": ["inhibitor"],
		"pmids": ["11423618", "11530008"],
		"sourceDbName": "DGIdb",
		"evidenceLevel": 2
	}`

	var in Interaction
	require.NoError(t, json.Unmarshal([]byte(payload), &in))

	require.NotNil(t, in.Score)
	assert.InDelta(t, 0.73, *in.Score, 1e-9)
	require.NotNil(t, in.Drug)
	assert.Equal(t, "IMATINIB", in.Drug.Name)
	require.NotNil(t, in.Drug.Approved)
	assert.True(t, *in.Drug.Approved)
	assert.Equal(t, []string{"inhibitor"}, in.Types)
	assert.Equal(t, []string{"11423618", "11530008"}, in.PMIDs)
	assert.Nil(t, in.Publications)

	// Unknown upstream fields survive untouched.
	require.Contains(t, in.Extra, "sourceDbName")
	require.Contains(t, in.Extra, "evidenceLevel")
	assert.JSONEq(t, `"DGIdb"`, string(in.Extra["sourceDbName"]))
}

func TestInteraction_UnmarshalJSON_MalformedFieldsKeptInExtra(t *testing.T) {
	payload := `{"interactionScore": "not-a-number", "drug": "not-an-object"}`

	var in Interaction
	require.NoError(t, json.Unmarshal([]byte(payload), &in))

	assert.Nil(t, in.Score, "malformed score must fall back to missing")
	assert.Nil(t, in.Drug)
	assert.Equal(t, 0.0, in.ScoreValue())
	assert.False(t, in.ApprovedFlag())

	// The raw values stay available for pass-through.
	assert.Contains(t, in.Extra, "interactionScore")
	assert.Contains(t, in.Extra, "drug")
}

func TestInteraction_UnmarshalJSON_NumericPMIDs(t *testing.T) {
	var in Interaction
	require.NoError(t, json.Unmarshal([]byte(`{"pmids": [11423618, 11530008]}`), &in))

	assert.Equal(t, []string{"11423618", "11530008"}, in.PMIDs)
}

func TestInteraction_MarshalJSON(t *testing.T) {
	in := Interaction{
		Score: floatPtr(0.5),
		Drug:  &DrugRef{Name: "aspirin", Approved: boolPtr(true)},
		PMIDs: []string{"123"},
		Extra: map[string]json.RawMessage{
			"sourceDbName":     json.RawMessage(`"DGIdb"`),
			"interactionScore": json.RawMessage(`99`), // typed field must win
		},
	}

	data, err := json.Marshal(in)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))

	assert.InDelta(t, 0.5, got["interactionScore"].(float64), 1e-9)
	assert.Equal(t, "DGIdb", got["sourceDbName"])
	assert.Contains(t, got, "pmids")
	assert.NotContains(t, got, "publications", "nil publications must stay absent")
}

func TestInteraction_MarshalJSON_EmptyPublicationsKept(t *testing.T) {
	in := Interaction{Publications: []string{}}

	data, err := json.Marshal(in)
	require.NoError(t, err)
	assert.JSONEq(t, `{"publications": []}`, string(data))
}

func TestInteraction_RoundTripPreservesUnknownFields(t *testing.T) {
	payload := `{"interactionScore": 1.5, "customAnnotation": {"nested": [1, 2, 3]}}`

	var in Interaction
	require.NoError(t, json.Unmarshal([]byte(payload), &in))

	data, err := json.Marshal(in)
	require.NoError(t, err)
	assert.JSONEq(t, payload, string(data))
}

func TestInteraction_FieldAccessors(t *testing.T) {
	var in Interaction
	assert.Equal(t, 0.0, in.ScoreValue())
	assert.False(t, in.ApprovedFlag())

	in.Score = floatPtr(2.25)
	assert.InDelta(t, 2.25, in.ScoreValue(), 1e-9)

	in.Drug = &DrugRef{Name: "x"}
	assert.False(t, in.ApprovedFlag(), "missing flag counts as not approved")

	in.Drug.Approved = boolPtr(false)
	assert.False(t, in.ApprovedFlag())

	in.Drug.Approved = boolPtr(true)
	assert.True(t, in.ApprovedFlag())
}

func TestRankedSet_InsertionOrder(t *testing.T) {
	set := NewRankedSet()
	set.Set("beta", nil)
	set.Set("alpha", []Interaction{{}})
	set.Set("gamma", nil)

	assert.Equal(t, []string{"beta", "alpha", "gamma"}, set.Names())
	assert.Equal(t, 3, set.Len())

	list, ok := set.Get("alpha")
	require.True(t, ok)
	assert.Len(t, list, 1)

	_, ok = set.Get("missing")
	assert.False(t, ok)
}

func TestRankedSet_OverwriteKeepsOrder(t *testing.T) {
	set := NewRankedSet()
	set.Set("a", nil)
	set.Set("b", nil)
	set.Set("a", []Interaction{{}, {}})

	assert.Equal(t, []string{"a", "b"}, set.Names())
	list, _ := set.Get("a")
	assert.Len(t, list, 2)
}

func TestRankedSet_MarshalJSON(t *testing.T) {
	set := NewRankedSet()
	set.Set("zeta", []Interaction{})
	set.Set("alpha", []Interaction{{Score: floatPtr(1)}})

	data, err := json.Marshal(set)
	require.NoError(t, err)

	// Keys must appear in insertion order, not alphabetical order.
	want := `{"zeta":[],"alpha":[{"interactionScore":1}]}`
	assert.Equal(t, want, string(data))
}

func TestRankedSet_MarshalJSON_Empty(t *testing.T) {
	data, err := json.Marshal(NewRankedSet())
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(data))
}

// ─────────────────────────────────────────────────────────────────────────────
// Test helpers
// ─────────────────────────────────────────────────────────────────────────────

func floatPtr(f float64) *float64 { return &f }

func boolPtr(b bool) *bool { return &b }

// mkInteraction builds an interaction with the given approval state, score,
// and raw publication identifiers. A nil approved leaves the drug out
// entirely.
func mkInteraction(approved *bool, score *float64, pmids ...string) Interaction {
	in := Interaction{Score: score, PMIDs: pmids}
	if approved != nil {
		in.Drug = &DrugRef{Name: "drug", Approved: approved}
	}
	return in
}

//Personal.AI order the ending
