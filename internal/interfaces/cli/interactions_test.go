package cli

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/RxGene-Intelligence/pkg/client"
)

func TestRunInteractions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/interactions", r.URL.Path)

		var req client.InteractionsRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, []string{"imatinib"}, req.Drugs)
		assert.Equal(t, []string{"BRAF"}, req.Genes)
		assert.Equal(t, 20, req.Budget)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"success": true,
			"data": {
				"interactions": {
					"BRAF": [
						{
							"interactionScore": 2.31,
							"drug": {"name": "VEMURAFENIB", "approved": true},
							"interactionTypes": ["inhibitor"],
							"publications": ["https://pubmed.ncbi.nlm.nih.gov/21639808/"]
						}
					],
					"IMATINIB": [
						{
							"interactionScore": 1.02,
							"interactionTypes": [],
							"publications": []
						}
					]
				},
				"unresolved": [
					{"domain": "drug", "raw": "imatinb", "best_score": 0.62}
				],
				"budget": 20,
				"used": 2
			}
		}`))
	}))
	defer srv.Close()

	cmd, buf := newTestCommand(t, srv.URL, "json")

	interactionsDrugs = []string{"imatinib"}
	interactionsGenes = []string{"BRAF"}
	interactionsBudget = 20
	t.Cleanup(func() {
		interactionsDrugs = nil
		interactionsGenes = nil
		interactionsBudget = 0
	})

	err := runInteractions(cmd)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "VEMURAFENIB")
	assert.Contains(t, out, "pubmed.ncbi.nlm.nih.gov")
	// Server key order survives the round trip.
	assert.Less(t, indexOf(out, `"BRAF"`), indexOf(out, `"IMATINIB"`))
}

func TestRunInteractions_NoNames(t *testing.T) {
	cmd, _ := newTestCommand(t, "http://localhost:1", "json")

	interactionsDrugs = nil
	interactionsGenes = nil
	interactionsBudget = 0

	err := runInteractions(cmd)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least one")
}

func TestRunInteractions_NegativeBudget(t *testing.T) {
	cmd, _ := newTestCommand(t, "http://localhost:1", "json")

	interactionsDrugs = []string{"aspirin"}
	interactionsBudget = -5
	t.Cleanup(func() {
		interactionsDrugs = nil
		interactionsBudget = 0
	})

	err := runInteractions(cmd)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "non-negative")
}

func TestInteractionsView_Rows(t *testing.T) {
	var ranked client.RankedInteractions
	require.NoError(t, json.Unmarshal([]byte(`{
		"GENE1": [
			{"interactionScore": 1.5, "drug": {"name": "DRUGA"}, "interactionTypes": ["inhibitor", "blocker"], "publications": ["a", "b"]},
			{"publications": []}
		]
	}`), &ranked))

	view := interactionsView{&client.InteractionsResult{Interactions: ranked}}
	rows := view.TableRows()
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"GENE1", "1.5000", "DRUGA", "inhibitor,blocker", "2"}, rows[0])
	assert.Equal(t, []string{"GENE1", "-", "-", "", "0"}, rows[1])
}

// indexOf is a tiny helper for order assertions.
func indexOf(s, sub string) int {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return i
		}
	}
	return -1
}

//Personal.AI order the ending
