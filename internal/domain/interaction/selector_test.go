package interaction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func selectorRecords() []DomainRecord {
	return []DomainRecord{
		{Name: "BTK", Interactions: make([]Interaction, 3)},
		{Name: "btk-like", Interactions: make([]Interaction, 1)},
		{Name: "MAP3K7", Interactions: make([]Interaction, 9)},
	}
}

func TestSelectBest_ExactMatchWins(t *testing.T) {
	records := selectorRecords()

	got := SelectBest(records, "BTK")
	require.NotNil(t, got)
	assert.Equal(t, "BTK", got.Name)
}

func TestSelectBest_ExactMatchIsCaseInsensitive(t *testing.T) {
	records := selectorRecords()

	got := SelectBest(records, "btk")
	require.NotNil(t, got)
	assert.Equal(t, "BTK", got.Name)
}

func TestSelectBest_ExactBeatsLargerSubstringMatch(t *testing.T) {
	records := []DomainRecord{
		{Name: "BTK2", Interactions: make([]Interaction, 50)},
		{Name: "BTK", Interactions: nil},
	}

	// The later exact match wins even with zero interactions.
	got := SelectBest(records, "BTK")
	require.NotNil(t, got)
	assert.Equal(t, "BTK", got.Name)
}

func TestSelectBest_SubstringPicksMostInteractions(t *testing.T) {
	records := []DomainRecord{
		{Name: "btk-alpha", Interactions: make([]Interaction, 2)},
		{Name: "btk-beta", Interactions: make([]Interaction, 5)},
		{Name: "unrelated", Interactions: make([]Interaction, 10)},
	}

	got := SelectBest(records, "BTK")
	require.NotNil(t, got)
	assert.Equal(t, "btk-beta", got.Name)
}

func TestSelectBest_SubstringTieGoesToFirst(t *testing.T) {
	records := []DomainRecord{
		{Name: "egfr variant 1", Interactions: make([]Interaction, 4)},
		{Name: "egfr variant 2", Interactions: make([]Interaction, 4)},
	}

	got := SelectBest(records, "EGFR")
	require.NotNil(t, got)
	assert.Equal(t, "egfr variant 1", got.Name)
}

func TestSelectBest_NoMatch(t *testing.T) {
	assert.Nil(t, SelectBest(selectorRecords(), "TP53"))
	assert.Nil(t, SelectBest(nil, "BTK"))
	assert.Nil(t, SelectBest([]DomainRecord{}, "BTK"))
}

func TestSelectBest_EmptyTermPicksLargestRecord(t *testing.T) {
	// Every name contains the empty substring, so the raw-name fallback for
	// an unresolvable input degrades to the record with the most
	// interactions. Pinned here because downstream matching relies on it.
	got := SelectBest(selectorRecords(), "")
	require.NotNil(t, got)
	assert.Equal(t, "MAP3K7", got.Name)
}

func TestSelectBest_ReturnsPointerIntoInput(t *testing.T) {
	records := selectorRecords()

	got := SelectBest(records, "MAP3K7")
	require.NotNil(t, got)
	assert.Same(t, &records[2], got)
}

//Personal.AI order the ending
