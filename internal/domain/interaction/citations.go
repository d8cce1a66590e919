package interaction

// PubMedBaseURL prefixes every publication identifier in transformed output.
const PubMedBaseURL = "https://pubmed.ncbi.nlm.nih.gov/"

// ToCitations rewrites each interaction's raw publication identifiers into
// fully qualified PubMed links and removes the identifier list from the
// record. An interaction without identifiers gets an empty link list, not a
// missing field. The transform is not idempotent by design: after the first
// pass the raw identifiers are gone.
//
// The input slice and its elements are left unmodified.
func ToCitations(interactions []Interaction) []Interaction {
	out := make([]Interaction, len(interactions))
	for i, in := range interactions {
		links := make([]string, 0, len(in.PMIDs))
		for _, id := range in.PMIDs {
			links = append(links, PubMedBaseURL+id+"/")
		}

		in.PMIDs = nil
		in.Publications = links
		out[i] = in
	}
	return out
}

//Personal.AI order the ending
