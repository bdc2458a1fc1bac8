package graph

import "github.com/soundprediction/medgraph/pkg/types"

// SeedEntity is a human-curated starting vertex present before any expansion.
type SeedEntity struct {
	ID       string
	Label    string
	Category types.NodeCategory
	Synonyms []string
}

// SeedEntities are the three fixed seeds for the aneurysm-inflammation-
// hemodynamics research question. Seeds start at depth 0, unvalidated.
var SeedEntities = []SeedEntity{
	{
		ID:       "intracranial_aneurysm_rupture",
		Label:    "Intracranial Aneurysm Rupture",
		Category: types.CategoryDisease,
		Synonyms: []string{"Brain Aneurysm Rupture", "Cerebral Aneurysm Rupture", "Intracranial Aneurysm"},
	},
	{
		ID:       "inflammation",
		Label:    "Inflammation",
		Category: types.CategoryBiologicalProcess,
		Synonyms: []string{"Inflammatory Response", "Inflammatory Process"},
	},
	{
		ID:       "hemodynamics",
		Label:    "Hemodynamics",
		Category: types.CategoryBiomechanical,
		Synonyms: []string{"Blood Flow Dynamics", "Hemodynamic Forces", "Vascular Hemodynamics"},
	},
}
