package expand

import "github.com/soundprediction/medgraph/pkg/types"

// LexiconEntry names a mechanism whose appearance in retrieved literature
// counts as a candidate relationship with the frontier node.
type LexiconEntry struct {
	Label            string
	Category         types.NodeCategory
	RelationshipType string
	// Patterns are lowercase substrings matched against record text; the
	// label itself is always matched.
	Patterns []string
}

// DefaultLexicon covers the mechanisms of interest for neurovascular
// expansion: hemodynamic forces, wall-remodeling biology, inflammatory
// mediators and their circulating biomarkers.
func DefaultLexicon() []LexiconEntry {
	return []LexiconEntry{
		{
			Label:            "Wall shear stress",
			Category:         types.CategoryBiomechanical,
			RelationshipType: types.RelInfluences,
			Patterns:         []string{"wall shear stress", "wss"},
		},
		{
			Label:            "Flow turbulence",
			Category:         types.CategoryBiomechanical,
			RelationshipType: types.RelInfluences,
			Patterns:         []string{"turbulent flow", "flow turbulence", "disturbed flow"},
		},
		{
			Label:            "Endothelial dysfunction",
			Category:         types.CategoryBiologicalProcess,
			RelationshipType: types.RelMechanisticLink,
			Patterns:         []string{"endothelial dysfunction", "endothelial injury"},
		},
		{
			Label:            "Macrophage infiltration",
			Category:         types.CategoryBiologicalProcess,
			RelationshipType: types.RelMechanisticLink,
			Patterns:         []string{"macrophage infiltration", "macrophage accumulation"},
		},
		{
			Label:            "Smooth muscle cell apoptosis",
			Category:         types.CategoryBiologicalProcess,
			RelationshipType: types.RelMechanisticLink,
			Patterns:         []string{"smooth muscle cell apoptosis", "vsmc apoptosis"},
		},
		{
			Label:            "Elastin degradation",
			Category:         types.CategoryBiologicalProcess,
			RelationshipType: types.RelCauses,
			Patterns:         []string{"elastin degradation", "elastic lamina degradation"},
		},
		{
			Label:            "Oxidative stress",
			Category:         types.CategoryBiologicalProcess,
			RelationshipType: types.RelAssociatedWith,
			Patterns:         []string{"oxidative stress", "reactive oxygen species"},
		},
		{
			Label:            "Matrix metalloproteinase",
			Category:         types.CategoryMolecular,
			RelationshipType: types.RelMechanisticLink,
			Patterns:         []string{"matrix metalloproteinase", "mmp-9", "mmp-2"},
		},
		{
			Label:            "Interleukin-6",
			Category:         types.CategoryMolecular,
			RelationshipType: types.RelAssociatedWith,
			Patterns:         []string{"interleukin-6", "il-6"},
		},
		{
			Label:            "Tumor necrosis factor alpha",
			Category:         types.CategoryMolecular,
			RelationshipType: types.RelAssociatedWith,
			Patterns:         []string{"tumor necrosis factor", "tnf-alpha", "tnf-α"},
		},
		{
			Label:            "Nitric oxide",
			Category:         types.CategoryMolecular,
			RelationshipType: types.RelInfluences,
			Patterns:         []string{"nitric oxide", "enos"},
		},
		{
			Label:            "C-reactive protein",
			Category:         types.CategoryBiomarker,
			RelationshipType: types.RelBiomarkerFor,
			Patterns:         []string{"c-reactive protein", "crp"},
		},
		{
			Label:            "Aneurysm wall",
			Category:         types.CategoryAnatomical,
			RelationshipType: types.RelAssociatedWith,
			Patterns:         []string{"aneurysm wall", "aneurysmal wall"},
		},
	}
}
