package terminology

import "github.com/soundprediction/medgraph/pkg/types"

// allowedTUIs restricts matches to semantic types relevant to neurovascular
// research: diseases, physiologic functions, molecular entities, anatomical
// structures and biomarkers. Concepts carrying none of these are skipped
// during best-match selection.
var allowedTUIs = map[string]bool{
	"T047": true, // Disease or Syndrome
	"T046": true, // Pathologic Function
	"T049": true, // Cell or Molecular Dysfunction
	"T039": true, // Physiologic Function
	"T040": true, // Organism Function
	"T042": true, // Organ or Tissue Function
	"T043": true, // Cell Function
	"T116": true, // Amino Acid, Peptide, or Protein
	"T123": true, // Biologically Active Substance
	"T129": true, // Immunologic Factor
	"T023": true, // Body Part, Organ, or Organ Component
	"T024": true, // Tissue
	"T030": true, // Body Space or Junction
	"T029": true, // Body Location or Region
	"T190": true, // Anatomical Abnormality
	"T037": true, // Injury or Poisoning
	"T034": true, // Laboratory or Test Result
	"T201": true, // Clinical Attribute
}

// tuiCategories maps UMLS semantic type identifiers to node categories.
var tuiCategories = map[string]types.NodeCategory{
	"T047": types.CategoryDisease,
	"T046": types.CategoryDisease,
	"T049": types.CategoryDisease,
	"T190": types.CategoryDisease,
	"T037": types.CategoryDisease,

	"T039": types.CategoryBiologicalProcess,
	"T040": types.CategoryBiologicalProcess,

	"T042": types.CategoryBiomechanical,
	"T043": types.CategoryBiomechanical,
	"T044": types.CategoryBiomechanical,

	"T116": types.CategoryMolecular,
	"T123": types.CategoryMolecular,
	"T125": types.CategoryMolecular,
	"T126": types.CategoryMolecular,
	"T129": types.CategoryMolecular,
	"T130": types.CategoryMolecular,

	"T023": types.CategoryAnatomical,
	"T024": types.CategoryAnatomical,
	"T029": types.CategoryAnatomical,
	"T030": types.CategoryAnatomical,

	"T034": types.CategoryBiomarker,
	"T201": types.CategoryBiomarker,
	"T033": types.CategoryBiomarker,
}

// HasAllowedSemanticType reports whether any of the concept's semantic types
// is in the allowed set.
func HasAllowedSemanticType(sts []types.SemanticType) bool {
	for _, st := range sts {
		if allowedTUIs[st.TUI] {
			return true
		}
	}
	return false
}

// CategoryFor maps a concept's semantic types to a node category, first
// match wins; concepts with no mapped type fall back to CategoryConcept.
func CategoryFor(sts []types.SemanticType) types.NodeCategory {
	for _, st := range sts {
		if cat, ok := tuiCategories[st.TUI]; ok {
			return cat
		}
	}
	return types.CategoryConcept
}
