package elements

import (
	"github.com/mhalbert/chainviz/pkg/chain"
	"github.com/mhalbert/chainviz/pkg/chain/layout"
)

// Build runs the full document→elements transformation: tier
// classification, grid layout, edge derivation, and the final node-then-edge
// merge.
//
// The transformation is a pure function. It allocates fresh output on every
// call, never mutates the document, and identical input produces a
// bit-identical element sequence. It either returns a complete, internally
// consistent sequence or fails fast with an INVALID_DOCUMENT error; partial
// output is never returned.
func Build(doc *chain.Document, cfg layout.Config) ([]Element, error) {
	if err := doc.Validate(); err != nil {
		return nil, err
	}

	assignment := chain.ClassifyTiers(doc.Structure)
	positions := layout.PositionMap(assignment, cfg)
	groups := assignment.ByTier()

	els := make([]Element, 0, len(assignment))
	for _, tier := range chain.Tiers {
		for _, id := range groups[tier] {
			p := positions[id]
			els = append(els, Node(id, tier, p.X, p.Y))
		}
	}

	return append(els, BuildEdges(assignment, doc.EntityDetails)...), nil
}
