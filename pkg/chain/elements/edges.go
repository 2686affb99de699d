package elements

import "github.com/mhalbert/chainviz/pkg/chain"

// BuildEdges derives directed edges from the relation lists of every
// classified entity.
//
// For each classified id with a detail entry, every input element that is
// itself classified yields an edge input→entity, and every output product
// that is classified yields an edge entity→output. References to ids outside
// the classified set are dropped silently: that is a validity filter, not an
// error. Detail entries for unclassified ids are skipped entirely.
//
// Entities are visited in lexicographic id order and inputs are emitted
// before outputs, so the edge sequence is deterministic. Duplicate
// (source, target) pairs are deduplicated, first occurrence wins, keeping
// edge ids unique for consumers that key edges by id.
func BuildEdges(assignment chain.TierAssignment, details map[string]chain.EntityDetail) []Element {
	edges := make([]Element, 0)
	seen := make(map[[2]string]struct{})

	emit := func(source, target string) {
		pair := [2]string{source, target}
		if _, dup := seen[pair]; dup {
			return
		}
		seen[pair] = struct{}{}
		edges = append(edges, Edge(source, target))
	}

	for _, id := range assignment.IDs() {
		detail, ok := details[id]
		if !ok {
			continue
		}
		for _, input := range detail.InputElements {
			if _, classified := assignment[input]; classified {
				emit(input, id)
			}
		}
		for _, output := range detail.OutputProducts {
			if _, classified := assignment[output]; classified {
				emit(id, output)
			}
		}
	}
	return edges
}
