// Package elements derives drawable graph elements from a value-chain
// document.
//
// The output is the generic element shape expected by graph-drawing front
// ends: nodes carry `{data:{id,label,tier}, classes, position}` and edges
// carry `{data:{id,source,target}}`. Nodes always precede edges in the
// element sequence because some consumers instantiate nodes before resolving
// edge endpoints.
package elements

import "github.com/mhalbert/chainviz/pkg/chain"

// Data is the payload of an element. Nodes fill ID/Label/Tier; edges fill
// ID/Source/Target.
type Data struct {
	ID     string `json:"id"`
	Label  string `json:"label,omitempty"`
	Tier   string `json:"tier,omitempty"`
	Source string `json:"source,omitempty"`
	Target string `json:"target,omitempty"`
}

// Position is the rendered cell-center coordinate of a node.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Element is a single drawable graph element, either a positioned node or a
// directed edge.
type Element struct {
	Data     Data      `json:"data"`
	Classes  string    `json:"classes,omitempty"`
	Position *Position `json:"position,omitempty"`
}

// IsNode reports whether the element is a positioned node.
func (e Element) IsNode() bool { return e.Position != nil }

// IsEdge reports whether the element is a directed edge.
func (e Element) IsEdge() bool { return e.Position == nil && e.Data.Source != "" }

// Node constructs a node element for the given id, tier, and position.
// The tier doubles as the element's class so renderers can style per tier.
func Node(id string, tier chain.Tier, x, y float64) Element {
	return Element{
		Data:     Data{ID: id, Label: id, Tier: string(tier)},
		Classes:  string(tier),
		Position: &Position{X: x, Y: y},
	}
}

// Edge constructs a directed edge element. The edge id is
// "<source>-<target>", matching what endpoint-keyed consumers expect.
func Edge(source, target string) Element {
	return Element{
		Data: Data{ID: source + "-" + target, Source: source, Target: target},
	}
}

// Stats summarizes an element sequence.
type Stats struct {
	Nodes int
	Edges int
}

// Count tallies nodes and edges in an element sequence.
func Count(els []Element) Stats {
	var s Stats
	for _, e := range els {
		if e.IsNode() {
			s.Nodes++
		} else {
			s.Edges++
		}
	}
	return s
}
