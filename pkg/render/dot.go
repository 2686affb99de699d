// Package render exports built graph elements as Graphviz artifacts.
//
// The DOT output pins every node to its computed grid position, so the
// rendered picture mirrors the layout the web front end shows. Rendering
// goes through the neato engine, which honors pinned positions.
package render

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/mhalbert/chainviz/pkg/chain"
	"github.com/mhalbert/chainviz/pkg/chain/elements"
)

// pointsPerPixel converts layout pixels to graphviz points.
// Grid cells are sized for ~100px web rendering; 1/2 keeps the DOT output
// readable without overlapping labels.
const pointsPerPixel = 0.5

// tierFills maps each tier to its node fill color in exported artifacts.
var tierFills = map[string]string{
	string(chain.TierUpstream):   "#dbeafe",
	string(chain.TierMidstream):  "#dcfce7",
	string(chain.TierDownstream): "#fef9c3",
}

// ToDOT converts an element sequence to Graphviz DOT with pinned positions.
// The element Y axis grows downward (screen coordinates) while graphviz's
// grows upward, so Y is negated.
func ToDOT(title string, els []elements.Element) string {
	var buf bytes.Buffer
	buf.WriteString("digraph chain {\n")
	fmt.Fprintf(&buf, "  label=%q;\n", title)
	buf.WriteString("  labelloc=t;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fontsize=12, margin=\"0.15,0.08\"];\n")
	buf.WriteString("  edge [arrowsize=0.7];\n")
	buf.WriteString("\n")

	for _, e := range els {
		if !e.IsNode() {
			continue
		}
		attrs := []string{
			fmt.Sprintf("label=%q", e.Data.Label),
			fmt.Sprintf("pos=\"%.1f,%.1f!\"", e.Position.X*pointsPerPixel, -e.Position.Y*pointsPerPixel),
		}
		if fill, ok := tierFills[e.Data.Tier]; ok {
			attrs = append(attrs, fmt.Sprintf("fillcolor=%q", fill))
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", e.Data.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range els {
		if !e.IsEdge() {
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q;\n", e.Data.Source, e.Data.Target)
	}

	buf.WriteString("}\n")
	return buf.String()
}

// RenderSVG renders a DOT graph to SVG using the neato engine, which keeps
// the pinned positions produced by ToDOT.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	return renderFormat(ctx, dot, graphviz.SVG)
}

// RenderPNG renders a DOT graph to PNG using the neato engine.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	return renderFormat(ctx, dot, graphviz.PNG)
}

func renderFormat(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
