// Package layout computes grid positions for classified value-chain
// entities.
//
// Each tier is laid out as an independent column/row grid. Tiers are placed
// left to right in processing order (upstream, midstream, downstream) with a
// fixed gap between sections, and shorter tiers are vertically centered
// against the tallest one. Ids are sorted within a tier before placement, so
// the layout is reproducible regardless of input ordering.
package layout

import (
	"math"

	"github.com/mhalbert/chainviz/pkg/chain"
)

// Config holds the grid geometry. All lengths are in user units (typically
// pixels in the consuming renderer).
type Config struct {
	CellWidth         float64 `json:"cell_width" toml:"cell_width"`
	CellHeight        float64 `json:"cell_height" toml:"cell_height"`
	SectionGap        float64 `json:"section_gap" toml:"section_gap"`
	MaxColsPerSection int     `json:"max_cols_per_section" toml:"max_cols_per_section"`
	TopPadding        float64 `json:"top_padding" toml:"top_padding"`
}

// DefaultConfig is the geometry used when no configuration is supplied.
var DefaultConfig = Config{
	CellWidth:         180,
	CellHeight:        90,
	SectionGap:        120,
	MaxColsPerSection: 4,
	TopPadding:        40,
}

// normalized returns cfg with zero fields replaced by defaults, so a
// partially filled config from a TOML file still produces a usable grid.
func (c Config) normalized() Config {
	d := DefaultConfig
	if c.CellWidth <= 0 {
		c.CellWidth = d.CellWidth
	}
	if c.CellHeight <= 0 {
		c.CellHeight = d.CellHeight
	}
	if c.SectionGap <= 0 {
		c.SectionGap = d.SectionGap
	}
	if c.MaxColsPerSection <= 0 {
		c.MaxColsPerSection = d.MaxColsPerSection
	}
	if c.TopPadding < 0 {
		c.TopPadding = d.TopPadding
	}
	return c
}

// Point is a Cartesian position, the center of a grid cell.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Grid describes the column/row shape of one tier.
// A tier with zero entities has zero columns, rows, width, and height.
type Grid struct {
	Cols, Rows int
}

// GridFor computes the grid shape for a tier with n entities:
// cols = min(maxCols, ceil(sqrt(n))), rows = ceil(n/cols).
func GridFor(n, maxCols int) Grid {
	if n <= 0 {
		return Grid{}
	}
	cols := int(math.Ceil(math.Sqrt(float64(n))))
	if cols > maxCols {
		cols = maxCols
	}
	rows := (n + cols - 1) / cols
	return Grid{Cols: cols, Rows: rows}
}

// PositionMap converts a tier assignment into an id→position mapping using
// the given geometry. Within a tier the k-th id (after the lexicographic
// sort) occupies column k mod cols and row k / cols, and its position is the
// cell center.
//
// An empty tier contributes zero width but still consumes its section gap
// before the next tier. That quirk is part of the layout contract; callers
// wanting collapsed gaps must do so themselves.
//
// The result is freshly allocated and bit-deterministic: identical inputs
// produce identical coordinates.
func PositionMap(assignment chain.TierAssignment, cfg Config) map[string]Point {
	cfg = cfg.normalized()
	groups := assignment.ByTier()

	grids := make(map[chain.Tier]Grid, len(chain.Tiers))
	maxHeight := 0.0
	for _, tier := range chain.Tiers {
		g := GridFor(len(groups[tier]), cfg.MaxColsPerSection)
		grids[tier] = g
		if h := float64(g.Rows) * cfg.CellHeight; h > maxHeight {
			maxHeight = h
		}
	}

	positions := make(map[string]Point, len(assignment))
	startX := 0.0
	for i, tier := range chain.Tiers {
		if i > 0 {
			startX += cfg.SectionGap
		}
		g := grids[tier]
		tierHeight := float64(g.Rows) * cfg.CellHeight
		offsetY := (maxHeight-tierHeight)/2 + cfg.TopPadding

		for k, id := range groups[tier] {
			col := k % g.Cols
			row := k / g.Cols
			positions[id] = Point{
				X: startX + float64(col)*cfg.CellWidth + cfg.CellWidth/2,
				Y: offsetY + float64(row)*cfg.CellHeight + cfg.CellHeight/2,
			}
		}

		startX += float64(g.Cols) * cfg.CellWidth
	}
	return positions
}
