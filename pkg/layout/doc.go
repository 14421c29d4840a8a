// Package layout models the responsive widget grid of a dashboard.
//
// A dashboard is drawn at one of six breakpoints (xxl, xl, lg, md, sm, xs),
// each with its own column count. Every widget has one [Placement] per
// breakpoint; the identity key is the same at every tier while the geometry
// differs. [Layouts] holds all tiers for one dashboard tab.
//
// # Invariants
//
// A well-formed [Layouts] has all six tiers and the same identity set at each
// of them. [Validate] reports violations against a canonical identity list,
// and [Repair] restores completeness by re-deriving a missing tier from the
// largest tier that still has the widget.
//
// # Generating placements
//
// [Generate] builds the six placements of one new widget. Positions follow a
// single row-major flow policy driven by [Place]: the n-th widget on a tab
// goes to column (n mod perRow)*w and row (n div perRow)*3, where perRow is
// how many default-width widgets fit the tier's columns. The browser grid
// library is free to compact the result afterwards.
//
//	frag := layout.Generate(2, "2", "pie")
//	frag[layout.XXL][0] // {i:"2" x:8 y:0 w:4 h:3 minW:2 minH:2 chartType:"pie"}
//	frag[layout.XS][0]  // {i:"2" x:0 y:6 w:2 h:3 ...}
package layout
