package layout

// Geometry defaults for generated widgets.
const (
	DefaultHeight = 3
	DefaultMinW   = 2
	DefaultMinH   = 2
)

// Place returns the geometry of the widget at position index (0-based count of
// widgets already on the tab) at bp, without identity or type.
//
// Widgets flow row-major: each tier fits cols/w widgets per row (at least
// one), filling left to right and wrapping onto the next band of rows.
func Place(index int, bp Breakpoint) Placement {
	if index < 0 {
		index = 0
	}
	w := bp.DefaultWidth()
	perRow := bp.Cols() / w
	if perRow < 1 {
		perRow = 1
	}
	return Placement{
		X:    (index % perRow) * w,
		Y:    (index / perRow) * DefaultHeight,
		W:    w,
		H:    DefaultHeight,
		MinW: DefaultMinW,
		MinH: DefaultMinH,
	}
}

// Generate builds the per-breakpoint placements of exactly one new widget.
// chartType is advisory: the store overrides it when the widget is added.
func Generate(index int, id, chartType string) Layouts {
	l := make(Layouts, len(Breakpoints))
	for _, bp := range Breakpoints {
		p := Place(index, bp)
		p.ID = id
		p.ChartType = chartType
		l[bp] = []Placement{p}
	}
	return l
}
