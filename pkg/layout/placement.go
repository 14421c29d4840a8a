package layout

import (
	"slices"
	"sort"
)

// Placement is one widget's geometry at one breakpoint. The JSON field names
// are the ones the browser grid library reads; it ignores the extra fields.
type Placement struct {
	ID        string `json:"i"`
	X         int    `json:"x"`
	Y         int    `json:"y"`
	W         int    `json:"w"`
	H         int    `json:"h"`
	MinW      int    `json:"minW,omitempty"`
	MinH      int    `json:"minH,omitempty"`
	ChartType string `json:"chartType,omitempty"`
}

// Layouts maps each breakpoint to its ordered placements. The same widget
// identity appears once per tier, with tier-specific geometry.
type Layouts map[Breakpoint][]Placement

// Empty returns Layouts with every tier present and no widgets.
func Empty() Layouts {
	l := make(Layouts, len(Breakpoints))
	for _, bp := range Breakpoints {
		l[bp] = []Placement{}
	}
	return l
}

// Clone returns a deep copy of l. Tiers missing from l stay missing; a nil
// tier becomes an empty one.
func (l Layouts) Clone() Layouts {
	if l == nil {
		return nil
	}
	out := make(Layouts, len(l))
	for bp, items := range l {
		cp := make([]Placement, len(items))
		copy(cp, items)
		out[bp] = cp
	}
	return out
}

// Identities returns the widget identities at bp in stored order.
func (l Layouts) Identities(bp Breakpoint) []string {
	items := l[bp]
	ids := make([]string, len(items))
	for i, p := range items {
		ids[i] = p.ID
	}
	return ids
}

// IdentitySet returns the identities present at any tier, sorted.
func (l Layouts) IdentitySet() []string {
	seen := make(map[string]bool)
	for _, items := range l {
		for _, p := range items {
			seen[p.ID] = true
		}
	}
	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Find returns the placement of id at bp.
func (l Layouts) Find(bp Breakpoint, id string) (Placement, bool) {
	i := slices.IndexFunc(l[bp], func(p Placement) bool { return p.ID == id })
	if i < 0 {
		return Placement{}, false
	}
	return l[bp][i], true
}

// Without returns a copy of l with id removed from every tier.
func (l Layouts) Without(id string) Layouts {
	out := make(Layouts, len(l))
	for bp, items := range l {
		kept := make([]Placement, 0, len(items))
		for _, p := range items {
			if p.ID != id {
				kept = append(kept, p)
			}
		}
		out[bp] = kept
	}
	return out
}

// StripTypes returns a copy of l with ChartType cleared on every placement.
func (l Layouts) StripTypes() Layouts {
	out := l.Clone()
	for bp := range out {
		for i := range out[bp] {
			out[bp][i].ChartType = ""
		}
	}
	return out
}

// StampTypes returns a copy of l with ChartType set from types on every
// placement. Identities absent from types get fallback.
func (l Layouts) StampTypes(types map[string]string, fallback string) Layouts {
	out := l.Clone()
	for bp := range out {
		for i := range out[bp] {
			t, ok := types[out[bp][i].ID]
			if !ok || t == "" {
				t = fallback
			}
			out[bp][i].ChartType = t
		}
	}
	return out
}

// Types collects the chart-type tag of every identity, reading tiers from
// largest to smallest so that XXL wins when copies disagree.
func (l Layouts) Types() map[string]string {
	types := make(map[string]string)
	for _, bp := range Breakpoints {
		for _, p := range l[bp] {
			if p.ChartType == "" {
				continue
			}
			if _, ok := types[p.ID]; !ok {
				types[p.ID] = p.ChartType
			}
		}
	}
	return types
}

// Count returns the number of widgets at the source-of-truth tier.
func (l Layouts) Count() int {
	return len(l[XXL])
}
