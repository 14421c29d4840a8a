package layout

import (
	"fmt"
	"strings"

	"github.com/matzehuels/gridboard/pkg/errors"
)

// Validate checks that l is well formed against the canonical identity list
// known: every tier is present, holds each known identity exactly once and
// nothing else, and every placement has sane geometry. All problems are
// reported in a single INVALID_LAYOUT error.
func Validate(l Layouts, known []string) error {
	var problems []string

	want := make(map[string]bool, len(known))
	for _, id := range known {
		want[id] = true
	}

	for bp := range l {
		if !bp.Valid() {
			problems = append(problems, fmt.Sprintf("unknown breakpoint %q", bp))
		}
	}

	for _, bp := range Breakpoints {
		items, ok := l[bp]
		if !ok {
			problems = append(problems, fmt.Sprintf("%s: tier missing", bp))
			continue
		}
		seen := make(map[string]bool, len(items))
		for _, p := range items {
			if seen[p.ID] {
				problems = append(problems, fmt.Sprintf("%s: duplicate widget %q", bp, p.ID))
				continue
			}
			seen[p.ID] = true
			if !want[p.ID] {
				problems = append(problems, fmt.Sprintf("%s: unknown widget %q", bp, p.ID))
			}
			if msg := checkGeometry(p, bp.Cols()); msg != "" {
				problems = append(problems, fmt.Sprintf("%s: widget %q %s", bp, p.ID, msg))
			}
		}
		for _, id := range known {
			if !seen[id] {
				problems = append(problems, fmt.Sprintf("%s: widget %q missing", bp, id))
			}
		}
	}

	if len(problems) == 0 {
		return nil
	}
	return errors.New(errors.ErrCodeInvalidLayout, "%s", strings.Join(problems, "; "))
}

// checkGeometry describes what is wrong with p on a grid of cols columns.
// A zero cols skips the grid bounds check.
func checkGeometry(p Placement, cols int) string {
	switch {
	case p.X < 0 || p.Y < 0:
		return "has negative position"
	case p.W <= 0 || p.H <= 0:
		return "has non-positive size"
	case p.MinW < 0 || p.MinH < 0:
		return "has negative minimum size"
	case cols > 0 && p.X+p.W > cols:
		return fmt.Sprintf("extends past the %d-column grid", cols)
	}
	return ""
}

// CheckGeometry validates the coordinates of every placement in l without
// looking at identity sets. Placements must fit their tier's column count.
func CheckGeometry(l Layouts) error {
	var problems []string
	for _, bp := range Breakpoints {
		for _, p := range l[bp] {
			if msg := checkGeometry(p, bp.Cols()); msg != "" {
				problems = append(problems, fmt.Sprintf("%s: widget %q %s", bp, p.ID, msg))
			}
		}
	}
	if len(problems) == 0 {
		return nil
	}
	return errors.New(errors.ErrCodeInvalidLayout, "%s", strings.Join(problems, "; "))
}

// Repair actions.
const (
	ActionDerived   = "derived"
	ActionDropped   = "dropped"
	ActionDeduped   = "deduplicated"
	ActionGenerated = "generated"
	ActionClamped   = "clamped"
)

// Fix records one change made by [Repair].
type Fix struct {
	Breakpoint Breakpoint `json:"breakpoint"`
	ID         string     `json:"id"`
	Action     string     `json:"action"`
	From       Breakpoint `json:"from,omitempty"` // source tier for derived placements
}

func (r Fix) String() string {
	if r.Action == ActionDerived {
		return fmt.Sprintf("%s: widget %q derived from %s", r.Breakpoint, r.ID, r.From)
	}
	return fmt.Sprintf("%s: widget %q %s", r.Breakpoint, r.ID, r.Action)
}

// Repair returns a copy of l in which every tier holds exactly the identities
// in known, in known's order. A widget missing at a tier is re-derived from
// the largest tier that has it, scaled to the target column count. Unknown and
// duplicate entries are dropped, and placements sticking out of the tier's
// grid are clamped back inside it. A known widget absent from every tier cannot
// be derived and stays absent; callers decide what to do with it.
func Repair(l Layouts, known []string) (Layouts, []Fix) {
	var repairs []Fix

	want := make(map[string]bool, len(known))
	for _, id := range known {
		want[id] = true
	}

	out := make(Layouts, len(Breakpoints))
	for _, bp := range Breakpoints {
		byID := make(map[string]Placement, len(l[bp]))
		for _, p := range l[bp] {
			if !want[p.ID] {
				repairs = append(repairs, Fix{Breakpoint: bp, ID: p.ID, Action: ActionDropped})
				continue
			}
			if _, dup := byID[p.ID]; dup {
				repairs = append(repairs, Fix{Breakpoint: bp, ID: p.ID, Action: ActionDeduped})
				continue
			}
			byID[p.ID] = p
		}

		items := make([]Placement, 0, len(known))
		for _, id := range known {
			if p, ok := byID[id]; ok {
				if fitted := clampToGrid(p, bp.Cols()); fitted != p {
					p = fitted
					repairs = append(repairs, Fix{Breakpoint: bp, ID: id, Action: ActionClamped})
				}
				items = append(items, p)
				continue
			}
			src, from, ok := findSource(l, id, bp)
			if !ok {
				continue
			}
			items = append(items, Rescale(src, from, bp))
			repairs = append(repairs, Fix{Breakpoint: bp, ID: id, Action: ActionDerived, From: from})
		}
		out[bp] = items
	}
	return out, repairs
}

// findSource locates id at the largest tier other than skip.
func findSource(l Layouts, id string, skip Breakpoint) (Placement, Breakpoint, bool) {
	for _, bp := range Breakpoints {
		if bp == skip {
			continue
		}
		if p, ok := l.Find(bp, id); ok {
			return p, bp, true
		}
	}
	return Placement{}, "", false
}

// Rescale converts a placement from one tier's column grid to another's,
// keeping rows as they are and clamping the result inside the target grid.
func Rescale(p Placement, from, to Breakpoint) Placement {
	fromCols, toCols := from.Cols(), to.Cols()
	if fromCols == 0 || toCols == 0 || fromCols == toCols {
		return clampToGrid(p, toCols)
	}
	out := p
	out.W = (p.W*toCols + fromCols/2) / fromCols
	out.X = p.X * toCols / fromCols
	return clampToGrid(out, toCols)
}

func clampToGrid(p Placement, cols int) Placement {
	if cols <= 0 {
		return p
	}
	if p.W < 1 {
		p.W = 1
	}
	if p.W > cols {
		p.W = cols
	}
	if p.X < 0 {
		p.X = 0
	}
	if p.X+p.W > cols {
		p.X = cols - p.W
	}
	if p.MinW > p.W {
		p.MinW = p.W
	}
	if p.Y < 0 {
		p.Y = 0
	}
	if p.H < 1 {
		p.H = 1
	}
	if p.MinH > p.H {
		p.MinH = p.H
	}
	return p
}
