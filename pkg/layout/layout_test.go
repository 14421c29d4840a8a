package layout

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	"github.com/matzehuels/gridboard/pkg/errors"
)

func TestBreakpointTiers(t *testing.T) {
	tests := []struct {
		bp       Breakpoint
		cols     int
		minWidth int
		width    int
	}{
		{XXL, 12, 1600, 4},
		{XL, 10, 1200, 4},
		{LG, 8, 992, 4},
		{MD, 6, 768, 3},
		{SM, 4, 576, 4},
		{XS, 2, 480, 2},
	}

	for _, tt := range tests {
		t.Run(string(tt.bp), func(t *testing.T) {
			if !tt.bp.Valid() {
				t.Fatalf("%s should be valid", tt.bp)
			}
			if got := tt.bp.Cols(); got != tt.cols {
				t.Errorf("Cols() = %d, want %d", got, tt.cols)
			}
			if got := tt.bp.MinWidth(); got != tt.minWidth {
				t.Errorf("MinWidth() = %d, want %d", got, tt.minWidth)
			}
			if got := tt.bp.DefaultWidth(); got != tt.width {
				t.Errorf("DefaultWidth() = %d, want %d", got, tt.width)
			}
		})
	}

	if Breakpoint("xxxl").Valid() {
		t.Error("unknown tier should not be valid")
	}
}

func TestParseBreakpoint(t *testing.T) {
	if bp, err := ParseBreakpoint("md"); err != nil || bp != MD {
		t.Errorf("ParseBreakpoint(md) = %v, %v", bp, err)
	}
	_, err := ParseBreakpoint("huge")
	if !errors.Is(err, errors.ErrCodeInvalidBreakpoint) {
		t.Errorf("ParseBreakpoint(huge) error = %v, want INVALID_BREAKPOINT", err)
	}
}

func TestForWidth(t *testing.T) {
	tests := []struct {
		px   int
		want Breakpoint
	}{
		{2560, XXL},
		{1600, XXL},
		{1599, XL},
		{1000, LG},
		{800, MD},
		{600, SM},
		{480, XS},
		{320, XS},
	}
	for _, tt := range tests {
		if got := ForWidth(tt.px); got != tt.want {
			t.Errorf("ForWidth(%d) = %s, want %s", tt.px, got, tt.want)
		}
	}
}

func TestGenerateFirstWidgetMatchesSeed(t *testing.T) {
	l := Generate(0, "0", "bar")

	if len(l) != len(Breakpoints) {
		t.Fatalf("Generate returned %d tiers, want %d", len(l), len(Breakpoints))
	}
	want := map[Breakpoint]int{XXL: 4, XL: 4, LG: 4, MD: 3, SM: 4, XS: 2}
	for _, bp := range Breakpoints {
		items := l[bp]
		if len(items) != 1 {
			t.Fatalf("%s: %d placements, want 1", bp, len(items))
		}
		p := items[0]
		if p.ID != "0" || p.ChartType != "bar" {
			t.Errorf("%s: identity/type = %q/%q", bp, p.ID, p.ChartType)
		}
		if p.X != 0 || p.Y != 0 || p.W != want[bp] || p.H != DefaultHeight {
			t.Errorf("%s: geometry = %+v", bp, p)
		}
		if p.MinW != 2 || p.MinH != 2 {
			t.Errorf("%s: min size = %d/%d, want 2/2", bp, p.MinW, p.MinH)
		}
	}
}

func TestPlaceFlowsRowMajor(t *testing.T) {
	tests := []struct {
		index int
		bp    Breakpoint
		x, y  int
	}{
		{1, XXL, 4, 0},
		{2, XXL, 8, 0},
		{3, XXL, 0, 3},
		{2, XL, 0, 3}, // 10 cols fit two 4-wide widgets
		{1, MD, 3, 0},
		{2, MD, 0, 3},
		{1, SM, 0, 3},
		{4, XS, 0, 12},
		{-1, LG, 0, 0},
	}
	for _, tt := range tests {
		p := Place(tt.index, tt.bp)
		if p.X != tt.x || p.Y != tt.y {
			t.Errorf("Place(%d, %s) = (%d,%d), want (%d,%d)", tt.index, tt.bp, p.X, p.Y, tt.x, tt.y)
		}
		if p.X+p.W > tt.bp.Cols() {
			t.Errorf("Place(%d, %s) overflows the grid: %+v", tt.index, tt.bp, p)
		}
	}
}

func TestValidate(t *testing.T) {
	good := Generate(0, "0", "bar")
	if err := Validate(good, []string{"0"}); err != nil {
		t.Fatalf("Validate(good) = %v", err)
	}

	tests := []struct {
		name   string
		mutate func(Layouts)
		want   string
	}{
		{"missing tier", func(l Layouts) { delete(l, MD) }, "md: tier missing"},
		{"missing widget", func(l Layouts) { l[SM] = []Placement{} }, `sm: widget "0" missing`},
		{"unknown widget", func(l Layouts) { l[XS] = append(l[XS], Placement{ID: "9", W: 1, H: 1}) }, `xs: unknown widget "9"`},
		{"duplicate", func(l Layouts) { l[LG] = append(l[LG], l[LG][0]) }, `lg: duplicate widget "0"`},
		{"bad size", func(l Layouts) { l[XL][0].W = 0 }, "non-positive size"},
		{"negative position", func(l Layouts) { l[XXL][0].Y = -1 }, "negative position"},
		{"wider than grid", func(l Layouts) { l[XS][0].W = 100 }, "xs: widget \"0\" extends past the 2-column grid"},
		{"past right edge", func(l Layouts) { l[MD][0].X = 4 }, "extends past the 6-column grid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := good.Clone()
			tt.mutate(l)
			err := Validate(l, []string{"0"})
			if !errors.Is(err, errors.ErrCodeInvalidLayout) {
				t.Fatalf("Validate() = %v, want INVALID_LAYOUT", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Validate() = %q, want it to mention %q", err, tt.want)
			}
		})
	}
}

func TestRepairDerivesMissingTier(t *testing.T) {
	l := Generate(0, "0", "bar")
	second := Generate(1, "1", "pie")
	for _, bp := range Breakpoints {
		if bp == SM {
			continue // widget 1 lost at sm
		}
		l[bp] = append(l[bp], second[bp]...)
	}

	fixed, repairs := Repair(l, []string{"0", "1"})
	if err := Validate(fixed, []string{"0", "1"}); err != nil {
		t.Fatalf("repaired layout invalid: %v", err)
	}
	if len(repairs) != 1 {
		t.Fatalf("repairs = %v, want one", repairs)
	}
	r := repairs[0]
	if r.Breakpoint != SM || r.ID != "1" || r.Action != ActionDerived || r.From != XXL {
		t.Errorf("repair = %+v", r)
	}
	p, _ := fixed.Find(SM, "1")
	if p.X+p.W > SM.Cols() {
		t.Errorf("derived placement overflows sm grid: %+v", p)
	}
	if p.ChartType != "pie" {
		t.Errorf("derived placement lost its type: %+v", p)
	}
}

func TestRepairDropsUnknownAndDuplicates(t *testing.T) {
	l := Generate(0, "0", "bar")
	l[XS] = append(l[XS], l[XS][0], Placement{ID: "7", W: 1, H: 1})

	fixed, repairs := Repair(l, []string{"0"})
	if got := fixed.Identities(XS); !reflect.DeepEqual(got, []string{"0"}) {
		t.Errorf("xs identities = %v, want [0]", got)
	}
	actions := map[string]bool{}
	for _, r := range repairs {
		actions[r.Action] = true
	}
	if !actions[ActionDropped] || !actions[ActionDeduped] {
		t.Errorf("repairs = %v, want a drop and a dedupe", repairs)
	}
}

func TestRepairClampsOffGridPlacement(t *testing.T) {
	l := Generate(0, "0", "bar")
	l[XS][0].X = 1
	l[XS][0].W = 100

	fixed, repairs := Repair(l, []string{"0"})
	if err := Validate(fixed, []string{"0"}); err != nil {
		t.Fatalf("repaired layout invalid: %v", err)
	}
	p, _ := fixed.Find(XS, "0")
	if p.X != 0 || p.W != XS.Cols() {
		t.Errorf("clamped placement = %+v", p)
	}
	if len(repairs) != 1 || repairs[0].Action != ActionClamped || repairs[0].Breakpoint != XS {
		t.Errorf("repairs = %v, want one xs clamp", repairs)
	}
}

func TestCheckGeometry(t *testing.T) {
	if err := CheckGeometry(Generate(3, "3", "bar")); err != nil {
		t.Fatalf("CheckGeometry(generated) = %v", err)
	}
	l := Layouts{SM: {{ID: "0", X: 2, W: 3, H: 3}}}
	if err := CheckGeometry(l); !errors.Is(err, errors.ErrCodeInvalidLayout) {
		t.Errorf("CheckGeometry(off grid) = %v, want INVALID_LAYOUT", err)
	}
	// unknown tiers have no column count to check against
	if err := CheckGeometry(Layouts{"xxxl": {{ID: "0", W: 50, H: 1}}}); err != nil {
		t.Errorf("CheckGeometry(unknown tier) = %v", err)
	}
}

func TestRescale(t *testing.T) {
	p := Placement{ID: "0", X: 8, Y: 3, W: 4, H: 3, MinW: 2, MinH: 2}
	got := Rescale(p, XXL, XS)
	if got.W != 1 || got.X != 1 || got.Y != 3 {
		t.Errorf("Rescale(xxl->xs) = %+v", got)
	}
	if got.MinW > got.W {
		t.Errorf("MinW %d larger than W %d", got.MinW, got.W)
	}

	same := Rescale(p, XXL, XXL)
	if same != p {
		t.Errorf("Rescale to same tier changed placement: %+v", same)
	}
}

func TestLayoutsHelpers(t *testing.T) {
	l := Generate(0, "0", "bar")
	for bp, items := range Generate(1, "1", "pie") {
		l[bp] = append(l[bp], items...)
	}

	if got := l.IdentitySet(); !reflect.DeepEqual(got, []string{"0", "1"}) {
		t.Errorf("IdentitySet() = %v", got)
	}
	if got := l.Types(); !reflect.DeepEqual(got, map[string]string{"0": "bar", "1": "pie"}) {
		t.Errorf("Types() = %v", got)
	}

	stripped := l.StripTypes()
	if len(stripped.Types()) != 0 {
		t.Error("StripTypes() left chart types behind")
	}
	if l[XXL][0].ChartType != "bar" {
		t.Error("StripTypes() modified its receiver")
	}

	stamped := stripped.StampTypes(map[string]string{"1": "donut"}, "bar")
	if p, _ := stamped.Find(MD, "1"); p.ChartType != "donut" {
		t.Errorf("StampTypes() type = %q, want donut", p.ChartType)
	}
	if p, _ := stamped.Find(MD, "0"); p.ChartType != "bar" {
		t.Errorf("StampTypes() fallback = %q, want bar", p.ChartType)
	}

	without := l.Without("0")
	for _, bp := range Breakpoints {
		if _, ok := without.Find(bp, "0"); ok {
			t.Errorf("%s still has widget 0", bp)
		}
	}
	if l.Count() != 2 {
		t.Error("Without() modified its receiver")
	}
}

func TestPlacementJSON(t *testing.T) {
	p := Placement{ID: "3", X: 1, Y: 2, W: 4, H: 3}
	data, err := json.Marshal(p)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"i":"3","x":1,"y":2,"w":4,"h":3}`
	if string(data) != want {
		t.Errorf("Marshal = %s, want %s", data, want)
	}

	var l Layouts
	if err := json.Unmarshal([]byte(`{"xxl":[{"i":"0","x":0,"y":0,"w":4,"h":3,"chartType":"pie"}],"xs":[]}`), &l); err != nil {
		t.Fatal(err)
	}
	if p, ok := l.Find(XXL, "0"); !ok || p.ChartType != "pie" {
		t.Errorf("Unmarshal lost data: %+v", l)
	}
}
