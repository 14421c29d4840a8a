package charts

import (
	"reflect"
	"slices"
	"testing"
)

func TestBuiltinTypes(t *testing.T) {
	want := []Type{Bar, BarRace, Donut, HeatMap, Line, Pie, SemiDonut, StackColumn}
	got := Builtin().Types()
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Types() = %v, want %v", got, want)
	}
}

func TestResolve(t *testing.T) {
	r := Builtin()
	tests := []struct {
		tag  string
		want Type
	}{
		{"pie", Pie},
		{"heatMap", HeatMap},
		{"", Bar},
		{"scatter", Bar},
		{"Pie", Bar}, // tags are case-sensitive
	}
	for _, tt := range tests {
		if got := r.Resolve(tt.tag); got != tt.want {
			t.Errorf("Resolve(%q) = %q, want %q", tt.tag, got, tt.want)
		}
		if got := r.Known(tt.tag); got != (tt.want == Type(tt.tag)) {
			t.Errorf("Known(%q) = %v", tt.tag, got)
		}
	}
}

func TestLookupFallsBackToBar(t *testing.T) {
	r := Builtin()
	if !reflect.DeepEqual(r.Lookup("nope"), r.Lookup("bar")) {
		t.Error("unknown tag should render as bar")
	}
	if reflect.DeepEqual(r.Lookup("pie"), r.Lookup("bar")) {
		t.Error("pie and bar should differ")
	}
}

func TestLookupReturnsCopy(t *testing.T) {
	r := Builtin()
	opt := r.Lookup("bar")
	opt["title"] = "mutated"
	opt["xAxis"].(map[string]any)["type"] = "value"

	again := r.Lookup("bar")
	if _, ok := again["title"]; ok {
		t.Error("top-level mutation leaked into registry")
	}
	if again["xAxis"].(map[string]any)["type"] != "category" {
		t.Error("nested mutation leaked into registry")
	}
}

func TestSeriesTypes(t *testing.T) {
	r := Builtin()
	tests := map[Type]string{
		Bar:         "bar",
		Line:        "line",
		StackColumn: "bar",
		Pie:         "pie",
		Donut:       "pie",
		SemiDonut:   "pie",
		BarRace:     "bar",
		HeatMap:     "heatmap",
	}
	for tag, want := range tests {
		series := r.Lookup(string(tag))["series"].([]any)
		if len(series) == 0 {
			t.Fatalf("%s: no series", tag)
		}
		for _, s := range series {
			if got := s.(map[string]any)["type"]; got != want {
				t.Errorf("%s: series type %v, want %s", tag, got, want)
			}
		}
	}
}

func TestStackColumnSharesSumToHundred(t *testing.T) {
	series := stackColumnOption()["series"].([]any)
	for day := 0; day < 7; day++ {
		var sum float64
		for _, s := range series {
			sum += s.(map[string]any)["data"].([]float64)[day]
		}
		if sum < 99.5 || sum > 100.5 {
			t.Errorf("day %d: shares sum to %.1f", day, sum)
		}
	}
}

func TestHeatMapCells(t *testing.T) {
	series := heatMapOption()["series"].([]any)
	cells := series[0].(map[string]any)["data"].([]any)
	if len(cells) != 7*24 {
		t.Fatalf("got %d cells, want %d", len(cells), 7*24)
	}
	// Saturday 12a holds 5, Saturday 2a is empty.
	if got := cells[0].([]any); got[0] != 0 || got[1] != 0 || got[2] != 5 {
		t.Errorf("first cell = %v", got)
	}
	if got := cells[2].([]any)[2]; got != "-" {
		t.Errorf("empty cell = %v, want -", got)
	}
}

func TestSuggest(t *testing.T) {
	r := Builtin()
	tests := []struct {
		tag  string
		want Type
	}{
		{"heat", HeatMap},
		{"piee", Pie},
		{"semi", SemiDonut},
		{"stack", StackColumn},
		{"race", BarRace},
	}
	for _, tt := range tests {
		got := r.Suggest(tt.tag)
		if !slices.Contains(got, tt.want) {
			t.Errorf("Suggest(%q) = %v, want it to contain %q", tt.tag, got, tt.want)
		}
	}

	if got := r.Suggest("zzz"); len(got) != 0 {
		t.Errorf("Suggest(zzz) = %v, want none", got)
	}
	if got := r.Suggest(""); got != nil {
		t.Errorf("Suggest(\"\") = %v, want nil", got)
	}
}

func TestNewRegistryAddsDefault(t *testing.T) {
	r := NewRegistry(map[Type]Option{Pie: pieOption()})
	if !r.Known(string(Default)) {
		t.Fatal("registry without a default entry should get one")
	}
	if got := r.Lookup("donut"); !reflect.DeepEqual(got, r.Lookup(string(Default))) {
		t.Error("unregistered tag should fall back to the default entry")
	}
}
