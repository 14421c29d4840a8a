package charts

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"
)

// Type is a chart-type tag as stored on a widget.
type Type string

// Known chart types.
const (
	Bar         Type = "bar"
	Line        Type = "line"
	StackColumn Type = "stackColumn"
	Pie         Type = "pie"
	Donut       Type = "donut"
	SemiDonut   Type = "semiDonut"
	BarRace     Type = "barRace"
	HeatMap     Type = "heatMap"
)

// Default is the type used for unrecognised or missing tags.
const Default = Bar

// Option is a charting-library option tree. It is plain JSON-compatible data
// handed to the browser as is.
type Option map[string]any

// Registry maps chart-type tags to their rendering options. A Registry is
// read-only after construction and safe for concurrent use.
type Registry struct {
	options map[Type]Option
}

// NewRegistry creates a registry from the given table. The table must hold an
// entry for [Default].
func NewRegistry(options map[Type]Option) *Registry {
	cp := make(map[Type]Option, len(options))
	for t, o := range options {
		cp[t] = o
	}
	if _, ok := cp[Default]; !ok {
		cp[Default] = barOption()
	}
	return &Registry{options: cp}
}

var builtin = NewRegistry(map[Type]Option{
	Bar:         barOption(),
	Line:        lineOption(),
	StackColumn: stackColumnOption(),
	Pie:         pieOption(),
	Donut:       donutOption(),
	SemiDonut:   semiDonutOption(),
	BarRace:     barRaceOption(),
	HeatMap:     heatMapOption(),
})

// Builtin returns the registry holding the built-in chart options.
func Builtin() *Registry { return builtin }

// Known reports whether tag has its own entry.
func (r *Registry) Known(tag string) bool {
	_, ok := r.options[Type(tag)]
	return ok
}

// Resolve returns the type tag renders as: tag itself when registered,
// [Default] otherwise.
func (r *Registry) Resolve(tag string) Type {
	if r.Known(tag) {
		return Type(tag)
	}
	return Default
}

// Lookup returns a deep copy of the option for tag, falling back to the
// default chart for unrecognised tags.
func (r *Registry) Lookup(tag string) Option {
	return cloneOption(r.options[r.Resolve(tag)])
}

// Types returns the registered tags in alphabetical order.
func (r *Registry) Types() []Type {
	types := make([]Type, 0, len(r.options))
	for t := range r.options {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

// Suggest returns registered tags resembling tag, best match first. It matches
// both ways so that abbreviations ("heat") and overshoots ("piee") are caught.
func (r *Registry) Suggest(tag string) []Type {
	tag = strings.ToLower(strings.TrimSpace(tag))
	if tag == "" {
		return nil
	}
	types := r.Types()
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = strings.ToLower(string(t))
	}

	var out []Type
	seen := make(map[Type]bool)
	for _, m := range fuzzy.Find(tag, names) {
		t := types[m.Index]
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	for i, name := range names {
		if seen[types[i]] {
			continue
		}
		if len(fuzzy.Find(name, []string{tag})) > 0 {
			seen[types[i]] = true
			out = append(out, types[i])
		}
	}
	return out
}

// cloneOption deep-copies an option tree via JSON so that callers can mutate
// their copy without touching the registry.
func cloneOption(o Option) Option {
	data, err := json.Marshal(o)
	if err != nil {
		return Option{}
	}
	var out Option
	if err := json.Unmarshal(data, &out); err != nil {
		return Option{}
	}
	return out
}
