package store

import (
	"maps"
	"slices"
	"strconv"

	"github.com/matzehuels/gridboard/pkg/layout"
)

// Tab is one dashboard tab.
type Tab struct {
	// Layouts holds geometry only; ChartType is empty on every placement.
	Layouts layout.Layouts
	// Types maps widget identity to chart-type tag.
	Types map[string]string
	// Keys is the rendering order of widget identities.
	Keys []int
}

// State is the whole persisted store state.
type State struct {
	ActiveTab string
	Tabs      map[string]*Tab
}

// TabInfo describes a tab for display.
type TabInfo struct {
	ID    string `json:"id" toml:"id"`
	Name  string `json:"name" toml:"name"`
	Value string `json:"value" toml:"value"`
}

// DefaultTabs are the tabs a fresh dashboard starts with.
var DefaultTabs = []TabInfo{
	{ID: "1", Name: "Dashboard", Value: "dashboard"},
	{ID: "2", Name: "NDR", Value: "ndr"},
	{ID: "3", Name: "Billing", Value: "billing"},
}

// DefaultState returns the first-run state: three tabs, the first seeded with
// one bar chart, the first tab active.
func DefaultState() *State {
	ids := make([]string, len(DefaultTabs))
	for i, t := range DefaultTabs {
		ids[i] = t.ID
	}
	return NewState(ids, "bar")
}

// NewState returns a state with the given tabs. The first tab is active and
// holds widget "0" of type seed; the others are empty.
func NewState(tabIDs []string, seed string) *State {
	s := &State{Tabs: make(map[string]*Tab, len(tabIDs))}
	for i, id := range tabIDs {
		tab := newTab()
		if i == 0 {
			s.ActiveTab = id
			for bp, items := range layout.Generate(0, "0", "").StripTypes() {
				tab.Layouts[bp] = items
			}
			tab.Types["0"] = seed
			tab.Keys = []int{0}
		}
		s.Tabs[id] = tab
	}
	return s
}

func newTab() *Tab {
	return &Tab{
		Layouts: layout.Empty(),
		Types:   make(map[string]string),
		Keys:    []int{},
	}
}

// Clone returns a deep copy of s.
func (s *State) Clone() *State {
	if s == nil {
		return nil
	}
	out := &State{ActiveTab: s.ActiveTab, Tabs: make(map[string]*Tab, len(s.Tabs))}
	for id, t := range s.Tabs {
		out.Tabs[id] = t.Clone()
	}
	return out
}

// TabIDs returns the tab identifiers in ascending order, numeric ids first.
func (s *State) TabIDs() []string {
	ids := slices.Collect(maps.Keys(s.Tabs))
	slices.SortFunc(ids, compareIDs)
	return ids
}

// Clone returns a deep copy of t.
func (t *Tab) Clone() *Tab {
	if t == nil {
		return nil
	}
	return &Tab{
		Layouts: t.Layouts.Clone(),
		Types:   maps.Clone(t.Types),
		Keys:    slices.Clone(t.Keys),
	}
}

// IDs returns the widget identities in rendering order.
func (t *Tab) IDs() []string {
	ids := make([]string, len(t.Keys))
	for i, k := range t.Keys {
		ids[i] = strconv.Itoa(k)
	}
	return ids
}

// Has reports whether key is a widget on t.
func (t *Tab) Has(key int) bool {
	return slices.Contains(t.Keys, key)
}

// NextKey returns the identity the next added widget gets: one more than the
// largest key, or 0 when the tab is empty.
func (t *Tab) NextKey() int {
	if len(t.Keys) == 0 {
		return 0
	}
	return slices.Max(t.Keys) + 1
}

// compareIDs orders numeric ids numerically and before any non-numeric id.
func compareIDs(a, b string) int {
	na, errA := strconv.Atoi(a)
	nb, errB := strconv.Atoi(b)
	switch {
	case errA == nil && errB == nil:
		return na - nb
	case errA == nil:
		return -1
	case errB == nil:
		return 1
	}
	if a < b {
		return -1
	}
	if a > b {
		return 1
	}
	return 0
}
