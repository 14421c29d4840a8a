package store

import (
	"context"
	"io"
	"maps"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/gridboard/pkg/errors"
	"github.com/matzehuels/gridboard/pkg/layout"
	"github.com/matzehuels/gridboard/pkg/observability"
)

// Options configures a [Store].
type Options struct {
	// Persister loads the initial state and saves every mutation. Defaults to
	// an empty [MemoryPersister].
	Persister Persister

	// Logger receives mutation and repair messages. Defaults to discarding.
	Logger *log.Logger

	// DefaultChart is the type given to widgets that have none. Defaults to
	// "bar".
	DefaultChart string

	// Tabs lists the dashboard tabs in display order. Defaults to
	// [DefaultTabs]. Tabs found in persisted state but not listed here are
	// kept and shown after the listed ones.
	Tabs []TabInfo
}

// Store is the single authoritative holder of layout state. It is safe for
// concurrent use; mutations are applied one at a time in call order.
type Store struct {
	mu        sync.RWMutex
	state     *State
	persister Persister
	logger    *log.Logger
	fallback  string
	tabs      []TabInfo
}

// New loads the persisted state (or the default state on first run), repairs
// any integrity problems it finds and returns the store. Repairs are logged
// but not saved until the next mutation.
func New(ctx context.Context, opts Options) (*Store, error) {
	if opts.Persister == nil {
		opts.Persister = NewMemoryPersister(nil)
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.DefaultChart == "" {
		opts.DefaultChart = "bar"
	}
	if len(opts.Tabs) == 0 {
		opts.Tabs = DefaultTabs
	}
	if err := validateTabs(opts.Tabs); err != nil {
		return nil, err
	}

	s := &Store{
		persister: opts.Persister,
		logger:    opts.Logger,
		fallback:  opts.DefaultChart,
		tabs:      slices.Clone(opts.Tabs),
	}
	if rp, ok := opts.Persister.(*RecordPersister); ok {
		rp.fallback = opts.DefaultChart
	}

	state, err := opts.Persister.Load(ctx)
	switch {
	case errors.Is(err, errors.ErrCodeInvalidInput):
		s.logger.Warn("persisted state unreadable, starting from defaults", "err", err)
		state = nil
	case err != nil:
		return nil, err
	}
	if state == nil {
		s.logger.Debug("no persisted state, using defaults")
		state = NewState(s.configuredIDs(), opts.DefaultChart)
	}

	s.state = s.normalize(ctx, state)
	s.registerExtraTabs()
	return s, nil
}

func validateTabs(tabs []TabInfo) error {
	seen := make(map[string]bool, len(tabs))
	for _, t := range tabs {
		if err := errors.ValidateTabID(t.ID); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "tab %q", t.ID)
		}
		if seen[t.ID] {
			return errors.New(errors.ErrCodeInvalidConfig, "duplicate tab %q", t.ID)
		}
		seen[t.ID] = true
	}
	return nil
}

func (s *Store) configuredIDs() []string {
	ids := make([]string, len(s.tabs))
	for i, t := range s.tabs {
		ids[i] = t.ID
	}
	return ids
}

// registerExtraTabs lists persisted tabs that are missing from the
// configuration so that they stay reachable.
func (s *Store) registerExtraTabs() {
	for _, id := range s.state.TabIDs() {
		if !slices.ContainsFunc(s.tabs, func(t TabInfo) bool { return t.ID == id }) {
			s.tabs = append(s.tabs, TabInfo{ID: id, Name: id, Value: id})
		}
	}
}

// normalize makes a loaded state satisfy the store's invariants: every
// configured tab exists, the active tab exists, every widget key has a type
// and a placement at every tier, and nothing else does.
func (s *Store) normalize(ctx context.Context, st *State) *State {
	if st.Tabs == nil {
		st.Tabs = make(map[string]*Tab)
	}
	for _, t := range s.tabs {
		if _, ok := st.Tabs[t.ID]; !ok {
			st.Tabs[t.ID] = newTab()
		}
	}
	if _, ok := st.Tabs[st.ActiveTab]; !ok {
		if st.ActiveTab != "" {
			s.logger.Warn("active tab missing, switching to first tab", "tab", st.ActiveTab)
		}
		st.ActiveTab = s.tabs[0].ID
	}

	for id, tab := range st.Tabs {
		if tab == nil {
			tab = newTab()
			st.Tabs[id] = tab
		}
		s.normalizeTab(ctx, id, tab)
	}
	return st
}

func (s *Store) normalizeTab(ctx context.Context, id string, tab *Tab) {
	if tab.Types == nil {
		tab.Types = make(map[string]string)
	}
	if tab.Layouts == nil {
		tab.Layouts = layout.Empty()
	}

	// Keys are the canonical widget list; duplicates collapse.
	keys := make([]int, 0, len(tab.Keys))
	for _, k := range tab.Keys {
		if k >= 0 && !slices.Contains(keys, k) {
			keys = append(keys, k)
		}
	}
	// Widgets placed on the grid but missing from the keys are adopted.
	for _, wid := range tab.Layouts.IdentitySet() {
		if errors.ValidateChartID(wid) != nil {
			continue
		}
		k, _ := strconv.Atoi(wid)
		if slices.Contains(keys, k) {
			continue
		}
		s.logger.Warn("adopting widget missing from layout keys", "tab", id, "chart", wid)
		keys = append(keys, k)
	}
	tab.Keys = keys

	known := tab.IDs()
	fixed, repairs := layout.Repair(tab.Layouts, known)
	for _, r := range repairs {
		s.logger.Warn("repaired layout", "tab", id, "repair", r.String())
	}
	// A key with no placement anywhere cannot be derived; give it a fresh one.
	for i, wid := range known {
		if _, ok := fixed.Find(layout.XXL, wid); ok {
			continue
		}
		s.logger.Warn("widget has no placement, generating one", "tab", id, "chart", wid)
		for bp, items := range layout.Generate(i, wid, "") {
			fixed[bp] = append(fixed[bp], items...)
		}
		repairs = append(repairs, layout.Fix{Breakpoint: layout.XXL, ID: wid, Action: layout.ActionGenerated})
	}
	if len(repairs) > 0 {
		observability.Store().OnRepair(ctx, id, len(repairs))
	}
	tab.Layouts = fixed.StripTypes()

	for wid := range tab.Types {
		if !slices.Contains(known, wid) {
			delete(tab.Types, wid)
		}
	}
	for _, wid := range known {
		if tab.Types[wid] == "" {
			s.logger.Warn("widget has no chart type, using default", "tab", id, "chart", wid, "type", s.fallback)
			tab.Types[wid] = s.fallback
		}
	}
}

// =============================================================================
// Mutations
// =============================================================================

// mutate runs fn on a copy of the state under the write lock. When fn reports
// a change, the copy is saved and becomes the current state.
func (s *Store) mutate(ctx context.Context, op string, fn func(next *State) (bool, error)) (err error) {
	start := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	tab := s.state.ActiveTab
	defer func() {
		observability.Store().OnMutation(ctx, op, tab, time.Since(start), err)
	}()

	if err := ctx.Err(); err != nil {
		return err
	}
	next := s.state.Clone()
	changed, err := fn(next)
	if err != nil || !changed {
		return err
	}
	if err := s.persister.Save(ctx, next); err != nil {
		s.logger.Error("save failed, change discarded", "op", op, "tab", tab, "err", err)
		if errors.GetCode(err) == "" {
			return errors.Wrap(errors.ErrCodeStorage, err, "save state")
		}
		return err
	}
	s.state = next
	s.logger.Debug("state saved", "op", op, "tab", next.ActiveTab, "duration", time.Since(start))
	return nil
}

// SetActiveTab makes tabID the target of subsequent operations. An unknown
// tab is rejected with TAB_NOT_FOUND and the state is left unchanged.
func (s *Store) SetActiveTab(ctx context.Context, tabID string) error {
	if err := errors.ValidateTabID(tabID); err != nil {
		return err
	}
	return s.mutate(ctx, "setActiveTab", func(next *State) (bool, error) {
		if _, ok := next.Tabs[tabID]; !ok {
			return false, errors.New(errors.ErrCodeTabNotFound, "tab %q does not exist", tabID)
		}
		if next.ActiveTab == tabID {
			return false, nil
		}
		next.ActiveTab = tabID
		s.logger.Info("switched tab", "tab", tabID)
		return true, nil
	})
}

// UpdateLayouts replaces the active tab's geometry with the placements in
// incoming. The widget set never changes through this path:
//
//   - placements for widgets the tab does not have are dropped
//   - a stored widget missing from an incoming tier keeps its stored placement
//   - a breakpoint missing from incoming keeps its stored tier
//
// Chart types in incoming are ignored; each widget keeps its stored type. A
// placement with negative position, non-positive size or one that does not
// fit its tier's columns rejects the whole update with INVALID_LAYOUT.
func (s *Store) UpdateLayouts(ctx context.Context, incoming layout.Layouts) (*UpdateReport, error) {
	if err := layout.CheckGeometry(incoming); err != nil {
		return nil, err
	}

	var report *UpdateReport
	err := s.mutate(ctx, "updateLayouts", func(next *State) (bool, error) {
		tab := next.Tabs[next.ActiveTab]
		report = &UpdateReport{Tab: next.ActiveTab}

		for bp := range incoming {
			if !bp.Valid() {
				report.IgnoredTiers = append(report.IgnoredTiers, string(bp))
			}
		}
		slices.Sort(report.IgnoredTiers)

		known := tab.IDs()
		merged := make(layout.Layouts, len(layout.Breakpoints))
		for _, bp := range layout.Breakpoints {
			items, ok := incoming[bp]
			if !ok {
				report.MissingTiers = append(report.MissingTiers, bp)
				merged[bp] = tab.Layouts[bp]
				continue
			}
			merged[bp] = s.mergeTier(bp, tab.Layouts[bp], items, known, report)
		}
		tab.Layouts = merged

		for _, wid := range known {
			if tab.Types[wid] == "" {
				tab.Types[wid] = s.fallback
				report.Fallbacks = append(report.Fallbacks, wid)
			}
		}
		s.logReport(report)
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

// mergeTier applies incoming geometry for one breakpoint. Result order
// follows incoming, with retained stored placements appended.
func (s *Store) mergeTier(bp layout.Breakpoint, stored, incoming []layout.Placement, known []string, report *UpdateReport) []layout.Placement {
	out := make([]layout.Placement, 0, len(known))
	placed := make(map[string]bool, len(known))

	for _, p := range incoming {
		if !slices.Contains(known, p.ID) || placed[p.ID] {
			report.Dropped = append(report.Dropped, Issue{Breakpoint: bp, ID: p.ID})
			continue
		}
		prev, _ := findPlacement(stored, p.ID)
		if p.MinW == 0 {
			p.MinW = prev.MinW
		}
		if p.MinH == 0 {
			p.MinH = prev.MinH
		}
		p.ChartType = ""
		out = append(out, p)
		placed[p.ID] = true
		report.Applied++
	}
	for _, p := range stored {
		if !placed[p.ID] && slices.Contains(known, p.ID) {
			out = append(out, p)
			placed[p.ID] = true
			report.Kept = append(report.Kept, Issue{Breakpoint: bp, ID: p.ID})
		}
	}
	return out
}

func findPlacement(items []layout.Placement, id string) (layout.Placement, bool) {
	i := slices.IndexFunc(items, func(p layout.Placement) bool { return p.ID == id })
	if i < 0 {
		return layout.Placement{}, false
	}
	return items[i], true
}

func (s *Store) logReport(r *UpdateReport) {
	for _, i := range r.Dropped {
		s.logger.Warn("dropped placement for unknown or repeated widget", "tab", r.Tab, "breakpoint", i.Breakpoint, "chart", i.ID)
	}
	for _, i := range r.Kept {
		s.logger.Warn("update omitted widget, kept stored placement", "tab", r.Tab, "breakpoint", i.Breakpoint, "chart", i.ID)
	}
	for _, bp := range r.MissingTiers {
		s.logger.Warn("update omitted breakpoint, kept stored tier", "tab", r.Tab, "breakpoint", bp)
	}
	for _, name := range r.IgnoredTiers {
		s.logger.Warn("ignored unknown breakpoint", "tab", r.Tab, "breakpoint", name)
	}
	for _, wid := range r.Fallbacks {
		s.logger.Warn("widget has no chart type, using default", "tab", r.Tab, "chart", wid, "type", s.fallback)
	}
	s.logger.Debug("layouts updated", "tab", r.Tab, "applied", r.Applied)
}

// AddChart appends a widget of chartType to the active tab and returns its
// identity: one more than the largest existing key, or "0" on an empty tab.
//
// fragment optionally supplies the widget's geometry, at most one placement
// per breakpoint. Its identity and chart type are overridden. Breakpoints it
// omits, or a nil fragment, get the generated default placement.
func (s *Store) AddChart(ctx context.Context, chartType string, fragment layout.Layouts) (string, error) {
	if err := errors.ValidateChartType(chartType); err != nil {
		return "", err
	}
	for bp, items := range fragment {
		if len(items) > 1 {
			return "", errors.New(errors.ErrCodeInvalidLayout, "%s: fragment holds %d placements, want at most 1", bp, len(items))
		}
	}
	if err := layout.CheckGeometry(fragment); err != nil {
		return "", err
	}

	var id string
	err := s.mutate(ctx, "addChart", func(next *State) (bool, error) {
		tab := next.Tabs[next.ActiveTab]
		key := tab.NextKey()
		id = strconv.Itoa(key)

		generated := layout.Generate(len(tab.Keys), id, "")
		for _, bp := range layout.Breakpoints {
			p := generated[bp][0]
			if items := fragment[bp]; len(items) == 1 {
				p = items[0]
				p.ID = id
				p.ChartType = ""
			}
			tab.Layouts[bp] = append(tab.Layouts[bp], p)
		}
		tab.Keys = append(tab.Keys, key)
		tab.Types[id] = chartType

		s.logger.Info("added chart", "tab", next.ActiveTab, "chart", id, "type", chartType)
		return true, nil
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

// DeleteChart removes widget chartID from every breakpoint of the active tab.
// Other widgets keep their types. It reports whether the widget existed; a
// missing widget is not an error and nothing is saved.
func (s *Store) DeleteChart(ctx context.Context, chartID string) (bool, error) {
	if err := errors.ValidateChartID(chartID); err != nil {
		return false, err
	}
	key, _ := strconv.Atoi(chartID)

	var removed bool
	err := s.mutate(ctx, "deleteChart", func(next *State) (bool, error) {
		tab := next.Tabs[next.ActiveTab]
		if !tab.Has(key) {
			s.logger.Debug("delete of unknown chart ignored", "tab", next.ActiveTab, "chart", chartID)
			return false, nil
		}
		tab.Layouts = tab.Layouts.Without(chartID)
		tab.Keys = slices.DeleteFunc(tab.Keys, func(k int) bool { return k == key })
		delete(tab.Types, chartID)
		removed = true

		s.logger.Info("deleted chart", "tab", next.ActiveTab, "chart", chartID)
		return true, nil
	})
	if err != nil {
		return false, err
	}
	return removed, nil
}

// Reset replaces the whole state with the first-run state and saves it.
func (s *Store) Reset(ctx context.Context) error {
	return s.mutate(ctx, "reset", func(next *State) (bool, error) {
		fresh := NewState(s.configuredIDs(), s.fallback)
		next.ActiveTab = fresh.ActiveTab
		next.Tabs = fresh.Tabs
		s.logger.Info("reset dashboard", "tabs", len(fresh.Tabs))
		return true, nil
	})
}

// =============================================================================
// Reads
// =============================================================================

// ActiveTab returns the active tab's identifier.
func (s *Store) ActiveTab() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.ActiveTab
}

// TabIDs returns the tab identifiers in display order.
func (s *Store) TabIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, len(s.tabs))
	for i, t := range s.tabs {
		ids[i] = t.ID
	}
	return ids
}

// Tabs returns the tab descriptions in display order.
func (s *Store) Tabs() []TabInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.tabs)
}

// Snapshot returns the active tab.
func (s *Store) Snapshot() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot(s.state.ActiveTab)
}

// TabSnapshot returns the tab with the given id.
func (s *Store) TabSnapshot(tabID string) (*Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.state.Tabs[tabID]; !ok {
		return nil, errors.New(errors.ErrCodeTabNotFound, "tab %q does not exist", tabID)
	}
	return s.snapshot(tabID), nil
}

func (s *Store) snapshot(tabID string) *Snapshot {
	tab := s.state.Tabs[tabID]
	return &Snapshot{
		Tab:     tabID,
		Layouts: tab.Layouts.StampTypes(tab.Types, s.fallback),
		Keys:    slices.Clone(tab.Keys),
		Types:   maps.Clone(tab.Types),
	}
}

// ChartType returns the type of widget chartID on the active tab.
func (s *Store) ChartType(chartID string) (string, error) {
	if err := errors.ValidateChartID(chartID); err != nil {
		return "", err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.state.Tabs[s.state.ActiveTab].Types[chartID]
	if !ok {
		return "", errors.New(errors.ErrCodeChartNotFound, "chart %q does not exist on tab %q", chartID, s.state.ActiveTab)
	}
	return t, nil
}

// State returns a deep copy of the whole state.
func (s *Store) State() *State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

// Check validates every tab against its widget keys and returns all
// problems as one INVALID_LAYOUT error, or nil.
func (s *Store) Check() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var problems []string
	for _, id := range s.state.TabIDs() {
		tab := s.state.Tabs[id]
		if err := layout.Validate(tab.Layouts, tab.IDs()); err != nil {
			problems = append(problems, "tab "+id+": "+errors.UserMessage(err))
		}
		for _, wid := range tab.IDs() {
			if tab.Types[wid] == "" {
				problems = append(problems, "tab "+id+": widget "+strconv.Quote(wid)+" has no chart type")
			}
		}
	}
	if len(problems) > 0 {
		return errors.New(errors.ErrCodeInvalidLayout, "%s", strings.Join(problems, "; "))
	}
	return nil
}
