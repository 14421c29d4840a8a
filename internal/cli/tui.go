package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/gridboard/pkg/charts"
	"github.com/matzehuels/gridboard/pkg/errors"
	"github.com/matzehuels/gridboard/pkg/layout"
	"github.com/matzehuels/gridboard/pkg/store"
)

// Tab bar styles
var (
	tabActiveStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorCyan).Underline(true)
	tabInactiveStyle = lipgloss.NewStyle().Foreground(colorGray)
	statusErrStyle   = lipgloss.NewStyle().Foreground(colorRed)
)

// =============================================================================
// watchModel - Interactive layout browser
// =============================================================================

// mutationMsg reports the outcome of a store mutation run as a command.
type mutationMsg struct {
	status string
	err    error
}

// watchModel is the bubbletea model behind "layout watch". It shows the
// active tab at one breakpoint and edits the store directly.
type watchModel struct {
	ctx      context.Context
	store    *store.Store
	registry *charts.Registry
	types    []charts.Type

	bp      layout.Breakpoint
	snap    *store.Snapshot
	cursor  int
	addType int
	status  string
	err     error
}

func newWatchModel(ctx context.Context, st *store.Store, registry *charts.Registry, bp layout.Breakpoint) watchModel {
	m := watchModel{
		ctx:      ctx,
		store:    st,
		registry: registry,
		types:    registry.Types(),
		bp:       bp,
	}
	for i, t := range m.types {
		if t == charts.Default {
			m.addType = i
		}
	}
	m.refresh()
	return m
}

func (m *watchModel) refresh() {
	m.snap = m.store.Snapshot()
	if n := len(m.snap.Layouts[m.bp]); m.cursor >= n {
		m.cursor = max(n-1, 0)
	}
}

func (m watchModel) Init() tea.Cmd {
	return nil
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case mutationMsg:
		m.status, m.err = msg.status, msg.err
		m.refresh()
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.snap.Layouts[m.bp])-1 {
				m.cursor++
			}
		case "left", "h":
			m.bp = m.shiftBreakpoint(-1)
			m.refresh()
		case "right", "l":
			m.bp = m.shiftBreakpoint(1)
			m.refresh()
		case "t":
			m.addType = (m.addType + 1) % len(m.types)
		case "tab":
			return m, m.switchTab(1)
		case "shift+tab":
			return m, m.switchTab(-1)
		case "a":
			return m, m.addChart(string(m.types[m.addType]))
		case "d", "x":
			items := m.snap.Layouts[m.bp]
			if len(items) > 0 {
				return m, m.deleteChart(items[m.cursor].ID)
			}
		case "r":
			m.status, m.err = "", nil
			m.refresh()
		}
	}
	return m, nil
}

func (m watchModel) shiftBreakpoint(delta int) layout.Breakpoint {
	n := len(layout.Breakpoints)
	for i, bp := range layout.Breakpoints {
		if bp == m.bp {
			return layout.Breakpoints[((i+delta)%n+n)%n]
		}
	}
	return layout.XXL
}

func (m watchModel) switchTab(delta int) tea.Cmd {
	ids := m.store.TabIDs()
	next := ids[0]
	for i, id := range ids {
		if id == m.snap.Tab {
			next = ids[((i+delta)%len(ids)+len(ids))%len(ids)]
		}
	}
	st, ctx := m.store, m.ctx
	return func() tea.Msg {
		err := st.SetActiveTab(ctx, next)
		return mutationMsg{status: "switched to tab " + next, err: err}
	}
}

func (m watchModel) addChart(chartType string) tea.Cmd {
	st, ctx := m.store, m.ctx
	return func() tea.Msg {
		id, err := st.AddChart(ctx, chartType, nil)
		return mutationMsg{status: fmt.Sprintf("added %s chart %s", chartType, id), err: err}
	}
}

func (m watchModel) deleteChart(id string) tea.Cmd {
	st, ctx := m.store, m.ctx
	return func() tea.Msg {
		removed, err := st.DeleteChart(ctx, id)
		status := "removed chart " + id
		if !removed {
			status = "chart " + id + " was already gone"
		}
		return mutationMsg{status: status, err: err}
	}
}

func (m watchModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Gridboard"))
	b.WriteString("  ")
	for _, t := range m.store.Tabs() {
		style := tabInactiveStyle
		if t.ID == m.snap.Tab {
			style = tabActiveStyle
		}
		b.WriteString(style.Render(t.Name))
		b.WriteString("  ")
	}
	b.WriteString("\n")

	for _, bp := range layout.Breakpoints {
		style := tabInactiveStyle
		if bp == m.bp {
			style = tabActiveStyle
		}
		b.WriteString(style.Render(string(bp)))
		b.WriteString(" ")
	}
	b.WriteString(StyleDim.Render(fmt.Sprintf(" %d cols", m.bp.Cols())))
	b.WriteString("\n\n")

	items := m.snap.Layouts[m.bp]
	b.WriteString(placementTable(items, m.snap.Types, m.cursor))
	b.WriteString("\n")
	b.WriteString(renderGrid(items, m.bp.Cols()))
	b.WriteString("\n\n")

	switch {
	case m.err != nil:
		b.WriteString(statusErrStyle.Render(iconError + " " + errors.UserMessage(m.err)))
	case m.status != "":
		b.WriteString(StyleSuccess.Render(iconSuccess + " " + m.status))
	}
	b.WriteString("\n")
	b.WriteString(StyleDim.Render(fmt.Sprintf(
		"↑/↓ select  ←/→ breakpoint  ⇥ tab  a add %s  t type  d delete  q quit",
		m.types[m.addType])))

	return b.String()
}
