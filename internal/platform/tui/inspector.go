package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/zengine/internal/app"
	"github.com/vovakirdan/zengine/internal/core"
	"github.com/vovakirdan/zengine/internal/resource"
)

// Inspector layout constants
const (
	minWidthForSidebar = 80 // Minimum width to show the manager sidebar
	sidebarWidth       = 18 // Width of the manager sidebar
	detailsWidth       = 30 // Width of the property pane
	screenTop          = 2  // Rows above the scene in screen view
)

// Model is the Bubble Tea model of the resource inspector.
type Model struct {
	app      *app.App
	managers []app.Inspectable
	cursor   int // selected manager
	entries  []resource.Entry
	table    table.Model
	help     help.Model
	keys     KeyMap
	width    int
	height   int

	live       bool // stepping on every tick
	ticking    bool // a tick command is outstanding
	showScreen bool
	status     string
	quitting   bool
}

// NewModel creates an inspector over a, which must already be initialized.
func NewModel(a *app.App, width, height int) Model {
	h := help.New()
	h.ShowAll = false

	m := Model{
		app:      a,
		managers: a.Managers(),
		keys:     DefaultKeyMap(),
		help:     h,
		width:    width,
		height:   height,
	}
	m.table = m.createTable()
	m.refresh()
	return m
}

// createTable creates the entry table sized for the current window.
func (m *Model) createTable() table.Model {
	columns := []table.Column{
		{Title: "Name", Width: 16},
		{Title: "Handle", Width: 12},
		{Title: "ID", Width: 6},
		{Title: "Refs", Width: 5},
	}

	tableWidth := m.width - detailsWidth - 8
	if m.showSidebar() {
		tableWidth -= sidebarWidth + 3
	}
	if extra := tableWidth - 47; extra > 0 {
		columns[0].Width += min(extra, 24)
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(m.height-9, 3)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

func (m Model) showSidebar() bool { return m.width >= minWidthForSidebar }

// current returns the selected manager.
func (m Model) current() app.Inspectable { return m.managers[m.cursor] }

// refresh reloads the entries of the selected manager, keeping the row
// cursor where it was when possible.
func (m *Model) refresh() {
	m.entries = m.current().Entries()

	rows := make([]table.Row, len(m.entries))
	for i, e := range m.entries {
		rows[i] = table.Row{
			e.Name,
			fmt.Sprintf("%d:%d", e.Handle>>16, e.Handle&0xffff),
			e.ID.String(),
			fmt.Sprintf("%d", e.RefCount),
		}
	}
	cur := m.table.Cursor()
	m.table.SetRows(rows)
	m.table.SetCursor(core.Clamp(cur, 0, max(len(rows)-1, 0)))
}

// selected returns the entry under the table cursor.
func (m Model) selected() (resource.Entry, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.entries) {
		return resource.Entry{}, false
	}
	return m.entries[i], true
}

func (m *Model) selectManager(delta int) {
	n := len(m.managers)
	m.cursor = ((m.cursor+delta)%n + n) % n
	m.table.GotoTop()
	m.refresh()
}

func (m *Model) step() {
	m.app.Step(float32(m.app.Config().FrameDuration().Seconds()))
	m.refresh()
}

// Init starts nothing; the scene is paused until live mode is toggled.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the inspector.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Next):
			m.selectManager(1)
			return m, nil

		case key.Matches(msg, m.keys.Prev):
			m.selectManager(-1)
			return m, nil

		case key.Matches(msg, m.keys.Live):
			m.live = !m.live
			if m.live && !m.ticking {
				m.ticking = true
				return m, tickCmd(m.app.Config().TickRate)
			}
			return m, nil

		case key.Matches(msg, m.keys.Step):
			m.step()
			return m, nil

		case key.Matches(msg, m.keys.Screen):
			m.showScreen = !m.showScreen
			return m, nil

		case key.Matches(msg, m.keys.Destroy):
			m.destroySelected()
			return m, nil

		case key.Matches(msg, m.keys.Play):
			m.playSelected()
			return m, nil

		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		}

	case tea.MouseMsg:
		if m.showScreen && msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			m.pick(msg.X, msg.Y-screenTop)
			return m, nil
		}

	case TickMsg:
		if !m.live {
			m.ticking = false
			return m, nil
		}
		m.step()
		return m, tickCmd(m.app.Config().TickRate)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table = m.createTable()
		m.refresh()
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// pick reports the sprite under a screen cell.
func (m *Model) pick(x, y int) {
	h, ok := m.app.Layers().Pick(x, y)
	if !ok {
		m.status = fmt.Sprintf("(%d, %d): empty", x, y)
		return
	}
	m.status = fmt.Sprintf("(%d, %d): sprite %s, refs %d", x, y, h.Name(), h.RefCount())
}

// destroySelected removes the selected game object.
func (m *Model) destroySelected() {
	if m.current().Kind() != "gameobject" {
		m.status = "only game objects can be destroyed here"
		return
	}
	e, ok := m.selected()
	if !ok {
		return
	}
	if err := m.app.Destroy(e.Name); err != nil {
		m.status = err.Error()
	} else {
		m.status = "destroyed " + e.Name
	}
	m.refresh()
}

// playSelected plays the first sound of the selected game object. The
// scene's mixer drains it over the following frames.
func (m *Model) playSelected() {
	if m.current().Kind() != "gameobject" {
		m.status = "only game objects play sounds"
		return
	}
	e, ok := m.selected()
	if !ok {
		return
	}
	if err := m.app.PlaySound(e.Name, ""); err != nil {
		m.status = err.Error()
		return
	}
	m.status = fmt.Sprintf("playing %s (%d in mixer)", e.Name, m.app.Sounds().Playing())
}

// View renders the inspector.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229"))

	state := "paused"
	if m.live {
		state = "live"
	}
	title := fmt.Sprintf("ZENGINE - %s  [%s, frame %d]", m.current().Kind(), state, m.app.Frames())
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n\n")

	if m.showScreen {
		b.WriteString(RenderScreen(m.app.Screen()))
	} else {
		b.WriteString(m.renderBody())
	}

	b.WriteString("\n")
	statusStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	if m.status != "" {
		b.WriteString(statusStyle.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString(statusStyle.Render(m.help.View(m.keys)))

	return b.String()
}

var boxStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("240")).
	Padding(0, 1)

// renderBody lays out sidebar, entry table and property pane.
func (m Model) renderBody() string {
	parts := make([]string, 0, 5)
	if m.showSidebar() {
		parts = append(parts, boxStyle.Width(sidebarWidth).Render(m.renderSidebar()), " ")
	}

	tableContent := m.table.View()
	if len(m.entries) == 0 {
		tableContent = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true).
			Padding(1, 2).
			Render("No live entries.")
	}
	parts = append(parts, boxStyle.Render(tableContent), " ")
	parts = append(parts, boxStyle.Width(detailsWidth).Render(m.renderDetails()))

	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

// renderSidebar lists the managers with their live counts.
func (m Model) renderSidebar() string {
	var sb strings.Builder
	sb.WriteString("Managers\n")
	sb.WriteString(strings.Repeat("-", sidebarWidth-4))
	sb.WriteString("\n")

	for i, mgr := range m.managers {
		cursor := "  "
		style := lipgloss.NewStyle()
		if i == m.cursor {
			cursor = "> "
			style = style.Bold(true).Foreground(lipgloss.Color("229"))
		}
		sb.WriteString(style.Render(fmt.Sprintf("%s%-10s %3d", cursor, mgr.Kind(), mgr.Count())))
		sb.WriteString("\n")
	}
	return sb.String()
}

// renderDetails shows the property values of the selected entry and the
// manager counters.
func (m Model) renderDetails() string {
	var sb strings.Builder
	mgr := m.current()

	if e, ok := m.selected(); ok {
		sb.WriteString(lipgloss.NewStyle().Bold(true).Render(e.Name))
		sb.WriteString("\n")
		vals, err := mgr.Values(e.Handle)
		switch {
		case err != nil:
			sb.WriteString(err.Error())
			sb.WriteString("\n")
		case len(vals) == 0:
			sb.WriteString("(no properties)\n")
		default:
			names := make([]string, 0, len(vals))
			for n := range vals {
				names = append(names, n)
			}
			sort.Strings(names)
			for _, n := range names {
				fmt.Fprintf(&sb, "%-9s %s\n", n, vals[n])
			}
		}
		sb.WriteString("\n")
	}

	st := mgr.Stats()
	fmt.Fprintf(&sb, "live %d  peak %d  slots %d\n", st.Live, st.Peak, st.Slots)
	fmt.Fprintf(&sb, "added %d  removed %d\n", st.Added, st.Removed)
	fmt.Fprintf(&sb, "clones %d  failures %d", st.Clones, st.Failures)
	return sb.String()
}

// IsQuitting returns true if the user asked to leave.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// Run starts the inspector on the local terminal.
func Run(a *app.App, width, height int) error {
	p := tea.NewProgram(
		NewModel(a, width, height),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	_, err := p.Run()
	return err
}
