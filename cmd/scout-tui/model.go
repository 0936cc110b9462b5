package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bytedance/sonic"

	"github.com/scoutly/creatorscout/pkg/facets"
	"github.com/scoutly/creatorscout/pkg/session"
	"github.com/scoutly/creatorscout/pkg/suggest"
	"github.com/scoutly/creatorscout/pkg/types"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	facetStyle    = lipgloss.NewStyle().PaddingLeft(2)
	selectedStyle = lipgloss.NewStyle().PaddingLeft(0).Foreground(lipgloss.Color("170")).SetString("> ")
	chipStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("36"))
	pendingStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	errStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	panelStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).MarginTop(1)
)

// tickMsg polls session state the background goroutines mutate (debounced
// suggestion fetches, search completions).
type tickMsg struct{}

func tick() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}

type model struct {
	session *session.Session
	keys    []types.FacetKey

	cursor      int
	input       textinput.Model
	spin        spinner.Model
	suggestions []suggest.Suggestion
	sugCursor   int
	fetchErr    error
	width       int
	height      int
}

func newModel(s *session.Session) model {
	ti := textinput.New()
	ti.Placeholder = "type to search"
	ti.CharLimit = 64

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return model{
		session: s,
		keys:    s.Registry.Keys(),
		input:   ti,
		spin:    sp,
	}
}

func (m model) Init() tea.Cmd {
	m.session.Driver.Refresh()
	return tea.Batch(tick(), m.spin.Tick)
}

func (m model) currentKey() types.FacetKey {
	return m.keys[m.cursor]
}

func (m model) panelOpen() bool {
	return m.session.Panels.Open() != ""
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tickMsg:
		if m.panelOpen() {
			if c, ok := m.session.Controller(m.session.Panels.Open()); ok {
				m.suggestions, m.fetchErr = c.Suggestions()
				if m.sugCursor >= len(m.suggestions) {
					m.sugCursor = 0
				}
			}
		}
		return m, tick()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	if m.panelOpen() {
		return m.handlePanelKey(msg)
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.keys)-1 {
			m.cursor++
		}
	case "enter", " ":
		m.openPanel()
	case "backspace", "d":
		if c, ok := m.session.Controller(m.currentKey()); ok {
			c.ClearFacet()
		}
	case "a":
		m.session.Coordinator.Apply()
	case "c":
		m.session.Coordinator.Cancel()
	case "x":
		m.session.Coordinator.Clear()
	case "left", "h":
		if page := m.session.Driver.View().Page; page > 1 {
			m.session.Driver.SetPage(page - 1)
		}
	case "right", "l":
		m.session.Driver.SetPage(m.session.Driver.View().Page + 1)
	case "s":
		view := m.session.Driver.View()
		sort := view.Sort
		if sort.Direction == types.SortDesc {
			sort.Direction = types.SortAsc
		} else {
			sort.Direction = types.SortDesc
		}
		m.session.Driver.SetSort(sort)
	}
	return m, nil
}

func (m *model) openPanel() {
	key := m.currentKey()
	m.session.Panels.Toggle(key)
	m.suggestions = nil
	m.sugCursor = 0
	m.fetchErr = nil
	m.input.SetValue("")
	m.input.Focus()
}

func (m *model) closePanel() {
	m.session.Panels.CloseAll()
	m.suggestions = nil
	m.sugCursor = 0
	m.fetchErr = nil
	m.input.Blur()
	m.input.SetValue("")
}

func (m model) handlePanelKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := m.session.Panels.Open()
	c, ok := m.session.Controller(key)
	if !ok {
		m.closePanel()
		return m, nil
	}
	desc := c.Descriptor()

	switch msg.Type {
	case tea.KeyEsc:
		c.Reset()
		m.closePanel()
		return m, nil
	case tea.KeyUp:
		if m.sugCursor > 0 {
			m.sugCursor--
		}
		return m, nil
	case tea.KeyDown:
		if m.sugCursor < len(m.suggestions)-1 {
			m.sugCursor++
		}
		return m, nil
	case tea.KeyEnter:
		if desc.Async && len(m.suggestions) > 0 {
			c.SelectSuggestion(m.suggestions[m.sugCursor])
		} else {
			m.commitScalar(c, m.input.Value())
		}
		m.closePanel()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if desc.Async {
		c.OnInput(m.input.Value())
	}
	return m, cmd
}

// commitScalar parses panel input for facets without remote suggestions.
// Ranges accept "low-high" with either side open; weighted facets accept
// "code" or "code:weight"; an empty weighted input selects Any.
func (m *model) commitScalar(c *facets.Controller, raw string) {
	raw = strings.TrimSpace(raw)
	switch c.Descriptor().Kind {
	case types.KindRange:
		low, high := parseRange(raw)
		if low != nil || high != nil {
			c.SetRange(low, high)
		}
	case types.KindWeightedCode:
		if raw == "" {
			c.SetAny()
			return
		}
		code, weight := raw, 0.0
		if i := strings.IndexByte(raw, ':'); i >= 0 {
			code = raw[:i]
			weight, _ = strconv.ParseFloat(raw[i+1:], 64)
		}
		c.SetWeighted(strings.ToUpper(code), weight)
	case types.KindTimestamp:
		if ts, err := strconv.ParseInt(raw, 10, 64); err == nil {
			c.SetTimestamp(ts)
		}
	case types.KindText:
		if raw != "" {
			c.SetText(raw)
		}
	case types.KindStringSet:
		if raw != "" {
			c.AddValue(raw)
		}
	}
}

func parseRange(raw string) (low, high *float64) {
	parts := strings.SplitN(raw, "-", 2)
	if v, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64); err == nil {
		low = &v
	}
	if len(parts) == 2 {
		if v, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64); err == nil {
			high = &v
		}
	}
	return low, high
}

func (m model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("creatorscout"))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, m.facetList(), "  ", m.rightPane()))
	b.WriteString(helpStyle.Render("\nenter open  a apply  c cancel  x clear  d unset  h/l page  s sort  q quit"))
	return b.String()
}

func (m model) facetList() string {
	display := m.session.Coordinator.Display()
	pending := m.session.Coordinator.Pending()
	chips := m.session.ResolveChips(display)

	var b strings.Builder
	for i, key := range m.keys {
		desc, _ := m.session.Registry.Get(key)
		line := desc.Label
		if value, ok := display[key]; ok {
			line += " " + chipStyle.Render(summarize(key, value, chips))
		}
		if _, ok := pending[key]; ok {
			line += pendingStyle.Render(" *")
		}
		if i == m.cursor {
			b.WriteString(selectedStyle.Render("") + line)
		} else {
			b.WriteString(facetStyle.Render(line))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func (m model) rightPane() string {
	if m.panelOpen() {
		return panelStyle.Render(m.panelView())
	}
	return panelStyle.Render(m.resultsView())
}

func (m model) panelView() string {
	key := m.session.Panels.Open()
	desc, _ := m.session.Registry.Get(key)

	var b strings.Builder
	b.WriteString(titleStyle.Render(desc.Label))
	b.WriteByte('\n')
	b.WriteString(m.input.View())
	b.WriteByte('\n')
	if m.fetchErr != nil {
		b.WriteString(errStyle.Render("suggestions unavailable: " + m.fetchErr.Error()))
		b.WriteByte('\n')
	}
	for i, item := range m.suggestions {
		label := item.Label
		if label == "" {
			label = item.Name
		}
		if i == m.sugCursor {
			b.WriteString(selectedStyle.Render("") + label)
		} else {
			b.WriteString(facetStyle.Render(label))
		}
		b.WriteByte('\n')
	}
	if desc.Async && len(m.suggestions) == 0 && m.fetchErr == nil && len(m.input.Value()) >= desc.MinQueryLength {
		b.WriteString(dimStyle.Render(m.spin.View() + " searching"))
	}
	return b.String()
}

func (m model) resultsView() string {
	view := m.session.Driver.View()

	var b strings.Builder
	header := fmt.Sprintf("%d creators  page %d", view.TotalCount, view.Page)
	if view.Loading {
		header = m.spin.View() + " " + header
	}
	b.WriteString(titleStyle.Render(header))
	b.WriteByte('\n')
	if view.Error != "" {
		b.WriteString(errStyle.Render("search failed, showing last results"))
		b.WriteByte('\n')
	}
	for _, item := range view.Items {
		b.WriteString(facetStyle.Render(itemName(item)))
		b.WriteByte('\n')
	}
	if len(view.Items) == 0 {
		b.WriteString(dimStyle.Render("no results"))
	}
	return b.String()
}

func summarize(key types.FacetKey, value types.FacetValue, chips map[types.FacetKey][]string) string {
	if labels, ok := chips[key]; ok {
		return strings.Join(labels, ", ")
	}
	switch v := value.(type) {
	case types.Range:
		return formatRange(v)
	case types.WeightedCode:
		if v.Code == "" {
			return "any"
		}
		if v.Weight > 0 {
			return fmt.Sprintf("%s >%.0f%%", v.Code, v.Weight*100)
		}
		return v.Code
	case types.StringSet:
		return strings.Join(v, ", ")
	case types.HashtagSet:
		names := make([]string, 0, len(v))
		for _, h := range v {
			names = append(names, "#"+h.Name)
		}
		return strings.Join(names, ", ")
	case types.Text:
		return string(v)
	case types.Timestamp:
		return time.Unix(int64(v), 0).Format("2006-01-02")
	}
	return ""
}

func formatRange(r types.Range) string {
	switch {
	case r.Low != nil && r.High != nil:
		return fmt.Sprintf("%.0f-%.0f", *r.Low, *r.High)
	case r.Low != nil:
		return fmt.Sprintf(">%.0f", *r.Low)
	case r.High != nil:
		return fmt.Sprintf("<%.0f", *r.High)
	}
	return ""
}

func itemName(raw []byte) string {
	// Result items are opaque JSON from the search service; show the name
	// field when present.
	var item struct {
		Name     string `json:"name"`
		Username string `json:"username"`
	}
	if err := sonic.Unmarshal(raw, &item); err == nil {
		if item.Name != "" {
			return item.Name
		}
		if item.Username != "" {
			return "@" + item.Username
		}
	}
	return string(raw)
}
