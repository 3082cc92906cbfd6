package tui

import (
	"context"
	"fmt"
	"strings"

	"baneslab/guildkeys/internal/domain"
	"baneslab/guildkeys/internal/keys"
	"baneslab/guildkeys/internal/tui/components"
	"baneslab/guildkeys/internal/tui/styles"
	"baneslab/guildkeys/internal/util"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// EntityBrowser is the registry surface used by the key browser.
type EntityBrowser interface {
	List(ctx context.Context, t keys.EntityType) ([]domain.GuildEntity, error)
	Delete(ctx context.Context, t keys.EntityType, keyOrID string) (*domain.GuildEntity, error)
}

// --- Messages ---

type entitiesLoadedMsg struct {
	entityType keys.EntityType
	entities   []domain.GuildEntity
}

type entitiesErrorMsg struct {
	err error
}

type entityDeletedMsg struct {
	entity *domain.GuildEntity
}

type entityDeleteErrorMsg struct {
	err error
}

// --- Browser model ---

type keyBrowseModel struct {
	ctx     context.Context
	service EntityBrowser
	source  string

	tab       int
	entities  []domain.GuildEntity
	filtered  []domain.GuildEntity
	cursor    int
	listStart int

	filtering bool
	filter    textinput.Model

	confirming bool

	width  int
	height int

	loading       bool
	spinner       spinner.Model
	err           error
	status        string
	statusIsError bool
}

func newKeyBrowseModel(ctx context.Context, svc EntityBrowser, start keys.EntityType, source string) keyBrowseModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(styles.Blurple)

	ti := textinput.New()
	ti.Placeholder = "filter by name or key"
	ti.Prompt = "/ "
	ti.Width = 30

	tab := 0
	for i, t := range keys.AllTypes {
		if t == start {
			tab = i
		}
	}

	return keyBrowseModel{
		ctx:     ctx,
		service: svc,
		source:  source,
		tab:     tab,
		filter:  ti,
		loading: true,
		spinner: s,
	}
}

// RunKeyBrowser starts the interactive key browser on the tab for start.
// source is shown in the header, typically the database file name.
func RunKeyBrowser(ctx context.Context, svc EntityBrowser, start keys.EntityType, source string) error {
	m := newKeyBrowseModel(ctx, svc, start, source)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

func (m keyBrowseModel) entityType() keys.EntityType {
	return keys.AllTypes[m.tab]
}

func (m keyBrowseModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.loadCmd())
}

func (m keyBrowseModel) loadCmd() tea.Cmd {
	t := m.entityType()
	return func() tea.Msg {
		entities, err := m.service.List(m.ctx, t)
		if err != nil {
			return entitiesErrorMsg{err}
		}
		return entitiesLoadedMsg{entityType: t, entities: entities}
	}
}

func (m keyBrowseModel) deleteCmd(e domain.GuildEntity) tea.Cmd {
	return func() tea.Msg {
		removed, err := m.service.Delete(m.ctx, e.Type, e.ID)
		if err != nil {
			return entityDeleteErrorMsg{err}
		}
		return entityDeletedMsg{removed}
	}
}

// applyFilter narrows entities to those whose name or key loosely
// contains the filter text.
func (m *keyBrowseModel) applyFilter() {
	query := util.LooseMatch(m.filter.Value())
	m.filtered = make([]domain.GuildEntity, 0, len(m.entities))
	for _, e := range m.entities {
		if query == "" ||
			strings.Contains(util.LooseMatch(e.Name), query) ||
			strings.Contains(util.LooseMatch(e.Key), query) {
			m.filtered = append(m.filtered, e)
		}
	}
	if m.cursor >= len(m.filtered) {
		m.cursor = max(len(m.filtered)-1, 0)
	}
	if m.listStart >= len(m.filtered) {
		m.listStart = 0
	}
}

func (m keyBrowseModel) selected() (domain.GuildEntity, bool) {
	if len(m.filtered) == 0 {
		return domain.GuildEntity{}, false
	}
	return m.filtered[m.cursor], true
}

func (m keyBrowseModel) switchTab(delta int) (tea.Model, tea.Cmd) {
	n := len(keys.AllTypes)
	m.tab = (m.tab + delta + n) % n
	m.cursor = 0
	m.listStart = 0
	m.entities = nil
	m.filtered = nil
	m.loading = true
	m.err = nil
	m.status = ""
	return m, tea.Batch(m.spinner.Tick, m.loadCmd())
}

func (m keyBrowseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case entitiesLoadedMsg:
		if msg.entityType != m.entityType() {
			return m, nil
		}
		m.loading = false
		m.entities = msg.entities
		m.applyFilter()
		if !m.statusIsError && m.status == "" {
			m.status = fmt.Sprintf("Loaded %d %s keys.", len(m.entities), msg.entityType)
		}
		return m, nil

	case entitiesErrorMsg:
		m.loading = false
		m.err = msg.err
		m.status = msg.err.Error()
		m.statusIsError = true
		return m, nil

	case entityDeletedMsg:
		m.status = "Deleted " + msg.entity.Key
		m.statusIsError = false
		m.loading = true
		return m, m.loadCmd()

	case entityDeleteErrorMsg:
		m.status = "Error: " + msg.err.Error()
		m.statusIsError = true
		return m, nil

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	}

	if m.filtering {
		var cmd tea.Cmd
		m.filter, cmd = m.filter.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m keyBrowseModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	if m.confirming {
		return m.handleConfirmKey(msg)
	}
	if m.filtering {
		return m.handleFilterKey(msg)
	}

	switch msg.String() {
	case "q", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.filtered)-1 {
			m.cursor++
		}
	case "tab", "right", "l":
		return m.switchTab(1)
	case "shift+tab", "left", "h":
		return m.switchTab(-1)
	case "/":
		m.filtering = true
		m.filter.Focus()
		return m, textinput.Blink
	case "r":
		m.loading = true
		m.err = nil
		m.status = ""
		m.statusIsError = false
		return m, tea.Batch(m.spinner.Tick, m.loadCmd())
	case "d":
		if _, ok := m.selected(); ok {
			m.confirming = true
		}
	}
	return m, nil
}

func (m keyBrowseModel) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.filter.SetValue("")
		m.filter.Blur()
		m.filtering = false
		m.applyFilter()
		return m, nil
	case "enter":
		m.filter.Blur()
		m.filtering = false
		return m, nil
	}

	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.applyFilter()
	return m, cmd
}

func (m keyBrowseModel) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y":
		m.confirming = false
		e, ok := m.selected()
		if !ok {
			return m, nil
		}
		return m, m.deleteCmd(e)
	case "n", "esc":
		m.confirming = false
	}
	return m, nil
}

func (m keyBrowseModel) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	header := components.Header(m.width, "key browse", m.source)

	var bindings []components.KeyBinding
	switch {
	case m.confirming:
		bindings = []components.KeyBinding{
			{Key: "y", Desc: "delete"},
			{Key: "n", Desc: "cancel"},
		}
	case m.filtering:
		bindings = []components.KeyBinding{
			{Key: "enter", Desc: "apply"},
			{Key: "esc", Desc: "clear"},
		}
	default:
		bindings = []components.KeyBinding{
			{Key: "j/k", Desc: "nav"},
			{Key: "tab", Desc: "type"},
			{Key: "/", Desc: "filter"},
			{Key: "d", Desc: "delete"},
			{Key: "r", Desc: "reload"},
			{Key: "q", Desc: "quit"},
		}
	}
	footer := components.Footer(m.width, bindings)
	statusBar := components.StatusBar(m.width, m.status, m.statusIsError)

	contentH := m.height - lipgloss.Height(header) - lipgloss.Height(footer) - lipgloss.Height(statusBar)
	if contentH < 1 {
		contentH = 1
	}

	var content string
	switch {
	case m.loading:
		content = fmt.Sprintf("\n  %s Loading %s keys...", m.spinner.View(), m.entityType())
	case m.err != nil:
		content = fmt.Sprintf("\n  %s", styles.ErrorText.Render(m.err.Error()))
	default:
		content = m.renderBody(contentH - 2)
	}
	content = m.renderTabs() + "\n" + m.renderFilterBar() + "\n" + content

	if lines := lipgloss.Height(content); lines < contentH {
		content += lipgloss.NewStyle().Height(contentH - lines).Render("")
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar, footer)
}

func (m keyBrowseModel) renderTabs() string {
	tabs := make([]string, len(keys.AllTypes))
	for i, t := range keys.AllTypes {
		if i == m.tab {
			tabs[i] = styles.TabActive.Render(string(t))
		} else {
			tabs[i] = styles.Tab.Render(string(t))
		}
	}
	return "  " + lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m keyBrowseModel) renderFilterBar() string {
	if m.filtering {
		return "  " + m.filter.View()
	}
	if v := m.filter.Value(); v != "" {
		return "  " + styles.MutedText.Render("filter: ") + styles.AccentText.Render(v)
	}
	return ""
}

func (m keyBrowseModel) renderBody(height int) string {
	if len(m.entities) == 0 {
		return "\n  " + styles.MutedText.Render(fmt.Sprintf("No %s keys stored. Run `guildkeys sync` first.", m.entityType()))
	}
	if len(m.filtered) == 0 {
		return "\n  No keys match the current filter."
	}

	table := m.renderTable(height)
	e, _ := m.selected()
	detail := m.renderDetail(e)
	return lipgloss.JoinHorizontal(lipgloss.Top, table, "  ", detail)
}

func (m *keyBrowseModel) renderTable(height int) string {
	cols := []int{keys.MaxKeyLength, 24}

	rows := []string{styles.TableHeader.Render(
		fmt.Sprintf("  %-*s %-*s", cols[0], "KEY", cols[1], "NAME"),
	)}

	visible := max(height-1, 1)
	if m.cursor < m.listStart {
		m.listStart = m.cursor
	} else if m.cursor >= m.listStart+visible {
		m.listStart = m.cursor - visible + 1
	}
	end := min(m.listStart+visible, len(m.filtered))

	for i := m.listStart; i < end; i++ {
		e := m.filtered[i]

		cursor := " "
		rowStyle := styles.TableCell
		if i == m.cursor {
			cursor = styles.AccentText.Render(">")
			rowStyle = styles.TableSelectedRow
		}

		rows = append(rows, rowStyle.Render(fmt.Sprintf("%s %-*s %-*s",
			cursor,
			cols[0], e.Key,
			cols[1], truncate(e.Name, cols[1]),
		)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m keyBrowseModel) renderDetail(e domain.GuildEntity) string {
	labelWidth := 10
	field := func(label, value string) string {
		return styles.Label.Width(labelWidth).Render(label) + styles.Value.Render(value)
	}

	fields := []string{
		styles.TypeBadge(string(e.Type)) + "  " + styles.Title.Render(displayName(e)),
		"",
		field("Key", e.Key),
		field("ID", e.ID),
		field("Name", e.Name),
	}
	for _, kv := range detailFields(e) {
		fields = append(fields, field(kv[0], kv[1]))
	}

	if m.confirming {
		fields = append(fields, "", styles.WarningText.Render("Delete "+e.Key+"? (y/n)"))
	}

	border := styles.TypeColor(string(e.Type))
	if m.confirming {
		border = styles.Red
	}
	return styles.Card.BorderForeground(border).Width(48).Render(strings.Join(fields, "\n"))
}

// displayName turns the key back into a readable title.
func displayName(e domain.GuildEntity) string {
	fragment := strings.TrimPrefix(strings.TrimPrefix(e.Key, string(e.Type)), "_")
	if fragment == "" {
		return e.Name
	}
	return util.Capitalize(fragment)
}

// detailFields returns the type-specific label/value pairs shown in the
// detail card. Empty values are omitted.
func detailFields(e domain.GuildEntity) [][2]string {
	var out [][2]string
	add := func(label, value string) {
		if value != "" {
			out = append(out, [2]string{label, value})
		}
	}

	switch e.Type {
	case keys.Emoji:
		add("Format", e.Format)
		if e.Animated {
			add("Animated", "yes")
		}
	case keys.Channel:
		add("Category", e.Category)
		add("Type", fmt.Sprint(e.ChannelType))
	case keys.Role:
		add("Color", fmt.Sprintf("#%06X", e.Color))
		add("Perms", e.Permissions)
	case keys.Webhook:
		add("Channel", e.ChannelID)
		add("URL", e.URL)
	}
	return out
}

func truncate(s string, width int) string {
	return ansi.Truncate(s, width, "…")
}
