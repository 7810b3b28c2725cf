// Package tui provides the BubbleTea-based key browser.
package tui

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/jmylchreest/uisync/internal/adapter/output"
	"github.com/jmylchreest/uisync/internal/config"
	"github.com/jmylchreest/uisync/internal/core"
	"github.com/jmylchreest/uisync/internal/engine"
	"github.com/jmylchreest/uisync/internal/model"
	"github.com/jmylchreest/uisync/internal/store"
)

// Mode represents the current UI mode.
type Mode int

const (
	ModeList Mode = iota
	ModeDetail
	ModeSearch
	ModeHelp
)

// Model is the main TUI model.
type Model struct {
	cfg          *config.Config
	snapshotPath string

	mode Mode

	list        list.Model
	viewport    viewport.Model
	searchInput textinput.Model
	help        help.Model

	values      []engine.KeyValue
	writtenAt   time.Time
	frames      int
	selected    *engine.KeyValue
	searchQuery string
	showSystem  bool
	width       int
	height      int
	ready       bool

	keys KeyMap

	statusMsg string
	statusErr bool

	refreshCh <-chan struct{}
}

// valueItem wraps an entry for the list component.
type valueItem struct {
	kv engine.KeyValue
}

func (i valueItem) Title() string {
	return i.kv.Key
}

func (i valueItem) Description() string {
	if i.kv.Value == "" {
		return "(empty)"
	}
	return oneLine(i.kv.Value, 60)
}

func (i valueItem) FilterValue() string {
	return i.kv.Key + " " + i.kv.Value
}

// isSystemKey reports whether key lives under the System item.
func isSystemKey(key string) bool {
	return strings.HasPrefix(key, "System.")
}

// valueDelegate dims System keys.
type valueDelegate struct {
	list.DefaultDelegate
}

func newValueDelegate() valueDelegate {
	return valueDelegate{DefaultDelegate: list.NewDefaultDelegate()}
}

// Render renders a list item, dimmed for System keys.
func (d valueDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	vi, ok := item.(valueItem)
	if !ok {
		d.DefaultDelegate.Render(w, m, index, item)
		return
	}

	isSelected := index == m.Index()
	reserved := isSystemKey(vi.kv.Key)
	itemWidth := m.Width() - d.DefaultDelegate.Styles.NormalTitle.GetHorizontalPadding()

	titleStyle := d.DefaultDelegate.Styles.NormalTitle
	descStyle := d.DefaultDelegate.Styles.NormalDesc
	if isSelected {
		titleStyle = d.DefaultDelegate.Styles.SelectedTitle
		descStyle = d.DefaultDelegate.Styles.SelectedDesc
	}
	if reserved {
		titleStyle = titleStyle.Foreground(lipgloss.Color("8"))
		descStyle = descStyle.Foreground(lipgloss.Color("8"))
	}

	title := vi.Title()
	if itemWidth > 1 && len(title) > itemWidth {
		title = title[:itemWidth-1] + "…"
	}
	desc := vi.Description()
	if itemWidth > 1 && len(desc) > itemWidth {
		desc = desc[:itemWidth-1] + "…"
	}

	fmt.Fprint(w, titleStyle.Render(title))
	fmt.Fprint(w, "\n")
	fmt.Fprint(w, descStyle.Render(desc))
}

// New creates a new TUI model reading the snapshot at snapshotPath.
func New(cfg *config.Config, snapshotPath string) Model {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	l := list.New(nil, newValueDelegate(), 0, 0)
	l.Title = "uisync values"
	l.SetShowStatusBar(true)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()

	searchInput := textinput.New()
	searchInput.Placeholder = "Search or filter (item=Inv,attr~Z)..."
	searchInput.CharLimit = 200

	return Model{
		cfg:          cfg,
		snapshotPath: snapshotPath,
		mode:         ModeList,
		list:         l,
		searchInput:  searchInput,
		help:         help.New(),
		keys:         DefaultKeyMap(),
	}
}

// Init initializes the TUI.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadValues, m.watchForChanges)
}

type valuesLoadedMsg struct {
	values    []engine.KeyValue
	writtenAt time.Time
	frames    int
	err       error
}

// loadValues reads the snapshot from disk.
func (m Model) loadValues() tea.Msg {
	snap, err := store.LoadSnapshot(m.snapshotPath)
	if err != nil {
		return valuesLoadedMsg{err: err}
	}
	return valuesLoadedMsg{values: snap.Values, writtenAt: snap.Time(), frames: snap.Frames}
}

// watchForChanges waits for the next snapshot write.
func (m Model) watchForChanges() tea.Msg {
	if m.refreshCh == nil {
		return nil
	}
	if _, ok := <-m.refreshCh; !ok {
		return nil
	}
	return refreshMsg{}
}

type refreshMsg struct{}

type statusMsg struct {
	text  string
	isErr bool
}

type clearStatusMsg struct{}

type copyResultMsg struct {
	err error
}

func status(text string, isErr bool) tea.Cmd {
	return func() tea.Msg { return statusMsg{text: text, isErr: isErr} }
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.list.SetSize(msg.Width, msg.Height-2)
		m.viewport = viewport.New(msg.Width, msg.Height-4)
		m.viewport.YPosition = 2
		return m, nil

	case valuesLoadedMsg:
		if msg.err != nil {
			return m, status("Load failed: "+msg.err.Error(), true)
		}
		m.setValues(msg.values, msg.writtenAt, msg.frames)
		return m, nil

	case refreshMsg:
		return m, tea.Batch(m.loadValues, m.watchForChanges)

	case statusMsg:
		m.statusMsg = msg.text
		m.statusErr = msg.isErr
		return m, tea.Tick(3*time.Second, func(time.Time) tea.Msg {
			return clearStatusMsg{}
		})

	case clearStatusMsg:
		m.statusMsg = ""
		m.statusErr = false
		return m, nil

	case copyResultMsg:
		if msg.err != nil {
			return m, status("Copy failed: "+msg.err.Error(), true)
		}
		return m, status("Copied to clipboard", false)
	}

	var cmd tea.Cmd
	switch m.mode {
	case ModeList:
		m.list, cmd = m.list.Update(msg)
	case ModeDetail:
		m.viewport, cmd = m.viewport.Update(msg)
	case ModeSearch:
		m.searchInput, cmd = m.searchInput.Update(msg)
	}
	return m, cmd
}

func (m *Model) setValues(values []engine.KeyValue, writtenAt time.Time, frames int) {
	m.values = values
	m.writtenAt = writtenAt
	m.frames = frames
	m.list.SetItems(m.buildListItems())
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Typing in the search box must not trigger global keys.
	if m.mode != ModeSearch {
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			if m.mode == ModeHelp {
				m.mode = ModeList
			} else {
				m.mode = ModeHelp
			}
			return m, nil
		}
	} else if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	switch m.mode {
	case ModeList:
		return m.handleListKey(msg)
	case ModeDetail:
		return m.handleDetailKey(msg)
	case ModeSearch:
		return m.handleSearchKey(msg)
	case ModeHelp:
		if key.Matches(msg, m.keys.Back) {
			m.mode = ModeList
		}
		return m, nil
	}
	return m, nil
}

func (m Model) selectedValue() (engine.KeyValue, bool) {
	item, ok := m.list.SelectedItem().(valueItem)
	return item.kv, ok
}

func (m Model) openDetail(kv engine.KeyValue) Model {
	m.selected = &kv
	m.mode = ModeDetail
	m.viewport.SetContent(m.renderDetail(kv))
	m.viewport.GotoTop()
	return m
}

func (m Model) startSearch() (Model, tea.Cmd) {
	m.selected = nil
	m.searchInput.SetValue("")
	m.searchQuery = ""
	m.list.SetItems(m.buildListItems())
	m.mode = ModeSearch
	m.searchInput.Focus()
	return m, textinput.Blink
}

func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Enter):
		if kv, ok := m.selectedValue(); ok {
			return m.openDetail(kv), nil
		}
		return m, nil

	case key.Matches(msg, m.keys.Copy):
		if kv, ok := m.selectedValue(); ok {
			return m, m.copyToClipboard(kv.Value)
		}
		return m, nil

	case key.Matches(msg, m.keys.CopyKey):
		if kv, ok := m.selectedValue(); ok {
			return m, m.copyToClipboard(kv.Key)
		}
		return m, nil

	case key.Matches(msg, m.keys.CopyAllJSON):
		data, err := json.MarshalIndent(m.visibleValues(), "", "  ")
		if err != nil {
			return m, status("Failed to marshal JSON: "+err.Error(), true)
		}
		return m, m.copyToClipboard(string(data))

	case key.Matches(msg, m.keys.CopyAllYAML):
		data, err := output.Marshal(m.visibleValues())
		if err != nil {
			return m, status("Failed to marshal YAML: "+err.Error(), true)
		}
		return m, m.copyToClipboard(data)

	case key.Matches(msg, m.keys.ToggleSystem):
		m.showSystem = !m.showSystem
		m.list.SetItems(m.buildListItems())
		if m.showSystem {
			return m, status("Showing System keys", false)
		}
		return m, status("Hiding System keys", false)

	case key.Matches(msg, m.keys.Search):
		return m.startSearch()

	case key.Matches(msg, m.keys.Refresh):
		return m, m.loadValues
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.mode = ModeList
		m.selected = nil
		return m, nil

	case key.Matches(msg, m.keys.Copy):
		if m.selected != nil {
			return m, m.copyToClipboard(m.selected.Value)
		}
		return m, nil

	case key.Matches(msg, m.keys.CopyKey):
		if m.selected != nil {
			return m, m.copyToClipboard(m.selected.Key)
		}
		return m, nil

	case key.Matches(msg, m.keys.Search):
		return m.startSearch()
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = ModeList
		m.searchInput.Blur()
		m.searchInput.SetValue("")
		m.searchQuery = ""
		m.list.SetItems(m.buildListItems())
		return m, nil

	case tea.KeyEnter:
		if kv, ok := m.selectedValue(); ok {
			m.searchInput.Blur()
			return m.openDetail(kv), nil
		}
		return m, nil

	case tea.KeyUp, tea.KeyDown:
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)

	// Live filtering on each keystroke.
	m.searchQuery = m.searchInput.Value()
	m.list.SetItems(m.buildListItems())

	return m, cmd
}

// visibleValues returns the entries currently listed.
func (m Model) visibleValues() []engine.KeyValue {
	items := m.list.Items()
	out := make([]engine.KeyValue, 0, len(items))
	for _, item := range items {
		if vi, ok := item.(valueItem); ok {
			out = append(out, vi.kv)
		}
	}
	return out
}

// buildListItems applies the System toggle and the search query.
func (m Model) buildListItems() []list.Item {
	values := m.values

	if !m.showSystem {
		visible := make([]engine.KeyValue, 0, len(values))
		for _, kv := range values {
			if !isSystemKey(kv.Key) {
				visible = append(visible, kv)
			}
		}
		values = visible
	}

	if m.searchQuery != "" {
		values = core.Query(values, m.searchQuery)
	}

	items := make([]list.Item, len(values))
	for i, kv := range values {
		items[i] = valueItem{kv: kv}
	}
	return items
}

// renderDetail renders the detail view for an entry.
func (m Model) renderDetail(kv engine.KeyValue) string {
	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("12"))
	labelStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("8"))

	var sb strings.Builder
	sb.WriteString(headerStyle.Render(kv.Key) + "\n\n")

	item, attr := core.SplitKey(kv.Key)
	if item != "" {
		sb.WriteString(labelStyle.Render("Item: ") + item + "\n")
	}
	sb.WriteString(labelStyle.Render("Attribute: ") + attr + "\n")
	if model.IsReservedKey(kv.Key) {
		sb.WriteString(labelStyle.Render("Reserved: ") + "yes\n")
	}
	if !m.writtenAt.IsZero() {
		sb.WriteString(labelStyle.Render("Snapshot: ") + humanize.Time(m.writtenAt) +
			fmt.Sprintf(" (%s frames)", humanize.Comma(int64(m.frames))) + "\n")
	}

	sb.WriteString("\n" + labelStyle.Render("Value:") + "\n")
	sb.WriteString(kv.Value + "\n")

	sep := m.cfg.Engine.ListSeparator
	if sep != "" && strings.Contains(kv.Value, sep) {
		parts := strings.Split(kv.Value, sep)
		sb.WriteString("\n" + labelStyle.Render(fmt.Sprintf("List (%d):", len(parts))) + "\n")
		for i, p := range parts {
			fmt.Fprintf(&sb, "  %d. %s\n", i+1, p)
		}
	}

	return sb.String()
}

func (m Model) copyToClipboard(text string) tea.Cmd {
	command := m.cfg.TUI.ClipboardCommand
	return func() tea.Msg {
		return copyResultMsg{err: copyText(text, command)}
	}
}

// View renders the TUI.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	switch m.mode {
	case ModeList:
		return m.viewList()
	case ModeDetail:
		return m.viewDetail()
	case ModeSearch:
		return m.viewSearch()
	case ModeHelp:
		return m.viewHelp()
	default:
		return ""
	}
}

func (m Model) footer(mode Mode) string {
	if m.statusMsg != "" {
		statusStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
		if m.statusErr {
			statusStyle = statusStyle.Foreground(lipgloss.Color("9"))
		}
		return statusStyle.Render(m.statusMsg)
	}
	if !m.cfg.TUI.ShowHelp {
		return ""
	}
	return m.buildKeybindBar(m.width, mode)
}

func (m Model) viewList() string {
	return m.list.View() + "\n" + m.footer(ModeList)
}

func (m Model) viewDetail() string {
	header := lipgloss.NewStyle().Bold(true).Padding(0, 1).Render("Value Detail")
	return header + "\n" + m.viewport.View() + "\n" + m.footer(ModeDetail)
}

func (m Model) viewSearch() string {
	countStr := fmt.Sprintf("(%d matches)", len(m.list.Items()))
	if core.IsFilterExpression(m.searchQuery) {
		countStr = "filter " + countStr
	}
	searchBar := "Search: " + m.searchInput.View() + " " +
		lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render(countStr)

	return searchBar + "\n" + m.list.View() + "\n" + m.footer(ModeSearch)
}

func (m Model) viewHelp() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("12")).
		MarginBottom(1)
	sectionStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Keyboard Shortcuts") + "\n\n")

	sections := []string{"Navigation", "Actions", "Export", "General"}
	for i, group := range m.keys.FullHelp() {
		sb.WriteString(sectionStyle.Render(sections[i]) + "\n")
		sb.WriteString(m.help.FullHelpView([][]key.Binding{group}) + "\n\n")
	}

	sb.WriteString(sectionStyle.Render("Search") + "\n")
	sb.WriteString("  Plain text matches keys and values. Expressions filter on\n")
	sb.WriteString("  key, value, item, attr and num, e.g. item=Inv,num>=100\n\n")

	sb.WriteString(sectionStyle.Render("Press ? or esc to return"))
	return sb.String()
}

// buildKeybindBar renders the mode's bindings in order, dropping the
// trailing ones that do not fit within width. Zero width means no limit.
func (m Model) buildKeybindBar(width int, mode Mode) string {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	keyStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("10"))

	const separator = "  "
	used := 0
	var sb strings.Builder
	for _, b := range m.keys.forMode(mode) {
		h := b.Help()
		n := lipgloss.Width(h.Key + " " + h.Desc)
		if used > 0 {
			n += len(separator)
		}
		if width > 0 && used+n > width {
			break
		}
		if used > 0 {
			sb.WriteString(separator)
		}
		used += n
		sb.WriteString(keyStyle.Render(h.Key) + " " + h.Desc)
	}

	return style.Render(sb.String())
}

// oneLine flattens v for single-line display and truncates it to maxLen.
func oneLine(v string, maxLen int) string {
	v = strings.ReplaceAll(v, "\r", "")
	v = strings.ReplaceAll(v, "\n", " ")
	if maxLen > 3 && len(v) > maxLen {
		return v[:maxLen-3] + "..."
	}
	return v
}

// RunOptions configures the TUI.
type RunOptions struct {
	Config       *config.Config
	SnapshotPath string
	Watch        bool // refresh when the snapshot file changes
	Logger       *slog.Logger
}

// Run starts the TUI with the given options.
func Run(opts RunOptions) error {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	m := New(opts.Config, opts.SnapshotPath)

	var watcher *store.FileWatcher
	if opts.Watch && opts.SnapshotPath != "" {
		ch := make(chan struct{}, 1)
		w, err := store.NewFileWatcher(opts.SnapshotPath, func() {
			select {
			case ch <- struct{}{}:
			default:
			}
		}, logger)
		if err != nil {
			logger.Warn("failed to create file watcher", "error", err)
		} else if err := w.Start(); err != nil {
			logger.Warn("failed to start file watcher", "error", err)
		} else {
			watcher = w
			m.refreshCh = ch
		}
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()

	if watcher != nil {
		watcher.Stop()
	}
	return err
}
