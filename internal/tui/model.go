package tui

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/idilsaglam/wt/internal/category"
	"github.com/idilsaglam/wt/internal/model"
	"github.com/idilsaglam/wt/internal/todo"
	"github.com/idilsaglam/wt/internal/ui"
)

// listItem adapts a stored entry to bubbles/list.Item
type listItem struct {
	key  string
	text string
}

func (i listItem) Title() string       { return i.text }
func (i listItem) Description() string { return "" }
func (i listItem) FilterValue() string { return i.text }

// Custom delegate to control how items render (single line)
type itemDelegate struct{}

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, _ := item.(listItem)
	t := ui.Current()
	line := fmt.Sprintf("%s %s", t.Muted.Render(t.Bullet), ui.Truncate(it.text, 200))
	prefix := "  "
	if index == m.Index() {
		prefix = t.Selected.Render(t.Cursor)
	}
	fmt.Fprint(w, prefix+line)
}

// persistedMsg carries the result of a scheduled write.
type persistedMsg struct {
	op  string
	err error
}

// storageChangedMsg reports that another process changed storage.
type storageChangedMsg struct{}

type statusKind int

const (
	statusInfo statusKind = iota
	statusWarn
)

// Options configure the interactive list.
type Options struct {
	ConfirmDelete bool
	Changes       <-chan struct{} // external storage changes, may be nil
	Logger        *zap.Logger
}

// Model is the Bubble Tea model of the todo screen.
type Model struct {
	store *todo.Store
	cat   *category.Controller
	opts  Options
	keys  keyMap
	log   *zap.Logger

	list  list.Model
	input textinput.Model

	adding     bool
	confirming bool
	pending    listItem

	status     string
	statusKind statusKind
	width      int
	height     int
}

func New(s *todo.Store, c *category.Controller, opts Options) Model {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	keys := defaultKeys()

	l := list.New(nil, itemDelegate{}, 0, 0)
	l.SetShowTitle(false)
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(false)
	l.SetStatusBarItemName("todo", "todos")
	l.Styles.HelpStyle = ui.Current().Muted
	l.Styles.PaginationStyle = ui.Current().Muted
	l.AdditionalShortHelpKeys = keys.shortHelp
	l.AdditionalFullHelpKeys = keys.shortHelp

	ti := textinput.New()
	ti.Prompt = "> "
	ti.CharLimit = 0 // unlimited, like wt add

	m := Model{
		store: s,
		cat:   c,
		opts:  opts,
		keys:  keys,
		log:   log,
		list:  l,
		input: ti,
	}
	m.refresh()
	return m
}

func (m Model) Init() tea.Cmd { return waitForChange(m.opts.Changes) }

func waitForChange(ch <-chan struct{}) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return storageChangedMsg{}
	}
}

func waitCommit(op string, c *todo.Commit) tea.Cmd {
	return func() tea.Msg {
		<-c.Done()
		return persistedMsg{op: op, err: c.Err()}
	}
}

// refresh rebuilds the visible list from the active category.
func (m *Model) refresh() {
	entries := m.store.Entries(m.cat.Get())
	items := make([]list.Item, 0, len(entries))
	for _, e := range entries {
		items = append(items, listItem{key: e.Key, text: e.Text})
	}
	m.list.SetItems(items)
	m.input.Placeholder = ui.Placeholder(m.cat.Get())
}

func (m *Model) selectKey(k string) {
	for i, it := range m.list.Items() {
		if li, ok := it.(listItem); ok && li.key == k {
			m.list.Select(i)
			return
		}
	}
}

func (m *Model) setStatus(kind statusKind, format string, args ...any) {
	m.statusKind = kind
	m.status = fmt.Sprintf(format, args...)
}

func (m *Model) resize() {
	h := m.height - 8
	if m.adding {
		h -= 3
	}
	if h < 3 {
		h = 3
	}
	m.list.SetSize(m.width-4, h)
	m.input.Width = m.width - 10
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil

	case persistedMsg:
		if msg.err != nil {
			m.log.Warn("write failed", zap.String("op", msg.op), zap.Error(msg.err))
			m.setStatus(statusWarn, "not saved: item may not survive restart (%v)", msg.err)
		}
		return m, nil

	case storageChangedMsg:
		changed, err := m.store.Reload(context.Background())
		switch {
		case err != nil:
			m.setStatus(statusWarn, "reload failed: %v", err)
		case changed:
			m.refresh()
			m.setStatus(statusInfo, "reloaded from storage")
		}
		return m, waitForChange(m.opts.Changes)
	}

	if m.confirming {
		return m.updateConfirm(msg)
	}
	if m.adding {
		return m.updateAdd(msg)
	}

	if km, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(km, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(km, m.keys.Work):
			m.cat.SwitchToWork()
			m.refresh()
			return m, nil
		case key.Matches(km, m.keys.Travel):
			m.cat.SwitchToTravel()
			m.refresh()
			return m, nil
		case key.Matches(km, m.keys.Switch):
			m.cat.Toggle()
			m.refresh()
			return m, nil
		case key.Matches(km, m.keys.Add):
			m.adding = true
			m.status = ""
			m.input.SetValue("")
			m.resize()
			return m, m.input.Focus()
		case key.Matches(km, m.keys.Delete):
			it, ok := m.list.SelectedItem().(listItem)
			if !ok {
				return m, nil
			}
			if !m.opts.ConfirmDelete {
				return m, m.delete(it)
			}
			m.confirming = true
			m.pending = it
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) updateAdd(msg tea.Msg) (tea.Model, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch {
		case km.String() == "ctrl+c":
			return m, tea.Quit
		case key.Matches(km, m.keys.Submit):
			k, commit := m.store.Add(m.input.Value(), m.cat.Get())
			if k == "" {
				return m, nil
			}
			m.input.SetValue("")
			m.refresh()
			m.selectKey(k)
			m.setStatus(statusInfo, "added")
			return m, waitCommit("add", commit)
		case key.Matches(km, m.keys.Cancel):
			m.adding = false
			m.input.SetValue("")
			m.input.Blur()
			m.resize()
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateConfirm(msg tea.Msg) (tea.Model, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case km.String() == "ctrl+c":
		return m, tea.Quit
	case key.Matches(km, m.keys.Confirm):
		it := m.pending
		m.confirming = false
		m.pending = listItem{}
		return m, m.delete(it)
	case key.Matches(km, m.keys.Decline):
		m.confirming = false
		m.pending = listItem{}
		m.setStatus(statusInfo, "delete cancelled")
	}
	return m, nil
}

func (m *Model) delete(it listItem) tea.Cmd {
	commit := m.store.Delete(it.key)
	m.refresh()
	m.setStatus(statusInfo, "deleted %q", ui.Truncate(it.text, 40))
	return waitCommit("delete", commit)
}

func (m Model) View() string {
	t := ui.Current()
	active := m.cat.Get()
	snap := m.store.Snapshot()

	var b strings.Builder
	b.WriteString(ui.Tabs(active))
	b.WriteString("\n")
	b.WriteString(t.Muted.Render(fmt.Sprintf("%s %d  %s %d",
		model.Work.Label(), snap.Count(model.Work),
		model.Travel.Label(), snap.Count(model.Travel))))
	b.WriteString("\n\n")

	if m.adding {
		b.WriteString(ui.Box(m.input.View()))
		b.WriteString("\n")
	}
	b.WriteString(m.list.View())

	if m.confirming {
		b.WriteString("\n")
		b.WriteString(ui.Box(strings.Join([]string{
			t.Title.Render("Delete todo"),
			"Are you sure? " + t.Muted.Render(ui.Truncate(m.pending.text, 40)),
			"",
			t.Error.Render("[y] I'm sure") + "   " + t.Muted.Render("[n] Cancel"),
		}, "\n")))
	}
	if m.status != "" {
		style := t.Muted
		if m.statusKind == statusWarn {
			style = t.Warn
		}
		b.WriteString("\n")
		b.WriteString(style.Render(m.status))
	}
	return ui.Box(b.String())
}
