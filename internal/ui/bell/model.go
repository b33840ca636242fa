package bell

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sqlainsaad5/eventify-bell/internal/keys"
	"github.com/sqlainsaad5/eventify-bell/internal/model"
	"github.com/sqlainsaad5/eventify-bell/internal/theme"
)

// MaxVisible is the number of notifications the bell shows.
const MaxVisible = 15

// SelectMsg is sent when the user opens a notification.
type SelectMsg struct {
	ID model.ID
}

// Model is the notification list view.
type Model struct {
	list     list.Model
	keys     *keys.KeyMap
	disabled bool
	width    int
	height   int
}

// New creates an empty bell list.
func New(k *keys.KeyMap, width, height int) Model {
	l := list.New([]list.Item{}, ItemDelegate{}, width, height)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()

	return Model{
		list:   l,
		keys:   k,
		width:  width,
		height: height,
	}
}

// SetNotifications replaces the visible items with the first MaxVisible
// entries of ns, keeping the cursor on the same notification when it is
// still present.
func (m *Model) SetNotifications(ns []model.Notification) tea.Cmd {
	if len(ns) > MaxVisible {
		ns = ns[:MaxVisible]
	}

	var focused model.ID
	if it, ok := m.list.SelectedItem().(Item); ok {
		focused = it.Notification.ID
	}

	items := make([]list.Item, len(ns))
	cursor := 0
	for i, n := range ns {
		items[i] = Item{Notification: n}
		if n.ID == focused {
			cursor = i
		}
	}
	cmd := m.list.SetItems(items)
	m.list.Select(cursor)
	return cmd
}

// SetDisabled switches the empty state to the signed-out message.
func (m *Model) SetDisabled(disabled bool) {
	m.disabled = disabled
}

// Selected returns the focused notification.
func (m Model) Selected() (model.Notification, bool) {
	it, ok := m.list.SelectedItem().(Item)
	if !ok {
		return model.Notification{}, false
	}
	return it.Notification, true
}

// Len returns the number of visible notifications.
func (m Model) Len() int {
	return len(m.list.Items())
}

// Update handles messages for the list view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && key.Matches(msg, m.keys.Select) {
		n, ok := m.Selected()
		if !ok {
			return m, nil
		}
		return m, func() tea.Msg { return SelectMsg{ID: n.ID} }
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the list or its empty state.
func (m Model) View() string {
	if len(m.list.Items()) == 0 {
		return m.renderEmptyState()
	}
	return m.list.View()
}

func (m Model) renderEmptyState() string {
	style := lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.ColorGray)

	if m.disabled {
		return style.Render("Not signed in.\n\nRun `eventify-bell login` to connect.")
	}
	return style.Render("Awaiting updates...")
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height)
}
