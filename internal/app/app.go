package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sqlainsaad5/eventify-bell/internal/credential"
	"github.com/sqlainsaad5/eventify-bell/internal/keys"
	"github.com/sqlainsaad5/eventify-bell/internal/model"
	"github.com/sqlainsaad5/eventify-bell/internal/notify"
	"github.com/sqlainsaad5/eventify-bell/internal/remote"
	appsync "github.com/sqlainsaad5/eventify-bell/internal/sync"
	"github.com/sqlainsaad5/eventify-bell/internal/theme"
	"github.com/sqlainsaad5/eventify-bell/internal/ui"
	"github.com/sqlainsaad5/eventify-bell/internal/ui/bell"
	helpview "github.com/sqlainsaad5/eventify-bell/internal/ui/help"
)

// toastDuration is how long a status bar message stays up.
const toastDuration = 4 * time.Second

// actionTimeout bounds a select or clear-all issued from the UI.
const actionTimeout = 30 * time.Second

// Bell is the notification service the UI drives.
type Bell interface {
	List() []model.Notification
	UnreadCount() int
	Refresh()
	Results() <-chan appsync.PollResult
	Select(ctx context.Context, id model.ID) (notify.Selection, error)
	ClearAll(ctx context.Context) error
	Stop()
}

type pollResultMsg appsync.PollResult

type selectedMsg struct {
	sel notify.Selection
	err error
}

type clearedMsg struct {
	err error
}

type toastExpiredMsg struct {
	seq int
}

// ViewState is the active view.
type ViewState int

const (
	ViewList ViewState = iota
	ViewHelp
)

// Model is the root Bubble Tea model.
type Model struct {
	bell        Bell
	keys        *keys.KeyMap
	layout      ui.Layout
	list        bell.Model
	helpView    helpview.Model
	currentView ViewState
	ready       bool

	unread     int
	syncStatus string

	toast      string
	toastError bool
	toastSeq   int
}

// New creates the root model around b.
func New(b Bell) Model {
	k := keys.DefaultKeyMap()
	return Model{
		bell:       b,
		keys:       k,
		list:       bell.New(k, 80, 22),
		helpView:   helpview.New(k, 80, 22),
		syncStatus: "connecting",
	}
}

// Init starts listening for poll results.
func (m Model) Init() tea.Cmd {
	return m.waitForResult()
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		m.list.SetSize(msg.Width, m.layout.ContentHeight())
		m.helpView.SetSize(msg.Width, m.layout.ContentHeight())
		return m, nil

	case pollResultMsg:
		m.applyPollResult(appsync.PollResult(msg))
		return m, tea.Batch(m.reload(), m.waitForResult())

	case selectedMsg:
		cmd := m.showSelection(msg)
		return m, tea.Batch(m.reload(), cmd)

	case clearedMsg:
		var cmd tea.Cmd
		switch {
		case msg.err == nil:
			cmd = m.showToast("Notifications cleared", false)
		case errors.Is(msg.err, credential.ErrNoCredential):
			cmd = m.showToast("Sign in first: eventify-bell login", true)
		default:
			cmd = m.showToast("Couldn't clear notifications: "+msg.err.Error(), true)
		}
		return m, tea.Batch(m.reload(), cmd)

	case toastExpiredMsg:
		if msg.seq == m.toastSeq {
			m.toast = ""
		}
		return m, nil

	case bell.SelectMsg:
		return m, m.selectNotification(msg.ID)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.bell.Stop()
			return m, tea.Quit

		case key.Matches(msg, m.keys.Help):
			if m.currentView == ViewHelp {
				m.currentView = ViewList
			} else {
				m.currentView = ViewHelp
			}
			return m, nil

		case key.Matches(msg, m.keys.Back):
			m.currentView = ViewList
			return m, nil
		}

		if m.currentView != ViewList {
			return m, nil
		}

		switch {
		case key.Matches(msg, m.keys.Refresh):
			m.bell.Refresh()
			m.syncStatus = "syncing"
			return m, nil

		case key.Matches(msg, m.keys.ClearAll):
			return m, m.clearAll()
		}
	}

	if m.currentView != ViewList {
		return m, nil
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	badge := ""
	if m.unread > 0 {
		badge = fmt.Sprintf("%d NEW", m.unread)
	}
	header := m.layout.RenderHeader("Eventify Notifications", badge, m.syncStatus)

	var content string
	if m.currentView == ViewHelp {
		content = m.helpView.View()
	} else {
		content = m.list.View()
	}

	return m.layout.RenderWithFrame(header, content, m.layout.RenderStatusBar(m.statusText()))
}

func (m Model) statusText() string {
	if m.toast != "" {
		if m.toastError {
			return theme.ErrorStyle.Render(m.toast)
		}
		return theme.ToastStyle.Render(m.toast)
	}
	if m.currentView == ViewHelp {
		return "? close help | esc back"
	}
	return "enter open | c clear all | r refresh | ? help | q quit"
}

func (m *Model) applyPollResult(r appsync.PollResult) {
	m.list.SetDisabled(r.Disabled)
	switch {
	case r.Disabled:
		m.syncStatus = "signed out"
	case r.AuthError:
		m.syncStatus = "token rejected"
	case r.Error != nil:
		m.syncStatus = "offline, retrying"
	default:
		m.syncStatus = "synced " + r.At.Format("15:04:05")
	}
}

func (m *Model) showSelection(msg selectedMsg) tea.Cmd {
	if msg.err != nil {
		return m.showToast(msg.err.Error(), true)
	}
	sel := msg.sel
	switch {
	case remote.IsAuthError(sel.AckErr):
		return m.showToast("Token rejected; sign in again", true)
	case sel.AckErr != nil && !errors.Is(sel.AckErr, credential.ErrNoCredential):
		return m.showToast("Couldn't mark as read: "+sel.AckErr.Error(), true)
	case sel.URL != "":
		return m.showToast("Copied "+sel.URL, false)
	case sel.Routed:
		return m.showToast("Open "+sel.Destination.String(), false)
	default:
		return m.showToast("Nothing to open for this notification", false)
	}
}

// showToast sets the status bar message and schedules its removal.
func (m *Model) showToast(text string, isError bool) tea.Cmd {
	m.toastSeq++
	m.toast = text
	m.toastError = isError
	seq := m.toastSeq
	return tea.Tick(toastDuration, func(time.Time) tea.Msg {
		return toastExpiredMsg{seq: seq}
	})
}

// reload copies the service's current state into the view.
func (m *Model) reload() tea.Cmd {
	m.unread = m.bell.UnreadCount()
	return m.list.SetNotifications(m.bell.List())
}

// waitForResult blocks on the poller's result channel.
func (m Model) waitForResult() tea.Cmd {
	ch := m.bell.Results()
	return func() tea.Msg {
		r, ok := <-ch
		if !ok {
			return nil
		}
		return pollResultMsg(r)
	}
}

func (m Model) selectNotification(id model.ID) tea.Cmd {
	b := m.bell
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
		defer cancel()
		sel, err := b.Select(ctx, id)
		return selectedMsg{sel: sel, err: err}
	}
}

func (m Model) clearAll() tea.Cmd {
	b := m.bell
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
		defer cancel()
		return clearedMsg{err: b.ClearAll(ctx)}
	}
}
