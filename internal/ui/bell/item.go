package bell

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/sqlainsaad5/eventify-bell/internal/model"
	"github.com/sqlainsaad5/eventify-bell/internal/theme"
)

// Item wraps a model.Notification so it can be used in a bubbles/list.
type Item struct {
	Notification model.Notification
}

// FilterValue returns the string used for fuzzy filtering.
func (i Item) FilterValue() string { return i.Notification.Title }

// Title returns the notification title.
func (i Item) Title() string { return i.Notification.Title }

// Description returns the notification body.
func (i Item) Description() string { return i.Notification.Message }

// ItemDelegate renders a notification as a title line and a body line.
type ItemDelegate struct {
	now func() time.Time
}

func (d ItemDelegate) Height() int { return 2 }

func (d ItemDelegate) Spacing() int { return 1 }

func (d ItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a single notification.
func (d ItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(Item)
	if !ok {
		return
	}
	n := it.Notification
	width := m.Width() - 4

	dot := " "
	if !n.IsRead {
		dot = theme.UnreadDotStyle.Render("●")
	}

	badge := ""
	if label := theme.Badge(n); label != "" {
		badge = theme.BadgeStyle(label).Render(label) + " "
	}

	title := n.Title
	if title == "" {
		title = "(untitled)"
	}

	line := fmt.Sprintf("%s %s%s  %s", dot, badge, title, theme.TimeStyle.Render(d.relativeTime(n.CreatedAt)))
	body := "  " + truncate(strings.TrimSpace(n.Message), width)

	if n.IsRead {
		line = theme.DimmedStyle.Render(line)
		body = theme.DimmedStyle.Render(body)
	}

	content := lipgloss.JoinVertical(lipgloss.Left, line, body)
	if index == m.Index() {
		content = theme.SelectedItemStyle.Render(content)
	} else {
		content = theme.ListItemStyle.Render(content)
	}

	fmt.Fprint(w, content)
}

func (d ItemDelegate) relativeTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	now := time.Now()
	if d.now != nil {
		now = d.now()
	}
	return humanize.RelTime(t, now, "ago", "from now")
}

// truncate shortens s to width runes, marking the cut with an ellipsis.
func truncate(s string, width int) string {
	if width <= 1 {
		return ""
	}
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-1]) + "…"
}
